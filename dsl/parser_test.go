package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/caption/dsl"
)

const sampleDSL = `
doc Banner v1 {
  meta {
    title: "Sale"
    keywords: [
      "banner"
      "internal"
    ]
  }

  resources {
    font Body {
      src: "fonts/Inter-Regular.ttf"
      fallback: "embed:goregular"
    }

    color Ink = #0F62FE
    image Logo { src: "logo.png" }
  }

  canvas 800 600 background #333 {
    text Body at center bottom size 24pt margin 10px color Ink { "Hello, ${user.name}!" }
    image Logo at right -4 margin 8
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Banner" || doc.Version != "v1" {
		t.Fatalf("unexpected header %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	for i, want := range []string{"meta", "resources", "canvas"} {
		if got := doc.Sections[i].Kind(); got != want {
			t.Fatalf("section %d: expected %s, got %s", i, want, got)
		}
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "Sale" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected keywords array assignment")
	}

	res := doc.Sections[1].Resources
	colorCmd := res.Block.Statements[1].Command
	if colorCmd == nil || colorCmd.Name != "color" {
		t.Fatalf("expected color command, got %+v", res.Block.Statements[1])
	}
	if last := colorCmd.Args[len(colorCmd.Args)-1]; last.Type != "Color" || last.Value != "#0F62FE" {
		t.Fatalf("color literal should be lexed whole, got %+v", last)
	}

	canvas := doc.Sections[2].Canvas
	if got := tokensToString(canvas.Params); got != "800 600 background #333" {
		t.Fatalf("unexpected canvas params: %s", got)
	}
	if len(canvas.Block.Statements) != 2 {
		t.Fatalf("expected 2 canvas statements, got %d", len(canvas.Block.Statements))
	}

	textCmd := canvas.Block.Statements[0].Command
	if textCmd == nil || textCmd.Name != "text" {
		t.Fatalf("expected text command, got %+v", canvas.Block.Statements[0])
	}
	if got := tokensToString(textCmd.Args); got != "Body at center bottom size 24pt margin 10px color Ink" {
		t.Fatalf("unexpected text args: %s", got)
	}
	if textCmd.Block == nil || textCmd.Block.Statements[0].Text == nil {
		t.Fatalf("text command missing literal content")
	}
	if got := string(textCmd.Block.Statements[0].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	imageCmd := canvas.Block.Statements[1].Command
	if imageCmd == nil || imageCmd.Name != "image" || imageCmd.Block != nil {
		t.Fatalf("expected block-less image command, got %+v", canvas.Block.Statements[1])
	}
	if got := tokensToString(imageCmd.Args); got != "Logo at right - 4 margin 8" {
		t.Fatalf("unexpected image args: %s", got)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString(`doc X v1 { page A4 { } }`); err == nil {
		t.Fatalf("expected parse error for unknown section")
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
