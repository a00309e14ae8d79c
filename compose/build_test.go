package compose

import (
	"errors"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/caption/dsl"
	"github.com/ByLCY/caption/layout"
)

const bannerScript = `
doc Banner v1 {
  meta {
    title: "Sale"
    author: "ops"
  }

  resources {
    font Body {
      src: "fonts/missing.ttf"
      fallback: "embed:goregular"
    }
    color Ink = #FF0000
    image Logo {
      src: "logo.png"
      width: 20
    }
  }

  canvas 200 100 background #FFFFFF {
    text Body at center bottom size 12pt margin 10px color Ink { "Hello ${user.name|guest}" }
    image Logo at right -4 margin 8
    sparkle at top left
  }
}
`

func mustParse(t *testing.T, src string) *dsl.Document {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestBuildBanner(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"), 10, 5, color.Black)

	s := &stubShaper{}
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	l, err := Build(mustParse(t, bannerScript), data, BuildOptions{Shaper: s, BaseDir: dir})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if l.Width() != 200 || l.Height() != 100 {
		t.Fatalf("unexpected canvas %dx%d", l.Width(), l.Height())
	}

	if len(s.draws) != 1 {
		t.Fatalf("expected one text line, got %+v", s.draws)
	}
	// "Hello Ada" 宽 90：x = 100 - 45，y = 100 - (2 + 10 + 5)
	if d := s.draws[0]; d.Line != "Hello Ada" || d.X != 55 || d.Y != 83 {
		t.Fatalf("unexpected draw %+v", d)
	}
	if got := l.Image().At(55, 82); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("expected Ink pixel, got %v", got)
	}

	res := l.Result()
	if res.Meta.Title != "Sale" || res.Meta.Author != "ops" {
		t.Fatalf("unexpected meta %+v", res.Meta)
	}
	tb := res.Texts[0]
	if tb.Size != 12 || tb.Margin != 10 || tb.Color != (layout.Color{R: 255}) || tb.Font != "Body" {
		t.Fatalf("unexpected text block %+v", tb)
	}
	if got := strings.Join(tb.Position, ","); got != "center,bottom" {
		t.Fatalf("unexpected position %s", got)
	}

	if len(res.Images) != 1 {
		t.Fatalf("expected one image, got %+v", res.Images)
	}
	// right → 200 - 20 - 8；数值 -4 控制 y → -4 + 8
	if img := res.Images[0]; img.X != 172 || img.Y != 4 || img.Width != 20 || img.Height != 10 {
		t.Fatalf("unexpected image box %+v", img)
	}
}

func TestBuildDefaultFontAndFormat(t *testing.T) {
	src := `
doc Plain v1 {
  canvas 40mm 20 format jpg {
    text at 5 5 { "hi" }
  }
}
`
	s := &stubShaper{}
	l, err := Build(mustParse(t, src), nil, BuildOptions{Shaper: s})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if l.Width() != 151 || l.Height() != 20 {
		t.Fatalf("expected 151x20 canvas, got %dx%d", l.Width(), l.Height())
	}
	if l.ContentType() != "image/jpeg" {
		t.Fatalf("expected jpeg output, got %s", l.ContentType())
	}
	if font := l.Result().Texts[0].Font; font != "Body" {
		t.Fatalf("expected default Body font, got %s", font)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		want error
	}{
		"unknown font": {
			src:  `doc X v1 { canvas { text Heading { "hi" } } }`,
			want: layout.ErrMissingFont,
		},
		"short position": {
			src:  `doc X v1 { canvas { text at left { "hi" } } }`,
			want: layout.ErrInvalidPositionSpec,
		},
		"empty text": {
			src:  `doc X v1 { canvas { text at left top { "" } } }`,
			want: layout.ErrEmptyText,
		},
		"misspelled argument": {
			src:  `doc X v1 { canvas { text at left top colour #FF0000 { "hi" } } }`,
			want: ErrUnknownArgument,
		},
		"infinite offset": {
			src:  `doc X v1 { canvas { text at inf top { "hi" } } }`,
			want: layout.ErrInvalidPositionSpec,
		},
		"nan offset": {
			src:  `doc X v1 { canvas { image "logo.png" at left NaN } }`,
			want: layout.ErrInvalidPositionSpec,
		},
	}
	for name, tc := range cases {
		_, err := Build(mustParse(t, tc.src), nil, BuildOptions{Shaper: &stubShaper{}})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}

	if _, err := Build(mustParse(t, `doc X v1 { meta { title: "x" } }`), nil, BuildOptions{Shaper: &stubShaper{}}); err == nil {
		t.Fatalf("expected error for document without canvas")
	}
	if _, err := Build(mustParse(t, `doc X v1 { canvas background Missing { } }`), nil, BuildOptions{Shaper: &stubShaper{}}); err == nil {
		t.Fatalf("expected error for undefined colour")
	}
	_, err := Build(mustParse(t, `doc X v1 { canvas { text at left top size 0pt { "hi" } } }`), nil, BuildOptions{Shaper: &stubShaper{}})
	if err == nil || !strings.Contains(err.Error(), "0pt") {
		t.Fatalf("expected error naming the zero size, got %v", err)
	}
	if _, err := Build(nil, nil, BuildOptions{Shaper: &stubShaper{}}); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestParseArgs(t *testing.T) {
	doc := mustParse(t, `doc X v1 { canvas { text Body at -10 bottom size 9 color = #123 { "x" } } }`)
	cmd := doc.Sections[0].Canvas.Block.Statements[0].Command
	args, err := parseArgs(cmd.Args)
	if err != nil {
		t.Fatalf("parseArgs error: %v", err)
	}
	if args.Name != "Body" {
		t.Fatalf("expected name Body, got %q", args.Name)
	}
	if strings.Join(args.At, ",") != "-10,bottom" {
		t.Fatalf("unexpected at %v", args.At)
	}
	if args.Attrs["size"] != "9" || args.Attrs["color"] != "#123" {
		t.Fatalf("unexpected attrs %v", args.Attrs)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#fff":      {R: 255, G: 255, B: 255, A: 255},
		"#336699":   {R: 0x33, G: 0x66, B: 0x99, A: 255},
		"#33669980": {R: 0x33, G: 0x66, B: 0x99, A: 0x80},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%s) = %v, %v", in, got, err)
		}
	}
	for _, bad := range []string{"#12", "#zzzzzz", "red"} {
		if _, err := parseColor(bad); err == nil {
			t.Fatalf("parseColor(%s) should fail", bad)
		}
	}
}
