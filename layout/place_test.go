package layout

import (
	"errors"
	"testing"
)

func request(t *testing.T, text string, pos ...string) TextRequest {
	t.Helper()
	return TextRequest{
		Text:     text,
		Font:     testFont,
		Position: mustPosition(t, pos...),
		Size:     10,
		Margin:   5,
	}
}

func TestPlaceTextTopWalksDown(t *testing.T) {
	ts := newStubShaper()
	// 换行宽度为 100 - 2*5 = 90，最多 8 个字符
	placements, err := PlaceText(ts, request(t, "aaa bbb ccc ddd", "left", "top"), 100, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(placements) != 2 {
		t.Fatalf("expected 2 lines, got %+v", placements)
	}
	if placements[0].Line != "aaa bbb" || placements[1].Line != "ccc ddd" {
		t.Fatalf("unexpected lines: %q %q", placements[0].Line, placements[1].Line)
	}
	// 每行跨度 12，再加 5 像素行距
	if placements[0].Offset != 0 || placements[1].Offset != 17 {
		t.Fatalf("unexpected offsets: %g %g", placements[0].Offset, placements[1].Offset)
	}
	if d := placements[1].At.Y - placements[0].At.Y; d != 17 {
		t.Fatalf("second line should be 17px lower, got %g", d)
	}
	for _, p := range placements {
		if p.At.X != 5 {
			t.Fatalf("left anchored line should start at margin, got %g", p.At.X)
		}
	}
}

func TestPlaceTextBottomReversesOrder(t *testing.T) {
	ts := newStubShaper()
	placements, err := PlaceText(ts, request(t, "aaa bbb ccc ddd eee", "right", "bottom"), 100, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wrapped, _ := WrapText(newStubShaper(), "aaa bbb ccc ddd eee", testFont, 10, 90)
	if len(placements) != len(wrapped) {
		t.Fatalf("line count mismatch: %d vs %d", len(placements), len(wrapped))
	}
	for i := range placements {
		if placements[i].Line != wrapped[len(wrapped)-1-i] {
			t.Fatalf("draw order should be reversed wrap order: %q vs %q", placements[i].Line, wrapped)
		}
	}
	// 第一条绘制的是最后一行，紧贴底边；后续行向上
	for i := 1; i < len(placements); i++ {
		if placements[i].At.Y >= placements[i-1].At.Y {
			t.Fatalf("bottom anchored lines must walk upward: %+v", placements)
		}
	}
}

func TestPlaceTextPreconditions(t *testing.T) {
	ts := newStubShaper()
	base := request(t, "hello", "left", "top")

	empty := base
	empty.Text = ""
	if _, err := PlaceText(ts, empty, 100, 100); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	noFont := base
	noFont.Font = FontResource{}
	if _, err := PlaceText(ts, noFont, 100, 100); !errors.Is(err, ErrMissingFont) {
		t.Fatalf("expected ErrMissingFont, got %v", err)
	}

	badPos := base
	badPos.Position = Position{Keyword("left")}
	if _, err := PlaceText(ts, badPos, 100, 100); !errors.Is(err, ErrInvalidPositionSpec) {
		t.Fatalf("expected ErrInvalidPositionSpec, got %v", err)
	}
	if len(ts.calls) != 0 {
		t.Fatalf("no measurement should happen before preconditions pass: %q", ts.calls)
	}
}

func TestPlaceTextUnresolvedAxisFailsBeforeMeasuring(t *testing.T) {
	ts := newStubShaper()
	_, err := PlaceText(ts, request(t, "hello world", "left", "middle"), 100, 100)
	if !errors.Is(err, ErrUnresolvedAxis) {
		t.Fatalf("expected ErrUnresolvedAxis, got %v", err)
	}
	if len(ts.calls) != 0 {
		t.Fatalf("unexpected measurements: %q", ts.calls)
	}
}

func TestPlaceTextLineMeasureError(t *testing.T) {
	ts := newStubShaper()
	ts.failOn = "ccc"
	_, err := PlaceText(ts, request(t, "aaaaaaaa ccc", "left", "top"), 100, 100)
	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected LineError, got %v", err)
	}
	if lineErr.Index != 1 || lineErr.Line != "ccc" || !errors.Is(err, errStubMeasure) {
		t.Fatalf("unexpected error detail: %+v", lineErr)
	}
}
