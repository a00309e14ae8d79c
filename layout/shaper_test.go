package layout

import (
	"errors"
	"unicode/utf8"
)

// stubShaper 是测试用的等宽测量器：每个字符 charWidth 像素，上升 ascent、下降 descent。
type stubShaper struct {
	charWidth int
	ascent    int
	descent   int
	calls     []string
	failOn    string
}

func newStubShaper() *stubShaper {
	return &stubShaper{charWidth: 10, ascent: 10, descent: 2}
}

var errStubMeasure = errors.New("stub: measure failed")

func (s *stubShaper) Measure(font FontResource, sizePt, angle float64, text string) (BoundingBox, error) {
	s.calls = append(s.calls, text)
	if s.failOn != "" && text == s.failOn {
		return BoundingBox{}, errStubMeasure
	}
	w := utf8.RuneCountInString(text) * s.charWidth
	return NewBoundingBox(0, w, s.ascent, s.descent).Rotate(angle), nil
}

var testFont = FontResource{Name: "Body", Src: "fonts/body.ttf"}
