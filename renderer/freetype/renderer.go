// Package ftrenderer measures and draws text with github.com/golang/freetype.
// Bounding boxes are taken from the glyph ink, which matches what GD-style
// callers expect from a text bounding-box query.
package ftrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/renderer"
)

// ErrRotationUnsupported is returned for a non-zero angle; font.Drawer only draws horizontal runs.
var ErrRotationUnsupported = errors.New("ftrenderer: 不支持旋转文本")

// Renderer is a renderer.Shaper backed by truetype faces.
// Faces are not safe for concurrent use, so every call holds mu.
type Renderer struct {
	source renderer.FontSource

	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

var _ renderer.Shaper = (*Renderer)(nil)

type faceKey struct {
	font string
	size float64
}

// NewRenderer creates a renderer resolving relative font paths against baseDir.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		source: renderer.FontSource{BaseDir: baseDir},
		fonts:  map[string]*truetype.Font{},
		faces:  map[faceKey]font.Face{},
	}
}

// Measure returns the ink bounding box of text drawn at the origin.
func (r *Renderer) Measure(f layout.FontResource, sizePt, angle float64, text string) (layout.BoundingBox, error) {
	if angle != 0 {
		return layout.BoundingBox{}, ErrRotationUnsupported
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	face, err := r.face(f, sizePt)
	if err != nil {
		return layout.BoundingBox{}, err
	}
	bounds, _ := font.BoundString(face, text)
	return layout.BoundingBox{
		bounds.Min.X.Floor(), bounds.Max.Y.Ceil(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
		bounds.Max.X.Ceil(), bounds.Min.Y.Floor(),
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
	}, nil
}

// DrawText draws text with its baseline starting at (x, y).
func (r *Renderer) DrawText(dst draw.Image, f layout.FontResource, sizePt, angle, x, y float64, col color.Color, text string) error {
	if angle != 0 {
		return ErrRotationUnsupported
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	face, err := r.face(f, sizePt)
	if err != nil {
		return err
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(text)
	return nil
}

func (r *Renderer) face(f layout.FontResource, sizePt float64) (font.Face, error) {
	if sizePt <= 0 {
		return nil, fmt.Errorf("字号必须为正数，当前为 %g", sizePt)
	}
	key := faceKey{font: renderer.CacheKey(f), size: sizePt}
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	ttf, ok := r.fonts[key.font]
	if !ok {
		data, err := r.source.Bytes(f)
		if err != nil {
			return nil, err
		}
		ttf, err = truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", f.Src, err)
		}
		r.fonts[key.font] = ttf
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    sizePt,
		DPI:     layout.DPI,
		Hinting: font.HintingFull,
	})
	r.faces[key] = face
	return face, nil
}
