package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/renderer"
)

// glyphPad is the transparent border kept around each rasterized line.
const glyphPad = 2

// Renderer measures and draws text via github.com/tdewolff/canvas.
// Canvas units are mapped 1:1 onto pixels, font sizes are converted from pt at 96 dpi.
type Renderer struct {
	source renderer.FontSource

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var _ renderer.Shaper = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string][]byte // built-in fonts accessible via built-in:<name>
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	blobs := map[string][]byte{}
	for name, data := range opts.Fonts {
		if name == "" || len(data) == 0 {
			continue
		}
		blobs[name] = data
	}
	return &Renderer{
		source:       renderer.FontSource{BaseDir: opts.BaseDir, Blobs: blobs},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Measure 实现 layout.TextShaper：宽度取前进宽度，高度取字体的上升/下降度量。
func (r *Renderer) Measure(font layout.FontResource, sizePt, angle float64, text string) (layout.BoundingBox, error) {
	face, err := r.fontFace(font, sizePt, color.Black)
	if err != nil {
		return layout.BoundingBox{}, err
	}
	return measureFace(face, text).Rotate(angle), nil
}

// DrawText 将单行文本栅格化后以 alpha 混合绘制到 dst，(x, y) 为基线起点。
func (r *Renderer) DrawText(dst draw.Image, font layout.FontResource, sizePt, angle, x, y float64, col color.Color, text string) error {
	if text == "" {
		return nil
	}
	face, err := r.fontFace(font, sizePt, col)
	if err != nil {
		return err
	}

	minX, minY, maxX, maxY := extents(measureFace(face, text).Rotate(angle))
	w := maxX - minX + 2*glyphPad
	h := maxY - minY + 2*glyphPad

	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	// canvas 默认 y 轴向上，基线位于离顶部 glyphPad-minY 像素处
	ox := float64(glyphPad - minX)
	oy := float64(h - (glyphPad - minY))
	if angle != 0 {
		ctx.RotateAbout(angle, ox, oy)
	}
	ctx.DrawText(ox, oy, canvas.NewTextLine(face, text, canvas.Left))

	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	dx := int(x) + minX - glyphPad
	dy := int(y) + minY - glyphPad
	bounds := img.Bounds()
	draw.Draw(dst, image.Rect(dx, dy, dx+bounds.Dx(), dy+bounds.Dy()), img, bounds.Min, draw.Over)
	return nil
}

func measureFace(face *canvas.FontFace, text string) layout.BoundingBox {
	metrics := face.Metrics()
	width := int(math.Ceil(face.TextWidth(text)))
	ascent := int(math.Ceil(metrics.Ascent))
	descent := int(math.Ceil(math.Abs(metrics.Descent)))
	return layout.NewBoundingBox(0, width, ascent, descent)
}

func extents(b layout.BoundingBox) (minX, minY, maxX, maxY int) {
	minX, minY = b[0], b[1]
	maxX, maxY = b[0], b[1]
	for i := 2; i < 8; i += 2 {
		minX = min(minX, b[i])
		maxX = max(maxX, b[i])
		minY = min(minY, b[i+1])
		maxY = max(maxY, b[i+1])
	}
	return minX, minY, maxX, maxY
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64, col color.Color) (*canvas.FontFace, error) {
	if sizePt <= 0 {
		return nil, fmt.Errorf("字号必须为正数，当前为 %g", sizePt)
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	rgba := color.RGBAModel.Convert(col).(color.RGBA)
	return family.Face(faceSize(sizePt), rgba, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := renderer.CacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	data, err := r.source.Bytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", familyName, err)
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

// faceSize 把 pt 字号换算为 canvas 的字号参数，使渲染后的 em 高度等于 96 dpi 下的像素数。
// canvas 内部按 mm 处理字号，而本渲染器把 1 个画布单位当作 1 像素。
func faceSize(sizePt float64) float64 {
	return sizePt * layout.PtToPx * layout.MmToPt
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
