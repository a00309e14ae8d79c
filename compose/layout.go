package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/raster"
	"github.com/ByLCY/caption/renderer"
)

// 未指定尺寸时生成的画布大小与底色。
const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultSize   = 10.0 // pt
)

var DefaultBackground = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Options 描述底图来源。Base 为空时按 Width×Height 生成纯色画布。
type Options struct {
	Base       string
	BaseDir    string // 解析 Base 与嵌入图片相对路径的目录
	Width      int
	Height     int
	Background color.Color
	Format     raster.Format // 覆盖 Render 使用的输出格式
}

// Layout 持有底图画布，负责在其上叠加文本与图片。
// Layout 不是并发安全的，多个调用方共享同一实例时需要自行串行化。
type Layout struct {
	shaper    renderer.Shaper
	canvas    *raster.Canvas
	format    raster.Format
	baseDir   string
	generated bool
	texts     []layout.TextBlock
	images    []layout.ImageBox
	meta      layout.Meta
}

// New 加载底图或生成纯色画布。底图不存在或不可读时返回错误；
// 底图格式不受支持时退回到生成的画布。
func New(shaper renderer.Shaper, opts Options) (*Layout, error) {
	if shaper == nil {
		return nil, fmt.Errorf("compose: 缺少文本后端 Shaper")
	}
	l := &Layout{shaper: shaper, baseDir: opts.BaseDir}

	if opts.Base != "" {
		img, format, err := raster.Load(l.resolvePath(opts.Base))
		switch {
		case err == nil:
			l.canvas = raster.FromImage(img)
			l.format = format
		case errors.Is(err, raster.ErrUnsupportedFormat):
			Logger().Warn("底图格式不受支持，改用纯色画布", "base", opts.Base, "err", err)
		default:
			return nil, fmt.Errorf("compose: 加载底图失败: %w", err)
		}
	}
	if l.canvas == nil {
		w, h := opts.Width, opts.Height
		if w <= 0 {
			w = DefaultWidth
		}
		if h <= 0 {
			h = DefaultHeight
		}
		bg := opts.Background
		if bg == nil {
			bg = DefaultBackground
		}
		l.canvas = raster.New(w, h)
		l.canvas.Fill(bg)
		l.format = raster.PNG
		l.generated = true
	}
	if opts.Format != "" {
		l.format = opts.Format
	}
	return l, nil
}

func (l *Layout) Width() int  { return l.canvas.Width() }
func (l *Layout) Height() int { return l.canvas.Height() }

// Generated 报告画布是否为生成的纯色画布。
func (l *Layout) Generated() bool { return l.generated }

// Image 返回当前画布像素。
func (l *Layout) Image() image.Image { return l.canvas.Image() }

// ContentType 返回 Render 输出的 MIME 类型。
func (l *Layout) ContentType() string { return l.format.MIME() }

// SetMeta 记录脚本描述信息，仅出现在调试输出中。
func (l *Layout) SetMeta(m layout.Meta) { l.meta = m }

// Text 描述一次文本嵌入。零值字段使用默认值：位置 (top, left)、字号 10pt、黑色。
type Text struct {
	Content  string
	Font     layout.FontResource
	Position layout.Position
	Size     float64 // pt
	Margin   float64 // px
	Angle    float64
	Color    color.Color
}

// SetText 换行并定位文本后绘制到画布。所有行都定位成功后才开始绘制，
// 绘制在画布副本上进行，任何失败都会保持原画布不变。
func (l *Layout) SetText(t Text) error {
	if t.Position.IsZero() {
		t.Position = layout.DefaultPosition
	}
	if t.Size == 0 {
		t.Size = DefaultSize
	}
	if t.Color == nil {
		t.Color = color.Black
	}
	req := layout.TextRequest{
		Text:     t.Content,
		Font:     t.Font,
		Position: t.Position,
		Size:     t.Size,
		Margin:   t.Margin,
		Angle:    t.Angle,
	}
	placements, err := layout.PlaceText(l.shaper, req, l.Width(), l.Height())
	if err != nil {
		return err
	}

	work := l.canvas.Clone()
	for i, p := range placements {
		if err := l.shaper.DrawText(work.Image(), t.Font, t.Size, t.Angle, p.At.X, p.At.Y, t.Color, p.Line); err != nil {
			return &layout.LineError{Index: i, Line: p.Line, Err: err}
		}
		Logger().Debug("绘制文本行", "line", p.Line, "x", p.At.X, "y", p.At.Y, "offset", p.Offset)
	}
	l.canvas = work

	r, g, b, _ := t.Color.RGBA()
	l.texts = append(l.texts, layout.TextBlock{
		Content:  t.Content,
		Font:     t.Font.Name,
		Size:     t.Size,
		Margin:   t.Margin,
		Position: t.Position.Strings(),
		Color:    layout.Color{R: int(r >> 8), G: int(g >> 8), B: int(b >> 8)},
		Lines:    placements,
	})
	return nil
}

// Embed 描述一张需要嵌入的图片。Image 为空时从 Src 加载；Width/Height 大于 0 时按该尺寸缩放，
// 只给出其一时按比例推算另一边。
type Embed struct {
	Src      string
	Image    image.Image
	Position layout.Position
	Margin   float64
	Width    int
	Height   int
}

// EmbedImage 按位置描述把图片绘制到画布上，位置规则与文本相同，但以图片边缘对齐。
func (l *Layout) EmbedImage(e Embed) error {
	img := e.Image
	if img == nil {
		if e.Src == "" {
			return fmt.Errorf("compose: 嵌入图片缺少 src")
		}
		loaded, _, err := raster.Load(l.resolvePath(e.Src))
		if err != nil {
			return fmt.Errorf("compose: 加载嵌入图片失败: %w", err)
		}
		img = loaded
	}
	if e.Position.IsZero() {
		e.Position = layout.DefaultPosition
	}

	b := img.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), e.Width, e.Height)
	at, err := layout.ResolveBox(w, h, e.Position, e.Margin, l.Width(), l.Height())
	if err != nil {
		return err
	}
	if w == b.Dx() && h == b.Dy() {
		l.canvas.Blit(img, at.X, at.Y, b)
	} else {
		l.canvas.BlitScaled(img, image.Rect(at.X, at.Y, at.X+w, at.Y+h))
	}
	Logger().Debug("嵌入图片", "src", e.Src, "x", at.X, "y", at.Y, "w", w, "h", h)

	l.images = append(l.images, layout.ImageBox{Src: e.Src, X: at.X, Y: at.Y, Width: w, Height: h})
	return nil
}

func scaledSize(srcW, srcH, w, h int) (int, int) {
	switch {
	case w > 0 && h > 0:
		return w, h
	case w > 0 && srcW > 0:
		return w, srcH * w / srcW
	case h > 0 && srcH > 0:
		return srcW * h / srcH, h
	default:
		return srcW, srcH
	}
}

// Render 以底图的格式（生成的画布为 png）编码输出。
func (l *Layout) Render(w io.Writer) error {
	return raster.Encode(w, l.canvas.Image(), l.format)
}

// Save 按文件扩展名（png/jpg/jpeg/gif）选择格式写出文件。
func (l *Layout) Save(path string) (err error) {
	if path == "" {
		return fmt.Errorf("compose: 输出路径为空")
	}
	format, err := raster.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("compose: 创建输出文件失败: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := raster.Encode(f, l.canvas.Image(), format); err != nil {
		return fmt.Errorf("compose: 写入 %s 失败: %w", path, err)
	}
	return nil
}

// Result 返回目前为止所有放置记录的快照。
func (l *Layout) Result() *layout.Result {
	return &layout.Result{
		Width:  l.Width(),
		Height: l.Height(),
		Format: string(l.format),
		Texts:  append([]layout.TextBlock(nil), l.texts...),
		Images: append([]layout.ImageBox(nil), l.images...),
		Meta:   l.meta,
	}
}

func (l *Layout) resolvePath(p string) string {
	if l.baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.baseDir, p)
}
