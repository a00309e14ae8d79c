package layout

import "math"

// 该文件定义排版核心使用的值类型，以及供调试 JSON 共用的结果描述。

// BoundingBox 是一段文本渲染后的紧致外框，共 8 个整数，依次为：
// 左下 x、左下 y、右下 x、右下 y、右上 x、右上 y、左上 x、左上 y。
// 坐标以基线起点为原点，y 轴向下（基线以上为负值）。
type BoundingBox [8]int

func (b BoundingBox) LowerLeftX() int  { return b[0] }
func (b BoundingBox) LowerLeftY() int  { return b[1] }
func (b BoundingBox) LowerRightX() int { return b[2] }
func (b BoundingBox) LowerRightY() int { return b[3] }
func (b BoundingBox) UpperRightX() int { return b[4] }
func (b BoundingBox) UpperRightY() int { return b[5] }
func (b BoundingBox) UpperLeftX() int  { return b[6] }
func (b BoundingBox) UpperLeftY() int  { return b[7] }

// Width 返回右边界减左边界，换行判断使用该值。
func (b BoundingBox) Width() int { return b[2] - b[0] }

// Span 返回下降部到上升部的总高度。
func (b BoundingBox) Span() int { return b[1] - b[7] }

// NewBoundingBox 由水平范围与上升/下降高度构造未旋转的外框。
// ascent 与 descent 都取正值。
func NewBoundingBox(left, right, ascent, descent int) BoundingBox {
	return BoundingBox{
		left, descent,
		right, descent,
		right, -ascent,
		left, -ascent,
	}
}

// Rotate 将四个角绕基线原点逆时针旋转 angle 度，结果四舍五入为整数像素。
func (b BoundingBox) Rotate(angle float64) BoundingBox {
	if angle == 0 {
		return b
	}
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	var out BoundingBox
	for i := 0; i < 8; i += 2 {
		x := float64(b[i])
		// y 轴向下，先翻转到数学坐标系再旋转
		y := -float64(b[i+1])
		rx := x*cos - y*sin
		ry := x*sin + y*cos
		out[i] = int(math.Round(rx))
		out[i+1] = int(math.Round(-ry))
	}
	return out
}

// Point 是解析后的绘制坐标（文本为基线起点，图片为左上角）。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FontResource 描述字体资源，src 可以是文件路径、embed:<name> 或 builtin:<name>。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Placement 记录单行文本的最终绘制位置。
type Placement struct {
	Line   string      `json:"line"`
	At     Point       `json:"at"`
	BBox   BoundingBox `json:"bbox"`
	Offset float64     `json:"offset"` // 绘制该行时累计的行高偏移
}

// Result 保存一次合成中所有已放置的元素，供调试输出使用。
type Result struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Format string      `json:"format"`
	Texts  []TextBlock `json:"texts"`
	Images []ImageBox  `json:"images"`
	Meta   Meta        `json:"meta"`
}

// TextBlock 对应一次 SetText 调用的结果。
type TextBlock struct {
	Content  string      `json:"content"`
	Font     string      `json:"font"`
	Size     float64     `json:"size"`
	Margin   float64     `json:"margin"`
	Position []string    `json:"position"`
	Color    Color       `json:"color"`
	Lines    []Placement `json:"lines"`
}

// ImageBox 记录嵌入图片的位置与尺寸（像素）。
type ImageBox struct {
	Src    string `json:"src"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Meta 保存脚本中的描述信息。
type Meta struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}
