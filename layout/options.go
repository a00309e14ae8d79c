package layout

// TextShaper 负责测量文本的外框。sizePt 为字号（pt），angle 为逆时针旋转角度（度）。
// 返回的外框单位为像素，坐标约定见 BoundingBox。
type TextShaper interface {
	Measure(font FontResource, sizePt, angle float64, text string) (BoundingBox, error)
}

// TextRequest 描述一次文本嵌入所需的全部输入。
type TextRequest struct {
	Text     string
	Font     FontResource
	Position Position
	Size     float64 // pt
	Margin   float64 // px
	Angle    float64
}
