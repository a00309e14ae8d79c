package renderer

import (
	"image/color"
	"image/draw"

	"github.com/ByLCY/caption/layout"
)

// Shaper 测量并绘制单行文本。x、y 为基线起点（像素，y 轴向下）。
type Shaper interface {
	layout.TextShaper
	DrawText(dst draw.Image, font layout.FontResource, sizePt, angle, x, y float64, col color.Color, text string) error
}
