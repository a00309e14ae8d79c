package layout

import (
	"image"
	"math"
	"strconv"
	"strings"
)

// LineGap 是多行文本相邻两行之间固定追加的间距（px）。
const LineGap = 5

// Axis 表示位置槽位所控制的坐标轴。
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "none"
	}
}

// 位置关键字
const (
	KeywordTop    = "top"
	KeywordBottom = "bottom"
	KeywordLeft   = "left"
	KeywordRight  = "right"
	KeywordCenter = "center"
)

// AxisValue 是位置描述中的单个槽位：关键字或数值偏移。
type AxisValue struct {
	Keyword string  `json:"keyword,omitempty"`
	Number  float64 `json:"number,omitempty"`
	Numeric bool    `json:"numeric,omitempty"`
}

// Keyword 构造关键字槽位，关键字统一转为小写。
func Keyword(k string) AxisValue {
	return AxisValue{Keyword: strings.ToLower(strings.TrimSpace(k))}
}

// Offset 构造数值槽位。
func Offset(v float64) AxisValue { return AxisValue{Number: v, Numeric: true} }

func (v AxisValue) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Keyword
}

func (v AxisValue) valid() bool { return v.Numeric || v.Keyword != "" }

func (v AxisValue) is(keyword string) bool { return !v.Numeric && v.Keyword == keyword }

// Position 是两个槽位组成的位置描述，例如 (left, top) 或 (10, bottom)。
// 每个槽位控制哪个轴由关键字决定，而不是由下标决定（数值除外）。
type Position [2]AxisValue

// DefaultPosition 为未指定位置时使用的 (top, left)。
var DefaultPosition = Position{Keyword(KeywordTop), Keyword(KeywordLeft)}

// ParsePosition 将字符串列表解析为 Position：可解析为数字的元素视为偏移，其余视为关键字。
func ParsePosition(values ...string) (Position, error) {
	var pos Position
	if len(values) != 2 {
		return pos, ErrInvalidPositionSpec
	}
	for i, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return pos, ErrInvalidPositionSpec
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return pos, ErrInvalidPositionSpec
			}
			pos[i] = Offset(f)
			continue
		}
		pos[i] = Keyword(raw)
	}
	return pos, nil
}

// IsZero 报告两个槽位是否都未设置。
func (p Position) IsZero() bool { return !p[0].valid() && !p[1].valid() }

// Validate 检查两个槽位都已设置，且数值槽位为有限值。
func (p Position) Validate() error {
	for _, v := range p {
		if !v.valid() {
			return ErrInvalidPositionSpec
		}
		if v.Numeric && (math.IsInf(v.Number, 0) || math.IsNaN(v.Number)) {
			return ErrInvalidPositionSpec
		}
	}
	return nil
}

// AnchorsBottom 报告是否有槽位为 bottom；此时多行文本需要倒序放置。
func (p Position) AnchorsBottom() bool {
	return p[0].is(KeywordBottom) || p[1].is(KeywordBottom)
}

// Strings 返回便于输出的字符串形式。
func (p Position) Strings() []string { return []string{p[0].String(), p[1].String()} }

// assignAxes 是解析的第一遍：确定每个槽位控制的轴。
// center 在下标 0 且另一个槽位不是 left/right 时、或 y 轴已被前面的槽位占用时表示水平居中，否则表示垂直居中。
func assignAxes(p Position) ([2]Axis, error) {
	var axes [2]Axis
	if err := p.Validate(); err != nil {
		return axes, err
	}
	yAssigned := false
	for i, v := range p {
		var axis Axis
		switch {
		case v.Numeric:
			if i == 0 {
				axis = AxisX
			} else {
				axis = AxisY
			}
		case v.Keyword == KeywordLeft || v.Keyword == KeywordRight:
			axis = AxisX
		case v.Keyword == KeywordTop || v.Keyword == KeywordBottom:
			axis = AxisY
		case v.Keyword == KeywordCenter:
			other := p[1]
			if (i == 0 && !(other.is(KeywordLeft) || other.is(KeywordRight))) || yAssigned {
				axis = AxisX
			} else {
				axis = AxisY
			}
		default:
			return axes, &UnresolvedAxisError{Axis: AxisNone, Slot: i, Value: v.Keyword}
		}
		if axis == AxisY {
			yAssigned = true
		}
		axes[i] = axis
	}
	for _, want := range []Axis{AxisX, AxisY} {
		if axes[0] != want && axes[1] != want {
			return axes, &UnresolvedAxisError{Axis: want, Slot: -1}
		}
	}
	return axes, nil
}

// ResolveAnchor 计算一行文本的基线起点坐标。
// offset 为此前各行累计的行高，调用方在绘制后通过 Advance 取得下一行的偏移。
// 两个槽位必须分别控制 x 与 y，否则在 assignAxes 中即返回 UnresolvedAxisError。
func ResolveAnchor(bbox BoundingBox, pos Position, margin, layoutW, layoutH, offset float64) (Point, error) {
	axes, err := assignAxes(pos)
	if err != nil {
		return Point{}, err
	}

	lly := float64(bbox.LowerLeftY())
	uly := float64(bbox.UpperLeftY())
	// 顶部对齐时的基线位置：下降部 + 边距 + 上升部的一半
	fromTop := lly + margin - uly/2 + offset

	var p Point
	for i, v := range pos {
		switch axes[i] {
		case AxisX:
			switch {
			case v.Numeric:
				p.X = v.Number + margin
			case v.Keyword == KeywordRight:
				p.X = math.Floor(layoutW-float64(bbox.UpperRightX())) - margin
			case v.Keyword == KeywordLeft:
				p.X = margin
			case v.Keyword == KeywordCenter:
				p.X = float64(bbox.LowerLeftX()) + layoutW/2 - float64(bbox.UpperRightX())/2
			}
		case AxisY:
			switch {
			case v.Numeric:
				p.Y = v.Number + fromTop
			case v.Keyword == KeywordBottom:
				p.Y = layoutH - fromTop
			case v.Keyword == KeywordTop:
				p.Y = fromTop
			case v.Keyword == KeywordCenter:
				p.Y = lly + layoutH/2 - uly/2 + offset
			}
		}
	}
	return p, nil
}

// Advance 返回绘制完 bbox 对应的行之后的累计行高。
func Advance(bbox BoundingBox, offset float64) float64 {
	return offset + float64(bbox.Span()) + LineGap
}

// ResolveBox 计算 w×h 矩形（例如嵌入图片）在画布上的左上角位置。
// 轴的分配规则与 ResolveAnchor 相同，各关键字按矩形边缘对齐。
func ResolveBox(w, h int, pos Position, margin float64, layoutW, layoutH int) (image.Point, error) {
	axes, err := assignAxes(pos)
	if err != nil {
		return image.Point{}, err
	}
	var x, y float64
	for i, v := range pos {
		switch axes[i] {
		case AxisX:
			switch {
			case v.Numeric:
				x = v.Number + margin
			case v.Keyword == KeywordLeft:
				x = margin
			case v.Keyword == KeywordRight:
				x = float64(layoutW-w) - margin
			case v.Keyword == KeywordCenter:
				x = float64(layoutW-w) / 2
			}
		case AxisY:
			switch {
			case v.Numeric:
				y = v.Number + margin
			case v.Keyword == KeywordTop:
				y = margin
			case v.Keyword == KeywordBottom:
				y = float64(layoutH-h) - margin
			case v.Keyword == KeywordCenter:
				y = float64(layoutH-h) / 2
			}
		}
	}
	return image.Pt(int(math.Floor(x)), int(math.Floor(y))), nil
}
