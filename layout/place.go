package layout

import "fmt"

// Validate 独立检查文本嵌入的各项前置条件。
func (r TextRequest) Validate() error {
	if r.Text == "" {
		return ErrEmptyText
	}
	if r.Font.Src == "" && r.Font.Name == "" {
		return ErrMissingFont
	}
	if err := r.Position.Validate(); err != nil {
		return err
	}
	if r.Size <= 0 {
		return fmt.Errorf("layout: 字号必须为正数，当前为 %g", r.Size)
	}
	return nil
}

// PlaceText 对文本进行换行并计算每一行的绘制坐标，整个过程不产生任何绘制副作用。
// 换行宽度为画布宽度减去左右两侧边距。位置包含 bottom 时行序倒转，使累计行高始终远离锚定边。
// 任一行测量或定位失败都会中止整个调用并返回 *LineError。
func PlaceText(ts TextShaper, req TextRequest, layoutW, layoutH int) ([]Placement, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 TextShaper")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	// 位置描述不合法时在处理任何一行之前失败
	if _, err := assignAxes(req.Position); err != nil {
		return nil, err
	}

	area := layoutW - int(req.Margin*2)
	lines, err := wrapText(ts, req.Text, req.Font, req.Size, req.Angle, area)
	if err != nil {
		return nil, err
	}
	if req.Position.AnchorsBottom() {
		reverse(lines)
	}

	placements := make([]Placement, 0, len(lines))
	offset := 0.0
	for i, line := range lines {
		bbox, err := ts.Measure(req.Font, req.Size, req.Angle, line)
		if err != nil {
			return nil, &LineError{Index: i, Line: line, Err: err}
		}
		at, err := ResolveAnchor(bbox, req.Position, req.Margin, float64(layoutW), float64(layoutH), offset)
		if err != nil {
			return nil, &LineError{Index: i, Line: line, Err: err}
		}
		placements = append(placements, Placement{Line: line, At: at, BBox: bbox, Offset: offset})
		offset = Advance(bbox, offset)
	}
	return placements, nil
}

func reverse(lines []string) {
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
}
