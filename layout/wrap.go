package layout

import (
	"fmt"
	"strings"
)

// WrapText 使用贪心算法把文本拆成若干行，每行测得的宽度严格小于 width。
// 仅按单个空格分词（制表符与换行不做归一化）；单个超宽的词独占一行且不会被拆开。
// width <= 0 时每个词各占一行。空文本返回空切片。
func WrapText(ts TextShaper, text string, font FontResource, sizePt float64, width int) ([]string, error) {
	return wrapText(ts, text, font, sizePt, 0, width)
}

func wrapText(ts TextShaper, text string, font FontResource, sizePt, angle float64, width int) ([]string, error) {
	if text == "" {
		return []string{}, nil
	}
	if ts == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 TextShaper")
	}

	words := strings.Split(text, " ")
	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		bbox, err := ts.Measure(font, sizePt, angle, candidate)
		if err != nil {
			return nil, fmt.Errorf("layout: 测量 %q 失败: %w", candidate, err)
		}
		if bbox.Width() < width {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	lines = append(lines, current)
	return lines, nil
}
