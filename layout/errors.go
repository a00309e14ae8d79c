package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPositionSpec 表示位置描述不是恰好两个有效元素。
	ErrInvalidPositionSpec = errors.New("layout: 位置描述必须恰好包含两个元素")
	// ErrUnresolvedAxis 表示某个坐标轴没有得到取值。
	ErrUnresolvedAxis = errors.New("layout: 坐标轴未能解析")
	// ErrEmptyText 表示待绘制文本为空。
	ErrEmptyText = errors.New("layout: 文本内容为空")
	// ErrMissingFont 表示没有指定字体。
	ErrMissingFont = errors.New("layout: 缺少字体")
)

// UnresolvedAxisError 指出哪个轴、哪个槽位导致解析失败。
// Slot 为 -1 时表示该轴没有任何槽位负责。
type UnresolvedAxisError struct {
	Axis  Axis
	Slot  int
	Value string
}

func (e *UnresolvedAxisError) Error() string {
	if e.Slot < 0 {
		return fmt.Sprintf("layout: 位置描述未指定 %s 轴", e.Axis)
	}
	return fmt.Sprintf("layout: 无法识别位置关键字 %q（第 %d 个槽位）", e.Value, e.Slot)
}

func (e *UnresolvedAxisError) Unwrap() error { return ErrUnresolvedAxis }

// LineError 包装某一行在测量或定位阶段的失败。
type LineError struct {
	Index int
	Line  string
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("layout: 第 %d 行 %q 处理失败: %v", e.Index+1, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
