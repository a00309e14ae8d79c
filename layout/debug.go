package layout

import (
	"encoding/json"
	"io"
)

// WriteDebugJSON 将合成记录以缩进 JSON 写入 w，便于核对每一行的坐标与外框。
func WriteDebugJSON(res *Result, w io.Writer) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
