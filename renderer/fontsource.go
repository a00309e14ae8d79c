package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/caption/fonts"
	"github.com/ByLCY/caption/layout"
)

// FontSource resolves a font resource to raw font bytes.
// src may be a file path (relative to BaseDir), embed:<name> for the bundled Go fonts,
// or built-in:<name> for blobs injected by the caller.
type FontSource struct {
	BaseDir string
	Blobs   map[string][]byte
}

// Bytes loads the font data, trying Fallback when Src cannot be loaded.
func (s FontSource) Bytes(font layout.FontResource) ([]byte, error) {
	data, err := s.load(font.Src)
	if err == nil {
		return data, nil
	}
	if font.Fallback == "" {
		return nil, fmt.Errorf("字体 %s: %w", fontLabel(font), err)
	}
	data, fbErr := s.load(font.Fallback)
	if fbErr != nil {
		return nil, fmt.Errorf("字体 %s: %w（后备字体 %s 同样失败: %v）", fontLabel(font), err, font.Fallback, fbErr)
	}
	return data, nil
}

func (s FontSource) load(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("缺少 src")
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := s.Blobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) && s.BaseDir != "" {
		path = filepath.Join(s.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件失败: %w", err)
	}
	return data, nil
}

// CacheKey identifies a loaded font face family.
func CacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s|%s", font.Name, font.Src, font.Style, font.Fallback)
}

func fontLabel(font layout.FontResource) string {
	if font.Name != "" {
		return font.Name
	}
	return font.Src
}
