package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat 表示图片格式不在 png/jpeg/gif 之内。
var ErrUnsupportedFormat = errors.New("raster: 不支持的图片格式")

// Format 是支持读写的图片格式。
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

// MIME 返回格式对应的 Content-Type。
func (f Format) MIME() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	default:
		return "image/png"
	}
}

// FormatFromMIME 将 MIME 类型映射为 Format。
func FormatFromMIME(mime string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return PNG, nil
	case "image/jpeg", "image/jpg":
		return JPEG, nil
	case "image/gif":
		return GIF, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
	}
}

// ParseFormat 将格式名（png/jpg/jpeg/gif，不区分大小写）映射为 Format。
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath 根据文件扩展名（不区分大小写）选择格式。
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Sniff 通过文件头判断格式。
func Sniff(data []byte) (Format, error) {
	return FormatFromMIME(http.DetectContentType(data))
}

// Decode 解码 png/jpeg/gif 图片；其他格式返回 ErrUnsupportedFormat。
func Decode(data []byte) (image.Image, Format, error) {
	format, err := Sniff(data)
	if err != nil {
		return nil, "", err
	}
	r := bytes.NewReader(data)
	var img image.Image
	switch format {
	case PNG:
		img, err = png.Decode(r)
	case JPEG:
		img, err = jpeg.Decode(r)
	case GIF:
		img, err = gif.Decode(r)
	}
	if err != nil {
		return nil, "", fmt.Errorf("raster: 解码 %s 图片失败: %w", format, err)
	}
	return img, format, nil
}

// Load 读取并解码图片文件。文件不存在或不可读时返回相应错误。
func Load(path string) (image.Image, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("raster: 读取图片 %s 失败: %w", path, err)
	}
	img, format, err := Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

// Encode 按指定格式写出图片。
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG, "":
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	case GIF:
		return gif.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
