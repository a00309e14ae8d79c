// Package raster 提供像素画布与图片编解码，是排版核心之外的薄封装。
package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Canvas 是可变的 RGBA 像素画布。
type Canvas struct {
	img *image.RGBA
}

// New 创建 width×height 的透明画布。
func New(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// FromImage 将任意图片复制为画布，GIF 等调色板图片会被转为真彩色。
func FromImage(src image.Image) *Canvas {
	b := src.Bounds()
	c := New(b.Dx(), b.Dy())
	draw.Draw(c.img, c.img.Bounds(), src, b.Min, draw.Src)
	return c
}

func (c *Canvas) Width() int  { return c.img.Bounds().Dx() }
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

// Image 返回底层像素，供绘制后端直接写入。
func (c *Canvas) Image() *image.RGBA { return c.img }

// Fill 用纯色覆盖整个画布。
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Blit 将 src 中 srcRect 区域以 alpha 混合的方式绘制到画布 (dstX, dstY)。
// srcRect 为空时使用 src 的全部范围。
func (c *Canvas) Blit(src image.Image, dstX, dstY int, srcRect image.Rectangle) {
	if srcRect.Empty() {
		srcRect = src.Bounds()
	}
	dst := image.Rect(dstX, dstY, dstX+srcRect.Dx(), dstY+srcRect.Dy())
	draw.Draw(c.img, dst, src, srcRect.Min, draw.Over)
}

// BlitScaled 将 src 缩放到 dst 矩形后绘制，使用 Catmull-Rom 插值。
func (c *Canvas) BlitScaled(src image.Image, dst image.Rectangle) {
	xdraw.CatmullRom.Scale(c.img, dst, src, src.Bounds(), xdraw.Over, nil)
}

// Clone 返回画布的深拷贝。
func (c *Canvas) Clone() *Canvas {
	cp := image.NewRGBA(c.img.Bounds())
	copy(cp.Pix, c.img.Pix)
	return &Canvas{img: cp}
}
