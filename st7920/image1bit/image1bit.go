// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image1bit

import (
	"image"
	"image/color"
	"image/draw"
)

// Bit implements a 1 bit color.
type Bit bool

// RGBA returns either all white or all black.
//
// Technically the monochrome display could be colored but this information is
// unavailable here.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 65535, 65535, 65535, 65535
	}
	return 0, 0, 0, 65535
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// Possible bitness.
const (
	On  = Bit(true)
	Off = Bit(false)
)

// BitModel is the color Model for 1 bit color.
var BitModel = color.ModelFunc(convert)

// HorizontalMSB is a 1 bit image where each byte holds 8 horizontal pixels,
// the leftmost pixel being the most significant bit.
//
// Rows are Stride bytes apart; a row width that is not a multiple of 8 wastes
// the trailing bits of the last byte.
type HorizontalMSB struct {
	// Pix holds the image's pixels, as horizontally packed bytes.
	Pix []byte
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewHorizontalMSB returns an initialized HorizontalMSB instance, all pixels
// being Off.
func NewHorizontalMSB(r image.Rectangle) *HorizontalMSB {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &HorizontalMSB{Rect: r}
	}
	stride := (w + 7) / 8
	return &HorizontalMSB{Pix: make([]byte, stride*h), Stride: stride, Rect: r}
}

// ColorModel implements image.Image.
func (i *HorizontalMSB) ColorModel() color.Model {
	return BitModel
}

// Bounds implements image.Image.
func (i *HorizontalMSB) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *HorizontalMSB) At(x, y int) color.Color {
	return i.BitAt(x, y)
}

// BitAt is the optimized version of At().
func (i *HorizontalMSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return Off
	}
	offset, mask := i.PixOffset(x, y)
	return Bit(i.Pix[offset]&mask != 0)
}

// Opaque scans the entire image and reports whether it is fully opaque.
func (i *HorizontalMSB) Opaque() bool {
	return true
}

// PixOffset returns the index of the byte holding pixel (x, y) and the mask
// selecting it. It does not check bounds.
func (i *HorizontalMSB) PixOffset(x, y int) (int, byte) {
	dx := x - i.Rect.Min.X
	offset := (y-i.Rect.Min.Y)*i.Stride + dx/8
	return offset, byte(0x80) >> uint(dx&7)
}

// Set implements draw.Image.
func (i *HorizontalMSB) Set(x, y int, c color.Color) {
	i.SetBit(x, y, convertBit(c))
}

// SetBit is the optimized version of Set().
func (i *HorizontalMSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	offset, mask := i.PixOffset(x, y)
	if b {
		i.Pix[offset] |= mask
	} else {
		i.Pix[offset] &^= mask
	}
}

// Fill sets every pixel to b.
func (i *HorizontalMSB) Fill(b Bit) {
	v := byte(0)
	if b {
		v = 0xFF
	}
	for j := range i.Pix {
		i.Pix[j] = v
	}
}

// Clear turns all the pixels Off.
func (i *HorizontalMSB) Clear() {
	i.Fill(Off)
}

// SubImage returns an image representing the portion of the image visible
// through r. The returned value shares pixels with the original image.
//
// The sub image is copied instead when r.Min.X is not byte aligned relative
// to the image, since the packing cannot be shared.
func (i *HorizontalMSB) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(i.Rect)
	if r.Empty() {
		return &HorizontalMSB{}
	}
	if (r.Min.X-i.Rect.Min.X)&7 != 0 {
		dst := NewHorizontalMSB(r)
		draw.Src.Draw(dst, r, i, r.Min)
		return dst
	}
	offset, _ := i.PixOffset(r.Min.X, r.Min.Y)
	return &HorizontalMSB{
		Pix:    i.Pix[offset:],
		Stride: i.Stride,
		Rect:   r,
	}
}

//

var _ draw.Image = &HorizontalMSB{}

// Anything not transparent and at least 50% luminance is On.
func convert(c color.Color) color.Color {
	return convertBit(c)
}

func convertBit(c color.Color) Bit {
	switch t := c.(type) {
	case Bit:
		return t
	default:
		r, g, b, a := c.RGBA()
		if a < 0x8000 {
			return Off
		}
		// Rec. 601 luma, same weights as image/color.GrayModel.
		y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
		return Bit(y >= 0x8000)
	}
}
