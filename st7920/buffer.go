// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import (
	"image"

	"github.com/GermanBionicSystems/glcd/st7920/image1bit"
)

// SetPixel sets the pixel at (x, y) in the frame buffer. Coordinates outside
// of the panel are silently ignored.
//
// It does no I/O; call one of the Flush methods to update the display.
func (d *Dev) SetPixel(x, y int, b image1bit.Bit) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	d.SetPixelUnchecked(x, y, b)
}

// SetPixelUnchecked is SetPixel without the bounds check, for rasterizers
// that already clip to Bounds().
//
// Coordinates outside of the panel either panic or modify another pixel.
func (d *Dev) SetPixelUnchecked(x, y int, b image1bit.Bit) {
	if d.flipped {
		x, y = flipPoint(x, y)
	}
	i := y*RowSize + x/8
	mask := byte(0x80) >> uint(x&7)
	if b {
		d.buffer.Pix[i] |= mask
	} else {
		d.buffer.Pix[i] &^= mask
	}
	d.dirty = d.dirty.Union(image.Rect(x, y, x+1, y+1))
}

// Pixel returns the frame buffer value at (x, y). Pixels outside of the panel
// are Off.
func (d *Dev) Pixel(x, y int) image1bit.Bit {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return image1bit.Off
	}
	if d.flipped {
		x, y = flipPoint(x, y)
	}
	return d.buffer.BitAt(x, y)
}

// ClearBuffer turns all the pixels of the frame buffer Off. It does no I/O.
func (d *Dev) ClearBuffer() {
	d.buffer.Clear()
	d.markDirty(bounds)
}

// ModifyBuffer replaces every byte of the frame buffer with f(col, row, b),
// where col is the byte column (0 to RowSize-1), row the pixel row and b the
// current value.
//
// It works on the raw controller layout; the Flipped option is not applied.
// It does no I/O.
func (d *Dev) ModifyBuffer(f func(col, row int, b byte) byte) {
	pix := d.buffer.Pix
	for row := 0; row < Height; row++ {
		for col := 0; col < RowSize; col++ {
			i := row*RowSize + col
			pix[i] = f(col, row, pix[i])
		}
	}
	d.markDirty(bounds)
}

// Buffer returns a copy of the frame buffer in the controller's layout.
func (d *Dev) Buffer() []byte {
	return append([]byte(nil), d.buffer.Pix...)
}

// Dirty returns the smallest rectangle covering the pixels modified since the
// last flush that covered them. It is empty when the display is up to date.
func (d *Dev) Dirty() image.Rectangle {
	if d.flipped {
		return flipRect(d.dirty)
	}
	return d.dirty
}

func (d *Dev) markDirty(r image.Rectangle) {
	d.dirty = d.dirty.Union(r)
}

// markClean is called after r, in physical coordinates, was sent.
func (d *Dev) markClean(r image.Rectangle) {
	if d.dirty.In(r) {
		d.dirty = image.Rectangle{}
	}
}
