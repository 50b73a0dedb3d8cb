// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import "image"

// Flush sends the whole frame buffer to the display.
//
// Each of the 32 graphic RAM rows holds one row of the upper half followed
// by one row of the lower half, so a row is addressed once and both are
// streamed back to back.
func (d *Dev) Flush() error {
	t := d.begin("flush")
	pix := d.buffer.Pix
	for y := 0; y < halfHeight; y++ {
		t.address(computeAddress(0, y))
		top := y * RowSize
		bottom := (y + halfHeight) * RowSize
		t.data(pix[top:top+RowSize], pix[bottom:bottom+RowSize])
	}
	if err := t.end(); err != nil {
		return err
	}
	d.dirty = image.Rectangle{}
	return nil
}

// FlushRegion sends the frame buffer area (x, y)-(x+w, y+h) to the display.
//
// The area is clipped to the panel and an empty area is a no-op. The
// horizontal span is widened to 16 pixels boundaries since this is the
// controller's addressing granularity. Coordinates are logical; the Flipped
// option is applied to the area as a whole.
func (d *Dev) FlushRegion(x, y, w, h int) error {
	r, ok := regionSpec(x, y, w, h, d.flipped)
	if !ok {
		return nil
	}
	return d.flushRect("flush region", r)
}

// FlushDirty sends the area modified since the last flush, if any.
func (d *Dev) FlushDirty() error {
	if d.dirty.Empty() {
		return nil
	}
	return d.flushRect("flush dirty", alignRect(d.dirty))
}

// Clear turns all the pixels Off, both in the frame buffer and on the
// display.
func (d *Dev) Clear() error {
	d.ClearBuffer()
	return d.Flush()
}

// flushRect sends r, in physical coordinates and aligned to AddressStep, one
// pixel row at a time.
func (d *Dev) flushRect(op string, r image.Rectangle) error {
	t := d.begin(op)
	left, right := r.Min.X/8, r.Max.X/8
	for y := r.Min.Y; y < r.Max.Y; y++ {
		t.address(computeAddress(r.Min.X, y))
		row := y * RowSize
		t.data(d.buffer.Pix[row+left : row+right])
	}
	if err := t.end(); err != nil {
		return err
	}
	d.markClean(r)
	return nil
}
