// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import "image"

// Panel geometry.
const (
	// Width is the number of pixel columns.
	Width = 128
	// Height is the number of pixel rows.
	Height = 64
	// RowSize is the number of buffer bytes per pixel row.
	RowSize = Width / 8
	// BufferSize is the frame buffer length in bytes.
	BufferSize = RowSize * Height
	// AddressStep is the width in pixels covered by one horizontal address.
	AddressStep = 16

	halfHeight = Height / 2
)

var bounds = image.Rect(0, 0, Width, Height)

// computeAddress returns the graphic RAM vertical (row) and horizontal (col)
// address of the 16 pixels word holding (x, y).
//
// The lower half of the panel lives to the right of the upper half: row y+32
// is row y shifted by Width/AddressStep words.
func computeAddress(x, y int) (row, col byte) {
	if y < halfHeight {
		return byte(y), byte(x / AddressStep)
	}
	return byte(y - halfHeight), byte(x/AddressStep + Width/AddressStep)
}

// flipPoint mirrors a pixel on both axes.
func flipPoint(x, y int) (int, int) {
	return Width - 1 - x, Height - 1 - y
}

// flipRect is the point reflection of r through the center of the panel.
//
// It is its own inverse.
func flipRect(r image.Rectangle) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(Width-r.Max.X, Height-r.Max.Y, Width-r.Min.X, Height-r.Min.Y)
}

// alignRect rounds the horizontal span of r outward to AddressStep
// boundaries. The result always covers r.
func alignRect(r image.Rectangle) image.Rectangle {
	r.Min.X -= r.Min.X % AddressStep
	r.Max.X = (r.Max.X + AddressStep - 1) / AddressStep * AddressStep
	if r.Max.X > Width {
		r.Max.X = Width
	}
	return r
}

// clampSpan trims [v, v+n) to [0, limit) without overflowing for any input.
func clampSpan(v, n, limit int) (int, int, bool) {
	if n <= 0 || v >= limit {
		return 0, 0, false
	}
	if v < 0 {
		n += v
		v = 0
		if n <= 0 {
			return 0, 0, false
		}
	}
	if n > limit-v {
		n = limit - v
	}
	return v, v + n, true
}

// regionSpec converts a caller supplied region in logical coordinates into
// the aligned physical rectangle to send. It returns false when there is
// nothing to send.
func regionSpec(x, y, w, h int, flipped bool) (image.Rectangle, bool) {
	x0, x1, ok := clampSpan(x, w, Width)
	if !ok {
		return image.Rectangle{}, false
	}
	y0, y1, ok := clampSpan(y, h, Height)
	if !ok {
		return image.Rectangle{}, false
	}
	r := image.Rect(x0, y0, x1, y1)
	if flipped {
		r = flipRect(r)
	}
	return alignRect(r), true
}
