// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a monochrome 2D display.Drawer that outputs to
// the terminal (stdout) using ANSI color codes.
//
// Useful to try a graphic LCD program before wiring the panel.
package screen2d

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/GermanBionicSystems/glcd/st7920/image1bit"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	W, H    int
	Palette *ansi256.Palette
	// On is the color of lit pixels. Defaults to white.
	On color.Color
	// Off is the color of unlit pixels. Defaults to black.
	Off color.Color
	// Out defaults to stdout. When it is stdout and a terminal, each refresh
	// redraws over the previous one.
	Out io.Writer

	_ struct{}
}

// DefaultOpts is the size of a 128x64 graphic LCD.
var DefaultOpts = Opts{W: 128, H: 64}

// Dev is a monochrome panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	// inPlace moves the cursor back up before a refresh.
	inPlace bool
	drawn   bool
	on, off string

	img *image1bit.HorizontalMSB
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// A nil opts uses DefaultOpts.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	on, off := opts.On, opts.Off
	if on == nil {
		on = color.White
	}
	if off == nil {
		off = color.Black
	}
	d := &Dev{
		w:       opts.Out,
		palette: *p,
		img:     image1bit.NewHorizontalMSB(image.Rect(0, 0, opts.W, opts.H)),
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
		fd := os.Stdout.Fd()
		d.inPlace = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	d.on = d.palette.Block(color.NRGBAModel.Convert(on).(color.NRGBA))
	d.off = d.palette.Block(color.NRGBAModel.Convert(off).(color.NRGBA))
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("Screen2D{%dx%d}", d.img.Rect.Dx(), d.img.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a picture packed as image1bit.HorizontalMSB.Pix and writes it
// to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.img.Pix) {
		return 0, fmt.Errorf("screen2d: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.img.Pix), len(pixels))
	}
	copy(d.img.Pix, pixels)
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.img, r, src, sp)
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	h := d.img.Rect.Dy()
	if d.inPlace && d.drawn {
		_, _ = fmt.Fprintf(&d.buf, "\033[%dA", h)
	}
	_, _ = d.buf.WriteString("\r\033[0m")
	for y := d.img.Rect.Min.Y; y < d.img.Rect.Max.Y; y++ {
		for x := d.img.Rect.Min.X; x < d.img.Rect.Max.X; x++ {
			if d.img.BitAt(x, y) {
				_, _ = d.buf.WriteString(d.on)
			} else {
				_, _ = d.buf.WriteString(d.off)
			}
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
