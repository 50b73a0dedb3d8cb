// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/glcd/st7920/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Flipped:   false,
	Frequency: physic.MegaHertz,
	Delayer:   Sleep,
}

// Opts defines the options for the device.
type Opts struct {
	// Flipped rotates the picture by 180°, for modules mounted upside down.
	Flipped bool
	// Frequency is the serial clock used by NewSPI. The ST7920 is specified
	// for 2.5MHz at 4.5V but many modules are not reliable above 1.5MHz.
	Frequency physic.Frequency
	// Delayer provides the settle times between instructions. Defaults to
	// Sleep.
	Delayer Delayer
}

// Dev is an open handle to the display controller.
//
// It is not safe for concurrent use.
type Dev struct {
	// Communication
	c   conn.Conn
	rst gpio.PinOut
	cs  gpio.PinOut

	delay     Delayer
	maxTxSize int
	flipped   bool
	halted    bool

	// buffer is kept in the controller's orientation; Flipped only changes
	// how logical coordinates map onto it.
	buffer *image1bit.HorizontalMSB
	// dirty is the physical area modified since the last flush.
	dirty image.Rectangle
	// txBuf is reused between transactions.
	txBuf []byte
}

// NewSPI returns a Dev object that communicates over SPI to a ST7920
// display controller and initializes it.
//
// rst is optional but recommended; without it the controller relies on its
// power on reset. Pass nil for cs when RS (CS) is tied high.
func NewSPI(p spi.Port, rst, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	f := opts.Frequency
	if f == 0 {
		f = DefaultOpts.Frequency
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7920: %w", err)
	}
	return New(c, rst, cs, opts)
}

// New returns a Dev object that communicates over an already connected bus
// and initializes the display.
func New(c conn.Conn, rst, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if rst == gpio.INVALID || cs == gpio.INVALID {
		return nil, errors.New("st7920: use nil for an unconnected pin, do not use gpio.INVALID")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	delay := opts.Delayer
	if delay == nil {
		delay = Sleep
	}
	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize < frameSize {
		maxTxSize = 4096
	}
	d := &Dev{
		c:         c,
		rst:       rst,
		cs:        cs,
		delay:     delay,
		maxTxSize: maxTxSize,
		flipped:   opts.Flipped,
		buffer:    image1bit.NewHorizontalMSB(bounds),
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init pulses the reset pin and runs the graphic mode initialization
// sequence.
//
// New calls it; call it again to recover after an error. The frame buffer is
// left untouched but the panel is cleared, so a Flush is needed to show the
// buffer again.
func (d *Dev) Init() error {
	d.halted = false
	t := d.begin("init")
	t.pin(d.rst, gpio.Low)
	if d.rst != nil {
		t.delay(resetPulse)
	}
	t.pin(d.rst, gpio.High)
	if d.rst != nil {
		t.delay(resetPulse)
	}
	t.run(initSequence)
	if err := t.end(); err != nil {
		return err
	}
	d.markDirty(bounds)
	return nil
}

func (d *Dev) String() string {
	cs := "nil"
	if d.cs != nil {
		cs = d.cs.String()
	}
	rst := "nil"
	if d.rst != nil {
		rst = d.rst.String()
	}
	return fmt.Sprintf("st7920.Dev{%s, %s, %s, %s}", d.c, rst, cs, bounds.Max)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return bounds
}

// Draw implements display.Drawer.
//
// It renders src into the frame buffer and flushes the affected area. It
// draws synchronously; once this function returns, the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(bounds)
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(r.Min))
	r = clipped
	if d.flipped {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
				px, py := flipPoint(x, y)
				d.buffer.SetBit(px, py, image1bit.BitModel.Convert(c).(image1bit.Bit))
			}
		}
		d.markDirty(flipRect(r))
	} else {
		draw.Src.Draw(d.buffer, r, src, sp)
		d.markDirty(r)
	}
	return d.FlushRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// Write replaces the frame buffer and flushes it to the display.
//
// pixels must be BufferSize bytes in the controller's layout: 16 bytes per
// row, most significant bit leftmost, as in image1bit.HorizontalMSB.Pix. The
// Flipped option is not applied.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.buffer.Pix) {
		return 0, fmt.Errorf("st7920: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.buffer.Pix), len(pixels))
	}
	copy(d.buffer.Pix, pixels)
	d.markDirty(bounds)
	if err := d.Flush(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt turns off the display. The graphic RAM content is retained.
//
// The next flush transparently turns the display back on.
func (d *Dev) Halt() error {
	d.halted = false
	t := d.begin("halt")
	t.run(haltSequence)
	if err := t.end(); err != nil {
		return err
	}
	d.halted = true
	return nil
}

var _ display.Drawer = &Dev{}
