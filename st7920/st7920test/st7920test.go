// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7920test implements a fake ST7920 controller to test the st7920
// driver, or to run programs written against it without the hardware.
package st7920test

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/GermanBionicSystems/glcd/st7920/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
)

const (
	width      = 128
	height     = 64
	rows       = height / 2
	rowBytes   = 2 * width / 8
	syncMask   = 0xF8
	syncRW     = 0x04
	syncRS     = 0x02
	frameBytes = 3
)

// Op is one decoded serial frame.
type Op struct {
	// Data is true for a data write and false for an instruction.
	Data  bool
	Value byte
}

func (o Op) String() string {
	if o.Data {
		return fmt.Sprintf("data(0x%02X)", o.Value)
	}
	return fmt.Sprintf("cmd(0x%02X)", o.Value)
}

// Controller implements conn.Conn and emulates the graphic mode of a ST7920
// controller in serial mode.
//
// Frames can be split across Tx calls. Reads are not supported, like on the
// real serial interface.
type Controller struct {
	sync.Mutex
	// GDRAM is the graphic RAM: 32 rows of 16 words of 16 bits. The upper
	// half of the panel is the first 16 bytes of each row.
	GDRAM [rows][rowBytes]byte
	// Ops is every frame received, in order.
	Ops []Op
	// TxCount is the number of calls to Tx.
	TxCount int

	extended   bool
	graphicsOn bool
	displayOn  bool
	// Address counter. vertical is only latched after the horizontal address
	// is received.
	vertical    int
	horizontal  int
	addrPending bool
	nextV       int
	lowByte     bool
	partial     []byte
}

func (c *Controller) String() string {
	return "st7920test"
}

// Duplex implements conn.Conn.
func (c *Controller) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn.
func (c *Controller) Tx(w, r []byte) error {
	if len(r) != 0 {
		return conntest.Errorf("st7920test: read unsupported")
	}
	c.Lock()
	defer c.Unlock()
	c.TxCount++
	b := append(c.partial, w...)
	for ; len(b) >= frameBytes; b = b[frameBytes:] {
		if err := c.decode(b[:frameBytes]); err != nil {
			c.partial = nil
			return err
		}
	}
	c.partial = append([]byte(nil), b...)
	return nil
}

// Pending returns the number of bytes of an incomplete trailing frame.
func (c *Controller) Pending() int {
	c.Lock()
	defer c.Unlock()
	return len(c.partial)
}

// Reset simulates a pulse on the RST pin. Ops and TxCount are kept.
func (c *Controller) Reset() {
	c.Lock()
	defer c.Unlock()
	c.GDRAM = [rows][rowBytes]byte{}
	c.extended = false
	c.graphicsOn = false
	c.displayOn = false
	c.vertical, c.horizontal, c.nextV = 0, 0, 0
	c.addrPending = false
	c.lowByte = false
	c.partial = nil
}

// GraphicsOn reports whether the graphic display was turned on.
func (c *Controller) GraphicsOn() bool {
	c.Lock()
	defer c.Unlock()
	return c.graphicsOn
}

// DisplayOn reports whether the display was turned on.
func (c *Controller) DisplayOn() bool {
	c.Lock()
	defer c.Unlock()
	return c.displayOn
}

// Image returns a copy of the graphic RAM as the 128x64 picture it shows.
func (c *Controller) Image() *image1bit.HorizontalMSB {
	c.Lock()
	defer c.Unlock()
	img := image1bit.NewHorizontalMSB(image.Rect(0, 0, width, height))
	half := width / 8
	for y := 0; y < rows; y++ {
		copy(img.Pix[y*half:], c.GDRAM[y][:half])
		copy(img.Pix[(y+rows)*half:], c.GDRAM[y][half:])
	}
	return img
}

// Commands returns the instructions received, in order.
func (c *Controller) Commands() []byte {
	c.Lock()
	defer c.Unlock()
	var out []byte
	for _, o := range c.Ops {
		if !o.Data {
			out = append(out, o.Value)
		}
	}
	return out
}

func (c *Controller) decode(f []byte) error {
	if f[0]&syncMask != syncMask || f[0]&^(syncMask|syncRW|syncRS) != 0 {
		return conntest.Errorf("st7920test: invalid sync byte 0x%02X", f[0])
	}
	if f[0]&syncRW != 0 {
		return conntest.Errorf("st7920test: read unsupported")
	}
	if f[1]&0x0F != 0 || f[2]&0x0F != 0 {
		return conntest.Errorf("st7920test: invalid nibbles 0x%02X 0x%02X", f[1], f[2])
	}
	v := f[1] | f[2]>>4
	if f[0]&syncRS != 0 {
		c.Ops = append(c.Ops, Op{Data: true, Value: v})
		c.write(v)
		return nil
	}
	c.Ops = append(c.Ops, Op{Value: v})
	c.instruction(v)
	return nil
}

func (c *Controller) instruction(v byte) {
	switch {
	case v&0xE0 == 0x20:
		// Function set; RE selects the extended instruction set and G is
		// only meaningful there.
		c.extended = v&0x04 != 0
		if c.extended {
			c.graphicsOn = v&0x02 != 0
		}
		c.addrPending = false
	case v&0x80 != 0:
		if !c.extended {
			// DDRAM address, text mode only.
			return
		}
		if !c.addrPending {
			c.nextV = int(v & 0x3F)
			c.addrPending = true
			return
		}
		c.vertical = c.nextV
		c.horizontal = int(v & 0x0F)
		c.addrPending = false
		c.lowByte = false
	case c.extended:
		// Standby, scroll and reverse are not emulated.
	case v&0xF8 == 0x08:
		c.displayOn = v&0x04 != 0
	}
}

// write stores one data byte at the address counter. Every second byte
// moves to the next word; the horizontal address wraps within the row.
func (c *Controller) write(v byte) {
	if !c.extended || c.vertical >= rows {
		// Text mode RAM or rows 32-63, not mapped on a 128x64 panel.
		return
	}
	i := 2 * c.horizontal
	if c.lowByte {
		i++
	}
	c.GDRAM[c.vertical][i] = v
	if c.lowByte {
		c.horizontal = (c.horizontal + 1) & 0x0F
	}
	c.lowByte = !c.lowByte
}

// Delays implements the st7920.Delayer interface and records the requested
// durations instead of sleeping.
type Delays struct {
	sync.Mutex
	D []time.Duration
	// Err, when set, is returned by Delay.
	Err error
}

// Delay records d.
func (d *Delays) Delay(t time.Duration) error {
	d.Lock()
	defer d.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.D = append(d.D, t)
	return nil
}

// Total returns the sum of all recorded durations.
func (d *Delays) Total() time.Duration {
	d.Lock()
	defer d.Unlock()
	var t time.Duration
	for _, v := range d.D {
		t += v
	}
	return t
}

var _ conn.Conn = &Controller{}
