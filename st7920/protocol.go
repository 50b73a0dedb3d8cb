// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

type instruction byte

// Basic and extended instruction set subset used for graphic mode.
const (
	clearScreen        instruction = 0x01
	entryMode          instruction = 0x06 // Cursor moves right, no shift.
	displayOff         instruction = 0x08
	displayOnCursorOff instruction = 0x0C
	basicFunction      instruction = 0x30 // 8 bits interface, basic instructions.
	extendedFunction   instruction = 0x34 // 8 bits interface, extended instructions.
	graphicsOn         instruction = 0x36
	setGraphicsAddress instruction = 0x80
)

// Serial synchronization bytes: 5 bits set, then RW=0 and RS.
const (
	syncCommand byte = 0xF8
	syncData    byte = 0xFA
)

// frameSize is the number of bus bytes carrying one 8 bits value.
const frameSize = 3

// csSettle is the setup and hold time around chip select edges.
const csSettle = time.Microsecond

const resetPulse = 40 * time.Millisecond

type step struct {
	i    instruction
	wait time.Duration
}

// initSequence is run in this order after the hardware reset pulse.
var initSequence = []step{
	{basicFunction, 200 * time.Microsecond},
	{displayOnCursorOff, 100 * time.Microsecond},
	{clearScreen, 10 * time.Millisecond},
	{entryMode, 100 * time.Microsecond},
	{extendedFunction, 10 * time.Millisecond},
	{graphicsOn, 100 * time.Millisecond},
}

// haltSequence turns the panel off. The graphic RAM is retained.
var haltSequence = []step{
	{basicFunction, 100 * time.Microsecond},
	{displayOff, 100 * time.Microsecond},
}

// resumeSequence undoes haltSequence.
var resumeSequence = []step{
	{basicFunction, 100 * time.Microsecond},
	{displayOnCursorOff, 100 * time.Microsecond},
	{extendedFunction, 100 * time.Microsecond},
	{graphicsOn, 100 * time.Microsecond},
}

// appendFrame encodes v as a 3 bytes serial frame: the sync byte followed by
// the high and low nibbles, each left aligned.
func appendFrame(b []byte, sync, v byte) []byte {
	return append(b, sync, v&0xF0, (v<<4)&0xF0)
}

// transaction batches frames between a chip select assertion and
// deassertion.
//
// It latches the first error; every later step becomes a no-op so callers
// can issue a whole sequence and check the error once at the end.
type transaction struct {
	d   *Dev
	op  string
	buf []byte
	err error
}

// begin asserts chip select and returns the transaction. A halted display is
// transparently turned back on.
func (d *Dev) begin(op string) *transaction {
	t := &transaction{d: d, op: op, buf: d.txBuf[:0]}
	if d.cs != nil {
		t.pin(d.cs, gpio.High)
		t.delay(csSettle)
	}
	if d.halted {
		t.run(resumeSequence)
		d.halted = t.err != nil
	}
	return t
}

// end deasserts chip select and returns the first error encountered.
func (t *transaction) end() error {
	t.flush()
	if t.d.cs != nil {
		t.delay(csSettle)
		t.pin(t.d.cs, gpio.Low)
	}
	t.d.txBuf = t.buf[:0]
	return t.err
}

func (t *transaction) fail(k Kind, err error) {
	t.err = &Error{Kind: k, Op: t.op, Err: err}
}

// pin drives p to l. A nil pin is ignored.
func (t *transaction) pin(p gpio.PinOut, l gpio.Level) {
	if t.err != nil || p == nil {
		return
	}
	if err := p.Out(l); err != nil {
		t.fail(PinFailure, err)
	}
}

// delay sends pending frames and then blocks for d.
func (t *transaction) delay(d time.Duration) {
	t.flush()
	if t.err != nil {
		return
	}
	if err := t.d.delay.Delay(d); err != nil {
		t.fail(TimingFailure, err)
	}
}

// flush transmits pending frames, splitting them at the connection's
// transfer size limit without ever cutting a frame.
func (t *transaction) flush() {
	if t.err != nil || len(t.buf) == 0 {
		return
	}
	limit := t.d.maxTxSize - t.d.maxTxSize%frameSize
	for b := t.buf; len(b) != 0; {
		n := len(b)
		if n > limit {
			n = limit
		}
		if err := t.d.c.Tx(b[:n], nil); err != nil {
			t.fail(CommFailure, err)
			return
		}
		b = b[n:]
	}
	t.buf = t.buf[:0]
}

// command queues an instruction.
func (t *transaction) command(i instruction, param byte) {
	if t.err != nil {
		return
	}
	t.buf = appendFrame(t.buf, syncCommand, byte(i)|param)
}

// run sends each step as its own transfer followed by its settle time.
func (t *transaction) run(steps []step) {
	for _, s := range steps {
		t.command(s.i, 0)
		t.delay(s.wait)
	}
}

// address sets the graphic RAM address counter: vertical first, then
// horizontal. Both frames go in a single transfer.
func (t *transaction) address(row, col byte) {
	t.command(setGraphicsAddress, row)
	t.command(setGraphicsAddress, col)
	t.flush()
}

// data sends the bytes of each part in order, one data frame per byte, in as
// few transfers as possible.
func (t *transaction) data(parts ...[]byte) {
	if t.err != nil {
		return
	}
	for _, p := range parts {
		for _, v := range p {
			t.buf = appendFrame(t.buf, syncData, v)
		}
	}
	t.flush()
}
