// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/glcd/st7920/st7920test"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

// events records pin, bus and delay activity in a single timeline.
type events []string

func (e *events) add(format string, a ...interface{}) {
	*e = append(*e, fmt.Sprintf(format, a...))
}

type logConn struct {
	ev *events
	// failAt makes the nth Tx (1 based) fail.
	failAt int
	n      int
}

func (c *logConn) String() string      { return "log" }
func (c *logConn) Duplex() conn.Duplex { return conn.Half }

func (c *logConn) Tx(w, r []byte) error {
	c.n++
	if c.n == c.failAt {
		return errors.New("bus error")
	}
	c.ev.add("tx % x", w)
	return nil
}

type logPin struct {
	gpiotest.Pin
	ev  *events
	err error
}

func (p *logPin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.ev.add("%s=%s", p.N, l)
	return p.Pin.Out(l)
}

func logDelayer(ev *events, err error) Delayer {
	return DelayerFunc(func(d time.Duration) error {
		if err != nil {
			return err
		}
		ev.add("delay %s", d)
		return nil
	})
}

func TestAppendFrame(t *testing.T) {
	for _, tc := range []struct {
		sync byte
		v    byte
		want []byte
	}{
		{syncCommand, 0x30, []byte{0xF8, 0x30, 0x00}},
		{syncCommand, 0x0C, []byte{0xF8, 0x00, 0xC0}},
		{syncCommand, 0x94, []byte{0xF8, 0x90, 0x40}},
		{syncData, 0xA5, []byte{0xFA, 0xA0, 0x50}},
		{syncData, 0x00, []byte{0xFA, 0x00, 0x00}},
	} {
		if diff := cmp.Diff(appendFrame(nil, tc.sync, tc.v), tc.want); diff != "" {
			t.Errorf("appendFrame(0x%02X, 0x%02X) difference (-got +want):\n%s", tc.sync, tc.v, diff)
		}
	}
}

func TestInit_Sequence(t *testing.T) {
	var ev events
	rst := &logPin{Pin: gpiotest.Pin{N: "RST"}, ev: &ev}
	cs := &logPin{Pin: gpiotest.Pin{N: "CS"}, ev: &ev}
	if _, err := New(&logConn{ev: &ev}, rst, cs, &Opts{Delayer: logDelayer(&ev, nil)}); err != nil {
		t.Fatal(err)
	}
	want := events{
		"CS=High",
		"delay 1µs",
		"RST=Low",
		"delay 40ms",
		"RST=High",
		"delay 40ms",
		"tx f8 30 00",
		"delay 200µs",
		"tx f8 00 c0",
		"delay 100µs",
		"tx f8 00 10",
		"delay 10ms",
		"tx f8 00 60",
		"delay 100µs",
		"tx f8 30 40",
		"delay 10ms",
		"tx f8 30 60",
		"delay 100ms",
		"delay 1µs",
		"CS=Low",
	}
	if diff := cmp.Diff(ev, want); diff != "" {
		t.Fatalf("New() difference (-got +want):\n%s", diff)
	}
	if rst.L != gpio.High {
		t.Fatal("RST must be left high")
	}
	if cs.L != gpio.Low {
		t.Fatal("CS must be left low")
	}
}

func TestInit_NoPins(t *testing.T) {
	var ev events
	if _, err := New(&logConn{ev: &ev}, nil, nil, &Opts{Delayer: logDelayer(&ev, nil)}); err != nil {
		t.Fatal(err)
	}
	want := events{
		"tx f8 30 00",
		"delay 200µs",
		"tx f8 00 c0",
		"delay 100µs",
		"tx f8 00 10",
		"delay 10ms",
		"tx f8 00 60",
		"delay 100µs",
		"tx f8 30 40",
		"delay 10ms",
		"tx f8 30 60",
		"delay 100ms",
	}
	if diff := cmp.Diff(ev, want); diff != "" {
		t.Fatalf("New() difference (-got +want):\n%s", diff)
	}
}

func TestNewSPI(t *testing.T) {
	port := spitest.Record{}
	delays := &st7920test.Delays{}
	dev, err := NewSPI(&port, &gpiotest.Pin{N: "RST"}, &gpiotest.Pin{N: "CS"}, &Opts{Delayer: delays})
	if err != nil {
		t.Fatal(err)
	}
	if s := dev.String(); s != "st7920.Dev{record, RST(0), CS(0), (128,64)}" {
		t.Fatal(s)
	}
	want := []conntest.IO{
		{W: []byte{0xF8, 0x30, 0x00}},
		{W: []byte{0xF8, 0x00, 0xC0}},
		{W: []byte{0xF8, 0x00, 0x10}},
		{W: []byte{0xF8, 0x00, 0x60}},
		{W: []byte{0xF8, 0x30, 0x40}},
		{W: []byte{0xF8, 0x30, 0x60}},
	}
	if diff := cmp.Diff(port.Ops, want); diff != "" {
		t.Fatalf("NewSPI() difference (-got +want):\n%s", diff)
	}
	if got := delays.Total(); got != 2*resetPulse+120*time.Millisecond+400*time.Microsecond+2*csSettle {
		t.Fatal(got)
	}
}

func TestNewSPI_ConnectFail(t *testing.T) {
	port := spitest.Record{}
	if _, err := port.Connect(physic.MegaHertz, spi.Mode0, 8); err != nil {
		t.Fatal(err)
	}
	// A port can only be connected once.
	if _, err := NewSPI(&port, nil, nil, &Opts{Delayer: &st7920test.Delays{}}); err == nil {
		t.Fatal("Connect() should have failed")
	}
}

func TestErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		conn   conn.Conn
		rst    error
		cs     error
		delay  error
		target error
	}{
		{
			name:   "comm",
			conn:   &conntest.Playback{DontPanic: true},
			target: ErrComm,
		},
		{
			name:   "rst",
			rst:    errors.New("gpio error"),
			target: ErrPin,
		},
		{
			name:   "cs",
			cs:     errors.New("gpio error"),
			target: ErrPin,
		},
		{
			name:   "delay",
			delay:  errors.New("timer error"),
			target: ErrTiming,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var ev events
			c := tc.conn
			if c == nil {
				c = &logConn{ev: &ev}
			}
			rst := &logPin{Pin: gpiotest.Pin{N: "RST"}, ev: &ev, err: tc.rst}
			cs := &logPin{Pin: gpiotest.Pin{N: "CS"}, ev: &ev, err: tc.cs}
			_, err := New(c, rst, cs, &Opts{Delayer: logDelayer(&ev, tc.delay)})
			if !errors.Is(err, tc.target) {
				t.Fatalf("got %v, want %v", err, tc.target)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("%T is not an *Error", err)
			}
			if e.Op != "init" {
				t.Fatal(e.Op)
			}
			if !strings.HasPrefix(err.Error(), "st7920: init: ") {
				t.Fatal(err)
			}
			for _, other := range []error{ErrComm, ErrPin, ErrTiming} {
				if other != tc.target && errors.Is(err, other) {
					t.Fatalf("%v must not match %v", err, other)
				}
			}
		})
	}
}

func TestErrors_Abort(t *testing.T) {
	var ev events
	c := &logConn{ev: &ev, failAt: 3}
	cs := &logPin{Pin: gpiotest.Pin{N: "CS"}, ev: &ev}
	_, err := New(c, nil, cs, &Opts{Delayer: logDelayer(&ev, nil)})
	if !errors.Is(err, ErrComm) {
		t.Fatal(err)
	}
	want := events{
		"CS=High",
		"delay 1µs",
		"tx f8 30 00",
		"delay 200µs",
		"tx f8 00 c0",
		"delay 100µs",
	}
	if diff := cmp.Diff(ev, want); diff != "" {
		t.Fatalf("New() difference (-got +want):\n%s", diff)
	}
	if c.n != 3 {
		t.Fatalf("no transfer must be attempted after a failure, got %d", c.n)
	}
}

func TestErrors_Recover(t *testing.T) {
	var ev events
	c := &logConn{ev: &ev}
	dev, err := New(c, nil, nil, &Opts{Delayer: logDelayer(&ev, nil)})
	if err != nil {
		t.Fatal(err)
	}
	c.failAt = c.n + 1
	err = dev.Flush()
	if !errors.Is(err, ErrComm) {
		t.Fatal(err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Op != "flush" || e.Unwrap() == nil {
		t.Fatal(err)
	}
	if err := dev.Flush(); err != nil {
		t.Fatal(err)
	}
}

func TestKind_String(t *testing.T) {
	for k, want := range map[Kind]string{
		CommFailure:   "communication failure",
		PinFailure:    "pin failure",
		TimingFailure: "timing failure",
		Kind(42):      "Kind(42)",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d: got %q, want %q", int(k), got, want)
		}
	}
}

// limitedConn caps the transfer size like a spidev port does.
type limitedConn struct {
	logConn
	max   int
	sizes []int
}

func (c *limitedConn) MaxTxSize() int {
	return c.max
}

func (c *limitedConn) Tx(w, r []byte) error {
	c.sizes = append(c.sizes, len(w))
	return c.logConn.Tx(w, r)
}

var _ conn.Limits = &limitedConn{}

func TestFlush_MaxTxSize(t *testing.T) {
	var ev events
	c := &limitedConn{logConn: logConn{ev: &ev}, max: 10}
	dev, err := New(c, nil, nil, &Opts{Delayer: &st7920test.Delays{}})
	if err != nil {
		t.Fatal(err)
	}
	dev.ModifyBuffer(func(col, row int, b byte) byte { return byte(col + row) })
	ev = nil
	c.sizes = nil
	if err := dev.Flush(); err != nil {
		t.Fatal(err)
	}
	var stream []string
	for i, s := range c.sizes {
		if s > 9 || s%frameSize != 0 {
			t.Fatalf("transfer %d is %d bytes", i, s)
		}
	}
	for _, e := range ev {
		stream = append(stream, strings.Fields(strings.TrimPrefix(e, "tx "))...)
	}
	// 32 rows of 2 address frames and 32 data frames.
	if got, want := len(stream), 32*(2+32)*frameSize; got != want {
		t.Fatalf("got %d bytes, want %d", got, want)
	}
	if got := strings.Join(stream[:6], " "); got != "f8 80 00 f8 80 00" {
		t.Fatal(got)
	}
	// Upper half row 0 byte 0, then byte 1.
	if got := strings.Join(stream[6:12], " "); got != "fa 00 00 fa 00 10" {
		t.Fatal(got)
	}
}
