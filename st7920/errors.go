// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import "fmt"

// Kind tells which collaborator failed during a transaction.
type Kind int

// Failure kinds.
const (
	// CommFailure means the bus rejected or failed a transfer.
	CommFailure Kind = iota + 1
	// PinFailure means driving the reset or chip select pin failed.
	PinFailure
	// TimingFailure means the Delayer returned an error.
	TimingFailure
)

func (k Kind) String() string {
	switch k {
	case CommFailure:
		return "communication failure"
	case PinFailure:
		return "pin failure"
	case TimingFailure:
		return "timing failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by every operation that talks to the controller.
//
// A failed transaction is not retried and leaves the display in an undefined
// state; call Init or Flush again to recover.
type Error struct {
	Kind Kind
	// Op is the driver operation that was in progress, e.g. "flush".
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("st7920: %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the error reported by the bus, pin or delayer.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, ErrComm) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// Sentinel values to use with errors.Is.
var (
	ErrComm   = &Error{Kind: CommFailure}
	ErrPin    = &Error{Kind: PinFailure}
	ErrTiming = &Error{Kind: TimingFailure}
)
