// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7920

import "time"

// Delayer blocks the caller for the settle times the controller needs between
// instructions.
type Delayer interface {
	// Delay blocks for at least d.
	Delay(d time.Duration) error
}

// DelayerFunc adapts a function to the Delayer interface.
type DelayerFunc func(d time.Duration) error

// Delay implements Delayer.
func (f DelayerFunc) Delay(d time.Duration) error {
	return f(d)
}

// Sleep is the default Delayer. It uses time.Sleep and never fails.
var Sleep Delayer = DelayerFunc(func(d time.Duration) error {
	time.Sleep(d)
	return nil
})
