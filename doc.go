// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package glcd is a container for graphic LCD drivers and their tooling.
//
// st7920 drives 128x64 panels built on the Sitronix ST7920 controller over
// its serial interface. screen2d prints a monochrome display.Drawer on the
// terminal.
package glcd
