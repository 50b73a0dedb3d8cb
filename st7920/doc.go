// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7920 controls a 128x64 monochrome graphic LCD driven by a Sitronix
// ST7920 controller over its 3-wire serial interface.
//
// The driver keeps a 1024 bytes frame buffer in the host. Drawing only
// touches the buffer; Flush, FlushRegion and FlushDirty push it to the
// controller's graphic RAM.
//
// # Graphic RAM
//
// The controller exposes its graphic RAM as a 256x32 plane: the upper half of
// the panel is the left 128 pixels of each of the 32 rows and the lower half
// is the right 128 pixels. The horizontal address selects a 16 pixels word,
// so partial updates always cover 16 pixels wide columns.
//
// # Wiring
//
// Put the module in serial mode by tying PSB low. Connect E (SCLK) to
// SPI_CLK, R/W (SID) to SPI_MOSI and RS (CS) either to a GPIO or to Vcc. RST
// should be connected to a GPIO so the driver can pulse it on Init.
//
// The serial chip select is active high, which most SPI controllers do not
// support natively, so the driver drives it as a GPIO.
//
// # Datasheet
//
// https://www.waveshare.com/datasheet/LCD_en_PDF/ST7920.pdf
package st7920
