// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image1bit implements a 1 bit per pixel image stored as horizontal
// bytes, most significant bit first.
//
// This is the native graphic RAM layout of row oriented monochrome
// controllers like the ST7920: each byte covers 8 horizontally adjacent
// pixels and bit 7 is the leftmost one.
package image1bit
