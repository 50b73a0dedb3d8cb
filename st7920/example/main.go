// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// example draws a few frames on a ST7920 panel.
//
// With -sim, the serial stream goes to an emulated controller whose graphic
// RAM is printed on the terminal.
package main

import (
	"flag"
	"image"
	"log"
	"math"
	"time"

	"github.com/GermanBionicSystems/glcd/screen2d"
	"github.com/GermanBionicSystems/glcd/st7920"
	"github.com/GermanBionicSystems/glcd/st7920/image1bit"
	"github.com/GermanBionicSystems/glcd/st7920/st7920test"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func main() {
	sim := flag.Bool("sim", false, "emulate the controller and print it on the terminal")
	spiName := flag.String("spi", "", "SPI port to use")
	rstName := flag.String("rst", "GPIO25", "RST pin, empty if not connected")
	csName := flag.String("cs", "GPIO24", "CS pin, empty if tied high")
	hz := flag.Int64("hz", 1000000, "SPI clock in Hz")
	flip := flag.Bool("flip", false, "rotate the picture by 180°")
	text := flag.String("text", "Hello from periph!", "text to show")
	pause := flag.Duration("pause", 2*time.Second, "time between frames")
	flag.Parse()

	opts := st7920.DefaultOpts
	opts.Flipped = *flip
	opts.Frequency = physic.Frequency(*hz) * physic.Hertz

	var dev *st7920.Dev
	show := func() {}
	if *sim {
		ctrl := &st7920test.Controller{}
		var err error
		if dev, err = st7920.New(ctrl, nil, nil, &opts); err != nil {
			log.Fatal(err)
		}
		scr := screen2d.New(&screen2d.Opts{W: st7920.Width, H: st7920.Height})
		defer scr.Halt()
		show = func() {
			if err := scr.Draw(scr.Bounds(), ctrl.Image(), image.Point{}); err != nil {
				log.Fatal(err)
			}
		}
	} else {
		if _, err := host.Init(); err != nil {
			log.Fatal(err)
		}
		p, err := spireg.Open(*spiName)
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		if dev, err = st7920.NewSPI(p, pin(*rstName), pin(*csName), &opts); err != nil {
			log.Fatalf("failed to initialize st7920: %v", err)
		}
	}
	defer dev.Halt()
	log.Printf("device=%s", dev)

	if err := dev.Draw(dev.Bounds(), banner(dev.Bounds(), *text), image.Point{}); err != nil {
		log.Fatal(err)
	}
	show()
	time.Sleep(*pause)

	// Draw a sine wave with a small caption, sending only what changed.
	dev.ClearBuffer()
	for x := 0; x < st7920.Width; x++ {
		dev.SetPixel(x, st7920.Height/2, image1bit.On)
		y := st7920.Height/2 - int(math.Sin(float64(x)*4*math.Pi/st7920.Width)*(st7920.Height/2-4))
		dev.SetPixel(x, y, image1bit.On)
	}
	caption(dev, "sin(x)")
	if err := dev.FlushDirty(); err != nil {
		log.Fatal(err)
	}
	show()
	time.Sleep(*pause)
}

func pin(name string) gpio.PinOut {
	if name == "" {
		return nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		log.Fatalf("failed to find pin %s", name)
	}
	return p
}

// banner renders text in a rounded frame with a row of dots below.
func banner(r image.Rectangle, text string) image.Image {
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 12}))
	tw, th := dc.MeasureString(text)
	padding := 4.0
	dc.DrawRoundedRectangle(padding, padding, tw+padding*2, th+padding*2, 4)
	dc.Stroke()
	dc.DrawString(text, padding*2, padding*2+th)
	for i := 0; i < 10; i++ {
		dc.DrawCircle(float64(10+12*i), 50, 4)
	}
	dc.Fill()
	return dc.Image()
}

// caption writes s in the top left corner with the 7x13 bitmap font.
func caption(dev *st7920.Dev, s string) {
	img := image1bit.NewHorizontalMSB(dev.Bounds())
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: f,
		Dot:  fixed.P(0, f.Ascent),
	}
	drawer.DrawString(s)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.BitAt(x, y) {
				dev.SetPixel(x, y, image1bit.On)
			}
		}
	}
}
