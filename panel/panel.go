// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panel renders a readings.Reading as text on any display.Drawer,
// for example the ST7735 TFT of the logger or an e-paper hat.
package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/GermanBionicSystems/envlogger/readings"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options of a Panel.
type Opts struct {
	// FontSize in points of the Go Regular face. Default is 10.
	FontSize   float64
	Foreground color.Color
	Background color.Color
	// Face overrides the Go Regular face.
	Face font.Face
}

// DefaultOpts is white text on black.
var DefaultOpts = Opts{
	FontSize:   10,
	Foreground: color.White,
	Background: color.Black,
}

const margin = 2

// Panel draws readings on a display.
type Panel struct {
	d    display.Drawer
	opts Opts
	face font.Face
}

// New returns a Panel drawing on d. The opts can be nil.
func New(d display.Drawer, opts *Opts) (*Panel, error) {
	if d == nil {
		return nil, errors.New("panel: nil display")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	p := &Panel{d: d, opts: *opts}
	if p.opts.FontSize <= 0 {
		p.opts.FontSize = DefaultOpts.FontSize
	}
	if p.opts.Foreground == nil {
		p.opts.Foreground = DefaultOpts.Foreground
	}
	if p.opts.Background == nil {
		p.opts.Background = DefaultOpts.Background
	}
	p.face = p.opts.Face
	if p.face == nil {
		p.face = loadFace(goregular.TTF, p.opts.FontSize)
	}
	return p, nil
}

// loadFace parses a TrueType font, falling back to the 7x13 bitmap face.
func loadFace(ttf []byte, size float64) font.Face {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// Draw renders r and pushes the frame to the display.
func (p *Panel) Draw(r *readings.Reading) error {
	bounds := p.d.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetColor(p.opts.Background)
	dc.Clear()
	dc.SetColor(p.opts.Foreground)
	dc.SetFontFace(p.face)
	lineHeight := math.Ceil(dc.FontHeight() * 1.3)
	for i, l := range Lines(r) {
		dc.DrawString(l, margin, margin+float64(i+1)*lineHeight)
	}
	if err := p.d.Draw(bounds, dc.Image(), image.Point{}); err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	return nil
}

// Halt implements conn.Resource.
func (p *Panel) Halt() error {
	return p.d.Halt()
}

func (p *Panel) String() string {
	return fmt.Sprintf("Panel{%s}", p.d)
}

// Lines returns the text of r, one line per field. Fields without a sensor
// are omitted, failed fields read "<field> reading failed". Brightness is
// truncated to whole lux.
func Lines(r *readings.Reading) []string {
	lines := make([]string, 0, readings.NumFields)
	line := func(f readings.Field, label, format string, args ...any) {
		switch {
		case errors.Is(r.Err(f), readings.ErrNoSensor):
		case !r.Valid(f):
			lines = append(lines, label+" reading failed")
		default:
			lines = append(lines, label+": "+fmt.Sprintf(format, args...))
		}
	}
	line(readings.Humidity, "Humidity", "%.0f %%", r.HumidityPercent())
	line(readings.Pressure, "Pressure", "%.0f mmHg", r.PressureMMHg())
	line(readings.Temperature, "Temperature", "%.1f C", r.Celsius())
	line(readings.Illuminance, "Brightness", "%.0f lux", math.Trunc(r.Illuminance))
	line(readings.CO2, "CO2", "%d ppm", r.CO2)
	line(readings.TVOC, "TVOC", "%d ppb", r.TVOC)
	return lines
}
