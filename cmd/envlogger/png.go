// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"periph.io/x/conn/v3/display"
)

// Size of the ST7735 TFT of the logger.
const (
	panelWidth  = 160
	panelHeight = 128
)

// pngDrawer is a display.Drawer that saves every frame as a PNG file.
type pngDrawer struct {
	path string
	img  *image.NRGBA
}

func newPNGDrawer(path string, w, h int) *pngDrawer {
	return &pngDrawer{path: path, img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func (p *pngDrawer) String() string {
	return "PNG{" + p.path + "}"
}

// Halt implements conn.Resource.
func (p *pngDrawer) Halt() error {
	return nil
}

// ColorModel implements display.Drawer.
func (p *pngDrawer) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (p *pngDrawer) Bounds() image.Rectangle {
	return p.img.Bounds()
}

// Draw implements display.Drawer.
func (p *pngDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(p.img, r, src, sp, draw.Src)
	return gg.SavePNG(p.path, p.img)
}

var _ display.Drawer = &pngDrawer{}
