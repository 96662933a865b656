// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package statusled

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// TerminalOpts represents the options of a Terminal.
type TerminalOpts struct {
	// W defaults to stdout.
	W       io.Writer
	Palette *ansi256.Palette
}

// Terminal is an LED emulator that prints a coloured block on the console.
type Terminal struct {
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
}

// NewTerminal returns a Terminal. The opts can be nil.
func NewTerminal(opts *TerminalOpts) *Terminal {
	if opts == nil {
		opts = &TerminalOpts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Terminal{w: w, palette: *p}
}

// SetColor implements LED. The block is redrawn in place.
func (t *Terminal) SetColor(c color.NRGBA) error {
	t.buf.Reset()
	_, _ = t.buf.WriteString("\r\033[0m")
	_, _ = io.WriteString(&t.buf, t.palette.Block(c))
	_, _ = t.buf.WriteString("\033[0m ")
	_, err := t.buf.WriteTo(t.w)
	return err
}

// Halt resets the terminal colours. Implements conn.Resource.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\n\033[0m"))
	return err
}

func (t *Terminal) String() string {
	return "Terminal"
}

var _ LED = &Terminal{}
