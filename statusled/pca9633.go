// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package statusled

import (
	"fmt"
	"image/color"

	"github.com/GermanBionicSystems/envlogger/common"
	"periph.io/x/conn/v3/i2c"
)

// PCA9633Address is the address of the 8 pin PCA9633 variants.
const PCA9633Address uint16 = 0x62

type ledMode byte

const (
	modeFullOff ledMode = iota
	modeFullOn
	modePWM
)

const (
	regMode1  byte = 0x00
	regMode2  byte = 0x01
	regPWM0   byte = 0x02
	regLEDOut byte = 0x08

	// Auto increment enabled, oscillator on, responds to all call.
	mode1Default byte = 0x81
	// Outputs change on STOP, high impedance when OE is high.
	mode2Default byte = 0x05
	mode2Totem   byte = 0x08
	mode2Invert  byte = 0x10
)

// PCA9633Opts configures the LED controller.
type PCA9633Opts struct {
	// TotemPole drives the outputs push-pull instead of open drain.
	TotemPole bool
	// Invert inverts the outputs, for common anode LEDs wired without a
	// driver transistor.
	Invert bool
	// Channels maps red, green and blue to controller outputs 0 to 3.
	Channels [3]int
}

// DefaultPCA9633Opts wires red, green and blue to outputs 0, 1 and 2.
var DefaultPCA9633Opts = PCA9633Opts{Channels: [3]int{0, 1, 2}}

// PCA9633 is an RGB LED on a PCA9633 four channel PWM controller.
type PCA9633 struct {
	d        *i2c.Dev
	channels [3]int
	modes    [4]ledMode
}

// NewPCA9633 returns an RGB LED with every output off. The opts can be nil.
func NewPCA9633(b i2c.Bus, addr uint16, opts *PCA9633Opts) (*PCA9633, error) {
	if opts == nil {
		opts = &DefaultPCA9633Opts
	}
	for _, ch := range opts.Channels {
		if ch < 0 || ch > 3 {
			return nil, fmt.Errorf("statusled: invalid PCA9633 channel %d", ch)
		}
	}
	p := &PCA9633{d: &i2c.Dev{Bus: b, Addr: addr}, channels: opts.Channels}
	mode2 := mode2Default
	if opts.TotemPole {
		mode2 |= mode2Totem
	}
	if opts.Invert {
		mode2 |= mode2Invert
	}
	if err := common.WriteRegister(p.d, regMode1, mode1Default); err != nil {
		return nil, fmt.Errorf("statusled: pca9633: %w", err)
	}
	if err := common.WriteRegister(p.d, regMode2, mode2); err != nil {
		return nil, fmt.Errorf("statusled: pca9633: %w", err)
	}
	if err := p.writeModes(p.modes); err != nil {
		return nil, err
	}
	return p, nil
}

// SetColor implements LED. Channels at 0 or 255 are switched fully off or on,
// others are dimmed with their PWM register.
func (p *PCA9633) SetColor(c color.NRGBA) error {
	modes := p.modes
	for i, v := range [3]byte{c.R, c.G, c.B} {
		ch := p.channels[i]
		switch v {
		case 0:
			modes[ch] = modeFullOff
		case 0xff:
			modes[ch] = modeFullOn
		default:
			modes[ch] = modePWM
			if err := common.WriteRegister(p.d, regPWM0+byte(ch), v); err != nil {
				return fmt.Errorf("statusled: pca9633: %w", err)
			}
		}
	}
	if modes == p.modes {
		return nil
	}
	return p.writeModes(modes)
}

func (p *PCA9633) writeModes(modes [4]ledMode) error {
	var out byte
	for i, m := range modes {
		out |= byte(m) << (2 * i)
	}
	if err := common.WriteRegister(p.d, regLEDOut, out); err != nil {
		return fmt.Errorf("statusled: pca9633: %w", err)
	}
	p.modes = modes
	return nil
}

// Halt switches every output off. Implements conn.Resource.
func (p *PCA9633) Halt() error {
	return p.writeModes([4]ledMode{})
}

func (p *PCA9633) String() string {
	return fmt.Sprintf("PCA9633{%s}", p.d)
}

var _ LED = &PCA9633{}
