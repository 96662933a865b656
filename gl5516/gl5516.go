// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gl5516

import (
	"errors"
	"fmt"
	"math"

	"periph.io/x/conn/v3/analog"
)

// FullScale is the largest code of the 12 bit ADC.
const FullScale = 4095

const (
	seriesResistance = 1000.0
	// Resistance of the photoresistor at 10 lux.
	referenceResistance = 10000.0
	gamma               = 0.5
	slope               = 0.42
	scale               = 5
)

// ErrNoSample is returned when the ADC could not be read.
var ErrNoSample = errors.New("gl5516: no sample")

// Sampler is the ADC channel the divider is connected to. analog.PinADC
// satisfies it.
type Sampler interface {
	Read() (analog.Sample, error)
}

// Dev is a photoresistor on one ADC channel.
type Dev struct {
	adc Sampler
}

// New returns a Dev reading from adc.
func New(adc Sampler) *Dev {
	return &Dev{adc: adc}
}

// Illuminance reads one sample and converts it to lux.
func (d *Dev) Illuminance() (float64, error) {
	s, err := d.adc.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoSample, err)
	}
	return Lux(s.Raw), nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("GL5516{%v}", d.adc)
}

// Resistance returns the photoresistor resistance in Ω for an ADC code,
// truncated to whole ohms and at least 1Ω. Codes at or above FullScale mean
// an open photoresistor and return +Inf.
func Resistance(code int32) float64 {
	if code >= FullScale {
		return math.Inf(1)
	}
	if code < 0 {
		code = 0
	}
	// Code 0 divides by zero into +Inf, which yields 0 before the floor.
	r := math.Trunc(seriesResistance / (FullScale/float64(code) - 1))
	return math.Max(r, 1)
}

// Lux converts an ADC code to illuminance. Codes at or above FullScale return
// 0 (dark), codes near 0 saturate at the value for 1Ω.
func Lux(code int32) float64 {
	r := Resistance(code)
	if math.IsInf(r, 1) {
		return 0
	}
	return math.Pow(10, (slope*math.Log(referenceResistance/r))/gamma+1) * scale
}
