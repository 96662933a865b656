// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package statusled maps a readings.Reading to the colour of an RGB status
// LED and drives the LED.
//
// The indoor climate is classified against temperature and humidity
// thresholds: green when both are inside, yellow when either is at most 10
// units outside, red otherwise. When an air quality sensor is present the
// colour follows the CO2 concentration instead.
package statusled

import (
	"fmt"
	"image/color"

	"github.com/GermanBionicSystems/envlogger/ccs811"
	"github.com/GermanBionicSystems/envlogger/common"
	"github.com/GermanBionicSystems/envlogger/readings"
	"golang.org/x/exp/constraints"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// LED is an RGB status LED.
type LED interface {
	conn.Resource
	SetColor(c color.NRGBA) error
}

// Level is the classification of a reading.
type Level int

const (
	Red Level = iota
	Yellow
	Green
)

func (l Level) String() string {
	switch l {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Colours of the LED.
var (
	ColorBlue   = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	ColorGreen  = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	ColorYellow = color.NRGBA{R: 155, G: 245, B: 0, A: 255}
	ColorOrange = color.NRGBA{R: 195, G: 215, B: 0, A: 255}
	ColorRed    = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// Color returns the LED colour of l.
func (l Level) Color() color.NRGBA {
	switch l {
	case Green:
		return ColorGreen
	case Yellow:
		return ColorYellow
	default:
		return ColorRed
	}
}

const (
	temperatureMargin = 10 * physic.Celsius
	humidityMargin    = 10 * physic.PercentRH
)

// Thresholds is the comfortable range of the indoor climate. Bounds are
// inclusive.
type Thresholds struct {
	TemperatureMin physic.Temperature
	TemperatureMax physic.Temperature
	HumidityMin    physic.RelativeHumidity
	HumidityMax    physic.RelativeHumidity
}

// DefaultThresholds is 22-26°C and 30-60%rH.
var DefaultThresholds = Thresholds{
	TemperatureMin: physic.ZeroCelsius + 22*physic.Celsius,
	TemperatureMax: physic.ZeroCelsius + 26*physic.Celsius,
	HumidityMin:    30 * physic.PercentRH,
	HumidityMax:    60 * physic.PercentRH,
}

// Normalize returns t with each maximum at least its minimum. A humidity
// maximum above 100%rH is reset to the minimum.
func (t Thresholds) Normalize() Thresholds {
	t.HumidityMin = common.Clamp(t.HumidityMin, 0, 100*physic.PercentRH)
	if t.HumidityMax < t.HumidityMin || t.HumidityMax > 100*physic.PercentRH {
		t.HumidityMax = t.HumidityMin
	}
	if t.TemperatureMax < t.TemperatureMin {
		t.TemperatureMax = t.TemperatureMin
	}
	return t
}

func (t Thresholds) String() string {
	return fmt.Sprintf("%s..%s %s..%s", t.TemperatureMin, t.TemperatureMax, t.HumidityMin, t.HumidityMax)
}

// Classify rates the temperature and humidity of r. A missing field is Red.
func Classify(r *readings.Reading, t Thresholds) Level {
	if !r.Valid(readings.Temperature) || !r.Valid(readings.Humidity) {
		return Red
	}
	tl := classify(r.Temperature, t.TemperatureMin, t.TemperatureMax, temperatureMargin)
	hl := classify(r.Humidity, t.HumidityMin, t.HumidityMax, humidityMargin)
	switch {
	case tl == Green && hl == Green:
		return Green
	case tl == Yellow || hl == Yellow:
		return Yellow
	default:
		return Red
	}
}

func classify[T constraints.Integer](v, lo, hi, margin T) Level {
	switch {
	case v >= lo && v <= hi:
		return Green
	case v < lo && v >= lo-margin, v > hi && v <= hi+margin:
		return Yellow
	default:
		return Red
	}
}

// CO2Color returns the LED colour for a CO2 concentration.
func CO2Color(c ccs811.CO2) color.NRGBA {
	switch {
	case c < 600:
		return ColorBlue
	case c < 1000:
		return ColorGreen
	case c < 1500:
		return ColorYellow
	case c < 2200:
		return ColorOrange
	default:
		return ColorRed
	}
}

// ColorOf returns the colour for r: the CO2 band when CO2 is valid, the
// climate level otherwise.
func ColorOf(r *readings.Reading, t Thresholds) color.NRGBA {
	if r.Valid(readings.CO2) {
		return CO2Color(r.CO2)
	}
	return Classify(r, t).Color()
}
