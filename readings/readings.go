// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package readings combines the sensors of the logger into one Reading per
// acquisition cycle.
//
// Every sensor is read once per cycle, independently of the others. A failed
// read marks its fields invalid for that cycle and is never retried.
package readings

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/envlogger/ccs811"
	"periph.io/x/conn/v3/physic"
)

// ErrNoSensor is the error of a field whose sensor is not configured.
var ErrNoSensor = errors.New("readings: sensor not configured")

// Sensor is a temperature sensor that may also report humidity or pressure.
// bmp280.Dev and aht10.Dev implement it.
type Sensor interface {
	Sense(e *physic.Env) error
}

// LightSensor reports illuminance in lux. gl5516.Dev implements it.
type LightSensor interface {
	Illuminance() (float64, error)
}

// AirSensor reports air quality and accepts environmental compensation.
// ccs811.Dev implements it.
type AirSensor interface {
	Sense() (ccs811.Env, error)
	SetEnvironment(h physic.RelativeHumidity, t physic.Temperature) error
}

// Field identifies one value of a Reading.
type Field int

const (
	Temperature Field = iota
	Humidity
	Pressure
	Illuminance
	CO2
	TVOC

	// NumFields is the number of fields of a Reading.
	NumFields = int(TVOC) + 1
)

func (f Field) String() string {
	switch f {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Pressure:
		return "pressure"
	case Illuminance:
		return "illuminance"
	case CO2:
		return "CO2"
	case TVOC:
		return "TVOC"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// TemperatureSource tells which sensors contributed to Reading.Temperature.
type TemperatureSource int

const (
	// NoTemperature means both sensors failed.
	NoTemperature TemperatureSource = iota
	// Averaged is the mean of both sensors.
	Averaged
	// BarometerOnly means the hygrometer failed.
	BarometerOnly
	// HygrometerOnly means the barometer failed.
	HygrometerOnly
)

func (s TemperatureSource) String() string {
	switch s {
	case NoTemperature:
		return "none"
	case Averaged:
		return "averaged"
	case BarometerOnly:
		return "barometer"
	case HygrometerOnly:
		return "hygrometer"
	default:
		return fmt.Sprintf("TemperatureSource(%d)", int(s))
	}
}

// Reading is the result of one acquisition cycle.
type Reading struct {
	Time              time.Time
	Temperature       physic.Temperature
	TemperatureSource TemperatureSource
	Humidity          physic.RelativeHumidity
	Pressure          physic.Pressure
	// Illuminance in lux.
	Illuminance float64
	CO2         ccs811.CO2
	TVOC        ccs811.TVOC

	// Errs holds the failure of each field, nil when the field is valid.
	Errs [NumFields]error
}

// Valid reports whether f was measured this cycle.
func (r *Reading) Valid(f Field) bool {
	return r.Errs[f] == nil
}

// Err returns the failure of f.
func (r *Reading) Err(f Field) error {
	return r.Errs[f]
}

// PressureMMHg returns the pressure in millimetres of mercury.
func (r *Reading) PressureMMHg() float64 {
	return float64(r.Pressure) / float64(physic.Pascal) * 0.750062 / 100
}

// Celsius returns the temperature in °C.
func (r *Reading) Celsius() float64 {
	return r.Temperature.Celsius()
}

// HumidityPercent returns the humidity in %RH.
func (r *Reading) HumidityPercent() float64 {
	return float64(r.Humidity) / float64(physic.PercentRH)
}

// Aggregator reads all sensors of the logger. Barometer and Hygrometer are
// required, Light and Air may be nil.
type Aggregator struct {
	Barometer  Sensor
	Hygrometer Sensor
	Light      LightSensor
	Air        AirSensor

	now func() time.Time
}

// Acquire performs one acquisition cycle.
func (a *Aggregator) Acquire() Reading {
	now := a.now
	if now == nil {
		now = time.Now
	}
	r := Reading{Time: now()}

	var baro, hygro physic.Env
	baroErr := sense(a.Barometer, &baro)
	hygroErr := sense(a.Hygrometer, &hygro)

	switch {
	case baroErr == nil && hygroErr == nil:
		r.Temperature = (baro.Temperature + hygro.Temperature) / 2
		r.TemperatureSource = Averaged
	case baroErr == nil:
		r.Temperature = baro.Temperature
		r.TemperatureSource = BarometerOnly
	case hygroErr == nil:
		r.Temperature = hygro.Temperature
		r.TemperatureSource = HygrometerOnly
	default:
		r.Errs[Temperature] = errors.Join(baroErr, hygroErr)
	}
	if baroErr == nil {
		r.Pressure = baro.Pressure
	} else {
		r.Errs[Pressure] = baroErr
	}
	if hygroErr == nil {
		r.Humidity = hygro.Humidity
	} else {
		r.Errs[Humidity] = hygroErr
	}

	if a.Light == nil {
		r.Errs[Illuminance] = ErrNoSensor
	} else if lux, err := a.Light.Illuminance(); err != nil {
		r.Errs[Illuminance] = err
	} else {
		r.Illuminance = lux
	}

	if a.Air == nil {
		r.Errs[CO2] = ErrNoSensor
		r.Errs[TVOC] = ErrNoSensor
		return r
	}
	if r.Valid(Humidity) && r.Valid(Temperature) {
		// Best effort.
		_ = a.Air.SetEnvironment(r.Humidity, r.Temperature)
	}
	if env, err := a.Air.Sense(); err != nil {
		r.Errs[CO2] = err
		r.Errs[TVOC] = err
	} else {
		r.CO2 = env.CO2
		r.TVOC = env.TVOC
	}
	return r
}

func sense(s Sensor, e *physic.Env) error {
	if s == nil {
		return ErrNoSensor
	}
	return s.Sense(e)
}
