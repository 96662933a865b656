// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readings

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/GermanBionicSystems/envlogger/ccs811"
	"periph.io/x/conn/v3/physic"
)

var errBus = errors.New("bus failure")

type fakeSensor struct {
	env   physic.Env
	err   error
	calls int
}

func (f *fakeSensor) Sense(e *physic.Env) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	*e = f.env
	return nil
}

type fakeLight struct {
	lux float64
	err error
}

func (f *fakeLight) Illuminance() (float64, error) {
	return f.lux, f.err
}

type fakeAir struct {
	env       ccs811.Env
	err       error
	humidity  physic.RelativeHumidity
	celsius   physic.Temperature
	envWrites int
}

func (f *fakeAir) Sense() (ccs811.Env, error) {
	return f.env, f.err
}

func (f *fakeAir) SetEnvironment(h physic.RelativeHumidity, t physic.Temperature) error {
	f.envWrites++
	f.humidity = h
	f.celsius = t
	return nil
}

func celsius(c int) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(c)*physic.Celsius
}

func TestAcquireTemperature(t *testing.T) {
	baroEnv := physic.Env{Temperature: celsius(24), Pressure: 100 * physic.KiloPascal}
	hygroEnv := physic.Env{Temperature: celsius(26), Humidity: 45 * physic.PercentRH}
	var tests = []struct {
		name             string
		baroErr, hygroErr error
		temperature      physic.Temperature
		source           TemperatureSource
	}{
		{name: "both", temperature: celsius(25), source: Averaged},
		{name: "barometer", hygroErr: errBus, temperature: celsius(24), source: BarometerOnly},
		{name: "hygrometer", baroErr: errBus, temperature: celsius(26), source: HygrometerOnly},
		{name: "none", baroErr: errBus, hygroErr: errBus, source: NoTemperature},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			baro := &fakeSensor{env: baroEnv, err: test.baroErr}
			hygro := &fakeSensor{env: hygroEnv, err: test.hygroErr}
			a := Aggregator{Barometer: baro, Hygrometer: hygro}
			r := a.Acquire()
			if baro.calls != 1 || hygro.calls != 1 {
				t.Errorf("each sensor must be read once, got %d and %d", baro.calls, hygro.calls)
			}
			if r.TemperatureSource != test.source {
				t.Errorf("source %s expected %s", r.TemperatureSource, test.source)
			}
			if r.Temperature != test.temperature {
				t.Errorf("temperature %s expected %s", r.Temperature, test.temperature)
			}
			if r.Valid(Temperature) != (test.source != NoTemperature) {
				t.Errorf("temperature validity %t", r.Valid(Temperature))
			}
			if r.Valid(Pressure) != (test.baroErr == nil) {
				t.Errorf("pressure validity %t", r.Valid(Pressure))
			}
			if r.Valid(Humidity) != (test.hygroErr == nil) {
				t.Errorf("humidity validity %t", r.Valid(Humidity))
			}
			if test.source == NoTemperature && !errors.Is(r.Err(Temperature), errBus) {
				t.Errorf("temperature error %v", r.Err(Temperature))
			}
		})
	}
}

func TestAcquireOptionalSensors(t *testing.T) {
	a := Aggregator{
		Barometer:  &fakeSensor{env: physic.Env{Temperature: celsius(20)}},
		Hygrometer: &fakeSensor{err: errBus},
	}
	r := a.Acquire()
	for _, f := range []Field{Illuminance, CO2, TVOC} {
		if !errors.Is(r.Err(f), ErrNoSensor) {
			t.Errorf("%s error %v expected ErrNoSensor", f, r.Err(f))
		}
	}
}

func TestAcquireLightAndAir(t *testing.T) {
	air := &fakeAir{env: ccs811.Env{CO2: 812, TVOC: 40}}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Aggregator{
		Barometer:  &fakeSensor{env: physic.Env{Temperature: celsius(22), Pressure: 101325 * physic.Pascal}},
		Hygrometer: &fakeSensor{env: physic.Env{Temperature: celsius(24), Humidity: 50 * physic.PercentRH}},
		Light:      &fakeLight{lux: 300},
		Air:        air,
		now:        func() time.Time { return fixed },
	}
	r := a.Acquire()
	if !r.Time.Equal(fixed) {
		t.Errorf("time %s", r.Time)
	}
	if r.Illuminance != 300 {
		t.Errorf("illuminance %v", r.Illuminance)
	}
	if r.CO2 != 812 || r.TVOC != 40 {
		t.Errorf("air %s %s", r.CO2, r.TVOC)
	}
	if air.envWrites != 1 || air.humidity != 50*physic.PercentRH || air.celsius != celsius(23) {
		t.Errorf("environment feedback %d %s %s", air.envWrites, air.humidity, air.celsius)
	}
	if math.Abs(r.PressureMMHg()-760.0003215) > 1e-6 {
		t.Errorf("PressureMMHg()=%v", r.PressureMMHg())
	}
	if r.Celsius() != 23 || r.HumidityPercent() != 50 {
		t.Errorf("Celsius()=%v HumidityPercent()=%v", r.Celsius(), r.HumidityPercent())
	}
}

func TestAcquireFailures(t *testing.T) {
	air := &fakeAir{err: ccs811.ErrNotReady}
	a := Aggregator{
		Barometer:  &fakeSensor{env: physic.Env{Temperature: celsius(22)}},
		Hygrometer: &fakeSensor{err: errBus},
		Light:      &fakeLight{err: errBus},
		Air:        air,
	}
	r := a.Acquire()
	if r.Valid(Illuminance) {
		t.Error("illuminance must be invalid")
	}
	if !errors.Is(r.Err(CO2), ccs811.ErrNotReady) || !errors.Is(r.Err(TVOC), ccs811.ErrNotReady) {
		t.Errorf("air errors %v %v", r.Err(CO2), r.Err(TVOC))
	}
	if air.envWrites != 0 {
		t.Error("environment must not be fed without humidity")
	}
}
