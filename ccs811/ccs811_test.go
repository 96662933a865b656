// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ccs811

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

const addr = DefaultAddress

var startOps = []i2ctest.IO{
	{Addr: addr, W: []byte{regStatus}, R: []byte{statusAppValid}},
	{Addr: addr, W: []byte{regAppStart}},
	{Addr: addr, W: []byte{regMeasMode, 0x10}},
}

func initOps(extra ...i2ctest.IO) []i2ctest.IO {
	ops := []i2ctest.IO{{Addr: addr, W: []byte{regHWID}, R: []byte{hardwareID}}}
	ops = append(ops, startOps...)
	return append(ops, extra...)
}

// resetPin records every level driven on it.
type resetPin struct {
	gpiotest.Pin
	levels []gpio.Level
}

func (p *resetPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return p.Pin.Out(l)
}

func TestNewI2C(t *testing.T) {
	bus := &i2ctest.Playback{Ops: initOps(), DontPanic: true}
	if _, err := newDev(bus, addr, nil, func(time.Duration) {}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewI2CProbeReset(t *testing.T) {
	ops := []i2ctest.IO{
		{Addr: addr, W: []byte{regHWID}, R: []byte{0xff}},
		{Addr: addr, W: []byte{regHWID}, R: []byte{hardwareID}},
	}
	bus := &i2ctest.Playback{Ops: append(ops, startOps...), DontPanic: true}
	pin := &resetPin{Pin: gpiotest.Pin{N: "nRESET"}}
	opts := DefaultOpts
	opts.Reset = pin
	if _, err := newDev(bus, addr, &opts, func(time.Duration) {}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pin.levels, []gpio.Level{gpio.Low, gpio.High}); diff != "" {
		t.Errorf("nRESET mismatch (-got +want):\n%s", diff)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewI2CIdentityMismatch(t *testing.T) {
	var ops []i2ctest.IO
	for n := 0; n < DefaultOpts.ProbeRetries; n++ {
		ops = append(ops, i2ctest.IO{Addr: addr, W: []byte{regHWID}, R: []byte{0x55}})
	}
	bus := &i2ctest.Playback{Ops: ops, DontPanic: true}
	d, err := newDev(bus, addr, nil, func(time.Duration) {})
	if !errors.Is(err, ErrIdentityMismatch) {
		t.Fatalf("expected ErrIdentityMismatch, got %v", err)
	}
	if d != nil {
		t.Error("expected no handle")
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewI2CFirmwareError(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{regHWID}, R: []byte{hardwareID}},
			{Addr: addr, W: []byte{regStatus}, R: []byte{statusAppValid | statusError}},
			{Addr: addr, W: []byte{regErrorID}, R: []byte{0x01}},
		},
		DontPanic: true,
	}
	if _, err := newDev(bus, addr, nil, func(time.Duration) {}); !errors.Is(err, ErrFirmware) {
		t.Fatalf("expected ErrFirmware, got %v", err)
	}
}

func TestNewI2CNoApplication(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{regHWID}, R: []byte{hardwareID}},
			{Addr: addr, W: []byte{regStatus}, R: []byte{0x00}},
		},
		DontPanic: true,
	}
	if _, err := newDev(bus, addr, nil, func(time.Duration) {}); !errors.Is(err, ErrFirmware) {
		t.Fatalf("expected ErrFirmware, got %v", err)
	}
}

func TestSense(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: initOps(
			i2ctest.IO{Addr: addr, W: []byte{regStatus}, R: []byte{statusAppValid | statusDataReady}},
			i2ctest.IO{Addr: addr, W: []byte{regAlgResult}, R: []byte{0x01, 0xf4, 0x00, 0x2a}},
			i2ctest.IO{Addr: addr, W: []byte{regStatus}, R: []byte{statusAppValid}},
		),
		DontPanic: true,
	}
	d, err := newDev(bus, addr, nil, func(time.Duration) {})
	if err != nil {
		t.Fatal(err)
	}
	e, err := d.Sense()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(e, Env{CO2: 500, TVOC: 42}); diff != "" {
		t.Errorf("result mismatch (-got +want):\n%s", diff)
	}
	if e.CO2.String() != "500ppm" || e.TVOC.String() != "42ppb" {
		t.Errorf("unexpected strings %s %s", e.CO2, e.TVOC)
	}
	if _, err := d.Sense(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSetEnvironment(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: initOps(
			i2ctest.IO{Addr: addr, W: []byte{regEnvData, 0x61, 0x00, 0x64, 0x00}},
			i2ctest.IO{Addr: addr, W: []byte{regMeasMode, 0x00}},
		),
		DontPanic: true,
	}
	d, err := newDev(bus, addr, nil, func(time.Duration) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetEnvironment(485*physic.MilliRH, physic.ZeroCelsius+25*physic.Kelvin); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestEncodeEnvironment(t *testing.T) {
	if v := encodeTemperature(physic.ZeroCelsius - 40*physic.Kelvin); v != 0 {
		t.Errorf("encodeTemperature(-40°C)=%d expected 0", v)
	}
	if v := encodeHumidity(100 * physic.PercentRH); v != 51200 {
		t.Errorf("encodeHumidity(100%%)=%d expected 51200", v)
	}
}
