// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gl5516

import (
	"errors"
	"math"
	"testing"

	"periph.io/x/conn/v3/analog"
)

type fakeADC struct {
	raw int32
	err error
}

func (f *fakeADC) Read() (analog.Sample, error) {
	return analog.Sample{Raw: f.raw}, f.err
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestResistance(t *testing.T) {
	var tests = []struct {
		code   int32
		result float64
	}{
		{code: 2048, result: 1000},
		{code: 3000, result: 2739},
		{code: 1000, result: 323},
		{code: 1, result: 1},
		{code: 0, result: 1},
		{code: -5, result: 1},
	}
	for _, test := range tests {
		if res := Resistance(test.code); res != test.result {
			t.Errorf("Resistance(%d)=%v expected %v", test.code, res, test.result)
		}
	}
	if res := Resistance(FullScale); !math.IsInf(res, 1) {
		t.Errorf("Resistance(FullScale)=%v expected +Inf", res)
	}
}

func TestLux(t *testing.T) {
	var tests = []struct {
		code   int32
		result float64
	}{
		{code: 2048, result: 4296.76381954411},
		{code: 3000, result: 612.0169561752027},
		{code: 1000, result: 38232.08343513994},
		{code: 4094, result: 0.00044322899056087415},
		{code: 1, result: 2726816522.229329},
		{code: 0, result: 2726816522.229329},
		{code: 4095, result: 0},
		{code: 5000, result: 0},
	}
	for _, test := range tests {
		if res := Lux(test.code); !almostEqual(res, test.result) {
			t.Errorf("Lux(%d)=%v expected %v", test.code, res, test.result)
		}
	}
	if Lux(0) == Lux(4094) {
		t.Error("codes 0 and 4094 must differ")
	}
}

func TestIlluminance(t *testing.T) {
	d := New(&fakeADC{raw: 2048})
	lux, err := d.Illuminance()
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(lux, 4296.76381954411) {
		t.Errorf("Illuminance()=%v", lux)
	}

	d = New(&fakeADC{err: errors.New("adc busy")})
	if _, err := d.Illuminance(); !errors.Is(err, ErrNoSample) {
		t.Fatalf("expected ErrNoSample, got %v", err)
	}
}
