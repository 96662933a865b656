// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"encoding/binary"

	"periph.io/x/conn/v3/physic"
)

// calibrationSize is the length of the dig_T1..dig_P9 block starting at
// register 0x88.
const calibrationSize = 24

// Calibration holds the factory trimming parameters of one device.
type Calibration struct {
	T1 uint16
	T2 int16
	T3 int16

	P1 uint16
	P2 int16
	P3 int16
	P4 int16
	P5 int16
	P6 int16
	P7 int16
	P8 int16
	P9 int16
}

// parseCalibration decodes the little-endian calibration block.
func parseCalibration(b []byte) Calibration {
	u := func(i int) uint16 { return binary.LittleEndian.Uint16(b[2*i:]) }
	s := func(i int) int16 { return int16(u(i)) }
	return Calibration{
		T1: u(0), T2: s(1), T3: s(2),
		P1: u(3), P2: s(4), P3: s(5), P4: s(6), P5: s(7),
		P6: s(8), P7: s(9), P8: s(10), P9: s(11),
	}
}

// Fixed is a compensated sample in the datasheet's fixed point units.
type Fixed struct {
	// Temperature in hundredths of a degree Celsius. 2508 is 25.08°C.
	Temperature int32
	// Pressure in Pa as unsigned Q24.8. 24674867 is 24674867/256 = 96386.2 Pa.
	Pressure uint32
}

// TemperatureValue converts the fixed point temperature.
func (f Fixed) TemperatureValue() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(f.Temperature)*10*physic.MilliKelvin
}

// PressureValue converts the fixed point pressure.
func (f Fixed) PressureValue() physic.Pressure {
	return physic.Pressure(int64(f.Pressure) * int64(physic.Pascal) / 256)
}

// Compensate converts a raw temperature and pressure pair. It is a pure
// function of the calibration and the raw codes. The temperature is
// compensated first since its fine temperature is an input of the pressure
// formula.
func (c *Calibration) Compensate(rawTemperature, rawPressure int32) Fixed {
	t, fine := c.compensateTemperature(rawTemperature)
	return Fixed{Temperature: t, Pressure: c.compensatePressure(rawPressure, fine)}
}

// compensateTemperature returns the temperature in 0.01°C and the fine
// temperature. Section 3.11.3 of the datasheet.
func (c *Calibration) compensateTemperature(raw int32) (int32, int32) {
	var1 := (((raw >> 3) - (int32(c.T1) << 1)) * int32(c.T2)) >> 11
	d := (raw >> 4) - int32(c.T1)
	var2 := (((d * d) >> 12) * int32(c.T3)) >> 14
	fine := var1 + var2
	return (fine*5 + 128) >> 8, fine
}

// compensatePressure returns the pressure in Pa as Q24.8. A zero denominator
// yields 0.
func (c *Calibration) compensatePressure(raw, fine int32) uint32 {
	var1 := int64(fine) - 128000
	var2 := var1 * var1 * int64(c.P6)
	var2 += (var1 * int64(c.P5)) << 17
	var2 += int64(c.P4) << 35
	var1 = ((var1 * var1 * int64(c.P3)) >> 8) + ((var1 * int64(c.P2)) << 12)
	var1 = (((int64(1) << 47) + var1) * int64(c.P1)) >> 33
	if var1 == 0 {
		return 0
	}
	p := int64(1048576) - int64(raw)
	p = (((p << 31) - var2) * 3125) / var1
	var1 = (int64(c.P9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.P8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.P7) << 4)
	return uint32(p)
}

// decodeSample extracts the 20 bit codes from the press_msb..temp_xlsb burst.
func decodeSample(b []byte) (rawTemperature, rawPressure int32) {
	rawPressure = int32(b[0])<<12 | int32(b[1])<<4 | int32(b[2])>>4
	rawTemperature = int32(b[3])<<12 | int32(b[4])<<4 | int32(b[5])>>4
	return
}
