// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp280 controls a Bosch BMP280 barometric pressure and temperature
// sensor over I²C.
//
// The driver reads the twelve factory calibration coefficients once at
// initialization and applies the datasheet's 32 bit temperature and 64 bit
// pressure integer compensation to every sample. Temperature and pressure are
// always fetched with a single 6 byte burst so that both values come from the
// same conversion.
//
// The bmp280.Dev type implements the physic.SenseEnv interface. Humidity is
// never set since the BMP280 does not measure it.
//
// # Datasheet
//
// https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp280-ds001.pdf
package bmp280
