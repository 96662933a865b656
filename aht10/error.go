// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aht10

import "errors"

var (
	// ErrCalibrationNotLoaded is returned by NewI2C when the calibrated bit is
	// still clear after the calibration load command.
	ErrCalibrationNotLoaded = errors.New("aht10: calibration not loaded")
	// ErrConfigWrite is returned when an initialization command fails.
	ErrConfigWrite = errors.New("aht10: failed to write command")
	// ErrStaleCalibration is returned when the calibrated bit was lost since
	// initialization. SoftReset recovers from it.
	ErrStaleCalibration = errors.New("aht10: calibration lost")
	// ErrBusFailure wraps any I²C transfer error during a measurement.
	ErrBusFailure = errors.New("aht10: bus failure")
)
