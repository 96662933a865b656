// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import "errors"

var (
	// ErrIdentityMismatch is returned when the chip id register does not hold
	// the BMP280 id.
	ErrIdentityMismatch = errors.New("bmp280: chip id mismatch")
	// ErrCalibrationRead is returned when the calibration coefficients could
	// not be read. No device handle is returned in that case.
	ErrCalibrationRead = errors.New("bmp280: failed to read calibration coefficients")
	// ErrConfigWrite is returned when the reset, config or control register
	// write fails.
	ErrConfigWrite = errors.New("bmp280: failed to write configuration")
	// ErrCalibrationCopyTimeout is returned when the device keeps reporting that
	// it is copying its NVM calibration data after a reset.
	ErrCalibrationCopyTimeout = errors.New("bmp280: timeout waiting for calibration copy")
	// ErrMeasurementTimeout is returned when a forced measurement does not
	// complete in time.
	ErrMeasurementTimeout = errors.New("bmp280: timeout waiting for measurement")
	// ErrBusFailure wraps any I²C transfer error during a read.
	ErrBusFailure = errors.New("bmp280: bus failure")
)
