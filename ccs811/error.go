// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ccs811

import "errors"

var (
	// ErrIdentityMismatch is returned when the hardware id is not 0x81.
	ErrIdentityMismatch = errors.New("ccs811: hardware id mismatch")
	// ErrFirmware is returned when the status register reports an error or
	// when no valid application firmware is loaded.
	ErrFirmware = errors.New("ccs811: firmware error")
	// ErrNotReady is returned by Sense when no new result is available.
	ErrNotReady = errors.New("ccs811: data not ready")
	// ErrBusFailure wraps any I²C transfer error.
	ErrBusFailure = errors.New("ccs811: bus failure")
)
