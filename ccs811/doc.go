// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ccs811 controls a CCS811 equivalent CO2 and TVOC sensor over I²C.
//
// The sensor boots into its bootloader. NewI2C checks the hardware id, starts
// the application firmware and selects a drive mode, after which the sensor
// produces a result at the drive mode period. An optional nRESET pin is
// pulsed when the sensor does not answer.
//
// # Datasheet
//
// https://www.sciosense.com/wp-content/uploads/2020/01/SC-001232-DS-2-CCS811B-Datasheet-Revision-2.pdf
package ccs811
