// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/analog"
)

// iioADC reads one channel of a Linux industrial I/O ADC through sysfs.
type iioADC struct {
	path string
}

func (a *iioADC) Read() (analog.Sample, error) {
	b, err := os.ReadFile(a.path)
	if err != nil {
		return analog.Sample{}, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 32)
	if err != nil {
		return analog.Sample{}, fmt.Errorf("iio: %s: %w", a.path, err)
	}
	return analog.Sample{Raw: int32(v)}, nil
}

func (a *iioADC) String() string {
	return "iio:" + a.path
}
