// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/envlogger/bmp280"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	opts := bmp280.DefaultOpts
	opts.Filter = bmp280.Filter4
	d, err := bmp280.NewI2C(b, bmp280.DefaultAddress, &opts)
	if err != nil {
		log.Fatalf("failed to initialize BMP280: %v", err)
	}

	e := physic.Env{}
	if err := d.Sense(&e); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%8s %10s\n", e.Temperature, e.Pressure)
}
