// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aht10_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/envlogger/aht10"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	d, err := aht10.NewI2C(b, aht10.DefaultAddress, nil)
	if err != nil {
		log.Fatalf("failed to initialize AHT10: %v", err)
	}

	m, err := d.TriggerAndRead()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%8s %9s\n", m.Temperature, m.Humidity)
}
