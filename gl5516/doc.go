// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gl5516 converts the reading of a GL5516 photoresistor into
// illuminance.
//
// The photoresistor is the lower leg of a voltage divider with a 1kΩ fixed
// resistor, sampled by a 12 bit ADC. The transfer curve is empirical and fitted
// for this part.
//
// # Datasheet
//
// https://cdn.sparkfun.com/datasheets/Sensors/LightImaging/SEN-09088.pdf
package gl5516
