// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package aht10 controls an AHT10 temperature and humidity sensor over I²C.
//
// The sensor has no register map. It is driven with three byte commands and
// answers with a status byte followed by two 20 bit codes. The aht10.Dev type
// implements physic.SenseEnv; the pressure field of the result is never set.
//
// Every delay of the command protocol is blocking and fixed, no completion
// interrupt exists.
//
// # Datasheet
//
// https://server4.eca.ir/eshop/AHT10/Aosong_AHT10_en_draft_0c.pdf
package aht10
