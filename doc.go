// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package envlogger is a container for the drivers and services of an indoor
// environmental data logger.
//
// bmp280, aht10, ccs811 and gl5516 drive the sensors. readings combines them
// into one Reading per cycle, statusled rates it on an RGB LED and panel
// renders it on a display. cmd/envlogger ties them together.
package envlogger
