// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/GermanBionicSystems/envlogger/aht10"
	"github.com/GermanBionicSystems/envlogger/bmp280"
	"github.com/GermanBionicSystems/envlogger/ccs811"
	"github.com/GermanBionicSystems/envlogger/statusled"
	"periph.io/x/conn/v3/physic"
)

type config struct {
	bus      string
	bmpAddr  uint
	ahtAddr  uint
	ccsAddr  uint
	ccsReset string
	light    string
	forced   bool

	interval    time.Duration
	initRetries int
	initBackoff time.Duration

	led        string
	ledAddr    uint
	ledInvert  bool
	thresholds statusled.Thresholds

	metrics  string
	panelPNG string
	verbose  bool
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("envlogger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.bus, "bus", "", "I²C bus to use")
	fs.UintVar(&cfg.bmpAddr, "bmp280", uint(bmp280.DefaultAddress), "BMP280 address")
	fs.UintVar(&cfg.ahtAddr, "aht10", uint(aht10.DefaultAddress), "AHT10 address")
	fs.UintVar(&cfg.ccsAddr, "ccs811", 0, fmt.Sprintf("CCS811 address, 0 when absent (usually %#x)", ccs811.DefaultAddress))
	fs.StringVar(&cfg.ccsReset, "ccs811-reset", "", "GPIO wired to the CCS811 nRESET")
	fs.StringVar(&cfg.light, "light", "", "IIO raw ADC file of the GL5516 divider, e.g. /sys/bus/iio/devices/iio:device0/in_voltage0_raw")
	fs.BoolVar(&cfg.forced, "forced", false, "use BMP280 forced mode instead of normal mode")
	fs.DurationVar(&cfg.interval, "interval", 10*time.Second, "acquisition interval")
	fs.IntVar(&cfg.initRetries, "init-retries", 0, "sensor initialization attempts, 0 retries forever")
	fs.DurationVar(&cfg.initBackoff, "init-backoff", 2*time.Second, "delay between initialization attempts")
	fs.StringVar(&cfg.led, "led", "none", "status LED: none, terminal or pca9633")
	fs.UintVar(&cfg.ledAddr, "led-addr", uint(statusled.PCA9633Address), "PCA9633 address")
	fs.BoolVar(&cfg.ledInvert, "led-invert", false, "invert the PCA9633 outputs for common anode LEDs")
	tMin := fs.Int("tmin", 22, "lowest comfortable temperature in °C")
	tMax := fs.Int("tmax", 26, "highest comfortable temperature in °C")
	hMin := fs.Int("hmin", 30, "lowest comfortable humidity in %rH")
	hMax := fs.Int("hmax", 60, "highest comfortable humidity in %rH")
	fs.StringVar(&cfg.metrics, "metrics", "", "address to serve Prometheus metrics on, e.g. :9100")
	fs.StringVar(&cfg.panelPNG, "panel", "", "PNG file the display panel is rendered to")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, errors.New("unexpected argument, try -help")
	}
	if cfg.interval <= 0 {
		return nil, errors.New("-interval must be positive")
	}
	if cfg.initRetries < 0 {
		return nil, errors.New("-init-retries must not be negative")
	}
	switch cfg.led {
	case "none", "terminal", "pca9633":
	default:
		return nil, fmt.Errorf("unknown -led %q", cfg.led)
	}
	for _, a := range []uint{cfg.bmpAddr, cfg.ahtAddr, cfg.ccsAddr, cfg.ledAddr} {
		if a > 0x7f {
			return nil, fmt.Errorf("invalid I²C address %#x", a)
		}
	}
	cfg.thresholds = statusled.Thresholds{
		TemperatureMin: physic.ZeroCelsius + physic.Temperature(*tMin)*physic.Celsius,
		TemperatureMax: physic.ZeroCelsius + physic.Temperature(*tMax)*physic.Celsius,
		HumidityMin:    physic.RelativeHumidity(*hMin) * physic.PercentRH,
		HumidityMax:    physic.RelativeHumidity(*hMax) * physic.PercentRH,
	}.Normalize()
	return cfg, nil
}
