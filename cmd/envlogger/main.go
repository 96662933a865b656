// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// envlogger reads the environmental sensors of the data logger in a loop,
// reports every cycle on the console and drives the status LED.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/envlogger/aht10"
	"github.com/GermanBionicSystems/envlogger/bmp280"
	"github.com/GermanBionicSystems/envlogger/ccs811"
	"github.com/GermanBionicSystems/envlogger/gl5516"
	"github.com/GermanBionicSystems/envlogger/panel"
	"github.com/GermanBionicSystems/envlogger/readings"
	"github.com/GermanBionicSystems/envlogger/statusled"
	logger "github.com/d2r2/go-logger"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var lg = logger.NewPackageLogger("envlogger", logger.InfoLevel)

// retry calls f until it succeeds. retries of 0 retries forever. The wait
// between attempts ends early when ctx is done.
func retry(ctx context.Context, name string, retries int, backoff time.Duration, f func() error) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		err := f()
		if err == nil {
			lg.Infof("%s: Start", name)
			return nil
		}
		lg.Errorf("%s: Initialization failed: %v", name, err)
		if retries > 0 && attempt >= retries {
			return fmt.Errorf("%s: giving up after %d attempts: %w", name, attempt, err)
		}
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%s: %w", name, ctx.Err())
		case <-t.C:
		}
	}
}

type app struct {
	cfg     *config
	agg     *readings.Aggregator
	led     statusled.LED
	panel   *panel.Panel
	metrics *metrics
	report  reporter
	air     *ccs811.Dev
}

func bringUp(ctx context.Context, cfg *config, b i2c.Bus) (*app, error) {
	a := &app{cfg: cfg, agg: &readings.Aggregator{}}
	lg.Notify("INITIALIZATION STARTED")

	baroOpts := bmp280.DefaultOpts
	if cfg.forced {
		baroOpts.Mode = bmp280.ModeForced
	}
	err := retry(ctx, "BMP280", cfg.initRetries, cfg.initBackoff, func() error {
		d, err := bmp280.NewI2C(b, uint16(cfg.bmpAddr), &baroOpts)
		if err == nil {
			lg.Debugf("BMP280 calibration %+v", d.Calibration())
			a.agg.Barometer = d
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	err = retry(ctx, "AHT10", cfg.initRetries, cfg.initBackoff, func() error {
		d, err := aht10.NewI2C(b, uint16(cfg.ahtAddr), nil)
		if err == nil {
			a.agg.Hygrometer = d
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if cfg.ccsAddr != 0 {
		opts := ccs811.DefaultOpts
		if cfg.ccsReset != "" {
			p := gpioreg.ByName(cfg.ccsReset)
			if p == nil {
				return nil, fmt.Errorf("no such gpio %q", cfg.ccsReset)
			}
			opts.Reset = p
		}
		err = retry(ctx, "CCS811", cfg.initRetries, cfg.initBackoff, func() error {
			d, err := ccs811.NewI2C(b, uint16(cfg.ccsAddr), &opts)
			if err == nil {
				a.air = d
				a.agg.Air = d
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	if cfg.light != "" {
		a.agg.Light = gl5516.New(&iioADC{path: cfg.light})
	}

	switch cfg.led {
	case "terminal":
		a.led = statusled.NewTerminal(nil)
	case "pca9633":
		opts := statusled.DefaultPCA9633Opts
		opts.Invert = cfg.ledInvert
		if a.led, err = statusled.NewPCA9633(b, uint16(cfg.ledAddr), &opts); err != nil {
			return nil, err
		}
	}
	if cfg.panelPNG != "" {
		if a.panel, err = panel.New(newPNGDrawer(cfg.panelPNG, panelWidth, panelHeight), nil); err != nil {
			return nil, err
		}
	}
	if cfg.metrics != "" {
		a.metrics = newMetrics()
	}
	lg.Notify("INITIALIZATION FINISHED")
	return a, nil
}

// cycle runs one acquisition and publishes it.
func (a *app) cycle() {
	r := a.agg.Acquire()
	for _, l := range a.report.lines(&r) {
		lg.Infof("%s", l)
	}
	for _, l := range a.report.failures(&r) {
		lg.Errorf("%s", l)
	}
	if a.led != nil {
		if err := a.led.SetColor(statusled.ColorOf(&r, a.cfg.thresholds)); err != nil {
			lg.Errorf("LED: %v", err)
		}
	}
	if a.panel != nil {
		if err := a.panel.Draw(&r); err != nil {
			lg.Errorf("panel: %v", err)
		}
	}
	if a.metrics != nil {
		a.metrics.observe(&r)
	}
}

func (a *app) halt() {
	if a.led != nil {
		_ = a.led.Halt()
	}
	if a.air != nil {
		_ = a.air.Halt()
	}
}

func mainImpl(ctx context.Context, cfg *config) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(cfg.bus)
	if err != nil {
		return fmt.Errorf("failed to open I²C: %w", err)
	}
	defer b.Close()

	a, err := bringUp(ctx, cfg, b)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	defer a.halt()

	if a.metrics != nil {
		srv := &http.Server{Addr: cfg.metrics, Handler: a.metrics.handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Errorf("metrics: %v", err)
			}
		}()
		defer srv.Close()
	}

	t := time.NewTicker(cfg.interval)
	defer t.Stop()
	for {
		a.cycle()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func main() {
	defer logger.FinalizeLogger()
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		lg.Fatal(err)
	}
	if cfg.verbose {
		_ = logger.ChangePackageLogLevel("envlogger", logger.DebugLevel)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := mainImpl(ctx, cfg); err != nil {
		lg.Fatal(err)
	}
}
