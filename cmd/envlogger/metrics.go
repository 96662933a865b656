// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"net/http"

	"github.com/GermanBionicSystems/envlogger/readings"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"periph.io/x/conn/v3/physic"
)

type metrics struct {
	reg *prometheus.Registry

	temperature prometheus.Gauge
	humidity    prometheus.Gauge
	pressure    prometheus.Gauge
	illuminance prometheus.Gauge
	co2         prometheus.Gauge
	tvoc        prometheus.Gauge
	cycles      prometheus.Counter
	failures    *prometheus.CounterVec
}

func newMetrics() *metrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "envlogger", Name: name, Help: help})
	}
	m := &metrics{
		reg:         prometheus.NewRegistry(),
		temperature: gauge("temperature_celsius", "Temperature averaged over both sensors."),
		humidity:    gauge("humidity_percent", "Relative humidity."),
		pressure:    gauge("pressure_pascals", "Barometric pressure."),
		illuminance: gauge("illuminance_lux", "Ambient light."),
		co2:         gauge("co2_ppm", "Equivalent CO2."),
		tvoc:        gauge("tvoc_ppb", "Total volatile organic compounds."),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "envlogger",
			Name:      "cycles_total",
			Help:      "Acquisition cycles.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "envlogger",
			Name:      "read_failures_total",
			Help:      "Failed field reads.",
		}, []string{"field"}),
	}
	m.reg.MustRegister(m.temperature, m.humidity, m.pressure, m.illuminance, m.co2, m.tvoc, m.cycles, m.failures)
	return m
}

// observe updates the gauges of the valid fields of r. Gauges of failed
// fields keep their last value, so does the temperature gauge when only one
// sensor contributed to it.
func (m *metrics) observe(r *readings.Reading) {
	m.cycles.Inc()
	values := [readings.NumFields]float64{
		readings.Temperature: r.Celsius(),
		readings.Humidity:    r.HumidityPercent(),
		readings.Pressure:    float64(r.Pressure) / float64(physic.Pascal),
		readings.Illuminance: r.Illuminance,
		readings.CO2:         float64(r.CO2),
		readings.TVOC:        float64(r.TVOC),
	}
	gauges := [readings.NumFields]prometheus.Gauge{m.temperature, m.humidity, m.pressure, m.illuminance, m.co2, m.tvoc}
	for f := 0; f < readings.NumFields; f++ {
		field := readings.Field(f)
		switch {
		case field == readings.Temperature && r.Valid(field) && r.TemperatureSource != readings.Averaged:
			// Single sensor.
		case r.Valid(field):
			gauges[f].Set(values[f])
		case !errors.Is(r.Err(field), readings.ErrNoSensor):
			m.failures.WithLabelValues(field.String()).Inc()
		}
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
