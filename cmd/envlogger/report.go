// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GermanBionicSystems/envlogger/panel"
	"github.com/GermanBionicSystems/envlogger/readings"
	"github.com/dustin/go-humanize"
)

// reporter formats cycles for the console and remembers when each field was
// last read successfully.
type reporter struct {
	lastGood [readings.NumFields]time.Time
}

// lines returns the summary of r.
func (rp *reporter) lines(r *readings.Reading) []string {
	for f := 0; f < readings.NumFields; f++ {
		if r.Valid(readings.Field(f)) {
			rp.lastGood[f] = r.Time
		}
	}
	out := []string{strings.Join(panel.Lines(r), ", ")}
	if r.Valid(readings.Temperature) && r.TemperatureSource != readings.Averaged {
		out = append(out, fmt.Sprintf("temperature from %s only", r.TemperatureSource))
	}
	return out
}

// failures returns one line per failed field.
func (rp *reporter) failures(r *readings.Reading) []string {
	var out []string
	for f := 0; f < readings.NumFields; f++ {
		field := readings.Field(f)
		err := r.Err(field)
		if err == nil || errors.Is(err, readings.ErrNoSensor) {
			continue
		}
		since := "never read"
		if t := rp.lastGood[f]; !t.IsZero() {
			since = "last read " + humanize.RelTime(t, r.Time, "ago", "from now")
		}
		out = append(out, fmt.Sprintf("%s reading failed (%s): %v", capitalize(field.String()), since, err))
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
