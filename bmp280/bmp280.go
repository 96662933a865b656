// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/envlogger/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the address with SDO tied to GND.
	DefaultAddress uint16 = 0x76
	// AlternateAddress is the address with SDO tied to VDDIO.
	AlternateAddress uint16 = 0x77

	chipID byte = 0x58
)

const (
	regCalibration byte = 0x88
	regChipID      byte = 0xD0
	regReset       byte = 0xE0
	regStatus      byte = 0xF3
	regCtrlMeas    byte = 0xF4
	regConfig      byte = 0xF5
	regData        byte = 0xF7

	resetValue byte = 0xB6

	statusImUpdate  byte = 1 << 0
	statusMeasuring byte = 1 << 3

	ctrlTemperatureShift = 5
	ctrlPressureShift    = 2
	ctrlModeMask         = 0x03
	configStandbyShift   = 5
	configFilterShift    = 2
)

// Mode is the power mode written to the ctrl_meas register.
type Mode byte

const (
	// ModeSleep performs no measurement.
	ModeSleep Mode = 0
	// ModeForced performs one measurement per Sense call and returns to sleep.
	ModeForced Mode = 1
	// ModeNormal measures continuously, separated by the standby time.
	ModeNormal Mode = 3
)

// Filter is the IIR filter coefficient.
type Filter byte

const (
	FilterOff Filter = iota
	Filter2
	Filter4
	Filter8
	Filter16
)

// Oversampling is the oversampling factor of one channel.
type Oversampling byte

const (
	// Skipped disables the channel; its output stays at 0x80000.
	Skipped Oversampling = iota
	O1x
	O2x
	O4x
	O8x
	O16x
)

// Standby is the inactive time between two measurements in normal mode.
type Standby byte

const (
	S500us Standby = iota
	S62ms
	S125ms
	S250ms
	S500ms
	S1s
	S2s
	S4s
)

// Opts holds the configuration options for the device.
type Opts struct {
	Mode        Mode
	Filter      Filter
	Temperature Oversampling
	Pressure    Oversampling
	Standby     Standby

	// CopyRetries bounds the number of status polls while the device copies
	// its calibration after the soft reset. Default is 50.
	CopyRetries int
	// CopyPollInterval is the delay before each status poll. Default is 2ms,
	// the start-up time from the datasheet.
	CopyPollInterval time.Duration
	// MeasurementTimeout bounds the wait for a forced measurement. Default is
	// 100ms, above the 43.2ms worst case of ×16/×16 oversampling.
	MeasurementTimeout time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Mode:               ModeNormal,
	Filter:             FilterOff,
	Temperature:        O4x,
	Pressure:           O4x,
	Standby:            S250ms,
	CopyRetries:        50,
	CopyPollInterval:   2 * time.Millisecond,
	MeasurementTimeout: 100 * time.Millisecond,
}

const measurementPollInterval = 2 * time.Millisecond

// Dev is a handle to an initialized BMP280. The calibration is only written
// during NewI2C so concurrent reads never observe a partial set.
type Dev struct {
	d     *i2c.Dev
	opts  Opts
	cal   Calibration
	sleep func(time.Duration)

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns an object that communicates over I²C to a BMP280. The device
// is reset, its calibration read and the configuration in opts applied. The
// opts can be nil.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return newDev(b, addr, opts, time.Sleep)
}

func newDev(b i2c.Bus, addr uint16, opts *Opts, sleep func(time.Duration)) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.CopyRetries <= 0 {
		o.CopyRetries = DefaultOpts.CopyRetries
	}
	if o.CopyPollInterval <= 0 {
		o.CopyPollInterval = DefaultOpts.CopyPollInterval
	}
	if o.MeasurementTimeout <= 0 {
		o.MeasurementTimeout = DefaultOpts.MeasurementTimeout
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: o, sleep: sleep}
	if err := d.initialize(); err != nil {
		return nil, err
	}
	return d, nil
}

func (o *Opts) validate() error {
	switch {
	case o.Mode != ModeSleep && o.Mode != ModeForced && o.Mode != ModeNormal:
		return fmt.Errorf("bmp280: invalid mode %d", o.Mode)
	case o.Filter > Filter16:
		return fmt.Errorf("bmp280: invalid filter %d", o.Filter)
	case o.Temperature > O16x || o.Pressure > O16x:
		return errors.New("bmp280: invalid oversampling")
	case o.Standby > S4s:
		return fmt.Errorf("bmp280: invalid standby %d", o.Standby)
	}
	return nil
}

func (d *Dev) initialize() error {
	id, err := common.ReadRegisterByte(d.d, regChipID)
	if err != nil {
		return fmt.Errorf("bmp280: reading chip id: %w: %w", ErrBusFailure, err)
	}
	if id != chipID {
		return fmt.Errorf("%w: got %#x, expected %#x", ErrIdentityMismatch, id, chipID)
	}
	if err := common.WriteRegister(d.d, regReset, resetValue); err != nil {
		return fmt.Errorf("bmp280: soft reset: %w: %w", ErrConfigWrite, err)
	}
	if err := d.waitCalibrationCopy(); err != nil {
		return err
	}

	b := make([]byte, calibrationSize)
	if err := common.ReadRegister(d.d, regCalibration, b); err != nil {
		return fmt.Errorf("%w: %w", ErrCalibrationRead, err)
	}
	d.cal = parseCalibration(b)

	// config must be written first, writes to it in normal mode may be ignored.
	if err := common.WriteRegister(d.d, regConfig, configByte(&d.opts)); err != nil {
		return fmt.Errorf("bmp280: config: %w: %w", ErrConfigWrite, err)
	}
	mode := d.opts.Mode
	if mode == ModeForced {
		mode = ModeSleep
	}
	if err := common.WriteRegister(d.d, regCtrlMeas, ctrlByte(&d.opts, mode)); err != nil {
		return fmt.Errorf("bmp280: ctrl_meas: %w: %w", ErrConfigWrite, err)
	}
	return nil
}

// waitCalibrationCopy polls the im_update bit. Failed polls count as attempts.
func (d *Dev) waitCalibrationCopy() error {
	var lastErr error
	for n := 0; n < d.opts.CopyRetries; n++ {
		d.sleep(d.opts.CopyPollInterval)
		status, err := common.ReadRegisterByte(d.d, regStatus)
		if err != nil {
			lastErr = err
			continue
		}
		if status&statusImUpdate == 0 {
			return nil
		}
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrCalibrationCopyTimeout, lastErr)
	}
	return ErrCalibrationCopyTimeout
}

func configByte(o *Opts) byte {
	return byte(o.Standby)<<configStandbyShift | byte(o.Filter)<<configFilterShift
}

func ctrlByte(o *Opts, mode Mode) byte {
	return byte(o.Temperature)<<ctrlTemperatureShift | byte(o.Pressure)<<ctrlPressureShift | byte(mode)
}

// Calibration returns the coefficients read at initialization.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

// ReadConfig reads back the config and ctrl_meas registers and decodes them.
// The polling settings of the returned Opts are the ones in use by d.
//
// A device configured with ModeForced reads back as ModeSleep: the mode field
// only holds forced while a measurement runs and the device returns to sleep
// once it completes.
func (d *Dev) ReadConfig() (Opts, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := make([]byte, 2)
	if err := common.ReadRegister(d.d, regCtrlMeas, b); err != nil {
		return Opts{}, fmt.Errorf("%w: %w", ErrBusFailure, err)
	}
	o := d.opts
	o.Temperature = Oversampling(b[0] >> ctrlTemperatureShift)
	o.Pressure = Oversampling((b[0] >> ctrlPressureShift) & 0x07)
	switch m := Mode(b[0] & ctrlModeMask); m {
	case ModeSleep, ModeNormal:
		o.Mode = m
	default:
		o.Mode = ModeForced
	}
	o.Standby = Standby(b[1] >> configStandbyShift)
	o.Filter = Filter((b[1] >> configFilterShift) & 0x07)
	return o, nil
}

// ReadCompensated reads one temperature and pressure pair with a single burst
// and compensates it. In forced mode the caller must have completed a
// measurement first, see ForceMeasurement.
func (d *Dev) ReadCompensated() (Fixed, error) {
	b := make([]byte, 6)
	if err := common.ReadRegister(d.d, regData, b); err != nil {
		return Fixed{}, fmt.Errorf("%w: %w", ErrBusFailure, err)
	}
	t, p := decodeSample(b)
	return d.cal.Compensate(t, p), nil
}

// ForceMeasurement starts a single measurement. Only meaningful in forced
// mode.
func (d *Dev) ForceMeasurement() error {
	if err := common.WriteRegister(d.d, regCtrlMeas, ctrlByte(&d.opts, ModeForced)); err != nil {
		return fmt.Errorf("%w: %w", ErrBusFailure, err)
	}
	return nil
}

// IsMeasuring reports whether a conversion is running.
func (d *Dev) IsMeasuring() (bool, error) {
	status, err := common.ReadRegisterByte(d.d, regStatus)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBusFailure, err)
	}
	return status&statusMeasuring != 0, nil
}

func (d *Dev) waitMeasurement() error {
	for waited := time.Duration(0); waited < d.opts.MeasurementTimeout; waited += measurementPollInterval {
		d.sleep(measurementPollInterval)
		busy, err := d.IsMeasuring()
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
	}
	return ErrMeasurementTimeout
}

// Sense implements physic.SenseEnv. It sets Temperature and Pressure.
// In forced mode a measurement is triggered and awaited first.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.opts.Mode == ModeForced {
		if err := d.ForceMeasurement(); err != nil {
			return err
		}
		if err := d.waitMeasurement(); err != nil {
			return err
		}
	}
	f, err := d.ReadCompensated()
	if err != nil {
		return err
	}
	e.Temperature = f.TemperatureValue()
	e.Pressure = f.PressureValue()
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval until Halt is called. Failed reads are
// skipped.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("bmp280: SenseContinuous already running")
	}
	if interval <= 0 {
		return nil, errors.New("bmp280: invalid interval")
	}
	d.stop = make(chan struct{})
	d.wg.Add(1)
	ch := make(chan physic.Env)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(ch)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}(d.stop)
	return ch, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Pressure = physic.Pascal / 256
	e.Humidity = 0
}

// Halt stops a running SenseContinuous. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	if d.stop == nil {
		d.mu.Unlock()
		return nil
	}
	close(d.stop)
	d.stop = nil
	d.mu.Unlock()
	d.wg.Wait()
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("BMP280{%s}", d.d)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
