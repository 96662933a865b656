// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aht10

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
	// DefaultAddress is the address with ADDR tied to GND.
	DefaultAddress uint16 = 0x38
	// AlternateAddress is the address with ADDR tied to VDD.
	AlternateAddress uint16 = 0x39
)

const (
	cmdNormalMode byte = 0xA8
	cmdCalibrate  byte = 0xE1
	cmdMeasure    byte = 0xAC
	cmdSoftReset  byte = 0xBA
)

const (
	bitBusy       byte = 1 << 7
	bitCalibrated byte = 1 << 3
)

var (
	argsNormalMode = []byte{cmdNormalMode, 0x00, 0x00}
	argsCalibrate  = []byte{cmdCalibrate, 0x08, 0x00}
	argsCycleMode  = []byte{cmdCalibrate, 0x28, 0x00}
	argsMeasure    = []byte{cmdMeasure, 0x33, 0x00}
)

const (
	// Datasheet minimum is 20ms; 40ms covers slow supply ramps.
	powerOnDelay = 40 * time.Millisecond
	// Time for a mode or calibration command to take effect.
	commandDelay = 350 * time.Millisecond
	// Conversion time of one measurement, datasheet maximum 75ms.
	measurementDelay = 80 * time.Millisecond
	softResetDelay   = 20 * time.Millisecond
)

// codeScale is 2^20, the full scale of both channels. The datasheet defines
// humidity as code/2^20·100 %RH and temperature as code/2^20·200−50 °C.
const codeScale = 1 << 20

// State is the protocol state of the device.
type State int

const (
	Uninitialized State = iota
	Idle
	MeasurementTriggered
	DataReady
	Error
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Idle:
		return "Idle"
	case MeasurementTriggered:
		return "MeasurementTriggered"
	case DataReady:
		return "DataReady"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Opts holds the configuration options for the device.
type Opts struct {
	// PowerOnDelay is waited before the first command. Set it to a negative
	// value when the sensor has been powered for long enough. Default is 40ms.
	PowerOnDelay time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	PowerOnDelay: powerOnDelay,
}

// Measurement is one decoded humidity and temperature pair.
type Measurement struct {
	Humidity    physic.RelativeHumidity
	Temperature physic.Temperature
}

// Dev is a handle to an initialized AHT10.
type Dev struct {
	d     *i2c.Dev
	opts  Opts
	sleep func(time.Duration)

	mu    sync.Mutex
	state State
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewI2C returns an object that communicates over I²C to an AHT10. The sensor
// is switched to normal mode and its factory calibration loaded. The opts can
// be nil.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return newDev(b, addr, opts, time.Sleep)
}

func newDev(b i2c.Bus, addr uint16, opts *Opts, sleep func(time.Duration)) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: *opts, sleep: sleep}
	if d.opts.PowerOnDelay > 0 {
		d.sleep(d.opts.PowerOnDelay)
	}
	if err := d.initialize(); err != nil {
		return nil, err
	}
	return d, nil
}

// initialize sends the normal mode and calibration commands and checks the
// calibrated bit once.
func (d *Dev) initialize() error {
	if err := d.d.Tx(argsNormalMode, nil); err != nil {
		d.state = Error
		return fmt.Errorf("aht10: normal mode: %w: %w", ErrConfigWrite, err)
	}
	d.sleep(commandDelay)
	if err := d.d.Tx(argsCalibrate, nil); err != nil {
		d.state = Error
		return fmt.Errorf("aht10: calibrate: %w: %w", ErrConfigWrite, err)
	}
	d.sleep(commandDelay)
	status, err := d.readStatus()
	if err != nil {
		d.state = Error
		return err
	}
	if status&bitCalibrated == 0 {
		d.state = Error
		return fmt.Errorf("%w: status %#02x", ErrCalibrationNotLoaded, status)
	}
	d.state = Idle
	return nil
}

func (d *Dev) readStatus() (byte, error) {
	var b [1]byte
	if err := d.d.Tx(nil, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBusFailure, err)
	}
	return b[0], nil
}

// TriggerAndRead starts a measurement and reads it back. When the sensor
// reports busy, a single fixed delay is waited and the data is read
// regardless.
func (d *Dev) TriggerAndRead() (Measurement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.triggerAndRead()
}

func (d *Dev) triggerAndRead() (Measurement, error) {
	if err := d.d.Tx(argsMeasure, nil); err != nil {
		d.state = Error
		return Measurement{}, fmt.Errorf("aht10: trigger: %w: %w", ErrBusFailure, err)
	}
	d.state = MeasurementTriggered
	status, err := d.readStatus()
	if err != nil {
		d.state = Error
		return Measurement{}, err
	}
	if status&bitCalibrated == 0 {
		d.state = Error
		return Measurement{}, ErrStaleCalibration
	}
	if status&bitBusy != 0 {
		d.sleep(measurementDelay)
	}
	data := make([]byte, 6)
	if err := d.d.Tx(nil, data); err != nil {
		d.state = Error
		return Measurement{}, fmt.Errorf("aht10: data: %w: %w", ErrBusFailure, err)
	}
	d.state = DataReady
	return decode(data), nil
}

// decode converts the status byte and the five data bytes.
func decode(data []byte) Measurement {
	hRaw := int32(data[1])<<12 | int32(data[2])<<4 | int32(data[3])>>4
	tRaw := (int32(data[3])&0xF)<<16 | int32(data[4])<<8 | int32(data[5])
	return Measurement{
		Humidity:    physic.RelativeHumidity(humidityPercent(hRaw) * float64(physic.PercentRH)),
		Temperature: physic.Temperature(temperatureCelsius(tRaw)*float64(physic.Kelvin)) + physic.ZeroCelsius,
	}
}

// humidityPercent saturates to [0, 100].
func humidityPercent(code int32) float64 {
	return common.Clamp(float64(code)/codeScale*100, 0, 100)
}

func temperatureCelsius(code int32) float64 {
	return float64(code)/codeScale*200 - 50
}

// Sense implements physic.SenseEnv. It sets Temperature and Humidity.
func (d *Dev) Sense(e *physic.Env) error {
	m, err := d.TriggerAndRead()
	if err != nil {
		return err
	}
	e.Temperature = m.Temperature
	e.Humidity = m.Humidity
	return nil
}

// SenseContinuous implements physic.SenseEnv. Every measurement takes at
// least 80ms, shorter intervals are stretched. Failed reads are skipped.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("aht10: SenseContinuous already running")
	}
	if interval <= 0 {
		return nil, errors.New("aht10: invalid interval")
	}
	d.stop = make(chan struct{})
	d.wg.Add(1)
	sensing := make(chan physic.Env)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(sensing)
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
				case sensing <- e:
				case <-stop:
					return
				}
			}
		}
	}(d.stop)
	return sensing, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Humidity = 240 * physic.MicroRH
	e.Pressure = 0
}

// SoftReset reboots the sensor and loads the calibration again.
func (d *Dev) SoftReset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.d.Tx([]byte{cmdSoftReset}, nil); err != nil {
		d.state = Error
		return fmt.Errorf("aht10: soft reset: %w: %w", ErrConfigWrite, err)
	}
	d.sleep(softResetDelay)
	return d.initialize()
}

// SetCycleMode switches the sensor to its continuous cycle mode.
func (d *Dev) SetCycleMode() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.d.Tx(argsCycleMode, nil); err != nil {
		return fmt.Errorf("aht10: cycle mode: %w: %w", ErrConfigWrite, err)
	}
	d.sleep(commandDelay)
	return nil
}

// State returns the protocol state after the last operation.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
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
	return fmt.Sprintf("AHT10{%s}", d.d)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
