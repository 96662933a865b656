// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ccs811

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/GermanBionicSystems/envlogger/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the address with ADDR tied low.
	DefaultAddress uint16 = 0x5A
	// AlternateAddress is the address with ADDR tied high.
	AlternateAddress uint16 = 0x5B

	hardwareID byte = 0x81
)

const (
	regStatus    byte = 0x00
	regMeasMode  byte = 0x01
	regAlgResult byte = 0x02
	regEnvData   byte = 0x05
	regHWID      byte = 0x20
	regErrorID   byte = 0xE0
	regAppStart  byte = 0xF4

	statusError     byte = 1 << 0
	statusDataReady byte = 1 << 3
	statusAppValid  byte = 1 << 4

	measModeShift = 4
)

const (
	resetPulse = 20 * time.Microsecond
	// Time from reset or APP_START until the sensor accepts commands.
	startupDelay = 2 * time.Millisecond
)

// DriveMode selects the measurement period.
type DriveMode byte

const (
	// DriveIdle stops measuring.
	DriveIdle DriveMode = iota
	// Drive1s measures every second.
	Drive1s
	// Drive10s measures every 10 seconds.
	Drive10s
	// Drive60s measures every 60 seconds.
	Drive60s
	// Drive250ms measures raw data every 250ms; no eCO2/TVOC is computed.
	Drive250ms
)

// CO2 represents the equivalent carbon dioxide value in ppm.
type CO2 uint16

func (c CO2) String() string {
	return strconv.Itoa(int(c)) + "ppm"
}

// TVOC represents the total volatile organic compounds value in ppb.
type TVOC uint16

func (t TVOC) String() string {
	return strconv.Itoa(int(t)) + "ppb"
}

// Env represents one algorithm result.
type Env struct {
	CO2  CO2
	TVOC TVOC
}

// Opts holds the configuration options for the device.
type Opts struct {
	DriveMode DriveMode
	// ProbeRetries is the number of hardware id reads before giving up.
	// Default is 3.
	ProbeRetries int
	// Reset is the optional nRESET pin, pulsed low after a failed probe.
	Reset gpio.PinOut
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	DriveMode:    Drive1s,
	ProbeRetries: 3,
}

// Dev is a handle to an initialized CCS811.
type Dev struct {
	d     *i2c.Dev
	opts  Opts
	sleep func(time.Duration)
	mu    sync.Mutex
}

// NewI2C returns an object that communicates over I²C to a CCS811 and starts
// its application firmware. The opts can be nil.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return newDev(b, addr, opts, time.Sleep)
}

func newDev(b i2c.Bus, addr uint16, opts *Opts, sleep func(time.Duration)) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.DriveMode > Drive250ms {
		return nil, fmt.Errorf("ccs811: invalid drive mode %d", opts.DriveMode)
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: *opts, sleep: sleep}
	if d.opts.ProbeRetries <= 0 {
		d.opts.ProbeRetries = DefaultOpts.ProbeRetries
	}
	if err := d.makeDev(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) makeDev() error {
	if err := d.probe(); err != nil {
		return err
	}
	status, err := d.status()
	if err != nil {
		return err
	}
	if status&statusAppValid == 0 {
		return fmt.Errorf("%w: no valid application", ErrFirmware)
	}
	if err := common.WriteRegister(d.d, regAppStart); err != nil {
		return fmt.Errorf("ccs811: app start: %w: %w", ErrBusFailure, err)
	}
	d.sleep(startupDelay)
	return d.SetDriveMode(d.opts.DriveMode)
}

// probe reads the hardware id, pulsing nRESET between failed attempts.
func (d *Dev) probe() error {
	var err error
	for i := 0; i < d.opts.ProbeRetries; i++ {
		if i != 0 {
			if rerr := d.reset(); rerr != nil {
				return rerr
			}
		}
		var id byte
		if id, err = common.ReadRegisterByte(d.d, regHWID); err != nil {
			err = fmt.Errorf("ccs811: hardware id: %w: %w", ErrBusFailure, err)
			continue
		}
		if id != hardwareID {
			err = fmt.Errorf("%w: got %#x, expected %#x", ErrIdentityMismatch, id, hardwareID)
			continue
		}
		return nil
	}
	return err
}

func (d *Dev) reset() error {
	if d.opts.Reset == nil {
		return nil
	}
	if err := d.opts.Reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("ccs811: nRESET: %w", err)
	}
	d.sleep(resetPulse)
	if err := d.opts.Reset.Out(gpio.High); err != nil {
		return fmt.Errorf("ccs811: nRESET: %w", err)
	}
	d.sleep(startupDelay)
	return nil
}

// status reads the status register and decodes its error bit.
func (d *Dev) status() (byte, error) {
	status, err := common.ReadRegisterByte(d.d, regStatus)
	if err != nil {
		return 0, fmt.Errorf("ccs811: status: %w: %w", ErrBusFailure, err)
	}
	if status&statusError != 0 {
		code, err := common.ReadRegisterByte(d.d, regErrorID)
		if err != nil {
			return 0, fmt.Errorf("ccs811: error id: %w: %w", ErrBusFailure, err)
		}
		return 0, fmt.Errorf("%w: error id %#02x", ErrFirmware, code)
	}
	return status, nil
}

// SetDriveMode changes the measurement period.
func (d *Dev) SetDriveMode(m DriveMode) error {
	if err := common.WriteRegister(d.d, regMeasMode, byte(m)<<measModeShift); err != nil {
		return fmt.Errorf("ccs811: meas mode: %w: %w", ErrBusFailure, err)
	}
	return nil
}

// Sense returns the latest algorithm result. ErrNotReady means no result was
// produced since the previous call.
func (d *Dev) Sense() (Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	status, err := d.status()
	if err != nil {
		return Env{}, err
	}
	if status&statusDataReady == 0 {
		return Env{}, ErrNotReady
	}
	b := make([]byte, 4)
	if err := common.ReadRegister(d.d, regAlgResult, b); err != nil {
		return Env{}, fmt.Errorf("ccs811: result: %w: %w", ErrBusFailure, err)
	}
	return Env{
		CO2:  CO2(binary.BigEndian.Uint16(b[0:2])),
		TVOC: TVOC(binary.BigEndian.Uint16(b[2:4])),
	}, nil
}

// SetEnvironment writes the ambient humidity and temperature used by the
// algorithm for compensation.
func (d *Dev) SetEnvironment(h physic.RelativeHumidity, t physic.Temperature) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := make([]byte, 4)
	binary.BigEndian.PutUint16(b[0:2], encodeHumidity(h))
	binary.BigEndian.PutUint16(b[2:4], encodeTemperature(t))
	if err := common.WriteRegister(d.d, regEnvData, b...); err != nil {
		return fmt.Errorf("ccs811: env data: %w: %w", ErrBusFailure, err)
	}
	return nil
}

// encodeHumidity returns the humidity in 1/512 %RH.
func encodeHumidity(h physic.RelativeHumidity) uint16 {
	return uint16(common.Clamp(int64(h)*512/int64(physic.PercentRH), 0, 0xFFFF))
}

// encodeTemperature returns the temperature in 1/512 °C offset by 25°C.
func encodeTemperature(t physic.Temperature) uint16 {
	v := int64(t-physic.ZeroCelsius+25*physic.Kelvin) * 512 / int64(physic.Kelvin)
	return uint16(common.Clamp(v, 0, 0xFFFF))
}

// Halt stops measuring. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.SetDriveMode(DriveIdle)
}

func (d *Dev) String() string {
	return fmt.Sprintf("CCS811{%s}", d.d)
}

var _ conn.Resource = &Dev{}
