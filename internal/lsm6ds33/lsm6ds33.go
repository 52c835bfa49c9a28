// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package lsm6ds33 controls a ST LSM6DS33 accelerometer and gyroscope over
// I2C or SPI.
//
// New verifies the chip identity, soft resets it, enables block data update
// and applies the rates and ranges of Opts. Afterwards the setters change a
// single field of CTRL1_XL or CTRL2_G, leaving every other bit as it was.
//
// A Dev is not safe for concurrent use and keeps a cached copy of the
// configuration it wrote; the cache is never read back from the chip.
//
// Datasheet: https://www.st.com/resource/en/datasheet/lsm6ds33.pdf
package lsm6ds33

import (
	"encoding/binary"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// Opts holds the configuration applied by New. Zero fields take the value
// from DefaultOpts.
type Opts struct {
	AccelDataRate DataRate
	AccelScale    AccelScale
	GyroDataRate  DataRate
	GyroScale     GyroScale

	// ResetPollLimit bounds the number of CTRL3_C reads while waiting for
	// SW_RESET to clear. 0 waits forever.
	ResetPollLimit int
	// ResetPollInterval is slept between those reads. 0 spins.
	ResetPollInterval time.Duration
}

// DefaultOpts is ±2g and ±2000°/s, both at 26Hz, with an unbounded reset
// wait.
var DefaultOpts = Opts{
	AccelDataRate: ODR26Hz,
	AccelScale:    AccelScale2G,
	GyroDataRate:  ODR26Hz,
	GyroScale:     GyroScale2000DPS,
}

func (o *Opts) withDefaults() Opts {
	out := DefaultOpts
	if o == nil {
		return out
	}
	if o.AccelDataRate != 0 {
		out.AccelDataRate = o.AccelDataRate
	}
	if o.AccelScale != 0 {
		out.AccelScale = o.AccelScale
	}
	if o.GyroDataRate != 0 {
		out.GyroDataRate = o.GyroDataRate
	}
	if o.GyroScale != 0 {
		out.GyroScale = o.GyroScale
	}
	out.ResetPollLimit = o.ResetPollLimit
	out.ResetPollInterval = o.ResetPollInterval
	return out
}

func (o *Opts) validate() error {
	if _, _, err := accelDataRateField(o.AccelDataRate); err != nil {
		return err
	}
	if _, _, err := accelScaleField(o.AccelScale); err != nil {
		return err
	}
	if _, _, err := gyroDataRateField(o.GyroDataRate); err != nil {
		return err
	}
	if _, _, err := gyroScaleField(o.GyroScale); err != nil {
		return err
	}
	if o.ResetPollLimit < 0 {
		return fmt.Errorf("lsm6ds33: reset poll limit %d: %w", o.ResetPollLimit, ErrInvalidValue)
	}
	return nil
}

// Dev is a configured LSM6DS33.
type Dev struct {
	d Device

	accelPowerMode AccelPowerMode
	accelScale     AccelScale
	accelDataRate  DataRate
	gyroPowerMode  GyroPowerMode
	gyroScale      GyroScale
	gyroDataRate   DataRate
}

// NewI2C returns a configured Dev at addr on bus.
func NewI2C(bus i2c.Bus, addr uint16, o *Opts) (*Dev, error) {
	return New(NewI2CDevice(bus, addr), o)
}

// NewSPI returns a configured Dev on p.
func NewSPI(p spi.Port, o *Opts) (*Dev, error) {
	d, err := NewSPIDevice(p)
	if err != nil {
		return nil, err
	}
	return New(d, o)
}

// New checks WHO_AM_I, resets the chip and applies o. Any failure to read
// the identity is reported as ErrCommunication; a wrong identity as
// ErrUnknownChipID, in which case nothing is written. Invalid options fail
// with ErrInvalidValue before the bus is touched.
func New(d Device, o *Opts) (*Dev, error) {
	opts := o.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	dev := &Dev{
		d:              d,
		accelPowerMode: AccelNormalPower,
		gyroPowerMode:  GyroNormalPower,
	}

	id, err := dev.WhoAmI()
	if err != nil {
		return nil, ErrCommunication
	}
	if id != ChipID {
		return nil, fmt.Errorf("lsm6ds33: WHO_AM_I = 0x%02X, want 0x%02X: %w", id, ChipID, ErrUnknownChipID)
	}

	if err := dev.softReset(opts.ResetPollLimit, opts.ResetPollInterval); err != nil {
		return nil, err
	}
	// Hold output registers until both bytes of a sample have been read.
	if err := d.Mutate(CTRL3_C, func(v byte) byte { return v | CTRL3_C_BDU }); err != nil {
		return nil, err
	}

	if err := dev.SetAccelDataRate(opts.AccelDataRate); err != nil {
		return nil, err
	}
	if err := dev.SetAccelScale(opts.AccelScale); err != nil {
		return nil, err
	}
	if err := dev.SetGyroDataRate(opts.GyroDataRate); err != nil {
		return nil, err
	}
	if err := dev.SetGyroScale(opts.GyroScale); err != nil {
		return nil, err
	}
	return dev, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("LSM6DS33{accel: %s @ %s, gyro: %s @ %s}", d.accelScale, d.accelDataRate, d.gyroScale, d.gyroDataRate)
}

// Device returns the underlying register access. Writes made through it are
// not reflected in the cached configuration.
func (d *Dev) Device() Device {
	return d.d
}

// WhoAmI reads the identity register.
func (d *Dev) WhoAmI() (byte, error) {
	return d.d.Read(WHO_AM_I)
}

func (d *Dev) softReset(limit int, interval time.Duration) error {
	if err := d.d.Mutate(CTRL3_C, func(v byte) byte { return v | CTRL3_C_SW_RESET }); err != nil {
		return err
	}
	return pollUntil(limit, interval, func() (bool, error) {
		v, err := d.d.Read(CTRL3_C)
		if err != nil {
			return false, err
		}
		return v&CTRL3_C_SW_RESET == 0, nil
	})
}

func (d *Dev) setField(reg Register, mask, pattern byte) error {
	return d.d.Mutate(reg, func(v byte) byte { return setField(v, mask, pattern) })
}

// SetAccelDataRate sets ODR_XL in CTRL1_XL.
func (d *Dev) SetAccelDataRate(r DataRate) error {
	mask, p, err := accelDataRateField(r)
	if err != nil {
		return err
	}
	if err := d.setField(CTRL1_XL, mask, p); err != nil {
		return err
	}
	d.accelDataRate = r
	return nil
}

// SetAccelScale sets FS_XL in CTRL1_XL.
func (d *Dev) SetAccelScale(s AccelScale) error {
	mask, p, err := accelScaleField(s)
	if err != nil {
		return err
	}
	if err := d.setField(CTRL1_XL, mask, p); err != nil {
		return err
	}
	d.accelScale = s
	return nil
}

// SetGyroDataRate sets ODR_G in CTRL2_G. The gyroscope stops at 1.66kHz.
func (d *Dev) SetGyroDataRate(r DataRate) error {
	mask, p, err := gyroDataRateField(r)
	if err != nil {
		return err
	}
	if err := d.setField(CTRL2_G, mask, p); err != nil {
		return err
	}
	d.gyroDataRate = r
	return nil
}

// SetGyroScale sets FS_G and FS_125 in CTRL2_G.
func (d *Dev) SetGyroScale(s GyroScale) error {
	mask, p, err := gyroScaleField(s)
	if err != nil {
		return err
	}
	if err := d.setField(CTRL2_G, mask, p); err != nil {
		return err
	}
	d.gyroScale = s
	return nil
}

func (d *Dev) AccelDataRate() DataRate        { return d.accelDataRate }
func (d *Dev) AccelScale() AccelScale         { return d.accelScale }
func (d *Dev) AccelPowerMode() AccelPowerMode { return d.accelPowerMode }
func (d *Dev) GyroDataRate() DataRate         { return d.gyroDataRate }
func (d *Dev) GyroScale() GyroScale           { return d.gyroScale }
func (d *Dev) GyroPowerMode() GyroPowerMode   { return d.gyroPowerMode }

// RawSample is one set of output registers, in counts.
type RawSample struct {
	Temperature int16
	GX, GY, GZ  int16
	AX, AY, AZ  int16
}

// rawSampleLen spans OUT_TEMP_L through OUTZ_H_XL.
const rawSampleLen = int(OUTZ_H_XL-OUT_TEMP_L) + 1

// ReadRaw reads temperature, gyroscope and accelerometer outputs in one
// transaction. It relies on IF_INC, which is set after reset.
func (d *Dev) ReadRaw() (RawSample, error) {
	var b [rawSampleLen]byte
	if err := d.d.ReadMany(OUT_TEMP_L, b[:]); err != nil {
		return RawSample{}, err
	}
	le := func(i int) int16 { return int16(binary.LittleEndian.Uint16(b[i:])) }
	return RawSample{
		Temperature: le(0),
		GX:          le(2),
		GY:          le(4),
		GZ:          le(6),
		AX:          le(8),
		AY:          le(10),
		AZ:          le(12),
	}, nil
}
