// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// MaxWriteLen is the largest payload WriteMany accepts.
const MaxWriteLen = 16

// Device turns register operations into bus transactions. Every method
// performs exactly one transaction, except Mutate which performs a read
// followed by a write. Implementations are not safe for concurrent use.
type Device interface {
	Read(reg Register) (byte, error)
	ReadMany(reg Register, buf []byte) error
	Write(reg Register, value byte) error
	WriteMany(reg Register, buf []byte) error
	// Mutate writes f(current) back to reg. It is not atomic: another
	// writer between the read and the write is lost.
	Mutate(reg Register, f func(byte) byte) error
}

// I2C addresses selected by the SA0 pin.
const (
	I2CAddrLow  uint16 = 0x6A
	I2CAddrHigh uint16 = 0x6B
)

// I2CDevice is a Device on an I2C bus.
type I2CDevice struct {
	c *i2c.Dev
}

// NewI2CDevice returns a Device talking to addr on bus.
func NewI2CDevice(bus i2c.Bus, addr uint16) *I2CDevice {
	return &I2CDevice{c: &i2c.Dev{Bus: bus, Addr: addr}}
}

func (d *I2CDevice) String() string {
	return fmt.Sprintf("LSM6DS33{%s}", d.c)
}

func (d *I2CDevice) Read(reg Register) (byte, error) {
	var b [1]byte
	if err := d.ReadMany(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *I2CDevice) ReadMany(reg Register, buf []byte) error {
	if err := d.c.Tx([]byte{reg.Address()}, buf); err != nil {
		return busError(err)
	}
	return nil
}

func (d *I2CDevice) Write(reg Register, value byte) error {
	if err := d.c.Tx([]byte{reg.Address(), value}, nil); err != nil {
		return busError(err)
	}
	return nil
}

func (d *I2CDevice) WriteMany(reg Register, buf []byte) error {
	if len(buf) > MaxWriteLen {
		return ErrCommunication
	}
	var msg [MaxWriteLen + 1]byte
	msg[0] = reg.Address()
	n := copy(msg[1:], buf)
	if err := d.c.Tx(msg[:n+1], nil); err != nil {
		return busError(err)
	}
	return nil
}

func (d *I2CDevice) Mutate(reg Register, f func(byte) byte) error {
	return mutate(d, reg, f)
}

// SPI settings. The chip samples on the rising edge with an idle-high clock
// and runs up to 10MHz.
var (
	SPIFrequency = 10 * physic.MegaHertz
	SPIMode      = spi.Mode3
	SPIBits      = 8
)

// spiRead is set in the address byte of a read transaction.
const spiRead byte = 0x80

// SPIDevice is a Device on a 4-wire SPI port.
type SPIDevice struct {
	c spi.Conn
}

// NewSPIDevice connects to p with SPIFrequency, SPIMode and SPIBits.
func NewSPIDevice(p spi.Port) (*SPIDevice, error) {
	c, err := p.Connect(SPIFrequency, SPIMode, SPIBits)
	if err != nil {
		return nil, busError(err)
	}
	return &SPIDevice{c: c}, nil
}

func (d *SPIDevice) String() string {
	return fmt.Sprintf("LSM6DS33{%s}", d.c)
}

func (d *SPIDevice) Read(reg Register) (byte, error) {
	var b [1]byte
	if err := d.ReadMany(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *SPIDevice) ReadMany(reg Register, buf []byte) error {
	w := make([]byte, len(buf)+1)
	r := make([]byte, len(buf)+1)
	w[0] = reg.Address() | spiRead
	if err := d.c.Tx(w, r); err != nil {
		return busError(err)
	}
	copy(buf, r[1:])
	return nil
}

func (d *SPIDevice) Write(reg Register, value byte) error {
	w := []byte{reg.Address() &^ spiRead, value}
	if err := d.c.Tx(w, make([]byte, len(w))); err != nil {
		return busError(err)
	}
	return nil
}

func (d *SPIDevice) WriteMany(reg Register, buf []byte) error {
	if len(buf) > MaxWriteLen {
		return ErrCommunication
	}
	w := make([]byte, len(buf)+1)
	w[0] = reg.Address() &^ spiRead
	copy(w[1:], buf)
	if err := d.c.Tx(w, make([]byte, len(w))); err != nil {
		return busError(err)
	}
	return nil
}

func (d *SPIDevice) Mutate(reg Register, f func(byte) byte) error {
	return mutate(d, reg, f)
}

func mutate(d Device, reg Register, f func(byte) byte) error {
	v, err := d.Read(reg)
	if err != nil {
		return err
	}
	return d.Write(reg, f(v))
}

var (
	_ Device = &I2CDevice{}
	_ Device = &SPIDevice{}
)
