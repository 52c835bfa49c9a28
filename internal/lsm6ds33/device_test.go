// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import (
	"bytes"
	"errors"
	"testing"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

// countingBus is an i2c.Bus that records every transaction and fails them
// all when err is set.
type countingBus struct {
	tx  [][]byte
	err error
}

func (b *countingBus) String() string                    { return "countingBus" }
func (b *countingBus) SetSpeed(f physic.Frequency) error { return nil }

func (b *countingBus) Tx(addr uint16, w, r []byte) error {
	b.tx = append(b.tx, append([]byte(nil), w...))
	return b.err
}

func TestI2CDeviceRead(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: I2CAddrHigh, W: []byte{0x0F}, R: []byte{0x69}},
			{Addr: I2CAddrHigh, W: []byte{0x22}, R: []byte{1, 2, 3, 4, 5, 6}},
		},
		DontPanic: true,
	}
	d := NewI2CDevice(&bus, I2CAddrHigh)
	v, err := d.Read(WHO_AM_I)
	if err != nil || v != 0x69 {
		t.Fatalf("Read(WHO_AM_I) = 0x%02X, %v", v, err)
	}
	buf := make([]byte, 6)
	if err := d.ReadMany(OUTX_L_G, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("ReadMany() = %v", buf)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestI2CDeviceWrite(t *testing.T) {
	bus := i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: I2CAddrLow, W: []byte{0x10, 0x20}}},
		DontPanic: true,
	}
	d := NewI2CDevice(&bus, I2CAddrLow)
	if err := d.Write(CTRL1_XL, 0x20); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestI2CDeviceMutate(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: I2CAddrLow, W: []byte{0x12}, R: []byte{0x04}},
			{Addr: I2CAddrLow, W: []byte{0x12, 0x44}},
		},
		DontPanic: true,
	}
	d := NewI2CDevice(&bus, I2CAddrLow)
	if err := d.Mutate(CTRL3_C, func(v byte) byte { return v | CTRL3_C_BDU }); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestI2CDeviceWriteMany(t *testing.T) {
	payload := make([]byte, MaxWriteLen)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	bus := &countingBus{}
	d := NewI2CDevice(bus, I2CAddrLow)
	if err := d.WriteMany(CTRL1_XL, payload); err != nil {
		t.Fatal(err)
	}
	if len(bus.tx) != 1 {
		t.Fatalf("%d transactions, want 1", len(bus.tx))
	}
	want := append([]byte{0x10}, payload...)
	if !bytes.Equal(bus.tx[0], want) {
		t.Errorf("frame = %v, want %v", bus.tx[0], want)
	}

	bus = &countingBus{}
	d = NewI2CDevice(bus, I2CAddrLow)
	err := d.WriteMany(CTRL1_XL, make([]byte, MaxWriteLen+1))
	if !errors.Is(err, ErrCommunication) {
		t.Errorf("WriteMany(17 bytes) = %v, want ErrCommunication", err)
	}
	if len(bus.tx) != 0 {
		t.Errorf("%d transactions, want 0", len(bus.tx))
	}
}

func TestI2CDeviceBusError(t *testing.T) {
	busErr := errors.New("nack")
	bus := &countingBus{err: busErr}
	d := NewI2CDevice(bus, I2CAddrLow)

	check := func(name string, err error) {
		t.Helper()
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindBus {
			t.Errorf("%s = %v, want a bus error", name, err)
		}
		if !errors.Is(err, busErr) {
			t.Errorf("%s = %v, does not wrap the transport error", name, err)
		}
		if !errors.Is(err, ErrCommunication) {
			t.Errorf("%s = %v, is not a communication error", name, err)
		}
	}
	_, err := d.Read(WHO_AM_I)
	check("Read", err)
	check("ReadMany", d.ReadMany(OUTX_L_XL, make([]byte, 6)))
	check("Write", d.Write(CTRL2_G, 0))
	check("WriteMany", d.WriteMany(CTRL2_G, []byte{0, 0}))

	bus.tx = nil
	called := false
	check("Mutate", d.Mutate(CTRL2_G, func(v byte) byte { called = true; return v }))
	if called || len(bus.tx) != 1 {
		t.Errorf("Mutate wrote after a failed read: called=%t, %d transactions", called, len(bus.tx))
	}
}

func TestSPIDevice(t *testing.T) {
	port := spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				// read sets bit 7 of the address, full duplex
				{W: []byte{0x8F, 0x00}, R: []byte{0x00, 0x69}},
				{W: []byte{0x12, 0x45}, R: []byte{0x00, 0x00}},
				{W: []byte{0x91, 0x00}, R: []byte{0x00, 0x2C}},
				{W: []byte{0x11, 0x20}, R: []byte{0x00, 0x00}},
				{W: []byte{0x10, 0xAA, 0xBB}, R: []byte{0x00, 0x00, 0x00}},
			},
			DontPanic: true,
		},
	}
	d, err := NewSPIDevice(&port)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := d.Read(WHO_AM_I); err != nil || v != 0x69 {
		t.Fatalf("Read(WHO_AM_I) = 0x%02X, %v", v, err)
	}
	if err := d.Write(CTRL3_C, 0x45); err != nil {
		t.Fatal(err)
	}
	if err := d.Mutate(CTRL2_G, func(v byte) byte { return setField(v, GyroScaleMask, 0) }); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteMany(CTRL1_XL, []byte{0xAA, 0xBB}); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteMany(CTRL1_XL, make([]byte, 17)); !errors.Is(err, ErrCommunication) {
		t.Errorf("WriteMany(17 bytes) = %v", err)
	}
	if err := port.Close(); err != nil {
		t.Error(err)
	}
}

func TestNewI2C(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: I2CAddrLow, W: []byte{0x0F}, R: []byte{0x69}},
			// soft reset
			{Addr: I2CAddrLow, W: []byte{0x12}, R: []byte{0x04}},
			{Addr: I2CAddrLow, W: []byte{0x12, 0x05}},
			{Addr: I2CAddrLow, W: []byte{0x12}, R: []byte{0x05}},
			{Addr: I2CAddrLow, W: []byte{0x12}, R: []byte{0x04}},
			// block data update
			{Addr: I2CAddrLow, W: []byte{0x12}, R: []byte{0x04}},
			{Addr: I2CAddrLow, W: []byte{0x12, 0x44}},
			// accelerometer 104Hz, ±8g
			{Addr: I2CAddrLow, W: []byte{0x10}, R: []byte{0x00}},
			{Addr: I2CAddrLow, W: []byte{0x10, 0x40}},
			{Addr: I2CAddrLow, W: []byte{0x10}, R: []byte{0x40}},
			{Addr: I2CAddrLow, W: []byte{0x10, 0x4C}},
			// gyroscope 104Hz, ±500°/s
			{Addr: I2CAddrLow, W: []byte{0x11}, R: []byte{0x00}},
			{Addr: I2CAddrLow, W: []byte{0x11, 0x40}},
			{Addr: I2CAddrLow, W: []byte{0x11}, R: []byte{0x40}},
			{Addr: I2CAddrLow, W: []byte{0x11, 0x44}},
		},
		DontPanic: true,
	}
	d, err := NewI2C(&bus, I2CAddrLow, &Opts{
		AccelDataRate: ODR104Hz,
		AccelScale:    AccelScale8G,
		GyroDataRate:  ODR104Hz,
		GyroScale:     GyroScale500DPS,
	})
	if err != nil {
		t.Fatalf("NewI2C() = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
	if d.AccelScale() != AccelScale8G || d.GyroScale() != GyroScale500DPS {
		t.Errorf("cache = %s", d)
	}
}

func TestNewI2CUnknownChip(t *testing.T) {
	bus := i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: I2CAddrLow, W: []byte{0x0F}, R: []byte{0x6C}}},
		DontPanic: true,
	}
	if _, err := NewI2C(&bus, I2CAddrLow, nil); !errors.Is(err, ErrUnknownChipID) {
		t.Fatalf("NewI2C() = %v, want ErrUnknownChipID", err)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}
