// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"log"

	"github.com/relabs-tech/lsm6ds33/internal/config"
	"github.com/relabs-tech/lsm6ds33/internal/lsm6ds33"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// ErrNotConfigured is returned by an Opener for an IMU that has no bus
// address or device configured.
var ErrNotConfigured = errors.New("IMU not configured")

// Opener gives register access to the named IMU ("left" or "right").
type Opener interface {
	Open(name string) (lsm6ds33.Device, error)
	Close() error
}

// hardwareOpener opens the buses described by the configuration.
type hardwareOpener struct {
	cfg   *config.Config
	bus   i2c.BusCloser
	ports []spi.PortCloser
}

// newHardwareOpener initializes periph and, for I2C, opens the shared bus.
func newHardwareOpener(cfg *config.Config) (*hardwareOpener, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	o := &hardwareOpener{cfg: cfg}
	if cfg.IMUBus == "i2c" {
		bus, err := i2creg.Open(cfg.IMUI2CBus)
		if err != nil {
			return nil, fmt.Errorf("open I2C bus %q: %w", cfg.IMUI2CBus, err)
		}
		o.bus = bus
		log.Printf("IMU: using I2C bus %s", bus)
	}
	return o, nil
}

func (o *hardwareOpener) Open(name string) (lsm6ds33.Device, error) {
	if o.cfg.IMUBus == "spi" {
		dev := o.cfg.IMULeftSPIDevice
		if name == "right" {
			dev = o.cfg.IMURightSPIDevice
		}
		if dev == "" {
			return nil, ErrNotConfigured
		}
		port, err := spireg.Open(dev)
		if err != nil {
			return nil, fmt.Errorf("%s IMU: open SPI port %s: %w", name, dev, err)
		}
		d, err := lsm6ds33.NewSPIDevice(port)
		if err != nil {
			port.Close()
			return nil, fmt.Errorf("%s IMU: SPI connect (%s): %w", name, dev, err)
		}
		o.ports = append(o.ports, port)
		log.Printf("%s IMU: SPI device %s", name, dev)
		return d, nil
	}

	addr := o.cfg.IMULeftI2CAddr
	if name == "right" {
		addr = o.cfg.IMURightI2CAddr
	}
	if addr == 0 {
		return nil, ErrNotConfigured
	}
	log.Printf("%s IMU: I2C address 0x%02X", name, addr)
	return lsm6ds33.NewI2CDevice(o.bus, addr), nil
}

func (o *hardwareOpener) Close() error {
	var errs []error
	for _, p := range o.ports {
		errs = append(errs, p.Close())
	}
	o.ports = nil
	if o.bus != nil {
		errs = append(errs, o.bus.Close())
		o.bus = nil
	}
	return errors.Join(errs...)
}
