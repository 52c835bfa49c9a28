// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/lsm6ds33"
)

// IMU names.
const (
	Left  = "left"
	Right = "right"
)

// IMUManager owns the left and right LSM6DS33 and serializes bus access to
// each of them.
type IMUManager struct {
	newOpener func() (Opener, error)
	opts      *lsm6ds33.Opts

	mu     sync.Mutex // guards opener
	opener Opener

	left, right *imuSlot
}

type imuSlot struct {
	name string

	mu  sync.Mutex
	d   lsm6ds33.Device // nil until opened
	dev *lsm6ds33.Dev   // nil until initialized
}

var (
	imuManager     *IMUManager
	imuManagerOnce sync.Once
)

// GetIMUManager returns the process-wide manager for the IMUs described by
// the global configuration. config.InitGlobal must be called first.
func GetIMUManager() *IMUManager {
	imuManagerOnce.Do(func() {
		cfg := config.Get()
		imuManager = newIMUManager(func() (Opener, error) {
			return newHardwareOpener(cfg)
		}, cfg.IMUOpts())
	})
	return imuManager
}

// NewIMUManager returns a manager that reaches its IMUs through opener.
func NewIMUManager(opener Opener, opts *lsm6ds33.Opts) *IMUManager {
	return newIMUManager(func() (Opener, error) { return opener, nil }, opts)
}

func newIMUManager(newOpener func() (Opener, error), opts *lsm6ds33.Opts) *IMUManager {
	return &IMUManager{
		newOpener: newOpener,
		opts:      opts,
		left:      &imuSlot{name: Left},
		right:     &imuSlot{name: Right},
	}
}

// Init opens and configures both IMUs. It fails only when neither is
// available.
func (m *IMUManager) Init() error {
	m.mu.Lock()
	if m.opener == nil {
		o, err := m.newOpener()
		if err != nil {
			m.mu.Unlock()
			return fmt.Errorf("IMU manager: %w", err)
		}
		m.opener = o
	}
	m.mu.Unlock()

	var errs []error
	for _, s := range []*imuSlot{m.left, m.right} {
		err := m.initSlot(s)
		switch {
		case errors.Is(err, ErrNotConfigured):
			log.Printf("%s IMU: not configured, skipping", s.name)
		case err != nil:
			log.Printf("%s IMU: initialization failed: %v", s.name, err)
			errs = append(errs, err)
		default:
			log.Printf("%s IMU: initialized, %s", s.name, s.dev)
		}
	}
	if !m.IsLeftIMUAvailable() && !m.IsRightIMUAvailable() {
		if len(errs) == 0 {
			return fmt.Errorf("IMU manager: no IMU configured")
		}
		return fmt.Errorf("IMU manager: no IMU available: %w", errors.Join(errs...))
	}
	return nil
}

func (m *IMUManager) initSlot(s *imuSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.d == nil {
		m.mu.Lock()
		d, err := m.opener.Open(s.name)
		m.mu.Unlock()
		if err != nil {
			return err
		}
		s.d = d
	}
	dev, err := lsm6ds33.New(s.d, m.opts)
	if err != nil {
		s.dev = nil
		return fmt.Errorf("%s IMU: %w", s.name, err)
	}
	s.dev = dev
	return nil
}

// Close releases the buses. The manager cannot be used afterwards.
func (m *IMUManager) Close() error {
	// Slot locks are always taken before m.mu.
	for _, s := range []*imuSlot{m.left, m.right} {
		s.mu.Lock()
		s.d, s.dev = nil, nil
		s.mu.Unlock()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opener == nil {
		return nil
	}
	err := m.opener.Close()
	m.opener = nil
	return err
}

func (m *IMUManager) slot(name string) (*imuSlot, error) {
	switch name {
	case Left:
		return m.left, nil
	case Right:
		return m.right, nil
	}
	return nil, fmt.Errorf("unknown IMU %q, use %q or %q", name, Left, Right)
}

// withDev runs f with the slot locked and its device initialized.
func (m *IMUManager) withDev(name string, f func(dev *lsm6ds33.Dev) error) error {
	s, err := m.slot(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return fmt.Errorf("%s IMU not available", name)
	}
	return f(s.dev)
}

func (m *IMUManager) available(s *imuSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev != nil
}

// IsLeftIMUAvailable reports whether the left IMU is initialized.
func (m *IMUManager) IsLeftIMUAvailable() bool { return m.available(m.left) }

// IsRightIMUAvailable reports whether the right IMU is initialized.
func (m *IMUManager) IsRightIMUAvailable() bool { return m.available(m.right) }

// ReadIMU reads one raw sample from the named IMU.
func (m *IMUManager) ReadIMU(name string) (imu_raw.IMURaw, error) {
	var out imu_raw.IMURaw
	err := m.withDev(name, func(dev *lsm6ds33.Dev) error {
		s, err := dev.ReadRaw()
		if err != nil {
			return fmt.Errorf("%s IMU read: %w", name, err)
		}
		out = imu_raw.IMURaw{
			Source: name,
			Temp:   s.Temperature,
			Ax:     s.AX,
			Ay:     s.AY,
			Az:     s.AZ,
			Gx:     s.GX,
			Gy:     s.GY,
			Gz:     s.GZ,
		}
		return nil
	})
	return out, err
}

// ReadLeftIMU reads one raw sample from the left IMU.
func (m *IMUManager) ReadLeftIMU() (imu_raw.IMURaw, error) { return m.ReadIMU(Left) }

// ReadRightIMU reads one raw sample from the right IMU.
func (m *IMUManager) ReadRightIMU() (imu_raw.IMURaw, error) { return m.ReadIMU(Right) }

// ReadRegister reads a single register.
func (m *IMUManager) ReadRegister(name string, addr byte) (byte, error) {
	var v byte
	err := m.withDev(name, func(dev *lsm6ds33.Dev) error {
		var err error
		v, err = dev.Device().Read(lsm6ds33.Register(addr))
		return err
	})
	return v, err
}

// WriteRegister writes a single register. Writes to CTRL1_XL or CTRL2_G are
// not reflected in Config until the IMU is reinitialized.
func (m *IMUManager) WriteRegister(name string, addr, value byte) error {
	return m.withDev(name, func(dev *lsm6ds33.Dev) error {
		return dev.Device().Write(lsm6ds33.Register(addr), value)
	})
}

// ReadAllRegisters reads every named register. Reading the FIFO output
// registers pops the FIFO.
func (m *IMUManager) ReadAllRegisters(name string) (map[byte]byte, error) {
	out := make(map[byte]byte)
	err := m.withDev(name, func(dev *lsm6ds33.Dev) error {
		for _, r := range lsm6ds33.Registers() {
			v, err := dev.Device().Read(r)
			if err != nil {
				return fmt.Errorf("read %s: %w", r, err)
			}
			out[r.Address()] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExportRegisterConfig reads the writable registers, for saving a known
// configuration.
func (m *IMUManager) ExportRegisterConfig(name string) (map[byte]byte, error) {
	all, err := m.ReadAllRegisters(name)
	if err != nil {
		return nil, err
	}
	out := make(map[byte]byte)
	for _, r := range lsm6ds33.Registers() {
		if !registerReadOnly(r) {
			out[r.Address()] = all[r.Address()]
		}
	}
	return out, nil
}

// ReinitializeIMU runs the full identity check, reset and configuration
// sequence again on an opened IMU.
func (m *IMUManager) ReinitializeIMU(name string) error {
	s, err := m.slot(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	opened := m.opener != nil
	m.mu.Unlock()
	if !opened {
		return fmt.Errorf("IMU manager not initialized")
	}
	if err := m.initSlot(s); err != nil {
		return err
	}
	log.Printf("%s IMU: reinitialized", name)
	return nil
}

// SetAccelDataRate changes the accelerometer output data rate.
func (m *IMUManager) SetAccelDataRate(name string, r lsm6ds33.DataRate) error {
	return m.withDev(name, func(dev *lsm6ds33.Dev) error { return dev.SetAccelDataRate(r) })
}

// SetAccelScale changes the accelerometer full scale.
func (m *IMUManager) SetAccelScale(name string, s lsm6ds33.AccelScale) error {
	return m.withDev(name, func(dev *lsm6ds33.Dev) error { return dev.SetAccelScale(s) })
}

// SetGyroDataRate changes the gyroscope output data rate.
func (m *IMUManager) SetGyroDataRate(name string, r lsm6ds33.DataRate) error {
	return m.withDev(name, func(dev *lsm6ds33.Dev) error { return dev.SetGyroDataRate(r) })
}

// SetGyroScale changes the gyroscope full scale.
func (m *IMUManager) SetGyroScale(name string, s lsm6ds33.GyroScale) error {
	return m.withDev(name, func(dev *lsm6ds33.Dev) error { return dev.SetGyroScale(s) })
}

// Config returns the configuration last written to the named IMU.
func (m *IMUManager) Config(name string) (imu_raw.IMUConfig, error) {
	var out imu_raw.IMUConfig
	err := m.withDev(name, func(dev *lsm6ds33.Dev) error {
		out = imu_raw.IMUConfig{
			Source:     name,
			AccelODR:   dev.AccelDataRate().String(),
			AccelScale: dev.AccelScale().String(),
			AccelPower: dev.AccelPowerMode().String(),
			GyroODR:    dev.GyroDataRate().String(),
			GyroScale:  dev.GyroScale().String(),
			GyroPower:  dev.GyroPowerMode().String(),
		}
		return nil
	})
	return out, err
}

// ReadBackConfig decodes CTRL1_XL and CTRL2_G as they are on the chip.
// A power-down rate reads as "off" and a reserved scale code as "reserved".
func (m *IMUManager) ReadBackConfig(name string) (imu_raw.IMUConfig, error) {
	var out imu_raw.IMUConfig
	err := m.withDev(name, func(dev *lsm6ds33.Dev) error {
		xl, err := dev.Device().Read(lsm6ds33.CTRL1_XL)
		if err != nil {
			return fmt.Errorf("read CTRL1_XL: %w", err)
		}
		g, err := dev.Device().Read(lsm6ds33.CTRL2_G)
		if err != nil {
			return fmt.Errorf("read CTRL2_G: %w", err)
		}
		out = imu_raw.IMUConfig{
			Source:     name,
			AccelODR:   "off",
			AccelScale: lsm6ds33.DecodeAccelScale(xl).String(),
			GyroODR:    "off",
			GyroScale:  "reserved",
		}
		if r, ok := lsm6ds33.DecodeDataRate(xl); ok {
			out.AccelODR = r.String()
		}
		if r, ok := lsm6ds33.DecodeDataRate(g); ok {
			out.GyroODR = r.String()
		}
		if s, ok := lsm6ds33.DecodeGyroScale(g); ok {
			out.GyroScale = s.String()
		}
		return nil
	})
	return out, err
}

// GetRegisterMap returns the register metadata for the debug tool.
func (m *IMUManager) GetRegisterMap() []RegisterInfo {
	return getLSM6DS33RegisterMap()
}
