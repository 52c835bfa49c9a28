package app

import (
	"errors"
	"fmt"
	"sync"

	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/lsm6ds33"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

type published struct {
	topic   string
	payload string
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic, string(payload)})
	return nil
}

// fakeBackend stands in for sensors.IMUManager.
type fakeBackend struct {
	mu       sync.Mutex
	regs     map[string]map[byte]byte
	samples  map[string]imu_raw.IMURaw
	configs  map[string]imu_raw.IMUConfig
	readErr  error
	reinits  []string
	lastSets []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		regs: map[string]map[byte]byte{
			sensors.Left:  {0x0F: 0x69, 0x10: 0x20, 0x12: 0x44},
			sensors.Right: {0x0F: 0x69},
		},
		samples: map[string]imu_raw.IMURaw{
			sensors.Left:  {Source: sensors.Left, Ax: 1, Ay: 2, Az: 3, Gx: 4, Gy: 5, Gz: 6},
			sensors.Right: {Source: sensors.Right, Ax: -1},
		},
		configs: map[string]imu_raw.IMUConfig{
			sensors.Left:  {Source: sensors.Left, AccelODR: "26Hz"},
			sensors.Right: {Source: sensors.Right, AccelODR: "52Hz"},
		},
	}
}

var errNoIMU = errors.New("IMU not available")

func (b *fakeBackend) imu(name string) (map[byte]byte, error) {
	r, ok := b.regs[name]
	if !ok {
		return nil, errNoIMU
	}
	return r, nil
}

func (b *fakeBackend) IsLeftIMUAvailable() bool {
	_, ok := b.regs[sensors.Left]
	return ok
}

func (b *fakeBackend) IsRightIMUAvailable() bool {
	_, ok := b.regs[sensors.Right]
	return ok
}

func (b *fakeBackend) GetRegisterMap() []sensors.RegisterInfo {
	return []sensors.RegisterInfo{{Address: "0x0F", Name: "WHO_AM_I", Access: "R"}}
}

func (b *fakeBackend) ReadRegister(name string, addr byte) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.imu(name)
	if err != nil {
		return 0, err
	}
	return r[addr], nil
}

func (b *fakeBackend) WriteRegister(name string, addr, v byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.imu(name)
	if err != nil {
		return err
	}
	r[addr] = v
	return nil
}

func (b *fakeBackend) ReadAllRegisters(name string) (map[byte]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.imu(name)
	if err != nil {
		return nil, err
	}
	out := make(map[byte]byte, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out, nil
}

func (b *fakeBackend) ExportRegisterConfig(name string) (map[byte]byte, error) {
	all, err := b.ReadAllRegisters(name)
	delete(all, 0x0F)
	return all, err
}

func (b *fakeBackend) ReinitializeIMU(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.imu(name); err != nil {
		return err
	}
	b.reinits = append(b.reinits, name)
	return nil
}

func (b *fakeBackend) ReadIMU(name string) (imu_raw.IMURaw, error) {
	if b.readErr != nil {
		return imu_raw.IMURaw{}, b.readErr
	}
	s, ok := b.samples[name]
	if !ok {
		return imu_raw.IMURaw{}, errNoIMU
	}
	return s, nil
}

func (b *fakeBackend) Config(name string) (imu_raw.IMUConfig, error) {
	c, ok := b.configs[name]
	if !ok {
		return imu_raw.IMUConfig{}, errNoIMU
	}
	return c, nil
}

func (b *fakeBackend) ReadBackConfig(name string) (imu_raw.IMUConfig, error) {
	return b.Config(name)
}

func (b *fakeBackend) set(name, what string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.imu(name); err != nil {
		return err
	}
	b.lastSets = append(b.lastSets, what)
	return nil
}

func (b *fakeBackend) SetAccelDataRate(name string, r lsm6ds33.DataRate) error {
	return b.set(name, fmt.Sprintf("accel odr %s", r))
}

func (b *fakeBackend) SetAccelScale(name string, s lsm6ds33.AccelScale) error {
	return b.set(name, fmt.Sprintf("accel scale %s", s))
}

func (b *fakeBackend) SetGyroDataRate(name string, r lsm6ds33.DataRate) error {
	if r > lsm6ds33.ODR1_66kHz {
		return lsm6ds33.ErrInvalidValue
	}
	return b.set(name, fmt.Sprintf("gyro odr %s", r))
}

func (b *fakeBackend) SetGyroScale(name string, s lsm6ds33.GyroScale) error {
	return b.set(name, fmt.Sprintf("gyro scale %s", s))
}

var (
	_ registerBackend = &fakeBackend{}
	_ imuReader       = &fakeBackend{}
	_ registerBackend = &sensors.IMUManager{}
	_ imuReader       = &sensors.IMUManager{}
)
