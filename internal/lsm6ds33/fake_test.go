// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import "errors"

// op is one bus transaction seen by fakeDevice.
type op struct {
	Write bool
	Reg   Register
	Value byte
}

func rd(reg Register) op { return op{Reg: reg} }
func wr(reg Register, v byte) op { return op{Write: true, Reg: reg, Value: v} }

var errFakeBus = errors.New("fake bus failure")

// fakeDevice is an in-memory register file that behaves like the chip for
// the registers this package drives.
type fakeDevice struct {
	regs [256]byte
	ops  []op

	// resetReads is how many CTRL3_C reads still show SW_RESET after it was
	// written. Negative means the reset never completes.
	resetReads int
	resetting  bool
	resetLeft  int

	failRead  bool
	failWrite bool
}

func newFakeDevice() *fakeDevice {
	f := &fakeDevice{}
	f.regs[WHO_AM_I] = ChipID
	f.regs[CTRL3_C] = CTRL3_C_IF_INC
	return f
}

func (f *fakeDevice) Read(reg Register) (byte, error) {
	var b [1]byte
	if err := f.ReadMany(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (f *fakeDevice) ReadMany(reg Register, buf []byte) error {
	f.ops = append(f.ops, rd(reg))
	if f.failRead {
		return busError(errFakeBus)
	}
	if reg == CTRL3_C && f.resetting {
		if f.resetReads >= 0 && f.resetLeft == 0 {
			f.resetting = false
			f.regs[CTRL1_XL] = 0
			f.regs[CTRL2_G] = 0
			f.regs[CTRL3_C] = CTRL3_C_IF_INC
		} else if f.resetLeft > 0 {
			f.resetLeft--
		}
	}
	for i := range buf {
		buf[i] = f.regs[int(reg)+i]
	}
	return nil
}

func (f *fakeDevice) Write(reg Register, value byte) error {
	f.ops = append(f.ops, wr(reg, value))
	if f.failWrite {
		return busError(errFakeBus)
	}
	f.regs[reg] = value
	if reg == CTRL3_C && value&CTRL3_C_SW_RESET != 0 {
		f.resetting = true
		f.resetLeft = f.resetReads
	}
	return nil
}

func (f *fakeDevice) WriteMany(reg Register, buf []byte) error {
	if len(buf) > MaxWriteLen {
		return ErrCommunication
	}
	for i, v := range buf {
		if err := f.Write(reg+Register(i), v); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDevice) Mutate(reg Register, fn func(byte) byte) error {
	return mutate(f, reg, fn)
}

func (f *fakeDevice) writes() []op {
	var out []op
	for _, o := range f.ops {
		if o.Write {
			out = append(out, o)
		}
	}
	return out
}

var _ Device = &fakeDevice{}
