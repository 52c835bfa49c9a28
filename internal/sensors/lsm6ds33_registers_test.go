// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"testing"

	"github.com/relabs-tech/lsm6ds33/internal/lsm6ds33"
)

func TestRegisterMap(t *testing.T) {
	m := getLSM6DS33RegisterMap()
	if len(m) != len(lsm6ds33.Registers()) {
		t.Fatalf("%d entries, want %d", len(m), len(lsm6ds33.Registers()))
	}
	byName := make(map[string]RegisterInfo)
	for _, r := range m {
		byName[r.Name] = r
	}
	for _, tc := range []struct {
		name, addr, access, def string
		fields                  int
	}{
		{"WHO_AM_I", "0x0F", "R", "0x69", 1},
		{"CTRL1_XL", "0x10", "RW", "0x00", 3},
		{"CTRL2_G", "0x11", "RW", "0x00", 3},
		{"CTRL3_C", "0x12", "RW", "0x04", 8},
		{"STATUS_REG", "0x1E", "R", "0x00", 4},
		{"OUTX_L_XL", "0x28", "R", "0x00", 0},
		{"FIFO_DATA_OUT_H", "0x3F", "R", "0x00", 0},
		{"TIMESTAMP2_REG", "0x42", "RW", "0x00", 0},
		{"STEP_COUNTER_H", "0x4C", "R", "0x00", 0},
		{"TAP_CFG", "0x58", "RW", "0x00", 0},
	} {
		r, ok := byName[tc.name]
		if !ok {
			t.Errorf("%s missing", tc.name)
			continue
		}
		if r.Address != tc.addr || r.Access != tc.access || r.Default != tc.def || len(r.BitFields) != tc.fields {
			t.Errorf("%s = %+v", tc.name, r)
		}
		if r.Description == "" {
			t.Errorf("%s has no description", tc.name)
		}
	}
}
