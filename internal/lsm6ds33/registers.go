// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import "fmt"

// Register is the byte address of one location in the LSM6DS33 memory map.
type Register uint8

// Address returns the register's address on the bus.
func (r Register) Address() uint8 {
	return uint8(r)
}

func (r Register) String() string {
	if n, ok := registerNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Register(0x%02X)", uint8(r))
}

// Register map. Only WHO_AM_I, CTRL1_XL, CTRL2_G, CTRL3_C and the output
// registers are driven by this package; the rest are listed for tooling.
const (
	FUNC_CFG_ACCESS Register = 0x01 // embedded functions configuration

	// FIFO control
	FIFO_CTRL1 Register = 0x06
	FIFO_CTRL2 Register = 0x07
	FIFO_CTRL3 Register = 0x08
	FIFO_CTRL4 Register = 0x09
	FIFO_CTRL5 Register = 0x0A

	ORIENT_CFG_G Register = 0x0B

	// Interrupt pin control
	INT1_CTRL Register = 0x0D
	INT2_CTRL Register = 0x0E

	WHO_AM_I Register = 0x0F

	// Accelerometer and gyroscope control
	CTRL1_XL Register = 0x10
	CTRL2_G  Register = 0x11
	CTRL3_C  Register = 0x12
	CTRL4_C  Register = 0x13
	CTRL5_C  Register = 0x14
	CTRL6_C  Register = 0x15
	CTRL7_G  Register = 0x16
	CTRL8_XL Register = 0x17
	CTRL9_XL Register = 0x18
	CTRL10_C Register = 0x19

	// Interrupt sources
	WAKE_UP_SRC Register = 0x1B
	TAP_SRC     Register = 0x1C
	D6D_SRC     Register = 0x1D

	STATUS_REG Register = 0x1E

	// Temperature output
	OUT_TEMP_L Register = 0x20
	OUT_TEMP_H Register = 0x21

	// Gyroscope output
	OUTX_L_G Register = 0x22
	OUTX_H_G Register = 0x23
	OUTY_L_G Register = 0x24
	OUTY_H_G Register = 0x25
	OUTZ_L_G Register = 0x26
	OUTZ_H_G Register = 0x27

	// Accelerometer output
	OUTX_L_XL Register = 0x28
	OUTX_H_XL Register = 0x29
	OUTY_L_XL Register = 0x2A
	OUTY_H_XL Register = 0x2B
	OUTZ_L_XL Register = 0x2C
	OUTZ_H_XL Register = 0x2D

	// FIFO status and output
	FIFO_STATUS1    Register = 0x3A
	FIFO_STATUS2    Register = 0x3B
	FIFO_STATUS3    Register = 0x3C
	FIFO_STATUS4    Register = 0x3D
	FIFO_DATA_OUT_L Register = 0x3E
	FIFO_DATA_OUT_H Register = 0x3F

	// Timestamp output
	TIMESTAMP0_REG Register = 0x40
	TIMESTAMP1_REG Register = 0x41
	TIMESTAMP2_REG Register = 0x42

	// Pedometer
	STEP_TIMESTAMP_L Register = 0x49
	STEP_TIMESTAMP_H Register = 0x4A
	STEP_COUNTER_L   Register = 0x4B
	STEP_COUNTER_H   Register = 0x4C

	FUNC_SRC Register = 0x53

	// Tap, wake-up and free-fall configuration
	TAP_CFG     Register = 0x58
	TAP_THS_6D  Register = 0x59
	INT_DUR2    Register = 0x5A
	WAKE_UP_THS Register = 0x5B
	WAKE_UP_DUR Register = 0x5C
	FREE_FALL   Register = 0x5D
	MD1_CFG     Register = 0x5E
	MD2_CFG     Register = 0x5F
)

var registerNames = map[Register]string{
	FUNC_CFG_ACCESS:  "FUNC_CFG_ACCESS",
	FIFO_CTRL1:       "FIFO_CTRL1",
	FIFO_CTRL2:       "FIFO_CTRL2",
	FIFO_CTRL3:       "FIFO_CTRL3",
	FIFO_CTRL4:       "FIFO_CTRL4",
	FIFO_CTRL5:       "FIFO_CTRL5",
	ORIENT_CFG_G:     "ORIENT_CFG_G",
	INT1_CTRL:        "INT1_CTRL",
	INT2_CTRL:        "INT2_CTRL",
	WHO_AM_I:         "WHO_AM_I",
	CTRL1_XL:         "CTRL1_XL",
	CTRL2_G:          "CTRL2_G",
	CTRL3_C:          "CTRL3_C",
	CTRL4_C:          "CTRL4_C",
	CTRL5_C:          "CTRL5_C",
	CTRL6_C:          "CTRL6_C",
	CTRL7_G:          "CTRL7_G",
	CTRL8_XL:         "CTRL8_XL",
	CTRL9_XL:         "CTRL9_XL",
	CTRL10_C:         "CTRL10_C",
	WAKE_UP_SRC:      "WAKE_UP_SRC",
	TAP_SRC:          "TAP_SRC",
	D6D_SRC:          "D6D_SRC",
	STATUS_REG:       "STATUS_REG",
	OUT_TEMP_L:       "OUT_TEMP_L",
	OUT_TEMP_H:       "OUT_TEMP_H",
	OUTX_L_G:         "OUTX_L_G",
	OUTX_H_G:         "OUTX_H_G",
	OUTY_L_G:         "OUTY_L_G",
	OUTY_H_G:         "OUTY_H_G",
	OUTZ_L_G:         "OUTZ_L_G",
	OUTZ_H_G:         "OUTZ_H_G",
	OUTX_L_XL:        "OUTX_L_XL",
	OUTX_H_XL:        "OUTX_H_XL",
	OUTY_L_XL:        "OUTY_L_XL",
	OUTY_H_XL:        "OUTY_H_XL",
	OUTZ_L_XL:        "OUTZ_L_XL",
	OUTZ_H_XL:        "OUTZ_H_XL",
	FIFO_STATUS1:     "FIFO_STATUS1",
	FIFO_STATUS2:     "FIFO_STATUS2",
	FIFO_STATUS3:     "FIFO_STATUS3",
	FIFO_STATUS4:     "FIFO_STATUS4",
	FIFO_DATA_OUT_L:  "FIFO_DATA_OUT_L",
	FIFO_DATA_OUT_H:  "FIFO_DATA_OUT_H",
	TIMESTAMP0_REG:   "TIMESTAMP0_REG",
	TIMESTAMP1_REG:   "TIMESTAMP1_REG",
	TIMESTAMP2_REG:   "TIMESTAMP2_REG",
	STEP_TIMESTAMP_L: "STEP_TIMESTAMP_L",
	STEP_TIMESTAMP_H: "STEP_TIMESTAMP_H",
	STEP_COUNTER_L:   "STEP_COUNTER_L",
	STEP_COUNTER_H:   "STEP_COUNTER_H",
	FUNC_SRC:         "FUNC_SRC",
	TAP_CFG:          "TAP_CFG",
	TAP_THS_6D:       "TAP_THS_6D",
	INT_DUR2:         "INT_DUR2",
	WAKE_UP_THS:      "WAKE_UP_THS",
	WAKE_UP_DUR:      "WAKE_UP_DUR",
	FREE_FALL:        "FREE_FALL",
	MD1_CFG:          "MD1_CFG",
	MD2_CFG:          "MD2_CFG",
}

// Registers returns every documented register in ascending address order.
func Registers() []Register {
	out := make([]Register, 0, len(registerNames))
	for a := 0; a <= 0xFF; a++ {
		if _, ok := registerNames[Register(a)]; ok {
			out = append(out, Register(a))
		}
	}
	return out
}
