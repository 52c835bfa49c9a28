// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"github.com/relabs-tech/lsm6ds33/internal/lsm6ds33"
)

// RegisterInfo describes one register for the register debug tool.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R" or "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// BitField describes a field inside a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values"`
}

type registerDetail struct {
	description string
	readOnly    bool
	defaultVal  byte
	bitFields   []BitField
}

const odrValues = "0=Power-down, 1=12.5Hz, 2=26Hz, 3=52Hz, 4=104Hz, 5=208Hz, 6=416Hz, 7=833Hz, 8=1.66kHz, 9=3.33kHz, 10=6.66kHz"

var registerDetails = map[lsm6ds33.Register]registerDetail{
	lsm6ds33.FUNC_CFG_ACCESS: {description: "Embedded functions configuration access",
		bitFields: []BitField{
			{Bits: "7", Name: "FUNC_CFG_EN", Description: "Access to embedded functions registers", Values: "0=Disabled, 1=Enabled"},
		}},
	lsm6ds33.FIFO_CTRL1: {description: "FIFO threshold level, low byte"},
	lsm6ds33.FIFO_CTRL2: {description: "FIFO threshold level, high bits and pedometer storage"},
	lsm6ds33.FIFO_CTRL3: {description: "FIFO gyro and accel decimation"},
	lsm6ds33.FIFO_CTRL4: {description: "FIFO third and fourth data set decimation"},
	lsm6ds33.FIFO_CTRL5: {description: "FIFO ODR and mode",
		bitFields: []BitField{
			{Bits: "6:3", Name: "ODR_FIFO", Description: "FIFO output data rate", Values: odrValues},
			{Bits: "2:0", Name: "FIFO_MODE", Description: "FIFO mode", Values: "0=Bypass, 1=FIFO, 3=Continuous-to-FIFO, 4=Bypass-to-continuous, 6=Continuous"},
		}},
	lsm6ds33.ORIENT_CFG_G: {description: "Angular rate sign and orientation"},
	lsm6ds33.INT1_CTRL:    {description: "INT1 pad control"},
	lsm6ds33.INT2_CTRL:    {description: "INT2 pad control"},
	lsm6ds33.WHO_AM_I: {description: "Device identification", readOnly: true, defaultVal: lsm6ds33.ChipID,
		bitFields: []BitField{
			{Bits: "7:0", Name: "WHO_AM_I", Description: "Fixed identity", Values: "0x69"},
		}},
	lsm6ds33.CTRL1_XL: {description: "Accelerometer control",
		bitFields: []BitField{
			{Bits: "7:4", Name: "ODR_XL", Description: "Accelerometer output data rate", Values: odrValues},
			{Bits: "3:2", Name: "FS_XL", Description: "Accelerometer full scale", Values: "0=±2g, 1=±16g, 2=±4g, 3=±8g"},
			{Bits: "1:0", Name: "BW_XL", Description: "Anti-aliasing filter bandwidth", Values: "0=400Hz, 1=200Hz, 2=100Hz, 3=50Hz"},
		}},
	lsm6ds33.CTRL2_G: {description: "Gyroscope control",
		bitFields: []BitField{
			{Bits: "7:4", Name: "ODR_G", Description: "Gyroscope output data rate", Values: "0=Power-down, 1=12.5Hz ... 8=1.66kHz"},
			{Bits: "3:2", Name: "FS_G", Description: "Gyroscope full scale", Values: "0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s"},
			{Bits: "1", Name: "FS_125", Description: "Gyroscope ±125°/s full scale", Values: "0=Disabled, 1=Enabled"},
		}},
	lsm6ds33.CTRL3_C: {description: "Common control 3", defaultVal: lsm6ds33.CTRL3_C_IF_INC,
		bitFields: []BitField{
			{Bits: "7", Name: "BOOT", Description: "Reboot memory content", Values: "0=Normal, 1=Reboot"},
			{Bits: "6", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Hold until MSB and LSB read"},
			{Bits: "5", Name: "H_LACTIVE", Description: "Interrupt activation level", Values: "0=Active high, 1=Active low"},
			{Bits: "4", Name: "PP_OD", Description: "INT1/INT2 pad mode", Values: "0=Push-pull, 1=Open drain"},
			{Bits: "3", Name: "SIM", Description: "SPI mode", Values: "0=4-wire, 1=3-wire"},
			{Bits: "2", Name: "IF_INC", Description: "Address auto-increment", Values: "0=Disabled, 1=Enabled"},
			{Bits: "1", Name: "BLE", Description: "Data endianness", Values: "0=LSB at lower address, 1=MSB at lower address"},
			{Bits: "0", Name: "SW_RESET", Description: "Software reset, self-clearing", Values: "0=Normal, 1=Reset"},
		}},
	lsm6ds33.CTRL4_C: {description: "Common control 4"},
	lsm6ds33.CTRL5_C: {description: "Common control 5 (rounding, self-test)"},
	lsm6ds33.CTRL6_C: {description: "Common control 6",
		bitFields: []BitField{
			{Bits: "4", Name: "XL_HM_MODE", Description: "Accelerometer high-performance mode", Values: "0=Enabled, 1=Disabled"},
		}},
	lsm6ds33.CTRL7_G: {description: "Gyroscope control 7",
		bitFields: []BitField{
			{Bits: "7", Name: "G_HM_MODE", Description: "Gyroscope high-performance mode", Values: "0=Enabled, 1=Disabled"},
			{Bits: "6", Name: "HP_G_EN", Description: "Gyroscope high-pass filter", Values: "0=Disabled, 1=Enabled"},
		}},
	lsm6ds33.CTRL8_XL: {description: "Accelerometer filtering control"},
	lsm6ds33.CTRL9_XL: {description: "Accelerometer axis enable", defaultVal: 0x38,
		bitFields: []BitField{
			{Bits: "5", Name: "Zen_XL", Description: "Accelerometer Z axis", Values: "0=Disabled, 1=Enabled"},
			{Bits: "4", Name: "Yen_XL", Description: "Accelerometer Y axis", Values: "0=Disabled, 1=Enabled"},
			{Bits: "3", Name: "Xen_XL", Description: "Accelerometer X axis", Values: "0=Disabled, 1=Enabled"},
		}},
	lsm6ds33.CTRL10_C: {description: "Gyroscope axis enable and embedded functions", defaultVal: 0x38,
		bitFields: []BitField{
			{Bits: "5", Name: "Zen_G", Description: "Gyroscope Z axis", Values: "0=Disabled, 1=Enabled"},
			{Bits: "4", Name: "Yen_G", Description: "Gyroscope Y axis", Values: "0=Disabled, 1=Enabled"},
			{Bits: "3", Name: "Xen_G", Description: "Gyroscope X axis", Values: "0=Disabled, 1=Enabled"},
			{Bits: "2", Name: "FUNC_EN", Description: "Embedded functions", Values: "0=Disabled, 1=Enabled"},
		}},
	lsm6ds33.WAKE_UP_SRC: {description: "Wake-up interrupt source", readOnly: true},
	lsm6ds33.TAP_SRC:     {description: "Tap interrupt source", readOnly: true},
	lsm6ds33.D6D_SRC:     {description: "Portrait, landscape, face-up and face-down source", readOnly: true},
	lsm6ds33.STATUS_REG: {description: "Data status", readOnly: true,
		bitFields: []BitField{
			{Bits: "3", Name: "EV_BOOT", Description: "Boot running", Values: "0=No, 1=Yes"},
			{Bits: "2", Name: "TDA", Description: "New temperature data", Values: "0=No, 1=Yes"},
			{Bits: "1", Name: "GDA", Description: "New gyroscope data", Values: "0=No, 1=Yes"},
			{Bits: "0", Name: "XLDA", Description: "New accelerometer data", Values: "0=No, 1=Yes"},
		}},
	lsm6ds33.TIMESTAMP2_REG: {description: "Timestamp high byte, write 0xAA to reset"},
	lsm6ds33.TAP_CFG:        {description: "Timestamp, pedometer, tilt and tap configuration"},
	lsm6ds33.TAP_THS_6D:     {description: "Portrait/landscape and tap threshold"},
	lsm6ds33.INT_DUR2:       {description: "Tap recognition timing"},
	lsm6ds33.WAKE_UP_THS:    {description: "Single and double tap, wake-up threshold"},
	lsm6ds33.WAKE_UP_DUR:    {description: "Free-fall, wake-up and sleep duration"},
	lsm6ds33.FREE_FALL:      {description: "Free-fall duration and threshold"},
	lsm6ds33.MD1_CFG:        {description: "Functions routed to INT1"},
	lsm6ds33.MD2_CFG:        {description: "Functions routed to INT2"},
}

// registerReadOnly reports whether r is an identity, status or output
// register.
func registerReadOnly(r lsm6ds33.Register) bool {
	if d, ok := registerDetails[r]; ok {
		return d.readOnly
	}
	switch {
	case r >= lsm6ds33.OUT_TEMP_L && r <= lsm6ds33.OUTZ_H_XL:
		return true
	case r >= lsm6ds33.FIFO_STATUS1 && r <= lsm6ds33.TIMESTAMP1_REG:
		return true
	case r >= lsm6ds33.STEP_TIMESTAMP_L && r <= lsm6ds33.FUNC_SRC:
		return true
	}
	return false
}

// getLSM6DS33RegisterMap returns metadata for every named LSM6DS33 register,
// in address order.
func getLSM6DS33RegisterMap() []RegisterInfo {
	regs := lsm6ds33.Registers()
	out := make([]RegisterInfo, 0, len(regs))
	for _, r := range regs {
		d, ok := registerDetails[r]
		if !ok {
			d = registerDetail{description: r.String()}
		}
		access := "RW"
		if registerReadOnly(r) {
			access = "R"
		}
		out = append(out, RegisterInfo{
			Address:     fmt.Sprintf("0x%02X", r.Address()),
			Name:        r.String(),
			Description: d.description,
			Access:      access,
			Default:     fmt.Sprintf("0x%02X", d.defaultVal),
			BitFields:   d.bitFields,
		})
	}
	return out
}
