// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// ChipID is the fixed WHO_AM_I value of the LSM6DS33.
const ChipID byte = 0x69

// CTRL3_C bits.
const (
	CTRL3_C_BOOT      byte = 1 << 7
	CTRL3_C_BDU       byte = 1 << 6
	CTRL3_C_H_LACTIVE byte = 1 << 5
	CTRL3_C_PP_OD     byte = 1 << 4
	CTRL3_C_SIM       byte = 1 << 3
	CTRL3_C_IF_INC    byte = 1 << 2
	CTRL3_C_BLE       byte = 1 << 1
	CTRL3_C_SW_RESET  byte = 1 << 0
)

// Field masks. A pattern written into a register must fit inside its mask.
const (
	ODRMask        byte = 0b1111_0000 // CTRL1_XL and CTRL2_G, bits 7:4
	AccelScaleMask byte = 0b0000_1100 // CTRL1_XL FS_XL, bits 3:2
	GyroScaleMask  byte = 0b0000_1111 // CTRL2_G FS_G + FS_125, bits 3:1 and reserved bit 0
)

// DataRate is an output data rate shared by both sub-sensors.
type DataRate uint8

const (
	ODR12_5Hz DataRate = iota + 1
	ODR26Hz
	ODR52Hz
	ODR104Hz
	ODR208Hz
	ODR416Hz
	ODR833Hz
	ODR1_66kHz
	ODR3_33kHz
	ODR6_66kHz
)

// ODR_XL / ODR_G codes, already shifted into bits 7:4.
var dataRateBits = map[DataRate]byte{
	ODR12_5Hz:  0b0001_0000,
	ODR26Hz:    0b0010_0000,
	ODR52Hz:    0b0011_0000,
	ODR104Hz:   0b0100_0000,
	ODR208Hz:   0b0101_0000,
	ODR416Hz:   0b0110_0000,
	ODR833Hz:   0b0111_0000,
	ODR1_66kHz: 0b1000_0000,
	ODR3_33kHz: 0b1001_0000,
	ODR6_66kHz: 0b1010_0000,
}

var dataRateFreq = map[DataRate]physic.Frequency{
	ODR12_5Hz:  12500 * physic.MilliHertz,
	ODR26Hz:    26 * physic.Hertz,
	ODR52Hz:    52 * physic.Hertz,
	ODR104Hz:   104 * physic.Hertz,
	ODR208Hz:   208 * physic.Hertz,
	ODR416Hz:   416 * physic.Hertz,
	ODR833Hz:   833 * physic.Hertz,
	ODR1_66kHz: 1660 * physic.Hertz,
	ODR3_33kHz: 3330 * physic.Hertz,
	ODR6_66kHz: 6660 * physic.Hertz,
}

// Frequency returns the nominal sampling frequency, or 0 for an unknown rate.
func (r DataRate) Frequency() physic.Frequency {
	return dataRateFreq[r]
}

var dataRateNames = map[DataRate]string{
	ODR12_5Hz:  "12.5Hz",
	ODR26Hz:    "26Hz",
	ODR52Hz:    "52Hz",
	ODR104Hz:   "104Hz",
	ODR208Hz:   "208Hz",
	ODR416Hz:   "416Hz",
	ODR833Hz:   "833Hz",
	ODR1_66kHz: "1.66kHz",
	ODR3_33kHz: "3.33kHz",
	ODR6_66kHz: "6.66kHz",
}

func (r DataRate) String() string {
	if n, ok := dataRateNames[r]; ok {
		return n
	}
	return fmt.Sprintf("DataRate(%d)", uint8(r))
}

// DataRates lists every rate in ascending order.
func DataRates() []DataRate {
	return []DataRate{ODR12_5Hz, ODR26Hz, ODR52Hz, ODR104Hz, ODR208Hz, ODR416Hz, ODR833Hz, ODR1_66kHz, ODR3_33kHz, ODR6_66kHz}
}

// AccelScale is the accelerometer full-scale range.
type AccelScale uint8

const (
	AccelScale2G AccelScale = iota + 1
	AccelScale4G
	AccelScale8G
	AccelScale16G
)

// FS_XL codes. ±16g is 01, which sorts below ±4g and ±8g.
var accelScaleBits = map[AccelScale]byte{
	AccelScale2G:  0b0000_0000,
	AccelScale4G:  0b0000_1000,
	AccelScale8G:  0b0000_1100,
	AccelScale16G: 0b0000_0100,
}

var accelScaleNames = map[AccelScale]string{
	AccelScale2G:  "±2g",
	AccelScale4G:  "±4g",
	AccelScale8G:  "±8g",
	AccelScale16G: "±16g",
}

func (s AccelScale) String() string {
	if n, ok := accelScaleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("AccelScale(%d)", uint8(s))
}

// AccelScales lists every accelerometer range in ascending order.
func AccelScales() []AccelScale {
	return []AccelScale{AccelScale2G, AccelScale4G, AccelScale8G, AccelScale16G}
}

// GyroScale is the gyroscope full-scale range.
type GyroScale uint8

const (
	GyroScale125DPS GyroScale = iota + 1
	GyroScale250DPS
	GyroScale500DPS
	GyroScale1000DPS
	GyroScale2000DPS
)

// FS_G in bits 3:2 with FS_125 in bit 1. Bit 0 is reserved and kept at 0.
var gyroScaleBits = map[GyroScale]byte{
	GyroScale125DPS:  0b0000_0010,
	GyroScale250DPS:  0b0000_0000,
	GyroScale500DPS:  0b0000_0100,
	GyroScale1000DPS: 0b0000_1000,
	GyroScale2000DPS: 0b0000_1100,
}

var gyroScaleNames = map[GyroScale]string{
	GyroScale125DPS:  "±125°/s",
	GyroScale250DPS:  "±250°/s",
	GyroScale500DPS:  "±500°/s",
	GyroScale1000DPS: "±1000°/s",
	GyroScale2000DPS: "±2000°/s",
}

func (s GyroScale) String() string {
	if n, ok := gyroScaleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("GyroScale(%d)", uint8(s))
}

// GyroScales lists every gyroscope range in ascending order.
func GyroScales() []GyroScale {
	return []GyroScale{GyroScale125DPS, GyroScale250DPS, GyroScale500DPS, GyroScale1000DPS, GyroScale2000DPS}
}

// AccelPowerMode and GyroPowerMode are carried in the driver's cached
// configuration only; nothing writes them to the chip.
type AccelPowerMode uint8

const (
	AccelLowPower AccelPowerMode = iota + 1
	AccelNormalPower
	AccelHighPerformance
)

func (m AccelPowerMode) String() string {
	switch m {
	case AccelLowPower:
		return "low-power"
	case AccelNormalPower:
		return "normal"
	case AccelHighPerformance:
		return "high-performance"
	}
	return fmt.Sprintf("AccelPowerMode(%d)", uint8(m))
}

type GyroPowerMode uint8

const (
	GyroLowPower GyroPowerMode = iota + 1
	GyroNormalPower
	GyroHighPerformance
)

func (m GyroPowerMode) String() string {
	switch m {
	case GyroLowPower:
		return "low-power"
	case GyroNormalPower:
		return "normal"
	case GyroHighPerformance:
		return "high-performance"
	}
	return fmt.Sprintf("GyroPowerMode(%d)", uint8(m))
}

// Field lookups. Each returns the mask owned by the field and the pattern to
// OR in once the mask has been cleared.

func accelDataRateField(r DataRate) (mask, pattern byte, err error) {
	p, ok := dataRateBits[r]
	if !ok {
		return 0, 0, fmt.Errorf("lsm6ds33: accelerometer data rate %s: %w", r, ErrInvalidValue)
	}
	return ODRMask, p, nil
}

func gyroDataRateField(r DataRate) (mask, pattern byte, err error) {
	p, ok := dataRateBits[r]
	if !ok || r > ODR1_66kHz {
		return 0, 0, fmt.Errorf("lsm6ds33: gyroscope data rate %s: %w", r, ErrInvalidValue)
	}
	return ODRMask, p, nil
}

func accelScaleField(s AccelScale) (mask, pattern byte, err error) {
	p, ok := accelScaleBits[s]
	if !ok {
		return 0, 0, fmt.Errorf("lsm6ds33: accelerometer scale %s: %w", s, ErrInvalidValue)
	}
	return AccelScaleMask, p, nil
}

func gyroScaleField(s GyroScale) (mask, pattern byte, err error) {
	p, ok := gyroScaleBits[s]
	if !ok {
		return 0, 0, fmt.Errorf("lsm6ds33: gyroscope scale %s: %w", s, ErrInvalidValue)
	}
	return GyroScaleMask, p, nil
}

// setField clears mask in v and ORs in pattern.
func setField(v, mask, pattern byte) byte {
	return v&^mask | pattern&mask
}

// DecodeDataRate extracts the ODR field of a CTRL1_XL or CTRL2_G value.
// ok is false when the field holds power-down or a reserved code.
func DecodeDataRate(v byte) (DataRate, bool) {
	for r, p := range dataRateBits {
		if v&ODRMask == p {
			return r, true
		}
	}
	return 0, false
}

// DecodeAccelScale extracts FS_XL from a CTRL1_XL value.
func DecodeAccelScale(v byte) AccelScale {
	for s, p := range accelScaleBits {
		if v&AccelScaleMask == p {
			return s
		}
	}
	// unreachable: the four codes cover the two-bit field
	return 0
}

// DecodeGyroScale extracts FS_G/FS_125 from a CTRL2_G value. The reserved
// bit 0 is ignored.
func DecodeGyroScale(v byte) (GyroScale, bool) {
	f := v & GyroScaleMask &^ 0b0000_0001
	for s, p := range gyroScaleBits {
		if f == p {
			return s, true
		}
	}
	return 0, false
}
