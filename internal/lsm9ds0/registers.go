// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm9ds0

// The LSM9DS0 is two dies behind one package: the XM die carries the
// accelerometer and magnetometer, the G die carries the gyroscope. On the
// BerryIMU both sit on the same I2C bus at fixed addresses.
const (
	AccAddress = 0x1E // XM die, accelerometer + magnetometer
	MagAddress = 0x1E
	GyrAddress = 0x6A // G die, gyroscope
)

// XM die registers.
const (
	regWhoAmIXM = 0x0F

	regOutXLM = 0x08
	regOutXHM = 0x09
	regOutYLM = 0x0A
	regOutYHM = 0x0B
	regOutZLM = 0x0C
	regOutZHM = 0x0D

	regCtrlReg1XM = 0x20
	regCtrlReg2XM = 0x21
	regCtrlReg5XM = 0x24
	regCtrlReg6XM = 0x25
	regCtrlReg7XM = 0x26

	regOutXLA = 0x28
	regOutXHA = 0x29
	regOutYLA = 0x2A
	regOutYHA = 0x2B
	regOutZLA = 0x2C
	regOutZHA = 0x2D
)

// G die registers.
const (
	regWhoAmIG = 0x0F

	regCtrlReg1G = 0x20
	regCtrlReg4G = 0x23

	regOutXLG = 0x28
	regOutXHG = 0x29
	regOutYLG = 0x2A
	regOutYHG = 0x2B
	regOutZLG = 0x2C
	regOutZHG = 0x2D
)

// Expected WHO_AM_I values.
const (
	whoAmIXM = 0x49
	whoAmIG  = 0xD4
)

// Default operating mode, written by SetupDefault:
//
//	CTRL_REG1_XM = 0x67: accel 100Hz ODR, XYZ enabled
//	CTRL_REG2_XM = 0x20: accel ±16g full scale
//	CTRL_REG5_XM = 0xF0: mag high resolution, 50Hz ODR
//	CTRL_REG6_XM = 0x60: mag ±12 gauss full scale
//	CTRL_REG7_XM = 0x00: mag continuous-conversion mode
//	CTRL_REG1_G  = 0x0F: gyro normal power, XYZ enabled
//	CTRL_REG4_G  = 0x30: gyro ±2000°/s full scale
const (
	defCtrlReg1XM = 0b01100111
	defCtrlReg2XM = 0b00100000
	defCtrlReg5XM = 0b11110000
	defCtrlReg6XM = 0b01100000
	defCtrlReg7XM = 0b00000000
	defCtrlReg1G  = 0b00001111
	defCtrlReg4G  = 0b00110000
)
