// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm9ds0

import "fmt"

// BitField describes one field within a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo carries metadata for one register of a die.
type RegisterInfo struct {
	Address     byte       `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// XMRegisterMap returns metadata for the XM die (accelerometer + magnetometer)
// registers this logger touches.
func XMRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: regWhoAmIXM, Name: "WHO_AM_I_XM", Description: "Device ID (should be 0x49)", Access: "R"},

		{Address: regOutXLM, Name: "OUT_X_L_M", Description: "Magnetometer X-Axis Low Byte", Access: "R"},
		{Address: regOutXHM, Name: "OUT_X_H_M", Description: "Magnetometer X-Axis High Byte", Access: "R"},
		{Address: regOutYLM, Name: "OUT_Y_L_M", Description: "Magnetometer Y-Axis Low Byte", Access: "R"},
		{Address: regOutYHM, Name: "OUT_Y_H_M", Description: "Magnetometer Y-Axis High Byte", Access: "R"},
		{Address: regOutZLM, Name: "OUT_Z_L_M", Description: "Magnetometer Z-Axis Low Byte", Access: "R"},
		{Address: regOutZHM, Name: "OUT_Z_H_M", Description: "Magnetometer Z-Axis High Byte", Access: "R"},

		{Address: regCtrlReg1XM, Name: "CTRL_REG1_XM", Description: "Accelerometer Control 1", Access: "RW",
			BitFields: []BitField{
				{Bits: "7:4", Name: "AODR", Description: "Accelerometer output data rate", Values: "0=PowerDown, 6=100Hz, 9=800Hz, 10=1600Hz"},
				{Bits: "3", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=On read"},
				{Bits: "2", Name: "AZEN", Description: "Accel Z enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "AYEN", Description: "Accel Y enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "AXEN", Description: "Accel X enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: regCtrlReg2XM, Name: "CTRL_REG2_XM", Description: "Accelerometer Control 2", Access: "RW",
			BitFields: []BitField{
				{Bits: "7:6", Name: "ABW", Description: "Accel anti-alias filter bandwidth", Values: "0=773Hz, 1=194Hz, 2=362Hz, 3=50Hz"},
				{Bits: "5:3", Name: "AFS", Description: "Accel full scale", Values: "0=±2g, 1=±4g, 2=±6g, 3=±8g, 4=±16g"},
			}},
		{Address: regCtrlReg5XM, Name: "CTRL_REG5_XM", Description: "Magnetometer Control 5", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "TEMP_EN", Description: "Temperature sensor enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6:5", Name: "M_RES", Description: "Magnetic resolution", Values: "0=Low, 3=High"},
				{Bits: "4:2", Name: "M_ODR", Description: "Magnetometer output data rate", Values: "0=3.125Hz, 4=50Hz, 5=100Hz"},
			}},
		{Address: regCtrlReg6XM, Name: "CTRL_REG6_XM", Description: "Magnetometer Control 6", Access: "RW",
			BitFields: []BitField{
				{Bits: "6:5", Name: "MFS", Description: "Magnetic full scale", Values: "0=±2gauss, 1=±4gauss, 2=±8gauss, 3=±12gauss"},
			}},
		{Address: regCtrlReg7XM, Name: "CTRL_REG7_XM", Description: "Magnetometer Control 7", Access: "RW",
			BitFields: []BitField{
				{Bits: "1:0", Name: "MD", Description: "Magnetic sensor mode", Values: "0=Continuous, 1=Single, 2/3=PowerDown"},
			}},

		{Address: regOutXLA, Name: "OUT_X_L_A", Description: "Accelerometer X-Axis Low Byte", Access: "R"},
		{Address: regOutXHA, Name: "OUT_X_H_A", Description: "Accelerometer X-Axis High Byte", Access: "R"},
		{Address: regOutYLA, Name: "OUT_Y_L_A", Description: "Accelerometer Y-Axis Low Byte", Access: "R"},
		{Address: regOutYHA, Name: "OUT_Y_H_A", Description: "Accelerometer Y-Axis High Byte", Access: "R"},
		{Address: regOutZLA, Name: "OUT_Z_L_A", Description: "Accelerometer Z-Axis Low Byte", Access: "R"},
		{Address: regOutZHA, Name: "OUT_Z_H_A", Description: "Accelerometer Z-Axis High Byte", Access: "R"},
	}
}

// GRegisterMap returns metadata for the G die (gyroscope) registers.
func GRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: regWhoAmIG, Name: "WHO_AM_I_G", Description: "Device ID (should be 0xD4)", Access: "R"},

		{Address: regCtrlReg1G, Name: "CTRL_REG1_G", Description: "Gyroscope Control 1", Access: "RW",
			BitFields: []BitField{
				{Bits: "7:6", Name: "DR", Description: "Gyro output data rate", Values: "0=95Hz, 1=190Hz, 2=380Hz, 3=760Hz"},
				{Bits: "5:4", Name: "BW", Description: "Gyro bandwidth", Values: "Depends on DR"},
				{Bits: "3", Name: "PD", Description: "Power mode", Values: "0=PowerDown, 1=Normal"},
				{Bits: "2", Name: "ZEN", Description: "Gyro Z enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "YEN", Description: "Gyro Y enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "XEN", Description: "Gyro X enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: regCtrlReg4G, Name: "CTRL_REG4_G", Description: "Gyroscope Control 4", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=On read"},
				{Bits: "5:4", Name: "FS", Description: "Gyro full scale", Values: "0=±245°/s, 1=±500°/s, 3=±2000°/s"},
			}},

		{Address: regOutXLG, Name: "OUT_X_L_G", Description: "Gyroscope X-Axis Low Byte", Access: "R"},
		{Address: regOutXHG, Name: "OUT_X_H_G", Description: "Gyroscope X-Axis High Byte", Access: "R"},
		{Address: regOutYLG, Name: "OUT_Y_L_G", Description: "Gyroscope Y-Axis Low Byte", Access: "R"},
		{Address: regOutYHG, Name: "OUT_Y_H_G", Description: "Gyroscope Y-Axis High Byte", Access: "R"},
		{Address: regOutZLG, Name: "OUT_Z_L_G", Description: "Gyroscope Z-Axis Low Byte", Access: "R"},
		{Address: regOutZHG, Name: "OUT_Z_H_G", Description: "Gyroscope Z-Axis High Byte", Access: "R"},
	}
}

// RegisterDump is one live register value paired with its metadata.
type RegisterDump struct {
	Info  RegisterInfo
	Value byte
	Err   error
}

// DumpRegisters reads every register of both dies over the bus and returns
// the values alongside their metadata. Read errors are captured per register
// so a single flaky read does not abort the dump.
func (d *Dev) DumpRegisters() []RegisterDump {
	var out []RegisterDump
	for _, info := range XMRegisterMap() {
		v, err := d.bus.ReadReg(d.accAddr, info.Address)
		out = append(out, RegisterDump{Info: info, Value: v, Err: err})
	}
	for _, info := range GRegisterMap() {
		v, err := d.bus.ReadReg(d.gyrAddr, info.Address)
		out = append(out, RegisterDump{Info: info, Value: v, Err: err})
	}
	return out
}

// Describe formats one dump entry the way the register debug tooling prints it.
func (r RegisterDump) Describe() string {
	if r.Err != nil {
		return fmt.Sprintf("0x%02X %-14s <read error: %v>", r.Info.Address, r.Info.Name, r.Err)
	}
	return fmt.Sprintf("0x%02X %-14s = 0x%02X  (%s, %s)", r.Info.Address, r.Info.Name, r.Value, r.Info.Access, r.Info.Description)
}
