// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm9ds0

import (
	"fmt"

	"github.com/relabs-tech/berryimu_logger/internal/bus"
)

// Group identifies one axis group of the IMU.
type Group string

const (
	GroupAcc Group = "accelerometer"
	GroupGyr Group = "gyroscope"
	GroupMag Group = "magnetometer"
)

// InactiveError is returned when a read is attempted against a group whose
// control registers have not been set up.
type InactiveError struct {
	Group Group
}

func (e *InactiveError) Error() string {
	return fmt.Sprintf("read from %s failed: sensor not set up", e.Group)
}

// Opts holds device creation options. Zero values select the BerryIMU
// default addresses.
type Opts struct {
	AccAddr uint16
	GyrAddr uint16
	MagAddr uint16
}

// Dev represents an LSM9DS0 behind a shared register bus. It holds no read
// state; each Read* call is an independent set of bus transactions.
type Dev struct {
	bus bus.Bus

	accAddr uint16
	gyrAddr uint16
	magAddr uint16

	accActive bool
	gyrActive bool
	magActive bool
}

// New creates a device handle. It performs no bus traffic; call
// SetupDefault (or write the control registers yourself) before reading.
func New(b bus.Bus, opts Opts) *Dev {
	d := &Dev{
		bus:     b,
		accAddr: opts.AccAddr,
		gyrAddr: opts.GyrAddr,
		magAddr: opts.MagAddr,
	}
	if d.accAddr == 0 {
		d.accAddr = AccAddress
	}
	if d.gyrAddr == 0 {
		d.gyrAddr = GyrAddress
	}
	if d.magAddr == 0 {
		d.magAddr = MagAddress
	}
	return d
}

// CheckID reads both dies' WHO_AM_I registers and verifies the part.
func (d *Dev) CheckID() error {
	xm, err := d.bus.ReadReg(d.accAddr, regWhoAmIXM)
	if err != nil {
		return fmt.Errorf("XM WHO_AM_I: %w", err)
	}
	if xm != whoAmIXM {
		return fmt.Errorf("XM WHO_AM_I = 0x%02X, want 0x%02X", xm, whoAmIXM)
	}
	g, err := d.bus.ReadReg(d.gyrAddr, regWhoAmIG)
	if err != nil {
		return fmt.Errorf("G WHO_AM_I: %w", err)
	}
	if g != whoAmIG {
		return fmt.Errorf("G WHO_AM_I = 0x%02X, want 0x%02X", g, whoAmIG)
	}
	return nil
}

// SetupDefault writes the default operating mode to all three groups and
// marks them active. One-shot; the sampling loop never revisits these
// registers.
func (d *Dev) SetupDefault() error {
	accRegs := []struct{ reg, val byte }{
		{regCtrlReg1XM, defCtrlReg1XM},
		{regCtrlReg2XM, defCtrlReg2XM},
	}
	for _, w := range accRegs {
		if err := d.bus.WriteReg(d.accAddr, w.reg, w.val); err != nil {
			return fmt.Errorf("accel setup: %w", err)
		}
	}

	magRegs := []struct{ reg, val byte }{
		{regCtrlReg5XM, defCtrlReg5XM},
		{regCtrlReg6XM, defCtrlReg6XM},
		{regCtrlReg7XM, defCtrlReg7XM},
	}
	for _, w := range magRegs {
		if err := d.bus.WriteReg(d.magAddr, w.reg, w.val); err != nil {
			return fmt.Errorf("mag setup: %w", err)
		}
	}

	gyrRegs := []struct{ reg, val byte }{
		{regCtrlReg1G, defCtrlReg1G},
		{regCtrlReg4G, defCtrlReg4G},
	}
	for _, w := range gyrRegs {
		if err := d.bus.WriteReg(d.gyrAddr, w.reg, w.val); err != nil {
			return fmt.Errorf("gyro setup: %w", err)
		}
	}

	d.accActive = true
	d.magActive = true
	d.gyrActive = true
	return nil
}

// ResetRegisters zeroes all control registers, powering the sensors down,
// and marks every group inactive.
func (d *Dev) ResetRegisters() error {
	writes := []struct {
		addr uint16
		reg  byte
	}{
		{d.accAddr, regCtrlReg1XM},
		{d.accAddr, regCtrlReg2XM},
		{d.magAddr, regCtrlReg5XM},
		{d.magAddr, regCtrlReg6XM},
		{d.magAddr, regCtrlReg7XM},
		{d.gyrAddr, regCtrlReg1G},
		{d.gyrAddr, regCtrlReg4G},
	}
	for _, w := range writes {
		if err := d.bus.WriteReg(w.addr, w.reg, 0); err != nil {
			return fmt.Errorf("register reset: %w", err)
		}
	}
	d.accActive = false
	d.magActive = false
	d.gyrActive = false
	return nil
}

// readAxis reads the low and high bytes of one axis and folds them into a
// signed 16-bit value.
func (d *Dev) readAxis(addr uint16, regL, regH byte) (int16, error) {
	lo, err := d.bus.ReadReg(addr, regL)
	if err != nil {
		return 0, err
	}
	hi, err := d.bus.ReadReg(addr, regH)
	if err != nil {
		return 0, err
	}
	return int16(uint16(lo) | uint16(hi)<<8), nil
}

// accAxisRegs maps axis index 0,1,2 (x,y,z) to low/high register pairs.
var accAxisRegs = [3][2]byte{
	{regOutXLA, regOutXHA},
	{regOutYLA, regOutYHA},
	{regOutZLA, regOutZHA},
}

var gyrAxisRegs = [3][2]byte{
	{regOutXLG, regOutXHG},
	{regOutYLG, regOutYHG},
	{regOutZLG, regOutZHG},
}

var magAxisRegs = [3][2]byte{
	{regOutXLM, regOutXHM},
	{regOutYLM, regOutYHM},
	{regOutZLM, regOutZHM},
}

// ReadAccAxis reads a single accelerometer axis (0=x, 1=y, 2=z).
func (d *Dev) ReadAccAxis(axis int) (int16, error) {
	if !d.accActive {
		return 0, &InactiveError{Group: GroupAcc}
	}
	if axis < 0 || axis > 2 {
		return 0, fmt.Errorf("axis must be 0, 1 or 2, got %d", axis)
	}
	v, err := d.readAxis(d.accAddr, accAxisRegs[axis][0], accAxisRegs[axis][1])
	if err != nil {
		return 0, fmt.Errorf("accel axis %d: %w", axis, err)
	}
	return v, nil
}

// ReadGyrAxis reads a single gyroscope axis (0=x, 1=y, 2=z).
func (d *Dev) ReadGyrAxis(axis int) (int16, error) {
	if !d.gyrActive {
		return 0, &InactiveError{Group: GroupGyr}
	}
	if axis < 0 || axis > 2 {
		return 0, fmt.Errorf("axis must be 0, 1 or 2, got %d", axis)
	}
	v, err := d.readAxis(d.gyrAddr, gyrAxisRegs[axis][0], gyrAxisRegs[axis][1])
	if err != nil {
		return 0, fmt.Errorf("gyro axis %d: %w", axis, err)
	}
	return v, nil
}

// ReadMagAxis reads a single magnetometer axis (0=x, 1=y, 2=z).
func (d *Dev) ReadMagAxis(axis int) (int16, error) {
	if !d.magActive {
		return 0, &InactiveError{Group: GroupMag}
	}
	if axis < 0 || axis > 2 {
		return 0, fmt.Errorf("axis must be 0, 1 or 2, got %d", axis)
	}
	v, err := d.readAxis(d.magAddr, magAxisRegs[axis][0], magAxisRegs[axis][1])
	if err != nil {
		return 0, fmt.Errorf("mag axis %d: %w", axis, err)
	}
	return v, nil
}

// ReadAcc reads all three accelerometer axes as one transaction batch.
func (d *Dev) ReadAcc() (x, y, z int16, err error) {
	for axis := 0; axis < 3; axis++ {
		v, err := d.ReadAccAxis(axis)
		if err != nil {
			return 0, 0, 0, err
		}
		switch axis {
		case 0:
			x = v
		case 1:
			y = v
		case 2:
			z = v
		}
	}
	return x, y, z, nil
}

// ReadGyr reads all three gyroscope axes as one transaction batch.
func (d *Dev) ReadGyr() (x, y, z int16, err error) {
	for axis := 0; axis < 3; axis++ {
		v, err := d.ReadGyrAxis(axis)
		if err != nil {
			return 0, 0, 0, err
		}
		switch axis {
		case 0:
			x = v
		case 1:
			y = v
		case 2:
			z = v
		}
	}
	return x, y, z, nil
}

// ReadMag reads all three magnetometer axes as one transaction batch.
func (d *Dev) ReadMag() (x, y, z int16, err error) {
	for axis := 0; axis < 3; axis++ {
		v, err := d.ReadMagAxis(axis)
		if err != nil {
			return 0, 0, 0, err
		}
		switch axis {
		case 0:
			x = v
		case 1:
			y = v
		case 2:
			z = v
		}
	}
	return x, y, z, nil
}
