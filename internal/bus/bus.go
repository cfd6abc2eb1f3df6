// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Bus is the register transaction primitive shared by every device on the
// wire. All reads and writes are synchronous; a failed transaction returns
// the wrapped bus error.
type Bus interface {
	// ReadReg reads one byte from a register of the device at addr.
	ReadReg(addr uint16, reg byte) (byte, error)
	// ReadRegBlock reads len(buf) consecutive bytes starting at reg.
	ReadRegBlock(addr uint16, reg byte, buf []byte) error
	// WriteReg writes one byte to a register of the device at addr.
	WriteReg(addr uint16, reg byte, value byte) error
}

// I2C implements Bus on top of a periph I2C bus.
type I2C struct {
	bus i2c.BusCloser
}

// Open initializes the periph host and opens the named I2C bus
// (e.g. "1" for /dev/i2c-1 on a Pi).
func Open(name string) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i2c open %q: %w", name, err)
	}
	return &I2C{bus: b}, nil
}

func (b *I2C) ReadReg(addr uint16, reg byte) (byte, error) {
	var buf [1]byte
	d := i2c.Dev{Addr: addr, Bus: b.bus}
	if err := d.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, fmt.Errorf("i2c read 0x%02X@0x%02X: %w", reg, addr, err)
	}
	return buf[0], nil
}

func (b *I2C) ReadRegBlock(addr uint16, reg byte, buf []byte) error {
	d := i2c.Dev{Addr: addr, Bus: b.bus}
	if err := d.Tx([]byte{reg}, buf); err != nil {
		return fmt.Errorf("i2c read block 0x%02X@0x%02X: %w", reg, addr, err)
	}
	return nil
}

func (b *I2C) WriteReg(addr uint16, reg byte, value byte) error {
	d := i2c.Dev{Addr: addr, Bus: b.bus}
	if err := d.Tx([]byte{reg, value}, nil); err != nil {
		return fmt.Errorf("i2c write 0x%02X@0x%02X: %w", reg, addr, err)
	}
	return nil
}

// Close releases the underlying bus handle.
func (b *I2C) Close() error {
	return b.bus.Close()
}
