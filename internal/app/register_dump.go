// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/relabs-tech/berryimu_logger/internal/bus"
	"github.com/relabs-tech/berryimu_logger/internal/config"
	"github.com/relabs-tech/berryimu_logger/internal/lsm9ds0"
)

// RunRegisterDump reads every known register of both LSM9DS0 dies and
// prints the live values against the register map. Useful for checking
// what mode a previous run (or another tool) left the sensor in.
func RunRegisterDump() error {
	cfg := config.Get()

	b, err := bus.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("bus open: %w", err)
	}
	defer b.Close()

	dev := lsm9ds0.New(b, lsm9ds0.Opts{
		AccAddr: cfg.AccAddress,
		GyrAddr: cfg.GyrAddress,
		MagAddr: cfg.MagAddress,
	})

	if err := dev.CheckID(); err != nil {
		fmt.Printf("WHO_AM_I check: %v\n", err)
	} else {
		fmt.Println("WHO_AM_I check: ok")
	}

	fmt.Println("LSM9DS0 register dump (XM die, then G die):")
	for _, r := range dev.DumpRegisters() {
		fmt.Println("  " + r.Describe())
	}
	return nil
}
