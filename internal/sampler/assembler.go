// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sampler

import (
	"log"
	"time"

	"github.com/relabs-tech/berryimu_logger/internal/sample"
)

// Device is the axis-group reader the assembler pulls from. *lsm9ds0.Dev
// satisfies it; tests inject fakes.
type Device interface {
	ReadAcc() (x, y, z int16, err error)
	ReadGyr() (x, y, z int16, err error)
	ReadMag() (x, y, z int16, err error)
}

// Groups selects which axis groups each tick reads.
type Groups struct {
	Acc bool
	Gyr bool
	Mag bool
}

// Any reports whether at least one group is enabled.
func (g Groups) Any() bool {
	return g.Acc || g.Gyr || g.Mag
}

// Assembler combines the enabled groups' reads plus a timestamp into one
// Sample per tick.
type Assembler struct {
	dev    Device
	groups Groups
}

// NewAssembler creates an assembler over dev reading the given groups.
func NewAssembler(dev Device, groups Groups) *Assembler {
	return &Assembler{dev: dev, groups: groups}
}

// Assemble reads each enabled group once and returns the sample stamped
// with now. A failed group read is logged and left absent in the sample;
// one bad read never aborts the tick.
func (a *Assembler) Assemble(now time.Time) *sample.Sample {
	s := &sample.Sample{Time: now}

	if a.groups.Acc {
		if x, y, z, err := a.dev.ReadAcc(); err != nil {
			log.Printf("sampler: accel read failed, group absent this tick: %v", err)
		} else {
			s.Acc = &sample.Axes{X: x, Y: y, Z: z}
		}
	}
	if a.groups.Gyr {
		if x, y, z, err := a.dev.ReadGyr(); err != nil {
			log.Printf("sampler: gyro read failed, group absent this tick: %v", err)
		} else {
			s.Gyr = &sample.Axes{X: x, Y: y, Z: z}
		}
	}
	if a.groups.Mag {
		if x, y, z, err := a.dev.ReadMag(); err != nil {
			log.Printf("sampler: mag read failed, group absent this tick: %v", err)
		} else {
			s.Mag = &sample.Axes{X: x, Y: y, Z: z}
		}
	}
	return s
}
