// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package sampler

import (
	"math"
	"time"
)

type mockDevice struct {
	start time.Time
}

// NewMockDevice creates a synthetic device that generates smooth changing
// values, for running the logger without hardware attached.
func NewMockDevice() Device {
	return &mockDevice{start: time.Now()}
}

func (m *mockDevice) waves(scale float64, phase float64) (int16, int16, int16) {
	elapsed := time.Since(m.start).Seconds()
	x := scale * math.Sin(elapsed+phase)
	y := scale * math.Cos(elapsed*0.7+phase)
	z := scale * math.Sin(elapsed*0.3+phase)
	return int16(x), int16(y), int16(z)
}

func (m *mockDevice) ReadAcc() (int16, int16, int16, error) {
	x, y, z := m.waves(16000, 0)
	return x, y, z, nil
}

func (m *mockDevice) ReadGyr() (int16, int16, int16, error) {
	x, y, z := m.waves(8000, 1.5)
	return x, y, z, nil
}

func (m *mockDevice) ReadMag() (int16, int16, int16, error) {
	x, y, z := m.waves(400, 3.0)
	return x, y, z, nil
}
