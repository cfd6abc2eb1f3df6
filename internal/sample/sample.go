// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sample

import "time"

// Axes holds one group's three raw readings.
type Axes struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
	Z int16 `json:"z"`
}

// Sample is one timestamped multi-axis reading. A nil group was not read
// this tick (disabled or failed) and is omitted from the serialized record;
// its key is simply absent, never zero-filled. Samples are created once per
// tick and never mutated.
type Sample struct {
	Time time.Time `json:"time"`
	Acc  *Axes     `json:"acc,omitempty"`
	Gyr  *Axes     `json:"gyr,omitempty"`
	Mag  *Axes     `json:"mag,omitempty"`
}

// Partial reports whether any axis group is absent.
func (s *Sample) Partial() bool {
	return s.Acc == nil || s.Gyr == nil || s.Mag == nil
}

// Empty reports whether every axis group is absent (all reads failed).
func (s *Sample) Empty() bool {
	return s.Acc == nil && s.Gyr == nil && s.Mag == nil
}
