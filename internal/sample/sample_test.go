package sample

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSerializationOmitsAbsentGroups(t *testing.T) {
	s := &Sample{
		Time: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		Acc:  &Axes{X: 1, Y: -2, Z: 3},
		Mag:  &Axes{X: 0, Y: 0, Z: 0},
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	line := string(b)

	if !strings.Contains(line, `"acc"`) {
		t.Errorf("record missing acc group: %s", line)
	}
	if !strings.Contains(line, `"mag"`) {
		t.Errorf("record missing mag group (zero values must still serialize): %s", line)
	}
	if strings.Contains(line, `"gyr"`) {
		t.Errorf("absent gyro group must be omitted, not zero-filled: %s", line)
	}

	// Round-trip keeps absence distinguishable.
	var back Sample
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Gyr != nil {
		t.Error("gyro group reappeared after round-trip")
	}
	if back.Acc == nil || back.Acc.Y != -2 {
		t.Errorf("acc group lost in round-trip: %+v", back.Acc)
	}
	if !back.Time.Equal(s.Time) {
		t.Errorf("timestamp changed in round-trip: %v != %v", back.Time, s.Time)
	}
}

func TestPartial(t *testing.T) {
	full := &Sample{Acc: &Axes{}, Gyr: &Axes{}, Mag: &Axes{}}
	if full.Partial() {
		t.Error("sample with all groups must not be partial")
	}
	missing := &Sample{Acc: &Axes{}, Mag: &Axes{}}
	if !missing.Partial() {
		t.Error("sample with an absent group must be partial")
	}
	empty := &Sample{}
	if !empty.Empty() {
		t.Error("sample with no groups must be empty")
	}
	if full.Empty() {
		t.Error("full sample must not be empty")
	}
}
