// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package logfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/relabs-tech/berryimu_logger/internal/sample"
)

// Config describes where samples are written and when files are rotated.
type Config struct {
	// Dir is the base output directory; a per-run session directory is
	// created beneath it.
	Dir string
	// BaseName names the session directory and each file within it.
	BaseName string
	// Period is the elapsed-time rotation cutoff. Zero means never rotate:
	// the run writes exactly one file.
	Period time.Duration
}

// Rotator owns the currently open output file for one logging run. It is
// not safe for concurrent use; the sampling loop is its only caller.
type Rotator struct {
	cfg        Config
	sessionDir string

	f        *os.File
	openedAt time.Time
	seq      int
}

// NewRotator creates the per-run session directory. Files within one run
// are numbered; the session directory carries the run's start time, so
// repeated runs never collide.
func NewRotator(cfg Config) (*Rotator, error) {
	if cfg.BaseName == "" {
		return nil, fmt.Errorf("logfile: base name must not be empty")
	}
	if cfg.Period < 0 {
		return nil, fmt.Errorf("logfile: rotation period must not be negative")
	}
	sess := fmt.Sprintf("%s_%s", cfg.BaseName, time.Now().UTC().Format("20060102_150405"))
	dir := filepath.Join(cfg.Dir, sess)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir %s: %w", dir, err)
	}
	return &Rotator{cfg: cfg, sessionDir: dir}, nil
}

// SessionDir returns the directory this run writes into.
func (r *Rotator) SessionDir() string {
	return r.sessionDir
}

// Sequence returns the index of the currently open file.
func (r *Rotator) Sequence() int {
	return r.seq
}

// EnsureOpen opens the current output file if none is open. The open
// instant is recorded exactly when a new file is opened.
func (r *Rotator) EnsureOpen() error {
	if r.f != nil {
		return nil
	}
	name := fmt.Sprintf("%s_%d.txt", r.cfg.BaseName, r.seq)
	path := filepath.Join(r.sessionDir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("open output file %s: %w", path, err)
	}
	r.f = f
	r.openedAt = time.Now()
	return nil
}

// MaybeRotate closes the current file and opens the next one when the
// elapsed time since open has reached the configured period. It is called
// strictly between records, so rotation only affects where the next sample
// lands; the sample written before the decision is already in the old file.
func (r *Rotator) MaybeRotate(now time.Time) (bool, error) {
	if r.cfg.Period == 0 || r.f == nil {
		return false, nil
	}
	if now.Sub(r.openedAt) < r.cfg.Period {
		return false, nil
	}
	if err := r.f.Close(); err != nil {
		return false, fmt.Errorf("close %s: %w", r.f.Name(), err)
	}
	r.f = nil
	r.seq++
	if err := r.EnsureOpen(); err != nil {
		return false, err
	}
	return true, nil
}

// Write serializes one sample as a JSON line and appends it to the current
// file. Writes go straight to the file descriptor, so an interrupted
// process loses at most the record in flight.
func (r *Rotator) Write(s *sample.Sample) error {
	if err := r.EnsureOpen(); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}
	b = append(b, '\n')
	if _, err := r.f.Write(b); err != nil {
		return fmt.Errorf("write %s: %w", r.f.Name(), err)
	}
	return nil
}

// Close closes the currently open file, if any.
func (r *Rotator) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	if err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
