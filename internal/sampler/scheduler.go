// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sampler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/berryimu_logger/internal/logfile"
	"github.com/relabs-tech/berryimu_logger/internal/sample"
)

// Config holds the scheduler's immutable run parameters.
type Config struct {
	// FrequencyHz is the target sampling rate. Must be positive.
	FrequencyHz float64
	// Assembler produces one sample per tick.
	Assembler *Assembler
	// Rotator owns the output file and the rotation policy.
	Rotator *logfile.Rotator
	// Publish, if set, receives every sample after it has been written.
	// It runs on the sampling goroutine and should return quickly.
	Publish func(*sample.Sample)
}

// Scheduler drives the sampling loop: one goroutine reads the device on a
// drift-corrected 1/frequency grid, writes each sample through the rotator,
// and checks the rotation policy between records. The loop goroutine is the
// sole toucher of the rotator and device; the caller interacts only through
// Start and Stop.
type Scheduler struct {
	cfg Config

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	runErr error
}

// New validates the configuration and prepares a scheduler. An invalid
// frequency or missing collaborator is rejected here, before the run begins.
func New(cfg Config) (*Scheduler, error) {
	if cfg.FrequencyHz <= 0 {
		return nil, fmt.Errorf("sampler: frequency must be positive, got %g", cfg.FrequencyHz)
	}
	if cfg.Assembler == nil {
		return nil, fmt.Errorf("sampler: assembler is required")
	}
	if !cfg.Assembler.groups.Any() {
		return nil, fmt.Errorf("sampler: at least one axis group must be enabled")
	}
	if cfg.Rotator == nil {
		return nil, fmt.Errorf("sampler: rotator is required")
	}
	return &Scheduler{
		cfg:  cfg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

// Start opens the first output file and launches the sampling goroutine.
// An open failure is returned synchronously; the loop never starts.
func (s *Scheduler) Start() error {
	if err := s.cfg.Rotator.EnsureOpen(); err != nil {
		return err
	}
	go s.run()
	return nil
}

// Done is closed when the sampling loop has exited, whether from Stop or
// from a fatal storage error.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Stop requests graceful termination and waits for the loop to finish the
// in-flight tick. It returns the run's fatal error, if any.
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	return s.Err()
}

// Err returns the fatal error that ended the run, or nil.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

func (s *Scheduler) setErr(err error) {
	s.mu.Lock()
	s.runErr = err
	s.mu.Unlock()
}

// tickOffset returns the offset of tick i from the run start. Targets are
// computed from the start instant and the tick index, never from the
// previous tick, so I/O jitter cannot accumulate into drift.
func (s *Scheduler) tickOffset(i int64) time.Duration {
	return time.Duration(float64(i) / s.cfg.FrequencyHz * float64(time.Second))
}

func (s *Scheduler) run() {
	defer close(s.done)

	start := time.Now()
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	for i := int64(0); ; i++ {
		select {
		case <-s.stop:
			return
		default:
		}

		// The sample carries the tick's intended instant, not the
		// post-I/O clock.
		target := start.Add(s.tickOffset(i))
		smp := s.cfg.Assembler.Assemble(target)

		if err := s.cfg.Rotator.Write(smp); err != nil {
			s.setErr(err)
			log.Printf("sampler: fatal storage error, stopping run: %v", err)
			return
		}
		if s.cfg.Publish != nil {
			s.cfg.Publish(smp)
		}

		// Rotation runs strictly between records.
		if rotated, err := s.cfg.Rotator.MaybeRotate(time.Now()); err != nil {
			s.setErr(err)
			log.Printf("sampler: fatal rotation error, stopping run: %v", err)
			return
		} else if rotated {
			log.Printf("sampler: rotated output to file %d", s.cfg.Rotator.Sequence())
		}

		next := start.Add(s.tickOffset(i + 1))
		now := time.Now()
		if !now.Before(next) {
			// Overran the interval: fire the next tick immediately.
			// No catch-up bursts; the grid index advances by one.
			log.Printf("WARNING: sampler: tick %d overran its interval by %v", i, now.Sub(next))
			continue
		}

		timer.Reset(next.Sub(now))
		select {
		case <-s.stop:
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}
