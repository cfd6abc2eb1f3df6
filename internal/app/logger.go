// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/berryimu_logger/internal/bus"
	"github.com/relabs-tech/berryimu_logger/internal/config"
	"github.com/relabs-tech/berryimu_logger/internal/logfile"
	"github.com/relabs-tech/berryimu_logger/internal/lsm9ds0"
	"github.com/relabs-tech/berryimu_logger/internal/sample"
	"github.com/relabs-tech/berryimu_logger/internal/sampler"
)

// RunLogger wires the full pipeline: I2C bus, LSM9DS0 setup, file rotator,
// optional MQTT streaming, and the sampling scheduler. It blocks until
// SIGINT/SIGTERM or a fatal storage error, then shuts down gracefully: the
// in-flight tick's record is completed, files are closed, and the sensor
// registers are reset.
func RunLogger() error {
	log.Println("starting BerryIMU logger")

	cfg := config.Get()

	// --- bus + device setup ---
	var dev sampler.Device
	if cfg.MockDevice {
		log.Println("using mock device (no bus traffic)")
		dev = sampler.NewMockDevice()
	} else {
		b, err := bus.Open(cfg.I2CBus)
		if err != nil {
			return fmt.Errorf("bus open: %w", err)
		}
		defer b.Close()

		hw := lsm9ds0.New(b, lsm9ds0.Opts{
			AccAddr: cfg.AccAddress,
			GyrAddr: cfg.GyrAddress,
			MagAddr: cfg.MagAddress,
		})
		if err := hw.CheckID(); err != nil {
			log.Printf("WARNING: device ID check failed: %v", err)
		}
		if err := hw.SetupDefault(); err != nil {
			return fmt.Errorf("sensor setup: %w", err)
		}
		defer func() {
			if err := hw.ResetRegisters(); err != nil {
				log.Printf("register reset on shutdown failed: %v", err)
			}
		}()
		log.Println("LSM9DS0 configured with default operating mode")
		dev = hw
	}

	// --- output rotator ---
	rot, err := logfile.NewRotator(logfile.Config{
		Dir:      cfg.OutputDir,
		BaseName: cfg.OutputBaseName,
		Period:   cfg.RotationPeriod,
	})
	if err != nil {
		return err
	}
	defer rot.Close()
	log.Printf("writing samples to %s (rotation: %s)", rot.SessionDir(), rotationLabel(cfg))

	// --- optional MQTT live stream ---
	var publish func(*sample.Sample)
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().
			AddBroker(cfg.MQTTBroker).
			SetClientID(cfg.MQTTClientIDLogger)

		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return fmt.Errorf("MQTT connect: %w", token.Error())
		}
		defer client.Disconnect(250)
		log.Printf("connected to MQTT broker %s, streaming to %s", cfg.MQTTBroker, cfg.TopicSamples)

		topic := cfg.TopicSamples
		publish = func(s *sample.Sample) {
			payload, err := json.Marshal(s)
			if err != nil {
				log.Printf("sample marshal error: %v", err)
				return
			}
			client.Publish(topic, 0, false, payload)
		}
	}

	// --- scheduler ---
	asm := sampler.NewAssembler(dev, sampler.Groups{
		Acc: cfg.EnableAcc,
		Gyr: cfg.EnableGyr,
		Mag: cfg.EnableMag,
	})
	sched, err := sampler.New(sampler.Config{
		FrequencyHz: cfg.SampleFrequencyHz,
		Assembler:   asm,
		Rotator:     rot,
		Publish:     publish,
	})
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	log.Printf("sampling at %g Hz", cfg.SampleFrequencyHz)

	// Wait for Ctrl+C or a fatal error from the loop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received %s, stopping sampler", sig)
	case <-sched.Done():
	}

	if err := sched.Stop(); err != nil {
		return fmt.Errorf("sampling run failed: %w", err)
	}
	log.Println("sampler stopped cleanly")
	return nil
}

func rotationLabel(cfg *config.Config) string {
	if cfg.RotationPeriod == 0 {
		return "never"
	}
	return cfg.RotationPeriod.String()
}
