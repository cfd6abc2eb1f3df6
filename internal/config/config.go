package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration values.
type Config struct {
	// I2C
	I2CBus     string
	AccAddress uint16
	GyrAddress uint16
	MagAddress uint16

	// Sampling
	SampleFrequencyHz float64
	EnableAcc         bool
	EnableGyr         bool
	EnableMag         bool
	// MockDevice replaces the LSM9DS0 with a synthetic source (no bus
	// traffic). For bench runs without hardware attached.
	MockDevice bool

	// Output
	OutputDir      string
	OutputBaseName string
	// RotationPeriod is the elapsed-time file rotation cutoff.
	// Zero ("never" in the config file) disables rotation.
	RotationPeriod time.Duration

	// MQTT (optional; empty broker disables live streaming)
	MQTTBroker          string
	MQTTClientIDLogger  string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string

	// Topics
	TopicSamples string

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaults returns a Config with the BerryIMU defaults filled in.
func defaults() *Config {
	return &Config{
		I2CBus:              "1",
		EnableAcc:           true,
		EnableGyr:           true,
		EnableMag:           true,
		OutputDir:           "IMU_Data",
		MQTTClientIDLogger:  "berryimu-logger",
		MQTTClientIDConsole: "berryimu-console-subscriber",
		MQTTClientIDWeb:     "berryimu-web-subscriber",
		TopicSamples:        "berryimu/samples",
		WebServerPort:       8080,
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// I2C
	case "I2C_BUS":
		c.I2CBus = value
	case "ACC_ADDRESS":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid ACC_ADDRESS %q: %w", value, err)
		}
		c.AccAddress = uint16(addr)
	case "GYR_ADDRESS":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid GYR_ADDRESS %q: %w", value, err)
		}
		c.GyrAddress = uint16(addr)
	case "MAG_ADDRESS":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid MAG_ADDRESS %q: %w", value, err)
		}
		c.MagAddress = uint16(addr)

	// Sampling
	case "SAMPLE_FREQUENCY_HZ":
		freq, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_FREQUENCY_HZ %q: %w", value, err)
		}
		c.SampleFrequencyHz = freq
	case "ENABLE_ACC":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ENABLE_ACC %q: %w", value, err)
		}
		c.EnableAcc = b
	case "ENABLE_GYR":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ENABLE_GYR %q: %w", value, err)
		}
		c.EnableGyr = b
	case "ENABLE_MAG":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ENABLE_MAG %q: %w", value, err)
		}
		c.EnableMag = b
	case "MOCK_DEVICE":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MOCK_DEVICE %q: %w", value, err)
		}
		c.MockDevice = b

	// Output
	case "OUTPUT_DIR":
		c.OutputDir = value
	case "OUTPUT_BASE_NAME":
		c.OutputBaseName = value
	case "ROTATION_PERIOD":
		if value == "never" {
			c.RotationPeriod = 0
			return nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid ROTATION_PERIOD %q (want a duration like 30s or \"never\"): %w", value, err)
		}
		if d <= 0 {
			return fmt.Errorf("ROTATION_PERIOD must be positive or \"never\", got %s", value)
		}
		c.RotationPeriod = d

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_LOGGER":
		c.MQTTClientIDLogger = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_SAMPLES":
		c.TopicSamples = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// Validate checks that all required fields are set and consistent. A
// rejected config means the run never begins.
func (c *Config) Validate() error {
	if c.SampleFrequencyHz <= 0 {
		return fmt.Errorf("SAMPLE_FREQUENCY_HZ must be positive, got %g", c.SampleFrequencyHz)
	}
	if c.OutputBaseName == "" {
		return fmt.Errorf("OUTPUT_BASE_NAME is required")
	}
	if !c.EnableAcc && !c.EnableGyr && !c.EnableMag {
		return fmt.Errorf("at least one of ENABLE_ACC, ENABLE_GYR, ENABLE_MAG must be true")
	}
	if c.RotationPeriod < 0 {
		return fmt.Errorf("ROTATION_PERIOD must not be negative")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
