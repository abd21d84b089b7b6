// Package config loads the node configuration from a YAML file with
// defaults and validation.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/qut-iot/tripwire-node/internal/actuator"
	"github.com/qut-iot/tripwire-node/internal/adc"
)

// Config represents the complete node configuration.
type Config struct {
	DeviceID string
	Broker   string
	// HTTPAddr serves the status page; empty disables it.
	HTTPAddr string

	ADCPath   string
	PinLED    int
	PinBuzzer int

	TickInterval   time.Duration
	StatusInterval time.Duration

	LogLevel string
}

// rawConfig is the YAML shape. Durations are strings ("50ms", "2s") parsed
// with time.ParseDuration, which yaml.v3 does not do on its own.
type rawConfig struct {
	DeviceID string `yaml:"device_id"`
	Broker   string `yaml:"broker"`
	HTTPAddr string `yaml:"http_addr"`

	ADCPath   string `yaml:"adc_path"`
	PinLED    int    `yaml:"pin_led"`
	PinBuzzer int    `yaml:"pin_buzzer"`

	TickInterval   string `yaml:"tick_interval"`
	StatusInterval string `yaml:"status_interval"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	setDefaults(&cfg)
	return cfg
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config file %s", path)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Wrap(err, "parse config file")
	}

	cfg := Config{
		DeviceID:  raw.DeviceID,
		Broker:    raw.Broker,
		HTTPAddr:  raw.HTTPAddr,
		ADCPath:   raw.ADCPath,
		PinLED:    raw.PinLED,
		PinBuzzer: raw.PinBuzzer,
		LogLevel:  raw.LogLevel,
	}
	if raw.TickInterval != "" {
		d, err := time.ParseDuration(raw.TickInterval)
		if err != nil {
			return Config{}, errors.Wrap(err, "parse tick_interval")
		}
		cfg.TickInterval = d
	}
	if raw.StatusInterval != "" {
		d, err := time.ParseDuration(raw.StatusInterval)
		if err != nil {
			return Config{}, errors.Wrap(err, "parse status_interval")
		}
		cfg.StatusInterval = d
	}

	setDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "validate config")
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.DeviceID == "" {
		cfg.DeviceID = "laser-node-01"
	}
	if cfg.Broker == "" {
		cfg.Broker = "tcp://localhost:1883"
	}
	if cfg.ADCPath == "" {
		cfg.ADCPath = adc.DefaultDevicePath
	}
	if cfg.PinLED == 0 {
		cfg.PinLED = actuator.DefaultPinLED
	}
	if cfg.PinBuzzer == 0 {
		cfg.PinBuzzer = actuator.DefaultPinBuzzer
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 50 * time.Millisecond
	}
	if cfg.StatusInterval == 0 {
		cfg.StatusInterval = 2000 * time.Millisecond
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the configuration for values the node cannot run with.
func (c Config) Validate() error {
	if c.DeviceID == "" {
		return errors.New("device_id must not be empty")
	}
	if c.Broker == "" {
		return errors.New("broker must not be empty")
	}
	if c.TickInterval < 10*time.Millisecond {
		return errors.New("tick_interval must be at least 10ms")
	}
	if c.StatusInterval < c.TickInterval {
		return errors.New("status_interval must not be shorter than tick_interval")
	}
	if c.PinLED == c.PinBuzzer {
		return errors.New("pin_led and pin_buzzer must differ")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	return nil
}
