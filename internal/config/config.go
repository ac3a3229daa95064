// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package config defines the shiftregd configuration file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Pin backends.
const (
	BackendCdev   = "cdev"
	BackendPeriph = "periph"
)

// Config is the shiftregd configuration.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	Serial SerialConfig `yaml:"serial"`
	Loop   LoopConfig   `yaml:"loop"`
}

// ---- DEVICE ----

// DeviceConfig selects the backend driving the register pins.
type DeviceConfig struct {
	// cdev or periph
	Backend string `yaml:"backend"`

	// gpiochip name or path (cdev only)
	Chip     string `yaml:"chip"`
	Consumer string `yaml:"consumer"`

	// pin number => periph pin name (periph only)
	Pins map[int]string `yaml:"pins"`
}

// ---- SERIAL ----

// SerialConfig describes the serial port connecting the host.
type SerialConfig struct {
	Port      string `yaml:"port"`
	BaudRate  int    `yaml:"baud_rate"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- LOOP ----

// LoopConfig tunes the control loop and the Controller it drives.
type LoopConfig struct {
	PollIntervalMs  int  `yaml:"poll_interval_ms"`
	BitDelayUs      int  `yaml:"bit_delay_us"`
	StrictListeners bool `yaml:"strict_listeners"`
}

// PollInterval returns the period between listener polls.
func (l LoopConfig) PollInterval() time.Duration {
	return time.Duration(l.PollIntervalMs) * time.Millisecond
}

// BitDelay returns the pause after each clock edge.
func (l LoopConfig) BitDelay() time.Duration {
	return time.Duration(l.BitDelayUs) * time.Microsecond
}

// Timeout returns the serial read timeout.
func (s SerialConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// Load reads the config from the file at path, applying defaults to
// any fields not set.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return Parse(data)
}

// Parse decodes the config from YAML, applying defaults to any fields not
// set.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return cfg, nil
}

// Default returns the config used for fields not set in the file.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Backend:  BackendCdev,
			Chip:     "gpiochip0",
			Consumer: "shiftregd",
		},
		Serial: SerialConfig{
			Port:      "/dev/ttyACM0",
			BaudRate:  115200,
			TimeoutMs: 100,
		},
		Loop: LoopConfig{
			PollIntervalMs: 1,
		},
	}
}
