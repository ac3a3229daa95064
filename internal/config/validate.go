// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package config

import (
	"github.com/pkg/errors"
)

// Validate checks the config is usable.
// It does not mutate the config.
func Validate(cfg *Config) error {
	switch cfg.Device.Backend {
	case BackendCdev:
		if cfg.Device.Chip == "" {
			return errors.New("device: chip required for cdev backend")
		}
	case BackendPeriph:
		if len(cfg.Device.Pins) == 0 {
			return errors.New("device: pins required for periph backend")
		}
		for n, name := range cfg.Device.Pins {
			if n < 0 {
				return errors.Errorf("device: pin %d (%s): pin number must be >= 0", n, name)
			}
			if name == "" {
				return errors.Errorf("device: pin %d: name required", n)
			}
		}
	default:
		return errors.Errorf("device: unknown backend %q", cfg.Device.Backend)
	}

	if cfg.Serial.Port == "" {
		return errors.New("serial: port required")
	}
	if cfg.Serial.BaudRate <= 0 {
		return errors.Errorf("serial: baud_rate must be > 0, got %d", cfg.Serial.BaudRate)
	}
	if cfg.Serial.TimeoutMs <= 0 {
		return errors.Errorf("serial: timeout_ms must be > 0, got %d", cfg.Serial.TimeoutMs)
	}

	if cfg.Loop.PollIntervalMs <= 0 {
		return errors.Errorf("loop: poll_interval_ms must be > 0, got %d", cfg.Loop.PollIntervalMs)
	}
	if cfg.Loop.BitDelayUs < 0 {
		return errors.Errorf("loop: bit_delay_us must be >= 0, got %d", cfg.Loop.BitDelayUs)
	}
	return nil
}
