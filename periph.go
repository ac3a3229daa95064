// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// ErrUnknownPin indicates a pin number with no corresponding pin.
var ErrUnknownPin = errors.New("unknown pin")

// PeriphPins provides Pins using periph.io GPIO pins.
type PeriphPins struct {
	pins map[int]gpio.PinIO
}

// NewPeriphPins returns Pins mapping each pin number to the given pin.
func NewPeriphPins(pins map[int]gpio.PinIO) *PeriphPins {
	return &PeriphPins{pins: pins}
}

// LookupPeriphPins returns Pins mapping each pin number to the periph.io pin
// registered under the corresponding name, e.g. "GPIO17".
//
// The periph.io host drivers must be initialised before calling.
func LookupPeriphPins(names map[int]string) (*PeriphPins, error) {
	pins := make(map[int]gpio.PinIO, len(names))
	for n, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, errors.Wrapf(ErrUnknownPin, "pin %d (%s)", n, name)
		}
		pins[n] = p
	}
	return &PeriphPins{pins: pins}, nil
}

// SetLevel drives the pin to the given level.
func (p *PeriphPins) SetLevel(pin int, level int) error {
	gp, ok := p.pins[pin]
	if !ok {
		return errors.Wrapf(ErrUnknownPin, "pin %d", pin)
	}
	return gp.Out(gpio.Level(level != LevelInactive))
}

// Level returns the level of the pin.
func (p *PeriphPins) Level(pin int) (int, error) {
	gp, ok := p.pins[pin]
	if !ok {
		return LevelInactive, errors.Wrapf(ErrUnknownPin, "pin %d", pin)
	}
	if err := gp.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return LevelInactive, errors.Wrapf(err, "pin %d", pin)
	}
	if gp.Read() == gpio.High {
		return LevelActive, nil
	}
	return LevelInactive, nil
}

// Halt halts all the pins.
func (p *PeriphPins) Halt() error {
	for _, gp := range p.pins {
		if err := gp.Halt(); err != nil {
			return err
		}
	}
	return nil
}
