// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// Line is inactive.
	LevelInactive int = iota

	// Line is active.
	LevelActive
)

// Pins provides access to the digital pins wired to the registers.
//
// Pins are identified by number, with the mapping to hardware being the
// concern of the implementation.
type Pins interface {
	// SetLevel drives the pin to the given level, configuring it as an
	// output if necessary.
	SetLevel(pin int, level int) error

	// Level returns the level of the pin, configuring it as an input if
	// necessary.
	Level(pin int) (int, error)
}

// BitOrder determines the order bits are shifted within a byte.
type BitOrder int

const (
	// LSBFirst shifts the least significant bit first.
	LSBFirst BitOrder = iota

	// MSBFirst shifts the most significant bit first.
	MSBFirst
)

// bit returns the mask for the nth bit shifted in the given order.
func (o BitOrder) bit(n int) byte {
	if o == MSBFirst {
		return 0x80 >> n
	}
	return 1 << n
}

// ShiftOut shifts v out on dataPin, pulsing clockPin high then low for
// each bit.
func ShiftOut(p Pins, dataPin, clockPin int, order BitOrder, v byte) error {
	return shiftOut(p, dataPin, clockPin, order, v, 0)
}

// ShiftIn shifts a byte in from dataPin, sampling after driving clockPin
// high for each bit.
func ShiftIn(p Pins, dataPin, clockPin int, order BitOrder) (byte, error) {
	return shiftIn(p, dataPin, clockPin, order, 0)
}

func shiftOut(p Pins, dataPin, clockPin int, order BitOrder, v byte, delay time.Duration) error {
	for i := 0; i < 8; i++ {
		level := LevelInactive
		if v&order.bit(i) != 0 {
			level = LevelActive
		}
		if err := p.SetLevel(dataPin, level); err != nil {
			return errors.Wrapf(err, "data pin %d", dataPin)
		}
		if err := pulse(p, clockPin, delay); err != nil {
			return err
		}
	}
	return nil
}

func shiftIn(p Pins, dataPin, clockPin int, order BitOrder, delay time.Duration) (byte, error) {
	var v byte
	for i := 0; i < 8; i++ {
		if err := p.SetLevel(clockPin, LevelActive); err != nil {
			return 0, errors.Wrapf(err, "clock pin %d", clockPin)
		}
		pause(delay)
		level, err := p.Level(dataPin)
		if err != nil {
			return 0, errors.Wrapf(err, "data pin %d", dataPin)
		}
		if level != LevelInactive {
			v |= order.bit(i)
		}
		if err := p.SetLevel(clockPin, LevelInactive); err != nil {
			return 0, errors.Wrapf(err, "clock pin %d", clockPin)
		}
		pause(delay)
	}
	return v, nil
}

// pulse drives the clock high then low.
func pulse(p Pins, clockPin int, delay time.Duration) error {
	if err := p.SetLevel(clockPin, LevelActive); err != nil {
		return errors.Wrapf(err, "clock pin %d", clockPin)
	}
	pause(delay)
	if err := p.SetLevel(clockPin, LevelInactive); err != nil {
		return errors.Wrapf(err, "clock pin %d", clockPin)
	}
	pause(delay)
	return nil
}

func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
