// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// MaxLength is the largest number of bytes that may be read or written in a
// single operation.
const MaxLength = 255

var (
	// ErrInvalidLength indicates a length outside the range permitted for the
	// operation.  Writes may be from 0 to MaxLength bytes, and reads from 1 to
	// MaxLength bytes.
	ErrInvalidLength = errors.New("invalid length")

	// ErrShortData indicates fewer data bytes were provided than the length
	// to be written.
	ErrShortData = errors.New("data shorter than length")

	// ErrListenersFull indicates every listener slot is in use.
	ErrListenersFull = errors.New("listener table full")
)

// Controller drives shift registers attached to a set of pins, and holds the
// listeners that stream register inputs on each poll.
//
// Readings are written to the output provided to NewController.
//
// A Controller is not safe for concurrent use.  All calls, including
// PollListeners, must be serialised by the caller, typically by confining
// the Controller to the control loop.
type Controller struct {
	pins Pins
	out  io.Writer

	log    logr.Logger
	delay  time.Duration
	strict bool

	listeners listenerTable
}

// NewController constructs a Controller driving the provided pins and
// writing readings to out.
//
// The available options are [WithLogger], [WithBitDelay] and
// [WithStrictListeners].
//
// All listener slots start disabled.
func NewController(pins Pins, out io.Writer, options ...NewControllerOption) *Controller {
	c := &Controller{pins: pins, out: out, log: logr.Discard()}
	for _, o := range options {
		o.applyControllerOption(c)
	}
	return c
}

// WriteOut writes the first length bytes of data to a serial-to-parallel
// register.
//
// The latch is driven low, each byte is shifted out LSB first, and the latch
// is driven high, at which point the register updates its outputs.
func (c *Controller) WriteOut(latchPin, length, dataPin, clockPin int, data []byte) error {
	if length < 0 || length > MaxLength {
		return errors.Wrapf(ErrInvalidLength, "write length %d", length)
	}
	if len(data) < length {
		return errors.Wrapf(ErrShortData, "have %d, want %d", len(data), length)
	}
	if err := c.pins.SetLevel(latchPin, LevelInactive); err != nil {
		return errors.Wrapf(err, "latch pin %d", latchPin)
	}
	for _, v := range data[:length] {
		if err := shiftOut(c.pins, dataPin, clockPin, LSBFirst, v, c.delay); err != nil {
			return err
		}
	}
	if err := c.pins.SetLevel(latchPin, LevelActive); err != nil {
		return errors.Wrapf(err, "latch pin %d", latchPin)
	}
	return nil
}

// ReadIn reads length bytes from a parallel-to-serial register and writes
// them to the output as a single line.
//
// The line has the form "<latchPin>:<b0>,<b1>,...,<bn>\n", with each byte in
// decimal.  The line is written in fragments as each byte is read.
//
// If clockLeadsHigh is set the clock is driven high before latching, as
// required by registers that clock on rising edges.
//
// The latch is left high on return, even if the read fails.
func (c *Controller) ReadIn(latchPin, length, dataPin, clockPin int, clockLeadsHigh bool) (err error) {
	if !validReadLength(length) {
		return errors.Wrapf(ErrInvalidLength, "read length %d", length)
	}
	if clockLeadsHigh {
		if err := c.pins.SetLevel(clockPin, LevelActive); err != nil {
			return errors.Wrapf(err, "clock pin %d", clockPin)
		}
	}
	// capture the parallel inputs
	if err := c.pins.SetLevel(latchPin, LevelActive); err != nil {
		return errors.Wrapf(err, "latch pin %d", latchPin)
	}
	defer func() {
		if err != nil {
			// best effort, the first error is the one reported
			c.pins.SetLevel(clockPin, LevelInactive)
			c.pins.SetLevel(latchPin, LevelActive)
		}
	}()
	if err := c.pins.SetLevel(latchPin, LevelInactive); err != nil {
		return errors.Wrapf(err, "latch pin %d", latchPin)
	}
	if _, err := fmt.Fprintf(c.out, "%d:", latchPin); err != nil {
		return errors.Wrap(err, "write reading")
	}
	for i := 1; i <= length; i++ {
		v, err := shiftIn(c.pins, dataPin, clockPin, LSBFirst, c.delay)
		if err != nil {
			return err
		}
		sep := ','
		if i == length {
			sep = '\n'
		}
		if _, err := fmt.Fprintf(c.out, "%d%c", v, sep); err != nil {
			return errors.Wrap(err, "write reading")
		}
	}
	if err := c.pins.SetLevel(latchPin, LevelActive); err != nil {
		return errors.Wrapf(err, "latch pin %d", latchPin)
	}
	return nil
}

// AddListener adds a listener that reads the register on each call to
// PollListeners.
//
// The listener occupies the first disabled slot.  If all slots are in use
// the listener is dropped and AddListener returns false.
//
// No check is made for an existing listener with the same latchPin, so
// adding one twice results in the register being read twice per poll.
//
// A listener with a length outside the range 1 to MaxLength is rejected and
// AddListener returns false.
func (c *Controller) AddListener(latchPin, length, dataPin, clockPin int, clockLeadsHigh bool) bool {
	if !validReadLength(length) {
		c.log.V(1).Info("listener rejected", "latchPin", latchPin, "length", length)
		return false
	}
	ok := c.listeners.add(Listener{
		LatchPin:       latchPin,
		Length:         length,
		DataPin:        dataPin,
		ClockPin:       clockPin,
		ClockLeadsHigh: clockLeadsHigh,
	})
	if !ok {
		c.log.V(1).Info("listener dropped", "latchPin", latchPin, "capacity", ListenerCapacity)
	}
	return ok
}

// RemoveListener disables all listeners with the given latchPin.
func (c *Controller) RemoveListener(latchPin int) {
	c.listeners.remove(latchPin)
}

// PollListeners reads each enabled listener, in slot order.
//
// A failed read does not prevent subsequent listeners being read.
// The first error encountered is returned.
func (c *Controller) PollListeners() error {
	var first error
	for _, l := range c.listeners {
		if !l.Enabled {
			continue
		}
		if err := c.ReadIn(l.LatchPin, l.Length, l.DataPin, l.ClockPin, l.ClockLeadsHigh); err != nil {
			c.log.V(1).Info("listener read failed", "latchPin", l.LatchPin, "err", err)
			if first == nil {
				first = errors.Wrapf(err, "listener %d", l.LatchPin)
			}
		}
	}
	return first
}

// ClearListeners disables all listeners.
func (c *Controller) ClearListeners() {
	c.listeners.clear()
}

// Listeners returns a copy of the listener slots, in slot order.
//
// Disabled slots are included.
func (c *Controller) Listeners() []Listener {
	ll := make([]Listener, len(c.listeners))
	copy(ll, c.listeners[:])
	return ll
}

func validReadLength(length int) bool {
	return length >= 1 && length <= MaxLength
}
