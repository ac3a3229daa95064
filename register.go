// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

// Register binds a Controller to the pins of a single register, or chain of
// registers sharing a latch.
type Register struct {
	c        *Controller
	latchPin int
	dataPin  int
	clockPin int
}

// Register returns a Register for the given pins.
func (c *Controller) Register(latchPin, dataPin, clockPin int) *Register {
	return &Register{c: c, latchPin: latchPin, dataPin: dataPin, clockPin: clockPin}
}

// LatchPin returns the pin latching the register.
func (r *Register) LatchPin() int {
	return r.latchPin
}

// Write writes the data to the register outputs.
func (r *Register) Write(data ...byte) error {
	return r.c.WriteOut(r.latchPin, len(data), r.dataPin, r.clockPin, data)
}

// Read reads length bytes from the register inputs and writes them to the
// Controller output.
func (r *Register) Read(length int, clockLeadsHigh bool) error {
	return r.c.ReadIn(r.latchPin, length, r.dataPin, r.clockPin, clockLeadsHigh)
}

// Listen adds a listener for the register.
//
// Returns false if the listener table is full.
func (r *Register) Listen(length int, clockLeadsHigh bool) bool {
	return r.c.AddListener(r.latchPin, length, r.dataPin, r.clockPin, clockLeadsHigh)
}

// Unlisten removes any listeners for the register.
func (r *Register) Unlisten() {
	r.c.RemoveListener(r.latchPin)
}
