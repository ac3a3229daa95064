// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

// ListenerCapacity is the number of listener slots held by a Controller.
const ListenerCapacity = 4

// Listener contains the information required to repeatedly read a
// parallel-to-serial register.
type Listener struct {
	// The pin used to latch the register.
	//
	// This also identifies the listener, and prefixes each reading.
	LatchPin int

	// The number of bytes read each poll.
	Length int

	// The pin the register shifts data out on.
	DataPin int

	// The pin clocking the register.
	ClockPin int

	// Drive the clock high before latching.
	//
	// Required for registers that clock on rising edges, else the MSB reads
	// as fixed and the remaining bits are shifted one towards the LSB.
	ClockLeadsHigh bool

	// The slot is in use.
	Enabled bool
}

// listenerTable is the fixed set of listener slots.
//
// Slots are addressed by position, not by LatchPin, and LatchPins are not
// required to be unique.
type listenerTable [ListenerCapacity]Listener

// add overwrites the first disabled slot with l.
//
// Returns false, leaving the table unchanged, if every slot is in use.
func (t *listenerTable) add(l Listener) bool {
	for i := range t {
		if !t[i].Enabled {
			l.Enabled = true
			t[i] = l
			return true
		}
	}
	return false
}

// remove disables every slot with the given latch pin.
func (t *listenerTable) remove(latchPin int) {
	for i := range t {
		if t[i].LatchPin == latchPin {
			t[i].Enabled = false
		}
	}
}

// clear disables every slot.
func (t *listenerTable) clear() {
	for i := range t {
		t[i].Enabled = false
	}
}
