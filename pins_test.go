// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg_test

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-shiftreg"
)

type edge struct {
	pin   int
	level int
}

// fakePins records all pin writes and forwards them to the attached
// register models.
type fakePins struct {
	levels map[int]int
	edges  []edge
	models []model
	broken map[int]bool
}

type model interface {
	set(pin, level int)
	level(pin int) (int, bool)
}

func newFakePins(models ...model) *fakePins {
	return &fakePins{levels: make(map[int]int), models: models, broken: make(map[int]bool)}
}

func (f *fakePins) SetLevel(pin int, level int) error {
	if f.broken[pin] {
		return errors.Errorf("pin %d broken", pin)
	}
	f.levels[pin] = level
	f.edges = append(f.edges, edge{pin, level})
	for _, m := range f.models {
		m.set(pin, level)
	}
	return nil
}

func (f *fakePins) Level(pin int) (int, error) {
	if f.broken[pin] {
		return shiftreg.LevelInactive, errors.Errorf("pin %d broken", pin)
	}
	for _, m := range f.models {
		if v, ok := m.level(pin); ok {
			return v, nil
		}
	}
	return f.levels[pin], nil
}

// writes returns the sequence of levels written to the pin.
func (f *fakePins) writes(pin int) []int {
	var ll []int
	for _, e := range f.edges {
		if e.pin == pin {
			ll = append(ll, e.level)
		}
	}
	return ll
}

// risingEdges returns the number of inactive to active transitions written
// to the pin, assuming it starts inactive.
func (f *fakePins) risingEdges(pin int) int {
	n := 0
	prev := shiftreg.LevelInactive
	for _, l := range f.writes(pin) {
		if l == shiftreg.LevelActive && prev == shiftreg.LevelInactive {
			n++
		}
		prev = l
	}
	return n
}

// sipo models a chain of serial-to-parallel registers, e.g. 74HC595s.
//
// Bits are sampled from the data pin on each rising clock edge and
// transferred to the outputs on the rising edge of the latch.
type sipo struct {
	latchPin, dataPin, clockPin int

	data, clock, latch int
	shifted            []int
	outputs            []int
	latches            int
}

func (r *sipo) set(pin, level int) {
	switch pin {
	case r.dataPin:
		r.data = level
	case r.clockPin:
		if level == shiftreg.LevelActive && r.clock == shiftreg.LevelInactive {
			r.shifted = append(r.shifted, r.data)
		}
		r.clock = level
	case r.latchPin:
		if level == shiftreg.LevelActive && r.latch == shiftreg.LevelInactive {
			r.outputs = r.shifted
			r.shifted = nil
			r.latches++
		}
		r.latch = level
	}
}

func (r *sipo) level(pin int) (int, bool) {
	return 0, false
}

// bytes returns the latched outputs, packed LSB first.
func (r *sipo) bytes() []byte {
	b := make([]byte, (len(r.outputs)+7)/8)
	for i, v := range r.outputs {
		if v == shiftreg.LevelActive {
			b[i/8] |= 1 << (i % 8)
		}
	}
	return b
}

// piso models a chain of parallel-to-serial registers, e.g. CD4021s.
//
// The parallel inputs are loaded while the latch is active, and shifted
// towards the data pin on each clock edge while the latch is inactive.
// Once all the loaded bits are shifted out the data pin reads the serial
// input.
type piso struct {
	latchPin, dataPin, clockPin int

	// shift on the rising, else falling, clock edge.
	risingEdge bool

	inputs   []byte
	serialIn int

	clock, latch int
	pos          int
}

func (r *piso) set(pin, level int) {
	switch pin {
	case r.clockPin:
		rising := level == shiftreg.LevelActive && r.clock == shiftreg.LevelInactive
		falling := level == shiftreg.LevelInactive && r.clock == shiftreg.LevelActive
		if r.latch == shiftreg.LevelInactive && ((r.risingEdge && rising) || (!r.risingEdge && falling)) {
			r.pos++
		}
		r.clock = level
	case r.latchPin:
		if level == shiftreg.LevelActive {
			r.pos = 0
		}
		r.latch = level
	}
}

func (r *piso) level(pin int) (int, bool) {
	if pin != r.dataPin {
		return 0, false
	}
	if r.pos >= len(r.inputs)*8 {
		return r.serialIn, true
	}
	if r.inputs[r.pos/8]&(1<<(r.pos%8)) != 0 {
		return shiftreg.LevelActive, true
	}
	return shiftreg.LevelInactive, true
}

// failingWriter fails all writes.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

// fragmentWriter records each write separately.
type fragmentWriter struct {
	fragments []string
}

func (w *fragmentWriter) Write(p []byte) (int, error) {
	w.fragments = append(w.fragments, string(p))
	return len(p), nil
}
