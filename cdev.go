// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// CdevPins provides Pins using the lines of a gpiochip, via the Linux GPIO
// character device.
//
// Pins are identified by line offset on the chip, with offsets being in the
// range 0..Lines()-1.
//
// Lines are requested on first use, as outputs when set and as inputs when
// read, and are reconfigured if subsequently used the other way.
type CdevPins struct {
	// The chip providing the lines.
	chip *gpiocdev.Chip

	// The requested lines, keyed by offset.
	lines map[int]*cdevLine

	// The consumer label applied to requested lines.
	consumer string
}

type cdevLine struct {
	*gpiocdev.Line
	output bool
}

// NewCdevPins opens the named gpiochip.
//
// The name may be the chip name, e.g. "gpiochip0", or the path to the chip,
// e.g. "/dev/gpiochip0".
//
// The consumer labels the requested lines, and may be empty.
func NewCdevPins(name, consumer string) (*CdevPins, error) {
	var options []gpiocdev.ChipOption
	if consumer != "" {
		options = append(options, gpiocdev.WithConsumer(consumer))
	}
	chip, err := gpiocdev.NewChip(name, options...)
	if err != nil {
		return nil, errors.Wrapf(err, "open chip %s", name)
	}
	return &CdevPins{chip: chip, lines: make(map[int]*cdevLine), consumer: consumer}, nil
}

// Lines returns the number of lines on the chip.
func (p *CdevPins) Lines() int {
	return p.chip.Lines()
}

// Close releases all requested lines and the chip.
//
// All lines are released even if one fails to close, and the first error
// encountered is returned.
func (p *CdevPins) Close() error {
	var first error
	for o, l := range p.lines {
		if err := l.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "close line %d", o)
		}
		delete(p.lines, o)
	}
	if err := p.chip.Close(); err != nil && first == nil {
		first = errors.Wrap(err, "close chip")
	}
	return first
}

// SetLevel drives the line to the given level.
func (p *CdevPins) SetLevel(offset int, level int) error {
	v := LevelInactive
	if level != LevelInactive {
		v = LevelActive
	}
	l, ok := p.lines[offset]
	if !ok {
		line, err := p.chip.RequestLine(offset, gpiocdev.AsOutput(v))
		if err != nil {
			return errors.Wrapf(err, "request line %d", offset)
		}
		p.lines[offset] = &cdevLine{Line: line, output: true}
		return nil
	}
	if !l.output {
		if err := l.Reconfigure(gpiocdev.AsOutput(v)); err != nil {
			return errors.Wrapf(err, "reconfigure line %d", offset)
		}
		l.output = true
		return nil
	}
	return l.SetValue(v)
}

// Level returns the level of the line.
func (p *CdevPins) Level(offset int) (int, error) {
	l, ok := p.lines[offset]
	if !ok {
		line, err := p.chip.RequestLine(offset, gpiocdev.AsInput)
		if err != nil {
			return LevelInactive, errors.Wrapf(err, "request line %d", offset)
		}
		l = &cdevLine{Line: line}
		p.lines[offset] = l
	} else if l.output {
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			return LevelInactive, errors.Wrapf(err, "reconfigure line %d", offset)
		}
		l.output = false
	}
	v, err := l.Value()
	if err != nil {
		return LevelInactive, errors.Wrapf(err, "read line %d", offset)
	}
	if v != 0 {
		return LevelActive, nil
	}
	return LevelInactive, nil
}
