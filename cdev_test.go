// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
	"github.com/warthog618/go-shiftreg"
)

// newSimpleton creates a simulated chip, or skips the test if gpio-sim is
// unavailable.
func newSimpleton(t *testing.T, numLines int) *gpiosim.Simpleton {
	t.Helper()
	s, err := gpiosim.NewSimpleton(numLines)
	if err != nil {
		t.Skipf("gpio-sim unavailable: %v", err)
	}
	return s
}

func newCdevPins(t *testing.T, s *gpiosim.Simpleton) *shiftreg.CdevPins {
	t.Helper()
	p, err := shiftreg.NewCdevPins(s.DevPath(), "shiftreg_test")
	require.Nil(t, err)
	return p
}

func checkSimLevel(t *testing.T, s *gpiosim.Simpleton, offset, xv int) {
	t.Helper()
	v, err := s.Level(offset)
	assert.Nil(t, err)
	assert.Equal(t, xv, v)
}

func TestNewCdevPins(t *testing.T) {
	s := newSimpleton(t, 12)
	defer s.Close()

	p := newCdevPins(t, s)
	assert.Equal(t, 12, p.Lines())
	assert.Nil(t, p.Close())

	_, err := shiftreg.NewCdevPins("/dev/nonexistent", "")
	assert.NotNil(t, err)
}

func TestCdevPinsClose(t *testing.T) {
	s := newSimpleton(t, 8)
	defer s.Close()

	p := newCdevPins(t, s)
	require.Nil(t, p.SetLevel(1, shiftreg.LevelActive))
	require.Nil(t, p.SetLevel(2, shiftreg.LevelActive))
	_, err := p.Level(3)
	require.Nil(t, err)
	assert.Nil(t, p.Close())

	// released lines revert to the sim pulls
	checkSimLevel(t, s, 1, 0)
	checkSimLevel(t, s, 2, 0)

	// and can be requested again
	p = newCdevPins(t, s)
	defer p.Close()
	require.Nil(t, p.SetLevel(1, shiftreg.LevelActive))
	checkSimLevel(t, s, 1, 1)
}

func TestCdevPinsDirection(t *testing.T) {
	s := newSimpleton(t, 8)
	defer s.Close()
	p := newCdevPins(t, s)
	defer p.Close()

	offset := 3
	err := p.SetLevel(offset, shiftreg.LevelActive)
	require.Nil(t, err)
	checkSimLevel(t, s, offset, 1)

	err = p.SetLevel(offset, shiftreg.LevelInactive)
	require.Nil(t, err)
	checkSimLevel(t, s, offset, 0)

	// reconfigured as input, following the pull
	require.Nil(t, s.Pullup(offset))
	v, err := p.Level(offset)
	require.Nil(t, err)
	assert.Equal(t, shiftreg.LevelActive, v)

	// and back to output
	err = p.SetLevel(offset, shiftreg.LevelInactive)
	require.Nil(t, err)
	checkSimLevel(t, s, offset, 0)

	_, err = p.Level(42)
	assert.NotNil(t, err)
	err = p.SetLevel(42, shiftreg.LevelActive)
	assert.NotNil(t, err)
}

func TestCdevWriteOut(t *testing.T) {
	s := newSimpleton(t, 16)
	defer s.Close()
	p := newCdevPins(t, s)
	defer p.Close()
	c := shiftreg.NewController(p, &bytes.Buffer{})

	err := c.WriteOut(8, 1, 11, 12, []byte{0x80})
	require.Nil(t, err)
	checkSimLevel(t, s, 8, 1)
	checkSimLevel(t, s, 11, 1)
	checkSimLevel(t, s, 12, 0)

	err = c.WriteOut(8, 1, 11, 12, []byte{0x7f})
	require.Nil(t, err)
	checkSimLevel(t, s, 8, 1)
	checkSimLevel(t, s, 11, 0)
	checkSimLevel(t, s, 12, 0)
}

func TestCdevReadIn(t *testing.T) {
	s := newSimpleton(t, 16)
	defer s.Close()
	p := newCdevPins(t, s)
	defer p.Close()
	var out bytes.Buffer
	c := shiftreg.NewController(p, &out)

	require.Nil(t, s.Pullup(6))
	err := c.ReadIn(5, 2, 6, 7, false)
	require.Nil(t, err)
	assert.Equal(t, "5:255,255\n", out.String())
	checkSimLevel(t, s, 5, 1)
	checkSimLevel(t, s, 7, 0)

	out.Reset()
	require.Nil(t, s.Pulldown(6))
	err = c.ReadIn(5, 1, 6, 7, true)
	require.Nil(t, err)
	assert.Equal(t, "5:0\n", out.String())
	checkSimLevel(t, s, 5, 1)
}

func TestCdevPollListeners(t *testing.T) {
	s := newSimpleton(t, 16)
	defer s.Close()
	p := newCdevPins(t, s)
	defer p.Close()
	var out bytes.Buffer
	c := shiftreg.NewController(p, &out)

	require.Nil(t, s.Pullup(2))
	require.Nil(t, s.Pulldown(6))
	c.AddListener(1, 1, 2, 3, false)
	c.AddListener(5, 2, 6, 7, false)
	require.Nil(t, c.PollListeners())
	assert.Equal(t, "1:255\n5:0,0\n", out.String())

	c.ClearListeners()
	out.Reset()
	require.Nil(t, c.PollListeners())
	assert.Zero(t, out.Len())
}
