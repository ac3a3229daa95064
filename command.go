// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"github.com/pkg/errors"
)

// Command codes understood by Dispatch.
const (
	// CmdShiftWrite writes to a serial-to-parallel register.
	CmdShiftWrite = 21

	// CmdShiftRead reads once from a parallel-to-serial register.
	CmdShiftRead = 22

	// CmdShiftListen adds a listener for a parallel-to-serial register.
	CmdShiftListen = 23

	// CmdShiftStop removes the listeners for a latch pin.
	CmdShiftStop = 24

	// CmdReset clears all listeners.
	CmdReset = 90
)

var (
	// ErrUnknownCommand indicates a request with a command code that is not
	// handled by Dispatch.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrShortRequest indicates a request missing auxiliary bytes.
	ErrShortRequest = errors.New("request too short")
)

// Request is a decoded host command.
//
// For the shift register commands Pin is the latch pin, Val the length in
// bytes, Aux[0] the data pin and Aux[1] the clock pin.  For reads and
// listens Aux[2] is non-zero to drive the clock high before latching.
// For writes the data to write follows from Aux[2].
type Request struct {
	Cmd int
	Pin int
	Val int
	Aux []byte
}

// Dispatch performs the operation corresponding to the request.
//
// A listen request that finds the listener table full is dropped, and only
// reported as ErrListenersFull if the Controller was constructed with
// WithStrictListeners.
func (c *Controller) Dispatch(req Request) error {
	switch req.Cmd {
	case CmdShiftWrite:
		if len(req.Aux) < 2 {
			return errors.Wrapf(ErrShortRequest, "cmd %d", req.Cmd)
		}
		return c.WriteOut(req.Pin, req.Val, int(req.Aux[0]), int(req.Aux[1]), req.Aux[2:])
	case CmdShiftRead:
		if len(req.Aux) < 3 {
			return errors.Wrapf(ErrShortRequest, "cmd %d", req.Cmd)
		}
		return c.ReadIn(req.Pin, req.Val, int(req.Aux[0]), int(req.Aux[1]), req.Aux[2] > 0)
	case CmdShiftListen:
		if len(req.Aux) < 3 {
			return errors.Wrapf(ErrShortRequest, "cmd %d", req.Cmd)
		}
		if !validReadLength(req.Val) {
			return errors.Wrapf(ErrInvalidLength, "listen length %d", req.Val)
		}
		if !c.AddListener(req.Pin, req.Val, int(req.Aux[0]), int(req.Aux[1]), req.Aux[2] > 0) && c.strict {
			return errors.Wrapf(ErrListenersFull, "latch pin %d", req.Pin)
		}
		return nil
	case CmdShiftStop:
		c.RemoveListener(req.Pin)
		return nil
	case CmdReset:
		c.ClearListeners()
		return nil
	default:
		return errors.Wrapf(ErrUnknownCommand, "cmd %d", req.Cmd)
	}
}
