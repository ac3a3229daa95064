// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import (
	"time"

	"github.com/go-logr/logr"
)

// NewControllerOption defines the interface required to provide an option to
// NewController.
type NewControllerOption interface {
	applyControllerOption(*Controller)
}

// LoggerOption is an option that provides the logger used by a Controller.
type LoggerOption struct {
	logger logr.Logger
}

// WithLogger returns an option that sets the logger used by the Controller.
//
// The Controller only logs at V(1) and above, and by default discards.
func WithLogger(logger logr.Logger) LoggerOption {
	return LoggerOption{logger}
}

func (o LoggerOption) applyControllerOption(c *Controller) {
	c.log = o.logger
}

// BitDelayOption is an option that slows the clock.
type BitDelayOption time.Duration

// WithBitDelay returns an option that pauses for the given period after
// each clock edge.
//
// By default pins are toggled as fast as the driver allows.
func WithBitDelay(d time.Duration) BitDelayOption {
	return BitDelayOption(d)
}

func (o BitDelayOption) applyControllerOption(c *Controller) {
	c.delay = time.Duration(o)
}

// StrictListenersOption is an option that reports a full listener table.
type StrictListenersOption struct{}

// WithStrictListeners returns an option that causes Dispatch to return
// ErrListenersFull when a listen command cannot be satisfied.
//
// Without this option the command is silently dropped.
func WithStrictListeners() StrictListenersOption {
	return StrictListenersOption{}
}

func (o StrictListenersOption) applyControllerOption(c *Controller) {
	c.strict = true
}
