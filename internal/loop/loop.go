// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package loop provides the control loop that owns a Controller.
package loop

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/warthog618/go-shiftreg"
)

// Controller is the subset of shiftreg.Controller driven by the loop.
type Controller interface {
	Dispatch(req shiftreg.Request) error
	PollListeners() error
	ClearListeners()
}

// Loop serialises all access to a Controller.
//
// Requests are dispatched as they arrive, and listeners are polled once per
// interval.
type Loop struct {
	c        Controller
	interval time.Duration
	log      logr.Logger
}

// New creates a loop driving c.
func New(c Controller, interval time.Duration, log logr.Logger) (*Loop, error) {
	if c == nil {
		return nil, errors.New("loop: controller required")
	}
	if interval <= 0 {
		return nil, errors.New("loop: interval must be > 0")
	}
	return &Loop{c: c, interval: interval, log: log}, nil
}

// Run clears any listeners, then dispatches requests and polls listeners until
// the context is done or the requests channel is closed.
func (l *Loop) Run(ctx context.Context, requests <-chan shiftreg.Request) error {
	l.c.ClearListeners()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			l.Dispatch(req)
		case <-ticker.C:
			l.Poll()
		}
	}
}

// Dispatch performs a single request, logging any failure.
func (l *Loop) Dispatch(req shiftreg.Request) {
	l.log.V(2).Info("request", "cmd", req.Cmd, "pin", req.Pin, "val", req.Val)
	if err := l.c.Dispatch(req); err != nil {
		l.log.Error(err, "request failed", "cmd", req.Cmd, "pin", req.Pin)
	}
}

// Poll performs a single poll of the listeners.
func (l *Loop) Poll() {
	if err := l.c.PollListeners(); err != nil {
		// polled every interval, so only report when asked
		l.log.V(1).Info("poll failed", "err", err)
	}
}
