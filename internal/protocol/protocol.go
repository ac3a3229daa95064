// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package protocol decodes the line based host protocol.
//
// Each request is a single line of the form
//
//	<cmd>.<pin>.<val>.<aux>
//
// where the trailing fields are optional, all numbers are decimal, and aux
// is a comma separated list of bytes, e.g.
//
//	21.8.2.11,12,255,0
package protocol

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/warthog618/go-shiftreg"
)

// ErrMalformed indicates a line that cannot be decoded into a request.
var ErrMalformed = errors.New("malformed request")

// Parse decodes a single request line.
//
// Surrounding whitespace, including any line terminator, is ignored.
func Parse(line string) (shiftreg.Request, error) {
	var req shiftreg.Request
	line = strings.TrimSpace(line)
	if line == "" {
		return req, errors.Wrap(ErrMalformed, "empty line")
	}
	fields := strings.SplitN(line, ".", 4)
	ints := []*int{&req.Cmd, &req.Pin, &req.Val}
	for i, f := range fields {
		if i == 3 {
			aux, err := parseAux(f)
			if err != nil {
				return req, err
			}
			req.Aux = aux
			break
		}
		if f == "" && i != 0 {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return req, errors.Wrapf(ErrMalformed, "field %d %q", i, f)
		}
		*ints[i] = v
	}
	return req, nil
}

func parseAux(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	aux := make([]byte, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "aux byte %q", p)
		}
		aux = append(aux, byte(v))
	}
	return aux, nil
}

// ReadRequests decodes requests from r, one per line, and sends them to out.
//
// Malformed lines are logged and skipped.  Returns when r is exhausted, the
// context is done, or r returns an error.
func ReadRequests(ctx context.Context, r io.Reader, out chan<- shiftreg.Request, log logr.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		req, err := Parse(line)
		if err != nil {
			log.Info("dropped request", "line", line, "err", err)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- req:
		}
	}
	return scanner.Err()
}
