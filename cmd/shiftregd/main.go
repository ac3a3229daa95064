// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// shiftregd drives shift registers under the control of a host connected
// via a serial port.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goburrow/serial"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/warthog618/go-shiftreg"
	"github.com/warthog618/go-shiftreg/internal/config"
	"github.com/warthog618/go-shiftreg/internal/logging"
	"github.com/warthog618/go-shiftreg/internal/loop"
	"github.com/warthog618/go-shiftreg/internal/protocol"
	"periph.io/x/host/v3"
)

var (
	cfgPath     string
	verbosity   int
	development bool

	rootCmd = &cobra.Command{
		Use:   "shiftregd",
		Short: "Drive shift registers for a serial host",
		Long: "Drive shift registers by bit-banging GPIO lines, under the control of a host\n" +
			"connected via a serial port, streaming register readings back to the host.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (defaults used if not set)")
	rootCmd.Flags().IntVarP(&verbosity, "verbosity", "v", 0, "log verbosity")
	rootCmd.Flags().BoolVar(&development, "dev", false, "human readable logs")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shiftregd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log, err := logging.New(verbosity, development)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if cfgPath != "" {
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if err := config.Validate(cfg); err != nil {
		return errors.Wrap(err, "config validation failed")
	}

	pins, closePins, err := openPins(cfg.Device)
	if err != nil {
		return err
	}
	defer closePins()

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Serial.Port,
		BaudRate: cfg.Serial.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Serial.Timeout(),
	})
	if err != nil {
		return errors.Wrapf(err, "open serial port %s", cfg.Serial.Port)
	}
	defer port.Close()

	options := []shiftreg.NewControllerOption{
		shiftreg.WithLogger(log.WithName("controller")),
		shiftreg.WithBitDelay(cfg.Loop.BitDelay()),
	}
	if cfg.Loop.StrictListeners {
		options = append(options, shiftreg.WithStrictListeners())
	}
	c := shiftreg.NewController(pins, port, options...)

	l, err := loop.New(c, cfg.Loop.PollInterval(), log.WithName("loop"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	requests := make(chan shiftreg.Request)
	go func() {
		defer close(requests)
		err := protocol.ReadRequests(ctx, timeoutReader{ctx, port}, requests, log.WithName("protocol"))
		if err != nil && ctx.Err() == nil {
			log.Error(err, "serial read failed")
		}
	}()

	log.Info("running", "backend", cfg.Device.Backend, "port", cfg.Serial.Port, "baud", cfg.Serial.BaudRate)
	err = l.Run(ctx, requests)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err == nil {
		return errors.New("serial port closed")
	}
	return err
}

// openPins opens the configured pin backend, returning the function that
// releases it.
func openPins(cfg config.DeviceConfig) (shiftreg.Pins, func() error, error) {
	switch cfg.Backend {
	case config.BackendPeriph:
		if _, err := host.Init(); err != nil {
			return nil, nil, errors.Wrap(err, "periph host init")
		}
		p, err := shiftreg.LookupPeriphPins(cfg.Pins)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Halt, nil
	default:
		p, err := shiftreg.NewCdevPins(cfg.Chip, cfg.Consumer)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
}

// timeoutReader retries reads that time out waiting for the host, until
// the context is done.
type timeoutReader struct {
	ctx context.Context
	r   io.Reader
}

func (t timeoutReader) Read(p []byte) (int, error) {
	for {
		n, err := t.r.Read(p)
		if err == serial.ErrTimeout && n == 0 {
			if err := t.ctx.Err(); err != nil {
				return 0, err
			}
			continue
		}
		return n, err
	}
}
