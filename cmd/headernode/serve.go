// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/headernode"
	"go.uber.org/headernode/headernodeconfig"
	"go.uber.org/headernode/internal/net"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_defaultAddress     = "127.0.0.1:60000"
	_metricsStopTimeout = 5 * time.Second
)

type serveOptions struct {
	Address        string
	ConfigPath     string
	MaxHeaderBytes int
	Concurrency    int
	ReadTimeout    time.Duration
	MetricsAddress string
	LogLevel       zapcore.Level
}

func (o *serveOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Address, "address", "a", _defaultAddress, "host:port to accept connections on")
	fs.StringVarP(&o.ConfigPath, "config", "c", "", "YAML file with a headernode section")
	fs.IntVar(&o.MaxHeaderBytes, "max-header-bytes", 0, "largest header block accepted (0 for the default)")
	fs.IntVar(&o.Concurrency, "concurrency", 1, "connections read at the same time")
	fs.DurationVar(&o.ReadTimeout, "read-timeout", 0, "time a connection has to send its header block (0 for none)")
	fs.StringVar(&o.MetricsAddress, "metrics-address", "", "serve metrics over HTTP on this host:port")
	fs.Var(levelFlag{&o.LogLevel}, "log-level", "minimum level of logs written to stderr")
}

func newServeCommand(in io.Reader, out io.Writer) *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a node until q is typed or the process is interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			nc, logger, err := opts.setup(cmd.Flags())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return serve(ctx, nc, opts.MetricsAddress, logger, in, out)
		},
	}
	opts.LogLevel = zapcore.InfoLevel
	opts.register(cmd.Flags())
	return cmd
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// setup resolves the node configuration and builds a logger at the level it
// settles on.
func (o *serveOptions) setup(fs *pflag.FlagSet) (headernodeconfig.NodeConfig, *zap.Logger, error) {
	nc, err := o.nodeConfig(fs)
	if err != nil {
		return nc, nil, err
	}
	logger, err := newLogger(nc.Level)
	if err != nil {
		return nc, nil, err
	}
	return nc, logger, nil
}

// nodeConfig merges the config file, if any, with the flags set on the
// command line. Flags win.
func (o *serveOptions) nodeConfig(fs *pflag.FlagSet) (headernodeconfig.NodeConfig, error) {
	nc := headernodeconfig.NodeConfig{Address: o.Address, Level: o.LogLevel}
	if o.ConfigPath != "" {
		f, err := os.Open(o.ConfigPath)
		if err != nil {
			return nc, err
		}
		defer f.Close()

		if nc, err = headernodeconfig.New().LoadConfigFromYAML(f); err != nil {
			return nc, fmt.Errorf("load %v: %w", o.ConfigPath, err)
		}
	}

	limits := &nc.Config.Limits
	if o.ConfigPath == "" || fs.Changed("address") {
		nc.Address = o.Address
	}
	if o.ConfigPath == "" || fs.Changed("max-header-bytes") {
		limits.MaxHeaderBytes = o.MaxHeaderBytes
	}
	if o.ConfigPath == "" || fs.Changed("concurrency") {
		limits.Concurrency = o.Concurrency
	}
	if o.ConfigPath == "" || fs.Changed("read-timeout") {
		limits.ReadTimeout = o.ReadTimeout
	}
	if o.ConfigPath == "" || fs.Changed("log-level") {
		nc.Level = o.LogLevel
	}
	return nc, nil
}

// printer writes every header event to out. The node never calls it
// concurrently.
type printer struct {
	out io.Writer
}

func (p printer) Deliver(e headernode.Event) {
	fmt.Fprintf(p.out, "Received headers! %d\n%s\n", e.Len(), e.Header)
}

func serve(ctx context.Context, nc headernodeconfig.NodeConfig, metricsAddress string, logger *zap.Logger, in io.Reader, out io.Writer) (err error) {
	ctrl := headernode.NewController(nc.ControllerConfig(logger))
	defer func() { err = multierr.Append(err, ctrl.Close()) }()

	h, err := ctrl.Start(nc.Address, printer{out: out})
	if err != nil {
		return err
	}

	if metricsAddress != "" {
		ms := net.NewMetricsServer(metricsAddress, ctrl.Metrics(), logger)
		if err := ms.Start(); err != nil {
			return multierr.Append(err, ctrl.Stop(&h))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), _metricsStopTimeout)
			defer cancel()
			err = multierr.Append(err, ms.Stop(stopCtx))
		}()
	}

	addr, err := ctrl.Addr(h)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Listening on %v. Type q and press enter to stop.\n", addr)

	select {
	case <-ctx.Done():
	case <-quit(in):
	}
	return ctrl.Stop(&h)
}

// quit returns a channel closed once a line reading "q" is read from in.
// Running out of input doesn't count.
func quit(in io.Reader) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "q" {
				close(done)
				return
			}
		}
	}()
	return done
}
