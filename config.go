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

package headernode

import (
	"context"
	"regexp"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/headernode/internal/extract"
	"go.uber.org/net/metrics"
	"go.uber.org/net/metrics/tallypush"
	"go.uber.org/zap"
)

const (
	// Sleep between pushes to Tally metrics.
	_tallyPushInterval = 500 * time.Millisecond
	_packageName       = "headernode"
)

var _invalidTagChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// scrubTagValue makes an arbitrary string safe to use as a metrics tag value.
func scrubTagValue(s string) string {
	if s == "" {
		return "default"
	}
	return _invalidTagChars.ReplaceAllString(s, "_")
}

// LoggingConfig describes how logging should be configured.
type LoggingConfig struct {
	// Supplies a logger for the controller and its nodes. By default, no
	// logs are emitted.
	Zap *zap.Logger
}

func (c LoggingConfig) logger(name string) *zap.Logger {
	if c.Zap == nil {
		return zap.NewNop()
	}
	return c.Zap.Named(_packageName).With(
		// Use a namespace to prevent key collisions with other libraries.
		zap.Namespace(_packageName),
		zap.String("controller", name),
	)
}

// MetricsConfig describes how telemetry should be configured.
type MetricsConfig struct {
	// Tally scope used for pushing to M3 or StatsD-based systems. By
	// default, metrics are collected in memory but not pushed.
	Tally tally.Scope
}

func (c MetricsConfig) root(logger *zap.Logger) (*metrics.Root, context.CancelFunc) {
	root := metrics.New()
	if c.Tally == nil {
		return root, func() {}
	}

	stop, err := root.Push(tallypush.New(c.Tally), _tallyPushInterval)
	if err != nil {
		logger.Error("Failed to start pushing metrics to Tally.", zap.Error(err))
		return root, func() {}
	}
	return root, stop
}

// Limits bound the work a node does per connection.
type Limits struct {
	// MaxHeaderBytes is the largest header block accepted, terminator
	// included. Defaults to 8 KiB.
	MaxHeaderBytes int

	// Concurrency is the number of connections whose header blocks may be
	// read at the same time. With the default of 1, extraction happens on
	// the accept goroutine and events are delivered in accept order. Above
	// 1, extraction runs on a worker pool and a connection that arrives
	// while every worker is busy is rejected.
	Concurrency int

	// ReadTimeout bounds how long a single connection may take to send its
	// header block. Zero means no limit.
	ReadTimeout time.Duration
}

func (l Limits) extractor() extract.Extractor {
	return extract.Extractor{
		MaxHeaderBytes: l.MaxHeaderBytes,
		ReadTimeout:    l.ReadTimeout,
	}
}

func (l Limits) concurrency() int {
	if l.Concurrency < 1 {
		return 1
	}
	return l.Concurrency
}

// Config specifies the parameters of a new Controller constructed via
// NewController.
type Config struct {
	// Name identifies the controller in logs and metrics.
	Name string

	// Limits apply to every node started by the controller.
	Limits Limits

	// OnStateChange, if non-nil, is called for every observable lifecycle
	// transition of every node, with the address the node was started with.
	// Starting is never reported and a failed start reports nothing. It runs
	// on the goroutine causing the transition and must not block.
	OnStateChange func(address string, from, to State)

	// Configures logging.
	Logging LoggingConfig

	// Configures telemetry.
	Metrics MetricsConfig
}
