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

// Package net holds the small HTTP server used to expose metrics next to a
// header node.
package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
)

const _metricsPath = "/metrics"

var (
	errServerStopped    = errors.New("the metrics server has been stopped")
	errAlreadyListening = errors.New("the metrics server is already listening")
)

// MetricsServer serves a metrics.Root at /metrics in the background.
type MetricsServer struct {
	server *http.Server
	logger *zap.Logger

	lock     sync.Mutex
	listener net.Listener
	done     chan error
	stopped  atomic.Bool
}

// NewMetricsServer builds a MetricsServer for root listening on addr. A nil
// logger disables logging.
func NewMetricsServer(addr string, root *metrics.Root, logger *zap.Logger) *MetricsServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.Handle(_metricsPath, root)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})

	return &MetricsServer{
		server: &http.Server{
			Addr:     addr,
			Handler:  mux,
			ErrorLog: zap.NewStdLog(logger),
		},
		logger: logger,
		done:   make(chan error, 1),
	}
}

// Addr returns the address the server listens on, or nil before Start.
func (s *MetricsServer) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the address and serves in the background. It fails if the
// server is already listening or was stopped.
func (s *MetricsServer) Start() error {
	if s.stopped.Load() {
		return errServerStopped
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.listener != nil {
		return errAlreadyListening
	}

	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen for metrics on %q: %w", s.server.Addr, err)
	}

	go func(done chan<- error) {
		// Serve always returns an error; it only matters if Stop wasn't
		// called.
		err := s.server.Serve(listener)
		if s.stopped.Load() || errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}(s.done)

	s.listener = listener
	s.logger.Info("serving metrics", zap.Stringer("address", listener.Addr()))
	return nil
}

// Stop shuts the server down, waiting for active requests until ctx is done.
// It returns an error if the server had failed on its own. Once stopped, a
// server cannot be started again.
func (s *MetricsServer) Stop(ctx context.Context) error {
	if s.stopped.Swap(true) {
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.listener == nil {
		return nil
	}

	shutdownErr := s.server.Shutdown(ctx)
	if shutdownErr != nil {
		shutdownErr = multierr.Append(shutdownErr, s.server.Close())
	}
	s.listener = nil
	return multierr.Append(shutdownErr, <-s.done)
}
