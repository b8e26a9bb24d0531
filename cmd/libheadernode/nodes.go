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
	"os"
	"sync"

	"go.uber.org/headernode"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	_setup      sync.Once
	_logger     *zap.Logger
	_controller *headernode.Controller
)

func setup() {
	_setup.Do(func() {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		_logger = zap.New(zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zapcore.WarnLevel))
		_controller = headernode.NewController(headernode.Config{
			Name:    "libheadernode",
			Logging: headernode.LoggingConfig{Zap: _logger},
		})
	})
}

func logger() *zap.Logger {
	setup()
	return _logger
}

// start starts a node and returns its Handle, or zero after logging the
// failure.
func start(address string, d headernode.Deliverer) headernode.Handle {
	setup()
	h, err := _controller.Start(address, d)
	if err != nil {
		_logger.Error("cannot start header node", zap.String("address", address), zap.Error(err))
		return 0
	}
	return h
}

// stop stops the node behind *h and clears it. Failures are logged.
func stop(h *headernode.Handle) {
	setup()
	if err := _controller.Stop(h); err != nil {
		_logger.Error("cannot stop header node", zap.Error(err))
	}
	*h = 0
}
