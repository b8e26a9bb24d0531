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
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// bridge hands header events to the Deliverer registered at Start.
//
// Deliveries run on the caller's goroutine while holding mu, so the
// Deliverer never runs concurrently with itself and close can wait out a
// delivery already in progress. After close returns, nothing more is
// delivered.
type bridge struct {
	deliverer Deliverer
	logger    *zap.Logger
	observer  *observer

	mu     sync.Mutex
	closed bool
}

func newBridge(d Deliverer, logger *zap.Logger, o *observer) *bridge {
	return &bridge{
		deliverer: d,
		logger:    logger,
		observer:  o,
	}
}

// deliver passes e to the Deliverer unless the bridge is closed. It reports
// whether the Deliverer was called.
func (b *bridge) deliver(e Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.observer.eventDropped()
		b.logger.Debug("dropped header event after stop",
			zap.Stringer("remote", e.RemoteAddr),
			zap.Int("length", e.Len()),
		)
		return false
	}

	if err := b.invoke(e); err != nil {
		b.observer.delivererPanicked()
		b.logger.Error("deliverer panicked",
			zap.Stringer("remote", e.RemoteAddr),
			zap.Int("length", e.Len()),
			zap.Error(err),
			zap.Stack("stack"),
		)
		return true
	}
	b.observer.eventDelivered()
	return true
}

func (b *bridge) invoke(e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	b.deliverer.Deliver(e)
	return nil
}

// close stops all further deliveries. It blocks until a delivery that is
// already running returns.
func (b *bridge) close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}
