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

package headernodetest

import (
	"sync"
	"time"

	"go.uber.org/headernode"
)

// Recorder is a Deliverer that keeps a copy of every Event it receives.
type Recorder struct {
	mu      sync.Mutex
	events  []headernode.Event
	changed chan struct{}
}

var _ headernode.Deliverer = (*Recorder)(nil)

// NewRecorder builds an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{changed: make(chan struct{})}
}

// Deliver records a copy of e.
func (r *Recorder) Deliver(e headernode.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e.Copy())
	close(r.changed)
	r.changed = make(chan struct{})
}

// Events returns the events recorded so far, in delivery order.
func (r *Recorder) Events() []headernode.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]headernode.Event(nil), r.events...)
}

// Headers returns the header blocks recorded so far as strings.
func (r *Recorder) Headers() []string {
	events := r.Events()
	headers := make([]string, len(events))
	for i, e := range events {
		headers[i] = string(e.Header)
	}
	return headers
}

// Len returns the number of events recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// WaitFor blocks until at least n events have been recorded or timeout
// passes, and reports whether n was reached.
func (r *Recorder) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		r.mu.Lock()
		got, changed := len(r.events), r.changed
		r.mu.Unlock()

		if got >= n {
			return true
		}
		select {
		case <-changed:
		case <-deadline.C:
			return false
		}
	}
}
