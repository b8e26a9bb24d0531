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

package lifecycle

import (
	"errors"
	syncatomic "sync/atomic"

	"go.uber.org/atomic"
)

// State is a point in the life of a node.
type State int32

const (
	// Created indicates the node exists but nothing has been bound yet.
	Created State = iota

	// Starting indicates that Start has begun binding but hasn't finished.
	// Handles are only handed out after Start returns, so callers never
	// observe this state through a handle.
	Starting

	// Listening indicates the address is bound and the accept path is armed.
	Listening

	// Draining indicates Stop has been called: no new connections are
	// accepted and in-flight work is being cancelled.
	Draining

	// Stopped indicates all resources have been released. It is terminal.
	Stopped
)

var stateToName = map[State]string{
	Created:   "created",
	Starting:  "starting",
	Listening: "listening",
	Draining:  "draining",
	Stopped:   "stopped",
}

func (s State) String() string {
	if name, ok := stateToName[s]; ok {
		return name
	}
	return "unknown"
}

// TransitionFunc is notified of every observable state change, from the
// goroutine that caused it. Starting is never reported: a successful start
// is reported as Created to Listening and a failed one not at all.
type TransitionFunc func(from, to State)

// Once drives an object monotonically through Created, Listening, Draining
// and Stopped with at-most-once start and stop functions.
//
//  0. The observable state only moves forward.
//  1. Start blocks until the state is >= Listening.
//  2. Stop blocks until the state is Stopped.
//  3. Stop pre-empts Start if it happens first.
//  4. The start and stop functions run at most once each.
type Once struct {
	// startCh closes once the state is Listening or beyond.
	startCh chan struct{}
	// drainCh closes once the state is Draining or beyond.
	drainCh chan struct{}
	// stopCh closes once the state is Stopped.
	stopCh chan struct{}

	// err is the result of the start or stop function that last ran. Only
	// the goroutine holding the Starting/Draining state may write it.
	err syncatomic.Value

	state      atomic.Int32
	transition TransitionFunc
}

// NewOnce builds a lifecycle in the Created state. transition may be nil.
func NewOnce(transition TransitionFunc) *Once {
	return &Once{
		startCh:    make(chan struct{}),
		drainCh:    make(chan struct{}),
		stopCh:     make(chan struct{}),
		transition: transition,
	}
}

// Start runs f once. A failing f moves the lifecycle straight to Stopped.
// Later calls wait for the first one and return its error.
func (o *Once) Start(f func() error) error {
	if o.state.CompareAndSwap(int32(Created), int32(Starting)) {
		var err error
		if f != nil {
			err = f()
		}

		if err != nil {
			o.setError(err)
			o.state.Store(int32(Stopped))
			close(o.drainCh)
			close(o.stopCh)
		} else {
			o.state.Store(int32(Listening))
			o.notify(Created, Listening)
		}
		close(o.startCh)
		return err
	}

	<-o.startCh
	return o.loadError()
}

// Stop runs f once, moving through Draining to Stopped. The lifecycle ends
// up Stopped even if f fails; the error is kept and returned to every later
// Stop caller.
func (o *Once) Stop(f func() error) error {
	if o.cas(Created, Stopped) {
		close(o.startCh)
		close(o.drainCh)
		close(o.stopCh)
		return nil
	}

	<-o.startCh

	if o.cas(Listening, Draining) {
		close(o.drainCh)

		var err error
		if f != nil {
			err = f()
		}
		if err != nil {
			o.setError(err)
		}
		o.store(Draining, Stopped)
		close(o.stopCh)
		return err
	}

	<-o.stopCh
	return o.loadError()
}

// Started returns a channel that closes once the lifecycle is Listening or
// beyond.
func (o *Once) Started() <-chan struct{} {
	return o.startCh
}

// Draining returns a channel that closes once Stop has begun.
func (o *Once) Draining() <-chan struct{} {
	return o.drainCh
}

// Stopped returns a channel that closes once the lifecycle is Stopped.
func (o *Once) Stopped() <-chan struct{} {
	return o.stopCh
}

// State returns the current state. The lifecycle may have moved on by the
// time the caller looks at the result.
func (o *Once) State() State {
	return State(o.state.Load())
}

// IsListening reports whether the lifecycle is exactly Listening.
func (o *Once) IsListening() bool {
	return o.State() == Listening
}

func (o *Once) cas(from, to State) bool {
	if !o.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	o.notify(from, to)
	return true
}

func (o *Once) store(from, to State) {
	o.state.Store(int32(to))
	o.notify(from, to)
}

func (o *Once) notify(from, to State) {
	if o.transition != nil {
		o.transition(from, to)
	}
}

func (o *Once) setError(err error) {
	o.err.Store(err)
}

func (o *Once) loadError() error {
	errVal := o.err.Load()
	if errVal == nil {
		return nil
	}

	if err, ok := errVal.(error); ok {
		return err
	}
	return errors.New("lifecycle err was not `error` type")
}
