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

import "net"

// Event is one header block read from one connection.
//
// Header aliases a buffer owned by the node and is only valid for the
// duration of the Deliver call it is passed to. Use Copy to keep it.
type Event struct {
	// Header holds the header block, terminating blank line included.
	Header []byte

	// LocalAddr is the node's address the connection arrived on.
	LocalAddr net.Addr

	// RemoteAddr is the peer's address.
	RemoteAddr net.Addr
}

// Len returns the length of the header block in bytes.
func (e Event) Len() int {
	return len(e.Header)
}

// Copy returns an Event whose Header may be retained after Deliver returns.
func (e Event) Copy() Event {
	header := make([]byte, len(e.Header))
	copy(header, e.Header)
	e.Header = header
	return e
}

//go:generate mockgen -destination=headernodetest/deliverer.go -package=headernodetest go.uber.org/headernode Deliverer

// Deliverer receives header events from a node.
//
// Deliver is called from a goroutine owned by the node. It must not call
// Stop for the node that is delivering to it: Stop waits for Deliver to
// return.
type Deliverer interface {
	Deliver(Event)
}

// DelivererFunc adapts a function into a Deliverer.
type DelivererFunc func(Event)

// Deliver calls f(e).
func (f DelivererFunc) Deliver(e Event) {
	f(e)
}
