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

// Package headernode runs minimal asynchronous network nodes.
//
// A node binds a TCP address, accepts connections, reads the header block
// off the front of each one (everything up to the first blank line) and
// hands it to a Deliverer. The caller starts a node, gets back an opaque
// Handle, and later stops it from any goroutine:
//
// 	h, err := headernode.Start("127.0.0.1:60000", headernode.DelivererFunc(
// 		func(e headernode.Event) {
// 			fmt.Printf("received headers: %d bytes\n", e.Len())
// 		},
// 	))
// 	if err != nil {
// 		log.Fatal(err)
// 	}
// 	defer headernode.Stop(&h)
//
// Lifecycle
//
// Every node moves through Created, Listening, Draining and Stopped. Start
// returns once the address is bound and the accept goroutine is running.
// Stop stops accepting, closes every connection whose header block is still
// being read, waits for the accept goroutine and any in-progress delivery
// to finish, and releases the listener. Once Stop has begun, no further
// events are delivered, and Stop does not return until the node is Stopped.
//
// Delivery
//
// The Deliverer is called synchronously from the goroutine that read the
// header block, never from the goroutine that called Start. Calls are
// serialized: a Deliverer never runs concurrently with itself for the same
// node. A slow Deliverer therefore slows down the node. Each connection
// produces at most one Event; connections that fail extraction produce none.
// The Event's bytes are only valid until Deliver returns.
//
// Handles
//
// A Handle is a pointer-sized integer, not a pointer. Stop consumes it and
// sets it to zero; stopping a zero, stale or foreign Handle reports a
// CodeInvalidHandle error instead of touching another node.
package headernode
