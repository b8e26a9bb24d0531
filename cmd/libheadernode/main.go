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

// libheadernode exposes header nodes to C. Build it with
//
//	go build -buildmode=c-shared -o libheadernode.so ./cmd/libheadernode
//
// and include headernode.h from this directory, which declares
//
//	void* startNode(const char* url, hn_callback onHeader, void* user);
//	void  stopNode(void** ctx);
//
// where hn_callback is void (*)(void* user, const char* header, size_t len).
// The header pointer is only valid during the callback. The value returned
// by startNode is an opaque token, not a pointer; pass its address to
// stopNode, which clears it.
//
// startNode and stopNode are defined in shim.c. Tokens and user data cross
// into Go as uintptr_t so the garbage collector never sees them.
package main

// #include "headernode.h"
import "C"

import "go.uber.org/headernode"

func main() {}

//export hnStart
func hnStart(url *C.char, onHeader C.hn_callback, user C.uintptr_t) C.uintptr_t {
	if url == nil || onHeader == nil {
		logger().Error("startNode needs an address and a callback")
		return 0
	}
	return C.uintptr_t(start(C.GoString(url), cDeliverer{fn: onHeader, user: user}))
}

//export hnStop
func hnStop(token C.uintptr_t) {
	h := headernode.Handle(token)
	stop(&h)
}
