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

/*
#include "headernode.h"

static inline void hn_call(hn_callback cb, uintptr_t user, const char* header, size_t len) {
	cb((void*)user, header, len);
}
*/
import "C"

import (
	"unsafe"

	"go.uber.org/headernode"
)

// cDeliverer calls a C function pointer for every header event. The user
// token is carried as an integer and handed back untouched.
type cDeliverer struct {
	fn   C.hn_callback
	user C.uintptr_t
}

func (d cDeliverer) Deliver(e headernode.Event) {
	if len(e.Header) == 0 {
		return
	}
	C.hn_call(d.fn, d.user, (*C.char)(unsafe.Pointer(&e.Header[0])), C.size_t(len(e.Header)))
}
