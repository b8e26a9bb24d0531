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

package headernodeerrors

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// CodeOK means no error.
	CodeOK Code = 0

	// CodeInvalidArgument means the caller passed something unusable that is
	// not an address, such as a nil Deliverer.
	CodeInvalidArgument Code = 1

	// CodeAddress means the address was malformed, could not be resolved or
	// could not be bound. Start fails and nothing is left open.
	CodeAddress Code = 2

	// CodeAccept means accepting one connection failed. The node keeps
	// running.
	CodeAccept Code = 3

	// CodeExtraction means one connection did not produce a valid header
	// block. The connection is closed and the node keeps running.
	CodeExtraction Code = 4

	// CodeShutdown means teardown could not release every resource. The
	// handle is consumed regardless.
	CodeShutdown Code = 5

	// CodeInvalidHandle means the handle is zero, was already stopped, or
	// never belonged to this controller.
	CodeInvalidHandle Code = 6

	// CodeUnknown is given by FromError to errors that did not come from this
	// package.
	CodeUnknown Code = 7
)

var (
	_codeToString = map[Code]string{
		CodeOK:              "ok",
		CodeInvalidArgument: "invalid-argument",
		CodeAddress:         "address",
		CodeAccept:          "accept",
		CodeExtraction:      "extraction",
		CodeShutdown:        "shutdown",
		CodeInvalidHandle:   "invalid-handle",
		CodeUnknown:         "unknown",
	}
	_stringToCode = map[string]Code{
		"ok":               CodeOK,
		"invalid-argument": CodeInvalidArgument,
		"address":          CodeAddress,
		"accept":           CodeAccept,
		"extraction":       CodeExtraction,
		"shutdown":         CodeShutdown,
		"invalid-handle":   CodeInvalidHandle,
		"unknown":          CodeUnknown,
	}
)

// Code classifies a header node error.
type Code int

// String returns the string representation of the Code.
func (c Code) String() string {
	s, ok := _codeToString[c]
	if ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	s, ok := _codeToString[c]
	if ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown code: %d", int(c))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	i, ok := _stringToCode[strings.ToLower(string(text))]
	if !ok {
		return fmt.Errorf("unknown code string: %s", string(text))
	}
	*c = i
	return nil
}
