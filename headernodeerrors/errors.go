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

// Package headernodeerrors holds the coded errors returned by header nodes.
//
// Only Start and Stop report errors to the caller: AddressError and
// InvalidArgument from Start, ShutdownError and InvalidHandle from Stop.
// AcceptError and ExtractionError describe per-connection failures; they are
// logged and counted by the node and never reach the caller.
package headernodeerrors

import (
	"bytes"
	"errors"
	"fmt"
)

// Newf returns a new Status. Arguments are formatted with fmt.Errorf so a
// %w verb keeps the cause reachable through errors.Is and errors.As.
//
// The Code should never be CodeOK, if it is, this will return nil.
func Newf(code Code, format string, args ...interface{}) *Status {
	if code == CodeOK {
		return nil
	}

	var err error
	if len(args) == 0 {
		err = errors.New(format)
	} else {
		err = fmt.Errorf(format, args...)
	}

	return &Status{
		code: code,
		err:  err,
	}
}

// FromError returns the Status for the provided error.
//
// If the error:
//  - is nil, return nil
//  - is or wraps a Status, return the Status
// Otherwise, return a wrapped error with code CodeUnknown.
func FromError(err error) *Status {
	if err == nil {
		return nil
	}

	var st *Status
	if errors.As(err, &st) {
		return st
	}
	return &Status{
		code: CodeUnknown,
		err:  &wrapError{err: err},
	}
}

// IsStatus returns whether err is, or wraps, a Status.
//
// This is false if the error is nil.
func IsStatus(err error) bool {
	var st *Status
	return errors.As(err, &st)
}

// Status is an error with a Code.
type Status struct {
	code Code
	err  error
}

// Code returns the error code for this Status.
func (s *Status) Code() Code {
	if s == nil {
		return CodeOK
	}
	return s.code
}

// Message returns the error message for this Status.
func (s *Status) Message() string {
	if s == nil {
		return ""
	}
	return s.err.Error()
}

// Unwrap supports errors.Unwrap.
func (s *Status) Unwrap() error {
	if s == nil {
		return nil
	}
	return errors.Unwrap(s.err)
}

// Error implements the error interface.
func (s *Status) Error() string {
	buffer := bytes.NewBuffer(nil)
	_, _ = buffer.WriteString(`code:`)
	_, _ = buffer.WriteString(s.code.String())
	if s.err != nil && s.err.Error() != "" {
		_, _ = buffer.WriteString(` message:`)
		_, _ = buffer.WriteString(s.err.Error())
	}
	return buffer.String()
}

type wrapError struct {
	err error
}

func (e *wrapError) Error() string {
	if e == nil || e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *wrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// InvalidArgumentErrorf returns a new Status with code CodeInvalidArgument.
func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AddressErrorf returns a new Status with code CodeAddress.
func AddressErrorf(format string, args ...interface{}) error {
	return Newf(CodeAddress, format, args...)
}

// AcceptErrorf returns a new Status with code CodeAccept.
func AcceptErrorf(format string, args ...interface{}) error {
	return Newf(CodeAccept, format, args...)
}

// ExtractionErrorf returns a new Status with code CodeExtraction.
func ExtractionErrorf(format string, args ...interface{}) error {
	return Newf(CodeExtraction, format, args...)
}

// ShutdownErrorf returns a new Status with code CodeShutdown.
func ShutdownErrorf(format string, args ...interface{}) error {
	return Newf(CodeShutdown, format, args...)
}

// InvalidHandleErrorf returns a new Status with code CodeInvalidHandle.
func InvalidHandleErrorf(format string, args ...interface{}) error {
	return Newf(CodeInvalidHandle, format, args...)
}

// IsInvalidArgument returns true if FromError(err).Code() == CodeInvalidArgument.
func IsInvalidArgument(err error) bool {
	return FromError(err).Code() == CodeInvalidArgument
}

// IsAddressError returns true if FromError(err).Code() == CodeAddress.
func IsAddressError(err error) bool {
	return FromError(err).Code() == CodeAddress
}

// IsAcceptError returns true if FromError(err).Code() == CodeAccept.
func IsAcceptError(err error) bool {
	return FromError(err).Code() == CodeAccept
}

// IsExtractionError returns true if FromError(err).Code() == CodeExtraction.
func IsExtractionError(err error) bool {
	return FromError(err).Code() == CodeExtraction
}

// IsShutdownError returns true if FromError(err).Code() == CodeShutdown.
func IsShutdownError(err error) bool {
	return FromError(err).Code() == CodeShutdown
}

// IsInvalidHandle returns true if FromError(err).Code() == CodeInvalidHandle.
func IsInvalidHandle(err error) bool {
	return FromError(err).Code() == CodeInvalidHandle
}
