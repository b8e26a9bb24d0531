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

// Package extract reads the header block off the front of a connection.
//
// A header block is everything up to and including the first blank line,
// terminated by either "\r\n\r\n" or "\n\n". Bytes after the terminator are
// left unread or discarded; the caller only ever sees the block itself.
package extract

import (
	"bytes"
	"errors"
	"io"
	"net"
	"time"
)

const (
	// DefaultMaxHeaderBytes bounds a header block when no limit is given.
	DefaultMaxHeaderBytes = 8 << 10

	_readChunk = 512
)

var (
	_crlfTerminator = []byte("\r\n\r\n")
	_lfTerminator   = []byte("\n\n")
)

var (
	// ErrTooLarge is returned when no terminator shows up within the limit.
	ErrTooLarge = errors.New("header block exceeds size limit")

	// ErrIncomplete is returned when the peer closes before the terminator.
	ErrIncomplete = errors.New("connection closed before end of header block")

	// ErrEmpty is returned when the block holds nothing but the terminator.
	ErrEmpty = errors.New("empty header block")

	// ErrMalformed is returned when the block contains a NUL byte.
	ErrMalformed = errors.New("header block contains NUL byte")
)

// Extractor pulls one header block from a connection. The zero value is
// usable: it applies DefaultMaxHeaderBytes and no read timeout.
type Extractor struct {
	// MaxHeaderBytes is the largest block accepted, terminator included.
	MaxHeaderBytes int

	// ReadTimeout, if positive, bounds the whole extraction.
	ReadTimeout time.Duration
}

// Extract reads from conn until the end of the header block and returns the
// block. The returned slice is owned by the caller.
func (e Extractor) Extract(conn net.Conn) ([]byte, error) {
	if e.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(e.ReadTimeout)); err != nil {
			return nil, err
		}
	}
	return e.ExtractFrom(conn)
}

// ExtractFrom is Extract for any reader; it applies no deadline.
func (e Extractor) ExtractFrom(r io.Reader) ([]byte, error) {
	limit := e.MaxHeaderBytes
	if limit <= 0 {
		limit = DefaultMaxHeaderBytes
	}

	var buf bytes.Buffer
	chunk := make([]byte, _readChunk)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			// Only the tail can complete a terminator split across reads.
			from := buf.Len() - len(_crlfTerminator) + 1
			if from < 0 {
				from = 0
			}
			buf.Write(chunk[:n])

			if end := terminatorEnd(buf.Bytes(), from); end > 0 {
				if end > limit {
					return nil, ErrTooLarge
				}
				return validate(buf.Bytes()[:end])
			}
			if buf.Len() >= limit {
				return nil, ErrTooLarge
			}
		}

		if err != nil {
			if err == io.EOF {
				return nil, ErrIncomplete
			}
			return nil, err
		}
	}
}

// terminatorEnd returns the offset just past the earliest terminator that
// starts at or after from, or -1.
func terminatorEnd(b []byte, from int) int {
	end := -1
	if i := bytes.Index(b[from:], _crlfTerminator); i >= 0 {
		end = from + i + len(_crlfTerminator)
	}
	if i := bytes.Index(b[from:], _lfTerminator); i >= 0 {
		if lf := from + i + len(_lfTerminator); end < 0 || lf < end {
			end = lf
		}
	}
	return end
}

func validate(block []byte) ([]byte, error) {
	if bytes.IndexByte(block, 0) >= 0 {
		return nil, ErrMalformed
	}
	if len(bytes.TrimLeft(block, "\r\n")) == 0 {
		return nil, ErrEmpty
	}
	return block, nil
}
