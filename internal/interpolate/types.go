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

// Package interpolate expands ${NAME} and ${NAME:default} references in
// configuration strings.
package interpolate

import (
	"fmt"
	"strings"
)

// A String is a parsed configuration value: a series of terms, each either a
// literal or a variable reference.
//
// Obtain one with Parse.
type String []term

type (
	term interface {
		term()
	}

	literal string

	variable struct {
		Name       string
		Default    string
		HasDefault bool
	}
)

func (literal) term()  {}
func (variable) term() {}

// VariableResolver returns the value of the named variable and whether it has
// one. A variable without a value and without a default fails rendering.
type VariableResolver func(name string) (value string, ok bool)

// Render resolves every variable in s and returns the result.
func (s String) Render(resolve VariableResolver) (string, error) {
	var sb strings.Builder
	for _, t := range s {
		switch t := t.(type) {
		case literal:
			sb.WriteString(string(t))
		case variable:
			if v, ok := resolve(t.Name); ok {
				sb.WriteString(v)
			} else if t.HasDefault {
				sb.WriteString(t.Default)
			} else {
				return "", errUnknownVariable{Name: t.Name}
			}
		}
	}
	return sb.String(), nil
}

type errUnknownVariable struct{ Name string }

func (e errUnknownVariable) Error() string {
	return fmt.Sprintf("variable %q does not have a value or a default", e.Name)
}
