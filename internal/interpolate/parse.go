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

package interpolate

import (
	"fmt"
	"strings"
)

// Parse splits s into literals and variable references.
//
// A reference is ${NAME} or ${NAME:default}. NAME is made of letters,
// digits and underscores, optionally joined by single hyphens, and does not
// start with a digit. A "$" not followed by "{" is kept as is, and "\$"
// produces a literal "$".
func Parse(s string) (String, error) {
	var (
		out String
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, literal(lit.String()))
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '$':
			lit.WriteByte('$')
			i += 2
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated variable reference at offset %d in %q", i, s)
			}
			v, err := parseVariable(s[i+2 : i+2+end])
			if err != nil {
				return nil, fmt.Errorf("bad variable reference at offset %d in %q: %v", i, s, err)
			}
			flush()
			out = append(out, v)
			i += end + 3
		default:
			lit.WriteByte(s[i])
			i++
		}
	}
	flush()
	return out, nil
}

func parseVariable(ref string) (variable, error) {
	name, def, hasDefault := strings.Cut(ref, ":")
	if err := checkName(name); err != nil {
		return variable{}, err
	}
	return variable{Name: name, Default: def, HasDefault: hasDefault}, nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty variable name")
	}
	if isDigit(name[0]) {
		return fmt.Errorf("variable name %q starts with a digit", name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case isWord(c):
		case c == '-' && i > 0 && i < len(name)-1 && name[i-1] != '-':
		default:
			return fmt.Errorf("unexpected %q in variable name %q", c, name)
		}
	}
	return nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isWord(c byte) bool {
	return isDigit(c) || c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
