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

// Package config holds the mapdecode plumbing shared by the configuration
// loaders.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/uber-go/mapdecode"
	"go.uber.org/headernode/internal/interpolate"
	"go.uber.org/zap/zapcore"
)

const (
	_tagName           = "config"
	_interpolateOption = "interpolate"
)

// DecodeInto decodes src into dst, reading field names from `config` tags.
func DecodeInto(dst interface{}, src interface{}, opts ...mapdecode.Option) error {
	opts = append(opts, mapdecode.TagName(_tagName))
	return mapdecode.Decode(dst, src, opts...)
}

// InterpolateWith expands ${NAME} references in string values decoded into
// fields tagged with the `interpolate` option, resolving names with
// resolver.
func InterpolateWith(resolver interpolate.VariableResolver) mapdecode.Option {
	return mapdecode.FieldHook(func(dest reflect.StructField, srcData reflect.Value) (reflect.Value, error) {
		if !hasOption(dest.Tag.Get(_tagName), _interpolateOption) {
			return srcData, nil
		}

		// An integer field marked interpolate may well receive an integer.
		v, ok := srcData.Interface().(string)
		if !ok {
			return srcData, nil
		}

		s, err := interpolate.Parse(v)
		if err != nil {
			return srcData, fmt.Errorf("failed to parse %q for interpolation: %v", v, err)
		}

		out, err := s.Render(resolver)
		if err != nil {
			return srcData, fmt.Errorf("failed to render %q with environment variables: %v", v, err)
		}
		return reflect.ValueOf(out), nil
	})
}

func hasOption(tag, option string) bool {
	opts := strings.Split(tag, ",")[1:]
	for _, o := range opts {
		if o == option {
			return true
		}
	}
	return false
}

// ZapLevel is a zapcore.Level that mapdecode can decode from its text form.
type ZapLevel zapcore.Level

// Decode implements mapdecode.Decoder. mapdecode doesn't support
// encoding.TextUnmarshaler on its own.
func (l *ZapLevel) Decode(into mapdecode.Into) error {
	var s string
	if err := into(&s); err != nil {
		return fmt.Errorf("could not decode Zap log level: %v", err)
	}
	if err := (*zapcore.Level)(l).UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("could not decode Zap log level: %v", err)
	}
	return nil
}
