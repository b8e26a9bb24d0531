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

package headernodeconfig

import (
	"time"

	"go.uber.org/headernode/internal/config"
)

type fileConfig struct {
	Node nodeConfig `config:"headernode"`
}

type nodeConfig struct {
	Name    string  `config:"name,interpolate"`
	Address string  `config:"address,interpolate"`
	Logging logging `config:"logging"`
	Limits  limits  `config:"limits"`
}

type logging struct {
	Level *config.ZapLevel `config:"level"`
}

type limits struct {
	MaxHeaderBytes int           `config:"maxHeaderBytes,interpolate"`
	Concurrency    int           `config:"concurrency,interpolate"`
	ReadTimeout    time.Duration `config:"readTimeout,interpolate"`
}
