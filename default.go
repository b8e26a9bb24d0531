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

package headernode

import (
	"net"
	"sync"
)

var (
	_defaultOnce       sync.Once
	_defaultController *Controller
)

// DefaultController returns the Controller used by the package-level Start,
// Stop and Addr. It logs nothing and keeps its metrics in memory.
func DefaultController() *Controller {
	_defaultOnce.Do(func() {
		_defaultController = NewController(Config{Name: "default"})
	})
	return _defaultController
}

// Start starts a node on the default controller. See Controller.Start.
func Start(address string, d Deliverer) (Handle, error) {
	return DefaultController().Start(address, d)
}

// Stop stops a node started with Start. See Controller.Stop.
func Stop(h *Handle) error {
	return DefaultController().Stop(h)
}

// Addr returns the bound address of a node started with Start.
func Addr(h Handle) (net.Addr, error) {
	return DefaultController().Addr(h)
}
