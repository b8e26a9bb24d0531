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
	"context"
	"net"
	"sync"

	"go.uber.org/headernode/headernodeerrors"
	"go.uber.org/multierr"
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
)

// Controller starts and stops header nodes and hands out the Handles that
// refer to them. A Controller is safe for concurrent use.
type Controller struct {
	name          string
	limits        Limits
	logger        *zap.Logger
	root          *metrics.Root
	metrics       *controllerMetrics
	stopPush      context.CancelFunc
	closeOnce     sync.Once
	onStateChange func(string, State, State)

	nodes registry
}

// NewController builds a Controller from cfg.
func NewController(cfg Config) *Controller {
	logger := cfg.Logging.logger(cfg.Name)
	root, stopPush := cfg.Metrics.root(logger)

	return &Controller{
		name:          cfg.Name,
		limits:        cfg.Limits,
		logger:        logger,
		root:          root,
		metrics:       newControllerMetrics(root.Scope(), logger, cfg.Name),
		stopPush:      stopPush,
		onStateChange: cfg.OnStateChange,
	}
}

// Start binds address (host:port) and starts accepting connections on it,
// delivering one Event per connection to d. It returns as soon as the node
// is listening.
//
// A malformed, unresolvable or unbindable address is reported as a
// CodeAddress error, and nothing is left open.
func (c *Controller) Start(address string, d Deliverer) (Handle, error) {
	if d == nil {
		return 0, headernodeerrors.InvalidArgumentErrorf("no deliverer given for node on %q", address)
	}

	n := newNode(nodeParams{
		Address:       address,
		Deliverer:     d,
		Limits:        c.limits,
		Logger:        c.logger,
		Metrics:       c.metrics,
		OnStateChange: c.onStateChange,
	})
	if err := n.start(); err != nil {
		return 0, err
	}

	h, ok := c.nodes.add(n)
	if !ok {
		err := headernodeerrors.InvalidArgumentErrorf("controller %q cannot hold more nodes", c.name)
		return 0, multierr.Append(err, n.stop())
	}
	return h, nil
}

// Stop stops the node behind *h, blocks until it has fully stopped, and
// sets *h to zero. After Stop returns the Deliverer will not be called
// again for this node.
//
// Stopping a nil, zero or already stopped Handle returns a
// CodeInvalidHandle error. A CodeShutdown error means some resource could
// not be released cleanly; the Handle is consumed either way.
func (c *Controller) Stop(h *Handle) error {
	if h == nil {
		return headernodeerrors.InvalidHandleErrorf("nil handle")
	}

	n, ok := c.nodes.remove(*h)
	if !ok {
		return headernodeerrors.InvalidHandleErrorf("handle %#x does not refer to a running node", uintptr(*h))
	}
	err := n.stop()
	*h = 0
	return err
}

// Addr returns the address the node behind h is bound to. This is how
// callers learn the port picked for "host:0".
func (c *Controller) Addr(h Handle) (net.Addr, error) {
	n, ok := c.nodes.get(h)
	if !ok {
		return nil, headernodeerrors.InvalidHandleErrorf("handle %#x does not refer to a running node", uintptr(h))
	}
	return n.addr(), nil
}

// State returns the lifecycle state of the node behind h.
func (c *Controller) State(h Handle) (State, error) {
	n, ok := c.nodes.get(h)
	if !ok {
		return Stopped, headernodeerrors.InvalidHandleErrorf("handle %#x does not refer to a running node", uintptr(h))
	}
	return n.state(), nil
}

// Len returns the number of nodes that have been started and not stopped.
func (c *Controller) Len() int {
	return c.nodes.len()
}

// Metrics returns the metrics root every node of this controller reports
// to.
func (c *Controller) Metrics() *metrics.Root {
	return c.root
}

// Close stops every node that is still running and stops pushing metrics.
// Handles for those nodes become invalid. Close may be called more than
// once.
func (c *Controller) Close() error {
	var err error
	for _, n := range c.nodes.drain() {
		err = multierr.Append(err, n.stop())
	}
	c.closeOnce.Do(c.stopPush)
	return err
}
