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
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/headernode/headernodeerrors"
	"go.uber.org/headernode/internal/extract"
	"go.uber.org/headernode/internal/lifecycle"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	// Pause after a failed accept so a persistent failure (out of file
	// descriptors, say) doesn't spin the accept goroutine. Stop cuts it
	// short.
	_acceptErrorPause = 10 * time.Millisecond

	// Upper bound on waiting for idle pool workers to exit once every task
	// has already finished.
	_poolReleaseTimeout = time.Second
)

// node is the state behind a Handle: the listener, the accept goroutine,
// the connections being read, and the bridge to the Deliverer.
type node struct {
	address   string
	limits    Limits
	extractor extract.Extractor
	logger    *zap.Logger
	observer  *observer
	bridge    *bridge
	once      *lifecycle.Once

	listener   *net.TCPListener
	pool       *ants.Pool // nil when extraction runs on the accept goroutine
	acceptDone chan struct{}
	workers    sync.WaitGroup

	connMu    sync.Mutex
	accepting bool
	conns     map[net.Conn]struct{}
}

type nodeParams struct {
	Address       string
	Deliverer     Deliverer
	Limits        Limits
	Logger        *zap.Logger
	Metrics       *controllerMetrics
	OnStateChange func(address string, from, to State)
}

func newNode(p nodeParams) *node {
	logger := p.Logger.With(zap.String("address", p.Address))
	o := p.Metrics.observer(p.Address, logger)

	n := &node{
		address:    p.Address,
		limits:     p.Limits,
		extractor:  p.Limits.extractor(),
		logger:     logger,
		observer:   o,
		bridge:     newBridge(p.Deliverer, logger, o),
		acceptDone: make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
	n.once = lifecycle.NewOnce(func(from, to State) {
		logger.Debug("header node changed state",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		if p.OnStateChange != nil {
			p.OnStateChange(p.Address, from, to)
		}
	})
	return n
}

// start binds the address and arms the accept goroutine. On failure nothing
// is left open.
func (n *node) start() error {
	return n.once.Start(n.bind)
}

func (n *node) bind() error {
	addr, err := resolveAddress(n.address)
	if err != nil {
		return err
	}

	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return headernodeerrors.AddressErrorf("cannot bind %q: %w", n.address, err)
	}

	if c := n.limits.concurrency(); c > 1 {
		pool, err := ants.NewPool(c,
			ants.WithNonblocking(true),
			ants.WithPanicHandler(n.workerPanicked),
		)
		if err != nil {
			_ = listener.Close()
			return headernodeerrors.InvalidArgumentErrorf("cannot build pool of %d extraction workers: %w", c, err)
		}
		n.pool = pool
	}

	n.listener = listener
	n.connMu.Lock()
	n.accepting = true
	n.connMu.Unlock()

	go n.acceptLoop()

	n.logger.Info("started header node",
		zap.Stringer("bound", listener.Addr()),
		zap.Int("concurrency", n.limits.concurrency()),
	)
	return nil
}

// stop drains the node and blocks until it is Stopped. The first call's
// result is returned to every caller.
func (n *node) stop() error {
	return n.once.Stop(n.teardown)
}

func (n *node) teardown() error {
	// Nothing is delivered from here on, and a delivery already running
	// has returned.
	n.bridge.close()

	n.connMu.Lock()
	n.accepting = false
	inflight := make([]net.Conn, 0, len(n.conns))
	for conn := range n.conns {
		inflight = append(inflight, conn)
	}
	n.connMu.Unlock()

	var err error
	if cerr := n.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		err = multierr.Append(err, fmt.Errorf("close listener: %w", cerr))
	}

	// Cancel extraction. The goroutine reading each connection still owns it
	// and closes it again on its way out.
	for _, conn := range inflight {
		_ = conn.Close()
	}

	<-n.acceptDone
	n.workers.Wait()

	if n.pool != nil {
		if perr := n.pool.ReleaseTimeout(_poolReleaseTimeout); perr != nil {
			err = multierr.Append(err, fmt.Errorf("release extraction workers: %w", perr))
		}
	}

	if err != nil {
		n.logger.Error("header node stopped with errors", zap.Error(err))
		return headernodeerrors.ShutdownErrorf("stopping node on %q: %w", n.address, err)
	}
	n.logger.Info("stopped header node", zap.Int("cancelled", len(inflight)))
	return nil
}

func (n *node) acceptLoop() {
	defer close(n.acceptDone)

	for {
		conn, err := n.listener.Accept()
		if err != nil {
			if n.once.State() >= Draining || errors.Is(err, net.ErrClosed) {
				return
			}

			n.observer.acceptError()
			n.logger.Warn("failed to accept connection",
				zap.Error(headernodeerrors.AcceptErrorf("accept on %q: %w", n.address, err)))

			pause := time.NewTimer(_acceptErrorPause)
			select {
			case <-n.once.Draining():
				pause.Stop()
				return
			case <-pause.C:
			}
			continue
		}

		n.serve(conn)
	}
}

// serve reads the header block of conn, either right here on the accept
// goroutine or on a pool worker.
func (n *node) serve(conn net.Conn) {
	if !n.track(conn) {
		n.observer.connectionRejected()
		_ = conn.Close()
		return
	}
	n.observer.connectionAccepted()
	n.logger.Debug("accepted connection", zap.Stringer("remote", conn.RemoteAddr()))

	if n.pool == nil {
		n.handle(conn)
		return
	}

	n.workers.Add(1)
	err := n.pool.Submit(func() {
		defer n.workers.Done()
		n.handle(conn)
	})
	if err != nil {
		n.workers.Done()
		n.observer.connectionRejected()
		n.release(conn)
		n.logger.Warn("rejected connection",
			zap.Stringer("remote", conn.RemoteAddr()),
			zap.Error(headernodeerrors.AcceptErrorf("no extraction worker available: %w", err)))
	}
}

func (n *node) handle(conn net.Conn) {
	defer n.release(conn)

	header, err := n.extractor.Extract(conn)
	if err != nil {
		if n.draining() {
			n.logger.Debug("cancelled header extraction",
				zap.Stringer("remote", conn.RemoteAddr()))
			return
		}
		n.observer.extractionError()
		n.logger.Warn("failed to extract header block",
			zap.Stringer("remote", conn.RemoteAddr()),
			zap.Error(headernodeerrors.ExtractionErrorf("%w", err)))
		return
	}

	n.bridge.deliver(Event{
		Header:     header,
		LocalAddr:  conn.LocalAddr(),
		RemoteAddr: conn.RemoteAddr(),
	})
}

func (n *node) workerPanicked(r interface{}) {
	n.logger.Error("extraction worker panicked",
		zap.String("panic", fmt.Sprint(r)),
		zap.Stack("stack"),
	)
}

// track adds conn to the in-flight set. It returns false once the node has
// begun draining.
func (n *node) track(conn net.Conn) bool {
	n.connMu.Lock()
	defer n.connMu.Unlock()

	if !n.accepting {
		return false
	}
	n.conns[conn] = struct{}{}
	return true
}

func (n *node) release(conn net.Conn) {
	n.connMu.Lock()
	delete(n.conns, conn)
	n.connMu.Unlock()

	_ = conn.Close()
	n.observer.connectionDone()
}

func (n *node) draining() bool {
	n.connMu.Lock()
	defer n.connMu.Unlock()
	return !n.accepting
}

func (n *node) addr() net.Addr {
	return n.listener.Addr()
}

func (n *node) state() State {
	return n.once.State()
}
