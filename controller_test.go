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

package headernode_test

import (
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/headernode"
	"go.uber.org/headernode/headernodeerrors"
	"go.uber.org/headernode/headernodetest"
	"go.uber.org/headernode/internal/testtime"
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const _minimalHeader = "X-Test: 1\r\n\r\n"

func newController(t *testing.T, cfg headernode.Config) *headernode.Controller {
	c := headernode.NewController(cfg)
	t.Cleanup(func() {
		assert.NoError(t, c.Close(), "controller close")
	})
	return c
}

func start(t *testing.T, c *headernode.Controller, d headernode.Deliverer) (headernode.Handle, string) {
	h, err := c.Start("127.0.0.1:0", d)
	require.NoError(t, err, "failed to start node")
	addr, err := c.Addr(h)
	require.NoError(t, err)
	return h, addr.String()
}

// send writes payload on a fresh connection, half-closes it, and waits for
// the node to close it.
func send(t *testing.T, addr, payload string) {
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err, "dial %v", addr)
	defer conn.Close()

	_, err = io.WriteString(conn, payload)
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())
	_, _ = io.Copy(io.Discard, conn)
}

func counterValue(root *metrics.Root, name string) int64 {
	var total int64
	for _, s := range root.Snapshot().Counters {
		if s.Name == name {
			total += s.Value
		}
	}
	return total
}

func gaugeValue(root *metrics.Root, name string) int64 {
	var total int64
	for _, s := range root.Snapshot().Gauges {
		if s.Name == name {
			total += s.Value
		}
	}
	return total
}

type transitions struct {
	mu    sync.Mutex
	steps []string
}

func (tr *transitions) record(_ string, from, to headernode.State) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.steps = append(tr.steps, from.String()+"->"+to.String())
}

func (tr *transitions) Steps() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.steps...)
}

func TestStartStopWithoutConnections(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	// No expectations: any delivery fails the test.
	d := headernodetest.NewMockDeliverer(mockCtrl)

	var tr transitions
	c := newController(t, headernode.Config{OnStateChange: tr.record})

	h, _ := start(t, c, d)
	assert.False(t, h.IsZero())

	state, err := c.State(h)
	require.NoError(t, err)
	assert.Equal(t, headernode.Listening, state)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Stop(&h))
	assert.True(t, h.IsZero(), "stop must consume the handle")
	assert.Equal(t, 0, c.Len())

	assert.Equal(t, []string{
		"created->listening",
		"listening->draining",
		"draining->stopped",
	}, tr.Steps())
}

func TestFailedStartReportsNoTransitions(t *testing.T) {
	var tr transitions
	c := newController(t, headernode.Config{OnStateChange: tr.record})

	h, err := c.Start("not-an-address", headernodetest.NewRecorder())
	require.Error(t, err)
	assert.True(t, h.IsZero())
	assert.Empty(t, tr.Steps())
}

func TestDeliversMinimalHeaderOnce(t *testing.T) {
	rec := headernodetest.NewRecorder()
	c := newController(t, headernode.Config{})
	h, addr := start(t, c, rec)

	send(t, addr, _minimalHeader)
	require.True(t, rec.WaitFor(1, testtime.Second), "no header event delivered")
	assert.Equal(t, []string{_minimalHeader}, rec.Headers())

	ev := rec.Events()[0]
	assert.Equal(t, len(_minimalHeader), ev.Len())
	assert.Equal(t, addr, ev.LocalAddr.String())
	assert.NotNil(t, ev.RemoteAddr)

	stopped := make(chan error, 1)
	go func() { stopped <- c.Stop(&h) }()
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(testtime.Scale(5 * time.Second)):
		t.Fatal("stop did not return in time")
	}

	_, err := net.Dial("tcp", addr)
	assert.Error(t, err, "a stopped node must refuse connections")
	assert.Equal(t, 1, rec.Len(), "exactly one event per connection")
}

func TestOneEventPerConnection(t *testing.T) {
	const clients = 10

	mockCtrl := gomock.NewController(t)
	d := headernodetest.NewMockDeliverer(mockCtrl)

	var delivered sync.WaitGroup
	delivered.Add(clients)
	d.EXPECT().Deliver(gomock.Any()).Times(clients).Do(func(e headernode.Event) {
		assert.Equal(t, _minimalHeader, string(e.Header))
		delivered.Done()
	})

	c := newController(t, headernode.Config{})
	h, addr := start(t, c, d)

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			send(t, addr, _minimalHeader+"trailing body")
		}()
	}
	// One connection that never finishes its header block.
	send(t, addr, "X-Test: 1\r\n")
	wg.Wait()
	delivered.Wait()

	require.NoError(t, c.Stop(&h))
	assert.Equal(t, int64(clients), counterValue(c.Metrics(), "header_events"))
	assert.Equal(t, int64(clients+1), counterValue(c.Metrics(), "connections_accepted"))
	assert.Equal(t, int64(1), counterValue(c.Metrics(), "extraction_errors"))
	assert.Equal(t, int64(0), gaugeValue(c.Metrics(), "inflight_connections"))
}

func TestExtractionFailuresAreIsolated(t *testing.T) {
	tests := []struct {
		desc    string
		payload string
	}{
		{desc: "truncated", payload: "X-Test: 1\r\n"},
		{desc: "empty", payload: "\r\n\r\n"},
		{desc: "nul byte", payload: "X-Test: \x00\r\n\r\n"},
		{desc: "too large", payload: strings.Repeat("a", 128) + "\r\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rec := headernodetest.NewRecorder()
			c := newController(t, headernode.Config{
				Limits: headernode.Limits{MaxHeaderBytes: 64},
			})
			h, addr := start(t, c, rec)

			send(t, addr, tt.payload)
			send(t, addr, _minimalHeader)

			require.True(t, rec.WaitFor(1, testtime.Second))
			require.NoError(t, c.Stop(&h))
			assert.Equal(t, []string{_minimalHeader}, rec.Headers(), "only the valid connection delivers")
			assert.Equal(t, int64(1), counterValue(c.Metrics(), "extraction_errors"))
		})
	}
}

func TestNoDeliveryAfterStop(t *testing.T) {
	var stopReturned atomic.Bool
	var late atomic.Int32
	d := headernode.DelivererFunc(func(headernode.Event) {
		if stopReturned.Load() {
			late.Inc()
		}
	})

	c := newController(t, headernode.Config{Limits: headernode.Limits{Concurrency: 4}})
	h, addr := start(t, c, d)

	done := make(chan struct{})
	var clients sync.WaitGroup
	for i := 0; i < 4; i++ {
		clients.Add(1)
		go func() {
			defer clients.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				conn, err := net.Dial("tcp", addr)
				if err != nil {
					continue
				}
				_, _ = io.WriteString(conn, _minimalHeader)
				_, _ = io.Copy(io.Discard, conn)
				conn.Close()
			}
		}()
	}

	testtime.Sleep(20 * time.Millisecond)
	require.NoError(t, c.Stop(&h))
	stopReturned.Store(true)

	testtime.Sleep(20 * time.Millisecond)
	close(done)
	clients.Wait()

	assert.Equal(t, int32(0), late.Load(), "deliverer called after stop returned")
}

func TestStopWaitsForDelivery(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	d := headernode.DelivererFunc(func(headernode.Event) {
		close(entered)
		<-release
	})

	c := newController(t, headernode.Config{})
	h, addr := start(t, c, d)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.WriteString(conn, _minimalHeader)
	require.NoError(t, err)
	<-entered

	stopped := make(chan error, 1)
	go func() { stopped <- c.Stop(&h) }()
	select {
	case <-stopped:
		t.Fatal("stop returned while the deliverer was still running")
	case <-time.After(testtime.Scale(50 * time.Millisecond)):
	}

	close(release)
	require.NoError(t, <-stopped)
}

// waitForAccepted blocks until the node has logged n accepted connections.
// Metrics are only read once the node has stopped.
func waitForAccepted(t *testing.T, logs *observer.ObservedLogs, n int) {
	require.Eventually(t, func() bool {
		return logs.FilterMessage("accepted connection").Len() == n
	}, testtime.Second, testtime.Millisecond)
}

func TestCancelsInFlightExtraction(t *testing.T) {
	rec := headernodetest.NewRecorder()
	core, logs := observer.New(zapcore.DebugLevel)
	c := newController(t, headernode.Config{Logging: headernode.LoggingConfig{Zap: zap.New(core)}})
	h, addr := start(t, c, rec)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.WriteString(conn, "X-Partial: 1\r\n")
	require.NoError(t, err)

	waitForAccepted(t, logs, 1)

	require.NoError(t, c.Stop(&h))
	assert.Equal(t, int64(0), gaugeValue(c.Metrics(), "inflight_connections"))

	// The node closed our connection; finishing the block changes nothing.
	_, _ = io.WriteString(conn, "\r\n")
	_, _ = io.Copy(io.Discard, conn)

	assert.Equal(t, 0, rec.Len(), "no partial header may be delivered")
	assert.Equal(t, int64(0), counterValue(c.Metrics(), "extraction_errors"),
		"cancellation is not an extraction error")
}

func TestStartInvalidAddress(t *testing.T) {
	tests := []string{
		"not-an-address",
		"",
		"127.0.0.1",
		"127.0.0.1:99999",
		"[::1",
	}

	c := newController(t, headernode.Config{})
	for _, address := range tests {
		t.Run(address, func(t *testing.T) {
			h, err := c.Start(address, headernodetest.NewRecorder())
			require.Error(t, err)
			assert.True(t, headernodeerrors.IsAddressError(err), "got %v", err)
			assert.True(t, h.IsZero())
			assert.Equal(t, 0, c.Len(), "no node context may remain")
		})
	}
}

func TestStartAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	c := newController(t, headernode.Config{})
	_, err = c.Start(ln.Addr().String(), headernodetest.NewRecorder())
	require.Error(t, err)
	assert.True(t, headernodeerrors.IsAddressError(err), "got %v", err)
	assert.Equal(t, 0, c.Len())
}

func TestStartNilDeliverer(t *testing.T) {
	c := newController(t, headernode.Config{})
	_, err := c.Start("127.0.0.1:0", nil)
	assert.True(t, headernodeerrors.IsInvalidArgument(err), "got %v", err)
	assert.Equal(t, 0, c.Len())
}

func TestRestartOnSameAddress(t *testing.T) {
	c := newController(t, headernode.Config{})
	h, addr := start(t, c, headernodetest.NewRecorder())
	require.NoError(t, c.Stop(&h))

	h2, err := c.Start(addr, headernodetest.NewRecorder())
	require.NoError(t, err, "the port must be released by stop")
	require.NoError(t, c.Stop(&h2))
}

func TestStopInvalidHandles(t *testing.T) {
	c := newController(t, headernode.Config{})

	assert.True(t, headernodeerrors.IsInvalidHandle(c.Stop(nil)))

	var zero headernode.Handle
	assert.True(t, headernodeerrors.IsInvalidHandle(c.Stop(&zero)))

	h, _ := start(t, c, headernodetest.NewRecorder())
	stale := h
	require.NoError(t, c.Stop(&h))
	assert.True(t, headernodeerrors.IsInvalidHandle(c.Stop(&h)), "second stop via the zeroed handle")
	assert.True(t, headernodeerrors.IsInvalidHandle(c.Stop(&stale)), "second stop via a copy")

	// The slot is reused by the next node, but the stale copy doesn't
	// reach it.
	h2, _ := start(t, c, headernodetest.NewRecorder())
	assert.NotEqual(t, stale, h2)
	assert.True(t, headernodeerrors.IsInvalidHandle(c.Stop(&stale)))
	_, err := c.Addr(stale)
	assert.True(t, headernodeerrors.IsInvalidHandle(err))
	_, err = c.State(stale)
	assert.True(t, headernodeerrors.IsInvalidHandle(err))

	require.NoError(t, c.Stop(&h2))
}

func TestConcurrentExtraction(t *testing.T) {
	rec := headernodetest.NewRecorder()
	c := newController(t, headernode.Config{Limits: headernode.Limits{Concurrency: 4}})
	h, addr := start(t, c, rec)

	// A client that never sends anything holds one worker...
	idle, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer idle.Close()

	// ...without holding up anyone else.
	send(t, addr, _minimalHeader)
	require.True(t, rec.WaitFor(1, testtime.Second))

	require.NoError(t, c.Stop(&h))
	assert.Equal(t, 1, rec.Len())
}

func TestRejectsWhenWorkersBusy(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newController(t, headernode.Config{
		Limits:  headernode.Limits{Concurrency: 2},
		Logging: headernode.LoggingConfig{Zap: zap.New(core)},
	})
	h, addr := start(t, c, headernodetest.NewRecorder())

	for i := 0; i < 2; i++ {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		defer conn.Close()
	}
	waitForAccepted(t, logs, 2)

	// Every worker is busy: the node closes this one straight away.
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.Copy(io.Discard, conn)
	assert.NoError(t, err)

	require.NoError(t, c.Stop(&h))
	assert.Equal(t, int64(1), counterValue(c.Metrics(), "connections_rejected"))
	assert.Equal(t, int64(3), counterValue(c.Metrics(), "connections_accepted"))
	assert.Equal(t, 1, logs.FilterMessage("rejected connection").Len())
}

func TestDelivererPanicIsContained(t *testing.T) {
	var calls atomic.Int32
	rec := headernodetest.NewRecorder()
	d := headernode.DelivererFunc(func(e headernode.Event) {
		if calls.Inc() == 1 {
			panic("great sadness")
		}
		rec.Deliver(e)
	})

	core, logs := observer.New(zapcore.ErrorLevel)
	c := newController(t, headernode.Config{Logging: headernode.LoggingConfig{Zap: zap.New(core)}})
	h, addr := start(t, c, d)

	send(t, addr, _minimalHeader)
	send(t, addr, _minimalHeader)
	require.True(t, rec.WaitFor(1, testtime.Second))
	require.NoError(t, c.Stop(&h))

	assert.Equal(t, int64(1), counterValue(c.Metrics(), "deliverer_panics"))
	assert.Equal(t, 1, logs.FilterMessage("deliverer panicked").Len())
}

func TestReadTimeout(t *testing.T) {
	rec := headernodetest.NewRecorder()
	c := newController(t, headernode.Config{
		Limits: headernode.Limits{ReadTimeout: testtime.Scale(20 * time.Millisecond)},
	})
	h, addr := start(t, c, rec)

	slow, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer slow.Close()
	_, err = io.Copy(io.Discard, slow)
	assert.NoError(t, err, "the node gives up on the slow client and closes it")

	send(t, addr, _minimalHeader)
	require.True(t, rec.WaitFor(1, testtime.Second))
	require.NoError(t, c.Stop(&h))
	assert.Equal(t, int64(1), counterValue(c.Metrics(), "extraction_errors"))
}

func TestLogsLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newController(t, headernode.Config{
		Name:    "edge",
		Logging: headernode.LoggingConfig{Zap: zap.New(core)},
	})

	h, _ := start(t, c, headernodetest.NewRecorder())
	require.NoError(t, c.Stop(&h))

	assert.Equal(t, 1, logs.FilterMessage("started header node").Len())
	assert.Equal(t, 1, logs.FilterMessage("stopped header node").Len())
	assert.Equal(t, 3, logs.FilterMessage("header node changed state").Len())

	for _, entry := range logs.All() {
		assert.Equal(t, "headernode", entry.LoggerName)
	}
}

func TestCloseStopsEveryNode(t *testing.T) {
	c := headernode.NewController(headernode.Config{
		Metrics: headernode.MetricsConfig{Tally: tally.NewTestScope("", nil)},
	})

	h1, addr1 := start(t, c, headernodetest.NewRecorder())
	_, addr2 := start(t, c, headernodetest.NewRecorder())
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.Len())
	assert.True(t, headernodeerrors.IsInvalidHandle(c.Stop(&h1)))

	for _, addr := range []string{addr1, addr2} {
		_, err := net.Dial("tcp", addr)
		assert.Error(t, err, "node on %v still accepting", addr)
	}

	require.NoError(t, c.Close(), "close is idempotent")
}

func TestPackageLevelStartStop(t *testing.T) {
	rec := headernodetest.NewRecorder()
	h, err := headernode.Start("127.0.0.1:0", rec)
	require.NoError(t, err)

	addr, err := headernode.Addr(h)
	require.NoError(t, err)

	send(t, addr.String(), _minimalHeader)
	require.True(t, rec.WaitFor(1, testtime.Second))

	require.NoError(t, headernode.Stop(&h))
	assert.True(t, h.IsZero())
	assert.True(t, headernodeerrors.IsInvalidHandle(headernode.Stop(&h)))
}
