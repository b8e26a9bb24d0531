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
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
)

const _addressTag = "address"

// controllerMetrics are registered once per controller. Nodes pick their
// own counters out of the vectors by address, so restarting a node on the
// same address keeps adding to the same series.
type controllerMetrics struct {
	accepted   *metrics.CounterVector
	rejected   *metrics.CounterVector
	acceptErrs *metrics.CounterVector
	extractErr *metrics.CounterVector
	events     *metrics.CounterVector
	dropped    *metrics.CounterVector
	panics     *metrics.CounterVector
	inflight   *metrics.GaugeVector
}

func newControllerMetrics(meter *metrics.Scope, logger *zap.Logger, name string) *controllerMetrics {
	tags := metrics.Tags{
		"component":  _packageName,
		"controller": scrubTagValue(name),
	}
	counter := func(name, help string) *metrics.CounterVector {
		v, err := meter.CounterVector(metrics.Spec{
			Name:      name,
			Help:      help,
			ConstTags: tags,
			VarTags:   []string{_addressTag},
		})
		if err != nil {
			logger.Error("Failed to create counter.", zap.String("name", name), zap.Error(err))
		}
		return v
	}

	inflight, err := meter.GaugeVector(metrics.Spec{
		Name:      "inflight_connections",
		Help:      "Connections whose header block is being read.",
		ConstTags: tags,
		VarTags:   []string{_addressTag},
	})
	if err != nil {
		logger.Error("Failed to create inflight connections gauge.", zap.Error(err))
	}

	return &controllerMetrics{
		accepted:   counter("connections_accepted", "Total number of connections accepted."),
		rejected:   counter("connections_rejected", "Connections closed without being read because the node was busy or draining."),
		acceptErrs: counter("accept_errors", "Failed calls to accept."),
		extractErr: counter("extraction_errors", "Connections that did not produce a valid header block."),
		events:     counter("header_events", "Header events delivered."),
		dropped:    counter("dropped_events", "Header blocks read after stop began and never delivered."),
		panics:     counter("deliverer_panics", "Deliverer calls that panicked."),
		inflight:   inflight,
	}
}

// observer records what happens to one node.
type observer struct {
	accepted   *metrics.Counter
	rejected   *metrics.Counter
	acceptErrs *metrics.Counter
	extractErr *metrics.Counter
	events     *metrics.Counter
	dropped    *metrics.Counter
	panics     *metrics.Counter
	inflight   *metrics.Gauge
}

func (m *controllerMetrics) observer(address string, logger *zap.Logger) *observer {
	tag := scrubTagValue(address)
	counter := func(v *metrics.CounterVector) *metrics.Counter {
		if v == nil {
			return nil
		}
		c, err := v.Get(_addressTag, tag)
		if err != nil {
			logger.Error("Failed to get counter.", zap.String(_addressTag, tag), zap.Error(err))
		}
		return c
	}

	var inflight *metrics.Gauge
	if m.inflight != nil {
		g, err := m.inflight.Get(_addressTag, tag)
		if err != nil {
			logger.Error("Failed to get inflight gauge.", zap.String(_addressTag, tag), zap.Error(err))
		}
		inflight = g
	}

	return &observer{
		accepted:   counter(m.accepted),
		rejected:   counter(m.rejected),
		acceptErrs: counter(m.acceptErrs),
		extractErr: counter(m.extractErr),
		events:     counter(m.events),
		dropped:    counter(m.dropped),
		panics:     counter(m.panics),
		inflight:   inflight,
	}
}

func (o *observer) connectionAccepted() {
	o.accepted.Inc()
	o.inflight.Inc()
}

func (o *observer) connectionDone() {
	o.inflight.Dec()
}

func (o *observer) connectionRejected() {
	o.rejected.Inc()
}

func (o *observer) acceptError() {
	o.acceptErrs.Inc()
}

func (o *observer) extractionError() {
	o.extractErr.Inc()
}

func (o *observer) eventDelivered() {
	o.events.Inc()
}

func (o *observer) eventDropped() {
	o.dropped.Inc()
}

func (o *observer) delivererPanicked() {
	o.panics.Inc()
}
