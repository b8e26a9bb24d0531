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
	"math/bits"
	"sync"
)

// Handle identifies a running node. It is a pointer-sized integer that can
// cross a foreign-function boundary unchanged; it is never a Go pointer.
//
// The zero Handle is never valid.
type Handle uintptr

// Half of a Handle holds the slot index, the other half the generation of
// that slot. A slot's generation is bumped every time it is reused, so a
// Handle kept past Stop no longer matches anything.
const (
	_slotBits = bits.UintSize / 2
	_slotMask = 1<<_slotBits - 1
	_maxGen   = 1<<(bits.UintSize-_slotBits) - 1
)

func makeHandle(slot int, gen uint64) Handle {
	return Handle(uintptr(gen)<<_slotBits | uintptr(slot))
}

func (h Handle) slot() int {
	return int(uintptr(h) & _slotMask)
}

func (h Handle) gen() uint64 {
	return uint64(uintptr(h) >> _slotBits)
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h == 0
}

type registrySlot struct {
	gen  uint64
	node *node
}

// registry is a generation-checked arena of running nodes.
type registry struct {
	mu    sync.Mutex
	slots []registrySlot
	free  []int
}

// add stores n and returns its Handle. It returns false if every slot is
// in use.
func (r *registry) add(n *node) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slot int
	if last := len(r.free) - 1; last >= 0 {
		slot = r.free[last]
		r.free = r.free[:last]
	} else {
		if len(r.slots) > _slotMask {
			return 0, false
		}
		slot = len(r.slots)
		r.slots = append(r.slots, registrySlot{})
	}

	s := &r.slots[slot]
	s.gen++
	if s.gen > _maxGen {
		// Generation zero is skipped so no Handle is ever zero.
		s.gen = 1
	}
	s.node = n
	return makeHandle(slot, s.gen), true
}

// get returns the node for h without removing it.
func (r *registry) get(h Handle) (*node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.lookup(h)
	if !ok {
		return nil, false
	}
	return s.node, true
}

// remove takes the node for h out of the registry. Exactly one caller gets
// true for a given Handle.
func (r *registry) remove(h Handle) (*node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.lookup(h)
	if !ok {
		return nil, false
	}
	n := s.node
	s.node = nil
	r.free = append(r.free, h.slot())
	return n, true
}

// drain empties the registry and returns everything that was in it.
func (r *registry) drain() []*node {
	r.mu.Lock()
	defer r.mu.Unlock()

	var nodes []*node
	for i := range r.slots {
		s := &r.slots[i]
		if s.node == nil {
			continue
		}
		nodes = append(nodes, s.node)
		s.node = nil
		r.free = append(r.free, i)
	}
	return nodes
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.slots {
		if s.node != nil {
			n++
		}
	}
	return n
}

func (r *registry) lookup(h Handle) (*registrySlot, bool) {
	if h == 0 {
		return nil, false
	}
	slot := h.slot()
	if slot >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[slot]
	if s.node == nil || s.gen != h.gen() {
		return nil, false
	}
	return s, true
}
