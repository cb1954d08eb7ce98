/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package arc implements an ARC-style two-segment cache whose boundary is tuned from workload
// statistics instead of ghost-list hits.
//
// T1 holds keys seen once and T2 keys seen at least twice. Every access also feeds an
// Indicator; once it sampled a full horizon the target size of T1 is recomputed from the mean
// frequency hint and the skew of the window.
package arc

import (
	"math"

	"github.com/pkg/errors"

	"github.com/hintlfu/hintlfu"
	"github.com/hintlfu/hintlfu/internal/list"
)

// ARC is not safe for concurrent access.
type ARC struct {
	data      map[uint64]*list.Element
	t1        *list.List
	t2        *list.List
	indicator *hintlfu.Indicator
	stats     *hintlfu.Stats

	capacity int64
	p        int64
	horizon  int64
	fixed    bool
}

// A Option configures an ARC.
type Option func(*ARC)

// WithFixedBoundary pins the target size of T1 to p and disables retuning.
func WithFixedBoundary(p int64) Option {
	return func(c *ARC) {
		c.p = p
		c.fixed = true
	}
}

// WithHorizon sets the number of accesses between two boundary updates. It defaults to ten
// times the capacity.
func WithHorizon(horizon int64) Option {
	if horizon <= 0 {
		panic("arc: horizon must be positive")
	}
	return func(c *ARC) {
		c.horizon = horizon
	}
}

// WithIndicator replaces the indicator that drives the boundary.
func WithIndicator(ind *hintlfu.Indicator) Option {
	return func(c *ARC) {
		c.indicator = ind
	}
}

// WithStats configures ARC to count hits, misses, evictions and operations into stats.
func WithStats(stats *hintlfu.Stats) Option {
	return func(c *ARC) {
		c.stats = stats
	}
}

// New creates an ARC holding at most capacity keys.
func New(capacity int64, opts ...Option) *ARC {
	if capacity <= 0 {
		panic("arc: capacity must be positive")
	}
	c := &ARC{
		data:     make(map[uint64]*list.Element),
		t1:       list.New(),
		t2:       list.New(),
		capacity: capacity,
		p:        capacity / 4,
		horizon:  10 * capacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.p < 0 || c.p > capacity {
		panic("arc: boundary must be within [0, capacity]")
	}
	if c.indicator == nil && !c.fixed {
		c.indicator = hintlfu.NewIndicator(capacity)
	}
	return c
}

// Record accesses key and reports whether it was resident.
func (c *ARC) Record(key uint64) bool {
	c.stats.RecordOperation()
	c.adapt(key)

	node, ok := c.data[key]
	if !ok {
		c.onMiss(key)
		return false
	}
	c.onHit(node)
	return true
}

// adapt feeds the indicator and retunes the boundary at the end of every horizon.
func (c *ARC) adapt(key uint64) {
	if c.fixed {
		return
	}
	c.indicator.Record(key)
	if c.indicator.Sample() < c.horizon {
		return
	}
	c.p = Boundary(c.capacity, c.indicator.Hint(), c.indicator.Skew())
	c.indicator.Reset()
}

// Boundary returns the target size of T1 for the given hint and skew:
// capacity * (0.3 - (4 - hint*damping) / 100) with damping 1 - skew^3 below skew 1 and 0
// above, clamped to [0, capacity].
func Boundary(capacity int64, hint, skew float64) int64 {
	damping := 0.0
	if skew < 1 {
		damping = 1 - math.Pow(skew, 3)
	}
	p := int64(float64(capacity) * (0.3 - (4-hint*damping)/100))
	return min(max(p, 0), capacity)
}

// onHit moves the node to the MRU end of T2.
func (c *ARC) onHit(node *list.Element) {
	if node.List() == c.t2 {
		node.MoveToBack()
	} else {
		c.t2.PushBack(node)
	}
	c.stats.RecordHit()
}

// onMiss appends key to T1 and, if the cache overflowed, evicts the LRU end of T2 while T1 is
// within its target size and the LRU end of T1 otherwise.
func (c *ARC) onMiss(key uint64) {
	node := &list.Element{Value: key}
	c.t1.PushBack(node)
	c.data[key] = node
	c.stats.RecordMiss()

	if c.Len() <= c.capacity {
		return
	}
	victim := c.t1.Front()
	if int64(c.t1.Len()) <= c.p && c.t2.Len() > 0 {
		victim = c.t2.Front()
	}
	delete(c.data, victim.Value)
	victim.Remove()
	c.stats.RecordEviction()
}

// checkLinks walks l in both directions and checks that every node is mapped to itself and
// that both walks count l.Len() nodes.
func (c *ARC) checkLinks(l *list.List) error {
	var forward, backward int
	for node := l.Front(); node != nil; node = node.Next() {
		if c.data[node.Value] != node {
			return errors.Errorf("arc: node of key %d is not the mapped one", node.Value)
		}
		forward++
	}
	for node := l.Back(); node != nil; node = node.Prev() {
		backward++
	}
	if forward != l.Len() || backward != l.Len() {
		return errors.Errorf("arc: list of length %d walks %d forward and %d backward",
			l.Len(), forward, backward)
	}
	return nil
}

// Len returns the number of resident keys.
func (c *ARC) Len() int64 {
	return int64(c.t1.Len() + c.t2.Len())
}

// Contains reports whether key is resident without recording an access.
func (c *ARC) Contains(key uint64) bool {
	_, ok := c.data[key]
	return ok
}

// InT1 reports whether key is resident in T1.
func (c *ARC) InT1(key uint64) bool {
	node, ok := c.data[key]
	return ok && node.List() == c.t1
}

// InT2 reports whether key is resident in T2.
func (c *ARC) InT2(key uint64) bool {
	node, ok := c.data[key]
	return ok && node.List() == c.t2
}

// Sizes returns the lengths of T1 and T2.
func (c *ARC) Sizes() (t1, t2 int64) {
	return int64(c.t1.Len()), int64(c.t2.Len())
}

// P returns the target size of T1.
func (c *ARC) P() int64 { return c.p }

// Stats returns the counters configured with WithStats.
func (c *ARC) Stats() *hintlfu.Stats { return c.stats }

// Finished checks that the list sizes match the key map and fit the capacity.
func (c *ARC) Finished() error {
	var inT1, inT2 int
	for key, node := range c.data {
		switch node.List() {
		case c.t1:
			inT1++
		case c.t2:
			inT2++
		default:
			return errors.Errorf("arc: key %d is mapped but in no segment", key)
		}
	}
	if inT1 != c.t1.Len() || inT2 != c.t2.Len() {
		return errors.Errorf("arc: segment sizes %d/%d do not match membership %d/%d",
			c.t1.Len(), c.t2.Len(), inT1, inT2)
	}
	for _, l := range []*list.List{c.t1, c.t2} {
		if err := c.checkLinks(l); err != nil {
			return err
		}
	}
	if c.Len() > c.capacity {
		return errors.Errorf("arc: %d entries exceed capacity %d", c.Len(), c.capacity)
	}
	if c.p < 0 || c.p > c.capacity {
		return errors.Errorf("arc: boundary %d outside [0, %d]", c.p, c.capacity)
	}
	return nil
}
