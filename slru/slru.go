// Package slru implements a segmented LRU policy over uint64 keys. New keys enter a probation
// segment and move to a protected segment on their second access. An optional admission
// policy decides whether a new key may replace the oldest probationary one.
package slru

import (
	"github.com/hintlfu/hintlfu/internal/list"
)

// An Admittor filters the keys let into a full cache. *hintlfu.TinyLFU is the usual
// implementation.
type Admittor interface {
	Record(key uint64)
	Admit(candidate uint64, victim uint64) bool
}

// A StatsRecorder receives hit, miss and eviction events.
type StatsRecorder interface {
	RecordMiss()
	RecordHit()
	RecordEviction()
}

// A Option configures a Cache.
type Option func(c *Cache)

// WithAdmission filters new keys through admittor once the cache is full.
func WithAdmission(admittor Admittor) Option {
	return func(c *Cache) {
		c.admittor = admittor
	}
}

// WithRecorder reports hits, misses and evictions to recorder.
func WithRecorder(recorder StatsRecorder) Option {
	return func(c *Cache) {
		c.stats = recorder
	}
}

// Cache is a segmented LRU cache. It is not safe for concurrent access.
type Cache struct {
	data      map[uint64]*list.Element
	probation *list.List
	protected *list.List
	admittor  Admittor
	stats     StatsRecorder

	maxProbation int
	maxProtected int
}

// New creates a new SLRU cache.
//
// Segment capacities must be positive.
func New(maxProbation int, maxProtected int, opts ...Option) *Cache {
	if maxProbation < 1 || maxProtected < 1 {
		panic("slru: segment capacities must be positive")
	}

	c := &Cache{
		data:         make(map[uint64]*list.Element),
		probation:    list.New(),
		maxProbation: maxProbation,
		protected:    list.New(),
		maxProtected: maxProtected,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record updates the cache for an access of key and reports whether it was resident.
func (c *Cache) Record(key uint64) bool {
	if c.admittor != nil {
		c.admittor.Record(key)
	}

	e, hit := c.data[key]
	if !hit {
		if c.stats != nil {
			c.stats.RecordMiss()
		}
		c.onMiss(key)
		return false
	}
	if c.stats != nil {
		c.stats.RecordHit()
	}

	if e.List() == c.protected {
		e.MoveToFront()
		return true
	}

	// Make room in the protected segment by demoting its oldest entry.
	if c.protected.Len() >= c.maxProtected {
		c.probation.PushFront(c.protected.Back())
	}
	c.protected.PushFront(e)
	return true
}

func (c *Cache) onMiss(key uint64) {
	if c.Len() < c.maxProbation+c.maxProtected {
		e := &list.Element{Value: key}
		c.probation.PushFront(e)
		c.data[key] = e
		return
	}

	// Reuse the tail item.
	victim := c.probation.Back()
	if c.admittor != nil && !c.admittor.Admit(key, victim.Value) {
		return
	}
	delete(c.data, victim.Value)
	victim.Value = key
	c.data[key] = victim
	victim.MoveToFront()

	if c.stats != nil {
		c.stats.RecordEviction()
	}
}

// Len returns the number of items in the cache.
func (c *Cache) Len() int {
	return c.probation.Len() + c.protected.Len()
}

// Capacity returns the number of items the cache holds when full.
func (c *Cache) Capacity() int {
	return c.maxProbation + c.maxProtected
}

// Contains reports whether key is resident without recording an access.
func (c *Cache) Contains(key uint64) bool {
	_, ok := c.data[key]
	return ok
}
