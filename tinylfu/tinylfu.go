// Package tinylfu is an implementation of the W-TinyLFU caching algorithm.
// See details at http://arxiv.org/abs/1512.00727
//
// The split between the admission window and the main segments can be moved
// at runtime by a hintlfu.Climber.
package tinylfu

import (
	"github.com/hintlfu/hintlfu"
	"github.com/hintlfu/hintlfu/internal/list"
)

// Policy implements a windowed TinyLFU eviction policy. It is not safe for concurrent access.
type Policy struct {
	data     map[uint64]*list.Element
	admittor AdmissionPolicy
	stats    StatsRecorder
	climber  hintlfu.Climber

	window    *list.List
	probation *list.List
	protected *list.List

	capacity     int
	maxWindow    int
	maxProtected int
}

// New creates a new TinyLFU cache.
func New(capacity int, opts ...Option) *Policy {
	// Consistent behavior relies on capacity for one element in each segment.
	if capacity < 3 {
		panic("tinylfu: capacity must be at least 3")
	}

	p := &Policy{
		data:      make(map[uint64]*list.Element),
		window:    list.New(),
		probation: list.New(),
		protected: list.New(),
		capacity:  capacity,
	}

	WithSegmentation(hintlfu.DefaultPercentMain, 0.8)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Len returns the number of items in the cache.
func (p *Policy) Len() int {
	return p.window.Len() + p.probation.Len() + p.protected.Len()
}

// MaxWindow returns the current capacity of the admission window.
func (p *Policy) MaxWindow() int { return p.maxWindow }

// MaxProtected returns the current capacity of the protected segment.
func (p *Policy) MaxProtected() int { return p.maxProtected }

// Contains reports whether key is resident without recording an access.
func (p *Policy) Contains(key uint64) bool {
	_, ok := p.data[key]
	return ok
}

// Record updates the policy when an entry is accessed and reports whether it
// was resident.
func (p *Policy) Record(key uint64) bool {
	if p.admittor != nil {
		p.admittor.Record(key)
	}

	node, ok := p.data[key]
	if !ok {
		if p.stats != nil {
			p.stats.RecordMiss()
		}
		if p.climber != nil {
			p.climber.OnMiss(key)
		}
		p.onMiss(key)
		p.climb()
		return false
	}

	if p.stats != nil {
		p.stats.RecordHit()
	}

	switch node.List() {
	case p.window:
		p.onHit(key, hintlfu.Window)
		node.MoveToFront()

	case p.protected:
		p.onHit(key, hintlfu.Protected)
		node.MoveToFront()

	case p.probation:
		p.onHit(key, hintlfu.Probation)

		// Promote the accessed item to the protected segment.
		p.protected.PushFront(node)
		p.demoteProtected()
	}
	p.climb()
	return true
}

func (p *Policy) onHit(key uint64, queue hintlfu.QueueType) {
	if p.climber != nil {
		p.climber.OnHit(key, queue)
	}
}

// onMiss adds the entry to the admission window, evicting if necessary.
func (p *Policy) onMiss(key uint64) {
	if p.window.Len() < p.maxWindow && len(p.data) < p.capacity {
		p.insertNew(key)
		return
	}

	candidate := p.window.Back()
	if candidate != nil {
		p.probation.PushFront(candidate)
	}

	if len(p.data) < p.capacity {
		p.insertNew(key)
		return
	}

	victim, evict := p.probation.Back(), candidate
	if p.admittor == nil || candidate == nil || p.admittor.Admit(candidate.Value, victim.Value) {
		evict = victim
	}

	delete(p.data, evict.Value)
	evict.Value = key
	p.data[key] = evict
	p.window.PushFront(evict)

	if p.stats != nil {
		p.stats.RecordEviction()
	}
}

// insertNew allocates a new element and adds it to the admission window segment.
// This is the only time a node is allocated.
func (p *Policy) insertNew(key uint64) {
	node := &list.Element{Value: key}
	p.window.PushFront(node)
	p.data[key] = node
}

// climb asks the climber for a decision and resizes the segments. The window
// stays within [1, capacity-2] and the protected segment keeps at least one
// slot while leaving one for probation.
func (p *Policy) climb() {
	if p.climber == nil {
		return
	}
	a := p.climber.Adapt(int64(p.window.Len()), int64(p.protected.Len()))
	amount := int(min(a.Amount, int64(p.capacity)))

	prevWindow := p.maxWindow
	switch a.Kind {
	case hintlfu.IncreaseWindow:
		p.maxWindow = min(p.maxWindow+amount, p.capacity-2)
	case hintlfu.DecreaseWindow:
		p.maxWindow = max(p.maxWindow-amount, 1)
	default:
		return
	}

	// Protected gives up or takes back only what the window actually moved.
	maxMain := p.capacity - p.maxWindow
	p.maxProtected -= p.maxWindow - prevWindow
	p.maxProtected = max(min(p.maxProtected, maxMain-1), 1)

	// Shrinking segments hand their LRU entries down towards probation.
	for p.window.Len() > p.maxWindow {
		p.probation.PushFront(p.window.Back())
	}
	p.demoteProtected()
}

// demoteProtected moves the oldest protected items to probation while the
// protected segment is over its capacity.
func (p *Policy) demoteProtected() {
	for p.protected.Len() > p.maxProtected {
		p.probation.PushFront(p.protected.Back())
	}
}
