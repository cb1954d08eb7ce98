/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"bytes"
	"fmt"
	"sync/atomic"
)

type metricType int

const (
	// The following 2 keep track of hits and misses.
	hit = iota
	miss
	// The following keeps track of entries evicted by a policy.
	evict
	// The following 2 keep track of admission decisions.
	admit
	reject
	// The following keeps track of every recorded access.
	operation
	// This should be the final enum. Other enums should be set before this.
	doNotUse
)

func stringFor(t metricType) string {
	switch t {
	case hit:
		return "hit"
	case miss:
		return "miss"
	case evict:
		return "evictions"
	case admit:
		return "admissions"
	case reject:
		return "rejections"
	case operation:
		return "operations"
	default:
		return "unidentified"
	}
}

// Stats counts what a policy did over a trace. The zero value is ready to use and a nil
// *Stats ignores every record.
type Stats struct {
	all [doNotUse]uint64
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{}
}

func (p *Stats) add(t metricType, delta uint64) {
	if p == nil {
		return
	}
	atomic.AddUint64(&p.all[t], delta)
}

func (p *Stats) get(t metricType) uint64 {
	if p == nil {
		return 0
	}
	return atomic.LoadUint64(&p.all[t])
}

// RecordHit counts an access that found its key.
func (p *Stats) RecordHit() { p.add(hit, 1) }

// RecordMiss counts an access that did not find its key.
func (p *Stats) RecordMiss() { p.add(miss, 1) }

// RecordEviction counts an entry removed to make room.
func (p *Stats) RecordEviction() { p.add(evict, 1) }

// RecordAdmission counts a candidate admitted over its victim.
func (p *Stats) RecordAdmission() { p.add(admit, 1) }

// RecordRejection counts a candidate rejected in favor of its victim.
func (p *Stats) RecordRejection() { p.add(reject, 1) }

// RecordOperation counts one access of any kind.
func (p *Stats) RecordOperation() { p.add(operation, 1) }

// Hits is the number of accesses where the key was resident.
func (p *Stats) Hits() uint64 { return p.get(hit) }

// Misses is the number of accesses where the key was not resident.
func (p *Stats) Misses() uint64 { return p.get(miss) }

// Evictions is the number of entries evicted.
func (p *Stats) Evictions() uint64 { return p.get(evict) }

// Admissions is the number of candidates the admission filter accepted.
func (p *Stats) Admissions() uint64 { return p.get(admit) }

// Rejections is the number of candidates the admission filter refused.
func (p *Stats) Rejections() uint64 { return p.get(reject) }

// Operations is the number of recorded accesses.
func (p *Stats) Operations() uint64 { return p.get(operation) }

// Ratio is the number of Hits over all accesses (Hits + Misses).
func (p *Stats) Ratio() float64 {
	if p == nil {
		return 0.0
	}
	hits, misses := p.get(hit), p.get(miss)
	if hits == 0 && misses == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+misses)
}

// Clear resets all the counters.
func (p *Stats) Clear() {
	if p == nil {
		return
	}
	for i := 0; i < doNotUse; i++ {
		atomic.StoreUint64(&p.all[i], 0)
	}
}

// String returns a string representation of the counters.
func (p *Stats) String() string {
	if p == nil {
		return ""
	}
	var buf bytes.Buffer
	for i := 0; i < doNotUse; i++ {
		t := metricType(i)
		fmt.Fprintf(&buf, "%s: %d ", stringFor(t), p.get(t))
	}
	fmt.Fprintf(&buf, "hit-ratio: %.2f", p.Ratio())
	return buf.String()
}
