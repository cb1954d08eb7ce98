/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"sort"
)

// DefaultSummaryCapacity is the number of counters a StreamSummary keeps by default.
const DefaultSummaryCapacity = 1000

// Counter is a monitored key of a StreamSummary. Count overestimates the true frequency of Key
// by at most Error.
type Counter struct {
	Key   uint64
	Count int64
	Error int64

	index int
}

func (c *Counter) less(other *Counter) bool {
	return c.Count < other.Count
}

// StreamSummary tracks the approximate top-K keys of a stream in bounded memory using the
// Space-Saving algorithm [1]. When a new key arrives and every counter is taken, the counter
// with the smallest count is reassigned to the new key.
//
// [1]: https://www.cs.ucsb.edu/sites/default/files/documents/2005-23.pdf
type StreamSummary struct {
	capacity int
	counters map[uint64]*Counter
	heap     counterHeap
}

// NewStreamSummary returns a summary monitoring at most capacity keys.
func NewStreamSummary(capacity int) *StreamSummary {
	if capacity <= 0 {
		panic("stream summary: bad capacity")
	}
	return &StreamSummary{
		capacity: capacity,
		counters: make(map[uint64]*Counter, capacity),
	}
}

// Offer records one occurrence of key.
func (s *StreamSummary) Offer(key uint64) {
	if c, ok := s.counters[key]; ok {
		c.Count++
		s.heap.Fix(c.index)
		return
	}
	if s.heap.Size() < s.capacity {
		c := &Counter{Key: key, Count: 1}
		s.counters[key] = c
		s.heap.Insert(c)
		return
	}
	c, _ := s.heap.Peek()
	delete(s.counters, c.Key)
	c.Key = key
	c.Error = c.Count
	c.Count++
	s.counters[key] = c
	s.heap.Fix(c.index)
}

// Size returns the number of monitored keys.
func (s *StreamSummary) Size() int { return s.heap.Size() }

// TopK returns copies of the k counters with the largest counts, in descending order of count.
// Ties are ordered by key.
func (s *StreamSummary) TopK(k int) []Counter {
	all := make([]Counter, 0, len(s.heap.items))
	for _, c := range s.heap.items {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Key < all[j].Key
	})
	if k < len(all) {
		all = all[:k]
	}
	return all
}

// Reset drops every counter.
func (s *StreamSummary) Reset() {
	s.counters = make(map[uint64]*Counter, s.capacity)
	s.heap.items = s.heap.items[:0]
}
