/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package hintlfu is a cache-admission and self-tuning eviction engine. It contains a
// 4-bit Count-Min sketch with several competing reset strategies, a workload statistics
// engine (the Indicator) fed by a shadow sketch, a TinyLFU admission filter and a
// hill-climbing controller that turns workload statistics into window resize decisions.
//
// The freshness mechanism of the sketch follows the original TinyLFU paper [1]: counters are
// halved periodically so that stale popularity ages out.
//
// [1]: https://arxiv.org/abs/1512.00727
package hintlfu

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// ErrSketchInUse is returned when a sketch is resized after it has been incremented.
var ErrSketchInUse = errors.New("sketch: capacity cannot change after the first increment")

// cmSketch is a Count-Min sketch implementation with 4-bit counters, heavily
// based on Damian Gryski's CM4 [1].
//
// Each row is a byte slice holding two counters per byte: counter n lives in byte n/2, in the
// low nibble when n is even and in the high nibble when n is odd.
//
// [1]: https://github.com/dgryski/go-tinylfu/blob/master/cm4.go
type cmSketch struct {
	rows [cmDepth]cmRow
	seed [cmDepth]uint64
	mask uint64
	// used is set by the first increment, after which the table can no longer be resized.
	used bool
}

const (
	// cmDepth is the number of counter copies to store (think of it as rows).
	// This value hasn't changed in years. The functions below using `fourIndexes`
	// use that fact to unwind the loops.
	cmDepth = 4
	// cmMinCounters is the smallest row width.
	cmMinCounters = 16
	// cmMaxCounter is the saturation value of a 4-bit counter.
	cmMaxCounter = 15
)

// newCmSketch returns a sketch sized for a cache holding maximumSize entries.
func newCmSketch(maximumSize int64) *cmSketch {
	if maximumSize <= 0 {
		panic("cmSketch: bad maximumSize")
	}
	s := &cmSketch{}
	// Cryptographic precision not needed
	source := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	for i := 0; i < cmDepth; i++ {
		s.seed[i] = spread(source.Uint64())
	}
	if err := s.ensureCapacity(maximumSize); err != nil {
		panic(err)
	}
	return s
}

// ensureCapacity sizes every row to the next power of two of at least three counters per
// cache entry. It only succeeds before the first increment.
func (s *cmSketch) ensureCapacity(maximumSize int64) error {
	if s.used {
		return ErrSketchInUse
	}
	numCounters := next2Power(3 * maximumSize)
	if numCounters < cmMinCounters {
		numCounters = cmMinCounters
	}
	s.mask = uint64(numCounters - 1)
	for i := 0; i < cmDepth; i++ {
		s.rows[i] = newCmRow(numCounters)
	}
	return nil
}

func circRightShift(x uint64, shift uint) uint64 {
	return (x << (64 - shift)) | (x >> shift)
}
func circLeftShift(x uint64, shift uint) uint64 {
	return (x << shift) | (x >> (64 - shift))
}

// Applies a supplemental hash function to a given hashCode, which defends against poor quality
// hash functions.
func spread(x uint64) uint64 {
	x = (circRightShift(x, 16) ^ x) * 0x45d9f3b
	x = (circRightShift(x, 16) ^ x) * 0x45d9f3b
	return circRightShift(x, 16) ^ x
}

func leftAndRight(x uint64) (l, r uint64) {
	l = x<<32 | (x & 0x00000000ffffffff)
	r = x>>32 | (x & 0xffffffff00000000)
	return
}

// fourIndexes returns the four indexes to use against the four rows for the given key.
// Because many 64 keys come in with low entropy in some portions of the 64 bits, some work is done
// to spread any entropy at all across all four index results, with the goal of minimizing the
// number of times similar keys results in similar row indexes.
func (s *cmSketch) fourIndexes(x uint64) (a, b, c, d uint64) {
	x = spread(x)
	l, r := leftAndRight(x)

	l = circLeftShift(l, 3)
	r = circRightShift(r, 5)

	l = circLeftShift(l, 8)
	a = (l ^ r)
	l = circLeftShift(l, 8)
	b = (l ^ (r >> 8))
	l = circLeftShift(l, 8)
	c = (l ^ (r >> 16))
	l = circLeftShift(l, 8)
	d = (l ^ (r >> 24))

	// Use the hash's lowest 6 bits to rotate each row's seed before it swivels the index.
	a ^= circRightShift(s.seed[0], uint(x&63))
	b ^= circRightShift(s.seed[1], uint(x&63))
	c ^= circRightShift(s.seed[2], uint(x&63))
	d ^= circRightShift(s.seed[3], uint(x&63))
	return
}

// Increment increments the counters for the specified key and reports whether any of them
// changed. Counters saturate at 15.
func (s *cmSketch) Increment(key uint64) bool {
	a, b, c, d := s.fourIndexes(key)
	m := s.mask
	s.used = true

	added := s.rows[0].increment(a & m)
	added = s.rows[1].increment(b&m) || added
	added = s.rows[2].increment(c&m) || added
	added = s.rows[3].increment(d&m) || added
	return added
}

// Estimate returns the value of the specified key.
// It does this by calculating the index for each row that `Increment` would have used for the
// specified key and returning the lowest of the four counters.
func (s *cmSketch) Estimate(key uint64) int64 {
	a, b, c, d := s.fourIndexes(key)
	m := s.mask

	// find the smallest counter value from all the rows
	v0 := s.rows[0].get(a & m)
	v1 := s.rows[1].get(b & m)
	v2 := s.rows[2].get(c & m)
	v3 := s.rows[3].get(d & m)
	if v1 < v0 {
		v0 = v1
	}
	if v3 < v2 {
		v2 = v3
	}
	if v2 < v0 {
		return int64(v2)
	}
	return int64(v0)
}

// Reset halves all counter values.
func (s *cmSketch) Reset() {
	for _, r := range s.rows {
		r.reset()
	}
}

// Clear zeroes all counters.
func (s *cmSketch) Clear() {
	for _, r := range s.rows {
		r.clear()
	}
}

// width is the number of bytes per row.
func (s *cmSketch) width() int {
	return len(s.rows[0])
}

// counters is the total number of counters over all rows.
func (s *cmSketch) counters() int64 {
	return int64(s.width()) * 2 * cmDepth
}

// halveByte halves the two counters held by byte i of every row.
func (s *cmSketch) halveByte(i int) {
	for _, r := range s.rows {
		r[i] = (r[i] >> 1) & 0x77
	}
}

// saturated returns the number of counters that reached 15.
func (s *cmSketch) saturated() int64 {
	var n int64
	for _, r := range s.rows {
		for _, b := range r {
			if b&0x0f == cmMaxCounter {
				n++
			}
			if b>>4 == cmMaxCounter {
				n++
			}
		}
	}
	return n
}

// cmRow is a row of bytes, with each byte holding two counters.
type cmRow []byte

func newCmRow(numCounters int64) cmRow {
	return make(cmRow, numCounters/2)
}

func (r cmRow) get(n uint64) byte {
	return byte(r[n/2]>>((n&1)*4)) & 0x0f
}

func (r cmRow) increment(n uint64) bool {
	// Index of the counter.
	i := n / 2
	// Shift distance (even 0, odd 4).
	s := (n & 1) * 4
	// Counter value.
	v := (r[i] >> s) & 0x0f
	// Only increment if not max value (overflow wrap is bad for LFU).
	if v < cmMaxCounter {
		r[i] += 1 << s
		return true
	}
	return false
}

func (r cmRow) reset() {
	// Halve each counter.
	for i := range r {
		r[i] = (r[i] >> 1) & 0x77
	}
}

func (r cmRow) clear() {
	// Zero each counter.
	for i := range r {
		r[i] = 0
	}
}

func (r cmRow) string() string {
	s := ""
	for i := uint64(0); i < uint64(len(r)*2); i++ {
		s += fmt.Sprintf("%02d ", (r[(i/2)]>>((i&1)*4))&0x0f)
	}
	s = s[:len(s)-1]
	return s
}

// next2Power rounds x up to the next power of 2, if it's not already one.
func next2Power(x int64) int64 {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	return x
}
