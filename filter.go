/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"encoding/binary"
	"math"

	farm "github.com/dgryski/go-farm"
)

// Filter is a simple Bloom Filter implementation to be used as the Doorkeeper
// mechanism described in the TinyLFU paper [1] in section 3.4.2.
//
// [1]: https://arxiv.org/abs/1512.00727
type Filter struct {
	keys uint64
	data []byte
	mask uint64
}

// NewFilter creates a new Bloom Filter with the size being the max number of
// items to be stored (bits), and rate being the acceptable false positive rate.
func NewFilter(size uint64, rate float64) *Filter {
	if size == 0 {
		size = 1
	}
	m := -1 * float64(size) * math.Log(rate) / math.Pow(math.Log(2), 2)
	b := uint64(next2Power(int64(math.Ceil(m / 8))))
	return &Filter{
		keys: uint64(math.Ceil(math.Log(2) * m / float64(size))),
		data: make([]byte, b),
		mask: b - 1,
	}
}

// Set returns true if the key didn't exist in the Filter and the bits were set.
// Set returns false if the key did exist in the Filter and nothing was changed.
func (f *Filter) Set(key uint64) bool {
	changed := false
	for i := uint64(0); i < f.keys; i++ {
		block, bit := f.index(f.hash(key, i))
		if !f.has(block, bit) {
			changed = true
			f.data[block] |= 1 << bit
		}
	}
	return changed
}

// Has returns whether or not key is in the Filter. If false, it's definitely
// not. If true, it probably is.
func (f *Filter) Has(key uint64) bool {
	for i := uint64(0); i < f.keys; i++ {
		if !f.has(f.index(f.hash(key, i))) {
			return false
		}
	}
	return true
}

// Reset sets all bits to 0.
func (f *Filter) Reset() {
	for i := range f.data {
		f.data[i] = 0
	}
}

// has returns true if the bit value is 1, and false if 0. The bit value denotes
// the bit *within* the block (i.e. max value is 7).
func (f *Filter) has(block, bit uint64) bool {
	return f.data[block]<<(7-bit)>>7 == 1
}

// index returns the block and bit values for the hashed key param.
func (f *Filter) index(hashed uint64) (uint64, uint64) {
	return (hashed >> 3) & f.mask, hashed & 7
}

// hash returns the i-th hash of key.
func (f *Filter) hash(key uint64, i uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return farm.Hash64WithSeed(buf[:], i)
}
