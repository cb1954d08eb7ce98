/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// CountMin64 is a Count-Min sketch with 64-bit counters. It does not saturate at 15 and halves
// the whole table once every period increments.
type CountMin64 struct {
	rows          [cmDepth][]uint64
	seed          [cmDepth]uint64
	mask          uint64
	period        int64
	eventsToCount int64
	resets        int64
}

// NewCountMin64 returns a sketch sized for maximumSize entries. A zero period means
// 10 * maximumSize.
func NewCountMin64(maximumSize, period int64) (*CountMin64, error) {
	if maximumSize <= 0 {
		return nil, errors.Errorf("count-min-64: bad maximum size %d", maximumSize)
	}
	if period == 0 {
		period = 10 * maximumSize
	}
	if period < 0 {
		return nil, errors.Errorf("count-min-64: bad period %d", period)
	}
	width := next2Power(3 * maximumSize)
	if width < cmMinCounters {
		width = cmMinCounters
	}
	c := &CountMin64{
		mask:          uint64(width - 1),
		period:        period,
		eventsToCount: period,
	}
	source := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	for i := range c.rows {
		c.rows[i] = make([]uint64, width)
		c.seed[i] = source.Uint64()
	}
	return c, nil
}

func (c *CountMin64) index(key uint64, row int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], c.seed[row])
	binary.LittleEndian.PutUint64(buf[8:], key)
	return xxhash.Sum64(buf[:]) & c.mask
}

// Estimate returns the minimum counter of key over all rows.
func (c *CountMin64) Estimate(key uint64) int64 {
	est := uint64(math.MaxUint64)
	for i := range c.rows {
		est = min(est, c.rows[i][c.index(key, i)])
	}
	if est > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(est)
}

// Increment adds one to every row counter of key and halves the table every period
// increments.
func (c *CountMin64) Increment(key uint64) {
	for i := range c.rows {
		idx := c.index(key, i)
		if c.rows[i][idx] < math.MaxUint64 {
			c.rows[i][idx]++
		}
	}
	c.eventsToCount--
	if c.eventsToCount <= 0 {
		c.Reset()
	}
}

// Reset halves every counter.
func (c *CountMin64) Reset() {
	for _, row := range c.rows {
		for i := range row {
			row[i] >>= 1
		}
	}
	c.eventsToCount = c.period
	c.resets++
}

// ReportMiss does nothing: the table is aged inline by Increment.
func (c *CountMin64) ReportMiss() {}

// Resets returns the number of resets performed so far.
func (c *CountMin64) Resets() int64 { return c.resets }

// Diagnostics returns the period right after a reset.
func (c *CountMin64) Diagnostics() (ResetDiagnostics, bool) {
	if c.resets == 0 || c.eventsToCount != c.period {
		return ResetDiagnostics{}, false
	}
	return ResetDiagnostics{Kind: PeriodicReset, Resets: c.resets, Step: 1, Period: c.period}, true
}
