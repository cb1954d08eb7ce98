/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"github.com/hintlfu/hintlfu/z"
)

// HintBuckets is the number of distinct hint values, one per 4-bit counter value.
const HintBuckets = cmMaxCounter + 1

// Hinter accumulates the frequency hints a shadow sketch reported for accessed keys. Hints are
// kept in a 16-bucket histogram so that both the mean and the median are available.
type Hinter struct {
	hist *z.HistogramData
}

// NewHinter returns an empty Hinter.
func NewHinter() *Hinter {
	return &Hinter{hist: z.NewHistogramData(z.HistogramBounds(0, cmMaxCounter))}
}

// Increment records one hint. Values outside [0, 15] are clamped.
func (h *Hinter) Increment(hint int64) {
	switch {
	case hint < 0:
		hint = 0
	case hint > cmMaxCounter:
		hint = cmMaxCounter
	}
	h.hist.Update(hint)
}

// Sum is the sum of every recorded hint.
func (h *Hinter) Sum() int64 { return h.hist.Sum }

// Count is the number of recorded hints.
func (h *Hinter) Count() int64 { return h.hist.Count }

// Average returns the mean hint, or 0 if no hint was recorded.
func (h *Hinter) Average() float64 { return h.hist.Mean() }

// Median returns the median hint, or 0 if no hint was recorded.
func (h *Hinter) Median() int64 { return int64(h.hist.MedianBucket()) }

// Maximal is the number of hints equal to 1, i.e. accesses to keys seen exactly once before.
func (h *Hinter) Maximal() int64 { return h.hist.CountPerBucket[1] }

// Frequencies returns the per-value hint counts.
func (h *Hinter) Frequencies() [HintBuckets]int64 {
	var out [HintBuckets]int64
	copy(out[:], h.hist.CountPerBucket)
	return out
}

// Reset drops every recorded hint.
func (h *Hinter) Reset() { h.hist.Clear() }

func (h *Hinter) String() string { return h.hist.String() }
