/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package z

import (
	"bytes"
	"fmt"
	"math"
)

// HistogramBounds creates linear bounds [min+1, ..., max] for a histogram of small integer
// values, so that value v in [min, max] lands in bucket v-min.
func HistogramBounds(min, max int64) []float64 {
	var bounds []float64
	for i := min + 1; i <= max; i++ {
		bounds = append(bounds, float64(i))
	}
	return bounds
}

// HistogramData stores the distribution of observed values. The last bucket holds every value
// greater than or equal to the last bound.
type HistogramData struct {
	Bounds         []float64
	Count          int64
	CountPerBucket []int64
	Min            int64
	Max            int64
	Sum            int64
}

// NewHistogramData returns a new instance of HistogramData with properly initialized fields.
func NewHistogramData(bounds []float64) *HistogramData {
	return &HistogramData{
		Bounds:         bounds,
		CountPerBucket: make([]int64, len(bounds)+1),
		Max:            0,
		Min:            math.MaxInt64,
	}
}

// Update records value in its bucket and in the running aggregates.
func (histogram *HistogramData) Update(value int64) {
	if value > histogram.Max {
		histogram.Max = value
	}
	if value < histogram.Min {
		histogram.Min = value
	}

	histogram.Sum += value
	histogram.Count++

	for index := 0; index <= len(histogram.Bounds); index++ {
		// Allocate value in the last buckets if we reached the end of the Bounds array.
		if index == len(histogram.Bounds) {
			histogram.CountPerBucket[index]++
			break
		}

		if value < int64(histogram.Bounds[index]) {
			histogram.CountPerBucket[index]++
			break
		}
	}
}

// Clear drops every recorded value, keeping the bounds.
func (histogram *HistogramData) Clear() {
	for i := range histogram.CountPerBucket {
		histogram.CountPerBucket[i] = 0
	}
	histogram.Count = 0
	histogram.Sum = 0
	histogram.Max = 0
	histogram.Min = math.MaxInt64
}

// Mean returns Sum/Count, or 0 when nothing was recorded.
func (histogram *HistogramData) Mean() float64 {
	if histogram.Count == 0 {
		return 0
	}
	return float64(histogram.Sum) / float64(histogram.Count)
}

// MedianBucket returns the index of the bucket holding the median value, or 0 when nothing was
// recorded.
func (histogram *HistogramData) MedianBucket() int {
	mid := (1 + histogram.Count) / 2
	var count int64
	for i, c := range histogram.CountPerBucket {
		count += c
		if count >= mid && count > 0 {
			return i
		}
	}
	return 0
}

// String returns a human-readable dump of the non-empty buckets.
func (histogram *HistogramData) String() string {
	if histogram == nil {
		return ""
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "count: %d mean: %.2f\n", histogram.Count, histogram.Mean())

	numBounds := len(histogram.Bounds)
	for index, count := range histogram.CountPerBucket {
		if count == 0 {
			continue
		}

		// The last bucket represents the bucket that contains the range from
		// the last bound up to infinity so it's processed differently than the
		// other buckets.
		if index == len(histogram.CountPerBucket)-1 {
			lowerBound := int(histogram.Bounds[numBounds-1])
			fmt.Fprintf(&buf, "[%4d, %8s) %9d\n", lowerBound, "infinity", count)
			continue
		}

		upperBound := int(histogram.Bounds[index])
		lowerBound := 0
		if index > 0 {
			lowerBound = int(histogram.Bounds[index-1])
		}
		fmt.Fprintf(&buf, "[%4d, %8d) %9d\n", lowerBound, upperBound, count)
	}
	return buf.String()
}
