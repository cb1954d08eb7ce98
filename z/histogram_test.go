/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package z

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogramBounds(t *testing.T) {
	bounds := HistogramBounds(0, 15)
	require.Len(t, bounds, 15)
	require.Equal(t, 1.0, bounds[0])
	require.Equal(t, 15.0, bounds[14])
}

func TestHistogramBuckets(t *testing.T) {
	h := NewHistogramData(HistogramBounds(0, 15))
	for v := int64(0); v <= 15; v++ {
		h.Update(v)
	}
	require.Len(t, h.CountPerBucket, 16)
	for i, c := range h.CountPerBucket {
		require.Equal(t, int64(1), c, "bucket %d", i)
	}
	require.Equal(t, int64(16), h.Count)
	require.Equal(t, int64(120), h.Sum)
	require.Equal(t, 7.5, h.Mean())
	require.Equal(t, int64(0), h.Min)
	require.Equal(t, int64(15), h.Max)
}

func TestHistogramMedian(t *testing.T) {
	h := NewHistogramData(HistogramBounds(0, 15))
	require.Equal(t, 0, h.MedianBucket())
	require.Equal(t, 0.0, h.Mean())

	for _, v := range []int64{1, 1, 2, 9, 9} {
		h.Update(v)
	}
	require.Equal(t, 2, h.MedianBucket())

	h.Update(9)
	h.Update(9)
	require.Equal(t, 9, h.MedianBucket())
}

func TestHistogramClear(t *testing.T) {
	h := NewHistogramData(HistogramBounds(0, 15))
	h.Update(3)
	require.Contains(t, h.String(), "count: 1")
	h.Clear()

	require.Equal(t, int64(0), h.Count)
	require.Equal(t, int64(0), h.CountPerBucket[3])
	require.Equal(t, int64(0), h.Sum)
}
