/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndicatorEmpty(t *testing.T) {
	ind := NewIndicator(100)
	require.Zero(t, ind.Sample())
	require.Zero(t, ind.Hint())
	require.Zero(t, ind.Skew())
	require.Zero(t, ind.Value())
	require.Zero(t, ind.Gini())
	require.Zero(t, ind.Entropy())
	require.Zero(t, ind.Uniques())
}

func TestIndicatorRecord(t *testing.T) {
	ind := NewIndicator(100)
	for i := 0; i < 3; i++ {
		ind.Record(1)
	}
	// Hints are read before counting: 0, 1, 2.
	require.Equal(t, int64(3), ind.Sample())
	require.InDelta(t, 1.0, ind.Hint(), 1e-9)
	freq := ind.HintFrequencies()
	require.Equal(t, int64(1), freq[0])
	require.Equal(t, int64(1), freq[1])
	require.Equal(t, int64(1), freq[2])
	require.Equal(t, int64(1), ind.Maximal())
	require.Equal(t, int64(1), ind.Uniques())
	// A single key has no slope to fit.
	require.Zero(t, ind.Skew())

	ind.Reset()
	require.Zero(t, ind.Sample())
	require.Zero(t, ind.Uniques())
	require.Zero(t, ind.Hint())

	// The shadow sketch outlives the window.
	ind.Record(1)
	require.InDelta(t, 3.0, ind.Hint(), 1e-9)
}

func TestIndicatorMedianHint(t *testing.T) {
	ind := NewIndicator(100, WithMedianHint(true))
	for i := 0; i < 4; i++ {
		ind.Record(1)
	}
	ind.Record(2)
	// Hints 0, 1, 2, 3, 0: the median is 1.
	require.InDelta(t, 1.0, ind.Hint(), 1e-9)
}

func TestIndicatorUniform(t *testing.T) {
	ind := NewIndicator(100)
	for round := 0; round < 5; round++ {
		for key := uint64(1); key <= 10; key++ {
			ind.Record(key)
		}
	}
	require.Equal(t, int64(50), ind.Sample())
	require.InDelta(t, 0.0, ind.Skew(), 1e-9)
	require.InDelta(t, 0.0, ind.Gini(), 1e-9)
	require.InDelta(t, math.Log(10), ind.Entropy(), 1e-9)
	require.Equal(t, int64(10), ind.Uniques())
}

func TestIndicatorZipf(t *testing.T) {
	ind := NewIndicator(1000, WithK(10))
	for rank := 1; rank <= 10; rank++ {
		for i := 0; i < 1000/rank; i++ {
			ind.Record(uint64(rank))
		}
	}
	require.InDelta(t, 1.0, ind.Skew(), 0.01)
	require.Greater(t, ind.Gini(), 0.3)
}

func TestIndicatorGini(t *testing.T) {
	ind := NewIndicator(100)
	ind.Record(1)
	ind.Record(2)
	ind.Record(2)
	ind.Record(2)
	require.InDelta(t, 0.25, ind.Gini(), 1e-9)
	p := []float64{0.25, 0.75}
	require.InDelta(t, -(p[0]*math.Log(p[0]) + p[1]*math.Log(p[1])), ind.Entropy(), 1e-9)
}

func TestIndicatorValue(t *testing.T) {
	require.InDelta(t, 1.0, indicatorValue(15, 0), 1e-9)
	require.InDelta(t, 0.4375, indicatorValue(7.5, 0.5), 1e-9)
	for _, skew := range []float64{1, 1.2, 3} {
		for _, hint := range []float64{0, 4, 15} {
			require.Zero(t, indicatorValue(hint, skew))
		}
	}
	// Non-decreasing in hint for a fixed skew.
	prev := -1.0
	for hint := 0.0; hint <= 15; hint++ {
		v := indicatorValue(hint, 0.3)
		require.GreaterOrEqual(t, v, prev)
		prev = v
	}
}
