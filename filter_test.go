/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	d := NewFilter(1374, 0.01)
	require.Equal(t, uint64(7), d.keys, "bad initialization based on size and false positive rate")
	require.GreaterOrEqual(t, len(d.data)*8, 13170)

	require.False(t, d.Has(42), "item exists but was never added")
	require.True(t, d.Set(42), "item didn't exist so Set() should return true")
	require.False(t, d.Set(42), "item did exist so Set() should return false")
	require.True(t, d.Has(42), "item was added but Has() is false")

	d.Reset()
	require.False(t, d.Has(42), "filter was reset but Has() returns true")
}

func TestFilterFalsePositives(t *testing.T) {
	d := NewFilter(1000, 0.01)
	for i := uint64(0); i < 1000; i++ {
		d.Set(i)
	}
	for i := uint64(0); i < 1000; i++ {
		require.True(t, d.Has(i))
	}
	fp := 0
	for i := uint64(1000); i < 11000; i++ {
		if d.Has(i) {
			fp++
		}
	}
	require.Less(t, fp, 500)
}
