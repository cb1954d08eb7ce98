/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTinyLFU(t *testing.T, flag string) *TinyLFU {
	t.Helper()
	s, err := ParseSettings(flag)
	require.NoError(t, err)
	a, err := NewTinyLFU(s, NewStats())
	require.NoError(t, err)
	return a
}

func TestNewTinyLFUErrors(t *testing.T) {
	for _, name := range []string{"random-table", "tiny-table", "perfect-table"} {
		s, err := ParseSettings("sketch=" + name)
		require.NoError(t, err)
		_, err = NewTinyLFU(s, nil)
		require.ErrorIs(t, err, ErrUnsupportedSketch, name)
	}

	s, err := ParseSettings("")
	require.NoError(t, err)
	s.Sketch = SketchKind(42)
	_, err = NewTinyLFU(s, nil)
	require.ErrorIs(t, err, ErrUnknownSketch)
}

func TestTinyLFUAdmit(t *testing.T) {
	for _, sketch := range []string{"count-min-4", "count-min-64"} {
		t.Run(sketch, func(t *testing.T) {
			a := newTestTinyLFU(t, "maximum-size=64; sketch="+sketch)
			for i := 0; i < 3; i++ {
				a.Record(1)
			}
			a.Record(2)
			require.Equal(t, int64(3), a.Frequency(1))

			require.True(t, a.Admit(1, 2))
			require.True(t, a.Admit(1, 2))
			require.False(t, a.Admit(2, 1))

			// Ties favor the victim.
			a.Record(3)
			require.False(t, a.Admit(2, 3))
			require.False(t, a.Admit(4, 5))

			require.Equal(t, uint64(2), a.Stats().Admissions())
			require.Equal(t, uint64(3), a.Stats().Rejections())
		})
	}
}

func TestTinyLFUDiagnostics(t *testing.T) {
	a := newTestTinyLFU(t, "maximum-size=16; reset=hinted; period=4")
	for i := 0; i < 4; i++ {
		a.Record(7)
	}
	require.Empty(t, a.Diagnostics())

	a.Admit(7, 8)
	a.Admit(7, 8)
	d := a.Diagnostics()
	require.Len(t, d, 1)
	require.Equal(t, HintedReset, d[0].Kind)
	require.Equal(t, int64(1), d[0].Resets)
	require.Equal(t, int64(6), d[0].HintSum)
	require.Equal(t, int64(3), d[0].HintCount)

	for i := 0; i < 4; i++ {
		a.Record(7)
	}
	a.Admit(7, 8)
	require.Len(t, a.Diagnostics(), 2)
}

func TestTinyLFUDoorkeeper(t *testing.T) {
	a := newTestTinyLFU(t, "maximum-size=64; doorkeeper=true")
	a.Record(1)
	require.Equal(t, int64(0), a.sketch.Estimate(1))
	require.Equal(t, int64(1), a.Frequency(1))
	a.Record(1)
	require.Equal(t, int64(2), a.Frequency(1))
	require.False(t, a.Admit(9, 1))
}

func TestTinyLFUDoorkeeperClearedOnReset(t *testing.T) {
	a := newTestTinyLFU(t, "maximum-size=16; doorkeeper=true; period=4")
	for i := 0; i < 5; i++ {
		a.Record(1)
	}
	// One sighting marked the filter, four reached the sketch and triggered its reset.
	require.False(t, a.doorkeeper.Has(1))
	require.Equal(t, int64(2), a.Frequency(1))
}
