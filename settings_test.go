/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSettingsDefaults(t *testing.T) {
	s, err := ParseSettings("")
	require.NoError(t, err)
	require.Equal(t, Settings{
		MaximumSize:      512,
		Sketch:           CountMin4Sketch,
		Reset:            PeriodicReset,
		Step:             1,
		K:                DefaultK,
		Formula:          FormulaShift,
		PercentMain:      DefaultPercentMain,
		PercentProtected: 0.8,
		Horizon:          DefaultHorizon,
	}, s)
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings("maximum_size=100; Sketch=COUNT-MIN-64; reset=hinted; formula=4; " +
		"median=true; replay=5, 7,9; doorkeeper=true; k=10; period=300")
	require.NoError(t, err)
	require.Equal(t, int64(100), s.MaximumSize)
	require.Equal(t, CountMin64Sketch, s.Sketch)
	require.Equal(t, HintedReset, s.Reset)
	require.Equal(t, FormulaShiftClamped, s.Formula)
	require.True(t, s.Median)
	require.Equal(t, []int64{5, 7, 9}, s.Replay)
	require.True(t, s.Doorkeeper)
	require.Equal(t, 10, s.K)

	cfg := s.CountMin4Config()
	require.Equal(t, int64(300), cfg.Period)
	require.Equal(t, HintedReset, cfg.Kind)
	require.Equal(t, []int64{5, 7, 9}, cfg.Replay)
}

func TestParseSettingsErrors(t *testing.T) {
	_, err := ParseSettings("sketch=lossy-counting")
	require.ErrorIs(t, err, ErrUnknownSketch)

	_, err = ParseSettings("reset=never")
	require.ErrorIs(t, err, ErrUnknownReset)

	_, err = ParseSettings("formula=7")
	require.ErrorIs(t, err, ErrUnknownFormula)

	for _, flag := range []string{"replay=6,70", "replay=-1", "replay=16"} {
		_, err = ParseSettings(flag)
		require.ErrorIs(t, err, ErrBadHint, flag)
	}

	for _, flag := range []string{
		"colour=blue",
		"maximum-size=0",
		"maximum-size=many",
		"k=1",
		"median=perhaps",
		"replay=1,x",
		"percent-main=1.5",
		"horizon=0",
	} {
		_, err := ParseSettings(flag)
		require.Error(t, err, flag)
	}
}

func TestSettingsHelp(t *testing.T) {
	require.Contains(t, SettingsHelp, "reset=periodic")
	require.Contains(t, SettingsHelp, "Hint to step mapping")
}
