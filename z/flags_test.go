/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package z

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlag(t *testing.T) {
	opt := `doorkeeper=true; K=5; percent-main=0.5; reset_policy=hinted; ;`
	sf := NewSuperFlag(opt)
	t.Logf("Got SuperFlag: %s\n", sf)

	def := `doorkeeper=false; k=70; percent-main=0.99; reset-policy=periodic; replay=`

	// Options present in sf must not be overwritten. Only replay should be set.
	sf, err := sf.MergeAndCheckDefault(def)
	require.NoError(t, err)

	// Has a typo.
	_, err = NewSuperFlag("doorkeper=true").MergeAndCheckDefault(def)
	require.Error(t, err)

	b, err := sf.GetBool("doorkeeper")
	require.NoError(t, err)
	require.True(t, b)

	k, err := sf.GetInt64("k")
	require.NoError(t, err)
	require.Equal(t, int64(5), k)

	f, err := sf.GetFloat64("percent-main")
	require.NoError(t, err)
	require.Equal(t, 0.5, f)

	require.Equal(t, "hinted", sf.GetString("reset-policy"))
	require.False(t, sf.Has("replay"))
}

func TestFlagParseErrors(t *testing.T) {
	sf := NewSuperFlag("k=seventy; main=high; on=maybe; replay=1,x")

	_, err := sf.GetInt64("k")
	require.Error(t, err)
	_, err = sf.GetFloat64("main")
	require.Error(t, err)
	_, err = sf.GetBool("on")
	require.Error(t, err)
	_, err = sf.GetInt64s("replay")
	require.Error(t, err)
}

func TestFlagInt64s(t *testing.T) {
	sf := NewSuperFlag("replay=5, 7,7 ,9")
	vals, err := sf.GetInt64s("replay")
	require.NoError(t, err)
	require.Equal(t, []int64{5, 7, 7, 9}, vals)

	vals, err = sf.GetInt64s("missing")
	require.NoError(t, err)
	require.Nil(t, vals)
}

func TestSuperFlagHelp(t *testing.T) {
	help := NewSuperFlagHelp("sketch=count-min-4;").
		Flag("sketch", "The sketch.").
		Flag("reset", "The reset.").
		String()
	require.Equal(t, "sketch=count-min-4; The sketch.\nreset=; The reset.\n", help)
}
