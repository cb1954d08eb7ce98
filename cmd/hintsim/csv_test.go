/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hintlfu/hintlfu"
	"github.com/hintlfu/hintlfu/sim"
)

func TestRecord(t *testing.T) {
	stats := hintlfu.NewStats()
	for i := 0; i < 4; i++ {
		stats.RecordOperation()
	}
	stats.RecordHit()
	stats.RecordHit()
	stats.RecordHit()
	stats.RecordMiss()

	rec := Record(sim.Result{Policy: "lru", Stats: stats, Elapsed: 400 * time.Nanosecond,
		Extra: []float64{1, 0.5}})
	require.Len(t, rec, len(Labels()))
	require.Equal(t, "0000000004", rec[1])
	require.Equal(t, "0000000003", rec[2])
	require.Equal(t, " 75.00%", rec[7])
	require.Equal(t, "       100 ns/op", rec[8])
	require.Equal(t, "1 0.5", rec[9])
}

func TestWriteSkipsFailures(t *testing.T) {
	var buf bytes.Buffer
	err := write(&buf, []sim.Result{
		{Policy: "lru", Stats: hintlfu.NewStats()},
		{Policy: "clock", Err: errors.New("unknown")},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "lru"))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0o600))
	require.NoError(t, save(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Join(Labels(), ", ")+"\n", string(data))
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"lru", "arc"}, splitList(" lru, ,arc,"))
	require.Empty(t, splitList(""))
}

func TestLoadKeys(t *testing.T) {
	s, err := hintlfu.ParseSettings("maximum-size=10")
	require.NoError(t, err)

	keys, err := loadKeys("", "lirs", "uniform", 50, s)
	require.NoError(t, err)
	require.Len(t, keys, 50)

	_, err = loadKeys("", "lirs", "gaussian", 50, s)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "trace.lirs")
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n3\n4\n"), 0o600))
	keys, err = loadKeys(path, "lirs", "", 3, s)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3}, keys)
}
