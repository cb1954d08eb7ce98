/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"github.com/pkg/errors"
)

// doorkeeperRate is the false positive rate of the doorkeeper bloom filter.
const doorkeeperRate = 0.01

// TinyLFU is a frequency based admission filter. On a miss that needs an eviction it admits the
// candidate only if the candidate was seen more often than the victim.
type TinyLFU struct {
	sketch     Frequency
	doorkeeper *Filter
	stats      *Stats

	resets      int64
	diagnostics []ResetDiagnostics
}

// NewTinyLFU builds the sketch selected by s. Unknown or unsupported sketches and reset
// strategies are errors.
func NewTinyLFU(s Settings, stats *Stats) (*TinyLFU, error) {
	sketch, err := newFrequency(s)
	if err != nil {
		return nil, err
	}
	t := &TinyLFU{sketch: sketch, stats: stats}
	if s.Doorkeeper {
		t.doorkeeper = NewFilter(uint64(s.MaximumSize), doorkeeperRate)
	}
	return t, nil
}

func newFrequency(s Settings) (Frequency, error) {
	switch s.Sketch {
	case CountMin4Sketch:
		c, err := NewCountMin4(s.CountMin4Config())
		if err != nil {
			return nil, err
		}
		return c, nil
	case CountMin64Sketch:
		c, err := NewCountMin64(s.MaximumSize, s.Period)
		if err != nil {
			return nil, err
		}
		return c, nil
	case RandomTableSketch, TinyTableSketch, PerfectTableSketch:
		return nil, errors.Wrapf(ErrUnsupportedSketch, "%s", s.Sketch)
	}
	return nil, errors.Wrapf(ErrUnknownSketch, "%s", s.Sketch)
}

// Frequency returns the estimated frequency of key, counting the doorkeeper when enabled.
func (t *TinyLFU) Frequency(key uint64) int64 {
	freq := t.sketch.Estimate(key)
	if t.doorkeeper != nil && t.doorkeeper.Has(key) {
		freq++
	}
	return freq
}

// Record counts one access of key. With a doorkeeper the first sighting of a key only marks
// the filter.
func (t *TinyLFU) Record(key uint64) {
	if t.doorkeeper != nil && t.doorkeeper.Set(key) {
		t.syncReset()
		return
	}
	t.sketch.Increment(key)
	t.syncReset()
}

// Admit reports whether candidate should replace victim. Ties keep the victim.
func (t *TinyLFU) Admit(candidate, victim uint64) bool {
	t.sketch.ReportMiss()
	t.syncReset()
	if d, ok := t.sketch.Diagnostics(); ok && (len(t.diagnostics) == 0 ||
		t.diagnostics[len(t.diagnostics)-1].Resets != d.Resets) {
		t.diagnostics = append(t.diagnostics, d)
	}

	if t.Frequency(candidate) > t.Frequency(victim) {
		t.stats.RecordAdmission()
		return true
	}
	t.stats.RecordRejection()
	return false
}

// syncReset clears the doorkeeper whenever the sketch aged its counters.
func (t *TinyLFU) syncReset() {
	if r := t.sketch.Resets(); r != t.resets {
		t.resets = r
		if t.doorkeeper != nil {
			t.doorkeeper.Reset()
		}
	}
}

// Diagnostics returns the reset state collected once per reset period.
func (t *TinyLFU) Diagnostics() []ResetDiagnostics {
	return append([]ResetDiagnostics(nil), t.diagnostics...)
}

// Stats returns the admission counters.
func (t *TinyLFU) Stats() *Stats { return t.stats }
