/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hintlfu/hintlfu/z"
)

var (
	// ErrUnknownSketch is returned for a sketch selector that names no sketch.
	ErrUnknownSketch = errors.New("unknown sketch type")
	// ErrUnsupportedSketch is returned for a recognized sketch that this engine does not build.
	ErrUnsupportedSketch = errors.New("unsupported sketch type")
)

// SketchKind selects the frequency counter behind an admission filter.
type SketchKind int

const (
	// CountMin4Sketch is the 4-bit CountMin4 with a selectable reset strategy.
	CountMin4Sketch SketchKind = iota
	// CountMin64Sketch is CountMin64, aged by periodic halving.
	CountMin64Sketch
	// RandomTableSketch is recognized but unsupported.
	RandomTableSketch
	// TinyTableSketch is recognized but unsupported.
	TinyTableSketch
	// PerfectTableSketch is exact counting, recognized but unsupported.
	PerfectTableSketch
)

var sketchNames = [...]string{
	CountMin4Sketch:    "count-min-4",
	CountMin64Sketch:   "count-min-64",
	RandomTableSketch:  "random-table",
	TinyTableSketch:    "tiny-table",
	PerfectTableSketch: "perfect-table",
}

func (k SketchKind) String() string {
	if k < 0 || int(k) >= len(sketchNames) {
		return "unidentified"
	}
	return sketchNames[k]
}

// ParseSketchKind maps a sketch selector, case-insensitively, to its SketchKind.
func ParseSketchKind(name string) (SketchKind, error) {
	for i, n := range sketchNames {
		if strings.EqualFold(n, name) {
			return SketchKind(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownSketch, "%q", name)
}

// DefaultSettings lists every option accepted by ParseSettings with its default value.
const DefaultSettings = "maximum-size=512; sketch=count-min-4; reset=periodic; period=0; " +
	"step=1; k=70; formula=1; median=false; replay=; doorkeeper=false; " +
	"percent-main=0.99; percent-protected=0.8; horizon=50000;"

// SettingsHelp documents DefaultSettings.
var SettingsHelp = z.NewSuperFlagHelp(DefaultSettings).
	Flag("maximum-size", "Number of entries the cache holds.").
	Flag("sketch", "Frequency sketch: count-min-4, count-min-64, random-table, tiny-table or perfect-table.").
	Flag("reset", "Reset strategy of count-min-4: periodic, incremental, adaptive or hinted.").
	Flag("period", "Events between resets. 0 means 10 * maximum-size.").
	Flag("step", "Initial events consumed per increment by the adaptive and hinted resets.").
	Flag("k", "Number of top keys the skew regression is fitted over.").
	Flag("formula", "Hint to step mapping of the hinted reset: 1 shift, 2 linear, 3 linear-clamped, 4 shift-clamped.").
	Flag("median", "Aggregate hints with the median instead of the average.").
	Flag("replay", "Comma separated hints replayed by the hinted reset instead of the observed ones.").
	Flag("doorkeeper", "Put a bloom filter in front of the sketch.").
	Flag("percent-main", "Initial fraction of the cache given to the main segments.").
	Flag("percent-protected", "Fraction of the main segments given to the protected segment.").
	Flag("horizon", "Accesses between two hill climber decisions.").
	String()

// Settings is the decoded form of a settings super flag.
type Settings struct {
	MaximumSize      int64
	Sketch           SketchKind
	Reset            ResetKind
	Period           int64
	Step             int64
	K                int
	Formula          Formula
	Median           bool
	Replay           []int64
	Doorkeeper       bool
	PercentMain      float64
	PercentProtected float64
	Horizon          int64
}

// ParseSettings merges flag over DefaultSettings and decodes the result. Unknown options and
// unknown selectors are errors.
func ParseSettings(flag string) (Settings, error) {
	sf, err := z.NewSuperFlag(flag).MergeAndCheckDefault(DefaultSettings)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if s.MaximumSize, err = sf.GetInt64("maximum-size"); err != nil {
		return Settings{}, err
	}
	if s.MaximumSize <= 0 {
		return Settings{}, errors.Errorf("maximum-size must be positive, got %d", s.MaximumSize)
	}
	if s.Sketch, err = ParseSketchKind(sf.GetString("sketch")); err != nil {
		return Settings{}, err
	}
	if s.Reset, err = ParseResetKind(sf.GetString("reset")); err != nil {
		return Settings{}, err
	}
	if s.Period, err = sf.GetInt64("period"); err != nil {
		return Settings{}, err
	}
	if s.Step, err = sf.GetInt64("step"); err != nil {
		return Settings{}, err
	}
	k, err := sf.GetInt64("k")
	if err != nil {
		return Settings{}, err
	}
	if k < 2 {
		return Settings{}, errors.Errorf("k must be at least 2, got %d", k)
	}
	s.K = int(k)
	formula, err := sf.GetInt64("formula")
	if err != nil {
		return Settings{}, err
	}
	if s.Formula, err = ParseFormula(formula); err != nil {
		return Settings{}, err
	}
	if s.Median, err = sf.GetBool("median"); err != nil {
		return Settings{}, err
	}
	if s.Replay, err = sf.GetInt64s("replay"); err != nil {
		return Settings{}, err
	}
	if err = ValidateHints(s.Replay); err != nil {
		return Settings{}, err
	}
	if s.Doorkeeper, err = sf.GetBool("doorkeeper"); err != nil {
		return Settings{}, err
	}
	if s.PercentMain, err = sf.GetFloat64("percent-main"); err != nil {
		return Settings{}, err
	}
	if s.PercentProtected, err = sf.GetFloat64("percent-protected"); err != nil {
		return Settings{}, err
	}
	if s.PercentMain < 0 || s.PercentMain > 1 || s.PercentProtected < 0 || s.PercentProtected > 1 {
		return Settings{}, errors.Errorf("segment percentages must be within [0, 1], got %v and %v",
			s.PercentMain, s.PercentProtected)
	}
	if s.Horizon, err = sf.GetInt64("horizon"); err != nil {
		return Settings{}, err
	}
	if s.Horizon <= 0 {
		return Settings{}, errors.Errorf("horizon must be positive, got %d", s.Horizon)
	}
	return s, nil
}

// CountMin4Config returns the sketch configuration described by s.
func (s Settings) CountMin4Config() CountMin4Config {
	return CountMin4Config{
		Kind:        s.Reset,
		MaximumSize: s.MaximumSize,
		Period:      s.Period,
		Step:        s.Step,
		Formula:     s.Formula,
		Median:      s.Median,
		Replay:      s.Replay,
	}
}
