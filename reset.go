/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownReset is returned for a reset selector that names no reset strategy.
	ErrUnknownReset = errors.New("unknown reset strategy")
	// ErrUnknownFormula is returned for a hint-to-step formula outside [1, 4].
	ErrUnknownFormula = errors.New("unknown reset formula")
	// ErrBadHint is returned for a replayed hint outside [0, HintBuckets-1].
	ErrBadHint = errors.New("hint out of range")
)

// ResetKind selects how a CountMin4 ages its counters.
type ResetKind int

const (
	// PeriodicReset halves the whole table once every period increments.
	PeriodicReset ResetKind = iota
	// IncrementalReset halves one byte column at a time so the table decays once per period
	// without a single expensive sweep.
	IncrementalReset
	// AdaptiveReset shortens the period when many counters saturated since the last reset.
	AdaptiveReset
	// HintedReset derives the step from the frequency hints of an independent shadow sketch.
	HintedReset
)

var resetNames = [...]string{
	PeriodicReset:    "periodic",
	IncrementalReset: "incremental",
	AdaptiveReset:    "adaptive",
	HintedReset:      "hinted",
}

func (k ResetKind) String() string {
	if k < 0 || int(k) >= len(resetNames) {
		return "unidentified"
	}
	return resetNames[k]
}

// ParseResetKind maps a reset selector, case-insensitively, to its ResetKind.
func ParseResetKind(name string) (ResetKind, error) {
	for i, n := range resetNames {
		if strings.EqualFold(n, name) {
			return ResetKind(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownReset, "%q", name)
}

// Formula maps an aggregated hint to the step used by a hinted reset.
type Formula int

const (
	// FormulaShift is 1 << max(0, hint-4).
	FormulaShift Formula = iota + 1
	// FormulaLinear is max(1, hint).
	FormulaLinear
	// FormulaLinearClamped is hint-4 clamped to [1, 8].
	FormulaLinearClamped
	// FormulaShiftClamped is 1 << (hint-4 clamped to [0, 3]).
	FormulaShiftClamped
)

// ParseFormula validates a numeric formula selector.
func ParseFormula(n int64) (Formula, error) {
	f := Formula(n)
	if f < FormulaShift || f > FormulaShiftClamped {
		return 0, errors.Wrapf(ErrUnknownFormula, "%d", n)
	}
	return f, nil
}

// Step returns the number of events one increment consumes for the given hint. Hints are
// clamped to [0, HintBuckets-1] so the step stays positive.
func (f Formula) Step(hint int64) int64 {
	hint = clamp(hint, 0, HintBuckets-1)
	switch f {
	case FormulaLinear:
		return max(1, hint)
	case FormulaLinearClamped:
		return clamp(hint-4, 1, 8)
	case FormulaShiftClamped:
		return 1 << clamp(hint-4, 0, 3)
	default:
		return 1 << max(0, hint-4)
	}
}

// ValidateHints checks that every hint lies within [0, HintBuckets-1].
func ValidateHints(hints []int64) error {
	for i, h := range hints {
		if h < 0 || h >= HintBuckets {
			return errors.Wrapf(ErrBadHint, "hint %d at %d, want [0, %d]", h, i, HintBuckets-1)
		}
	}
	return nil
}

func clamp(v, lo, hi int64) int64 {
	return min(max(v, lo), hi)
}

// ResetDiagnostics describes the state of a reset strategy right after a reset.
type ResetDiagnostics struct {
	Kind ResetKind
	// Resets is the ordinal of the reset, starting at 1.
	Resets     int64
	Step       int64
	Period     int64
	HintSum    int64
	HintCount  int64
	MedianHint int64
}

// Frequency is an approximate frequency counter with its own aging policy.
type Frequency interface {
	// Estimate returns the approximate number of times key was incremented.
	Estimate(key uint64) int64
	// Increment records one occurrence of key.
	Increment(key uint64)
	// ReportMiss gives the aging policy a chance to run its deferred bookkeeping.
	ReportMiss()
	// Resets is the number of times the counters were aged so far.
	Resets() int64
	// Diagnostics returns the reset state only right after a reset.
	Diagnostics() (ResetDiagnostics, bool)
}

// CountMin4Config configures a CountMin4.
type CountMin4Config struct {
	Kind        ResetKind
	MaximumSize int64
	// Period is the number of events between resets. Zero means 10 * MaximumSize.
	Period int64
	// Step is the initial number of events consumed per increment. Zero means 1.
	Step    int64
	Formula Formula
	// Median aggregates hints with the median instead of the average.
	Median bool
	// Replay, when set, replaces the observed hint aggregate at each reset. Values are consumed
	// in order and the last one repeats once the sequence is exhausted.
	Replay []int64
}

// CountMin4 is a 4-bit Count-Min sketch combined with one reset strategy. The strategy is
// fixed at construction.
type CountMin4 struct {
	kind   ResetKind
	sketch *cmSketch

	basePeriod    int64
	period        int64
	eventsToCount int64
	step          int64
	resets        int64

	// incremental
	cursor int
	carry  int64

	// hinted
	shadow        *cmSketch
	shadowEvents  int64
	hints         *Hinter
	formula       Formula
	median        bool
	replay        []int64
	replayIdx     int
	lastHintSum   int64
	lastHintCount int64
	lastMedian    int64
}

// NewCountMin4 returns a sketch sized for cfg.MaximumSize using the configured reset strategy.
func NewCountMin4(cfg CountMin4Config) (*CountMin4, error) {
	if cfg.MaximumSize <= 0 {
		return nil, errors.Errorf("count-min-4: bad maximum size %d", cfg.MaximumSize)
	}
	if cfg.Kind < PeriodicReset || cfg.Kind > HintedReset {
		return nil, errors.Wrapf(ErrUnknownReset, "kind %d", cfg.Kind)
	}
	if cfg.Period == 0 {
		cfg.Period = 10 * cfg.MaximumSize
	}
	if cfg.Period < 0 {
		return nil, errors.Errorf("count-min-4: bad period %d", cfg.Period)
	}
	if cfg.Step <= 0 {
		cfg.Step = 1
	}
	c := &CountMin4{
		kind:          cfg.Kind,
		sketch:        newCmSketch(cfg.MaximumSize),
		basePeriod:    cfg.Period,
		period:        cfg.Period,
		eventsToCount: cfg.Period,
		step:          cfg.Step,
	}
	if cfg.Kind == HintedReset {
		if cfg.Formula == 0 {
			cfg.Formula = FormulaShift
		}
		if _, err := ParseFormula(int64(cfg.Formula)); err != nil {
			return nil, err
		}
		if err := ValidateHints(cfg.Replay); err != nil {
			return nil, err
		}
		c.shadow = newCmSketch(cfg.MaximumSize)
		c.shadowEvents = cfg.Period
		c.hints = NewHinter()
		c.formula = cfg.Formula
		c.median = cfg.Median
		c.replay = append([]int64(nil), cfg.Replay...)
	}
	return c, nil
}

// Kind returns the reset strategy.
func (c *CountMin4) Kind() ResetKind { return c.kind }

// Period returns the current reset interval.
func (c *CountMin4) Period() int64 { return c.period }

// Step returns the number of events one increment currently consumes.
func (c *CountMin4) Step() int64 { return c.step }

// EventsToCount returns the countdown to the next reset.
func (c *CountMin4) EventsToCount() int64 { return c.eventsToCount }

// Resets returns the number of resets performed so far.
func (c *CountMin4) Resets() int64 { return c.resets }

// Estimate returns the estimated frequency of key, in [0, 15].
func (c *CountMin4) Estimate(key uint64) int64 { return c.sketch.Estimate(key) }

// EnsureCapacity resizes the table for maximumSize entries. It fails once the sketch was
// incremented.
func (c *CountMin4) EnsureCapacity(maximumSize int64) error {
	if maximumSize <= 0 {
		return errors.Errorf("count-min-4: bad maximum size %d", maximumSize)
	}
	if err := c.sketch.ensureCapacity(maximumSize); err != nil {
		return err
	}
	if c.shadow != nil {
		return c.shadow.ensureCapacity(maximumSize)
	}
	return nil
}

// Increment records one occurrence of key and advances the reset countdown.
func (c *CountMin4) Increment(key uint64) {
	switch c.kind {
	case PeriodicReset:
		c.sketch.Increment(key)
		c.eventsToCount--
		if c.eventsToCount <= 0 {
			c.sketch.Reset()
			c.restart()
		}
	case IncrementalReset:
		c.sketch.Increment(key)
		c.incrementalStep()
	case AdaptiveReset:
		c.sketch.Increment(key)
		c.eventsToCount -= c.step
	case HintedReset:
		c.sketch.Increment(key)
		c.eventsToCount -= c.step
		c.observeHint(key)
	}
}

// incrementalStep halves width byte columns every period increments, spread evenly over the
// period, so that every counter is halved once per period.
func (c *CountMin4) incrementalStep() {
	width := int64(c.sketch.width())
	c.carry += width
	for c.carry >= c.period {
		c.carry -= c.period
		c.sketch.halveByte(c.cursor)
		c.cursor = (c.cursor + 1) % int(width)
	}
	c.eventsToCount--
	if c.eventsToCount <= 0 {
		c.restart()
	}
}

func (c *CountMin4) observeHint(key uint64) {
	if hint := c.shadow.Estimate(key); hint > 0 {
		c.hints.Increment(hint)
	}
	c.shadow.Increment(key)
	c.shadowEvents--
	if c.shadowEvents <= 0 {
		c.shadow.Reset()
		c.shadowEvents = c.basePeriod
	}
}

// ReportMiss performs a pending adaptive or hinted reset.
func (c *CountMin4) ReportMiss() {
	if c.eventsToCount > 0 {
		return
	}
	switch c.kind {
	case AdaptiveReset:
		fraction := float64(c.sketch.saturated()) / float64(c.sketch.counters())
		c.sketch.Reset()
		c.period = max(int64(float64(c.basePeriod)*(1-fraction)), c.basePeriod/16, 1)
		c.restart()
	case HintedReset:
		c.lastHintSum = c.hints.Sum()
		c.lastHintCount = c.hints.Count()
		c.lastMedian = c.hints.Median()
		if hint, ok := c.aggregateHint(); ok {
			c.step = c.formula.Step(hint)
		}
		c.hints.Reset()
		c.sketch.Reset()
		c.restart()
	}
}

// aggregateHint returns the hint driving the next step. It reports false when no hint was
// observed, in which case the step is left unchanged.
func (c *CountMin4) aggregateHint() (int64, bool) {
	if len(c.replay) > 0 {
		hint := c.replay[c.replayIdx]
		if c.replayIdx < len(c.replay)-1 {
			c.replayIdx++
		}
		return hint, true
	}
	if c.lastHintCount == 0 {
		return 0, false
	}
	if c.median {
		return c.lastMedian, true
	}
	return c.lastHintSum / c.lastHintCount, true
}

func (c *CountMin4) restart() {
	c.eventsToCount = c.period
	c.resets++
}

// Reset halves every counter immediately and restarts the countdown.
func (c *CountMin4) Reset() {
	c.sketch.Reset()
	c.restart()
}

// Diagnostics returns the reset state when called right after a reset.
func (c *CountMin4) Diagnostics() (ResetDiagnostics, bool) {
	if c.resets == 0 || c.eventsToCount != c.period {
		return ResetDiagnostics{}, false
	}
	return ResetDiagnostics{
		Kind:       c.kind,
		Resets:     c.resets,
		Step:       c.step,
		Period:     c.period,
		HintSum:    c.lastHintSum,
		HintCount:  c.lastHintCount,
		MedianHint: c.lastMedian,
	}, true
}
