/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"fmt"
	"math"
)

const (
	// DefaultHorizon is the number of sampled accesses between two climber decisions. It does
	// not scale with the cache size.
	DefaultHorizon = 50000
	// DefaultPercentMain is the initial fraction of the cache held by the main segments.
	DefaultPercentMain = 0.99

	// rescale maps the indicator onto the window fraction.
	rescale = 0.8
)

// QueueType names the segment an access hit.
type QueueType int

const (
	// Window is the admission window that takes every new key.
	Window QueueType = iota
	// Probation holds main segment keys not yet hit since admission.
	Probation
	// Protected holds main segment keys hit at least once since admission.
	Protected
)

func (q QueueType) String() string {
	switch q {
	case Window:
		return "window"
	case Probation:
		return "probation"
	case Protected:
		return "protected"
	default:
		return "unidentified"
	}
}

// AdaptationKind is the direction of a window resize.
type AdaptationKind int

const (
	// Hold leaves the segments as they are.
	Hold AdaptationKind = iota
	// IncreaseWindow moves Amount slots from the main segments to the window.
	IncreaseWindow
	// DecreaseWindow moves Amount slots from the window to the main segments.
	DecreaseWindow
)

func (k AdaptationKind) String() string {
	switch k {
	case IncreaseWindow:
		return "increase-window"
	case DecreaseWindow:
		return "decrease-window"
	default:
		return "hold"
	}
}

// Adaptation is a resize decision. Amount is zero exactly when Kind is Hold.
type Adaptation struct {
	Kind   AdaptationKind
	Amount int64
}

func (a Adaptation) String() string {
	return fmt.Sprintf("%s(%d)", a.Kind, a.Amount)
}

// Climber observes accesses and decides how the window of a segmented cache should move.
type Climber interface {
	OnHit(key uint64, queue QueueType)
	OnMiss(key uint64)
	Adapt(windowSize, protectedSize int64) Adaptation
}

// HintedClimber sets the window fraction from the Indicator once per horizon. The fraction is
// the indicator scaled by 0.8 and the decision moves the window by the difference to the
// previous fraction. It does not clamp the fraction; the cache applying the decision does.
type HintedClimber struct {
	indicator   *Indicator
	features    *Features
	prevPercent float64
	cacheSize   int64
	horizon     int64
}

// A ClimberOption configures a HintedClimber.
type ClimberOption func(*HintedClimber)

// WithHorizon sets the number of sampled accesses between decisions.
func WithHorizon(horizon int64) ClimberOption {
	if horizon <= 0 {
		panic("climber: horizon must be positive")
	}
	return func(c *HintedClimber) {
		c.horizon = horizon
	}
}

// WithIndicator replaces the climber's indicator.
func WithIndicator(ind *Indicator) ClimberOption {
	return func(c *HintedClimber) {
		c.indicator = ind
	}
}

// NewHintedClimber returns a climber for a cache of maximumSize entries whose main segments
// start at percentMain of the capacity.
func NewHintedClimber(maximumSize int64, percentMain float64, opts ...ClimberOption) *HintedClimber {
	if maximumSize <= 0 {
		panic("climber: bad maximumSize")
	}
	c := &HintedClimber{
		features:    &Features{cacheSize: maximumSize},
		prevPercent: 1 - percentMain,
		cacheSize:   maximumSize,
		horizon:     DefaultHorizon,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.indicator == nil {
		c.indicator = NewIndicator(maximumSize)
	}
	return c
}

// OnHit samples an access that found its key.
func (c *HintedClimber) OnHit(key uint64, _ QueueType) {
	c.indicator.Record(key)
}

// OnMiss samples an access that did not find its key.
func (c *HintedClimber) OnMiss(key uint64) {
	c.indicator.Record(key)
}

// Adapt returns Hold until the indicator sampled a full horizon. At the horizon it moves the
// window towards the new fraction, accumulates the window's features and resets the indicator.
func (c *HintedClimber) Adapt(_, _ int64) Adaptation {
	if c.indicator.Sample() < c.horizon {
		return Adaptation{}
	}

	oldPercent := c.prevPercent
	newPercent := c.indicator.Value() * rescale
	c.prevPercent = newPercent

	c.features.add(c.indicator)
	c.indicator.Reset()

	amount := int64(math.Round(math.Abs(newPercent-oldPercent) * float64(c.cacheSize)))
	amount = min(amount, c.cacheSize)
	switch {
	case amount == 0:
		return Adaptation{}
	case newPercent > oldPercent:
		return Adaptation{Kind: IncreaseWindow, Amount: amount}
	default:
		return Adaptation{Kind: DecreaseWindow, Amount: amount}
	}
}

// Percent returns the window fraction decided at the last horizon.
func (c *HintedClimber) Percent() float64 { return c.prevPercent }

// Indicator returns the climber's indicator.
func (c *HintedClimber) Indicator() *Indicator { return c.indicator }

// Features returns the accumulator of per-horizon workload features.
func (c *HintedClimber) Features() *Features { return c.features }

// Features sums the workload descriptors of every completed horizon.
type Features struct {
	periods   int64
	hints     [HintBuckets]int64
	hint      float64
	skew      float64
	gini      float64
	entropy   float64
	uniques   int64
	cacheSize int64
}

// FeatureSnapshot is a copy of the accumulated features.
type FeatureSnapshot struct {
	Periods   int64
	Hints     [HintBuckets]int64
	Hint      float64
	Skew      float64
	Gini      float64
	Entropy   float64
	Uniques   int64
	CacheSize int64
}

func (f *Features) add(ind *Indicator) {
	f.periods++
	freq := ind.HintFrequencies()
	for i := range f.hints {
		f.hints[i] += freq[i]
	}
	f.hint += ind.Hint()
	f.skew += ind.Skew()
	f.gini += ind.Gini()
	f.entropy += ind.Entropy()
	f.uniques += ind.Uniques()
}

// Snapshot returns the features accumulated so far.
func (f *Features) Snapshot() FeatureSnapshot {
	return FeatureSnapshot{
		Periods:   f.periods,
		Hints:     f.hints,
		Hint:      f.hint,
		Skew:      f.skew,
		Gini:      f.gini,
		Entropy:   f.entropy,
		Uniques:   f.uniques,
		CacheSize: f.cacheSize,
	}
}

// Vector flattens the features: periods, the 16 hint counts, hint, skew, gini, entropy,
// uniques and cache size.
func (f *Features) Vector() []float64 {
	v := make([]float64, 0, 1+HintBuckets+6)
	v = append(v, float64(f.periods))
	for _, h := range f.hints {
		v = append(v, float64(h))
	}
	return append(v, f.hint, f.skew, f.gini, f.entropy, float64(f.uniques), float64(f.cacheSize))
}
