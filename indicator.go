/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultK is the number of top keys the skew regression is fitted over.
const DefaultK = 70

// Indicator turns an access stream into workload descriptors: the distribution of frequency
// hints reported by a shadow sketch, the Zipf skew of the top keys, and the Gini coefficient,
// entropy and cardinality of the sampled window.
//
// The hint and skew come from bounded structures. Gini, entropy and uniques come from an
// exact per-key table whose memory grows with the number of distinct keys in the window.
type Indicator struct {
	shadow  *CountMin4
	hinter  *Hinter
	summary *StreamSummary
	exact   map[uint64]int64

	k      int
	median bool
	sample int64
}

// An IndicatorOption configures an Indicator.
type IndicatorOption func(*Indicator)

// WithK sets the number of top keys used by Skew.
func WithK(k int) IndicatorOption {
	if k < 2 {
		panic("indicator: k must be at least 2")
	}
	return func(i *Indicator) {
		i.k = k
	}
}

// WithMedianHint makes Hint report the median instead of the mean.
func WithMedianHint(median bool) IndicatorOption {
	return func(i *Indicator) {
		i.median = median
	}
}

// WithSummaryCapacity sets the number of keys monitored by the top-K summary.
func WithSummaryCapacity(capacity int) IndicatorOption {
	return func(i *Indicator) {
		i.summary = NewStreamSummary(capacity)
	}
}

// NewIndicator returns an Indicator whose shadow sketch is sized for maximumSize entries.
func NewIndicator(maximumSize int64, opts ...IndicatorOption) *Indicator {
	shadow, err := NewCountMin4(CountMin4Config{Kind: PeriodicReset, MaximumSize: maximumSize})
	if err != nil {
		panic(err)
	}
	i := &Indicator{
		shadow:  shadow,
		hinter:  NewHinter(),
		summary: NewStreamSummary(DefaultSummaryCapacity),
		exact:   make(map[uint64]int64),
		k:       DefaultK,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Record samples one access. The hint is read from the shadow sketch before the access is
// counted, so it reflects prior history only.
func (i *Indicator) Record(key uint64) {
	hint := i.shadow.Estimate(key)
	i.hinter.Increment(hint)
	i.shadow.Increment(key)
	i.summary.Offer(key)
	i.exact[key]++
	i.sample++
}

// Sample is the number of accesses recorded since the last reset.
func (i *Indicator) Sample() int64 { return i.sample }

// Reset clears every accumulator. The shadow sketch keeps its history.
func (i *Indicator) Reset() {
	i.hinter.Reset()
	i.summary.Reset()
	clear(i.exact)
	i.sample = 0
}

// Hint returns the mean hint, or the median when configured. It is 0 before any access.
func (i *Indicator) Hint() float64 {
	if i.median {
		return float64(i.hinter.Median())
	}
	return i.hinter.Average()
}

// Skew estimates the Zipf exponent of the window: the negated slope of a least-squares fit of
// log(count) against log(rank) over the top K keys. Fewer than two keys yield 0.
func (i *Indicator) Skew() float64 {
	top := i.summary.TopK(i.k)
	if len(top) < 2 {
		return 0
	}
	xs := make([]float64, len(top))
	ys := make([]float64, len(top))
	for rank, c := range top {
		xs[rank] = math.Log(float64(rank + 1))
		ys[rank] = math.Log(float64(c.Count))
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return -slope
}

// Value combines hint and skew into a scalar in [0, 1]: the hint normalized by its maximum of
// 15, damped by 1 - skew^3 and zero once skew reaches 1.
func (i *Indicator) Value() float64 {
	return indicatorValue(i.Hint(), i.Skew())
}

func indicatorValue(hint, skew float64) float64 {
	return hint * skewDamping(skew) / cmMaxCounter
}

func skewDamping(skew float64) float64 {
	if skew < 1 {
		return 1 - skew*skew*skew
	}
	return 0
}

// frequencies returns the exact per-key counts in ascending order.
func (i *Indicator) frequencies() []float64 {
	freq := make([]float64, 0, len(i.exact))
	for _, c := range i.exact {
		freq = append(freq, float64(c))
	}
	sort.Float64s(freq)
	return freq
}

// Gini returns the Gini coefficient of the per-key access counts, 0 for an even spread and
// approaching 1 when few keys take all accesses.
func (i *Indicator) Gini() float64 {
	freq := i.frequencies()
	if len(freq) == 0 {
		return 0
	}
	n := float64(len(freq))
	var weighted, sum float64
	for rank, f := range freq {
		weighted += 2 * float64(rank+1) * f
		sum += f
	}
	return weighted/(sum*n) - (n+1)/n
}

// Entropy returns the Shannon entropy, in nats, of the per-key access distribution.
func (i *Indicator) Entropy() float64 {
	freq := i.frequencies()
	if len(freq) == 0 {
		return 0
	}
	var sum float64
	for _, f := range freq {
		sum += f
	}
	for j := range freq {
		freq[j] /= sum
	}
	return stat.Entropy(freq)
}

// Uniques returns the number of distinct keys in the window.
func (i *Indicator) Uniques() int64 { return int64(len(i.exact)) }

// Maximal returns the number of accesses whose hint was 1.
func (i *Indicator) Maximal() int64 { return i.hinter.Maximal() }

// HintFrequencies returns the per-value hint counts of the window.
func (i *Indicator) HintFrequencies() [HintBuckets]int64 { return i.hinter.Frequencies() }
