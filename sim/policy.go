/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package sim

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	lruarc "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/pkg/errors"

	"github.com/hintlfu/hintlfu"
	"github.com/hintlfu/hintlfu/arc"
	"github.com/hintlfu/hintlfu/slru"
	"github.com/hintlfu/hintlfu/tinylfu"
)

// ErrUnknownPolicy is returned for a policy name without a factory.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy is a cache policy driven by a trace.
type Policy interface {
	// Record accesses key.
	Record(key uint64)
	// Stats returns what the policy did so far.
	Stats() *hintlfu.Stats
	// Finished checks the policy's invariants at the end of a replay.
	Finished() error
}

// Extras is implemented by policies that report additional numbers, such as accumulated
// workload features, at the end of a replay.
type Extras interface {
	Extra() []float64
}

// Factory builds a policy from settings.
type Factory func(s hintlfu.Settings) (Policy, error)

var factories = map[string]Factory{
	"tinylfu":         newTinyLFU,
	"tinylfu-climber": newClimbingTinyLFU,
	"arc-indicator":   newIndicatorARC,
	"lru":             newLRU,
	"arc":             newARC,
	"slru":            newSLRU,
	"slru-tinylfu":    newAdmittedSLRU,
}

// Register adds a policy factory under name, replacing any previous one.
func Register(name string, f Factory) {
	factories[name] = f
}

// Policies returns the registered policy names.
func Policies() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NewPolicy builds the named policy.
func NewPolicy(name string, s hintlfu.Settings) (Policy, error) {
	f, ok := factories[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPolicy, "%q, valid policies: %v", name, Policies())
	}
	p, err := f(s)
	if err != nil {
		return nil, errors.Wrapf(err, "while creating policy %s", name)
	}
	return p, nil
}

type tinyLFUPolicy struct {
	policy   *tinylfu.Policy
	admittor *hintlfu.TinyLFU
	climber  *hintlfu.HintedClimber
	stats    *hintlfu.Stats
	size     int
}

func newTinyLFU(s hintlfu.Settings) (Policy, error) {
	return buildTinyLFU(s, false)
}

func newClimbingTinyLFU(s hintlfu.Settings) (Policy, error) {
	return buildTinyLFU(s, true)
}

func buildTinyLFU(s hintlfu.Settings, climb bool) (Policy, error) {
	if s.MaximumSize < 3 {
		return nil, errors.Errorf("tinylfu needs a maximum size of at least 3, got %d", s.MaximumSize)
	}
	stats := hintlfu.NewStats()
	admittor, err := hintlfu.NewTinyLFU(s, stats)
	if err != nil {
		return nil, err
	}
	t := &tinyLFUPolicy{admittor: admittor, stats: stats, size: int(s.MaximumSize)}
	opts := []tinylfu.Option{
		tinylfu.WithSegmentation(s.PercentMain, s.PercentProtected),
		tinylfu.WithAdmission(admittor),
		tinylfu.WithRecorder(stats),
	}
	if climb {
		t.climber = hintlfu.NewHintedClimber(s.MaximumSize, s.PercentMain,
			hintlfu.WithHorizon(s.Horizon),
			hintlfu.WithIndicator(newIndicator(s)))
		opts = append(opts, tinylfu.WithClimber(t.climber))
	}
	t.policy = tinylfu.New(int(s.MaximumSize), opts...)
	return t, nil
}

func newIndicator(s hintlfu.Settings) *hintlfu.Indicator {
	return hintlfu.NewIndicator(s.MaximumSize, hintlfu.WithK(s.K), hintlfu.WithMedianHint(s.Median))
}

func (t *tinyLFUPolicy) Record(key uint64) {
	t.stats.RecordOperation()
	t.policy.Record(key)
}

func (t *tinyLFUPolicy) Stats() *hintlfu.Stats { return t.stats }

func (t *tinyLFUPolicy) Finished() error {
	if t.policy.Len() > t.size {
		return errors.Errorf("tinylfu: %d entries exceed capacity %d", t.policy.Len(), t.size)
	}
	if t.policy.MaxWindow() < 1 || t.policy.MaxProtected() < 1 {
		return errors.Errorf("tinylfu: empty segment, window %d protected %d",
			t.policy.MaxWindow(), t.policy.MaxProtected())
	}
	return nil
}

// Extra returns the climber's feature vector followed by the step chosen at each reset. Hinted
// resets also report the hint sum, hint count and median hint they saw.
func (t *tinyLFUPolicy) Extra() []float64 {
	var out []float64
	if t.climber != nil {
		out = append(out, t.climber.Features().Vector()...)
	}
	for _, d := range t.admittor.Diagnostics() {
		out = append(out, float64(d.Step))
		if d.Kind == hintlfu.HintedReset {
			out = append(out, float64(d.HintSum), float64(d.HintCount), float64(d.MedianHint))
		}
	}
	return out
}

type indicatorARC struct {
	*arc.ARC
}

func newIndicatorARC(s hintlfu.Settings) (Policy, error) {
	return indicatorARC{arc.New(s.MaximumSize,
		arc.WithStats(hintlfu.NewStats()),
		arc.WithIndicator(newIndicator(s)))}, nil
}

func (a indicatorARC) Record(key uint64) { a.ARC.Record(key) }

// lruPolicy wraps the LRU of golang-lru as a baseline.
type lruPolicy struct {
	cache *lru.Cache[uint64, struct{}]
	stats *hintlfu.Stats
	size  int
}

func newLRU(s hintlfu.Settings) (Policy, error) {
	cache, err := lru.New[uint64, struct{}](int(s.MaximumSize))
	if err != nil {
		return nil, err
	}
	return &lruPolicy{cache: cache, stats: hintlfu.NewStats(), size: int(s.MaximumSize)}, nil
}

func (p *lruPolicy) Record(key uint64) {
	p.stats.RecordOperation()
	if _, ok := p.cache.Get(key); ok {
		p.stats.RecordHit()
		return
	}
	p.stats.RecordMiss()
	if p.cache.Add(key, struct{}{}) {
		p.stats.RecordEviction()
	}
}

func (p *lruPolicy) Stats() *hintlfu.Stats { return p.stats }

func (p *lruPolicy) Finished() error {
	if p.cache.Len() > p.size {
		return errors.Errorf("lru: %d entries exceed capacity %d", p.cache.Len(), p.size)
	}
	return nil
}

// arcPolicy wraps the ghost-list ARC of golang-lru as a baseline.
type arcPolicy struct {
	cache *lruarc.ARCCache[uint64, struct{}]
	stats *hintlfu.Stats
	size  int
}

func newARC(s hintlfu.Settings) (Policy, error) {
	cache, err := lruarc.NewARC[uint64, struct{}](int(s.MaximumSize))
	if err != nil {
		return nil, err
	}
	return &arcPolicy{cache: cache, stats: hintlfu.NewStats(), size: int(s.MaximumSize)}, nil
}

func (p *arcPolicy) Record(key uint64) {
	p.stats.RecordOperation()
	if _, ok := p.cache.Get(key); ok {
		p.stats.RecordHit()
		return
	}
	p.stats.RecordMiss()
	full := p.cache.Len() == p.size
	p.cache.Add(key, struct{}{})
	if full {
		p.stats.RecordEviction()
	}
}

func (p *arcPolicy) Stats() *hintlfu.Stats { return p.stats }

func (p *arcPolicy) Finished() error {
	if p.cache.Len() > p.size {
		return errors.Errorf("arc: %d entries exceed capacity %d", p.cache.Len(), p.size)
	}
	return nil
}

type slruPolicy struct {
	cache *slru.Cache
	stats *hintlfu.Stats
}

func newSLRU(s hintlfu.Settings) (Policy, error) {
	return buildSLRU(s, false)
}

func newAdmittedSLRU(s hintlfu.Settings) (Policy, error) {
	return buildSLRU(s, true)
}

// buildSLRU splits the capacity by percent-protected, keeping one slot in each segment.
func buildSLRU(s hintlfu.Settings, admit bool) (Policy, error) {
	if s.MaximumSize < 2 {
		return nil, errors.Errorf("slru needs a maximum size of at least 2, got %d", s.MaximumSize)
	}
	stats := hintlfu.NewStats()
	opts := []slru.Option{slru.WithRecorder(stats)}
	if admit {
		admittor, err := hintlfu.NewTinyLFU(s, stats)
		if err != nil {
			return nil, err
		}
		opts = append(opts, slru.WithAdmission(admittor))
	}
	size := int(s.MaximumSize)
	protected := max(min(int(float64(size)*s.PercentProtected), size-1), 1)
	return &slruPolicy{cache: slru.New(size-protected, protected, opts...), stats: stats}, nil
}

func (p *slruPolicy) Record(key uint64) {
	p.stats.RecordOperation()
	p.cache.Record(key)
}

func (p *slruPolicy) Stats() *hintlfu.Stats { return p.stats }

func (p *slruPolicy) Finished() error {
	if p.cache.Len() > p.cache.Capacity() {
		return errors.Errorf("slru: %d entries exceed capacity %d", p.cache.Len(), p.cache.Capacity())
	}
	return nil
}
