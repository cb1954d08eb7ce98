/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package sim

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hintlfu/hintlfu"
)

// checkEvery is the number of keys replayed between two context checks.
const checkEvery = 4096

// Result is the outcome of replaying a trace over one policy.
type Result struct {
	Policy  string
	Stats   *hintlfu.Stats
	Elapsed time.Duration
	Extra   []float64
	Err     error
}

// Run replays keys over every named policy, each on its own worker from a pool of size
// workers. Results are returned in the order of names. A policy that fails to build or to
// finish has its Err set; Run itself fails only when the pool cannot be used or ctx is done.
func Run(ctx context.Context, keys []uint64, names []string, s hintlfu.Settings,
	logger *zap.Logger, workers int) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "while creating worker pool")
	}
	defer pool.Release()

	results := make([]Result, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = replay(ctx, keys, name, s, logger)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, errors.Wrapf(err, "while submitting policy %s", name)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func replay(ctx context.Context, keys []uint64, name string, s hintlfu.Settings,
	logger *zap.Logger) Result {
	res := Result{Policy: name}
	p, err := NewPolicy(name, s)
	if err != nil {
		res.Err = err
		logger.Error("building policy", zap.String("policy", name), zap.Error(err))
		return res
	}
	start := time.Now()
	for i, key := range keys {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				res.Err = err
				res.Stats = p.Stats()
				return res
			}
		}
		p.Record(key)
	}
	res.Elapsed = time.Since(start)
	res.Stats = p.Stats()
	if x, ok := p.(Extras); ok {
		res.Extra = x.Extra()
	}
	if err := p.Finished(); err != nil {
		res.Err = errors.Wrapf(err, "policy %s", name)
		logger.Error("policy invariant broken", zap.String("policy", name), zap.Error(err))
		return res
	}
	logger.Info("replayed trace",
		zap.String("policy", name),
		zap.Int("keys", len(keys)),
		zap.Float64("hit-ratio", res.Stats.Ratio()),
		zap.Duration("elapsed", res.Elapsed))
	return res
}
