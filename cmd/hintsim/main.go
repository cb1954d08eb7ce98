/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

// Command hintsim replays a trace over several cache policies and writes their hit ratios to
// a CSV file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hintlfu/hintlfu"
	"github.com/hintlfu/hintlfu/sim"
)

var (
	// PATH is the user-defined location for writing the stats.csv file.
	flagPath = flag.String(
		"path",
		"stats.csv",
		"Filepath for simulation CSV data.",
	)
	flagPolicies = flag.String(
		"policies",
		"lru,arc,arc-indicator,tinylfu,tinylfu-climber",
		"Comma separated policies to replay: "+strings.Join(sim.Policies(), ", ")+".",
	)
	flagTrace = flag.String(
		"trace",
		"",
		"Trace file to replay. Files ending in .gz are decompressed. Empty means a synthetic trace.",
	)
	flagFormat = flag.String(
		"format",
		"lirs",
		"Trace file format: "+strings.Join(sim.Formats(), ", ")+".",
	)
	flagSynthetic = flag.String(
		"synthetic",
		"zipf",
		`Synthetic trace when no file is given: "zipf" or "uniform".`,
	)
	flagKeys = flag.Uint64(
		"n",
		1_000_000,
		"Maximum number of keys to replay.",
	)
	flagSettings = flag.String(
		"settings",
		"",
		"Policy settings super flag.\n"+hintlfu.SettingsHelp,
	)
	flagWorkers = flag.Int(
		"workers",
		runtime.GOMAXPROCS(0),
		"Number of policies replayed concurrently.",
	)
	flagVerbose = flag.Bool(
		"v",
		false,
		"Log at debug level in a human readable format.",
	)
)

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	flag.Parse()
	logger, err := newLogger(*flagVerbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	settings, err := hintlfu.ParseSettings(*flagSettings)
	if err != nil {
		return err
	}
	keys, err := loadKeys(*flagTrace, *flagFormat, *flagSynthetic, *flagKeys, settings)
	if err != nil {
		return err
	}
	logger.Info("loaded trace",
		zap.String("trace", *flagTrace),
		zap.String("keys", humanize.Comma(int64(len(keys)))))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	names := splitList(*flagPolicies)
	results, err := sim.Run(ctx, keys, names, settings, logger, *flagWorkers)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("policy failed", zap.String("policy", r.Policy), zap.Error(r.Err))
			continue
		}
		fmt.Printf("%-16s hits %12s  misses %12s  ratio %6.2f%%  %s\n", r.Policy,
			humanize.Comma(int64(r.Stats.Hits())), humanize.Comma(int64(r.Stats.Misses())),
			100*r.Stats.Ratio(), r.Elapsed)
	}
	return save(*flagPath, results)
}

func splitList(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func loadKeys(path, format, synthetic string, n uint64, s hintlfu.Settings) ([]uint64, error) {
	if path == "" {
		var simulator sim.Simulator
		switch synthetic {
		case "zipf":
			simulator = sim.NewZipfian(1.01, 1, uint64(s.MaximumSize)*100)
		case "uniform":
			simulator = sim.NewUniform(uint64(s.MaximumSize) * 100)
		default:
			return nil, errors.Errorf("unknown synthetic trace %q", synthetic)
		}
		return sim.Collection(simulator, n), nil
	}
	simulator, trace, err := sim.OpenTrace(path, format)
	if err != nil {
		return nil, err
	}
	defer trace.Close()

	keys := make([]uint64, 0, 1<<16)
	for uint64(len(keys)) < n {
		key, err := simulator()
		if errors.Is(err, sim.ErrDone) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "while reading %s", path)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
