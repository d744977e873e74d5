// Command tileworld-run plays levels headless with scripted input, on a
// worker pool, and optionally writes round traces and a run index.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"tileworld/internal/levels"
	"tileworld/internal/runindex"
	"tileworld/internal/sims/tileworld"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("tileworld-run", flag.ContinueOnError)
	level := fs.String("level", tileworld.DefaultConfig().Level, "level file")
	rounds := fs.Int("rounds", 200, "rounds to play per seed after the opening round")
	inputs := fs.String("inputs", "", "input script of L U R D and . (no key), repeated")
	seeds := fs.String("seeds", "0", "seeds as a list or ranges, e.g. 1,4,10-20")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel runs")
	traceDir := fs.String("trace", "", "directory for round traces")
	dbPath := fs.String("db", "", "SQLite run index")
	verify := fs.String("verify", "", "replay a trace file and compare digests")
	collisions := fs.Bool("collisions", false, "enable the colliding phase")
	logLevel := fs.String("log-level", "info", "debug, info, warn or error")
	var overrides kvList
	fs.Var(&overrides, "set", "sim option in key=value form (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		return 2
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *verify != "" {
		if err := verifyTrace(*verify); err != nil {
			slog.Error("verify failed", "trace", *verify, "error", err)
			return 1
		}
		slog.Info("trace verified", "trace", *verify)
		return 0
	}

	opts := map[string]string{
		"level":      *level,
		"collisions": strconv.FormatBool(*collisions),
	}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "bad -set %q: expected key=value\n", kv)
			return 2
		}
		opts[key] = value
	}
	cfg := tileworld.FromMap(opts)

	script, err := parseScript(*inputs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	seedList, err := parseSeeds(*seeds)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	lv, err := levels.Load(cfg.Level)
	if err != nil {
		slog.Error("load level", "error", err)
		return 1
	}

	var index *runindex.DB
	if *dbPath != "" {
		index, err = runindex.Open(*dbPath)
		if err != nil {
			slog.Error("open run index", "error", err)
			return 1
		}
		defer index.Close()
	}

	b := &batch{
		level:    lv,
		cfg:      cfg,
		rounds:   *rounds,
		script:   script,
		traceDir: *traceDir,
		index:    index,
	}
	results, err := b.runAll(ctx, seedList, *workers)
	for _, r := range results {
		slog.Info("run",
			"seed", r.Seed,
			"rounds", r.Rounds,
			"outcome", r.Outcome,
			"digest", r.Digest[:12],
			"trace", r.Trace)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("interrupted")
		} else {
			slog.Error("batch failed", "error", err)
		}
		return 1
	}
	return 0
}
