package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"tileworld/internal/engine"
	"tileworld/internal/levels"
	"tileworld/internal/runindex"
	"tileworld/internal/sims/tileworld"
	"tileworld/internal/trace"
)

type batch struct {
	level    *levels.Level
	cfg      tileworld.Config
	rounds   int
	script   []engine.Direction
	traceDir string
	index    *runindex.DB
}

// runAll plays every seed on a pool of workers and returns the finished runs
// ordered by seed. The first error stops the remaining seeds.
func (b *batch) runAll(ctx context.Context, seeds []int64, workers int) ([]runindex.Run, error) {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int64)
	var (
		mu      sync.Mutex
		results []runindex.Run
		errs    []error
		wg      sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				r, err := b.runSeed(ctx, seed)
				mu.Lock()
				if err != nil {
					errs = append(errs, fmt.Errorf("seed %d: %w", seed, err))
					cancel()
				} else {
					results = append(results, r)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, seed := range seeds {
		select {
		case jobs <- seed:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Seed < results[j].Seed })
	if len(errs) == 0 && ctx.Err() != nil && len(results) < len(seeds) {
		errs = append(errs, ctx.Err())
	}
	return results, errors.Join(errs...)
}

// runSeed plays one game: the opening round followed by up to b.rounds
// scripted rounds, stopping early on an outcome.
func (b *batch) runSeed(ctx context.Context, seed int64) (runindex.Run, error) {
	cfg := b.cfg
	cfg.Seed = seed
	started := time.Now()
	g := tileworld.NewWithLevel(b.level, cfg)
	log := slog.With("level", b.level.Name, "seed", seed)

	run := runindex.Run{
		Level:      b.level.Path,
		Catalog:    b.level.Catalog.Digest(),
		Seed:       seed,
		Collisions: cfg.Collisions,
		StartedAt:  started,
	}

	var tw *trace.Writer
	if b.traceDir != "" {
		run.Trace = filepath.Join(b.traceDir, fmt.Sprintf("%s-%d.jsonl.zst", b.level.Name, seed))
		var err error
		tw, err = trace.Create(run.Trace, trace.Header{
			Level:      b.level.Path,
			Catalog:    run.Catalog,
			Seed:       seed,
			Collisions: cfg.Collisions,
		})
		if err != nil {
			return run, err
		}
	}
	write := func(dir engine.Direction, res engine.Result) error {
		if tw == nil {
			return nil
		}
		return tw.Write(record(dir, res, g.World()))
	}

	err := write(engine.NoDirection, g.LastResult())
	for i := 0; err == nil && i < b.rounds && g.Outcome() == engine.OutcomeNone; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		dir := engine.NoDirection
		if len(b.script) > 0 {
			dir = b.script[i%len(b.script)]
		}
		err = write(dir, g.Tick(dir))
	}
	if tw != nil {
		err = errors.Join(err, tw.Close())
	}
	if err != nil {
		return run, err
	}

	run.Rounds = g.World().Rounds()
	run.Outcome = g.Outcome().String()
	run.Digest = g.World().Digest()
	log.Debug("run finished", "rounds", run.Rounds, "outcome", run.Outcome, "elapsed", time.Since(started))

	if b.index != nil {
		id, err := b.index.Record(ctx, run)
		if err != nil {
			return run, err
		}
		run.ID = id
	}
	return run, nil
}

func record(dir engine.Direction, res engine.Result, w *engine.World) trace.Record {
	rec := trace.Record{
		Round:    res.Round,
		Input:    dir.String(),
		Closures: res.Closures(),
		Painted:  res.Painted,
		Digest:   w.Digest(),
	}
	if res.Outcome != engine.OutcomeNone {
		rec.Outcome = res.Outcome.String()
	}
	return rec
}

// parseScript reads L U R D for directions and . for a round without input.
func parseScript(s string) ([]engine.Direction, error) {
	var out []engine.Direction
	for i, r := range strings.ToUpper(s) {
		switch r {
		case 'L':
			out = append(out, engine.Left)
		case 'U':
			out = append(out, engine.Up)
		case 'R':
			out = append(out, engine.Right)
		case 'D':
			out = append(out, engine.Down)
		case '.':
			out = append(out, engine.NoDirection)
		case ' ', ',':
		default:
			return nil, fmt.Errorf("bad -inputs: %q at %d", r, i)
		}
	}
	return out, nil
}

// parseSeeds expands "1,4,10-12" into 1 4 10 11 12.
func parseSeeds(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange || lo == "" {
			v, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad -seeds %q: %w", part, err)
			}
			out = append(out, v)
			continue
		}
		from, err := strconv.ParseInt(lo, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad -seeds %q: %w", part, err)
		}
		to, err := strconv.ParseInt(hi, 10, 64)
		if err != nil || to < from {
			return nil, fmt.Errorf("bad -seeds range %q", part)
		}
		for v := from; v <= to; v++ {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("bad -seeds: no seeds in %q", s)
	}
	return out, nil
}
