package main

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"tileworld/internal/engine"
	"tileworld/internal/levels"
	"tileworld/internal/runindex"
	"tileworld/internal/sims/tileworld"
	"tileworld/internal/trace"
)

func TestParseScript(t *testing.T) {
	got, err := parseScript("rU, d.L")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []engine.Direction{engine.Right, engine.Up, engine.Down, engine.NoDirection, engine.Left}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, expected %v", got, want)
	}
	if _, err := parseScript("RX"); err == nil {
		t.Fatal("unknown letters should be rejected")
	}
}

func TestParseSeeds(t *testing.T) {
	got, err := parseSeeds("4, 10-12,-3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := []int64{4, 10, 11, 12, -3}; !slices.Equal(got, want) {
		t.Fatalf("got %v, expected %v", got, want)
	}
	for _, bad := range []string{"", "x", "5-2", "1-y"} {
		if _, err := parseSeeds(bad); err == nil {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestRunAllWritesVerifiableTraces(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	lvl, err := levels.Load("../../levels/sokoban.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	index, err := runindex.Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	defer index.Close()

	script, _ := parseScript("RRDD.LURD")
	b := &batch{
		level:    lvl,
		cfg:      tileworld.DefaultConfig(),
		rounds:   12,
		script:   script,
		traceDir: filepath.Join(dir, "traces"),
		index:    index,
	}
	results, err := b.runAll(ctx, []int64{3, 1, 2}, 2)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 || results[0].Seed != 1 || results[2].Seed != 3 {
		t.Fatalf("results not ordered by seed: %+v", results)
	}
	for _, r := range results {
		if r.Digest != results[0].Digest || r.Rounds != results[0].Rounds {
			t.Fatalf("drawn levels ignore the seed, runs differ: %+v vs %+v", r, results[0])
		}
		if err := verifyTrace(r.Trace); err != nil {
			t.Fatalf("verify %s: %v", r.Trace, err)
		}
	}

	runs, err := index.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 3 || runs[0].Catalog != lvl.Catalog.Digest() {
		t.Fatalf("unexpected index contents: %+v", runs)
	}
}

func TestVerifyDetectsTamperedTrace(t *testing.T) {
	lvl, err := levels.Load("../../levels/sokoban.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.jsonl.zst")
	w, err := trace.Create(path, trace.Header{Level: lvl.Path, Catalog: lvl.Catalog.Digest()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Write(trace.Record{Round: 1, Input: "none", Digest: "00"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := verifyTrace(path); !errors.Is(err, errMismatch) {
		t.Fatalf("expected a mismatch, got %v", err)
	}
}
