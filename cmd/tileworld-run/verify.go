package main

import (
	"errors"
	"fmt"
	"io"

	"tileworld/internal/engine"
	"tileworld/internal/levels"
	"tileworld/internal/sims/tileworld"
	"tileworld/internal/trace"
)

var errMismatch = errors.New("trace mismatch")

// verifyTrace replays the inputs of a trace and checks that every round
// reproduces the recorded digest.
func verifyTrace(path string) error {
	r, err := trace.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	h := r.Header()
	lvl, err := levels.Load(h.Level)
	if err != nil {
		return err
	}
	if got := lvl.Catalog.Digest(); got != h.Catalog {
		return fmt.Errorf("%w: catalog digest %s, trace has %s", errMismatch, got, h.Catalog)
	}
	g := tileworld.NewWithLevel(lvl, tileworld.Config{Level: h.Level, Seed: h.Seed, Collisions: h.Collisions})

	for n := 0; ; n++ {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			if n == 0 {
				return fmt.Errorf("%w: no rounds recorded", errMismatch)
			}
			return nil
		}
		if err != nil {
			return err
		}
		res := g.LastResult()
		dir := engine.NoDirection
		if n > 0 {
			var ok bool
			if dir, ok = engine.ParseDirection(rec.Input); !ok {
				return fmt.Errorf("round %d: bad input %q", rec.Round, rec.Input)
			}
			res = g.Tick(dir)
		}
		if got := record(dir, res, g.World()); got != rec {
			return fmt.Errorf("%w: round %d: replay %+v, trace %+v", errMismatch, rec.Round, got, rec)
		}
	}
}
