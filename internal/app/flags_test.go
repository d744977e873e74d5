package app

import (
	"flag"
	"testing"

	"tileworld/internal/sims/tileworld"
)

func TestConfigBindAndSimConfig(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-level", "levels/marsh.yaml", "-seed", "9", "-collisions", "-tps", "30"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := tileworld.FromMap(cfg.SimConfig())
	want := tileworld.Config{Level: "levels/marsh.yaml", Seed: 9, Collisions: true, TPS: 30}
	if got != want {
		t.Fatalf("got %+v, expected %+v", got, want)
	}
	if cfg.Scale != 32 || cfg.Sim != "tileworld" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}
