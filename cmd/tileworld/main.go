//go:build ebiten

package main

import (
	"errors"
	"flag"
	"image/color"
	"log"

	"tileworld/internal/app"
	"tileworld/internal/core"
	_ "tileworld/internal/sims/tileworld"

	"github.com/hajimehoshi/ebiten/v2"
)

type palettedSim interface {
	core.Sim
	Palette() []color.RGBA
}

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q (available: %v)", cfg.Sim, core.SimNames())
	}

	sim, err := factory(cfg.SimConfig())
	if err != nil {
		log.Fatal(err)
	}
	ps, ok := sim.(palettedSim)
	if !ok {
		log.Fatalf("sim %q has no palette", cfg.Sim)
	}

	game := app.New(ps, cfg.Scale, cfg.Seed, cfg.HUDWidth)
	w, h := app.ScreenSize(sim.Size(), cfg.Scale, cfg.HUDWidth)

	ebiten.SetWindowTitle("tileworld: " + cfg.Level)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
