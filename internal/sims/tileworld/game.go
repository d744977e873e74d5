// Package tileworld plays a rule catalog level as a registered simulation.
package tileworld

import (
	"log/slog"

	"tileworld/internal/core"
	"tileworld/internal/engine"
	"tileworld/internal/input"
	"tileworld/internal/levels"
	"tileworld/internal/rules"
)

// Game drives a level: it owns the world, the VM and the input queue, and
// fires a round each time entities have travelled one cell.
type Game struct {
	cfg   Config
	level *levels.Level
	vm    *engine.VM
	world *engine.World
	input input.Queue

	seed   int64
	frame  float64 // seconds per Step
	travel float64 // position units travelled since the last round
	last   engine.Result
	lastIn engine.Direction

	display []uint8
}

// New loads cfg.Level and returns a game reset to cfg.Seed.
func New(cfg Config) (*Game, error) {
	lvl, err := levels.Load(cfg.Level)
	if err != nil {
		return nil, err
	}
	return NewWithLevel(lvl, cfg), nil
}

// NewWithLevel returns a game for an already loaded level, reset to cfg.Seed.
func NewWithLevel(lvl *levels.Level, cfg Config) *Game {
	if cfg.TPS <= 0 {
		cfg.TPS = DefaultConfig().TPS
	}
	g := &Game{
		cfg:   cfg,
		level: lvl,
		frame: 1 / float64(cfg.TPS),
	}
	w, h := lvl.Size()
	g.display = make([]uint8, w*h)
	g.vm = engine.New(lvl.Catalog, lvl.Catalog.Rules(),
		engine.WithCollisions(cfg.Collisions),
		engine.WithLogger(slog.Default().With("sim", g.Name(), "level", lvl.Name)))
	g.Reset(cfg.Seed)
	return g
}

// Name returns the simulation identifier.
func (g *Game) Name() string { return "tileworld" }

// Size reports the grid dimensions.
func (g *Game) Size() core.Size {
	w, h := g.level.Size()
	return core.Size{W: w, H: h}
}

// Reset rebuilds the world from the level and runs the opening round with
// no input.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world = g.level.Build(seed)
	g.vm.Bind(g.world)
	g.input.Reset()
	g.travel = 0
	g.lastIn = engine.NoDirection
	g.last = g.vm.Round(engine.NoDirection)
	g.refresh()
}

// Step advances one host frame. Entities move along their velocity and a
// round fires once they have covered a full cell.
func (g *Game) Step() {
	if g.world.Outcome() != engine.OutcomeNone {
		return
	}
	g.world.Advance(g.frame)
	g.travel += g.frame * engine.Speed
	if g.travel < engine.CellSize {
		g.refresh()
		return
	}
	g.travel = 0
	g.round(g.input.Current())
}

// Tick moves entities a whole cell and runs one round with dir. It does
// nothing once the game is over.
func (g *Game) Tick(dir engine.Direction) engine.Result {
	if g.world.Outcome() != engine.OutcomeNone {
		return g.last
	}
	g.world.Advance(engine.StepTime)
	g.travel = 0
	return g.round(dir)
}

func (g *Game) round(dir engine.Direction) engine.Result {
	g.last = g.vm.Round(dir)
	g.lastIn = dir
	g.input.Consume(dir)
	g.refresh()
	return g.last
}

// Steer reports a key press for dir.
func (g *Game) Steer(dir engine.Direction) { g.input.Press(dir) }

// Release reports a key release for dir.
func (g *Game) Release(dir engine.Direction) { g.input.Release(dir) }

// Outcome returns the terminal outcome reached so far.
func (g *Game) Outcome() engine.Outcome { return g.world.Outcome() }

// LastResult returns the summary of the most recent round.
func (g *Game) LastResult() engine.Result { return g.last }

// World exposes the live world. Callers must not mutate it.
func (g *Game) World() *engine.World { return g.world }

// Catalog returns the level's rule catalog.
func (g *Game) Catalog() *rules.Catalog { return g.level.Catalog }

// Level returns the loaded level.
func (g *Game) Level() *levels.Level { return g.level }

// Seed returns the seed of the last reset.
func (g *Game) Seed() int64 { return g.seed }

func init() {
	core.Register("tileworld", func(cfg map[string]string) (core.Sim, error) {
		g, err := New(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return g, nil
	})
}
