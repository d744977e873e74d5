//go:build ebiten

package app

import (
	"image/color"
	"time"

	"tileworld/internal/core"
	"tileworld/internal/engine"
	"tileworld/internal/render"
	"tileworld/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type palettedSim interface {
	core.Sim
	Palette() []color.RGBA
}

type steerable interface {
	Steer(engine.Direction)
	Release(engine.Direction)
}

var directionKeys = []struct {
	dir  engine.Direction
	keys []ebiten.Key
}{
	{engine.Left, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{engine.Up, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{engine.Right, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
	{engine.Down, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     palettedSim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim palettedSim, scale int, seed int64, hudWidth int) *Game {
	if hudWidth < 0 {
		hudWidth = 0
	}
	gp := render.NewGridPainter(sim.Size().W, sim.Size().H)
	return &Game{
		sim:      sim,
		painter:  gp,
		overlay:  ui.NewOverlay(sim, scale),
		hud:      ui.NewHUD(sim, hudWidth),
		scale:    scale,
		hudWidth: hudWidth,
		seed:     seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.Reset(time.Now().UnixNano())
	}
	g.steer()

	g.overlay.Update()
	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	g.hud.Update()
	return nil
}

func (g *Game) steer() {
	s, ok := g.sim.(steerable)
	if !ok {
		return
	}
	for _, dk := range directionKeys {
		for _, k := range dk.keys {
			if inpututil.IsKeyJustPressed(k) {
				s.Steer(dk.dir)
			}
			if inpututil.IsKeyJustReleased(k) {
				s.Release(dk.dir)
			}
		}
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.sim.Palette(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenSize(g.sim.Size(), g.scale, g.hudWidth)
}

// ScreenSize returns the window size for a grid, scale and panel width.
func ScreenSize(size core.Size, scale, hudWidth int) (int, int) {
	h := size.H * scale
	if hudWidth > 0 && h < 320 {
		h = 320
	}
	return size.W*scale + hudWidth, h
}
