// Package term hosts a tileworld game in a terminal: glyphs on a tcell
// screen, arrow or WASD keys for input.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"tileworld/internal/core"
	"tileworld/internal/engine"
	"tileworld/internal/sims/tileworld"
)

type action int

const (
	actionNone action = iota
	actionSteer
	actionReset
	actionQuit
)

// Host runs a game against a tcell screen.
type Host struct {
	screen tcell.Screen
	game   *tileworld.Game
	step   *core.FixedStep
	log    *slog.Logger

	styles []tcell.Style
	glyphs []rune
}

// New returns a host for game on an initialised screen.
func New(screen tcell.Screen, game *tileworld.Game, tps int, log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	h := &Host{
		screen: screen,
		game:   game,
		step:   core.NewFixedStep(tps),
		log:    log,
		glyphs: game.Glyphs(),
	}
	for _, c := range game.Palette() {
		fg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		h.styles = append(h.styles, tcell.StyleDefault.Foreground(fg))
	}
	return h
}

// Run polls input and steps the game until the player quits or ctx ends.
func (h *Host) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(h.step.Step() / 2)
	defer ticker.Stop()

	h.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !h.handle(ev) {
				return nil
			}
			h.draw()
		case <-ticker.C:
			if !h.step.ShouldStep() {
				continue
			}
			before := h.game.Outcome()
			h.game.Step()
			if after := h.game.Outcome(); after != before {
				h.log.Info("game over", "outcome", after.String(), "rounds", h.game.World().Rounds())
			}
			h.draw()
		}
	}
}

// handle applies one terminal event and reports whether the host keeps
// running.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		act, dir := keyAction(ev.Key(), ev.Rune())
		switch act {
		case actionQuit:
			return false
		case actionReset:
			h.game.Reset(h.game.Seed())
			h.log.Debug("reset", "seed", h.game.Seed())
		case actionSteer:
			// Terminals report presses only, so every key event is a tap.
			h.game.Steer(dir)
			h.game.Release(dir)
		}
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

func keyAction(key tcell.Key, r rune) (action, engine.Direction) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit, engine.NoDirection
	case tcell.KeyLeft:
		return actionSteer, engine.Left
	case tcell.KeyUp:
		return actionSteer, engine.Up
	case tcell.KeyRight:
		return actionSteer, engine.Right
	case tcell.KeyDown:
		return actionSteer, engine.Down
	case tcell.KeyRune:
	default:
		return actionNone, engine.NoDirection
	}
	switch r {
	case 'q', 'Q':
		return actionQuit, engine.NoDirection
	case 'r', 'R':
		return actionReset, engine.NoDirection
	case 'a', 'h':
		return actionSteer, engine.Left
	case 'w', 'k':
		return actionSteer, engine.Up
	case 'd', 'l':
		return actionSteer, engine.Right
	case 's', 'j':
		return actionSteer, engine.Down
	}
	return actionNone, engine.NoDirection
}

func (h *Host) draw() {
	h.screen.Clear()
	size := h.game.Size()
	cells := h.game.Cells()
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			k := int(cells[row*size.W+col])
			glyph, style := '?', tcell.StyleDefault
			if k < len(h.glyphs) {
				glyph, style = h.glyphs[k], h.styles[k]
			}
			h.screen.SetContent(col, row, glyph, nil, style)
		}
	}
	h.drawText(0, size.H+1, tcell.StyleDefault, h.status())
	h.drawText(0, size.H+2, tcell.StyleDefault.Dim(true), "arrows/wasd move  r restart  q quit")
	h.screen.Show()
}

func (h *Host) status() string {
	res := h.game.LastResult()
	line := fmt.Sprintf("%s  round %d  closures %d  painted %d",
		h.game.Level().Name, res.Round, res.Closures(), res.Painted)
	switch h.game.Outcome() {
	case engine.OutcomeWin:
		line += "  YOU WIN"
	case engine.OutcomeLose:
		line += "  GAME OVER"
	}
	return line
}

func (h *Host) drawText(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
