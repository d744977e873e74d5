//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"tileworld/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the status panel to the right of the grid.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	title      string
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: sim.Name()}
}

// Update refreshes the cached snapshot from the simulation.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
}

// Draw paints the panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height < minPanelHeight {
		height = minPanelHeight
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawStatus()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if len(h.snapshot.Groups) == 0 {
		text.Draw(h.panel, "No status", face, panelPadding, y+lineHeight, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		return
	}

	for _, group := range h.snapshot.Groups {
		y += groupGap
		text.Draw(h.panel, group.Name, face, panelPadding, y, color.RGBA{R: 150, G: 170, B: 220, A: 255})
		for _, p := range group.Params {
			y += lineHeight
			text.Draw(h.panel, p.Label, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
			value := p.Value
			valueX := h.width - panelPadding - len(value)*charWidth
			text.Draw(h.panel, value, face, valueX, y, valueColor(p))
		}
		if group.Summary != "" {
			y += lineHeight
			text.Draw(h.panel, fmt.Sprintf("> %s", group.Summary), face, panelPadding, y, color.RGBA{R: 255, G: 210, B: 90, A: 255})
		}
	}
}

func valueColor(p core.Parameter) color.RGBA {
	switch {
	case p.Key == "outcome" && p.Value == "win":
		return color.RGBA{R: 110, G: 220, B: 110, A: 255}
	case p.Key == "outcome" && p.Value == "lose":
		return color.RGBA{R: 240, G: 90, B: 90, A: 255}
	case p.Type == core.ParamTypeBool:
		return color.RGBA{R: 200, G: 180, B: 240, A: 255}
	}
	return color.RGBA{R: 240, G: 240, B: 240, A: 255}
}

const (
	panelPadding   = 12
	lineHeight     = 16
	groupGap       = 24
	headerBaseline = 12
	charWidth      = 7
	minPanelHeight = 320
)
