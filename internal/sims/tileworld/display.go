package tileworld

import (
	"image/color"
	"strconv"

	"tileworld/internal/core"
	"tileworld/internal/engine"
)

// refresh rebuilds the display buffer: terrain kinds with every entity drawn
// over the cell it occupies.
func (g *Game) refresh() {
	copy(g.display, g.world.Terrain())
	size := g.world.Size()
	for _, e := range g.world.Entities() {
		col, row := e.Col(), e.Row()
		if !g.world.InBounds(col, row) {
			continue
		}
		g.display[row*size.W+col] = uint8(e.Kind)
	}
}

// Cells returns one kind id per cell in row-major order, entities included.
func (g *Game) Cells() []uint8 { return g.display }

// Palette returns the catalog colors indexed by kind id.
func (g *Game) Palette() []color.RGBA {
	kinds := g.level.Catalog.Kinds()
	palette := make([]color.RGBA, len(kinds))
	for i, k := range kinds {
		palette[i] = k.Color
	}
	return palette
}

// Glyphs returns the catalog glyphs indexed by kind id.
func (g *Game) Glyphs() []rune {
	kinds := g.level.Catalog.Kinds()
	glyphs := make([]rune, len(kinds))
	for i, k := range kinds {
		glyphs[i] = k.Glyph
	}
	return glyphs
}

// Parameters reports the level and the last round for the status panel.
func (g *Game) Parameters() core.ParameterSnapshot {
	size := g.Size()
	res := g.last
	return core.ParameterSnapshot{
		Groups: []core.ParameterGroup{
			{
				Name: "Level",
				Params: []core.Parameter{
					stringParam("level", "Level", g.level.Name),
					stringParam("catalog", "Catalog", g.level.Catalog.Name()),
					int64Param("seed", "Seed", g.seed),
					intParam("w", "Width", size.W),
					intParam("h", "Height", size.H),
					boolParam("collisions", "Collisions", g.cfg.Collisions),
				},
			},
			{
				Name: "Round",
				Params: []core.Parameter{
					intParam("round", "Round", res.Round),
					stringParam("input", "Input", g.lastIn.String()),
					intParam("moving", "Moving closures", res.Moving),
					intParam("resting", "Resting closures", res.Resting),
					intParam("colliding", "Colliding closures", res.Colliding),
					intParam("painted", "Painted cells", res.Painted),
					stringParam("outcome", "Outcome", g.world.Outcome().String()),
				},
				Summary: summary(g.world.Outcome()),
			},
		},
	}
}

func summary(o engine.Outcome) string {
	switch o {
	case engine.OutcomeWin:
		return "level complete"
	case engine.OutcomeLose:
		return "game over"
	}
	return ""
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
