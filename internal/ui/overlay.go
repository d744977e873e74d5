//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"tileworld/internal/engine"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type worldProvider interface {
	World() *engine.World
}

// Overlay draws round debugging visuals on top of the grid: the direction of
// every moving entity and the cells painted by the last round.
type Overlay struct {
	sim         worldProvider
	scale       int
	showArrows  bool
	showPainted bool

	pixel *ebiten.Image
}

// NewOverlay constructs an overlay for sim. Sims that do not expose a world
// get an overlay that draws nothing.
func NewOverlay(sim any, scale int) *Overlay {
	o := &Overlay{scale: scale, showArrows: true}
	if p, ok := sim.(worldProvider); ok {
		o.sim = p
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the layers: 1 for arrows, 2 for painted cells.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showArrows = !o.showArrows
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showPainted = !o.showPainted
	}
}

// Draw renders the enabled layers.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o == nil || o.sim == nil {
		return
	}
	w := o.sim.World()
	if w == nil {
		return
	}
	if o.showPainted {
		o.drawPainted(screen, w)
	}
	if o.showArrows {
		o.drawArrows(screen, w)
	}
}

func (o *Overlay) drawPainted(screen *ebiten.Image, w *engine.World) {
	size := w.Size()
	s := float64(o.scale)
	tint := color.RGBA{R: 255, G: 80, B: 200, A: 110}
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			if w.PaintedAt(col, row) == engine.NoKind {
				continue
			}
			o.drawPoint(screen, (float64(col)+0.5)*s, (float64(row)+0.5)*s, s, tint)
		}
	}
}

func (o *Overlay) drawArrows(screen *ebiten.Image, w *engine.World) {
	const (
		headAngle = math.Pi / 6
		reach     = 0.45
	)
	s := float64(o.scale)
	thickness := math.Max(1, s/8)
	col := color.RGBA{R: 250, G: 250, B: 250, A: 220}

	for _, e := range w.Entities() {
		if !e.Dir.Moving() {
			continue
		}
		dx, dy := e.Dir.Delta()
		cx := e.X / engine.CellSize * s
		cy := e.Y / engine.CellSize * s
		tx := cx + float64(dx)*reach*s
		ty := cy + float64(dy)*reach*s
		o.drawLine(screen, cx, cy, tx, ty, thickness, col)

		angle := math.Atan2(float64(dy), float64(dx))
		head := reach * s * 0.5
		for _, a := range []float64{angle + math.Pi - headAngle, angle + math.Pi + headAngle} {
			o.drawLine(screen, tx, ty, tx+math.Cos(a)*head, ty+math.Sin(a)*head, thickness, col)
		}
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
