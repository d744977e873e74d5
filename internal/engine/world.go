package engine

import "tileworld/internal/core"

// World is the round state owned by a VM: terrain, the paint buffer, the
// entity table and the global command queue.
type World struct {
	fixed int
	total int

	terrain *core.ByteGrid
	paint   *core.ByteGrid

	// entities is indexed by kind; fixed kinds have no slice.
	entities [][]*Entity

	queue   []Command
	outcome Outcome
	rounds  int
}

// NewWorld builds a world of w*h cells from placed tiles in row-major order.
// Cells holding a movable kind become entities of that kind standing on
// defaultTile. Missing cells default to defaultTile.
func NewWorld(cat Catalog, w, h int, placed []Kind, defaultTile Kind) *World {
	wd := &World{
		fixed:    cat.FixedKinds(),
		total:    cat.TotalKinds(),
		terrain:  core.NewByteGrid(w, h),
		paint:    core.NewByteGrid(w, h),
		entities: make([][]*Entity, cat.TotalKinds()),
	}
	for k := wd.fixed; k < wd.total; k++ {
		wd.entities[k] = []*Entity{}
	}
	wd.paint.Fill(uint8(NoKind))
	for row := 0; row < wd.terrain.H; row++ {
		for col := 0; col < wd.terrain.W; col++ {
			idx := wd.terrain.Index(col, row)
			kind := defaultTile
			if idx < len(placed) {
				kind = placed[idx]
			}
			if wd.IsMovable(kind) {
				wd.entities[kind] = append(wd.entities[kind], newEntity(kind, col, row))
				kind = defaultTile
			}
			wd.terrain.Set(col, row, uint8(kind))
		}
	}
	return wd
}

// Size returns the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.terrain.W, H: w.terrain.H} }

// FixedKinds returns the number of terrain kinds.
func (w *World) FixedKinds() int { return w.fixed }

// TotalKinds returns the number of kinds, terrain and movable.
func (w *World) TotalKinds() int { return w.total }

// IsMovable reports whether kind is an entity kind.
func (w *World) IsMovable(kind Kind) bool {
	return int(kind) >= w.fixed && int(kind) < w.total
}

// InBounds reports whether (col, row) lies on the grid.
func (w *World) InBounds(col, row int) bool { return w.terrain.InBounds(col, row) }

// KindAt returns the terrain kind at (col, row).
func (w *World) KindAt(col, row int) Kind { return Kind(w.terrain.At(col, row)) }

// SetKindAt replaces the terrain kind at (col, row).
func (w *World) SetKindAt(col, row int, kind Kind) { w.terrain.Set(col, row, uint8(kind)) }

// Terrain exposes the terrain cells in row-major order. Callers must not
// modify the slice.
func (w *World) Terrain() []uint8 { return w.terrain.Cells() }

// PaintedAt returns the kind written to the paint buffer this round, or NoKind.
func (w *World) PaintedAt(col, row int) Kind { return Kind(w.paint.At(col, row)) }

// EntitiesOf returns the live entities of kind in table order.
func (w *World) EntitiesOf(kind Kind) []*Entity {
	if int(kind) >= len(w.entities) {
		return nil
	}
	return w.entities[kind]
}

// Entities returns every entity, ordered by kind and then table order.
func (w *World) Entities() []*Entity {
	var out []*Entity
	w.eachEntity(func(e *Entity) { out = append(out, e) })
	return out
}

func (w *World) eachEntity(fn func(e *Entity)) {
	for _, list := range w.entities {
		for _, e := range list {
			fn(e)
		}
	}
}

// Outcome returns the first terminal outcome reached, if any.
func (w *World) Outcome() Outcome { return w.outcome }

// Rounds returns the number of rounds executed on this world.
func (w *World) Rounds() int { return w.rounds }

// Queue returns the pending global commands. It is empty between rounds.
func (w *World) Queue() []Command { return w.queue }

// Advance moves every entity along its velocity for dt seconds.
func (w *World) Advance(dt float64) {
	w.eachEntity(func(e *Entity) { e.advance(dt) })
}

// StepTime is the time an entity at Speed needs to cross one cell.
const StepTime = CellSize / Speed
