package engine

import "math"

const (
	// CellSize is the edge length of a grid cell in position units.
	CellSize = 16
	// Speed is the velocity of a moving entity in position units per second.
	Speed = 100.0
)

// Entity is one movable object in the world.
type Entity struct {
	Kind Kind

	// X, Y is the continuous position; the entity occupies the cell that
	// contains it.
	X, Y float64

	// Dir is the direction resolved at the end of the previous round.
	Dir Direction
	// Inst is the instruction claimed for this round, nil when unclaimed.
	Inst Command
	// Collide is reserved for the collision phase.
	Collide Command

	VX, VY float64
}

func newEntity(kind Kind, col, row int) *Entity {
	e := &Entity{Kind: kind, Dir: NoDirection}
	e.place(col, row)
	return e
}

// Col returns the grid column the entity occupies.
func (e *Entity) Col() int { return int(math.Floor(e.X / CellSize)) }

// Row returns the grid row the entity occupies.
func (e *Entity) Row() int { return int(math.Floor(e.Y / CellSize)) }

func (e *Entity) place(col, row int) {
	e.X = float64(col*CellSize + CellSize/2)
	e.Y = float64(row*CellSize + CellSize/2)
}

// center snaps the entity onto the middle of its current cell.
func (e *Entity) center() { e.place(e.Col(), e.Row()) }

// update turns the claimed instruction into the direction and velocity used
// until the next round. Move(Stop) leaves the entity at rest: catalogs cannot
// declare Stop as a rule direction, so no Moving rule could select it.
func (e *Entity) update() {
	e.Dir = NoDirection
	if m, ok := pendingMove(e.Inst); ok && m.Dir.Moving() {
		e.Dir = m.Dir
	}
	dx, dy := e.Dir.Delta()
	e.VX = float64(dx) * Speed
	e.VY = float64(dy) * Speed
}

func (e *Entity) advance(dt float64) {
	e.X += e.VX * dt
	e.Y += e.VY * dt
}
