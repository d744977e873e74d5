package engine

import (
	"log/slog"
)

// VM evaluates rounds of a bound World against a Catalog.
type VM struct {
	cat        Catalog
	rules      []RuleID
	world      *World
	collisions bool
	log        *slog.Logger
}

// Option configures a VM.
type Option func(*VM)

// WithCollisions enables the Colliding phase after the Resting phase.
func WithCollisions(enabled bool) Option {
	return func(vm *VM) { vm.collisions = enabled }
}

// WithLogger sets the logger used for per-round debug records.
func WithLogger(l *slog.Logger) Option {
	return func(vm *VM) {
		if l != nil {
			vm.log = l
		}
	}
}

// New returns a VM that evaluates the given rules of cat, in order.
func New(cat Catalog, rules []RuleID, opts ...Option) *VM {
	vm := &VM{
		cat:   cat,
		rules: append([]RuleID(nil), rules...),
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Bind attaches the world the VM will evaluate. Passing nil unbinds it.
func (vm *VM) Bind(w *World) { vm.world = w }

// World returns the bound world, or nil.
func (vm *VM) World() *World { return vm.world }

// Result summarizes one round.
type Result struct {
	Round     int
	Moving    int
	Resting   int
	Colliding int
	Painted   int
	Outcome   Outcome
}

// Closures returns the number of closures applied across all phases.
func (r Result) Closures() int { return r.Moving + r.Resting + r.Colliding }

// roundContext holds the scratch state of a single round.
type roundContext struct {
	world *World
	input Direction

	// index of the first entity per kind and cell, built after centering.
	index map[cellKey]*Entity

	// collision scratch
	moving []*Entity
	other  *Entity

	painted int
}

type cellKey struct {
	kind     Kind
	col, row int
}

func newRoundContext(w *World, input Direction) *roundContext {
	rc := &roundContext{world: w, input: input, index: make(map[cellKey]*Entity)}
	w.eachEntity(func(e *Entity) {
		key := cellKey{kind: e.Kind, col: e.Col(), row: e.Row()}
		if _, ok := rc.index[key]; !ok {
			rc.index[key] = e
		}
	})
	return rc
}

// entityAt returns the first entity of kind in (col, row). A bound collision
// participant answers for its own kind wherever it stands.
func (rc *roundContext) entityAt(kind Kind, col, row int) *Entity {
	if rc.other != nil && rc.other.Kind == kind {
		return rc.other
	}
	return rc.index[cellKey{kind: kind, col: col, row: row}]
}

// Round executes one round with the given input direction (NoDirection when
// no key is held). It does nothing when no world is bound.
func (vm *VM) Round(input Direction) Result {
	w := vm.world
	if w == nil {
		return Result{}
	}

	w.eachEntity(func(e *Entity) {
		e.center()
		e.Inst = nil
		e.Collide = nil
	})
	w.paint.Fill(uint8(NoKind))
	w.queue = w.queue[:0]
	rc := newRoundContext(w, input)

	var res Result
	res.Moving = vm.runPhase(rc, PhaseMoving)
	res.Resting = vm.runPhase(rc, PhaseResting)
	if vm.collisions {
		res.Colliding = vm.runPhase(rc, PhaseColliding)
	}

	res.Outcome = vm.updateWorld()
	res.Painted = rc.painted
	w.rounds++
	res.Round = w.rounds

	vm.log.Debug("round",
		"round", res.Round,
		"input", input.String(),
		"moving", res.Moving,
		"resting", res.Resting,
		"colliding", res.Colliding,
		"painted", res.Painted,
		"outcome", res.Outcome.String())
	return res
}

// updateWorld resolves entity movement, commits the paint buffer and drains
// the global command queue.
func (vm *VM) updateWorld() Outcome {
	w := vm.world
	w.eachEntity(func(e *Entity) { e.update() })
	for row := 0; row < w.paint.H; row++ {
		for col := 0; col < w.paint.W; col++ {
			if k := w.PaintedAt(col, row); k != NoKind {
				w.SetKindAt(col, row, k)
			}
		}
	}
	return w.drainQueue()
}
