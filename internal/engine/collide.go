package engine

// detectCollisions builds closures for Colliding rules. For every entity
// about to move into a target cell T it looks for a partner that either
// stands in T (resting, or moving straight back at the mover) or is about to
// enter T from one of the two perpendicular sides.
func (vm *VM) detectCollisions(rc *roundContext) []Closure {
	rc.moving = rc.moving[:0]
	rc.world.eachEntity(func(e *Entity) {
		if m, ok := pendingMove(e.Inst); ok && m.Dir.Moving() {
			rc.moving = append(rc.moving, e)
		}
	})

	var closures []Closure
	for _, mover := range rc.moving {
		m, _ := pendingMove(mover.Inst)
		dx, dy := m.Dir.Delta()
		tcol, trow := mover.Col()+dx, mover.Row()+dy
		for _, rule := range vm.rules {
			if vm.cat.RuleType(rule) != Colliding ||
				vm.cat.RuleDirection(rule) != m.Dir ||
				!ruleHasKind(vm.cat, rule, mover.Kind) {
				continue
			}
			rc.world.eachEntity(func(other *Entity) {
				if other == mover || !collides(m.Dir, tcol, trow, other) {
					return
				}
				if c, ok := vm.collide(rc, rule, mover, other, dx, dy); ok {
					closures = append(closures, c)
				}
			})
		}
	}
	rc.other = nil
	return closures
}

// collides reports whether other meets a mover heading in dir at (tcol, trow).
func collides(dir Direction, tcol, trow int, other *Entity) bool {
	om, moving := pendingMove(other.Inst)
	if other.Col() == tcol && other.Row() == trow {
		return !moving || om.Dir == dir.Opposite()
	}
	if !moving {
		return false
	}
	for _, side := range [2]Direction{dir.RotateLeft(), dir.RotateRight()} {
		sx, sy := side.Delta()
		if other.Col() == tcol+sx && other.Row() == trow+sy && om.Dir == side.Opposite() {
			return true
		}
	}
	return false
}

// collide evaluates the rule's block at the target cell with other bound as
// the participant for its kind.
func (vm *VM) collide(rc *roundContext, rule RuleID, mover, other *Entity, dx, dy int) (Closure, bool) {
	rc.other = other
	ok, w := vm.matchCell(rc, rule, mover, hoodCenter+dx, hoodCenter+dy)
	rc.other = nil
	if !ok {
		return Closure{}, false
	}
	c := Closure{Rule: rule, Anchor: mover}
	if w != nil {
		c.Witnesses = []*Entity{w}
	}
	return c, true
}
