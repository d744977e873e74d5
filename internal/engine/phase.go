package engine

// Phase is one ordered sub-pass of a round.
type Phase uint8

const (
	PhaseMoving Phase = iota
	PhaseResting
	PhaseColliding
)

func (p Phase) String() string {
	switch p {
	case PhaseMoving:
		return "moving"
	case PhaseResting:
		return "resting"
	case PhaseColliding:
		return "colliding"
	}
	return "unknown"
}

// eligible reports whether e takes part in phase p. Resting includes moving
// entities whose movement was not claimed during the Moving phase.
func eligible(p Phase, e *Entity) bool {
	switch p {
	case PhaseMoving:
		return e.Dir != NoDirection
	case PhaseResting:
		if e.Dir == NoDirection {
			return true
		}
		_, moving := pendingMove(e.Inst)
		return !moving
	}
	return false
}

// ruleApplies reports whether rule is selected for e in phase p.
func (vm *VM) ruleApplies(rc *roundContext, p Phase, e *Entity, rule RuleID) bool {
	if !ruleHasKind(vm.cat, rule, e.Kind) {
		return false
	}
	typ := vm.cat.RuleType(rule)
	switch p {
	case PhaseMoving:
		return typ == Moving && vm.cat.RuleDirection(rule) == e.Dir
	case PhaseResting:
		return typ == Resting ||
			typ == Pushing && vm.cat.RuleDirection(rule) == rc.input
	}
	return false
}

// collect runs the matching pass of phase p over every eligible entity. No
// command is applied until the whole phase has been matched.
func (vm *VM) collect(rc *roundContext, p Phase) []Closure {
	var closures []Closure
	rc.world.eachEntity(func(e *Entity) {
		if !eligible(p, e) {
			return
		}
		for _, rule := range vm.rules {
			if !vm.ruleApplies(rc, p, e, rule) {
				continue
			}
			if c, ok := vm.matchRule(rc, rule, e); ok {
				closures = append(closures, c)
			}
		}
	})
	return closures
}

// runPhase matches phase p and then applies every closure in match order.
func (vm *VM) runPhase(rc *roundContext, p Phase) int {
	var closures []Closure
	if p == PhaseColliding {
		closures = vm.detectCollisions(rc)
	} else {
		closures = vm.collect(rc, p)
	}
	for _, c := range closures {
		vm.applyClosure(rc, c)
	}
	return len(closures)
}
