package engine

// Closure is a matched rule waiting for its commands to run: the rule, the
// entity it matched around, and the witnesses captured by its conditions.
type Closure struct {
	Rule      RuleID
	Anchor    *Entity
	Witnesses []*Entity
}

// witnessAt returns the first witness standing on (col, row).
func (c Closure) witnessAt(col, row int) *Entity {
	for _, w := range c.Witnesses {
		if w.Col() == col && w.Row() == row {
			return w
		}
	}
	return nil
}

// matchRule evaluates every neighborhood condition of rule around anchor.
// Conditions are a logical AND; the first failing cell rejects the rule.
func (vm *VM) matchRule(rc *roundContext, rule RuleID, anchor *Entity) (Closure, bool) {
	var witnesses []*Entity
	for col := 0; col < hoodSize; col++ {
		for row := 0; row < hoodSize; row++ {
			if hoodDistance(col, row) > 2 || (col == hoodCenter && row == hoodCenter) {
				continue
			}
			ok, w := vm.matchCell(rc, rule, anchor, col, row)
			if !ok {
				return Closure{}, false
			}
			if w != nil {
				witnesses = append(witnesses, w)
			}
		}
	}
	return Closure{Rule: rule, Anchor: anchor, Witnesses: witnesses}, true
}

// matchCell evaluates the WhenDo block at (col, row) of rule's neighborhood.
// It returns the witness to record, which is only ever non-nil for cells
// adjacent to the anchor.
func (vm *VM) matchCell(rc *roundContext, rule RuleID, anchor *Entity, col, row int) (bool, *Entity) {
	wd, ok := vm.cat.WhenDo(rule, col, row)
	if !ok || vm.allOK(rule, wd) {
		return true, nil
	}
	wcol := anchor.Col() + col - hoodCenter
	wrow := anchor.Row() + row - hoodCenter
	if !rc.world.InBounds(wcol, wrow) {
		return false, nil
	}

	oneOf, oneOfPassed := false, false
	var capture *Entity

	here := rc.world.KindAt(wcol, wrow)
	for k := 0; k < rc.world.fixed; k++ {
		kind := Kind(k)
		present := here == kind
		switch vm.cat.Attr(rule, wd, kind) {
		case Exclude:
			if present {
				return false, nil
			}
		case Include:
			if !present {
				return false, nil
			}
		case OneOf:
			oneOf = true
			if present {
				oneOfPassed = true
			}
		}
	}

	for k := rc.world.fixed; k < rc.world.total; k++ {
		kind := Kind(k)
		attr := vm.cat.Attr(rule, wd, kind)
		if attr == OK {
			continue
		}
		found := rc.entityAt(kind, wcol, wrow)
		switch attr {
		case Exclude:
			if found != nil {
				return false, nil
			}
		case Include:
			if found == nil {
				return false, nil
			}
			if capture == nil {
				capture = found
			}
		case OneOf:
			oneOf = true
			if found != nil {
				oneOfPassed = true
				if capture == nil {
					capture = found
				}
			}
		}
	}

	if oneOf && !oneOfPassed {
		return false, nil
	}
	if hoodDistance(col, row) <= 1 {
		return true, capture
	}
	return true, nil
}

func (vm *VM) allOK(rule RuleID, wd WhenDoID) bool {
	for k := 0; k < vm.cat.TotalKinds(); k++ {
		if vm.cat.Attr(rule, wd, Kind(k)) != OK {
			return false
		}
	}
	return true
}
