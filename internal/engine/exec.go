package engine

// applyClosure runs the commands of every block within distance 2 of the
// closure's anchor, the anchor's own cell included.
func (vm *VM) applyClosure(rc *roundContext, c Closure) {
	for col := 0; col < hoodSize; col++ {
		for row := 0; row < hoodSize; row++ {
			if hoodDistance(col, row) > 2 {
				continue
			}
			vm.applyCell(rc, c, col, row)
		}
	}
}

// applyCell executes the first command of the block at (col, row). Every
// command kind ends the block, so at most one command runs per cell.
func (vm *VM) applyCell(rc *roundContext, c Closure, col, row int) {
	wd, ok := vm.cat.WhenDo(c.Rule, col, row)
	if !ok || vm.cat.Command(c.Rule, wd, 0) == nil {
		return
	}
	wcol := c.Anchor.Col() + col - hoodCenter
	wrow := c.Anchor.Row() + row - hoodCenter
	self := col == hoodCenter && row == hoodCenter

	for slot := 0; slot < CommandSlots; slot++ {
		cmd := vm.cat.Command(c.Rule, wd, slot)
		if cmd == nil {
			return
		}
		switch cmd := cmd.(type) {
		case Paint:
			rc.paint(wcol, wrow, cmd.Kind)
			return
		case Move:
			target := c.Anchor
			if !self {
				target = c.witnessAt(wcol, wrow)
			}
			if target != nil {
				claim(target, cmd)
			}
			return
		case Sprite:
			return
		case Game, SpritePred:
			rc.world.queue = append(rc.world.queue, cmd)
			return
		}
	}
}

// claim attaches m to e unless e already holds an instruction. A Stop may
// still cancel a previously claimed Move.
func claim(e *Entity, m Move) {
	if e.Inst == nil {
		e.Inst = m
		return
	}
	if _, ok := pendingMove(e.Inst); ok && m.Dir == Stop {
		e.Inst = m
	}
}

// paint records kind for (col, row) unless the cell was already painted this
// round or lies off the grid.
func (rc *roundContext) paint(col, row int, kind Kind) {
	w := rc.world
	if !w.InBounds(col, row) || w.PaintedAt(col, row) != NoKind {
		return
	}
	w.paint.Set(col, row, uint8(kind))
	rc.painted++
}

// drainQueue processes the global commands gathered during the round and
// returns the outcome they produced.
func (w *World) drainQueue() Outcome {
	outcome := OutcomeNone
	for i := 0; i < len(w.queue); i++ {
		switch cmd := w.queue[i].(type) {
		case Game:
			switch cmd.Arg {
			case GameWin:
				outcome = OutcomeWin
			case GameLose:
				outcome = OutcomeLose
			}
		case SpritePred:
			if len(w.EntitiesOf(cmd.Kind)) > 0 {
				i++
			}
		}
		if outcome != OutcomeNone {
			break
		}
	}
	w.queue = w.queue[:0]
	if outcome != OutcomeNone && w.outcome == OutcomeNone {
		w.outcome = outcome
	}
	return outcome
}
