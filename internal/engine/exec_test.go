package engine

import "testing"

func TestClaimFirstMoveWinsStopOverrides(t *testing.T) {
	e := newEntity(player, 0, 0)

	claim(e, Move{Dir: Right})
	claim(e, Move{Dir: Left})
	claim(e, Move{Dir: Up})
	if m, _ := pendingMove(e.Inst); m.Dir != Right {
		t.Fatalf("expected the first claim to stick, got %v", e.Inst)
	}

	claim(e, Move{Dir: Stop})
	if m, _ := pendingMove(e.Inst); m.Dir != Stop {
		t.Fatalf("expected Stop to override the move, got %v", e.Inst)
	}

	claim(e, Move{Dir: Down})
	if m, _ := pendingMove(e.Inst); m.Dir != Stop {
		t.Fatalf("a move must not displace Stop, got %v", e.Inst)
	}
}

func TestConflictingMovesKeepFirstRuleAcrossOrders(t *testing.T) {
	for _, order := range [][2]Direction{{Right, Left}, {Left, Right}, {Up, Down}} {
		cat := newTestCatalog(3, 5)
		cat.rule(Resting, NoDirection, player).at(0, 0).do(Move{Dir: order[0]})
		cat.rule(Resting, NoDirection, player).at(0, 0).do(Move{Dir: order[1]})

		world := newTestWorld(cat, "...", ".@.", "...")
		vm := New(cat, cat.ids())
		vm.Bind(world)
		vm.Round(NoDirection)

		if got := world.EntitiesOf(player)[0].Dir; got != order[0] {
			t.Fatalf("order %v: resolved %v, expected %v", order, got, order[0])
		}
	}
}

func TestLaterStopCancelsMove(t *testing.T) {
	cat := newTestCatalog(3, 5)
	cat.rule(Resting, NoDirection, player).at(0, 0).do(Move{Dir: Right})
	cat.rule(Resting, NoDirection, player).at(0, 0).do(Move{Dir: Stop})

	world := newTestWorld(cat, ".@.")
	vm := New(cat, cat.ids())
	vm.Bind(world)
	vm.Round(NoDirection)

	e := world.EntitiesOf(player)[0]
	if e.Dir != NoDirection || e.VX != 0 || e.VY != 0 {
		t.Fatalf("stopped entity must be stationary, dir=%v v=(%v,%v)", e.Dir, e.VX, e.VY)
	}
}

func TestMoveTargetsCapturedWitness(t *testing.T) {
	cat := newTestCatalog(3, 5)
	push := cat.rule(Pushing, Right, player)
	push.at(0, 0).do(Move{Dir: Right})
	push.at(1, 0).when(box, Include).do(Move{Dir: Right})
	push.at(2, 0).when(wall, Exclude).when(box, Exclude)

	world := newTestWorld(cat, "@o..")
	vm := New(cat, cat.ids())
	vm.Bind(world)
	res := vm.Round(Right)

	if res.Resting != 1 {
		t.Fatalf("expected one pushing closure, got %d", res.Resting)
	}
	if got := world.EntitiesOf(player)[0].Dir; got != Right {
		t.Fatalf("player dir %v, expected right", got)
	}
	if got := world.EntitiesOf(box)[0].Dir; got != Right {
		t.Fatalf("box dir %v, expected right", got)
	}

	blocked := newTestWorld(cat, "@o#.")
	vm.Bind(blocked)
	vm.Round(Right)
	if got := blocked.EntitiesOf(player)[0].Dir; got != NoDirection {
		t.Fatalf("push into a wall must not move the player, got %v", got)
	}
}

func TestMoveWithoutWitnessIsSkipped(t *testing.T) {
	cat := newTestCatalog(3, 5)
	cat.rule(Resting, NoDirection, player).at(1, 0).do(Move{Dir: Right})

	world := newTestWorld(cat, "@o.")
	vm := New(cat, cat.ids())
	vm.Bind(world)
	vm.Round(NoDirection)

	if got := world.EntitiesOf(box)[0].Dir; got != NoDirection {
		t.Fatalf("box was never captured as a witness, got dir %v", got)
	}
}

func TestOnlyFirstCommandOfBlockRuns(t *testing.T) {
	cat := newTestCatalog(3, 5)
	cat.rule(Resting, NoDirection, player).at(0, 0).do(Paint{Kind: wall}, Move{Dir: Up})

	world := newTestWorld(cat, "@")
	vm := New(cat, cat.ids())
	vm.Bind(world)
	vm.Round(NoDirection)

	if world.KindAt(0, 0) != wall {
		t.Fatalf("expected paint to commit, got %d", world.KindAt(0, 0))
	}
	if world.EntitiesOf(player)[0].Dir != NoDirection {
		t.Fatal("second command slot must not run once paint returned")
	}
}

func TestSpritePredSkipsNextWhenKindExists(t *testing.T) {
	cat := newTestCatalog(2, 3)
	world := NewWorld(cat, 2, 1, []Kind{2, 0}, 0)

	world.queue = append(world.queue, SpritePred{Kind: 2}, Game{Arg: GameLose}, Game{Arg: GameWin})
	if got := world.drainQueue(); got != OutcomeWin {
		t.Fatalf("expected win after skipping lose, got %v", got)
	}
	if len(world.Queue()) != 0 {
		t.Fatalf("queue must be cleared, %d left", len(world.Queue()))
	}

	empty := NewWorld(cat, 2, 1, []Kind{0, 0}, 0)
	empty.queue = append(empty.queue, SpritePred{Kind: 2}, Game{Arg: GameLose}, Game{Arg: GameWin})
	if got := empty.drainQueue(); got != OutcomeLose {
		t.Fatalf("without kind-2 entities lose runs first, got %v", got)
	}
	if empty.Outcome() != OutcomeLose {
		t.Fatalf("world outcome %v, expected lose", empty.Outcome())
	}
}

func TestGlobalCommandsQueueInClosureOrder(t *testing.T) {
	cat := newTestCatalog(2, 3)
	cat.rule(Resting, NoDirection, 2).at(0, 0).do(SpritePred{Kind: 2})
	cat.rule(Resting, NoDirection, 2).at(0, 0).do(Game{Arg: GameLose})
	cat.rule(Resting, NoDirection, 2).at(0, 0).do(Game{Arg: GameWin})

	world := NewWorld(cat, 1, 1, []Kind{2}, 0)
	vm := New(cat, cat.ids())
	vm.Bind(world)
	res := vm.Round(NoDirection)

	if res.Outcome != OutcomeWin {
		t.Fatalf("expected win, got %v", res.Outcome)
	}
	if world.Outcome() != OutcomeWin {
		t.Fatalf("world outcome %v, expected win", world.Outcome())
	}
}
