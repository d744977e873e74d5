package engine

// testCatalog is a small in-memory Catalog used by the engine tests.
type testCatalog struct {
	fixed int
	total int
	rules []*testRule
}

type testRule struct {
	kinds  []Kind
	dir    Direction
	typ    RuleType
	cells  [hoodSize][hoodSize]int // block index + 1, 0 when empty
	blocks []*testBlock
}

type testBlock struct {
	attrs map[Kind]Attr
	cmds  []Command
}

func newTestCatalog(fixed, total int) *testCatalog {
	return &testCatalog{fixed: fixed, total: total}
}

func (c *testCatalog) rule(typ RuleType, dir Direction, kinds ...Kind) *testRule {
	r := &testRule{kinds: kinds, dir: dir, typ: typ}
	c.rules = append(c.rules, r)
	return r
}

func (c *testCatalog) ids() []RuleID {
	ids := make([]RuleID, len(c.rules))
	for i := range c.rules {
		ids[i] = RuleID(i)
	}
	return ids
}

// at returns the block at offset (dx, dy) from the anchor, creating it.
func (r *testRule) at(dx, dy int) *testBlock {
	col, row := hoodCenter+dx, hoodCenter+dy
	if idx := r.cells[col][row]; idx != 0 {
		return r.blocks[idx-1]
	}
	b := &testBlock{attrs: map[Kind]Attr{}}
	r.blocks = append(r.blocks, b)
	r.cells[col][row] = len(r.blocks)
	return b
}

func (b *testBlock) when(kind Kind, a Attr) *testBlock {
	b.attrs[kind] = a
	return b
}

func (b *testBlock) do(cmds ...Command) *testBlock {
	b.cmds = append(b.cmds, cmds...)
	return b
}

func (c *testCatalog) FixedKinds() int                     { return c.fixed }
func (c *testCatalog) TotalKinds() int                     { return c.total }
func (c *testCatalog) RuleKinds(rule RuleID) []Kind        { return c.rules[rule].kinds }
func (c *testCatalog) RuleDirection(rule RuleID) Direction { return c.rules[rule].dir }
func (c *testCatalog) RuleType(rule RuleID) RuleType       { return c.rules[rule].typ }

func (c *testCatalog) WhenDo(rule RuleID, col, row int) (WhenDoID, bool) {
	idx := c.rules[rule].cells[col][row]
	if idx == 0 {
		return 0, false
	}
	return WhenDoID(idx - 1), true
}

func (c *testCatalog) Attr(rule RuleID, wd WhenDoID, kind Kind) Attr {
	return c.rules[rule].blocks[wd].attrs[kind]
}

func (c *testCatalog) Command(rule RuleID, wd WhenDoID, slot int) Command {
	cmds := c.rules[rule].blocks[wd].cmds
	if slot >= len(cmds) {
		return nil
	}
	return cmds[slot]
}

// Kinds used across the engine tests.
const (
	floor  Kind = 0
	wall   Kind = 1
	water  Kind = 2
	player Kind = 3
	box    Kind = 4
)

// newTestWorld parses rows where '.' is floor, '#' wall, '~' water, '@' player
// and 'o' box.
func newTestWorld(cat Catalog, rows ...string) *World {
	h := len(rows)
	w := len(rows[0])
	placed := make([]Kind, 0, w*h)
	for _, line := range rows {
		for _, ch := range line {
			switch ch {
			case '#':
				placed = append(placed, wall)
			case '~':
				placed = append(placed, water)
			case '@':
				placed = append(placed, player)
			case 'o':
				placed = append(placed, box)
			default:
				placed = append(placed, floor)
			}
		}
	}
	return NewWorld(cat, w, h, placed, floor)
}
