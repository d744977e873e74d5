package rules

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode/utf8"

	"tileworld/internal/engine"
)

var (
	// ErrSchema reports a document that does not satisfy the catalog schema.
	ErrSchema = errors.New("rules: schema violation")
	// ErrUnknownKind reports a reference to a kind the catalog does not define.
	ErrUnknownKind = errors.New("rules: unknown kind")
	// ErrBadOffset reports a block outside the distance-2 neighborhood or a
	// second block at the same offset.
	ErrBadOffset = errors.New("rules: bad offset")
	// ErrTooManyCommands reports a block with more than four commands.
	ErrTooManyCommands = errors.New("rules: too many commands")
	// ErrBadCommand reports a command that does not hold exactly one
	// operation, or whose argument is invalid.
	ErrBadCommand = errors.New("rules: bad command")
)

// maxKinds keeps engine.NoKind free for the paint buffer.
const maxKinds = int(engine.NoKind)

// KindInfo describes one kind of the catalog.
type KindInfo struct {
	Name    string
	Color   color.RGBA
	Glyph   rune
	Movable bool
}

type block struct {
	attrs []engine.Attr
	cmds  [engine.CommandSlots]engine.Command
}

type rule struct {
	name   string
	kinds  []engine.Kind
	dir    engine.Direction
	typ    engine.RuleType
	cells  [5][5]int // block index + 1, 0 when empty
	blocks []block
}

// Catalog is a compiled rule catalog. It is immutable and safe to share
// between goroutines.
type Catalog struct {
	name        string
	kinds       []KindInfo
	fixed       int
	byName      map[string]engine.Kind
	defaultTile engine.Kind
	player      engine.Kind
	rules       []rule
	digest      string
}

var _ engine.Catalog = (*Catalog)(nil)

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Digest returns the hex SHA-256 of the validated document.
func (c *Catalog) Digest() string { return c.digest }

// FixedKinds returns the number of terrain kinds.
func (c *Catalog) FixedKinds() int { return c.fixed }

// TotalKinds returns the number of kinds.
func (c *Catalog) TotalKinds() int { return len(c.kinds) }

// Kinds returns the kind table indexed by kind id.
func (c *Catalog) Kinds() []KindInfo { return c.kinds }

// KindName returns the name of kind, or "" when undefined.
func (c *Catalog) KindName(kind engine.Kind) string {
	if int(kind) >= len(c.kinds) {
		return ""
	}
	return c.kinds[kind].Name
}

// KindByName resolves a kind name.
func (c *Catalog) KindByName(name string) (engine.Kind, bool) {
	k, ok := c.byName[name]
	return k, ok
}

// DefaultTile is the terrain placed under movable kinds when a world is built.
func (c *Catalog) DefaultTile() engine.Kind { return c.defaultTile }

// Player returns the kind steered by input, or engine.NoKind.
func (c *Catalog) Player() engine.Kind { return c.player }

// Rules returns every rule id in document order.
func (c *Catalog) Rules() []engine.RuleID {
	ids := make([]engine.RuleID, len(c.rules))
	for i := range ids {
		ids[i] = engine.RuleID(i)
	}
	return ids
}

// RuleName returns the authored name of rule, or its index.
func (c *Catalog) RuleName(id engine.RuleID) string {
	if name := c.rules[id].name; name != "" {
		return name
	}
	return "rule" + strconv.Itoa(int(id))
}

func (c *Catalog) RuleKinds(id engine.RuleID) []engine.Kind        { return c.rules[id].kinds }
func (c *Catalog) RuleDirection(id engine.RuleID) engine.Direction { return c.rules[id].dir }
func (c *Catalog) RuleType(id engine.RuleID) engine.RuleType       { return c.rules[id].typ }

func (c *Catalog) WhenDo(id engine.RuleID, col, row int) (engine.WhenDoID, bool) {
	idx := c.rules[id].cells[col][row]
	if idx == 0 {
		return 0, false
	}
	return engine.WhenDoID(idx - 1), true
}

func (c *Catalog) Attr(id engine.RuleID, wd engine.WhenDoID, kind engine.Kind) engine.Attr {
	attrs := c.rules[id].blocks[wd].attrs
	if int(kind) >= len(attrs) {
		return engine.OK
	}
	return attrs[kind]
}

func (c *Catalog) Command(id engine.RuleID, wd engine.WhenDoID, slot int) engine.Command {
	if slot < 0 || slot >= engine.CommandSlots {
		return nil
	}
	return c.rules[id].blocks[wd].cmds[slot]
}

// compile resolves names and checks everything the schema cannot express.
func compile(doc *Document, digest string) (*Catalog, error) {
	total := len(doc.Kinds.Fixed) + len(doc.Kinds.Movable)
	if total > maxKinds {
		return nil, fmt.Errorf("%w: %d kinds, at most %d allowed", ErrSchema, total, maxKinds)
	}

	c := &Catalog{
		name:   doc.Name,
		fixed:  len(doc.Kinds.Fixed),
		byName: make(map[string]engine.Kind, total),
		player: engine.NoKind,
		digest: digest,
	}
	addKind := func(kd KindDoc, movable bool) error {
		if _, dup := c.byName[kd.Name]; dup {
			return fmt.Errorf("%w: kind %q defined twice", ErrSchema, kd.Name)
		}
		info := KindInfo{Name: kd.Name, Movable: movable, Color: defaultColor(len(c.kinds))}
		if kd.Color != "" {
			rgba, err := parseColor(kd.Color)
			if err != nil {
				return fmt.Errorf("%w: kind %q: %v", ErrSchema, kd.Name, err)
			}
			info.Color = rgba
		}
		info.Glyph, _ = utf8.DecodeRuneInString(kd.Name)
		if kd.Glyph != "" {
			info.Glyph, _ = utf8.DecodeRuneInString(kd.Glyph)
		}
		c.byName[kd.Name] = engine.Kind(len(c.kinds))
		c.kinds = append(c.kinds, info)
		return nil
	}
	for _, kd := range doc.Kinds.Fixed {
		if err := addKind(kd, false); err != nil {
			return nil, err
		}
	}
	for _, kd := range doc.Kinds.Movable {
		if err := addKind(kd, true); err != nil {
			return nil, err
		}
	}

	tile, ok := c.byName[doc.DefaultTile]
	if !ok || int(tile) >= c.fixed {
		return nil, fmt.Errorf("%w: default tile %q is not a terrain kind", ErrUnknownKind, doc.DefaultTile)
	}
	c.defaultTile = tile
	if doc.Player != "" {
		p, ok := c.byName[doc.Player]
		if !ok || int(p) < c.fixed {
			return nil, fmt.Errorf("%w: player %q is not a movable kind", ErrUnknownKind, doc.Player)
		}
		c.player = p
	}

	c.rules = make([]rule, 0, len(doc.Rules))
	for i := range doc.Rules {
		r, err := c.compileRule(&doc.Rules[i])
		if err != nil {
			name := doc.Rules[i].Name
			if name == "" {
				name = "#" + strconv.Itoa(i)
			}
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		c.rules = append(c.rules, r)
	}
	return c, nil
}

func (c *Catalog) compileRule(rd *RuleDoc) (rule, error) {
	r := rule{name: rd.Name, dir: engine.NoDirection}

	typ, ok := engine.ParseRuleType(rd.Type)
	if !ok {
		return r, fmt.Errorf("%w: type %q", ErrSchema, rd.Type)
	}
	r.typ = typ
	if typ != engine.Resting {
		dir, ok := engine.ParseDirection(rd.Dir)
		if !ok || !dir.Moving() {
			return r, fmt.Errorf("%w: %s rule needs a direction, got %q", ErrSchema, typ, rd.Dir)
		}
		r.dir = dir
	}

	for _, name := range rd.Kinds {
		k, err := c.resolve(name)
		if err != nil {
			return r, err
		}
		if int(k) < c.fixed {
			return r, fmt.Errorf("%w: rule kind %q is terrain", ErrUnknownKind, name)
		}
		r.kinds = append(r.kinds, k)
	}

	for _, wd := range rd.WhenDo {
		if len(wd.At) != 2 {
			return r, fmt.Errorf("%w: at needs two values", ErrBadOffset)
		}
		dx, dy := wd.At[0], wd.At[1]
		if abs(dx)+abs(dy) > 2 {
			return r, fmt.Errorf("%w: (%d,%d) is farther than 2", ErrBadOffset, dx, dy)
		}
		col, row := 2+dx, 2+dy
		if r.cells[col][row] != 0 {
			return r, fmt.Errorf("%w: (%d,%d) used twice", ErrBadOffset, dx, dy)
		}
		b, err := c.compileBlock(&wd)
		if err != nil {
			return r, fmt.Errorf("at (%d,%d): %w", dx, dy, err)
		}
		r.blocks = append(r.blocks, b)
		r.cells[col][row] = len(r.blocks)
	}
	return r, nil
}

func (c *Catalog) compileBlock(wd *WhenDoDoc) (block, error) {
	b := block{attrs: make([]engine.Attr, len(c.kinds))}
	for name, value := range wd.Attrs {
		k, err := c.resolve(name)
		if err != nil {
			return b, err
		}
		a, ok := engine.ParseAttr(value)
		if !ok {
			return b, fmt.Errorf("%w: attr %q for %q", ErrSchema, value, name)
		}
		b.attrs[k] = a
	}
	if len(wd.Commands) > engine.CommandSlots {
		return b, fmt.Errorf("%w: %d commands, at most %d", ErrTooManyCommands, len(wd.Commands), engine.CommandSlots)
	}
	for i := range wd.Commands {
		cmd, err := c.compileCommand(&wd.Commands[i])
		if err != nil {
			return b, err
		}
		b.cmds[i] = cmd
	}
	return b, nil
}

func (c *Catalog) compileCommand(cd *CommandDoc) (engine.Command, error) {
	var set []string
	if cd.Move != "" {
		set = append(set, "move")
	}
	if cd.Paint != "" {
		set = append(set, "paint")
	}
	if cd.Game != "" {
		set = append(set, "game")
	}
	if cd.SpritePred != "" {
		set = append(set, "sprite_pred")
	}
	if cd.Sprite != nil {
		set = append(set, "sprite")
	}
	if len(set) != 1 {
		return nil, fmt.Errorf("%w: want exactly one operation, got [%s]", ErrBadCommand, strings.Join(set, " "))
	}

	switch set[0] {
	case "move":
		dir, ok := engine.ParseDirection(cd.Move)
		if !ok || dir == engine.NoDirection {
			return nil, fmt.Errorf("%w: move %q", ErrBadCommand, cd.Move)
		}
		return engine.Move{Dir: dir}, nil
	case "paint":
		k, err := c.resolve(cd.Paint)
		if err != nil {
			return nil, err
		}
		if int(k) >= c.fixed {
			return nil, fmt.Errorf("%w: paint %q is not a terrain kind", ErrBadCommand, cd.Paint)
		}
		return engine.Paint{Kind: k}, nil
	case "game":
		switch cd.Game {
		case "win":
			return engine.Game{Arg: engine.GameWin}, nil
		case "lose":
			return engine.Game{Arg: engine.GameLose}, nil
		}
		return nil, fmt.Errorf("%w: game %q", ErrBadCommand, cd.Game)
	case "sprite_pred":
		k, err := c.resolve(cd.SpritePred)
		if err != nil {
			return nil, err
		}
		return engine.SpritePred{Kind: k}, nil
	default:
		return engine.Sprite{Arg: *cd.Sprite}, nil
	}
}

func (c *Catalog) resolve(name string) (engine.Kind, error) {
	k, ok := c.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

func parseColor(s string) (color.RGBA, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// defaultColor spreads uncolored kinds over a fixed ramp.
func defaultColor(i int) color.RGBA {
	ramp := [...]color.RGBA{
		{0x20, 0x20, 0x28, 0xff},
		{0x80, 0x80, 0x88, 0xff},
		{0x30, 0x60, 0xc0, 0xff},
		{0x40, 0xa0, 0x40, 0xff},
		{0xc0, 0x90, 0x30, 0xff},
		{0xd0, 0x40, 0x40, 0xff},
		{0xa0, 0x50, 0xc0, 0xff},
		{0xe0, 0xe0, 0xe0, 0xff},
	}
	return ramp[i%len(ramp)]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
