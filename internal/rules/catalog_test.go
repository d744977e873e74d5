package rules

import (
	"bytes"
	"errors"
	"testing"

	"tileworld/internal/engine"
)

const miniCatalog = `
name: mini
kinds:
  fixed:
    - {name: floor}
    - {name: wall, color: "#808080", glyph: "#"}
  movable:
    - {name: hero, glyph: "@"}
default_tile: floor
player: hero
rules:
  - name: step
    kinds: [hero]
    type: pushing
    dir: right
    whendo:
      - {at: [0, 0], commands: [{move: right}]}
      - {at: [1, 0], attrs: {wall: exclude}}
  - kinds: [hero]
    type: resting
    dir: left
    whendo:
      - {at: [0, -1], attrs: {wall: oneof, hero: oneof}, commands: [{paint: wall}, {game: win}]}
`

func TestParseCompilesKindsAndRules(t *testing.T) {
	cat, err := Parse([]byte(miniCatalog))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cat.Name() != "mini" || cat.FixedKinds() != 2 || cat.TotalKinds() != 3 {
		t.Fatalf("unexpected catalog shape: name=%q fixed=%d total=%d", cat.Name(), cat.FixedKinds(), cat.TotalKinds())
	}
	hero, ok := cat.KindByName("hero")
	if !ok || hero != 2 || cat.Player() != hero {
		t.Fatalf("hero kind %d ok=%v player=%d", hero, ok, cat.Player())
	}
	if cat.DefaultTile() != 0 {
		t.Fatalf("default tile %d, expected floor", cat.DefaultTile())
	}
	if got := cat.Kinds()[1].Glyph; got != '#' {
		t.Fatalf("wall glyph %q", got)
	}
	if got := cat.Kinds()[0].Glyph; got != 'f' {
		t.Fatalf("glyph should default to the first letter, got %q", got)
	}
	if c := cat.Kinds()[1].Color; c.R != 0x80 || c.G != 0x80 || c.B != 0x80 || c.A != 0xff {
		t.Fatalf("wall color %+v", c)
	}

	if len(cat.Rules()) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cat.Rules()))
	}
	if cat.RuleType(0) != engine.Pushing || cat.RuleDirection(0) != engine.Right {
		t.Fatalf("rule 0: %v %v", cat.RuleType(0), cat.RuleDirection(0))
	}
	if cat.RuleDirection(1) != engine.NoDirection {
		t.Fatalf("resting rules carry no direction, got %v", cat.RuleDirection(1))
	}
	if cat.RuleName(0) != "step" || cat.RuleName(1) != "rule1" {
		t.Fatalf("rule names %q %q", cat.RuleName(0), cat.RuleName(1))
	}

	wd, ok := cat.WhenDo(0, 3, 2)
	if !ok {
		t.Fatal("expected a block at offset (1,0)")
	}
	if cat.Attr(0, wd, 1) != engine.Exclude || cat.Attr(0, wd, 0) != engine.OK {
		t.Fatal("attrs not compiled")
	}
	if _, ok := cat.WhenDo(0, 2, 3); ok {
		t.Fatal("unexpected block at (0,1)")
	}

	center, _ := cat.WhenDo(0, 2, 2)
	if cmd := cat.Command(0, center, 0); cmd != (engine.Move{Dir: engine.Right}) {
		t.Fatalf("centre command %v", cmd)
	}
	if cat.Command(0, center, 1) != nil {
		t.Fatal("unused slots must be nil")
	}

	up, _ := cat.WhenDo(1, 2, 1)
	if cat.Command(1, up, 0) != (engine.Paint{Kind: 1}) || cat.Command(1, up, 1) != (engine.Game{Arg: engine.GameWin}) {
		t.Fatalf("commands %v %v", cat.Command(1, up, 0), cat.Command(1, up, 1))
	}
	if cat.Attr(1, up, hero) != engine.OneOf {
		t.Fatal("oneof attr not compiled")
	}
}

func TestDigestIgnoresKeyOrder(t *testing.T) {
	a := "name: d\nkinds: {fixed: [{name: floor}]}\ndefault_tile: floor\n"
	b := "default_tile: floor\nkinds: {fixed: [{name: floor}]}\nname: d\n"
	ca, err := Parse([]byte(a))
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	cb, err := Parse([]byte(b))
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if ca.Digest() != cb.Digest() || len(ca.Digest()) != 64 {
		t.Fatalf("digests differ: %s %s", ca.Digest(), cb.Digest())
	}
}

func TestParseRejectsMalformedCatalogs(t *testing.T) {
	const head = "name: bad\nkinds:\n  fixed: [{name: floor}, {name: wall}]\n  movable: [{name: hero}]\ndefault_tile: floor\n"
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown field", head + "colour: red\n", ErrSchema},
		{"missing kinds", "name: bad\ndefault_tile: floor\n", ErrSchema},
		{"bad type", head + "rules: [{kinds: [hero], type: sliding, dir: up, whendo: [{at: [0, 0]}]}]\n", ErrSchema},
		{"short offset", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [1]}]}]\n", ErrSchema},
		{"five commands", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [0, 0], commands: [{game: win}, {game: win}, {game: win}, {game: win}, {game: win}]}]}]\n", ErrSchema},
		{"missing direction", head + "rules: [{kinds: [hero], type: moving, whendo: [{at: [0, 0]}]}]\n", ErrSchema},
		{"stop direction", head + "rules: [{kinds: [hero], type: moving, dir: stop, whendo: [{at: [0, 0]}]}]\n", ErrSchema},
		{"bad attr", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [1, 0], attrs: {wall: maybe}}]}]\n", ErrSchema},
		{"duplicate kind", "name: bad\nkinds: {fixed: [{name: floor}, {name: floor}]}\ndefault_tile: floor\n", ErrSchema},
		{"unknown default tile", "name: bad\nkinds: {fixed: [{name: floor}]}\ndefault_tile: lava\n", ErrUnknownKind},
		{"movable default tile", head[:len(head)-len("default_tile: floor\n")] + "default_tile: hero\n", ErrUnknownKind},
		{"terrain player", head + "player: wall\n", ErrUnknownKind},
		{"unknown attr kind", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [1, 0], attrs: {lava: include}}]}]\n", ErrUnknownKind},
		{"terrain rule kind", head + "rules: [{kinds: [wall], type: resting, whendo: [{at: [0, 0]}]}]\n", ErrUnknownKind},
		{"far offset", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [2, 1]}]}]\n", ErrBadOffset},
		{"duplicate offset", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [1, 0]}, {at: [1, 0]}]}]\n", ErrBadOffset},
		{"two operations", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [0, 0], commands: [{move: up, paint: wall}]}]}]\n", ErrBadCommand},
		{"empty command", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [0, 0], commands: [{}]}]}]\n", ErrBadCommand},
		{"paint movable", head + "rules: [{kinds: [hero], type: resting, whendo: [{at: [0, 0], commands: [{paint: hero}]}]}]\n", ErrBadCommand},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.doc))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateAppliesSchema(t *testing.T) {
	valid := `{"name": "v", "kinds": {"fixed": [{"name": "floor"}]}, "default_tile": "floor"}`
	if err := validate([]byte(valid)); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
	for _, doc := range []string{
		`{"name": 5, "kinds": {"fixed": [{"name": "floor"}]}, "default_tile": "floor"}`,
		`{"name": "v", "default_tile": "floor"}`,
		`{"name": "v", "kinds": {"fixed": [{"name": "floor"}]}, "default_tile": "floor", "rules": [{"kinds": ["floor"], "type": "resting", "whendo": [{"at": [0, 0.5]}]}]}`,
		`not json`,
	} {
		if err := validate([]byte(doc)); !errors.Is(err, ErrSchema) {
			t.Fatalf("%s: expected ErrSchema, got %v", doc, err)
		}
	}
}

func TestCompileLimitsCommandSlots(t *testing.T) {
	win := CommandDoc{Game: "win"}
	doc := &Document{
		Name:        "direct",
		Kinds:       KindsDoc{Fixed: []KindDoc{{Name: "floor"}}, Movable: []KindDoc{{Name: "hero"}}},
		DefaultTile: "floor",
		Rules: []RuleDoc{{
			Kinds:  []string{"hero"},
			Type:   "resting",
			WhenDo: []WhenDoDoc{{At: []int{0, 0}, Commands: []CommandDoc{win, win, win, win, win}}},
		}},
	}
	if _, err := compile(doc, ""); !errors.Is(err, ErrTooManyCommands) {
		t.Fatalf("expected ErrTooManyCommands, got %v", err)
	}
}

func TestSchemaDescribesDocument(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	for _, key := range []string{`"whendo"`, `"default_tile"`, `"sprite_pred"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Fatalf("schema is missing %s", key)
		}
	}
}

func TestLoadSampleCatalogPushesBox(t *testing.T) {
	cat, err := Load("../../levels/sokoban.rules.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	player, _ := cat.KindByName("player")
	box, _ := cat.KindByName("box")
	floor := cat.DefaultTile()

	world := engine.NewWorld(cat, 4, 1, []engine.Kind{player, box, floor, floor}, floor)
	vm := engine.New(cat, cat.Rules())
	vm.Bind(world)
	vm.Round(engine.Right)

	if got := world.EntitiesOf(player)[0].Dir; got != engine.Right {
		t.Fatalf("player dir %v", got)
	}
	if got := world.EntitiesOf(box)[0].Dir; got != engine.Right {
		t.Fatalf("box dir %v", got)
	}
}
