package rules

// Document is the authored form of a rule catalog. It is decoded from YAML,
// checked against Schema and then compiled into a Catalog.
type Document struct {
	Name        string    `json:"name" jsonschema:"required,minLength=1"`
	Kinds       KindsDoc  `json:"kinds" jsonschema:"required"`
	DefaultTile string    `json:"default_tile" jsonschema:"required,minLength=1"`
	Player      string    `json:"player,omitempty"`
	Rules       []RuleDoc `json:"rules,omitempty"`
}

// KindsDoc lists terrain kinds first and movable kinds second. Kind ids are
// assigned in that order.
type KindsDoc struct {
	Fixed   []KindDoc `json:"fixed" jsonschema:"required,minItems=1"`
	Movable []KindDoc `json:"movable,omitempty"`
}

// KindDoc names one kind and how hosts draw it.
type KindDoc struct {
	Name  string `json:"name" jsonschema:"required,minLength=1"`
	Color string `json:"color,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
	Glyph string `json:"glyph,omitempty" jsonschema:"maxLength=1"`
}

// RuleDoc is one rule. Dir is ignored for resting rules.
type RuleDoc struct {
	Name   string      `json:"name,omitempty"`
	Kinds  []string    `json:"kinds" jsonschema:"required,minItems=1"`
	Type   string      `json:"type" jsonschema:"required,enum=moving,enum=resting,enum=pushing,enum=colliding"`
	Dir    string      `json:"dir,omitempty" jsonschema:"enum=left,enum=up,enum=right,enum=down,enum=none"`
	WhenDo []WhenDoDoc `json:"whendo" jsonschema:"required,minItems=1"`
}

// WhenDoDoc is the block at offset At from the anchor. Attrs maps kind names
// to include, exclude, oneof or ok; unlisted kinds are ok.
type WhenDoDoc struct {
	At       []int             `json:"at" jsonschema:"required,minItems=2,maxItems=2"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Commands []CommandDoc      `json:"commands,omitempty" jsonschema:"maxItems=4"`
}

// CommandDoc holds exactly one of its fields.
type CommandDoc struct {
	Move       string `json:"move,omitempty" jsonschema:"enum=left,enum=up,enum=right,enum=down,enum=stop"`
	Paint      string `json:"paint,omitempty"`
	Game       string `json:"game,omitempty" jsonschema:"enum=win,enum=lose"`
	SpritePred string `json:"sprite_pred,omitempty"`
	Sprite     *int   `json:"sprite,omitempty"`
}
