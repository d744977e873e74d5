package engine

import "strings"

// Kind identifies a tile category. Kinds below the catalog's fixed count are
// terrain stored in the grid; the remaining kinds are movable entities.
type Kind uint8

// NoKind marks an unset paint-buffer cell. It is never a valid kind.
const NoKind Kind = 0xff

// Direction is a movement direction on the grid. Stop is only meaningful as a
// Move argument.
type Direction int8

const (
	Left Direction = iota
	Up
	Right
	Down
	Stop
)

// NoDirection marks an entity that is not moving.
const NoDirection Direction = -1

var directionNames = [...]string{"left", "up", "right", "down", "stop"}

func (d Direction) String() string {
	if d >= Left && d <= Stop {
		return directionNames[d]
	}
	return "none"
}

// Moving reports whether d is one of the four compass directions.
func (d Direction) Moving() bool { return d >= Left && d <= Down }

// Delta returns the grid offset of a single step in direction d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	}
	return 0, 0
}

// Opposite returns the reverse of a compass direction.
func (d Direction) Opposite() Direction {
	if !d.Moving() {
		return d
	}
	return (d + 2) % 4
}

// RotateLeft turns a compass direction a quarter counter-clockwise.
func (d Direction) RotateLeft() Direction {
	if !d.Moving() {
		return d
	}
	return (d + 3) % 4
}

// RotateRight turns a compass direction a quarter clockwise.
func (d Direction) RotateRight() Direction {
	if !d.Moving() {
		return d
	}
	return (d + 1) % 4
}

// ParseDirection accepts the names produced by String, case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	if s == "none" || s == "" {
		return NoDirection, true
	}
	return NoDirection, false
}

// RuleType selects the phase in which a rule is eligible.
type RuleType uint8

const (
	Moving RuleType = iota
	Resting
	Pushing
	Colliding
)

var ruleTypeNames = [...]string{"moving", "resting", "pushing", "colliding"}

func (t RuleType) String() string {
	if int(t) < len(ruleTypeNames) {
		return ruleTypeNames[t]
	}
	return "unknown"
}

// ParseRuleType accepts the names produced by String.
func ParseRuleType(s string) (RuleType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range ruleTypeNames {
		if name == s {
			return RuleType(i), true
		}
	}
	return 0, false
}

// Attr is the condition a WhenDo block places on one kind.
type Attr uint8

const (
	// OK places no requirement on the kind.
	OK Attr = iota
	// Include requires the kind to be present.
	Include
	// Exclude requires the kind to be absent.
	Exclude
	// OneOf requires at least one of the cell's OneOf kinds to be present.
	OneOf
)

var attrNames = [...]string{"ok", "include", "exclude", "oneof"}

func (a Attr) String() string {
	if int(a) < len(attrNames) {
		return attrNames[a]
	}
	return "unknown"
}

// ParseAttr accepts the names produced by String.
func ParseAttr(s string) (Attr, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range attrNames {
		if name == s {
			return Attr(i), true
		}
	}
	return OK, false
}

// Outcome is the terminal state of a game.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	}
	return "none"
}

// neighborhood geometry: 5x5 table with the anchor at (2, 2).
const (
	hoodSize   = 5
	hoodCenter = 2
)

func hoodDistance(col, row int) int {
	return absInt(hoodCenter-col) + absInt(hoodCenter-row)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
