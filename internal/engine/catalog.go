package engine

// RuleID identifies a rule within a Catalog.
type RuleID int

// WhenDoID identifies a WhenDo block within a rule.
type WhenDoID int

// Catalog is the read-only rule table consumed by the VM. Implementations are
// trusted to be well formed: kinds stay below TotalKinds and WhenDo ids are
// valid for the rule that produced them.
type Catalog interface {
	FixedKinds() int
	TotalKinds() int

	RuleKinds(rule RuleID) []Kind
	RuleDirection(rule RuleID) Direction
	RuleType(rule RuleID) RuleType

	// WhenDo returns the block placed at (col, row) of the rule's 5x5
	// neighborhood, where (2, 2) is the anchor.
	WhenDo(rule RuleID, col, row int) (WhenDoID, bool)
	Attr(rule RuleID, wd WhenDoID, kind Kind) Attr
	// Command returns the command in slot 0..3, or nil.
	Command(rule RuleID, wd WhenDoID, slot int) Command
}

// CommandSlots is the number of command slots per WhenDo block.
const CommandSlots = 4

func ruleHasKind(cat Catalog, rule RuleID, kind Kind) bool {
	for _, k := range cat.RuleKinds(rule) {
		if k == kind {
			return true
		}
	}
	return false
}
