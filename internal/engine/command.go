package engine

import "fmt"

// Command is one instruction stored in a WhenDo slot or in an entity's
// instruction slot. A nil Command means "none".
type Command interface {
	isCommand()
	fmt.Stringer
}

// Paint repaints the target cell's terrain at the end of the round.
type Paint struct{ Kind Kind }

// Move claims the target entity's movement for the round. Dir may be Stop.
type Move struct{ Dir Direction }

// Sprite is reserved and has no effect.
type Sprite struct{ Arg int }

// GameArg is the argument of a Game command.
type GameArg int

const (
	GameWin GameArg = iota
	GameLose
)

// Game is a global event processed when the round ends.
type Game struct{ Arg GameArg }

// SpritePred skips the next queued global command when an entity of Kind exists.
type SpritePred struct{ Kind Kind }

func (Paint) isCommand()      {}
func (Move) isCommand()       {}
func (Sprite) isCommand()     {}
func (Game) isCommand()       {}
func (SpritePred) isCommand() {}

func (c Paint) String() string  { return fmt.Sprintf("paint(%d)", c.Kind) }
func (c Move) String() string   { return "move(" + c.Dir.String() + ")" }
func (c Sprite) String() string { return fmt.Sprintf("sprite(%d)", c.Arg) }

func (c Game) String() string {
	switch c.Arg {
	case GameWin:
		return "game(win)"
	case GameLose:
		return "game(lose)"
	}
	return fmt.Sprintf("game(%d)", c.Arg)
}

func (c SpritePred) String() string { return fmt.Sprintf("sprite_pred(%d)", c.Kind) }

// pendingMove returns the Move held in cmd, if any.
func pendingMove(cmd Command) (Move, bool) {
	m, ok := cmd.(Move)
	return m, ok
}
