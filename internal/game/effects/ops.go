package effects

import (
	"github.com/riftforge/rift-server-go/internal/game/targeting"
)

// Op is one primitive game mutation a compiled effect can perform.
type Op string

const (
	OpDrawCards      Op = "DRAW_CARDS"
	OpDiscardCards   Op = "DISCARD_CARDS"
	OpDealDamage     Op = "DEAL_DAMAGE"
	OpKill           Op = "KILL"
	OpBuff           Op = "BUFF"
	OpStun           Op = "STUN"
	OpReady          Op = "READY"
	OpReturnToHand   Op = "RETURN_TO_HAND"
	OpGainEnergy     Op = "GAIN_ENERGY"
	OpGainGearCredit Op = "GAIN_GEAR_CREDIT"
	OpChannelRune    Op = "CHANNEL_RUNE"
	OpCreateToken    Op = "CREATE_TOKEN"
	OpMightModifier  Op = "MIGHT_MODIFIER"
	OpEachPlayerKill Op = "EACH_PLAYER_KILL"
	OpFight          Op = "FIGHT"
	OpMoveToBase     Op = "MOVE_TO_BASE"
	OpLookTop        Op = "LOOK_DECK_TOP"
	OpRevealTop      Op = "REVEAL_DECK_TOP"
	OpRecycleRune    Op = "RECYCLE_RUNE"
	OpGainControl    Op = "GAIN_CONTROL"
	OpReturnChampion Op = "RETURN_CHAMPION"
	OpReturnTrash    Op = "RETURN_FROM_TRASH"
	OpDelayed        Op = "DELAYED"
	OpNegate         Op = "NEGATE_SPELL"
	OpUnsupported    Op = "UNSUPPORTED"
)

// ConditionAdditionalPaid gates a node on the play's optional rider
// having been paid.
const ConditionAdditionalPaid = "ADDITIONAL_PAID"

// DynamicCount names a board quantity resolved when the node executes
// rather than at compile time.
type DynamicCount string

const (
	CountFixed             DynamicCount = ""
	CountOtherBattlefields DynamicCount = "OTHER_BATTLEFIELDS"
	CountFriendlyUnits     DynamicCount = "FRIENDLY_UNITS"
)

// Role conditions a might modifier on showdown participation.
type Role string

const (
	RoleAny      Role = "ANY"
	RoleAttacker Role = "ATTACKER"
	RoleDefender Role = "DEFENDER"
)

// Node is one step of a compiled effect. Steps run in order; a step
// whose targets have all left the board is skipped, not the whole effect.
type Node struct {
	Op       Op
	Amount   int
	PerEach  DynamicCount
	Slot     int // index into the requirement's slots, -1 for none
	Optional bool
	Duration string // "TURN" for this-turn modifiers, empty for permanent
	Role     Role
	Token    TokenSpec
	Text     string

	// Condition gates the node on run-time state of the play itself,
	// e.g. ConditionAdditionalPaid. Empty means unconditional.
	Condition string

	// Nested holds the deferred body of an OpDelayed node.
	Nested []Node
}

// TokenSpec describes a unit token a node summons.
type TokenSpec struct {
	Name  string
	Might int
}

// Compiled is the executable form of one ability's rules text. Supported
// is false when any clause failed to compile; the engine refuses to play
// such a card rather than half-resolving it.
type Compiled struct {
	Text        string
	Nodes       []Node
	Requirement targeting.Requirement
	Supported   bool

	// Additional is a mandatory rider paid alongside the printed cost.
	Additional *AdditionalCost
	// OptionalCost is a "you may pay X more" rider; nodes conditioned
	// on ConditionAdditionalPaid only run when it was paid.
	OptionalCost string
}

// AdditionalCost is a rider the player must pay to play the card at
// all, on top of its printed cost.
type AdditionalCost struct {
	DiscardCards  int
	ExhaustLegend bool
	ExtraCost     string
}

// UnsupportedClauses lists the clauses the compiler could not interpret.
func (c Compiled) UnsupportedClauses() []string {
	var out []string
	for _, n := range c.Nodes {
		if n.Op == OpUnsupported {
			out = append(out, n.Text)
		}
	}
	return out
}
