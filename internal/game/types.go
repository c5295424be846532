// Package game implements the rules-resolution engine: one Engine per
// match, mutated only through ProcessAction.
package game

import (
	"encoding/json"

	"github.com/riftforge/rift-server-go/internal/carddata"
	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/runes"
)

// CardInstance is a runtime copy of a card definition plus instance state.
type CardInstance struct {
	ID         string
	Def        carddata.Definition
	Owner      string
	Controller string
	Zone       int
	// Battlefield is the board location index, -1 when in base.
	Battlefield   int
	Ready         bool
	Damage        int
	Buffed        bool
	Role          effects.Role
	Token         bool
	Facedown      bool
	EnteredTurn   int
	MovesThisTurn int
	Attached      []string
	Effect        effects.Compiled
}

// EffectiveMight is the unit's might with buff and role-aware modifiers.
func (c *CardInstance) EffectiveMight(mods *effects.ModifierStore, role effects.Role) int {
	m := c.Def.Might
	if c.Buffed {
		m++
	}
	m += mods.MightBonus(c.ID, role)
	if m < 0 {
		m = 0
	}
	return m
}

// Player holds one player's zones and resources. Board membership is not
// listed here: a card on the board is found through its instance fields,
// so a zone move can never leave it visible in two places.
type Player struct {
	ID              string
	Name            string
	Deck            []string
	RuneDeck        []string
	Hand            []string
	Trash           []string
	Banish          []string
	RuneRow         []string
	Legend          string
	// Champion names the deck's champion card instance, wherever it is.
	Champion        string
	Pool            *runes.Pool
	Score           int
	GearCredit      int
	MulliganDone    bool
	PlayedThisTurn  int
	RuneDrawsUsed   int
	Conceded        bool
	Lost            bool
}

// Battlefield is one of the contested locations. Unit presence is derived
// from card instances; the battlefield itself tracks control and the
// facedown slot.
type Battlefield struct {
	Index int
	// CardID names the battlefield card providing the static ability.
	CardID     string
	Controller string
	// HeldFromTurnStart snapshots the controller at Awaken for Hold scoring.
	HeldFromTurnStart string
	// Hidden is the facedown card slot, at most one, owned by the controller.
	Hidden          string
	PendingShowdown bool
}

// ActionType enumerates the closed action set the engine accepts.
type ActionType string

const (
	ActionPlayCard        ActionType = "PLAY_CARD"
	ActionActivateAbility ActionType = "ACTIVATE_ABILITY"
	ActionPassPriority    ActionType = "PASS_PRIORITY"
	ActionNextStep        ActionType = "NEXT_STEP"
	ActionMoveUnit        ActionType = "MOVE_UNIT"
	ActionMulliganKeep    ActionType = "MULLIGAN_KEEP"
	ActionMulliganTake    ActionType = "MULLIGAN_TAKE"
	ActionConfirmChoice   ActionType = "CONFIRM_CHOICE"
	ActionConcede         ActionType = "CONCEDE"
)

// Action is one submitted player or AI intent.
type Action struct {
	Type   ActionType `json:"type"`
	Player string     `json:"player"`
	CardID string     `json:"cardId,omitempty"`
	// Targets holds one id group per target slot of the played card.
	Targets  [][]string `json:"targets,omitempty"`
	Facedown bool       `json:"facedown,omitempty"`
	// ToBattlefield is the destination for plays and moves; -1 means base.
	ToBattlefield int      `json:"toBattlefield,omitempty"`
	ChoiceID      string   `json:"choiceId,omitempty"`
	Picks         []string `json:"picks,omitempty"`
	Accept        bool     `json:"accept,omitempty"`
	PayAdditional bool     `json:"payAdditional,omitempty"`
}

// UnmarshalJSON defaults ToBattlefield to -1 (base) when omitted.
func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	aux := plain{ToBattlefield: -1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Action(aux)
	return nil
}

// ChoiceKind tags the closed set of pending-choice variants.
type ChoiceKind string

const (
	ChoiceDiscard     ChoiceKind = "DISCARD_SELECTION"
	ChoiceDeckTop     ChoiceKind = "DECK_TOP"
	ChoiceRune        ChoiceKind = "RUNE_SELECTION"
	ChoiceRevealAck   ChoiceKind = "REVEAL_ACK"
	ChoiceTrash       ChoiceKind = "TRASH_SELECTION"
	ChoiceEachPlayer  ChoiceKind = "EACH_PLAYER_CHOICE"
	ChoiceOptional    ChoiceKind = "OPTIONAL_ACTION"
	ChoiceDamageSplit ChoiceKind = "DAMAGE_ORDER"
)

// PendingChoice suspends resolution until the prompted player confirms.
// The resume closure completes the suspended chain item exactly where it
// stopped; the item is never abandoned while a choice is open.
type PendingChoice struct {
	ID       string
	Kind     ChoiceKind
	Player   string
	Prompt   string
	Eligible []string
	Count    int
	// Exact forces exactly Count picks; otherwise up to Count.
	Exact  bool
	resume func(picks []string, accept bool) error
}

// LogLine is one entry of the append-only game log. VisibleTo restricts a
// line to one player (private looks); empty means public.
type LogLine struct {
	Turn      int    `json:"turn"`
	Text      string `json:"text"`
	VisibleTo string `json:"visibleTo,omitempty"`
}
