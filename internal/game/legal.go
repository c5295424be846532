package game

import (
	"strings"

	"github.com/riftforge/rift-server-go/internal/game/rules"
	"github.com/riftforge/rift-server-go/internal/game/runes"
)

// LegalActions enumerates the actions the player could legally submit
// right now. Target payloads are filled with the first legal combination;
// the list always contains a fallback (pass, confirm or advance) for the
// obligated actor, so an obligation can never deadlock.
func (e *Engine) LegalActions(playerID string) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.over || e.player(playerID) == nil {
		return nil
	}

	if e.pending != nil {
		if e.pending.Player != playerID {
			return nil
		}
		return e.legalConfirms(playerID)
	}

	if e.turns.InMulligan() {
		p := e.player(playerID)
		if p.MulliganDone {
			return nil
		}
		return []Action{
			{Type: ActionMulliganKeep, Player: playerID},
			{Type: ActionMulliganTake, Player: playerID},
		}
	}

	if e.turns.PriorityPlayer() != playerID {
		return nil
	}

	var out []Action
	p := e.player(playerID)

	for _, id := range p.Hand {
		if action, ok := e.legalPlay(p, id); ok {
			out = append(out, action)
		}
	}
	for _, card := range e.cards {
		if action, ok := e.legalActivation(p, card); ok {
			out = append(out, action)
		}
	}
	if e.turns.TurnPlayer() == playerID && e.turns.CurrentStep() == rules.StepAction &&
		e.priority.State() == rules.ChainStateNeutral {
		out = append(out, e.legalMoves(p)...)
	}

	if e.turns.TurnPlayer() == playerID && e.chain.IsEmpty() {
		out = append(out, Action{Type: ActionNextStep, Player: playerID})
	}
	out = append(out, Action{Type: ActionPassPriority, Player: playerID})
	return out
}

func (e *Engine) legalConfirms(playerID string) []Action {
	pc := e.pending
	base := Action{Type: ActionConfirmChoice, Player: playerID, ChoiceID: pc.ID}

	switch pc.Kind {
	case ChoiceOptional, ChoiceRevealAck:
		accept := base
		accept.Accept = true
		return []Action{accept, base}
	default:
		count := pc.Count
		if !pc.Exact && count > len(pc.Eligible) {
			count = len(pc.Eligible)
		}
		if count > len(pc.Eligible) {
			count = len(pc.Eligible)
		}
		picked := base
		picked.Picks = append([]string(nil), pc.Eligible[:count]...)
		picked.Accept = true
		actions := []Action{picked}
		if !pc.Exact {
			actions = append(actions, base)
		}
		return actions
	}
}

func (e *Engine) legalPlay(p *Player, cardID string) (Action, bool) {
	card, ok := e.cards[cardID]
	if !ok {
		return Action{}, false
	}
	if card.Def.Type == "Spell" && !card.Effect.Supported {
		return Action{}, false
	}
	if card.Def.Type == "Rune" || card.Def.Type == "Battlefield" || card.Def.Type == "Legend" {
		return Action{}, false
	}
	speed := cardSpeed(card.Def.Speed)
	if !rules.SpeedLegal(speed, e.priority.State(), e.turns.CurrentStep(), p.ID, e.turns.TurnPlayer()) {
		return Action{}, false
	}
	if !e.validator.CanSatisfy(card.Effect.Requirement, p.ID) {
		return Action{}, false
	}

	cost, err := runes.ParseCost(card.Def.Cost)
	if err != nil {
		return Action{}, false
	}
	var picks []string
	if add := card.Effect.Additional; add != nil {
		if add.DiscardCards > 0 {
			for _, id := range p.Hand {
				if id == cardID || len(picks) == add.DiscardCards {
					continue
				}
				picks = append(picks, id)
			}
			if len(picks) < add.DiscardCards {
				return Action{}, false
			}
		}
		if add.ExhaustLegend {
			legend := e.cards[p.Legend]
			if legend == nil || !legend.Ready {
				return Action{}, false
			}
		}
		if add.ExtraCost != "" {
			extra, err := runes.ParseCost(add.ExtraCost)
			if err != nil {
				return Action{}, false
			}
			cost.Add(extra)
		}
	}
	ctx := runes.ContextGeneral
	if card.Def.Type == "Gear" {
		ctx = runes.ContextGearPlay
	}
	if _, err := e.planPayment(p, cost, ctx); err != nil {
		return Action{}, false
	}

	return Action{
		Type:          ActionPlayCard,
		Player:        p.ID,
		CardID:        cardID,
		Targets:       e.pickTargets(card, p.ID),
		Picks:         picks,
		ToBattlefield: -1,
	}, true
}

// pickTargets greedily fills each slot with distinct legal candidates.
func (e *Engine) pickTargets(card *CardInstance, playerID string) [][]string {
	req := card.Effect.Requirement
	if len(req.Slots) == 0 {
		return nil
	}
	used := map[string]bool{}
	out := make([][]string, len(req.Slots))
	for i, slot := range req.Slots {
		want := slot.Count
		for _, id := range e.validator.LegalTargets(slot, playerID) {
			if want == 0 {
				break
			}
			if used[id] {
				continue
			}
			used[id] = true
			out[i] = append(out[i], id)
			want--
		}
	}
	return out
}

func (e *Engine) legalActivation(p *Player, card *CardInstance) (Action, bool) {
	isLegend := card.ID == p.Legend
	if card.Controller != p.ID || !card.Ready {
		return Action{}, false
	}
	if card.Zone != rules.ZoneBoard && !isLegend {
		return Action{}, false
	}
	body, ok := strings.CutPrefix(card.Def.Text, "Exhaust: ")
	if !ok {
		return Action{}, false
	}
	compiled := e.compiler.Compile(body)
	if !compiled.Supported {
		return Action{}, false
	}
	speed := rules.SpeedAction
	if cardSpeed(card.Def.Speed) == rules.SpeedReaction {
		speed = rules.SpeedReaction
	}
	if !rules.SpeedLegal(speed, e.priority.State(), e.turns.CurrentStep(), p.ID, e.turns.TurnPlayer()) {
		return Action{}, false
	}
	if !e.validator.CanSatisfy(compiled.Requirement, p.ID) {
		return Action{}, false
	}
	action := Action{
		Type:          ActionActivateAbility,
		Player:        p.ID,
		CardID:        card.ID,
		ToBattlefield: -1,
	}
	fake := &CardInstance{Effect: compiled}
	action.Targets = e.pickTargets(fake, p.ID)
	return action, true
}

func (e *Engine) legalMoves(p *Player) []Action {
	var out []Action
	for _, card := range e.cards {
		if card.Zone != rules.ZoneBoard || card.Def.Type != "Unit" || card.Controller != p.ID {
			continue
		}
		if !card.Ready || card.MovesThisTurn > 0 {
			continue
		}
		for _, bf := range e.battlefields {
			if bf.Index == card.Battlefield {
				continue
			}
			out = append(out, Action{
				Type:          ActionMoveUnit,
				Player:        p.ID,
				CardID:        card.ID,
				ToBattlefield: bf.Index,
			})
		}
		if card.Battlefield >= 0 {
			out = append(out, Action{
				Type:          ActionMoveUnit,
				Player:        p.ID,
				CardID:        card.ID,
				ToBattlefield: -1,
			})
		}
	}
	return out
}

// ObligatedActor returns the player who must act next: the prompted
// player of an open choice, an undecided mulligan player, or the
// priority holder.
func (e *Engine) ObligatedActor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.over {
		return ""
	}
	if e.pending != nil {
		return e.pending.Player
	}
	if e.turns.InMulligan() {
		for _, p := range e.players {
			if !p.MulliganDone {
				return p.ID
			}
		}
	}
	return e.turns.PriorityPlayer()
}
