package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/rules"
)

// resolveShowdown settles a contested battlefield. The turn player's side
// attacks. Might totals are role-aware; the higher total pours its excess
// into the loser's units in loser-chosen order, ties kill every
// participant and conquer nothing.
func (e *Engine) resolveShowdown(bf *Battlefield) error {
	attackerID := e.turns.TurnPlayer()
	defender := e.opponent(attackerID)
	if defender == nil {
		return fmt.Errorf("showdown needs two players")
	}

	var attackers, defenders []*CardInstance
	for _, card := range e.boardUnitsAt(bf.Index) {
		if card.Controller == attackerID {
			card.Role = effects.RoleAttacker
			attackers = append(attackers, card)
		} else {
			card.Role = effects.RoleDefender
			defenders = append(defenders, card)
		}
	}
	if len(attackers) == 0 && len(defenders) == 0 {
		bf.PendingShowdown = false
		e.clearCombatRoles()
		return nil
	}
	if len(attackers) == 0 || len(defenders) == 0 {
		// Unopposed: the present side takes the battlefield without damage.
		present := attackers
		if len(present) == 0 {
			present = defenders
		}
		e.finishShowdown(bf, present[0].Controller)
		return nil
	}

	e.combatBF = bf.Index
	e.bus.Publish(rules.NewEvent(rules.EventShowdownStarted, bf.CardID, "", attackerID))
	e.logf("", "Showdown at battlefield %d: %s attacks %s", bf.Index, e.player(attackerID).Name, defender.Name)

	attackTotal := e.sideMight(attackers, effects.RoleAttacker)
	defendTotal := e.sideMight(defenders, effects.RoleDefender)
	e.logf("", "Might totals: attacker %d, defender %d", attackTotal, defendTotal)

	if attackTotal == defendTotal {
		// A tie kills everything and scores nothing.
		for _, card := range append(append([]*CardInstance{}, attackers...), defenders...) {
			e.killUnit(card)
		}
		e.logf("", "The showdown is a draw; all participants are killed")
		e.finishShowdown(bf, "")
		return nil
	}

	winnerID, excess := attackerID, attackTotal-defendTotal
	losers := defenders
	if defendTotal > attackTotal {
		winnerID, excess = defender.ID, defendTotal-attackTotal
		losers = attackers
	}
	loserID := losers[0].Controller

	if excess > 0 && len(losers) > 1 {
		eligible := make([]string, 0, len(losers))
		for _, u := range losers {
			eligible = append(eligible, u.ID)
		}
		e.suspend(&PendingChoice{
			Kind:     ChoiceDamageSplit,
			Player:   loserID,
			Prompt:   fmt.Sprintf("Order your units to receive %d damage", excess),
			Eligible: eligible,
			Count:    len(eligible),
			Exact:    true,
		}, func(picks []string, accept bool) error {
			ordered := make([]*CardInstance, 0, len(picks))
			for _, id := range picks {
				if card, ok := e.cards[id]; ok {
					ordered = append(ordered, card)
				}
			}
			e.applyShowdownDamage(ordered, excess)
			e.finishShowdown(bf, winnerID)
			return nil
		})
		return nil
	}

	e.applyShowdownDamage(losers, excess)
	e.finishShowdown(bf, winnerID)
	return nil
}

func (e *Engine) sideMight(units []*CardInstance, role effects.Role) int {
	total := 0
	for _, u := range units {
		total += u.EffectiveMight(e.modifiers, role)
	}
	return total
}

// applyShowdownDamage pours the excess into units in order; each unit
// soaks up to its effective might before the remainder spills over.
func (e *Engine) applyShowdownDamage(ordered []*CardInstance, excess int) {
	for _, unit := range ordered {
		if excess <= 0 {
			break
		}
		soak := unit.EffectiveMight(e.modifiers, unit.Role) - unit.Damage
		if soak < 1 {
			soak = 1
		}
		dealt := excess
		if dealt > soak {
			dealt = soak
		}
		unit.Damage += dealt
		excess -= dealt
		e.logf("", "%s takes %d showdown damage", unit.Def.Name, dealt)
	}
}

// finishShowdown kills lethally damaged units, retreats losing survivors,
// hands the battlefield to the winner and scores a conquer when the
// winner did not already control it.
func (e *Engine) finishShowdown(bf *Battlefield, winnerID string) {
	e.sweepStateBasedActions()

	if winnerID != "" {
		for _, card := range e.boardUnitsAt(bf.Index) {
			if card.Controller != winnerID {
				card.Battlefield = -1
				e.logf("", "%s retreats to base", card.Def.Name)
			}
		}
		if bf.Controller != winnerID {
			previous := bf.Controller
			bf.Controller = winnerID
			winner := e.player(winnerID)
			winner.Score++
			e.logf("", "%s conquers battlefield %d (%d points)", winner.Name, bf.Index, winner.Score)
			evt := rules.NewEventWithAmount(rules.EventConquerScored, bf.CardID, "", winnerID, 1)
			evt.Metadata["previous_controller"] = previous
			e.bus.Publish(evt)
			e.bus.Publish(rules.NewEvent(rules.EventBattlefieldTaken, bf.CardID, "", winnerID))
			e.checkVictory()
			e.runBattlefieldEffect(bf, winnerID)
		}
	} else if len(e.boardUnitsAt(bf.Index)) == 0 {
		bf.Controller = ""
	}

	bf.PendingShowdown = false
	e.combatBF = -1
	e.clearCombatRoles()
	e.bus.Publish(rules.NewEvent(rules.EventShowdownResolved, bf.CardID, "", winnerID))
	e.sweepStateBasedActions()
}

func (e *Engine) clearCombatRoles() {
	for _, card := range e.cards {
		if card.Zone == rules.ZoneBoard && card.Role != effects.RoleAny {
			if e.combatBF == -1 || card.Battlefield != e.combatBF {
				card.Role = effects.RoleAny
			}
		}
	}
}

// runBattlefieldEffect executes the battlefield card's text for its new
// controller, e.g. "Draw 1 card for each other battlefield."
func (e *Engine) runBattlefieldEffect(bf *Battlefield, controller string) {
	card, ok := e.cards[bf.CardID]
	if !ok || card.Def.Text == "" {
		return
	}
	if !card.Effect.Supported {
		e.logf("", "%s has unsupported text; its effect is skipped", card.Def.Name)
		return
	}
	res := &resolution{
		item: rules.ChainItem{
			Controller:  controller,
			Description: card.Def.Name,
			Kind:        rules.ChainItemKindTrigger,
			SourceID:    card.ID,
		},
		compiled:   card.Effect,
		controller: controller,
		sourceBF:   bf.Index,
		destBF:     -1,
	}
	if err := e.runResolution(res); err != nil {
		e.logger.Warn("battlefield effect failed",
			zap.String("card", card.Def.Name), zap.Error(err))
	}
}
