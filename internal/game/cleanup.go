package game

import (
	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/rules"
)

// sweepStateBasedActions repeats the state-based sweep until nothing
// fires. It runs after every resolution, move and showdown, never inside
// one.
func (e *Engine) sweepStateBasedActions() {
	for rounds := 0; rounds < 64; rounds++ {
		if !e.sweepOnce() {
			return
		}
	}
	e.logger.Error("state-based sweep did not reach a fixpoint")
}

func (e *Engine) sweepOnce() bool {
	changed := false

	// Lethal damage. The comparison is role-aware while combat is live at
	// the unit's battlefield.
	for _, card := range e.cards {
		if card.Zone != rules.ZoneBoard || card.Def.Type != "Unit" {
			continue
		}
		role := effects.RoleAny
		if e.combatBF >= 0 && card.Battlefield == e.combatBF {
			role = card.Role
		}
		might := card.EffectiveMight(e.modifiers, role)
		if card.Damage >= might && might >= 0 && card.Damage > 0 {
			e.killUnit(card)
			changed = true
		}
	}

	// Stale combat roles on units no longer at the combat battlefield.
	for _, card := range e.cards {
		if card.Zone != rules.ZoneBoard || card.Role == effects.RoleAny {
			continue
		}
		if e.combatBF == -1 || card.Battlefield != e.combatBF {
			card.Role = effects.RoleAny
			changed = true
		}
	}

	// Hidden cards need a same-controller unit at their battlefield.
	for _, bf := range e.battlefields {
		if bf.Hidden == "" {
			continue
		}
		hidden, ok := e.cards[bf.Hidden]
		if !ok {
			bf.Hidden = ""
			changed = true
			continue
		}
		if !e.hasUnitAt(hidden.Controller, bf.Index) {
			bf.Hidden = ""
			hidden.Facedown = false
			hidden.Battlefield = -1
			hidden.Zone = rules.ZoneTrash
			owner := e.player(hidden.Owner)
			owner.Trash = append(owner.Trash, hidden.ID)
			e.logf("", "An unprotected hidden card at battlefield %d is discarded", bf.Index)
			e.bus.Publish(rules.NewEvent(rules.EventHiddenDiscarded, hidden.ID, "", hidden.Controller))
			changed = true
		}
	}

	// A battlefield with no defending presence and no queued showdown is
	// abandoned back to the contested state when its controller has no
	// units there and an opponent does.
	for _, bf := range e.battlefields {
		if bf.Controller == "" || bf.PendingShowdown {
			continue
		}
		units := e.boardUnitsAt(bf.Index)
		if len(units) == 0 {
			continue
		}
		enemyOnly := true
		for _, u := range units {
			if u.Controller == bf.Controller {
				enemyOnly = false
				break
			}
		}
		if enemyOnly {
			e.queueShowdownIfContestedByOne(bf, units[0].Controller)
		}
	}

	if changed {
		e.bus.Publish(rules.NewEvent(rules.EventStateBasedActions, "", "", ""))
	}
	return changed
}

// queueShowdownIfContestedByOne flags an uncontested takeover: enemy
// units alone at a controlled battlefield force its resolution on the
// turn player before the step advances.
func (e *Engine) queueShowdownIfContestedByOne(bf *Battlefield, occupier string) {
	if occupier == bf.Controller || bf.PendingShowdown {
		return
	}
	bf.PendingShowdown = true
	e.logf("", "Battlefield %d is challenged; resolution queued", bf.Index)
}
