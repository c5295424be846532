package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/riftforge/rift-server-go/internal/carddata"
	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/rules"
	"github.com/riftforge/rift-server-go/internal/game/targeting"
)

func singleSlotRequirement(slot targeting.Slot) targeting.Requirement {
	slot.Count = 1
	slot.UpTo = false
	return targeting.Requirement{Slots: []targeting.Slot{slot}}
}

// resolution is the execution state of one chain item. It survives
// pending-choice suspensions so the same item completes exactly once.
type resolution struct {
	item       rules.ChainItem
	compiled   effects.Compiled
	controller string
	targets    [][]string
	idx        int
	sourceBF   int
	destBF     int
	legion     bool
	suspended  bool
	finished   bool
}

// resolveTopChainItem pops and resolves the most recently added item.
func (e *Engine) resolveTopChainItem() error {
	item, err := e.chain.Pop()
	if err != nil {
		return err
	}

	if check := e.legality.CheckChainItemLegality(item); !check.Legal {
		e.logf("", "%s fizzles: %s", item.Description, check.Reason)
		e.discardChainSource(item)
		e.afterResolution()
		return nil
	}

	e.logf("", "%s resolves", item.Description)
	if item.Resolve == nil {
		e.afterResolution()
		return nil
	}
	return item.Resolve()
}

// runResolution executes effect nodes from the resolution's cursor. When
// a node suspends for a pending choice the cursor stays put; the confirm
// closure re-enters here.
func (e *Engine) runResolution(r *resolution) error {
	if r.finished {
		return fmt.Errorf("chain item %s already resolved", r.item.Description)
	}

	// Units and gear resolve by entering the board; their text is a
	// static or activated ability, not an on-play effect.
	if src, ok := e.cards[r.item.SourceID]; ok && r.item.Kind == rules.ChainItemKindSpell {
		if src.Def.Type == "Unit" || src.Def.Type == "Gear" {
			e.enterBoard(src, r.destBF)
			return e.finishResolution(r)
		}
	}

	if r.legion && e.playWatcher.PlayedBy(r.controller) < 2 {
		e.logf("", "%s: legion condition not met, effect does nothing", r.item.Description)
		r.idx = len(r.compiled.Nodes)
	}

	for r.idx < len(r.compiled.Nodes) {
		node := r.compiled.Nodes[r.idx]

		if node.Condition == effects.ConditionAdditionalPaid && !r.item.AdditionalPaid {
			r.idx++
			continue
		}

		if node.Optional && !r.suspended {
			e.suspend(&PendingChoice{
				Kind:   ChoiceOptional,
				Player: r.controller,
				Prompt: fmt.Sprintf("You may: %s", node.Text),
			}, func(picks []string, accept bool) error {
				r.suspended = true
				if !accept {
					r.idx++
					r.suspended = false
					return e.runResolution(r)
				}
				return e.runResolution(r)
			})
			return nil
		}
		r.suspended = false

		done, err := e.execNode(r, node)
		if err != nil {
			return err
		}
		if !done {
			return nil // suspended; confirm resumes
		}
		r.idx++
	}
	return e.finishResolution(r)
}

// execNode applies one node. It returns false when the node suspended on
// a pending choice; the choice's resume closure finishes the node and
// calls runResolution again.
func (e *Engine) execNode(r *resolution, node effects.Node) (bool, error) {
	switch node.Op {
	case effects.OpDrawCards:
		p := e.player(r.controller)
		count := node.Amount * e.dynamicCount(r, node.PerEach)
		for i := 0; i < count; i++ {
			if err := e.drawCard(p); err != nil {
				return true, nil // burn out ends the game, not the turn pipeline
			}
		}
		return true, nil

	case effects.OpDiscardCards:
		return e.execDiscard(r, node)

	case effects.OpDealDamage:
		for _, card := range e.nodeTargets(r, node) {
			card.Damage += node.Amount
			e.logf("", "%s takes %d damage", card.Def.Name, node.Amount)
			e.bus.Publish(rules.NewEventWithAmount(rules.EventDamagedUnit, card.ID, r.item.SourceID, r.controller, node.Amount))
		}
		return true, nil

	case effects.OpKill:
		for _, card := range e.nodeTargets(r, node) {
			e.killUnit(card)
		}
		return true, nil

	case effects.OpBuff:
		for _, card := range e.nodeTargets(r, node) {
			if card.Buffed {
				continue // buffs never stack past one
			}
			card.Buffed = true
			e.logf("", "%s is buffed", card.Def.Name)
			e.bus.Publish(rules.NewEvent(rules.EventUnitBuffed, card.ID, r.item.SourceID, r.controller))
		}
		return true, nil

	case effects.OpStun:
		for _, card := range e.nodeTargets(r, node) {
			card.Ready = false
			e.logf("", "%s is stunned", card.Def.Name)
			e.bus.Publish(rules.NewEvent(rules.EventUnitStunned, card.ID, r.item.SourceID, r.controller))
		}
		return true, nil

	case effects.OpReady:
		for _, card := range e.nodeTargets(r, node) {
			card.Ready = true
		}
		return true, nil

	case effects.OpReturnToHand:
		for _, card := range e.nodeTargets(r, node) {
			e.returnToHand(card)
		}
		return true, nil

	case effects.OpGainEnergy:
		e.player(r.controller).Pool.AddEnergy(node.Amount)
		return true, nil

	case effects.OpGainGearCredit:
		e.player(r.controller).GearCredit += node.Amount
		e.logf("", "%s gains %d gear credit", e.player(r.controller).Name, node.Amount)
		return true, nil

	case effects.OpChannelRune:
		for i := 0; i < node.Amount; i++ {
			if !e.channelRune(e.player(r.controller)) {
				break
			}
		}
		return true, nil

	case effects.OpCreateToken:
		e.createToken(r.controller, node.Token, r.destBF)
		return true, nil

	case effects.OpMightModifier:
		for _, card := range e.nodeTargets(r, node) {
			e.modifiers.Add(effects.Modifier{
				CardID:     card.ID,
				MightDelta: node.Amount,
				Role:       node.Role,
				TurnScoped: node.Duration == "TURN",
			})
			e.logf("", "%s gets +%d might", card.Def.Name, node.Amount)
		}
		return true, nil

	case effects.OpEachPlayerKill:
		return e.execEachPlayerKill(r, nil, 0)

	case effects.OpFight:
		e.execFight(r)
		return true, nil

	case effects.OpMoveToBase:
		for _, card := range e.nodeTargets(r, node) {
			if card.Battlefield < 0 {
				continue
			}
			card.Battlefield = -1
			e.logf("", "%s returns to base", card.Def.Name)
			e.bus.Publish(rules.NewEvent(rules.EventUnitMoved, card.ID, r.item.SourceID, card.Controller))
		}
		return true, nil

	case effects.OpLookTop:
		return e.execLookTop(r, node)

	case effects.OpRevealTop:
		return e.execRevealTop(r)

	case effects.OpRecycleRune:
		return e.execRecycleRunes(r, node)

	case effects.OpGainControl:
		for _, card := range e.nodeTargets(r, node) {
			if card.Controller == r.controller {
				continue
			}
			card.Controller = r.controller
			e.logf("", "%s gains control of %s", e.player(r.controller).Name, card.Def.Name)
			e.bus.Publish(rules.NewEvent(rules.EventControlChanged, card.ID, r.item.SourceID, r.controller))
		}
		return true, nil

	case effects.OpReturnChampion:
		e.execChampionReturn(r)
		return true, nil

	case effects.OpReturnTrash:
		return e.execTrashReturn(r, node)

	case effects.OpDelayed:
		e.registerDelayed(r, node)
		return true, nil

	case effects.OpNegate:
		e.execNegate(r)
		return true, nil

	case effects.OpUnsupported:
		// Supported=false cards are refused at play time; a trigger can
		// still reach here and must degrade to a logged no-op.
		e.logf("", "unsupported effect text ignored: %q", node.Text)
		return true, nil

	default:
		return true, fmt.Errorf("unhandled effect op %s", node.Op)
	}
}

func (e *Engine) execDiscard(r *resolution, node effects.Node) (bool, error) {
	p := e.player(r.controller)
	if len(p.Hand) <= node.Amount {
		for len(p.Hand) > 0 {
			e.discardCard(p, p.Hand[0])
		}
		return true, nil
	}
	eligible := append([]string(nil), p.Hand...)
	e.suspend(&PendingChoice{
		Kind:     ChoiceDiscard,
		Player:   p.ID,
		Prompt:   fmt.Sprintf("Discard %d card(s)", node.Amount),
		Eligible: eligible,
		Count:    node.Amount,
		Exact:    true,
	}, func(picks []string, accept bool) error {
		for _, id := range picks {
			e.discardCard(p, id)
		}
		r.idx++
		return e.runResolution(r)
	})
	return false, nil
}

// execEachPlayerKill walks the players in order, prompting each for a
// unit they control in base, then kills every chosen unit at once.
func (e *Engine) execEachPlayerKill(r *resolution, chosen []string, playerIdx int) (bool, error) {
	for ; playerIdx < len(e.players); playerIdx++ {
		p := e.players[playerIdx]
		units := e.baseUnits(p.ID)
		if len(units) == 0 {
			continue
		}
		eligible := make([]string, 0, len(units))
		for _, u := range units {
			eligible = append(eligible, u.ID)
		}
		idx := playerIdx
		e.suspend(&PendingChoice{
			Kind:     ChoiceEachPlayer,
			Player:   p.ID,
			Prompt:   "Choose a unit you control",
			Eligible: eligible,
			Count:    1,
			Exact:    true,
		}, func(picks []string, accept bool) error {
			done, err := e.execEachPlayerKill(r, append(chosen, picks...), idx+1)
			if err != nil || !done {
				return err
			}
			r.idx++
			return e.runResolution(r)
		})
		return false, nil
	}

	for _, id := range chosen {
		if card, ok := e.cards[id]; ok && card.Zone == rules.ZoneBoard {
			e.killUnit(card)
		}
	}
	return true, nil
}

func (e *Engine) execFight(r *resolution) {
	cards := e.nodeTargets(r, effects.Node{Slot: 0})
	var second []*CardInstance
	if len(r.targets) > 1 {
		second = e.targetsForSlot(r, 1)
	}
	if len(cards) == 0 || len(second) == 0 {
		e.logf("", "%s: fight fizzles, a participant is gone", r.item.Description)
		return
	}
	a, b := cards[0], second[0]
	a.Damage += b.EffectiveMight(e.modifiers, effects.RoleAny)
	b.Damage += a.EffectiveMight(e.modifiers, effects.RoleAny)
	e.logf("", "%s fights %s", a.Def.Name, b.Def.Name)
}

// execLookTop shows the controller the top cards of their deck; the
// picked card goes to hand and the rest go to the bottom in order.
func (e *Engine) execLookTop(r *resolution, node effects.Node) (bool, error) {
	p := e.player(r.controller)
	n := min(node.Amount, len(p.Deck))
	if n == 0 {
		return true, nil
	}
	looked := append([]string(nil), p.Deck[:n]...)
	for _, id := range looked {
		e.logf(p.ID, "%s looks at %s", p.Name, e.cards[id].Def.Name)
		e.bus.Publish(rules.NewEvent(rules.EventLookedAtCard, id, r.item.SourceID, p.ID))
	}
	take := func(pickID string) {
		p.Deck = p.Deck[n:]
		for _, id := range looked {
			if id == pickID {
				card := e.cards[id]
				card.Zone = rules.ZoneHand
				p.Hand = append(p.Hand, id)
				e.logf(p.ID, "%s puts %s into hand", p.Name, card.Def.Name)
			} else {
				p.Deck = append(p.Deck, id)
			}
		}
	}
	if n == 1 {
		take(looked[0])
		return true, nil
	}
	e.suspend(&PendingChoice{
		Kind:     ChoiceDeckTop,
		Player:   p.ID,
		Prompt:   fmt.Sprintf("Put one of the top %d cards into your hand", n),
		Eligible: looked,
		Count:    1,
		Exact:    true,
	}, func(picks []string, accept bool) error {
		if len(picks) == 1 {
			take(picks[0])
		}
		r.idx++
		return e.runResolution(r)
	})
	return false, nil
}

// execRevealTop shows the top card of the controller's deck to both
// players; the opponent acknowledges before resolution continues.
func (e *Engine) execRevealTop(r *resolution) (bool, error) {
	p := e.player(r.controller)
	if len(p.Deck) == 0 {
		return true, nil
	}
	top := e.cards[p.Deck[0]]
	e.logf("", "%s reveals %s from the top of the deck", p.Name, top.Def.Name)
	e.bus.Publish(rules.NewEvent(rules.EventRevealedCard, top.ID, r.item.SourceID, p.ID))
	opp := e.opponent(p.ID)
	if opp == nil {
		return true, nil
	}
	e.suspend(&PendingChoice{
		Kind:   ChoiceRevealAck,
		Player: opp.ID,
		Prompt: fmt.Sprintf("%s revealed %s", p.Name, top.Def.Name),
	}, func(picks []string, accept bool) error {
		r.idx++
		return e.runResolution(r)
	})
	return false, nil
}

func (e *Engine) execRecycleRunes(r *resolution, node effects.Node) (bool, error) {
	p := e.player(r.controller)
	var ready []string
	for _, id := range p.RuneRow {
		if card := e.cards[id]; card != nil && card.Ready {
			ready = append(ready, id)
		}
	}
	if len(ready) == 0 {
		return true, nil
	}
	if len(ready) <= node.Amount {
		for _, id := range ready {
			e.recycleRune(p, id)
		}
		return true, nil
	}
	e.suspend(&PendingChoice{
		Kind:     ChoiceRune,
		Player:   p.ID,
		Prompt:   fmt.Sprintf("Recycle %d rune(s)", node.Amount),
		Eligible: ready,
		Count:    node.Amount,
		Exact:    true,
	}, func(picks []string, accept bool) error {
		for _, id := range picks {
			e.recycleRune(p, id)
		}
		r.idx++
		return e.runResolution(r)
	})
	return false, nil
}

func (e *Engine) execChampionReturn(r *resolution) {
	p := e.player(r.controller)
	card, ok := e.cards[p.Champion]
	if !ok || card.Zone != rules.ZoneTrash {
		e.logf("", "%s has no champion in the trash", p.Name)
		return
	}
	e.trashToHand(p, card.ID)
}

func (e *Engine) execTrashReturn(r *resolution, node effects.Node) (bool, error) {
	p := e.player(r.controller)
	if len(p.Trash) == 0 {
		return true, nil
	}
	if len(p.Trash) <= node.Amount {
		for _, id := range append([]string(nil), p.Trash...) {
			e.trashToHand(p, id)
		}
		return true, nil
	}
	eligible := append([]string(nil), p.Trash...)
	e.suspend(&PendingChoice{
		Kind:     ChoiceTrash,
		Player:   p.ID,
		Prompt:   fmt.Sprintf("Return %d card(s) from your trash", node.Amount),
		Eligible: eligible,
		Count:    node.Amount,
		Exact:    true,
	}, func(picks []string, accept bool) error {
		for _, id := range picks {
			e.trashToHand(p, id)
		}
		r.idx++
		return e.runResolution(r)
	})
	return false, nil
}

func (e *Engine) trashToHand(p *Player, id string) {
	card, ok := e.cards[id]
	if !ok || card.Zone != rules.ZoneTrash {
		return
	}
	p.Trash = removeID(p.Trash, id)
	card.Zone = rules.ZoneHand
	p.Hand = append(p.Hand, id)
	e.logf("", "%s returns %s from the trash to hand", p.Name, card.Def.Name)
}

// registerDelayed schedules a node's nested body to run at this turn's
// ending step. An unfired trigger expires with the turn.
func (e *Engine) registerDelayed(r *resolution, node effects.Node) {
	controller := r.controller
	sourceID := r.item.SourceID
	sourceBF := r.sourceBF
	nested := node.Nested
	desc := fmt.Sprintf("%s (end of turn)", r.item.Description)
	e.triggers.Register(rules.AbilityTrigger{
		SourceID:   sourceID,
		Controller: controller,
		EventType:  rules.EventEndingStep,
		Once:       true,
		ExpiresEnd: true,
		Build: func(rules.Event) rules.ChainItem {
			item := rules.ChainItem{
				ID:          uuid.NewString(),
				Controller:  controller,
				Description: desc,
				Kind:        rules.ChainItemKindTrigger,
				SourceID:    sourceID,
			}
			res := &resolution{
				item:       item,
				compiled:   effects.Compiled{Nodes: nested, Supported: true},
				controller: controller,
				sourceBF:   sourceBF,
				destBF:     -1,
			}
			item.Resolve = func() error { return e.runResolution(res) }
			return item
		},
	})
	e.logf("", "Delayed until end of turn: %s", node.Text)
}

// execNegate removes the topmost enemy spell from the chain; its card
// lands in the trash unresolved.
func (e *Engine) execNegate(r *resolution) {
	items := e.chain.List()
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if item.Controller == r.controller || item.Kind != rules.ChainItemKindSpell {
			continue
		}
		if removed, ok := e.chain.Remove(item.ID); ok {
			e.logf("", "%s is negated", removed.Description)
			e.bus.Publish(rules.NewEvent(rules.EventChainItemRemoved, "", removed.SourceID, r.controller))
		}
		return
	}
	e.logf("", "%s: no enemy spell to negate", r.item.Description)
}

// nodeTargets resolves a node's slot to live, still-legal targets. A
// target that left the board or stopped matching fizzles silently; the
// sibling nodes of the resolution still run.
func (e *Engine) nodeTargets(r *resolution, node effects.Node) []*CardInstance {
	if node.Slot < 0 {
		return nil
	}
	return e.targetsForSlot(r, node.Slot)
}

func (e *Engine) targetsForSlot(r *resolution, slot int) []*CardInstance {
	if slot >= len(r.targets) || slot >= len(r.compiled.Requirement.Slots) {
		return nil
	}
	slotDef := r.compiled.Requirement.Slots[slot]
	var out []*CardInstance
	for _, id := range r.targets[slot] {
		if check := e.legality.CheckTargetStillValid(id); !check.Legal {
			e.logf("", "%s: target is no longer valid (%s)", r.item.Description, check.Reason)
			continue
		}
		if !e.validator.StillValid(
			singleSlotRequirement(slotDef), r.controller, []string{id}) {
			e.logf("", "%s: target no longer matches %q", r.item.Description, slotDef.Description)
			continue
		}
		if card, ok := e.cards[id]; ok {
			out = append(out, card)
		}
	}
	return out
}

// finishResolution moves a resolved spell to the trash and returns the
// game to priority: passes reset, priority back to the turn player, and
// the neutral state once the chain is empty.
func (e *Engine) finishResolution(r *resolution) error {
	r.finished = true
	e.discardChainSource(r.item)
	e.bus.Publish(rules.NewEvent(rules.EventChainItemResolved, "", r.item.SourceID, r.controller))
	e.afterResolution()
	return nil
}

func (e *Engine) discardChainSource(item rules.ChainItem) {
	card, ok := e.cards[item.SourceID]
	if !ok || card.Zone != rules.ZoneChain {
		return
	}
	owner := e.player(card.Owner)
	card.Zone = rules.ZoneTrash
	owner.Trash = append(owner.Trash, card.ID)
}

func (e *Engine) afterResolution() {
	e.sweepStateBasedActions()
	e.priority.ResetPasses()
	e.turns.SetPriority(e.turns.TurnPlayer())
	if e.chain.IsEmpty() {
		e.priority.OpenChain()
		e.bus.Publish(rules.NewEvent(rules.EventChainOpened, "", "", e.turns.TurnPlayer()))
	}
}

// enterBoard puts a resolving unit or gear into play.
func (e *Engine) enterBoard(card *CardInstance, bfIdx int) {
	card.Zone = rules.ZoneBoard
	card.Battlefield = bfIdx
	card.Ready = true
	card.EnteredTurn = e.turns.TurnNumber()
	eventType := rules.EventUnitPlayed
	if card.Def.Type == "Gear" {
		eventType = rules.EventGearPlayed
		card.Battlefield = -1 // gear sits in base
	}
	e.logf("", "%s enters play", card.Def.Name)
	e.bus.Publish(rules.NewEvent(eventType, card.ID, card.ID, card.Controller))
	e.fireTriggers(rules.NewEvent(eventType, card.ID, card.ID, card.Controller))
	if card.Def.Type == "Unit" && bfIdx >= 0 {
		e.queueShowdownIfContested(bfIdx)
	}
}

// tokenDefinition builds an ad-hoc card definition for a summoned token.
// Tokens have no printed card; their identity lives only in the match.
func tokenDefinition(spec effects.TokenSpec) carddata.Definition {
	return carddata.Definition{
		ID:    "token-" + strings.ToLower(strings.ReplaceAll(spec.Name, " ", "-")),
		Name:  spec.Name,
		Type:  "Unit",
		Might: spec.Might,
	}
}

func (e *Engine) createToken(controller string, spec effects.TokenSpec, bfIdx int) {
	token := e.newInstance(tokenDefinition(spec), controller, rules.ZoneBoard)
	token.Token = true
	token.Battlefield = -1
	token.EnteredTurn = e.turns.TurnNumber()
	e.logf("", "%s summons a %s token", e.player(controller).Name, spec.Name)
	evt := rules.NewEvent(rules.EventTokenMade, token.ID, "", controller)
	evt.Battlefield = bfIdx
	e.bus.Publish(evt)
	// Tokens fire on-play triggers scoped to their destination.
	e.fireTriggers(rules.NewEvent(rules.EventUnitPlayed, token.ID, token.ID, controller))
}

// fireTriggers queues any triggered abilities the event produced.
func (e *Engine) fireTriggers(event rules.Event) {
	items := e.triggers.Handle(event)
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		e.chain.Push(item)
		e.priority.CloseChain()
		e.logf("", "Triggered: %s", item.Description)
		e.bus.Publish(rules.NewEvent(rules.EventTriggerQueued, "", item.SourceID, item.Controller))
	}
}

// killUnit removes a unit atomically: it leaves the board and lands in
// its owner's trash in one step. Tokens cease to exist instead.
func (e *Engine) killUnit(card *CardInstance) {
	if card.Zone != rules.ZoneBoard {
		return
	}
	e.modifiers.RemoveForCard(card.ID)
	e.bus.Publish(rules.NewEvent(rules.EventUnitKilled, card.ID, "", card.Controller))
	if card.Token {
		delete(e.cards, card.ID)
		e.logf("", "%s is destroyed and ceases to exist", card.Def.Name)
		return
	}
	owner := e.player(card.Owner)
	card.Zone = rules.ZoneTrash
	card.Battlefield = -1
	card.Damage = 0
	card.Buffed = false
	card.Role = effects.RoleAny
	owner.Trash = append(owner.Trash, card.ID)
	e.logf("", "%s is killed", card.Def.Name)
}

// returnToHand bounces a board card to its owner's hand; tokens vanish.
func (e *Engine) returnToHand(card *CardInstance) {
	if card.Zone != rules.ZoneBoard {
		return
	}
	e.modifiers.RemoveForCard(card.ID)
	if card.Token {
		delete(e.cards, card.ID)
		e.logf("", "%s ceases to exist", card.Def.Name)
		return
	}
	owner := e.player(card.Owner)
	card.Zone = rules.ZoneHand
	card.Battlefield = -1
	card.Damage = 0
	card.Buffed = false
	card.Role = effects.RoleAny
	card.Controller = card.Owner
	owner.Hand = append(owner.Hand, card.ID)
	e.logf("", "%s returns to %s's hand", card.Def.Name, owner.Name)
}

func (e *Engine) discardCard(p *Player, id string) {
	card, ok := e.cards[id]
	if !ok || card.Zone != rules.ZoneHand {
		return
	}
	p.Hand = removeID(p.Hand, id)
	card.Zone = rules.ZoneTrash
	p.Trash = append(p.Trash, id)
	e.logf("", "%s discards %s", p.Name, card.Def.Name)
	e.bus.Publish(rules.NewEvent(rules.EventDiscardedCard, id, "", p.ID))
}

// dynamicCount resolves execution-time counts like "for each other
// battlefield you control".
func (e *Engine) dynamicCount(r *resolution, per effects.DynamicCount) int {
	switch per {
	case effects.CountOtherBattlefields:
		n := 0
		for _, bf := range e.battlefields {
			if bf.Index != r.sourceBF && bf.Controller == r.controller {
				n++
			}
		}
		return n
	case effects.CountFriendlyUnits:
		n := 0
		for _, card := range e.cards {
			if card.Zone == rules.ZoneBoard && card.Def.Type == "Unit" && card.Controller == r.controller {
				n++
			}
		}
		return n
	default:
		return 1
	}
}
