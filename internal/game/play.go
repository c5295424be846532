package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/rules"
	"github.com/riftforge/rift-server-go/internal/game/runes"
	"github.com/riftforge/rift-server-go/internal/game/targeting"
)

func cardSpeed(speed string) rules.Speed {
	switch strings.ToUpper(speed) {
	case string(rules.SpeedReaction):
		return rules.SpeedReaction
	case string(rules.SpeedAction):
		return rules.SpeedAction
	default:
		return rules.SpeedDefault
	}
}

func (e *Engine) playCard(action Action) error {
	p := e.player(action.Player)
	if e.turns.PriorityPlayer() != p.ID {
		return fmt.Errorf("%s does not hold priority", p.Name)
	}
	card, ok := e.cards[action.CardID]
	if !ok {
		return fmt.Errorf("card %s not found", action.CardID)
	}
	if card.Controller != p.ID {
		return fmt.Errorf("%s does not control %s", p.Name, card.Def.Name)
	}

	fromHidden := card.Zone == rules.ZoneHidden
	if card.Zone != rules.ZoneHand && !fromHidden {
		return fmt.Errorf("%s is not playable from its zone", card.Def.Name)
	}
	if card.Def.Type == "Rune" || card.Def.Type == "Battlefield" || card.Def.Type == "Legend" {
		return fmt.Errorf("%s cards are not played from hand", card.Def.Type)
	}

	if action.Facedown {
		return e.placeHidden(p, card, action.ToBattlefield)
	}

	// Unit and gear text is static or activated; it never executes on
	// play, so only spells are gated on compilable text.
	if card.Def.Type == "Spell" && !card.Effect.Supported {
		e.logf("", "%s cannot be played: unsupported text %q", card.Def.Name, strings.Join(card.Effect.UnsupportedClauses(), "; "))
		return fmt.Errorf("%s has unsupported rules text", card.Def.Name)
	}

	speed := cardSpeed(card.Def.Speed)
	if !rules.SpeedLegal(speed, e.priority.State(), e.turns.CurrentStep(), p.ID, e.turns.TurnPlayer()) {
		return fmt.Errorf("%s (%s speed) is not legal now", card.Def.Name, speed)
	}

	dest := action.ToBattlefield
	if dest < -1 || dest >= len(e.battlefields) {
		return fmt.Errorf("battlefield %d does not exist", dest)
	}

	if err := e.validator.ValidateSelection(card.Effect.Requirement, p.ID, normalizeTargets(action.Targets, card.Effect.Requirement.Slots)); err != nil {
		return fmt.Errorf("illegal targets for %s: %w", card.Def.Name, err)
	}

	add := card.Effect.Additional
	if add != nil {
		if err := e.checkAdditionalCost(p, card, add, action.Picks); err != nil {
			return err
		}
	}

	cost, err := runes.ParseCost(card.Def.Cost)
	if err != nil {
		return fmt.Errorf("bad cost on %s: %w", card.Def.Name, err)
	}
	if fromHidden && cost.Energy > 0 {
		cost.Energy--
	}
	if add != nil && add.ExtraCost != "" {
		extra, err := runes.ParseCost(add.ExtraCost)
		if err != nil {
			return fmt.Errorf("bad additional cost on %s: %w", card.Def.Name, err)
		}
		cost.Add(extra)
	}
	additionalPaid := false
	if card.Effect.OptionalCost != "" && action.PayAdditional {
		extra, err := runes.ParseCost(card.Effect.OptionalCost)
		if err != nil {
			return fmt.Errorf("bad optional cost on %s: %w", card.Def.Name, err)
		}
		cost.Add(extra)
		additionalPaid = true
	}
	ctx := runes.ContextGeneral
	if card.Def.Type == "Gear" {
		ctx = runes.ContextGearPlay
	}
	plan, err := e.planPayment(p, cost, ctx)
	if err != nil {
		return fmt.Errorf("cannot pay for %s: %w", card.Def.Name, err)
	}
	if err := e.executePlan(p, plan); err != nil {
		return err
	}
	if add != nil {
		e.payAdditionalCost(p, add, action.Picks)
	}

	if fromHidden {
		for _, bf := range e.battlefields {
			if bf.Hidden == card.ID {
				bf.Hidden = ""
			}
		}
	} else {
		p.Hand = removeID(p.Hand, card.ID)
	}
	card.Zone = rules.ZoneChain
	card.Facedown = false

	targets := flatten(action.Targets)
	item := rules.ChainItem{
		ID:             uuid.NewString(),
		Controller:     p.ID,
		Description:    card.Def.Name,
		Kind:           rules.ChainItemKindSpell,
		SourceID:       card.ID,
		Targets:        targets,
		AdditionalPaid: additionalPaid,
	}
	item.OnRemove = func() { e.discardChainSource(item) }
	res := &resolution{
		item:       item,
		compiled:   card.Effect,
		controller: p.ID,
		targets:    normalizeTargets(action.Targets, card.Effect.Requirement.Slots),
		sourceBF:   -1,
		destBF:     dest,
		legion:     card.Def.HasKeyword("Legion"),
	}
	item.Resolve = func() error { return e.runResolution(res) }
	e.chain.Push(item)
	e.priority.CloseChain()

	p.PlayedThisTurn++
	e.logf("", "%s plays %s", p.Name, card.Def.Name)
	e.bus.Publish(rules.NewEvent(rules.EventCardPlayed, card.ID, card.ID, p.ID))
	switch card.Def.Type {
	case "Spell":
		e.bus.Publish(rules.NewEvent(rules.EventSpellPlayed, card.ID, card.ID, p.ID))
	case "Gear":
		e.bus.Publish(rules.NewEvent(rules.EventGearPlayed, card.ID, card.ID, p.ID))
	}

	next, err := e.priority.NextAfter(p.ID)
	if err == nil {
		e.turns.SetPriority(next)
	}
	return nil
}

// checkAdditionalCost verifies a mandatory rider is payable before any
// part of the play mutates state.
func (e *Engine) checkAdditionalCost(p *Player, card *CardInstance, add *effects.AdditionalCost, picks []string) error {
	if add.DiscardCards > 0 {
		if len(picks) != add.DiscardCards {
			return fmt.Errorf("%s requires discarding %d card(s) as an additional cost", card.Def.Name, add.DiscardCards)
		}
		seen := map[string]bool{}
		for _, id := range picks {
			if id == card.ID || seen[id] {
				return fmt.Errorf("additional cost must name distinct other cards in hand")
			}
			picked, ok := e.cards[id]
			if !ok || picked.Zone != rules.ZoneHand || picked.Controller != p.ID {
				return fmt.Errorf("additional cost must name cards in your hand")
			}
			seen[id] = true
		}
	}
	if add.ExhaustLegend {
		legend := e.cards[p.Legend]
		if legend == nil || !legend.Ready {
			return fmt.Errorf("%s requires exhausting your ready legend", card.Def.Name)
		}
	}
	return nil
}

func (e *Engine) payAdditionalCost(p *Player, add *effects.AdditionalCost, picks []string) {
	for _, id := range picks {
		e.discardCard(p, id)
	}
	if add.ExhaustLegend {
		if legend := e.cards[p.Legend]; legend != nil {
			legend.Ready = false
		}
	}
}

// placeHidden puts a card facedown into a battlefield's hidden slot. The
// card plays at a discount later; it is discarded when its controller has
// no unit at that battlefield.
func (e *Engine) placeHidden(p *Player, card *CardInstance, bfIdx int) error {
	if e.turns.CurrentStep() != rules.StepAction || e.turns.TurnPlayer() != p.ID {
		return fmt.Errorf("hidden cards are placed during your own action step")
	}
	if bfIdx < 0 || bfIdx >= len(e.battlefields) {
		return fmt.Errorf("battlefield %d does not exist", bfIdx)
	}
	bf := e.battlefields[bfIdx]
	if bf.Hidden != "" {
		return fmt.Errorf("battlefield %d already holds a hidden card", bfIdx)
	}
	if !e.hasUnitAt(p.ID, bfIdx) {
		return fmt.Errorf("you need a unit at battlefield %d to hide a card there", bfIdx)
	}
	if !p.Pool.SpendEnergy(1) {
		return fmt.Errorf("hiding a card costs 1 energy")
	}
	p.Hand = removeID(p.Hand, card.ID)
	card.Zone = rules.ZoneHidden
	card.Facedown = true
	card.Battlefield = bfIdx
	bf.Hidden = card.ID
	e.logf("", "%s places a card facedown at battlefield %d", p.Name, bfIdx)
	e.logf(p.ID, "%s hides %s at battlefield %d", p.Name, card.Def.Name, bfIdx)
	e.bus.Publish(rules.NewEvent(rules.EventHiddenPlaced, card.ID, "", p.ID))
	return nil
}

// activateAbility puts an "Exhaust:" ability or a legend activation on
// the chain. Abilities default to action-step timing.
func (e *Engine) activateAbility(action Action) error {
	p := e.player(action.Player)
	if e.turns.PriorityPlayer() != p.ID {
		return fmt.Errorf("%s does not hold priority", p.Name)
	}
	card, ok := e.cards[action.CardID]
	if !ok {
		return fmt.Errorf("card %s not found", action.CardID)
	}
	if card.Controller != p.ID {
		return fmt.Errorf("%s does not control %s", p.Name, card.Def.Name)
	}
	isLegend := card.ID == p.Legend
	if card.Zone != rules.ZoneBoard && !isLegend {
		return fmt.Errorf("%s is not in play", card.Def.Name)
	}
	if !card.Ready {
		return fmt.Errorf("%s is exhausted", card.Def.Name)
	}

	body, ok := strings.CutPrefix(card.Def.Text, "Exhaust: ")
	if !ok {
		return fmt.Errorf("%s has no activated ability", card.Def.Name)
	}
	compiled := e.compiler.Compile(body)
	if !compiled.Supported {
		return fmt.Errorf("%s has unsupported ability text", card.Def.Name)
	}

	speed := rules.SpeedAction
	if cardSpeed(card.Def.Speed) == rules.SpeedReaction {
		speed = rules.SpeedReaction
	}
	if !rules.SpeedLegal(speed, e.priority.State(), e.turns.CurrentStep(), p.ID, e.turns.TurnPlayer()) {
		return fmt.Errorf("ability of %s is not legal now", card.Def.Name)
	}
	if err := e.validator.ValidateSelection(compiled.Requirement, p.ID, normalizeTargets(action.Targets, compiled.Requirement.Slots)); err != nil {
		return fmt.Errorf("illegal targets: %w", err)
	}

	card.Ready = false
	kind := rules.ChainItemKindAbility
	event := rules.EventAbilityActivated
	if isLegend {
		kind = rules.ChainItemKindLegend
		event = rules.EventLegendActivated
	}
	item := rules.ChainItem{
		ID:          uuid.NewString(),
		Controller:  p.ID,
		Description: fmt.Sprintf("%s ability", card.Def.Name),
		Kind:        kind,
		SourceID:    card.ID,
		Targets:     flatten(action.Targets),
	}
	res := &resolution{
		item:       item,
		compiled:   compiled,
		controller: p.ID,
		targets:    normalizeTargets(action.Targets, compiled.Requirement.Slots),
		sourceBF:   card.Battlefield,
		destBF:     -1,
	}
	item.Resolve = func() error { return e.runResolution(res) }
	e.chain.Push(item)
	e.priority.CloseChain()

	e.logf("", "%s activates %s", p.Name, card.Def.Name)
	e.bus.Publish(rules.NewEvent(event, card.ID, card.ID, p.ID))

	if next, err := e.priority.NextAfter(p.ID); err == nil {
		e.turns.SetPriority(next)
	}
	return nil
}

func (e *Engine) moveUnit(action Action) error {
	p := e.player(action.Player)
	if e.turns.TurnPlayer() != p.ID || e.turns.CurrentStep() != rules.StepAction {
		return fmt.Errorf("units move during your own action step")
	}
	if e.priority.State() != rules.ChainStateNeutral {
		return fmt.Errorf("units cannot move while a chain is in progress")
	}
	card, ok := e.cards[action.CardID]
	if !ok || card.Zone != rules.ZoneBoard || card.Def.Type != "Unit" {
		return fmt.Errorf("no such unit on the board")
	}
	if card.Controller != p.ID {
		return fmt.Errorf("%s does not control that unit", p.Name)
	}
	if !card.Ready {
		return fmt.Errorf("%s is exhausted", card.Def.Name)
	}
	if card.MovesThisTurn > 0 {
		return fmt.Errorf("%s already moved this turn", card.Def.Name)
	}
	dest := action.ToBattlefield
	if dest < -1 || dest >= len(e.battlefields) {
		return fmt.Errorf("battlefield %d does not exist", dest)
	}
	if dest == card.Battlefield {
		return fmt.Errorf("%s is already there", card.Def.Name)
	}

	card.Battlefield = dest
	card.MovesThisTurn++
	if dest >= 0 {
		e.logf("", "%s moves %s to battlefield %d", p.Name, card.Def.Name, dest)
		e.queueShowdownIfContested(dest)
	} else {
		e.logf("", "%s returns %s to base", p.Name, card.Def.Name)
	}
	e.bus.Publish(rules.NewEvent(rules.EventUnitMoved, card.ID, "", p.ID))
	e.sweepStateBasedActions()
	return nil
}

func (e *Engine) queueShowdownIfContested(bfIdx int) {
	bf := e.battlefields[bfIdx]
	controllers := map[string]bool{}
	for _, card := range e.boardUnitsAt(bfIdx) {
		controllers[card.Controller] = true
	}
	if len(controllers) > 1 && !bf.PendingShowdown {
		bf.PendingShowdown = true
		e.logf("", "Battlefield %d is contested; a showdown is queued", bfIdx)
	}
}

// planPayment builds the auto-pay request from the player's resources.
func (e *Engine) planPayment(p *Player, cost *runes.Cost, ctx runes.CostContext) (*runes.Plan, error) {
	req := runes.Request{
		Cost:    cost,
		Pool:    p.Pool,
		Credit:  p.GearCredit,
		Context: ctx,
	}
	for _, id := range p.RuneRow {
		card := e.cards[id]
		if card == nil || !card.Ready {
			continue
		}
		req.EnergySources = append(req.EnergySources, runes.EnergySource{CardID: id})
		domain, wild := runeDomain(card)
		req.PowerSources = append(req.PowerSources, runes.PowerSource{
			CardID: id,
			Tier:   runes.TierRecycle,
			Domain: domain,
			Wild:   wild,
		})
	}
	for _, card := range e.cards {
		if card.Zone != rules.ZoneBoard || card.Controller != p.ID || !card.Ready {
			continue
		}
		if card.Def.Type != "Gear" || card.Def.Tier == 0 {
			continue
		}
		tier := runes.TierGear
		if card.Def.Tier == 1 {
			tier = runes.TierSeal
		}
		domain, wild := runeDomain(card)
		req.PowerSources = append(req.PowerSources, runes.PowerSource{
			CardID: card.ID,
			Tier:   tier,
			Domain: domain,
			Wild:   wild,
		})
	}

	result := runes.CalculatePlan(req)
	if !result.Success {
		return nil, fmt.Errorf("%s", result.Reason)
	}
	return result.Plan, nil
}

func runeDomain(card *CardInstance) (runes.Domain, bool) {
	if len(card.Def.Domains) == 0 {
		return "", true
	}
	for _, d := range runes.Domains {
		if strings.EqualFold(string(d), card.Def.Domains[0]) {
			return d, false
		}
	}
	return "", true
}

// executePlan applies a payment plan: floating resources are spent, runes
// and gear exhaust, recycled runes return to the bottom of the rune deck.
func (e *Engine) executePlan(p *Player, plan *runes.Plan) error {
	if err := runes.SpendFromPool(plan, p.Pool); err != nil {
		return err
	}
	if plan.CreditUsed > 0 {
		p.GearCredit -= plan.CreditUsed
	}
	for _, id := range plan.RuneTaps {
		e.cards[id].Ready = false
	}
	for _, id := range plan.SealUses {
		e.cards[id].Ready = false
	}
	for _, id := range plan.GearUses {
		e.cards[id].Ready = false
	}
	for _, id := range plan.Recycles {
		e.recycleRune(p, id)
	}
	return nil
}

// recycleRune returns a rune from the row to the bottom of its deck.
func (e *Engine) recycleRune(p *Player, id string) {
	card := e.cards[id]
	card.Zone = rules.ZoneRuneDeck
	card.Ready = true
	p.RuneRow = removeID(p.RuneRow, id)
	p.RuneDeck = append(p.RuneDeck, id)
	e.logf("", "%s recycles %s", p.Name, card.Def.Name)
	e.bus.Publish(rules.NewEvent(rules.EventRecycledRune, id, "", p.ID))
}

func (e *Engine) hasUnitAt(playerID string, bfIdx int) bool {
	for _, card := range e.boardUnitsAt(bfIdx) {
		if card.Controller == playerID {
			return true
		}
	}
	return false
}

func (e *Engine) boardUnitsAt(bfIdx int) []*CardInstance {
	var out []*CardInstance
	for _, card := range e.cards {
		if card.Zone == rules.ZoneBoard && card.Def.Type == "Unit" && card.Battlefield == bfIdx {
			out = append(out, card)
		}
	}
	return out
}

func (e *Engine) baseUnits(playerID string) []*CardInstance {
	var out []*CardInstance
	for _, card := range e.cards {
		if card.Zone == rules.ZoneBoard && card.Def.Type == "Unit" &&
			card.Battlefield == -1 && card.Controller == playerID {
			out = append(out, card)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func flatten(groups [][]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// normalizeTargets pads a selection with empty groups so optional slots
// may be omitted entirely by the caller.
func normalizeTargets(groups [][]string, slots []targeting.Slot) [][]string {
	out := make([][]string, len(slots))
	for i := range slots {
		if i < len(groups) {
			out[i] = groups[i]
		} else {
			out[i] = nil
		}
	}
	return out
}
