package game

import (
	"fmt"
	"math/rand"

	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/rules"
	"github.com/riftforge/rift-server-go/internal/game/runes"
	"github.com/riftforge/rift-server-go/internal/game/targeting"
)

// Clone copies the engine for shallow outcome simulation. Chain items
// carry resume closures bound to the original engine, so cloning is only
// supported from quiet states: empty chain, no pending choice.
func (e *Engine) Clone() (*Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.chain.IsEmpty() {
		return nil, fmt.Errorf("cannot clone with a chain in progress")
	}
	if e.pending != nil {
		return nil, fmt.Errorf("cannot clone with a pending choice")
	}

	cp := &Engine{
		logger:    e.logger,
		ID:        e.ID,
		cards:     make(map[string]*CardInstance, len(e.cards)),
		chain:     rules.NewChainManager(),
		triggers:  rules.NewTriggerManager(),
		bus:       rules.NewEventBus(),
		watchers:  rules.NewWatcherRegistry(),
		modifiers: e.modifiers.Clone(),
		compiler:  e.compiler,
		turns:     e.turns.Clone(),
		priority:  e.priority.Clone(),
		combatBF:  e.combatBF,
		rng:       rand.New(rand.NewSource(1)),
		started:   e.started,
		over:      e.over,
		winner:    e.winner,
	}
	cp.legality = rules.NewLegalityChecker(cp)
	cp.validator = targeting.NewValidator(cp)
	cp.playWatcher = newCardsPlayedWatcher()
	for player, n := range e.playWatcher.counts {
		cp.playWatcher.counts[player] = n
	}
	cp.watchers.Add(cp.playWatcher)
	cp.bus.Subscribe(cp.watchers.Dispatch)

	for id, card := range e.cards {
		c := *card
		c.Attached = append([]string(nil), card.Attached...)
		cp.cards[id] = &c
	}
	for _, p := range e.players {
		np := *p
		np.Deck = append([]string(nil), p.Deck...)
		np.RuneDeck = append([]string(nil), p.RuneDeck...)
		np.Hand = append([]string(nil), p.Hand...)
		np.Trash = append([]string(nil), p.Trash...)
		np.Banish = append([]string(nil), p.Banish...)
		np.RuneRow = append([]string(nil), p.RuneRow...)
		np.Pool = clonePool(p.Pool)
		cp.players = append(cp.players, &np)
	}
	for _, bf := range e.battlefields {
		nb := *bf
		cp.battlefields = append(cp.battlefields, &nb)
	}
	return cp, nil
}

func clonePool(pool *runes.Pool) *runes.Pool {
	if pool == nil {
		return runes.NewPool()
	}
	return pool.Copy()
}

// Quiet reports whether the engine is in a cloneable state.
func (e *Engine) Quiet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chain.IsEmpty() && e.pending == nil
}

// Score returns a player's current score, for heuristics.
func (e *Engine) Score(playerID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.player(playerID); p != nil {
		return p.Score
	}
	return 0
}

// BoardMight sums a player's effective might across the board.
func (e *Engine) BoardMight(playerID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, card := range e.cards {
		if card.Zone == rules.ZoneBoard && card.Def.Type == "Unit" && card.Controller == playerID {
			total += card.EffectiveMight(e.modifiers, effects.RoleAny)
		}
	}
	return total
}

// HandSize returns a player's hand count, for heuristics.
func (e *Engine) HandSize(playerID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.player(playerID); p != nil {
		return len(p.Hand)
	}
	return 0
}
