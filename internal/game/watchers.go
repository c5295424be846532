package game

import (
	"github.com/riftforge/rift-server-go/internal/game/rules"
)

// cardsPlayedWatcher counts cards played per player this turn, backing
// Legion-style "another card was played this turn" gates.
type cardsPlayedWatcher struct {
	*rules.BaseWatcher
	counts map[string]int
}

func newCardsPlayedWatcher() *cardsPlayedWatcher {
	base := rules.NewBaseWatcher(rules.WatcherScopeGame)
	base.SetKey("cards-played-this-turn")
	return &cardsPlayedWatcher{
		BaseWatcher: base,
		counts:      make(map[string]int),
	}
}

func (w *cardsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardPlayed {
		return
	}
	w.counts[event.PlayerID]++
	w.SetCondition(true)
}

func (w *cardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.counts = make(map[string]int)
}

// PlayedBy returns how many cards the player has played this turn,
// including the one currently resolving.
func (w *cardsPlayedWatcher) PlayedBy(playerID string) int {
	return w.counts[playerID]
}
