package rules

import (
	"fmt"
)

// Zone constants shared with the engine package.
const (
	ZoneDeck     = 0
	ZoneHand     = 1
	ZoneBoard    = 2
	ZoneTrash    = 3
	ZoneChain    = 4
	ZoneBanish   = 5
	ZoneRuneDeck = 6
	ZoneRuneRow  = 7
	ZoneLegend   = 8
	ZoneHidden   = 9
)

// GameAccessor provides access to game state needed for legality checks.
type GameAccessor interface {
	// FindCard finds a card by ID in any zone.
	FindCard(cardID string) (CardInfo, bool)
	// FindPlayer finds player info by ID.
	FindPlayer(playerID string) (PlayerInfo, bool)
	// GetCardZone returns the zone a card is currently in.
	GetCardZone(cardID string) (int, bool)
}

// CardInfo provides information about a card for legality checks.
type CardInfo struct {
	ID           string
	Name         string
	Type         string
	Zone         int
	Battlefield  int
	ControllerID string
	OwnerID      string
	Ready        bool
	FaceDown     bool
}

// PlayerInfo provides information about a player for legality checks.
type PlayerInfo struct {
	PlayerID string
	Name     string
	Score    int
	Lost     bool
	Left     bool
}

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal   bool
	Reason  string
	Details map[string]string
}

// LegalityChecker validates chain items before resolution.
type LegalityChecker struct {
	game GameAccessor
}

// NewLegalityChecker creates a new legality checker.
func NewLegalityChecker(game GameAccessor) *LegalityChecker {
	return &LegalityChecker{game: game}
}

// CheckChainItemLegality validates a chain item at resolution time.
// Spells require their card to still be on the chain; abilities survive
// their source leaving play.
func (lc *LegalityChecker) CheckChainItemLegality(item ChainItem) LegalityResult {
	if lc == nil || lc.game == nil {
		return LegalityResult{Legal: true, Reason: "legality checker not initialized"}
	}

	if item.Controller != "" {
		player, found := lc.game.FindPlayer(item.Controller)
		if !found {
			return LegalityResult{
				Legal:   false,
				Reason:  "controller not found",
				Details: map[string]string{"controller_id": item.Controller},
			}
		}
		if player.Lost || player.Left {
			return LegalityResult{
				Legal:  false,
				Reason: "controller has left or lost the game",
				Details: map[string]string{
					"controller_id": item.Controller,
					"lost":          fmt.Sprintf("%v", player.Lost),
					"left":          fmt.Sprintf("%v", player.Left),
				},
			}
		}
	}

	if item.SourceID != "" {
		sourceCard, found := lc.game.FindCard(item.SourceID)
		if !found {
			if item.Kind == ChainItemKindSpell {
				return LegalityResult{
					Legal:  false,
					Reason: "source card no longer exists",
					Details: map[string]string{
						"source_id": item.SourceID,
						"kind":      string(item.Kind),
					},
				}
			}
			// Abilities and triggers resolve even when the source is gone.
		} else if item.Kind == ChainItemKindSpell && sourceCard.Zone != ZoneChain {
			return LegalityResult{
				Legal:  false,
				Reason: "spell card not on the chain",
				Details: map[string]string{
					"source_id":   item.SourceID,
					"source_zone": fmt.Sprintf("%d", sourceCard.Zone),
				},
			}
		}
	}

	return LegalityResult{Legal: true, Reason: "all legality checks passed"}
}

// CheckTargetStillValid re-validates a single target at resolution time.
// Unit targets must still be on the board; player targets must still be
// in the game. A false result fizzles only the sub-effect that named the
// target, never the whole resolution.
func (lc *LegalityChecker) CheckTargetStillValid(targetID string) LegalityResult {
	if lc == nil || lc.game == nil {
		return LegalityResult{Legal: true, Reason: "legality checker not initialized"}
	}

	if _, found := lc.game.FindCard(targetID); found {
		zone, hasZone := lc.game.GetCardZone(targetID)
		if !hasZone {
			return LegalityResult{
				Legal:   false,
				Reason:  "target zone unknown",
				Details: map[string]string{"target_id": targetID},
			}
		}
		if zone != ZoneBoard {
			return LegalityResult{
				Legal:  false,
				Reason: "target left the board",
				Details: map[string]string{
					"target_id": targetID,
					"zone":      fmt.Sprintf("%d", zone),
				},
			}
		}
		return LegalityResult{Legal: true, Reason: "target on board"}
	}

	if player, found := lc.game.FindPlayer(targetID); found {
		if player.Lost || player.Left {
			return LegalityResult{
				Legal:   false,
				Reason:  "target player lost or left",
				Details: map[string]string{"target_id": targetID},
			}
		}
		return LegalityResult{Legal: true, Reason: "target player in game"}
	}

	return LegalityResult{
		Legal:   false,
		Reason:  "target not found",
		Details: map[string]string{"target_id": targetID},
	}
}
