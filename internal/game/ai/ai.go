// Package ai picks actions for a computer-controlled player by scoring
// legal intents with shallow outcome simulation.
package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/riftforge/rift-server-go/internal/game"
)

// Agent chooses actions for one player. It is stateless between calls.
type Agent struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{logger: logger}
}

// Scored pairs a candidate action with its estimated utility.
type Scored struct {
	Action  game.Action
	Utility float64
}

// ChooseAction returns the best legal action for the player. The legal
// set always contains a fallback (pass, confirm, advance), so a valid
// obligation can never come back empty; an empty set is a programming
// error, not a recoverable state.
func (a *Agent) ChooseAction(e *game.Engine, playerID string) (game.Action, error) {
	ranked, err := a.Rank(e, playerID)
	if err != nil {
		return game.Action{}, err
	}
	return ranked[0].Action, nil
}

// Rank scores every legal action, highest utility first. Fallback
// actions carry a minimum-utility sentinel so they are chosen only when
// nothing improves the position.
func (a *Agent) Rank(e *game.Engine, playerID string) ([]Scored, error) {
	actions := e.LegalActions(playerID)
	if len(actions) == 0 {
		return nil, fmt.Errorf("no legal action for %s: obligation deadlock", playerID)
	}

	baseline := evaluate(e.View(playerID), playerID)
	simulate := e.Quiet()

	scored := make([]Scored, 0, len(actions))
	for _, action := range actions {
		scored = append(scored, Scored{
			Action:  action,
			Utility: a.score(e, playerID, action, baseline, simulate),
		})
	}

	// Stable selection sort: deterministic order for equal utilities.
	for i := 0; i < len(scored); i++ {
		best := i
		for j := i + 1; j < len(scored); j++ {
			if scored[j].Utility > scored[best].Utility {
				best = j
			}
		}
		scored[i], scored[best] = scored[best], scored[i]
	}
	return scored, nil
}

// fallbackUtility is the sentinel for obligation-satisfying actions. It
// sits below any improvement but above failed simulations.
const fallbackUtility = -1000

func (a *Agent) score(e *game.Engine, playerID string, action game.Action, baseline float64, simulate bool) float64 {
	switch action.Type {
	case game.ActionPassPriority, game.ActionNextStep,
		game.ActionMulliganKeep, game.ActionConfirmChoice:
		if !simulate {
			return float64(fallbackUtility)
		}
	case game.ActionMulliganTake, game.ActionConcede:
		return float64(fallbackUtility) - 1
	}

	if !simulate {
		// With a chain or choice in progress the state cannot be cloned;
		// rank reactions conservatively below the fallback confirm/pass.
		return float64(fallbackUtility) - 0.5
	}

	clone, err := e.Clone()
	if err != nil {
		return float64(fallbackUtility) - 0.5
	}
	if err := clone.ProcessAction(action); err != nil {
		a.logger.Debug("candidate rejected in simulation",
			zap.String("type", string(action.Type)), zap.Error(err))
		return float64(fallbackUtility) - 1
	}
	// Resolve the play in simulation: the opponent is assumed to pass.
	a.settle(clone, playerID)

	delta := evaluate(clone.View(playerID), playerID) - baseline
	switch action.Type {
	case game.ActionPassPriority, game.ActionNextStep:
		return float64(fallbackUtility) + delta
	default:
		return delta
	}
}

// settle passes priority for both players until the simulated chain
// empties or a choice blocks further automation.
func (a *Agent) settle(clone *game.Engine, playerID string) {
	for i := 0; i < 16; i++ {
		if clone.Quiet() {
			return
		}
		actor := clone.ObligatedActor()
		if actor == "" {
			return
		}
		actions := clone.LegalActions(actor)
		var next *game.Action
		for idx := range actions {
			t := actions[idx].Type
			if t == game.ActionPassPriority || t == game.ActionConfirmChoice {
				next = &actions[idx]
				break
			}
		}
		if next == nil {
			return
		}
		if err := clone.ProcessAction(*next); err != nil {
			return
		}
	}
}

// evaluate is the position heuristic: scored points dominate, then board
// presence, then cards in hand.
func evaluate(v game.GameView, playerID string) float64 {
	var self, opp *game.PlayerView
	for i := range v.Players {
		if v.Players[i].ID == playerID {
			self = &v.Players[i]
		} else {
			opp = &v.Players[i]
		}
	}
	if self == nil || opp == nil {
		return 0
	}

	score := float64(self.Score-opp.Score) * 100
	score += float64(boardMight(v, self.ID)-boardMight(v, opp.ID)) * 3
	score += float64(self.HandCount-opp.HandCount) * 1
	for _, bf := range v.Battlefields {
		if bf.Controller == self.ID {
			score += 10
		} else if bf.Controller == opp.ID {
			score -= 10
		}
	}
	if v.Over {
		if v.Winner == playerID {
			score += 1e6
		} else {
			score -= 1e6
		}
	}
	return score
}

func boardMight(v game.GameView, playerID string) int {
	total := 0
	for _, p := range v.Players {
		if p.ID != playerID {
			continue
		}
		for _, c := range p.Base {
			total += c.Might
		}
	}
	for _, bf := range v.Battlefields {
		for _, c := range bf.Units {
			if c.Controller == playerID {
				total += c.Might
			}
		}
	}
	return total
}
