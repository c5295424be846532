package rules

import (
	"fmt"
	"sync"
)

// ChainState describes whether a chain is currently open.
type ChainState string

const (
	// ChainStateNeutral means no chain exists; the board is quiet.
	ChainStateNeutral ChainState = "NEUTRAL"
	// ChainStateClosed means a chain exists and only reaction-speed
	// plays are legal responses.
	ChainStateClosed ChainState = "CLOSED"
)

// Speed classifies when a play is legal relative to the chain state.
type Speed string

const (
	// SpeedDefault plays are legal only in the neutral state during the
	// controller's own Action step.
	SpeedDefault Speed = "DEFAULT"
	// SpeedAction plays are legal in the neutral state during either
	// player's Action step.
	SpeedAction Speed = "ACTION"
	// SpeedReaction plays are legal whenever the controller holds
	// priority, including while a chain is closed.
	SpeedReaction Speed = "REACTION"
)

// PriorityTracker tracks per-player passes and the open/closed chain state.
type PriorityTracker struct {
	mu     sync.Mutex
	state  ChainState
	passed map[string]bool
	order  []string
}

// NewPriorityTracker creates a tracker in the neutral state.
func NewPriorityTracker(players []string) *PriorityTracker {
	order := make([]string, len(players))
	copy(order, players)
	return &PriorityTracker{
		state:  ChainStateNeutral,
		passed: make(map[string]bool, len(players)),
		order:  order,
	}
}

// Clone returns an independent copy for state previews.
func (pt *PriorityTracker) Clone() *PriorityTracker {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	cp := &PriorityTracker{
		state:  pt.state,
		passed: make(map[string]bool, len(pt.passed)),
		order:  append([]string(nil), pt.order...),
	}
	for p, v := range pt.passed {
		cp.passed[p] = v
	}
	return cp
}

// State returns the current chain state.
func (pt *PriorityTracker) State() ChainState {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.state
}

// CloseChain marks the chain as populated. Passes reset because a new
// item always reopens the response round.
func (pt *PriorityTracker) CloseChain() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.state = ChainStateClosed
	for p := range pt.passed {
		delete(pt.passed, p)
	}
}

// OpenChain returns the game to the neutral state once the chain empties.
func (pt *PriorityTracker) OpenChain() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.state = ChainStateNeutral
	for p := range pt.passed {
		delete(pt.passed, p)
	}
}

// Pass records a pass for the given player and reports whether every
// player has now passed consecutively.
func (pt *PriorityTracker) Pass(player string) bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.passed[player] = true
	for _, p := range pt.order {
		if !pt.passed[p] {
			return false
		}
	}
	return true
}

// ResetPasses clears pass state, typically after any non-pass action.
func (pt *PriorityTracker) ResetPasses() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	for p := range pt.passed {
		delete(pt.passed, p)
	}
}

// HasPassed reports whether the given player has passed this round.
func (pt *PriorityTracker) HasPassed(player string) bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.passed[player]
}

// NextAfter returns the next player in table order after the given one.
func (pt *PriorityTracker) NextAfter(player string) (string, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	for i, p := range pt.order {
		if p == player {
			return pt.order[(i+1)%len(pt.order)], nil
		}
	}
	return "", fmt.Errorf("player %s not in priority order", player)
}

// SpeedLegal reports whether a play of the given speed is legal for the
// player given the chain state, the current step, and the turn player.
func SpeedLegal(speed Speed, state ChainState, step Step, player, turnPlayer string) bool {
	switch speed {
	case SpeedReaction:
		return true
	case SpeedAction:
		return state == ChainStateNeutral && step == StepAction
	case SpeedDefault:
		return state == ChainStateNeutral && step == StepAction && player == turnPlayer
	default:
		return false
	}
}
