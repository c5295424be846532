package game

import (
	"fmt"

	"github.com/google/uuid"
)

// suspend parks the engine on a pending choice. No chain resolution or
// step progression happens until the prompted player confirms.
func (e *Engine) suspend(choice *PendingChoice, resume func(picks []string, accept bool) error) {
	choice.ID = uuid.NewString()
	choice.resume = resume
	e.pending = choice
	e.logf("", "Waiting for %s: %s", e.player(choice.Player).Name, choice.Prompt)
}

// confirmChoice validates and applies the confirm action for the open
// pending choice, then resumes the suspended resolution exactly once.
func (e *Engine) confirmChoice(action Action) error {
	pc := e.pending
	if pc == nil {
		return fmt.Errorf("no choice is pending")
	}
	if action.Player != pc.Player {
		return fmt.Errorf("choice %s belongs to %s", pc.ID, pc.Player)
	}
	if action.ChoiceID != "" && action.ChoiceID != pc.ID {
		return fmt.Errorf("choice %s is not the open choice", action.ChoiceID)
	}

	if err := validatePicks(pc, action.Picks); err != nil {
		return err
	}

	// The choice is consumed before resuming; the resume may set a new one.
	e.pending = nil
	resume := pc.resume
	pc.resume = nil
	return resume(action.Picks, action.Accept)
}

func validatePicks(pc *PendingChoice, picks []string) error {
	if pc.Kind == ChoiceOptional || pc.Kind == ChoiceRevealAck {
		return nil
	}
	if pc.Exact && len(picks) != pc.Count {
		return fmt.Errorf("choice requires exactly %d picks, got %d", pc.Count, len(picks))
	}
	if !pc.Exact && len(picks) > pc.Count {
		return fmt.Errorf("choice accepts at most %d picks, got %d", pc.Count, len(picks))
	}
	eligible := make(map[string]bool, len(pc.Eligible))
	for _, id := range pc.Eligible {
		eligible[id] = true
	}
	seen := make(map[string]bool, len(picks))
	for _, id := range picks {
		if !eligible[id] {
			return fmt.Errorf("%s is not an eligible pick", id)
		}
		if seen[id] {
			return fmt.Errorf("%s picked twice", id)
		}
		seen[id] = true
	}
	return nil
}

// PendingChoiceInfo exposes the open choice for views and the AI.
func (e *Engine) PendingChoiceInfo() *PendingChoice {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return nil
	}
	cp := *e.pending
	cp.resume = nil
	cp.Eligible = append([]string(nil), e.pending.Eligible...)
	return &cp
}
