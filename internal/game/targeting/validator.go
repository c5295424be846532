package targeting

import (
	"fmt"
)

// Candidate is the validator's view of one targetable object on the board.
type Candidate struct {
	ID          string
	Controller  string
	CardType    string
	Battlefield int // -1 means base
}

func (c Candidate) location() Location {
	if c.Battlefield < 0 {
		return LocationBase
	}
	return LocationBattlefield
}

// Accessor supplies the current targetable objects. The engine's board
// scan implements this; tests use fixed slices.
type Accessor interface {
	TargetCandidates() []Candidate
}

// Validator checks declared target selections against a requirement and
// re-checks them at resolution time.
type Validator struct {
	accessor Accessor
}

func NewValidator(accessor Accessor) *Validator {
	return &Validator{accessor: accessor}
}

func matches(c Candidate, f Filter, actor string) bool {
	switch f.Side {
	case SideFriendly:
		if c.Controller != actor {
			return false
		}
	case SideEnemy:
		if c.Controller == actor {
			return false
		}
	}
	if f.Location != LocationAny && c.location() != f.Location {
		return false
	}
	if f.CardType != "" && c.CardType != f.CardType {
		return false
	}
	return true
}

// LegalTargets returns the candidate ids a slot could legally name for
// the given actor.
func (v *Validator) LegalTargets(slot Slot, actor string) []string {
	var ids []string
	for _, c := range v.accessor.TargetCandidates() {
		if matches(c, slot.Filter, actor) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// CanSatisfy reports whether every mandatory slot has enough legal
// candidates to declare. Slots share candidates, so overlapping filters
// must each find a distinct object.
func (v *Validator) CanSatisfy(req Requirement, actor string) bool {
	used := map[string]bool{}
	for _, slot := range req.Slots {
		if slot.UpTo {
			continue
		}
		found := 0
		for _, id := range v.LegalTargets(slot, actor) {
			if used[id] {
				continue
			}
			used[id] = true
			found++
			if found == slot.Count {
				break
			}
		}
		if found < slot.Count {
			return false
		}
	}
	return true
}

// ValidateSelection checks a declared selection, one id slice per slot,
// for cardinality, legality, and cross-slot uniqueness.
func (v *Validator) ValidateSelection(req Requirement, actor string, selection [][]string) error {
	if len(selection) != len(req.Slots) {
		return fmt.Errorf("expected %d target groups, got %d", len(req.Slots), len(selection))
	}
	byID := map[string]Candidate{}
	for _, c := range v.accessor.TargetCandidates() {
		byID[c.ID] = c
	}
	seen := map[string]bool{}
	for i, slot := range req.Slots {
		chosen := selection[i]
		if slot.UpTo {
			if len(chosen) > slot.Count {
				return fmt.Errorf("slot %d accepts at most %d targets, got %d", i, slot.Count, len(chosen))
			}
		} else if len(chosen) != slot.Count {
			return fmt.Errorf("slot %d requires %d targets, got %d", i, slot.Count, len(chosen))
		}
		for _, id := range chosen {
			if seen[id] {
				return fmt.Errorf("target %s named more than once", id)
			}
			seen[id] = true
			c, ok := byID[id]
			if !ok {
				return fmt.Errorf("target %s is not on the board", id)
			}
			if !matches(c, slot.Filter, actor) {
				return fmt.Errorf("target %s does not match %q", id, slot.Description)
			}
		}
	}
	return nil
}

// StillValid re-checks a flat target list at resolution time against the
// requirement's slots in declaration order. An ability whose targets have
// all left the board or stopped matching should fizzle.
func (v *Validator) StillValid(req Requirement, actor string, targets []string) bool {
	selection := make([][]string, len(req.Slots))
	idx := 0
	for i, slot := range req.Slots {
		take := slot.Count
		if idx+take > len(targets) {
			take = len(targets) - idx
		}
		selection[i] = targets[idx : idx+take]
		idx += take
	}
	if idx != len(targets) {
		return false
	}
	return v.ValidateSelection(req, actor, selection) == nil
}
