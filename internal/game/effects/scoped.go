package effects

import (
	"sync"

	"github.com/google/uuid"
)

// Modifier is a temporary stat change attached to a card. Turn-scoped
// modifiers are swept at the end of the turn they were created in.
type Modifier struct {
	ID         string
	CardID     string
	MightDelta int
	Role       Role
	TurnScoped bool
}

// ModifierStore tracks live modifiers. Lookups are role-aware so a bonus
// that only applies while attacking contributes nothing outside that role.
type ModifierStore struct {
	mu        sync.Mutex
	modifiers map[string]Modifier
}

func NewModifierStore() *ModifierStore {
	return &ModifierStore{modifiers: make(map[string]Modifier)}
}

// Add registers a modifier and returns its id.
func (s *ModifierStore) Add(m Modifier) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Role == "" {
		m.Role = RoleAny
	}
	s.modifiers[m.ID] = m
	return m.ID
}

// Remove drops a modifier by id.
func (s *ModifierStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modifiers, id)
}

// MightBonus sums the might deltas applying to a card in the given role.
func (s *ModifierStore) MightBonus(cardID string, role Role) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, m := range s.modifiers {
		if m.CardID != cardID {
			continue
		}
		if m.Role != RoleAny && m.Role != role {
			continue
		}
		total += m.MightDelta
	}
	return total
}

// RemoveForCard drops every modifier attached to a card, for when the
// card leaves the board.
func (s *ModifierStore) RemoveForCard(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.modifiers {
		if m.CardID == cardID {
			delete(s.modifiers, id)
		}
	}
}

// SweepTurn removes every turn-scoped modifier. Called once during the
// turn's expiration step.
func (s *ModifierStore) SweepTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, m := range s.modifiers {
		if m.TurnScoped {
			delete(s.modifiers, id)
			removed++
		}
	}
	return removed
}

// Clone returns an independent copy for state previews.
func (s *ModifierStore) Clone() *ModifierStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := NewModifierStore()
	for id, m := range s.modifiers {
		cp.modifiers[id] = m
	}
	return cp
}

// Len reports the number of live modifiers.
func (s *ModifierStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.modifiers)
}
