package effects

import (
	"testing"
)

func TestModifierStoreMightBonus(t *testing.T) {
	s := NewModifierStore()
	s.Add(Modifier{CardID: "u1", MightDelta: 2, TurnScoped: true})
	s.Add(Modifier{CardID: "u1", MightDelta: 1})
	s.Add(Modifier{CardID: "u2", MightDelta: 5})

	if got := s.MightBonus("u1", RoleAny); got != 3 {
		t.Errorf("expected +3 for u1, got %d", got)
	}
	if got := s.MightBonus("u3", RoleAny); got != 0 {
		t.Errorf("expected 0 for unmodified card, got %d", got)
	}
}

func TestModifierStoreRoleCondition(t *testing.T) {
	s := NewModifierStore()
	s.Add(Modifier{CardID: "u1", MightDelta: 2, Role: RoleAttacker, TurnScoped: true})

	if got := s.MightBonus("u1", RoleAttacker); got != 2 {
		t.Errorf("attacker bonus should apply while attacking, got %d", got)
	}
	if got := s.MightBonus("u1", RoleDefender); got != 0 {
		t.Errorf("attacker bonus must not apply while defending, got %d", got)
	}
	if got := s.MightBonus("u1", RoleAny); got != 0 {
		t.Errorf("attacker bonus must not apply outside a showdown, got %d", got)
	}
}

func TestModifierStoreSweepTurn(t *testing.T) {
	s := NewModifierStore()
	s.Add(Modifier{CardID: "u1", MightDelta: 2, TurnScoped: true})
	permanent := s.Add(Modifier{CardID: "u1", MightDelta: 1})

	if removed := s.SweepTurn(); removed != 1 {
		t.Errorf("expected 1 swept modifier, got %d", removed)
	}
	if got := s.MightBonus("u1", RoleAny); got != 1 {
		t.Errorf("permanent modifier should survive the sweep, got %d", got)
	}
	s.Remove(permanent)
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestModifierStoreRemoveForCard(t *testing.T) {
	s := NewModifierStore()
	s.Add(Modifier{CardID: "u1", MightDelta: 2, TurnScoped: true})
	s.Add(Modifier{CardID: "u1", MightDelta: 1})
	s.Add(Modifier{CardID: "u2", MightDelta: 1})

	s.RemoveForCard("u1")
	if got := s.MightBonus("u1", RoleAny); got != 0 {
		t.Errorf("modifiers must die with the card, got %d", got)
	}
	if got := s.MightBonus("u2", RoleAny); got != 1 {
		t.Errorf("other cards keep their modifiers, got %d", got)
	}
}
