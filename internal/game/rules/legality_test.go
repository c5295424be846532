package rules

import "testing"

type fakeGameAccessor struct {
	cards   map[string]CardInfo
	players map[string]PlayerInfo
}

func (f *fakeGameAccessor) FindCard(cardID string) (CardInfo, bool) {
	c, ok := f.cards[cardID]
	return c, ok
}

func (f *fakeGameAccessor) FindPlayer(playerID string) (PlayerInfo, bool) {
	p, ok := f.players[playerID]
	return p, ok
}

func (f *fakeGameAccessor) GetCardZone(cardID string) (int, bool) {
	c, ok := f.cards[cardID]
	if !ok {
		return 0, false
	}
	return c.Zone, true
}

func newFakeAccessor() *fakeGameAccessor {
	return &fakeGameAccessor{
		cards: map[string]CardInfo{
			"spell-1": {ID: "spell-1", Type: "Spell", Zone: ZoneChain, ControllerID: "Alice"},
			"unit-1":  {ID: "unit-1", Type: "Unit", Zone: ZoneBoard, ControllerID: "Bob"},
			"dead-1":  {ID: "dead-1", Type: "Unit", Zone: ZoneTrash, ControllerID: "Bob"},
		},
		players: map[string]PlayerInfo{
			"Alice": {PlayerID: "Alice"},
			"Bob":   {PlayerID: "Bob"},
			"Gone":  {PlayerID: "Gone", Left: true},
		},
	}
}

func TestChainItemLegalityHappyPath(t *testing.T) {
	lc := NewLegalityChecker(newFakeAccessor())

	result := lc.CheckChainItemLegality(ChainItem{
		ID:         "item-1",
		Kind:       ChainItemKindSpell,
		Controller: "Alice",
		SourceID:   "spell-1",
	})
	if !result.Legal {
		t.Fatalf("expected legal item, got: %s", result.Reason)
	}
}

func TestChainItemLegalityControllerGone(t *testing.T) {
	lc := NewLegalityChecker(newFakeAccessor())

	result := lc.CheckChainItemLegality(ChainItem{
		Kind:       ChainItemKindSpell,
		Controller: "Gone",
		SourceID:   "spell-1",
	})
	if result.Legal {
		t.Fatalf("expected item from departed controller to be illegal")
	}
}

func TestChainItemLegalitySpellSourceMissing(t *testing.T) {
	lc := NewLegalityChecker(newFakeAccessor())

	result := lc.CheckChainItemLegality(ChainItem{
		Kind:       ChainItemKindSpell,
		Controller: "Alice",
		SourceID:   "vanished",
	})
	if result.Legal {
		t.Fatalf("expected spell without source card to be illegal")
	}

	// Abilities survive their source leaving.
	result = lc.CheckChainItemLegality(ChainItem{
		Kind:       ChainItemKindAbility,
		Controller: "Alice",
		SourceID:   "vanished",
	})
	if !result.Legal {
		t.Fatalf("expected ability to survive missing source: %s", result.Reason)
	}
}

func TestCheckTargetStillValid(t *testing.T) {
	lc := NewLegalityChecker(newFakeAccessor())

	if r := lc.CheckTargetStillValid("unit-1"); !r.Legal {
		t.Fatalf("expected board unit to be a valid target: %s", r.Reason)
	}
	if r := lc.CheckTargetStillValid("dead-1"); r.Legal {
		t.Fatalf("expected trashed unit to be invalid")
	}
	if r := lc.CheckTargetStillValid("Bob"); !r.Legal {
		t.Fatalf("expected active player to be a valid target")
	}
	if r := lc.CheckTargetStillValid("Gone"); r.Legal {
		t.Fatalf("expected departed player to be invalid")
	}
	if r := lc.CheckTargetStillValid("never-existed"); r.Legal {
		t.Fatalf("expected unknown id to be invalid")
	}
}
