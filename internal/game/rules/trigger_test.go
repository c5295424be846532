package rules

import "testing"

func TestTriggerManagerHandle(t *testing.T) {
	tm := NewTriggerManager()

	tm.Register(AbilityTrigger{
		SourceID:   "token-1",
		Controller: "Alice",
		EventType:  EventUnitPlayed,
		Build: func(e Event) ChainItem {
			return ChainItem{
				Controller:  "Alice",
				Description: "on play trigger",
				SourceID:    "token-1",
			}
		},
	})

	items := tm.Handle(NewEvent(EventUnitPlayed, "token-1", "token-1", "Alice"))
	if len(items) != 1 {
		t.Fatalf("expected 1 chain item, got %d", len(items))
	}
	if items[0].Kind != ChainItemKindTrigger {
		t.Fatalf("expected trigger kind to be defaulted, got %s", items[0].Kind)
	}
	if items[0].ID == "" {
		t.Fatalf("expected trigger item to get an ID")
	}

	// Non-matching event type produces nothing.
	if items := tm.Handle(NewEvent(EventUnitKilled, "x", "x", "Alice")); len(items) != 0 {
		t.Fatalf("expected no items for unrelated event, got %d", len(items))
	}
}

func TestTriggerManagerCondition(t *testing.T) {
	tm := NewTriggerManager()

	tm.Register(AbilityTrigger{
		EventType: EventUnitKilled,
		Condition: func(e Event) bool { return e.Controller == "Bob" },
		Build:     func(e Event) ChainItem { return ChainItem{Description: "revenge"} },
	})

	if items := tm.Handle(NewEvent(EventUnitKilled, "u1", "u1", "Alice")); len(items) != 0 {
		t.Fatalf("condition should have filtered Alice's event")
	}
	if items := tm.Handle(NewEvent(EventUnitKilled, "u1", "u1", "Bob")); len(items) != 1 {
		t.Fatalf("expected Bob's event to fire the trigger")
	}
}

func TestTriggerManagerOnce(t *testing.T) {
	tm := NewTriggerManager()

	tm.Register(AbilityTrigger{
		EventType: EventDrewCard,
		Once:      true,
		Build:     func(e Event) ChainItem { return ChainItem{Description: "one shot"} },
	})

	if items := tm.Handle(NewEvent(EventDrewCard, "", "", "Alice")); len(items) != 1 {
		t.Fatalf("expected first fire")
	}
	if items := tm.Handle(NewEvent(EventDrewCard, "", "", "Alice")); len(items) != 0 {
		t.Fatalf("expected once trigger to be consumed")
	}
}

func TestTriggerManagerExpireTurnScoped(t *testing.T) {
	tm := NewTriggerManager()

	tm.Register(AbilityTrigger{
		EventType:  EventUnitMoved,
		ExpiresEnd: true,
		Build:      func(e Event) ChainItem { return ChainItem{Description: "this turn only"} },
	})
	tm.Register(AbilityTrigger{
		EventType: EventUnitMoved,
		Build:     func(e Event) ChainItem { return ChainItem{Description: "permanent"} },
	})

	tm.ExpireTurnScoped()

	items := tm.Handle(NewEvent(EventUnitMoved, "", "", "Alice"))
	if len(items) != 1 {
		t.Fatalf("expected only the permanent trigger to survive, got %d", len(items))
	}
	if items[0].Description != "permanent" {
		t.Fatalf("wrong trigger survived: %s", items[0].Description)
	}
}

func TestTriggerManagerUnregisterSource(t *testing.T) {
	tm := NewTriggerManager()

	tm.Register(AbilityTrigger{
		SourceID:  "gear-1",
		EventType: EventGearPlayed,
		Build:     func(e Event) ChainItem { return ChainItem{} },
	})
	tm.UnregisterSource("gear-1")

	if items := tm.Handle(NewEvent(EventGearPlayed, "", "gear-1", "Alice")); len(items) != 0 {
		t.Fatalf("expected source triggers removed")
	}
}
