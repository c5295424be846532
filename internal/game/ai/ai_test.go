package ai

import (
	"testing"

	"github.com/riftforge/rift-server-go/internal/carddata"
	"github.com/riftforge/rift-server-go/internal/game"
)

func unitDeck(player, name string) game.DeckList {
	d := game.DeckList{Player: player, Name: name}
	for i := 0; i < 15; i++ {
		d.Cards = append(d.Cards, carddata.Definition{
			ID: "recruit", Name: "Recruit", Type: "Unit", Cost: "2", Might: 2,
		})
	}
	for i := 0; i < 10; i++ {
		d.Runes = append(d.Runes, carddata.Definition{
			ID: "fury-rune", Name: "Fury Rune", Type: "Rune", Domains: []string{"Fury"},
		})
	}
	return d
}

func spellDeck(player, name string) game.DeckList {
	d := game.DeckList{Player: player, Name: name}
	for i := 0; i < 15; i++ {
		d.Cards = append(d.Cards, carddata.Definition{
			ID: "rummage", Name: "Rummage", Type: "Spell", Cost: "0",
			Text: "Discard 1 card. Draw 2 cards.",
		})
	}
	return d
}

func battlefields() []carddata.Definition {
	return []carddata.Definition{
		{ID: "ridge", Name: "Razor Ridge", Type: "Battlefield"},
	}
}

func startGame(t *testing.T, deck func(string, string) game.DeckList) *game.Engine {
	t.Helper()
	e := game.NewEngine(nil, 11)
	err := e.StartGame("ai-test", battlefields(), deck("p1", "Ada"), deck("p2", "Brin"))
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return e
}

func act(t *testing.T, e *game.Engine, a game.Action) {
	t.Helper()
	if err := e.ProcessAction(a); err != nil {
		t.Fatalf("action %s: %v", a.Type, err)
	}
}

func toActionStep(t *testing.T, e *game.Engine) {
	t.Helper()
	act(t, e, game.Action{Type: game.ActionMulliganKeep, Player: "p1"})
	act(t, e, game.Action{Type: game.ActionMulliganKeep, Player: "p2"})
	for e.View("p1").Step != "ACTION" {
		act(t, e, game.Action{Type: game.ActionNextStep, Player: "p1", ToBattlefield: -1})
	}
}

func TestAgentKeepsHandInMulligan(t *testing.T) {
	agent := New(nil)
	e := startGame(t, unitDeck)

	action, err := agent.ChooseAction(e, "p1")
	if err != nil {
		t.Fatalf("ChooseAction: %v", err)
	}
	if action.Type != game.ActionMulliganKeep {
		t.Errorf("action = %s, want MULLIGAN_KEEP over the redraw", action.Type)
	}
	if err := e.ProcessAction(action); err != nil {
		t.Fatalf("chosen action rejected: %v", err)
	}
}

func TestAgentPrefersPlayingAUnit(t *testing.T) {
	agent := New(nil)
	e := startGame(t, unitDeck)
	toActionStep(t, e)

	action, err := agent.ChooseAction(e, "p1")
	if err != nil {
		t.Fatalf("ChooseAction: %v", err)
	}
	if action.Type != game.ActionPlayCard {
		t.Errorf("action = %s, want PLAY_CARD when a unit is affordable", action.Type)
	}
	if err := e.ProcessAction(action); err != nil {
		t.Fatalf("chosen action rejected: %v", err)
	}
}

func TestAgentAnswersPendingChoice(t *testing.T) {
	agent := New(nil)
	e := startGame(t, spellDeck)
	toActionStep(t, e)

	// Put a discard choice on the table by resolving a rummage spell.
	hand := e.View("p1").Players[0].Hand
	if len(hand) == 0 {
		t.Fatal("no hand to play from")
	}
	act(t, e, game.Action{
		Type: game.ActionPlayCard, Player: "p1", CardID: hand[0].ID, ToBattlefield: -1,
	})
	act(t, e, game.Action{Type: game.ActionPassPriority, Player: "p2", ToBattlefield: -1})
	act(t, e, game.Action{Type: game.ActionPassPriority, Player: "p1", ToBattlefield: -1})

	pc := e.PendingChoiceInfo()
	if pc == nil {
		t.Fatal("expected a pending discard choice")
	}

	action, err := agent.ChooseAction(e, pc.Player)
	if err != nil {
		t.Fatalf("ChooseAction: %v", err)
	}
	if action.Type != game.ActionConfirmChoice {
		t.Fatalf("action = %s, want CONFIRM_CHOICE while a choice is open", action.Type)
	}
	if err := e.ProcessAction(action); err != nil {
		t.Fatalf("chosen confirm rejected: %v", err)
	}
	if e.PendingChoiceInfo() != nil {
		t.Error("choice still open after the agent's confirm")
	}
}

func TestAgentNeverConcedesByDefault(t *testing.T) {
	agent := New(nil)
	e := startGame(t, unitDeck)
	toActionStep(t, e)

	ranked, err := agent.Rank(e, "p1")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(ranked) == 0 {
		t.Fatal("rank returned nothing for an obligated player")
	}
	if ranked[0].Action.Type == game.ActionConcede {
		t.Error("concede ranked first")
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Utility > ranked[i-1].Utility {
			t.Fatal("rank output not sorted by utility")
		}
	}
}

func TestAgentPlaysWholeTurnWithoutDeadlock(t *testing.T) {
	agent := New(nil)
	e := startGame(t, unitDeck)

	// Drive both seats for a while; the obligated actor must always have
	// a playable action and the game must keep making progress.
	for i := 0; i < 120; i++ {
		if over, _ := e.Over(); over {
			return
		}
		actor := e.ObligatedActor()
		if actor == "" {
			t.Fatal("no obligated actor in a live game")
		}
		action, err := agent.ChooseAction(e, actor)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if err := e.ProcessAction(action); err != nil {
			t.Fatalf("step %d: %s rejected: %v", i, action.Type, err)
		}
	}
}
