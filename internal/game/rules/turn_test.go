package rules

import "testing"

func TestTurnManagerStartsInMulligan(t *testing.T) {
	tm := NewTurnManager("Alice")

	if !tm.InMulligan() {
		t.Fatalf("expected new turn manager to be in mulligan")
	}
	if tm.CurrentStep() != StepMulligan {
		t.Fatalf("expected mulligan step, got %s", tm.CurrentStep())
	}
	if tm.CurrentStage() != StageSetup {
		t.Fatalf("expected setup stage, got %s", tm.CurrentStage())
	}
	if tm.TurnPlayer() != "Alice" {
		t.Fatalf("expected Alice as turn player, got %s", tm.TurnPlayer())
	}
}

func TestTurnManagerStepCycle(t *testing.T) {
	tm := NewTurnManager("Alice")
	tm.EndMulligan()

	expected := []Step{
		StepAwaken, StepBeginning, StepScoring, StepChannel, StepDraw,
		StepAction, StepEnding, StepExpiration, StepCleanup,
	}

	for i, want := range expected {
		if got := tm.CurrentStep(); got != want {
			t.Fatalf("step %d: expected %s, got %s", i, want, got)
		}
		tm.AdvanceStep("")
	}

	// Wrapped around into turn 2's Awaken.
	if tm.TurnNumber() != 2 {
		t.Fatalf("expected turn 2 after full cycle, got %d", tm.TurnNumber())
	}
	if tm.CurrentStep() != StepAwaken {
		t.Fatalf("expected Awaken at start of turn 2, got %s", tm.CurrentStep())
	}
}

func TestTurnManagerRotatesTurnPlayer(t *testing.T) {
	tm := NewTurnManager("Alice")
	tm.EndMulligan()

	for i := 0; i < len(turnSequence); i++ {
		tm.AdvanceStep("Bob")
	}

	if tm.TurnPlayer() != "Bob" {
		t.Fatalf("expected Bob as turn player on turn 2, got %s", tm.TurnPlayer())
	}
	if tm.PriorityPlayer() != "Bob" {
		t.Fatalf("expected priority to revert to turn player, got %s", tm.PriorityPlayer())
	}
}

func TestScoringNeverRegressesPastBeginning(t *testing.T) {
	tm := NewTurnManager("Alice")
	tm.EndMulligan()

	scoringIdx := -1
	beginningIdx := -1
	for i, entry := range turnSequence {
		if entry.step == StepScoring {
			scoringIdx = i
		}
		if entry.step == StepBeginning {
			beginningIdx = i
		}
	}
	if scoringIdx <= beginningIdx {
		t.Fatalf("scoring (%d) must sit after beginning (%d)", scoringIdx, beginningIdx)
	}

	// Walk two full turns; within each turn the index only moves forward.
	prev := tm.StepIndex()
	for i := 0; i < 2*len(turnSequence); i++ {
		tm.AdvanceStep("")
		idx := tm.StepIndex()
		if idx != 0 && idx <= prev && prev != len(turnSequence)-1 {
			t.Fatalf("step index regressed from %d to %d", prev, idx)
		}
		prev = idx
	}
}

func TestPrioritySetAndRevert(t *testing.T) {
	tm := NewTurnManager("Alice")
	tm.EndMulligan()

	tm.SetPriority("Bob")
	if tm.PriorityPlayer() != "Bob" {
		t.Fatalf("expected Bob to hold priority")
	}

	tm.AdvanceStep("")
	if tm.PriorityPlayer() != "Alice" {
		t.Fatalf("expected priority back with turn player after step change")
	}
}
