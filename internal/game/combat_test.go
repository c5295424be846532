package game

import (
	"testing"

	"github.com/riftforge/rift-server-go/internal/game/effects"
	"github.com/riftforge/rift-server-go/internal/game/rules"
)

func queueShowdownAt(t *testing.T, e *Engine, bf int) {
	t.Helper()
	e.queueShowdownIfContested(bf)
	if !e.battlefields[bf].PendingShowdown {
		t.Fatalf("battlefield %d not queued for a showdown", bf)
	}
}

func TestShowdownWinnerConquersAndScores(t *testing.T) {
	e := startTestGame(t,
		bfDef("ridge", "Razor Ridge", "Draw 1 card for each other battlefield"),
		bfDef("mire", "Sunken Mire", ""),
		bfDef("spire", "Shattered Spire", ""),
	)
	keepBoth(t, e)
	advanceTo(t, e, rules.StepAction)
	// The conquered battlefield counts other battlefields its new
	// controller already holds.
	e.battlefields[1].Controller = "p1"
	e.battlefields[2].Controller = "p1"

	attacker := addUnit(e, "p1", "Vanguard", 3, 0)
	defender := addUnit(e, "p2", "Sentry", 1, 0)
	queueShowdownAt(t, e, 0)

	p1 := e.player("p1")
	handBefore := len(p1.Hand)
	err := e.ProcessAction(Action{Type: ActionNextStep, Player: "p1", ToBattlefield: -1})
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}

	if e.turns.CurrentStep() != rules.StepAction {
		t.Error("resolving a showdown must not also advance the step")
	}
	if defender.Zone != rules.ZoneTrash {
		t.Errorf("defender zone = %d, want trash", defender.Zone)
	}
	if attacker.Zone != rules.ZoneBoard || attacker.Battlefield != 0 {
		t.Error("winning attacker should stand on the battlefield")
	}
	if e.battlefields[0].Controller != "p1" {
		t.Errorf("controller = %q, want p1", e.battlefields[0].Controller)
	}
	if p1.Score != 1 {
		t.Errorf("score = %d, want 1 conquer point", p1.Score)
	}
	// The conquered battlefield draws 1 per other battlefield: two others.
	if want := handBefore + 2; len(p1.Hand) != want {
		t.Errorf("hand = %d, want %d from the battlefield effect", len(p1.Hand), want)
	}
	if e.battlefields[0].PendingShowdown {
		t.Error("showdown still queued after resolution")
	}
}

func TestShowdownTieKillsAllAndScoresNothing(t *testing.T) {
	e := startTestGame(t)
	keepBoth(t, e)
	advanceTo(t, e, rules.StepAction)

	a := addUnit(e, "p1", "Brawler", 2, 0)
	d := addUnit(e, "p2", "Sentry", 2, 0)
	queueShowdownAt(t, e, 0)

	err := e.ProcessAction(Action{Type: ActionNextStep, Player: "p1", ToBattlefield: -1})
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if a.Zone != rules.ZoneTrash || d.Zone != rules.ZoneTrash {
		t.Error("a tied showdown kills every participant")
	}
	if e.player("p1").Score != 0 || e.player("p2").Score != 0 {
		t.Error("a tied showdown scores nothing")
	}
	if e.battlefields[0].Controller != "" {
		t.Errorf("controller = %q, want abandoned", e.battlefields[0].Controller)
	}
}

func TestShowdownLoserOrdersExcessDamage(t *testing.T) {
	e := startTestGame(t)
	keepBoth(t, e)
	advanceTo(t, e, rules.StepAction)

	addUnit(e, "p1", "Colossus", 5, 0)
	scout := addUnit(e, "p2", "Scout", 1, 0)
	guard := addUnit(e, "p2", "Guard", 2, 0)
	queueShowdownAt(t, e, 0)

	err := e.ProcessAction(Action{Type: ActionNextStep, Player: "p1", ToBattlefield: -1})
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if e.pending == nil || e.pending.Kind != ChoiceDamageSplit {
		t.Fatalf("pending = %+v, want a damage-order choice", e.pending)
	}
	if e.pending.Player != "p2" {
		t.Errorf("choice player = %s, want the loser p2", e.pending.Player)
	}

	// Resolution is blocked until the loser answers.
	err = e.ProcessAction(Action{Type: ActionNextStep, Player: "p1", ToBattlefield: -1})
	if err == nil {
		t.Fatal("actions other than the confirm must be rejected while a choice is open")
	}

	err = e.ProcessAction(Action{
		Type: ActionConfirmChoice, Player: "p2",
		ChoiceID: e.pending.ID, Picks: []string{scout.ID, guard.ID},
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Excess 2: the scout soaks 1 and dies, the guard takes 1 and retreats.
	if scout.Zone != rules.ZoneTrash {
		t.Error("first-ordered unit should die to the excess")
	}
	if guard.Zone != rules.ZoneBoard || guard.Battlefield != -1 {
		t.Errorf("guard zone=%d bf=%d, want a base retreat", guard.Zone, guard.Battlefield)
	}
	if e.battlefields[0].Controller != "p1" || e.player("p1").Score != 1 {
		t.Error("winner should conquer and score after the damage order")
	}
	if e.pending != nil {
		t.Error("choice not consumed")
	}
}

func TestShowdownRoleAwareMight(t *testing.T) {
	e := startTestGame(t)
	keepBoth(t, e)
	advanceTo(t, e, rules.StepAction)

	attacker := addUnit(e, "p1", "Raider", 2, 0)
	defender := addUnit(e, "p2", "Warden", 2, 0)
	// +2 might while defending turns an even fight into a defender win.
	e.modifiers.Add(effects.Modifier{
		CardID: defender.ID, MightDelta: 2, Role: effects.RoleDefender, TurnScoped: true,
	})
	queueShowdownAt(t, e, 0)

	err := e.ProcessAction(Action{Type: ActionNextStep, Player: "p1", ToBattlefield: -1})
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	if defender.Zone != rules.ZoneBoard {
		t.Error("defender with the role bonus should survive")
	}
	if attacker.Zone != rules.ZoneTrash {
		t.Error("attacker should die to the defender's 4 might")
	}
	if e.battlefields[0].Controller != "p2" {
		t.Errorf("controller = %q, want p2", e.battlefields[0].Controller)
	}
}

func TestUnopposedOccupationTransfersControl(t *testing.T) {
	e := startTestGame(t)
	keepBoth(t, e)
	advanceTo(t, e, rules.StepAction)
	e.battlefields[0].Controller = "p1"

	invader := addUnit(e, "p2", "Invader", 2, 0)
	e.sweepStateBasedActions()
	if !e.battlefields[0].PendingShowdown {
		t.Fatal("enemy-only occupation should queue a resolution")
	}

	err := e.ProcessAction(Action{Type: ActionNextStep, Player: "p1", ToBattlefield: -1})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if e.battlefields[0].Controller != "p2" {
		t.Errorf("controller = %q, want p2 after the unopposed take", e.battlefields[0].Controller)
	}
	if e.player("p2").Score != 1 {
		t.Errorf("score = %d, want 1 conquer point", e.player("p2").Score)
	}
	if invader.Zone != rules.ZoneBoard || invader.Battlefield != 0 {
		t.Error("invader should stand on the taken battlefield")
	}
}

func TestShowdownOnHeldBattlefieldScoresOnlyOnce(t *testing.T) {
	e := startTestGame(t)
	keepBoth(t, e)
	advanceTo(t, e, rules.StepAction)
	e.battlefields[0].Controller = "p1"

	addUnit(e, "p1", "Holder", 3, 0)
	addUnit(e, "p2", "Raider", 1, 0)
	queueShowdownAt(t, e, 0)

	err := e.ProcessAction(Action{Type: ActionNextStep, Player: "p1", ToBattlefield: -1})
	if err != nil {
		t.Fatalf("showdown: %v", err)
	}
	// Defending a battlefield you already control is no conquer.
	if e.player("p1").Score != 0 {
		t.Errorf("score = %d, want 0 for defending your own battlefield", e.player("p1").Score)
	}
	if e.battlefields[0].Controller != "p1" {
		t.Errorf("controller = %q, want p1 retained", e.battlefields[0].Controller)
	}
}
