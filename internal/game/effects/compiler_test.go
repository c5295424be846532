package effects

import (
	"testing"

	"github.com/riftforge/rift-server-go/internal/game/targeting"
)

func TestCompileDraw(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Draw two cards.")
	if !compiled.Supported {
		t.Fatal("draw clause should compile")
	}
	if len(compiled.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(compiled.Nodes))
	}
	n := compiled.Nodes[0]
	if n.Op != OpDrawCards || n.Amount != 2 {
		t.Errorf("expected draw 2, got %s amount=%d", n.Op, n.Amount)
	}
}

func TestCompileDrawPerBattlefield(t *testing.T) {
	c := NewCompiler()
	// Word-form and literal phrasings compile to the same node.
	for _, text := range []string{
		"Draw 1 card for each other battlefield.",
		"Draw 1 for each other battlefield you control.",
		"Draw a card for each other battlefield you or allies control.",
	} {
		compiled := c.Compile(text)
		if !compiled.Supported {
			t.Fatalf("%q should compile", text)
		}
		n := compiled.Nodes[0]
		if n.Op != OpDrawCards || n.PerEach != CountOtherBattlefields || n.Amount != 1 {
			t.Errorf("%q: expected dynamic per-battlefield draw, got %+v", text, n)
		}
	}
}

func TestCompileDamageWithTarget(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Deal 3 damage to an enemy unit.")
	if !compiled.Supported {
		t.Fatal("damage clause should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpDealDamage || n.Amount != 3 || n.Slot != 0 {
		t.Errorf("expected damage node on slot 0, got %+v", n)
	}
	if len(compiled.Requirement.Slots) != 1 {
		t.Fatalf("expected 1 target slot, got %d", len(compiled.Requirement.Slots))
	}
	if compiled.Requirement.Slots[0].Filter.Side != targeting.SideEnemy {
		t.Error("slot should be enemy-restricted")
	}
}

func TestCompileDiscardThenDraw(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Discard a card, then draw two cards.")
	if !compiled.Supported {
		t.Fatal("sequenced clause should compile")
	}
	if len(compiled.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(compiled.Nodes))
	}
	if compiled.Nodes[0].Op != OpDiscardCards || compiled.Nodes[0].Amount != 1 {
		t.Errorf("first node should discard 1, got %+v", compiled.Nodes[0])
	}
	if compiled.Nodes[1].Op != OpDrawCards || compiled.Nodes[1].Amount != 2 {
		t.Errorf("second node should draw 2, got %+v", compiled.Nodes[1])
	}
}

func TestCompileOptional(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("You may draw one card.")
	if !compiled.Supported {
		t.Fatal("optional clause should compile")
	}
	if !compiled.Nodes[0].Optional {
		t.Error("'you may' must mark the node optional")
	}
}

func TestCompileFight(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Choose one friendly unit and one enemy unit. They fight.")
	if !compiled.Supported {
		t.Fatal("fight clause should compile")
	}
	if len(compiled.Requirement.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(compiled.Requirement.Slots))
	}
	found := false
	for _, n := range compiled.Nodes {
		if n.Op == OpFight {
			found = true
		}
	}
	if !found {
		t.Error("expected a fight node")
	}
}

func TestCompileEachPlayerKill(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Each player chooses a unit they control. Kill the chosen units.")
	if !compiled.Supported {
		t.Fatal("each-player clause should compile")
	}
	if len(compiled.Requirement.Slots) != 0 {
		t.Error("per-player choices are pending choices, not target slots")
	}
	if compiled.Nodes[0].Op != OpEachPlayerKill {
		t.Errorf("expected each-player-kill node, got %s", compiled.Nodes[0].Op)
	}
}

func TestCompileTurnScopedMight(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("A unit gets +2 might this turn.")
	if !compiled.Supported {
		t.Fatal("might modifier should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpMightModifier || n.Amount != 2 || n.Duration != "TURN" {
		t.Errorf("expected turn-scoped +2 might, got %+v", n)
	}
	if n.Role != RoleAny {
		t.Errorf("unconditioned modifier should be role-any, got %s", n.Role)
	}
}

func TestCompileRoleConditionedMight(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("A friendly unit gets +2 might while attacking this turn.")
	if !compiled.Supported {
		t.Fatal("role-conditioned modifier should compile")
	}
	if compiled.Nodes[0].Role != RoleAttacker {
		t.Errorf("expected attacker role, got %s", compiled.Nodes[0].Role)
	}
}

func TestCompileToken(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Summon a 1-might Recruit token.")
	if !compiled.Supported {
		t.Fatal("token clause should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpCreateToken || n.Token.Might != 1 || n.Token.Name != "Recruit" {
		t.Errorf("expected 1-might Recruit token, got %+v", n)
	}
}

func TestCompileGearCredit(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Gain 2 power usable only for gear.")
	if !compiled.Supported {
		t.Fatal("gear credit clause should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpGainGearCredit || n.Amount != 2 {
		t.Errorf("expected 2 gear credit, got %+v", n)
	}
}

func TestCompileUnsupportedFailsSoft(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Draw one card. Transmogrify the leftmost obelisk.")
	if compiled.Supported {
		t.Fatal("unknown clause must mark the effect unsupported")
	}
	if len(compiled.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(compiled.Nodes))
	}
	if compiled.Nodes[1].Op != OpUnsupported {
		t.Errorf("unknown clause should compile to an unsupported node, got %s", compiled.Nodes[1].Op)
	}
	clauses := compiled.UnsupportedClauses()
	if len(clauses) != 1 {
		t.Fatalf("expected 1 unsupported clause, got %v", clauses)
	}
}

func TestCompileMoveToBase(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Move a friendly unit to its base.")
	if !compiled.Supported {
		t.Fatal("move clause should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpMoveToBase || n.Slot != 0 {
		t.Errorf("expected move node on slot 0, got %+v", n)
	}
	if len(compiled.Requirement.Slots) != 1 {
		t.Fatalf("expected 1 target slot, got %d", len(compiled.Requirement.Slots))
	}
}

func TestCompileLookTop(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Look at the top three cards of your deck, then put one into your hand.")
	if !compiled.Supported {
		t.Fatal("look clause should compile")
	}
	if len(compiled.Nodes) != 1 {
		t.Fatalf("expected 1 node (the pick folds into the look), got %d", len(compiled.Nodes))
	}
	n := compiled.Nodes[0]
	if n.Op != OpLookTop || n.Amount != 3 {
		t.Errorf("expected look-top 3, got %+v", n)
	}
}

func TestCompileRevealTop(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Reveal the top card of your deck.")
	if !compiled.Supported {
		t.Fatal("reveal clause should compile")
	}
	if compiled.Nodes[0].Op != OpRevealTop {
		t.Errorf("expected reveal node, got %s", compiled.Nodes[0].Op)
	}
}

func TestCompileRecycleRunes(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Recycle two of your runes.")
	if !compiled.Supported {
		t.Fatal("recycle clause should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpRecycleRune || n.Amount != 2 {
		t.Errorf("expected recycle 2, got %+v", n)
	}
}

func TestCompileGainControl(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Gain control of target enemy unit.")
	if !compiled.Supported {
		t.Fatal("control clause should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpGainControl || n.Slot != 0 {
		t.Errorf("expected control node on slot 0, got %+v", n)
	}
	if compiled.Requirement.Slots[0].Filter.Side != targeting.SideEnemy {
		t.Error("slot should be enemy-restricted")
	}
}

func TestCompileChampionReturn(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("You may return your champion from your trash to your hand.")
	if !compiled.Supported {
		t.Fatal("champion return should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpReturnChampion || !n.Optional {
		t.Errorf("expected optional champion-return node, got %+v", n)
	}
}

func TestCompileTrashReturn(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Return a card from your trash to your hand.")
	if !compiled.Supported {
		t.Fatal("trash return should compile")
	}
	if compiled.Nodes[0].Op != OpReturnTrash {
		t.Errorf("expected trash-return node, got %s", compiled.Nodes[0].Op)
	}
}

func TestCompileNegate(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("Negate an enemy spell.")
	if !compiled.Supported {
		t.Fatal("negate clause should compile")
	}
	if compiled.Nodes[0].Op != OpNegate {
		t.Errorf("expected negate node, got %s", compiled.Nodes[0].Op)
	}
}

func TestCompileDelayedEndOfTurn(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("At the end of this turn, draw a card.")
	if !compiled.Supported {
		t.Fatal("delayed clause should compile")
	}
	n := compiled.Nodes[0]
	if n.Op != OpDelayed || len(n.Nested) != 1 {
		t.Fatalf("expected a delayed node with 1 nested step, got %+v", n)
	}
	if n.Nested[0].Op != OpDrawCards || n.Nested[0].Amount != 1 {
		t.Errorf("nested node should draw 1, got %+v", n.Nested[0])
	}
}

func TestCompileDelayedRejectsTargets(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("At the end of this turn, kill an enemy unit.")
	if compiled.Supported {
		t.Fatal("deferred bodies cannot hold play-time targets")
	}
}

func TestCompileAdditionalCostDiscard(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("As an additional cost to play this card, discard a card. Draw two cards.")
	if !compiled.Supported {
		t.Fatal("additional-cost rider should compile")
	}
	if compiled.Additional == nil || compiled.Additional.DiscardCards != 1 {
		t.Fatalf("expected a discard-1 rider, got %+v", compiled.Additional)
	}
	if len(compiled.Nodes) != 1 || compiled.Nodes[0].Op != OpDrawCards {
		t.Errorf("rider must not produce effect nodes, got %+v", compiled.Nodes)
	}
}

func TestCompileAdditionalCostExhaustLegend(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("As an additional cost to play this card, exhaust your legend. Draw a card.")
	if !compiled.Supported {
		t.Fatal("legend rider should compile")
	}
	if compiled.Additional == nil || !compiled.Additional.ExhaustLegend {
		t.Fatalf("expected an exhaust-legend rider, got %+v", compiled.Additional)
	}
}

func TestCompileAdditionalCostPay(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("As an additional cost to play this card, pay {F}. Draw a card.")
	if !compiled.Supported {
		t.Fatal("pay rider should compile")
	}
	if compiled.Additional == nil || compiled.Additional.ExtraCost != "{F}" {
		t.Fatalf("expected a {F} rider, got %+v", compiled.Additional)
	}
}

func TestCompileOptionalCostGatesNodes(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("You may pay 1 more as you play this card. If you do, draw a card.")
	if !compiled.Supported {
		t.Fatal("optional-cost rider should compile")
	}
	if compiled.OptionalCost != "1" {
		t.Fatalf("optional cost = %q, want 1", compiled.OptionalCost)
	}
	if len(compiled.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(compiled.Nodes))
	}
	n := compiled.Nodes[0]
	if n.Op != OpDrawCards || n.Condition != ConditionAdditionalPaid {
		t.Errorf("expected a draw gated on the paid rider, got %+v", n)
	}
}

func TestCompileUnknownRiderUnsupported(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("As an additional cost to play this card, sacrifice a shrine. Draw a card.")
	if compiled.Supported {
		t.Fatal("unknown rider must mark the effect unsupported")
	}
}

func TestCompileEmptyText(t *testing.T) {
	c := NewCompiler()
	compiled := c.Compile("")
	if !compiled.Supported || len(compiled.Nodes) != 0 {
		t.Errorf("vanilla cards compile to an empty supported effect, got %+v", compiled)
	}
}
