package runes

import "testing"

func TestParseCost(t *testing.T) {
	cost, err := ParseCost("3{F}{F}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.Energy != 3 {
		t.Errorf("expected energy 3, got %d", cost.Energy)
	}
	if cost.Power[DomainFury] != 2 {
		t.Errorf("expected 2 fury power, got %d", cost.Power[DomainFury])
	}
}

func TestParseCostBracketedEnergy(t *testing.T) {
	cost, err := ParseCost("{2}{C}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.Energy != 2 {
		t.Errorf("expected energy 2, got %d", cost.Energy)
	}
	if cost.Power[DomainCalm] != 1 {
		t.Errorf("expected 1 calm power, got %d", cost.Power[DomainCalm])
	}
}

func TestParseCostZeroAndEmpty(t *testing.T) {
	for _, s := range []string{"0", ""} {
		cost, err := ParseCost(s)
		if err != nil {
			t.Fatalf("cost %q: unexpected error: %v", s, err)
		}
		if !cost.IsFree() {
			t.Errorf("cost %q: expected free cost", s)
		}
	}
}

func TestParseCostUnknownSymbol(t *testing.T) {
	if _, err := ParseCost("{Z}"); err == nil {
		t.Fatalf("expected error for unknown symbol")
	}
}

func TestParseCostGarbage(t *testing.T) {
	if _, err := ParseCost("energy please"); err == nil {
		t.Fatalf("expected error for unparseable cost")
	}
}

func TestCostString(t *testing.T) {
	cost, _ := ParseCost("2{M}{X}")
	got := cost.String()
	if got != "2{M}{X}" {
		t.Errorf("round trip mismatch: %s", got)
	}
}

func TestDomainSymbols(t *testing.T) {
	for _, d := range Domains {
		back, ok := DomainForSymbol(d.Symbol())
		if !ok || back != d {
			t.Errorf("symbol round trip failed for %s", d)
		}
	}
}
