package runes

import "testing"

func TestPoolAddSpend(t *testing.T) {
	p := NewPool()
	p.AddEnergy(3)
	p.AddPower(DomainFury, 2)

	if !p.SpendEnergy(2) {
		t.Fatalf("expected energy spend to succeed")
	}
	if p.Energy() != 1 {
		t.Errorf("expected 1 energy remaining, got %d", p.Energy())
	}
	if p.SpendEnergy(5) {
		t.Errorf("expected overspend to fail")
	}

	if !p.SpendPower(DomainFury, 1) {
		t.Fatalf("expected power spend to succeed")
	}
	if p.SpendPower(DomainCalm, 1) {
		t.Errorf("expected spend of absent domain to fail")
	}
}

func TestPoolEmpty(t *testing.T) {
	p := NewPool()
	p.AddEnergy(2)
	p.AddPower(DomainMind, 1)

	if p.IsEmpty() {
		t.Fatalf("expected non-empty pool")
	}
	p.Empty()
	if !p.IsEmpty() {
		t.Fatalf("expected empty pool after Empty")
	}
}

func TestPoolCopyIsIndependent(t *testing.T) {
	p := NewPool()
	p.AddEnergy(1)
	p.AddPower(DomainOrder, 1)

	cpy := p.Copy()
	cpy.SpendEnergy(1)
	cpy.SpendPower(DomainOrder, 1)

	if p.Energy() != 1 || p.Power(DomainOrder) != 1 {
		t.Fatalf("copy mutation leaked into original")
	}
}

func TestPoolIgnoresNonPositiveAmounts(t *testing.T) {
	p := NewPool()
	p.AddEnergy(-2)
	p.AddPower(DomainBody, 0)
	if !p.IsEmpty() {
		t.Fatalf("expected pool to ignore non-positive adds")
	}
	if !p.SpendEnergy(0) {
		t.Fatalf("expected zero spend to trivially succeed")
	}
}
