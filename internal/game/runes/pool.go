package runes

import (
	"sync"
)

// Domain represents a power domain.
type Domain string

const (
	DomainFury  Domain = "FURY"
	DomainCalm  Domain = "CALM"
	DomainMind  Domain = "MIND"
	DomainBody  Domain = "BODY"
	DomainOrder Domain = "ORDER"
	DomainChaos Domain = "CHAOS"
)

// Domains lists every domain in canonical order.
var Domains = []Domain{DomainFury, DomainCalm, DomainMind, DomainBody, DomainOrder, DomainChaos}

// Symbol returns the single-letter cost symbol for the domain.
func (d Domain) Symbol() string {
	switch d {
	case DomainFury:
		return "F"
	case DomainCalm:
		return "C"
	case DomainMind:
		return "M"
	case DomainBody:
		return "B"
	case DomainOrder:
		return "O"
	case DomainChaos:
		return "X"
	default:
		return "?"
	}
}

// DomainForSymbol maps a cost symbol back to its domain.
func DomainForSymbol(symbol string) (Domain, bool) {
	switch symbol {
	case "F":
		return DomainFury, true
	case "C":
		return DomainCalm, true
	case "M":
		return DomainMind, true
	case "B":
		return DomainBody, true
	case "O":
		return DomainOrder, true
	case "X":
		return DomainChaos, true
	default:
		return "", false
	}
}

// Pool represents a player's floating rune pool: energy plus per-domain
// power. The pool empties at the expiration step.
type Pool struct {
	mu     sync.RWMutex
	energy int
	power  map[Domain]int
}

// NewPool creates a new empty rune pool.
func NewPool() *Pool {
	return &Pool{power: make(map[Domain]int)}
}

// AddEnergy adds floating energy to the pool.
func (p *Pool) AddEnergy(amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.energy += amount
}

// AddPower adds floating power of a domain to the pool.
func (p *Pool) AddPower(domain Domain, amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.power[domain] += amount
}

// Energy returns the floating energy available.
func (p *Pool) Energy() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.energy
}

// Power returns the floating power of a domain.
func (p *Pool) Power(domain Domain) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.power[domain]
}

// SpendEnergy attempts to spend floating energy.
// Returns false if insufficient.
func (p *Pool) SpendEnergy(amount int) bool {
	if amount <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.energy < amount {
		return false
	}
	p.energy -= amount
	return true
}

// SpendPower attempts to spend floating power of a domain.
// Returns false if insufficient.
func (p *Pool) SpendPower(domain Domain, amount int) bool {
	if amount <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.power[domain] < amount {
		return false
	}
	p.power[domain] -= amount
	return true
}

// Empty clears all floating energy and power.
func (p *Pool) Empty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.energy = 0
	for d := range p.power {
		delete(p.power, d)
	}
}

// IsEmpty reports whether the pool holds nothing.
func (p *Pool) IsEmpty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.energy > 0 {
		return false
	}
	for _, amount := range p.power {
		if amount > 0 {
			return false
		}
	}
	return true
}

// Copy creates a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cpy := NewPool()
	cpy.energy = p.energy
	for d, amount := range p.power {
		cpy.power[d] = amount
	}
	return cpy
}
