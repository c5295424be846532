package runes

import (
	"fmt"
)

// Source tiers for power generation, in preference order. Lower tiers are
// consumed first so that rune recycling happens only as a last resort.
const (
	// TierSeal marks non-recyclable permanent power sources. Seals never
	// produce energy and are only exhausted, never destroyed.
	TierSeal = 1
	// TierGear marks non-rune permanent sources paid with a side effect
	// (exhausting or sacrificing the gear).
	TierGear = 2
	// TierRecycle marks rune recycling: the rune is destroyed and
	// returned to its rune deck.
	TierRecycle = 3
)

// CostContext describes what a payment is for. Restricted credits only
// apply to gear-related contexts.
type CostContext string

const (
	ContextGearPlay    CostContext = "GEAR_PLAY"
	ContextGearAbility CostContext = "GEAR_ABILITY"
	ContextEquip       CostContext = "EQUIP"
	ContextGeneral     CostContext = "GENERAL"
)

// creditPrecedence orders the contexts a gear credit is consumed in.
var creditPrecedence = []CostContext{ContextGearPlay, ContextGearAbility, ContextEquip}

// CreditApplies reports whether a gear-restricted credit can legally pay
// toward the given context.
func CreditApplies(ctx CostContext) bool {
	for _, c := range creditPrecedence {
		if c == ctx {
			return true
		}
	}
	return false
}

// PowerSource is a single available generator of one power.
type PowerSource struct {
	CardID string
	Tier   int
	Domain Domain
	// Wild sources can produce power of any domain.
	Wild bool
}

// EnergySource is a ready rune that can be exhausted for one energy.
type EnergySource struct {
	CardID string
	Domain Domain
}

// Request bundles everything the planner needs to find a payment.
type Request struct {
	Cost          *Cost
	Pool          *Pool
	EnergySources []EnergySource
	PowerSources  []PowerSource
	Credit        int
	Context       CostContext
}

// Plan is a feasible payment: which floating resources to spend and which
// cards to exhaust, sacrifice, or recycle. The engine executes it.
type Plan struct {
	EnergyFromPool int
	CreditUsed     int
	RuneTaps       []string
	PowerFromPool  map[Domain]int
	SealUses       []string
	GearUses       []string
	Recycles       []string
}

// Uses returns the total number of card activations in the plan.
func (p *Plan) Uses() int {
	return len(p.RuneTaps) + len(p.SealUses) + len(p.GearUses) + len(p.Recycles)
}

func (p *Plan) addPowerUse(tier int, cardID string) {
	switch tier {
	case TierSeal:
		p.SealUses = append(p.SealUses, cardID)
	case TierGear:
		p.GearUses = append(p.GearUses, cardID)
	case TierRecycle:
		p.Recycles = append(p.Recycles, cardID)
	}
}

// mostConstrainedDomain picks the needy domain with the fewest unused
// domain-fixed sources left relative to its need. That domain is the one
// a wild source must cover; the others can still fall back to their own.
func mostConstrainedDomain(sources []PowerSource, need map[Domain]int, used map[string]bool) (Domain, bool) {
	var best Domain
	bestScore := 0
	found := false
	for _, domain := range Domains {
		if need[domain] == 0 {
			continue
		}
		fixed := 0
		for _, src := range sources {
			if !src.Wild && !used[src.CardID] && src.Domain == domain {
				fixed++
			}
		}
		score := fixed - need[domain]
		if !found || score < bestScore {
			best, bestScore, found = domain, score, true
		}
	}
	return best, found
}

// Result represents the outcome of planning.
type Result struct {
	Success bool
	Plan    *Plan
	Reason  string
}

// CalculatePlan finds a payment plan for the request, or fails closed.
//
// Plan selection is lexicographic: minimize recycles, then maximize seal
// (tier 1) usage, then gear (tier 2) usage, with total uses as the final
// tie-break. Floating pool resources and applicable restricted credit are
// free of side effects and therefore always consumed first. Power is
// drained tier by tier: a recycle appears in the plan only when every
// seal and gear source that can serve the remaining need is already in
// it. Within a tier, domain-fixed sources pay before wild sources, and a
// wild source goes to the needy domain with the thinnest remaining fixed
// supply, so a wild is never burned on a domain another source can cover
// while a domain only the wild can serve goes short.
func CalculatePlan(req Request) *Result {
	cost := req.Cost
	if cost == nil || cost.IsFree() {
		return &Result{Success: true, Plan: &Plan{PowerFromPool: make(map[Domain]int)}}
	}

	plan := &Plan{PowerFromPool: make(map[Domain]int)}
	used := make(map[string]bool)

	// Power first: recycled runes must not double as energy taps.
	need := make(map[Domain]int)
	totalNeed := 0
	for _, domain := range Domains {
		n := cost.Power[domain]
		if n == 0 {
			continue
		}
		if req.Pool != nil {
			fromPool := min(req.Pool.Power(domain), n)
			if fromPool > 0 {
				plan.PowerFromPool[domain] += fromPool
				n -= fromPool
			}
		}
		need[domain] = n
		totalNeed += n
	}

	for _, tier := range []int{TierSeal, TierGear, TierRecycle} {
		if totalNeed == 0 {
			break
		}
		for _, domain := range Domains {
			for _, src := range req.PowerSources {
				if need[domain] == 0 {
					break
				}
				if src.Tier != tier || src.Wild || used[src.CardID] || src.Domain != domain {
					continue
				}
				used[src.CardID] = true
				need[domain]--
				totalNeed--
				plan.addPowerUse(tier, src.CardID)
			}
		}
		for _, src := range req.PowerSources {
			if totalNeed == 0 {
				break
			}
			if src.Tier != tier || !src.Wild || used[src.CardID] {
				continue
			}
			domain, ok := mostConstrainedDomain(req.PowerSources, need, used)
			if !ok {
				break
			}
			used[src.CardID] = true
			need[domain]--
			totalNeed--
			plan.addPowerUse(tier, src.CardID)
		}
	}

	if totalNeed > 0 {
		for _, domain := range Domains {
			if need[domain] > 0 {
				return &Result{
					Success: false,
					Reason:  fmt.Sprintf("insufficient %s power (short %d)", domain, need[domain]),
				}
			}
		}
	}

	// Energy: restricted credit first when it applies, then floating
	// energy, then rune taps.
	energyNeed := cost.Energy
	if req.Credit > 0 && CreditApplies(req.Context) {
		plan.CreditUsed = min(req.Credit, energyNeed)
		energyNeed -= plan.CreditUsed
	}
	if energyNeed > 0 && req.Pool != nil {
		plan.EnergyFromPool = min(req.Pool.Energy(), energyNeed)
		energyNeed -= plan.EnergyFromPool
	}
	for _, src := range req.EnergySources {
		if energyNeed == 0 {
			break
		}
		if used[src.CardID] {
			continue
		}
		used[src.CardID] = true
		plan.RuneTaps = append(plan.RuneTaps, src.CardID)
		energyNeed--
	}

	if energyNeed > 0 {
		return &Result{
			Success: false,
			Reason:  fmt.Sprintf("insufficient energy (short %d)", energyNeed),
		}
	}

	return &Result{Success: true, Plan: plan}
}

// SpendFromPool removes the plan's floating portion from the pool.
// Card-based portions (taps, seals, gear, recycles) stay with the engine,
// which owns the cards.
func SpendFromPool(plan *Plan, pool *Pool) error {
	if plan == nil || pool == nil {
		return nil
	}
	if plan.EnergyFromPool > 0 && !pool.SpendEnergy(plan.EnergyFromPool) {
		return fmt.Errorf("pool energy vanished before payment")
	}
	for domain, amount := range plan.PowerFromPool {
		if amount > 0 && !pool.SpendPower(domain, amount) {
			return fmt.Errorf("pool %s power vanished before payment", domain)
		}
	}
	return nil
}
