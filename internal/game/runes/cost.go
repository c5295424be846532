package runes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost represents a parsed play cost: generic energy plus per-domain power.
type Cost struct {
	Energy int
	Power  map[Domain]int
}

// NewCost creates an empty cost.
func NewCost() *Cost {
	return &Cost{Power: make(map[Domain]int)}
}

// Add folds another cost into this one. Additional-cost riders fold into
// the base cost so a single plan pays both.
func (c *Cost) Add(other *Cost) {
	if other == nil {
		return
	}
	c.Energy += other.Energy
	for domain, amount := range other.Power {
		c.Power[domain] += amount
	}
}

// TotalPower returns the summed power requirement across all domains.
func (c *Cost) TotalPower() int {
	total := 0
	for _, amount := range c.Power {
		total += amount
	}
	return total
}

// IsFree reports whether the cost requires nothing.
func (c *Cost) IsFree() bool {
	return c.Energy == 0 && c.TotalPower() == 0
}

// String renders the cost back into symbol form, e.g. "3{F}{F}".
func (c *Cost) String() string {
	var sb strings.Builder
	if c.Energy > 0 || c.TotalPower() == 0 {
		sb.WriteString(strconv.Itoa(c.Energy))
	}
	for _, d := range Domains {
		for i := 0; i < c.Power[d]; i++ {
			sb.WriteString("{" + d.Symbol() + "}")
		}
	}
	return sb.String()
}

var costSymbolPattern = regexp.MustCompile(`\{([^}]+)\}|(\d+)`)

// ParseCost parses a cost string such as "3{F}{F}", "{2}{C}" or "0".
// Bare digits and bracketed numbers both contribute generic energy;
// bracketed letters contribute domain power.
func ParseCost(costStr string) (*Cost, error) {
	cost := NewCost()
	trimmed := strings.TrimSpace(costStr)
	if trimmed == "" {
		return cost, nil
	}

	matches := costSymbolPattern.FindAllStringSubmatch(trimmed, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("unparseable cost: %q", costStr)
	}

	consumed := 0
	for _, match := range matches {
		consumed += len(match[0])
		symbol := match[1]
		if symbol == "" {
			// Bare number outside braces.
			num, err := strconv.Atoi(match[2])
			if err != nil {
				return nil, fmt.Errorf("bad energy amount in cost %q: %w", costStr, err)
			}
			cost.Energy += num
			continue
		}

		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if num, err := strconv.Atoi(symbol); err == nil {
			cost.Energy += num
			continue
		}
		domain, ok := DomainForSymbol(symbol)
		if !ok {
			return nil, fmt.Errorf("unknown cost symbol: {%s}", symbol)
		}
		cost.Power[domain]++
	}

	if stripped := strings.ReplaceAll(trimmed, " ", ""); consumed != len(stripped) {
		return nil, fmt.Errorf("unparseable cost: %q", costStr)
	}

	return cost, nil
}
