package targeting

import (
	"regexp"
	"strings"
)

// Side restricts a target slot by controller relative to the actor.
type Side string

const (
	SideAny      Side = "ANY"
	SideFriendly Side = "FRIENDLY"
	SideEnemy    Side = "ENEMY"
)

// Location restricts a target slot by board position.
type Location string

const (
	LocationAny         Location = "ANY"
	LocationBase        Location = "BASE"
	LocationBattlefield Location = "BATTLEFIELD"
)

// Filter describes which objects a slot may name.
type Filter struct {
	Side     Side
	Location Location
	CardType string
}

// Slot is one target position an ability requires. Count is the number of
// ids the slot takes; UpTo slots accept any count from zero to Count.
type Slot struct {
	Filter      Filter
	Count       int
	UpTo        bool
	Description string
}

// Requirement defines the full target shape of an ability: zero or more
// slots, each validated independently, with uniqueness across all slots.
type Requirement struct {
	Slots []Slot
}

// NeedsTargets reports whether any slot demands at least one target.
func (r Requirement) NeedsTargets() bool {
	for _, slot := range r.Slots {
		if slot.Count > 0 && !slot.UpTo {
			return true
		}
	}
	return false
}

// MaxTargets returns the total number of ids the requirement can accept.
func (r Requirement) MaxTargets() int {
	total := 0
	for _, slot := range r.Slots {
		total += slot.Count
	}
	return total
}

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
}

var (
	dualSidePattern = regexp.MustCompile(`(?i)\b(?:one|a)\s+friendly\s+unit\s+and\s+(?:one|an)\s+enemy\s+unit\b`)
	upToPattern     = regexp.MustCompile(`(?i)\bup to (\w+)\s+(friendly\s+|enemy\s+)?units?\b`)
	unitPattern     = regexp.MustCompile(`(?i)\b(a|an|one|two|three|target)\s+(friendly\s+|enemy\s+)?(unit|gear)s?\b`)
	basePattern     = regexp.MustCompile(`(?i)\bin\s+(?:your|their|a)\s+base\b`)
	bfPattern       = regexp.MustCompile(`(?i)\bat\s+a\s+battlefield\b`)
	eachBasePattern = regexp.MustCompile(`(?i)\beach player\b`)
)

func sideFromWord(w string) Side {
	switch strings.ToLower(strings.TrimSpace(w)) {
	case "friendly":
		return SideFriendly
	case "enemy":
		return SideEnemy
	default:
		return SideAny
	}
}

func locationFromClause(clause string) Location {
	switch {
	case basePattern.MatchString(clause):
		return LocationBase
	case bfPattern.MatchString(clause):
		return LocationBattlefield
	default:
		return LocationAny
	}
}

// InferRequirement extracts the target shape implied by an ability clause.
// An empty requirement means the clause targets nothing (or chooses for
// each player, which is a pending choice rather than a declared target).
func InferRequirement(clause string) Requirement {
	text := strings.TrimSpace(clause)
	if text == "" {
		return Requirement{}
	}

	// "one friendly unit and one enemy unit" is a dual-slot shape whose
	// relationship must still hold at resolution time.
	if dualSidePattern.MatchString(text) {
		loc := locationFromClause(text)
		return Requirement{Slots: []Slot{
			{
				Filter:      Filter{Side: SideFriendly, Location: loc, CardType: "Unit"},
				Count:       1,
				Description: "one friendly unit",
			},
			{
				Filter:      Filter{Side: SideEnemy, Location: loc, CardType: "Unit"},
				Count:       1,
				Description: "one enemy unit",
			},
		}}
	}

	// Choices made per player are pending choices, not targets.
	if eachBasePattern.MatchString(text) {
		return Requirement{}
	}

	if m := upToPattern.FindStringSubmatch(text); m != nil {
		count := numberWords[strings.ToLower(m[1])]
		if count == 0 {
			count = 1
		}
		return Requirement{Slots: []Slot{{
			Filter: Filter{
				Side:     sideFromWord(m[2]),
				Location: locationFromClause(text),
				CardType: "Unit",
			},
			Count:       count,
			UpTo:        true,
			Description: strings.ToLower(m[0]),
		}}}
	}

	if m := unitPattern.FindStringSubmatch(text); m != nil {
		count := numberWords[strings.ToLower(m[1])]
		if count == 0 {
			count = 1
		}
		cardType := "Unit"
		if strings.EqualFold(m[3], "gear") {
			cardType = "Gear"
		}
		return Requirement{Slots: []Slot{{
			Filter: Filter{
				Side:     sideFromWord(m[2]),
				Location: locationFromClause(text),
				CardType: cardType,
			},
			Count:       count,
			Description: strings.ToLower(m[0]),
		}}}
	}

	return Requirement{}
}
