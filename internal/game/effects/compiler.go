package effects

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/riftforge/rift-server-go/internal/game/targeting"
)

// Compiler turns rules text into executable nodes ahead of play. Spells
// with clauses the template catalog does not cover compile to unsupported
// effects and are refused at play time instead of half-resolving; unit
// and gear text never executes on play, so those cards play regardless.
type Compiler struct{}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var amountWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "x": 0,
}

func parseAmount(word string) (int, bool) {
	w := strings.ToLower(strings.Trim(word, "[]"))
	if n, err := strconv.Atoi(w); err == nil {
		return n, true
	}
	if n, ok := amountWords[w]; ok {
		return n, true
	}
	return 0, false
}

// template binds one clause pattern to a node builder. Templates are
// tried in order and the first match wins, so more specific patterns
// come first.
type template struct {
	pattern *regexp.Regexp
	build   func(m []string, clause clauseContext) []Node
}

type clauseContext struct {
	baseSlot int
	slots    int
	optional bool
	text     string
}

func (c clauseContext) slot() int {
	if c.slots == 0 {
		return -1
	}
	return c.baseSlot
}

var templates []template

func init() {
	templates = []template{
		{
			pattern: regexp.MustCompile(`(?i)^draw (\S+)(?: cards?)? for each other battlefield(?: you(?: or allies)? control)?$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpDrawCards, Amount: n, PerEach: CountOtherBattlefields, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^draw (\S+) cards?$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpDrawCards, Amount: n, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^discard (\S+) cards?$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpDiscardCards, Amount: n, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^deal (\S+) damage to .+$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpDealDamage, Amount: n, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^each player chooses a unit they control.*$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpEachPlayerKill, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^kill (?:the chosen units?|.+)$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpKill, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^buff .+$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpBuff, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^stun .+$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpStun, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^ready .+$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpReady, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^return .+ to (?:its|their) owner'?s'? hands?$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpReturnToHand, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^gain (\S+) energy$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpGainEnergy, Amount: n, Slot: -1}}
			},
		},
		{
			// Credit spendable only on gear costs, kept until end of turn.
			pattern: regexp.MustCompile(`(?i)^gain (\S+) power usable only for gear$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpGainGearCredit, Amount: n, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^channel a rune$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpChannelRune, Amount: 1, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^summon a (\d+)[- ]might (.+?) token$`),
			build: func(m []string, c clauseContext) []Node {
				might, _ := strconv.Atoi(m[1])
				return []Node{{Op: OpCreateToken, Slot: -1, Token: TokenSpec{Name: m[2], Might: might}}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^choose one friendly unit and one enemy unit$`),
			build: func(m []string, c clauseContext) []Node {
				// Target declaration only; the following clause acts on them.
				return []Node{}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^they fight$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpFight, Slot: 0}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^(?:.+ )?(?:gets?|has) \+(\d+) might (?:this turn|until end of turn)$`),
			build: func(m []string, c clauseContext) []Node {
				n, _ := strconv.Atoi(m[1])
				role := RoleAny
				if strings.Contains(strings.ToLower(c.text), "while attacking") {
					role = RoleAttacker
				} else if strings.Contains(strings.ToLower(c.text), "while defending") {
					role = RoleDefender
				}
				return []Node{{Op: OpMightModifier, Amount: n, Slot: c.slot(), Duration: "TURN", Role: role}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^(?:.+ )?(?:gets?|has) \+(\d+) might while (?:attacking|defending) this turn$`),
			build: func(m []string, c clauseContext) []Node {
				n, _ := strconv.Atoi(m[1])
				role := RoleAttacker
				if strings.Contains(strings.ToLower(c.text), "defending") {
					role = RoleDefender
				}
				return []Node{{Op: OpMightModifier, Amount: n, Slot: c.slot(), Duration: "TURN", Role: role}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^move .+ to (?:your|its|their) bases?$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpMoveToBase, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^look at the top (\S+) cards? of your deck$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpLookTop, Amount: n, Slot: -1}}
			},
		},
		{
			// The pick belongs to the preceding look clause.
			pattern: regexp.MustCompile(`(?i)^put one (?:of them )?into your hand$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^reveal the top card of your deck$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpRevealTop, Amount: 1, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^recycle (\S+) (?:of your )?runes?$`),
			build: func(m []string, c clauseContext) []Node {
				n, ok := parseAmount(m[1])
				if !ok {
					return nil
				}
				return []Node{{Op: OpRecycleRune, Amount: n, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^gain control of .+$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpGainControl, Slot: c.slot()}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^return your champion from your trash to your hand$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpReturnChampion, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^return a card from your trash to your hand$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpReturnTrash, Amount: 1, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^negate an? enemy spell$`),
			build: func(m []string, c clauseContext) []Node {
				return []Node{{Op: OpNegate, Slot: -1}}
			},
		},
		{
			pattern: regexp.MustCompile(`(?i)^at the end of (?:this|the) turn, (.+)$`),
			build: func(m []string, c clauseContext) []Node {
				// Deferred bodies cannot reference play-time targets.
				if len(targeting.InferRequirement(m[1]).Slots) > 0 {
					return nil
				}
				inner := compileClause(m[1], clauseContext{baseSlot: c.baseSlot, text: m[1]})
				if inner == nil {
					return nil
				}
				for i := range inner {
					if inner[i].Text == "" {
						inner[i].Text = m[1]
					}
				}
				return []Node{{Op: OpDelayed, Slot: -1, Nested: inner, Text: m[1]}}
			},
		},
	}
}

// Cost riders attach to the play itself rather than producing nodes, so
// they are peeled off before template matching.
var (
	additionalCostPattern = regexp.MustCompile(`(?i)^as an additional cost to play this card, (.+)$`)
	optionalPayPattern    = regexp.MustCompile(`(?i)^you may pay (\S+) more (?:as|when) you play this card$`)
	ifYouDoPattern        = regexp.MustCompile(`(?i)^if you do, (.+)$`)

	riderDiscardPattern = regexp.MustCompile(`(?i)^discard (\S+) cards?$`)
	riderExhaustPattern = regexp.MustCompile(`(?i)^exhaust your legend$`)
	riderPayPattern     = regexp.MustCompile(`(?i)^pay (\S+)$`)
)

func parseCostRider(body string, add *AdditionalCost) bool {
	if m := riderDiscardPattern.FindStringSubmatch(body); m != nil {
		n, ok := parseAmount(m[1])
		if !ok {
			return false
		}
		add.DiscardCards = n
		return true
	}
	if riderExhaustPattern.MatchString(body) {
		add.ExhaustLegend = true
		return true
	}
	if m := riderPayPattern.FindStringSubmatch(body); m != nil {
		add.ExtraCost = m[1]
		return true
	}
	return false
}

func splitClauses(text string) []string {
	var out []string
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		for _, part := range strings.Split(sentence, ", then ") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Compile translates rules text into an executable effect. Every clause
// must match a template; any miss yields an unsupported node and marks
// the whole effect unsupported.
func (c *Compiler) Compile(text string) Compiled {
	compiled := Compiled{Text: text, Supported: true}
	if strings.TrimSpace(text) == "" {
		return compiled
	}

	for _, clause := range splitClauses(text) {
		if m := additionalCostPattern.FindStringSubmatch(clause); m != nil {
			if compiled.Additional == nil {
				compiled.Additional = &AdditionalCost{}
			}
			if !parseCostRider(m[1], compiled.Additional) {
				compiled.Supported = false
				compiled.Nodes = append(compiled.Nodes, Node{Op: OpUnsupported, Slot: -1, Text: clause})
			}
			continue
		}
		if m := optionalPayPattern.FindStringSubmatch(clause); m != nil {
			compiled.OptionalCost = m[1]
			continue
		}

		condition := ""
		body := clause
		if m := ifYouDoPattern.FindStringSubmatch(clause); m != nil {
			condition = ConditionAdditionalPaid
			body = m[1]
		}
		optional := false
		if lower := strings.ToLower(body); strings.HasPrefix(lower, "you may ") {
			optional = true
			body = body[len("you may "):]
		}

		clauseReq := targeting.InferRequirement(body)
		ctx := clauseContext{
			baseSlot: len(compiled.Requirement.Slots),
			slots:    len(clauseReq.Slots),
			optional: optional,
			text:     body,
		}
		compiled.Requirement.Slots = append(compiled.Requirement.Slots, clauseReq.Slots...)

		nodes := compileClause(body, ctx)
		if nodes == nil {
			compiled.Supported = false
			nodes = []Node{{Op: OpUnsupported, Slot: -1, Text: clause}}
		}
		for i := range nodes {
			nodes[i].Optional = optional
			nodes[i].Condition = condition
			if nodes[i].Text == "" {
				nodes[i].Text = body
			}
		}
		compiled.Nodes = append(compiled.Nodes, nodes...)
	}
	return compiled
}

func compileClause(body string, ctx clauseContext) []Node {
	for _, tpl := range templates {
		if m := tpl.pattern.FindStringSubmatch(body); m != nil {
			return tpl.build(m, ctx)
		}
	}
	return nil
}
