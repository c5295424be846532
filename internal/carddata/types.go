// Package carddata loads card definitions from the external data pipeline.
// The engine treats definitions as read-only templates; runtime card state
// lives on instances inside the game package.
package carddata

// Definition is one card template from the card table.
type Definition struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"` // Unit, Gear, Spell, Rune, Legend, Battlefield, Champion
	Cost     string   `yaml:"cost"` // e.g. "3{F}{F}"
	Might    int      `yaml:"might"`
	Tier     int      `yaml:"tier"`  // power-source tier for gear: 1 seal, 2 generator
	Speed    string   `yaml:"speed"` // DEFAULT, ACTION, REACTION
	Text     string   `yaml:"text"`
	Domains  []string `yaml:"domains"`
	Keywords []string `yaml:"keywords"`
	Champion string   `yaml:"champion"`
}

// HasKeyword reports whether the definition carries the given keyword tag.
func (d Definition) HasKeyword(kw string) bool {
	for _, k := range d.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// Catalog is the read-only card table the engine consumes.
type Catalog interface {
	Get(id string) (Definition, bool)
	All() []Definition
}
