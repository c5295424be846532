package carddata

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileCatalog is a card table loaded from a YAML file, the canonical
// development format.
type FileCatalog struct {
	byID  map[string]Definition
	order []string
}

// LoadFile reads a YAML card table. The file holds a list of definitions.
func LoadFile(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card table: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML builds a catalog from raw YAML bytes.
func ParseYAML(data []byte) (*FileCatalog, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing card table: %w", err)
	}
	cat := &FileCatalog{byID: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("card %q has no id", d.Name)
		}
		if _, dup := cat.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %s", d.ID)
		}
		cat.byID[d.ID] = d
		cat.order = append(cat.order, d.ID)
	}
	sort.Strings(cat.order)
	return cat, nil
}

// NewMemoryCatalog wraps a fixed definition slice, for tests.
func NewMemoryCatalog(defs []Definition) *FileCatalog {
	cat := &FileCatalog{byID: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		cat.byID[d.ID] = d
		cat.order = append(cat.order, d.ID)
	}
	sort.Strings(cat.order)
	return cat
}

func (c *FileCatalog) Get(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

func (c *FileCatalog) All() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
