package carddata

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleTable = `
- id: calm-recruit
  name: Calm Recruit
  type: Unit
  cost: "1{C}"
  might: 2
  domains: [Calm]
  text: ""
- id: fury-bolt
  name: Fury Bolt
  type: Spell
  cost: "2{F}"
  speed: REACTION
  domains: [Fury]
  text: "Deal 2 damage to an enemy unit."
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	if err := os.WriteFile(path, []byte(sampleTable), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cat.All()) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cat.All()))
	}

	bolt, ok := cat.Get("fury-bolt")
	if !ok {
		t.Fatal("fury-bolt missing")
	}
	if bolt.Speed != "REACTION" || bolt.Cost != "2{F}" {
		t.Errorf("unexpected definition: %+v", bolt)
	}
}

func TestParseYAMLRejectsDuplicates(t *testing.T) {
	_, err := ParseYAML([]byte(`
- id: a
  name: First
  type: Unit
- id: a
  name: Second
  type: Unit
`))
	if err == nil {
		t.Fatal("duplicate ids must be rejected")
	}
}

func TestParseYAMLRejectsMissingID(t *testing.T) {
	_, err := ParseYAML([]byte(`
- name: Nameless
  type: Unit
`))
	if err == nil {
		t.Fatal("missing id must be rejected")
	}
}
