package audit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/riftforge/rift-server-go/internal/carddata"
)

func testCatalog() carddata.Catalog {
	return carddata.NewMemoryCatalog([]carddata.Definition{
		{ID: "bolt", Name: "Bolt", Type: "Spell", Text: "Deal 2 damage to an enemy unit."},
		{ID: "vanilla", Name: "Vanilla", Type: "Unit", Text: ""},
		{ID: "weird", Name: "Weird", Type: "Spell", Text: "Invert the polarity of the moon."},
	})
}

func TestReport(t *testing.T) {
	rows := Report(testCatalog())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	byID := map[string]Row{}
	for _, row := range rows {
		byID[row.CardID] = row
	}
	if !byID["bolt"].Supported {
		t.Error("bolt should compile")
	}
	if !byID["vanilla"].Supported {
		t.Error("empty text is supported")
	}
	if byID["weird"].Supported {
		t.Error("unknown text must be flagged")
	}
	if len(byID["weird"].Unsupported) != 1 {
		t.Errorf("expected 1 unsupported clause, got %v", byID["weird"].Unsupported)
	}

	supported, total := Summary(rows)
	if supported != 2 || total != 3 {
		t.Errorf("expected 2/3 supported, got %d/%d", supported, total)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Report(testCatalog())); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "card_id,name,type,supported") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(out, "weird,Weird,Spell,false") {
		t.Errorf("unsupported card missing from output:\n%s", out)
	}
}
