// Package audit produces the per-card implementation coverage artifact:
// every catalog card is compiled against the effect template catalog and
// flagged when any clause is unsupported.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/riftforge/rift-server-go/internal/carddata"
	"github.com/riftforge/rift-server-go/internal/game/effects"
)

// Row is one card's implementation status.
type Row struct {
	CardID      string
	Name        string
	Type        string
	Supported   bool
	NodeCount   int
	Unsupported []string
}

// Report compiles every card in the catalog.
func Report(catalog carddata.Catalog) []Row {
	compiler := effects.NewCompiler()
	var rows []Row
	for _, def := range catalog.All() {
		compiled := compiler.Compile(def.Text)
		rows = append(rows, Row{
			CardID:      def.ID,
			Name:        def.Name,
			Type:        def.Type,
			Supported:   compiled.Supported,
			NodeCount:   len(compiled.Nodes),
			Unsupported: compiled.UnsupportedClauses(),
		})
	}
	return rows
}

// WriteCSV renders the report as CSV with a header row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"card_id", "name", "type", "supported", "node_count", "unsupported_clauses"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.CardID,
			row.Name,
			row.Type,
			strconv.FormatBool(row.Supported),
			strconv.Itoa(row.NodeCount),
			strings.Join(row.Unsupported, "; "),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.CardID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary counts supported vs total cards.
func Summary(rows []Row) (supported, total int) {
	for _, row := range rows {
		if row.Supported {
			supported++
		}
	}
	return supported, len(rows)
}
