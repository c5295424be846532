// Command audit compiles every card in a card table and writes a CSV of
// per-card implementation status.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/riftforge/rift-server-go/internal/audit"
	"github.com/riftforge/rift-server-go/internal/carddata"
)

func main() {
	cardsPath := flag.String("cards", "cards.yaml", "path to the card table")
	outPath := flag.String("out", "coverage.csv", "output CSV path")
	flag.Parse()

	catalog, err := carddata.LoadFile(*cardsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading card table: %v\n", err)
		os.Exit(1)
	}

	rows := audit.Report(catalog)

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := audit.WriteCSV(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "writing report: %v\n", err)
		os.Exit(1)
	}

	supported, total := audit.Summary(rows)
	fmt.Printf("%d/%d cards fully supported; report written to %s\n", supported, total, *outPath)
}
