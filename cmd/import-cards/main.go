// Command import-cards loads a YAML card table into the Postgres cards
// table the server reads at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riftforge/rift-server-go/internal/carddata"
)

const createTable = `
CREATE TABLE IF NOT EXISTS cards (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	card_type  TEXT NOT NULL,
	cost       TEXT NOT NULL DEFAULT '',
	might      INT  NOT NULL DEFAULT 0,
	tier       INT  NOT NULL DEFAULT 0,
	speed      TEXT NOT NULL DEFAULT '',
	rules_text TEXT NOT NULL DEFAULT '',
	domains    TEXT[] NOT NULL DEFAULT '{}',
	keywords   TEXT[] NOT NULL DEFAULT '{}',
	champion   TEXT NOT NULL DEFAULT ''
)`

const upsertCard = `
INSERT INTO cards (id, name, card_type, cost, might, tier, speed, rules_text, domains, keywords, champion)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	card_type = EXCLUDED.card_type,
	cost = EXCLUDED.cost,
	might = EXCLUDED.might,
	tier = EXCLUDED.tier,
	speed = EXCLUDED.speed,
	rules_text = EXCLUDED.rules_text,
	domains = EXCLUDED.domains,
	keywords = EXCLUDED.keywords,
	champion = EXCLUDED.champion`

func main() {
	cardsPath := flag.String("cards", "cards.yaml", "path to the YAML card table")
	dsn := flag.String("dsn", os.Getenv("RIFT_CARDS_DSN"), "postgres connection string")
	flag.Parse()

	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "a postgres DSN is required (-dsn or RIFT_CARDS_DSN)")
		os.Exit(1)
	}

	catalog, err := carddata.LoadFile(*cardsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading card table: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createTable); err != nil {
		fmt.Fprintf(os.Stderr, "creating table: %v\n", err)
		os.Exit(1)
	}

	imported := 0
	for _, def := range catalog.All() {
		_, err := pool.Exec(ctx, upsertCard,
			def.ID, def.Name, def.Type, def.Cost, def.Might, def.Tier,
			def.Speed, def.Text, def.Domains, def.Keywords, def.Champion)
		if err != nil {
			fmt.Fprintf(os.Stderr, "importing %s: %v\n", def.ID, err)
			os.Exit(1)
		}
		imported++
	}
	fmt.Printf("imported %d cards\n", imported)
}
