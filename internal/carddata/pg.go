package carddata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGCatalog is a card table backed by Postgres. Rows are loaded once and
// served from memory; the engine never writes back.
type PGCatalog struct {
	pool  *pgxpool.Pool
	byID  map[string]Definition
	order []string
}

// NewPGCatalog connects to Postgres and loads the card table.
func NewPGCatalog(ctx context.Context, dsn string) (*PGCatalog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to card database: %w", err)
	}
	cat := &PGCatalog{pool: pool, byID: make(map[string]Definition)}
	if err := cat.load(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return cat, nil
}

func (c *PGCatalog) load(ctx context.Context) error {
	rows, err := c.pool.Query(ctx, `
		SELECT id, name, card_type, cost, might, tier, speed, rules_text,
		       domains, keywords, champion
		FROM cards
		ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.Cost, &d.Might,
			&d.Tier, &d.Speed, &d.Text, &d.Domains, &d.Keywords, &d.Champion); err != nil {
			return fmt.Errorf("scanning card row: %w", err)
		}
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return rows.Err()
}

func (c *PGCatalog) Get(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

func (c *PGCatalog) All() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Close releases the underlying connection pool.
func (c *PGCatalog) Close() {
	c.pool.Close()
}
