package barcode

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Candidate is one product a barcode maps to. A shared carton code can
// map to several SKUs, so lookups return a list.
type Candidate struct {
	SKU  string
	Name string
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Lookup(ctx context.Context, code string) ([]Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.sku, p.name
		FROM barcodes b
		JOIN products p ON p.sku = b.sku
		WHERE b.code = $1
		ORDER BY b.sku
	`, code)
	if err != nil {
		return nil, fmt.Errorf("barcode lookup: %w", err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.SKU, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
