package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// cacheTTL is the freshness window for master data; stale names are
// acceptable for a few minutes, stale stock is not (stock never
// passes through here).
const cacheTTL = 5 * time.Minute

type cached struct {
	p       *Product
	fetched time.Time
}

type Repo struct {
	pool *pgxpool.Pool

	mu    sync.Mutex
	cache map[string]cached
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, cache: make(map[string]cached)}
}

// Lookup returns the product for a SKU, or nil when unknown.
func (r *Repo) Lookup(ctx context.Context, sku string) (*Product, error) {
	sku = strings.ToLower(sku)

	r.mu.Lock()
	if c, ok := r.cache[sku]; ok && time.Since(c.fetched) < cacheTTL {
		r.mu.Unlock()
		return c.p, nil
	}
	r.mu.Unlock()

	row := r.pool.QueryRow(ctx, `SELECT sku, name, units_per_box FROM products WHERE sku = $1`, sku)
	var p Product
	if err := row.Scan(&p.SKU, &p.Name, &p.UnitsPerBox); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.store(sku, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("product lookup: %w", err)
	}

	r.store(sku, &p)
	return &p, nil
}

// Search finds products whose name contains the query, for the
// free-text flow. Capped so a one-character query stays usable in chat.
func (r *Repo) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sku, name, units_per_box
		FROM products
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY sku
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("product search: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.UnitsPerBox); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) store(sku string, p *Product) {
	r.mu.Lock()
	r.cache[sku] = cached{p: p, fetched: time.Now()}
	r.mu.Unlock()
}
