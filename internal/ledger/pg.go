package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const callTimeout = 5 * time.Second

type PG struct {
	pool *pgxpool.Pool
}

func NewPG(pool *pgxpool.Pool) *PG { return &PG{pool: pool} }

var _ Ledger = (*PG)(nil)

func (p *PG) LiveLots(ctx context.Context, group, sku string) ([]stock.Lot, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, `
		SELECT sku, warehouse, uom, remaining, unit_cost, opened_at
		FROM stock_lots
		WHERE group_id = $1 AND sku = $2 AND remaining > 0
		ORDER BY opened_at
	`, group, sku)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

func (p *PG) GroupLots(ctx context.Context, group string) ([]stock.Lot, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, `
		SELECT sku, warehouse, uom, remaining, unit_cost, opened_at
		FROM stock_lots
		WHERE group_id = $1 AND remaining > 0
		ORDER BY sku, opened_at
	`, group)
	if err != nil {
		return nil, fmt.Errorf("query group lots: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

func (p *PG) BusinessDayStock(ctx context.Context, group, day string) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, `
		SELECT sku, warehouse, box, piece
		FROM stock_daily
		WHERE group_id = $1 AND business_day = $2
	`, group, day)
	if err != nil {
		return nil, fmt.Errorf("query daily stock: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.SKU, &r.Warehouse, &r.Box, &r.Piece); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PG) OutboundAndLog(ctx context.Context, req OutboundRequest) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := p.pool.Exec(ctx, `SELECT ledger_outbound_and_log($1,$2,$3,$4,$5,$6,$7)`,
		req.Group, req.SKU, req.Warehouse, req.Box, req.Piece, req.At, req.Actor)
	if err != nil {
		// the ledger raises with a user-readable message on rejection
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "P0001" {
			return &Error{Reason: pgErr.Message}
		}
		return fmt.Errorf("outbound call: %w", err)
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanLots(rows pgxRows) ([]stock.Lot, error) {
	var out []stock.Lot
	for rows.Next() {
		var lot stock.Lot
		var uom string
		if err := rows.Scan(&lot.SKU, &lot.Warehouse, &uom, &lot.Remaining, &lot.UnitCost, &lot.OpenedAt); err != nil {
			return nil, err
		}
		lot.UOM = stock.UOM(uom)
		out = append(out, lot)
	}
	return out, rows.Err()
}
