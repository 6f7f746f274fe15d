// Package ledger is the boundary to the authoritative stock ledger.
// The bot never mutates stock itself: OutboundAndLog is atomic on the
// ledger side and re-validates sufficiency internally, closing the
// race between the bot's advisory pre-check and the actual deduction.
package ledger

import (
	"context"
	"time"

	"github.com/Spok95/stock-bot/internal/domain/stock"
)

// Row is one line of the legacy business-day rollup read. Superseded
// by lot-level reads for anything the bot validates against.
type Row struct {
	SKU       string
	Warehouse string
	Box       int
	Piece     int
}

// OutboundRequest is the single authoritative state transition.
type OutboundRequest struct {
	Group     string
	SKU       string
	Warehouse string
	Box       int
	Piece     int
	At        time.Time
	Actor     string
}

type Ledger interface {
	// LiveLots returns the open lots of one SKU across warehouses.
	LiveLots(ctx context.Context, group, sku string) ([]stock.Lot, error)
	// GroupLots returns every open lot of a group, for reporting.
	GroupLots(ctx context.Context, group string) ([]stock.Lot, error)
	// BusinessDayStock is the legacy rollup read.
	BusinessDayStock(ctx context.Context, group, day string) ([]Row, error)
	// OutboundAndLog consumes stock FIFO and writes the audit row in
	// one atomic unit. A human-readable Error comes back when the
	// ledger rejects the deduction.
	OutboundAndLog(ctx context.Context, req OutboundRequest) error
}

// Error is a rejection with a reason fit to show the user.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }
