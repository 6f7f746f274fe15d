package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// UOM is the denomination a lot was received in. The two never convert
// into each other anywhere in this system.
type UOM string

const (
	UOMBox   UOM = "box"
	UOMPiece UOM = "piece"
)

// Lot is one open ledger batch. UnitCost is always per piece,
// regardless of the lot's denomination.
type Lot struct {
	SKU       string
	Warehouse string
	UOM       UOM
	Remaining int
	UnitCost  decimal.Decimal
	OpenedAt  time.Time
}

// Snapshot is the derived per-warehouse view of one SKU. Never
// persisted; recomputed from lots on every query.
type Snapshot struct {
	Warehouse string
	Label     string
	Box       int
	Piece     int
	Amount    decimal.Decimal
}
