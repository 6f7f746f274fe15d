package stock

import (
	"sort"

	"github.com/Spok95/stock-bot/internal/domain/warehouse"
	"github.com/shopspring/decimal"
)

// Aggregate sums open lots of one SKU into per-warehouse snapshots.
// Box and piece quantities accumulate separately. The monetary amount
// values box lots at remaining × unitsPerBox × unit cost, i.e. the
// implied piece-equivalent, and piece lots at remaining × unit cost.
// Warehouses with no remaining stock are omitted.
func Aggregate(lots []Lot, unitsPerBox int) []Snapshot {
	if unitsPerBox <= 0 {
		unitsPerBox = 1
	}
	byWh := map[string]*Snapshot{}
	for _, lot := range lots {
		if lot.Remaining <= 0 {
			continue
		}
		s, ok := byWh[lot.Warehouse]
		if !ok {
			s = &Snapshot{
				Warehouse: lot.Warehouse,
				Label:     warehouse.Label(lot.Warehouse),
				Amount:    decimal.Zero,
			}
			byWh[lot.Warehouse] = s
		}
		qty := decimal.NewFromInt(int64(lot.Remaining))
		switch lot.UOM {
		case UOMBox:
			s.Box += lot.Remaining
			qty = qty.Mul(decimal.NewFromInt(int64(unitsPerBox)))
		default:
			s.Piece += lot.Remaining
		}
		s.Amount = s.Amount.Add(qty.Mul(lot.UnitCost))
	}

	out := make([]Snapshot, 0, len(byWh))
	for _, s := range byWh {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Warehouse < out[j].Warehouse })
	return out
}

// DisplayUnitCost picks the price shown next to a snapshot: the most
// recently opened piece lot with remaining stock wins, falling back to
// the most recently opened box lot. Zero when no lot qualifies.
func DisplayUnitCost(lots []Lot) decimal.Decimal {
	var bestPiece, bestBox *Lot
	for i := range lots {
		lot := &lots[i]
		if lot.Remaining <= 0 {
			continue
		}
		switch lot.UOM {
		case UOMPiece:
			if bestPiece == nil || lot.OpenedAt.After(bestPiece.OpenedAt) {
				bestPiece = lot
			}
		case UOMBox:
			if bestBox == nil || lot.OpenedAt.After(bestBox.OpenedAt) {
				bestBox = lot
			}
		}
	}
	if bestPiece != nil {
		return bestPiece.UnitCost
	}
	if bestBox != nil {
		return bestBox.UnitCost
	}
	return decimal.Zero
}
