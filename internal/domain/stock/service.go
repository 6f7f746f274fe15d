package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/stock-bot/internal/domain/warehouse"
	"github.com/Spok95/stock-bot/internal/kvstore"
)

// LotReader is the ledger's live read side.
type LotReader interface {
	LiveLots(ctx context.Context, group, sku string) ([]Lot, error)
}

const listingCacheTTL = 5 * time.Second

// Service computes live snapshots from the lot ledger. A short
// per-(group, business-day) cache fronts listing and search reads;
// sufficiency checks must go through Fresh, which never reads it.
// The daily rollup table is deliberately not used here: it drifts from
// the ledger under concurrent mutation.
type Service struct {
	lots    LotReader
	cache   kvstore.Store
	loc     *time.Location
	cutover int
	log     *slog.Logger
}

func NewService(lots LotReader, cache kvstore.Store, loc *time.Location, cutoverHour int, log *slog.Logger) *Service {
	return &Service{lots: lots, cache: cache, loc: loc, cutover: cutoverHour, log: log}
}

// Snapshots returns the per-warehouse view of one SKU for display,
// possibly a few seconds stale.
func (s *Service) Snapshots(ctx context.Context, group, sku string, unitsPerBox int) ([]Snapshot, error) {
	key := s.cacheKey(group, sku)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var snaps []Snapshot
		if json.Unmarshal(raw, &snaps) == nil {
			return snaps, nil
		}
	}

	snaps, err := s.Fresh(ctx, group, sku, unitsPerBox)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(snaps); err == nil {
		if err := s.cache.Set(ctx, key, raw, listingCacheTTL); err != nil {
			s.log.Warn("snapshot cache write failed", "sku", sku, "err", err)
		}
	}
	return snaps, nil
}

// Fresh recomputes snapshots straight from the lot ledger. Sufficiency
// validation always comes through here.
func (s *Service) Fresh(ctx context.Context, group, sku string, unitsPerBox int) ([]Snapshot, error) {
	lots, err := s.lots.LiveLots(ctx, group, sku)
	if err != nil {
		return nil, fmt.Errorf("live lots: %w", err)
	}
	return Aggregate(lots, unitsPerBox), nil
}

// WarehouseSnapshot is the fresh view of one (sku, warehouse) pair.
// The second result reports whether that warehouse holds any stock.
func (s *Service) WarehouseSnapshot(ctx context.Context, group, sku, wh string, unitsPerBox int) (Snapshot, bool, error) {
	snaps, err := s.Fresh(ctx, group, sku, unitsPerBox)
	if err != nil {
		return Snapshot{}, false, err
	}
	for _, snap := range snaps {
		if snap.Warehouse == wh {
			return snap, true, nil
		}
	}
	return Snapshot{Warehouse: wh, Label: warehouse.Label(wh)}, false, nil
}

// UnitCost returns the display unit cost for one SKU.
func (s *Service) UnitCost(ctx context.Context, group, sku string) (string, error) {
	lots, err := s.lots.LiveLots(ctx, group, sku)
	if err != nil {
		return "", err
	}
	return DisplayUnitCost(lots).StringFixed(2), nil
}

func (s *Service) cacheKey(group, sku string) string {
	day := BusinessDay(time.Now(), s.loc, s.cutover)
	return "snap:" + group + ":" + day + ":" + sku
}
