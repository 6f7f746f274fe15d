package dialog

import (
	"context"

	"github.com/Spok95/stock-bot/internal/kvstore"
)

// Selections remembers each actor's last SKU and last warehouse so a
// bare 出-command has context. Best-effort: losing it only means the
// user re-specifies.
type Selections struct {
	kv kvstore.Store
}

func NewSelections(kv kvstore.Store) *Selections { return &Selections{kv: kv} }

func (s *Selections) LastSKU(ctx context.Context, actor string) string {
	v, ok, err := s.kv.Get(ctx, "sel:sku:"+actor)
	if err != nil || !ok {
		return ""
	}
	return string(v)
}

func (s *Selections) SetLastSKU(ctx context.Context, actor, sku string) {
	_ = s.kv.Set(ctx, "sel:sku:"+actor, []byte(sku), 0)
}

func (s *Selections) LastWarehouse(ctx context.Context, actor string) string {
	v, ok, err := s.kv.Get(ctx, "sel:wh:"+actor)
	if err != nil || !ok {
		return ""
	}
	return string(v)
}

func (s *Selections) SetLastWarehouse(ctx context.Context, actor, wh string) {
	_ = s.kv.Set(ctx, "sel:wh:"+actor, []byte(wh), 0)
}
