package dialog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Spok95/stock-bot/internal/kvstore"
)

// TTL after which a dialog is considered abandoned. Expiry is lazy:
// nothing sweeps, the next read simply misses.
const StateTTL = 30 * time.Minute

type Store struct {
	kv kvstore.Store
}

func NewStore(kv kvstore.Store) *Store { return &Store{kv: kv} }

// Get returns the live state, or nil when absent or expired.
func (s *Store) Get(ctx context.Context, actor string) (*State, error) {
	raw, ok, err := s.kv.Get(ctx, stateKey(actor))
	if err != nil || !ok {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, nil // unreadable state is as good as absent
	}
	return &st, nil
}

// Set overwrites the actor's state, latest wins.
func (s *Store) Set(ctx context.Context, actor string, st State) error {
	st.UpdatedAt = time.Now()
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, stateKey(actor), raw, StateTTL)
}

// Clear drops the state unconditionally (cancel, completion).
func (s *Store) Clear(ctx context.Context, actor string) error {
	return s.kv.Delete(ctx, stateKey(actor))
}

func stateKey(actor string) string { return "dlg:" + actor }
