package guard_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Spok95/stock-bot/internal/guard"
	"github.com/stretchr/testify/assert"
)

type fakeDedupStore struct {
	seen map[string]bool
	err  error
}

func (f *fakeDedupStore) InsertOnce(_ context.Context, eventID, _, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[eventID] {
		return false, nil
	}
	f.seen[eventID] = true
	return true, nil
}

func TestDeduperDropsReplays(t *testing.T) {
	d := guard.NewDeduper(&fakeDedupStore{seen: map[string]bool{}}, slog.Default())
	ctx := context.Background()

	assert.True(t, d.Allow(ctx, "ev-1", "u1", "message"))
	assert.False(t, d.Allow(ctx, "ev-1", "u1", "message"), "replay is dropped")
	assert.True(t, d.Allow(ctx, "ev-2", "u1", "message"))
}

func TestDeduperFailsOpen(t *testing.T) {
	d := guard.NewDeduper(&fakeDedupStore{err: errors.New("db down")}, slog.Default())
	assert.True(t, d.Allow(context.Background(), "ev-1", "u1", "message"),
		"a dedup store outage must never block the bot")
}

func TestDeduperAllowsMissingID(t *testing.T) {
	d := guard.NewDeduper(&fakeDedupStore{seen: map[string]bool{}}, slog.Default())
	assert.True(t, d.Allow(context.Background(), "", "u1", "message"))
}
