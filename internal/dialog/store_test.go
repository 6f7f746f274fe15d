package dialog_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/stock-bot/internal/dialog"
	"github.com/Spok95/stock-bot/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := dialog.NewStore(kvstore.NewMemory())

	st, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, st, "no state before first write")

	require.NoError(t, s.Set(ctx, "u1", dialog.State{Step: dialog.StepAwaitSKU, Box: 2}))

	st, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, dialog.StepAwaitSKU, st.Step)
	assert.Equal(t, 2, st.Box)
	assert.False(t, st.UpdatedAt.IsZero())

	// latest wins, quantities never stack
	require.NoError(t, s.Set(ctx, "u1", dialog.State{Step: dialog.StepAwaitSKU, Piece: 5}))
	st, _ = s.Get(ctx, "u1")
	require.NotNil(t, st)
	assert.Equal(t, 0, st.Box)
	assert.Equal(t, 5, st.Piece)

	require.NoError(t, s.Clear(ctx, "u1"))
	st, _ = s.Get(ctx, "u1")
	assert.Nil(t, st)
}

func TestStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	mem := kvstore.NewMemory()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mem.SetNow(func() time.Time { return now })

	s := dialog.NewStore(mem)
	require.NoError(t, s.Set(ctx, "u1", dialog.State{Step: dialog.StepAwaitWarehouse, SKU: "a564", Box: 3}))

	now = now.Add(31 * time.Minute)
	st, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, st, "a 31 minute old state reads as absent")
}

func TestSelections(t *testing.T) {
	ctx := context.Background()
	sel := dialog.NewSelections(kvstore.NewMemory())

	assert.Empty(t, sel.LastSKU(ctx, "u1"))
	sel.SetLastSKU(ctx, "u1", "a564")
	sel.SetLastWarehouse(ctx, "u1", "main")
	assert.Equal(t, "a564", sel.LastSKU(ctx, "u1"))
	assert.Equal(t, "main", sel.LastWarehouse(ctx, "u1"))
	assert.Empty(t, sel.LastSKU(ctx, "u2"))
}
