package auth

import (
	"context"
	"testing"

	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/storage"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestKV(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	kv, err := storage.NewSQLiteStorage(storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	require.NoError(t, kv.Migrate(context.Background()))
	return kv
}

func newTestGate(t *testing.T, kv *storage.SQLiteStorage, opts Options) *Gate {
	t.Helper()
	opts.Cost = bcrypt.MinCost
	opts.Logger = common.DiscardLogger()
	g, err := NewGate(context.Background(), kv, opts)
	require.NoError(t, err)
	return g
}

func TestGate_UnlockPersists(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	g := newTestGate(t, kv, Options{})
	assert.False(t, g.Unlocked())

	assert.ErrorIs(t, g.Unlock(ctx, "1234"), ErrWrongPIN)
	assert.False(t, g.Unlocked())

	require.NoError(t, g.Unlock(ctx, " 2025 "))
	assert.True(t, g.Unlocked())

	raw, ok, err := kv.Load(ctx, store.KeyAuth)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", string(raw))

	reopened := newTestGate(t, kv, Options{})
	assert.True(t, reopened.Unlocked(), "the flag survives a restart")
}

func TestGate_Lock(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	g := newTestGate(t, kv, Options{PIN: "9876"})

	require.NoError(t, g.Unlock(ctx, "9876"))
	require.NoError(t, g.Lock(ctx))
	assert.False(t, g.Unlocked())

	_, ok, err := kv.Load(ctx, store.KeyAuth)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGate_LegacyQuotedFlag(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	require.NoError(t, kv.Save(ctx, store.KeyAuth, []byte(`"true"`)))

	assert.True(t, newTestGate(t, kv, Options{}).Unlocked())
}

func TestGate_Disabled(t *testing.T) {
	g := newTestGate(t, newTestKV(t), Options{Disabled: true})
	assert.True(t, g.Unlocked())
}
