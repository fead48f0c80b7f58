package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStorage(t *testing.T, dbPath string) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	store := createTestStorage(t, MemoryPath)
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "hana_txs")
	require.NoError(t, err)
	assert.False(t, ok, "unwritten slot must report absent")

	require.NoError(t, store.Save(ctx, "hana_txs", []byte(`[{"id":"1"}]`)))
	value, ok, err := store.Load(ctx, "hana_txs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"}]`, string(value))

	require.NoError(t, store.Save(ctx, "hana_txs", []byte(`[]`)))
	value, _, err = store.Load(ctx, "hana_txs")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value))
}

func TestSQLiteStorage_KeysAndDelete(t *testing.T) {
	store := createTestStorage(t, MemoryPath)
	ctx := context.Background()

	for _, key := range []string{"hana_txs", "hana_auth", "hana_debts"} {
		require.NoError(t, store.Save(ctx, key, []byte("1")))
	}

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hana_auth", "hana_debts", "hana_txs"}, keys)

	require.NoError(t, store.Delete(ctx, "hana_auth"))
	require.NoError(t, store.Delete(ctx, "hana_auth"), "deleting twice is fine")

	_, ok, err := store.Load(ctx, "hana_auth")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStorage_Validation(t *testing.T) {
	store := createTestStorage(t, MemoryPath)
	ctx := context.Background()

	tests := []struct {
		wantErr error
		name    string
		key     string
	}{
		{name: "empty", key: " ", wantErr: ErrEmptyString},
		{name: "uppercase", key: "HANA_TXS", wantErr: ErrInvalidKey},
		{name: "injection", key: "x'; DROP TABLE slots;--", wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(ctx, tt.key, []byte("1"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.ErrorIs(t, store.Save(ctx, "hana_txs", nil), ErrNilParameter)
	//nolint:staticcheck // exercising the nil guard
	_, _, err := store.Load(nil, "hana_txs")
	assert.ErrorIs(t, err, ErrNilContext)

	_, err = NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "hana.db")
	ctx := context.Background()

	first := createTestStorage(t, dbPath)
	require.NoError(t, first.Save(ctx, "hana_prolabore", []byte(`"9000"`)))
	require.NoError(t, first.Close())

	second := createTestStorage(t, dbPath)
	value, ok, err := second.Load(ctx, "hana_prolabore")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"9000"`, string(value))
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store := createTestStorage(t, MemoryPath)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	require.NoError(t, store.Migrate(ctx), "migrating twice is a no-op")
}

func TestSQLiteStorage_Backup(t *testing.T) {
	dir := t.TempDir()
	store := createTestStorage(t, filepath.Join(dir, "hana.db"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "hana_txs", []byte(`[]`)))

	info, err := store.Backup(ctx, filepath.Join(dir, "copy.db"), "before import")
	require.NoError(t, err)
	assert.Equal(t, "before import", info.Reason)

	_, err = store.Backup(ctx, filepath.Join(dir, "copy.db"), "again")
	assert.ErrorIs(t, err, ErrBackupExists)

	copied := createTestStorage(t, info.Path)
	value, ok, err := copied.Load(ctx, "hana_txs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(value))

	backups, err := store.Backups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, info.Path, backups[0].Path)
}

func TestSQLiteStorage_BackupDefaultPath(t *testing.T) {
	dir := t.TempDir()
	store := createTestStorage(t, filepath.Join(dir, "hana.db"))

	info, err := store.Backup(context.Background(), "", "manual")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backups"), filepath.Dir(info.Path))

	mem := createTestStorage(t, MemoryPath)
	_, err = mem.Backup(context.Background(), "", "manual")
	assert.ErrorIs(t, err, ErrEmptyString)
}
