package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "slots.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStorage_PutGet(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	_, err := store.Get(ctx, domain.ComparisonSlotKey)
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)

	require.NoError(t, store.Put(ctx, domain.ComparisonSlotKey, []byte(`[{"analysisId":"1"}]`)))
	got, err := store.Get(ctx, domain.ComparisonSlotKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"analysisId":"1"}]`, string(got))
}

func TestSQLiteStorage_PutOverwrites(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "slot", []byte("first")))
	require.NoError(t, store.Put(ctx, "slot", []byte("second")))

	got, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	var count int64
	require.NoError(t, store.db.Model(&slotRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStorage_Ping(t *testing.T) {
	store := newTestSQLite(t)
	assert.NoError(t, store.Ping(context.Background()))

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(context.Background()))
}
