package save

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sqliteStore, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "save.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStore_SaveLoadDelete(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok, "fresh store must signal no prior save")

			want := sampleSnapshot()
			require.NoError(t, store.Save(ctx, want))

			got, ok, err := store.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, got)

			// Overwrite, not append.
			want.Balance = 777
			require.NoError(t, store.Save(ctx, want))
			got, ok, err = store.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 777.0, got.Balance)

			require.NoError(t, store.Delete(ctx))
			_, ok, err = store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting again is not an error.
			require.NoError(t, store.Delete(ctx))
		})
	}
}

func TestFileStore_CorruptFieldDoesNotFailLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "save.json"))
	require.NoError(t, err)
	corrupted := replaceField(t, data, "balance", `"oops"`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "save.json"), corrupted, 0o644))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, got.Balance)
	assert.Equal(t, int64(321), got.ManualClicks)
}

func TestFileStore_NoStaleTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), sampleSnapshot()))

	_, err = os.Stat(filepath.Join(dir, "save.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.db")
	ctx := context.Background()

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleSnapshot(), got)
}
