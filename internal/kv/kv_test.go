package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest runs the common Store contract against each backend.
func storeUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)

	sqlite, err := OpenSQLite(filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"file":   file,
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "authToken", "tok-123"))

			got, err := store.Get(ctx, "authToken")
			require.NoError(t, err)
			assert.Equal(t, "tok-123", got)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k", "first"))
			require.NoError(t, store.Set(ctx, "k", "second"))

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "second", got)
		})
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()

	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k", "v"))
			require.NoError(t, store.Delete(ctx, "k"))
			require.NoError(t, store.Delete(ctx, "k"))
			require.NoError(t, store.Delete(ctx, "never-existed"))

			_, err := store.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFile_CreatesDirectoryAndRestrictsPermissions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")

	store, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "authToken", "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "authToken", "tok"))

	second, err := NewFile(path)
	require.NoError(t, err)
	got, err := second.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}

func TestFile_EmptyPathRejected(t *testing.T) {
	_, err := NewFile("")
	assert.Error(t, err)
}

func TestSQLite_PersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "userData", `{"name":"Leo"}`))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "userData")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Leo"}`, got)
}

func TestSQLite_NilDBRejected(t *testing.T) {
	_, err := NewSQLite(nil)
	assert.Error(t, err)
}
