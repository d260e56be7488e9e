package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

func backends(t *testing.T) map[string]domain.KVStore {
	t.Helper()
	log := logger.Nop()
	dir := t.TempDir()

	sq, err := OpenSQLite(filepath.Join(dir, "kv.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]domain.KVStore{
		"memory": NewMemoryStore(log),
		"file":   NewFileStore(filepath.Join(dir, "nested", "storage.json"), log),
		"sqlite": sq,
	}
}

func TestKVStoreCRUD(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			// Missing key.
			_, err := store.Get(ctx, "missing")
			require.ErrorIs(t, err, domain.ErrNotFound)

			// Set + Get.
			require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))
			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(got))

			// Overwrite.
			require.NoError(t, store.Set(ctx, "k", []byte("v2")))
			got, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", string(got))

			// Delete, twice.
			require.NoError(t, store.Delete(ctx, "k"))
			require.NoError(t, store.Delete(ctx, "k"))
			_, err = store.Get(ctx, "k")
			require.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	first := NewFileStore(path, logger.Nop())
	require.NoError(t, first.Set(ctx, SessionKey, []byte("x")))

	second := NewFileStore(path, logger.Nop())
	got, err := second.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path, logger.Nop()).Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	log := logger.Nop()

	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{BackendMemory, "", false},
		{BackendFile, filepath.Join(dir, "s.json"), false},
		{BackendSQLite, filepath.Join(dir, "s.db"), false},
		{"redis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			kv, closer, err := Open(tt.backend, tt.path, log)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, kv)
			require.NoError(t, closer.Close())
		})
	}
}
