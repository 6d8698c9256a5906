package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/starknet-deploy/internal/adapters/fs"
	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	ctx := context.Background()
	dataDir := filepath.Join(t.TempDir(), ".starknet-deploy")
	store := fs.NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dataDir})

	assert.False(t, store.Exists())
	assert.Equal(t, filepath.Join(dataDir, "config.local.json"), store.GetPath())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLocalConfig(), loaded)

	require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "local", Account: 2}))
	assert.True(t, store.Exists())

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "local", loaded.Network)
	assert.Equal(t, 2, loaded.Account)
}

func TestLocalConfigStoreFile(t *testing.T) {
	ctx := context.Background()
	newStore := func(t *testing.T) *fs.LocalConfigStoreAdapter {
		return fs.NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})
	}

	t.Run("written as indented json with trailing newline", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "sepolia", Account: 1}))

		data, err := os.ReadFile(store.GetPath())
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"network\": \"sepolia\",\n  \"account\": 1\n}\n", string(data))

		leftovers, err := filepath.Glob(store.GetPath() + ".*")
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})

	t.Run("save replaces the previous selection", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "sepolia", Account: 3}))
		require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "local"}))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, &config.LocalConfig{Network: "local"}, loaded)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, os.WriteFile(store.GetPath(), []byte("\n"), 0644))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultLocalConfig(), loaded)
	})

	t.Run("corrupt file is a persistence error", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, os.WriteFile(store.GetPath(), []byte("{network"), 0644))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})

	t.Run("negative account is rejected", func(t *testing.T) {
		store := newStore(t)
		err := store.Save(ctx, &config.LocalConfig{Account: -1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "account must not be negative")
		assert.False(t, store.Exists())

		require.NoError(t, os.WriteFile(store.GetPath(), []byte(`{"account": -2}`), 0644))
		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})
}

func TestFileWriter(t *testing.T) {
	ctx := context.Background()
	w := fs.NewFileWriterAdapter()
	path := filepath.Join(t.TempDir(), "src", "scripts", "tasks", "example_task.go")

	exists, err := w.FileExists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, w.WriteFile(ctx, path, "package main\n"))
	exists, err = w.FileExists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)
}
