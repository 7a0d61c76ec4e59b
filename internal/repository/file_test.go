package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")
	store := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "casino_save", []byte("version: 1\n")))

	data, err := store.Load(ctx, "casino_save")
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))

	// overwrite
	require.NoError(t, store.Save(ctx, "casino_save", []byte("version: 1\nmode: easy\n")))
	data, err = store.Load(ctx, "casino_save")
	require.NoError(t, err)
	assert.Equal(t, "version: 1\nmode: easy\n", string(data))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "casino_save.yaml", entries[0].Name())
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrSaveNotFound)
}

func TestFileStore_InvalidSlot(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	for _, slot := range []string{"", "../escape", "a/b", "with space"} {
		assert.ErrorIs(t, store.Save(ctx, slot, []byte("x")), ErrInvalidSlot, slot)
		_, err := store.Load(ctx, slot)
		assert.ErrorIs(t, err, ErrInvalidSlot, slot)
	}
}

func TestFileStore_ListAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	saves, err := NewFileStore(filepath.Join(dir, "missing")).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, saves)

	require.NoError(t, store.Save(ctx, "b", []byte("bb")))
	require.NoError(t, store.Save(ctx, "a", []byte("a")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	saves, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, "a", saves[0].Slot)
	assert.Equal(t, int64(1), saves[0].Size)
	assert.Equal(t, "b", saves[1].Slot)
	assert.False(t, saves[1].UpdatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrSaveNotFound)
}

func TestFileStore_CancelledContext(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, "slot", []byte("x")), context.Canceled)
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	payloads := []string{"one", "two", "three", "four", "five"}
	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, "shared", []byte(p)))
		}(p)
	}
	wg.Wait()

	data, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data))
}
