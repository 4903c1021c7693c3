package indexer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylens/sqlscope/backend/internal/models"
)

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	cache := NewFileCache(path)

	idx := &models.Index{
		BuildID:     "build-1",
		ProjectPath: "/srv/laravel",
		Dimensions:  3,
		CreatedAt:   time.Now().UTC().Round(time.Second),
		Snippets: []models.Snippet{
			{ID: 0, FilePath: "orders.php", Line: 42, Code: "SELECT * FROM orders", Embedding: []float32{0.1, 0.2, 0.3}},
		},
	}

	require.NoError(t, cache.Save(idx))

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, idx.BuildID, loaded.BuildID)
	assert.Equal(t, idx.ProjectPath, loaded.ProjectPath)
	assert.Equal(t, idx.Dimensions, loaded.Dimensions)
	require.Len(t, loaded.Snippets, 1)
	assert.Equal(t, idx.Snippets[0], loaded.Snippets[0])
}

func TestFileCacheMiss(t *testing.T) {
	cache := NewFileCache(filepath.Join(t.TempDir(), "missing.json"))

	_, err := cache.Load()
	assert.True(t, errors.Is(err, ErrCacheMiss), "expected ErrCacheMiss, got %v", err)
}

func TestFileCacheVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	stale, err := json.Marshal(map[string]any{"version": 99, "index": &models.Index{
		BuildID:  "old",
		Snippets: []models.Snippet{{ID: 0}},
	}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, stale, 0o644))

	_, err = NewFileCache(path).Load()
	assert.True(t, errors.Is(err, ErrCacheVersionMismatch), "expected ErrCacheVersionMismatch, got %v", err)
}

func TestFileCacheEmptyIndexIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	cache := NewFileCache(path)

	require.NoError(t, cache.Save(&models.Index{BuildID: "empty"}))

	_, err := cache.Load()
	assert.True(t, errors.Is(err, ErrCacheMiss), "expected ErrCacheMiss for an empty index, got %v", err)
}
