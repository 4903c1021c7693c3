package indexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/querylens/sqlscope/backend/internal/models"
)

// cacheVersion guards against reading an index written by an older
// snippet layout. Bump when models.Index changes shape.
const cacheVersion = 1

var (
	ErrCacheMiss            = errors.New("index cache not found")
	ErrCacheVersionMismatch = errors.New("index cache version mismatch, reindex the project")
)

type cacheFile struct {
	Version int           `json:"version"`
	Index   *models.Index `json:"index"`
}

// FileCache persists the active index to disk so a restarted process can
// answer /analyze without re-embedding the whole codebase.
type FileCache struct {
	path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Save(idx *models.Index) error {
	data, err := json.Marshal(cacheFile{Version: cacheVersion, Index: idx})
	if err != nil {
		return fmt.Errorf("marshal index cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index cache: %w", err)
	}
	// Rename keeps a concurrent reader from seeing a torn file.
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("install index cache: %w", err)
	}
	return nil
}

func (c *FileCache) Load() (*models.Index, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("read index cache: %w", err)
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("decode index cache: %w", err)
	}
	if cf.Version != cacheVersion {
		return nil, ErrCacheVersionMismatch
	}
	if cf.Index == nil || cf.Index.Empty() {
		return nil, ErrCacheMiss
	}
	return cf.Index, nil
}
