package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/wfx/types"
)

// Store persists catalogs as deterministic, human-diffable JSON
// documents. Map keys serialize sorted, so the built-in catalog can be
// checked into version control and diffed across component-set changes.
type Store struct {
	logger *zap.Logger
}

// NewStore creates a catalog store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger.With(zap.String("component", "index_store"))}
}

// Save writes the catalog to path, creating parent directories as
// needed. The document is written to a unique temp file first and
// renamed into place so a concurrent reader never observes a torn write.
func (s *Store) Save(catalog *types.Catalog, path string) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return types.NewError(types.ErrParse, "failed to serialize catalog").
			WithPath(path).
			WithCause(err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return types.NewError(types.ErrWrite, "failed to create catalog directory").
			WithPath(path).
			WithCause(err)
	}

	tmpPath := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return types.NewError(types.ErrWrite, "failed to write catalog").
			WithPath(tmpPath).
			WithCause(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return types.NewError(types.ErrWrite, "failed to move catalog into place").
			WithPath(path).
			WithCause(err)
	}

	s.logger.Info("catalog saved",
		zap.String("path", path),
		zap.Int("components", len(catalog.Components)))
	return nil
}

// Load reads a catalog from path. A missing file yields an
// ErrIndexNotFound error, distinct from read failures (ErrRead) and
// corrupt documents (ErrParse), so the loader can tell "no index yet"
// from "index present but broken".
func (s *Store) Load(path string) (*types.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewError(types.ErrIndexNotFound, "catalog file not found").
				WithPath(path).
				WithCause(err)
		}
		return nil, types.NewError(types.ErrRead, "failed to read catalog").
			WithPath(path).
			WithCause(err)
	}

	var catalog types.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, types.NewError(types.ErrParse, "failed to parse catalog").
			WithPath(path).
			WithCause(err)
	}

	return &catalog, nil
}
