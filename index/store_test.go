package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/wfx/types"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "component_index.json")

	original := validCatalog()
	original.Metadata.GeneratedAt = "2026-01-02T03:04:05Z"
	original.Metadata.TotalComponents = 1
	original.Metadata.TotalModules = 1

	require.NoError(t, store.Save(original, path))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestStore_SaveCreatesParents(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "deep", "nested", "component_index.json")

	require.NoError(t, store.Save(types.NewCatalog(), path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_SaveDeterministic(t *testing.T) {
	store := NewStore(nil)
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")

	catalog := validCatalog()
	require.NoError(t, store.Save(catalog, pathA))
	require.NoError(t, store.Save(catalog, pathB))

	bytesA, err := os.ReadFile(pathA)
	require.NoError(t, err)
	bytesB, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, bytesA, bytesB)
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	store := NewStore(nil)
	dir := t.TempDir()
	require.NoError(t, store.Save(validCatalog(), filepath.Join(dir, "index.json")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.json", entries[0].Name())
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(nil)
	_, err := store.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrIndexNotFound))
}

func TestStore_LoadCorruptFile(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Load(path)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrParse))
	// Corruption is distinct from absence.
	assert.False(t, types.IsErrorCode(err, types.ErrIndexNotFound))
}

func TestStore_SavedShape(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, store.Save(validCatalog(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"metadata"`)
	assert.Contains(t, content, `"components"`)
	assert.Contains(t, content, `"modules"`)
	assert.Contains(t, content, `"categories"`)
	assert.Contains(t, content, `"openai.ChatOpenAI"`)
	assert.Contains(t, content, `"dynamic_imports"`)
	assert.Contains(t, content, `"component_count"`)
}
