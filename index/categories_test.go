package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryMap_Classify(t *testing.T) {
	m := DefaultCategoryMap()

	assert.Equal(t, CategoryModels, m.Classify("openai"))
	assert.Equal(t, CategoryModels, m.Classify("OpenAI"))
	assert.Equal(t, CategoryVectorStores, m.Classify("qdrant"))
	assert.Equal(t, CategorySearch, m.Classify("tavily"))
	assert.Equal(t, CategoryDocuments, m.Classify("docling"))
	assert.Equal(t, CategoryIntegration, m.Classify("composio"))
	assert.Equal(t, CategoryOther, m.Classify("never_heard_of_it"))
	assert.Equal(t, CategoryOther, m.Classify(""))
}

func TestCategoryMap_Merge(t *testing.T) {
	m := DefaultCategoryMap()
	before := m.Len()

	m.Merge(map[string]string{
		"MyVendor": CategoryModels,
		"openai":   CategoryCustom, // replaces built-in entry
	})

	assert.Equal(t, before+1, m.Len())
	assert.Equal(t, CategoryModels, m.Classify("myvendor"))
	assert.Equal(t, CategoryCustom, m.Classify("openai"))

	// The default table itself is untouched.
	assert.Equal(t, CategoryModels, DefaultCategoryMap().Classify("openai"))
}

func TestLoadCategoryOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("myvendor: models\nacme: search\n"), 0o644))

	overrides, err := LoadCategoryOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"myvendor": "models", "acme": "search"}, overrides)
}

func TestLoadCategoryOverrides_Errors(t *testing.T) {
	_, err := LoadCategoryOverrides("/definitely/not/here.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - not a map\n"), 0o644))
	_, err = LoadCategoryOverrides(path)
	assert.Error(t, err)
}
