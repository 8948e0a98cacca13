package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/wfx/config"
	"github.com/BaSui01/wfx/index"
	"github.com/BaSui01/wfx/internal/metrics"
	"github.com/BaSui01/wfx/types"
)

// testConfig returns a production-mode config rooted in a fresh temp
// directory, with the cache directory isolated from the user cache.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		IndexPath:      filepath.Join(root, "_assets", config.IndexFileName),
		ComponentsPath: filepath.Join(root, "components"),
		CacheDir:       filepath.Join(root, "cache"),
	}
	require.NoError(t, os.MkdirAll(cfg.ComponentsPath, 0o755))
	return cfg
}

// sampleCatalog builds a small valid catalog spanning two categories.
func sampleCatalog() *types.Catalog {
	catalog := types.NewCatalog()
	catalog.Metadata.Version = types.IndexVersion
	catalog.Metadata.GeneratedAt = "2026-06-01T00:00:00Z"

	add := func(module, name, category string) {
		key := types.ComponentKey(module, name)
		catalog.Components[key] = types.ComponentDescriptor{
			Module:   module,
			Name:     name,
			FilePath: "impl.py",
			Category: category,
			Info:     types.NewComponentInfo(),
		}
		catalog.Categories[category] = append(catalog.Categories[category], key)
		descriptor := catalog.Modules[module]
		descriptor.Name = module
		descriptor.Category = category
		descriptor.ComponentCount++
		if descriptor.DynamicImports == nil {
			descriptor.DynamicImports = map[string]string{}
		}
		descriptor.DynamicImports[name] = "impl"
		catalog.Modules[module] = descriptor
	}

	add("openai", "ChatModel", "models")
	add("openai", "EmbeddingModel", "models")
	add("tavily", "TavilySearch", "search")
	add("calculator", "Calculator", "tools")

	catalog.Metadata.TotalComponents = len(catalog.Components)
	catalog.Metadata.TotalModules = len(catalog.Modules)
	return catalog
}

func writeCatalog(t *testing.T, catalog *types.Catalog, path string) {
	t.Helper()
	require.NoError(t, index.NewStore(zap.NewNop()).Save(catalog, path))
}

// stubScan replaces the loader's scan with a canned result and counts
// invocations.
func stubScan(l *Loader, catalog *types.Catalog, err error) *int {
	calls := new(int)
	l.scan = func() (*types.Catalog, error) {
		*calls++
		return catalog, err
	}
	return calls
}

func TestLoadIndex_PrefersBuiltinIndex(t *testing.T) {
	cfg := testConfig(t)
	builtin := sampleCatalog()
	writeCatalog(t, builtin, cfg.IndexPath)

	l := New(cfg)
	calls := stubScan(l, nil, errors.New("scan must not run"))

	catalog, err := l.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, builtin.Metadata.TotalComponents, catalog.Metadata.TotalComponents)
	assert.Equal(t, 0, *calls, "built-in tier must not trigger a scan")

	again, err := l.LoadIndex()
	require.NoError(t, err)
	assert.Same(t, catalog, again, "repeated loads return the memoized catalog")
}

func TestLoadIndex_FallsBackToCache(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg)
	require.NotEmpty(t, l.CachePath())

	cached := sampleCatalog()
	writeCatalog(t, cached, l.CachePath())
	calls := stubScan(l, nil, errors.New("scan must not run"))

	catalog, err := l.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, cached.Metadata.TotalComponents, catalog.Metadata.TotalComponents)
	assert.Equal(t, 0, *calls)
}

func TestLoadIndex_RebuildsAndCaches(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg)
	built := sampleCatalog()
	calls := stubScan(l, built, nil)

	catalog, err := l.LoadIndex()
	require.NoError(t, err)
	assert.Same(t, built, catalog)
	assert.Equal(t, 1, *calls)

	// The freshly built catalog is persisted to the user cache.
	cached, err := index.NewStore(zap.NewNop()).Load(l.CachePath())
	require.NoError(t, err)
	assert.Equal(t, built.Metadata.TotalComponents, cached.Metadata.TotalComponents)

	_, err = l.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, *calls, "memoized load must not rescan")
}

func TestLoadIndex_CorruptBuiltinFallsThrough(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.IndexPath), 0o755))
	require.NoError(t, os.WriteFile(cfg.IndexPath, []byte("{not json"), 0o644))

	l := New(cfg)
	cached := sampleCatalog()
	writeCatalog(t, cached, l.CachePath())

	catalog, err := l.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, cached.Metadata.TotalModules, catalog.Metadata.TotalModules)
}

func TestLoadIndex_InvalidBuiltinFallsThrough(t *testing.T) {
	cfg := testConfig(t)
	invalid := sampleCatalog()
	invalid.Metadata.Version = ""
	writeCatalog(t, invalid, cfg.IndexPath)

	l := New(cfg)
	built := sampleCatalog()
	calls := stubScan(l, built, nil)

	catalog, err := l.LoadIndex()
	require.NoError(t, err)
	assert.Same(t, built, catalog)
	assert.Equal(t, 1, *calls, "invalid built-in index triggers a rebuild")
}

func TestLoadIndex_AllTiersExhausted(t *testing.T) {
	cfg := testConfig(t)
	l := New(cfg)
	scanErr := types.NewError(types.ErrConfig, "components path missing")
	stubScan(l, nil, scanErr)

	catalog, err := l.LoadIndex()
	require.Error(t, err)
	assert.Nil(t, catalog)
	assert.True(t, types.IsErrorCode(err, types.ErrIndexExhausted))
	assert.ErrorIs(t, err, scanErr)

	// Queries degrade to empty results, never panic or error.
	assert.Empty(t, l.AvailableModules())
	assert.Empty(t, l.AvailableCategories())
	assert.Empty(t, l.ComponentsInModule("openai"))
	assert.Empty(t, l.ComponentsInCategory("models"))
}

func TestLoadIndex_DevModeAlwaysRebuilds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dev = "1"

	stale := sampleCatalog()
	stale.Metadata.GeneratedAt = "2020-01-01T00:00:00Z"
	writeCatalog(t, stale, cfg.IndexPath)

	l := New(cfg)
	require.True(t, l.IsDevelopmentMode())
	assert.Empty(t, l.SelectiveCategories())

	built := sampleCatalog()
	calls := stubScan(l, built, nil)

	catalog, err := l.LoadIndex()
	require.NoError(t, err)
	assert.Same(t, built, catalog, "development mode ignores index files")
	assert.Equal(t, 1, *calls)
}

func TestLoadIndex_DevModeScanFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dev = "true"

	l := New(cfg)
	scanErr := types.NewError(types.ErrConfig, "components path missing")
	stubScan(l, nil, scanErr)

	_, err := l.LoadIndex()
	require.Error(t, err)
	assert.False(t, types.IsErrorCode(err, types.ErrIndexExhausted),
		"development failures surface directly, not as exhaustion")
}

func TestLoadIndex_SelectiveFiltersCategories(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dev = "models,tools"

	l := New(cfg)
	require.True(t, l.IsDevelopmentMode())
	assert.Equal(t, []string{"models", "tools"}, l.SelectiveCategories())

	stubScan(l, sampleCatalog(), nil)

	catalog, err := l.LoadIndex()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"models", "tools"}, catalog.CategoryNames())
	assert.Equal(t, []string{"calculator", "openai"}, catalog.ModuleNames())
	assert.NotContains(t, catalog.Components, "tavily.TavilySearch")

	// Metadata reflects the filtered view, not the full scan.
	assert.Equal(t, 3, catalog.Metadata.TotalComponents)
	assert.Equal(t, 2, catalog.Metadata.TotalModules)
	assert.Equal(t, []string{"models", "tools"}, catalog.Metadata.SelectiveModules)
}

func TestNew_CustomIndexPathOverride(t *testing.T) {
	cfg := testConfig(t)
	override := filepath.Join(t.TempDir(), "custom_index.json")
	writeCatalog(t, sampleCatalog(), override)
	cfg.IndexPathOverride = override

	l := New(cfg)
	assert.Equal(t, override, l.IndexPath())
}

func TestNew_MissingOverrideKeepsDefault(t *testing.T) {
	cfg := testConfig(t)
	cfg.IndexPathOverride = filepath.Join(t.TempDir(), "nope.json")

	l := New(cfg)
	assert.Equal(t, cfg.IndexPath, l.IndexPath())
}

func TestNew_DerivesComponentsPath(t *testing.T) {
	cfg := testConfig(t)
	root := filepath.Dir(filepath.Dir(cfg.IndexPath))
	cfg.ComponentsPath = ""

	l := New(cfg)
	assert.Equal(t, filepath.Join(root, "components"), l.ComponentsPath())
}

func TestQueries_SortedViews(t *testing.T) {
	cfg := testConfig(t)
	writeCatalog(t, sampleCatalog(), cfg.IndexPath)
	l := New(cfg)

	assert.Equal(t, []string{"calculator", "openai", "tavily"}, l.AvailableModules())
	assert.Equal(t, []string{"models", "search", "tools"}, l.AvailableCategories())
	assert.Equal(t, []string{"ChatModel", "EmbeddingModel"}, l.ComponentsInModule("openai"))
	assert.Equal(t, []string{"openai.ChatModel", "openai.EmbeddingModel"}, l.ComponentsInCategory("models"))
	assert.Empty(t, l.ComponentsInModule("missing"))
	assert.Empty(t, l.ComponentsInCategory("missing"))
}

func TestLoadIndex_RecordsTierMetrics(t *testing.T) {
	cfg := testConfig(t)
	writeCatalog(t, sampleCatalog(), cfg.IndexPath)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollectorWithRegisterer("wfx", registry, zap.NewNop())
	l := New(cfg, WithMetrics(collector))

	_, err := l.LoadIndex()
	require.NoError(t, err)

	// The built-in tier hit surfaces as one load-attempt series.
	assert.Equal(t, 1, testutil.CollectAndCount(registry, "wfx_index_loads_total"))
}

func TestLoadIndex_RecordsScanMetrics(t *testing.T) {
	cfg := testConfig(t)
	source := filepath.Join(cfg.ComponentsPath, "openai", "__init__.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0o755))
	init := "_dynamic_imports = {\"ChatModel\": \"chat\"}\n"
	require.NoError(t, os.WriteFile(source, []byte(init), 0o644))

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollectorWithRegisterer("wfx", registry, zap.NewNop())
	l := New(cfg, WithMetrics(collector))

	// No built-in or cached index, so the rebuild tier runs a real scan
	// through the same collector.
	catalog, err := l.LoadIndex()
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Metadata.TotalComponents)

	assert.Equal(t, 1, testutil.CollectAndCount(registry, "wfx_index_scans_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(registry, "wfx_index_loads_total"))
}

func TestInvalidate_ForcesReload(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dev = "1"

	l := New(cfg)
	calls := stubScan(l, sampleCatalog(), nil)

	_, err := l.LoadIndex()
	require.NoError(t, err)
	_, err = l.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	l.Invalidate()
	_, err = l.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}
