package loader

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/wfx/config"
	"github.com/BaSui01/wfx/index"
	"github.com/BaSui01/wfx/internal/metrics"
	"github.com/BaSui01/wfx/types"
)

// Load tier labels used in logs and metrics.
const (
	tierBuiltin = "builtin"
	tierCache   = "cache"
	tierRebuild = "rebuild"
)

// Loader is the runtime-facing façade over the component index. Paths
// and mode flags are fixed at construction from configuration; the
// catalog is populated lazily on the first LoadIndex call and cached for
// the remainder of the process.
type Loader struct {
	indexPath      string
	cachePath      string
	componentsPath string
	devMode        bool
	selective      []string

	categories *index.CategoryMap
	store      *index.Store
	logger     *zap.Logger
	metrics    *metrics.Collector

	// scan is swappable so tests can verify which tiers were exercised.
	scan func() (*types.Catalog, error)

	mu      sync.Mutex
	catalog *types.Catalog
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Loader) { l.metrics = c }
}

// New constructs a configured Loader. Path-resolution failures degrade
// gracefully: affected paths stay empty and later load attempts fail
// explicitly instead of crashing here.
func New(cfg *config.Config, opts ...Option) *Loader {
	l := &Loader{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(zap.String("component", "index_loader"))
	l.store = index.NewStore(l.logger)

	l.indexPath = cfg.IndexPath
	if cfg.IndexPathOverride != "" {
		if _, err := os.Stat(cfg.IndexPathOverride); err == nil {
			l.indexPath = cfg.IndexPathOverride
			l.logger.Debug("using custom index path",
				zap.String("path", cfg.IndexPathOverride))
		} else {
			l.logger.Warn("custom index path does not exist",
				zap.String("path", cfg.IndexPathOverride))
		}
	}

	if cachePath := cfg.CachedIndexPath(); cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
			l.logger.Warn("failed to create cache directory",
				zap.String("path", filepath.Dir(cachePath)),
				zap.Error(err))
		} else {
			l.cachePath = cachePath
		}
	}

	l.componentsPath = cfg.ComponentsPath
	if l.componentsPath == "" && l.indexPath != "" {
		// The components root sits next to the assets directory holding
		// the built-in index.
		l.componentsPath = filepath.Join(filepath.Dir(filepath.Dir(l.indexPath)), "components")
	}

	l.devMode = cfg.DevelopmentMode()
	l.selective = cfg.SelectiveCategories()
	if l.devMode {
		l.logger.Debug("development mode enabled",
			zap.Strings("selective_categories", l.selective))
	}

	l.categories = index.DefaultCategoryMap()
	if cfg.CategoryMapPath != "" {
		overrides, err := index.LoadCategoryOverrides(cfg.CategoryMapPath)
		if err != nil {
			l.logger.Warn("failed to load category map overrides",
				zap.String("path", cfg.CategoryMapPath),
				zap.Error(err))
		} else {
			l.categories.Merge(overrides)
		}
	}

	l.scan = l.scanComponents
	return l
}

// LoadIndex loads the component index using the configured strategy.
// The result is memoized for the process; only the first call does any
// I/O. Exhaustion of all production tiers is the one fatal error.
func (l *Loader) LoadIndex() (*types.Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.catalog != nil {
		return l.catalog, nil
	}

	var catalog *types.Catalog
	var err error
	if l.devMode {
		catalog, err = l.loadDevelopment()
	} else {
		catalog, err = l.loadProduction()
	}
	if err != nil {
		return nil, err
	}

	l.catalog = catalog
	return catalog, nil
}

// loadProduction tries, strictly in order, the built-in catalog, the
// user-cache catalog, and a fresh scan persisted to the cache.
func (l *Loader) loadProduction() (*types.Catalog, error) {
	if catalog := l.tryLoadTier(tierBuiltin, l.indexPath); catalog != nil {
		l.logger.Debug("loaded component index from built-in file")
		return catalog, nil
	}

	if catalog := l.tryLoadTier(tierCache, l.cachePath); catalog != nil {
		l.logger.Debug("loaded component index from cache")
		return catalog, nil
	}

	l.logger.Info("building component index for first time")
	catalog, err := l.buildAndCache()
	if err != nil {
		l.metrics.LoadAttempt(tierRebuild, false)
		return nil, types.NewError(types.ErrIndexExhausted, "failed to load or build component index").
			WithCause(err)
	}
	l.metrics.LoadAttempt(tierRebuild, true)
	return catalog, nil
}

// tryLoadTier loads and validates one catalog file tier. A validation
// failure only fails that tier; the loader proceeds to the next.
func (l *Loader) tryLoadTier(tier, path string) *types.Catalog {
	if path == "" {
		return nil
	}

	catalog, err := l.store.Load(path)
	if err != nil {
		if types.IsErrorCode(err, types.ErrIndexNotFound) {
			l.logger.Debug("index tier absent",
				zap.String("tier", tier),
				zap.String("path", path))
		} else {
			l.logger.Warn("failed to load index tier",
				zap.String("tier", tier),
				zap.String("path", path),
				zap.Error(err))
			l.metrics.LoadAttempt(tier, false)
		}
		return nil
	}

	if !index.Validate(catalog, l.logger) {
		l.logger.Warn("index tier failed validation",
			zap.String("tier", tier),
			zap.String("path", path))
		l.metrics.LoadAttempt(tier, false)
		return nil
	}

	l.metrics.LoadAttempt(tier, true)
	return catalog
}

// buildAndCache runs a fresh scan, validates the result, and persists it
// to the user-cache path. A cache-write failure is logged but does not
// discard the freshly built catalog.
func (l *Loader) buildAndCache() (*types.Catalog, error) {
	catalog, err := l.scan()
	if err != nil {
		return nil, err
	}
	if !index.Validate(catalog, l.logger) {
		return nil, types.NewError(types.ErrValidation, "built index failed validation")
	}

	if l.cachePath != "" {
		if err := l.store.Save(catalog, l.cachePath); err != nil {
			l.logger.Warn("failed to cache built index",
				zap.String("path", l.cachePath),
				zap.Error(err))
		}
	}

	return catalog, nil
}

// loadDevelopment always rebuilds from source so local edits are
// reflected, optionally deriving a category-filtered copy.
func (l *Loader) loadDevelopment() (*types.Catalog, error) {
	if len(l.selective) > 0 {
		l.logger.Info("development mode with selective loading",
			zap.Strings("categories", l.selective))
	} else {
		l.logger.Info("development mode: rebuilding all components")
	}

	catalog, err := l.scan()
	if err != nil {
		l.metrics.LoadAttempt(tierRebuild, false)
		return nil, err
	}
	if !index.Validate(catalog, l.logger) {
		l.metrics.LoadAttempt(tierRebuild, false)
		return nil, types.NewError(types.ErrValidation, "built index failed validation")
	}
	l.metrics.LoadAttempt(tierRebuild, true)

	if len(l.selective) == 0 {
		return catalog, nil
	}

	filtered := filterCatalog(catalog, l.selective)
	l.logger.Info("filtered index built",
		zap.Int("components", filtered.Metadata.TotalComponents),
		zap.Int("modules", filtered.Metadata.TotalModules))
	return filtered, nil
}

// scanComponents is the default scan implementation.
func (l *Loader) scanComponents() (*types.Catalog, error) {
	builder, err := index.NewBuilder(l.componentsPath,
		index.WithLogger(l.logger),
		index.WithCategoryMap(l.categories),
		index.WithMetrics(l.metrics),
	)
	if err != nil {
		return nil, err
	}
	return builder.Scan()
}

// filterCatalog derives a new, independent catalog containing only
// entries whose category is in the selection set, with metadata counts
// recomputed and the selected categories recorded. The input catalog is
// not retained.
func filterCatalog(full *types.Catalog, selective []string) *types.Catalog {
	filtered := types.NewCatalog()
	filtered.Metadata = full.Metadata
	filtered.Metadata.SelectiveModules = append([]string(nil), selective...)

	for _, category := range selective {
		for _, key := range full.Categories[category] {
			component, ok := full.Components[key]
			if !ok {
				continue
			}
			filtered.Components[key] = component
			filtered.Categories[category] = append(filtered.Categories[category], key)
		}
	}

	for name, module := range full.Modules {
		for _, category := range selective {
			if module.Category == category {
				filtered.Modules[name] = module
				break
			}
		}
	}

	filtered.Metadata.TotalComponents = len(filtered.Components)
	filtered.Metadata.TotalModules = len(filtered.Modules)
	return filtered
}

// catalogOrNil returns the loaded catalog, lazily triggering a load on
// first use. Load failures are logged and yield nil.
func (l *Loader) catalogOrNil() *types.Catalog {
	catalog, err := l.LoadIndex()
	if err != nil {
		l.logger.Warn("component index unavailable", zap.Error(err))
		return nil
	}
	return catalog
}

// AvailableModules returns the sorted names of all indexed component
// modules. Empty, never an error, when no catalog is available.
func (l *Loader) AvailableModules() []string {
	catalog := l.catalogOrNil()
	if catalog == nil {
		return []string{}
	}
	return catalog.ModuleNames()
}

// AvailableCategories returns the sorted category tags of the loaded
// catalog.
func (l *Loader) AvailableCategories() []string {
	catalog := l.catalogOrNil()
	if catalog == nil {
		return []string{}
	}
	return catalog.CategoryNames()
}

// ComponentsInModule returns the component names a module declares.
func (l *Loader) ComponentsInModule(module string) []string {
	catalog := l.catalogOrNil()
	if catalog == nil {
		return []string{}
	}
	return catalog.ComponentsInModule(module)
}

// ComponentsInCategory returns the component keys bucketed under a
// category.
func (l *Loader) ComponentsInCategory(category string) []string {
	catalog := l.catalogOrNil()
	if catalog == nil {
		return []string{}
	}
	return catalog.ComponentsInCategory(category)
}

// IsDevelopmentMode reports whether the loader runs in development mode.
func (l *Loader) IsDevelopmentMode() bool {
	return l.devMode
}

// SelectiveCategories returns a copy of the selective-category set.
func (l *Loader) SelectiveCategories() []string {
	return append([]string(nil), l.selective...)
}

// IndexPath returns the resolved built-in index path.
func (l *Loader) IndexPath() string { return l.indexPath }

// CachePath returns the resolved user-cache index path.
func (l *Loader) CachePath() string { return l.cachePath }

// ComponentsPath returns the resolved components root.
func (l *Loader) ComponentsPath() string { return l.componentsPath }

// Invalidate drops the memoized catalog so the next access loads afresh.
// Intended for development workflows; production callers never need it.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.catalog = nil
}
