package index

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/wfx/internal/metrics"
	"github.com/BaSui01/wfx/types"
)

// Builder scans a components root directory and assembles a Catalog.
type Builder struct {
	componentsPath string
	convention     Convention
	categories     *CategoryMap
	logger         *zap.Logger
	metrics        *metrics.Collector

	// now is swappable for deterministic tests.
	now func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithConvention overrides the component package layout convention.
func WithConvention(c Convention) Option {
	return func(b *Builder) { b.convention = c }
}

// WithCategoryMap overrides the module classification table.
func WithCategoryMap(m *CategoryMap) Option {
	return func(b *Builder) { b.categories = m }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(b *Builder) { b.metrics = c }
}

// NewBuilder creates a builder over the given components root.
// The root must exist; a missing root is a configuration error.
func NewBuilder(componentsPath string, opts ...Option) (*Builder, error) {
	b := &Builder{
		componentsPath: componentsPath,
		convention:     DefaultConvention(),
		categories:     DefaultCategoryMap(),
		logger:         zap.NewNop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(zap.String("component", "index_builder"))

	info, err := os.Stat(componentsPath)
	if err != nil || !info.IsDir() {
		return nil, types.NewError(types.ErrConfig, "components path does not exist").
			WithPath(componentsPath).
			WithCause(err)
	}

	return b, nil
}

// Scan enumerates the component module directories and builds a fresh
// catalog. Per-module failures are logged and skipped; scanning never
// aborts because of one bad module.
func (b *Builder) Scan() (*types.Catalog, error) {
	start := b.now()
	b.logger.Info("scanning components", zap.String("path", b.componentsPath))

	entries, err := os.ReadDir(b.componentsPath)
	if err != nil {
		return nil, types.NewError(types.ErrRead, "failed to read components directory").
			WithPath(b.componentsPath).
			WithCause(err)
	}

	catalog := types.NewCatalog()

	// os.ReadDir returns entries sorted by name, so catalog contents are
	// reproducible across runs.
	for _, entry := range entries {
		if !entry.IsDir() || isReservedName(entry.Name()) {
			continue
		}
		b.scanModule(catalog, entry.Name())
	}

	catalog.Metadata.GeneratedAt = start.UTC().Format(time.RFC3339)
	catalog.Metadata.TotalComponents = len(catalog.Components)
	catalog.Metadata.TotalModules = len(catalog.Modules)

	b.metrics.ObserveScan(b.now().Sub(start), len(catalog.Modules), len(catalog.Components))
	b.logger.Info("scan complete",
		zap.Int("modules", catalog.Metadata.TotalModules),
		zap.Int("components", catalog.Metadata.TotalComponents),
	)

	return catalog, nil
}

// isReservedName reports whether a directory name denotes an internal or
// hidden directory rather than a component module.
func isReservedName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// scanModule indexes one candidate module directory.
func (b *Builder) scanModule(catalog *types.Catalog, moduleName string) {
	moduleDir := filepath.Join(b.componentsPath, moduleName)
	initPath := filepath.Join(moduleDir, b.convention.InitializerName)

	data, err := os.ReadFile(initPath)
	if err != nil {
		if os.IsNotExist(err) {
			b.logger.Debug("skipping module: no initializer",
				zap.String("module", moduleName))
			b.metrics.ModuleSkipped("no_initializer")
		} else {
			b.logger.Warn("skipping module: initializer unreadable",
				zap.String("module", moduleName),
				zap.String("path", initPath),
				zap.Error(err))
			b.metrics.ModuleSkipped("read_error")
		}
		return
	}

	decls := extractDynamicImports(string(data), b.convention.ImportsMarker)
	if len(decls) == 0 {
		b.logger.Debug("skipping module: no dynamic imports found",
			zap.String("module", moduleName))
		b.metrics.ModuleSkipped("no_imports")
		return
	}

	dynamicImports := make(map[string]string, len(decls))
	for _, decl := range decls {
		dynamicImports[decl.Name] = decl.Path
		if decl.Name == types.ModuleLevelImport {
			continue
		}
		b.addComponent(catalog, moduleName, decl.Name, decl.Path)
	}

	category := b.categories.Classify(moduleName)
	catalog.Modules[moduleName] = types.ModuleDescriptor{
		Name:           moduleName,
		Category:       category,
		DynamicImports: dynamicImports,
		ComponentCount: countComponents(dynamicImports),
	}
}

// addComponent inserts one component descriptor and its category bucket
// entry.
func (b *Builder) addComponent(catalog *types.Catalog, moduleName, componentName, filePath string) {
	sourcePath := filepath.Join(
		b.componentsPath, moduleName,
		filepath.FromSlash(filePath)+b.convention.SourceExt,
	)
	fullPath, err := filepath.Abs(sourcePath)
	if err != nil {
		fullPath = sourcePath
	}

	category := b.categories.Classify(moduleName)
	key := types.ComponentKey(moduleName, componentName)

	catalog.Components[key] = types.ComponentDescriptor{
		Module:   moduleName,
		Name:     componentName,
		FilePath: filePath,
		FullPath: fullPath,
		Category: category,
		Info:     b.convention.extractComponentInfo(sourcePath, componentName),
	}
	catalog.Categories[category] = append(catalog.Categories[category], key)
}

// countComponents counts declared entries excluding the module-level
// sentinel.
func countComponents(dynamicImports map[string]string) int {
	count := 0
	for name := range dynamicImports {
		if name != types.ModuleLevelImport {
			count++
		}
	}
	return count
}
