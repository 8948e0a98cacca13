package loader

import (
	"sync"

	"github.com/BaSui01/wfx/config"
	"github.com/BaSui01/wfx/internal/metrics"
	"github.com/BaSui01/wfx/types"
)

// The process-wide loader is initialized exactly once on first access;
// concurrent first accesses all observe the single winning instance.
var (
	globalOnce   sync.Once
	globalLoader *Loader
)

// Global returns the process-wide component index loader, constructing
// it from environment configuration on first access. Applications that
// want explicit ownership should build their own Loader via New and pass
// it around instead.
func Global() *Loader {
	globalOnce.Do(func() {
		cfg, err := config.NewLoader().Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		logger := cfg.Log.BuildLogger()
		collector := metrics.NewCollector("wfx", logger)
		globalLoader = New(cfg, WithLogger(logger), WithMetrics(collector))
		if err != nil {
			logger.Warn("falling back to default configuration: " + err.Error())
		}
	})
	return globalLoader
}

// LoadComponentIndex loads the component index through the process-wide
// loader.
func LoadComponentIndex() (*types.Catalog, error) {
	return Global().LoadIndex()
}

// IsDevelopmentMode reports whether the process-wide loader runs in
// development mode.
func IsDevelopmentMode() bool {
	return Global().IsDevelopmentMode()
}

// AvailableModules lists component modules through the process-wide
// loader.
func AvailableModules() []string {
	return Global().AvailableModules()
}

// AvailableCategories lists component categories through the
// process-wide loader.
func AvailableCategories() []string {
	return Global().AvailableCategories()
}
