package index

import (
	"go.uber.org/zap"

	"github.com/BaSui01/wfx/types"
)

// Validate checks the structural integrity of a catalog: the required
// top-level sections must be present and every component must reference
// a known module. It fails closed, returning false and logging the
// specific violation, so callers decide whether to discard the catalog.
//
// This is a sanity check, not a full schema validation; it does not
// verify that declared file paths resolve to existing files.
func Validate(catalog *types.Catalog, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "index_validator"))

	if catalog == nil {
		logger.Error("catalog is nil")
		return false
	}
	if catalog.Components == nil {
		logger.Error("missing required section", zap.String("section", "components"))
		return false
	}
	if catalog.Modules == nil {
		logger.Error("missing required section", zap.String("section", "modules"))
		return false
	}
	if catalog.Categories == nil {
		logger.Error("missing required section", zap.String("section", "categories"))
		return false
	}
	if catalog.Metadata.Version == "" {
		logger.Error("missing required section", zap.String("section", "metadata"))
		return false
	}

	for key, component := range catalog.Components {
		if _, ok := catalog.Modules[component.Module]; !ok {
			logger.Error("component references unknown module",
				zap.String("key", key),
				zap.String("module", component.Module))
			return false
		}
	}

	return true
}
