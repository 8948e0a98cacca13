// Package wfx provides a top-level convenience entry point for the
// component index subsystem.
//
// Usage:
//
//	import "github.com/BaSui01/wfx"
//
//	catalog, err := wfx.LoadComponentIndex()
//	modules := wfx.AvailableModules()
//
// This is a thin wrapper around the loader package's process-wide
// loader; both produce identical results. Applications that prefer
// explicit ownership should construct a loader.Loader themselves and
// pass it by reference.
package wfx

import (
	"github.com/BaSui01/wfx/loader"
	"github.com/BaSui01/wfx/types"
)

// GetLoader returns the process-wide component index loader.
func GetLoader() *loader.Loader {
	return loader.Global()
}

// LoadComponentIndex loads the component index using the configured
// strategy.
func LoadComponentIndex() (*types.Catalog, error) {
	return loader.LoadComponentIndex()
}

// IsDevelopmentMode reports whether the subsystem runs in development
// mode.
var IsDevelopmentMode = loader.IsDevelopmentMode

// AvailableModules lists available component modules.
var AvailableModules = loader.AvailableModules

// AvailableCategories lists available component categories.
var AvailableCategories = loader.AvailableCategories
