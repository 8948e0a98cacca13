package types

import "sort"

// IndexVersion is the catalog schema version written into IndexMetadata.
const IndexVersion = "1.0"

// ModuleLevelImport is the sentinel key inside a module's dynamic-import
// declaration marking module-level (as opposed to component-level) imports.
// It is part of the on-disk contract with component packages and is never
// counted as a component.
const ModuleLevelImport = "__module__"

// ComponentKey builds the globally unique "module.name" key for a component.
func ComponentKey(module, name string) string {
	return module + "." + name
}

// IndexMetadata describes a catalog build.
type IndexMetadata struct {
	// Version is the catalog schema version.
	Version string `json:"version"`
	// GeneratedAt records when and where the catalog was built.
	GeneratedAt string `json:"generated_at"`
	// TotalComponents equals len(Catalog.Components).
	TotalComponents int `json:"total_components"`
	// TotalModules equals len(Catalog.Modules).
	TotalModules int `json:"total_modules"`
	// SelectiveModules lists the selected categories of a filtered build.
	// Empty on full builds and omitted from serialization.
	SelectiveModules []string `json:"selective_modules,omitempty"`
}

// ComponentInfo carries lightweight, best-effort component metadata
// extracted by text inspection. Inputs, Outputs and Tags are reserved
// and currently always empty, but serialized as [] for shape stability.
type ComponentInfo struct {
	Description  string   `json:"description"`
	Inputs       []string `json:"inputs"`
	Outputs      []string `json:"outputs"`
	Dependencies []string `json:"dependencies"`
	Tags         []string `json:"tags"`
}

// NewComponentInfo returns a ComponentInfo with all list fields
// initialized, so JSON serialization yields [] rather than null.
func NewComponentInfo() ComponentInfo {
	return ComponentInfo{
		Inputs:       []string{},
		Outputs:      []string{},
		Dependencies: []string{},
		Tags:         []string{},
	}
}

// ComponentDescriptor describes one discoverable component.
type ComponentDescriptor struct {
	// Module is the owning package name.
	Module string `json:"module"`
	// Name is the component identifier, unique within Module.
	Name string `json:"name"`
	// FilePath is the declared source path relative to the module
	// directory, without extension.
	FilePath string `json:"file_path"`
	// FullPath is the absolute resolved source path. Environment
	// specific, not portable across machines.
	FullPath string `json:"full_path"`
	// Category is the module's classification tag.
	Category string `json:"category"`
	// Info holds best-effort extracted metadata.
	Info ComponentInfo `json:"info"`
}

// Key returns the component's globally unique "module.name" key.
func (c ComponentDescriptor) Key() string {
	return ComponentKey(c.Module, c.Name)
}

// ModuleDescriptor describes one component package.
type ModuleDescriptor struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// DynamicImports is the raw name→path mapping as declared by the
	// package, including the ModuleLevelImport sentinel when present.
	DynamicImports map[string]string `json:"dynamic_imports"`
	// ComponentCount counts DynamicImports entries excluding the sentinel.
	ComponentCount int `json:"component_count"`
}

// Catalog is the full serializable snapshot of discoverable components,
// modules and categories. It is the unit of persistence and, once loaded,
// is treated as immutable.
type Catalog struct {
	Metadata   IndexMetadata                  `json:"metadata"`
	Components map[string]ComponentDescriptor `json:"components"`
	Modules    map[string]ModuleDescriptor    `json:"modules"`
	Categories map[string][]string            `json:"categories"`
}

// NewCatalog returns an empty catalog with all maps initialized and the
// schema version set.
func NewCatalog() *Catalog {
	return &Catalog{
		Metadata:   IndexMetadata{Version: IndexVersion},
		Components: make(map[string]ComponentDescriptor),
		Modules:    make(map[string]ModuleDescriptor),
		Categories: make(map[string][]string),
	}
}

// ComponentKeys returns all component keys in sorted order.
func (c *Catalog) ComponentKeys() []string {
	keys := make([]string, 0, len(c.Components))
	for key := range c.Components {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ModuleNames returns all module names in sorted order.
func (c *Catalog) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for name := range c.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryNames returns all category tags in sorted order.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComponentsInModule returns the component names declared by a module,
// excluding the module-level sentinel, in sorted order. Unknown modules
// yield an empty slice.
func (c *Catalog) ComponentsInModule(module string) []string {
	mod, ok := c.Modules[module]
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(mod.DynamicImports))
	for name := range mod.DynamicImports {
		if name == ModuleLevelImport {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComponentsInCategory returns the component keys bucketed under a
// category, in their recorded order. Unknown categories yield an empty
// slice.
func (c *Catalog) ComponentsInCategory(category string) []string {
	keys, ok := c.Categories[category]
	if !ok {
		return []string{}
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
