package index

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category tags components are classified into.
const (
	CategoryModels       = "models"
	CategoryVectorStores = "vectorstores"
	CategoryDataSources  = "datasources"
	CategorySearch       = "search"
	CategoryTools        = "tools"
	CategoryDocuments    = "document_processing"
	CategoryEmbeddings   = "embeddings"
	CategoryCloud        = "cloud"
	CategoryCustom       = "custom"
	CategoryIntegration  = "integration"
	CategoryIoT          = "iot"
	CategoryOther        = "other"
)

// defaultCategoryTable maps known component module names to category
// tags. This is configuration data, kept in sync with the external
// component catalog by whoever adds new component packages; unknown
// modules fall through to CategoryOther.
var defaultCategoryTable = map[string]string{
	// AI/ML model providers
	"anthropic":   CategoryModels,
	"openai":      CategoryModels,
	"mistral":     CategoryModels,
	"vertexai":    CategoryModels,
	"cohere":      CategoryModels,
	"huggingface": CategoryModels,
	"nvidia":      CategoryModels,
	"ollama":      CategoryModels,
	"groq":        CategoryModels,
	"perplexity":  CategoryModels,
	"deepseek":    CategoryModels,
	"xai":         CategoryModels,
	"novita":      CategoryModels,
	"sambanova":   CategoryModels,
	"aiml":        CategoryModels,

	// Vector stores
	"faiss":    CategoryVectorStores,
	"pinecone": CategoryVectorStores,
	"weaviate": CategoryVectorStores,
	"qdrant":   CategoryVectorStores,
	"chroma":   CategoryVectorStores,
	"pgvector": CategoryVectorStores,
	"milvus":   CategoryVectorStores,
	"vectara":  CategoryVectorStores,
	"supabase": CategoryVectorStores,
	"upstash":  CategoryVectorStores,
	"redis":    CategoryVectorStores,

	// Data sources
	"notion":     CategoryDataSources,
	"confluence": CategoryDataSources,
	"wikipedia":  CategoryDataSources,
	"arxiv":      CategoryDataSources,
	"youtube":    CategoryDataSources,
	"github":     CategoryDataSources,

	// Search providers
	"duckduckgo": CategorySearch,
	"bing":       CategorySearch,
	"google":     CategorySearch,
	"serpapi":    CategorySearch,
	"tavily":     CategorySearch,
	"exa":        CategorySearch,
	"searchapi":  CategorySearch,

	// Tools and utilities
	"tools":      CategoryTools,
	"helpers":    CategoryTools,
	"processing": CategoryTools,
	"chains":     CategoryTools,
	"logic":      CategoryTools,
	"crewai":     CategoryTools,

	// Document processing
	"documentloaders": CategoryDocuments,
	"textsplitters":   CategoryDocuments,
	"unstructured":    CategoryDocuments,
	"docling":         CategoryDocuments,

	// Embeddings
	"embeddings": CategoryEmbeddings,

	// Cloud and platform
	"aws":    CategoryCloud,
	"amazon": CategoryCloud,
	"gcp":    CategoryCloud,
	"azure":  CategoryCloud,

	// Custom and other
	"custom_component": CategoryCustom,
	"composio":         CategoryIntegration,
	"homeassistant":    CategoryIoT,
}

// CategoryMap classifies component modules into categories via a static,
// case-insensitive lookup table.
type CategoryMap struct {
	entries map[string]string
}

// DefaultCategoryMap returns the built-in classification table.
func DefaultCategoryMap() *CategoryMap {
	entries := make(map[string]string, len(defaultCategoryTable))
	for module, category := range defaultCategoryTable {
		entries[module] = category
	}
	return &CategoryMap{entries: entries}
}

// Classify returns the category tag for a module name. Lookup is
// case-insensitive; unknown modules map to CategoryOther.
func (m *CategoryMap) Classify(moduleName string) string {
	if category, ok := m.entries[strings.ToLower(moduleName)]; ok {
		return category
	}
	return CategoryOther
}

// Merge overlays external module→category entries onto the table.
// Keys are lowercased; existing entries are replaced.
func (m *CategoryMap) Merge(overrides map[string]string) {
	for module, category := range overrides {
		m.entries[strings.ToLower(module)] = category
	}
}

// Len returns the number of table entries.
func (m *CategoryMap) Len() int {
	return len(m.entries)
}

// LoadCategoryOverrides reads an external module→category YAML document,
// so the table can be extended without touching scan control flow.
func LoadCategoryOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category map: %w", err)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse category map: %w", err)
	}
	return overrides, nil
}
