package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// IndexFileName is the well-known name of the persisted catalog document.
const IndexFileName = "component_index.json"

// Config holds the resolved configuration of the component index
// subsystem. Paths are resolved once at construction and never re-read.
type Config struct {
	// Dev carries the raw development-mode flag. "1"/"true" (any casing)
	// enables full-rebuild development mode; any other non-empty value is
	// parsed as a comma-separated category allow-list.
	Dev string `yaml:"dev" env:"DEV"`

	// IndexPath is the built-in catalog location bundled with the
	// installed package. Resolved relative to the executable by default.
	IndexPath string `yaml:"index_path" env:"-"`

	// IndexPathOverride replaces IndexPath when set and existing.
	// A set-but-absent override is ignored with a warning by the loader.
	IndexPathOverride string `yaml:"index_path_override" env:"COMPONENTS_INDEX_PATH"`

	// ComponentsPath is the components root directory scanned by the
	// builder.
	ComponentsPath string `yaml:"components_path" env:"COMPONENTS_PATH"`

	// CacheDir is the per-user application cache directory holding the
	// fallback catalog copy.
	CacheDir string `yaml:"cache_dir" env:"CACHE_DIR"`

	// CategoryMapPath optionally points at a YAML file extending the
	// built-in module→category table.
	CategoryMapPath string `yaml:"category_map_path" env:"CATEGORY_MAP_PATH"`

	// Log configures the zap logger.
	Log LogConfig `yaml:"log" env:"LOG"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console
	Format string `yaml:"format" env:"FORMAT"`
	// OutputPaths lists zap output sinks.
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// DefaultConfig returns the configuration defaults. Path resolution
// failures degrade to empty paths; later load attempts fail explicitly
// instead of crashing here.
func DefaultConfig() *Config {
	cfg := &Config{
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stderr"},
		},
	}

	if root, err := installRoot(); err == nil {
		cfg.IndexPath = filepath.Join(root, "_assets", IndexFileName)
		cfg.ComponentsPath = filepath.Join(root, "components")
	}

	if dir, err := os.UserCacheDir(); err == nil {
		cfg.CacheDir = filepath.Join(dir, "wfx")
	}

	return cfg
}

// installRoot resolves the installed package location the built-in index
// and components directory hang off of.
func installRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}

// DevelopmentMode reports whether any development mode is enabled.
func (c *Config) DevelopmentMode() bool {
	return strings.TrimSpace(c.Dev) != ""
}

// SelectiveCategories returns the lowercased, deduplicated category
// allow-list carried by Dev, or nil for full-rebuild development mode and
// production mode.
func (c *Config) SelectiveCategories() []string {
	v := strings.TrimSpace(c.Dev)
	if v == "" {
		return nil
	}
	switch strings.ToLower(v) {
	case "1", "true":
		return nil
	}

	seen := make(map[string]bool)
	var cats []string
	for _, part := range strings.Split(v, ",") {
		cat := strings.ToLower(strings.TrimSpace(part))
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// CachedIndexPath returns the catalog location inside the user cache
// directory, or "" when no cache directory could be resolved.
func (c *Config) CachedIndexPath() string {
	if c.CacheDir == "" {
		return ""
	}
	return filepath.Join(c.CacheDir, IndexFileName)
}

// Loader loads configuration with the precedence
// defaults → YAML file → environment variables.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{envPrefix: "WFX"}
}

// WithConfigPath sets the optional YAML configuration file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load resolves the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays values from the YAML configuration file.
// A missing file is not an error; defaults remain in effect.
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// setFieldsFromEnv recursively overlays struct fields from environment
// variables keyed by the env struct tags.
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

// setFieldValue parses an environment value into a struct field.
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// Comma-separated string slices only.
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad loads configuration and panics on failure.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
