// wfx-index builds, validates and inspects the static component index.
//
// Usage:
//
//	wfx-index build --components ./components --out ./_assets/component_index.json
//	wfx-index validate --index ./_assets/component_index.json
//	wfx-index show --index ./_assets/component_index.json
//	wfx-index version
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/BaSui01/wfx/config"
	"github.com/BaSui01/wfx/index"
	"github.com/BaSui01/wfx/internal/metrics"
	"github.com/BaSui01/wfx/types"
)

// Version information injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		runBuild(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "show":
		runShow(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	componentsPath := fs.String("components", "", "components root directory (default from config)")
	outPath := fs.String("out", "", "output index path (default from config)")
	categoryMap := fs.String("category-map", "", "YAML file extending the module→category table")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	_ = fs.Parse(args)

	cfg := config.MustLoad()
	cfg.Log.Level = *logLevel
	logger := cfg.Log.BuildLogger()
	defer func() { _ = logger.Sync() }()

	if *componentsPath == "" {
		*componentsPath = cfg.ComponentsPath
	}
	if *outPath == "" {
		*outPath = cfg.IndexPath
	}
	if *componentsPath == "" || *outPath == "" {
		logger.Fatal("components and output paths must be set via flags or configuration")
	}

	collector := metrics.NewCollector("wfx", logger)
	opts := []index.Option{
		index.WithLogger(logger),
		index.WithMetrics(collector),
	}
	if *categoryMap != "" {
		overrides, err := index.LoadCategoryOverrides(*categoryMap)
		if err != nil {
			logger.Fatal("failed to load category map", zap.Error(err))
		}
		categories := index.DefaultCategoryMap()
		categories.Merge(overrides)
		opts = append(opts, index.WithCategoryMap(categories))
	}

	builder, err := index.NewBuilder(*componentsPath, opts...)
	if err != nil {
		logger.Fatal("failed to create builder", zap.Error(err))
	}

	catalog, err := builder.Scan()
	if err != nil {
		logger.Fatal("scan failed", zap.Error(err))
	}

	if !index.Validate(catalog, logger) {
		logger.Fatal("index validation failed")
	}

	if err := index.NewStore(logger).Save(catalog, *outPath); err != nil {
		logger.Fatal("failed to save index", zap.Error(err))
	}

	fmt.Printf("Component index saved to %s (%d components, %d modules)\n",
		*outPath, catalog.Metadata.TotalComponents, catalog.Metadata.TotalModules)
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	indexPath := fs.String("index", "", "index file to validate (default from config)")
	_ = fs.Parse(args)

	cfg := config.MustLoad()
	logger := cfg.Log.BuildLogger()
	defer func() { _ = logger.Sync() }()

	if *indexPath == "" {
		*indexPath = cfg.IndexPath
	}

	catalog, err := index.NewStore(logger).Load(*indexPath)
	if err != nil {
		logger.Fatal("failed to load index", zap.Error(err))
	}

	if !index.Validate(catalog, logger) {
		fmt.Println("Index validation FAILED")
		os.Exit(1)
	}
	fmt.Printf("Index valid: %d components, %d modules, %d categories\n",
		catalog.Metadata.TotalComponents,
		catalog.Metadata.TotalModules,
		len(catalog.Categories))
}

func runShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	indexPath := fs.String("index", "", "index file to inspect (default from config)")
	category := fs.String("category", "", "only show components in this category")
	_ = fs.Parse(args)

	cfg := config.MustLoad()
	logger := cfg.Log.BuildLogger()
	defer func() { _ = logger.Sync() }()

	if *indexPath == "" {
		*indexPath = cfg.IndexPath
	}

	catalog, err := index.NewStore(logger).Load(*indexPath)
	if err != nil {
		logger.Fatal("failed to load index", zap.Error(err))
	}

	fmt.Printf("Version:    %s\n", catalog.Metadata.Version)
	fmt.Printf("Generated:  %s\n", catalog.Metadata.GeneratedAt)
	fmt.Printf("Components: %d\n", catalog.Metadata.TotalComponents)
	fmt.Printf("Modules:    %d\n\n", catalog.Metadata.TotalModules)

	if *category != "" {
		printCategory(catalog, *category)
		return
	}
	for _, name := range catalog.CategoryNames() {
		printCategory(catalog, name)
	}
}

func printCategory(catalog *types.Catalog, category string) {
	fmt.Printf("[%s]\n", category)
	for _, key := range catalog.ComponentsInCategory(category) {
		component := catalog.Components[key]
		desc := component.Info.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Printf("  %-40s %s\n", key, desc)
	}
	fmt.Println()
}

func printVersion() {
	fmt.Printf("wfx-index %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
}

func printUsage() {
	fmt.Println(`wfx-index - WFX component index tool

Usage:
  wfx-index build [--components DIR] [--out FILE] [--category-map FILE]
  wfx-index validate [--index FILE]
  wfx-index show [--index FILE] [--category NAME]
  wfx-index version

Configuration may also come from WFX_* environment variables; flags win.`)
}
