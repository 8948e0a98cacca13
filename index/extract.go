package index

import (
	"os"
	"regexp"
	"strings"

	"github.com/BaSui01/wfx/types"
)

// Convention describes the on-disk layout contract component packages
// follow. The defaults match the lazy-import descriptor convention of
// the visual platform's component packages.
type Convention struct {
	// InitializerName is the file a module directory must contain to be
	// eligible for indexing.
	InitializerName string
	// SourceExt is the implementation-file extension appended to declared
	// relative paths when resolving component sources.
	SourceExt string
	// ImportsMarker is the assignment name of the declared name→path
	// mapping inside the initializer.
	ImportsMarker string
	// ExcludedDependencies lists standard/utility import names ignored by
	// the dependency heuristic.
	ExcludedDependencies []string
}

// DefaultConvention returns the platform's component package convention.
func DefaultConvention() Convention {
	return Convention{
		InitializerName:      "__init__.py",
		SourceExt:            ".py",
		ImportsMarker:        "_dynamic_imports",
		ExcludedDependencies: []string{"typing", "os", "sys", "json", "pathlib"},
	}
}

// importDecl is one declared name→path pair, in declaration order.
type importDecl struct {
	Name string
	Path string
}

var importPairPattern = regexp.MustCompile(`"([^"]+)"\s*:\s*"([^"]*)"`)

// extractDynamicImports locates the declared import-mapping assignment
// block in initializer content and parses its quoted key/value pairs.
// This is deliberately a textual extraction, never code execution, so
// indexing can never trigger a third-party import. Declaration order is
// preserved. An empty result means no recognizable block was found.
func extractDynamicImports(content, marker string) []importDecl {
	opening := marker + " = {"

	var blockLines []string
	braceCount := 0
	inBlock := false

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)

		if !inBlock {
			if strings.HasPrefix(stripped, opening) {
				inBlock = true
				braceCount = 1
				blockLines = append(blockLines, stripped)
			}
			continue
		}

		blockLines = append(blockLines, stripped)
		braceCount += strings.Count(stripped, "{")
		braceCount -= strings.Count(stripped, "}")
		if braceCount <= 0 {
			break
		}
	}

	if len(blockLines) == 0 {
		return nil
	}

	block := strings.Join(blockLines, "\n")

	// Duplicate keys behave like repeated map assignment: the first
	// occurrence fixes the position, the last value wins.
	var decls []importDecl
	seen := make(map[string]int)
	for _, m := range importPairPattern.FindAllStringSubmatch(block, -1) {
		name, path := m[1], m[2]
		if at, ok := seen[name]; ok {
			decls[at].Path = path
			continue
		}
		seen[name] = len(decls)
		decls = append(decls, importDecl{Name: name, Path: path})
	}

	// The module-level sentinel may appear without a quoted value.
	if _, ok := seen[types.ModuleLevelImport]; !ok && strings.Contains(block, `"`+types.ModuleLevelImport+`"`) {
		decls = append(decls, importDecl{Name: types.ModuleLevelImport, Path: types.ModuleLevelImport})
	}

	return decls
}

// extractComponentInfo reads lightweight metadata out of a component
// source file by text inspection only: the docstring block following the
// matching class declaration and a coarse external-dependency signal
// from top-level import lines. Best-effort by design; missing files or
// unusual formatting yield empty-but-valid metadata, never an error.
func (c Convention) extractComponentInfo(path, componentName string) types.ComponentInfo {
	info := types.NewComponentInfo()

	data, err := os.ReadFile(path)
	if err != nil {
		return info
	}
	lines := strings.Split(string(data), "\n")

	info.Description = extractClassDocstring(lines, componentName)
	info.Dependencies = c.extractDependencies(lines)
	return info
}

// extractClassDocstring returns the first docstring-like block
// immediately following the class declaration, or "".
func extractClassDocstring(lines []string, componentName string) string {
	inClass := false
	inDocstring := false
	var quote string
	var docLines []string

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if !inClass {
			if strings.HasPrefix(stripped, "class "+componentName) {
				inClass = true
			}
			continue
		}

		if !inDocstring {
			switch {
			case strings.HasPrefix(stripped, `"""`):
				quote = `"""`
			case strings.HasPrefix(stripped, "'''"):
				quote = "'''"
			default:
				continue
			}
			if len(stripped) > len(quote) && strings.HasSuffix(stripped, quote) {
				// Single-line docstring.
				return strings.TrimSpace(strings.Trim(stripped, `"'`))
			}
			inDocstring = true
			if rest := strings.TrimSpace(stripped[len(quote):]); rest != "" {
				docLines = append(docLines, rest)
			}
			continue
		}

		if strings.HasSuffix(stripped, quote) {
			if rest := strings.TrimSpace(strings.TrimSuffix(stripped, quote)); rest != "" {
				docLines = append(docLines, rest)
			}
			return strings.TrimSpace(strings.Join(docLines, "\n"))
		}
		docLines = append(docLines, line)
	}

	return ""
}

// extractDependencies collects the top-level import targets of a source
// file, excluding the convention's standard/utility names. Used as a
// coarse "external dependency" signal only.
func (c Convention) extractDependencies(lines []string) []string {
	excluded := make(map[string]bool, len(c.ExcludedDependencies))
	for _, name := range c.ExcludedDependencies {
		excluded[name] = true
	}

	deps := []string{}
	seen := make(map[string]bool)
	add := func(pkg string) {
		pkg = strings.SplitN(pkg, ".", 2)[0]
		if pkg == "" || excluded[pkg] || seen[pkg] {
			return
		}
		seen[pkg] = true
		deps = append(deps, pkg)
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "from "):
			fields := strings.Fields(strings.TrimPrefix(stripped, "from "))
			if len(fields) > 0 && !strings.HasPrefix(fields[0], ".") {
				add(fields[0])
			}
		case strings.HasPrefix(stripped, "import "):
			fields := strings.Fields(strings.TrimPrefix(stripped, "import "))
			if len(fields) > 0 {
				add(fields[0])
			}
		}
	}

	return deps
}
