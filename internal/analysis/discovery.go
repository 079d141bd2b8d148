package analysis

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/depscout/depscout/pkg/ignore"
	"github.com/depscout/depscout/pkg/manifests"
)

// discoverSources walks root and returns the source files matched by
// the include globs, honoring the layered ignore rules.
func discoverSources(root string, include []string, matcher *ignore.Matcher) ([]string, error) {
	if len(include) == 0 {
		include = []string{"**/*.py"}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && matcher.IsIgnoredDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.IsIgnored(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range include {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// manifestInfo is a discovered manifest with its detected dialect.
type manifestInfo struct {
	path    string
	dialect manifests.Dialect
}

// discoverManifests walks root and returns every file whose name
// matches a supported manifest dialect.
func discoverManifests(root string, matcher *ignore.Matcher) ([]manifestInfo, error) {
	var found []manifestInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && matcher.IsIgnoredDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.IsIgnored(path) {
			return nil
		}
		if dialect, ok := manifests.DetectDialect(path); ok {
			found = append(found, manifestInfo{path: path, dialect: dialect})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// firstPartyModules returns the project's own top-level module names:
// .py files and packages (directories with __init__.py) at the code
// root and under the conventional src/ layout. Imports of these are
// never third-party dependencies.
func firstPartyModules(root string) map[string]bool {
	modules := make(map[string]bool)
	for _, dir := range []string{root, filepath.Join(root, "src")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				if _, err := os.Stat(filepath.Join(dir, name, "__init__.py")); err == nil {
					modules[name] = true
				}
				continue
			}
			if strings.HasSuffix(name, ".py") {
				modules[strings.TrimSuffix(name, ".py")] = true
			}
		}
	}
	return modules
}
