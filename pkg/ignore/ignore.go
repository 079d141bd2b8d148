// Package ignore provides gitignore-based file filtering using go-git
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher provides gitignore-based file filtering rooted at a project
// directory.
type Matcher struct {
	root    string
	matcher gitignore.Matcher
}

// Default patterns that never contain project code or manifests worth
// analyzing. Virtualenvs in particular would otherwise flood the
// import set with every installed package's own sources.
var defaultPatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"__pycache__/",
	"*.egg-info/",
	".tox/",
	".nox/",
	".venv/",
	"venv/",
	"env/",
	".mypy_cache/",
	".pytest_cache/",
	"node_modules/",
	"build/",
	"dist/",
}

// NewMatcher creates a matcher with layered ignore files:
// 1. built-in defaults (venvs, caches, VCS internals)
// 2. .gitignore and related git ignore files
// 3. .depscoutignore (project overrides)
func NewMatcher(root string) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fs := osfs.New(abs)

	var patterns []gitignore.Pattern
	for _, pattern := range defaultPatterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	// ReadPatterns with nil reads .gitignore files across the tree,
	// plus .git/info/exclude when present.
	if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}

	if extra, err := readIgnoreFile(filepath.Join(abs, ".depscoutignore")); err == nil {
		for _, pattern := range extra {
			patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
		}
	}

	return &Matcher{
		root:    abs,
		matcher: gitignore.NewMatcher(patterns),
	}, nil
}

// readIgnoreFile reads patterns from a .depscoutignore-style text file
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is rooted at the project being analyzed
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored checks if a file path should be ignored
func (m *Matcher) IsIgnored(path string) bool {
	return m.match(path, false)
}

// IsIgnoredDir checks if a directory should be ignored (and thus skipped during traversal)
func (m *Matcher) IsIgnoredDir(path string) bool {
	return m.match(path, true)
}

func (m *Matcher) match(path string, isDir bool) bool {
	// Patterns are anchored at the matcher root, so the path must be
	// made root-relative first. A relative path (the walk of a relative
	// target) still carries the target's own directory name; matching it
	// as-is would let a project checked out as "env" or "build" swallow
	// itself.
	abs := path
	if !filepath.IsAbs(abs) {
		resolved, err := filepath.Abs(abs)
		if err != nil {
			return false
		}
		abs = resolved
	}
	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	parts := splitPath(filepath.ToSlash(rel))
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	path = strings.TrimPrefix(path, "/")

	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
