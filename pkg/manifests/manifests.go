// Package manifests parses declared dependencies out of the manifest
// dialects used by the Python packaging ecosystem: requirements files,
// pyproject.toml (PEP 621 and Poetry), setup.cfg and setup.py.
package manifests

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Declared is one package name declared in a manifest, with provenance
// for diagnostics. Line is zero when the dialect has no usable line
// information (TOML, setup.py keywords).
type Declared struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Line int    `json:"line,omitempty"`
}

// Dialect identifies a supported manifest format.
type Dialect string

const (
	DialectRequirements Dialect = "requirements"
	DialectPyproject    Dialect = "pyproject"
	DialectSetupCfg     Dialect = "setup.cfg"
	DialectSetupPy      Dialect = "setup.py"
)

// ParseError reports a manifest that could not be parsed. One failing
// manifest never aborts the others.
type ParseError struct {
	Path    string
	Dialect Dialect
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s manifest %s: %v", e.Dialect, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DetectDialect infers the manifest dialect from the file name.
// Requirements files match the common naming conventions
// (requirements.txt, requirements-dev.txt, dev-requirements.txt, ...).
func DetectDialect(path string) (Dialect, bool) {
	base := strings.ToLower(filepath.Base(path))
	switch base {
	case "pyproject.toml":
		return DialectPyproject, true
	case "setup.cfg":
		return DialectSetupCfg, true
	case "setup.py":
		return DialectSetupPy, true
	}
	if strings.HasSuffix(base, ".txt") && strings.Contains(base, "requirements") {
		return DialectRequirements, true
	}
	if strings.HasSuffix(base, ".in") && strings.Contains(base, "requirements") {
		return DialectRequirements, true
	}
	return "", false
}

// Parse dispatches to the dialect parser. Unknown dialects are an
// error recorded against the manifest.
func Parse(dialect Dialect, path string, text []byte) ([]Declared, error) {
	switch dialect {
	case DialectRequirements:
		return ParseRequirements(path, text)
	case DialectPyproject:
		return ParsePyproject(path, text)
	case DialectSetupCfg:
		return ParseSetupCfg(path, text)
	case DialectSetupPy:
		return ParseSetupPy(path, text)
	default:
		return nil, &ParseError{Path: path, Dialect: dialect, Err: fmt.Errorf("unsupported dialect")}
	}
}

// Names collapses declarations into the deduplicated list of names, in
// first-seen order.
func Names(declared []Declared) []string {
	seen := make(map[string]bool, len(declared))
	out := make([]string, 0, len(declared))
	for _, dep := range declared {
		if seen[dep.Name] {
			continue
		}
		seen[dep.Name] = true
		out = append(out, dep.Name)
	}
	return out
}

// PEP 508 distribution name: letters, digits and ._- separators, with
// alphanumeric ends.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// requirementName extracts the bare package name from a PEP 508
// requirement string, stripping extras, version specifiers, URL
// references and environment markers:
//
//	requests[security]>=2.8.1,==2.8.* ; python_version < "3.11"
//
// yields "requests". An empty result means the line declares nothing
// (or is not a name-based requirement).
func requirementName(spec string) (string, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return "", nil
	}

	// Environment marker.
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	// Direct URL reference: name @ https://...
	if i := strings.Index(s, "@"); i >= 0 {
		s = s[:i]
	}
	// Extras.
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	// Version specifiers and whitespace terminate the name.
	if i := strings.IndexAny(s, "=<>!~ \t("); i >= 0 {
		s = s[:i]
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !namePattern.MatchString(s) {
		return "", fmt.Errorf("invalid requirement name %q", spec)
	}
	return s, nil
}
