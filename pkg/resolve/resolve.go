// Package resolve maps declared package names to the import identifiers
// they provide. Most packages expose an import name equal to their own
// (normalized) name; a static table covers the well-known exceptions
// such as "pillow" providing PIL.
package resolve

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var separatorRuns = regexp.MustCompile(`[-_.]+`)

// Normalize canonicalizes a declared package name per PEP 503:
// lowercase, with runs of "-", "_" and "." collapsed to a single "-".
func Normalize(name string) string {
	return separatorRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// ImportForm returns the identity-fallback import identifier for a
// declared name. Import identifiers cannot contain hyphens, so the
// normalized name's separators become underscores.
func ImportForm(name string) string {
	return strings.ReplaceAll(Normalize(name), "-", "_")
}

// Table is the provides mapping: normalized declared name to the set of
// import identifiers it exposes. Declared names without an entry fall
// back to their ImportForm.
type Table struct {
	entries map[string][]string
}

// knownMismatches covers distributions whose import name differs from
// the distribution name. Import identifiers are case-sensitive.
var knownMismatches = map[string][]string{
	"attrs":                    {"attr", "attrs"},
	"beautifulsoup4":           {"bs4"},
	"google-api-python-client": {"googleapiclient", "apiclient"},
	"msgpack-python":           {"msgpack"},
	"mysqlclient":              {"MySQLdb"},
	"opencv-contrib-python":    {"cv2"},
	"opencv-python":            {"cv2"},
	"pillow":                   {"PIL"},
	"protobuf":                 {"google"},
	"psycopg2-binary":          {"psycopg2"},
	"pycryptodome":             {"Crypto"},
	"pymongo":                  {"pymongo", "bson", "gridfs"},
	"python-dateutil":          {"dateutil"},
	"python-memcached":         {"memcache"},
	"pyyaml":                   {"yaml"},
	"scikit-fuzzy":             {"skfuzzy"},
	"scikit-image":             {"skimage"},
	"scikit-learn":             {"sklearn"},
	"setuptools":               {"setuptools", "pkg_resources"},
}

// NewTable returns a table seeded with the well-known mismatches.
func NewTable() *Table {
	t := Empty()
	for name, imports := range knownMismatches {
		t.Add(name, imports...)
	}
	return t
}

// Empty returns a table with no entries, so every declared name
// resolves via the identity fallback.
func Empty() *Table {
	return &Table{entries: make(map[string][]string)}
}

// Add records that declared provides the given import identifiers.
// Adding accumulates: one distribution may expose several import names.
func (t *Table) Add(declared string, imports ...string) {
	key := Normalize(declared)
	seen := make(map[string]bool, len(t.entries[key]))
	for _, imp := range t.entries[key] {
		seen[imp] = true
	}
	for _, imp := range imports {
		if imp == "" || seen[imp] {
			continue
		}
		t.entries[key] = append(t.entries[key], imp)
		seen[imp] = true
	}
}

// Provides returns the import identifiers exposed by declared. A table
// entry wins over the identity fallback; without one, the declared name
// provides exactly its ImportForm.
func (t *Table) Provides(declared string) []string {
	if imports, ok := t.entries[Normalize(declared)]; ok && len(imports) > 0 {
		out := make([]string, len(imports))
		copy(out, imports)
		return out
	}
	return []string{ImportForm(declared)}
}

// HasEntry reports whether declared has an explicit table entry.
func (t *Table) HasEntry(declared string) bool {
	imports, ok := t.entries[Normalize(declared)]
	return ok && len(imports) > 0
}

// Len returns the number of explicit entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Merge copies all entries from other into t.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for declared, imports := range other.entries {
		t.Add(declared, imports...)
	}
}

// LoadYAML reads extra mapping entries from r. The document is a flat
// map from declared name to either a single import name or a list:
//
//	pillow: PIL
//	pymongo: [pymongo, bson, gridfs]
func LoadYAML(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}

	t := Empty()
	for declared, value := range raw {
		switch v := value.(type) {
		case string:
			t.Add(declared, v)
		case []interface{}:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("mapping entry %q: import names must be strings, got %T", declared, item)
				}
				t.Add(declared, s)
			}
		default:
			return nil, fmt.Errorf("mapping entry %q: expected string or list, got %T", declared, value)
		}
	}
	return t, nil
}
