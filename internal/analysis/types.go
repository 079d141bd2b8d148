package analysis

import (
	"time"

	"github.com/depscout/depscout/pkg/manifests"
	"github.com/depscout/depscout/pkg/pyimports"
	"github.com/depscout/depscout/pkg/reconcile"
	"github.com/depscout/depscout/pkg/resolve"
)

// Options configures a single analysis run.
type Options struct {
	// CodeRoot is the directory whose sources are scanned for imports.
	CodeRoot string
	// DepsRoot is the directory searched for manifests. Empty means
	// CodeRoot.
	DepsRoot string
	// Include globs select source files, relative to CodeRoot.
	// Empty means "**/*.py".
	Include []string
	// Table resolves declared names to import names. Nil means the
	// built-in table of well-known mismatches.
	Table *resolve.Table
	// IgnoreUndeclared / IgnoreUnused suppress names from the
	// corresponding result set.
	IgnoreUndeclared []string
	IgnoreUnused     []string
	// Detail includes per-import and per-declaration provenance in the
	// report.
	Detail bool
	// Concurrency caps extraction workers; 0 derives a count from
	// ConcurrencyPercent of the CPU cores (default 50%).
	Concurrency        int
	ConcurrencyPercent int
}

// UnitError is a recovered per-file or per-manifest failure. The unit
// is excluded from the aggregate result and the batch continues.
type UnitError struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"` // "source" or "manifest"
	Error string `json:"error"`
}

// Metadata describes the analysis run.
type Metadata struct {
	Tool        string        `json:"tool"`
	Version     string        `json:"version"`
	GeneratedAt time.Time     `json:"generated_at"`
	CodeRoot    string        `json:"code_root"`
	DepsRoot    string        `json:"deps_root"`
	Duration    time.Duration `json:"duration"`
	SourceFiles int           `json:"source_files"`
	Manifests   int           `json:"manifests"`
}

// Report is the full analysis output. The embedded reconciliation
// result carries the stable contract fields (imports, declared_deps,
// undeclared_deps, unused_deps).
type Report struct {
	reconcile.Result

	ImportDetail   []pyimports.Import   `json:"import_detail,omitempty"`
	DeclaredDetail []manifests.Declared `json:"declared_detail,omitempty"`

	Errors   []UnitError `json:"errors"`
	Metadata Metadata    `json:"metadata"`
}
