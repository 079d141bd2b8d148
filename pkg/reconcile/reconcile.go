// Package reconcile classifies the relationship between imported and
// declared dependencies into undeclared and unused sets.
package reconcile

import (
	"sort"

	"github.com/depscout/depscout/pkg/resolve"
)

// Options adjusts classification without affecting the input sets.
type Options struct {
	// IgnoreUndeclared lists import identifiers never reported as undeclared.
	IgnoreUndeclared []string
	// IgnoreUnused lists declared names never reported as unused.
	IgnoreUnused []string
}

// Result is the reconciliation output. Each field is a deduplicated,
// sorted set; sorting keeps serialization deterministic but callers
// must not rely on order.
type Result struct {
	Imports        []string `json:"imports"`
	DeclaredDeps   []string `json:"declared_deps"`
	UndeclaredDeps []string `json:"undeclared_deps"`
	UnusedDeps     []string `json:"unused_deps"`
}

// Reconcile is a pure function of the extracted imports, the declared
// dependency names and the provides table. It never fails: empty inputs
// yield an empty (but valid) result.
//
// An import is undeclared when no declared dependency provides it. A
// declared dependency is unused when none of the import identifiers it
// provides are imported. Both checks are existential, so an ambiguous
// import claimed by several declared packages is satisfied as soon as
// any one of them is declared.
func Reconcile(imports, declared []string, table *resolve.Table, opts Options) Result {
	if table == nil {
		table = resolve.Empty()
	}

	importSet := dedupe(imports)
	declaredSet := dedupeDeclared(declared)

	// Union of import identifiers provided by the declared set.
	provided := make(map[string]bool)
	for _, dep := range declaredSet {
		for _, imp := range table.Provides(dep) {
			provided[imp] = true
		}
	}

	skipUndeclared := toSet(opts.IgnoreUndeclared)
	skipUnused := make(map[string]bool, len(opts.IgnoreUnused))
	for _, name := range opts.IgnoreUnused {
		skipUnused[resolve.Normalize(name)] = true
	}

	undeclared := make([]string, 0)
	for _, imp := range importSet {
		if provided[imp] || skipUndeclared[imp] {
			continue
		}
		undeclared = append(undeclared, imp)
	}

	imported := toSet(importSet)
	unused := make([]string, 0)
	for _, dep := range declaredSet {
		if skipUnused[resolve.Normalize(dep)] {
			continue
		}
		used := false
		for _, imp := range table.Provides(dep) {
			if imported[imp] {
				used = true
				break
			}
		}
		if !used {
			unused = append(unused, dep)
		}
	}

	sort.Strings(undeclared)
	sort.Strings(unused)
	return Result{
		Imports:        importSet,
		DeclaredDeps:   declaredSet,
		UndeclaredDeps: undeclared,
		UnusedDeps:     unused,
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// dedupeDeclared removes duplicates under PEP 503 normalization while
// keeping the first-seen spelling, so the output reflects the manifests.
func dedupeDeclared(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		key := resolve.Normalize(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
