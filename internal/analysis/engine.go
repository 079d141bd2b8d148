// Package analysis orchestrates import extraction and manifest parsing
// across a project tree and reconciles the results.
package analysis

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/depscout/depscout/pkg/buildinfo"
	"github.com/depscout/depscout/pkg/ignore"
	"github.com/depscout/depscout/pkg/logger"
	"github.com/depscout/depscout/pkg/manifests"
	"github.com/depscout/depscout/pkg/pyimports"
	"github.com/depscout/depscout/pkg/reconcile"
	"github.com/depscout/depscout/pkg/resolve"
)

// Engine runs one analysis per call and holds no state across runs.
type Engine struct{}

// NewEngine creates an analysis engine.
func NewEngine() *Engine {
	return &Engine{}
}

// fileResult is the tagged outcome of one extraction unit. The merge
// step folds successes into the import set and collects failures for
// reporting; a failing file never poisons the batch.
type fileResult struct {
	path    string
	imports []pyimports.Import
	err     error
}

// Run analyzes the project configured in opts.
func (e *Engine) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()

	codeRoot := opts.CodeRoot
	if codeRoot == "" {
		codeRoot = "."
	}
	depsRoot := opts.DepsRoot
	if depsRoot == "" {
		depsRoot = codeRoot
	}

	codeMatcher, err := ignore.NewMatcher(codeRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to build ignore matcher for %s: %w", codeRoot, err)
	}
	depsMatcher := codeMatcher
	if depsRoot != codeRoot {
		if depsMatcher, err = ignore.NewMatcher(depsRoot); err != nil {
			return nil, fmt.Errorf("failed to build ignore matcher for %s: %w", depsRoot, err)
		}
	}

	sources, err := discoverSources(codeRoot, opts.Include, codeMatcher)
	if err != nil {
		return nil, fmt.Errorf("failed to discover sources in %s: %w", codeRoot, err)
	}
	found, err := discoverManifests(depsRoot, depsMatcher)
	if err != nil {
		return nil, fmt.Errorf("failed to discover manifests in %s: %w", depsRoot, err)
	}

	table := opts.Table
	if table == nil {
		table = resolve.NewTable()
	}

	workers := workerCount(opts)
	logger.Info("starting analysis",
		logger.String("code", codeRoot),
		logger.String("deps", depsRoot),
		logger.Int("sources", len(sources)),
		logger.Int("manifests", len(found)),
		logger.Int("mappings", table.Len()),
		logger.Int("workers", workers))

	var unitErrors []UnitError

	// Extraction and manifest parsing run over disjoint inputs; each
	// unit is independent and results merge by set union, so ordering
	// is irrelevant.
	allImports, importErrors := e.extractAll(ctx, sources, workers)
	unitErrors = append(unitErrors, importErrors...)

	allDeclared, manifestErrors := e.parseManifests(ctx, found)
	unitErrors = append(unitErrors, manifestErrors...)

	firstParty := firstPartyModules(codeRoot)
	var thirdParty []pyimports.Import
	for _, imp := range allImports {
		if pyimports.IsStdlib(imp.Name) || firstParty[imp.Name] {
			continue
		}
		thirdParty = append(thirdParty, imp)
	}

	result := reconcile.Reconcile(
		pyimports.Names(thirdParty),
		manifests.Names(allDeclared),
		table,
		reconcile.Options{
			IgnoreUndeclared: opts.IgnoreUndeclared,
			IgnoreUnused:     opts.IgnoreUnused,
		},
	)

	report := &Report{
		Result: result,
		Errors: unitErrors,
		Metadata: Metadata{
			Tool:        "depscout",
			Version:     buildinfo.BinaryVersion,
			GeneratedAt: time.Now().UTC(),
			CodeRoot:    codeRoot,
			DepsRoot:    depsRoot,
			Duration:    time.Since(start),
			SourceFiles: len(sources),
			Manifests:   len(found),
		},
	}
	if report.Errors == nil {
		report.Errors = []UnitError{}
	}
	if opts.Detail {
		report.ImportDetail = thirdParty
		report.DeclaredDetail = allDeclared
	}

	logger.Info("analysis complete",
		logger.Int("imports", len(result.Imports)),
		logger.Int("declared", len(result.DeclaredDeps)),
		logger.Int("undeclared", len(result.UndeclaredDeps)),
		logger.Int("unused", len(result.UnusedDeps)),
		logger.Int("errors", len(unitErrors)))

	return report, nil
}

// extractAll fans source files out to a fixed pool of workers, each
// owning its own parser, and merges the tagged outcomes.
func (e *Engine) extractAll(ctx context.Context, sources []string, workers int) ([]pyimports.Import, []UnitError) {
	if len(sources) == 0 {
		return nil, nil
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	work := make(chan string, len(sources))
	results := make(chan fileResult, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			extractor := pyimports.NewExtractor()
			for path := range work {
				src, err := os.ReadFile(path) // #nosec G304 -- paths come from the walked project tree
				if err != nil {
					results <- fileResult{path: path, err: err}
					continue
				}
				imports, err := extractor.Extract(ctx, path, src)
				results <- fileResult{path: path, imports: imports, err: err}
			}
		}()
	}

	for _, path := range sources {
		work <- path
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []pyimports.Import
	var errors []UnitError
	for result := range results {
		if result.err != nil {
			logger.Warn("skipping unreadable source file",
				logger.String("path", result.path), logger.Err(result.err))
			errors = append(errors, UnitError{Path: result.path, Kind: "source", Error: result.err.Error()})
			continue
		}
		merged = append(merged, result.imports...)
	}

	sortErrors(errors)
	return merged, errors
}

// parseManifests parses each manifest independently; a failure is
// recorded and the rest still contribute to the declared set.
func (e *Engine) parseManifests(ctx context.Context, found []manifestInfo) ([]manifests.Declared, []UnitError) {
	if len(found) == 0 {
		return nil, nil
	}

	declared := make([][]manifests.Declared, len(found))
	failures := make([]*UnitError, len(found))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, info := range found {
		i, info := i, info
		g.Go(func() error {
			text, err := os.ReadFile(info.path) // #nosec G304 -- paths come from the walked project tree
			if err == nil {
				declared[i], err = manifests.Parse(info.dialect, info.path, text)
			}
			if err != nil {
				logger.Warn("skipping unparseable manifest",
					logger.String("path", info.path), logger.Err(err))
				failures[i] = &UnitError{Path: info.path, Kind: "manifest", Error: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait() // workers only report per-unit failures

	var merged []manifests.Declared
	var errors []UnitError
	for i := range found {
		if failures[i] != nil {
			errors = append(errors, *failures[i])
			continue
		}
		merged = append(merged, declared[i]...)
	}
	return merged, errors
}

func workerCount(opts Options) int {
	if opts.Concurrency > 0 {
		return opts.Concurrency
	}
	percent := opts.ConcurrencyPercent
	if percent <= 0 {
		percent = 50
	}
	workers := (runtime.NumCPU() * percent) / 100
	if workers < 1 {
		workers = 1
	}
	return workers
}

func sortErrors(errors []UnitError) {
	sort.Slice(errors, func(i, j int) bool { return errors[i].Path < errors[j].Path })
}
