// Package pyimports extracts top-level import identifiers from Python
// source files using Tree-sitter.
package pyimports

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Import is one import reference found in a source file, with enough
// provenance for diagnostics.
type Import struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Line int    `json:"line"`
}

// ParseError reports a source file that could not be parsed. The caller
// is expected to exclude the file and continue the batch.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: invalid syntax", e.Path)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extractor parses Python sources. It is not safe for concurrent use;
// create one per worker.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates an extractor backed by the Python grammar.
func NewExtractor() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Extractor{parser: parser}
}

// Extract returns every import referenced by src, wherever it appears:
// module level, inside functions, or in try/except fallbacks. Syntactic
// presence governs inclusion, not runtime reachability. Only the
// outermost package component of a dotted import is retained, so
// "import a.b.c" yields "a". Relative imports are skipped since they
// can only refer to the project itself.
func (e *Extractor) Extract(ctx context.Context, path string, src []byte) ([]Import, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path}
	}

	var imports []Import
	e.walk(root, path, src, &imports)
	return imports, nil
}

func (e *Extractor) walk(node *sitter.Node, path string, src []byte, imports *[]Import) {
	switch node.Type() {
	case "import_statement":
		// import a.b.c [as x], d
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			target := child
			if child.Type() == "aliased_import" {
				target = child.ChildByFieldName("name")
			}
			e.record(target, path, src, imports)
		}
		return

	case "import_from_statement", "future_import_statement":
		// from a.b import c — only the module part matters here.
		module := node.ChildByFieldName("module_name")
		if module != nil && module.Type() != "relative_import" {
			e.record(module, path, src, imports)
		}
		return
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		e.walk(node.NamedChild(i), path, src, imports)
	}
}

func (e *Extractor) record(node *sitter.Node, path string, src []byte, imports *[]Import) {
	if node == nil || node.Type() != "dotted_name" {
		return
	}
	name := TopLevel(string(src[node.StartByte():node.EndByte()]))
	if name == "" {
		return
	}
	*imports = append(*imports, Import{
		Name: name,
		Path: path,
		Line: int(node.StartPoint().Row) + 1,
	})
}

// TopLevel returns the outermost package component of a dotted module
// path: "a.b.c" yields "a".
func TopLevel(module string) string {
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}

// Names collapses imports into the deduplicated set of identifiers.
func Names(imports []Import) []string {
	seen := make(map[string]bool, len(imports))
	out := make([]string, 0, len(imports))
	for _, imp := range imports {
		if seen[imp.Name] {
			continue
		}
		seen[imp.Name] = true
		out = append(out, imp.Name)
	}
	return out
}
