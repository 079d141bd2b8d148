package manifests

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/depscout/depscout/pkg/logger"
)

// dependency keywords of the setuptools setup() call
var setupKeywords = map[string]bool{
	"install_requires": true,
	"setup_requires":   true,
	"tests_require":    true,
}

// ParseSetupPy extracts declared dependencies from a setup.py by
// locating the outermost setup(...) call and reading the string
// literals of its install_requires / setup_requires / tests_require
// lists and extras_require dict. Keywords whose value is not a literal
// (a variable, a function call) cannot be resolved without executing
// the file; they are logged and skipped while the rest of the call is
// still used.
func ParseSetupPy(path string, text []byte) ([]Declared, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, text)
	if err != nil {
		return nil, &ParseError{Path: path, Dialect: DialectSetupPy, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path, Dialect: DialectSetupPy, Err: fmt.Errorf("invalid syntax")}
	}

	setupCall := findSetupCall(root, text)
	if setupCall == nil {
		return nil, nil
	}

	args := setupCall.ChildByFieldName("arguments")
	if args == nil {
		return nil, nil
	}

	var declared []Declared
	for i := 0; i < int(args.NamedChildCount()); i++ {
		kw := args.NamedChild(i)
		if kw.Type() != "keyword_argument" {
			continue
		}
		nameNode := kw.ChildByFieldName("name")
		valueNode := kw.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			continue
		}
		keyword := string(text[nameNode.StartByte():nameNode.EndByte()])

		switch {
		case setupKeywords[keyword]:
			deps, err := literalList(valueNode, path, text)
			if err != nil {
				logger.Warn("skipping non-literal setup.py keyword",
					logger.String("path", path), logger.String("keyword", keyword))
				continue
			}
			declared = append(declared, deps...)

		case keyword == "extras_require":
			if valueNode.Type() != "dictionary" {
				logger.Warn("skipping non-literal setup.py keyword",
					logger.String("path", path), logger.String("keyword", keyword))
				continue
			}
			for j := 0; j < int(valueNode.NamedChildCount()); j++ {
				pair := valueNode.NamedChild(j)
				if pair.Type() != "pair" {
					continue
				}
				deps, err := literalList(pair.ChildByFieldName("value"), path, text)
				if err != nil {
					logger.Warn("skipping non-literal extras_require entry",
						logger.String("path", path))
					continue
				}
				declared = append(declared, deps...)
			}
		}
	}

	return declared, nil
}

// findSetupCall returns the first call to a function named setup.
func findSetupCall(node *sitter.Node, text []byte) *sitter.Node {
	if node.Type() == "call" {
		fn := node.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" && string(text[fn.StartByte():fn.EndByte()]) == "setup" {
			return node
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := findSetupCall(node.NamedChild(i), text); found != nil {
			return found
		}
	}
	return nil
}

// literalList extracts requirement names from a list or tuple of string
// literals. Anything else is a resolution failure for the caller to
// recover from.
func literalList(node *sitter.Node, path string, text []byte) ([]Declared, error) {
	if node == nil {
		return nil, fmt.Errorf("missing value")
	}
	if node.Type() != "list" && node.Type() != "tuple" {
		return nil, fmt.Errorf("expected list literal, got %s", node.Type())
	}

	var declared []Declared
	for i := 0; i < int(node.NamedChildCount()); i++ {
		item := node.NamedChild(i)
		if item.Type() != "string" {
			return nil, fmt.Errorf("expected string literal, got %s", item.Type())
		}
		spec := pyStringContent(string(text[item.StartByte():item.EndByte()]))
		name, err := requirementName(spec)
		if err != nil {
			return nil, err
		}
		if name != "" {
			declared = append(declared, Declared{
				Name: name,
				Path: path,
				Line: int(item.StartPoint().Row) + 1,
			})
		}
	}
	return declared, nil
}

// pyStringContent strips the quotes (and any r/b/f/u prefix) from a
// Python string literal's source text.
func pyStringContent(literal string) string {
	s := strings.TrimLeft(literal, "rbfuRBFU")
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) && len(s) >= 2*len(quote) {
			return s[len(quote) : len(s)-len(quote)]
		}
	}
	return s
}
