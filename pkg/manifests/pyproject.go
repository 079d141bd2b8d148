package manifests

import (
	"github.com/pelletier/go-toml/v2"
)

// pyprojectDoc models the dependency-bearing corners of pyproject.toml:
// PEP 621 project metadata and the Poetry tool tables.
type pyprojectDoc struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]interface{} `toml:"dependencies"`
			DevDependencies map[string]interface{} `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ParsePyproject extracts declared dependencies from pyproject.toml.
// PEP 621 entries are PEP 508 requirement strings; Poetry entries are
// keyed by package name, with "python" being a version constraint on
// the interpreter rather than a dependency.
func ParsePyproject(path string, text []byte) ([]Declared, error) {
	var doc pyprojectDoc
	if err := toml.Unmarshal(text, &doc); err != nil {
		return nil, &ParseError{Path: path, Dialect: DialectPyproject, Err: err}
	}

	var declared []Declared
	add := func(name string) {
		declared = append(declared, Declared{Name: name, Path: path})
	}

	for _, spec := range doc.Project.Dependencies {
		name, err := requirementName(spec)
		if err != nil {
			return nil, &ParseError{Path: path, Dialect: DialectPyproject, Err: err}
		}
		if name != "" {
			add(name)
		}
	}
	for _, specs := range doc.Project.OptionalDependencies {
		for _, spec := range specs {
			name, err := requirementName(spec)
			if err != nil {
				return nil, &ParseError{Path: path, Dialect: DialectPyproject, Err: err}
			}
			if name != "" {
				add(name)
			}
		}
	}

	poetryDeps := func(deps map[string]interface{}) {
		for name := range deps {
			if name == "python" {
				continue
			}
			add(name)
		}
	}
	poetryDeps(doc.Tool.Poetry.Dependencies)
	poetryDeps(doc.Tool.Poetry.DevDependencies)
	for _, group := range doc.Tool.Poetry.Group {
		poetryDeps(group.Dependencies)
	}

	return declared, nil
}
