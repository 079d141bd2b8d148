package manifests

import (
	"strings"
)

// ParseRequirements parses the pip requirements file format: one
// requirement per line, with comments, blank lines, pip options and
// line continuations. See
// https://pip.pypa.io/en/stable/reference/requirements-file-format/.
func ParseRequirements(path string, text []byte) ([]Declared, error) {
	var declared []Declared

	lines := strings.Split(string(text), "\n")
	for i := 0; i < len(lines); i++ {
		lineno := i + 1
		line := lines[i]

		// Backslash continuations join onto the same logical line.
		for strings.HasSuffix(strings.TrimRight(line, " \t"), "\\") && i+1 < len(lines) {
			line = strings.TrimSuffix(strings.TrimRight(line, " \t"), "\\")
			i++
			line += lines[i]
		}

		if j := strings.IndexByte(line, '#'); j >= 0 {
			line = line[:j]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Pip options: -r other.txt, -e ., --index-url, --hash, ...
		if strings.HasPrefix(line, "-") {
			continue
		}
		// Bare URL or local path requirements carry no usable name.
		// "name @ url" is still a name-based requirement and stays.
		first := strings.Fields(line)[0]
		if strings.Contains(first, "://") || strings.HasPrefix(first, ".") || strings.HasPrefix(first, "/") {
			continue
		}

		name, err := requirementName(line)
		if err != nil {
			return nil, &ParseError{Path: path, Dialect: DialectRequirements, Err: err}
		}
		if name == "" {
			continue
		}
		declared = append(declared, Declared{Name: name, Path: path, Line: lineno})
	}

	return declared, nil
}
