package manifests

import (
	"strings"

	"gopkg.in/ini.v1"
)

// ParseSetupCfg extracts declared dependencies from setuptools'
// declarative setup.cfg: [options] install_requires / setup_requires /
// tests_require, plus every extra under [options.extras_require].
func ParseSetupCfg(path string, text []byte) ([]Declared, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
	}, text)
	if err != nil {
		return nil, &ParseError{Path: path, Dialect: DialectSetupCfg, Err: err}
	}

	var declared []Declared
	addValue := func(value string) error {
		// Values are newline- or semicolon-free requirement lists, one
		// entry per line in the multiline form.
		for _, line := range strings.Split(value, "\n") {
			name, err := requirementName(line)
			if err != nil {
				return err
			}
			if name != "" {
				declared = append(declared, Declared{Name: name, Path: path})
			}
		}
		return nil
	}

	if options, err := cfg.GetSection("options"); err == nil {
		for _, key := range []string{"install_requires", "setup_requires", "tests_require"} {
			if options.HasKey(key) {
				if err := addValue(options.Key(key).String()); err != nil {
					return nil, &ParseError{Path: path, Dialect: DialectSetupCfg, Err: err}
				}
			}
		}
	}
	if extras, err := cfg.GetSection("options.extras_require"); err == nil {
		for _, key := range extras.Keys() {
			if err := addValue(key.String()); err != nil {
				return nil, &ParseError{Path: path, Dialect: DialectSetupCfg, Err: err}
			}
		}
	}

	return declared, nil
}
