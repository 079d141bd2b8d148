package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*.py"}, cfg.Analysis.Include)
	assert.Empty(t, cfg.Analysis.IgnoreUnused)
	assert.Equal(t, 0, cfg.Analysis.Concurrency)
	assert.Equal(t, 50, cfg.Analysis.ConcurrencyPercent)
}

func TestLoadConfigFromFile(t *testing.T) {
	root := t.TempDir()
	doc := `
analysis:
  include:
    - "src/**/*.py"
  ignore_unused:
    - black
    - isort
  concurrency: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".depscout.yaml"), []byte(doc), 0o644))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.py"}, cfg.Analysis.Include)
	assert.Equal(t, []string{"black", "isort"}, cfg.Analysis.IgnoreUnused)
	assert.Equal(t, 4, cfg.Analysis.Concurrency)
	// Unset keys keep their defaults.
	assert.Equal(t, 50, cfg.Analysis.ConcurrencyPercent)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".depscout.yaml"), []byte("analysis: [\n"), 0o644))

	_, err := LoadConfig(root)
	assert.Error(t, err)
}
