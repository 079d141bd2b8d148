package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds an isolated command tree so tests don't share
// flag state with the production rootCmd.
func newTestRoot() (*cobra.Command, *bytes.Buffer) {
	root := newRootCommand()
	registerSubcommands(root)

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	return root, out
}

func execute(root *cobra.Command, args ...string) error {
	root.SetArgs(args)
	return root.Execute()
}

func writeProjectFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeProjectFile(t, root, "app.py", "import django\nimport requests\n")
	writeProjectFile(t, root, "requirements.txt", "requests\nblack\n")
	return root
}

func TestAnalyzeJSON(t *testing.T) {
	root, out := newTestRoot()
	require.NoError(t, execute(root, "analyze", sampleProject(t), "--json"))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.ElementsMatch(t, []interface{}{"django"}, report["undeclared_deps"])
	assert.ElementsMatch(t, []interface{}{"black"}, report["unused_deps"])
	assert.ElementsMatch(t, []interface{}{"django", "requests"}, report["imports"])
}

func TestAnalyzeJSONValidated(t *testing.T) {
	root, out := newTestRoot()
	require.NoError(t, execute(root, "analyze", sampleProject(t), "--json", "--detail", "--validate-output"))
	assert.Contains(t, out.String(), `"undeclared_deps"`)
}

func TestAnalyzeSummary(t *testing.T) {
	root, out := newTestRoot()
	require.NoError(t, execute(root, "analyze", sampleProject(t)))

	assert.Contains(t, out.String(), "Undeclared dependencies")
	assert.Contains(t, out.String(), "`django`")
	assert.Contains(t, out.String(), "`black`")
}

func TestAnalyzeMappingFile(t *testing.T) {
	project := t.TempDir()
	writeProjectFile(t, project, "app.py", "import mymod\n")
	writeProjectFile(t, project, "requirements.txt", "my-package\n")

	mapping := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(mapping, []byte("my-package: mymod\n"), 0o644))

	root, out := newTestRoot()
	require.NoError(t, execute(root, "analyze", project, "--json", "--mapping", mapping))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Empty(t, report["undeclared_deps"])
	assert.Empty(t, report["unused_deps"])
}

func TestAnalyzeIgnoreFlags(t *testing.T) {
	root, out := newTestRoot()
	require.NoError(t, execute(root, "analyze", sampleProject(t), "--json",
		"--ignore-undeclared", "django", "--ignore-unused", "black"))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Empty(t, report["undeclared_deps"])
	assert.Empty(t, report["unused_deps"])
}

func TestAnalyzeConfigReadFromTarget(t *testing.T) {
	project := t.TempDir()
	writeProjectFile(t, project, ".depscout.yaml", "analysis:\n  ignore_unused:\n    - black\n")
	writeProjectFile(t, project, "requirements.txt", "requests\nblack\n")
	writeProjectFile(t, project, "src/app.py", "import requests\n")

	root, out := newTestRoot()
	require.NoError(t, execute(root, "analyze", project, "--json",
		"--code", filepath.Join(project, "src")))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Empty(t, report["undeclared_deps"])
	assert.Empty(t, report["unused_deps"])
}

func TestAnalyzeOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.json")

	root, _ := newTestRoot()
	require.NoError(t, execute(root, "analyze", sampleProject(t), "--json", "--output", outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"undeclared_deps"`)
}

func TestAnalyzeRejectsExtraArgs(t *testing.T) {
	root, _ := newTestRoot()
	assert.Error(t, execute(root, "analyze", "a", "b"))
}
