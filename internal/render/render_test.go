package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscout/depscout/internal/analysis"
	"github.com/depscout/depscout/pkg/reconcile"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Result: reconcile.Result{
			Imports:        []string{"django", "requests"},
			DeclaredDeps:   []string{"black", "requests"},
			UndeclaredDeps: []string{"django"},
			UnusedDeps:     []string{"black"},
		},
		Errors: []analysis.UnitError{
			{Path: "broken.py", Kind: "source", Error: "invalid syntax"},
		},
		Metadata: analysis.Metadata{
			Tool:        "depscout",
			Version:     "dev",
			CodeRoot:    "/proj",
			DepsRoot:    "/proj",
			SourceFiles: 3,
			Manifests:   1,
		},
	}
}

func TestJSONContractFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	for _, field := range []string{"imports", "declared_deps", "undeclared_deps", "unused_deps", "errors", "metadata"} {
		assert.Contains(t, decoded, field)
	}
	assert.ElementsMatch(t, []interface{}{"django"}, decoded["undeclared_deps"])
	assert.ElementsMatch(t, []interface{}{"black"}, decoded["unused_deps"])
}

func TestMarkdownSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Undeclared dependencies")
	assert.Contains(t, out, "`django`")
	assert.Contains(t, out, "`black`")
	assert.Contains(t, out, "broken.py")
	assert.Contains(t, out, "3 source file(s)")
}

func TestMarkdownCleanReport(t *testing.T) {
	report := sampleReport()
	report.UndeclaredDeps = []string{}
	report.UnusedDeps = []string{}
	report.Errors = []analysis.UnitError{}

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "No undeclared dependencies.")
	assert.Contains(t, out, "No unused dependencies.")
	assert.NotContains(t, out, "Skipped inputs")
}
