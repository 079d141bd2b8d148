// Package render serializes analysis reports for the outside world.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aymerick/raymond"

	"github.com/depscout/depscout/internal/analysis"
)

// JSON writes the report as indented JSON. The field names and set
// semantics of the embedded result are the stable output contract.
func JSON(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

const summaryTemplate = `# Dependency report for {{metadata.CodeRoot}}

Scanned {{metadata.SourceFiles}} source file(s) and {{metadata.Manifests}} manifest(s).

{{#if undeclared}}## Undeclared dependencies

These are imported but never declared in a manifest:

{{#each undeclared}}- ` + "`{{this}}`" + `
{{/each}}
{{else}}No undeclared dependencies.
{{/if}}
{{#if unused}}## Unused dependencies

These are declared but never imported:

{{#each unused}}- ` + "`{{this}}`" + `
{{/each}}
{{else}}No unused dependencies.
{{/if}}
{{#if errors}}## Skipped inputs

{{#each errors}}- {{this.Path}} ({{this.Kind}}): {{this.Error}}
{{/each}}{{/if}}`

// Markdown writes a human-readable summary of the report.
func Markdown(w io.Writer, report *analysis.Report) error {
	ctx := map[string]interface{}{
		"metadata":   report.Metadata,
		"undeclared": report.UndeclaredDeps,
		"unused":     report.UnusedDeps,
		"errors":     report.Errors,
	}
	out, err := raymond.Render(summaryTemplate, ctx)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
