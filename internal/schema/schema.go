// Package schema validates serialized analysis reports against the
// published output contract.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed analysis-report.schema.json
var reportSchema []byte

// ValidateReport checks a serialized analysis report against the
// embedded JSON schema.
func ValidateReport(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(reportSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("report does not match schema: %s", strings.Join(problems, "; "))
}
