package manifests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirementsBasic(t *testing.T) {
	text := []byte("pandas\nclick\n")
	declared, err := ParseRequirements("requirements.txt", text)
	names := declaredNames(t, declared, err)
	assert.Equal(t, []string{"pandas", "click"}, names)
}

func TestParseRequirementsStripsQualifiers(t *testing.T) {
	text := []byte(`
# core
pandas >= 1.3
tensorflow>=2
requests[security]==2.8.1  # pinned
colorama; sys_platform == "win32"
name @ https://github.com/example/name/archive/main.zip
`)
	declared, err := ParseRequirements("requirements.txt", text)
	names := declaredNames(t, declared, err)
	assert.Equal(t, []string{"pandas", "tensorflow", "requests", "colorama", "name"}, names)
}

func TestParseRequirementsSkipsOptionsAndURLs(t *testing.T) {
	text := []byte(`
-r base.txt
-e .
--index-url https://pypi.example.com/simple
https://example.com/some-wheel.whl
./vendored/local-pkg
numpy
`)
	declared, err := ParseRequirements("requirements.txt", text)
	names := declaredNames(t, declared, err)
	assert.Equal(t, []string{"numpy"}, names)
}

func TestParseRequirementsLineContinuation(t *testing.T) {
	text := []byte("requests \\\n    >=2.8.1\nflask\n")
	declared, err := ParseRequirements("requirements.txt", text)
	names := declaredNames(t, declared, err)
	assert.Equal(t, []string{"requests", "flask"}, names)
}

func TestParseRequirementsProvenance(t *testing.T) {
	text := []byte("# header\npandas\n\nclick\n")
	declared, err := ParseRequirements("sub/requirements.txt", text)
	require.NoError(t, err)
	require.Len(t, declared, 2)
	assert.Equal(t, Declared{Name: "pandas", Path: "sub/requirements.txt", Line: 2}, declared[0])
	assert.Equal(t, Declared{Name: "click", Path: "sub/requirements.txt", Line: 4}, declared[1])
}

func TestParseRequirementsMalformedLine(t *testing.T) {
	_, err := ParseRequirements("requirements.txt", []byte("pandas\n???==1.0\n"))
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, DialectRequirements, parseErr.Dialect)
}
