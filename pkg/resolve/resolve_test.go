package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Django":          "django",
		"scikit-learn":    "scikit-learn",
		"scikit_learn":    "scikit-learn",
		"Scikit.Learn":    "scikit-learn",
		"foo--bar__baz":   "foo-bar-baz",
		"  FastAPI  ":     "fastapi",
		"ruamel.yaml":     "ruamel-yaml",
		"typing_FOO.bar_": "typing-foo-bar-",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestImportForm(t *testing.T) {
	assert.Equal(t, "fake_useragent", ImportForm("fake-useragent"))
	assert.Equal(t, "fake_useragent", ImportForm("fake_useragent"))
	assert.Equal(t, "opencv_python", ImportForm("opencv-python"))
	assert.Equal(t, "requests", ImportForm("Requests"))
}

func TestProvidesIdentityFallback(t *testing.T) {
	table := Empty()
	assert.Equal(t, []string{"requests"}, table.Provides("requests"))
	assert.Equal(t, []string{"python_dateutil"}, table.Provides("python-dateutil"))
	assert.False(t, table.HasEntry("requests"))
}

func TestProvidesTableEntryWins(t *testing.T) {
	table := NewTable()
	assert.Equal(t, []string{"PIL"}, table.Provides("pillow"))
	assert.Equal(t, []string{"PIL"}, table.Provides("Pillow"))
	assert.Equal(t, []string{"cv2"}, table.Provides("opencv-python"))
	assert.Equal(t, []string{"sklearn"}, table.Provides("scikit_learn"))
	assert.True(t, table.HasEntry("pillow"))
}

func TestAddAccumulatesAndDeduplicates(t *testing.T) {
	table := Empty()
	table.Add("pymongo", "pymongo", "bson")
	table.Add("pymongo", "bson", "gridfs")
	assert.ElementsMatch(t, []string{"pymongo", "bson", "gridfs"}, table.Provides("pymongo"))
}

func TestMerge(t *testing.T) {
	base := NewTable()
	seeded := base.Len()
	extra := Empty()
	extra.Add("my-plugin", "myplugin")
	base.Merge(extra)

	assert.Equal(t, []string{"myplugin"}, base.Provides("my-plugin"))
	assert.Equal(t, []string{"PIL"}, base.Provides("pillow"))
	assert.Equal(t, seeded+1, base.Len())

	base.Merge(nil) // no-op
	assert.Equal(t, seeded+1, base.Len())
}

func TestLoadYAML(t *testing.T) {
	doc := `
pillow: PIL
pymongo: [pymongo, bson, gridfs]
`
	table, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"PIL"}, table.Provides("pillow"))
	assert.ElementsMatch(t, []string{"pymongo", "bson", "gridfs"}, table.Provides("pymongo"))
}

func TestLoadYAMLRejectsBadShapes(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("pillow: 42"))
	assert.Error(t, err)

	_, err = LoadYAML(strings.NewReader("pillow: [1, 2]"))
	assert.Error(t, err)

	_, err = LoadYAML(strings.NewReader(":\n  - ["))
	assert.Error(t, err)
}
