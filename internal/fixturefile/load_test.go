package fixturefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	doc, err := Load("testdata/blog.yaml")
	require.NoError(t, err)

	require.Len(t, doc.Entities, 3)
	assert.Contains(t, doc.Schema, "CREATE TABLE author")

	post, ok := doc.Entity("Post")
	require.True(t, ok)
	assert.Equal(t, "post", post.Table)
	assert.Equal(t, map[string]string{"authorId": "author_id"}, post.Columns)
	assert.Equal(t, `"Post " + string(n)`, post.Sequences["title"])
	assert.Equal(t, "Author", post.Fields["authorId"].Ref)
	assert.Equal(t, "id", post.Fields["authorId"].Through)
	assert.Len(t, post.Fields["tags"].Array, 2)

	comment, ok := doc.Entity("Comment")
	require.True(t, ok)
	require.NotNil(t, comment.Fields["editorId"].Some)
	assert.Equal(t, "Author", comment.Fields["editorId"].Some.Ref)
}

func TestLoad_CUE(t *testing.T) {
	doc, err := Load("testdata/taxonomy.cue")
	require.NoError(t, err)

	require.Len(t, doc.Entities, 3)
	class, ok := doc.Entity("Class")
	require.True(t, ok)
	assert.Equal(t, "n * 10", class.Sequences["rank"])
	assert.Equal(t, "rank", class.Fields["rank"].Sequence)
	assert.True(t, class.Fields["extinct"].None)
	require.NotNil(t, class.Fields["habitat"].Left)
	assert.Equal(t, "land", class.Fields["habitat"].Left.Value)
	assert.EqualValues(t, 4, class.Fields["traits"].Object["legs"].Value)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	content := `{"entities": [{"name": "Tag", "fields": {"label": {"value": "go"}}}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	doc, err := Load(path)
	require.NoError(t, err)

	require.Len(t, doc.Entities, 1)
	assert.Equal(t, "go", doc.Entities[0].Fields["label"].Value)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("fixtures.toml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported fixture file extension ".toml"`)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixture file")
}

func TestParse_UnknownField(t *testing.T) {
	// "feilds" is a typo and must be rejected
	data := []byte(`
entities:
  - name: Tag
    feilds:
      label: {value: go}
`)

	_, err := Parse(data, FormatYAML)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_EmptyDocument(t *testing.T) {
	_, err := Parse([]byte(""), FormatYAML)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestParse_InvalidCUE(t *testing.T) {
	_, err := Parse([]byte(`entities: [`), FormatCUE)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile CUE")
}

func TestParse_NonConcreteCUE(t *testing.T) {
	_, err := Parse([]byte(`entities: [{name: string, fields: {}}]`), FormatCUE)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not concrete")
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.yaml", FormatYAML},
		{"a.YML", FormatYAML},
		{"a.json", FormatYAML},
		{"dir/a.cue", FormatCUE},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
