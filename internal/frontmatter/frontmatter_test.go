package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCategories(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		shape   Shape
	}{
		{
			name:    "yaml list",
			content: "---\ntitle: Post\ncategories: [Go, Rust]\n---\nbody\n",
			want:    []string{"Go", "Rust"},
			shape:   ShapeList,
		},
		{
			name:    "yaml block list with padding",
			content: "---\ncategories:\n  - ' Go '\n  - Web Dev\n---\n",
			want:    []string{"Go", "Web Dev"},
			shape:   ShapeList,
		},
		{
			name:    "comma string",
			content: "---\ncategories: Go, Rust ,Web Dev\n---\n",
			want:    []string{"Go", "Rust", "Web Dev"},
			shape:   ShapeText,
		},
		{
			name:    "list element containing a comma is split",
			content: "---\ncategories: [\"Go, Rust\"]\n---\n",
			want:    []string{"Go", "Rust"},
			shape:   ShapeList,
		},
		{
			name:    "absent",
			content: "---\ntitle: Post\n---\nbody\n",
			want:    []string{Uncategorized},
			shape:   ShapeAbsent,
		},
		{
			name:    "empty list",
			content: "---\ncategories: []\n---\n",
			want:    []string{Uncategorized},
			shape:   ShapeList,
		},
		{
			name:    "empty string",
			content: "---\ncategories: ''\n---\n",
			want:    []string{Uncategorized},
			shape:   ShapeText,
		},
		{
			name:    "null",
			content: "---\ncategories:\n---\n",
			want:    []string{Uncategorized},
			shape:   ShapeAbsent,
		},
		{
			name:    "empty parts dropped",
			content: "---\ncategories: 'Go,, ,Rust'\n---\n",
			want:    []string{"Go", "Rust"},
			shape:   ShapeText,
		},
		{
			name:    "scalar number",
			content: "---\ncategories: 2024\n---\n",
			want:    []string{"2024"},
			shape:   ShapeText,
		},
		{
			name:    "mapping is unsupported",
			content: "---\ncategories:\n  primary: Go\n---\n",
			want:    []string{Uncategorized},
			shape:   ShapeUnsupported,
		},
		{
			name:    "no front matter",
			content: "# Just markdown\n",
			want:    []string{Uncategorized},
			shape:   ShapeAbsent,
		},
		{
			name:    "toml",
			content: "+++\ntitle = \"Post\"\ncategories = [\"Go\", \"Rust\"]\n+++\nbody\n",
			want:    []string{"Go", "Rust"},
			shape:   ShapeList,
		},
		{
			name:    "byte order mark before yaml",
			content: "\ufeff---\ncategories: [Go]\n---\nbody\n",
			want:    []string{"Go"},
			shape:   ShapeList,
		},
		{
			name:    "byte order mark before toml",
			content: "\ufeff+++\ncategories = \"Go, Rust\"\n+++\n",
			want:    []string{"Go", "Rust"},
			shape:   ShapeText,
		},
		{
			name:    "case is preserved",
			content: "---\ncategories: [go, Go]\n---\n",
			want:    []string{"go", "Go"},
			shape:   ShapeList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Categories)
			assert.Equal(t, tt.shape, res.Shape)
			assert.NotEmpty(t, res.Categories)

			names, err := ExtractCategories([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestExtractMalformedHeader(t *testing.T) {
	tests := map[string]string{
		"bad yaml":           "---\ncategories: [Go\n---\n",
		"unclosed yaml":      "---\ncategories: [Go]\n",
		"unclosed toml":      "+++\ncategories = [\"Go\"]\nbody\n",
		"unclosed after bom": "\ufeff---\ncategories: [Go]\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			names, err := ExtractCategories([]byte(content))
			assert.Error(t, err)
			assert.Nil(t, names)
		})
	}
}

func TestExtractHasHeader(t *testing.T) {
	res, err := Extract([]byte("---\ntitle: x\n---\n"))
	require.NoError(t, err)
	assert.True(t, res.HasHeader)

	res, err = Extract([]byte("plain text"))
	require.NoError(t, err)
	assert.False(t, res.HasHeader)
}

func TestNormalizeShapesAgree(t *testing.T) {
	list, _ := Normalize([]interface{}{"Go", "Rust"})
	text, _ := Normalize("Go,Rust")
	typed, _ := Normalize([]string{"Go", "Rust"})
	assert.Equal(t, list, text)
	assert.Equal(t, list, typed)

	absent, _ := Normalize(nil)
	empty, _ := Normalize([]interface{}{})
	assert.Equal(t, absent, empty)

	flag, shape := Normalize(true)
	assert.Equal(t, []string{"true"}, flag)
	assert.Equal(t, ShapeText, shape)

	nested, shape := Normalize([]interface{}{[]interface{}{"Go"}})
	assert.Equal(t, []string{Uncategorized}, nested)
	assert.Equal(t, ShapeUnsupported, shape)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "absent", ShapeAbsent.String())
	assert.Equal(t, "list", ShapeList.String())
	assert.Equal(t, "text", ShapeText.String())
	assert.Equal(t, "unsupported", ShapeUnsupported.String())
}
