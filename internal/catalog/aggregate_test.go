package catalog

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/catgen/internal/frontmatter"
	"github.com/fulmenhq/catgen/pkg/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultExts = []string{".md", ".njk"}

func quietLogger() *logger.Logger {
	l := logger.New(logger.Config{Level: logger.ErrorLevel})
	l.SetOutput(io.Discard)
	return l
}

func memReader(docs map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		doc, ok := docs[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(doc), nil
	}
}

func aggregate(t *testing.T, existing Catalog, docs map[string]string, files []string, image bool) Catalog {
	t.Helper()
	got, err := Aggregate(existing, files, AggregateOptions{
		Extensions:      defaultExts,
		ImageProperties: image,
		ReadFile:        memReader(docs),
		Logger:          quietLogger(),
	})
	require.NoError(t, err)
	return got
}

func TestAggregateScenario(t *testing.T) {
	docs := map[string]string{
		"/posts/a.md":  "---\ncategories: [Go, Rust]\n---\n",
		"/posts/b.njk": "---\ncategories: [Go, Rust]\n---\n",
		"/posts/c.md":  "---\ntitle: none\n---\n",
	}
	got := aggregate(t, nil, docs, []string{"/posts/c.md", "/posts/a.md", "/posts/b.njk"}, false)

	want := Catalog{
		{Category: "Go", Count: 2},
		{Category: "Rust", Count: 2},
		{Category: frontmatter.Uncategorized, Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateResetsAndPrunes(t *testing.T) {
	desc := "kept"
	existing := Catalog{
		{Category: "Legacy", Count: 3, Description: "gone"},
		{Category: "Go", Count: 10, Description: desc, ImageFilePath: &desc},
	}
	docs := map[string]string{"/p/a.md": "---\ncategories: Go\n---\n"}

	got := aggregate(t, existing, docs, []string{"/p/a.md"}, true)

	want := Catalog{{Category: "Go", Count: 1, Description: desc, ImageFilePath: &desc}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, existing[0].Count, "existing catalog must not be modified")
	assert.Equal(t, 10, existing[1].Count)
}

func TestAggregateImageProperties(t *testing.T) {
	docs := map[string]string{"/p/a.md": "---\ncategories: [Go]\n---\n"}

	got := aggregate(t, nil, docs, []string{"/p/a.md"}, true)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].ImageFilePath)
	require.NotNil(t, got[0].ImageAltText)
	require.NotNil(t, got[0].ImageAttribution)
	assert.Equal(t, "", *got[0].ImageFilePath)

	got = aggregate(t, nil, docs, []string{"/p/a.md"}, false)
	assert.Nil(t, got[0].ImageFilePath)
}

func TestAggregateSkipsOtherExtensions(t *testing.T) {
	docs := map[string]string{"/p/a.md": "---\ncategories: [Go]\n---\n"}
	// The reader would fail for these, so they must never be read.
	got := aggregate(t, nil, docs, []string{"/p/a.md", "/p/img.png", "/p/notes.txt"}, false)
	assert.Equal(t, Catalog{{Category: "Go", Count: 1}}, got)
}

func TestAggregateNoMatchingFiles(t *testing.T) {
	existing := Catalog{{Category: "Go", Count: 4}}
	got := aggregate(t, existing, nil, []string{"/p/img.png"}, false)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregateInvariants(t *testing.T) {
	docs := map[string]string{
		"/p/1.md": "---\ncategories: 'Zeta, alpha, Beta'\n---\n",
		"/p/2.md": "---\ncategories: [alpha, '']\n---\n",
		"/p/3.md": "---\ncategories: []\n---\n",
		"/p/4.md": "---\ncategories:\n  key: value\n---\n",
		"/p/5.md": "no header at all",
	}
	files := []string{"/p/1.md", "/p/2.md", "/p/3.md", "/p/4.md", "/p/5.md"}
	got := aggregate(t, Catalog{{Category: "Old", Count: 7}}, docs, files, false)

	assert.True(t, IsSorted(got))
	seen := map[string]bool{}
	for _, r := range got {
		assert.Greater(t, r.Count, 0)
		assert.NotEmpty(t, r.Category)
		assert.False(t, seen[r.Category], "duplicate %s", r.Category)
		seen[r.Category] = true
	}
	assert.Equal(t, 3, got[got.Find(frontmatter.Uncategorized)].Count)
	assert.Equal(t, 2, got[got.Find("alpha")].Count)
	assert.Equal(t, -1, got.Find("Old"))
}

func TestAggregateOrderIndependent(t *testing.T) {
	docs := map[string]string{
		"/p/a.md": "---\ncategories: [Go, Web Dev]\n---\n",
		"/p/b.md": "---\ncategories: [Rust]\n---\n",
		"/p/c.md": "---\n---\n",
	}
	first := aggregate(t, nil, docs, []string{"/p/a.md", "/p/b.md", "/p/c.md"}, false)
	second := aggregate(t, nil, docs, []string{"/p/c.md", "/p/b.md", "/p/a.md"}, false)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("scan order changed the result (-first +second):\n%s", diff)
	}
}

func TestAggregateMalformedHeaderAborts(t *testing.T) {
	docs := map[string]string{
		"/p/ok.md":  "---\ncategories: [Go]\n---\n",
		"/p/bad.md": "---\ncategories: [Go\n---\n",
	}
	_, err := Aggregate(nil, []string{"/p/ok.md", "/p/bad.md"}, AggregateOptions{
		Extensions: defaultExts,
		ReadFile:   memReader(docs),
		Logger:     quietLogger(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/p/bad.md")
}

func TestAggregateReadError(t *testing.T) {
	_, err := Aggregate(nil, []string{"/p/missing.md"}, AggregateOptions{
		Extensions: defaultExts,
		ReadFile:   memReader(nil),
		Logger:     quietLogger(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAggregateReadsContainedFiles(t *testing.T) {
	root := t.TempDir()
	post := filepath.Join(root, "post.md")
	require.NoError(t, os.WriteFile(post, []byte("---\ncategories: [Go]\n---\n"), 0o644))

	got, err := Aggregate(nil, []string{post}, AggregateOptions{
		Extensions: defaultExts,
		Root:       root,
		Logger:     quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, Catalog{{Category: "Go", Count: 1}}, got)

	outside := filepath.Join(t.TempDir(), "other.md")
	require.NoError(t, os.WriteFile(outside, []byte("---\n---\n"), 0o644))
	_, err = Aggregate(nil, []string{outside}, AggregateOptions{
		Extensions: defaultExts,
		Root:       root,
		Logger:     quietLogger(),
	})
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	got := Prune(Catalog{{Category: "a", Count: 0}, {Category: "", Count: 2}, {Category: "b", Count: 1}})
	assert.Equal(t, Catalog{{Category: "b", Count: 1}}, got)
}
