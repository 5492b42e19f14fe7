package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()
	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	out := make([]string, 0, len(files))
	for _, f := range files {
		require.True(t, filepath.IsAbs(f), "expected absolute path, got %s", f)
		rel, err := filepath.Rel(absRoot, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestScanReturnsEveryFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.md", "nested/b.njk", "nested/deeper/c.txt", "img/photo.png")

	files, err := Scan(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "img/photo.png", "nested/b.njk", "nested/deeper/c.txt"}, relAll(t, root, files))
}

func TestScanEmptyDirectory(t *testing.T) {
	files, err := Scan(t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := Scan(missing, Options{})
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, missing, nf.Root)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "file.md")
	_, err := Scan(filepath.Join(root, "file.md"), Options{})
	assert.Error(t, err)
}

func TestScanExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "keep.md", "drafts/wip.md", "drafts/more/wip2.md", "notes/skip.tmp.md", "notes/keep.md")

	files, err := Scan(root, Options{Exclude: []string{"drafts", "**/*.tmp.md"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.md", "notes/keep.md"}, relAll(t, root, files))
}

func TestScanSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, root, "a.md")
	writeTree(t, outside, "linked.md", "dir/inner.md")

	require.NoError(t, os.Symlink(filepath.Join(outside, "linked.md"), filepath.Join(root, "link.md")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone.md"), filepath.Join(root, "broken.md")))

	files, err := Scan(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "link.md"}, relAll(t, root, files))
}

func TestHasExtensionAndFilter(t *testing.T) {
	exts := []string{".md", ".njk"}
	assert.True(t, HasExtension("/p/post.md", exts))
	assert.True(t, HasExtension("/p/post.njk", exts))
	assert.True(t, HasExtension("/p/post.MD", exts))
	assert.False(t, HasExtension("/p/post.markdown", exts))
	assert.False(t, HasExtension("/p/README", exts))

	got := Filter([]string{"/a.md", "/b.png", "/c.njk", "/d.txt"}, exts)
	assert.Equal(t, []string{"/a.md", "/c.njk"}, got)
	assert.Empty(t, Filter([]string{"/b.png"}, exts))
}
