package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFiles(t *testing.T) *Files {
	t.Helper()
	f, err := New()
	require.NoError(t, err)
	return f
}

func TestPathHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      string
		name      string
		bare      string
		directory string
		parent    string
	}{
		{"/data/cells/blobs.tif", "blobs.tif", "blobs", "/data/cells/", "/data/cells"},
		{"blobs.tif", "blobs.tif", "blobs", "", ""},
		{"/data/cells/", "cells", "cells", "/data/cells/", "/data"},
		{`C:\images\a.b.png`, "a.b.png", "a.b", `C:\images\`, `C:\images`},
		{"/top", "top", "top", "/", "/"},
		{".hidden", ".hidden", ".hidden", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, GetName(tt.path))
			assert.Equal(t, tt.bare, GetNameWithoutExtension(tt.path))
			assert.Equal(t, tt.directory, GetDirectory(tt.path))
			assert.Equal(t, tt.parent, GetParent(tt.path))
		})
	}
}

func TestReadWrite(t *testing.T) {
	t.Parallel()
	f := newFiles(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")

	require.NoError(t, f.SaveString("first\n", path))
	require.NoError(t, f.Append("second", path))

	s, err := f.OpenAsString(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", s)

	raw, err := f.OpenAsRawString(path, 5)
	require.NoError(t, err)
	assert.Equal(t, "first", raw)

	all, err := f.OpenAsRawString(path, 0)
	require.NoError(t, err)
	assert.Equal(t, s, all)

	assert.True(t, f.Exists(path))
	assert.True(t, f.IsFile(path))
	assert.False(t, f.IsDirectory(path))
	assert.Equal(t, int64(len(s)), f.Length(path))
	assert.Positive(t, f.LastModified(path))
	assert.NotEmpty(t, f.DateLastModified(path))

	_, err = f.OpenAsString(dir)
	require.ErrorIs(t, err, ErrIsDirectory)
}

func TestMissingFile(t *testing.T) {
	t.Parallel()
	f := newFiles(t)
	path := filepath.Join(t.TempDir(), "missing.txt")

	assert.False(t, f.Exists(path))
	assert.Equal(t, int64(0), f.Length(path))
	assert.Equal(t, int64(0), f.LastModified(path))
	assert.Empty(t, f.DateLastModified(path))

	_, err := f.OpenAsString(path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorIs(t, f.Delete(path), os.ErrNotExist)
}

func TestCopyRenameDelete(t *testing.T) {
	t.Parallel()
	f := newFiles(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	moved := filepath.Join(dir, "c.txt")

	require.NoError(t, f.SaveString("data", src))
	require.NoError(t, f.Copy(src, dst))
	got, err := f.OpenAsString(dst)
	require.NoError(t, err)
	assert.Equal(t, "data", got)

	require.NoError(t, f.Rename(dst, moved))
	assert.False(t, f.Exists(dst))
	assert.True(t, f.Exists(moved))

	require.NoError(t, f.Delete(moved))
	assert.False(t, f.Exists(moved))

	require.ErrorIs(t, f.Copy(dir, dst), ErrIsDirectory)
}

func TestListAndMakeDirectory(t *testing.T) {
	t.Parallel()
	f := newFiles(t)
	dir := t.TempDir()

	require.NoError(t, f.MakeDirectory(filepath.Join(dir, "sub", "deeper")))
	require.NoError(t, f.SaveString("", filepath.Join(dir, "b.tif")))
	require.NoError(t, f.SaveString("", filepath.Join(dir, "a.tif")))
	require.NoError(t, f.SaveString("", filepath.Join(dir, ".DS_Store")))

	names, err := f.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.tif", "b.tif", "sub/"}, names)

	_, err = f.List(filepath.Join(dir, "a.tif"))
	require.ErrorIs(t, err, ErrNotDirectory)
	require.ErrorIs(t, f.MakeDirectory(""), ErrEmptyPath)
	assert.Equal(t, string(filepath.Separator), f.Separator())
}

func TestOutputFile(t *testing.T) {
	t.Parallel()
	f := newFiles(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	out, err := f.Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, out.Path())
	require.NoError(t, out.Print("line 1"))
	require.NoError(t, out.Print("line 2"))
	assert.False(t, out.Closed())

	require.NoError(t, out.Close())
	require.NoError(t, out.Close())
	assert.True(t, out.Closed())
	require.ErrorIs(t, out.Print("late"), ErrClosed)

	got, err := f.OpenAsString(path)
	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2\n", got)

	_, err = f.Open("")
	require.ErrorIs(t, err, ErrEmptyPath)
}
