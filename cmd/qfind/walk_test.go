package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/qfind/internal/pathindex"
)

func TestWalkRootVisitsFilesNotRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("x"), 0o644))

	var seen []string
	err := walkRoot(dir, nil, nil, func(rec pathindex.PathRecord) error {
		seen = append(seen, rec.Path)
		return nil
	})
	require.NoError(t, err)
	assert.NotContains(t, seen, dir)
	assert.Contains(t, seen, filepath.Join(dir, "a.txt"))
	assert.Contains(t, seen, filepath.Join(dir, "sub", "b.txt"))
}

func TestWalkRootExcludePrunesDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	var seen []string
	err := walkRoot(dir, nil, []string{"**/.git/**"}, func(rec pathindex.PathRecord) error {
		seen = append(seen, rec.Path)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, seen, filepath.Join(dir, "keep.txt"))
	for _, p := range seen {
		assert.NotContains(t, p, ".git")
	}
}

func TestWalkRootIncludeFiltersNonMatching(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("x"), 0o644))

	var seen []string
	err := walkRoot(dir, []string{"**/*.go"}, nil, func(rec pathindex.PathRecord) error {
		seen = append(seen, rec.Path)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, seen, filepath.Join(dir, "a.go"))
	assert.NotContains(t, seen, filepath.Join(dir, "b.md"))
}
