package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/qfind/internal/types"
)

func TestPathCacheBindLookup(t *testing.T) {
	c := NewPathCache()
	c.Bind("/a/b.txt", types.FileID(7))

	id, ok := c.Lookup("/a/b.txt")
	require.True(t, ok)
	assert.Equal(t, types.FileID(7), id)

	path, ok := c.PathOf(types.FileID(7))
	require.True(t, ok)
	assert.Equal(t, "/a/b.txt", path)
}

func TestPathCacheLookupMiss(t *testing.T) {
	c := NewPathCache()
	_, ok := c.Lookup("/missing")
	assert.False(t, ok)
}

func TestPathCacheForget(t *testing.T) {
	c := NewPathCache()
	c.Bind("/a/b.txt", types.FileID(1))
	c.Forget("/a/b.txt")

	_, ok := c.Lookup("/a/b.txt")
	assert.False(t, ok)
	_, ok = c.PathOf(types.FileID(1))
	assert.False(t, ok)
}

func TestPathCacheRebind(t *testing.T) {
	c := NewPathCache()
	c.Bind("/a", types.FileID(1))
	c.Bind("/a", types.FileID(2))

	id, ok := c.Lookup("/a")
	require.True(t, ok)
	assert.Equal(t, types.FileID(2), id)
}

func TestNewWatcherWalksExistingTree(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, nil, []string{"**/.git/**"})
	require.NoError(t, err)
	defer w.Stop()
}

func TestWatcherShouldIgnoreDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, nil, []string{"**/vendor/**"})
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.shouldIgnoreDirectory(dir+"/vendor"))
	assert.False(t, w.shouldIgnoreDirectory(dir+"/src"))
}

func TestWatcherMatchesInclude(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"**/*.go"}, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.matchesInclude(dir+"/main.go"))
	assert.False(t, w.matchesInclude(dir+"/main.txt"))
}
