package pathtrie

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/qfind/internal/types"
)

func TestInsertLookupRoundTrip(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("src/main.go", types.FileID(1)))
	require.NoError(t, tr.Insert("src/main_test.go", types.FileID(2)))
	require.NoError(t, tr.Insert("src/other.go", types.FileID(3)))

	id, ok := tr.Lookup("src/main.go")
	require.True(t, ok)
	assert.Equal(t, types.FileID(1), id)

	id, ok = tr.Lookup("src/main_test.go")
	require.True(t, ok)
	assert.Equal(t, types.FileID(2), id)

	id, ok = tr.Lookup("src/other.go")
	require.True(t, ok)
	assert.Equal(t, types.FileID(3), id)
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("a/b", types.FileID(1)))

	_, ok := tr.Lookup("a/c")
	assert.False(t, ok)

	_, ok = tr.Lookup("a")
	assert.False(t, ok)
}

func TestInsertPrefixOfExistingPath(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("abcdef", types.FileID(1)))
	require.NoError(t, tr.Insert("abc", types.FileID(2)))

	id, ok := tr.Lookup("abcdef")
	require.True(t, ok)
	assert.Equal(t, types.FileID(1), id)

	id, ok = tr.Lookup("abc")
	require.True(t, ok)
	assert.Equal(t, types.FileID(2), id)
}

func TestInsertSharedPrefixSplitsEdge(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("team", types.FileID(1)))
	require.NoError(t, tr.Insert("tea", types.FileID(2)))
	require.NoError(t, tr.Insert("ten", types.FileID(3)))

	cases := map[string]types.FileID{"team": 1, "tea": 2, "ten": 3}
	for path, want := range cases {
		got, ok := tr.Lookup(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
}

func TestReinsertOverwritesID(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("a/b.go", types.FileID(1)))
	require.NoError(t, tr.Insert("a/b.go", types.FileID(2)))

	id, ok := tr.Lookup("a/b.go")
	require.True(t, ok)
	assert.Equal(t, types.FileID(2), id)
}

func TestRemoveTombstonesPath(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("x/y.go", types.FileID(1)))

	assert.True(t, tr.Remove("x/y.go"))
	_, ok := tr.Lookup("x/y.go")
	assert.False(t, ok)

	// Re-inserting reuses the tombstoned node.
	require.NoError(t, tr.Insert("x/y.go", types.FileID(9)))
	id, ok := tr.Lookup("x/y.go")
	require.True(t, ok)
	assert.Equal(t, types.FileID(9), id)
}

func TestRemoveMissingReturnsFalse(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("x/y.go", types.FileID(1)))
	assert.False(t, tr.Remove("nope"))
}

func TestPrefixIDsCollectsSubtree(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("src/a.go", types.FileID(1)))
	require.NoError(t, tr.Insert("src/b.go", types.FileID(2)))
	require.NoError(t, tr.Insert("src/sub/c.go", types.FileID(3)))
	require.NoError(t, tr.Insert("other/d.go", types.FileID(4)))

	got := tr.PrefixIDs("src/")
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []types.FileID{1, 2, 3}, got)
}

func TestPrefixIDsNoMatch(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("src/a.go", types.FileID(1)))
	assert.Nil(t, tr.PrefixIDs("zzz"))
}

func TestPrefixIDsExcludesTombstoned(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert("src/a.go", types.FileID(1)))
	require.NoError(t, tr.Insert("src/b.go", types.FileID(2)))
	require.True(t, tr.Remove("src/a.go"))

	got := tr.PrefixIDs("src/")
	assert.Equal(t, []types.FileID{2}, got)
}

func TestInsertEmptyPathFails(t *testing.T) {
	tr := New()
	err := tr.Insert("", types.FileID(1))
	assert.Error(t, err)
}
