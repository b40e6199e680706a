package pathindex

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSkipsPathBeyondDepthCap(t *testing.T) {
	idx := newTestIndex(t)
	b := NewBuilder(idx)
	require.NoError(t, b.Add(PathRecord{Path: "/too/deep", Info: worldReadableFile(0, 0), Depth: 1000}))
	require.NoError(t, b.Close())
	assert.EqualValues(t, 0, b.inserted)
	assert.EqualValues(t, 1, b.skipped)
}

func TestBuilderSkipsDirectories(t *testing.T) {
	idx := newTestIndex(t)
	b := NewBuilder(idx)
	dirInfo := worldReadableFile(0, 0)
	dirInfo.mode |= fs.ModeDir
	require.NoError(t, b.Add(PathRecord{Path: "/a/dir", Info: dirInfo}))
	require.NoError(t, b.Close())
	assert.EqualValues(t, 0, b.inserted)
}

func TestBuilderDuplicatePathReusesID(t *testing.T) {
	idx := newTestIndex(t)
	b := NewBuilder(idx)
	require.NoError(t, b.Add(PathRecord{Path: "/a/file", Info: worldReadableFile(0, 0)}))
	require.NoError(t, b.Add(PathRecord{Path: "/a/file", Info: worldReadableFile(0, 0)}))
	require.NoError(t, b.Close())

	assert.EqualValues(t, 2, b.inserted)
	id, ok := idx.meta.lookupPath("/a/file")
	require.True(t, ok)
	assert.EqualValues(t, 1, id)
}

func TestBuilderSkipsMissingStatInfo(t *testing.T) {
	idx := newTestIndex(t)
	b := NewBuilder(idx)
	require.NoError(t, b.Add(PathRecord{Path: "/no/info"}))
	require.NoError(t, b.Close())
	assert.EqualValues(t, 0, b.inserted)
	assert.EqualValues(t, 1, b.skipped)
}
