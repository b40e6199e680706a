package pathindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/qfind/internal/types"
)

func TestMetadataStoreAssignIDMonotonic(t *testing.T) {
	s := newMetadataStore()
	a := s.assignID()
	b := s.assignID()
	assert.NotEqual(t, a, b)
	assert.Less(t, uint64(a), uint64(b))
}

func TestMetadataStoreRecordAndGet(t *testing.T) {
	s := newMetadataStore()
	id := s.assignID()
	s.record(types.FileMetadata{ID: id, Path: "/a/b", Mode: 0o644})

	got, ok := s.get(id)
	require.True(t, ok)
	assert.Equal(t, "/a/b", got.Path)

	lookedUp, ok := s.lookupPath("/a/b")
	require.True(t, ok)
	assert.Equal(t, id, lookedUp)
}

func TestMetadataStoreTombstone(t *testing.T) {
	s := newMetadataStore()
	id := s.assignID()
	s.record(types.FileMetadata{ID: id, Path: "/a/b"})

	tid, ok := s.tombstone("/a/b")
	require.True(t, ok)
	assert.Equal(t, id, tid)

	_, ok = s.lookupPath("/a/b")
	assert.False(t, ok)

	got, ok := s.get(id)
	require.True(t, ok)
	assert.True(t, got.Tombstone)
	assert.Empty(t, got.Path)
}

func TestMetadataStoreLiveAndTotalCount(t *testing.T) {
	s := newMetadataStore()
	id1 := s.assignID()
	s.record(types.FileMetadata{ID: id1, Path: "/a"})
	id2 := s.assignID()
	s.record(types.FileMetadata{ID: id2, Path: "/b"})

	assert.Equal(t, 2, s.totalCount())
	assert.Equal(t, 2, s.liveCount())

	s.tombstone("/a")
	assert.Equal(t, 2, s.totalCount())
	assert.Equal(t, 1, s.liveCount())
}

func TestMetadataStoreTombstoneUnknownPath(t *testing.T) {
	s := newMetadataStore()
	_, ok := s.tombstone("/never/seen")
	assert.False(t, ok)
}
