package pathindex

import (
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/qfind/internal/types"
)

// metadataStore owns the file-id → metadata mapping and the path → id
// binding used to detect re-sighted paths. Created on first sighting,
// mutated only by the builder and the update committer, matching the
// spec's ownership rule for the metadata vector.
type metadataStore struct {
	mu       sync.RWMutex
	byID     map[types.FileID]*types.FileMetadata
	byPath   map[string]types.FileID
	nextID   uint64
	liveDirs int
}

func newMetadataStore() *metadataStore {
	return &metadataStore{
		byID:   make(map[types.FileID]*types.FileMetadata),
		byPath: make(map[string]types.FileID),
	}
}

// assignID returns the next free id, monotonically increasing, skipping
// the reserved InvalidFileID sentinel.
func (s *metadataStore) assignID() types.FileID {
	return types.FileID(atomic.AddUint64(&s.nextID, 1))
}

// lookupPath returns the id already bound to path, if any.
func (s *metadataStore) lookupPath(path string) (types.FileID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPath[path]
	return id, ok
}

// record stores (or overwrites) a metadata entry, binding path to id for
// future re-sightings. Reviving a tombstone clears the tombstone flag.
func (s *metadataStore) record(meta types.FileMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := meta
	s.byID[meta.ID] = &cp
	s.byPath[meta.Path] = meta.ID
}

// get returns a copy of the metadata for id.
func (s *metadataStore) get(id types.FileID) (types.FileMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return types.FileMetadata{}, false
	}
	return *m, true
}

// tombstone marks the metadata for path as deleted, clearing its path
// field per the spec's "mark metadata tombstoned (clear path)" rule, and
// releases the path→id binding so a future create reuses a fresh id.
func (s *metadataStore) tombstone(path string) (types.FileID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPath[path]
	if !ok {
		return types.InvalidFileID, false
	}
	if m, ok := s.byID[id]; ok {
		m.Tombstone = true
		m.Path = ""
	}
	delete(s.byPath, path)
	return id, true
}

// liveCount returns the number of non-tombstoned entries.
func (s *metadataStore) liveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.byID {
		if !m.Tombstone {
			n++
		}
	}
	return n
}

// totalCount returns every ever-assigned id, tombstoned or not, the N
// used as idf's total-document denominator.
func (s *metadataStore) totalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
