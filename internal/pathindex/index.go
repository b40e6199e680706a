// Package pathindex wires the leaf data structures — internal/bloom,
// internal/trigram, internal/pathtrie, internal/postings — into the
// single index the builder populates, the updater keeps coherent, and
// the query pipeline searches. Grounded on the teacher's
// internal/indexing/master_index.go, which plays the same "owns
// everything, exposes Search/IndexFile/UpdateFile" role for its own
// trigram+symbol index.
package pathindex

import (
	"sync"

	"github.com/standardbeagle/qfind/internal/bloom"
	"github.com/standardbeagle/qfind/internal/config"
	"github.com/standardbeagle/qfind/internal/metrics"
	"github.com/standardbeagle/qfind/internal/pathtrie"
	"github.com/standardbeagle/qfind/internal/postings"
	"github.com/standardbeagle/qfind/internal/trigram"
	"github.com/standardbeagle/qfind/internal/types"
)

// Index owns the bloom filter, path trie, inverted index, and file
// metadata for one project root. It is safe for concurrent use: the
// trie and metadata are guarded by mu (readers: queries; writers:
// builder and update committer), while the postings table manages its
// own per-shard locking internally.
type Index struct {
	mu sync.RWMutex

	cfg      *config.Config
	bloom    *bloom.DualBloomFilter
	trie     *pathtrie.Trie
	postings *postings.Index
	meta     *metadataStore

	metrics *metrics.Collectors
}

// New creates an empty Index sized per cfg. metricsCollectors may be nil,
// in which case observations are silently dropped (the default for
// tests, per SPEC_FULL §4.9).
func New(cfg *config.Config, metricsCollectors *metrics.Collectors) *Index {
	return &Index{
		cfg:      cfg,
		bloom:    bloom.New(cfg.BloomPrimaryBits, cfg.BloomSecondaryBits, cfg.BloomHashFuncs, 0),
		trie:     pathtrie.New(),
		postings: postings.New(),
		meta:     newMetadataStore(),
		metrics:  metricsCollectors,
	}
}

// insertPath is the shared insertion pipeline the builder and the
// updater's add path both run: assign-or-reuse an id, record metadata,
// insert into the trie, append trigrams to postings and bloom.
//
// Duplicate-path adds reuse the existing id (SPEC_FULL §9 resolution 1):
// a re-sighted path never rebinds to a new id.
func (idx *Index) insertPath(path string, meta types.FileMetadata) (types.FileID, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	id, existing := idx.meta.lookupPath(path)
	if !existing {
		id = idx.meta.assignID()
	}
	meta.ID = id
	meta.Path = path
	meta.Tombstone = false
	idx.meta.record(meta)

	if err := idx.trie.Insert(path, id); err != nil {
		return id, err
	}

	// Extract with duplicates (not ExtractUnique): AddFile increments a
	// per-file occurrence count, which the relevance scorer's tf term
	// reads back via postings.Decode.
	for _, t := range trigram.Extract(path, idx.cfg.CaseInsensitive) {
		idx.postings.AddFile(t, id)
		b := t.Bytes()
		idx.bloom.Add(b[:])
	}

	return id, nil
}

// removePath tombstones the metadata bound to path, if any. Postings are
// left untouched — stale ids are filtered at query time by the metadata
// check, per spec.md §4.6.
func (idx *Index) removePath(path string) (types.FileID, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.meta.tombstone(path)
}

// commitPostings seals the inverted index's mutable posting buffers.
func (idx *Index) commitPostings() error {
	return idx.postings.Commit()
}

// metadataFor returns a copy of id's metadata.
func (idx *Index) metadataFor(id types.FileID) (types.FileMetadata, bool) {
	return idx.meta.get(id)
}

// liveFileCount returns the number of non-tombstoned files, for the
// idf denominator and the qfind_index_files gauge.
func (idx *Index) liveFileCount() int {
	return idx.meta.liveCount()
}

// LiveFileCount is the exported form of liveFileCount, for callers
// outside the package (cmd/qfind's post-build summary).
func (idx *Index) LiveFileCount() int {
	return idx.liveFileCount()
}

// totalFileCount returns every id ever assigned, tombstoned or not.
func (idx *Index) totalFileCount() int {
	return idx.meta.totalCount()
}
