// Package postings implements the trigram inverted index: a sharded,
// open-addressed table from trigram to posting list, with Golomb-Rice
// delta coding and a reusable s2 compression context for the committed
// form each query decodes from.
//
// Grounded on inverted_index.c (golomb_rice_encode/decode,
// compress_posting_lists) and the teacher's trigram_sharded_storage.go
// (per-bucket mutex, parallel merge across shards).
package postings

import (
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/standardbeagle/qfind/internal/trigram"
	"github.com/standardbeagle/qfind/internal/types"
)

// ShardCount is the number of independent shards the trigram space is
// partitioned into, each with its own mutex so unrelated trigrams never
// contend with each other during build or query.
const ShardCount = 64

type shard struct {
	mu    sync.Mutex
	table *openTable
}

// Index is the sharded trigram inverted index.
type Index struct {
	shards [ShardCount]*shard
	codec  *writerCodec // commit path only; see writerCodec doc
}

// New creates an empty inverted index.
func New() *Index {
	idx := &Index{codec: newWriterCodec()}
	for i := range idx.shards {
		idx.shards[i] = &shard{table: newOpenTable()}
	}
	return idx
}

func (idx *Index) shardFor(t trigram.Trigram) *shard {
	return idx.shards[hashTrigram(t)%ShardCount]
}

// AddFile records one occurrence of t in id's live working set.
func (idx *Index) AddFile(t trigram.Trigram, id types.FileID) {
	s := idx.shardFor(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.table.getOrCreate(t)
	e.freq[id]++
}

// RemoveFile drops id from t's live working set entirely (not just one
// occurrence), used when a file is deleted or being re-indexed from
// scratch.
func (idx *Index) RemoveFile(t trigram.Trigram, id types.FileID) {
	s := idx.shardFor(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.table.get(t); ok {
		delete(e.freq, id)
	}
}

// Commit encodes every shard's live working set into its compressed
// form, making it visible to Decode. Per-entry encode failures are
// aggregated with go-multierror rather than aborting the whole pass.
func (idx *Index) Commit() error {
	var agg *multierror.Error
	for _, s := range idx.shards {
		s.mu.Lock()
		s.table.forEach(func(_ trigram.Trigram, e *entry) {
			ids := sortedKeys(e.freq)
			compressed, err := encodePostings(idx.codec, ids)
			if err != nil {
				agg = multierror.Append(agg, err)
				return
			}
			e.compressed = compressed
			e.docFreq = len(ids)
		})
		s.mu.Unlock()
	}
	if agg == nil {
		return nil
	}
	return agg.ErrorOrNil()
}

// Decode returns the committed posting list for t — the sorted id list
// and each id's term frequency from the live working set — along with its
// document frequency as of the last Commit.
// ok is false if t has never been committed (unseen trigram). This is the
// path the query pipeline's parallel sharded scan exercises once per
// candidate trigram; each call is one "postings decoded" event.
func (idx *Index) Decode(t trigram.Trigram) (ids []types.FileID, termFreq map[types.FileID]uint32, docFreq int, ok bool) {
	s := idx.shardFor(t)
	s.mu.Lock()
	e, found := s.table.get(t)
	if !found || e.compressed == nil {
		s.mu.Unlock()
		return nil, nil, 0, false
	}
	compressed := e.compressed
	docFreq = e.docFreq
	freqCopy := make(map[types.FileID]uint32, len(e.freq))
	for id, f := range e.freq {
		freqCopy[id] = f
	}
	s.mu.Unlock()

	decoded, err := decodePostings(compressed)
	if err != nil {
		return nil, nil, 0, false
	}
	return decoded, freqCopy, docFreq, true
}

// DocFrequency reports t's document frequency as of the last Commit (the
// number of distinct ids in its posting list, including ids of files
// tombstoned since, whose postings are left in place) without decoding
// its compressed postings, for use by the relevance scorer's idf term.
func (idx *Index) DocFrequency(t trigram.Trigram) int {
	s := idx.shardFor(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.table.get(t); ok {
		return e.docFreq
	}
	return 0
}

// TrigramCount reports the number of distinct trigrams currently tracked
// across all shards, for metrics.
func (idx *Index) TrigramCount() int {
	total := 0
	for _, s := range idx.shards {
		s.mu.Lock()
		total += s.table.count
		s.mu.Unlock()
	}
	return total
}
