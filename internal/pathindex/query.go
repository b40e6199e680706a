// Query pipeline: spec.md §4.7/§4.8. Trigram extraction feeds a bloom
// gate, a bounded-parallel posting-list decode/intersect across the
// query's trigram set, a permission filter, and TF-IDF-like relevance
// ranking. Queries shorter than three bytes bypass postings entirely and
// are answered directly from the path trie.
//
// Grounded on the teacher's master_index_search.go for the overall
// extract → gate → scan → rank shape, generalized from symbol search to
// path search, and on golang.org/x/sync/semaphore for bounding the
// parallel posting scan to worker-thread-cap, the same primitive the
// teacher's own test suite uses for bounded concurrency
// (internal/mcp/integration_test.go).
package pathindex

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/standardbeagle/qfind/internal/debug"
	"github.com/standardbeagle/qfind/internal/errors"
	"github.com/standardbeagle/qfind/internal/metrics"
	"github.com/standardbeagle/qfind/internal/trigram"
	"github.com/standardbeagle/qfind/internal/types"
)

// scoreThreshold is the minimum relevance score a candidate must clear
// to appear in results (spec.md §4.7).
const scoreThreshold = 0.25

// QueryContext is the caller-supplied query: pattern, matching mode,
// result cap, and the credential the permission filter gates against.
type QueryContext struct {
	Pattern         string
	CaseInsensitive bool
	MaxResults      int
	Credential      types.QueryCredential
}

// Result is one ranked, permission-filtered search hit.
type Result struct {
	FileID types.FileID
	Path   string
	Score  float64
}

// Search runs the full query pipeline against idx and returns results
// sorted by descending relevance, ascending file id on ties.
func (idx *Index) Search(q QueryContext) ([]Result, error) {
	if q.Pattern == "" {
		return nil, errors.NewQueryError(q.Pattern, fmt.Errorf("empty query pattern"))
	}
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = 10000
	}

	queryTrigrams := trigram.ExtractUnique(q.Pattern, q.CaseInsensitive)
	if len(queryTrigrams) == 0 {
		idx.metrics.ObserveQuery(metrics.OutcomeTrie)
		return idx.searchTrie(q, maxResults)
	}

	for _, t := range queryTrigrams {
		b := t.Bytes()
		if !idx.bloom.Check(b[:]) {
			idx.metrics.ObserveQuery(metrics.OutcomeBloomNegative)
			return nil, nil
		}
	}
	for _, t := range queryTrigrams {
		b := t.Bytes()
		idx.bloom.UpdateSecondary(b[:])
	}
	idx.metrics.ObserveQuery(metrics.OutcomeTrigram)

	matches, err := idx.intersectPostings(queryTrigrams)
	if err != nil {
		return nil, errors.NewQueryError(q.Pattern, err)
	}

	results := idx.scoreAndFilter(matches, queryTrigrams, q)
	sortResults(results)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// searchTrie answers queries shorter than three bytes directly from the
// path trie (spec.md §4.8), the sole evaluator for such patterns.
func (idx *Index) searchTrie(q QueryContext, maxResults int) ([]Result, error) {
	idx.mu.RLock()
	ids := idx.trie.PrefixIDs(q.Pattern)
	idx.mu.RUnlock()

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		meta, ok := idx.metadataFor(id)
		if !ok || meta.Tombstone {
			continue
		}
		if !types.CanAccess(meta.Mode, meta.UID, meta.GID, q.Credential) {
			continue
		}
		results = append(results, Result{FileID: id, Path: meta.Path, Score: 1})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// candidateHit accumulates, per file id, how many distinct query
// trigrams matched and that trigram's per-file occurrence counts (for
// the tf term).
type candidateHit struct {
	matchedTrigrams int
	tf              map[trigram.Trigram]uint32
}

// intersectPostings decodes every query trigram's posting list (bounded
// parallelism via semaphore) and returns the ids that matched all of
// them, along with the per-trigram term frequency needed for scoring.
func (idx *Index) intersectPostings(queryTrigrams []trigram.Trigram) (map[types.FileID]*candidateHit, error) {
	workerCap := idx.cfg.WorkerThreadCap
	if workerCap <= 0 {
		workerCap = runtime.NumCPU()
	}
	if n := runtime.NumCPU(); n < workerCap {
		workerCap = n
	}
	sem := semaphore.NewWeighted(int64(workerCap))
	ctx := context.Background()

	type decoded struct {
		t        trigram.Trigram
		ids      []types.FileID
		termFreq map[types.FileID]uint32
	}

	results := make([]decoded, len(queryTrigrams))
	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	for i, t := range queryTrigrams {
		if err := sem.Acquire(ctx, 1); err != nil {
			errMu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			errMu.Unlock()
			continue
		}
		wg.Add(1)
		go func(i int, t trigram.Trigram) {
			defer wg.Done()
			defer sem.Release(1)
			ids, termFreq, _, ok := idx.postings.Decode(t)
			idx.metrics.ObservePostingsDecoded()
			if !ok {
				results[i] = decoded{t: t}
				return
			}
			results[i] = decoded{t: t, ids: ids, termFreq: termFreq}
		}(i, t)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	hits := make(map[types.FileID]*candidateHit)
	for _, d := range results {
		for _, id := range d.ids {
			h, ok := hits[id]
			if !ok {
				h = &candidateHit{tf: make(map[trigram.Trigram]uint32)}
				hits[id] = h
			}
			h.matchedTrigrams++
			h.tf[d.t] = d.termFreq[id]
		}
	}

	matched := make(map[types.FileID]*candidateHit, len(hits))
	for id, h := range hits {
		if h.matchedTrigrams == len(queryTrigrams) {
			matched[id] = h
		}
	}
	return matched, nil
}

// scoreAndFilter applies the permission filter and relevance scorer to
// every candidate, dropping tombstoned files, permission failures, and
// scores below scoreThreshold.
func (idx *Index) scoreAndFilter(matches map[types.FileID]*candidateHit, queryTrigrams []trigram.Trigram, q QueryContext) []Result {
	n := idx.totalFileCount()
	var results []Result

	for id, hit := range matches {
		meta, ok := idx.metadataFor(id)
		if !ok || meta.Tombstone {
			continue
		}
		if !types.CanAccess(meta.Mode, meta.UID, meta.GID, q.Credential) {
			continue
		}

		pathLen := len(meta.Path)
		if pathLen <= trigram.Size-1 {
			continue
		}
		var sum float64
		for _, t := range queryTrigrams {
			tf := float64(hit.tf[t]) / float64(pathLen-2)
			docFreq := idx.postings.DocFrequency(t)
			idf := math.Log(float64(n) / float64(docFreq+1))
			sum += tf * idf
		}
		score := sum / math.Sqrt(float64(pathLen))
		if score < scoreThreshold {
			continue
		}
		results = append(results, Result{FileID: id, Path: meta.Path, Score: score})
	}
	debug.LogQuery("scored %d candidates into %d results above threshold", len(matches), len(results))
	return results
}

// sortResults orders by descending score, ascending file id on ties
// (SPEC_FULL §9 resolution 4).
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].FileID < results[j].FileID
	})
}
