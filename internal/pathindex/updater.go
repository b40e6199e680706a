// Updater implements the incremental-update batcher of spec.md §4.6: a
// single long-lived background thread that drains a filesystem-event
// stream into path-keyed pending-adds/pending-deletes batches and merges
// them into the index once a threshold or ticker fires. Grounded on the
// teacher's internal/indexing/debounced_rebuilder.go for the
// ticker-driven background-thread shape, generalized from "debounce a
// full rebuild" to "batch discrete add/delete events."
package pathindex

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"

	"github.com/standardbeagle/qfind/internal/errors"
	"github.com/standardbeagle/qfind/internal/types"
	"github.com/standardbeagle/qfind/internal/watch"
)

type pendingKind int

const (
	pendingAdd pendingKind = iota
	pendingDelete
)

type pendingRecord struct {
	kind       pendingKind
	path       string
	superseded bool
}

// pendingBatch is a path-keyed append-at-tail, drain-from-head queue: a
// later event for the same path marks the earlier one superseded rather
// than scanning to remove it, so both push and drain stay O(1) amortized.
type pendingBatch struct {
	mu      sync.Mutex
	q       *deque.Deque
	byPath  map[string]*pendingRecord
}

func newPendingBatch() *pendingBatch {
	return &pendingBatch{
		q:      deque.New(),
		byPath: make(map[string]*pendingRecord),
	}
}

func (b *pendingBatch) push(kind pendingKind, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.byPath[path]; ok {
		old.superseded = true
	}
	rec := &pendingRecord{kind: kind, path: path}
	b.byPath[path] = rec
	b.q.PushBack(rec)
}

func (b *pendingBatch) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byPath)
}

// drain snapshots all live (non-superseded) records and resets the
// batch, popping every queued record off the deque and replacing the
// path map.
func (b *pendingBatch) drain() []*pendingRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	live := make([]*pendingRecord, 0, len(b.byPath))
	for b.q.Len() > 0 {
		rec := b.q.PopFront().(*pendingRecord)
		if !rec.superseded {
			live = append(live, rec)
		}
	}
	b.byPath = make(map[string]*pendingRecord)
	return live
}

// Updater is the single long-lived background thread owned process for
// spec.md §4.6/§5. It is created by NewUpdater and stopped by Stop,
// matching SPEC_FULL §9's "owned value, not global state" resolution.
type Updater struct {
	idx   *Index
	cache *watch.PathCache
	log   zerolog.Logger

	adds    *pendingBatch
	deletes *pendingBatch

	threshold int
	interval  time.Duration

	events <-chan watch.Event
	done   chan struct{}
	wg     sync.WaitGroup
	running atomic.Bool
}

// NewUpdater creates an Updater draining events into idx, resolving
// paths through cache.
func NewUpdater(idx *Index, cache *watch.PathCache, events <-chan watch.Event, threshold int, interval time.Duration, logger zerolog.Logger) *Updater {
	return &Updater{
		idx:       idx,
		cache:     cache,
		log:       logger.With().Str("component", "update_batcher").Logger(),
		adds:      newPendingBatch(),
		deletes:   newPendingBatch(),
		threshold: threshold,
		interval:  interval,
		events:    events,
		done:      make(chan struct{}),
	}
}

// Start launches the background thread. It blocks on the event stream
// with a ticker ceiling, draining events into pending batches and
// triggering CommitUpdates when a batch crosses threshold.
func (u *Updater) Start() {
	u.running.Store(true)
	u.wg.Add(1)
	go u.run()
}

func (u *Updater) run() {
	defer u.wg.Done()
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-u.done:
			return
		case ev, ok := <-u.events:
			if !ok {
				return
			}
			u.handleEvent(ev)
			if u.adds.len() >= u.threshold || u.deletes.len() >= u.threshold {
				if err := u.CommitUpdates(); err != nil {
					u.log.Error().Err(err).Msg("commit-updates failed")
				}
			}
		case <-ticker.C:
			if err := u.CommitUpdates(); err != nil {
				u.log.Error().Err(err).Msg("periodic commit-updates failed")
			}
		}
	}
}

func (u *Updater) handleEvent(ev watch.Event) {
	switch ev.Kind {
	case watch.EventCreate:
		if isHidden(ev.Path) {
			u.log.Debug().Str("path", ev.Path).Msg("ignoring hidden-file create")
			return
		}
		u.adds.push(pendingAdd, ev.Path)
	case watch.EventModify:
		u.adds.push(pendingAdd, ev.Path)
	case watch.EventDelete, watch.EventRename:
		u.deletes.push(pendingDelete, ev.Path)
	}
}

// CommitUpdates atomically snaps both pending batches, applies adds
// (running the same insertion pipeline the builder uses) and deletes
// (tombstoning metadata), then re-runs the postings compression pass.
func (u *Updater) CommitUpdates() error {
	start := time.Now()
	defer func() {
		u.idx.metrics.ObserveCommit(time.Since(start))
	}()

	addRecs := u.adds.drain()
	delRecs := u.deletes.drain()
	if len(addRecs) == 0 && len(delRecs) == 0 {
		return nil
	}

	var agg error
	for _, rec := range delRecs {
		id, ok := u.idx.removePath(rec.path)
		if ok {
			u.cache.Forget(rec.path)
			u.log.Debug().Str("path", rec.path).Uint64("id", uint64(id)).Msg("tombstoned")
		}
	}

	for _, rec := range addRecs {
		info, err := os.Lstat(rec.path)
		if err != nil {
			agg = errors.Append(agg, errors.NewFileError("lstat", rec.path, err))
			continue
		}
		meta := metadataFromFileInfo(info)
		id, err := u.idx.insertPath(rec.path, meta)
		if err != nil {
			agg = errors.Append(agg, errors.NewBuildError("update-insert", err).WithFile(types.InvalidFileID, rec.path))
			continue
		}
		u.cache.Bind(rec.path, id)
	}

	if err := u.idx.commitPostings(); err != nil {
		agg = errors.Append(agg, errors.NewBuildError("update-commit", err))
	}

	u.idx.metrics.SetIndexFiles(u.idx.liveFileCount())
	u.log.Info().Int("adds", len(addRecs)).Int("deletes", len(delRecs)).Dur("elapsed", time.Since(start)).Msg("commit-updates")
	return agg
}

// Stop cancels the background thread, joins it, then runs one final
// commit-updates to flush anything staged since the last tick, matching
// spec.md §5's cancellation contract.
func (u *Updater) Stop() error {
	if !u.running.CompareAndSwap(true, false) {
		return nil
	}
	close(u.done)
	u.wg.Wait()
	return u.CommitUpdates()
}
