// Package watch adapts fsnotify into the abstract filesystem-event stream
// the update batcher consumes, plus the path→id cache the batcher alone
// owns. Grounded on the teacher's internal/indexing/watcher.go
// (FileWatcher, addWatches' symlink-cycle guard, shouldIgnoreDirectory)
// and deleted_file_tracker.go's lock-free copy-on-write pattern, adapted
// from a code-search watcher to a path-only one: no file content is ever
// read here, only directory-walk and fsnotify events.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/qfind/internal/constants"
	"github.com/standardbeagle/qfind/internal/debug"
	"github.com/standardbeagle/qfind/internal/types"
)

// EventKind classifies a filesystem-event stream entry.
type EventKind int

const (
	EventCreate EventKind = iota
	EventModify
	EventDelete
	EventRename
)

// Event is one filesystem-event stream entry.
type Event struct {
	Kind EventKind
	Path string
}

// PathCache is the update batcher's private map[string]FileID — the
// index proper never reads it. Safe for concurrent use.
type PathCache struct {
	mu    sync.RWMutex
	byID  map[types.FileID]string
	byPth map[string]types.FileID
}

// NewPathCache creates an empty path→id cache.
func NewPathCache() *PathCache {
	return &PathCache{
		byID:  make(map[types.FileID]string),
		byPth: make(map[string]types.FileID),
	}
}

// Lookup returns the id previously bound to path, if any.
func (c *PathCache) Lookup(path string) (types.FileID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byPth[path]
	return id, ok
}

// Bind records path's id, replacing any id previously bound to path.
func (c *PathCache) Bind(path string, id types.FileID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byPth[path] = id
	c.byID[id] = path
}

// PathOf returns the path bound to id, if any.
func (c *PathCache) PathOf(id types.FileID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// Forget removes path's binding entirely. The update batcher calls it
// each time a delete tombstones path in the index.
func (c *PathCache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.byPth[path]; ok {
		delete(c.byID, id)
		delete(c.byPth, path)
	}
}

// Watcher is an fsnotify-backed adapter emitting Events for a recursively
// watched root, honoring include/exclude glob filters.
type Watcher struct {
	fsw     *fsnotify.Watcher
	root    string
	include []string
	exclude []string

	events chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Watcher rooted at root, recursively registering watches
// on every directory not matched by exclude.
func New(root string, include, exclude []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		root:    root,
		include: include,
		exclude: exclude,
		events:  make(chan Event, 256),
	}

	if err := w.addWatches(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// addWatches walks root and registers a watch on every directory,
// following the teacher's symlink-cycle guard: each resolved real path is
// visited at most once, and depth is capped to guard against pathological
// trees.
func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]struct{})
	return w.walkDir(root, visited, 0)
}

func (w *Watcher) walkDir(dir string, visited map[string]struct{}, depth int) error {
	if depth > constants.MaxPathDepth {
		return nil
	}

	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil // unreadable or dangling symlink; skip rather than fail the whole walk
	}
	if _, seen := visited[real]; seen {
		return nil
	}
	visited[real] = struct{}{}

	if w.shouldIgnoreDirectory(dir) {
		return nil
	}

	if err := w.fsw.Add(dir); err != nil {
		debug.LogWatch("add watch failed for %s: %v", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := w.walkDir(filepath.Join(dir, entry.Name()), visited, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) shouldIgnoreDirectory(dir string) bool {
	rel, err := filepath.Rel(w.root, dir)
	if err != nil {
		rel = dir
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) matchesInclude(path string) bool {
	if len(w.include) == 0 {
		return true
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.include {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Start begins translating fsnotify events into Events on w.Events()
// until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(fsEvent)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.LogWatch("fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) handle(fsEvent fsnotify.Event) {
	if w.shouldIgnoreDirectory(filepath.Dir(fsEvent.Name)) {
		return
	}
	if !w.matchesInclude(fsEvent.Name) {
		return
	}

	var kind EventKind
	switch {
	case fsEvent.Op&fsnotify.Create != 0:
		kind = EventCreate
		if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
			w.addWatches(fsEvent.Name)
		}
	case fsEvent.Op&fsnotify.Write != 0:
		kind = EventModify
	case fsEvent.Op&fsnotify.Remove != 0:
		kind = EventDelete
	case fsEvent.Op&fsnotify.Rename != 0:
		kind = EventRename
	default:
		return
	}

	select {
	case w.events <- Event{Kind: kind, Path: fsEvent.Name}:
	default:
		debug.LogWatch("event channel full, dropping event for %s", fsEvent.Name)
	}
}

// Events returns the channel Events are delivered on.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop halts the watcher and releases its fsnotify handle.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	return w.fsw.Close()
}
