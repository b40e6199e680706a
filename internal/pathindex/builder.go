package pathindex

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/standardbeagle/qfind/internal/constants"
	"github.com/standardbeagle/qfind/internal/debug"
	"github.com/standardbeagle/qfind/internal/errors"
	"github.com/standardbeagle/qfind/internal/types"
)

// PathRecord is one (absolute_path, stat-info) tuple the external
// directory walker feeds into the builder. Depth is the record's
// distance from the walk root, used to enforce the directory-depth cap.
type PathRecord struct {
	Path  string
	Info  fs.FileInfo
	Depth int
}

// Builder consumes an ordered stream of PathRecords and populates an
// Index's trie, postings, bloom, and metadata — the one-shot full-build
// path spec.md §4.5 describes. The incremental path lives in Updater.
type Builder struct {
	idx *Index

	inserted int64
	skipped  int64
}

// NewBuilder creates a Builder targeting idx.
func NewBuilder(idx *Index) *Builder {
	return &Builder{idx: idx}
}

// Add processes one record: depth-cap, path-length, and file-type checks,
// metadata extraction, and the shared insertion pipeline. Hidden files are
// not filtered here. A skipped record (too
// deep, too long, or a non-regular/non-symlink entry) is not an error —
// it is logged and traversal continues, per spec.md §7.
func (b *Builder) Add(rec PathRecord) error {
	if rec.Depth > constants.MaxPathDepth {
		debug.LogBuild("skip %s: depth %d exceeds cap %d", rec.Path, rec.Depth, constants.MaxPathDepth)
		atomic.AddInt64(&b.skipped, 1)
		return nil
	}
	if len(rec.Path) > 4096 {
		debug.LogBuild("skip %s: path too long", rec.Path)
		atomic.AddInt64(&b.skipped, 1)
		return nil
	}
	if rec.Info == nil {
		debug.LogBuild("skip %s: missing stat info", rec.Path)
		atomic.AddInt64(&b.skipped, 1)
		return nil
	}
	mode := rec.Info.Mode()
	if !mode.IsRegular() && mode&fs.ModeSymlink == 0 {
		return nil
	}

	meta := metadataFromFileInfo(rec.Info)
	if _, err := b.idx.insertPath(rec.Path, meta); err != nil {
		atomic.AddInt64(&b.skipped, 1)
		return errors.NewBuildError("insert", err).WithFile(types.InvalidFileID, rec.Path)
	}
	atomic.AddInt64(&b.inserted, 1)
	return nil
}

// Close finalizes the build: triggers the inverted index's compression
// commit and sets the live-file gauge.
func (b *Builder) Close() error {
	if err := b.idx.commitPostings(); err != nil {
		return errors.NewBuildError("commit", err)
	}
	b.idx.metrics.SetIndexFiles(b.idx.liveFileCount())
	debug.LogBuild("build complete: %d inserted, %d skipped", b.inserted, b.skipped)
	return nil
}

// isHidden reports whether path's basename begins with '.', the hidden-
// file policy applied to create events (spec.md §4.6), not to the
// initial build.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// metadataFromFileInfo extracts mode/uid/gid/size/mtime from a
// fs.FileInfo, reading the platform-specific Stat_t for ownership where
// available and falling back to zero (root-owned) otherwise.
func metadataFromFileInfo(info fs.FileInfo) types.FileMetadata {
	meta := types.FileMetadata{
		Mode:    uint32(info.Mode().Perm()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if info.IsDir() {
		meta.Mode |= 1 << 31
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		meta.UID = st.Uid
		meta.GID = st.Gid
	}
	return meta
}
