package pathindex

import (
	"io/fs"
	"syscall"
	"time"
)

// fakeFileInfo is a minimal fs.FileInfo the tests construct directly,
// since the builder/updater accept stat results from an external walker
// rather than stat'ing paths themselves.
type fakeFileInfo struct {
	name    string
	mode    fs.FileMode
	size    int64
	modTime time.Time
	uid     uint32
	gid     uint32
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return f.modTime }
func (f fakeFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeFileInfo) Sys() any           { return &syscall.Stat_t{Uid: f.uid, Gid: f.gid} }

func worldReadableFile(uid, gid uint32) fakeFileInfo {
	return fakeFileInfo{mode: 0o644, uid: uid, gid: gid, modTime: time.Unix(0, 0)}
}
