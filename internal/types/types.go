// Package types defines the identifiers and metadata shared across the
// index: the file-id space, path/stat tuples, and permission bits used by
// the query pipeline's permission filter.
package types

import "time"

// FileID uniquely and permanently identifies an indexed path. Once
// assigned, an id never rebinds to a different path for the lifetime of
// the index; a path that is removed and re-added later receives the same
// id it had before if the index still remembers it, otherwise a new one.
type FileID uint64

// InvalidFileID is the sentinel returned by lookups that find nothing.
const InvalidFileID FileID = 0

// FileMetadata is the (path, stat) tuple the builder and updater record
// for every indexed file. No file content is ever read or stored here.
type FileMetadata struct {
	ID      FileID
	Path    string
	Mode    uint32 // POSIX permission bits, e.g. os.FileMode&0777 plus file-type bits
	UID     uint32
	GID     uint32
	Size    int64
	ModTime time.Time

	// Tombstone marks a file removed from the filesystem but not yet
	// compacted out of the posting lists and trie.
	Tombstone bool
}

// IsDir reports whether the stat'd entry was a directory at index time.
func (m FileMetadata) IsDir() bool {
	const modeDir = 1 << 31
	return m.Mode&modeDir != 0
}

// QueryCredential is the (uid, gid) pair a search is run as. A result is
// visible only if the caller's uid matches the file's owner, or the
// caller's gid matches the file's group, or the file grants the
// corresponding "other" bit.
type QueryCredential struct {
	UID uint32
	GID uint32
}

// CanAccess reports whether cred can see a file with the given owner
// uid/gid and POSIX mode bits. The three classes are checked
// independently or, not in owner/group/other precedence order: a
// world-readable file is visible regardless of ownership, even to a
// caller whose uid happens to match the owner but who lacks the owner
// read bit.
func CanAccess(mode uint32, fileUID, fileGID uint32, cred QueryCredential) bool {
	const (
		ownerRead = 0o400
		groupRead = 0o040
		otherRead = 0o004
	)
	if cred.UID == 0 {
		return true // root sees everything
	}
	if mode&otherRead != 0 {
		return true
	}
	if fileUID == cred.UID && mode&ownerRead != 0 {
		return true
	}
	if fileGID == cred.GID && mode&groupRead != 0 {
		return true
	}
	return false
}
