// Package pathtrie implements an edge-compressed (radix) trie over path
// bytes, backed by a flat arena of nodes addressed by uint32 index
// instead of pointers. Each node owns up to 256 children, one per leading
// edge byte, so a single node can dispatch to any child in O(1). An edge
// holds the byte sequence shared by every path below it; runs of a
// repeated byte are stored as plain edge bytes, with no separate
// run-length edge kind.
//
// Grounded on qfind.h's trie_node_t (key, is_end, file_id, children[256],
// num_children) re-expressed as an arena-of-structs the way the teacher's
// internal/alloc package avoids per-node heap churn: nodes live in one
// growable slice, children reference siblings by index, and the trie
// never holds a node pointer across a mutation that might reallocate the
// arena.
package pathtrie

import (
	"github.com/standardbeagle/qfind/internal/errors"
	"github.com/standardbeagle/qfind/internal/types"
)

// nilIndex marks the absence of a child or a lookup miss.
const nilIndex uint32 = 0xFFFFFFFF

// rootIndex is always the first arena slot.
const rootIndex uint32 = 0

type node struct {
	edge     []byte
	children [256]uint32
	fileID   types.FileID
	isLeaf   bool
}

func newNode(edge []byte) node {
	n := node{edge: edge}
	for i := range n.children {
		n.children[i] = nilIndex
	}
	return n
}

// Trie is a radix trie over path bytes mapping complete paths to FileIDs.
// It is not safe for concurrent use without external synchronization;
// callers (the index builder and updater) already hold the appropriate
// lock when mutating it.
type Trie struct {
	arena []node
}

// New creates an empty trie with just its root node.
func New() *Trie {
	return &Trie{arena: []node{newNode(nil)}}
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// Insert associates path with id, creating and splitting edges as needed.
// Re-inserting an existing path overwrites its id (the caller is
// responsible for id-stability policy — see internal/pathindex).
func (t *Trie) Insert(path string, id types.FileID) error {
	if len(path) == 0 {
		return errors.NewPathTooLongError(path, 1, 0)
	}

	remaining := []byte(path)
	cur := rootIndex

	for {
		if len(remaining) == 0 {
			t.arena[cur].isLeaf = true
			t.arena[cur].fileID = id
			return nil
		}

		childIdx := t.arena[cur].children[remaining[0]]
		if childIdx == nilIndex {
			leaf := newNode(append([]byte(nil), remaining...))
			leaf.isLeaf = true
			leaf.fileID = id
			t.arena = append(t.arena, leaf)
			newIdx := uint32(len(t.arena) - 1)
			t.arena[cur].children[remaining[0]] = newIdx
			return nil
		}

		edge := t.arena[childIdx].edge
		cpl := commonPrefixLen(edge, remaining)

		if cpl == len(edge) {
			// Edge fully consumed; descend into the child.
			cur = childIdx
			remaining = remaining[cpl:]
			continue
		}

		// Partial match: split the child's edge at cpl.
		splitEdge := append([]byte(nil), edge[:cpl]...)
		split := newNode(splitEdge)
		t.arena = append(t.arena, split)
		splitIdx := uint32(len(t.arena) - 1)

		// Re-home the existing child under the split node, keyed by its
		// now-shortened edge's leading byte.
		childSuffix := edge[cpl:]
		t.arena[childIdx].edge = childSuffix
		t.arena[splitIdx].children[childSuffix[0]] = childIdx

		// Re-point the parent at the split node instead of the old child.
		t.arena[cur].children[remaining[0]] = splitIdx

		remainingSuffix := remaining[cpl:]
		if len(remainingSuffix) == 0 {
			t.arena[splitIdx].isLeaf = true
			t.arena[splitIdx].fileID = id
			return nil
		}

		leaf := newNode(append([]byte(nil), remainingSuffix...))
		leaf.isLeaf = true
		leaf.fileID = id
		t.arena = append(t.arena, leaf)
		leafIdx := uint32(len(t.arena) - 1)
		t.arena[splitIdx].children[remainingSuffix[0]] = leafIdx
		return nil
	}
}

// walkTo follows path from the root along full edge matches. If the full
// path is consumed exactly at a node boundary, ok is true and that node's
// index is returned; otherwise it returns (0, false).
func (t *Trie) walkTo(path string) (idx uint32, ok bool) {
	remaining := []byte(path)
	cur := rootIndex

	for len(remaining) > 0 {
		childIdx := t.arena[cur].children[remaining[0]]
		if childIdx == nilIndex {
			return 0, false
		}
		edge := t.arena[childIdx].edge
		cpl := commonPrefixLen(edge, remaining)
		if cpl != len(edge) {
			return 0, false
		}
		cur = childIdx
		remaining = remaining[cpl:]
	}
	return cur, true
}

// Lookup returns the FileID stored for path, if any.
func (t *Trie) Lookup(path string) (types.FileID, bool) {
	idx, ok := t.walkTo(path)
	if !ok || !t.arena[idx].isLeaf {
		return types.InvalidFileID, false
	}
	return t.arena[idx].fileID, true
}

// Remove tombstones path by clearing its terminal marker. The edge
// structure is left in place; a later Insert of the same path reuses the
// same node.
func (t *Trie) Remove(path string) bool {
	idx, ok := t.walkTo(path)
	if !ok || !t.arena[idx].isLeaf {
		return false
	}
	t.arena[idx].isLeaf = false
	t.arena[idx].fileID = types.InvalidFileID
	return true
}

// PrefixIDs collects every live FileID stored under paths beginning with
// prefix, supporting the short-query path: queries too short to extract a
// single trigram (fewer than trigram.Size bytes) are answered by a direct
// trie descent instead of the trigram/bloom pipeline.
func (t *Trie) PrefixIDs(prefix string) []types.FileID {
	remaining := []byte(prefix)
	cur := rootIndex

	for len(remaining) > 0 {
		childIdx := t.arena[cur].children[remaining[0]]
		if childIdx == nilIndex {
			return nil
		}
		edge := t.arena[childIdx].edge
		cpl := commonPrefixLen(edge, remaining)
		switch {
		case cpl == len(remaining) && cpl <= len(edge):
			// prefix ends inside or exactly at this edge; descend from here
			cur = childIdx
			remaining = nil
		case cpl == len(edge):
			cur = childIdx
			remaining = remaining[cpl:]
		default:
			return nil
		}
	}

	var out []types.FileID
	t.collect(cur, &out)
	return out
}

func (t *Trie) collect(idx uint32, out *[]types.FileID) {
	n := &t.arena[idx]
	if n.isLeaf {
		*out = append(*out, n.fileID)
	}
	for _, childIdx := range n.children {
		if childIdx != nilIndex {
			t.collect(childIdx, out)
		}
	}
}

// NodeCount reports the number of arena slots currently allocated,
// primarily for metrics and tests.
func (t *Trie) NodeCount() int {
	return len(t.arena)
}
