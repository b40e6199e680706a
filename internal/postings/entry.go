package postings

import (
	"encoding/binary"
	"sort"

	"github.com/standardbeagle/qfind/internal/errors"
	"github.com/standardbeagle/qfind/internal/types"
)

// entry is one trigram's posting list. freq holds the live, uncompressed
// working set mutated by Add/Remove during build and incremental update;
// compressed holds the Golomb-Rice + s2 encoded sorted id list produced
// by the most recent Commit. The query pipeline takes its id list from
// compressed, so a query always exercises the same decode path a real
// on-disk index would need; per-id term frequencies are copied from freq.
type entry struct {
	freq       map[types.FileID]uint32
	compressed []byte
	docFreq    int
}

func newEntry() *entry {
	return &entry{freq: make(map[types.FileID]uint32)}
}

// encodePostings packs a sorted ascending id list as: a 4-byte count
// header, a 1-byte Golomb-Rice parameter chosen from this entry's own
// delta distribution, then the Golomb-Rice bitstream of its delta gaps,
// then general-purpose compresses the whole thing.
func encodePostings(codec *writerCodec, ids []types.FileID) ([]byte, error) {
	deltas := make([]uint64, len(ids))
	var prev types.FileID
	for i, id := range ids {
		if i == 0 {
			deltas[i] = uint64(id)
		} else {
			deltas[i] = uint64(id - prev)
		}
		prev = id
	}

	k := chooseRiceParam(deltas)

	raw := make([]byte, 5, 5+len(deltas))
	binary.LittleEndian.PutUint32(raw, uint32(len(ids)))
	raw[4] = byte(k)
	raw = append(raw, golombEncodeDeltas(deltas, k)...)

	return codec.compress(raw)
}

// decodePostings reverses encodePostings, reconstructing the sorted
// ascending id list.
func decodePostings(compressed []byte) ([]types.FileID, error) {
	if len(compressed) == 0 {
		return nil, nil
	}
	raw, err := decompress(compressed, 64)
	if err != nil {
		return nil, err
	}
	if len(raw) < 5 {
		return nil, errors.NewCompressionError("decode", errShortPostings)
	}

	count := int(binary.LittleEndian.Uint32(raw))
	k := uint(raw[4])
	deltas := golombDecodeDeltas(raw[5:], count, k)
	defer deltaSlab.Put(deltas)

	ids := make([]types.FileID, count)
	var running types.FileID
	for i, d := range deltas {
		if i == 0 {
			running = types.FileID(d)
		} else {
			running += types.FileID(d)
		}
		ids[i] = running
	}
	return ids, nil
}

var errShortPostings = shortPostingsError{}

type shortPostingsError struct{}

func (shortPostingsError) Error() string { return "posting list payload shorter than its header" }

// sortedKeys returns the keys of freq in ascending order.
func sortedKeys(freq map[types.FileID]uint32) []types.FileID {
	ids := make([]types.FileID, 0, len(freq))
	for id := range freq {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
