// Package bloom implements the feed-forward dual bloom filter: a primary
// filter tracking path/trigram membership, and a secondary filter that
// accumulates which of those members have actually been queried, so a
// membership check can distinguish "definitely absent," "present but
// never queried," and "present and hot."
//
// Grounded on ffbloom.c's bloom_hash/ffbloom_add/ffbloom_check/
// ffbloom_update_secondary, reimplemented with a keyed 64-bit hash family
// (cespare/xxhash/v2) standing in for XXH3_64bits_withSeed.
package bloom

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// goldenGamma spaces successive seeds so each hash round probes an
// independent bit pattern, the same constant family Go's runtime map hash
// uses for multiplicative seed spreading.
const goldenGamma = 0x9E3779B97F4A7C15

// secondarySeedOffset decorrelates the secondary filter's hash rounds
// from the primary's: without it, Add/Check and UpdateSecondary/
// CheckSecondary would probe identical bit positions whenever primary
// and secondary arrays are the same size.
const secondarySeedOffset = 0xA5A5A5A5

// DualBloomFilter is a feed-forward pair of bit arrays sharing one hash
// family: a primary filter for membership and a secondary filter for
// query-hotness tracking. Both are sized in bits.
type DualBloomFilter struct {
	mu sync.RWMutex

	primary        []byte
	secondary      []byte
	primaryBits    uint64
	secondaryBits  uint64
	numHashFuncs   int
	seed           uint64
}

// New creates a dual bloom filter with the given bit widths (rounded up
// to a whole byte) and hash-round count.
func New(primaryBits, secondaryBits int, numHashFuncs int, seed uint64) *DualBloomFilter {
	if numHashFuncs <= 0 {
		numHashFuncs = 1
	}
	return &DualBloomFilter{
		primary:       make([]byte, (primaryBits+7)/8),
		secondary:     make([]byte, (secondaryBits+7)/8),
		primaryBits:   uint64(primaryBits),
		secondaryBits: uint64(secondaryBits),
		numHashFuncs:  numHashFuncs,
		seed:          seed,
	}
}

// hashes yields numHashFuncs independent 64-bit hashes of data, each
// derived by folding a distinct round seed into the keyed hash.
func (f *DualBloomFilter) hashes(data []byte, yield func(h uint64)) {
	f.hashesWithBase(data, f.seed, yield)
}

// secondaryHashes is hashes shifted by secondarySeedOffset, so the
// secondary filter's bit positions are independent of the primary's.
func (f *DualBloomFilter) secondaryHashes(data []byte, yield func(h uint64)) {
	f.hashesWithBase(data, f.seed+secondarySeedOffset, yield)
}

func (f *DualBloomFilter) hashesWithBase(data []byte, base uint64, yield func(h uint64)) {
	for i := 0; i < f.numHashFuncs; i++ {
		roundSeed := base + uint64(i)*goldenGamma
		yield(xxhash.Sum64WithSeed(data, roundSeed))
	}
}

func setBit(bits []byte, bitIndex uint64) {
	bits[bitIndex/8] |= 1 << (bitIndex % 8)
}

func testBit(bits []byte, bitIndex uint64) bool {
	return bits[bitIndex/8]&(1<<(bitIndex%8)) != 0
}

// Add marks data as a member of the primary filter.
func (f *DualBloomFilter) Add(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes(data, func(h uint64) {
		setBit(f.primary, h%f.primaryBits)
	})
}

// Check reports whether data is possibly a member of the primary filter.
// A false result is definitive; a true result may be a false positive.
func (f *DualBloomFilter) Check(data []byte) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	member := true
	f.hashes(data, func(h uint64) {
		if !testBit(f.primary, h%f.primaryBits) {
			member = false
		}
	})
	return member
}

// UpdateSecondary marks data as queried in the secondary (hotness) filter.
// It does not require data to already be a primary member.
func (f *DualBloomFilter) UpdateSecondary(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secondaryHashes(data, func(h uint64) {
		setBit(f.secondary, h%f.secondaryBits)
	})
}

// CheckSecondary reports whether data has possibly been queried before.
func (f *DualBloomFilter) CheckSecondary(data []byte) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	hot := true
	f.secondaryHashes(data, func(h uint64) {
		if !testBit(f.secondary, h%f.secondaryBits) {
			hot = false
		}
	})
	return hot
}

// Clear zeroes both filters in place.
func (f *DualBloomFilter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.primary {
		f.primary[i] = 0
	}
	for i := range f.secondary {
		f.secondary[i] = 0
	}
}
