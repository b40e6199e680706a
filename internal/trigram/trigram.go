// Package trigram extracts fixed-width trigrams from filesystem paths.
// Paths are indexed as raw bytes, never Unicode scalars: a path is
// POSIX/NTFS bytes on the wire, and slicing by rune would silently change
// which substrings match for any non-ASCII path. Case folding, when
// requested, is ASCII-only for the same reason.
//
// Grounded on inverted_index.c's extract_trigrams (a raw 3-byte
// memcpy-style window) and the teacher's trigram.go ASCII fast path.
package trigram

// Trigram packs three path bytes into their low 24 bits, little-endian:
// byte 0 in bits 0-7, byte 1 in bits 8-15, byte 2 in bits 16-23.
type Trigram uint32

// Size is the fixed window width trigram extraction slides across a path.
const Size = 3

// Pack combines three bytes into a Trigram using the little-endian
// low-24-bit layout.
func Pack(b0, b1, b2 byte) Trigram {
	return Trigram(b0) | Trigram(b1)<<8 | Trigram(b2)<<16
}

// Unpack splits a Trigram back into its three constituent bytes.
func Unpack(t Trigram) (b0, b1, b2 byte) {
	return byte(t), byte(t >> 8), byte(t >> 16)
}

// foldASCII lowercases an ASCII letter, leaving every other byte
// (including non-ASCII bytes of a multi-byte UTF-8 sequence) unchanged.
func foldASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Extract slides a 3-byte window across path and returns every trigram,
// including duplicates, in left-to-right order. Paths shorter than Size
// yield no trigrams. When caseInsensitive is set, ASCII letters are
// folded to lowercase before packing.
func Extract(path string, caseInsensitive bool) []Trigram {
	if len(path) < Size {
		return nil
	}

	trigrams := make([]Trigram, 0, len(path)-Size+1)
	for i := 0; i+Size <= len(path); i++ {
		b0, b1, b2 := path[i], path[i+1], path[i+2]
		if caseInsensitive {
			b0, b1, b2 = foldASCII(b0), foldASCII(b1), foldASCII(b2)
		}
		trigrams = append(trigrams, Pack(b0, b1, b2))
	}
	return trigrams
}

// ExtractUnique returns the distinct trigrams of path (order of first
// occurrence preserved), for use where only membership matters — the
// query pipeline's bloom checks and posting-list lookups.
func ExtractUnique(path string, caseInsensitive bool) []Trigram {
	all := Extract(path, caseInsensitive)
	if len(all) == 0 {
		return nil
	}

	seen := make(map[Trigram]struct{}, len(all))
	unique := make([]Trigram, 0, len(all))
	for _, t := range all {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}

// Bytes returns the 3-byte big-endian-free representation of t suitable
// for feeding into a byte-oriented hash (e.g. the bloom filter's hash
// family), matching the Pack/Unpack byte order.
func (t Trigram) Bytes() [3]byte {
	b0, b1, b2 := Unpack(t)
	return [3]byte{b0, b1, b2}
}
