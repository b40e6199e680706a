// Package constants collects the tunable sizes and thresholds referenced
// throughout the index, mirroring the original qfind.h constant table.
// Every value here is a default; the KDL config can override it.
package constants

import "time"

const (
	// BloomSize is the bit-width of the primary (membership) bloom filter.
	BloomSize = 1 << 25

	// BloomSecondarySize is the bit-width of the secondary (query-hotness)
	// bloom filter.
	BloomSecondarySize = 1 << 24

	// MaxHashFuncs bounds the number of hash rounds the dual bloom filter
	// derives from its seeded hash family.
	MaxHashFuncs = 8

	// TrigramSize is the fixed window width trigram extraction slides
	// across a path.
	TrigramSize = 3

	// WorkerThreadCap bounds the query pipeline's parallel posting-scan
	// worker pool.
	WorkerThreadCap = 16

	// MaxResults caps the number of ranked results a single query returns.
	MaxResults = 10000

	// MaxPathDepth bounds recursive directory-walk depth during a build or
	// a recursive watch registration, guarding against symlink cycles.
	MaxPathDepth = 64

	// BatchThreshold is the pending-adds/pending-deletes count that forces
	// an immediate commit-updates pass, independent of the batch ticker.
	BatchThreshold = 5000

	// BatchInterval is the ticker period that forces a commit-updates pass
	// even if BatchThreshold has not been reached.
	BatchInterval = 30 * time.Second
)
