// Package hash wraps xxHash64 for content digests.
//
// The store uses Sum to detect whether a cached symbol file changed since it was
// loaded or last written, and the snapshot format records a streaming digest of its
// payload.
package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// NewDigest returns a streaming xxHash64 digest; its Sum64 matches Sum over
// everything written to it.
func NewDigest() *xxhash.Digest {
	return xxhash.New()
}
