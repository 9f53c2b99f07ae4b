package compress

// ZstdCompressor compresses with Zstandard. It gives the smallest snapshots and is
// the default for backups.
//
// The implementation is cgo gozstd when built with the gozstd tag, and
// klauspost/compress/zstd otherwise. Both produce standard zstd frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd compressor.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
