package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/amistore/errs"
	"github.com/pierrec/lz4/v4"
)

// maxLZ4Output bounds the output of a single block; larger snapshots need zstd or s2.
const maxLZ4Output = 256 << 20

// lz4.Compressor keeps a hash table that is worth reusing.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses with LZ4 block format. The block format does not record
// the original size, so Decompress grows its buffer until the block fits.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data using a pooled lz4.Compressor.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dstSize := lz4.CompressBlockBound(len(data))
	dst := make([]byte, dstSize)

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block of up to maxLZ4Output bytes.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	return c.DecompressLimit(data, maxLZ4Output)
}

// DecompressLimit decompresses an LZ4 block of up to limit bytes.
//
// The output buffer starts at 4x the input and doubles on a short-buffer error,
// up to limit or maxLZ4Output, whichever is smaller.
func (c LZ4Compressor) DecompressLimit(data []byte, limit int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	limit = max(min(limit, maxLZ4Output), 0)
	bufSize := min(len(data)*4, limit)

	for {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}

		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if bufSize >= limit {
			return nil, fmt.Errorf("%w: lz4 block does not fit %d bytes: %w", errs.ErrSizeLimit, limit, err)
		}

		bufSize = min(max(bufSize*2, 64), limit)
	}
}
