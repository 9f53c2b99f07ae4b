//go:build cgo && gozstd

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/amistore/errs"
	"github.com/valyala/gozstd"
)

const zstdLevel = 3

// Compress compresses data using Zstandard.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress decompresses Zstd-compressed data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return out, nil
}

// DecompressLimit streams the frame and stops one byte past limit.
func (c ZstdCompressor) DecompressLimit(data []byte, limit int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	zr := gozstd.NewReader(bytes.NewReader(data))
	defer zr.Release()

	out, err := io.ReadAll(io.LimitReader(zr, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if len(out) > limit {
		return nil, fmt.Errorf("%w: zstd output exceeds %d bytes", errs.ErrSizeLimit, limit)
	}

	return out, nil
}
