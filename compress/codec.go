package compress

import (
	"fmt"

	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
)

// Compressor compresses a snapshot payload.
type Compressor interface {
	// Compress returns the compressed form of data.
	//
	// The returned slice is owned by the caller and data is not modified. The
	// no-op codec returns data itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
//	dec, _ := compress.GetCodec(format.CompressionZstd)
//	tarball, err := dec.Decompress(payload)
//	if err != nil {
//	    return fmt.Errorf("decompress snapshot: %w", err)
//	}
//
// Implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress returns the original data, or an error for corrupted input or
	// input produced by another algorithm.
	Decompress(data []byte) ([]byte, error)

	// DecompressLimit is Decompress for untrusted input. It fails with
	// ErrSizeLimit as soon as the output would exceed limit bytes.
	DecompressLimit(data []byte, limit int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one compression run of a snapshot payload.
type CompressionStats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size, or 0 for an empty input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec creates a new Codec for compressionType.
//
// Parameters:
//   - compressionType: None, Zstd, S2 or LZ4
//   - target: What the codec is for, used in the error message
//
// Returns:
//   - Codec: The codec
//   - error: ErrUnsupportedCompression for any other type
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s compression %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// Measure compresses data with codec and reports the sizes.
func Measure(codec Codec, algorithm format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	out, err := codec.Compress(data)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	return out, CompressionStats{
		Algorithm:      algorithm,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
	}, nil
}
