package format

import "strings"

type (
	BackendType     uint8
	CompressionType uint8
)

const (
	BackendPortable BackendType = 0x1 // BackendPortable decodes words with pure byte arithmetic.
	BackendNative   BackendType = 0x2 // BackendNative loads words in place on little-endian hosts.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (b BackendType) String() string {
	switch b {
	case BackendPortable:
		return "portable"
	case BackendNative:
		return "native"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseBackendType parses a backend name. The empty string selects the portable backend.
func ParseBackendType(s string) (BackendType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portable", "pure", "go":
		return BackendPortable, true
	case "native", "fast", "accelerated":
		return BackendNative, true
	default:
		return 0, false
	}
}

// ParseCompressionType parses a compression name such as "zstd" or "none".
func ParseCompressionType(s string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
