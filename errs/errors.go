// Package errs defines the sentinel errors shared by all amistore packages.
//
// Errors returned by the codecs, the symbol file type, the master index and the
// store wrap one of these sentinels with additional context, so callers should
// test for them with errors.Is:
//
//	records, err := st.ReadFull("SPCE", false)
//	if errors.Is(err, errs.ErrInvalidHeader) {
//	    // the symbol file is corrupted
//	}
package errs

import "errors"

var (
	// ErrNotFound reports that a directory or file is absent.
	//
	// The store translates it into an empty result at its read boundary, so it is
	// mostly observed by callers of lower-level packages.
	ErrNotFound = errors.New("not found")

	// ErrInvalidHeader reports a symbol file buffer shorter than the minimum valid size.
	ErrInvalidHeader = errors.New("invalid symbol file header")

	// ErrFormat reports malformed fixed-width input, e.g. a short timestamp or record,
	// or a symbol file body whose length is not a whole number of records.
	ErrFormat = errors.New("malformed binary data")

	// ErrValidation reports caller-supplied data that is out of range, incomplete, or
	// inconsistent (for example batch columns of different lengths).
	ErrValidation = errors.New("validation failed")

	// ErrIndexOutOfRange reports positional access outside a symbol file's records.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrBackendUnavailable reports that a requested codec backend cannot run on this host.
	ErrBackendUnavailable = errors.New("codec backend unavailable")

	// ErrInvalidSymbol reports a symbol name that cannot be mapped to a file path.
	ErrInvalidSymbol = errors.New("invalid symbol name")

	// ErrSizeLimit reports decompressed output larger than the caller allows.
	ErrSizeLimit = errors.New("decompressed size exceeds limit")

	ErrInvalidSnapshot        = errors.New("invalid snapshot")
	ErrChecksumMismatch       = errors.New("snapshot checksum mismatch")
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	ErrInvalidConfiguration   = errors.New("invalid configuration")
)
