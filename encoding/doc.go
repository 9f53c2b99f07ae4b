// Package encoding implements the fixed-width codecs of the store format: the packed
// 64-bit date/time word and the 40-byte price record.
//
// # Timestamps
//
// PackedTimestamp is the decoded form of the date/time word. Conversion between the
// two is pure bit arithmetic and round-trips every 64-bit word exactly:
//
//	ts := encoding.TimestampFromWord(w)
//	w == ts.Word() // always true
//
// Encoding truncates fields to their bit width. Range checks happen when a value is
// constructed with NewDate, NewEODDate or NewDateTime, or explicitly via Validate.
//
// # Records
//
//	rec := encoding.NewRecord(ts, 34.30, 37.50, 32.00, 37.35, 1.2e6)
//	b := encoding.EncodeRecord(rec) // 40 bytes
//	back, err := encoding.DecodeRecord(b)
//
// Columns converts a column-major batch (one slice per field) into records after
// checking that the required columns are present and aligned.
//
// # Backends
//
// All word access goes through a Backend. Two implementations exist:
//   - PortableBackend: byte arithmetic via encoding/binary, available everywhere
//   - native: in-place loads through unsafe on little-endian amd64/arm64 hosts,
//     excluded by the purego build tag
//
// The process-wide backend is chosen once from the AMISTORE_BACKEND environment
// variable. If the native backend is requested but unavailable the portable one is
// used, the fallback is logged and reported by Selected. Results never depend on
// the backend, only speed does.
//
// A Codec binds the codecs to one backend; the package-level functions use the
// process-wide one.
package encoding
