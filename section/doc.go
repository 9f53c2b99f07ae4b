// Package section defines the fixed-size binary structures and constants of the store format.
//
// The store consists of one master index file and one data file per symbol. Both are
// built from the same 1172-byte entry region, which is why the layouts live together.
//
// # Symbol Data File
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (1184 bytes, fixed)                              │
//	│  - Magic (8 bytes): "BROKDAt5"                          │
//	│  - Entry (1172 bytes): name, tag, reserved              │
//	│  - Count (4 bytes): little-endian uint32 record count   │
//	├─────────────────────────────────────────────────────────┤
//	│ Records (N × 40 bytes)                                  │
//	├─────────────────────────────────────────────────────────┤
//	│ Sentinel (4 bytes)                                      │
//	└─────────────────────────────────────────────────────────┘
//
// The record count is recomputed from the buffer length when a file is parsed, so a
// stale count field never affects decoding.
//
// # Master Index
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Magic (8 bytes)                                         │
//	│ Count (4 bytes): little-endian uint32 symbol count      │
//	├─────────────────────────────────────────────────────────┤
//	│ Entries (Count × 1172 bytes)                            │
//	├─────────────────────────────────────────────────────────┤
//	│ Trailer (any length, preserved verbatim)                │
//	└─────────────────────────────────────────────────────────┘
//
// # Entry
//
//	Bytes    | Field    | Description
//	---------|----------|----------------------------------------
//	0-491    | Name     | ASCII, NUL-terminated, trailing bytes ignored
//	492-507  | Tag      | 02 00 .. 00 00 00 80 3F for new entries
//	508-1171 | Reserved | zero for new entries
//
// Tags and reserved regions are never interpreted. Existing files keep their bytes
// verbatim across a decode/encode cycle.
//
// All multi-byte values are little-endian (see endian.FileEngine).
package section
