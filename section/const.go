package section

// Magic numbers identifying the two file kinds of a store.
const (
	SymbolMagic = "BROKDAt5" // SymbolMagic starts every symbol data file.
	MasterMagic = "BROKMAS5" // MasterMagic is written into newly created master index files.
)

// Entry region shared by symbol headers and master entries.
//
//	Bytes    | Field    | Description
//	---------|----------|----------------------------------
//	0-491    | Name     | ASCII symbol name, NUL-terminated
//	492-507  | Tag      | opaque, written verbatim
//	508-1171 | Reserved | opaque, written verbatim
const (
	NameFieldSize     = 492 // NUL-terminated symbol name field
	TagSize           = 16  // opaque tag following the name field
	EntryReservedSize = 664 // reserved region following the tag
	MaxNameLength     = 491 // room for the terminating NUL

	EntrySize      = NameFieldSize + TagSize + EntryReservedSize
	TagOffset      = NameFieldSize
	ReservedOffset = TagOffset + TagSize
)

// offset and section sizes of a symbol data file
const (
	MagicSize         = 8
	SymbolHeaderSize  = MagicSize + EntrySize + 4 // 1184 (0x4A0) bytes
	SymbolEntryOffset = MagicSize
	SymbolCountOffset = SymbolHeaderSize - 4 // little-endian uint32 record count
	SentinelSize      = 4                    // trailing bytes after the last record
	MinSymbolFileSize = SymbolHeaderSize + SentinelSize
)

// offset and section sizes of a master index file
const (
	MasterCountOffset = MagicSize // little-endian uint32 symbol count
	MasterHeaderSize  = MagicSize + 4
	MasterEntryOffset = MasterHeaderSize
)

// DefaultTag is the tag carried by every entry the store creates: the little-endian
// integer 2 followed by the IEEE-754 single 1.0 in the last four bytes.
var DefaultTag = [TagSize]byte{0: 0x02, 14: 0x80, 15: 0x3F}
