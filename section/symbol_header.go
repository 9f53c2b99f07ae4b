package section

import (
	"fmt"

	"github.com/arloliu/amistore/endian"
	"github.com/arloliu/amistore/errs"
)

// SymbolHeader represents the fixed-size header at the start of a symbol data file.
type SymbolHeader struct {
	Magic [MagicSize]byte // byte offset 0-7
	Entry Entry           // byte offset 8-1179
	// Count is the number of records that follow the header.
	Count uint32 // byte offset 1180-1183
}

// NewSymbolHeader creates the header of an empty symbol file named name.
//
// An empty name leaves the name field zeroed.
func NewSymbolHeader(name string) (SymbolHeader, error) {
	h := SymbolHeader{Entry: Entry{Tag: DefaultTag}}
	copy(h.Magic[:], SymbolMagic)

	if name != "" {
		if err := h.Entry.SetName(name); err != nil {
			return SymbolHeader{}, err
		}
	}

	return h, nil
}

// Parse parses the header from a byte slice.
//
// The magic and the entry region are kept verbatim; nothing in them is validated.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly SymbolHeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidHeader if data is not SymbolHeaderSize bytes
func (h *SymbolHeader) Parse(data []byte) error {
	if len(data) != SymbolHeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", errs.ErrInvalidHeader, SymbolHeaderSize, len(data))
	}

	copy(h.Magic[:], data[:MagicSize])
	if err := h.Entry.Parse(data[SymbolEntryOffset:SymbolCountOffset]); err != nil {
		return err
	}
	h.Count = endian.FileEngine().Uint32(data[SymbolCountOffset:SymbolHeaderSize])

	return nil
}

// WriteToSlice writes the header into the first SymbolHeaderSize bytes of dst.
func (h *SymbolHeader) WriteToSlice(dst []byte) error {
	if len(dst) < SymbolHeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", errs.ErrFormat, SymbolHeaderSize, len(dst))
	}

	copy(dst[:MagicSize], h.Magic[:])
	if err := h.Entry.WriteToSlice(dst[SymbolEntryOffset:SymbolCountOffset]); err != nil {
		return err
	}
	endian.FileEngine().PutUint32(dst[SymbolCountOffset:SymbolHeaderSize], h.Count)

	return nil
}

// Bytes serializes the SymbolHeader into a byte slice.
func (h *SymbolHeader) Bytes() []byte {
	b := make([]byte, SymbolHeaderSize)
	_ = h.WriteToSlice(b)

	return b
}

// HasValidMagic reports whether the header starts with SymbolMagic.
func (h *SymbolHeader) HasValidMagic() bool {
	return string(h.Magic[:]) == SymbolMagic
}

// ParseSymbolHeader parses a SymbolHeader from the start of a byte slice.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least SymbolHeaderSize bytes)
//
// Returns:
//   - SymbolHeader: Parsed header struct
//   - error: ErrInvalidHeader if data is too short
func ParseSymbolHeader(data []byte) (SymbolHeader, error) {
	if len(data) < SymbolHeaderSize {
		return SymbolHeader{}, fmt.Errorf("%w: header needs %d bytes, got %d", errs.ErrInvalidHeader, SymbolHeaderSize, len(data))
	}

	h := SymbolHeader{}
	if err := h.Parse(data[:SymbolHeaderSize]); err != nil {
		return SymbolHeader{}, err
	}

	return h, nil
}

// PutSymbolCount overwrites the record count field of an encoded symbol file in place.
func PutSymbolCount(data []byte, count uint32) {
	endian.FileEngine().PutUint32(data[SymbolCountOffset:SymbolHeaderSize], count)
}
