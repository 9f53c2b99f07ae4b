package section

import (
	"fmt"

	"github.com/arloliu/amistore/endian"
	"github.com/arloliu/amistore/errs"
)

// MasterHeader represents the 12-byte header of a master index file.
type MasterHeader struct {
	Magic [MagicSize]byte // byte offset 0-7
	Count uint32          // byte offset 8-11
}

// NewMasterHeader creates an empty master header carrying MasterMagic.
func NewMasterHeader() MasterHeader {
	h := MasterHeader{}
	copy(h.Magic[:], MasterMagic)

	return h
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly MasterHeaderSize bytes)
//
// Returns:
//   - error: ErrFormat if data is not MasterHeaderSize bytes
func (h *MasterHeader) Parse(data []byte) error {
	if len(data) != MasterHeaderSize {
		return fmt.Errorf("%w: master header needs %d bytes, got %d", errs.ErrFormat, MasterHeaderSize, len(data))
	}

	copy(h.Magic[:], data[:MagicSize])
	h.Count = endian.FileEngine().Uint32(data[MasterCountOffset:MasterHeaderSize])

	return nil
}

// WriteToSlice writes the header into the first MasterHeaderSize bytes of dst.
func (h *MasterHeader) WriteToSlice(dst []byte) error {
	if len(dst) < MasterHeaderSize {
		return fmt.Errorf("%w: master header needs %d bytes, got %d", errs.ErrFormat, MasterHeaderSize, len(dst))
	}

	copy(dst[:MagicSize], h.Magic[:])
	endian.FileEngine().PutUint32(dst[MasterCountOffset:MasterHeaderSize], h.Count)

	return nil
}

// Bytes serializes the MasterHeader into a byte slice.
func (h *MasterHeader) Bytes() []byte {
	b := make([]byte, MasterHeaderSize)
	_ = h.WriteToSlice(b)

	return b
}
