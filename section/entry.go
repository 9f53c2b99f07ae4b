package section

import (
	"bytes"
	"fmt"

	"github.com/arloliu/amistore/errs"
)

// Entry is the 1172-byte symbol descriptor stored in the master index and embedded in
// every symbol file header.
type Entry struct {
	NameField [NameFieldSize]byte     // byte offset 0-491
	Tag       [TagSize]byte           // byte offset 492-507
	Reserved  [EntryReservedSize]byte // byte offset 508-1171
}

// NewEntry creates an entry for name with the default tag and a zeroed reserved region.
//
// Parameters:
//   - name: Symbol name, non-empty printable ASCII of at most MaxNameLength bytes
//
// Returns:
//   - Entry: The new entry
//   - error: ErrValidation if the name cannot be stored
func NewEntry(name string) (Entry, error) {
	e := Entry{Tag: DefaultTag}
	if err := e.SetName(name); err != nil {
		return Entry{}, err
	}

	return e, nil
}

// Parse parses the entry from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the entry (must be exactly EntrySize bytes)
//
// Returns:
//   - error: ErrFormat if data is not EntrySize bytes
func (e *Entry) Parse(data []byte) error {
	if len(data) != EntrySize {
		return fmt.Errorf("%w: entry needs %d bytes, got %d", errs.ErrFormat, EntrySize, len(data))
	}

	copy(e.NameField[:], data[:TagOffset])
	copy(e.Tag[:], data[TagOffset:ReservedOffset])
	copy(e.Reserved[:], data[ReservedOffset:])

	return nil
}

// WriteToSlice writes the entry into the first EntrySize bytes of dst.
func (e *Entry) WriteToSlice(dst []byte) error {
	if len(dst) < EntrySize {
		return fmt.Errorf("%w: entry needs %d bytes, got %d", errs.ErrFormat, EntrySize, len(dst))
	}

	copy(dst[:TagOffset], e.NameField[:])
	copy(dst[TagOffset:ReservedOffset], e.Tag[:])
	copy(dst[ReservedOffset:EntrySize], e.Reserved[:])

	return nil
}

// Bytes serializes the entry into a new byte slice.
func (e *Entry) Bytes() []byte {
	b := make([]byte, EntrySize)
	_ = e.WriteToSlice(b)

	return b
}

// Name returns the symbol name, i.e. the name field up to its first NUL byte.
func (e *Entry) Name() string {
	if i := bytes.IndexByte(e.NameField[:], 0); i >= 0 {
		return string(e.NameField[:i])
	}

	return string(e.NameField[:])
}

// SetName replaces the name field with name followed by NUL padding.
func (e *Entry) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	clear(e.NameField[:])
	copy(e.NameField[:], name)

	return nil
}

// HasDefaultTag reports whether the tag carries the pattern written for new entries.
func (e *Entry) HasDefaultTag() bool {
	return e.Tag == DefaultTag
}

// ValidateName checks that name can be stored in an entry name field.
//
// Parameters:
//   - name: Candidate symbol name
//
// Returns:
//   - error: ErrValidation if name is empty, longer than MaxNameLength, or contains
//     bytes outside printable ASCII
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty symbol name", errs.ErrValidation)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: symbol name longer than %d bytes", errs.ErrValidation, MaxNameLength)
	}

	for i := 0; i < len(name); i++ {
		if c := name[i]; c < 0x20 || c > 0x7E {
			return fmt.Errorf("%w: symbol name %q has non-printable byte 0x%02x", errs.ErrValidation, name, c)
		}
	}

	return nil
}
