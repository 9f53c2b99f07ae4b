// Package master implements the master index codec: the list of symbols a store
// holds, in insertion order.
//
//	idx, err := master.Decode(data)
//	if err != nil {
//	    return err
//	}
//	if !idx.Contains("SPCE") {
//	    err = idx.AppendSymbol("SPCE")
//	}
//	data = idx.Bytes()
//
// Decoding keeps the magic, every entry's tag and reserved region, and any bytes
// following the last declared entry, so an index read from disk re-encodes to the
// same bytes until a symbol is added.
package master

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/section"
)

// Index is the in-memory master index. It is not safe for concurrent use.
type Index struct {
	magic   [section.MagicSize]byte
	entries []section.Entry
	trailer []byte
	lookup  map[string]int
}

// New creates an empty index carrying the default magic.
func New() *Index {
	h := section.NewMasterHeader()

	return &Index{
		magic:  h.Magic,
		lookup: make(map[string]int),
	}
}

// Decode parses a master index file.
//
// Parameters:
//   - data: Complete file content
//
// Returns:
//   - *Index: The decoded index
//   - error: ErrFormat if data is shorter than the header or the declared symbol
//     count does not fit into data
func Decode(data []byte) (*Index, error) {
	if len(data) < section.MasterHeaderSize {
		return nil, fmt.Errorf("%w: master index needs at least %d bytes, got %d", errs.ErrFormat, section.MasterHeaderSize, len(data))
	}

	var h section.MasterHeader
	if err := h.Parse(data[:section.MasterHeaderSize]); err != nil {
		return nil, err
	}

	body := data[section.MasterEntryOffset:]
	if uint64(h.Count)*section.EntrySize > uint64(len(body)) {
		return nil, fmt.Errorf("%w: master index declares %d symbols but holds %d bytes of entries", errs.ErrFormat, h.Count, len(body))
	}

	idx := &Index{
		magic:   h.Magic,
		entries: make([]section.Entry, h.Count),
		lookup:  make(map[string]int, h.Count),
	}

	for i := range idx.entries {
		off := i * section.EntrySize
		if err := idx.entries[i].Parse(body[off : off+section.EntrySize]); err != nil {
			return nil, err
		}

		name := idx.entries[i].Name()
		if _, dup := idx.lookup[name]; !dup {
			idx.lookup[name] = i
		}
	}

	if rest := body[int(h.Count)*section.EntrySize:]; len(rest) > 0 {
		idx.trailer = bytes.Clone(rest)
	}

	return idx, nil
}

// Size returns the encoded size in bytes.
func (x *Index) Size() int {
	return section.MasterHeaderSize + len(x.entries)*section.EntrySize + len(x.trailer)
}

// Bytes encodes the index.
func (x *Index) Bytes() []byte {
	b := make([]byte, x.Size())

	h := section.MasterHeader{Magic: x.magic, Count: uint32(len(x.entries))}
	_ = h.WriteToSlice(b)

	off := section.MasterEntryOffset
	for i := range x.entries {
		_ = x.entries[i].WriteToSlice(b[off:])
		off += section.EntrySize
	}
	copy(b[off:], x.trailer)

	return b
}

// WriteTo writes the encoded index to w.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(x.Bytes())
	return int64(n), err
}

// AppendSymbol adds an entry for name with the default tag and zero padding.
//
// Returns:
//   - error: ErrValidation if name is empty, longer than section.MaxNameLength, or
//     not printable ASCII, or if the index already holds the maximum count
func (x *Index) AppendSymbol(name string) error {
	if uint64(len(x.entries)) >= math.MaxUint32 {
		return fmt.Errorf("%w: master index is full", errs.ErrValidation)
	}

	e, err := section.NewEntry(name)
	if err != nil {
		return err
	}

	x.entries = append(x.entries, e)
	if _, dup := x.lookup[name]; !dup {
		x.lookup[name] = len(x.entries) - 1
	}

	return nil
}

// Symbols returns the symbol names in stored order.
func (x *Index) Symbols() []string {
	names := make([]string, len(x.entries))
	for i := range x.entries {
		names[i] = x.entries[i].Name()
	}

	return names
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Contains reports whether an entry named name exists. Names compare case-sensitively.
func (x *Index) Contains(name string) bool {
	_, ok := x.lookup[name]
	return ok
}

// Entry returns a copy of the i-th entry.
func (x *Index) Entry(i int) (section.Entry, error) {
	if i < 0 || i >= len(x.entries) {
		return section.Entry{}, fmt.Errorf("%w: entry %d of %d", errs.ErrIndexOutOfRange, i, len(x.entries))
	}

	return x.entries[i], nil
}

// Magic returns the 8-byte file magic.
func (x *Index) Magic() []byte {
	return slices.Clone(x.magic[:])
}

// Trailer returns a copy of the bytes stored after the last entry.
func (x *Index) Trailer() []byte {
	return bytes.Clone(x.trailer)
}
