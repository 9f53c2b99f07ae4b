// Package amistore reads and writes AmiBroker-compatible market-data directories.
//
// A store directory holds a master index of symbol names (broker.master) and one
// binary data file per symbol, sharded by the first character of the symbol:
//
//	db/
//	  broker.master
//	  a/AA
//	  s/SPCE
//	  _/^GSPC
//
// Each data file is a fixed header followed by 40-byte price records (a packed
// timestamp and eight float32 fields, the last one reserved) and a 4-byte
// sentinel. The layout is bit-exact with files written by the original tool.
//
// # Basic Usage
//
//	st, err := amistore.Open("./db")
//	if err != nil {
//	    return err
//	}
//
//	last, ok, err := st.LastTimestamp("SPCE")
//	...
//	ts, _ := amistore.NewEODDate(2020, 2, 20)
//	err = st.AppendRecord("SPCE", amistore.NewRecord(ts, 37.4, 38, 36.9, 37.8, 50000))
//	err = st.Persist()
//
// # Package Structure
//
// This package provides top-level wrappers for the common cases. The encoding,
// symfile, master, layout and store packages expose the format in full, and the
// snapshot package packs a store into a single compressed file.
//
// # Codec Backend
//
// The AMISTORE_BACKEND environment variable selects the record codec backend
// ("portable" or "native") once per process. An unavailable backend falls back to
// the portable one with a warning; results are identical either way.
package amistore

import (
	"io"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/format"
	"github.com/arloliu/amistore/snapshot"
	"github.com/arloliu/amistore/store"
	"github.com/arloliu/amistore/symfile"
)

type (
	// Store is an open store directory.
	Store = store.Store
	// Option configures Open.
	Option = store.Option
	// PackedTimestamp is the 64-bit date/time of a record.
	PackedTimestamp = encoding.PackedTimestamp
	// PriceRecord is one 40-byte quote.
	PriceRecord = encoding.PriceRecord
	// Columns is a column-major batch of quotes.
	Columns = encoding.Columns
	// SymbolFile is a symbol data file.
	SymbolFile = symfile.File
)

// Open opens the store at root, creating it if needed.
func Open(root string, opts ...Option) (*Store, error) {
	return store.Open(root, opts...)
}

// NewEODDate returns an end-of-day timestamp.
func NewEODDate(year, month, day int) (PackedTimestamp, error) {
	return encoding.NewEODDate(year, month, day)
}

// NewDateTime returns an intraday timestamp.
func NewDateTime(year, month, day, hour, minute, second, millisecond, microsecond int) (PackedTimestamp, error) {
	return encoding.NewDateTime(year, month, day, hour, minute, second, millisecond, microsecond)
}

// NewRecord returns a record with the given timestamp, prices and volume.
func NewRecord(ts PackedTimestamp, openPx, highPx, lowPx, closePx, volume float32) PriceRecord {
	return encoding.NewRecord(ts, openPx, highPx, lowPx, closePx, volume)
}

// ParseSymbolFile parses the content of a symbol data file.
func ParseSymbolFile(data []byte) (*SymbolFile, error) {
	return symfile.Parse(data)
}

// Backup writes a zstd-compressed snapshot of the store directory root to w.
func Backup(w io.Writer, root string) (snapshot.Info, error) {
	return snapshot.Create(w, root, format.CompressionZstd)
}

// Restore writes the files of a snapshot read from r below root.
func Restore(r io.Reader, root string) (snapshot.Info, error) {
	return snapshot.Restore(r, root)
}
