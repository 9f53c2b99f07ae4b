package store

import (
	"slices"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/internal/hash"
	"github.com/arloliu/amistore/section"
	"github.com/arloliu/amistore/symfile"
)

// fullEntry is a decoded symbol. header and sentinel are kept so that re-encoding
// reproduces the bytes around the records.
type fullEntry struct {
	header   section.SymbolHeader
	sentinel symfile.Sentinel
	records  []encoding.PriceRecord
	dirty    bool
}

// fastEntry is an encoded symbol. digest is the content hash when the file was
// loaded or last written; pending marks changes carried over from the full tier.
type fastEntry struct {
	file    *symfile.File
	digest  uint64
	pending bool
}

func (e *fastEntry) dirty() bool {
	return e.pending || digestOf(e.file) != e.digest
}

func digestOf(f *symfile.File) uint64 {
	d := hash.NewDigest()
	_, _ = f.WriteTo(d)

	return d.Sum64()
}

func newFastEntry(f *symfile.File) *fastEntry {
	return &fastEntry{file: f, digest: digestOf(f)}
}

func fullFromFile(f *symfile.File) *fullEntry {
	return &fullEntry{
		header:   f.Header(),
		sentinel: f.Sentinel(),
		records:  f.Records(),
	}
}

// fullEntry returns the decoded entry of id, loading it from disk as needed.
// Callers check the fast tier first; a symbol never moves back out of it.
func (s *Store) fullEntry(id string) (*fullEntry, error) {
	if e, ok := s.full[id]; ok {
		return e, nil
	}

	f, err := s.loadFile(id)
	if err != nil {
		return nil, err
	}

	e := fullFromFile(f)
	s.full[id] = e

	return e, nil
}

// fastEntry returns the encoded entry of id, moving it out of the full tier or
// loading it from disk as needed.
func (s *Store) fastEntry(id string) (*fastEntry, error) {
	if fe, ok := s.fast[id]; ok {
		return fe, nil
	}

	if e, ok := s.full[id]; ok {
		f, err := symfile.Build(e.header, e.sentinel, e.records, symfile.WithCodec(s.codec))
		if err != nil {
			return nil, err
		}

		fe := newFastEntry(f)
		fe.pending = e.dirty
		delete(s.full, id)
		s.fast[id] = fe
		s.log.Debug("symbol moved to fast tier", "symbol", id, "dirty", e.dirty)

		return fe, nil
	}

	f, err := s.loadFile(id)
	if err != nil {
		return nil, err
	}

	fe := newFastEntry(f)
	s.fast[id] = fe

	return fe, nil
}

// refresh discards the cached state of id. A fast entry is reloaded from disk in
// place so that handles returned by ReadFast keep tracking the symbol.
func (s *Store) refresh(id string) error {
	delete(s.full, id)

	fe, ok := s.fast[id]
	if !ok {
		return nil
	}

	f, err := s.loadFile(id)
	if err != nil {
		delete(s.fast, id)
		return err
	}

	fe.file.Replace(f)
	fe.digest = digestOf(fe.file)
	fe.pending = false

	return nil
}

// ReadFull returns a copy of the decoded records of symbol.
//
// A symbol without a data file reads as an empty list. forceRefresh discards any
// cached state of the symbol, unpersisted changes included, and reloads it.
//
// Returns:
//   - []encoding.PriceRecord: The records, oldest first
//   - error: ErrInvalidHeader or ErrFormat for a corrupted file, ErrInvalidSymbol
//     for a name without a valid path, or an I/O error
func (s *Store) ReadFull(symbol string, forceRefresh bool) ([]encoding.PriceRecord, error) {
	id := s.resolve(symbol)

	if forceRefresh {
		if err := s.refresh(id); err != nil {
			return nil, err
		}
	}

	if fe, ok := s.fast[id]; ok {
		return fe.file.Records(), nil
	}

	e, err := s.fullEntry(id)
	if err != nil {
		return nil, err
	}

	return slices.Clone(e.records), nil
}

// ReadFast returns the store-owned data file of symbol.
//
// Records appended through the returned handle are written by the next Persist.
// The handle stays bound to the symbol for the lifetime of the store: ReadFull and
// AppendRecord work on the same file, and a refresh reloads its content in place.
//
// Returns:
//   - *symfile.File: The file, empty when the symbol has no data file
//   - error: As ReadFull
func (s *Store) ReadFast(symbol string, forceRefresh bool) (*symfile.File, error) {
	id := s.resolve(symbol)

	if forceRefresh {
		if err := s.refresh(id); err != nil {
			return nil, err
		}
	}

	fe, err := s.fastEntry(id)
	if err != nil {
		return nil, err
	}

	return fe.file, nil
}

// LastTimestamp returns the timestamp of the last record of symbol.
//
// Returns:
//   - encoding.PackedTimestamp: The timestamp
//   - bool: false when the symbol has no records
//   - error: As ReadFull
func (s *Store) LastTimestamp(symbol string) (encoding.PackedTimestamp, bool, error) {
	id := s.resolve(symbol)

	if e, ok := s.full[id]; ok {
		if len(e.records) == 0 {
			return encoding.PackedTimestamp{}, false, nil
		}

		return e.records[len(e.records)-1].Timestamp, true, nil
	}

	fe, err := s.fastEntry(id)
	if err != nil {
		return encoding.PackedTimestamp{}, false, err
	}

	last, ok := fe.file.Last()

	return last.Timestamp, ok, nil
}
