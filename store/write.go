package store

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/internal/fsutil"
	"github.com/arloliu/amistore/internal/pool"
	"github.com/arloliu/amistore/layout"
	"github.com/arloliu/amistore/symfile"
)

// AppendRecord validates rec and appends it to symbol: to its data file when the
// symbol is in the fast tier, otherwise to its decoded records.
//
// Existing on-disk records are loaded first when the symbol is not cached, so they
// are never lost.
//
// Returns:
//   - error: ErrValidation for an out-of-range record, ErrInvalidSymbol for a bad
//     name, or a load error
func (s *Store) AppendRecord(symbol string, rec encoding.PriceRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("symbol %q: %w", symbol, err)
	}

	id := s.resolve(symbol)
	if err := s.checkSymbol(id); err != nil {
		return err
	}

	if fe, ok := s.fast[id]; ok {
		s.register(id)
		fe.file.Append(rec)

		return nil
	}

	e, err := s.fullEntry(id)
	if err != nil {
		return err
	}

	s.register(id)
	e.records = append(e.records, rec)
	e.dirty = true

	return nil
}

// AppendColumns appends column-major batches, one per symbol.
//
// Every batch is validated (required columns, equal lengths, field ranges, symbol
// names) and every affected file is loaded before anything is appended, so a
// failure leaves the store unchanged.
//
// Returns:
//   - error: ErrValidation naming the offending symbol, or a load error
func (s *Store) AppendColumns(batch map[string]encoding.Columns) error {
	recs := make(map[string][]encoding.PriceRecord, len(batch))
	for _, symbol := range slices.Sorted(maps.Keys(batch)) {
		cols := batch[symbol]

		r, err := cols.Records()
		if err != nil {
			return fmt.Errorf("symbol %q: %w", symbol, err)
		}
		recs[symbol] = r
	}

	return s.AppendRecords(recs)
}

// AppendRecords appends record batches, one per symbol, through the fast tier.
// It is all-or-nothing like AppendColumns.
func (s *Store) AppendRecords(batch map[string][]encoding.PriceRecord) error {
	symbols := slices.Sorted(maps.Keys(batch))

	ids := make(map[string]string, len(symbols))
	for _, symbol := range symbols {
		id := s.resolve(symbol)
		if err := s.checkSymbol(id); err != nil {
			return err
		}

		for i, r := range batch[symbol] {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("symbol %q row %d: %w", symbol, i, err)
			}
		}
		ids[symbol] = id
	}

	entries := make(map[string]*fastEntry, len(symbols))
	for _, symbol := range symbols {
		fe, err := s.fastEntry(ids[symbol])
		if err != nil {
			return err
		}
		entries[symbol] = fe
	}

	for _, symbol := range symbols {
		s.register(ids[symbol])
		entries[symbol].file.Append(batch[symbol]...)
	}

	return nil
}

// Dirty returns the symbols with changes not yet persisted, sorted.
func (s *Store) Dirty() []string {
	var out []string
	for id, e := range s.full {
		if e.dirty {
			out = append(out, id)
		}
	}
	for id, fe := range s.fast {
		if fe.dirty() {
			out = append(out, id)
		}
	}
	slices.Sort(out)

	return out
}

// Persist writes every changed symbol file and then the master index.
//
// Fast-tier files are written verbatim; full-tier symbols are re-encoded from their
// record lists around their original header and sentinel. Shard directories are
// created as needed. Persist stops at the first failure without undoing earlier
// writes; the failed symbol and the ones after it stay pending.
func (s *Store) Persist() error {
	written := 0

	for _, id := range slices.Sorted(maps.Keys(s.fast)) {
		fe := s.fast[id]
		digest := digestOf(fe.file)
		if !fe.pending && digest == fe.digest {
			continue
		}

		if err := s.writeSymbol(id, fe.file); err != nil {
			return err
		}

		fe.digest = digest
		fe.pending = false
		written++
	}

	for _, id := range slices.Sorted(maps.Keys(s.full)) {
		e := s.full[id]
		if !e.dirty {
			continue
		}

		buf := pool.GetEncodeBuffer()
		symfile.AppendEncoded(buf, e.header, e.sentinel, e.records, s.codec)
		err := s.writeSymbol(id, buf)
		pool.PutEncodeBuffer(buf)
		if err != nil {
			return err
		}

		e.header.Count = uint32(len(e.records))
		e.dirty = false
		written++
	}

	masterPath := layout.MasterPath(s.root)
	if err := fsutil.WriteFile(masterPath, s.index, s.opts.AtomicWrites); err != nil {
		return fmt.Errorf("persist master index: %w", err)
	}

	s.log.Debug("store persisted", "files", written, "symbols", s.index.Len())

	return nil
}

func (s *Store) writeSymbol(id string, src io.WriterTo) error {
	path, err := s.symbolPath(id)
	if err != nil {
		return err
	}

	if err := fsutil.WriteFile(path, src, s.opts.AtomicWrites); err != nil {
		return fmt.Errorf("persist %s: %w", id, err)
	}
	s.log.Debug("symbol written", "symbol", id, "path", path)

	return nil
}
