// Package store orchestrates a store directory: the master index and the per-symbol
// data files below it.
//
// A Store keeps two caches. The full tier holds decoded record lists for
// read-modify workflows; the fast tier holds symfile.File buffers for append-heavy
// ingestion. A symbol lives in at most one tier at a time. ReadFast and batch
// appends move a symbol into the fast tier, pending changes included, and it stays
// there: the File handed out by ReadFast remains the symbol's only buffer.
//
//	st, err := store.Open("./db")
//	if err != nil {
//	    return err
//	}
//	last, ok, err := st.LastTimestamp("SPCE")
//	...
//	err = st.AppendRecord("SPCE", rec)
//	err = st.Persist()
//
// Nothing reaches disk before Persist. A Store is not safe for concurrent use, and
// only one Store may own a directory at a time.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/internal/fsutil"
	"github.com/arloliu/amistore/internal/options"
	"github.com/arloliu/amistore/layout"
	"github.com/arloliu/amistore/master"
	"github.com/arloliu/amistore/section"
	"github.com/arloliu/amistore/symfile"
)

// Store is an open store directory.
type Store struct {
	root  string
	opts  *Options
	codec encoding.Codec
	log   *slog.Logger

	index *master.Index
	full  map[string]*fullEntry
	fast  map[string]*fastEntry
}

// Open opens the store at root, creating the directory if needed.
//
// The master index is loaded when present; a missing index starts an empty one.
//
// Returns:
//   - *Store: The opened store
//   - error: ErrInvalidConfiguration for a bad option, ErrFormat for a malformed
//     index, or the I/O error of an index that exists but cannot be read
func Open(root string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}
	o.finish()

	if err := os.MkdirAll(root, fsutil.DirPerm); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", root, err)
	}

	s := &Store{
		root:  root,
		opts:  o,
		codec: encoding.NewCodec(o.Backend),
		log:   o.Logger.With("root", root),
		full:  make(map[string]*fullEntry),
		fast:  make(map[string]*fastEntry),
	}

	if err := s.loadIndex(); err != nil {
		return nil, err
	}

	s.log.Debug("store opened",
		"symbols", s.index.Len(),
		"backend", o.Backend.Type().String(),
		"mmap", o.UseMmap,
	)

	return s, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Symbols returns the symbols of the master index in insertion order.
func (s *Store) Symbols() []string {
	return s.index.Symbols()
}

// HasSymbol reports whether symbol is registered in the master index.
func (s *Store) HasSymbol(symbol string) bool {
	return s.index.Contains(s.resolve(symbol))
}

// AddSymbol registers symbol in the master index if it is not there yet. No data
// file is created.
//
// Returns:
//   - string: The on-disk identity of the symbol, i.e. the sanitized name when
//     reserved-name sanitizing is enabled
//   - error: ErrInvalidSymbol or ErrValidation for names that cannot be stored
func (s *Store) AddSymbol(symbol string) (string, error) {
	id := s.resolve(symbol)
	if err := s.checkSymbol(id); err != nil {
		return "", err
	}

	if !s.index.Contains(id) {
		if err := s.index.AppendSymbol(id); err != nil {
			return "", err
		}
		s.log.Debug("symbol added", "symbol", id)
	}

	return id, nil
}

// Reload discards every pending change and reloads the master index from disk.
// Files handed out by ReadFast are reloaded in place.
func (s *Store) Reload() error {
	if err := s.loadIndex(); err != nil {
		return err
	}

	clear(s.full)
	for _, id := range slices.Sorted(maps.Keys(s.fast)) {
		if err := s.refresh(id); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) loadIndex() error {
	masterPath := layout.MasterPath(s.root)

	var idx *master.Index
	err := fsutil.View(masterPath, s.opts.UseMmap, func(data []byte) error {
		var derr error
		idx, derr = master.Decode(data)

		return derr
	})

	switch {
	case errors.Is(err, errs.ErrNotFound):
		idx = master.New()
	case err != nil:
		return fmt.Errorf("load master index %s: %w", masterPath, err)
	}

	s.index = idx

	return nil
}

func (s *Store) resolve(symbol string) string {
	if s.opts.AvoidReservedNames {
		return layout.Sanitize(symbol)
	}

	return symbol
}

// checkSymbol validates that id maps to a data file path and fits a name field.
func (s *Store) checkSymbol(id string) error {
	if _, err := s.symbolPath(id); err != nil {
		return err
	}

	if err := section.ValidateName(id); err != nil {
		return fmt.Errorf("symbol %q: %w", id, err)
	}

	return nil
}

func (s *Store) register(id string) {
	if s.opts.AutoRegister && !s.index.Contains(id) {
		// checkSymbol already passed, so the append cannot fail
		_ = s.index.AppendSymbol(id)
		s.log.Debug("symbol registered", "symbol", id)
	}
}

// symbolPath returns the data file path of id. The master index name is not a
// symbol in any letter case.
func (s *Store) symbolPath(id string) (string, error) {
	if strings.EqualFold(id, layout.MasterFileName) {
		return "", fmt.Errorf("%w: %q is the master index", errs.ErrInvalidSymbol, id)
	}

	return layout.PathOf(s.root, id)
}

// loadFile reads the data file of id, or returns an empty file when it does not exist.
func (s *Store) loadFile(id string) (*symfile.File, error) {
	path, err := s.symbolPath(id)
	if err != nil {
		return nil, err
	}

	var f *symfile.File
	err = fsutil.View(path, s.opts.UseMmap, func(data []byte) error {
		var perr error
		f, perr = symfile.Parse(data, symfile.WithCodec(s.codec))

		return perr
	})

	switch {
	case errors.Is(err, errs.ErrNotFound):
		return symfile.New(id, symfile.WithCodec(s.codec))
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return f, nil
}
