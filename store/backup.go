package store

import (
	"io"

	"github.com/arloliu/amistore/format"
	"github.com/arloliu/amistore/snapshot"
)

// Backup writes a snapshot of the store directory to w.
//
// The snapshot holds what is on disk; call Persist first to include pending changes.
func (s *Store) Backup(w io.Writer, compression format.CompressionType) (snapshot.Info, error) {
	if dirty := s.Dirty(); len(dirty) > 0 {
		s.log.Warn("backup skips unpersisted changes", "symbols", dirty)
	}

	info, err := snapshot.Create(w, s.root, compression)
	if err != nil {
		return snapshot.Info{}, err
	}

	s.log.Info("backup created", "files", info.Files, "compression", compression.String())

	return info, nil
}

// Restore replaces the store files with the content of a snapshot and reloads the
// master index. Pending changes are discarded; files handed out by ReadFast are
// reloaded in place.
func (s *Store) Restore(r io.Reader) (snapshot.Info, error) {
	info, err := snapshot.Restore(r, s.root)
	if err != nil {
		return snapshot.Info{}, err
	}

	if err := s.Reload(); err != nil {
		return snapshot.Info{}, err
	}

	s.log.Info("snapshot restored", "files", info.Files)

	return info, nil
}
