// Package fsutil implements the whole-file reads and writes used by the store.
//
// Reads hand the caller a view of the file content for the duration of a callback.
// With mapping enabled on unix hosts the view is a read-only memory map that is
// released when the callback returns, whatever the outcome; otherwise the file is
// read into memory. Writes are whole-buffer writes, optionally to a temporary file
// that is renamed over the target.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arloliu/amistore/errs"
)

const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// ViewFunc receives the content of a file. data is only valid until the function
// returns and must not be modified.
type ViewFunc func(data []byte) error

// View calls fn with the content of the file at path.
//
// Parameters:
//   - path: File to read
//   - useMmap: Map the file instead of reading it, where supported
//   - fn: Receives the content
//
// Returns:
//   - error: ErrNotFound (wrapped) if the file does not exist, any I/O error, or the
//     error returned by fn
func View(path string, useMmap bool, fn ViewFunc) error {
	if useMmap && mmapSupported {
		return viewMapped(path, fn)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return wrapNotFound(path, err)
	}

	return fn(data)
}

// ReadFile returns a copy of the file content; see View.
func ReadFile(path string, useMmap bool) ([]byte, error) {
	var out []byte
	err := View(path, useMmap, func(data []byte) error {
		out = make([]byte, len(data))
		copy(out, data)

		return nil
	})

	return out, err
}

// WriteFile writes everything src produces to path, creating parent directories.
//
// With atomic set, the content goes to a temporary file in the same directory which
// is synced and renamed over path, so readers see either the old or the new file.
func WriteFile(path string, src io.WriterTo, atomic bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	if !atomic {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePerm)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}

		if _, err := src.WriteTo(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}

		return f.Close()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return err
	}

	if _, err := src.WriteTo(tmp); err != nil {
		return cleanup(fmt.Errorf("write %s: %w", tmpName, err))
	}
	if err := tmp.Chmod(FilePerm); err != nil {
		return cleanup(fmt.Errorf("chmod %s: %w", tmpName, err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("sync %s: %w", tmpName, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}

	return nil
}

// Exists reports whether path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

func wrapNotFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", errs.ErrNotFound, path)
	}

	return fmt.Errorf("read %s: %w", path, err)
}
