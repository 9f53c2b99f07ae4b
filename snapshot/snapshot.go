// Package snapshot packs a store directory into a single compressed file and
// restores it.
//
// A snapshot is a tar stream of the master index and every shard file, compressed
// as one payload and framed with a fixed header:
//
//	+----------+-------------+----------+-----------------+-----------------+---------+
//	| AMISNAP1 | compression | reserved | tar size        | xxhash64 of tar | payload |
//	| 8 bytes  | 1 byte      | 3 bytes  | uint64 LE       | uint64 LE       | ...     |
//	+----------+-------------+----------+-----------------+-----------------+---------+
//
// The checksum covers the uncompressed tar, so Restore detects corruption no matter
// which codec was used. Restore validates the whole archive before writing any file.
package snapshot

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arloliu/amistore/compress"
	"github.com/arloliu/amistore/endian"
	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
	"github.com/arloliu/amistore/internal/fsutil"
	"github.com/arloliu/amistore/internal/hash"
	"github.com/arloliu/amistore/internal/logging"
	"github.com/arloliu/amistore/internal/pool"
	"github.com/arloliu/amistore/layout"
)

const (
	// Magic starts every snapshot.
	Magic = "AMISNAP1"

	// HeaderSize is the size of the frame header preceding the payload.
	HeaderSize = 28

	compressionOffset = 8
	sizeOffset        = 12
	checksumOffset    = 20

	// maxArchiveSize bounds the declared tar size accepted by Restore.
	maxArchiveSize = 16 << 30
)

// Header is the decoded frame header.
type Header struct {
	Compression format.CompressionType
	Size        uint64
	Checksum    uint64
}

// Info summarizes a created or restored snapshot.
type Info struct {
	Header
	Files          int
	CompressedSize int64
}

// File is one archived file, with a slash-separated path relative to the store root.
type File struct {
	Name string
	Data []byte
}

func (h Header) bytes() []byte {
	engine := endian.FileEngine()

	b := make([]byte, HeaderSize)
	copy(b, Magic)
	b[compressionOffset] = byte(h.Compression)
	engine.PutUint64(b[sizeOffset:], h.Size)
	engine.PutUint64(b[checksumOffset:], h.Checksum)

	return b
}

func parseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize || string(b[:len(Magic)]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic", errs.ErrInvalidSnapshot)
	}

	engine := endian.FileEngine()

	return Header{
		Compression: format.CompressionType(b[compressionOffset]),
		Size:        engine.Uint64(b[sizeOffset:]),
		Checksum:    engine.Uint64(b[checksumOffset:]),
	}, nil
}

// Collect returns the files of a store directory in archive order: shard files
// sorted by path, then the master index. Entries other than regular files one level
// below root are skipped.
func Collect(root string) ([]File, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, root)
		}

		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	var files []File
	var master *File

	for _, e := range entries {
		switch {
		case !e.IsDir() && e.Type().IsRegular() && strings.EqualFold(e.Name(), layout.MasterFileName):
			data, err := fsutil.ReadFile(filepath.Join(root, e.Name()), false)
			if err != nil {
				return nil, err
			}
			master = &File{Name: e.Name(), Data: data}

		case e.IsDir():
			shard, err := os.ReadDir(filepath.Join(root, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", e.Name(), err)
			}

			for _, se := range shard {
				if !se.Type().IsRegular() {
					continue
				}

				data, err := fsutil.ReadFile(filepath.Join(root, e.Name(), se.Name()), false)
				if err != nil {
					return nil, err
				}
				files = append(files, File{Name: path.Join(e.Name(), se.Name()), Data: data})
			}
		}
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Name, b.Name) })
	if master != nil {
		files = append(files, *master)
	}

	return files, nil
}

// Create writes a snapshot of the store directory root to w.
//
// The snapshot reflects the files on disk; unpersisted store changes are not part of it.
//
// Returns:
//   - Info: The frame header and the number of archived files
//   - error: ErrNotFound if root does not exist, ErrUnsupportedCompression, or an
//     I/O error
func Create(w io.Writer, root string, compression format.CompressionType) (Info, error) {
	files, err := Collect(root)
	if err != nil {
		return Info{}, err
	}

	return Write(w, files, compression)
}

// Write archives files and writes the framed snapshot to w.
func Write(w io.Writer, files []File, compression format.CompressionType) (Info, error) {
	codec, err := compress.CreateCodec(compression, "snapshot")
	if err != nil {
		return Info{}, err
	}

	buf := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(buf)

	tw := tar.NewWriter(buf)
	for _, f := range files {
		hdr := &tar.Header{
			Name:     f.Name,
			Mode:     fsutil.FilePerm,
			Size:     int64(len(f.Data)),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return Info{}, fmt.Errorf("archive %s: %w", f.Name, err)
		}
		if _, err := tw.Write(f.Data); err != nil {
			return Info{}, fmt.Errorf("archive %s: %w", f.Name, err)
		}
	}
	if err := tw.Close(); err != nil {
		return Info{}, fmt.Errorf("close archive: %w", err)
	}

	tarball := buf.Bytes()
	payload, stats, err := compress.Measure(codec, compression, tarball)
	if err != nil {
		return Info{}, fmt.Errorf("compress snapshot: %w", err)
	}

	info := Info{
		Header: Header{
			Compression: compression,
			Size:        uint64(len(tarball)),
			Checksum:    hash.Sum(tarball),
		},
		Files:          len(files),
		CompressedSize: stats.CompressedSize,
	}

	if _, err := w.Write(info.bytes()); err != nil {
		return Info{}, fmt.Errorf("write snapshot header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return Info{}, fmt.Errorf("write snapshot payload: %w", err)
	}

	logging.Component("snapshot").Debug("snapshot created",
		"files", info.Files,
		"compression", compression.String(),
		"size", info.Size,
		"savings", stats.SpaceSavings(),
	)

	return info, nil
}

// Read decodes and verifies a snapshot without touching the filesystem.
//
// Returns:
//   - []File: The archived files in archive order
//   - Info: The frame header
//   - error: ErrInvalidSnapshot for a bad frame or archive, ErrUnsupportedCompression,
//     or ErrChecksumMismatch when the archive does not match its checksum
func Read(r io.Reader) ([]File, Info, error) {
	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, Info{}, fmt.Errorf("%w: read header: %w", errs.ErrInvalidSnapshot, err)
	}

	h, err := parseHeader(raw)
	if err != nil {
		return nil, Info{}, err
	}
	if h.Size > maxArchiveSize || h.Size > math.MaxInt {
		return nil, Info{}, fmt.Errorf("%w: archive size %d too large", errs.ErrInvalidSnapshot, h.Size)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, Info{}, err
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, Info{}, fmt.Errorf("read snapshot payload: %w", err)
	}

	// the declared size bounds decompression, so a small payload cannot inflate past it
	tarball, err := codec.DecompressLimit(payload, int(h.Size))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}

	if uint64(len(tarball)) != h.Size || hash.Sum(tarball) != h.Checksum {
		return nil, Info{}, fmt.Errorf("%w: expected %d bytes with digest %016x", errs.ErrChecksumMismatch, h.Size, h.Checksum)
	}

	files, err := unpack(tarball)
	if err != nil {
		return nil, Info{}, err
	}

	return files, Info{Header: h, Files: len(files), CompressedSize: int64(len(payload))}, nil
}

func unpack(tarball []byte) ([]File, error) {
	var files []File

	tr := tar.NewReader(bytes.NewReader(tarball))
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
		}

		if hdr.Typeflag != tar.TypeReg {
			return nil, fmt.Errorf("%w: entry %q is not a regular file", errs.ErrInvalidSnapshot, hdr.Name)
		}
		if err := checkEntryName(hdr.Name); err != nil {
			return nil, err
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %w", errs.ErrInvalidSnapshot, hdr.Name, err)
		}
		files = append(files, File{Name: hdr.Name, Data: data})
	}

	return files, nil
}

// checkEntryName accepts the master index at the top level and shard files exactly
// one directory deep.
func checkEntryName(name string) error {
	bad := fmt.Errorf("%w: unsafe entry name %q", errs.ErrInvalidSnapshot, name)

	if name == "" || strings.ContainsAny(name, "\\\x00") || path.IsAbs(name) || path.Clean(name) != name {
		return bad
	}

	parts := strings.Split(name, "/")
	for _, p := range parts {
		if p == "." || p == ".." {
			return bad
		}
	}

	switch len(parts) {
	case 1:
		if !strings.EqualFold(name, layout.MasterFileName) {
			return bad
		}
	case 2:
	default:
		return bad
	}

	return nil
}

// Restore reads a snapshot from r and writes its files below root.
//
// Nothing is written unless the whole snapshot verifies. Files are written with
// temp-file-and-rename, shard files first and the master index last. Files under
// root that are not in the snapshot are left alone.
func Restore(r io.Reader, root string) (Info, error) {
	files, info, err := Read(r)
	if err != nil {
		return Info{}, err
	}

	// master index last
	slices.SortStableFunc(files, func(a, b File) int {
		am := !strings.Contains(a.Name, "/")
		bm := !strings.Contains(b.Name, "/")
		switch {
		case am == bm:
			return 0
		case am:
			return 1
		default:
			return -1
		}
	})

	for _, f := range files {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if err := fsutil.WriteFile(target, bytes.NewReader(f.Data), true); err != nil {
			return Info{}, fmt.Errorf("restore %s: %w", f.Name, err)
		}
	}

	logging.Component("snapshot").Debug("snapshot restored",
		"root", root,
		"files", info.Files,
		"compression", info.Compression.String(),
	)

	return info, nil
}
