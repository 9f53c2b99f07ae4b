package snapshot

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/amistore/compress"
	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
	"github.com/arloliu/amistore/internal/hash"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func sampleTree() map[string]string {
	return map[string]string{
		"broker.master": "BROKMAS5 master",
		"a/AA":          "aa data",
		"a/AAPL":        "aapl data",
		"s/SPCE":        "spce data",
		"_/^GSPC":       "index data",
	}
}

func TestCreateRestore(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			src := t.TempDir()
			writeTree(t, src, sampleTree())
			// ignored: not a shard file
			require.NoError(t, os.MkdirAll(filepath.Join(src, "x", "nested"), 0o755))

			var buf bytes.Buffer
			info, err := Create(&buf, src, ct)
			require.NoError(t, err)
			require.Equal(t, 5, info.Files)
			require.Equal(t, ct, info.Compression)
			require.Equal(t, []byte(Magic), buf.Bytes()[:8])
			require.Equal(t, byte(ct), buf.Bytes()[8])

			dst := t.TempDir()
			restored, err := Restore(&buf, dst)
			require.NoError(t, err)
			require.Equal(t, info.Header, restored.Header)

			for name, content := range sampleTree() {
				got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(name)))
				require.NoError(t, err)
				require.Equal(t, content, string(got))
			}
		})
	}
}

func TestCollectOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, sampleTree())

	files, err := Collect(root)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"_/^GSPC", "a/AA", "a/AAPL", "s/SPCE", "broker.master"}, names)

	_, err = Collect(filepath.Join(root, "missing"))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCreateEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	info, err := Create(&buf, t.TempDir(), format.CompressionZstd)
	require.NoError(t, err)
	require.Zero(t, info.Files)

	files, _, err := Read(&buf)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestCreateUnsupportedCompression(t *testing.T) {
	var buf bytes.Buffer
	_, err := Create(&buf, t.TempDir(), format.CompressionType(9))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	require.Zero(t, buf.Len())
}

func snapshotOf(t *testing.T, ct format.CompressionType) []byte {
	t.Helper()

	src := t.TempDir()
	writeTree(t, src, sampleTree())

	var buf bytes.Buffer
	_, err := Create(&buf, src, ct)
	require.NoError(t, err)

	return buf.Bytes()
}

func TestReadRejectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b []byte) []byte
		wantErr error
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }, errs.ErrInvalidSnapshot},
		{"truncated header", func(b []byte) []byte { return b[:HeaderSize-1] }, errs.ErrInvalidSnapshot},
		{"unknown codec", func(b []byte) []byte { b[compressionOffset] = 0x7F; return b }, errs.ErrUnsupportedCompression},
		{"payload byte flipped", func(b []byte) []byte { b[HeaderSize+100] ^= 0xFF; return b }, errs.ErrChecksumMismatch},
		{"checksum field", func(b []byte) []byte { b[checksumOffset] ^= 0x01; return b }, errs.ErrChecksumMismatch},
		{"size field", func(b []byte) []byte { b[sizeOffset] ^= 0x01; return b }, errs.ErrChecksumMismatch},
		{"truncated payload", func(b []byte) []byte { return b[:len(b)-10] }, errs.ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(snapshotOf(t, format.CompressionNone))

			dst := t.TempDir()
			_, err := Restore(bytes.NewReader(data), dst)
			require.ErrorIs(t, err, tt.wantErr)

			entries, err := os.ReadDir(dst)
			require.NoError(t, err)
			require.Empty(t, entries, "nothing is written for a rejected snapshot")
		})
	}
}

func TestReadRejectsCorruptCompressedPayload(t *testing.T) {
	data := snapshotOf(t, format.CompressionZstd)
	data = data[:HeaderSize+4]

	_, _, err := Read(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
}

func TestReadBoundsDecompressedSize(t *testing.T) {
	bomb := make([]byte, 8<<20)

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := compress.GetCodec(ct)
			require.NoError(t, err)
			payload, err := codec.Compress(bomb)
			require.NoError(t, err)

			h := Header{Compression: ct, Size: 4096, Checksum: hash.Sum(bomb[:4096])}
			data := append(h.bytes(), payload...)

			dst := t.TempDir()
			_, err = Restore(bytes.NewReader(data), dst)
			require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
			require.ErrorIs(t, err, errs.ErrSizeLimit)

			entries, err := os.ReadDir(dst)
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	}
}

// frame wraps a hand-built tar the way Write does.
func frame(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var tarball bytes.Buffer
	tw := tar.NewWriter(&tarball)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	h := Header{
		Compression: format.CompressionNone,
		Size:        uint64(tarball.Len()),
		Checksum:    hash.Sum(tarball.Bytes()),
	}

	return append(h.bytes(), tarball.Bytes()...)
}

func TestRestoreRejectsUnsafeEntries(t *testing.T) {
	for _, name := range []string{
		"../evil",
		"a/../../evil",
		"/etc/passwd",
		"a/b/c",
		"notes.txt",
		"a/",
		"./broker.master",
	} {
		t.Run(name, func(t *testing.T) {
			data := frame(t, map[string]string{"a/AA": "ok", name: "bad"})

			dst := t.TempDir()
			_, err := Restore(bytes.NewReader(data), dst)
			require.ErrorIs(t, err, errs.ErrInvalidSnapshot)

			_, statErr := os.Stat(filepath.Join(dst, "a", "AA"))
			require.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestCheckEntryName(t *testing.T) {
	for _, name := range []string{"broker.master", "BROKER.MASTER", "a/AA", "_/^GSPC", "s/CON_"} {
		require.NoError(t, checkEntryName(name), name)
	}
}
