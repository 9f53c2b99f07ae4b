package amistore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/amistore/internal/logging"
	"github.com/arloliu/amistore/store"
	"github.com/stretchr/testify/require"
)

func TestOpenAppendPersist(t *testing.T) {
	root := t.TempDir()

	st, err := Open(root, store.WithLogger(logging.Discard()))
	require.NoError(t, err)

	ts, err := NewEODDate(2020, 2, 20)
	require.NoError(t, err)
	rec := NewRecord(ts, 37.4, 38, 36.9, 37.8, 50000)

	require.NoError(t, st.AppendRecord("SPCE", rec))
	require.NoError(t, st.Persist())

	data, err := os.ReadFile(filepath.Join(root, "s", "SPCE"))
	require.NoError(t, err)

	f, err := ParseSymbolFile(data)
	require.NoError(t, err)
	require.Equal(t, 1, f.Len())

	got, err := f.At(0)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestNewDateTime(t *testing.T) {
	ts, err := NewDateTime(2021, 6, 1, 9, 30, 0, 250, 0)
	require.NoError(t, err)
	require.Equal(t, "2021-06-01 09:30:00.250000", ts.String())

	_, err = NewDateTime(2021, 6, 1, 24, 0, 0, 0, 0)
	require.Error(t, err)
}

func TestBackupRestore(t *testing.T) {
	var buf bytes.Buffer
	info, err := Backup(&buf, "store/testdata/sample")
	require.NoError(t, err)
	require.Equal(t, 3, info.Files)

	root := t.TempDir()
	_, err = Restore(&buf, root)
	require.NoError(t, err)

	st, err := Open(root, store.WithLogger(logging.Discard()))
	require.NoError(t, err)
	require.Equal(t, []string{"AA", "AACC", "AAP", "AAPL", "SPCE"}, st.Symbols())
}
