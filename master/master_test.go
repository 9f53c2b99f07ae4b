package master

import (
	"strings"
	"testing"

	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/section"
	"github.com/stretchr/testify/require"
)

func TestNewIndex(t *testing.T) {
	idx := New()
	require.Equal(t, 0, idx.Len())
	require.Empty(t, idx.Symbols())
	require.Equal(t, section.MasterMagic, string(idx.Magic()))

	b := idx.Bytes()
	require.Len(t, b, section.MasterHeaderSize)
	require.Equal(t, []byte{0, 0, 0, 0}, b[8:12])
}

func TestAppendSymbol(t *testing.T) {
	idx := New()
	for _, name := range []string{"AA", "AACC", "AAP"} {
		require.NoError(t, idx.AppendSymbol(name))
	}

	require.Equal(t, []string{"AA", "AACC", "AAP"}, idx.Symbols())
	require.True(t, idx.Contains("AACC"))
	require.False(t, idx.Contains("aacc"))

	b := idx.Bytes()
	require.Len(t, b, section.MasterHeaderSize+3*section.EntrySize)
	require.Equal(t, []byte{3, 0, 0, 0}, b[8:12])

	second := b[section.MasterEntryOffset+section.EntrySize:]
	require.Equal(t, "AACC\x00", string(second[:5]))
	require.Equal(t, section.DefaultTag[:], second[section.TagOffset:section.ReservedOffset])

	for _, bad := range []string{"", "A\x00B", strings.Repeat("X", section.MaxNameLength+1)} {
		require.ErrorIs(t, idx.AppendSymbol(bad), errs.ErrValidation)
	}
	require.Equal(t, 3, idx.Len())
}

func TestDecodeRoundTrip(t *testing.T) {
	idx := New()
	require.NoError(t, idx.AppendSymbol("AAPL"))
	require.NoError(t, idx.AppendSymbol("SPCE"))
	data := idx.Bytes()

	// foreign tag and reserved bytes must survive untouched
	data[section.MasterEntryOffset+section.TagOffset] = 0x07
	data[section.MasterEntryOffset+section.ReservedOffset+3] = 0xEE
	copy(data, "OTHERMAG")
	data = append(data, 0xDE, 0xAD)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, []string{"AAPL", "SPCE"}, decoded.Symbols())
	require.Equal(t, "OTHERMAG", string(decoded.Magic()))
	require.Equal(t, []byte{0xDE, 0xAD}, decoded.Trailer())
	require.Equal(t, data, decoded.Bytes())

	e, err := decoded.Entry(0)
	require.NoError(t, err)
	require.False(t, e.HasDefaultTag())

	_, err = decoded.Entry(2)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = decoded.Entry(-1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestDecodeAppendKeepsTrailer(t *testing.T) {
	idx := New()
	require.NoError(t, idx.AppendSymbol("AA"))
	data := append(idx.Bytes(), 1, 2, 3)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.NoError(t, decoded.AppendSymbol("AAP"))

	out := decoded.Bytes()
	require.Equal(t, []byte{2, 0, 0, 0}, out[8:12])
	require.Equal(t, []byte{1, 2, 3}, out[len(out)-3:])

	again, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, []string{"AA", "AAP"}, again.Symbols())
}

func TestDecodeMalformed(t *testing.T) {
	t.Run("Short header", func(t *testing.T) {
		_, err := Decode(make([]byte, section.MasterHeaderSize-1))
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("Count exceeds data", func(t *testing.T) {
		data := New().Bytes()
		data[8] = 2
		data = append(data, make([]byte, section.EntrySize)...)

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("Huge count", func(t *testing.T) {
		data := New().Bytes()
		copy(data[8:12], []byte{0xFF, 0xFF, 0xFF, 0xFF})

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrFormat)
	})
}

func TestDecodeDuplicateNames(t *testing.T) {
	idx := New()
	require.NoError(t, idx.AppendSymbol("AA"))
	require.NoError(t, idx.AppendSymbol("AA"))

	decoded, err := Decode(idx.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, decoded.Len())
	require.True(t, decoded.Contains("AA"))
}
