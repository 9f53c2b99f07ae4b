package compress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
	"github.com/stretchr/testify/require"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"LZ4":  NewLZ4Compressor(),
		"S2":   NewS2Compressor(),
		"Zstd": NewZstdCompressor(),
	}
}

// recordPayload encodes n consecutive daily records, the typical content of a snapshot.
func recordPayload(t testing.TB, n int) []byte {
	var out []byte
	for i := range n {
		ts, err := encoding.NewEODDate(2015+i/336, 1+(i/28)%12, 1+i%28)
		require.NoError(t, err)

		p := 100 + float32(i%50)/4
		out = encoding.AppendRecord(out, encoding.NewRecord(ts, p, p+1, p-1, p+0.5, float32(1000+i)))
	}

	return out
}

func TestCreateCodec(t *testing.T) {
	tests := []struct {
		typ  format.CompressionType
		want Codec
	}{
		{format.CompressionNone, NoOpCompressor{}},
		{format.CompressionZstd, ZstdCompressor{}},
		{format.CompressionS2, S2Compressor{}},
		{format.CompressionLZ4, LZ4Compressor{}},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			codec, err := CreateCodec(tt.typ, "snapshot")
			require.NoError(t, err)
			require.IsType(t, tt.want, codec)

			shared, err := GetCodec(tt.typ)
			require.NoError(t, err)
			require.IsType(t, tt.want, shared)
		})
	}

	_, err := CreateCodec(format.CompressionType(0x7F), "snapshot")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	require.Contains(t, err.Error(), "snapshot")

	_, err = GetCodec(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestCompressionStats(t *testing.T) {
	tests := []struct {
		name       string
		stats      CompressionStats
		wantRatio  float64
		wantSaving float64
	}{
		{"empty", CompressionStats{}, 0, 100},
		{"half", CompressionStats{OriginalSize: 1000, CompressedSize: 500}, 0.5, 50},
		{"none", CompressionStats{OriginalSize: 40, CompressedSize: 40}, 1, 0},
		{"expanded", CompressionStats{OriginalSize: 10, CompressedSize: 20}, 2, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.wantRatio, tt.stats.CompressionRatio(), 1e-9)
			require.InDelta(t, tt.wantSaving, tt.stats.SpaceSavings(), 1e-9)
		})
	}
}

func TestMeasure(t *testing.T) {
	data := recordPayload(t, 500)

	out, stats, err := Measure(NewZstdCompressor(), format.CompressionZstd, data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Equal(t, int64(len(data)), stats.OriginalSize)
	require.Equal(t, int64(len(out)), stats.CompressedSize)
	require.Less(t, stats.CompressionRatio(), 1.0)
}

func TestNoOpCompressor_SharesInput(t *testing.T) {
	data := []byte("AAPL")
	c := NewNoOpCompressor()

	out, err := c.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])

	back, err := c.Decompress(out)
	require.NoError(t, err)
	require.Equal(t, data, back)
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Nil(t, decompressed)

			compressed, err = codec.Compress([]byte{})
			require.NoError(t, err)
			decompressed, err = codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"single_byte", []byte{0x42}},
		{"magic", []byte("BROKDAt5")},
		{"one_record", recordPayload(t, 1)},
		{"year_of_records", recordPayload(t, 252)},
		{"decade_of_records", recordPayload(t, 2520)},
		{"zeros", make([]byte, 1<<20)},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotNil(t, compressed)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.True(t, bytes.Equal(tc.data, decompressed))
				})
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := []struct {
		name string
		data []byte
	}{
		{"random_bytes", []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"text_as_compressed", []byte("this is not compressed data")},
	}

	for codecName, codec := range getAllCodecs() {
		if codecName == "NoOp" {
			continue
		}

		t.Run(codecName, func(t *testing.T) {
			for _, input := range invalidInputs {
				t.Run(input.name, func(t *testing.T) {
					_, err := codec.Decompress(input.data)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestAllCodecs_DecompressLimit(t *testing.T) {
	// zeros inflate far beyond their compressed size
	zeros := make([]byte, 1<<20)
	records := recordPayload(t, 200)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, data := range [][]byte{zeros, records} {
				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				back, err := codec.DecompressLimit(compressed, len(data))
				require.NoError(t, err)
				require.Equal(t, data, back)

				_, err = codec.DecompressLimit(compressed, len(data)/2)
				require.ErrorIs(t, err, errs.ErrSizeLimit)
			}

			out, err := codec.DecompressLimit(nil, 0)
			require.NoError(t, err)
			require.Empty(t, out)
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 16
	data := recordPayload(t, 300)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			done := make(chan error, numGoroutines)
			for range numGoroutines {
				go func() {
					out, err := codec.Compress(data)
					if err != nil {
						done <- err
						return
					}

					back, err := codec.Decompress(compressed)
					if err != nil {
						done <- err
						return
					}
					if !bytes.Equal(back, data) || len(out) == 0 {
						done <- fmt.Errorf("%s: round trip mismatch", codecName)
						return
					}
					done <- nil
				}()
			}

			for range numGoroutines {
				require.NoError(t, <-done)
			}
		})
	}
}

func TestLZ4Compressor_LargeExpansionRatio(t *testing.T) {
	// zeros compress far beyond the initial 4x guess, forcing buffer doubling
	data := make([]byte, 4<<20)
	c := NewLZ4Compressor()

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed)*4, len(data))

	back, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, back)
}
