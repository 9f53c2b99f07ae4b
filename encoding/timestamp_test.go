package encoding

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/arloliu/amistore/errs"
	"github.com/stretchr/testify/require"
)

func TestTimestampWordLayout(t *testing.T) {
	tests := []struct {
		name string
		ts   PackedTimestamp
		want uint64
	}{
		{"future", PackedTimestamp{Future: 1}, 1},
		{"reserved", PackedTimestamp{Reserved: 0x1F}, 0x1F << 1},
		{"microsecond", PackedTimestamp{Microsecond: 999}, 999 << 6},
		{"millisecond", PackedTimestamp{Millisecond: 999}, 999 << 16},
		{"second", PackedTimestamp{Second: 59}, 59 << 26},
		{"minute", PackedTimestamp{Minute: 59}, 59 << 32},
		{"hour", PackedTimestamp{Hour: EODHour}, 31 << 38},
		{"day", PackedTimestamp{Day: 31}, 31 << 43},
		{"month", PackedTimestamp{Month: 12}, 12 << 48},
		{"year", PackedTimestamp{Year: 4095}, 4095 << 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ts.Word())
			require.Equal(t, tt.ts, TimestampFromWord(tt.want))
		})
	}
}

func TestTimestampKnownDate(t *testing.T) {
	ts, err := NewEODDate(2017, 9, 29)
	require.NoError(t, err)

	w := uint64(2017)<<52 | 9<<48 | 29<<43 | 31<<38
	require.Equal(t, w, ts.Word())

	b := EncodeTimestamp(ts)
	require.Len(t, b, TimestampSize)

	decoded, err := DecodeTimestamp(b)
	require.NoError(t, err)
	require.Equal(t, ts, decoded)
	require.True(t, decoded.IsEOD())
	require.Equal(t, "2017-09-29", decoded.String())
}

func TestTimestampWordRoundTrip(t *testing.T) {
	words := []uint64{0, 1, ^uint64(0), 0x8000000000000000, 0x0123456789ABCDEF}

	r := rand.New(rand.NewPCG(1, 2))
	for range 10000 {
		words = append(words, r.Uint64())
	}

	for _, w := range words {
		require.Equal(t, w, TimestampFromWord(w).Word())

		b := EncodeTimestamp(TimestampFromWord(w))
		ts, err := DecodeTimestamp(b)
		require.NoError(t, err)
		require.Equal(t, b, EncodeTimestamp(ts))
	}
}

func TestTimestampFieldRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for range 10000 {
		hour := r.IntN(25)
		if hour == 24 {
			hour = EODHour
		}

		ts, err := NewDateTime(r.IntN(4096), 1+r.IntN(12), 1+r.IntN(31), hour,
			r.IntN(60), r.IntN(60), r.IntN(1000), r.IntN(1000))
		require.NoError(t, err)
		ts.Reserved = uint8(r.IntN(32))
		ts.Future = uint8(r.IntN(2))
		require.NoError(t, ts.Validate())

		decoded, err := DecodeTimestamp(EncodeTimestamp(ts))
		require.NoError(t, err)
		require.Equal(t, ts, decoded)
	}
}

func TestTimestampTruncates(t *testing.T) {
	ts := PackedTimestamp{Year: 2020, Month: 1, Day: 1, Millisecond: 1024 + 5}
	require.Error(t, ts.Validate())

	decoded := TimestampFromWord(ts.Word())
	require.Equal(t, uint16(5), decoded.Millisecond)
	require.Equal(t, uint16(2020), decoded.Year)
}

func TestNewDateTimeValidation(t *testing.T) {
	tests := []struct {
		name                                  string
		year, month, day, hour, minute, second int
		milli, micro                          int
	}{
		{"month zero", 2020, 0, 1, 0, 0, 0, 0, 0},
		{"month 13", 2020, 13, 1, 0, 0, 0, 0, 0},
		{"day zero", 2020, 1, 0, 0, 0, 0, 0, 0},
		{"day 32", 2020, 1, 32, 0, 0, 0, 0, 0},
		{"hour 24", 2020, 1, 1, 24, 0, 0, 0, 0},
		{"hour 30", 2020, 1, 1, 30, 0, 0, 0, 0},
		{"minute 60", 2020, 1, 1, 0, 60, 0, 0, 0},
		{"second 60", 2020, 1, 1, 0, 0, 60, 0, 0},
		{"milli 1000", 2020, 1, 1, 0, 0, 0, 1000, 0},
		{"micro 1000", 2020, 1, 1, 0, 0, 0, 0, 1000},
		{"year 4096", 4096, 1, 1, 0, 0, 0, 0, 0},
		{"negative year", -1, 1, 1, 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateTime(tt.year, tt.month, tt.day, tt.hour, tt.minute, tt.second, tt.milli, tt.micro)
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}

	_, err := NewDateTime(2020, 2, 29, EODHour, 0, 0, 0, 0)
	require.NoError(t, err)
}

func TestTimestampShortInput(t *testing.T) {
	_, err := DecodeTimestamp(make([]byte, 7))
	require.ErrorIs(t, err, errs.ErrFormat)

	require.ErrorIs(t, PutTimestamp(make([]byte, 7), PackedTimestamp{}), errs.ErrFormat)
}

func TestTimestampTime(t *testing.T) {
	ts, err := NewDateTime(2024, 3, 15, 14, 30, 5, 123, 456)
	require.NoError(t, err)

	tm := ts.Time()
	require.Equal(t, time.Date(2024, 3, 15, 14, 30, 5, 123456000, time.UTC), tm)
	require.Equal(t, ts, TimestampFromTime(tm))
	require.Equal(t, "2024-03-15 14:30:05.123456", ts.String())

	eod, err := NewEODDate(2024, 3, 15)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), eod.Time())
}

func TestTimestampLess(t *testing.T) {
	a, _ := NewDate(2019, 12, 31)
	b, _ := NewDate(2020, 1, 1)
	c, _ := NewDateTime(2020, 1, 1, 9, 30, 0, 0, 0)

	require.True(t, a.Less(b))
	require.True(t, b.Less(c))
	require.False(t, c.Less(a))
}

func BenchmarkTimestampRoundTrip(b *testing.B) {
	ts, _ := NewDateTime(2024, 3, 15, 14, 30, 5, 123, 456)
	buf := make([]byte, TimestampSize)
	codec := DefaultCodec()

	for b.Loop() {
		_ = codec.PutTimestamp(buf, ts)
		_, _ = codec.DecodeTimestamp(buf)
	}
}
