package encoding

import (
	"testing"

	"github.com/arloliu/amistore/errs"
	"github.com/stretchr/testify/require"
)

func validColumns() Columns {
	return Columns{
		Day:    []int{18, 19},
		Month:  []int{2, 2},
		Year:   []int{2020, 2020},
		Open:   []float32{33.1, 34.30},
		High:   []float32{35, 37.50},
		Low:    []float32{32.5, 32.00},
		Close:  []float32{34, 37.35},
		Volume: []float32{1000, 2000},
	}
}

func TestColumnsRecords(t *testing.T) {
	cols := validColumns()
	require.Equal(t, 2, cols.Len())

	recs, err := cols.Records()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	last := recs[1]
	require.Equal(t, uint8(19), last.Timestamp.Day)
	require.Equal(t, uint8(2), last.Timestamp.Month)
	require.Equal(t, uint16(2020), last.Timestamp.Year)
	require.Equal(t, float32(34.30), last.Open)
	require.Equal(t, float32(37.35), last.Close)
	require.Zero(t, last.Aux1)
}

func TestColumnsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Columns)
	}{
		{"missing day", func(c *Columns) { c.Day = nil }},
		{"missing volume", func(c *Columns) { c.Volume = nil }},
		{"short close", func(c *Columns) { c.Close = c.Close[:1] }},
		{"long year", func(c *Columns) { c.Year = append(c.Year, 2021) }},
		{"misaligned optional", func(c *Columns) { c.Hour = []int{1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := validColumns()
			tt.mutate(&cols)

			require.ErrorIs(t, cols.Validate(), errs.ErrValidation)

			_, err := cols.Records()
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestColumnsFieldRange(t *testing.T) {
	cols := validColumns()
	cols.Month[1] = 13

	_, err := cols.Records()
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Contains(t, err.Error(), "row 1")
}

func TestColumnsFromRecords(t *testing.T) {
	cols := validColumns()
	cols.Hour = []int{EODHour, EODHour}
	cols.Aux1 = []float32{1, 2}

	recs, err := cols.Records()
	require.NoError(t, err)

	back := ColumnsFromRecords(recs)
	again, err := back.Records()
	require.NoError(t, err)
	require.Equal(t, recs, again)
}
