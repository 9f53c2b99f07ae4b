package encoding

import (
	"fmt"

	"github.com/arloliu/amistore/errs"
)

// Column names used in validation errors.
const (
	ColumnDay         = "day"
	ColumnMonth       = "month"
	ColumnYear        = "year"
	ColumnHour        = "hour"
	ColumnMinute      = "minute"
	ColumnSecond      = "second"
	ColumnMillisecond = "millisecond"
	ColumnMicrosecond = "microsecond"
	ColumnOpen        = "open"
	ColumnHigh        = "high"
	ColumnLow         = "low"
	ColumnClose       = "close"
	ColumnVolume      = "volume"
	ColumnAux1        = "aux1"
	ColumnAux2        = "aux2"
)

// RequiredColumns lists the columns every batch must carry.
var RequiredColumns = []string{
	ColumnDay, ColumnMonth, ColumnYear,
	ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume,
}

// Columns is a batch of records for one symbol in column-major form.
//
// Day, Month, Year, Open, High, Low, Close and Volume are required. The remaining
// columns are optional; a nil optional column reads as zero for every row. All
// present columns must have the same length.
type Columns struct {
	Day   []int
	Month []int
	Year  []int

	Hour        []int
	Minute      []int
	Second      []int
	Millisecond []int
	Microsecond []int

	Open   []float32
	High   []float32
	Low    []float32
	Close  []float32
	Volume []float32
	Aux1   []float32
	Aux2   []float32
}

type column struct {
	name     string
	n        int
	present  bool
	required bool
}

func (c *Columns) columns() []column {
	intCol := func(name string, v []int, required bool) column {
		return column{name: name, n: len(v), present: v != nil, required: required}
	}
	floatCol := func(name string, v []float32, required bool) column {
		return column{name: name, n: len(v), present: v != nil, required: required}
	}

	return []column{
		intCol(ColumnDay, c.Day, true),
		intCol(ColumnMonth, c.Month, true),
		intCol(ColumnYear, c.Year, true),
		intCol(ColumnHour, c.Hour, false),
		intCol(ColumnMinute, c.Minute, false),
		intCol(ColumnSecond, c.Second, false),
		intCol(ColumnMillisecond, c.Millisecond, false),
		intCol(ColumnMicrosecond, c.Microsecond, false),
		floatCol(ColumnOpen, c.Open, true),
		floatCol(ColumnHigh, c.High, true),
		floatCol(ColumnLow, c.Low, true),
		floatCol(ColumnClose, c.Close, true),
		floatCol(ColumnVolume, c.Volume, true),
		floatCol(ColumnAux1, c.Aux1, false),
		floatCol(ColumnAux2, c.Aux2, false),
	}
}

// Len returns the row count, i.e. the length of the Day column.
func (c *Columns) Len() int {
	return len(c.Day)
}

// Validate checks that required columns are present and that all present columns
// share one length. Field ranges are checked by Records.
//
// Returns:
//   - error: ErrValidation describing the first problem found
func (c *Columns) Validate() error {
	n := c.Len()
	for _, col := range c.columns() {
		if !col.present {
			if col.required {
				return fmt.Errorf("%w: missing required column %q", errs.ErrValidation, col.name)
			}

			continue
		}

		if col.n != n {
			return fmt.Errorf("%w: column %q has %d rows, %q has %d", errs.ErrValidation, col.name, col.n, ColumnDay, n)
		}
	}

	return nil
}

// Records validates the batch and converts it to records in row order.
//
// Returns:
//   - []PriceRecord: One record per row
//   - error: ErrValidation on missing columns, mismatched lengths or out-of-range fields
func (c *Columns) Records() ([]PriceRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	optInt := func(v []int, i int) int {
		if v == nil {
			return 0
		}

		return v[i]
	}
	optFloat := func(v []float32, i int) float32 {
		if v == nil {
			return 0
		}

		return v[i]
	}

	recs := make([]PriceRecord, c.Len())
	for i := range recs {
		ts, err := NewDateTime(c.Year[i], c.Month[i], c.Day[i],
			optInt(c.Hour, i), optInt(c.Minute, i), optInt(c.Second, i),
			optInt(c.Millisecond, i), optInt(c.Microsecond, i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		rec := NewRecord(ts, c.Open[i], c.High[i], c.Low[i], c.Close[i], c.Volume[i])
		rec.Aux1 = optFloat(c.Aux1, i)
		rec.Aux2 = optFloat(c.Aux2, i)
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		recs[i] = rec
	}

	return recs, nil
}

// ColumnsFromRecords converts records to column-major form with every column set.
func ColumnsFromRecords(recs []PriceRecord) Columns {
	n := len(recs)
	c := Columns{
		Day: make([]int, n), Month: make([]int, n), Year: make([]int, n),
		Hour: make([]int, n), Minute: make([]int, n), Second: make([]int, n),
		Millisecond: make([]int, n), Microsecond: make([]int, n),
		Open: make([]float32, n), High: make([]float32, n), Low: make([]float32, n),
		Close: make([]float32, n), Volume: make([]float32, n),
		Aux1: make([]float32, n), Aux2: make([]float32, n),
	}

	for i, r := range recs {
		ts := r.Timestamp
		c.Day[i], c.Month[i], c.Year[i] = int(ts.Day), int(ts.Month), int(ts.Year)
		c.Hour[i], c.Minute[i], c.Second[i] = int(ts.Hour), int(ts.Minute), int(ts.Second)
		c.Millisecond[i], c.Microsecond[i] = int(ts.Millisecond), int(ts.Microsecond)
		c.Open[i], c.High[i], c.Low[i], c.Close[i] = r.Open, r.High, r.Low, r.Close
		c.Volume[i], c.Aux1[i], c.Aux2[i] = r.Volume, r.Aux1, r.Aux2
	}

	return c
}
