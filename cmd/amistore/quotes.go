package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/amistore/encoding"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var quoteHeader = []string{"date", "open", "high", "low", "close", "volume"}

// window selects records by calendar date, inclusive on both ends.
type window struct {
	start, end time.Time
}

func parseWindow(start, end string) (window, error) {
	var w window

	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return w, fmt.Errorf("%w: --start: %w", errUsage, err)
		}
		w.start = t
	}

	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return w, fmt.Errorf("%w: --end: %w", errUsage, err)
		}
		w.end = t
	}

	if !w.start.IsZero() && !w.end.IsZero() && w.end.Before(w.start) {
		return w, fmt.Errorf("%w: --end before --start", errUsage)
	}

	return w, nil
}

func (w window) contains(ts encoding.PackedTimestamp) bool {
	y, m, d := ts.Date()
	day := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)

	if !w.start.IsZero() && day.Before(w.start) {
		return false
	}
	if !w.end.IsZero() && day.After(w.end) {
		return false
	}

	return true
}

func formatPrice(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func writeQuotes(out io.Writer, recs []encoding.PriceRecord, w window) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(quoteHeader); err != nil {
		return err
	}

	for _, r := range recs {
		if !w.contains(r.Timestamp) {
			continue
		}

		row := []string{
			r.Timestamp.String(),
			formatPrice(r.Open),
			formatPrice(r.High),
			formatPrice(r.Low),
			formatPrice(r.Close),
			formatPrice(r.Volume),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

func parseTimestamp(s string) (encoding.PackedTimestamp, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(dateLayout, s); err == nil {
		return encoding.NewEODDate(t.Year(), int(t.Month()), t.Day())
	}

	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return encoding.PackedTimestamp{}, fmt.Errorf("date %q: want YYYY-MM-DD or YYYY-MM-DD hh:mm:ss", s)
	}

	return encoding.TimestampFromTime(t), nil
}

func parsePrice(name, s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, err)
	}

	return float32(v), nil
}

// readQuotes parses date,open,high,low,close,volume rows. A header row is skipped.
func readQuotes(in io.Reader) ([]encoding.PriceRecord, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = len(quoteHeader)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var recs []encoding.PriceRecord
	for n := 1; ; n++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if n == 1 && strings.EqualFold(strings.TrimSpace(row[0]), quoteHeader[0]) {
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func parseRow(row []string) (encoding.PriceRecord, error) {
	ts, err := parseTimestamp(row[0])
	if err != nil {
		return encoding.PriceRecord{}, err
	}

	var px [5]float32
	for i := range px {
		v, err := parsePrice(quoteHeader[i+1], row[i+1])
		if err != nil {
			return encoding.PriceRecord{}, err
		}
		px[i] = v
	}

	rec := encoding.NewRecord(ts, px[0], px[1], px[2], px[3], px[4])

	return rec, rec.Validate()
}

// newerThan drops the records not after last.
func newerThan(recs []encoding.PriceRecord, last encoding.PackedTimestamp) []encoding.PriceRecord {
	out := recs[:0]
	for _, r := range recs {
		if last.Less(r.Timestamp) {
			out = append(out, r)
		}
	}

	return out
}
