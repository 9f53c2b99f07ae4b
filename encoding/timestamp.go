package encoding

import (
	"fmt"
	"time"

	"github.com/arloliu/amistore/errs"
)

// TimestampSize is the encoded size of a PackedTimestamp.
const TimestampSize = 8

// Bit positions of the packed timestamp word, LSB first.
const (
	futureShift      = 0
	reservedShift    = 1
	microsecondShift = 6
	millisecondShift = 16
	secondShift      = 26
	minuteShift      = 32
	hourShift        = 38
	dayShift         = 43
	monthShift       = 48
	yearShift        = 52

	futureMask      = 0x1
	reservedMask    = 0x1F
	microsecondMask = 0x3FF
	millisecondMask = 0x3FF
	secondMask      = 0x3F
	minuteMask      = 0x3F
	hourMask        = 0x1F
	dayMask         = 0x1F
	monthMask       = 0xF
	yearMask        = 0xFFF
)

// EODHour is the hour value marking an end-of-day (daily) timestamp.
const EODHour = 31

// PackedTimestamp is the decoded form of the 64-bit date/time word that starts every
// price record.
//
// Word layout (LSB first):
//
//	Bits   | Field       | Range
//	-------|-------------|--------------------
//	0      | Future      | 0-1
//	1-5    | Reserved    | 0-31
//	6-15   | Microsecond | 0-999
//	16-25  | Millisecond | 0-999
//	26-31  | Second      | 0-59
//	32-37  | Minute      | 0-59
//	38-42  | Hour        | 0-23, 31 = end of day
//	43-47  | Day         | 1-31
//	48-51  | Month       | 1-12
//	52-63  | Year        | 0-4095
//
// Encoding truncates every field to its width, so any struct value encodes; use
// Validate or the New* constructors to reject out-of-range fields.
type PackedTimestamp struct {
	Year        uint16
	Month       uint8
	Day         uint8
	Hour        uint8
	Minute      uint8
	Second      uint8
	Millisecond uint16
	Microsecond uint16
	Reserved    uint8
	Future      uint8
}

// NewDate creates a timestamp at midnight of the given day.
//
// Returns:
//   - PackedTimestamp: The timestamp
//   - error: ErrValidation if a field is out of range
func NewDate(year, month, day int) (PackedTimestamp, error) {
	return NewDateTime(year, month, day, 0, 0, 0, 0, 0)
}

// NewEODDate creates an end-of-day timestamp for the given day.
func NewEODDate(year, month, day int) (PackedTimestamp, error) {
	return NewDateTime(year, month, day, EODHour, 0, 0, 0, 0)
}

// NewDateTime creates a timestamp from calendar and clock fields.
//
// Parameters:
//   - year: 0-4095
//   - month: 1-12
//   - day: 1-31
//   - hour: 0-23, or EODHour
//   - minute, second: 0-59
//   - millisecond, microsecond: 0-999
//
// Returns:
//   - PackedTimestamp: The timestamp
//   - error: ErrValidation if a field is out of range
func NewDateTime(year, month, day, hour, minute, second, millisecond, microsecond int) (PackedTimestamp, error) {
	fields := [...]struct {
		name     string
		val      int
		min, max int
	}{
		{"year", year, 0, yearMask},
		{"month", month, 1, 12},
		{"day", day, 1, 31},
		{"hour", hour, 0, EODHour},
		{"minute", minute, 0, 59},
		{"second", second, 0, 59},
		{"millisecond", millisecond, 0, 999},
		{"microsecond", microsecond, 0, 999},
	}
	for _, f := range fields {
		if f.val < f.min || f.val > f.max {
			return PackedTimestamp{}, fmt.Errorf("%w: %s %d out of range [%d, %d]", errs.ErrValidation, f.name, f.val, f.min, f.max)
		}
	}

	if hour > 23 && hour != EODHour {
		return PackedTimestamp{}, fmt.Errorf("%w: hour %d is neither 0-23 nor %d", errs.ErrValidation, hour, EODHour)
	}

	return PackedTimestamp{
		Year:        uint16(year),
		Month:       uint8(month),
		Day:         uint8(day),
		Hour:        uint8(hour),
		Minute:      uint8(minute),
		Second:      uint8(second),
		Millisecond: uint16(millisecond),
		Microsecond: uint16(microsecond),
	}, nil
}

// TimestampFromWord unpacks a 64-bit timestamp word.
func TimestampFromWord(w uint64) PackedTimestamp {
	return PackedTimestamp{
		Future:      uint8((w >> futureShift) & futureMask),
		Reserved:    uint8((w >> reservedShift) & reservedMask),
		Microsecond: uint16((w >> microsecondShift) & microsecondMask),
		Millisecond: uint16((w >> millisecondShift) & millisecondMask),
		Second:      uint8((w >> secondShift) & secondMask),
		Minute:      uint8((w >> minuteShift) & minuteMask),
		Hour:        uint8((w >> hourShift) & hourMask),
		Day:         uint8((w >> dayShift) & dayMask),
		Month:       uint8((w >> monthShift) & monthMask),
		Year:        uint16((w >> yearShift) & yearMask),
	}
}

// TimestampFromTime converts t, in its own location, to a timestamp with
// microsecond precision.
func TimestampFromTime(t time.Time) PackedTimestamp {
	ns := t.Nanosecond()

	return PackedTimestamp{
		Year:        uint16(t.Year()),
		Month:       uint8(t.Month()),
		Day:         uint8(t.Day()),
		Hour:        uint8(t.Hour()),
		Minute:      uint8(t.Minute()),
		Second:      uint8(t.Second()),
		Millisecond: uint16(ns / int(time.Millisecond)),
		Microsecond: uint16(ns / int(time.Microsecond) % 1000),
	}
}

// Word packs the timestamp into its 64-bit form, truncating each field to its width.
func (ts PackedTimestamp) Word() uint64 {
	return (uint64(ts.Future)&futureMask)<<futureShift |
		(uint64(ts.Reserved)&reservedMask)<<reservedShift |
		(uint64(ts.Microsecond)&microsecondMask)<<microsecondShift |
		(uint64(ts.Millisecond)&millisecondMask)<<millisecondShift |
		(uint64(ts.Second)&secondMask)<<secondShift |
		(uint64(ts.Minute)&minuteMask)<<minuteShift |
		(uint64(ts.Hour)&hourMask)<<hourShift |
		(uint64(ts.Day)&dayMask)<<dayShift |
		(uint64(ts.Month)&monthMask)<<monthShift |
		(uint64(ts.Year)&yearMask)<<yearShift
}

// Validate checks every field against its documented range.
func (ts PackedTimestamp) Validate() error {
	switch {
	case ts.Year > yearMask:
		return fmt.Errorf("%w: year %d out of range", errs.ErrValidation, ts.Year)
	case ts.Month < 1 || ts.Month > 12:
		return fmt.Errorf("%w: month %d out of range", errs.ErrValidation, ts.Month)
	case ts.Day < 1 || ts.Day > 31:
		return fmt.Errorf("%w: day %d out of range", errs.ErrValidation, ts.Day)
	case ts.Hour > 23 && ts.Hour != EODHour:
		return fmt.Errorf("%w: hour %d out of range", errs.ErrValidation, ts.Hour)
	case ts.Minute > 59:
		return fmt.Errorf("%w: minute %d out of range", errs.ErrValidation, ts.Minute)
	case ts.Second > 59:
		return fmt.Errorf("%w: second %d out of range", errs.ErrValidation, ts.Second)
	case ts.Millisecond > 999:
		return fmt.Errorf("%w: millisecond %d out of range", errs.ErrValidation, ts.Millisecond)
	case ts.Microsecond > 999:
		return fmt.Errorf("%w: microsecond %d out of range", errs.ErrValidation, ts.Microsecond)
	case ts.Reserved > reservedMask:
		return fmt.Errorf("%w: reserved %d out of range", errs.ErrValidation, ts.Reserved)
	case ts.Future > futureMask:
		return fmt.Errorf("%w: future flag %d out of range", errs.ErrValidation, ts.Future)
	}

	return nil
}

// IsEOD reports whether the timestamp carries the end-of-day hour marker.
func (ts PackedTimestamp) IsEOD() bool {
	return ts.Hour == EODHour
}

// Date returns the calendar fields.
func (ts PackedTimestamp) Date() (year, month, day int) {
	return int(ts.Year), int(ts.Month), int(ts.Day)
}

// Time converts the timestamp to a UTC time. End-of-day timestamps map to midnight.
func (ts PackedTimestamp) Time() time.Time {
	if ts.IsEOD() {
		return time.Date(int(ts.Year), time.Month(ts.Month), int(ts.Day), 0, 0, 0, 0, time.UTC)
	}

	ns := int(ts.Millisecond)*int(time.Millisecond) + int(ts.Microsecond)*int(time.Microsecond)

	return time.Date(int(ts.Year), time.Month(ts.Month), int(ts.Day), int(ts.Hour), int(ts.Minute), int(ts.Second), ns, time.UTC)
}

// Less orders timestamps chronologically.
func (ts PackedTimestamp) Less(other PackedTimestamp) bool {
	return ts.Word() < other.Word()
}

// DateOnly reports whether the timestamp carries no time of day.
func (ts PackedTimestamp) DateOnly() bool {
	return ts.IsEOD() || (ts.Hour == 0 && ts.Minute == 0 && ts.Second == 0 && ts.Millisecond == 0 && ts.Microsecond == 0)
}

func (ts PackedTimestamp) String() string {
	if ts.DateOnly() {
		return fmt.Sprintf("%04d-%02d-%02d", ts.Year, ts.Month, ts.Day)
	}

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d%03d",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Millisecond, ts.Microsecond)
}
