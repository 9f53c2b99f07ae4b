package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/amistore/errs"
)

// RecordSize is the encoded size of a PriceRecord.
const RecordSize = 40

// byte offsets of the record fields
const (
	closeOffset      = 8
	openOffset       = 12
	highOffset       = 16
	lowOffset        = 20
	volumeOffset     = 24
	aux1Offset       = 28
	aux2Offset       = 32
	terminatorOffset = 36
)

// PriceRecord is one 40-byte bar of a symbol data file.
//
//	Bytes  | Field      | Type
//	-------|------------|----------------
//	0-7    | Timestamp  | packed uint64
//	8-11   | Close      | float32
//	12-15  | Open       | float32
//	16-19  | High       | float32
//	20-23  | Low        | float32
//	24-27  | Volume     | float32
//	28-31  | Aux1       | float32
//	32-35  | Aux2       | float32
//	36-39  | Terminator | float32, reserved
type PriceRecord struct {
	Timestamp  PackedTimestamp
	Close      float32
	Open       float32
	High       float32
	Low        float32
	Volume     float32
	Aux1       float32
	Aux2       float32
	Terminator float32
}

// NewRecord creates a record with zero auxiliary and terminator fields.
func NewRecord(ts PackedTimestamp, openPx, highPx, lowPx, closePx, volume float32) PriceRecord {
	return PriceRecord{
		Timestamp: ts,
		Open:      openPx,
		High:      highPx,
		Low:       lowPx,
		Close:     closePx,
		Volume:    volume,
	}
}

// Validate checks the timestamp ranges and that open, high, low, close and volume are
// finite numbers.
func (r PriceRecord) Validate() error {
	if err := r.Timestamp.Validate(); err != nil {
		return err
	}

	prices := [...]struct {
		name string
		val  float32
	}{
		{"open", r.Open},
		{"high", r.High},
		{"low", r.Low},
		{"close", r.Close},
		{"volume", r.Volume},
	}
	for _, p := range prices {
		f := float64(p.val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s is not a finite number", errs.ErrValidation, p.name)
		}
	}

	return nil
}
