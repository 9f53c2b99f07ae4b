package encoding

import (
	"fmt"

	"github.com/arloliu/amistore/errs"
)

// Codec encodes and decodes timestamps and records through a Backend.
//
// Codec is a small value type; copy it freely. The zero value is not usable, create
// one with NewCodec or use DefaultCodec.
type Codec struct {
	backend Backend
}

// NewCodec creates a codec on top of backend.
func NewCodec(backend Backend) Codec {
	return Codec{backend: backend}
}

// DefaultCodec returns a codec using the process-wide backend.
func DefaultCodec() Codec {
	return Codec{backend: Default()}
}

// Backend returns the backend the codec runs on.
func (c Codec) Backend() Backend {
	return c.backend
}

// DecodeTimestamp decodes the first 8 bytes of b.
//
// Returns:
//   - PackedTimestamp: The decoded fields
//   - error: ErrFormat if b is shorter than TimestampSize
func (c Codec) DecodeTimestamp(b []byte) (PackedTimestamp, error) {
	if len(b) < TimestampSize {
		return PackedTimestamp{}, fmt.Errorf("%w: timestamp needs %d bytes, got %d", errs.ErrFormat, TimestampSize, len(b))
	}

	return TimestampFromWord(c.backend.Uint64(b)), nil
}

// PutTimestamp encodes ts into the first 8 bytes of dst.
func (c Codec) PutTimestamp(dst []byte, ts PackedTimestamp) error {
	if len(dst) < TimestampSize {
		return fmt.Errorf("%w: timestamp needs %d bytes, got %d", errs.ErrFormat, TimestampSize, len(dst))
	}

	c.backend.PutUint64(dst, ts.Word())

	return nil
}

// DecodeRecord decodes the first 40 bytes of b.
//
// Returns:
//   - PriceRecord: The decoded record
//   - error: ErrFormat if b is shorter than RecordSize
func (c Codec) DecodeRecord(b []byte) (PriceRecord, error) {
	if len(b) < RecordSize {
		return PriceRecord{}, fmt.Errorf("%w: record needs %d bytes, got %d", errs.ErrFormat, RecordSize, len(b))
	}

	return c.decodeRecord(b[:RecordSize]), nil
}

// decodeRecord expects exactly RecordSize bytes.
func (c Codec) decodeRecord(b []byte) PriceRecord {
	be := c.backend

	return PriceRecord{
		Timestamp:  TimestampFromWord(be.Uint64(b)),
		Close:      be.Float32(b[closeOffset:]),
		Open:       be.Float32(b[openOffset:]),
		High:       be.Float32(b[highOffset:]),
		Low:        be.Float32(b[lowOffset:]),
		Volume:     be.Float32(b[volumeOffset:]),
		Aux1:       be.Float32(b[aux1Offset:]),
		Aux2:       be.Float32(b[aux2Offset:]),
		Terminator: be.Float32(b[terminatorOffset:]),
	}
}

// PutRecord encodes r into the first 40 bytes of dst.
func (c Codec) PutRecord(dst []byte, r PriceRecord) error {
	if len(dst) < RecordSize {
		return fmt.Errorf("%w: record needs %d bytes, got %d", errs.ErrFormat, RecordSize, len(dst))
	}

	c.putRecord(dst[:RecordSize], r)

	return nil
}

func (c Codec) putRecord(b []byte, r PriceRecord) {
	be := c.backend
	be.PutUint64(b, r.Timestamp.Word())
	be.PutFloat32(b[closeOffset:], r.Close)
	be.PutFloat32(b[openOffset:], r.Open)
	be.PutFloat32(b[highOffset:], r.High)
	be.PutFloat32(b[lowOffset:], r.Low)
	be.PutFloat32(b[volumeOffset:], r.Volume)
	be.PutFloat32(b[aux1Offset:], r.Aux1)
	be.PutFloat32(b[aux2Offset:], r.Aux2)
	be.PutFloat32(b[terminatorOffset:], r.Terminator)
}

// AppendRecord appends the encoding of r to dst and returns the extended slice.
func (c Codec) AppendRecord(dst []byte, r PriceRecord) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, RecordSize)...)
	c.putRecord(dst[n:], r)

	return dst
}

// DecodeRecords decodes len(b)/RecordSize consecutive records.
//
// Returns:
//   - []PriceRecord: The decoded records
//   - error: ErrFormat if len(b) is not a multiple of RecordSize
func (c Codec) DecodeRecords(b []byte) ([]PriceRecord, error) {
	if len(b)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of records", errs.ErrFormat, len(b))
	}

	recs := make([]PriceRecord, len(b)/RecordSize)
	for i := range recs {
		off := i * RecordSize
		recs[i] = c.decodeRecord(b[off : off+RecordSize])
	}

	return recs, nil
}

// DecodeTimestamp decodes the first 8 bytes of b with the process-wide backend.
func DecodeTimestamp(b []byte) (PackedTimestamp, error) {
	return DefaultCodec().DecodeTimestamp(b)
}

// EncodeTimestamp returns the 8-byte encoding of ts.
func EncodeTimestamp(ts PackedTimestamp) []byte {
	b := make([]byte, TimestampSize)
	Default().PutUint64(b, ts.Word())

	return b
}

// PutTimestamp encodes ts into dst with the process-wide backend.
func PutTimestamp(dst []byte, ts PackedTimestamp) error {
	return DefaultCodec().PutTimestamp(dst, ts)
}

// DecodeRecord decodes the first 40 bytes of b with the process-wide backend.
func DecodeRecord(b []byte) (PriceRecord, error) {
	return DefaultCodec().DecodeRecord(b)
}

// EncodeRecord returns the 40-byte encoding of r.
func EncodeRecord(r PriceRecord) []byte {
	b := make([]byte, RecordSize)
	DefaultCodec().putRecord(b, r)

	return b
}

// PutRecord encodes r into dst with the process-wide backend.
func PutRecord(dst []byte, r PriceRecord) error {
	return DefaultCodec().PutRecord(dst, r)
}

// AppendRecord appends the encoding of r to dst with the process-wide backend.
func AppendRecord(dst []byte, r PriceRecord) []byte {
	return DefaultCodec().AppendRecord(dst, r)
}
