// Package symfile implements the symbol data file: a header, a run of 40-byte price
// records and a 4-byte sentinel, held in one owned buffer.
//
// Appending a record writes it where the sentinel was, moves the sentinel behind it
// and patches the header count. Existing records are never re-encoded, so an append
// costs O(1) amortized regardless of file length.
//
//	f, err := symfile.Parse(data)
//	if err != nil {
//	    return err
//	}
//	f.Append(rec1, rec2)
//	last, _ := f.At(-1)
//	_, err = f.WriteTo(out)
//
// A File never exposes its backing slice; Bytes returns a copy.
package symfile

import (
	"fmt"
	"io"
	"iter"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/internal/pool"
	"github.com/arloliu/amistore/section"
)

// Sentinel is the trailing 4-byte block of a symbol data file.
type Sentinel [section.SentinelSize]byte

// File is a symbol data file. It is not safe for concurrent use.
type File struct {
	buf   *pool.ByteBuffer
	n     int
	codec encoding.Codec
}

// Parse creates a File from the content of a symbol data file. data is copied.
//
// The record count is derived from the length of data; the count stored in the
// header is ignored and rewritten.
//
// Parameters:
//   - data: Complete file content
//   - opts: Optional configuration
//
// Returns:
//   - *File: The parsed file
//   - error: ErrInvalidHeader if data is shorter than section.MinSymbolFileSize,
//     ErrFormat if the records region is not a whole number of records
func Parse(data []byte, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if len(data) < section.MinSymbolFileSize {
		return nil, fmt.Errorf("%w: symbol file needs at least %d bytes, got %d", errs.ErrInvalidHeader, section.MinSymbolFileSize, len(data))
	}

	body := len(data) - section.MinSymbolFileSize
	if body%encoding.RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes after the header is not a whole number of %d-byte records", errs.ErrFormat, body, encoding.RecordSize)
	}

	buf := pool.NewByteBuffer(len(data) + cfg.capacity*encoding.RecordSize)
	_, _ = buf.Write(data)

	f := &File{buf: buf, n: body / encoding.RecordSize, codec: cfg.codec}
	section.PutSymbolCount(f.buf.B, uint32(f.n))

	return f, nil
}

// New creates an empty File whose header carries name.
//
// Returns:
//   - *File: The new file
//   - error: ErrValidation if name cannot be stored in the header
func New(name string, opts ...Option) (*File, error) {
	h, err := section.NewSymbolHeader(name)
	if err != nil {
		return nil, err
	}

	return Build(h, Sentinel{}, nil, opts...)
}

// Build creates a File from a header, a sentinel and records. The header count is
// replaced by len(recs).
func Build(h section.SymbolHeader, sentinel Sentinel, recs []encoding.PriceRecord, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	size := section.MinSymbolFileSize + (len(recs)+cfg.capacity)*encoding.RecordSize
	buf := pool.NewByteBuffer(size)
	AppendEncoded(buf, h, sentinel, recs, cfg.codec)

	return &File{buf: buf, n: len(recs), codec: cfg.codec}, nil
}

// AppendEncoded appends a complete symbol file built from h, sentinel and recs to dst.
func AppendEncoded(dst *pool.ByteBuffer, h section.SymbolHeader, sentinel Sentinel, recs []encoding.PriceRecord, codec encoding.Codec) {
	h.Count = uint32(len(recs))

	start := dst.Len()
	dst.ExtendOrGrow(section.MinSymbolFileSize + len(recs)*encoding.RecordSize)
	out := dst.B[start:]

	_ = h.WriteToSlice(out)
	off := section.SymbolHeaderSize
	for _, r := range recs {
		_ = codec.PutRecord(out[off:], r)
		off += encoding.RecordSize
	}
	copy(out[off:], sentinel[:])
}

// Len returns the number of records.
func (f *File) Len() int {
	return f.n
}

// Size returns the encoded size in bytes.
func (f *File) Size() int {
	return f.buf.Len()
}

func (f *File) recordBytes(i int) []byte {
	off := section.SymbolHeaderSize + i*encoding.RecordSize
	return f.buf.B[off : off+encoding.RecordSize]
}

// At returns the record at index i. Negative indices count from the end, so
// At(-1) is the last record.
//
// Returns:
//   - encoding.PriceRecord: The record
//   - error: ErrIndexOutOfRange unless -Len() <= i < Len()
func (f *File) At(i int) (encoding.PriceRecord, error) {
	idx := i
	if idx < 0 {
		idx += f.n
	}

	if idx < 0 || idx >= f.n {
		return encoding.PriceRecord{}, fmt.Errorf("%w: index %d, length %d", errs.ErrIndexOutOfRange, i, f.n)
	}

	return f.codec.DecodeRecord(f.recordBytes(idx))
}

// Last returns the last record, or false when the file is empty.
func (f *File) Last() (encoding.PriceRecord, bool) {
	if f.n == 0 {
		return encoding.PriceRecord{}, false
	}

	rec, err := f.codec.DecodeRecord(f.recordBytes(f.n - 1))

	return rec, err == nil
}

// Slice returns the records selected by start, stop and step with the semantics of
// a Python slice: negative bounds count from the end, out-of-range bounds are
// clamped, and a negative step walks backwards from start down to, but excluding,
// stop.
//
// Returns:
//   - []encoding.PriceRecord: Selected records, possibly empty
//   - error: ErrValidation if step is zero
func (f *File) Slice(start, stop, step int) ([]encoding.PriceRecord, error) {
	if step == 0 {
		return nil, fmt.Errorf("%w: slice step cannot be zero", errs.ErrValidation)
	}

	lower, upper := 0, f.n
	if step < 0 {
		lower, upper = -1, f.n-1
	}

	clamp := func(i int) int {
		if i < 0 {
			i += f.n
			if i < lower {
				i = lower
			}
		} else if i > upper {
			i = upper
		}

		return i
	}
	start, stop = clamp(start), clamp(stop)

	var out []encoding.PriceRecord
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		rec, err := f.codec.DecodeRecord(f.recordBytes(i))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}

// Range returns records [start, stop) with the clamping rules of Slice.
func (f *File) Range(start, stop int) ([]encoding.PriceRecord, error) {
	return f.Slice(start, stop, 1)
}

// All yields every record with its index, in file order.
func (f *File) All() iter.Seq2[int, encoding.PriceRecord] {
	return func(yield func(int, encoding.PriceRecord) bool) {
		for i := range f.n {
			rec, err := f.codec.DecodeRecord(f.recordBytes(i))
			if err != nil {
				return
			}

			if !yield(i, rec) {
				return
			}
		}
	}
}

// Records decodes every record.
func (f *File) Records() []encoding.PriceRecord {
	recs, _ := f.codec.DecodeRecords(f.buf.B[section.SymbolHeaderSize : section.SymbolHeaderSize+f.n*encoding.RecordSize])
	return recs
}

// Append adds records after the last one and returns f for chaining.
//
// Each record is encoded where the sentinel was and the sentinel moves behind the
// new records; the header count is updated. Records are not validated.
func (f *File) Append(recs ...encoding.PriceRecord) *File {
	if len(recs) == 0 {
		return f
	}

	sentinel := f.Sentinel()
	pos := f.buf.Len() - section.SentinelSize

	f.buf.ExtendOrGrow(len(recs) * encoding.RecordSize)
	for _, r := range recs {
		_ = f.codec.PutRecord(f.buf.B[pos:], r)
		pos += encoding.RecordSize
	}
	copy(f.buf.B[pos:], sentinel[:])

	f.n += len(recs)
	section.PutSymbolCount(f.buf.B, uint32(f.n))

	return f
}

// Header returns the parsed header.
func (f *File) Header() section.SymbolHeader {
	h, _ := section.ParseSymbolHeader(f.buf.B)
	return h
}

// Name returns the symbol name stored in the header.
func (f *File) Name() string {
	h := f.Header()
	return h.Entry.Name()
}

// Sentinel returns the trailing 4 bytes.
func (f *File) Sentinel() Sentinel {
	var s Sentinel
	copy(s[:], f.buf.B[f.buf.Len()-section.SentinelSize:])

	return s
}

// Bytes returns a copy of the encoded file.
func (f *File) Bytes() []byte {
	return f.buf.Clone()
}

// WriteTo writes the encoded file to w without copying it.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	return f.buf.WriteTo(w)
}

// Replace makes f hold the content of src while keeping its own codec. src must
// not be used afterwards.
func (f *File) Replace(src *File) {
	f.buf = src.buf
	f.n = src.n
}

// Clone returns an independent copy of f.
func (f *File) Clone() *File {
	return &File{buf: pool.WrapBytes(f.buf.Clone()), n: f.n, codec: f.codec}
}
