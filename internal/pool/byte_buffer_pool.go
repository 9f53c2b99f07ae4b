package pool

import (
	"io"
	"sync"
)

const (
	FileBufferGrowSize      = 1024 * 16        // 16KiB, roughly 400 records
	EncodeBufferDefaultSize = 1024 * 64        // 64KiB
	EncodeBufferMaxSize     = 1024 * 1024 * 4  // 4MiB
	ArchiveBufferDefault    = 1024 * 1024      // 1MiB
	ArchiveBufferMaxSize    = 1024 * 1024 * 64 // 64MiB
)

// ByteBuffer is a growable byte slice with an amortized growth strategy.
//
// Symbol files keep their whole content in a ByteBuffer so that appending a record
// only reallocates when the spare capacity runs out.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// WrapBytes creates a ByteBuffer that owns b.
func WrapBytes(b []byte) *ByteBuffer {
	return &ByteBuffer{B: b}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// ExtendOrGrow extends the buffer by n bytes, growing it if necessary.
// The new bytes are not cleared.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// The growth strategy is as follows:
//   - Buffers up to 4 × FileBufferGrowSize grow by FileBufferGrowSize.
//   - Larger buffers grow by 25% of their capacity.
//
// Either way the buffer grows by at least requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := FileBufferGrowSize
	if cap(bb.B) > 4*FileBufferGrowSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Clone returns a copy of the buffer content.
func (bb *ByteBuffer) Clone() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers whose capacity exceeds maxThreshold are dropped on Put instead of being
// retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	encodePool  = NewByteBufferPool(EncodeBufferDefaultSize, EncodeBufferMaxSize)
	archivePool = NewByteBufferPool(ArchiveBufferDefault, ArchiveBufferMaxSize)
)

// GetEncodeBuffer retrieves a scratch buffer for re-encoding a symbol file.
func GetEncodeBuffer() *ByteBuffer {
	return encodePool.Get()
}

// PutEncodeBuffer returns a buffer obtained from GetEncodeBuffer.
func PutEncodeBuffer(bb *ByteBuffer) {
	encodePool.Put(bb)
}

// GetArchiveBuffer retrieves a scratch buffer for building snapshot archives.
func GetArchiveBuffer() *ByteBuffer {
	return archivePool.Get()
}

// PutArchiveBuffer returns a buffer obtained from GetArchiveBuffer.
func PutArchiveBuffer(bb *ByteBuffer) {
	archivePool.Put(bb)
}
