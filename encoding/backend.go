package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/amistore/endian"
	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
)

// Backend reads and writes the little-endian words of the store format.
//
// Both implementations produce identical results; they differ only in speed. Every
// method expects a slice of at least the accessed width and panics otherwise, like
// encoding/binary.
type Backend interface {
	// Type identifies the implementation.
	Type() format.BackendType
	Uint64(b []byte) uint64
	PutUint64(b []byte, v uint64)
	Float32(b []byte) float32
	PutFloat32(b []byte, v float32)
}

// PortableBackend decodes words with byte arithmetic and runs on every host.
type PortableBackend struct {
	engine endian.EndianEngine
}

var _ Backend = PortableBackend{}

// NewPortableBackend creates the portable backend.
func NewPortableBackend() PortableBackend {
	return PortableBackend{engine: endian.FileEngine()}
}

func (PortableBackend) Type() format.BackendType { return format.BackendPortable }

func (p PortableBackend) Uint64(b []byte) uint64 {
	return p.engine.Uint64(b)
}

func (p PortableBackend) PutUint64(b []byte, v uint64) {
	p.engine.PutUint64(b, v)
}

func (p PortableBackend) Float32(b []byte) float32 {
	return math.Float32frombits(p.engine.Uint32(b))
}

func (p PortableBackend) PutFloat32(b []byte, v float32) {
	p.engine.PutUint32(b, math.Float32bits(v))
}

// NativeAvailable reports whether the native backend can run on this host.
func NativeAvailable() bool {
	_, err := newNativeBackend()
	return err == nil
}

// NewBackend creates the backend of the given type.
//
// Parameters:
//   - typ: Backend type to construct
//
// Returns:
//   - Backend: The backend
//   - error: ErrBackendUnavailable if typ is native and the host cannot run it, or
//     ErrValidation for an unknown type
func NewBackend(typ format.BackendType) (Backend, error) {
	switch typ {
	case format.BackendPortable:
		return NewPortableBackend(), nil
	case format.BackendNative:
		return newNativeBackend()
	default:
		return nil, fmt.Errorf("%w: unknown backend type %d", errs.ErrValidation, typ)
	}
}
