//go:build (amd64 || arm64) && !purego

package encoding

import (
	"fmt"
	"unsafe"

	"github.com/arloliu/amistore/endian"
	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
)

// nativeBackend loads and stores words in place. It relies on the host being
// little-endian and tolerating unaligned access, which amd64 and arm64 both do.
type nativeBackend struct{}

var _ Backend = nativeBackend{}

func newNativeBackend() (Backend, error) {
	if !endian.IsNativeLittleEndian() {
		return nil, fmt.Errorf("%w: host byte order is not little-endian", errs.ErrBackendUnavailable)
	}

	return nativeBackend{}, nil
}

func (nativeBackend) Type() format.BackendType { return format.BackendNative }

func (nativeBackend) Uint64(b []byte) uint64 {
	_ = b[7] // bounds check
	return *(*uint64)(unsafe.Pointer(unsafe.SliceData(b)))
}

func (nativeBackend) PutUint64(b []byte, v uint64) {
	_ = b[7] // bounds check
	*(*uint64)(unsafe.Pointer(unsafe.SliceData(b))) = v
}

func (nativeBackend) Float32(b []byte) float32 {
	_ = b[3] // bounds check
	return *(*float32)(unsafe.Pointer(unsafe.SliceData(b)))
}

func (nativeBackend) PutFloat32(b []byte, v float32) {
	_ = b[3] // bounds check
	*(*float32)(unsafe.Pointer(unsafe.SliceData(b))) = v
}
