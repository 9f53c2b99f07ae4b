// Package endian provides the byte order primitives used by the amistore codecs.
//
// Every multi-byte field of the store format (packed timestamps, price floats,
// record counts, the master symbol count) is little-endian on disk regardless of
// the host. The codecs therefore always go through FileEngine, and only the native
// codec backend looks at the host byte order to decide whether it may read the
// words in place.
//
//	engine := endian.FileEngine()
//	count := engine.Uint32(header[1180:1184])
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface. It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the host byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 stores 0x00 first on little-endian hosts.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores words little-endian, i.e.
// whether on-disk words can be loaded without byte swapping.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// FileEngine returns the byte order of the store format.
func FileEngine() EndianEngine {
	return binary.LittleEndian
}
