package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
	case 0x02:
		require.Equal(binary.LittleEndian, result)
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestIsNativeEndiannessInverse(t *testing.T) {
	require.NotEqual(t, IsNativeLittleEndian(), IsNativeBigEndian())
}

func TestCompareNativeEndian(t *testing.T) {
	if IsNativeLittleEndian() {
		require.True(t, CompareNativeEndian(binary.LittleEndian))
		require.False(t, CompareNativeEndian(binary.BigEndian))
	} else {
		require.True(t, CompareNativeEndian(binary.BigEndian))
		require.False(t, CompareNativeEndian(binary.LittleEndian))
	}
}

func TestFileEngine(t *testing.T) {
	engine := FileEngine()
	require.Equal(t, binary.LittleEndian, engine)

	b := engine.AppendUint32(nil, 600)
	require.Equal(t, []byte{0x58, 0x02, 0x00, 0x00}, b)
	require.Equal(t, uint32(600), engine.Uint32(b))
}
