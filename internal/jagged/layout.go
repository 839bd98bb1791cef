package jagged

import (
	"encoding/binary"
	"fmt"
)

// Word32 is the set of 32-bit component types that have a GPU storage layout.
type Word32 interface {
	~int32 | ~uint32
}

// Element strides in GPU storage buffers.
const (
	Uint32Stride = 4
	Vec3Stride   = 16 // vec3<i32>/vec3<u32> are 16-byte aligned in storage arrays.
)

// Stride returns the storage-array stride of an element of the given byte size.
func Stride(size int) int {
	switch {
	case size <= 4:
		return 4
	case size <= 8:
		return 8
	default:
		return (size + 15) &^ 15
	}
}

// PaddedSize returns the byte size of a buffer holding count elements of the
// given stride. Bindings must not be empty, so the result is at least one stride.
func PaddedSize(count, stride int) uint64 {
	return uint64(max(count, 1)) * uint64(stride)
}

// EncodeVec3 packs vectors into a 16-byte-stride little-endian buffer.
func EncodeVec3[T Word32](vs []Vec3[T]) []byte {
	buf := make([]byte, PaddedSize(len(vs), Vec3Stride))
	for i, v := range vs {
		o := i * Vec3Stride
		binary.LittleEndian.PutUint32(buf[o:], uint32(v.X))
		binary.LittleEndian.PutUint32(buf[o+4:], uint32(v.Y))
		binary.LittleEndian.PutUint32(buf[o+8:], uint32(v.Z))
	}
	return buf
}

// DecodeVec3 unpacks len(dst) vectors from a 16-byte-stride buffer.
func DecodeVec3[T Word32](buf []byte, dst []Vec3[T]) error {
	if need := len(dst) * Vec3Stride; len(buf) < need {
		return fmt.Errorf("jagged: vec3 buffer has %d bytes, need %d", len(buf), need)
	}
	for i := range dst {
		o := i * Vec3Stride
		dst[i] = Vec3[T]{
			X: T(binary.LittleEndian.Uint32(buf[o:])),
			Y: T(binary.LittleEndian.Uint32(buf[o+4:])),
			Z: T(binary.LittleEndian.Uint32(buf[o+8:])),
		}
	}
	return nil
}

// EncodeUint32 packs values into a 4-byte-stride little-endian buffer.
func EncodeUint32(vs []uint32) []byte {
	buf := make([]byte, PaddedSize(len(vs), Uint32Stride))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*Uint32Stride:], v)
	}
	return buf
}

// DecodeUint32 unpacks len(dst) values from a 4-byte-stride buffer.
func DecodeUint32(buf []byte, dst []uint32) error {
	if need := len(dst) * Uint32Stride; len(buf) < need {
		return fmt.Errorf("jagged: u32 buffer has %d bytes, need %d", len(buf), need)
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(buf[i*Uint32Stride:])
	}
	return nil
}
