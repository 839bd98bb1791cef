package jagged

import "fmt"

// Integer is the set of integer types a Vec3 can hold.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Vec3 is an integer triple.
type Vec3[T Integer] struct {
	X, Y, Z T
}

// Coord is a voxel coordinate as stored in a jagged tensor.
type Coord = Vec3[int32]

// ListIndex is the per-element auxiliary payload of a jagged tensor.
// Its contents are caller-defined; the builder stores (batch, sublist, position).
type ListIndex = Vec3[uint32]

// V3 constructs a Vec3.
func V3[T Integer](x, y, z T) Vec3[T] {
	return Vec3[T]{X: x, Y: y, Z: z}
}

// Splat returns a Vec3 with all components set to v.
func Splat[T Integer](v T) Vec3[T] {
	return Vec3[T]{X: v, Y: v, Z: v}
}

// Add returns the componentwise sum.
func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] {
	return Vec3[T]{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the componentwise difference.
func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] {
	return Vec3[T]{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// AllGE reports whether every component of v is >= the matching component of o.
func (v Vec3[T]) AllGE(o Vec3[T]) bool {
	return v.X >= o.X && v.Y >= o.Y && v.Z >= o.Z
}

// Product returns X*Y*Z widened to int64.
func (v Vec3[T]) Product() int64 {
	return int64(v.X) * int64(v.Y) * int64(v.Z)
}

// String returns "(x, y, z)".
func (v Vec3[T]) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}
