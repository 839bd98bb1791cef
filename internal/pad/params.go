package pad

import (
	"encoding/binary"
	"math"

	"github.com/born-ml/voxel/internal/jagged"
)

// ParamsSize is the byte size of the encoded parameter block.
const ParamsSize = 48

// Window is an inclusive integer box [Min, Max] enumerated around each coordinate.
type Window struct {
	Min, Max jagged.Coord
}

// Cube returns the window [-r, r] on every axis.
func Cube(r int32) Window {
	return Window{Min: jagged.Splat(-r), Max: jagged.Splat(r)}
}

// Dims returns Max - Min + (1, 1, 1).
func (w Window) Dims() jagged.Coord {
	return w.Max.Sub(w.Min).Add(jagged.Splat[int32](1))
}

// Volume returns the number of points in the window, or 0 if it is inverted.
func (w Window) Volume() int64 {
	if !w.Max.AllGE(w.Min) {
		return 0
	}
	return w.extent().Product()
}

func (w Window) extent() jagged.Vec3[int64] {
	return jagged.Vec3[int64]{
		X: int64(w.Max.X) - int64(w.Min.X) + 1,
		Y: int64(w.Max.Y) - int64(w.Min.Y) + 1,
		Z: int64(w.Max.Z) - int64(w.Min.Z) + 1,
	}
}

// Validate reports whether the window is non-degenerate.
func (w Window) Validate() error {
	if !w.Max.AllGE(w.Min) {
		return invalid("window", "bmax %v is not >= bmin %v componentwise", w.Max, w.Min)
	}
	if v := w.Volume(); v > math.MaxUint32 {
		return invalid("window", "volume %d exceeds the 32-bit index space", v)
	}
	return nil
}

// Params is the parameter block shared read-only by both passes.
// It is only constructed by NewParams, so TotalPad always agrees with the window.
type Params struct {
	bmin, bmax    jagged.Coord
	dims          jagged.Vec3[uint32]
	totalPad      uint32
	numElems      uint32
	numOuterLists uint32
}

// maxSlots bounds NumElems*TotalPad by the GPU index type and by int, so
// NumSlots cannot wrap on 32-bit platforms.
const maxSlots = min(math.MaxUint32, math.MaxInt)

// NewParams validates the window and counts and computes the expansion factor.
func NewParams(w Window, numElems, numOuterLists int) (*Params, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if numElems < 0 || numOuterLists < 0 {
		return nil, invalid("counts", "negative count: %d elements, %d lists", numElems, numOuterLists)
	}
	if int64(numOuterLists) > math.MaxUint32 {
		return nil, invalid("offsets", "%d lists exceed the 32-bit index space", numOuterLists)
	}
	totalPad := w.Volume()
	if slots := int64(numElems) * totalPad; numElems > 0 && (slots/totalPad != int64(numElems) || slots > maxSlots) {
		return nil, invalid("counts", "%d elements x %d replicas exceed the 32-bit index space", numElems, totalPad)
	}

	d := w.extent()
	return &Params{
		bmin:          w.Min,
		bmax:          w.Max,
		dims:          jagged.Vec3[uint32]{X: uint32(d.X), Y: uint32(d.Y), Z: uint32(d.Z)},
		totalPad:      uint32(totalPad),
		numElems:      uint32(numElems),
		numOuterLists: uint32(numOuterLists),
	}, nil
}

// Window returns the padding window.
func (p *Params) Window() Window { return Window{Min: p.bmin, Max: p.bmax} }

// BMin returns the window minimum.
func (p *Params) BMin() jagged.Coord { return p.bmin }

// BMax returns the window maximum.
func (p *Params) BMax() jagged.Coord { return p.bmax }

// Dims returns the window extent per axis.
func (p *Params) Dims() jagged.Vec3[uint32] { return p.dims }

// TotalPad returns the number of replicas per element.
func (p *Params) TotalPad() uint32 { return p.totalPad }

// NumElems returns the number of input elements.
func (p *Params) NumElems() uint32 { return p.numElems }

// NumOuterLists returns the number of list boundaries.
func (p *Params) NumOuterLists() uint32 { return p.numOuterLists }

// NumSlots returns the number of pass A output slots, NumElems * TotalPad.
func (p *Params) NumSlots() int {
	return int(p.numElems) * int(p.totalPad)
}

// Decode maps an in-block index to its offset inside the window.
// z varies fastest, x slowest.
func (p *Params) Decode(padIdx uint32) jagged.Vec3[uint32] {
	return jagged.Vec3[uint32]{
		X: padIdx / (p.dims.Y * p.dims.Z),
		Y: (padIdx / p.dims.Z) % p.dims.Y,
		Z: padIdx % p.dims.Z,
	}
}

// Encode is the inverse of Decode.
func (p *Params) Encode(off jagged.Vec3[uint32]) uint32 {
	return off.X*p.dims.Y*p.dims.Z + off.Y*p.dims.Z + off.Z
}

// Bytes encodes the block in its uniform-buffer layout:
//
//	bmin vec3<i32>, pad u32, bmax vec3<i32>, pad u32,
//	total_pad u32, num_elems u32, num_outer_lists u32, pad u32
func (p *Params) Bytes() []byte {
	buf := make([]byte, ParamsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(p.bmin.X))
	le.PutUint32(buf[4:], uint32(p.bmin.Y))
	le.PutUint32(buf[8:], uint32(p.bmin.Z))
	le.PutUint32(buf[16:], uint32(p.bmax.X))
	le.PutUint32(buf[20:], uint32(p.bmax.Y))
	le.PutUint32(buf[24:], uint32(p.bmax.Z))
	le.PutUint32(buf[32:], p.totalPad)
	le.PutUint32(buf[36:], p.numElems)
	le.PutUint32(buf[40:], p.numOuterLists)
	return buf
}
