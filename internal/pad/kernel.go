package pad

import "github.com/born-ml/voxel/internal/jagged"

// Inputs are the read-only buffers of one transform.
type Inputs struct {
	Data     []jagged.Coord     // Pass A.
	BatchIdx []uint32           // Pass A.
	ListIdx  []jagged.ListIndex // Pass A.
	Offsets  []uint32           // Pass B.
}

// Outputs are the buffers written by the two passes. Each is written by
// exactly one pass.
type Outputs struct {
	IJK      []jagged.Coord     // Pass A, len = NumSlots.
	BatchIdx []uint32           // Pass A, len = NumSlots.
	ListIdx  []jagged.ListIndex // Pass A, len = NumSlots.
	Offsets  []uint32           // Pass B, len = NumOuterLists.
}

// NewOutputs allocates output buffers sized exactly for p.
func NewOutputs(p *Params) Outputs {
	n := p.NumSlots()
	return Outputs{
		IJK:      make([]jagged.Coord, n),
		BatchIdx: make([]uint32, n),
		ListIdx:  make([]jagged.ListIndex, n),
		Offsets:  make([]uint32, p.NumOuterLists()),
	}
}

// Shift returns c + bmin + off, the coordinate of one replica.
func Shift[T jagged.Integer, U jagged.Integer](c, bmin jagged.Vec3[T], off jagged.Vec3[U]) jagged.Vec3[T] {
	return c.Add(bmin).Add(jagged.Vec3[T]{X: T(off.X), Y: T(off.Y), Z: T(off.Z)})
}

// Replicate writes the replica at output slot idx of a pass A dispatch.
// Slots outside [0, NumElems*TotalPad) are ignored. The payload type is opaque
// and copied verbatim.
func Replicate[T jagged.Integer, P any](p *Params, data []jagged.Vec3[T], bidx []uint32, payload []P,
	outIJK []jagged.Vec3[T], outBidx []uint32, outPayload []P, idx int,
) {
	if idx < 0 || idx >= p.NumSlots() {
		return
	}
	total := int(p.totalPad)
	eidx := idx / total
	padIdx := uint32(idx % total)

	bmin := jagged.Vec3[T]{X: T(p.bmin.X), Y: T(p.bmin.Y), Z: T(p.bmin.Z)}
	outIJK[idx] = Shift(data[eidx], bmin, p.Decode(padIdx))
	outBidx[idx] = bidx[eidx]
	outPayload[idx] = payload[eidx]
}

// ExpandSlot runs pass A for a single output slot.
func ExpandSlot(p *Params, in *Inputs, out *Outputs, idx int) {
	Replicate(p, in.Data, in.BatchIdx, in.ListIdx, out.IJK, out.BatchIdx, out.ListIdx, idx)
}

// RescaleSlot runs pass B for a single list boundary.
// Boundaries outside [0, NumOuterLists) are ignored.
func RescaleSlot(p *Params, in *Inputs, out *Outputs, idx int) {
	if idx < 0 || idx >= int(p.numOuterLists) {
		return
	}
	out.Offsets[idx] = in.Offsets[idx] * p.totalPad
}
