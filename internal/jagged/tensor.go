// Package jagged implements host-side jagged tensors of voxel coordinates.
package jagged

import "fmt"

// Tensor is a batch of variable-length coordinate lists stored contiguously.
//
// Offsets holds one entry per outer list: the exclusive end position of that
// list in Data. List k therefore spans [Offsets[k-1], Offsets[k]), with the
// first list starting at 0.
type Tensor struct {
	Data     []Coord     // Flattened coordinates, len = NumElements.
	BatchIdx []uint32    // Owning outer list per element.
	ListIdx  []ListIndex // Opaque per-element payload.
	Offsets  []uint32    // End offsets, len = NumOuterLists.
	LDim     int         // Nesting depth the tensor was built with.
}

// NumElements returns the number of coordinates.
func (t *Tensor) NumElements() int {
	return len(t.Data)
}

// NumOuterLists returns the number of outer lists.
func (t *Tensor) NumOuterLists() int {
	return len(t.Offsets)
}

// Span returns the [start, end) range of list k in Data.
func (t *Tensor) Span(k int) (start, end int) {
	if k > 0 {
		start = int(t.Offsets[k-1])
	}
	return start, int(t.Offsets[k])
}

// List returns the coordinates of list k. The slice aliases Data.
func (t *Tensor) List(k int) []Coord {
	start, end := t.Span(k)
	return t.Data[start:end]
}

// ListSizes returns the number of elements in each outer list.
func (t *Tensor) ListSizes() []int {
	sizes := make([]int, len(t.Offsets))
	for k := range t.Offsets {
		start, end := t.Span(k)
		sizes[k] = end - start
	}
	return sizes
}

// Validate checks that the per-element arrays agree in length and that
// Offsets is a non-decreasing sequence of end positions within Data.
func (t *Tensor) Validate() error {
	n := len(t.Data)
	if len(t.BatchIdx) != n {
		return fmt.Errorf("batch_idx length %d does not match %d elements", len(t.BatchIdx), n)
	}
	if len(t.ListIdx) != n {
		return fmt.Errorf("list_idx length %d does not match %d elements", len(t.ListIdx), n)
	}
	var prev uint32
	for k, off := range t.Offsets {
		if off < prev {
			return fmt.Errorf("offsets[%d] = %d is smaller than offsets[%d] = %d", k, off, k-1, prev)
		}
		if int64(off) > int64(n) {
			return fmt.Errorf("offsets[%d] = %d exceeds %d elements", k, off, n)
		}
		prev = off
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		Data:     append([]Coord(nil), t.Data...),
		BatchIdx: append([]uint32(nil), t.BatchIdx...),
		ListIdx:  append([]ListIndex(nil), t.ListIdx...),
		Offsets:  append([]uint32(nil), t.Offsets...),
		LDim:     t.LDim,
	}
}
