package jagged

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoLists is returned by Builder.Build when no input lists were set.
var ErrNoLists = errors.New("jagged: ldim must be set to 1 or 2 before Build")

// Builder assembles a Tensor from nested host lists.
//
// Each outer list becomes one batch entry. Elements are tagged with their
// batch index and with a ListIndex of (batch, sublist, position).
type Builder struct {
	ldim   int
	nested [][][]Coord
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLDim1 sets the input as one flat list of coordinates per batch entry.
func (b *Builder) WithLDim1(lists [][]Coord) *Builder {
	b.nested = make([][][]Coord, len(lists))
	for i, l := range lists {
		b.nested[i] = [][]Coord{l}
	}
	b.ldim = 1
	return b
}

// WithLDim2 sets the input as a list of sublists per batch entry.
func (b *Builder) WithLDim2(lists [][][]Coord) *Builder {
	b.nested = lists
	b.ldim = 2
	return b
}

// Build flattens the nested input into a Tensor.
func (b *Builder) Build() (*Tensor, error) {
	if b.ldim == 0 {
		return nil, ErrNoLists
	}

	total := 0
	for _, batch := range b.nested {
		for _, sub := range batch {
			total += len(sub)
		}
	}
	if int64(total) > math.MaxUint32 {
		return nil, fmt.Errorf("jagged: %d elements exceed the 32-bit index space", total)
	}

	t := &Tensor{
		Data:     make([]Coord, 0, total),
		BatchIdx: make([]uint32, 0, total),
		ListIdx:  make([]ListIndex, 0, total),
		Offsets:  make([]uint32, 0, len(b.nested)),
		LDim:     b.ldim,
	}
	for bi, batch := range b.nested {
		for si, sub := range batch {
			for pi, c := range sub {
				t.Data = append(t.Data, c)
				t.BatchIdx = append(t.BatchIdx, uint32(bi))
				t.ListIdx = append(t.ListIdx, ListIndex{X: uint32(bi), Y: uint32(si), Z: uint32(pi)})
			}
		}
		t.Offsets = append(t.Offsets, uint32(len(t.Data)))
	}
	return t, nil
}
