package jagged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3(t *testing.T) {
	a := V3[int32](1, -2, 3)
	b := V3[int32](4, 5, -6)

	assert.Equal(t, V3[int32](5, 3, -3), a.Add(b))
	assert.Equal(t, V3[int32](-3, -7, 9), a.Sub(b))
	assert.True(t, a.AllGE(a))
	assert.False(t, a.AllGE(b))
	assert.True(t, Splat[int32](7).AllGE(a))
	assert.Equal(t, int64(-6), a.Product())
	assert.Equal(t, "(1, -2, 3)", a.String())

	u := V3[uint32](2, 3, 4)
	assert.Equal(t, int64(24), u.Product())
}

func TestBuilder_LDim1(t *testing.T) {
	tensor, err := NewBuilder().WithLDim1([][]Coord{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}},
		{{X: 2, Y: 2, Z: 2}},
		{{X: 3, Y: 3, Z: 3}, {X: 4, Y: 4, Z: 4}, {X: 5, Y: 5, Z: 5}},
	}).Build()
	require.NoError(t, err)

	assert.Equal(t, 3, tensor.NumOuterLists())
	assert.Equal(t, 6, tensor.NumElements())
	assert.Equal(t, 1, tensor.LDim)
	assert.Equal(t, []uint32{0, 0, 1, 2, 2, 2}, tensor.BatchIdx)
	assert.Equal(t, []uint32{2, 3, 6}, tensor.Offsets)
	assert.Equal(t, []ListIndex{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 1}, {X: 2, Y: 0, Z: 2},
	}, tensor.ListIdx)
	require.NoError(t, tensor.Validate())
}

func TestBuilder_LDim2(t *testing.T) {
	// [batch][sublist][position]
	tensor, err := NewBuilder().WithLDim2([][][]Coord{
		{{{X: 'A'}, {X: 'B'}}, {{X: 'C'}}},
		{{{X: 'D'}, {X: 'E'}, {X: 'F'}}, {{X: 'G'}, {X: 'H'}}},
	}).Build()
	require.NoError(t, err)

	assert.Equal(t, 2, tensor.LDim)
	assert.Equal(t, []uint32{0, 0, 0, 1, 1, 1, 1, 1}, tensor.BatchIdx)
	assert.Equal(t, []uint32{3, 8}, tensor.Offsets)
	assert.Equal(t, []ListIndex{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0},
		{X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 2},
		{X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 1},
	}, tensor.ListIdx)
	assert.Equal(t, []int{3, 5}, tensor.ListSizes())
	assert.Equal(t, []Coord{{X: 'D'}, {X: 'E'}, {X: 'F'}, {X: 'G'}, {X: 'H'}}, tensor.List(1))
}

func TestBuilder_NoLists(t *testing.T) {
	_, err := NewBuilder().Build()
	assert.ErrorIs(t, err, ErrNoLists)

	tensor, err := NewBuilder().WithLDim1(nil).Build()
	require.NoError(t, err)
	assert.Equal(t, 0, tensor.NumElements())
	assert.Equal(t, 0, tensor.NumOuterLists())
}

func TestTensorSpan(t *testing.T) {
	tensor := &Tensor{
		Data:     make([]Coord, 5),
		BatchIdx: make([]uint32, 5),
		ListIdx:  make([]ListIndex, 5),
		Offsets:  []uint32{2, 2, 5},
	}

	start, end := tensor.Span(0)
	assert.Equal(t, [2]int{0, 2}, [2]int{start, end})
	start, end = tensor.Span(1)
	assert.Equal(t, [2]int{2, 2}, [2]int{start, end})
	start, end = tensor.Span(2)
	assert.Equal(t, [2]int{2, 5}, [2]int{start, end})
	assert.Empty(t, tensor.List(1))
	assert.Equal(t, []int{2, 0, 3}, tensor.ListSizes())
}

func TestTensorValidate(t *testing.T) {
	base := func() *Tensor {
		return &Tensor{
			Data:     make([]Coord, 3),
			BatchIdx: make([]uint32, 3),
			ListIdx:  make([]ListIndex, 3),
			Offsets:  []uint32{1, 3},
		}
	}
	require.NoError(t, base().Validate())

	bad := base()
	bad.BatchIdx = bad.BatchIdx[:2]
	assert.ErrorContains(t, bad.Validate(), "batch_idx")

	bad = base()
	bad.ListIdx = append(bad.ListIdx, ListIndex{})
	assert.ErrorContains(t, bad.Validate(), "list_idx")

	bad = base()
	bad.Offsets = []uint32{2, 1}
	assert.ErrorContains(t, bad.Validate(), "smaller")

	bad = base()
	bad.Offsets = []uint32{1, 4}
	assert.ErrorContains(t, bad.Validate(), "exceeds")
}

func TestTensorClone(t *testing.T) {
	orig, err := NewBuilder().WithLDim1([][]Coord{{{X: 1}}, {{Y: 2}}}).Build()
	require.NoError(t, err)

	c := orig.Clone()
	assert.Equal(t, orig, c)

	c.Data[0].X = 99
	c.Offsets[0] = 0
	assert.Equal(t, int32(1), orig.Data[0].X)
	assert.Equal(t, uint32(1), orig.Offsets[0])
}

func TestStride(t *testing.T) {
	assert.Equal(t, 4, Stride(1))
	assert.Equal(t, 4, Stride(4))
	assert.Equal(t, 8, Stride(8))
	assert.Equal(t, 16, Stride(12))
	assert.Equal(t, 16, Stride(16))
	assert.Equal(t, 32, Stride(20))
	assert.Equal(t, Vec3Stride, Stride(12))
	assert.Equal(t, Uint32Stride, Stride(4))

	assert.Equal(t, uint64(16), PaddedSize(0, Vec3Stride))
	assert.Equal(t, uint64(4), PaddedSize(0, Uint32Stride))
	assert.Equal(t, uint64(48), PaddedSize(3, Vec3Stride))
}

func TestVec3Layout(t *testing.T) {
	in := []Coord{{X: -1, Y: 2, Z: -3}, {X: 1 << 30, Y: 0, Z: -(1 << 30)}}
	buf := EncodeVec3(in)
	require.Len(t, buf, 2*Vec3Stride)
	// The fourth lane of each element is padding.
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[12:16])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf[0:4])

	out := make([]Coord, 2)
	require.NoError(t, DecodeVec3(buf, out))
	assert.Equal(t, in, out)

	assert.Error(t, DecodeVec3(buf[:20], out))
	assert.Len(t, EncodeVec3[int32](nil), Vec3Stride)
}

func TestUint32Layout(t *testing.T) {
	in := []uint32{0, 1, 0xdeadbeef}
	buf := EncodeUint32(in)
	require.Len(t, buf, 12)
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, buf[8:12])

	out := make([]uint32, 3)
	require.NoError(t, DecodeUint32(buf, out))
	assert.Equal(t, in, out)
	assert.Error(t, DecodeUint32(buf[:8], out))
}
