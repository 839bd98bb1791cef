package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/born-ml/voxel/internal/jagged"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTensor(t *testing.T) *jagged.Tensor {
	t.Helper()
	tensor, err := jagged.NewBuilder().WithLDim2([][][]jagged.Coord{
		{{{X: 1, Y: -2, Z: 3}, {X: 4}}, {{Z: -9}}},
		{},
		{{{X: 1 << 20, Y: -(1 << 20), Z: 7}}},
	}).Build()
	require.NoError(t, err)
	return tensor
}

func encode(t *testing.T, tensor *jagged.Tensor, meta map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tensor, meta))
	return buf.Bytes()
}

// headerOf parses the JSON header out of an encoded file.
func headerOf(t *testing.T, raw []byte) (Header, int) {
	t.Helper()
	size := int(binary.LittleEndian.Uint64(raw[16:24]))
	var h Header
	require.NoError(t, json.Unmarshal(raw[FixedHeaderSize:FixedHeaderSize+size], &h))
	return h, size
}

// withHeader re-encodes raw with a modified JSON header, keeping data and checksum.
func withHeader(t *testing.T, raw []byte, h Header) []byte {
	t.Helper()
	_, oldSize := headerOf(t, raw)
	data := raw[alignUp(int64(FixedHeaderSize+oldSize)):]

	headerJSON, err := json.Marshal(h)
	require.NoError(t, err)

	out := append([]byte(nil), raw[:FixedHeaderSize]...)
	binary.LittleEndian.PutUint64(out[16:24], uint64(len(headerJSON)))
	out = append(out, headerJSON...)
	pad := alignUp(int64(len(out))) - int64(len(out))
	out = append(out, make([]byte, pad)...)
	return append(out, data...)
}

func TestWriteRead(t *testing.T) {
	tensor := sampleTensor(t)
	raw := encode(t, tensor, map[string]string{"source": "test"})

	assert.Equal(t, MagicBytes, string(raw[0:4]))
	assert.Equal(t, uint32(FormatVersion), binary.LittleEndian.Uint32(raw[4:8]))
	assert.Equal(t, FlagHasMetadata, binary.LittleEndian.Uint32(raw[8:12]))

	f, err := Read(bytes.NewReader(raw), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, tensor, f.Tensor)
	assert.Equal(t, 2, f.Header.LDim)
	assert.Equal(t, tensor.NumElements(), f.Header.NumElements)
	assert.Equal(t, 3, f.Header.NumOuterLists)
	assert.Equal(t, "test", f.Header.Metadata["source"])
	assert.Len(t, f.Header.Sections, 4)

	for _, s := range f.Header.Sections {
		assert.Zero(t, s.Offset%HeaderAlignment, s.Name)
	}
}

func TestWriteReadEmpty(t *testing.T) {
	tensor, err := jagged.NewBuilder().WithLDim1([][]jagged.Coord{{}, {}}).Build()
	require.NoError(t, err)

	f, err := Read(bytes.NewReader(encode(t, tensor, nil)), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, f.Tensor.NumElements())
	assert.Equal(t, []uint32{0, 0}, f.Tensor.Offsets)
	assert.NotNil(t, f.Header.Metadata)
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.vjt")
	tensor := sampleTensor(t)

	require.NoError(t, WriteFile(path, tensor, nil))
	f, err := ReadFile(path, ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, tensor, f.Tensor)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.vjt"), ReaderOptions{})
	assert.Error(t, err)
}

func TestWriteInvalidTensor(t *testing.T) {
	tensor := sampleTensor(t)
	tensor.Offsets[0] = 100
	assert.ErrorContains(t, Write(&bytes.Buffer{}, tensor, nil), "invalid tensor")
	assert.Error(t, Write(&bytes.Buffer{}, nil, nil))
}

func TestReadCorrupted(t *testing.T) {
	raw := encode(t, sampleTensor(t), nil)

	t.Run("magic", func(t *testing.T) {
		bad := append([]byte(nil), raw...)
		copy(bad, "BORN")
		_, err := Read(bytes.NewReader(bad), ReaderOptions{})
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		bad := append([]byte(nil), raw...)
		binary.LittleEndian.PutUint32(bad[4:8], 9)
		_, err := Read(bytes.NewReader(bad), ReaderOptions{})
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("checksum", func(t *testing.T) {
		bad := append([]byte(nil), raw...)
		bad[len(bad)-1] ^= 0xff
		_, err := Read(bytes.NewReader(bad), ReaderOptions{})
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Read(bytes.NewReader(raw[:len(raw)-10]), ReaderOptions{})
		assert.ErrorIs(t, err, ErrOutOfBounds)

		_, err = Read(bytes.NewReader(raw[:20]), ReaderOptions{})
		assert.Error(t, err)
	})

	t.Run("header too large", func(t *testing.T) {
		bad := append([]byte(nil), raw...)
		binary.LittleEndian.PutUint64(bad[16:24], MaxHeaderSize+1)
		_, err := Read(bytes.NewReader(bad), ReaderOptions{})
		assert.ErrorIs(t, err, ErrHeaderTooLarge)
	})
}

func TestReadForgedHeader(t *testing.T) {
	raw := encode(t, sampleTensor(t), nil)
	h, _ := headerOf(t, raw)

	t.Run("overlap", func(t *testing.T) {
		forged := h
		forged.Sections = append([]SectionMeta(nil), h.Sections...)
		forged.Sections[1].Offset = forged.Sections[0].Offset + 16
		_, err := Read(bytes.NewReader(withHeader(t, raw, forged)), ReaderOptions{})
		assert.ErrorIs(t, err, ErrOffsetOverlap)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "offset_overlap", verr.Type)
	})

	t.Run("missing section", func(t *testing.T) {
		forged := h
		forged.Sections = h.Sections[:3]
		_, err := Read(bytes.NewReader(withHeader(t, raw, forged)), ReaderOptions{})
		assert.ErrorIs(t, err, ErrMissingSection)
	})

	t.Run("count mismatch", func(t *testing.T) {
		forged := h
		forged.NumElements++
		_, err := Read(bytes.NewReader(withHeader(t, raw, forged)), ReaderOptions{})
		assert.ErrorContains(t, err, "count_mismatch")
	})

	t.Run("out of bounds", func(t *testing.T) {
		forged := h
		forged.Sections = append([]SectionMeta(nil), h.Sections...)
		forged.Sections[3].Offset = 1 << 20
		_, err := Read(bytes.NewReader(withHeader(t, raw, forged)), ReaderOptions{ValidationLevel: ValidationNormal})
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("offset near max int64", func(t *testing.T) {
		empty, err := jagged.NewBuilder().WithLDim1([][]jagged.Coord{{}}).Build()
		require.NoError(t, err)
		emptyRaw := encode(t, empty, nil)
		eh, _ := headerOf(t, emptyRaw)

		for _, level := range []ValidationLevel{ValidationStrict, ValidationNormal, ValidationNone} {
			forged := eh
			forged.Sections = append([]SectionMeta(nil), eh.Sections...)
			forged.Sections[0].Offset = math.MaxInt64
			forged.Sections[0].Size = 1

			var err error
			require.NotPanics(t, func() {
				_, err = Read(bytes.NewReader(withHeader(t, emptyRaw, forged)), ReaderOptions{ValidationLevel: level})
			}, "level %d", level)
			assert.ErrorIs(t, err, ErrOutOfBounds, "level %d", level)
		}
	})

	t.Run("huge counts without validation", func(t *testing.T) {
		forged := h
		forged.NumElements = math.MaxInt
		forged.NumOuterLists = math.MaxInt
		var err error
		require.NotPanics(t, func() {
			_, err = Read(bytes.NewReader(withHeader(t, raw, forged)), ReaderOptions{ValidationLevel: ValidationNone})
		})
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestReadDecodedTensorChecked(t *testing.T) {
	// Offsets that decrease pass header validation but not the tensor check.
	tensor := sampleTensor(t)
	raw := encode(t, tensor, nil)
	h, size := headerOf(t, raw)

	dataStart := alignUp(int64(FixedHeaderSize + size))
	offsets, _ := h.Section(SectionOffsets)
	bad := append([]byte(nil), raw...)
	binary.LittleEndian.PutUint32(bad[dataStart+offsets.Offset:], 99)

	_, err := Read(bytes.NewReader(bad), ReaderOptions{SkipChecksumValidation: true})
	assert.ErrorContains(t, err, "decoded tensor")
}

func TestValidateSectionOffsets(t *testing.T) {
	sections := []SectionMeta{
		{Name: "a", Offset: 0, Size: 64},
		{Name: "b", Offset: 64, Size: 16},
	}
	assert.NoError(t, ValidateSectionOffsets(sections, 80))
	assert.ErrorIs(t, ValidateSectionOffsets(sections, 79), ErrOutOfBounds)

	sections[1].Offset = -1
	assert.ErrorIs(t, ValidateSectionOffsets(sections, 80), ErrNegativeOffset)
}

func TestWithin(t *testing.T) {
	assert.True(t, within(0, 0, 0))
	assert.True(t, within(16, 48, 64))
	assert.False(t, within(17, 48, 64))
	assert.False(t, within(math.MaxInt64, 1, 64))
	assert.False(t, within(1, math.MaxInt64, 64))
	assert.False(t, within(-1, 1, 64))
	assert.False(t, within(0, -1, 64))
}

func TestChecksum(t *testing.T) {
	a := ComputeChecksum([]byte("voxel"))
	b := ComputeChecksum([]byte("voxel"))
	c := ComputeChecksum([]byte("voxels"))
	assert.NoError(t, ValidateChecksum(a, b))
	assert.ErrorIs(t, ValidateChecksum(a, c), ErrChecksumMismatch)
}

func TestValidationErrorFormat(t *testing.T) {
	assert.Equal(t, "x: d", (&ValidationError{Type: "x", Details: "d"}).Error())
	assert.Equal(t, `x: section "s": d`, (&ValidationError{Type: "x", Section: "s", Details: "d"}).Error())
	assert.Equal(t, `x: sections "s" and "t": d`,
		(&ValidationError{Type: "x", Section: "s", Section2: "t", Details: "d"}).Error())
}
