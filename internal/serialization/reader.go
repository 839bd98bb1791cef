package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/voxel/internal/jagged"
)

// ReaderOptions configures how a .vjt file is read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// File is a decoded .vjt file.
type File struct {
	Header Header
	Tensor *jagged.Tensor
}

// Read decodes a .vjt stream. The returned tensor always passes
// jagged.Tensor.Validate.
func Read(r io.Reader, opts ReaderOptions) (*File, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if !bytes.Equal(fixed[0:4], []byte(MagicBytes)) {
		return nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header JSON: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	headerEnd := int64(FixedHeaderSize) + int64(headerSize)
	if _, err := io.CopyN(io.Discard, r, alignUp(headerEnd)-headerEnd); err != nil {
		return nil, fmt.Errorf("failed to skip header padding: %w", err)
	}

	// LimitReader keeps a forged data size from forcing a large allocation.
	//nolint:gosec // G115: compared against the bytes actually read below
	data, err := io.ReadAll(io.LimitReader(r, int64(dataSize)))
	if err != nil {
		return nil, fmt.Errorf("failed to read section data: %w", err)
	}
	if uint64(len(data)) != dataSize {
		return nil, fmt.Errorf("%w: data section truncated at %d of %d bytes", ErrOutOfBounds, len(data), dataSize)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
			return nil, err
		}
	}

	if err := ValidateHeader(&header, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	t, err := decodeTensor(&header, data)
	if err != nil {
		return nil, err
	}
	return &File{Header: header, Tensor: t}, nil
}

// ReadFile reads a .vjt file from path.
func ReadFile(path string, opts ReaderOptions) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Read(bufio.NewReader(file), opts)
}

func decodeTensor(h *Header, data []byte) (*jagged.Tensor, error) {
	// Counts are trusted only as far as the data can back them.
	if h.NumElements > len(data)/jagged.Vec3Stride || h.NumOuterLists > len(data)/jagged.Uint32Stride {
		return nil, fmt.Errorf("%w: header counts exceed %d data bytes", ErrOutOfBounds, len(data))
	}

	t := &jagged.Tensor{
		Data:     make([]jagged.Coord, max(h.NumElements, 0)),
		BatchIdx: make([]uint32, max(h.NumElements, 0)),
		ListIdx:  make([]jagged.ListIndex, max(h.NumElements, 0)),
		Offsets:  make([]uint32, max(h.NumOuterLists, 0)),
		LDim:     h.LDim,
	}

	section := func(name string) ([]byte, error) {
		s, ok := h.Section(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSection, name)
		}
		if !within(s.Offset, s.Size, int64(len(data))) {
			return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, name)
		}
		return data[s.Offset : s.Offset+s.Size], nil
	}

	decoders := []struct {
		name   string
		decode func([]byte) error
	}{
		{SectionData, func(b []byte) error { return jagged.DecodeVec3(b, t.Data) }},
		{SectionBatchIdx, func(b []byte) error { return jagged.DecodeUint32(b, t.BatchIdx) }},
		{SectionListIdx, func(b []byte) error { return jagged.DecodeVec3(b, t.ListIdx) }},
		{SectionOffsets, func(b []byte) error { return jagged.DecodeUint32(b, t.Offsets) }},
	}
	for _, d := range decoders {
		b, err := section(d.name)
		if err != nil {
			return nil, err
		}
		if err := d.decode(b); err != nil {
			return nil, fmt.Errorf("section %s: %w", d.name, err)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("decoded tensor: %w", err)
	}
	return t, nil
}
