package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/born-ml/voxel/internal/jagged"
)

// Write encodes t in .vjt format to w. t is validated first.
func Write(w io.Writer, t *jagged.Tensor, metadata map[string]string) error {
	if t == nil {
		return fmt.Errorf("nil tensor")
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid tensor: %w", err)
	}

	header := Header{
		FormatVersion: FormatVersion,
		VoxelVersion:  voxelVersion,
		LDim:          t.LDim,
		NumElements:   t.NumElements(),
		NumOuterLists: t.NumOuterLists(),
		CreatedAt:     time.Now().UTC(),
		Metadata:      metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	payloads := []struct {
		meta SectionMeta
		data []byte
	}{
		{SectionMeta{Name: SectionData, Layout: LayoutVec3I32, Count: len(t.Data)}, jagged.EncodeVec3(t.Data)},
		{SectionMeta{Name: SectionBatchIdx, Layout: LayoutU32, Count: len(t.BatchIdx)}, jagged.EncodeUint32(t.BatchIdx)},
		{SectionMeta{Name: SectionListIdx, Layout: LayoutVec3U32, Count: len(t.ListIdx)}, jagged.EncodeVec3(t.ListIdx)},
		{SectionMeta{Name: SectionOffsets, Layout: LayoutU32, Count: len(t.Offsets)}, jagged.EncodeUint32(t.Offsets)},
	}

	// Each section starts 64-byte aligned within the data section.
	var dataSize int64
	for i := range payloads {
		payloads[i].meta.Offset = dataSize
		payloads[i].meta.Size = int64(len(payloads[i].data))
		header.Sections = append(header.Sections, payloads[i].meta)
		dataSize = alignUp(dataSize + payloads[i].meta.Size)
	}

	data := make([]byte, dataSize)
	for _, p := range payloads {
		copy(data[p.meta.Offset:], p.data)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	flags := uint32(0)
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(dataSize))
	checksum := ComputeChecksum(data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	headerEnd := int64(FixedHeaderSize + len(headerJSON))
	padding := make([]byte, alignUp(headerEnd)-headerEnd)

	for _, chunk := range [][]byte{fixed, headerJSON, padding, data} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}

// WriteFile writes t to a .vjt file at path.
func WriteFile(path string, t *jagged.Tensor, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(file)
	if err := Write(bw, t, metadata); err != nil {
		return err
	}
	return bw.Flush()
}
