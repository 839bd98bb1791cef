package serialization

import (
	"crypto/sha256"
	"time"
)

// Format constants.
const (
	MagicBytes      = "VXJT"
	FormatVersion   = 1
	HeaderAlignment = 64   // Section data starts on a 64-byte boundary
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
)

// Section names.
const (
	SectionData     = "data"
	SectionBatchIdx = "batch_idx"
	SectionListIdx  = "list_idx"
	SectionOffsets  = "offsets"
)

// Section layouts.
const (
	LayoutVec3I32 = "vec3<i32>"
	LayoutVec3U32 = "vec3<u32>"
	LayoutU32     = "u32"
)

// Flags for the .vjt format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

const voxelVersion = "0.0.1"

// Header represents the JSON header in a .vjt file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	VoxelVersion  string            `json:"voxel_version"` // Version of voxel that created this file
	LDim          int               `json:"ldim"`          // List nesting depth (1 or 2)
	NumElements   int               `json:"num_elements"`
	NumOuterLists int               `json:"num_outer_lists"`
	CreatedAt     time.Time         `json:"created_at"`
	Sections      []SectionMeta     `json:"sections"`
	Metadata      map[string]string `json:"metadata"`
}

// SectionMeta describes one array in the data section.
type SectionMeta struct {
	Name   string `json:"name"`
	Layout string `json:"layout"` // Element layout, e.g. "vec3<i32>"
	Count  int    `json:"count"`  // Number of elements
	Offset int64  `json:"offset"` // Bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes, including stride padding
}

// Section returns the named section.
func (h *Header) Section(name string) (SectionMeta, bool) {
	for _, s := range h.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionMeta{}, false
}

// ComputeChecksum computes SHA-256 checksum of data.
func ComputeChecksum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [32]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}

// alignUp rounds n up to HeaderAlignment.
func alignUp(n int64) int64 {
	return (n + HeaderAlignment - 1) / HeaderAlignment * HeaderAlignment
}
