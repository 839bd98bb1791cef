package serialization

import (
	"fmt"
	"sort"

	"github.com/born-ml/voxel/internal/jagged"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize   = 10 * 1024 * 1024 // 10MB - maximum header size
	MaxSectionCount = 16               // Maximum number of sections in a file
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal skips the section overlap check.
	ValidationNormal
	// ValidationNone skips header validation. The decoded tensor is still
	// checked before it is returned.
	ValidationNone
)

// required lists the sections every file carries, with their layouts.
var required = []struct {
	name   string
	layout string
	stride int
}{
	{SectionData, LayoutVec3I32, jagged.Vec3Stride},
	{SectionBatchIdx, LayoutU32, jagged.Uint32Stride},
	{SectionListIdx, LayoutVec3U32, jagged.Vec3Stride},
	{SectionOffsets, LayoutU32, jagged.Uint32Stride},
}

// within reports whether [offset, offset+size) lies inside [0, limit).
// The sum is never formed, so forged values near MaxInt64 cannot wrap.
func within(offset, size, limit int64) bool {
	return offset >= 0 && size >= 0 && size <= limit && offset <= limit-size
}

// ValidateSectionOffsets checks for overlapping sections and out-of-bounds access.
func ValidateSectionOffsets(sections []SectionMeta, dataSize int64) error {
	sorted := make([]SectionMeta, len(sections))
	copy(sorted, sections)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, s := range sorted {
		if s.Offset < 0 || s.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Section: s.Name,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", s.Offset, s.Size),
				Err:     ErrNegativeOffset,
			}
		}

		if !within(s.Offset, s.Size, dataSize) {
			return &ValidationError{
				Type:    "out_of_bounds",
				Section: s.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", s.Offset, s.Size, dataSize),
				Err:     ErrOutOfBounds,
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if s.Offset+s.Size > next.Offset {
				return &ValidationError{
					Type:     "offset_overlap",
					Section:  s.Name,
					Section2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						s.Offset, s.Offset+s.Size, next.Offset, next.Offset+next.Size),
					Err: ErrOffsetOverlap,
				}
			}
		}
	}

	return nil
}

// ValidateHeader checks that the header describes a well-formed jagged tensor
// whose sections fit in dataSize bytes.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if len(h.Sections) > MaxSectionCount {
		return &ValidationError{
			Type:    "too_many_sections",
			Details: fmt.Sprintf("got %d, max %d", len(h.Sections), MaxSectionCount),
		}
	}
	if h.NumElements < 0 || h.NumOuterLists < 0 {
		return &ValidationError{
			Type:    "negative_count",
			Details: fmt.Sprintf("num_elements=%d, num_outer_lists=%d", h.NumElements, h.NumOuterLists),
		}
	}

	for _, r := range required {
		s, ok := h.Section(r.name)
		if !ok {
			return &ValidationError{Type: "missing_section", Section: r.name, Details: "not present", Err: ErrMissingSection}
		}
		if s.Layout != r.layout {
			return &ValidationError{
				Type:    "bad_layout",
				Section: s.Name,
				Details: fmt.Sprintf("layout %q, want %q", s.Layout, r.layout),
			}
		}
		want := h.NumElements
		if r.name == SectionOffsets {
			want = h.NumOuterLists
		}
		if s.Count != want {
			return &ValidationError{
				Type:    "count_mismatch",
				Section: s.Name,
				Details: fmt.Sprintf("count %d, header says %d", s.Count, want),
			}
		}
		if int64(s.Count) > s.Size/int64(r.stride) {
			return &ValidationError{
				Type:    "short_section",
				Section: s.Name,
				Details: fmt.Sprintf("size %d holds fewer than %d elements of stride %d", s.Size, s.Count, r.stride),
				Err:     ErrOutOfBounds,
			}
		}
	}

	// Bounds are always checked; overlap only in strict mode.
	if level == ValidationStrict {
		return ValidateSectionOffsets(h.Sections, dataSize)
	}
	for _, s := range h.Sections {
		if !within(s.Offset, s.Size, dataSize) {
			return &ValidationError{
				Type:    "out_of_bounds",
				Section: s.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", s.Offset, s.Size, dataSize),
				Err:     ErrOutOfBounds,
			}
		}
	}
	return nil
}
