package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrOffsetOverlap      = errors.New("section offsets overlap")
	ErrOutOfBounds        = errors.New("section extends beyond data section")
	ErrNegativeOffset     = errors.New("negative offset or size")
	ErrMissingSection     = errors.New("missing section")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type     string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Section  string // Primary section name involved
	Section2 string // Secondary section name (for overlap errors)
	Details  string // Additional details
	Err      error  // Sentinel this failure maps to, if any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Section2 != "" {
		return fmt.Sprintf("%s: sections %q and %q: %s", e.Type, e.Section, e.Section2, e.Details)
	}
	if e.Section != "" {
		return fmt.Sprintf("%s: section %q: %s", e.Type, e.Section, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the sentinel error, so errors.Is matches it.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
