package pad

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Transformer matches exactly one of
// them under errors.Is.
var (
	// ErrInvalidConfig reports a caller-contract violation detected before dispatch.
	ErrInvalidConfig = errors.New("pad: invalid configuration")
	// ErrExecution reports a dispatch failure. Output buffers are undefined.
	ErrExecution = errors.New("pad: execution failure")
)

// ConfigError describes a rejected configuration.
type ConfigError struct {
	Field   string // Offending input (e.g. "window", "batch_idx", "offsets").
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Field, e.Details)
}

// Unwrap makes ConfigError match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Details: fmt.Sprintf(format, args...)}
}

// executionError wraps a dispatcher failure so it matches ErrExecution while
// keeping the original cause reachable.
type executionError struct {
	backend string
	cause   error
}

func (e *executionError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrExecution, e.backend, e.cause)
}

func (e *executionError) Unwrap() []error {
	return []error{ErrExecution, e.cause}
}
