package condition

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("condition configuration error")

	// ErrTypeNotFound indicates the registry has no type with the requested id.
	ErrTypeNotFound = errors.New("condition type not found")

	// ErrNoRegistry indicates a nil Registry was supplied.
	ErrNoRegistry = errors.New("no condition-type registry")
)

// ConfigurationError reports a condition type that could not be resolved.
// It indicates a broken deployment (missing catalog entry or failing
// registry), not bad input, and is not recoverable locally.
type ConfigurationError struct {
	TypeID string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("condition type %q unavailable: %v", e.TypeID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
