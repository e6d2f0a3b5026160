package cli

import (
	"errors"
	"fmt"

	"github.com/hugr-lab/fetchargs/coerce"
	"github.com/hugr-lab/fetchargs/condition"
)

// Exit codes returned through ExitError.
const (
	exitGeneric       = 1
	exitInput         = 2
	exitCoercion      = 3
	exitConfiguration = 4
)

// ExitError is an error that carries a specific process exit code.
// Cobra's RunE returns this to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitError creates a new ExitError with the given code and formatted message.
func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// classify picks the exit code for an error returned by the library.
func classify(err error) int {
	switch {
	case errors.Is(err, condition.ErrConfiguration):
		return exitConfiguration
	case errors.Is(err, coerce.ErrCoercion):
		return exitCoercion
	case errors.Is(err, condition.ErrTypeNotFound):
		return exitInput
	default:
		return exitGeneric
	}
}
