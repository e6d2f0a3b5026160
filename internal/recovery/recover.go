// Package recovery converts panics raised by user-provided collaborators
// (condition-type registries, custom decode hooks) into ordinary errors.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// PanicError is returned when a guarded call panics.
type PanicError struct {
	Operation string
	Value     any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Operation, e.Value)
}

// RecoverToError wraps a function call with panic recovery.
// If the function panics, the panic is logged with its stack and returned
// as a *PanicError.
//
// Example:
//
//	err := recovery.RecoverToError(logger, "Decode", func() error {
//	    return mapper.Decode(raw, &target)
//	})
func RecoverToError(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)
			err = &PanicError{Operation: operation, Value: r}
		}
	}()

	return fn()
}

// RecoverToValue wraps a function that returns a value and error.
// If the function panics, returns the zero value and a *PanicError.
//
// Example:
//
//	ct, err := recovery.RecoverToValue(logger, "ConditionType", func() (*condition.Type, error) {
//	    return registry.ConditionType(id)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)

			var zero T
			result = zero
			err = &PanicError{Operation: operation, Value: r}
		}
	}()

	return fn()
}

func logPanic(logger *slog.Logger, operation string, r any) {
	if logger == nil {
		return
	}
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(debug.Stack()),
	)
}
