package coerce

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCoercion matches every *CoercionError via errors.Is.
var ErrCoercion = errors.New("argument coercion failed")

// CoercionError reports a raw value whose structure is incompatible with the
// requested target shape. It indicates a malformed request.
type CoercionError struct {
	// Argument is the request argument name; empty when decoding a bare value.
	Argument string

	// Target is the Go type the value was coerced into.
	Target string

	// Missing lists required fields absent from the raw value, as dotted paths.
	Missing []string

	// Err is the underlying decode failure, if any.
	Err error
}

func (e *CoercionError) Error() string {
	var b strings.Builder
	b.WriteString("cannot coerce")
	if e.Argument != "" {
		fmt.Fprintf(&b, " argument %q", e.Argument)
	}
	if e.Target != "" {
		b.WriteString(" to ")
		b.WriteString(e.Target)
	}
	if len(e.Missing) > 0 {
		b.WriteString(": missing required field(s) ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying decode failure.
func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCoercion.
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}
