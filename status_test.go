package fetchargs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/fetchargs/coerce"
	"github.com/hugr-lab/fetchargs/condition"
	"github.com/hugr-lab/fetchargs/internal/recovery"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"coercion", &coerce.CoercionError{Argument: "filter", Err: errors.New("bad")}, codes.InvalidArgument},
		{"wrapped coercion", fmt.Errorf("resolve: %w", &coerce.CoercionError{}), codes.InvalidArgument},
		{"unknown payload type", fmt.Errorf("condition: %w", condition.ErrTypeNotFound), codes.InvalidArgument},
		{"configuration", &condition.ConfigurationError{TypeID: "booleanCondition", Err: condition.ErrTypeNotFound}, codes.Internal},
		{"invalid config", fmt.Errorf("%w: registry is required", ErrInvalidConfig), codes.Internal},
		{"panic", &recovery.PanicError{Operation: "decode", Value: "boom"}, codes.Internal},
		{"canceled", context.Canceled, codes.Canceled},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"existing status", status.Error(codes.NotFound, "no such profile"), codes.NotFound},
		{"other", errors.New("backend down"), codes.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToStatus(tt.err)
			if code := status.Code(got); code != tt.code {
				t.Errorf("expected %s, got %s (%v)", tt.code, code, got)
			}
		})
	}

	if ToStatus(nil) != nil {
		t.Error("expected nil for nil error")
	}
}
