package fetchargs

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/fetchargs/coerce"
	"github.com/hugr-lab/fetchargs/condition"
	"github.com/hugr-lab/fetchargs/internal/recovery"
)

// ToStatus translates an error from this package into a gRPC status error
// at the resolver edge:
//
//   - coerce.ErrCoercion, condition.ErrTypeNotFound: InvalidArgument
//   - condition.ErrConfiguration, ErrInvalidConfig, panics: Internal
//   - context cancellation and deadlines: Canceled, DeadlineExceeded
//
// Errors that already carry a gRPC status are returned unchanged. nil
// stays nil.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}

	// Order matters: a configuration error may wrap ErrTypeNotFound.
	var panicErr *recovery.PanicError
	switch {
	case errors.Is(err, condition.ErrConfiguration),
		errors.Is(err, ErrInvalidConfig),
		errors.As(err, &panicErr):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, coerce.ErrCoercion),
		errors.Is(err, condition.ErrTypeNotFound):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	if s, ok := status.FromError(err); ok {
		return s.Err()
	}
	return status.Error(codes.Unknown, err.Error())
}
