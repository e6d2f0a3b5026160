package fetchargs

import (
	"context"

	"google.golang.org/grpc"

	"github.com/hugr-lab/fetchargs/args"
)

// ServerOptions returns gRPC server options installing the argument
// interceptors.
//
// Example:
//
//	grpcServer := grpc.NewServer(fetchargs.ServerOptions(f)...)
func ServerOptions(f *Fetcher) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(f.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(f.StreamServerInterceptor()),
	}
}

// UnaryServerInterceptor creates a gRPC unary interceptor that decodes the
// argument bag from request metadata into the context (see
// args.FromContext) and translates handler errors with ToStatus.
func (f *Fetcher) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx, err := f.withArguments(ctx)
		if err != nil {
			return nil, ToStatus(err)
		}

		resp, err := handler(ctx, req)
		if err != nil {
			f.logger.Debug("resolver failed", "method", info.FullMethod, "error", err)
			return nil, ToStatus(err)
		}
		return resp, nil
	}
}

// StreamServerInterceptor creates a gRPC stream interceptor with the same
// behavior as UnaryServerInterceptor.
func (f *Fetcher) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx, err := f.withArguments(ss.Context())
		if err != nil {
			return ToStatus(err)
		}

		wrappedStream := &wrappedServerStream{
			ServerStream: ss,
			ctx:          ctx,
		}
		if err := handler(srv, wrappedStream); err != nil {
			f.logger.Debug("resolver failed", "method", info.FullMethod, "error", err)
			return ToStatus(err)
		}
		return nil
	}
}

func (f *Fetcher) withArguments(ctx context.Context) (context.Context, error) {
	env, err := f.Environment(ctx)
	if err != nil {
		return nil, err
	}
	return args.WithEnvironment(ctx, env), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapper's custom context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
