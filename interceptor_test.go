package fetchargs

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/fetchargs/args"
	"github.com/hugr-lab/fetchargs/condition"
)

func incomingArgs(t *testing.T, bag args.Bag) context.Context {
	t.Helper()
	data, err := args.EncodeMsgpack(bag)
	if err != nil {
		t.Fatalf("EncodeMsgpack failed: %v", err)
	}
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(args.MetadataKey, string(data)))
}

func TestUnaryServerInterceptor(t *testing.T) {
	f, _ := newTestFetcher(t, Config{})
	interceptor := f.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/events.Events/List"}

	ctx := incomingArgs(t, args.Bag{
		"first":  4,
		"filter": map[string]any{"cdp_eventType_in": []any{"view"}},
	})

	var page Page
	var filter *condition.Condition
	resp, err := interceptor(ctx, "req", info, func(ctx context.Context, req any) (any, error) {
		env, ok := args.FromContext(ctx)
		if !ok {
			t.Fatal("expected environment in context")
		}
		page = f.Page(env)
		var err error
		filter, err = f.EventFilter(env, "filter")
		return "ok", err
	})
	if err != nil || resp != "ok" {
		t.Fatalf("unexpected result: %v, %v", resp, err)
	}
	if page.Size != 4 {
		t.Errorf("expected page size 4, got %d", page.Size)
	}
	if filter == nil || filter.TypeID() != condition.EventTypeConditionType {
		t.Errorf("expected eventTypeCondition, got %v", filter)
	}
}

func TestUnaryServerInterceptorTranslatesErrors(t *testing.T) {
	f, _ := newTestFetcher(t, Config{})
	interceptor := f.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/events.Events/List"}

	ctx := incomingArgs(t, args.Bag{"filter": "not an object"})
	_, err := interceptor(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		env, _ := args.FromContext(ctx)
		return f.EventFilter(env, "filter")
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}

	bad := metadata.NewIncomingContext(context.Background(), metadata.Pairs(args.MetadataKey, "\xc1"))
	called := false
	_, err = interceptor(bad, nil, info, func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	})
	if called {
		t.Error("handler must not run with an undecodable arguments header")
	}
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument for bad header, got %v", err)
	}
}

// fakeServerStream is a minimal grpc.ServerStream for interceptor tests.
type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context {
	return s.ctx
}

func TestStreamServerInterceptor(t *testing.T) {
	f, _ := newTestFetcher(t, Config{Registry: panickingRegistry{}})
	interceptor := f.StreamServerInterceptor()
	info := &grpc.StreamServerInfo{FullMethod: "/events.Events/Watch"}

	ss := &fakeServerStream{ctx: incomingArgs(t, args.Bag{"first": 2})}
	err := interceptor(nil, ss, info, func(srv any, stream grpc.ServerStream) error {
		env, ok := args.FromContext(stream.Context())
		if !ok || f.Page(env).Size != 2 {
			t.Errorf("expected arguments on stream context")
		}
		_, err := f.BooleanCondition("and")
		return err
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal for broken registry, got %v", err)
	}
}

func TestServerOptions(t *testing.T) {
	f, _ := newTestFetcher(t, Config{})
	if opts := ServerOptions(f); len(opts) != 2 {
		t.Errorf("expected 2 server options, got %d", len(opts))
	}
}
