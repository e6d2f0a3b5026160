package args

import (
	"context"
	"fmt"

	"google.golang.org/grpc/metadata"

	"github.com/hugr-lab/fetchargs/internal/msgpack"
)

// MetadataKey is the gRPC metadata key carrying a MessagePack-encoded bag.
// The "-bin" suffix makes gRPC transport the value as binary.
const MetadataKey = "x-fetch-arguments-bin"

// envKey is the unexported context key for the request's Environment.
type envKey struct{}

// WithEnvironment returns a new context with the Environment stored.
func WithEnvironment(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// FromContext retrieves the Environment if present.
// Returns (nil, false) if none was stored.
func FromContext(ctx context.Context) (Environment, bool) {
	env, ok := ctx.Value(envKey{}).(Environment)
	return env, ok
}

// DecodeMsgpack decodes a MessagePack map into a Bag.
func DecodeMsgpack(data []byte) (Bag, error) {
	m, err := msgpack.DecodeMap(data)
	if err != nil {
		return nil, err
	}
	return Bag(m), nil
}

// EncodeMsgpack encodes a Bag for transport under MetadataKey.
func EncodeMsgpack(b Bag) ([]byte, error) {
	return msgpack.Encode(map[string]any(b))
}

// FromIncomingMetadata extracts the argument bag from gRPC incoming metadata.
// Returns (nil, nil) if the request carries no arguments header.
func FromIncomingMetadata(ctx context.Context) (Bag, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, nil
	}

	values := md.Get(MetadataKey)
	if len(values) == 0 || values[0] == "" {
		return nil, nil
	}

	bag, err := DecodeMsgpack([]byte(values[0]))
	if err != nil {
		return nil, fmt.Errorf("args: invalid %s header: %w", MetadataKey, err)
	}
	return bag, nil
}
