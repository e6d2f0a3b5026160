package args

import (
	"context"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestGetAbsentReturnsDefault(t *testing.T) {
	env := Bag{"other": 1}

	if got := Get(env, "first", 10); got != 10 {
		t.Errorf("expected default 10, got %d", got)
	}
	if got := Get(env, "after", "cursor-0"); got != "cursor-0" {
		t.Errorf("expected default 'cursor-0', got %q", got)
	}

	var def *string
	if got := Get(env, "name", def); got != nil {
		t.Errorf("expected nil default, got %v", got)
	}

	if got := Get[any](nil, "first", nil); got != nil {
		t.Errorf("expected nil for nil environment, got %v", got)
	}
}

func TestGetExplicitNilIsAbsent(t *testing.T) {
	env := Bag{"first": nil}
	if got := Get(env, "first", 10); got != 10 {
		t.Errorf("expected default 10, got %d", got)
	}
}

func TestGetFalsyValues(t *testing.T) {
	env := Bag{
		"count":   0,
		"enabled": false,
		"after":   "",
	}

	if got := Get(env, "count", 10); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := Get(env, "enabled", true); got != false {
		t.Errorf("expected false, got %v", got)
	}
	if got := Get(env, "after", "x"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestGetNumericConversion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		def   int
		want  int
	}{
		{"int8", int8(25), 10, 25},
		{"uint16", uint16(300), 10, 300},
		{"float64 integral", float64(42), 10, 42},
		{"float64 fractional", 2.5, 10, 10},
		{"string", "25", 10, 10},
		{"map", map[string]any{"a": 1}, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Bag{"first": tt.value}
			if got := Get(env, "first", tt.def); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGetNumericBounds(t *testing.T) {
	if got := Get(Bag{"v": 300}, "v", int8(1)); got != 1 {
		t.Errorf("expected overflow to fall back to default, got %d", got)
	}
	if got := Get(Bag{"v": -1}, "v", uint(7)); got != 7 {
		t.Errorf("expected negative to uint to fall back to default, got %d", got)
	}
	if got := Get(Bag{"v": int64(3)}, "v", 0.5); got != 3.0 {
		t.Errorf("expected 3.0, got %v", got)
	}
}

func TestGetInterfaceTarget(t *testing.T) {
	obj := map[string]any{"id_equals": "e1"}
	got := Get[any](Bag{"filter": obj}, "filter", nil)
	m, ok := got.(map[string]any)
	if !ok || m["id_equals"] != "e1" {
		t.Errorf("expected raw object, got %v", got)
	}
}

func TestContextEnvironment(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Fatal("expected no environment in empty context")
	}

	ctx = WithEnvironment(ctx, Bag{"first": 5})
	env, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected environment in context")
	}
	if got := Get(env, "first", 10); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestFromIncomingMetadata(t *testing.T) {
	data, err := EncodeMsgpack(Bag{
		"first":  25,
		"filter": map[string]any{"cdp_profileId_equals": "p-1"},
	})
	if err != nil {
		t.Fatalf("EncodeMsgpack failed: %v", err)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(MetadataKey, string(data)))
	bag, err := FromIncomingMetadata(ctx)
	if err != nil {
		t.Fatalf("FromIncomingMetadata failed: %v", err)
	}

	if got := Get(bag, "first", 10); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	filter, ok := bag["filter"].(map[string]any)
	if !ok || filter["cdp_profileId_equals"] != "p-1" {
		t.Errorf("unexpected filter value: %v", bag["filter"])
	}
}

func TestFromIncomingMetadataAbsent(t *testing.T) {
	bag, err := FromIncomingMetadata(context.Background())
	if err != nil || bag != nil {
		t.Errorf("expected (nil, nil) without metadata, got %v, %v", bag, err)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("other", "x"))
	bag, err = FromIncomingMetadata(ctx)
	if err != nil || bag != nil {
		t.Errorf("expected (nil, nil) without header, got %v, %v", bag, err)
	}
}

func TestFromIncomingMetadataInvalid(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(MetadataKey, "\xc1"))
	if _, err := FromIncomingMetadata(ctx); err == nil {
		t.Error("expected error for malformed header")
	}
}
