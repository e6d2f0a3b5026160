package recovery

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRecoverToValuePanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	v, err := RecoverToValue(logger, "ConditionType", func() (*int, error) {
		panic("registry exploded")
	})
	if v != nil {
		t.Errorf("expected zero value, got %v", v)
	}

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PanicError, got %v", err)
	}
	if pe.Operation != "ConditionType" {
		t.Errorf("expected operation 'ConditionType', got '%s'", pe.Operation)
	}
	if !strings.Contains(buf.String(), "Panic recovered") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

func TestRecoverToValuePassthrough(t *testing.T) {
	want := errors.New("lookup failed")
	v, err := RecoverToValue(nil, "ConditionType", func() (string, error) {
		return "x", want
	})
	if v != "x" || !errors.Is(err, want) {
		t.Errorf("expected passthrough, got %q, %v", v, err)
	}
}

func TestRecoverToError(t *testing.T) {
	err := RecoverToError(nil, "Decode", func() error {
		var m map[string]int
		m["boom"] = 1
		return nil
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PanicError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Decode panicked") {
		t.Errorf("unexpected message: %s", err.Error())
	}

	if err := RecoverToError(nil, "Decode", func() error { return nil }); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
