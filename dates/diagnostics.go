package dates

import (
	"context"
	"log/slog"
)

// Sink receives warning-level diagnostics from the parser.
// Implementations MUST be goroutine-safe and non-blocking.
type Sink interface {
	Warn(msg string, attrs ...slog.Attr)
}

// LoggerSink forwards diagnostics to a slog.Logger.
type LoggerSink struct {
	Logger *slog.Logger
}

// Warn implements Sink.
func (s LoggerSink) Warn(msg string, attrs ...slog.Attr) {
	if s.Logger == nil {
		return
	}
	s.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

// Discard drops all diagnostics.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Warn(string, ...slog.Attr) {}
