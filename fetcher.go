package fetchargs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hugr-lab/fetchargs/args"
	"github.com/hugr-lab/fetchargs/coerce"
	"github.com/hugr-lab/fetchargs/condition"
	"github.com/hugr-lab/fetchargs/dates"
	"github.com/hugr-lab/fetchargs/internal/recovery"
)

// Fetcher converts resolver arguments using a shared coercion mapper, date
// parser and condition-type registry.
type Fetcher struct {
	registry condition.Registry
	guarded  condition.Registry
	mapper   *coerce.Mapper
	dates    *dates.Parser
	logger   *slog.Logger
	pageSize int
}

// New creates a Fetcher.
//
// The function:
//  1. Validates the Config
//  2. Creates the logger (unless provided)
//  3. Builds the coercion mapper and date parser once
//
// Returns error wrapping ErrInvalidConfig if config is invalid
// (e.g., nil Registry or malformed DateLocale).
func New(config Config) (*Fetcher, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := config.Logger
	if logger == nil {
		level := slog.LevelInfo
		if config.LogLevel != nil {
			level = *config.LogLevel
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	parser, err := dates.NewParser(&dates.Options{
		Locale:   config.DateLocale,
		Layouts:  config.DateLayouts,
		Location: config.Location,
		Sink:     dates.LoggerSink{Logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	pageSize := config.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	logger.Debug("argument fetcher created",
		"date_layouts", len(parser.Layouts()),
		"page_size", pageSize,
	)

	return &Fetcher{
		registry: config.Registry,
		guarded:  guardedRegistry{registry: config.Registry, logger: logger},
		mapper:   coerce.NewMapper(config.Mapper),
		dates:    parser,
		logger:   logger,
		pageSize: pageSize,
	}, nil
}

// Registry returns the configured condition-type registry.
func (f *Fetcher) Registry() condition.Registry {
	return f.registry
}

// Logger returns the fetcher's logger.
func (f *Fetcher) Logger() *slog.Logger {
	return f.logger
}

// Mapper returns the shared coercion mapper.
func (f *Fetcher) Mapper() *coerce.Mapper {
	return f.mapper
}

// Argument returns the named argument as T, or def if it is absent, null
// or of another type. Numeric values convert between numeric types when
// the conversion is exact.
func Argument[T any](env args.Environment, name string, def T) T {
	return args.Get(env, name, def)
}

// Object maps the named structured argument into a new T.
// Returns (nil, nil) if the argument is absent.
// Returns *coerce.CoercionError if the value does not fit T. A panic in a
// custom decode hook is returned as an error, not re-raised.
func Object[T any](f *Fetcher, env args.Environment, name string) (*T, error) {
	var out *T
	err := recovery.RecoverToError(f.logger, "decode argument "+name, func() error {
		var err error
		out, err = coerce.Argument[T](f.mapper, env, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Date parses the named date argument.
// Returns nil if the argument is absent, empty or malformed; malformed
// values are reported on the logger at WARN.
func (f *Fetcher) Date(env args.Environment, name string) *time.Time {
	return f.dates.Argument(env, name)
}

// BooleanCondition creates the root booleanCondition of a filter tree with
// the given operator. Sub-conditions are attached by the caller.
// Returns *condition.ConfigurationError if the registry cannot provide the
// booleanCondition type, including when the registry panics.
func (f *Fetcher) BooleanCondition(operator string) (*condition.Condition, error) {
	return condition.BuildBooleanCondition(operator, f.guarded)
}

// Page holds cursor pagination arguments.
type Page struct {
	// Size is the number of items requested, always positive.
	Size int
	// After is the opaque cursor to continue from, empty for the first page.
	After string
}

// Page reads the "first" and "after" arguments. A missing or non-positive
// "first" falls back to the configured page size.
func (f *Fetcher) Page(env args.Environment) Page {
	size := args.Get(env, "first", f.pageSize)
	if size <= 0 {
		size = f.pageSize
	}
	return Page{
		Size:  size,
		After: args.Get(env, "after", ""),
	}
}

// Environment returns the arguments of the current request: an
// environment stored with args.WithEnvironment, else the MessagePack bag
// from incoming gRPC metadata, else an empty bag.
func (f *Fetcher) Environment(ctx context.Context) (args.Environment, error) {
	if env, ok := args.FromContext(ctx); ok {
		return env, nil
	}
	bag, err := args.FromIncomingMetadata(ctx)
	if err != nil {
		return nil, &coerce.CoercionError{Argument: args.MetadataKey, Target: "args.Bag", Err: err}
	}
	if bag == nil {
		return args.Bag{}, nil
	}
	return bag, nil
}

// guardedRegistry converts registry panics into errors, which the
// condition package reports as ConfigurationError.
type guardedRegistry struct {
	registry condition.Registry
	logger   *slog.Logger
}

func (g guardedRegistry) ConditionType(id string) (*condition.Type, error) {
	return recovery.RecoverToValue(g.logger, "condition type lookup", func() (*condition.Type, error) {
		return g.registry.ConditionType(id)
	})
}
