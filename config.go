package fetchargs

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hugr-lab/fetchargs/coerce"
	"github.com/hugr-lab/fetchargs/condition"
)

// DefaultPageSize is the page size used when a request omits "first".
const DefaultPageSize = 10

// Config contains configuration for a Fetcher.
type Config struct {
	// Registry resolves condition types for BooleanCondition and
	// EventFilter.
	// REQUIRED: MUST NOT be nil.
	Registry condition.Registry

	// Logger for internal logging and date diagnostics.
	// OPTIONAL: If nil, a text logger on stderr is created at LogLevel.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// DateLocale selects the short date formats accepted by Date
	// (BCP 47, e.g. "en-GB").
	// OPTIONAL: Defaults to dates.DefaultLocale. Ignored if DateLayouts is set.
	DateLocale string

	// DateLayouts replaces the locale formats with explicit Go time layouts.
	// OPTIONAL.
	DateLayouts []string

	// Location is applied to dates without a zone offset.
	// OPTIONAL: Defaults to time.UTC.
	Location *time.Location

	// Mapper configures structured-argument coercion.
	// OPTIONAL: If nil, strict JSON-tag mapping with weak scalar typing.
	Mapper *coerce.Options

	// PageSize is the default page size for Page.
	// OPTIONAL: If 0, uses DefaultPageSize. MUST NOT be negative.
	PageSize int
}

// Standard errors returned by fetchargs package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid fetcher config")

	// ErrNotListable indicates a registry that cannot enumerate its types
	// was asked for a snapshot.
	ErrNotListable = errors.New("registry cannot enumerate condition types")
)

// validateConfig checks that required Config fields are valid.
func validateConfig(config Config) error {
	if config.Registry == nil {
		return fmt.Errorf("registry is required")
	}
	if config.PageSize < 0 {
		return fmt.Errorf("page size must not be negative, got %d", config.PageSize)
	}
	return nil
}
