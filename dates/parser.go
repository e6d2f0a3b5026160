// Package dates parses date arguments leniently.
//
// Date strings from heterogeneous clients are unreliable, so a malformed
// value never fails the request: the parser returns nil and emits one
// warning diagnostic naming the argument and the offending value. Callers
// treat nil as "no date filter".
//
// The accepted formats are explicit. Each Parser is bound to one locale's
// short date-time patterns plus ISO-8601 (see LayoutsFor), or to a caller
// supplied layout list.
package dates

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/hugr-lab/fetchargs/args"
)

// invalidDateMessage is the diagnostic message for unparsable values.
const invalidDateMessage = "Invalid date format"

// Options configures a Parser.
type Options struct {
	// Locale selects the short date-time formats (BCP 47, e.g. "en-GB").
	// OPTIONAL: Defaults to DefaultLocale. Ignored when Layouts is set.
	Locale string

	// Layouts replaces the locale formats with an explicit list of Go
	// time layouts, tried in order.
	Layouts []string

	// Location is used for values without a zone offset.
	// OPTIONAL: Defaults to time.UTC.
	Location *time.Location

	// Sink receives warnings for malformed values.
	// OPTIONAL: Defaults to Discard.
	Sink Sink
}

// Parser is an immutable lenient date parser, safe for concurrent use.
type Parser struct {
	layouts []string
	loc     *time.Location
	sink    Sink
}

// NewParser creates a Parser. If opts is nil, default options are used.
// Returns error if the locale is not a valid BCP 47 tag.
func NewParser(opts *Options) (*Parser, error) {
	if opts == nil {
		opts = &Options{}
	}

	layouts := slices.Clone(opts.Layouts)
	if len(layouts) == 0 {
		var err error
		layouts, err = LayoutsFor(opts.Locale)
		if err != nil {
			return nil, err
		}
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	sink := opts.Sink
	if sink == nil {
		sink = Discard
	}

	return &Parser{layouts: layouts, loc: loc, sink: sink}, nil
}

// Layouts returns the layouts the parser accepts, in match order.
func (p *Parser) Layouts() []string {
	return slices.Clone(p.layouts)
}

// Argument parses the named argument.
// Returns nil if the argument is absent, empty or malformed.
func (p *Parser) Argument(env args.Environment, name string) *time.Time {
	raw, ok := args.Lookup(env, name)
	if !ok {
		return nil
	}
	return p.Parse(name, raw)
}

// Parse converts raw into a date. name is only used for diagnostics.
//
// nil and "" yield nil silently. time.Time values (MessagePack timestamps)
// pass through. Any other value that does not parse yields nil and one
// warning on the Sink.
func (p *Parser) Parse(name string, raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		return &v
	case *time.Time:
		if v == nil {
			return nil
		}
		t := *v
		return &t
	case string:
		if v == "" {
			return nil
		}
		if t, ok := p.parse(v); ok {
			return &t
		}
		p.sink.Warn(invalidDateMessage,
			slog.String("argument", name),
			slog.String("value", v),
		)
		return nil
	default:
		p.sink.Warn(invalidDateMessage,
			slog.String("argument", name),
			slog.Any("value", raw),
		)
		return nil
	}
}

// spaceNormalizer folds the no-break spaces some platforms emit in
// formatted dates (e.g. before AM/PM) into plain spaces.
var spaceNormalizer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// foldMeridiem upper-cases a trailing am/pm marker. Go layouts match
// the marker case-sensitively.
func foldMeridiem(s string) string {
	n := len(s)
	if n < 2 {
		return s
	}
	if suffix := strings.ToUpper(s[n-2:]); suffix == "AM" || suffix == "PM" {
		return s[:n-2] + suffix
	}
	return s
}

func (p *Parser) parse(s string) (time.Time, bool) {
	s = foldMeridiem(spaceNormalizer.Replace(s))
	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
