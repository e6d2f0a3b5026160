// Package coerce converts untyped argument values into typed Go values.
//
// A Mapper performs a structural, field-by-field conversion of raw values
// (map[string]any objects, slices, scalars) into a target type. Nested
// objects are coerced recursively. Conversion either yields a fully
// populated value or a *CoercionError; partial results are never returned.
//
// Create one Mapper at startup and share it: it holds only immutable
// configuration and is safe for concurrent use.
//
//	mapper := coerce.NewMapper(nil)
//
//	filter, err := coerce.Argument[EventFilterInput](mapper, env, "filter")
//	if err != nil {
//	    return err // malformed request
//	}
//	if filter == nil {
//	    // argument absent
//	}
//
// Fields are matched by the "json" struct tag by default. A field tagged
// `coerce:"required"` must be present and non-null in the raw value.
package coerce

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/hugr-lab/fetchargs/args"
)

// Options configures a Mapper.
type Options struct {
	// TagName is the struct tag used for field names.
	// OPTIONAL: Defaults to "json".
	TagName string

	// AllowUnknownFields accepts raw object keys with no matching field.
	// OPTIONAL: Defaults to false (unknown keys are a coercion error).
	AllowUnknownFields bool

	// DisableWeakTyping turns off scalar conversions such as "5" -> 5 or
	// 1 -> true. Weak typing also decodes "" into the zero value of a
	// numeric or bool field. Floats with a fractional part never decode
	// into integer fields. OPTIONAL: Weak scalar typing is on by default.
	DisableWeakTyping bool

	// TimeLayout is the layout used to decode strings into time.Time.
	// OPTIONAL: Defaults to time.RFC3339.
	TimeLayout string

	// Hooks are extra decode hooks, run before the built-in ones.
	Hooks []mapstructure.DecodeHookFunc
}

// Mapper is an immutable structural type mapper.
type Mapper struct {
	tagName     string
	errorUnused bool
	weak        bool
	hook        mapstructure.DecodeHookFunc
}

// NewMapper creates a Mapper. If opts is nil, default options are used.
func NewMapper(opts *Options) *Mapper {
	if opts == nil {
		opts = &Options{}
	}

	tagName := opts.TagName
	if tagName == "" {
		tagName = "json"
	}
	timeLayout := opts.TimeLayout
	if timeLayout == "" {
		timeLayout = time.RFC3339
	}

	hooks := make([]mapstructure.DecodeHookFunc, 0, len(opts.Hooks)+5)
	hooks = append(hooks, opts.Hooks...)
	hooks = append(hooks,
		PointHook(),
		IntegralHook(),
		mapstructure.StringToTimeHookFunc(timeLayout),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)

	return &Mapper{
		tagName:     tagName,
		errorUnused: !opts.AllowUnknownFields,
		weak:        !opts.DisableWeakTyping,
		hook:        mapstructure.ComposeDecodeHookFunc(hooks...),
	}
}

// Decode coerces raw into target, which must be a non-nil pointer.
// On failure the returned error is a *CoercionError and target must be
// discarded by the caller; use To for an all-or-nothing result.
func (m *Mapper) Decode(raw any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("coerce: target must be a non-nil pointer, got %T", target)
	}
	targetType := rv.Elem().Type()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       m.hook,
		ErrorUnused:      m.errorUnused,
		WeaklyTypedInput: m.weak,
		TagName:          m.tagName,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("coerce: failed to create decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return &CoercionError{Target: targetType.String(), Err: err}
	}

	if missing := missingRequired(targetType, raw, m.tagName, ""); len(missing) > 0 {
		return &CoercionError{Target: targetType.String(), Missing: missing}
	}

	return nil
}

// To coerces raw into a freshly allocated T.
// Returns (nil, err) on failure, never a partially populated value.
func To[T any](m *Mapper, raw any) (*T, error) {
	out := new(T)
	if err := m.Decode(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Argument coerces the named argument into T.
// Returns (nil, nil) when the argument is absent.
func Argument[T any](m *Mapper, env args.Environment, name string) (*T, error) {
	raw, ok := args.Lookup(env, name)
	if !ok {
		return nil, nil
	}

	out, err := To[T](m, raw)
	if err != nil {
		var ce *CoercionError
		if errors.As(err, &ce) {
			ce.Argument = name
		}
		return nil, err
	}
	return out, nil
}
