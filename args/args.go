// Package args reads named arguments from a request's argument bag.
//
// The bag holds loosely-typed structural values (scalars, nested
// map[string]any objects, slices) as produced by the query-API layer or by
// MessagePack/JSON decoding. Absence is normal: accessors fall back to a
// caller-supplied default and never return an error.
package args

import (
	"math"
	"reflect"
)

// Environment exposes the named arguments of a single request.
// Implementations MUST be safe for concurrent reads.
type Environment interface {
	// Argument returns the raw value for name.
	// ok is false when the argument is structurally absent.
	Argument(name string) (value any, ok bool)
}

// Bag is a map-backed Environment.
type Bag map[string]any

// Argument implements Environment.
func (b Bag) Argument(name string) (any, bool) {
	v, ok := b[name]
	return v, ok
}

// Lookup returns the raw value for name.
// An explicit nil entry is reported as absent.
func Lookup(env Environment, name string) (any, bool) {
	if env == nil {
		return nil, false
	}
	v, ok := env.Argument(name)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Get returns the argument value for name, or def when it is absent.
//
// Falsy-but-defined values (0, false, "") are returned as-is. Numeric values
// are converted to T when the conversion is exact, since decoders disagree on
// integer widths (MessagePack yields int8/uint16/..., JSON yields float64).
// A present value that cannot be represented as T yields def.
//
// Example:
//
//	first := args.Get(env, "first", 10)
//	after := args.Get(env, "after", "")
func Get[T any](env Environment, name string, def T) T {
	v, ok := Lookup(env, name)
	if !ok {
		return def
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	if converted, ok := convertNumber[T](v); ok {
		return converted
	}
	return def
}

// convertNumber converts numeric v to numeric T without loss.
func convertNumber[T any](v any) (T, bool) {
	var zero T
	target := reflect.ValueOf(&zero).Elem()
	src := reflect.ValueOf(v)

	switch {
	case isInt(target.Kind()):
		i, ok := asInt64(src)
		if !ok || target.OverflowInt(i) {
			return zero, false
		}
		target.SetInt(i)
	case isUint(target.Kind()):
		u, ok := asUint64(src)
		if !ok || target.OverflowUint(u) {
			return zero, false
		}
		target.SetUint(u)
	case isFloat(target.Kind()):
		f, ok := asFloat64(src)
		if !ok || target.OverflowFloat(f) {
			return zero, false
		}
		target.SetFloat(f)
	default:
		return zero, false
	}

	return zero, true
}

func asInt64(v reflect.Value) (int64, bool) {
	switch {
	case isInt(v.Kind()):
		return v.Int(), true
	case isUint(v.Kind()):
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case isFloat(v.Kind()):
		f := v.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func asUint64(v reflect.Value) (uint64, bool) {
	switch {
	case isInt(v.Kind()):
		i := v.Int()
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case isUint(v.Kind()):
		return v.Uint(), true
	case isFloat(v.Kind()):
		f := v.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	}
	return 0, false
}

func asFloat64(v reflect.Value) (float64, bool) {
	switch {
	case isInt(v.Kind()):
		return float64(v.Int()), true
	case isUint(v.Kind()):
		return float64(v.Uint()), true
	case isFloat(v.Kind()):
		return v.Float(), true
	}
	return 0, false
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
