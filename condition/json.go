package condition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/hugr-lab/fetchargs/coerce"
)

// wireCondition is the JSON form exchanged with the backend evaluator.
type wireCondition struct {
	Type            string                     `json:"type"`
	ParameterValues map[string]json.RawMessage `json:"parameterValues,omitempty"`
}

// MarshalJSON encodes the condition as {"type": ..., "parameterValues": {...}}.
// Geo points are written as {"lat": ..., "lon": ...}.
func (c *Condition) MarshalJSON() ([]byte, error) {
	out := wireCondition{Type: c.TypeID()}
	if len(c.Parameters) > 0 {
		out.ParameterValues = make(map[string]json.RawMessage, len(c.Parameters))
		for name, v := range c.Parameters {
			data, err := json.Marshal(wireValue(v))
			if err != nil {
				return nil, fmt.Errorf("condition %s: parameter %q: %w", c.TypeID(), name, err)
			}
			out.ParameterValues[name] = data
		}
	}
	return json.Marshal(out)
}

func wireValue(v any) any {
	switch v := v.(type) {
	case orb.Point:
		return map[string]float64{"lat": v.Lat(), "lon": v.Lon()}
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = wireValue(e)
		}
		return out
	}
	return v
}

// Parse decodes a condition tree from its JSON form, resolving every node's
// type through reg.
//
// Parameters are typed from the parameter definitions: "Condition"
// parameters become *Condition ([]*Condition when multivalued), "Date"
// parameters become time.Time and "GeoPoint" parameters become orb.Point.
// Parameters the type does not declare are kept as generic JSON values.
//
// Error conditions:
//   - Invalid JSON syntax or missing "type"
//   - Unknown condition type (wraps ErrTypeNotFound)
//   - Registry failure (*ConfigurationError)
//   - Parameter value not matching its declared type
func Parse(data []byte, reg Registry) (*Condition, error) {
	c, err := parseCondition(data, reg)
	if err != nil {
		return nil, fmt.Errorf("condition: %w", err)
	}
	return c, nil
}

func parseCondition(data json.RawMessage, reg Registry) (*Condition, error) {
	var raw wireCondition
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw.Type == "" {
		return nil, fmt.Errorf("missing condition type")
	}

	c, err := New(reg, raw.Type)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) && errors.Is(ce.Err, ErrTypeNotFound) {
			// An unknown type in a payload is bad input, not a broken deployment.
			return nil, fmt.Errorf("unknown condition type %q: %w", raw.Type, ErrTypeNotFound)
		}
		return nil, err
	}

	for name, msg := range raw.ParameterValues {
		def, declared := c.Type.Parameter(name)
		v, err := parseParameter(def, declared, msg, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: parameter %q: %w", raw.Type, name, err)
		}
		c.Parameters[name] = v
	}
	return c, nil
}

var jsonNull = []byte("null")

func parseParameter(def Parameter, declared bool, msg json.RawMessage, reg Registry) (any, error) {
	if bytes.Equal(bytes.TrimSpace(msg), jsonNull) {
		return nil, nil
	}
	if !declared {
		return parseGeneric(msg)
	}

	if def.Multivalued {
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil {
			return nil, fmt.Errorf("expected a list: %w", err)
		}
		if def.Type == ParameterCondition {
			subs := make([]*Condition, 0, len(items))
			for i, item := range items {
				sub, err := parseCondition(item, reg)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				subs = append(subs, sub)
			}
			return subs, nil
		}
		values := make([]any, 0, len(items))
		for i, item := range items {
			v, err := parseSingle(def.Type, item, reg)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			values = append(values, v)
		}
		return values, nil
	}

	return parseSingle(def.Type, msg, reg)
}

func parseSingle(typ ParameterType, msg json.RawMessage, reg Registry) (any, error) {
	switch typ {
	case ParameterCondition:
		return parseCondition(msg, reg)
	case ParameterDate:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("expected an RFC 3339 date string: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		return t, nil
	case ParameterGeoPoint:
		raw, err := parseGeneric(msg)
		if err != nil {
			return nil, err
		}
		return coerce.ParsePoint(raw)
	}
	return parseGeneric(msg)
}

func parseGeneric(msg json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, err
	}
	return v, nil
}
