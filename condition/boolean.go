package condition

import (
	"time"

	"github.com/paulmach/orb"
)

// New creates an empty condition of the type typeID resolved from reg.
//
// A nil registry, a registry error or an unknown type yields a
// *ConfigurationError.
func New(reg Registry, typeID string) (*Condition, error) {
	if reg == nil {
		return nil, &ConfigurationError{TypeID: typeID, Err: ErrNoRegistry}
	}
	t, err := reg.ConditionType(typeID)
	if err != nil {
		return nil, &ConfigurationError{TypeID: typeID, Err: err}
	}
	if t == nil {
		return nil, &ConfigurationError{TypeID: typeID, Err: ErrTypeNotFound}
	}
	return &Condition{Type: t, Parameters: make(map[string]any)}, nil
}

// BuildBooleanCondition creates a booleanCondition combining sub-conditions
// with operator. The operator is passed through unvalidated; the backend
// evaluator interprets it. Sub-conditions are attached by the caller.
func BuildBooleanCondition(operator string, reg Registry) (*Condition, error) {
	c, err := New(reg, BooleanConditionType)
	if err != nil {
		return nil, err
	}
	return c.SetParameter(ParamOperator, operator), nil
}

// And combines subs with the "and" operator.
func And(reg Registry, subs ...*Condition) (*Condition, error) {
	return combine(reg, OperatorAnd, subs)
}

// Or combines subs with the "or" operator.
func Or(reg Registry, subs ...*Condition) (*Condition, error) {
	return combine(reg, OperatorOr, subs)
}

func combine(reg Registry, op string, subs []*Condition) (*Condition, error) {
	c, err := BuildBooleanCondition(op, reg)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if sub != nil {
			c.AddSubCondition(sub)
		}
	}
	return c, nil
}

// Not negates sub.
func Not(reg Registry, sub *Condition) (*Condition, error) {
	c, err := New(reg, NotConditionType)
	if err != nil {
		return nil, err
	}
	return c.SetParameter(ParamSubCondition, sub), nil
}

// MatchAll creates a condition matching everything.
func MatchAll(reg Registry) (*Condition, error) {
	return New(reg, MatchAllConditionType)
}

// EventType matches events whose type is eventTypeID.
func EventType(reg Registry, eventTypeID string) (*Condition, error) {
	c, err := New(reg, EventTypeConditionType)
	if err != nil {
		return nil, err
	}
	return c.SetParameter(ParamEventTypeID, eventTypeID), nil
}

// Property compares the property name with value using op.
//
// The value lands in the parameter matching its shape: time.Time in
// propertyValueDate, slices in propertyValues, anything else in
// propertyValue. A nil value sets no value parameter (exists/missing).
func Property(reg Registry, name, op string, value any) (*Condition, error) {
	c, err := New(reg, PropertyConditionType)
	if err != nil {
		return nil, err
	}
	c.SetParameter(ParamPropertyName, name).
		SetParameter(ParamComparisonOperator, op)

	switch v := value.(type) {
	case nil:
	case time.Time:
		c.SetParameter(ParamPropertyValueDate, v)
	case []time.Time:
		values := make([]any, len(v))
		for i, t := range v {
			values[i] = t
		}
		c.SetParameter(ParamPropertyValues, values)
	case []string:
		values := make([]any, len(v))
		for i, s := range v {
			values[i] = s
		}
		c.SetParameter(ParamPropertyValues, values)
	case []any:
		c.SetParameter(ParamPropertyValues, v)
	default:
		c.SetParameter(ParamPropertyValue, v)
	}
	return c, nil
}

// Distance matches geo points of property name within distance of center.
// unit is "km" (default), "m" or "mi".
func Distance(reg Registry, name string, center orb.Point, distance float64, unit string) (*Condition, error) {
	c, err := New(reg, PropertyConditionType)
	if err != nil {
		return nil, err
	}
	c.SetParameter(ParamPropertyName, name).
		SetParameter(ParamComparisonOperator, CompareDistance).
		SetParameter(ParamCenter, center).
		SetParameter(ParamDistance, distance)
	if unit != "" {
		c.SetParameter(ParamUnit, unit)
	}
	return c, nil
}
