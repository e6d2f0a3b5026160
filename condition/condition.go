// Package condition defines boolean-condition trees and the condition-type
// registry they are bound to.
//
// A Condition is a node of a named condition type carrying a parameter
// mapping. Parameters may hold nested conditions (for example the
// "subConditions" of a booleanCondition), so conditions compose into trees
// that a downstream query engine evaluates.
//
// Condition types are resolved by identifier through a Registry. This
// package never validates parameter values against the type definition when
// building; it only binds nodes to their types.
//
//	root, err := condition.BuildBooleanCondition("and", registry)
//	if err != nil {
//	    return err // *ConfigurationError: broken deployment
//	}
//	root.AddSubCondition(byProfile).AddSubCondition(byDate)
package condition

import (
	"slices"
)

// Well-known condition type identifiers.
const (
	BooleanConditionType   = "booleanCondition"
	NotConditionType       = "notCondition"
	MatchAllConditionType  = "matchAllCondition"
	PropertyConditionType  = "propertyCondition"
	EventTypeConditionType = "eventTypeCondition"
)

// Well-known parameter names.
const (
	ParamOperator           = "operator"
	ParamSubConditions      = "subConditions"
	ParamSubCondition       = "subCondition"
	ParamPropertyName       = "propertyName"
	ParamComparisonOperator = "comparisonOperator"
	ParamPropertyValue      = "propertyValue"
	ParamPropertyValueDate  = "propertyValueDate"
	ParamPropertyValues     = "propertyValues"
	ParamEventTypeID        = "eventTypeId"
	ParamCenter             = "center"
	ParamDistance           = "distance"
	ParamUnit               = "unit"
)

// Boolean operators understood by the backend evaluator.
const (
	OperatorAnd = "and"
	OperatorOr  = "or"
)

// Comparison operators of propertyCondition.
const (
	CompareEquals               = "equals"
	CompareNotEquals            = "notEquals"
	CompareGreaterThan          = "greaterThan"
	CompareGreaterThanOrEqualTo = "greaterThanOrEqualTo"
	CompareLessThan             = "lessThan"
	CompareLessThanOrEqualTo    = "lessThanOrEqualTo"
	CompareBetween              = "between"
	CompareExists               = "exists"
	CompareMissing              = "missing"
	CompareContains             = "contains"
	CompareStartsWith           = "startsWith"
	CompareEndsWith             = "endsWith"
	CompareIn                   = "in"
	CompareNotIn                = "notIn"
	CompareDistance             = "distance"
)

// ParameterType names the value type of a condition-type parameter.
type ParameterType string

const (
	ParameterString    ParameterType = "String"
	ParameterInteger   ParameterType = "Integer"
	ParameterFloat     ParameterType = "Float"
	ParameterBoolean   ParameterType = "Boolean"
	ParameterDate      ParameterType = "Date"
	ParameterGeoPoint  ParameterType = "GeoPoint"
	ParameterObject    ParameterType = "Object"
	ParameterCondition ParameterType = "Condition"
)

// Parameter describes one parameter of a condition type.
type Parameter struct {
	ID          string        `yaml:"id" json:"id" msgpack:"id"`
	Type        ParameterType `yaml:"type" json:"type" msgpack:"type"`
	Multivalued bool          `yaml:"multivalued,omitempty" json:"multivalued,omitempty" msgpack:"multivalued,omitempty"`
}

// Type is a condition-type definition. Types are owned by a Registry and
// MUST NOT be modified once registered.
type Type struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name,omitempty" json:"name,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
	Parameters  []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Parameter returns the parameter definition with the given id.
func (t *Type) Parameter(id string) (Parameter, bool) {
	for _, p := range t.Parameters {
		if p.ID == id {
			return p, true
		}
	}
	return Parameter{}, false
}

func (t *Type) clone() *Type {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	c.Parameters = slices.Clone(t.Parameters)
	return &c
}

// Condition is a node of a condition tree.
type Condition struct {
	// Type is the resolved condition type.
	Type *Type

	// Parameters maps parameter names to values. Values may be scalars,
	// time.Time, orb.Point, slices, *Condition or []*Condition.
	Parameters map[string]any
}

// TypeID returns the identifier of the condition's type.
func (c *Condition) TypeID() string {
	if c.Type == nil {
		return ""
	}
	return c.Type.ID
}

// Parameter returns the named parameter value.
func (c *Condition) Parameter(name string) (any, bool) {
	v, ok := c.Parameters[name]
	return v, ok
}

// SetParameter sets a parameter value.
// Returns self for method chaining.
func (c *Condition) SetParameter(name string, value any) *Condition {
	if c.Parameters == nil {
		c.Parameters = make(map[string]any)
	}
	c.Parameters[name] = value
	return c
}

// Operator returns the "operator" parameter of a boolean condition.
func (c *Condition) Operator() string {
	op, _ := c.Parameters[ParamOperator].(string)
	return op
}

// SubConditions returns the children attached under "subConditions".
func (c *Condition) SubConditions() []*Condition {
	subs, _ := c.Parameters[ParamSubConditions].([]*Condition)
	return subs
}

// AddSubCondition appends sub to the "subConditions" parameter.
// Returns self for method chaining.
func (c *Condition) AddSubCondition(sub *Condition) *Condition {
	return c.SetParameter(ParamSubConditions, append(c.SubConditions(), sub))
}
