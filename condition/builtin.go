package condition

// DefaultTypes returns fresh copies of the built-in condition types.
func DefaultTypes() []*Type {
	return []*Type{
		{
			ID:          BooleanConditionType,
			Name:        "Boolean",
			Description: "Combines sub-conditions with a logical operator",
			Tags:        []string{"logical"},
			Parameters: []Parameter{
				{ID: ParamOperator, Type: ParameterString},
				{ID: ParamSubConditions, Type: ParameterCondition, Multivalued: true},
			},
		},
		{
			ID:          NotConditionType,
			Name:        "Not",
			Description: "Negates a sub-condition",
			Tags:        []string{"logical"},
			Parameters: []Parameter{
				{ID: ParamSubCondition, Type: ParameterCondition},
			},
		},
		{
			ID:          MatchAllConditionType,
			Name:        "Match all",
			Description: "Matches every item",
			Tags:        []string{"logical"},
		},
		{
			ID:          PropertyConditionType,
			Name:        "Property",
			Description: "Compares a property against one or more values",
			Tags:        []string{"property"},
			Parameters: []Parameter{
				{ID: ParamPropertyName, Type: ParameterString},
				{ID: ParamComparisonOperator, Type: ParameterString},
				{ID: ParamPropertyValue, Type: ParameterObject},
				{ID: ParamPropertyValueDate, Type: ParameterDate},
				{ID: ParamPropertyValues, Type: ParameterObject, Multivalued: true},
				{ID: ParamCenter, Type: ParameterGeoPoint},
				{ID: ParamDistance, Type: ParameterFloat},
				{ID: ParamUnit, Type: ParameterString},
			},
		},
		{
			ID:          EventTypeConditionType,
			Name:        "Event type",
			Description: "Matches events of one type",
			Tags:        []string{"event"},
			Parameters: []Parameter{
				{ID: ParamEventTypeID, Type: ParameterString},
			},
		},
	}
}

// DefaultRegistry returns a registry holding DefaultTypes.
func DefaultRegistry() *StaticRegistry {
	reg, err := NewRegistryBuilder().Add(DefaultTypes()...).Build()
	if err != nil {
		panic("condition: invalid built-in types: " + err.Error())
	}
	return reg
}
