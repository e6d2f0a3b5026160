package fetchargs

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/hugr-lab/fetchargs/args"
	"github.com/hugr-lab/fetchargs/condition"
)

// Event properties targeted by compiled event filters.
const (
	EventIDProperty        = "itemId"
	EventClientIDProperty  = "clientId"
	EventSourceIDProperty  = "source.itemId"
	EventProfileIDProperty = "profileId"
	EventTimestampProperty = "timeStamp"
	EventLocationProperty  = "location"
)

// EventFilterInput is the structured "filter" argument of event queries.
// All set fields must match; And and Or nest further filters.
type EventFilterInput struct {
	And []EventFilterInput `json:"and"`
	Or  []EventFilterInput `json:"or"`

	IDEquals        string `json:"id_equals"`
	ClientIDEquals  string `json:"cdp_clientId_equals"`
	SourceIDEquals  string `json:"cdp_sourceId_equals"`
	ProfileIDEquals string `json:"cdp_profileId_equals"`

	// EventTypeIn matches events of any of the listed types.
	EventTypeIn []string `json:"cdp_eventType_in"`

	TimestampEquals *time.Time `json:"cdp_timestamp_equals"`
	TimestampLT     *time.Time `json:"cdp_timestamp_lt"`
	TimestampLTE    *time.Time `json:"cdp_timestamp_lte"`
	TimestampGT     *time.Time `json:"cdp_timestamp_gt"`
	TimestampGTE    *time.Time `json:"cdp_timestamp_gte"`

	Location *DistanceFilterInput `json:"cdp_location_distance"`
}

// DistanceFilterInput matches events located within Distance of Center.
type DistanceFilterInput struct {
	Center   orb.Point `json:"center" coerce:"required"`
	Distance float64   `json:"distance" coerce:"required"`
	// Unit is "km" (default), "m" or "mi".
	Unit string `json:"unit"`
}

// EventFilter coerces the named argument into an EventFilterInput and
// compiles it. An absent argument matches everything.
func (f *Fetcher) EventFilter(env args.Environment, name string) (*condition.Condition, error) {
	in, err := Object[EventFilterInput](f, env, name)
	if err != nil {
		return nil, err
	}
	return f.CompileEventFilter(in)
}

// CompileEventFilter turns in into a condition tree: set fields become
// propertyCondition nodes joined by an "and" booleanCondition, event types
// become eventTypeCondition nodes joined by "or". A nil or empty input
// compiles to matchAllCondition.
func (f *Fetcher) CompileEventFilter(in *EventFilterInput) (*condition.Condition, error) {
	var c *condition.Condition
	if in != nil {
		var err error
		if c, err = f.compileEventFilter(in); err != nil {
			return nil, err
		}
	}
	if c == nil {
		return condition.MatchAll(f.guarded)
	}
	return c, nil
}

// compileEventFilter returns nil when in places no constraint.
func (f *Fetcher) compileEventFilter(in *EventFilterInput) (*condition.Condition, error) {
	reg := f.guarded
	var subs []*condition.Condition
	add := func(c *condition.Condition, err error) error {
		if err != nil {
			return err
		}
		if c != nil {
			subs = append(subs, c)
		}
		return nil
	}

	equals := []struct {
		property, value string
	}{
		{EventIDProperty, in.IDEquals},
		{EventClientIDProperty, in.ClientIDEquals},
		{EventSourceIDProperty, in.SourceIDEquals},
		{EventProfileIDProperty, in.ProfileIDEquals},
	}
	for _, eq := range equals {
		if eq.value == "" {
			continue
		}
		if err := add(condition.Property(reg, eq.property, condition.CompareEquals, eq.value)); err != nil {
			return nil, err
		}
	}

	if err := add(f.compileEventTypes(in.EventTypeIn)); err != nil {
		return nil, err
	}

	timestamps := []struct {
		op    string
		value *time.Time
	}{
		{condition.CompareEquals, in.TimestampEquals},
		{condition.CompareLessThan, in.TimestampLT},
		{condition.CompareLessThanOrEqualTo, in.TimestampLTE},
		{condition.CompareGreaterThan, in.TimestampGT},
		{condition.CompareGreaterThanOrEqualTo, in.TimestampGTE},
	}
	for _, ts := range timestamps {
		if ts.value == nil {
			continue
		}
		if err := add(condition.Property(reg, EventTimestampProperty, ts.op, *ts.value)); err != nil {
			return nil, err
		}
	}

	if loc := in.Location; loc != nil {
		if err := add(condition.Distance(reg, EventLocationProperty, loc.Center, loc.Distance, loc.Unit)); err != nil {
			return nil, err
		}
	}

	for i := range in.And {
		if err := add(f.compileEventFilter(&in.And[i])); err != nil {
			return nil, err
		}
	}

	if len(in.Or) > 0 {
		if err := add(f.compileOr(in.Or)); err != nil {
			return nil, err
		}
	}

	switch len(subs) {
	case 0:
		return nil, nil
	case 1:
		return subs[0], nil
	}
	return condition.And(reg, subs...)
}

// compileOr returns nil when any branch is unconstrained, since the
// disjunction then matches everything.
func (f *Fetcher) compileOr(branches []EventFilterInput) (*condition.Condition, error) {
	subs := make([]*condition.Condition, 0, len(branches))
	for i := range branches {
		c, err := f.compileEventFilter(&branches[i])
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, nil
		}
		subs = append(subs, c)
	}
	if len(subs) == 1 {
		return subs[0], nil
	}
	return condition.Or(f.guarded, subs...)
}

func (f *Fetcher) compileEventTypes(types []string) (*condition.Condition, error) {
	var subs []*condition.Condition
	for _, t := range types {
		if t == "" {
			continue
		}
		c, err := condition.EventType(f.guarded, t)
		if err != nil {
			return nil, err
		}
		subs = append(subs, c)
	}
	switch len(subs) {
	case 0:
		return nil, nil
	case 1:
		return subs[0], nil
	}
	return condition.Or(f.guarded, subs...)
}
