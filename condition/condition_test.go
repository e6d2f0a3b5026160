package condition

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/hugr-lab/fetchargs/coerce"
)

// failingRegistry fails every lookup.
type failingRegistry struct{ err error }

func (r failingRegistry) ConditionType(string) (*Type, error) { return nil, r.err }

func TestBuildBooleanCondition(t *testing.T) {
	reg := DefaultRegistry()

	for _, op := range []string{"and", "or", "xor", ""} {
		t.Run(op, func(t *testing.T) {
			c, err := BuildBooleanCondition(op, reg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.TypeID() != BooleanConditionType {
				t.Errorf("expected type %s, got %s", BooleanConditionType, c.TypeID())
			}
			if len(c.Parameters) != 1 {
				t.Errorf("expected exactly one parameter, got %v", c.Parameters)
			}
			if c.Operator() != op {
				t.Errorf("expected operator %q, got %q", op, c.Operator())
			}
			if len(c.SubConditions()) != 0 {
				t.Errorf("expected no sub-conditions, got %d", len(c.SubConditions()))
			}
		})
	}
}

func TestBuildBooleanConditionResolvesSharedType(t *testing.T) {
	reg := DefaultRegistry()
	a, _ := BuildBooleanCondition("and", reg)
	b, _ := BuildBooleanCondition("or", reg)
	if a.Type != b.Type {
		t.Error("expected both conditions to reference the registry's type")
	}
	if a.Operator() == b.Operator() {
		t.Error("conditions must not share parameters")
	}
}

func TestBuildBooleanConditionConfigurationErrors(t *testing.T) {
	empty, err := NewRegistryBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	boom := errors.New("catalog unavailable")

	tests := []struct {
		name  string
		reg   Registry
		cause error
	}{
		{"nil registry", nil, ErrNoRegistry},
		{"type missing", empty, ErrTypeNotFound},
		{"typed nil registry", (*StaticRegistry)(nil), ErrTypeNotFound},
		{"registry error", failingRegistry{err: boom}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := BuildBooleanCondition("and", tt.reg)
			if c != nil {
				t.Errorf("expected nil condition, got %+v", c)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
			if errors.Is(err, coerce.ErrCoercion) {
				t.Error("configuration error must not match ErrCoercion")
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) || ce.TypeID != BooleanConditionType {
				t.Errorf("expected ConfigurationError for %s, got %v", BooleanConditionType, err)
			}
		})
	}
}

func TestNilStaticRegistry(t *testing.T) {
	var reg *StaticRegistry
	if typ, err := reg.ConditionType(BooleanConditionType); typ != nil || err != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", typ, err)
	}
	if types := reg.ConditionTypes(); len(types) != 0 {
		t.Errorf("expected no types, got %d", len(types))
	}
	if n := reg.Len(); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestAddSubCondition(t *testing.T) {
	reg := DefaultRegistry()
	root, _ := BuildBooleanCondition("and", reg)
	a, _ := EventType(reg, "view")
	b, _ := MatchAll(reg)

	root.AddSubCondition(a).AddSubCondition(b)

	subs := root.SubConditions()
	if len(subs) != 2 || subs[0] != a || subs[1] != b {
		t.Fatalf("expected [a b], got %v", subs)
	}
	if v, ok := a.Parameter(ParamEventTypeID); !ok || v != "view" {
		t.Errorf("expected eventTypeId=view, got %v", v)
	}
}

func TestHelpers(t *testing.T) {
	reg := DefaultRegistry()
	p, _ := Property(reg, "properties.age", CompareGreaterThan, 18)
	e, _ := EventType(reg, "login")

	and, err := And(reg, p, nil, e)
	if err != nil {
		t.Fatalf("And failed: %v", err)
	}
	if and.Operator() != OperatorAnd || len(and.SubConditions()) != 2 {
		t.Errorf("expected and with 2 children, got %s/%d", and.Operator(), len(and.SubConditions()))
	}

	or, _ := Or(reg, p)
	if or.Operator() != OperatorOr {
		t.Errorf("expected or, got %s", or.Operator())
	}

	not, _ := Not(reg, p)
	if v, _ := not.Parameter(ParamSubCondition); v != p {
		t.Errorf("expected subCondition to be the property condition, got %v", v)
	}

	if _, err := Not(nil, p); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestPropertyValuePlacement(t *testing.T) {
	reg := DefaultRegistry()
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		param string
	}{
		{"scalar", "Paris", ParamPropertyValue},
		{"number", 42, ParamPropertyValue},
		{"date", now, ParamPropertyValueDate},
		{"strings", []string{"a", "b"}, ParamPropertyValues},
		{"dates", []time.Time{now, now}, ParamPropertyValues},
		{"values", []any{1, "x"}, ParamPropertyValues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Property(reg, "p", CompareEquals, tt.value)
			if err != nil {
				t.Fatalf("Property failed: %v", err)
			}
			if _, ok := c.Parameter(tt.param); !ok {
				t.Errorf("expected value in %s, got %v", tt.param, c.Parameters)
			}
			if len(c.Parameters) != 3 {
				t.Errorf("expected name, operator and one value, got %v", c.Parameters)
			}
		})
	}

	exists, _ := Property(reg, "email", CompareExists, nil)
	if len(exists.Parameters) != 2 {
		t.Errorf("expected no value parameter for exists, got %v", exists.Parameters)
	}
}

func TestRegistryBuilder(t *testing.T) {
	reg, err := NewRegistryBuilder().
		Add(DefaultTypes()...).
		Type("sessionCondition").
		Name("Session").
		Description("Matches sessions by duration").
		Tags("session").
		Parameter("minDuration", ParameterInteger).
		MultivaluedParameter("devices", ParameterString).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if reg.Len() != len(DefaultTypes())+1 {
		t.Errorf("expected %d types, got %d", len(DefaultTypes())+1, reg.Len())
	}

	st, err := reg.ConditionType("sessionCondition")
	if err != nil || st == nil {
		t.Fatalf("expected sessionCondition, got %v, %v", st, err)
	}
	p, ok := st.Parameter("devices")
	if !ok || !p.Multivalued || p.Type != ParameterString {
		t.Errorf("unexpected devices parameter: %+v", p)
	}

	missing, err := reg.ConditionType("nope")
	if missing != nil || err != nil {
		t.Errorf("expected (nil, nil) for missing type, got %v, %v", missing, err)
	}

	types := reg.ConditionTypes()
	if types[0].ID != BooleanConditionType || types[len(types)-1].ID != "sessionCondition" {
		t.Errorf("expected registration order, got first=%s last=%s", types[0].ID, types[len(types)-1].ID)
	}
}

func TestRegistryBuilderValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*StaticRegistry, error)
		want  string
	}{
		{
			name:  "empty id",
			build: func() (*StaticRegistry, error) { return NewRegistryBuilder().Type("").Build() },
			want:  "cannot be empty",
		},
		{
			name: "duplicate type",
			build: func() (*StaticRegistry, error) {
				return NewRegistryBuilder().Type("a").Type("a").Build()
			},
			want: "duplicate condition type",
		},
		{
			name: "duplicate parameter",
			build: func() (*StaticRegistry, error) {
				return NewRegistryBuilder().Type("a").
					Parameter("x", ParameterString).
					Parameter("x", ParameterInteger).
					Build()
			},
			want: "duplicate parameter",
		},
		{
			name: "untyped parameter",
			build: func() (*StaticRegistry, error) {
				return NewRegistryBuilder().Type("a").Parameter("x", "").Build()
			},
			want: "has no type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	b := NewRegistryBuilder()
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Error("expected error on second Build")
	}
}

func TestRegistryIsolatedFromInputs(t *testing.T) {
	types := DefaultTypes()
	reg, err := NewRegistryBuilder().Add(types...).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	types[0].Parameters[0].ID = "mutated"

	bt, _ := reg.ConditionType(BooleanConditionType)
	if _, ok := bt.Parameter(ParamOperator); !ok {
		t.Error("registry must copy type definitions")
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
includeDefaults: true
conditionTypes:
  - id: sessionCondition
    name: Session
    tags: [session]
    parameters:
      - id: minDuration
        type: Integer
      - id: devices
        type: String
        multivalued: true
`
	reg, err := LoadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	if bt, _ := reg.ConditionType(BooleanConditionType); bt == nil {
		t.Error("expected built-in types to be included")
	}
	st, _ := reg.ConditionType("sessionCondition")
	if st == nil {
		t.Fatal("expected sessionCondition")
	}
	if p, ok := st.Parameter("devices"); !ok || !p.Multivalued {
		t.Errorf("expected multivalued devices parameter, got %+v", p)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "conditionTypes:\n  - id: a\n    colour: red\n"},
		{"duplicate with defaults", "includeDefaults: true\nconditionTypes:\n  - id: booleanCondition\n"},
		{"malformed", "conditionTypes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadYAML(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}

	reg, err := LoadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document should load, got %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d types", reg.Len())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	reg := DefaultRegistry()
	since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	byDate, _ := Property(reg, "timeStamp", CompareGreaterThanOrEqualTo, since)
	byType, _ := Property(reg, "eventType", CompareIn, []string{"view", "login"})
	near, _ := Distance(reg, "location", orb.Point{2.35, 48.85}, 10, "km")
	or, _ := Or(reg, byType, near)
	notAll, _ := MatchAll(reg)
	not, _ := Not(reg, notAll)
	root, _ := And(reg, byDate, or, not)

	data, err := root.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	parsed, err := Parse(data, reg)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	again, err := parsed.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON of parsed tree failed: %v", err)
	}
	if string(again) != string(data) {
		t.Errorf("round trip mismatch:\n%s\n%s", data, again)
	}

	subs := parsed.SubConditions()
	if len(subs) != 3 {
		t.Fatalf("expected 3 sub-conditions, got %d", len(subs))
	}
	if v, _ := subs[0].Parameter(ParamPropertyValueDate); v == nil || !v.(time.Time).Equal(since) {
		t.Errorf("expected date parameter %v, got %v (%T)", since, v, v)
	}
	center, _ := subs[1].SubConditions()[1].Parameter(ParamCenter)
	if center != (orb.Point{2.35, 48.85}) {
		t.Errorf("expected center point, got %v", center)
	}
	inner, _ := subs[2].Parameter(ParamSubCondition)
	if c, ok := inner.(*Condition); !ok || c.TypeID() != MatchAllConditionType {
		t.Errorf("expected nested matchAllCondition, got %v", inner)
	}
}

func TestParseErrors(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"type":`},
		{"missing type", `{"parameterValues":{}}`},
		{"bad date", `{"type":"propertyCondition","parameterValues":{"propertyValueDate":"yesterday"}}`},
		{"bad point", `{"type":"propertyCondition","parameterValues":{"center":{"lat":91,"lon":0}}}`},
		{"bad sub list", `{"type":"booleanCondition","parameterValues":{"subConditions":{}}}`},
		{"bad nested", `{"type":"notCondition","parameterValues":{"subCondition":{"type":""}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), reg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseUnknownTypeIsInputError(t *testing.T) {
	_, err := Parse([]byte(`{"type":"nope"}`), DefaultRegistry())
	if !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
	if errors.Is(err, ErrConfiguration) {
		t.Error("unknown payload type must not be a configuration error")
	}

	_, err = Parse([]byte(`{"type":"booleanCondition"}`), failingRegistry{err: errors.New("down")})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error for failing registry, got %v", err)
	}
}

func TestParseKeepsUndeclaredParameters(t *testing.T) {
	c, err := Parse([]byte(`{"type":"matchAllCondition","parameterValues":{"hint":{"k":1},"none":null}}`), DefaultRegistry())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	raw, _ := c.Parameter("hint")
	hint, ok := raw.(map[string]any)
	if !ok || hint["k"] != float64(1) {
		t.Errorf("expected generic map, got %v", hint)
	}
	if v, ok := c.Parameter("none"); !ok || v != nil {
		t.Errorf("expected explicit nil, got %v", v)
	}
}
