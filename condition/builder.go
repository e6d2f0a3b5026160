package condition

import (
	"fmt"
)

// RegistryBuilder builds static registries using fluent API.
// Not thread-safe - use only during initialization.
type RegistryBuilder struct {
	types []*typeBuilder
	built bool
}

// NewRegistryBuilder creates a new fluent registry builder.
//
// Example:
//
//	reg, err := condition.NewRegistryBuilder().
//	    Add(condition.DefaultTypes()...).
//	    Type("sessionCondition").
//	        Description("Matches sessions by duration").
//	        Parameter("minDuration", condition.ParameterInteger).
//	    Build()
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		types: make([]*typeBuilder, 0),
	}
}

// Type starts defining a new condition type.
// Type id MUST be non-empty and unique within the registry.
func (rb *RegistryBuilder) Type(id string) *TypeBuilder {
	tb := &typeBuilder{
		def:             Type{ID: id},
		registryBuilder: rb,
	}
	rb.types = append(rb.types, tb)
	return &TypeBuilder{builder: tb}
}

// Add registers complete type definitions. Definitions are copied.
// Returns self for method chaining.
func (rb *RegistryBuilder) Add(types ...*Type) *RegistryBuilder {
	for _, t := range types {
		if t == nil {
			continue
		}
		rb.types = append(rb.types, &typeBuilder{def: *t.clone(), registryBuilder: rb})
	}
	return rb
}

// Build finalizes the registry.
// Can only be called once.
// Returns error if the registry is invalid (e.g., duplicate type ids).
func (rb *RegistryBuilder) Build() (*StaticRegistry, error) {
	if rb.built {
		return nil, fmt.Errorf("registry already built")
	}

	seen := make(map[string]bool)
	for _, tb := range rb.types {
		if tb.def.ID == "" {
			return nil, fmt.Errorf("condition type id cannot be empty")
		}
		if seen[tb.def.ID] {
			return nil, fmt.Errorf("duplicate condition type: %s", tb.def.ID)
		}
		seen[tb.def.ID] = true

		params := make(map[string]bool)
		for _, p := range tb.def.Parameters {
			if p.ID == "" {
				return nil, fmt.Errorf("parameter id cannot be empty in condition type %s", tb.def.ID)
			}
			if p.Type == "" {
				return nil, fmt.Errorf("parameter %s of condition type %s has no type", p.ID, tb.def.ID)
			}
			if params[p.ID] {
				return nil, fmt.Errorf("duplicate parameter %s in condition type %s", p.ID, tb.def.ID)
			}
			params[p.ID] = true
		}
	}

	rb.built = true

	reg := &StaticRegistry{
		types: make(map[string]*Type, len(rb.types)),
		order: make([]*Type, 0, len(rb.types)),
	}
	for _, tb := range rb.types {
		t := tb.def.clone()
		reg.types[t.ID] = t
		reg.order = append(reg.order, t)
	}
	return reg, nil
}

// TypeBuilder builds one condition type within a registry.
// Not thread-safe - use only during initialization.
type TypeBuilder struct {
	builder *typeBuilder
}

type typeBuilder struct {
	def             Type
	registryBuilder *RegistryBuilder
}

// Name sets the display name.
// Returns self for method chaining.
func (tb *TypeBuilder) Name(name string) *TypeBuilder {
	tb.builder.def.Name = name
	return tb
}

// Description sets optional type documentation.
// Returns self for method chaining.
func (tb *TypeBuilder) Description(desc string) *TypeBuilder {
	tb.builder.def.Description = desc
	return tb
}

// Tags appends tags.
// Returns self for method chaining.
func (tb *TypeBuilder) Tags(tags ...string) *TypeBuilder {
	tb.builder.def.Tags = append(tb.builder.def.Tags, tags...)
	return tb
}

// Parameter adds a single-valued parameter.
// Returns self for method chaining.
func (tb *TypeBuilder) Parameter(id string, typ ParameterType) *TypeBuilder {
	tb.builder.def.Parameters = append(tb.builder.def.Parameters, Parameter{ID: id, Type: typ})
	return tb
}

// MultivaluedParameter adds a list-valued parameter.
// Returns self for method chaining.
func (tb *TypeBuilder) MultivaluedParameter(id string, typ ParameterType) *TypeBuilder {
	tb.builder.def.Parameters = append(tb.builder.def.Parameters, Parameter{ID: id, Type: typ, Multivalued: true})
	return tb
}

// Type starts a new type definition (returns to RegistryBuilder).
func (tb *TypeBuilder) Type(id string) *TypeBuilder {
	return tb.builder.registryBuilder.Type(id)
}

// Add registers complete type definitions (returns to RegistryBuilder).
func (tb *TypeBuilder) Add(types ...*Type) *RegistryBuilder {
	return tb.builder.registryBuilder.Add(types...)
}

// Build finalizes the registry (returns to RegistryBuilder).
func (tb *TypeBuilder) Build() (*StaticRegistry, error) {
	return tb.builder.registryBuilder.Build()
}
