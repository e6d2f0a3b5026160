package condition

// Registry resolves condition types by identifier.
// Implementations can be static (from RegistryBuilder) or backed by an
// external catalog. All methods MUST be goroutine-safe and non-blocking.
type Registry interface {
	// ConditionType returns the type with the given id.
	// Returns (nil, nil) if the type doesn't exist (not an error).
	// Returns (nil, err) if lookup fails for other reasons.
	ConditionType(id string) (*Type, error)
}

// Lister is an optional interface for registries that can enumerate
// their types, used for snapshots and inspection.
type Lister interface {
	// ConditionTypes returns all types in registration order.
	ConditionTypes() []*Type
}

// StaticRegistry is an immutable registry built by RegistryBuilder.
// A nil *StaticRegistry is an empty registry.
type StaticRegistry struct {
	types map[string]*Type
	order []*Type
}

// ConditionType implements Registry.
func (r *StaticRegistry) ConditionType(id string) (*Type, error) {
	if r == nil {
		return nil, nil
	}
	t, ok := r.types[id]
	if !ok {
		return nil, nil // Not found, not an error
	}
	return t, nil
}

// ConditionTypes implements Lister.
func (r *StaticRegistry) ConditionTypes() []*Type {
	if r == nil {
		return nil
	}
	result := make([]*Type, len(r.order))
	copy(result, r.order)
	return result
}

// Len returns the number of registered types.
func (r *StaticRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
