package fetchargs

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/hugr-lab/fetchargs/condition"
	"github.com/hugr-lab/fetchargs/internal/serialize"
)

// ExportRegistry writes a compressed snapshot of reg to w.
// Returns ErrNotListable if reg does not implement condition.Lister.
func ExportRegistry(reg condition.Registry, w io.Writer) error {
	lister, ok := reg.(condition.Lister)
	if !ok {
		return ErrNotListable
	}

	data, err := serialize.CompressRegistry(lister.ConditionTypes(), memory.DefaultAllocator)
	if err != nil {
		return fmt.Errorf("failed to serialize registry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write registry snapshot: %w", err)
	}
	return nil
}

// ImportRegistry reads a snapshot written by ExportRegistry.
func ImportRegistry(r io.Reader) (*condition.StaticRegistry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry snapshot: %w", err)
	}

	types, err := serialize.DecompressRegistry(data, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("invalid registry snapshot: %w", err)
	}

	return condition.NewRegistryBuilder().Add(types...).Build()
}
