// Package serialize encodes condition-type registries as compressed Arrow
// IPC snapshots, so a registry loaded once can be shipped to other
// processes without re-reading its YAML sources.
package serialize

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/hugr-lab/fetchargs/condition"
	"github.com/hugr-lab/fetchargs/internal/msgpack"
)

// RegistrySchema is the Arrow schema of a registry snapshot.
// Parameter definitions are stored MessagePack encoded.
var RegistrySchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "description", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
	{Name: "parameters", Type: arrow.BinaryTypes.Binary, Nullable: false},
}, nil)

// SerializeRegistry writes types to Arrow IPC format.
func SerializeRegistry(types []*condition.Type, allocator memory.Allocator) ([]byte, error) {
	builder := array.NewRecordBuilder(allocator, RegistrySchema)
	defer builder.Release()

	idBuilder := builder.Field(0).(*array.StringBuilder)
	nameBuilder := builder.Field(1).(*array.StringBuilder)
	descBuilder := builder.Field(2).(*array.StringBuilder)
	tagsBuilder := builder.Field(3).(*array.ListBuilder)
	tagValues := tagsBuilder.ValueBuilder().(*array.StringBuilder)
	paramsBuilder := builder.Field(4).(*array.BinaryBuilder)

	for _, t := range types {
		if t == nil {
			continue
		}
		params, err := msgpack.Encode(t.Parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to encode parameters of %s: %w", t.ID, err)
		}

		idBuilder.Append(t.ID)
		appendOptional(nameBuilder, t.Name)
		appendOptional(descBuilder, t.Description)
		if len(t.Tags) == 0 {
			tagsBuilder.AppendNull()
		} else {
			tagsBuilder.Append(true)
			for _, tag := range t.Tags {
				tagValues.Append(tag)
			}
		}
		paramsBuilder.Append(params)
	}

	record := builder.NewRecord()
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(RegistrySchema), ipc.WithAllocator(allocator))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	return buf.Bytes(), nil
}

func appendOptional(b *array.StringBuilder, s string) {
	if s == "" {
		b.AppendNull()
		return
	}
	b.Append(s)
}

// DeserializeRegistry reads types written by SerializeRegistry.
// Returns error if the stream schema differs from RegistrySchema.
func DeserializeRegistry(data []byte, allocator memory.Allocator) ([]*condition.Type, error) {
	rdr, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(allocator))
	if err != nil {
		return nil, fmt.Errorf("failed to open IPC stream: %w", err)
	}
	defer rdr.Release()

	if !rdr.Schema().Equal(RegistrySchema) {
		return nil, fmt.Errorf("unexpected snapshot schema: %s", rdr.Schema())
	}

	var types []*condition.Type
	for rdr.Next() {
		rec := rdr.Record()
		ids := rec.Column(0).(*array.String)
		names := rec.Column(1).(*array.String)
		descs := rec.Column(2).(*array.String)
		tags := rec.Column(3).(*array.List)
		tagValues := tags.ListValues().(*array.String)
		params := rec.Column(4).(*array.Binary)

		for i := 0; i < int(rec.NumRows()); i++ {
			t := &condition.Type{ID: ids.Value(i)}
			if names.IsValid(i) {
				t.Name = names.Value(i)
			}
			if descs.IsValid(i) {
				t.Description = descs.Value(i)
			}
			if tags.IsValid(i) {
				start, end := tags.ValueOffsets(i)
				for j := start; j < end; j++ {
					t.Tags = append(t.Tags, tagValues.Value(int(j)))
				}
			}
			if err := msgpack.Decode(params.Value(i), &t.Parameters); err != nil {
				return nil, fmt.Errorf("failed to decode parameters of %s: %w", t.ID, err)
			}
			types = append(types, t)
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("failed to read IPC stream: %w", err)
	}

	return types, nil
}

// CompressRegistry serializes types and compresses the stream with
// ZStandard.
func CompressRegistry(types []*condition.Type, allocator memory.Allocator) ([]byte, error) {
	data, err := SerializeRegistry(types, allocator)
	if err != nil {
		return nil, err
	}
	return compress(data)
}

// DecompressRegistry reverses CompressRegistry.
func DecompressRegistry(data []byte, allocator memory.Allocator) ([]*condition.Type, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	return DeserializeRegistry(raw, allocator)
}
