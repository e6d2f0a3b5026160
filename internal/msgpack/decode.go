// Package msgpack provides MessagePack encoding/decoding for argument bags
// and registry snapshot columns.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Decode deserializes MessagePack data into a Go value.
// The v parameter should be a pointer to the target structure.
//
// Example:
//
//	var params []condition.Parameter
//	err := msgpack.Decode(data, &params)
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty MessagePack data")
	}

	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	return nil
}

// Encode serializes a Go value into MessagePack format.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	return data, nil
}

// DecodeMap deserializes a MessagePack map into a map[string]any.
// Nested maps decode as map[string]any as well, which is the shape the
// argument accessors and the coercion mapper expect. Non-string keys, which
// some clients emit for numeric object keys, are converted with fmt.Sprint.
// A MessagePack nil yields a nil map.
func DecodeMap(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty MessagePack data")
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetMapDecoder(decodeStringMap)

	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack map: %w", err)
	}
	if v == nil {
		return nil, nil
	}

	result, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("MessagePack value is %T, not a map", v)
	}
	return result, nil
}

func decodeStringMap(d *msgpack.Decoder) (any, error) {
	n, err := d.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}

	m := make(map[string]any, n)
	for i := 0; i < n; i++ {
		k, err := d.DecodeInterface()
		if err != nil {
			return nil, err
		}
		v, err := d.DecodeInterface()
		if err != nil {
			return nil, err
		}
		if s, ok := k.(string); ok {
			m[s] = v
		} else {
			m[fmt.Sprint(k)] = v
		}
	}
	return m, nil
}
