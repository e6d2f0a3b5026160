package coerce

import (
	"fmt"
	"reflect"
	"strings"
)

// requiredTag marks struct fields that must be present in the raw value.
const requiredTag = "coerce"

// missingRequired walks t alongside raw and returns the dotted paths of
// required fields that are absent or null.
func missingRequired(t reflect.Type, raw any, tagName, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		var missing []string
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			key := fieldKey(f, tagName)
			if key == "-" {
				continue
			}

			v, ok := lookupKey(raw, key)
			if !ok || v == nil {
				if f.Tag.Get(requiredTag) == "required" {
					missing = append(missing, prefix+key)
				}
				continue
			}
			missing = append(missing, missingRequired(f.Type, v, tagName, prefix+key+".")...)
		}
		return missing

	case reflect.Slice, reflect.Array:
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil
		}
		var missing []string
		base := strings.TrimSuffix(prefix, ".")
		for i := 0; i < rv.Len(); i++ {
			elemPrefix := fmt.Sprintf("%s[%d].", base, i)
			missing = append(missing, missingRequired(t.Elem(), rv.Index(i).Interface(), tagName, elemPrefix)...)
		}
		return missing
	}

	return nil
}

// fieldKey returns the raw object key a struct field decodes from.
func fieldKey(f reflect.StructField, tagName string) string {
	name, _, _ := strings.Cut(f.Tag.Get(tagName), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// lookupKey finds key in a string-keyed map, falling back to a
// case-insensitive match the same way field matching does.
func lookupKey(raw any, key string) (any, bool) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil, false
	}

	var folded any
	foundFold := false
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if k.Kind() != reflect.String {
			continue
		}
		if k.String() == key {
			return iter.Value().Interface(), true
		}
		if !foundFold && strings.EqualFold(k.String(), key) {
			folded = iter.Value().Interface()
			foundFold = true
		}
	}
	return folded, foundFold
}
