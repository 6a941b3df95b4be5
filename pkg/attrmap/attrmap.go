// Package attrmap provides a schema-less key-value container for decoded JSON documents.
package attrmap

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
)

// Attribute map errors.
var (
	ErrNotAnObject = errors.New("value is not an object")
	ErrNotAList    = errors.New("value is not a list")
)

// Map is a decoded JSON object whose nested objects are also Maps.
type Map map[string]any

// New returns an empty Map.
func New() Map {
	return Map{}
}

// Recursive converts a decoded JSON value so that every object becomes a Map
// and every list is converted element-wise. Scalars are returned unchanged.
func Recursive(v any) any {
	switch val := v.(type) {
	case Map:
		out := make(Map, len(val))
		for k, item := range val {
			out[k] = Recursive(item)
		}

		return out
	case map[string]any:
		out := make(Map, len(val))
		for k, item := range val {
			out[k] = Recursive(item)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Recursive(item)
		}

		return out
	default:
		return v
	}
}

// Unmarshal decodes a JSON object into a Map.
func Unmarshal(data []byte) (Map, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	m, ok := Recursive(raw).(Map)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T", ErrNotAnObject, raw)
	}

	return m, nil
}

// EmptyEnvelope returns the zero-result response used when a payload cannot be processed.
func EmptyEnvelope() Map {
	return Recursive(map[string]any{
		"HasErrors":    true,
		"TotalResults": 0,
		"Limit":        0,
		"Offset":       0,
		"Results":      []any{},
	}).(Map)
}

// Get returns the value stored under key, or nil if absent.
func (m Map) Get(key string) any {
	return m[key]
}

// Lookup returns the value stored under key and whether it was present.
func (m Map) Lookup(key string) (any, bool) {
	v, ok := m[key]

	return v, ok
}

// Has reports whether key is present, even with a null value.
func (m Map) Has(key string) bool {
	_, ok := m[key]

	return ok
}

// Set stores value under key.
func (m Map) Set(key string, value any) {
	m[key] = value
}

// Delete removes key.
func (m Map) Delete(key string) {
	delete(m, key)
}

// SetDefault stores value under key when key is absent and returns the stored value.
func (m Map) SetDefault(key string, value any) any {
	if existing, ok := m[key]; ok {
		return existing
	}

	m[key] = value

	return value
}

// Ensure returns the Map stored under key, creating an empty one if key is absent or null.
func (m Map) Ensure(key string) (Map, error) {
	v, ok := m[key]
	if !ok || v == nil {
		sub := Map{}
		m[key] = sub

		return sub, nil
	}

	sub, ok := v.(Map)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrNotAnObject, key, v)
	}

	return sub, nil
}

// GetString returns the string under key, or "" if absent or not a string.
func (m Map) GetString(key string) string {
	s, _ := m[key].(string)

	return s
}

// GetBool returns the bool under key, or false if absent or not a bool.
func (m Map) GetBool(key string) bool {
	b, _ := m[key].(bool)

	return b
}

// GetInt returns the number under key as an int, or 0 if absent or not numeric.
func (m Map) GetInt(key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}

		return int(i)
	}

	return 0
}

// GetMap returns the Map under key, or nil if absent or not an object.
func (m Map) GetMap(key string) Map {
	sub, _ := m[key].(Map)

	return sub
}

// GetList returns the list under key, or nil if absent or not a list.
func (m Map) GetList(key string) []any {
	list, _ := m[key].([]any)

	return list
}

// Dig follows keys through nested Maps.
func (m Map) Dig(keys ...string) (any, bool) {
	var cur any = m

	for _, key := range keys {
		obj, ok := cur.(Map)
		if !ok {
			return nil, false
		}

		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// Acyclic returns a deep copy of v in which any Map already present on the
// current path is replaced by a reference holding only its Id.
func Acyclic(v any) any {
	return acyclic(v, map[uintptr]bool{})
}

func acyclic(v any, onPath map[uintptr]bool) any {
	switch val := v.(type) {
	case Map:
		ptr := reflect.ValueOf(val).Pointer()
		if onPath[ptr] {
			ref := Map{}
			if id, ok := val["Id"]; ok {
				ref["Id"] = id
			}

			return ref
		}

		onPath[ptr] = true
		defer delete(onPath, ptr)

		out := make(Map, len(val))
		for k, item := range val {
			out[k] = acyclic(item, onPath)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = acyclic(item, onPath)
		}

		return out
	default:
		return v
	}
}
