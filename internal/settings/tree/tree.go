// SPDX-License-Identifier: MPL-2.0

// Package tree provides the raw settings tree that flows between file loading
// and schema validation.
//
// A tree is a tagged union of scalars, lists and maps. Keeping the variant
// explicit lets the merge and transform stages stay statically checked even
// though the final shape of a namespace is only known after validation.
package tree

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

const (
	// KindInvalid is the zero Kind, held by the zero Value.
	KindInvalid Kind = iota
	// KindScalar holds a single leaf value (string, number, bool, date).
	KindScalar
	// KindList holds an ordered sequence of values.
	KindList
	// KindMap holds a nested string-keyed mapping.
	KindMap
)

// PathSeparator joins path segments in dot-path keys.
const PathSeparator = "."

// ErrNilValue is returned when converting a nil Go value into a tree.
var ErrNilValue = errors.New("nil is not a valid settings value")

type (
	// Kind identifies which variant a Value holds.
	Kind uint8

	// Value is one node of a raw settings tree.
	// The zero Value is invalid and never appears inside a Map produced by
	// this package.
	Value struct {
		kind   Kind
		scalar any
		list   []Value
		m      Map
	}

	// Map is a nested mapping of string keys to values.
	Map map[string]Value
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Scalar wraps a leaf value.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// List builds a list value from items. The items slice is copied.
func List(items ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Table wraps a nested map.
func Table(m Map) Value {
	if m == nil {
		m = Map{}
	}
	return Value{kind: KindMap, m: m}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds any variant.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsScalar returns the leaf value when v is a scalar.
func (v Value) AsScalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// AsList returns a copy of the items when v is a list.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// AsMap returns the nested map when v is a map. The returned map is shared
// with v and must not be modified; use Clone for a private copy.
func (v Value) AsMap() (Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return Value{kind: KindList, list: items}
	case KindMap:
		return Value{kind: KindMap, m: v.m.Clone()}
	default:
		return v
	}
}

// Any converts v back into plain Go values: map[string]any, []any or the
// scalar itself.
func (v Value) Any() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		return v.m.Any()
	default:
		return nil
	}
}

// String renders v for diagnostics.
func (v Value) String() string {
	if !v.IsValid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%v", v.Any())
}

// Equal reports whether a and b hold the same variant and content.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindScalar:
		return reflect.DeepEqual(a.scalar, b.scalar)
	case KindList:
		return slices.EqualFunc(a.list, b.list, Equal)
	case KindMap:
		return a.m.Equal(b.m)
	default:
		return true
	}
}

// FromAny converts plain Go values (as produced by a TOML or JSON decoder)
// into a Value. Maps must be keyed by string; anything that is neither a map
// nor a slice becomes a scalar.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, ErrNilValue
	case Value:
		return x, nil
	case Map:
		return Table(x.Clone()), nil
	case map[string]any:
		m, err := MapFromAny(x)
		if err != nil {
			return Value{}, err
		}
		return Table(m), nil
	case []any:
		return listFrom(x)
	case []map[string]any:
		return listFrom(x)
	case []string:
		return listFrom(x)
	default:
		return Scalar(x), nil
	}
}

func listFrom[E any](src []E) (Value, error) {
	items := make([]Value, 0, len(src))
	for i, item := range src {
		v, err := FromAny(item)
		if err != nil {
			return Value{}, fmt.Errorf("[%d]: %w", i, err)
		}
		items = append(items, v)
	}
	return Value{kind: KindList, list: items}, nil
}

// MapFromAny converts a decoded map into a Map.
func MapFromAny(src map[string]any) (Map, error) {
	out := make(Map, len(src))
	for key, raw := range src {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

// Any converts m into a plain map[string]any.
func (m Map) Any() map[string]any {
	out := make(map[string]any, len(m))
	for key, v := range m {
		out[key] = v.Any()
	}
	return out
}

// Clone returns a deep copy of m. Cloning a nil map yields nil.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for key, v := range m {
		out[key] = v.Clone()
	}
	return out
}

// Equal reports whether m and o hold the same keys and values. A nil map
// equals an empty one.
func (m Map) Equal(o Map) bool {
	return maps.EqualFunc(m, o, Equal)
}

// Keys returns the keys of m in sorted order.
func (m Map) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Lookup walks path segment by segment and returns the value found there.
func (m Map) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}
	current := m
	for i, segment := range path {
		v, ok := current[segment]
		if !ok {
			return Value{}, false
		}
		if i == len(path)-1 {
			return v, true
		}
		if current, ok = v.AsMap(); !ok {
			return Value{}, false
		}
	}
	return Value{}, false
}

// LookupKey is Lookup for a dot-separated key.
func (m Map) LookupKey(key string) (Value, bool) {
	return m.Lookup(strings.Split(key, PathSeparator)...)
}

// Set stores v at path, creating intermediate maps as needed. An
// intermediate value that is not a map is replaced by one. Set modifies m in
// place; callers that need purity should Clone first.
func (m Map) Set(path []string, v Value) {
	if len(path) == 0 || m == nil {
		return
	}
	current := m
	for _, segment := range path[:len(path)-1] {
		next, ok := current[segment].AsMap()
		if !ok {
			next = Map{}
			current[segment] = Table(next)
		}
		current = next
	}
	current[path[len(path)-1]] = v
}

// Leaves flattens m into dot-path keys. Only non-map values are leaves;
// lists are leaves and are never descended into. Empty maps contribute no
// keys.
func (m Map) Leaves() map[string]Value {
	out := make(map[string]Value)
	m.collectLeaves("", out)
	return out
}

func (m Map) collectLeaves(prefix string, out map[string]Value) {
	for key, v := range m {
		full := key
		if prefix != "" {
			full = prefix + PathSeparator + key
		}
		if nested, ok := v.AsMap(); ok {
			nested.collectLeaves(full, out)
			continue
		}
		out[full] = v
	}
}
