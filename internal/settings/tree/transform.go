// SPDX-License-Identifier: MPL-2.0

package tree

import (
	"regexp"
	"slices"
	"strings"
)

// envRef matches $NAME and ${NAME} references.
var envRef = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

// ExpandEnv returns a copy of m with $VAR and ${VAR} references in every
// string expanded through lookup, including strings inside lists. References
// to undefined variables are left as written so a typo never silently turns
// into an empty string. Non-string leaves pass through unchanged.
func ExpandEnv(m Map, lookup LookupFunc) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for key, v := range m {
		out[key] = expandValue(v, lookup)
	}
	return out
}

func expandValue(v Value, lookup LookupFunc) Value {
	switch v.kind {
	case KindScalar:
		if s, ok := v.scalar.(string); ok {
			return Scalar(ExpandString(s, lookup))
		}
		return v
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = expandValue(item, lookup)
		}
		return Value{kind: KindList, list: items}
	case KindMap:
		return Value{kind: KindMap, m: ExpandEnv(v.m, lookup)}
	default:
		return v
	}
}

// ExpandString expands $VAR and ${VAR} references in s. Undefined variables
// are kept literally.
func ExpandString(s string, lookup LookupFunc) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.TrimPrefix(ref, "$")
		if strings.HasPrefix(name, "{") {
			name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
		}
		if val, ok := lookup(name); ok {
			return val
		}
		return ref
	})
}

// LowerKeys returns a copy of m with every map key lower-cased, recursively,
// including maps nested inside lists. Values are never altered.
//
// When several keys collide after lower-casing, the key that is already
// lower-case is taken first and the other spellings are merged over it in
// sorted order, so "[core.Generation]" in a user file still overrides the
// packaged "[core.generation]" defaults.
func LowerKeys(m Map) Map {
	if m == nil {
		return nil
	}
	keys := m.Keys()
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmpBool(a != strings.ToLower(a), b != strings.ToLower(b))
	})

	out := make(Map, len(m))
	for _, key := range keys {
		lower := strings.ToLower(key)
		v := lowerValue(m[key])
		if prev, ok := out[lower]; ok && prev.kind == KindMap && v.kind == KindMap {
			v = Value{kind: KindMap, m: Merge(prev.m, v.m)}
		}
		out[lower] = v
	}
	return out
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func lowerValue(v Value) Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = lowerValue(item)
		}
		return Value{kind: KindList, list: items}
	case KindMap:
		return Value{kind: KindMap, m: LowerKeys(v.m)}
	default:
		return v
	}
}
