// SPDX-License-Identifier: MPL-2.0

package tree

// Merge returns a new map combining base and override. For a key present in
// both, two maps are merged recursively; any other pairing (lists included)
// is resolved by taking the override value whole. Lists are never merged
// element-wise. Neither input is modified and the result shares no storage
// with them.
func Merge(base, override Map) Map {
	out := base.Clone()
	if out == nil {
		out = make(Map, len(override))
	}

	for key, ov := range override {
		if bv, ok := out[key]; ok && bv.kind == KindMap && ov.kind == KindMap {
			out[key] = Value{kind: KindMap, m: Merge(bv.m, ov.m)}
			continue
		}
		out[key] = ov.Clone()
	}

	return out
}
