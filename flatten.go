package toon

import (
	"slices"
	"strings"
)

// Flatten returns obj with nested objects folded into its top level, their
// keys joined by sep:
//
//	{"address": {"city": "NYC"}}  ->  {"address.city": "NYC"}
//
// Keys stop growing once they hold maxDepth parts; the value found there
// is kept whole. A maxDepth of zero or less means no limit. Values other
// than objects are returned unchanged.
func Flatten(obj Value, sep string, maxDepth int) Value {
	if obj.kind != KindObject || sep == "" {
		return obj
	}
	out := Object()
	flattenInto(&out, "", sep, obj.members, 1, maxDepth)
	return out
}

func flattenInto(dst *Value, prefix, sep string, members []Member, parts, maxDepth int) {
	for _, m := range members {
		key := m.Key
		if prefix != "" {
			key = prefix + sep + m.Key
		}
		if m.Value.kind == KindObject && len(m.Value.members) > 0 && (maxDepth <= 0 || parts < maxDepth) {
			flattenInto(dst, key, sep, m.Value.members, parts+1, maxDepth)
			continue
		}
		dst.Set(key, m.Value)
	}
}

// Unflatten reverses Flatten: keys containing sep are split into a path of
// nested objects. A key whose path runs into a non-object value, or which
// has an empty part, is kept as it is.
func Unflatten(obj Value, sep string) Value {
	if obj.kind != KindObject || sep == "" {
		return obj
	}
	out := Object()
	for _, m := range obj.members {
		path := strings.Split(m.Key, sep)
		if len(path) == 1 || slices.Contains(path, "") || !setPath(&out, path, m.Value) {
			out.Set(m.Key, m.Value)
		}
	}
	return out
}

func setPath(obj *Value, path []string, val Value) bool {
	if len(path) == 1 {
		if cur, ok := obj.Get(path[0]); ok && cur.kind == KindObject && val.kind != KindObject {
			return false
		}
		obj.Set(path[0], val)
		return true
	}
	child, ok := obj.Get(path[0])
	switch {
	case !ok:
		child = Object()
	case child.kind != KindObject:
		return false
	default:
		child = Object(child.members...)
	}
	if !setPath(&child, path[1:], val) {
		return false
	}
	obj.Set(path[0], child)
	return true
}
