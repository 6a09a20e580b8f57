package graph

import "sort"

// PathDefEntry is one local-field-name/value pair of a normalized path
// definition. Before literal hoisting, Raw may be any JSON value; a
// transform parameter like {"factor": 3} carries a literal number.
// After hoisting every Raw is a path string naming a node in the
// enclosing graph.
type PathDefEntry struct {
	Key string
	Raw any
}

// PathString returns Raw as a string, or "" if it is not one. Callers
// downstream of preprocessing may assume Raw is always a string.
func (e PathDefEntry) PathString() string {
	s, _ := e.Raw.(string)
	return s
}

// PathDef is a normalized path definition: an ordered set of local
// field-name/value pairs.
type PathDef []PathDefEntry

// normalizePathDef accepts the three shapes user declarations may use for
// a path-bearing field with subproperties: a single string (key equals
// the value), a sequence of strings (each entry's key equals its value,
// order preserved), or a mapping of key to value (map iteration order is
// not meaningful in JSON, so entries are sorted by key for determinism).
func normalizePathDef(raw any) (PathDef, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return PathDef{{Key: v, Raw: v}}, nil
	case []any:
		out := make(PathDef, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, declErr("", "path definition sequence entries must be strings")
			}
			out = append(out, PathDefEntry{Key: s, Raw: s})
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(PathDef, 0, len(keys))
		for _, k := range keys {
			out = append(out, PathDefEntry{Key: k, Raw: v[k]})
		}
		return out, nil
	default:
		return nil, declErr("", "invalid path definition shape")
	}
}
