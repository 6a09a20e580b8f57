package nodepath

import (
	"sort"
	"strconv"

	"github.com/vk/dgraph/internal/dgerr"
)

// Collect walks a decoded JSON-shaped tree (nested map[string]any and
// []any) and returns the dotted path of every leaf value, in stable sorted
// order. Leaves are values that are not themselves a map or a slice.
func Collect(tree any) []string {
	var out []string
	collect(tree, nil, &out)
	sort.Strings(out)
	return out
}

func collect(node any, prefix []string, out *[]string) {
	switch v := node.(type) {
	case map[string]any:
		if len(v) == 0 {
			*out = append(*out, joinRaw(prefix))
			return
		}
		for key, child := range v {
			collect(child, withSegment(prefix, escape(key)), out)
		}
	case []any:
		if len(v) == 0 {
			*out = append(*out, joinRaw(prefix))
			return
		}
		for i, child := range v {
			collect(child, withSegment(prefix, strconv.Itoa(i)), out)
		}
	default:
		*out = append(*out, joinRaw(prefix))
	}
}

// Flatten reduces a decoded JSON-shaped tree to a map of leaf dotted paths
// to their values. keep, if non-nil, filters which paths are retained.
func Flatten(tree any, keep func(path string) bool) map[string]any {
	flat := map[string]any{}
	flattenInto(tree, nil, flat, keep)
	return flat
}

func flattenInto(node any, prefix []string, flat map[string]any, keep func(string) bool) {
	switch v := node.(type) {
	case map[string]any:
		if len(v) == 0 {
			addLeaf(flat, prefix, map[string]any{}, keep)
			return
		}
		for key, child := range v {
			flattenInto(child, withSegment(prefix, escape(key)), flat, keep)
		}
	case []any:
		if len(v) == 0 {
			addLeaf(flat, prefix, []any{}, keep)
			return
		}
		for i, child := range v {
			flattenInto(child, withSegment(prefix, strconv.Itoa(i)), flat, keep)
		}
	default:
		addLeaf(flat, prefix, v, keep)
	}
}

func addLeaf(flat map[string]any, prefix []string, value any, keep func(string) bool) {
	p := joinRaw(prefix)
	if keep != nil && !keep(p) {
		return
	}
	flat[p] = value
}

// Expand rebuilds a nested map[string]any/[]any tree from a flat map of
// dotted paths to values, the inverse of Flatten.
func Expand(flat map[string]any) (map[string]any, error) {
	root := map[string]any{}
	for rawPath, value := range flat {
		path, err := Parse(rawPath)
		if err != nil {
			return nil, err
		}
		if err := ensureSet(root, path, value); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// ensureSet is like Set but creates missing intermediate Index containers
// by growing slices, since Expand builds trees from scratch rather than
// writing into pre-shaped ones.
func ensureSet(cur map[string]any, path Path, value any) error {
	if len(path) == 0 {
		return &dgerr.PathError{Msg: "empty path"}
	}
	return ensureSetAny(cur, path, value)
}

func ensureSetAny(container map[string]any, path Path, value any) error {
	seg := path[0]
	if seg.Kind != Field {
		return &dgerr.PathError{Path: path.String(), Msg: "top-level segment must be a field name"}
	}
	if len(path) == 1 {
		container[seg.Field] = value
		return nil
	}

	next := path[1]
	switch next.Kind {
	case Index:
		child, _ := container[seg.Field].([]any)
		child = growSlice(child, next.Index)
		container[seg.Field] = child
		return ensureSetSeq(child, path[1:], value)
	case Field:
		child, ok := container[seg.Field].(map[string]any)
		if !ok {
			child = map[string]any{}
			container[seg.Field] = child
		}
		return ensureSetAny(child, path[1:], value)
	default:
		return &dgerr.PathError{Path: path.String(), Msg: "wildcard segment not supported in Expand"}
	}
}

func ensureSetSeq(seq []any, path Path, value any) error {
	seg := path[0]
	if seg.Kind != Index {
		return &dgerr.PathError{Path: path.String(), Msg: "expected index segment"}
	}
	if len(path) == 1 {
		seq[seg.Index] = value
		return nil
	}
	next := path[1]
	switch next.Kind {
	case Index:
		child, _ := seq[seg.Index].([]any)
		child = growSlice(child, next.Index)
		seq[seg.Index] = child
		return ensureSetSeq(child, path[1:], value)
	case Field:
		child, ok := seq[seg.Index].(map[string]any)
		if !ok {
			child = map[string]any{}
			seq[seg.Index] = child
		}
		return ensureSetAny(child, path[1:], value)
	default:
		return &dgerr.PathError{Path: path.String(), Msg: "wildcard segment not supported in Expand"}
	}
}

func growSlice(s []any, minIndex int) []any {
	for len(s) <= minIndex {
		s = append(s, nil)
	}
	return s
}

// withSegment returns a copy of prefix with seg appended, so sibling
// recursive calls never share (and corrupt) one another's backing array.
func withSegment(prefix []string, seg string) []string {
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = seg
	return out
}

func joinRaw(segments []string) string {
	out := segments[0]
	for _, s := range segments[1:] {
		out += "." + s
	}
	return out
}

