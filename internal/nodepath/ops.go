package nodepath

import (
	"fmt"

	"github.com/vk/dgraph/internal/dgerr"
)

// Get walks root following path and returns the value found there. ok is
// false when any segment along the way is missing, which callers treat as
// an absent value rather than an error. Get rejects paths containing a
// wildcard segment; use GetWildcard for those.
func Get(root any, path Path) (any, bool, error) {
	cur := root
	for i, seg := range path {
		if seg.Kind == Wildcard {
			return nil, false, &dgerr.PathError{Path: path.String(), Msg: "Get does not support wildcard segments, use GetWildcard"}
		}
		next, ok, err := step(cur, seg)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		cur = next
		_ = i
	}
	return cur, true, nil
}

// GetWildcard resolves a path containing exactly one wildcard segment by
// navigating to the sequence the wildcard addresses, then evaluating the
// remainder of the path against every element. ok is false when the
// sequence itself (the wildcard's target) is absent; a present-but-empty
// sequence yields ok=true with an empty result.
func GetWildcard(root any, path Path) ([]any, bool, error) {
	idx := wildcardIndex(path)
	if idx < 0 {
		return nil, false, &dgerr.PathError{Path: path.String(), Msg: "path has no wildcard segment"}
	}
	before := path[:idx]
	after := path[idx+1:]

	seqAny, ok, err := Get(root, before)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	seq, ok := seqAny.([]any)
	if !ok {
		return nil, false, &dgerr.PathError{Path: path.String(), Msg: fmt.Sprintf("wildcard segment applied to non-sequence value of type %T", seqAny)}
	}

	results := make([]any, 0, len(seq))
	for _, elem := range seq {
		if len(after) == 0 {
			results = append(results, elem)
			continue
		}
		v, ok, err := Get(elem, after)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			results = append(results, nil)
			continue
		}
		results = append(results, v)
	}
	return results, true, nil
}

// Set writes value at path within root, creating intermediate map levels
// for Field segments that don't yet exist. root must be addressable as
// map[string]any at the top level. Wildcard segments and missing
// intermediate Index segments are rejected.
func Set(root map[string]any, path Path, value any) error {
	if len(path) == 0 {
		return &dgerr.PathError{Path: "", Msg: "empty path"}
	}
	return setAt(root, path, value)
}

func setAt(cur any, path Path, value any) error {
	seg := path[0]
	if seg.Kind == Wildcard {
		return &dgerr.PathError{Path: path.String(), Msg: "Set does not support wildcard segments"}
	}

	m, isMap := cur.(map[string]any)

	if len(path) == 1 {
		switch seg.Kind {
		case Field:
			if !isMap {
				return &dgerr.PathError{Path: path.String(), Msg: fmt.Sprintf("cannot set field %q on non-map value of type %T", seg.Field, cur)}
			}
			m[seg.Field] = value
			return nil
		case Index:
			s, isSeq := cur.([]any)
			if !isSeq || seg.Index < 0 || seg.Index >= len(s) {
				return &dgerr.PathError{Path: path.String(), Msg: fmt.Sprintf("missing intermediate segment at index %d", seg.Index)}
			}
			s[seg.Index] = value
			return nil
		}
	}

	switch seg.Kind {
	case Field:
		if !isMap {
			return &dgerr.PathError{Path: path.String(), Msg: fmt.Sprintf("cannot descend into field %q on non-map value of type %T", seg.Field, cur)}
		}
		child, exists := m[seg.Field]
		if !exists {
			child = map[string]any{}
			m[seg.Field] = child
		}
		return setAt(child, path[1:], value)
	case Index:
		s, isSeq := cur.([]any)
		if !isSeq || seg.Index < 0 || seg.Index >= len(s) {
			return &dgerr.PathError{Path: path.String(), Msg: fmt.Sprintf("missing intermediate segment at index %d", seg.Index)}
		}
		return setAt(s[seg.Index], path[1:], value)
	}
	return &dgerr.PathError{Path: path.String(), Msg: "unreachable segment kind"}
}

func step(cur any, seg Segment) (any, bool, error) {
	switch seg.Kind {
	case Field:
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		v, ok := m[seg.Field]
		return v, ok, nil
	case Index:
		s, ok := cur.([]any)
		if !ok {
			return nil, false, nil
		}
		if seg.Index < 0 || seg.Index >= len(s) {
			return nil, false, nil
		}
		return s[seg.Index], true, nil
	default:
		return nil, false, &dgerr.PathError{Msg: "unsupported segment kind in step"}
	}
}

func wildcardIndex(path Path) int {
	for i, s := range path {
		if s.Kind == Wildcard {
			return i
		}
	}
	return -1
}
