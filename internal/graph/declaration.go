package graph

import "encoding/json"

// Declaration is a decoded JSON node declaration. It has no fixed Go
// struct because the node-kind union is closed by "type" rather than by
// distinct wire shapes; each kind's constructor reads only the fields it
// recognizes.
type Declaration map[string]any

func (d Declaration) str(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Name returns the declaration's "name" field, or "" if absent or not a string.
func (d Declaration) Name() string {
	s, _ := d.str("name")
	return s
}

// Type returns the declaration's "type" field.
func (d Declaration) Type() string {
	s, _ := d.str("type")
	return s
}

// Comments returns the raw "comments" field, of any shape.
func (d Declaration) Comments() any {
	return d["comments"]
}

// IsHidden reports whether the declaration opts out of default state visibility.
func (d Declaration) IsHidden() bool {
	b, _ := d["isHidden"].(bool)
	return b
}

// Aliases returns the sibling node names this declaration should mirror.
func (d Declaration) Aliases() []string {
	switch v := d["aliases"].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// clone returns a deep copy of d. Preprocessing rewrites path-bearing
// fields in place; declarations may be shared across template
// instantiations, so callers must never mutate a Declaration they did not
// clone first.
func (d Declaration) clone() Declaration {
	raw, err := json.Marshal(map[string]any(d))
	if err != nil {
		out := make(Declaration, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	}
	var out Declaration
	_ = json.Unmarshal(raw, &out)
	// A live Deferred (an async node's "promise") has no JSON form; carry
	// it over as-is rather than as the empty object json.Marshal makes of it.
	for k, v := range d {
		if _, ok := v.(Deferred); ok {
			out[k] = v
		}
	}
	return out
}

func declsFromRaw(items []any) ([]Declaration, error) {
	out := make([]Declaration, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, declErr("", "each graph declaration must be a JSON object")
		}
		out = append(out, Declaration(m))
	}
	return out, nil
}
