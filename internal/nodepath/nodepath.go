// Package nodepath implements the dotted-segment address grammar used to
// name nodes and reach into their values: a leading node identifier segment
// followed by zero or more field or integer-index segments, with a single
// "*" wildcard segment allowed anywhere after the node identifier.
//
// Unlike bracketed addressing ("db.users[0].name"), every segment here is
// dot-separated ("db.users.0.name"); a literal dot inside a field name must
// be escaped as "\.".
package nodepath

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vk/dgraph/internal/dgerr"
)

// Kind classifies a single path segment.
type Kind int

const (
	// Field addresses a named struct field or map key.
	Field Kind = iota
	// Index addresses a zero-based sequence element.
	Index
	// Wildcard ("*") addresses every element of a sequence at once.
	Wildcard
)

func (k Kind) String() string {
	switch k {
	case Field:
		return "field"
	case Index:
		return "index"
	case Wildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Segment is one dot-separated component of a Path.
type Segment struct {
	Kind  Kind
	Field string // set when Kind == Field
	Index int    // set when Kind == Index
}

func fieldSeg(name string) Segment { return Segment{Kind: Field, Field: name} }
func indexSeg(i int) Segment       { return Segment{Kind: Index, Index: i} }
func wildcardSeg() Segment         { return Segment{Kind: Wildcard} }

// Path is a parsed sequence of segments, in order, node identifier first.
type Path []Segment

// Parse splits raw into segments, unescaping literal dots within field
// names, classifying purely-numeric segments as Index and "*" as Wildcard.
// It rejects paths with more than one wildcard segment.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return nil, &dgerr.PathError{Path: raw, Msg: "empty path"}
	}
	rawSegments, err := splitEscaped(raw)
	if err != nil {
		return nil, &dgerr.PathError{Path: raw, Msg: err.Error()}
	}

	path := make(Path, 0, len(rawSegments))
	wildcards := 0
	for _, rs := range rawSegments {
		switch {
		case rs == "*":
			wildcards++
			path = append(path, wildcardSeg())
		case isUint(rs):
			n, _ := strconv.Atoi(rs)
			path = append(path, indexSeg(n))
		default:
			path = append(path, fieldSeg(unescape(rs)))
		}
	}
	if wildcards > 1 {
		return nil, &dgerr.PathError{Path: raw, Msg: "at most one wildcard segment is allowed"}
	}
	return path, nil
}

// String renders the path back to its dotted form, escaping literal dots
// within field segments.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		switch s.Kind {
		case Field:
			parts[i] = escape(s.Field)
		case Index:
			parts[i] = strconv.Itoa(s.Index)
		case Wildcard:
			parts[i] = "*"
		}
	}
	return strings.Join(parts, ".")
}

// HasWildcard reports whether the path contains a wildcard segment.
func (p Path) HasWildcard() bool {
	for _, s := range p {
		if s.Kind == Wildcard {
			return true
		}
	}
	return false
}

// Split implements the node-identifier/value-path split: the first segment
// names the node, and everything after the first unescaped dot is the value
// path reached inside that node. hasRest is false when raw names a bare
// node with no inner path.
func Split(raw string) (nodeID string, rest string, hasRest bool, err error) {
	segments, err := splitEscaped(raw)
	if err != nil {
		return "", "", false, &dgerr.PathError{Path: raw, Msg: err.Error()}
	}
	if len(segments) == 0 {
		return "", "", false, &dgerr.PathError{Path: raw, Msg: "empty path"}
	}
	nodeID = unescape(segments[0])
	if len(segments) == 1 {
		return nodeID, "", false, nil
	}
	return nodeID, strings.Join(segments[1:], "."), true, nil
}

func isUint(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitEscaped splits raw on dots that are not preceded by a backslash,
// leaving escape sequences intact for the caller to unescape per segment.
func splitEscaped(raw string) ([]string, error) {
	var segments []string
	var cur strings.Builder
	escaped := false
	for _, r := range raw {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '.':
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return nil, errors.New("trailing escape character")
	}
	segments = append(segments, cur.String())
	for _, s := range segments {
		if s == "" {
			return nil, errors.New("empty segment")
		}
	}
	return segments, nil
}

func escape(field string) string {
	return strings.ReplaceAll(field, ".", `\.`)
}

func unescape(segment string) string {
	return strings.ReplaceAll(segment, `\.`, ".")
}
