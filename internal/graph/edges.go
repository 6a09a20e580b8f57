package graph

import (
	"strconv"

	"github.com/vk/dgraph/internal/nodepath"
)

// Edge is a derived, introspection-only dependency: Src reads a value
// that lives at (or under) Dst. Edges are recomputed once at
// construction time from the already-hoisted declarations; they play no
// role in evaluation, which is push-driven by dirty signals rather than
// topological order.
type Edge struct {
	Src        string
	Dst        string
	SrcProp    string // sub-field on Src this edge came from; "" if the whole node is a reference
	DstPath    string // full path string as declared, e.g. "inputs.amount"
}

func deriveEdges(decls []Declaration, nodes map[string]Node) []Edge {
	var edges []Edge
	for _, d := range decls {
		kind := Kind(d.Type())
		fields := pathFieldsByKind[kind]
		for field, spec := range fields {
			raw, ok := d[field]
			if !ok || raw == nil {
				continue
			}
			switch {
			case spec.HasSubproperties:
				switch m := raw.(type) {
				case map[string]any:
					for key, v := range m {
						s, ok := v.(string)
						if !ok {
							continue
						}
						edges = append(edges, edgeFor(d.Name(), key, s, nodes))
					}
				case []any:
					for idx, v := range m {
						s, ok := v.(string)
						if !ok {
							continue
						}
						edges = append(edges, edgeFor(d.Name(), strconv.Itoa(idx), s, nodes))
					}
				}
			case spec.IsList:
				items, ok := raw.([]any)
				if !ok {
					continue
				}
				for idx, item := range items {
					s, ok := item.(string)
					if !ok {
						continue
					}
					edges = append(edges, edgeFor(d.Name(), strconv.Itoa(idx), s, nodes))
				}
			default:
				s, ok := raw.(string)
				if !ok {
					continue
				}
				edges = append(edges, edgeFor(d.Name(), "", s, nodes))
			}
		}
	}
	return edges
}

func edgeFor(src, srcProp, path string, nodes map[string]Node) Edge {
	nodeID, _, _, err := nodepath.Split(path)
	if err != nil {
		nodeID = path
	}
	return Edge{Src: src, Dst: nodeID, SrcProp: srcProp, DstPath: path}
}
