package graph

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/dgerr"
	"github.com/vk/dgraph/internal/nodepath"
	"github.com/vk/dgraph/internal/pathval"
)

// dereferenceNode reads a dynamic property name off an object found at
// another path: object[propName]. A node id in objectPath or propNamePath
// that names nothing in the graph fails immediately with a
// ResolutionError rather than stalling forever, distinct from a resolved
// object whose key lookup simply misses, which yields the resolved null
// sentinel per "resolved but empty" semantics elsewhere in the graph.
type dereferenceNode struct {
	nodeBase
	objectPath   string
	propNamePath string
}

func newDereferenceNode(base nodeBase, d Declaration) (Node, error) {
	objectPath, ok := d.str("objectPath")
	if !ok || objectPath == "" {
		return nil, declErr(base.name, "dereference node requires a string 'objectPath'")
	}
	propNamePath, ok := d.str("propNamePath")
	if !ok || propNamePath == "" {
		return nil, declErr(base.name, "dereference node requires a string 'propNamePath'")
	}
	return &dereferenceNode{nodeBase: base, objectPath: objectPath, propNamePath: propNamePath}, nil
}

func (n *dereferenceNode) Kind() Kind { return KindDereference }

func (n *dereferenceNode) Value(ctx context.Context) cty.Value {
	obj, err := n.resolveExisting(ctx, n.objectPath)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	if pathval.IsAbsent(obj) {
		return pathval.Absent
	}
	propV, err := n.resolveExisting(ctx, n.propNamePath)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	if pathval.IsAbsent(propV) {
		return pathval.Absent
	}

	propName := stringOfValue(propV)
	tree := pathval.ToInterface(obj)
	m, ok := tree.(map[string]any)
	if !ok {
		return pathval.Null
	}
	v, exists := m[propName]
	if !exists {
		return pathval.Null
	}
	result, err := pathval.FromInterface(v)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	return result
}

// resolveExisting is resolvePath plus an existence check on the path's
// node id: a typo'd or since-removed node name fails the dereference
// outright instead of leaving it stalled at absent forever.
func (n *dereferenceNode) resolveExisting(ctx context.Context, raw string) (cty.Value, error) {
	nodeID, _, _, err := nodepath.Split(raw)
	if err != nil {
		return cty.NilVal, err
	}
	if _, ok := n.g.lookupLocal(nodeID); !ok {
		return cty.NilVal, &dgerr.ResolutionError{Node: n.name, Path: raw, Msg: fmt.Sprintf("referenced node %q does not exist", nodeID)}
	}
	return n.g.resolvePath(ctx, raw)
}

func stringOfValue(v cty.Value) string {
	if v.Type() == cty.String {
		return v.AsString()
	}
	return fmt.Sprint(pathval.ToInterface(v))
}
