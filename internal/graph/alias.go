package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

// aliasNode mirrors the value found at another path in the same graph.
// Preprocessing synthesizes one aliasNode declaration per name listed in
// a sibling declaration's "aliases" field.
type aliasNode struct {
	nodeBase
	mirror string
}

func newAliasNode(base nodeBase, d Declaration) (Node, error) {
	mirror, ok := d.str("mirror")
	if !ok || mirror == "" {
		return nil, declErr(base.name, "alias node requires a string 'mirror' path")
	}
	return &aliasNode{nodeBase: base, mirror: mirror}, nil
}

func (n *aliasNode) Kind() Kind { return KindAlias }

func (n *aliasNode) Value(ctx context.Context) cty.Value {
	v, err := n.g.resolvePath(ctx, n.mirror)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	return v
}
