package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

// staticNode holds a fixed value fully known at declaration time. Literal
// hoisting synthesizes staticNode declarations named
// "#literal#<owner>#<field>" to give inferred literals a node identity.
type staticNode struct {
	nodeBase
	value cty.Value
}

func newStaticNode(base nodeBase, d Declaration) (Node, error) {
	v, err := pathval.FromInterface(d["value"])
	if err != nil {
		return nil, declErrf(base.name, "invalid static value: %s", err)
	}
	return &staticNode{nodeBase: base, value: v}, nil
}

func (n *staticNode) Kind() Kind { return KindStatic }

func (n *staticNode) Value(ctx context.Context) cty.Value { return n.value }
