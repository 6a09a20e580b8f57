package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

// commentsNode carries free-form documentation attached to the graph. Its
// value is the comments payload itself; it participates in evaluation
// like any other node but never references other nodes.
type commentsNode struct {
	nodeBase
	value cty.Value
}

func newCommentsNode(base nodeBase, d Declaration) (Node, error) {
	v, err := pathval.FromInterface(d.Comments())
	if err != nil {
		return nil, declErrf(base.name, "invalid comments value: %s", err)
	}
	return &commentsNode{nodeBase: base, value: v}, nil
}

func (n *commentsNode) Kind() Kind { return KindComments }

func (n *commentsNode) Value(ctx context.Context) cty.Value { return n.value }
