package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

// echoNode surfaces one named entry of the graph's inputs. Its own name
// need not match the input name; "inputName" defaults to the node's own
// name when omitted.
type echoNode struct {
	nodeBase
	inputName string
}

func newEchoNode(base nodeBase, d Declaration) (Node, error) {
	inputName, ok := d.str("inputName")
	if !ok || inputName == "" {
		inputName = base.name
	}
	return &echoNode{nodeBase: base, inputName: inputName}, nil
}

func (n *echoNode) Kind() Kind { return KindEcho }

func (n *echoNode) Value(ctx context.Context) cty.Value {
	v, err := n.g.resolvePath(ctx, "inputs."+n.inputName)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	return v
}
