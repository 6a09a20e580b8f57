package graph

import (
	"context"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

// inputsNode is the single synthetic node every graph carries, holding
// the values Run was given (or, for a deferred input, the value it
// eventually settles to). It is always present even when the
// declarations passed to New do not mention it, since echo and implicit
// subgraph inputs both read through "inputs.<name>".
type inputsNode struct {
	nodeBase
	mu     sync.Mutex
	values map[string]cty.Value
}

func newInputsNode(base nodeBase, d Declaration) (Node, error) {
	return &inputsNode{nodeBase: base, values: map[string]cty.Value{}}, nil
}

func (n *inputsNode) Kind() Kind { return KindInputs }

func (n *inputsNode) setValue(key string, v cty.Value) {
	n.mu.Lock()
	n.values[key] = v
	n.mu.Unlock()
	n.g.markDirty()
}

func (n *inputsNode) Value(ctx context.Context) cty.Value {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]cty.Value, len(n.values))
	for k, v := range n.values {
		if pathval.IsAbsent(v) {
			continue
		}
		out[k] = v
	}
	return pathval.ObjectVal(out)
}
