package graph

import (
	"context"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

// asyncNode holds a value that arrives through a Deferred rather than
// through inputs — e.g. the outcome of an operation kicked off during
// construction. Its declared "promise" field must be a live Deferred
// (not JSON-serializable), so async nodes can only be introduced by code
// building a Declaration slice directly, not by decoding a JSON document.
type asyncNode struct {
	nodeBase
	mu    sync.Mutex
	value cty.Value
}

func newAsyncNode(base nodeBase, d Declaration) (Node, error) {
	promise, ok := d["promise"].(Deferred)
	if !ok {
		return nil, declErr(base.name, "async node requires a 'promise' field holding a Deferred")
	}
	n := &asyncNode{nodeBase: base, value: pathval.Absent}
	promise.Then(
		func(v cty.Value) {
			n.mu.Lock()
			n.value = v
			n.mu.Unlock()
			n.g.markDirty()
		},
		func(err error) { n.g.fail(err) },
	)
	return n, nil
}

func (n *asyncNode) Kind() Kind { return KindAsync }

func (n *asyncNode) Value(ctx context.Context) cty.Value {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value
}
