package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
	"github.com/vk/dgraph/internal/transform"
)

// transformNode calls a named pure function against a set of resolved
// parameters. Parameter order is preserved from the declaration (array
// shape) or sorted by key (mapping shape) so positional transforms like
// concat behave predictably; see transform.Args.
type transformNode struct {
	nodeBase
	fn     string
	params PathDef
}

func newTransformNode(base nodeBase, d Declaration) (Node, error) {
	fn, ok := d.str("fn")
	if !ok || fn == "" {
		return nil, declErr(base.name, "transform node requires a string 'fn'")
	}
	if base.g.opts.Transforms != nil {
		if _, ok := base.g.opts.Transforms.Lookup(fn); !ok {
			return nil, declErrf(base.name, "unknown transform function %q", fn)
		}
	}
	params, err := normalizePathDef(d["params"])
	if err != nil {
		return nil, declErrf(base.name, "invalid 'params': %s", err)
	}
	return &transformNode{nodeBase: base, fn: fn, params: params}, nil
}

func (n *transformNode) Kind() Kind { return KindTransform }

func (n *transformNode) Value(ctx context.Context) cty.Value {
	args := transform.Args{
		Order:  make([]string, 0, len(n.params)),
		Values: make(map[string]cty.Value, len(n.params)),
	}
	for _, e := range n.params {
		v, err := n.g.resolvePath(ctx, e.PathString())
		if err != nil {
			n.g.fail(err)
			return pathval.Absent
		}
		if pathval.IsAbsent(v) {
			return pathval.Absent
		}
		args.Order = append(args.Order, e.Key)
		args.Values[e.Key] = v
	}

	fn, ok := n.g.opts.Transforms.Lookup(n.fn)
	if !ok {
		n.g.fail(declErrf(n.name, "unknown transform function %q", n.fn))
		return pathval.Absent
	}
	result, err := fn.Call(args)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	return result
}
