package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"

	"github.com/vk/dgraph/internal/dgerr"
	"github.com/vk/dgraph/internal/nodepath"
	"github.com/vk/dgraph/internal/pathval"
)

// graphNode is both the template declaration form (isTemplate: true, never
// executed, its value a fixed placeholder string) and the subgraph
// invocation form (isTemplate omitted/false, executed once its resolved
// inputs are available). collectionMode "map" fans an invocation out
// across a "collection" input, running one child instance per element
// concurrently via errgroup and collecting an array of results.
type graphNode struct {
	nodeBase
	isTemplate     bool
	graphDefRaw    any
	childDecls     []Declaration
	inputsRaw      any
	collectionMode string

	mu       sync.Mutex
	started  bool
	resolved bool
	value    cty.Value
	child    *Graph
}

func newGraphNode(base nodeBase, d Declaration) (Node, error) {
	gn := &graphNode{nodeBase: base, value: pathval.Absent}
	gn.isTemplate, _ = d["isTemplate"].(bool)
	gn.collectionMode, _ = d["collectionMode"].(string)
	gn.inputsRaw = d["inputs"]

	raw, ok := d["graphDef"]
	if !ok {
		return nil, declErr(base.name, "graph node requires 'graphDef'")
	}
	switch v := raw.(type) {
	case string:
		gn.graphDefRaw = v
	case []any:
		decls, err := declsFromRaw(v)
		if err != nil {
			return nil, err
		}
		gn.childDecls = decls
		gn.graphDefRaw = v
	default:
		return nil, declErr(base.name, "'graphDef' must be a string (template name) or an array of declarations")
	}
	return gn, nil
}

func (n *graphNode) Kind() Kind        { return KindGraph }
func (n *graphNode) IsTemplate() bool  { return n.isTemplate }

func (n *graphNode) Value(ctx context.Context) cty.Value {
	if n.isTemplate {
		return cty.StringVal("<template>")
	}

	n.mu.Lock()
	if n.resolved {
		v := n.value
		n.mu.Unlock()
		return v
	}
	if n.started {
		n.mu.Unlock()
		return pathval.Absent
	}
	n.mu.Unlock()

	if !n.g.root().isConnected() {
		return pathval.Absent
	}

	inputsTree, ok := n.resolveInputs(ctx)
	if !ok {
		return pathval.Absent
	}

	n.mu.Lock()
	if n.started {
		n.mu.Unlock()
		return pathval.Absent
	}
	n.started = true
	n.mu.Unlock()

	go n.run(ctx, inputsTree)
	return pathval.Absent
}

func (n *graphNode) resolveGraphDef() ([]Declaration, error) {
	if n.childDecls != nil {
		return n.childDecls, nil
	}
	name, _ := n.graphDefRaw.(string)
	tmpl, ok := n.g.findTemplate(name)
	if !ok {
		return nil, &dgerr.ResolutionError{Node: n.name, Msg: fmt.Sprintf("template %q not found", name)}
	}
	decls, err := tmpl.resolveGraphDef()
	if err != nil {
		return nil, err
	}
	n.childDecls = decls
	return decls, nil
}

// resolveInputs resolves the subgraph's initial inputs, either from an
// explicit "inputs" path definition or, when omitted, by scanning the
// child declaration for every "inputs.<id>" reference and resolving each
// id against: a same-named node in the parent graph, the parent's own
// inputs, or the root graph's inputs, in that order. ok is false while any
// referenced value is still absent (not yet an error - the subgraph
// simply has not started yet).
func (n *graphNode) resolveInputs(ctx context.Context) (map[string]any, bool) {
	flat := map[string]any{}

	if n.inputsRaw != nil {
		pd, err := normalizePathDef(n.inputsRaw)
		if err != nil {
			n.g.fail(declErrf(n.name, "invalid 'inputs': %s", err))
			return nil, false
		}
		for _, e := range pd {
			v, err := n.g.resolvePath(ctx, e.PathString())
			if err != nil {
				n.g.fail(err)
				return nil, false
			}
			if pathval.IsAbsent(v) {
				return nil, false
			}
			flat[e.Key] = pathval.ToInterface(v)
		}
	} else {
		decls, err := n.resolveGraphDef()
		if err != nil {
			n.g.fail(err)
			return nil, false
		}
		for _, id := range collectInputsReferences(decls) {
			v, ok, err := n.resolveImplicitInput(ctx, id)
			if err != nil {
				n.g.fail(err)
				return nil, false
			}
			if !ok || pathval.IsAbsent(v) {
				return nil, false
			}
			flat[id] = pathval.ToInterface(v)
		}
	}

	tree, err := nodepath.Expand(flat)
	if err != nil {
		n.g.fail(err)
		return nil, false
	}
	return tree, true
}

func (n *graphNode) resolveImplicitInput(ctx context.Context, id string) (cty.Value, bool, error) {
	parent := n.g
	if pn, ok := parent.lookupLocal(id); ok {
		return parent.valueOf(ctx, pn), true, nil
	}
	if parent.expectedInputs[id] {
		v, err := parent.resolvePath(ctx, "inputs."+id)
		return v, true, err
	}
	root := parent.root()
	if root != parent && root.expectedInputs[id] {
		v, err := root.resolvePath(ctx, "inputs."+id)
		return v, true, err
	}
	return cty.NilVal, false, &dgerr.ResolutionError{Node: n.name, Path: "inputs." + id, Msg: "could not find node or pass-through input"}
}

func (n *graphNode) run(ctx context.Context, inputsTree map[string]any) {
	decls, err := n.resolveGraphDef()
	if err != nil {
		n.g.fail(err)
		return
	}

	if n.collectionMode == "map" {
		n.runMap(ctx, decls, inputsTree)
		return
	}

	child, err := New(decls, n.name, n.g, n.g.childOptions()...)
	if err != nil {
		n.g.fail(err)
		return
	}
	n.mu.Lock()
	n.child = child
	n.mu.Unlock()

	state, err := child.Run(ctx, inputsTree)
	if err != nil {
		n.g.fail(err)
		return
	}
	n.settle(state)
}

func (n *graphNode) runMap(ctx context.Context, decls []Declaration, inputsTree map[string]any) {
	collAny, ok := inputsTree["collection"]
	coll, ok2 := collAny.([]any)
	if !ok || !ok2 {
		n.g.fail(&dgerr.ResolutionError{Node: n.name, Msg: "collectionMode \"map\" requires a resolved 'collection' input that is an array"})
		return
	}
	shared := map[string]any{}
	for k, v := range inputsTree {
		if k != "collection" {
			shared[k] = v
		}
	}

	results := make([]any, len(coll))
	var eg errgroup.Group
	for i, elem := range coll {
		i, elem := i, elem
		eg.Go(func() error {
			childInputs := map[string]any{}
			for k, v := range shared {
				childInputs[k] = v
			}
			// Each collection element's own fields become the child's
			// top-level inputs (an object element {bar:2} makes inputs.bar
			// readable inside the template); a non-object element falls
			// back to "item".
			if elemMap, ok := elem.(map[string]any); ok {
				for k, v := range elemMap {
					childInputs[k] = v
				}
			} else {
				childInputs["item"] = elem
			}
			childName := fmt.Sprintf("%s[%d]", n.name, i)
			child, err := New(decls, childName, n.g, n.g.childOptions()...)
			if err != nil {
				return err
			}
			state, err := child.Run(ctx, childInputs)
			if err != nil {
				return err
			}
			results[i] = state
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		n.g.fail(err)
		return
	}
	n.settle(results)
}

func (n *graphNode) settle(state any) {
	v, err := pathval.FromInterface(state)
	if err != nil {
		n.g.fail(err)
		return
	}
	n.mu.Lock()
	n.value = v
	n.resolved = true
	n.mu.Unlock()
	n.g.markDirty()
}

// collectInputsReferences walks decls looking for string values shaped
// like "inputs.<id>..." and returns the sorted, de-duplicated set of
// leading ids. It over-approximates (any string field, not only
// declared path-bearing ones) since the child graph has not been built
// yet when the scan runs.
func collectInputsReferences(decls []Declaration) []string {
	seen := map[string]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			if strings.HasPrefix(t, "inputs.") {
				rest := strings.TrimPrefix(t, "inputs.")
				id := rest
				if idx := strings.IndexByte(rest, '.'); idx >= 0 {
					id = rest[:idx]
				}
				if id != "" {
					seen[id] = true
				}
			}
		case map[string]any:
			for _, vv := range t {
				walk(vv)
			}
		case []any:
			for _, vv := range t {
				walk(vv)
			}
		}
	}
	for _, d := range decls {
		walk(map[string]any(d))
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
