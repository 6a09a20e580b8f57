package graph

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/ctxlog"
	"github.com/vk/dgraph/internal/dgerr"
	"github.com/vk/dgraph/internal/dgevent"
	"github.com/vk/dgraph/internal/nodepath"
	"github.com/vk/dgraph/internal/pathval"
	"github.com/vk/dgraph/internal/transform"
)

// Graph is one instance of a dependency-graph evaluation. A Graph is
// built once from a set of declarations and run at most once; a subgraph
// invocation constructs and Runs a fresh child Graph rather than
// resetting an existing one.
type Graph struct {
	name    string
	parent  *Graph
	opts    Options
	emitter *dgevent.Emitter

	mu    sync.Mutex
	nodes map[string]Node
	order []string
	edges []Edge

	inputsNode     *inputsNode
	expectedInputs map[string]bool

	memo      map[string]cty.Value
	computing map[string]bool

	connected bool
	firstErr  error

	dirty chan struct{}
}

// New builds a Graph from decls. parent is nil for a root graph, or the
// enclosing graph for a subgraph invocation. The child inherits its
// logger and transforms from parent, and root and findTemplate walk up
// through it; resolvePath never searches beyond the local graph.
func New(decls []Declaration, name string, parent *Graph, opts ...Option) (*Graph, error) {
	o := Options{Transforms: transform.Default(), Logger: slog.Default()}
	if parent != nil {
		o.Logger = parent.opts.Logger
		o.Transforms = parent.opts.Transforms
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Transforms == nil {
		o.Transforms = transform.Default()
	}

	g := &Graph{
		name:           name,
		parent:         parent,
		opts:           o,
		emitter:        dgevent.NewEmitter(),
		nodes:          map[string]Node{},
		expectedInputs: map[string]bool{},
		memo:           map[string]cty.Value{},
		computing:      map[string]bool{},
		dirty:          make(chan struct{}, 1),
	}

	cloned := make([]Declaration, len(decls))
	copy(cloned, decls)
	cloned = expandAliases(cloned)
	cloned = append(cloned, Declaration{"name": "inputs", "type": string(KindInputs)})

	cloned, err := hoistLiterals(cloned, o)
	if err != nil {
		return nil, err
	}

	for _, d := range cloned {
		n, err := g.construct(d)
		if err != nil {
			return nil, err
		}
		if _, exists := g.nodes[n.Name()]; exists {
			return nil, declErrf(n.Name(), "duplicate node name %q", n.Name())
		}
		g.nodes[n.Name()] = n
		g.order = append(g.order, n.Name())
		if in, ok := n.(*inputsNode); ok {
			g.inputsNode = in
		}
	}

	g.expectedInputs = collectExpectedInputs(cloned)
	g.edges = deriveEdges(cloned, g.nodes)

	g.emitter.Emit(dgevent.Constructed, nil)
	g.mu.Lock()
	g.connected = true
	g.mu.Unlock()
	g.emitter.Emit(dgevent.Connected, nil)

	return g, nil
}

// Run validates inputValues against the paths declared nodes actually
// reference - failing with a MissingInputError for an absent expected
// input, or a declaration error if a key collides with an existing
// non-echo node - then installs them onto the graph's inputs node (a
// Deferred value installs a completion callback instead of a value) and
// drives the reactive fixpoint loop until every visible node resolves (or
// the graph stalls past opts.RunTimeout, if one was configured). It
// returns the final state as produced by GetState.
func (g *Graph) Run(ctx context.Context, inputValues map[string]any) (map[string]any, error) {
	ctx = ctxlog.WithLogger(ctx, g.opts.Logger)

	var missing []string
	for name := range g.expectedInputs {
		if _, ok := inputValues[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &dgerr.MissingInputError{Name: missing[0]}
	}

	for key := range inputValues {
		if n, ok := g.nodes[key]; ok && n.Kind() != KindEcho {
			return nil, declErrf(key, "input %q collides with a non-echo node of the same name", key)
		}
	}

	for key, v := range inputValues {
		if d, ok := v.(Deferred); ok {
			d.Then(
				func(cv cty.Value) { g.inputsNode.setValue(key, cv) },
				func(err error) { g.fail(err) },
			)
			continue
		}
		cv, err := pathval.FromInterface(v)
		if err != nil {
			return nil, err
		}
		g.inputsNode.setValue(key, cv)
	}

	var timeoutC <-chan time.Time
	var timer *time.Timer
	if g.opts.RunTimeout > 0 {
		timer = time.NewTimer(g.opts.RunTimeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	for {
		state, undefined := g.snapshot(ctx)

		if err := g.pendingErr(); err != nil {
			return nil, err
		}

		if len(undefined) == 0 {
			g.emitter.Emit(dgevent.Resolved, dgevent.StepPayload{State: state})
			return state, nil
		}

		if g.opts.LogUndefinedPaths {
			logger := ctxlog.FromContext(ctx)
			for _, p := range undefined {
				logger.Debug("undefined path", "graph", g.name, "path", p)
			}
		}
		g.emitter.Emit(dgevent.Stepped, dgevent.StepPayload{State: state, UndefinedPaths: undefined})

		select {
		case <-g.dirty:
			continue
		case <-timeoutC:
			return nil, &dgerr.SyncRunTimeout{Graph: g.name, After: g.opts.RunTimeout.String()}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (g *Graph) pendingErr() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.firstErr != nil {
		g.emitter.Emit(dgevent.Error, g.firstErr)
	}
	return g.firstErr
}

// snapshot runs one evaluation pass over every visible node and returns
// both the resulting state tree and the names of nodes still absent. A
// node's whole subtree is omitted from state while it is absent, which
// keeps "absent" (not yet available) distinguishable from a resolved
// null (present in state as JSON null). A node whose value is a composite
// with an absent or NaN leaf buried inside it (a list or object built
// from other nodes, one of which hasn't settled yet) is treated the same
// as an absent node: its own value isn't a finished answer yet either.
func (g *Graph) snapshot(ctx context.Context) (map[string]any, []string) {
	g.beginPass()

	names := g.visibleNodeNames()
	tree := map[string]any{}
	var undefined []string
	for _, name := range names {
		n := g.nodes[name]
		v := g.valueOf(ctx, n)
		if pathval.IsAbsent(v) {
			undefined = append(undefined, name)
			continue
		}
		iv := pathval.ToInterface(v)
		if !v.IsNull() && hasUndefinedLeaf(iv) {
			undefined = append(undefined, name)
			continue
		}
		tree[name] = iv
	}
	sort.Strings(undefined)
	return tree, undefined
}

// hasUndefinedLeaf reports whether a decoded JSON-shaped value, flattened
// via nodepath, contains a NaN leaf - how an absent value surfaces once
// it's embedded inside a list or object, since neither JSON nor the plain
// Go data pathval.ToInterface produces can carry cty's own unknown-value
// marker.
func hasUndefinedLeaf(iv any) bool {
	switch v := iv.(type) {
	case map[string]any:
		if len(v) == 0 {
			return false
		}
	case []any:
		if len(v) == 0 {
			return false
		}
	default:
		return false
	}
	for _, leaf := range nodepath.Flatten(iv, nil) {
		if f, ok := leaf.(float64); ok && math.IsNaN(f) {
			return true
		}
	}
	return false
}

func (g *Graph) visibleNodeNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.order))
	for _, name := range g.order {
		n := g.nodes[name]
		if !g.opts.EchoIntermediates && len(name) > 0 && name[0] == '#' {
			continue
		}
		if n.Declaration().IsHidden() && !g.opts.EchoIntermediates {
			continue
		}
		if ta, ok := n.(interface{ IsTemplate() bool }); ok && ta.IsTemplate() && !g.opts.EchoTemplates {
			continue
		}
		if name == "inputs" && !g.opts.EchoInputs {
			continue
		}
		out = append(out, name)
	}
	return out
}

// GetState returns the current state of every visible node without
// driving further evaluation; pass includeUndefined to also receive the
// list of paths still absent.
func (g *Graph) GetState(ctx context.Context, includeUndefined bool) (map[string]any, []string) {
	state, undefined := g.snapshot(ctx)
	if !includeUndefined {
		return state, nil
	}
	return state, undefined
}

// GetDNode returns the declaration for a single node by name.
func (g *Graph) GetDNode(name string) (Declaration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	return n.Declaration(), true
}

// GetDNodes returns every node's declaration in declaration order.
func (g *Graph) GetDNodes() []Declaration {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Declaration, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name].Declaration())
	}
	return out
}

// GetDEdges returns every derived dependency edge.
func (g *Graph) GetDEdges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// On registers a persistent handler for name's events, returning a
// subscription id that Off can use to remove it.
func (g *Graph) On(name dgevent.Name, h dgevent.Handler) uint64 { return g.emitter.On(name, h) }

// Once registers a handler that fires at most once for name's events.
func (g *Graph) Once(name dgevent.Name, h dgevent.Handler) uint64 { return g.emitter.Once(name, h) }

// Off removes the subscription with the given id.
func (g *Graph) Off(name dgevent.Name, id uint64) { g.emitter.Off(name, id) }

func (g *Graph) beginPass() {
	g.mu.Lock()
	g.memo = map[string]cty.Value{}
	g.computing = map[string]bool{}
	g.mu.Unlock()
}

// valueOf returns n's value for the current pass, memoized so a value
// referenced from multiple places is computed once, and guarded against
// accidental recursion (cycles are undefined behavior; a node depending
// on itself resolves to absent rather than overflowing the stack).
func (g *Graph) valueOf(ctx context.Context, n Node) cty.Value {
	name := n.Name()

	g.mu.Lock()
	if v, ok := g.memo[name]; ok {
		g.mu.Unlock()
		return v
	}
	if g.computing[name] {
		g.mu.Unlock()
		return pathval.Absent
	}
	g.computing[name] = true
	g.mu.Unlock()

	v := n.Value(ctx)

	g.mu.Lock()
	delete(g.computing, name)
	g.memo[name] = v
	g.mu.Unlock()

	return v
}

func (g *Graph) lookupLocal(id string) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

func (g *Graph) root() *Graph {
	cur := g
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

func (g *Graph) isConnected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

func (g *Graph) findTemplate(name string) (*graphNode, bool) {
	for cur := g; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		n, ok := cur.nodes[name]
		cur.mu.Unlock()
		if !ok {
			continue
		}
		if gn, ok := n.(*graphNode); ok && gn.isTemplate {
			return gn, true
		}
	}
	return nil, false
}

func (g *Graph) markDirty() {
	select {
	case g.dirty <- struct{}{}:
	default:
	}
}

func (g *Graph) fail(err error) {
	if err == nil {
		return
	}
	g.mu.Lock()
	if g.firstErr == nil {
		g.firstErr = err
	}
	g.mu.Unlock()
	g.markDirty()
}

// resolvePath is the shared value-reading protocol every node kind uses:
// split the path into a node id and an optional value sub-path, look the
// node up in the local graph only (never ancestors), and, if found,
// apply the sub-path against its materialized value. A missing node
// resolves to absent, optionally logged; it is never an error by itself.
func (g *Graph) resolvePath(ctx context.Context, raw string) (cty.Value, error) {
	nodeID, rest, hasRest, err := nodepath.Split(raw)
	if err != nil {
		return cty.NilVal, err
	}
	n, ok := g.lookupLocal(nodeID)
	if !ok {
		if g.opts.LogUndefinedPaths {
			ctxlog.FromContext(ctx).Debug("undefined path: node not found", "graph", g.name, "path", raw)
		}
		return pathval.Absent, nil
	}
	val := g.valueOf(ctx, n)
	if !hasRest {
		return val, nil
	}
	return g.applyValuePath(val, rest)
}

func (g *Graph) applyValuePath(val cty.Value, rest string) (cty.Value, error) {
	if pathval.IsAbsent(val) {
		return pathval.Absent, nil
	}
	path, err := nodepath.Parse(rest)
	if err != nil {
		return cty.NilVal, err
	}
	tree := pathval.ToInterface(val)

	if path.HasWildcard() {
		results, ok, err := nodepath.GetWildcard(tree, path)
		if err != nil {
			return cty.NilVal, err
		}
		if !ok {
			return pathval.Absent, nil
		}
		return pathval.FromInterface(results)
	}

	v, ok, err := nodepath.Get(tree, path)
	if err != nil {
		return cty.NilVal, err
	}
	if !ok {
		return pathval.Absent, nil
	}
	return pathval.FromInterface(v)
}
