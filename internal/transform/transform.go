// Package transform implements the process-wide, read-only name-to-function
// table used by the graph engine's transform node kind. Functions are
// pure: given a resolved argument mapping of cty values, they return a
// value or an error. Each entry is a plain Go function (Impl) registered
// by name, built once at startup and never mutated afterward.
package transform

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/dgerr"
)

// Args is the resolved argument mapping passed to a transform Impl. Order
// preserves the declaration order of the node's params pathDef, which
// matters for positional transforms like concat and concatArrays where
// params were declared as a bare sequence of paths (key == path).
type Args struct {
	Order  []string
	Values map[string]cty.Value
}

// Get returns the resolved value for key, and whether it was present.
func (a Args) Get(key string) (cty.Value, bool) {
	v, ok := a.Values[key]
	return v, ok
}

// List returns every resolved value in declaration order.
func (a Args) List() []cty.Value {
	out := make([]cty.Value, len(a.Order))
	for i, k := range a.Order {
		out[i] = a.Values[k]
	}
	return out
}

// Impl is the Go implementation behind a named transform.
type Impl func(args Args) (cty.Value, error)

// Function pairs a transform name with its implementation. Dispatch is by
// declared name; arguments are checked by each Impl itself, not by a typed
// parameter signature.
type Function struct {
	Name string
	impl Impl
}

// Call invokes the transform. Argument-shape failures (e.g. vectorOp given
// unequal-length sequences) and Impl-raised errors are both reported as
// dgerr.TransformError.
func (f Function) Call(args Args) (cty.Value, error) {
	v, err := f.impl(args)
	if err != nil {
		if _, ok := err.(*dgerr.TransformError); ok {
			return cty.NilVal, err
		}
		return cty.NilVal, &dgerr.TransformError{Function: f.Name, Err: err}
	}
	return v, nil
}

// Registry is a name-indexed table of transform Functions.
type Registry struct {
	fns map[string]Function
}

// NewRegistry returns an empty, mutable registry.
func NewRegistry() *Registry {
	return &Registry{fns: map[string]Function{}}
}

// Register adds or replaces the function under name.
func (r *Registry) Register(name string, impl Impl) {
	r.fns[name] = Function{Name: name, impl: impl}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, bool) {
	f, ok := r.fns[name]
	return f, ok
}

// Names returns every registered function name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for n := range r.fns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func argError(fn, msg string) error {
	return &dgerr.TransformError{Function: fn, Msg: msg}
}

func requireArg(fn string, args Args, key string) (cty.Value, error) {
	v, ok := args.Get(key)
	if !ok {
		return cty.NilVal, argError(fn, fmt.Sprintf("missing required argument %q", key))
	}
	return v, nil
}
