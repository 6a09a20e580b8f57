// Package dgerr defines the typed error kinds a graph evaluation can fail
// with. Each kind carries the structured fields callers need to assert
// against with errors.As, rather than relying on sentinel error values or
// string matching.
package dgerr

import "fmt"

// DeclarationError reports a malformed node declaration: an unknown node
// kind, a missing required field, a name collision, or an input name that
// collides with a non-echo node.
type DeclarationError struct {
	Node string
	Msg  string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("declaration error in node %q: %s", e.Node, e.Msg)
}

// MissingInputError reports that Run was called without a required
// top-level input.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input %q", e.Name)
}

// ResolutionError reports that a subgraph could not resolve a node or
// pass-through input for an expected reference.
type ResolutionError struct {
	Node string
	Path string
	Msg  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %q for node %q: %s", e.Path, e.Node, e.Msg)
}

// PathError reports a malformed path or an addressing operation that
// violates the wildcard/segment rules: more than one wildcard, a wildcard
// applied to a non-sequence, or setAtPath traversing a missing intermediate
// segment.
type PathError struct {
	Path string
	Msg  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Msg)
}

// TransformError reports that a transform function failed, either by
// returning an error itself or via an argument-shape mismatch (e.g.
// vectorOp given unequal-length sequences).
type TransformError struct {
	Function string
	Msg      string
	Err      error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %q failed: %v", e.Function, e.Err)
	}
	return fmt.Sprintf("transform %q failed: %s", e.Function, e.Msg)
}

func (e *TransformError) Unwrap() error { return e.Err }

// SyncRunTimeout reports that a graph's Run exceeded an optional
// caller-supplied timeout before reaching a fixpoint.
type SyncRunTimeout struct {
	Graph string
	After string
}

func (e *SyncRunTimeout) Error() string {
	return fmt.Sprintf("graph %q run timed out after %s", e.Graph, e.After)
}
