package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Kind is one member of the closed node-kind union.
type Kind string

const (
	KindStatic      Kind = "static"
	KindComments    Kind = "comments"
	KindAlias       Kind = "alias"
	KindEcho        Kind = "echo"
	KindDereference Kind = "dereference"
	KindTransform   Kind = "transform"
	KindInputs      Kind = "inputs"
	KindAsync       Kind = "async"
	KindBranch      Kind = "branch"
	KindGraph       Kind = "graph"
)

// FieldSpec describes how one of a kind's path-bearing fields is shaped,
// for preprocessing (literal hoisting) and edge derivation.
type FieldSpec struct {
	// HasSubproperties marks a field shaped as a path definition (a
	// mapping from local field-name to path/literal); edges from such a
	// field carry the local field-name (or, when the field is given as a
	// sequence, the element's index) as Edge.SrcProp.
	HasSubproperties bool
	// IsList marks a field shaped as a plain positional array of
	// path/literal entries; edges from such a field carry the element's
	// index as Edge.SrcProp.
	IsList bool
}

// pathFieldsByKind lists, for every kind, the declaration fields whose
// values are path-or-literal and therefore participate in literal
// hoisting and edge derivation. The graph kind's own "graphDef" field is
// deliberately absent: a template name is resolved by ancestor lookup,
// not by node-name matching, so treating an as-yet-undeclared template
// name as a "literal" would be wrong.
var pathFieldsByKind = map[Kind]map[string]FieldSpec{
	KindStatic:      {},
	KindComments:    {},
	KindAlias:       {"mirror": {}},
	KindEcho:        {},
	KindDereference: {"objectPath": {}, "propNamePath": {}},
	KindTransform:   {"params": {HasSubproperties: true}},
	KindInputs:      {},
	KindAsync:       {},
	KindBranch:      {"test": {}, "nodeNames": {IsList: true}},
	KindGraph:       {"inputs": {HasSubproperties: true}},
}

// PathFields returns the path-bearing field descriptors for k.
func PathFields(k Kind) map[string]FieldSpec {
	return pathFieldsByKind[k]
}

// Node is one vertex of a Graph. Value is memoized per evaluation pass by
// the owning Graph, so implementations should treat every call as
// possibly recomputing from scratch.
type Node interface {
	Name() string
	Kind() Kind
	Declaration() Declaration
	Value(ctx context.Context) cty.Value
}

type nodeBase struct {
	name string
	decl Declaration
	g    *Graph
}

func (b nodeBase) Name() string          { return b.name }
func (b nodeBase) Declaration() Declaration { return b.decl }

func (g *Graph) construct(d Declaration) (Node, error) {
	base := nodeBase{name: d.Name(), decl: d, g: g}
	if base.name == "" {
		return nil, declErr("", "node declaration is missing a name")
	}
	switch Kind(d.Type()) {
	case KindStatic:
		return newStaticNode(base, d)
	case KindComments:
		return newCommentsNode(base, d)
	case KindAlias:
		return newAliasNode(base, d)
	case KindEcho:
		return newEchoNode(base, d)
	case KindDereference:
		return newDereferenceNode(base, d)
	case KindTransform:
		return newTransformNode(base, d)
	case KindInputs:
		return newInputsNode(base, d)
	case KindAsync:
		return newAsyncNode(base, d)
	case KindBranch:
		return newBranchNode(base, d)
	case KindGraph:
		return newGraphNode(base, d)
	default:
		return nil, declErrf(base.name, "unknown node type %q", d.Type())
	}
}
