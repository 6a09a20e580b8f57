package graph

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

// branchNode picks one of nodeNames by matching a resolved test value
// against a fixed list of case values, falling back to the case literally
// named "_default_" when no case matches. Case values are raw JSON
// literals from the declaration itself, not paths.
type branchNode struct {
	nodeBase
	testPath  string
	cases     []any
	nodeNames PathDef
}

func newBranchNode(base nodeBase, d Declaration) (Node, error) {
	testPath, ok := d.str("test")
	if !ok || testPath == "" {
		return nil, declErr(base.name, "branch node requires a string 'test' path")
	}
	casesRaw, ok := d["cases"].([]any)
	if !ok {
		return nil, declErr(base.name, "branch node requires an array 'cases'")
	}
	nodeNamesRaw, ok := d["nodeNames"].([]any)
	if !ok || len(nodeNamesRaw) != len(casesRaw) {
		return nil, declErr(base.name, "branch node requires a 'nodeNames' array with one entry per case")
	}
	nodeNames := make(PathDef, len(nodeNamesRaw))
	for i, item := range nodeNamesRaw {
		s, ok := item.(string)
		if !ok {
			return nil, declErr(base.name, "branch node 'nodeNames' entries must be path strings")
		}
		nodeNames[i] = PathDefEntry{Key: s, Raw: s}
	}
	return &branchNode{nodeBase: base, testPath: testPath, cases: casesRaw, nodeNames: nodeNames}, nil
}

func (n *branchNode) Kind() Kind { return KindBranch }

func (n *branchNode) Value(ctx context.Context) cty.Value {
	testV, err := n.g.resolvePath(ctx, n.testPath)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	if pathval.IsAbsent(testV) {
		return pathval.Absent
	}

	matched := -1
	fallback := -1
	for i, c := range n.cases {
		if s, ok := c.(string); ok && s == "_default_" {
			fallback = i
			continue
		}
		caseV, err := pathval.FromInterface(c)
		if err != nil {
			n.g.fail(declErrf(n.name, "invalid case value at index %d: %s", i, err))
			return pathval.Absent
		}
		eq, err := pathval.Equal(testV, caseV)
		if err != nil {
			n.g.fail(err)
			return pathval.Absent
		}
		if eq {
			matched = i
			break
		}
	}
	if matched == -1 {
		matched = fallback
	}
	if matched == -1 {
		return pathval.Absent
	}

	chosen := n.nodeNames[matched].PathString()
	v, err := n.g.resolvePath(ctx, chosen)
	if err != nil {
		n.g.fail(err)
		return pathval.Absent
	}
	return v
}
