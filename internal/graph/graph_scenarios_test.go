package graph_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/dgerr"
	"github.com/vk/dgraph/internal/dgraphtest"
	"github.com/vk/dgraph/internal/graph"
)

func TestConcatAndMultiply(t *testing.T) {
	decl := `[
		{"name":"staticNode","type":"static","value":"hello, "},
		{"name":"aliasNode","type":"alias","mirror":"inputs.stringValue"},
		{"name":"concatExample","type":"transform","fn":"concat","params":["staticNode","inputs.stringValue"]},
		{"name":"multiplyExample","type":"transform","fn":"mult","params":{"amt":"inputs.numberValue","factor":3}}
	]`

	deferred := graph.NewDeferred()
	go func() {
		time.Sleep(20 * time.Millisecond)
		deferred.Resolve(cty.StringVal("world"))
	}()

	state, _, err := dgraphtest.RunJSON(t, decl, map[string]any{
		"stringValue": deferred,
		"numberValue": 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello, ", state["staticNode"])
	assert.Equal(t, "world", state["aliasNode"])
	assert.Equal(t, "hello, world", state["concatExample"])
	assert.Equal(t, 12.0, state["multiplyExample"])
}

func TestRunFailsOnMissingInput(t *testing.T) {
	decl := `[
		{"name":"greeting","type":"alias","mirror":"inputs.name"}
	]`

	_, _, err := dgraphtest.RunJSON(t, decl, map[string]any{})

	var missing *dgerr.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "name", missing.Name)
}

func TestRunFailsOnInputNameCollisionWithNonEchoNode(t *testing.T) {
	decl := `[
		{"name":"name","type":"static","value":"fixed"}
	]`

	_, _, err := dgraphtest.RunJSON(t, decl, map[string]any{"name": "world"})

	var declErr *dgerr.DeclarationError
	require.True(t, errors.As(err, &declErr))
	assert.Equal(t, "name", declErr.Node)
}

func TestRunAllowsInputNameSharedWithEchoNode(t *testing.T) {
	decl := `[
		{"name":"name","type":"echo"}
	]`

	state, _, err := dgraphtest.RunJSON(t, decl, map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "world", state["name"])
}

func TestConcatParamsPreserveDeclarationOrder(t *testing.T) {
	decl := `[
		{"name":"third","type":"static","value":"c"},
		{"name":"first","type":"static","value":"a"},
		{"name":"second","type":"static","value":"b"},
		{"name":"joined","type":"transform","fn":"concat","params":["third","first","second"]}
	]`

	state, _, err := dgraphtest.RunJSON(t, decl, nil)
	require.NoError(t, err)
	assert.Equal(t, "cab", state["joined"])
}

func TestDereferenceFailsOnMissingReferencedNode(t *testing.T) {
	decl := `[
		{"name":"key","type":"static","value":"a"},
		{"name":"lookup","type":"dereference","objectPath":"doesNotExist","propNamePath":"key"}
	]`

	_, _, err := dgraphtest.RunJSON(t, decl, nil)

	var resErr *dgerr.ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "lookup", resErr.Node)
}

func TestWildcardExtraction(t *testing.T) {
	decl := `[
		{"name":"arr","type":"alias","mirror":"inputs.things"},
		{"name":"amounts","type":"alias","mirror":"arr.*.amount"}
	]`

	state, _, err := dgraphtest.RunJSON(t, decl, map[string]any{
		"things": []any{
			map[string]any{"amount": 4.0},
			map[string]any{"amount": 2.0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{4.0, 2.0}, state["amounts"])
}

func TestDereferenceNullSentinel(t *testing.T) {
	decl := `[
		{"name":"obj","type":"static","value":{"a":1}},
		{"name":"key","type":"static","value":"b"},
		{"name":"lookup","type":"dereference","objectPath":"obj","propNamePath":"key"}
	]`

	state, _, err := dgraphtest.RunJSON(t, decl, nil)
	require.NoError(t, err)
	assert.Contains(t, state, "lookup")
	assert.Nil(t, state["lookup"])
}

func TestSubgraphMap(t *testing.T) {
	decl := `[
		{"name":"mapItem","type":"graph","isTemplate":true,"graphDef":[
			{"name":"foo","type":"transform","fn":"mult","params":{"amt":"inputs.bar","factor":5}}
		]},
		{"name":"result","type":"graph","graphDef":"mapItem","collectionMode":"map","inputs":"inputs.itemsToBeMapped.*"}
	]`

	state, _, err := dgraphtest.RunJSON(t, decl, map[string]any{
		"itemsToBeMapped": []any{
			map[string]any{"bar": 2.0},
			map[string]any{"bar": 3.0},
			map[string]any{"bar": 5.0},
		},
	})
	require.NoError(t, err)

	results, ok := state["result"].([]any)
	require.True(t, ok, "expected result to be a sequence, got %T", state["result"])
	require.Len(t, results, 3)
	assert.Equal(t, map[string]any{"foo": 10.0}, results[0])
	assert.Equal(t, map[string]any{"foo": 15.0}, results[1])
	assert.Equal(t, map[string]any{"foo": 25.0}, results[2])
}

func TestLiteralInference(t *testing.T) {
	decls, err := dgraphtest.DeclarationsFromRaw([]any{
		map[string]any{
			"name": "t", "type": "transform", "fn": "mult",
			"params": map[string]any{"amt": "inputs.x", "factor": 3.0},
		},
	})
	require.NoError(t, err)

	g, err := graph.New(decls, "root", nil)
	require.NoError(t, err)

	found := false
	for _, d := range g.GetDNodes() {
		if d.Name() == "#literal#t#factor" {
			found = true
			assert.Equal(t, 3.0, d["value"])
		}
	}
	assert.True(t, found, "expected a synthesized literal node for the inferred factor")

	state, err := g.Run(context.Background(), map[string]any{"x": 4.0})
	require.NoError(t, err)
	assert.Equal(t, 12.0, state["t"])
}

func TestBranchWithDefault(t *testing.T) {
	decl := `[
		{"name":"nodeA","type":"static","value":"A"},
		{"name":"nodeB","type":"static","value":"B"},
		{"name":"nodeC","type":"static","value":"C"},
		{"name":"b","type":"branch","test":"inputs.mode","cases":["a","b","_default_"],"nodeNames":["nodeA","nodeB","nodeC"]}
	]`

	state, _, err := dgraphtest.RunJSON(t, decl, map[string]any{"mode": "z"})
	require.NoError(t, err)
	assert.Equal(t, "C", state["b"])
}

func TestHiddenNodesAreOmittedFromDefaultState(t *testing.T) {
	decl := `[
		{"name":"visible","type":"static","value":1},
		{"name":"#internal","type":"static","value":2,"isHidden":true}
	]`
	state, _, err := dgraphtest.RunJSON(t, decl, nil)
	require.NoError(t, err)
	assert.Contains(t, state, "visible")
	assert.NotContains(t, state, "#internal")
}

func TestEdgesMirrorDependencyReads(t *testing.T) {
	decls, err := dgraphtest.DeclarationsFromRaw([]any{
		map[string]any{"name": "a", "type": "static", "value": 1.0},
		map[string]any{"name": "b", "type": "alias", "mirror": "a"},
	})
	require.NoError(t, err)

	g, err := graph.New(decls, "root", nil)
	require.NoError(t, err)

	var found bool
	for _, e := range g.GetDEdges() {
		if e.Src == "b" && e.Dst == "a" {
			found = true
		}
	}
	assert.True(t, found, "expected an edge from b to a")
}
