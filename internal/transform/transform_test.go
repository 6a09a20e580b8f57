package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/transform"
)

func call(t *testing.T, r *transform.Registry, name string, order []string, values map[string]cty.Value) cty.Value {
	t.Helper()
	fn, ok := r.Lookup(name)
	require.True(t, ok, "function %q must be registered", name)
	v, err := fn.Call(transform.Args{Order: order, Values: values})
	require.NoError(t, err)
	return v
}

func TestDefaultRegistryHasEveryNamedFunction(t *testing.T) {
	r := transform.Default()
	names := []string{
		"add", "sub", "mult", "div", "addFactor", "subFactor", "round", "ceil",
		"floor", "min", "max", "clamp", "roundCurrency", "gt", "lt", "gte",
		"lte", "eq", "not", "andN", "orN", "addN", "concat", "concatArrays",
		"filter", "filterNot", "find", "map", "vectorOp", "pick", "omit",
		"merge", "box", "addProp", "isNonEmptyString", "isNull", "ternary",
		"includes",
	}
	for _, name := range names {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "expected %q to be registered", name)
	}
}

func TestMultiplyExample(t *testing.T) {
	r := transform.Default()
	v := call(t, r, "mult", []string{"amt", "factor"}, map[string]cty.Value{
		"amt":    cty.NumberFloatVal(4),
		"factor": cty.NumberFloatVal(3),
	})
	assert.Equal(t, cty.NumberFloatVal(12), v)
}

func TestConcatPreservesDeclarationOrder(t *testing.T) {
	r := transform.Default()
	v := call(t, r, "concat", []string{"staticNode", "inputs.stringValue"}, map[string]cty.Value{
		"staticNode":         cty.StringVal("hello, "),
		"inputs.stringValue": cty.StringVal("world"),
	})
	assert.Equal(t, cty.StringVal("hello, world"), v)
}

func TestVectorOpRejectsUnequalLength(t *testing.T) {
	r := transform.Default()
	fn, ok := r.Lookup("vectorOp")
	require.True(t, ok)

	_, err := fn.Call(transform.Args{
		Order: []string{"a", "b", "op"},
		Values: map[string]cty.Value{
			"a":  cty.TupleVal([]cty.Value{cty.NumberFloatVal(1), cty.NumberFloatVal(2)}),
			"b":  cty.TupleVal([]cty.Value{cty.NumberFloatVal(1)}),
			"op": cty.StringVal("add"),
		},
	})
	require.Error(t, err)
}

func TestMapDispatchesNamedTransformPerElement(t *testing.T) {
	r := transform.Default()
	fn, ok := r.Lookup("map")
	require.True(t, ok)

	v, err := fn.Call(transform.Args{
		Order: []string{"collection", "fn"},
		Values: map[string]cty.Value{
			"collection": cty.TupleVal([]cty.Value{cty.NumberFloatVal(1), cty.NumberFloatVal(2)}),
			"fn":         cty.StringVal("ceil"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, cty.TupleVal([]cty.Value{cty.NumberFloatVal(1), cty.NumberFloatVal(2)}), v)
}

func TestUnknownFunctionFailsLookup(t *testing.T) {
	r := transform.Default()
	_, ok := r.Lookup("doesNotExist")
	assert.False(t, ok)
}
