package pathval_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

func TestIsAbsent(t *testing.T) {
	assert.True(t, pathval.IsAbsent(pathval.Absent))
	assert.True(t, pathval.IsAbsent(cty.UnknownVal(cty.String)))
	assert.True(t, pathval.IsAbsent(cty.NumberFloatVal(math.NaN())))
	assert.False(t, pathval.IsAbsent(pathval.Null))
	assert.False(t, pathval.IsAbsent(cty.StringVal("x")))
	assert.False(t, pathval.IsAbsent(cty.NumberFloatVal(0)))
}

func TestFromInterfaceAndToInterfaceRoundTrip(t *testing.T) {
	in := map[string]any{
		"name":  "widget",
		"count": 3.0,
		"tags":  []any{"a", "b"},
		"on":    true,
		"meta":  nil,
	}
	v, err := pathval.FromInterface(in)
	require.NoError(t, err)

	out := pathval.ToInterface(v)
	assert.Equal(t, in, out)
}

func TestToInterfaceAbsentAndNullAreNil(t *testing.T) {
	assert.Nil(t, pathval.ToInterface(pathval.Absent))
	assert.Nil(t, pathval.ToInterface(pathval.Null))
}

func TestEqualConvertsAcrossTypes(t *testing.T) {
	a, err := pathval.FromInterface(1.0)
	require.NoError(t, err)
	b, err := pathval.FromInterface("1")
	require.NoError(t, err)

	eq, err := pathval.Equal(a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	// A list and a bool have no common type to unify to, so Equal
	// reports them unequal rather than erroring.
	list, err := pathval.FromInterface([]any{"x"})
	require.NoError(t, err)
	flag, err := pathval.FromInterface(true)
	require.NoError(t, err)
	eq, err = pathval.Equal(list, flag)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqualAbsentNeverMatches(t *testing.T) {
	v, err := pathval.FromInterface("x")
	require.NoError(t, err)

	eq, err := pathval.Equal(pathval.Absent, v)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = pathval.Equal(pathval.Absent, pathval.Absent)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestSortedKeys(t *testing.T) {
	members := map[string]cty.Value{
		"b": cty.StringVal("2"),
		"a": cty.StringVal("1"),
		"c": cty.StringVal("3"),
	}
	assert.Equal(t, []string{"a", "b", "c"}, pathval.SortedKeys(members))
}

func TestObjectValEmpty(t *testing.T) {
	v := pathval.ObjectVal(map[string]cty.Value{})
	assert.True(t, v.RawEquals(cty.EmptyObjectVal))
}
