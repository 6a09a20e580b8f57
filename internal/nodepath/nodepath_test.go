package nodepath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dgraph/internal/nodepath"
)

func TestParseAndString(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want nodepath.Path
	}{
		{
			name: "single node id",
			raw:  "config",
			want: nodepath.Path{{Kind: nodepath.Field, Field: "config"}},
		},
		{
			name: "field chain",
			raw:  "config.limits.max",
			want: nodepath.Path{
				{Kind: nodepath.Field, Field: "config"},
				{Kind: nodepath.Field, Field: "limits"},
				{Kind: nodepath.Field, Field: "max"},
			},
		},
		{
			name: "integer segment",
			raw:  "items.0.amount",
			want: nodepath.Path{
				{Kind: nodepath.Field, Field: "items"},
				{Kind: nodepath.Index, Index: 0},
				{Kind: nodepath.Field, Field: "amount"},
			},
		},
		{
			name: "wildcard segment",
			raw:  "items.*.amount",
			want: nodepath.Path{
				{Kind: nodepath.Field, Field: "items"},
				{Kind: nodepath.Wildcard},
				{Kind: nodepath.Field, Field: "amount"},
			},
		},
		{
			name: "escaped dot in field name",
			raw:  `labels.a\.b`,
			want: nodepath.Path{
				{Kind: nodepath.Field, Field: "labels"},
				{Kind: nodepath.Field, Field: "a.b"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := nodepath.Parse(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.raw, got.String())
		})
	}
}

func TestParseRejectsMultipleWildcards(t *testing.T) {
	_, err := nodepath.Parse("a.*.b.*.c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wildcard")
}

func TestParseRejectsEmptySegments(t *testing.T) {
	_, err := nodepath.Parse("a..b")
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	nodeID, rest, hasRest, err := nodepath.Split("account.balance.amount")
	require.NoError(t, err)
	assert.Equal(t, "account", nodeID)
	assert.True(t, hasRest)
	assert.Equal(t, "balance.amount", rest)

	nodeID, rest, hasRest, err = nodepath.Split("account")
	require.NoError(t, err)
	assert.Equal(t, "account", nodeID)
	assert.False(t, hasRest)
	assert.Empty(t, rest)
}

func TestGet(t *testing.T) {
	tree := map[string]any{
		"account": map[string]any{
			"balance": map[string]any{
				"amount": 42.0,
			},
		},
	}
	path, err := nodepath.Parse("account.balance.amount")
	require.NoError(t, err)

	v, ok, err := nodepath.Get(tree, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42.0, v)

	missing, err := nodepath.Parse("account.balance.missing")
	require.NoError(t, err)
	_, ok, err = nodepath.Get(tree, missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetWildcard(t *testing.T) {
	tree := map[string]any{
		"items": []any{
			map[string]any{"amount": 1.0},
			map[string]any{"amount": 2.0},
			map[string]any{"amount": 3.0},
		},
	}
	path, err := nodepath.Parse("items.*.amount")
	require.NoError(t, err)

	values, ok, err := nodepath.GetWildcard(tree, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, values)
}

func TestGetWildcardOnNonSequenceIsAnError(t *testing.T) {
	tree := map[string]any{"items": "not a sequence"}
	path, err := nodepath.Parse("items.*.amount")
	require.NoError(t, err)

	_, _, err = nodepath.GetWildcard(tree, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-sequence")
}

func TestGetWildcardAbsentSequence(t *testing.T) {
	tree := map[string]any{}
	path, err := nodepath.Parse("items.*.amount")
	require.NoError(t, err)

	_, ok, err := nodepath.GetWildcard(tree, path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	root := map[string]any{}
	path, err := nodepath.Parse("config.limits.max")
	require.NoError(t, err)

	require.NoError(t, nodepath.Set(root, path, 10.0))

	v, ok, err := nodepath.Get(root, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func TestSetMissingIntermediateIndexIsAnError(t *testing.T) {
	root := map[string]any{"items": []any{}}
	path, err := nodepath.Parse("items.0.amount")
	require.NoError(t, err)

	err = nodepath.Set(root, path, 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing intermediate segment")
}

func TestCollectAndFlattenRoundTrip(t *testing.T) {
	tree := map[string]any{
		"a": map[string]any{"b": 1.0, "c": 2.0},
		"d": []any{10.0, 20.0},
	}

	paths := nodepath.Collect(tree)
	assert.Equal(t, []string{"a.b", "a.c", "d.0", "d.1"}, paths)

	flat := nodepath.Flatten(tree, nil)
	assert.Equal(t, 1.0, flat["a.b"])
	assert.Equal(t, 2.0, flat["a.c"])
	assert.Equal(t, 10.0, flat["d.0"])
	assert.Equal(t, 20.0, flat["d.1"])

	expanded, err := nodepath.Expand(flat)
	require.NoError(t, err)
	assert.Equal(t, tree, expanded)
}

func TestFlattenKeepFilter(t *testing.T) {
	tree := map[string]any{"a": 1.0, "b": 2.0}
	flat := nodepath.Flatten(tree, func(path string) bool { return path == "a" })
	assert.Equal(t, map[string]any{"a": 1.0}, flat)
}
