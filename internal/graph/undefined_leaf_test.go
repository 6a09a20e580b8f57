package graph

import "testing"

func TestHasUndefinedLeafDetectsNestedNaN(t *testing.T) {
	tree := map[string]any{
		"amount": 4.0,
		"factor": nan(),
	}
	if !hasUndefinedLeaf(tree) {
		t.Fatal("expected a NaN leaf nested in an object to be reported undefined")
	}
}

func TestHasUndefinedLeafDetectsNaNInsideList(t *testing.T) {
	tree := []any{1.0, 2.0, nan()}
	if !hasUndefinedLeaf(tree) {
		t.Fatal("expected a NaN leaf nested in a list to be reported undefined")
	}
}

func TestHasUndefinedLeafIgnoresResolvedComposites(t *testing.T) {
	tree := map[string]any{
		"amount": 4.0,
		"nested": map[string]any{"a": 1.0, "b": "hello"},
		"list":   []any{1.0, 2.0, 3.0},
		"empty":  map[string]any{},
	}
	if hasUndefinedLeaf(tree) {
		t.Fatal("did not expect a fully resolved composite to be reported undefined")
	}
}

func TestHasUndefinedLeafIgnoresRealNull(t *testing.T) {
	tree := map[string]any{"a": nil}
	if hasUndefinedLeaf(tree) {
		t.Fatal("a resolved null leaf is not the same as an absent one")
	}
}

func TestHasUndefinedLeafIgnoresPlainScalar(t *testing.T) {
	if hasUndefinedLeaf("hello") {
		t.Fatal("a bare scalar is handled by the top-level pathval.IsAbsent check, not this helper")
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
