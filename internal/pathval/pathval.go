// Package pathval bridges the graph engine's internal value representation
// (cty.Value) with the plain JSON-shaped data (map[string]any, []any,
// string, float64, bool, nil) that node declarations, inputs, and the
// nodepath package operate on.
package pathval

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Null is the resolved "null" sentinel a dereference node returns when its
// lookup succeeds but yields nothing — distinct from Absent.
var Null = cty.NullVal(cty.DynamicPseudoType)

// Absent is the "not yet available" sentinel value. IsAbsent also treats
// unknown values and NaN numbers as absent, so prefer IsAbsent for checks;
// Absent is the canonical value to return when a node has nothing yet.
var Absent = cty.NilVal

// IsAbsent reports whether v is the "not yet available" sentinel: the zero
// cty.Value, an unknown value, or a NaN number leaf (NaN is treated as
// absent too, since a driver stall or an incomplete computation both tend
// to surface as NaN before they surface as a real value).
func IsAbsent(v cty.Value) bool {
	if v == cty.NilVal {
		return true
	}
	if !v.IsWhollyKnown() {
		return true
	}
	if !v.IsNull() && v.Type() == cty.Number {
		f, _ := v.AsBigFloat().Float64()
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}

// FromInterface converts a plain Go value, as decoded from JSON, into a
// cty.Value without requiring a fixed schema, using cty/json's implied-type
// inference.
func FromInterface(v any) (cty.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(raw, ty)
}

// ToInterface converts a cty.Value back into plain Go data, the inverse of
// FromInterface. Absent and null values both convert to nil.
func ToInterface(v cty.Value) any {
	if IsAbsent(v) {
		return nil
	}
	if v.IsNull() {
		return nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		out := []any{}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ToInterface(ev))
		}
		return out
	case ty.IsObjectType(), ty.IsMapType():
		out := map[string]any{}
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			out[kv.AsString()] = ToInterface(ev)
		}
		return out
	default:
		return nil
	}
}

// ObjectVal builds a cty object value from a map of already-converted
// members, tolerating an empty map (cty.EmptyObjectVal).
func ObjectVal(members map[string]cty.Value) cty.Value {
	if len(members) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(members)
}

// Equal compares two possibly differently-typed cty values for equality,
// converting b to a's type (or both to their unified type) via cty/convert
// before comparing, used by branch's cases[i] == test and by the eq
// transform. Absent operands are never equal to anything, including each
// other.
func Equal(a, b cty.Value) (bool, error) {
	if IsAbsent(a) || IsAbsent(b) {
		return false, nil
	}
	ty, _ := convert.UnifyUnsafe([]cty.Type{a.Type(), b.Type()})
	if ty == cty.NilType {
		return false, nil
	}
	ca, err := convert.Convert(a, ty)
	if err != nil {
		return false, nil
	}
	cb, err := convert.Convert(b, ty)
	if err != nil {
		return false, nil
	}
	eqVal := ca.Equals(cb)
	if eqVal.IsNull() || !eqVal.IsKnown() {
		return false, nil
	}
	return eqVal.True(), nil
}

// SortedKeys returns the keys of members in sorted order.
func SortedKeys(members map[string]cty.Value) []string {
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
