package transform

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

func registerSentinel(r *Registry) {
	r.Register("isNonEmptyString", func(a Args) (cty.Value, error) {
		v, err := requireArg("isNonEmptyString", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		if pathval.IsAbsent(v) || v.IsNull() || v.Type() != cty.String {
			return cty.False, nil
		}
		return cty.BoolVal(v.AsString() != ""), nil
	})

	r.Register("isNull", func(a Args) (cty.Value, error) {
		v, err := requireArg("isNull", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.BoolVal(!pathval.IsAbsent(v) && v.IsNull()), nil
	})

	r.Register("ternary", func(a Args) (cty.Value, error) {
		testV, err := requireArg("ternary", a, "test")
		if err != nil {
			return cty.NilVal, err
		}
		if testV.Type() != cty.Bool {
			return cty.NilVal, argError("ternary", "test must be a boolean")
		}
		if testV.True() {
			return requireArg("ternary", a, "then")
		}
		return requireArg("ternary", a, "else")
	})
}
