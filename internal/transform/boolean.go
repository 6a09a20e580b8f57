package transform

import "github.com/zclconf/go-cty/cty"

func asBool(fn string, v cty.Value) (bool, error) {
	if v.Type() != cty.Bool {
		return false, argError(fn, "expected a boolean")
	}
	return v.True(), nil
}

func boolList(fn string, a Args) ([]bool, error) {
	if v, ok := a.Get("values"); ok {
		ty := v.Type()
		if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
			return nil, argError(fn, "expected a sequence")
		}
		var out []bool
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			b, err := asBool(fn, ev)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
		return out, nil
	}
	out := make([]bool, 0, len(a.Order))
	for _, v := range a.List() {
		b, err := asBool(fn, v)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func registerBoolean(r *Registry) {
	r.Register("not", func(a Args) (cty.Value, error) {
		v, err := requireArg("not", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		b, err := asBool("not", v)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.BoolVal(!b), nil
	})

	r.Register("andN", func(a Args) (cty.Value, error) {
		values, err := boolList("andN", a)
		if err != nil {
			return cty.NilVal, err
		}
		for _, b := range values {
			if !b {
				return cty.False, nil
			}
		}
		return cty.True, nil
	})

	r.Register("orN", func(a Args) (cty.Value, error) {
		values, err := boolList("orN", a)
		if err != nil {
			return cty.NilVal, err
		}
		for _, b := range values {
			if b {
				return cty.True, nil
			}
		}
		return cty.False, nil
	})
}
