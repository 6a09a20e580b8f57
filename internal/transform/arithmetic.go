package transform

import (
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

func asFloat(fn string, v cty.Value) (float64, error) {
	if v.Type() != cty.Number {
		return 0, argError(fn, "expected a number")
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, argError(fn, err.Error())
	}
	return f, nil
}

func numArg(fn string, args Args, key string) (float64, error) {
	v, err := requireArg(fn, args, key)
	if err != nil {
		return 0, err
	}
	return asFloat(fn, v)
}

func numArgOr(fn string, args Args, key string, def float64) (float64, error) {
	v, ok := args.Get(key)
	if !ok {
		return def, nil
	}
	return asFloat(fn, v)
}

func registerArithmetic(r *Registry) {
	r.Register("add", func(a Args) (cty.Value, error) {
		x, err := numArg("add", a, "a")
		if err != nil {
			return cty.NilVal, err
		}
		y, err := numArg("add", a, "b")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(x + y), nil
	})

	r.Register("sub", func(a Args) (cty.Value, error) {
		x, err := numArg("sub", a, "a")
		if err != nil {
			return cty.NilVal, err
		}
		y, err := numArg("sub", a, "b")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(x - y), nil
	})

	r.Register("mult", func(a Args) (cty.Value, error) {
		amt, err := numArg("mult", a, "amt")
		if err != nil {
			return cty.NilVal, err
		}
		factor, err := numArg("mult", a, "factor")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(amt * factor), nil
	})

	r.Register("div", func(a Args) (cty.Value, error) {
		amt, err := numArg("div", a, "amt")
		if err != nil {
			return cty.NilVal, err
		}
		factor, err := numArg("div", a, "factor")
		if err != nil {
			return cty.NilVal, err
		}
		if factor == 0 {
			return cty.NilVal, argError("div", "division by zero")
		}
		return cty.NumberFloatVal(amt / factor), nil
	})

	r.Register("addFactor", func(a Args) (cty.Value, error) {
		amt, err := numArg("addFactor", a, "amt")
		if err != nil {
			return cty.NilVal, err
		}
		factor, err := numArg("addFactor", a, "factor")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(amt + factor), nil
	})

	r.Register("subFactor", func(a Args) (cty.Value, error) {
		amt, err := numArg("subFactor", a, "amt")
		if err != nil {
			return cty.NilVal, err
		}
		factor, err := numArg("subFactor", a, "factor")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(amt - factor), nil
	})

	r.Register("round", func(a Args) (cty.Value, error) {
		v, err := numArg("round", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(math.Round(v)), nil
	})

	r.Register("ceil", func(a Args) (cty.Value, error) {
		v, err := numArg("ceil", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(math.Ceil(v)), nil
	})

	r.Register("floor", func(a Args) (cty.Value, error) {
		v, err := numArg("floor", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(math.Floor(v)), nil
	})

	r.Register("min", func(a Args) (cty.Value, error) {
		if len(a.Order) == 0 {
			return cty.NilVal, argError("min", "requires at least one argument")
		}
		values := a.List()
		best, err := asFloat("min", values[0])
		if err != nil {
			return cty.NilVal, err
		}
		for _, v := range values[1:] {
			f, err := asFloat("min", v)
			if err != nil {
				return cty.NilVal, err
			}
			if f < best {
				best = f
			}
		}
		return cty.NumberFloatVal(best), nil
	})

	r.Register("max", func(a Args) (cty.Value, error) {
		if len(a.Order) == 0 {
			return cty.NilVal, argError("max", "requires at least one argument")
		}
		values := a.List()
		best, err := asFloat("max", values[0])
		if err != nil {
			return cty.NilVal, err
		}
		for _, v := range values[1:] {
			f, err := asFloat("max", v)
			if err != nil {
				return cty.NilVal, err
			}
			if f > best {
				best = f
			}
		}
		return cty.NumberFloatVal(best), nil
	})

	r.Register("clamp", func(a Args) (cty.Value, error) {
		v, err := numArg("clamp", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		lo, err := numArg("clamp", a, "min")
		if err != nil {
			return cty.NilVal, err
		}
		hi, err := numArg("clamp", a, "max")
		if err != nil {
			return cty.NilVal, err
		}
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		return cty.NumberFloatVal(v), nil
	})

	r.Register("roundCurrency", func(a Args) (cty.Value, error) {
		v, err := numArg("roundCurrency", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberFloatVal(math.Round(v*100) / 100), nil
	})

	r.Register("addN", func(a Args) (cty.Value, error) {
		values, err := numberList("addN", a)
		if err != nil {
			return cty.NilVal, err
		}
		sum := 0.0
		for _, f := range values {
			sum += f
		}
		return cty.NumberFloatVal(sum), nil
	})
}

// numberList decodes an argument named "values" (a sequence) into floats,
// falling back to every declared positional argument when "values" is
// absent, matching the array-shaped pathDef convention used by concat.
func numberList(fn string, a Args) ([]float64, error) {
	if v, ok := a.Get("values"); ok {
		return floatsFromSequence(fn, v)
	}
	out := make([]float64, 0, len(a.Order))
	for _, v := range a.List() {
		f, err := asFloat(fn, v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func floatsFromSequence(fn string, v cty.Value) ([]float64, error) {
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, argError(fn, "expected a sequence")
	}
	var out []float64
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		f, err := asFloat(fn, ev)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
