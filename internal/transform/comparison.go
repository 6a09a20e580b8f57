package transform

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

func registerComparison(r *Registry) {
	r.Register("gt", numCompare("gt", func(x, y float64) bool { return x > y }))
	r.Register("lt", numCompare("lt", func(x, y float64) bool { return x < y }))
	r.Register("gte", numCompare("gte", func(x, y float64) bool { return x >= y }))
	r.Register("lte", numCompare("lte", func(x, y float64) bool { return x <= y }))

	r.Register("eq", func(a Args) (cty.Value, error) {
		x, err := requireArg("eq", a, "a")
		if err != nil {
			return cty.NilVal, err
		}
		y, err := requireArg("eq", a, "b")
		if err != nil {
			return cty.NilVal, err
		}
		eq, err := pathval.Equal(x, y)
		if err != nil {
			return cty.NilVal, argError("eq", err.Error())
		}
		return cty.BoolVal(eq), nil
	})

	r.Register("includes", func(a Args) (cty.Value, error) {
		collection, err := requireArg("includes", a, "collection")
		if err != nil {
			return cty.NilVal, err
		}
		item, err := requireArg("includes", a, "item")
		if err != nil {
			return cty.NilVal, err
		}
		ty := collection.Type()
		if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
			return cty.NilVal, argError("includes", "collection must be a sequence")
		}
		for it := collection.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			eq, err := pathval.Equal(ev, item)
			if err == nil && eq {
				return cty.True, nil
			}
		}
		return cty.False, nil
	})
}

func numCompare(name string, cmp func(x, y float64) bool) Impl {
	return func(a Args) (cty.Value, error) {
		x, err := numArg(name, a, "a")
		if err != nil {
			return cty.NilVal, err
		}
		y, err := numArg(name, a, "b")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.BoolVal(cmp(x, y)), nil
	}
}
