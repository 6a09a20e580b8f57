package transform

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/dgraph/internal/pathval"
)

func sequenceElements(fn string, v cty.Value) ([]cty.Value, error) {
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, argError(fn, "expected a sequence")
	}
	var out []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev)
	}
	return out, nil
}

func stringOf(v cty.Value) string {
	if v.Type() == cty.String {
		return v.AsString()
	}
	return fmt.Sprint(pathval.ToInterface(v))
}

// registerCollection registers the collection transforms onto r. filter,
// filterNot, find, map, and vectorOp all dispatch to another named
// transform in r per element, so their closures capture r itself. filter,
// filterNot, find, and map pass each element under the argument name
// "value"; vectorOp passes each pair as "a" and "b".
func registerCollection(r *Registry) {
	r.Register("concat", func(a Args) (cty.Value, error) {
		out := ""
		for _, v := range a.List() {
			out += stringOf(v)
		}
		return cty.StringVal(out), nil
	})

	r.Register("concatArrays", func(a Args) (cty.Value, error) {
		var out []cty.Value
		for _, v := range a.List() {
			elems, err := sequenceElements("concatArrays", v)
			if err != nil {
				return cty.NilVal, err
			}
			out = append(out, elems...)
		}
		if len(out) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(out), nil
	})

	r.Register("map", func(a Args) (cty.Value, error) {
		collectionV, err := requireArg("map", a, "collection")
		if err != nil {
			return cty.NilVal, err
		}
		fnV, err := requireArg("map", a, "fn")
		if err != nil {
			return cty.NilVal, err
		}
		if fnV.Type() != cty.String {
			return cty.NilVal, argError("map", "fn must name a transform")
		}
		fn, ok := r.Lookup(fnV.AsString())
		if !ok {
			return cty.NilVal, argError("map", fmt.Sprintf("unknown function %q", fnV.AsString()))
		}
		elems, err := sequenceElements("map", collectionV)
		if err != nil {
			return cty.NilVal, err
		}
		results := make([]cty.Value, 0, len(elems))
		for _, elem := range elems {
			res, err := fn.Call(Args{Order: []string{"value"}, Values: map[string]cty.Value{"value": elem}})
			if err != nil {
				return cty.NilVal, err
			}
			results = append(results, res)
		}
		if len(results) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(results), nil
	})

	r.Register("filter", filterImpl(r, "filter", true))
	r.Register("filterNot", filterImpl(r, "filterNot", false))

	r.Register("find", func(a Args) (cty.Value, error) {
		collectionV, err := requireArg("find", a, "collection")
		if err != nil {
			return cty.NilVal, err
		}
		fnV, err := requireArg("find", a, "fn")
		if err != nil {
			return cty.NilVal, err
		}
		fn, ok := r.Lookup(fnV.AsString())
		if !ok {
			return cty.NilVal, argError("find", fmt.Sprintf("unknown function %q", fnV.AsString()))
		}
		elems, err := sequenceElements("find", collectionV)
		if err != nil {
			return cty.NilVal, err
		}
		for _, elem := range elems {
			res, err := fn.Call(Args{Order: []string{"value"}, Values: map[string]cty.Value{"value": elem}})
			if err != nil {
				return cty.NilVal, err
			}
			if res.Type() == cty.Bool && res.True() {
				return elem, nil
			}
		}
		return pathval.Null, nil
	})

	r.Register("vectorOp", func(a Args) (cty.Value, error) {
		aV, err := requireArg("vectorOp", a, "a")
		if err != nil {
			return cty.NilVal, err
		}
		bV, err := requireArg("vectorOp", a, "b")
		if err != nil {
			return cty.NilVal, err
		}
		opV, err := requireArg("vectorOp", a, "op")
		if err != nil {
			return cty.NilVal, err
		}
		fn, ok := r.Lookup(opV.AsString())
		if !ok {
			return cty.NilVal, argError("vectorOp", fmt.Sprintf("unknown function %q", opV.AsString()))
		}
		aElems, err := sequenceElements("vectorOp", aV)
		if err != nil {
			return cty.NilVal, err
		}
		bElems, err := sequenceElements("vectorOp", bV)
		if err != nil {
			return cty.NilVal, err
		}
		if len(aElems) != len(bElems) {
			return cty.NilVal, argError("vectorOp", "a and b must have equal length")
		}
		results := make([]cty.Value, len(aElems))
		for i := range aElems {
			res, err := fn.Call(Args{Order: []string{"a", "b"}, Values: map[string]cty.Value{"a": aElems[i], "b": bElems[i]}})
			if err != nil {
				return cty.NilVal, err
			}
			results[i] = res
		}
		if len(results) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(results), nil
	})

	r.Register("pick", func(a Args) (cty.Value, error) {
		obj, err := requireArg("pick", a, "object")
		if err != nil {
			return cty.NilVal, err
		}
		keysV, err := requireArg("pick", a, "keys")
		if err != nil {
			return cty.NilVal, err
		}
		keys, err := sequenceElements("pick", keysV)
		if err != nil {
			return cty.NilVal, err
		}
		out := map[string]cty.Value{}
		for _, k := range keys {
			name := stringOf(k)
			if obj.Type().HasAttribute(name) {
				out[name] = obj.GetAttr(name)
			}
		}
		return pathval.ObjectVal(out), nil
	})

	r.Register("omit", func(a Args) (cty.Value, error) {
		obj, err := requireArg("omit", a, "object")
		if err != nil {
			return cty.NilVal, err
		}
		keysV, err := requireArg("omit", a, "keys")
		if err != nil {
			return cty.NilVal, err
		}
		keys, err := sequenceElements("omit", keysV)
		if err != nil {
			return cty.NilVal, err
		}
		excluded := map[string]bool{}
		for _, k := range keys {
			excluded[stringOf(k)] = true
		}
		out := map[string]cty.Value{}
		for it := obj.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			name := kv.AsString()
			if !excluded[name] {
				out[name] = ev
			}
		}
		return pathval.ObjectVal(out), nil
	})

	r.Register("merge", func(a Args) (cty.Value, error) {
		out := map[string]cty.Value{}
		for _, v := range a.List() {
			if pathval.IsAbsent(v) || v.IsNull() {
				continue
			}
			for it := v.ElementIterator(); it.Next(); {
				kv, ev := it.Element()
				out[kv.AsString()] = ev
			}
		}
		return pathval.ObjectVal(out), nil
	})

	r.Register("box", func(a Args) (cty.Value, error) {
		v, err := requireArg("box", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		return cty.TupleVal([]cty.Value{v}), nil
	})

	r.Register("addProp", func(a Args) (cty.Value, error) {
		obj, err := requireArg("addProp", a, "object")
		if err != nil {
			return cty.NilVal, err
		}
		keyV, err := requireArg("addProp", a, "key")
		if err != nil {
			return cty.NilVal, err
		}
		val, err := requireArg("addProp", a, "value")
		if err != nil {
			return cty.NilVal, err
		}
		out := map[string]cty.Value{}
		if !pathval.IsAbsent(obj) && !obj.IsNull() {
			for it := obj.ElementIterator(); it.Next(); {
				kv, ev := it.Element()
				out[kv.AsString()] = ev
			}
		}
		out[stringOf(keyV)] = val
		return pathval.ObjectVal(out), nil
	})
}

func filterImpl(r *Registry, name string, keepWhenTrue bool) Impl {
	return func(a Args) (cty.Value, error) {
		collectionV, err := requireArg(name, a, "collection")
		if err != nil {
			return cty.NilVal, err
		}
		fnV, err := requireArg(name, a, "fn")
		if err != nil {
			return cty.NilVal, err
		}
		fn, ok := r.Lookup(fnV.AsString())
		if !ok {
			return cty.NilVal, argError(name, fmt.Sprintf("unknown function %q", fnV.AsString()))
		}
		elems, err := sequenceElements(name, collectionV)
		if err != nil {
			return cty.NilVal, err
		}
		var kept []cty.Value
		for _, elem := range elems {
			res, err := fn.Call(Args{Order: []string{"value"}, Values: map[string]cty.Value{"value": elem}})
			if err != nil {
				return cty.NilVal, err
			}
			truthy := res.Type() == cty.Bool && res.True()
			if truthy == keepWhenTrue {
				kept = append(kept, elem)
			}
		}
		if len(kept) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(kept), nil
	}
}
