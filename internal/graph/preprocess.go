package graph

import (
	"fmt"
	"strings"

	"github.com/vk/dgraph/internal/nodepath"
)

// expandAliases appends a synthetic aliasNode declaration for every name
// listed in a declaration's "aliases" field, mirroring that declaration's
// own value.
func expandAliases(decls []Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls))
	out = append(out, decls...)
	for _, d := range decls {
		for _, alias := range d.Aliases() {
			out = append(out, Declaration{"name": alias, "type": string(KindAlias), "mirror": d.Name()})
		}
	}
	return out
}

// classify decides, for one raw field value, whether it is a reference to
// an existing node (a string whose first path segment names a declared
// node) or a literal that needs hoisting into a synthetic static node.
func classify(raw any, names map[string]bool) (pathStr string, isLiteral bool) {
	s, ok := raw.(string)
	if !ok {
		return "", true
	}
	nodeID, _, _, err := nodepath.Split(s)
	if err != nil || !names[nodeID] {
		return "", true
	}
	return s, false
}

// hoistLiterals rewrites every path-bearing field so its value is always a
// path string, synthesizing static node declarations for values that do
// not reference an existing node. A literal is named
// "#literal#<owner>#<field>" for a plain field, "#literal#<owner>#<key>"
// for an entry of a mapping-shaped field, and
// "#literal#<owner>#<field>_<index>" for an entry of a sequence. It
// mutates clones, never the input declarations, since a template's
// declarations are shared across every instantiation.
func hoistLiterals(decls []Declaration, opts Options) ([]Declaration, error) {
	names := map[string]bool{}
	for _, d := range decls {
		names[d.Name()] = true
	}

	var extra []Declaration
	out := make([]Declaration, len(decls))

	logLiteral := func(node, field string, index int, hasIndex bool) {
		if !opts.LogLiterals || opts.Logger == nil {
			return
		}
		if hasIndex {
			opts.Logger.Debug("literal inferred", "node", node, "field", field, "index", index)
		} else {
			opts.Logger.Debug("literal inferred", "node", node, "field", field)
		}
	}

	for i, d := range decls {
		nd := d.clone()
		kind := Kind(d.Type())
		fields := pathFieldsByKind[kind]

		for field, spec := range fields {
			raw, ok := nd[field]
			if !ok || raw == nil {
				continue
			}

			switch {
			case spec.HasSubproperties:
				effectiveRaw := raw
				// A graph node's "inputs" in collectionMode "map" may be
				// given as a single path naming the collection directly,
				// rather than a mapping with an explicit "collection" key.
				if kind == KindGraph && field == "inputs" {
					if s, ok := raw.(string); ok {
						if cm, _ := nd["collectionMode"].(string); cm == "map" {
							effectiveRaw = map[string]any{"collection": s}
						}
					}
				}
				pd, err := normalizePathDef(effectiveRaw)
				if err != nil {
					return nil, declErrf(d.Name(), "invalid %q: %s", field, err)
				}

				// A field declared as a sequence carries positional meaning
				// (concat's argument order, for instance), so it must come
				// back out as an ordered list rather than a map: collapsing
				// it into a map here and re-normalizing downstream would
				// hand it back re-sorted by key.
				if _, wasSequence := effectiveRaw.([]any); wasSequence {
					newList := make([]any, len(pd))
					for idx, e := range pd {
						pathStr, isLiteral := classify(e.Raw, names)
						if isLiteral {
							litName := fmt.Sprintf("#literal#%s#%s_%d", d.Name(), field, idx)
							extra = append(extra, Declaration{"name": litName, "type": string(KindStatic), "value": e.Raw})
							names[litName] = true
							pathStr = litName
							logLiteral(d.Name(), field, idx, true)
						}
						newList[idx] = pathStr
					}
					nd[field] = newList
					break
				}

				newRaw := map[string]any{}
				for _, e := range pd {
					pathStr, isLiteral := classify(e.Raw, names)
					if isLiteral {
						litName := fmt.Sprintf("#literal#%s#%s", d.Name(), e.Key)
						extra = append(extra, Declaration{"name": litName, "type": string(KindStatic), "value": e.Raw})
						names[litName] = true
						pathStr = litName
						logLiteral(d.Name(), field, 0, false)
					}
					newRaw[e.Key] = pathStr
				}
				nd[field] = newRaw

			case spec.IsList:
				items, ok := raw.([]any)
				if !ok {
					return nil, declErrf(d.Name(), "field %q must be an array", field)
				}
				newList := make([]any, len(items))
				for idx, item := range items {
					pathStr, isLiteral := classify(item, names)
					if isLiteral {
						litName := fmt.Sprintf("#literal#%s#%s_%d", d.Name(), field, idx)
						extra = append(extra, Declaration{"name": litName, "type": string(KindStatic), "value": item})
						names[litName] = true
						pathStr = litName
						logLiteral(d.Name(), field, idx, true)
					}
					newList[idx] = pathStr
				}
				nd[field] = newList

			default:
				pathStr, isLiteral := classify(raw, names)
				if isLiteral {
					litName := fmt.Sprintf("#literal#%s#%s", d.Name(), field)
					extra = append(extra, Declaration{"name": litName, "type": string(KindStatic), "value": raw})
					names[litName] = true
					pathStr = litName
					logLiteral(d.Name(), field, 0, false)
				}
				nd[field] = pathStr
			}
		}

		out[i] = nd
	}

	return append(out, extra...), nil
}

// collectExpectedInputs scans every path-bearing field of every declared
// node - as normalized by hoistLiterals, so decls must already be
// post-hoist - for path strings beginning with "inputs.", and returns the
// set of top-level ids named that way. Run uses this set to fail fast
// with a MissingInputError before it starts evaluation.
//
// Unlike collectInputsReferences, this walk is kind-aware and stops at
// this graph's own declarations: a graph node's inline "graphDef" array
// is a separate child graph's declarations, evaluated in their own scope
// with their own inputs node, so a "inputs.x" reference inside it must
// not inflate this graph's own required input set.
func collectExpectedInputs(decls []Declaration) map[string]bool {
	out := map[string]bool{}
	add := func(pathStr string) {
		if id, ok := strings.CutPrefix(pathStr, "inputs."); ok {
			if idx := strings.IndexByte(id, '.'); idx >= 0 {
				id = id[:idx]
			}
			if id != "" {
				out[id] = true
			}
		}
	}

	for _, d := range decls {
		fields := pathFieldsByKind[Kind(d.Type())]
		for field, spec := range fields {
			raw, ok := d[field]
			if !ok || raw == nil {
				continue
			}
			switch {
			case spec.HasSubproperties:
				switch m := raw.(type) {
				case map[string]any:
					for _, v := range m {
						if s, ok := v.(string); ok {
							add(s)
						}
					}
				case []any:
					for _, v := range m {
						if s, ok := v.(string); ok {
							add(s)
						}
					}
				}
			case spec.IsList:
				if items, ok := raw.([]any); ok {
					for _, item := range items {
						if s, ok := item.(string); ok {
							add(s)
						}
					}
				}
			default:
				if s, ok := raw.(string); ok {
					add(s)
				}
			}
		}
	}
	return out
}
