// Package graph implements the reactive dependency-graph evaluator: node
// kinds, preprocessing (alias expansion, inputs synthesis, literal
// hoisting), the reactive fixpoint driver, and subgraph/template
// composition.
//
// Node-kind implementations live in this package rather than a separate
// one because the graph node kind must construct child *Graph instances,
// and Go forbids the cycle a separate package would otherwise require
// between "the thing that builds graphs" and "the node kind that IS a
// graph". Kinds are unexported types; only Graph, Declaration, Option, and
// the public operations are exported.
package graph
