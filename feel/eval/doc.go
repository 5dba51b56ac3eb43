// Package eval tree-walks a FEEL AST against an EvalContext, producing a
// value.Value. The Evaluator/EvalContext split and the scope-chain lookup
// are grounded on the gosonata JSONata evaluator (opts held on the
// Evaluator, a per-run context carrying bindings) and the go-dws
// tree-walking interpreter (environment chain, one visit method per node
// kind); FEEL's own three-valued/null-propagating semantics come from
// spec.md §4.5 directly, since neither reference engine has null
// propagation as a first-class concept.
package eval
