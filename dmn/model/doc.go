// Package model defines the decision dependency graph Definition (spec
// §3/§6): input variables, decisions, decision tables and their rules,
// read-only once built. A Definition is produced by an external DMN XML
// deserializer (out of scope per spec.md §1) or, in tests, by
// dmn/model/fixture's YAML loader; this package only consumes the
// already-parsed shape and validates it.
//
// Cycle and dangling-reference detection run once, at construction time
// (spec §9: "cyclic references ... must be rejected when the definition
// is built, not at evaluation time"), via a standard DFS-colouring walk
// of the RequiredDecisions edges.
package model
