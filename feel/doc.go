// Package feel is the FEEL engine facade (spec §4.7): the public
// parse/evaluate entry points that wrap feel/lexer, feel/parser,
// feel/eval and feel/builtins behind typed errors, the way the teacher's
// top-level packages (e.g. syntax/parser.Parse) front their internal
// machinery with one stable API. dmn/orchestrate is the only expected
// caller outside of tests; everything below this package is an
// implementation detail that may change shape independently of it.
package feel
