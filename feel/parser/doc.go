// Package parser implements a recursive-descent, precedence-climbing
// parser for the two FEEL entry grammars (spec §4.3): full expressions,
// and simple unary tests. The technique is the standard one, grounded in
// the pack's other hand-written DSL parsers rather than a parser-combinator
// or generated-grammar library, since FEEL's multi-word names need a
// resolver consulted mid-parse rather than a context-free token stream.
package parser
