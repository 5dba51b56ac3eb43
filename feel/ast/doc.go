// Package ast defines the FEEL abstract syntax tree: one struct per
// expression or unary-test variant, all implementing the closed Node
// union. The shape follows the teacher's own expression tree (a single
// marker method plus one small struct per case, each documented with a
// one-line comment), generalized from matching input events to
// evaluating FEEL expressions.
package ast
