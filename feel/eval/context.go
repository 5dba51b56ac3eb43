package eval

import (
	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/scope"
	"github.com/dmnrun/feelengine/feel/value"
)

// FunctionResolver maps a bare function name to a callable when no value
// in scope already matches it (spec §4.5 function invocation step 4). The
// built-ins registry is the default resolver; a decision model's own
// user-defined functions can wrap it to check user definitions first.
type FunctionResolver interface {
	Resolve(name string) (value.Function, bool)
}

// Closure is what a FEEL function literal captures: the scope it was
// defined in, and the resolver in effect at that point (spec §9:
// "{param-names, body-ast, captured-scope-ref, captured-resolver-ref}").
// It is stored behind value.Function's opaque Closure field and
// type-asserted back here when the function is called.
type Closure struct {
	Body     ast.Node
	Scope    *scope.Scope
	Resolver FunctionResolver
}

// EvalContext is the per-evaluation Evaluation Context (spec §4.5): a
// scope chain for variable lookup, the implicit input value consulted by
// unary tests/filter/"?", and the function resolver in effect.
type EvalContext struct {
	Scope    *scope.Scope
	Input    value.Value
	Resolver FunctionResolver
}

// NewContext builds a root EvalContext with no implicit input bound.
func NewContext(s *scope.Scope, resolver FunctionResolver) *EvalContext {
	return &EvalContext{Scope: s, Input: value.Nil, Resolver: resolver}
}

// Child returns an EvalContext over a nested scope, keeping the same
// resolver and implicit input unless overridden by the caller.
func (ec *EvalContext) Child() *EvalContext {
	return &EvalContext{Scope: ec.Scope.Child(), Input: ec.Input, Resolver: ec.Resolver}
}

// WithInput returns a shallow copy of ec with a different implicit input
// value, for entering a unary-test or filter predicate evaluation.
func (ec *EvalContext) WithInput(v value.Value) *EvalContext {
	cp := *ec
	cp.Input = v
	return &cp
}
