// Package builtins implements the FEEL built-in function library (spec
// §4.6): string, numeric, list, boolean, date/time, conversion, context
// and range functions, keyed by their canonical (possibly multi-word)
// names so a Registry satisfies feel/eval's FunctionResolver directly.
//
// The registry pattern is grounded on gosonata's evaluator, which
// resolves unqualified calls through a functions lookup table rather
// than a switch statement; here that table is built once by the
// register* helpers in each file of this package.
package builtins

import (
	"context"

	"github.com/dmnrun/feelengine/feel/value"
)

// Caller lets a handful of list built-ins (sort, and any future
// higher-order function) invoke a FEEL function value passed as an
// argument. feel/eval.Evaluator satisfies this interface; the registry
// only depends on the narrow slice of behaviour it needs, so builtins
// never imports eval.
type Caller interface {
	Call(ctx context.Context, fn value.Function, args []value.Value) (value.Value, error)
}

// Registry is a built-in function lookup table keyed by canonical name.
type Registry struct {
	fns map[string]value.Function
}

// NewRegistry builds the full built-in registry (spec §4.6). caller may
// be nil; built-ins that need it (sort) return null instead of invoking
// a predicate when it is missing.
func NewRegistry(caller Caller) *Registry {
	r := &Registry{fns: make(map[string]value.Function)}
	registerString(r)
	registerNumeric(r)
	registerBoolean(r)
	registerList(r, caller)
	registerDateTime(r)
	registerConversion(r)
	registerContextFns(r)
	registerRange(r)
	return r
}

// add registers a named function with its declared parameters, for named
// invocation (spec §4.5/§4.6).
func (r *Registry) add(name string, params []string, fn value.NativeFunc) {
	r.fns[name] = value.Function{Name: name, Params: params, Native: fn}
}

// Resolve looks up a built-in by canonical name. It implements
// feel/eval.FunctionResolver.
func (r *Registry) Resolve(name string) (value.Function, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// arg returns the i'th argument, or Nil if the call supplied fewer.
func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Nil
}
