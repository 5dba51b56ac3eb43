package eval

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/value"
)

// evalFunctionDef builds a function value closing over the defining
// scope and resolver (spec §4.5/§9); the params and body are evaluated
// lazily, at call time, in a child of that captured scope.
func (e *Evaluator) evalFunctionDef(n *ast.FunctionDefinition, ec *EvalContext) value.Value {
	return value.Function{
		Params:     n.Params,
		IsExternal: n.External,
		Closure:    &Closure{Body: n.Body, Scope: ec.Scope, Resolver: ec.Resolver},
	}
}

// evalInvocation resolves the callee and calls it (spec §4.5): a bare
// name is looked up first as a scope value, then as a resolver (built-in)
// function; any other callee expression must itself evaluate to a
// function value. Host-language reflective method calls (spec §4.5 steps
// 1-2) are not implemented — spec §9 allows this for implementations
// without reflection, and no pure-FEEL DMN model depends on them.
func (e *Evaluator) evalInvocation(ctx context.Context, n *ast.FunctionInvocation, ec *EvalContext, depth int) (value.Value, error) {
	positional, named, err := e.evalArguments(ctx, n, ec, depth)
	if err != nil {
		return nil, err
	}
	fn, ok, err := e.resolveCallee(ctx, n.Target, ec, depth)
	if err != nil {
		return nil, err
	}
	if !ok {
		return value.Nil, nil
	}
	return e.call(ctx, fn, buildArgs(fn, positional, named), depth)
}

func (e *Evaluator) evalArguments(ctx context.Context, n *ast.FunctionInvocation, ec *EvalContext, depth int) ([]value.Value, map[string]value.Value, error) {
	var positional []value.Value
	var named map[string]value.Value
	for _, a := range n.Args {
		v, err := e.eval(ctx, a.Value, ec, depth)
		if err != nil {
			return nil, nil, err
		}
		if a.Name != "" {
			if named == nil {
				named = make(map[string]value.Value)
			}
			named[a.Name] = v
			continue
		}
		positional = append(positional, v)
	}
	return positional, named, nil
}

// buildArgs reorders named arguments to match the callee's declared
// parameter positions, with an unsupplied position becoming null (spec
// §4.5 "named invocation"). Positional calls pass through unchanged.
func buildArgs(fn value.Function, positional []value.Value, named map[string]value.Value) []value.Value {
	if len(named) == 0 {
		return positional
	}
	args := make([]value.Value, len(fn.Params))
	for i, p := range fn.Params {
		if v, ok := named[p]; ok {
			args[i] = v
		} else {
			args[i] = value.Nil
		}
	}
	return args
}

func (e *Evaluator) resolveCallee(ctx context.Context, target ast.Node, ec *EvalContext, depth int) (value.Function, bool, error) {
	if name, ok := target.(*ast.NameRef); ok {
		if v, found := ec.Scope.Get(name.Name); found {
			if fn, ok := value.AsFunction(v); ok {
				return fn, true, nil
			}
		}
		if ec.Resolver != nil {
			if fn, ok := ec.Resolver.Resolve(name.Name); ok {
				return fn, true, nil
			}
		}
		return value.Function{}, false, nil
	}
	v, err := e.eval(ctx, target, ec, depth)
	if err != nil {
		return value.Function{}, false, err
	}
	fn, ok := value.AsFunction(v)
	return fn, ok, nil
}

// Call invokes a FEEL function value directly, for built-ins (such as
// sort with a precedes function) that need to call back into a
// user-supplied function argument.
func (e *Evaluator) Call(ctx context.Context, fn value.Function, args []value.Value) (value.Value, error) {
	return e.call(ctx, fn, args, 0)
}

func (e *Evaluator) call(ctx context.Context, fn value.Function, args []value.Value, depth int) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth > e.MaxDepth {
		return nil, errors.New("evaluation exceeded maximum recursion depth")
	}
	if fn.Native != nil {
		return fn.Native(args)
	}
	cl, ok := fn.Closure.(*Closure)
	if !ok || cl == nil {
		return value.Nil, nil
	}
	child := &EvalContext{Scope: cl.Scope.Child(), Resolver: cl.Resolver, Input: value.Nil}
	for i, param := range fn.Params {
		v := value.Nil
		if i < len(args) {
			v = args[i]
		}
		child.Scope.Set(param, v)
	}
	return e.eval(ctx, cl.Body, child, depth+1)
}
