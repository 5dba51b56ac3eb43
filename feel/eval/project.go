package eval

import (
	"context"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/value"
)

// evalPath implements member access (spec §4.5): context -> value at key
// or null; list -> projection (apply access to every element); date/time
// and duration values -> their fixed named component accessors.
// Anything else yields null rather than an error.
func (e *Evaluator) evalPath(ctx context.Context, n *ast.PathExpr, ec *EvalContext, depth int) (value.Value, error) {
	target, err := e.eval(ctx, n.Target, ec, depth)
	if err != nil {
		return nil, err
	}
	return accessMember(target, n.Key), nil
}

func accessMember(target value.Value, key string) value.Value {
	if c, ok := value.AsContext(target); ok {
		return c.GetOrNull(key)
	}
	if l, ok := value.AsList(target); ok {
		projected := make([]value.Value, len(l.Items))
		for i, item := range l.Items {
			projected[i] = accessMember(item, key)
		}
		return value.NewList(projected)
	}
	if v, ok := value.Component(target, key); ok {
		return v
	}
	return value.Nil
}
