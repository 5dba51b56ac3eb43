package eval

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/value"
)

// MatchUnaryTests evaluates a parsed simple-unary-tests node against
// input (spec §4.5's final bullet): the input matches if any test
// matches, then the Negated flag inverts the aggregate.
func (e *Evaluator) MatchUnaryTests(ctx context.Context, node ast.Node, input value.Value, ec *EvalContext) (bool, error) {
	ut, ok := node.(*ast.UnaryTests)
	if !ok {
		return false, errors.Errorf("expected unary tests node, got %T", node)
	}
	matched := false
	for _, t := range ut.Tests {
		m, err := e.matchTest(ctx, t, input, ec, 0)
		if err != nil {
			return false, err
		}
		if m {
			matched = true
			break
		}
	}
	if ut.Negated {
		return !matched, nil
	}
	return matched, nil
}

// matchTest evaluates one positive unary test (a dash, a leading
// comparison operator, or a bare expression) against input.
func (e *Evaluator) matchTest(ctx context.Context, node ast.Node, input value.Value, ec *EvalContext, depth int) (bool, error) {
	switch n := node.(type) {
	case *ast.Wildcard:
		return true, nil
	case *ast.PositiveUnaryTest:
		if n.Op != "" {
			v, err := e.eval(ctx, n.Expr, ec, depth)
			if err != nil {
				return false, err
			}
			c, ok := value.Compare(input, v)
			if !ok {
				return false, nil
			}
			return compareMatches(n.Op, c), nil
		}
		v, err := e.eval(ctx, n.Expr, ec, depth)
		if err != nil {
			return false, err
		}
		if value.IsNull(v) {
			return value.IsNull(input), nil
		}
		if r, ok := value.AsRange(v); ok {
			return r.Contains(input), nil
		}
		if l, ok := value.AsList(v); ok {
			for _, item := range l.Items {
				if value.Equal(item, input) {
					return true, nil
				}
			}
			return false, nil
		}
		return value.Equal(v, input), nil
	}
	return false, errors.Errorf("not a unary test node: %T", node)
}
