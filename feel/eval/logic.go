package eval

import (
	"context"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/value"
)

func (e *Evaluator) evalUnaryOp(ctx context.Context, n *ast.UnaryOp, ec *EvalContext, depth int) (value.Value, error) {
	operand, err := e.eval(ctx, n.Operand, ec, depth)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		return value.Negate(operand), nil
	case "not":
		return value.Not(operand), nil
	}
	return value.Nil, nil
}

// evalBinaryOp dispatches "+ - * / % **", comparisons, and "and"/"or".
// "and"/"or" short-circuit per spec §4.5: false is absorbing for "and"
// and skips evaluating the right operand; true is absorbing for "or".
func (e *Evaluator) evalBinaryOp(ctx context.Context, n *ast.BinaryOp, ec *EvalContext, depth int) (value.Value, error) {
	if n.Op == "and" || n.Op == "or" {
		left, err := e.eval(ctx, n.Left, ec, depth)
		if err != nil {
			return nil, err
		}
		if b, ok := value.AsBoolean(left); ok {
			if n.Op == "and" && !b {
				return value.False, nil
			}
			if n.Op == "or" && b {
				return value.True, nil
			}
		}
		right, err := e.eval(ctx, n.Right, ec, depth)
		if err != nil {
			return nil, err
		}
		if n.Op == "and" {
			return value.And(left, right), nil
		}
		return value.Or(left, right), nil
	}

	left, err := e.eval(ctx, n.Left, ec, depth)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(ctx, n.Right, ec, depth)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+":
		return value.Add(left, right), nil
	case "-":
		return value.Sub(left, right), nil
	case "*":
		return value.Mul(left, right), nil
	case "/":
		return value.Div(left, right), nil
	case "%":
		return value.Mod(left, right), nil
	case "**":
		return value.Pow(left, right), nil
	case "=":
		return value.Boolean(value.Equal(left, right)), nil
	case "!=":
		return value.Boolean(!value.Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		c, ok := value.Compare(left, right)
		if !ok {
			return value.Nil, nil
		}
		return value.Boolean(compareMatches(n.Op, c)), nil
	}
	return value.Nil, nil
}

func compareMatches(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

// evalBetween implements "x between lo and hi" as "lo <= x <= hi" with
// null propagation (spec §4.5).
func (e *Evaluator) evalBetween(ctx context.Context, n *ast.BetweenExpr, ec *EvalContext, depth int) (value.Value, error) {
	x, err := e.eval(ctx, n.Value, ec, depth)
	if err != nil {
		return nil, err
	}
	lo, err := e.eval(ctx, n.Low, ec, depth)
	if err != nil {
		return nil, err
	}
	hi, err := e.eval(ctx, n.High, ec, depth)
	if err != nil {
		return nil, err
	}
	if value.IsNull(x) || value.IsNull(lo) || value.IsNull(hi) {
		return value.Nil, nil
	}
	cl, ok := value.Compare(x, lo)
	if !ok {
		return value.Nil, nil
	}
	ch, ok := value.Compare(x, hi)
	if !ok {
		return value.Nil, nil
	}
	return value.Boolean(cl >= 0 && ch <= 0), nil
}

// evalIn implements "x in tests" (spec §4.5): each test is evaluated
// using the same unary-test semantics as a decision-table cell, with x
// as the implicit input; the result is true iff any test matches.
func (e *Evaluator) evalIn(ctx context.Context, n *ast.InExpr, ec *EvalContext, depth int) (value.Value, error) {
	x, err := e.eval(ctx, n.Value, ec, depth)
	if err != nil {
		return nil, err
	}
	for _, test := range n.Tests {
		matched, err := e.matchTest(ctx, test, x, ec, depth)
		if err != nil {
			return nil, err
		}
		if matched {
			return value.True, nil
		}
	}
	return value.False, nil
}

// evalInstanceOf implements "x instance of T" using FEEL's type names
// (spec §4.5/§6).
func (e *Evaluator) evalInstanceOf(ctx context.Context, n *ast.InstanceOfExpr, ec *EvalContext, depth int) (value.Value, error) {
	v, err := e.eval(ctx, n.Value, ec, depth)
	if err != nil {
		return nil, err
	}
	return value.Boolean(v.Kind().String() == n.TypeName), nil
}
