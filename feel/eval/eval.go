package eval

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/value"
)

// defaultMaxDepth bounds AST recursion so a malformed or adversarial
// expression fails with an error instead of overflowing the Go stack.
const defaultMaxDepth = 500

// Evaluator tree-walks a parsed FEEL AST. It holds no per-expression
// state; all of that lives in the EvalContext passed to Eval.
type Evaluator struct {
	MaxDepth int
}

// New returns an Evaluator with the default recursion limit.
func New() *Evaluator {
	return &Evaluator{MaxDepth: defaultMaxDepth}
}

// Eval evaluates node against ec, honoring ctx cancellation between node
// visits.
func (e *Evaluator) Eval(ctx context.Context, node ast.Node, ec *EvalContext) (value.Value, error) {
	return e.eval(ctx, node, ec, 0)
}

func (e *Evaluator) eval(ctx context.Context, node ast.Node, ec *EvalContext, depth int) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth > e.MaxDepth {
		return nil, errors.New("evaluation exceeded maximum recursion depth")
	}
	depth++

	switch n := node.(type) {
	case *ast.NullLiteral:
		return value.Nil, nil
	case *ast.BooleanLiteral:
		return value.Boolean(n.Value), nil
	case *ast.NumberLiteral:
		num, ok := value.NumberFromString(n.Text)
		if !ok {
			return nil, errors.Errorf("invalid number literal %q", n.Text)
		}
		return num, nil
	case *ast.StringLiteral:
		return value.String(n.Text), nil
	case *ast.NameRef:
		return e.evalName(ec, n.Name), nil
	case *ast.PathExpr:
		return e.evalPath(ctx, n, ec, depth)
	case *ast.ListExpr:
		return e.evalList(ctx, n, ec, depth)
	case *ast.ContextExpr:
		return e.evalContext(ctx, n, ec, depth)
	case *ast.RangeLiteral:
		return e.evalRange(ctx, n, ec, depth)
	case *ast.UnaryOp:
		return e.evalUnaryOp(ctx, n, ec, depth)
	case *ast.BinaryOp:
		return e.evalBinaryOp(ctx, n, ec, depth)
	case *ast.BetweenExpr:
		return e.evalBetween(ctx, n, ec, depth)
	case *ast.InExpr:
		return e.evalIn(ctx, n, ec, depth)
	case *ast.InstanceOfExpr:
		return e.evalInstanceOf(ctx, n, ec, depth)
	case *ast.IfExpr:
		return e.evalIf(ctx, n, ec, depth)
	case *ast.ForExpr:
		return e.evalFor(ctx, n, ec, depth)
	case *ast.QuantifiedExpr:
		return e.evalQuantified(ctx, n, ec, depth)
	case *ast.FilterExpr:
		return e.evalFilter(ctx, n, ec, depth)
	case *ast.FunctionDefinition:
		return e.evalFunctionDef(n, ec), nil
	case *ast.FunctionInvocation:
		return e.evalInvocation(ctx, n, ec, depth)
	case *ast.Wildcard:
		return value.True, nil
	}
	return nil, errors.Errorf("unevaluable node %T", node)
}

// evalName resolves a simple name against the scope chain, falling back
// to null for an unbound name (spec §4.5), and special-cases the "?"
// distinguished name for the implicit input value.
func (e *Evaluator) evalName(ec *EvalContext, name string) value.Value {
	if name == "?" {
		return ec.Input
	}
	if v, ok := ec.Scope.Get(name); ok {
		return v
	}
	return value.Nil
}

func (e *Evaluator) evalList(ctx context.Context, n *ast.ListExpr, ec *EvalContext, depth int) (value.Value, error) {
	items := make([]value.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := e.eval(ctx, el, ec, depth)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return value.NewList(items), nil
}

// evalContext evaluates entries in declared order, making each entry
// visible to later entries of the same context literal (spec §4.5); it
// does not support forward self-reference.
func (e *Evaluator) evalContext(ctx context.Context, n *ast.ContextExpr, ec *EvalContext, depth int) (value.Value, error) {
	local := ec.Child()
	out := value.NewContext()
	for _, entry := range n.Entries {
		v, err := e.eval(ctx, entry.Value, local, depth)
		if err != nil {
			return nil, err
		}
		local.Scope.Set(entry.Key, v)
		out.Set(entry.Key, v)
	}
	return out, nil
}

func (e *Evaluator) evalRange(ctx context.Context, n *ast.RangeLiteral, ec *EvalContext, depth int) (value.Value, error) {
	low, err := e.eval(ctx, n.Low, ec, depth)
	if err != nil {
		return nil, err
	}
	high, err := e.eval(ctx, n.High, ec, depth)
	if err != nil {
		return nil, err
	}
	return value.Range{Low: low, High: high, LowOpen: n.LowOpen, HighOpen: n.HighOpen}, nil
}
