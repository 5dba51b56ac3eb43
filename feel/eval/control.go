package eval

import (
	"context"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/value"
)

func (e *Evaluator) evalIf(ctx context.Context, n *ast.IfExpr, ec *EvalContext, depth int) (value.Value, error) {
	cond, err := e.eval(ctx, n.Cond, ec, depth)
	if err != nil {
		return nil, err
	}
	if b, ok := value.AsBoolean(cond); ok && b {
		return e.eval(ctx, n.Then, ec, depth)
	}
	return e.eval(ctx, n.Else, ec, depth)
}

// iterationItems produces the sequence a "for"/quantified binding walks:
// a list's own items, or (for a numeric range) the inclusive integer
// sequence between its endpoints stepping +1 or -1 depending on which
// bound is larger (spec §4.5).
func iterationItems(v value.Value) []value.Value {
	if l, ok := value.AsList(v); ok {
		return l.Items
	}
	if r, ok := value.AsRange(v); ok && !r.LowUnbounded && !r.HighUnbounded {
		lo, okLo := value.AsNumber(r.Low)
		hi, okHi := value.AsNumber(r.High)
		if okLo && okHi {
			var out []value.Value
			if lo.Cmp(hi) <= 0 {
				for i := lo.Int(); i <= hi.Int(); i++ {
					out = append(out, value.NumberFromInt(int64(i)))
				}
			} else {
				for i := lo.Int(); i >= hi.Int(); i-- {
					out = append(out, value.NumberFromInt(int64(i)))
				}
			}
			return out
		}
	}
	return nil
}

// evalFor implements the iteration expression, nesting bindings in
// declared order (outermost first) and flattening the Cartesian product
// of the bound lists/ranges into one result list (spec §4.5/§8.7).
func (e *Evaluator) evalFor(ctx context.Context, n *ast.ForExpr, ec *EvalContext, depth int) (value.Value, error) {
	var out []value.Value
	var recurse func(i int, cur *EvalContext) error
	recurse = func(i int, cur *EvalContext) error {
		if i == len(n.Bindings) {
			v, err := e.eval(ctx, n.Body, cur, depth)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		}
		b := n.Bindings[i]
		src, err := e.eval(ctx, b.In, cur, depth)
		if err != nil {
			return err
		}
		for _, item := range iterationItems(src) {
			child := cur.Child()
			child.Scope.Set(b.Name, item)
			if err := recurse(i+1, child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := recurse(0, ec); err != nil {
		return nil, err
	}
	return value.NewList(out), nil
}

// evalQuantified implements "some/every ... satisfies cond" across the
// full Cartesian product of the bindings, short-circuiting as soon as the
// aggregate is determined (some: first true; every: first non-true).
func (e *Evaluator) evalQuantified(ctx context.Context, n *ast.QuantifiedExpr, ec *EvalContext, depth int) (value.Value, error) {
	matchedAny := false
	allTrue := true

	var recurse func(i int, cur *EvalContext) (bool, error)
	recurse = func(i int, cur *EvalContext) (bool, error) {
		if i == len(n.Bindings) {
			v, err := e.eval(ctx, n.Cond, cur, depth)
			if err != nil {
				return true, err
			}
			b, _ := value.AsBoolean(v)
			if n.Every {
				if !b {
					allTrue = false
					return true, nil
				}
			} else if b {
				matchedAny = true
				return true, nil
			}
			return false, nil
		}
		b := n.Bindings[i]
		src, err := e.eval(ctx, b.In, cur, depth)
		if err != nil {
			return true, err
		}
		for _, item := range iterationItems(src) {
			child := cur.Child()
			child.Scope.Set(b.Name, item)
			stop, err := recurse(i+1, child)
			if err != nil {
				return true, err
			}
			if stop {
				return true, nil
			}
		}
		return false, nil
	}

	if _, err := recurse(0, ec); err != nil {
		return nil, err
	}
	if n.Every {
		return value.Boolean(allTrue), nil
	}
	return value.Boolean(matchedAny), nil
}

// literalIndex recognises a (possibly negated) numeric literal filter
// predicate, e.g. "list[1]" or "list[-1]".
func literalIndex(node ast.Node) (int, bool) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		num, ok := value.NumberFromString(n.Text)
		if !ok {
			return 0, false
		}
		return num.Int(), true
	case *ast.UnaryOp:
		if n.Op == "-" {
			if inner, ok := literalIndex(n.Operand); ok {
				return -inner, true
			}
		}
	}
	return 0, false
}

// evalFilter implements "source[predicate]" (spec §4.5): a literal
// numeric predicate indexes directly; otherwise each item is bound as
// "item" (with its own context entries also exposed as loose names) and
// the predicate is evaluated per item. A numeric predicate result selects
// that index and stops the scan immediately, even mid-list — this
// short-circuit on a partial-numeric predicate is intentionally
// non-standard (see DESIGN.md Open Question decisions); a boolean result
// includes the item when true.
func (e *Evaluator) evalFilter(ctx context.Context, n *ast.FilterExpr, ec *EvalContext, depth int) (value.Value, error) {
	srcVal, err := e.eval(ctx, n.List, ec, depth)
	if err != nil {
		return nil, err
	}
	list := value.Listify(srcVal)

	if idx, ok := literalIndex(n.Predicate); ok {
		return list.At(idx), nil
	}

	var out []value.Value
	for _, item := range list.Items {
		child := ec.Child()
		child.Scope.Set("item", item)
		if c, ok := value.AsContext(item); ok {
			c.Each(func(k string, v value.Value) { child.Scope.Set(k, v) })
		}
		predVal, err := e.eval(ctx, n.Predicate, child, depth)
		if err != nil {
			return nil, err
		}
		if num, ok := value.AsNumber(predVal); ok {
			return list.At(num.Int()), nil
		}
		if b, ok := value.AsBoolean(predVal); ok && b {
			out = append(out, item)
		}
	}
	return value.NewList(out), nil
}
