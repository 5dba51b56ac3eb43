package orchestrate

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/dmnrun/feelengine/dmn/model"
	"github.com/dmnrun/feelengine/dmn/runtime"
	"github.com/dmnrun/feelengine/dmn/trace"
	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/scope"
	"github.com/dmnrun/feelengine/feel/value"
)

// ruleEvaluation is one rule's outcome: whether every input cell matched,
// the per-column input values it was matched against (for tracing), and
// — when matched — the evaluated output values.
type ruleEvaluation struct {
	rule    model.Rule
	matched bool
	inputs  []value.Value
	outputs []value.Value
	err     error
}

func (o *Orchestrator) evaluateDecisionTable(ctx context.Context, ec *runtime.ExecutionContext, dec *model.Decision, table model.DecisionTable) (*trace.DecisionResult, error) {
	sc := o.buildScope(ec)

	inputValues := make([]value.Value, len(table.Inputs))
	for i, in := range table.Inputs {
		v, err := o.evaluateTableInputValue(ctx, ec, sc, in)
		if err != nil {
			return nil, &EvaluationError{Decision: dec.Name, Rule: -1, cause: err}
		}
		inputValues[i] = v
	}

	evaluations := make([]ruleEvaluation, len(table.Rules))
	run := func(i int) {
		evaluations[i] = o.evaluateRule(ctx, ec, sc, table, inputValues, table.Rules[i])
	}

	if o.Options.EnableRuleParallelism && len(table.Rules) > 1 {
		o.runParallel(len(table.Rules), run)
	} else {
		for i := range table.Rules {
			run(i)
		}
	}

	for _, e := range evaluations {
		if e.err != nil {
			return nil, &EvaluationError{Decision: dec.Name, Rule: e.rule.Index, cause: e.err}
		}
	}

	return o.applyHitPolicy(dec, table, evaluations)
}

func (o *Orchestrator) evaluateTableInputValue(ctx context.Context, ec *runtime.ExecutionContext, sc *scope.Scope, in model.TableInput) (value.Value, error) {
	expr := strings.TrimSpace(in.Expression)
	if model.IsBareName(expr) {
		return ec.Get(expr), nil
	}
	node, err := ec.CachedParse("expr", expr, in.DeclaredType, func() (ast.Node, error) {
		return o.Engine.ParseExpression(PreprocessExpression(expr), sc)
	})
	if err != nil {
		return nil, err
	}
	return o.Engine.Evaluate(ctx, node, sc)
}

func (o *Orchestrator) evaluateRule(ctx context.Context, ec *runtime.ExecutionContext, sc *scope.Scope, table model.DecisionTable, inputValues []value.Value, rule model.Rule) ruleEvaluation {
	re := ruleEvaluation{rule: rule, inputs: make([]value.Value, len(rule.InputEntries))}
	matched := true
	for i, cellText := range rule.InputEntries {
		cell := strings.TrimSpace(cellText)
		re.inputs[i] = inputValues[i]
		if cell == "" || cell == "-" {
			continue
		}
		ok, err := o.matchInputCell(ctx, ec, sc, cell, inputValues[i])
		if err != nil {
			re.err = err
			return re
		}
		if !ok {
			matched = false
		}
	}
	re.matched = matched
	if !matched {
		return re
	}

	outputs, err := o.evaluateRuleOutputs(ctx, ec, sc, table, rule)
	if err != nil {
		re.err = err
		return re
	}
	re.outputs = outputs
	return re
}

// matchInputCell evaluates one decision-table input cell against input
// (spec §4.8): the common case parses cell as simple-unary-tests. Some
// authoring tools (Camunda among them) write boolean expressions like
// "contains(x, "a") or contains(x, "b")" in input cells, which aren't
// valid simple-unary-tests; when that parse fails, cell is retried as a
// full FEEL expression and its result used directly as the match
// boolean, without re-checking it for unary-test shape (spec §4.8/§9
// Open Question, resolved in DESIGN.md).
func (o *Orchestrator) matchInputCell(ctx context.Context, ec *runtime.ExecutionContext, sc *scope.Scope, cell string, input value.Value) (bool, error) {
	pre := PreprocessExpression(cell)

	node, err := ec.CachedParse("unary", cell, "", func() (ast.Node, error) {
		return o.Engine.ParseSimpleUnaryTests(pre, sc)
	})
	if err == nil {
		return o.Engine.MatchUnaryTests(ctx, node, input, sc)
	}

	exprNode, exprErr := ec.CachedParse("expr-retry", cell, "", func() (ast.Node, error) {
		return o.Engine.ParseExpression(pre, sc)
	})
	if exprErr != nil {
		return false, errors.Wrapf(err, "table cell %q failed both unary-test and expression parsing", cell)
	}
	v, err := o.Engine.Evaluate(ctx, exprNode, sc)
	if err != nil {
		return false, err
	}
	b, _ := value.AsBoolean(v)
	return b, nil
}

func (o *Orchestrator) evaluateRuleOutputs(ctx context.Context, ec *runtime.ExecutionContext, sc *scope.Scope, table model.DecisionTable, rule model.Rule) ([]value.Value, error) {
	outs := make([]value.Value, len(rule.OutputEntries))
	errs := make([]error, len(rule.OutputEntries))

	compute := func(i int) {
		text := rule.OutputEntries[i]
		outputType := ""
		if i < len(table.Outputs) {
			outputType = table.Outputs[i].DeclaredType
		}
		node, err := ec.CachedParse("expr", text, outputType, func() (ast.Node, error) {
			return o.Engine.ParseExpression(PreprocessExpression(text), sc)
		})
		if err != nil {
			errs[i] = err
			return
		}
		v, err := o.Engine.Evaluate(ctx, node, sc)
		if err != nil {
			errs[i] = err
			return
		}
		outs[i] = v
	}

	if o.Options.EnableOutputParallelism && len(rule.OutputEntries) > 1 {
		o.runParallel(len(rule.OutputEntries), compute)
	} else {
		for i := range rule.OutputEntries {
			compute(i)
		}
	}

	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return outs, nil
}
