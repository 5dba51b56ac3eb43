// Package orchestrate walks a decision dependency graph (spec §4.8):
// depth-first resolution of a decision's required upstream decisions,
// evaluation of the decision itself (a single FEEL expression, or a
// decision table's rule matching and hit-policy combination), and
// writing the result back into the execution context's variable store.
// The bounded-worker-pool shape rule and output evaluation use is
// grounded on the pack's rule-engine examples (see DESIGN.md); the
// resulting compiled-AST cache lives in dmn/runtime rather than on
// Orchestrator itself, since it must be shareable across every
// ExecutionContext built over the same Definition.
package orchestrate

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmnrun/feelengine/dmn/model"
	"github.com/dmnrun/feelengine/dmn/runtime"
	"github.com/dmnrun/feelengine/dmn/trace"
	"github.com/dmnrun/feelengine/feel"
	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/scope"
	"github.com/dmnrun/feelengine/feel/value"
)

// Orchestrator evaluates decisions against an dmn/runtime.ExecutionContext
// using a shared feel.Engine.
type Orchestrator struct {
	Engine  *feel.Engine
	Options Options
}

// New builds an Orchestrator with a fresh feel.Engine and opts, filling
// in MaxRuleParallelism/Logger defaults left unset.
func New(opts Options) *Orchestrator {
	opts.fillDefaults()
	return &Orchestrator{Engine: feel.New(), Options: opts}
}

// ExecuteDecision runs decisionName's full dependency resolution (spec
// §4.8): each required decision evaluates at most once per call,
// depth-first, before decisionName's own body runs; every decision's
// result is written into ec's variable store as it completes, with a
// snapshot taken immediately after if ec has snapshots enabled.
func (o *Orchestrator) ExecuteDecision(ctx context.Context, ec *runtime.ExecutionContext, decisionName string) (*trace.DecisionResult, error) {
	dec, ok := ec.Definition.DecisionByName(decisionName)
	if !ok {
		return nil, &NotFoundError{Name: decisionName}
	}

	ec.ResetSnapshots()

	correlationID := uuid.NewString()
	ec.BeginRun(correlationID)
	defer ec.PurgeExecutionCache(correlationID)

	o.Options.Logger.Printf("dmn: executing decision %q (run %s)", decisionName, correlationID)

	visited := make(map[string]*trace.DecisionResult, len(ec.Definition.Decisions))
	return o.evaluateDecision(ctx, ec, dec, visited)
}

func (o *Orchestrator) evaluateDecision(ctx context.Context, ec *runtime.ExecutionContext, dec *model.Decision, visited map[string]*trace.DecisionResult) (*trace.DecisionResult, error) {
	if r, ok := visited[dec.Name]; ok {
		return r, nil
	}

	for _, reqName := range dec.RequiredDecisions {
		reqDec, ok := ec.Definition.DecisionByName(reqName)
		if !ok {
			return nil, &NotFoundError{Name: reqName}
		}
		if _, err := o.evaluateDecision(ctx, ec, reqDec, visited); err != nil {
			return nil, err
		}
	}

	var (
		result *trace.DecisionResult
		err    error
	)
	switch body := dec.Body.(type) {
	case model.ExpressionDecision:
		result, err = o.evaluateExpressionDecision(ctx, ec, dec, body)
	case model.DecisionTable:
		result, err = o.evaluateDecisionTable(ctx, ec, dec, body)
	default:
		return nil, &NotFoundError{Name: dec.Name}
	}
	if err != nil {
		return nil, err
	}

	visited[dec.Name] = result
	o.applyOutputs(ec, result)
	ec.AppendSnapshot(dec, result)
	return result, nil
}

func (o *Orchestrator) evaluateExpressionDecision(ctx context.Context, ec *runtime.ExecutionContext, dec *model.Decision, body model.ExpressionDecision) (*trace.DecisionResult, error) {
	sc := o.buildScope(ec)
	node, err := ec.CachedParse("expr", body.Expression, body.DeclaredType, func() (ast.Node, error) {
		return o.Engine.ParseExpression(PreprocessExpression(body.Expression), sc)
	})
	if err != nil {
		return nil, err
	}
	v, err := o.Engine.Evaluate(ctx, node, sc)
	if err != nil {
		return nil, err
	}
	return &trace.DecisionResult{
		DecisionName:   dec.Name,
		DecisionID:     dec.ID,
		HasResult:      true,
		IsSingleResult: true,
		Results: []trace.SingleResult{{
			Outputs: []trace.VariableResult{{Name: body.OutputVariable, Value: v, Type: body.DeclaredType}},
		}},
	}, nil
}

// applyOutputs writes a decision's result into ec's variable store (spec
// §4.8). A single-result decision binds each output name directly to its
// value; a multi-row decision-table result (COLLECT without aggregation,
// RULE_ORDER, OUTPUT_ORDER) binds each output column to the list of its
// per-row values, in result order — the resolution of an Open Question
// the spec leaves implicit (see DESIGN.md).
func (o *Orchestrator) applyOutputs(ec *runtime.ExecutionContext, result *trace.DecisionResult) {
	if !result.HasResult {
		return
	}
	if result.IsSingleResult {
		single, _ := result.First()
		for _, out := range single.Outputs {
			_ = ec.Set(out.Name, out.Value)
		}
		return
	}

	byName := map[string][]value.Value{}
	var order []string
	for _, single := range result.Results {
		for _, out := range single.Outputs {
			if _, ok := byName[out.Name]; !ok {
				order = append(order, out.Name)
			}
			byName[out.Name] = append(byName[out.Name], out.Value)
		}
	}
	for _, name := range order {
		_ = ec.Set(name, value.NewList(byName[name]))
	}
}

func (o *Orchestrator) buildScope(ec *runtime.ExecutionContext) *scope.Scope {
	sc := ec.ToScope()
	feel.Warmup(sc)
	return sc
}

// runParallel runs fn(0)..fn(n-1) across a worker pool bounded by
// MaxRuleParallelism, blocking until every call returns.
func (o *Orchestrator) runParallel(n int, fn func(i int)) {
	limit := o.Options.MaxRuleParallelism
	if limit <= 0 {
		limit = 1
	}
	if limit > n {
		limit = n
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
