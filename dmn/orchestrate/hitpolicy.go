package orchestrate

import (
	"fmt"
	"sort"

	"github.com/dmnrun/feelengine/dmn/model"
	"github.com/dmnrun/feelengine/dmn/trace"
	"github.com/dmnrun/feelengine/feel/value"
)

// applyHitPolicy combines a decision table's per-rule evaluations into a
// trace.DecisionResult according to table.HitPolicy (spec §4.8/§6).
func (o *Orchestrator) applyHitPolicy(dec *model.Decision, table model.DecisionTable, evals []ruleEvaluation) (*trace.DecisionResult, error) {
	var matched []ruleEvaluation
	for _, e := range evals {
		if e.matched {
			matched = append(matched, e)
		}
	}

	result := &trace.DecisionResult{DecisionName: dec.Name, DecisionID: dec.ID}
	if len(matched) == 0 {
		return result, nil
	}
	result.HasResult = true

	buildSingle := func(e ruleEvaluation) trace.SingleResult {
		outs := make([]trace.VariableResult, len(table.Outputs))
		for i, out := range table.Outputs {
			outs[i] = trace.VariableResult{Name: out.Name, Value: e.outputs[i], Type: out.DeclaredType}
		}
		return trace.SingleResult{
			Outputs: outs,
			Hits:    []trace.RuleHit{{Index: e.rule.Index, Name: e.rule.Name, InputEvaluations: e.inputs}},
		}
	}

	switch table.HitPolicy {
	case model.Unique:
		if len(matched) > 1 {
			return nil, &HitPolicyError{Decision: dec.Name, Policy: "UNIQUE", Message: fmt.Sprintf("%d rules matched, expected at most 1", len(matched))}
		}
		result.IsSingleResult = true
		result.Results = []trace.SingleResult{buildSingle(matched[0])}

	case model.First:
		result.IsSingleResult = true
		result.Results = []trace.SingleResult{buildSingle(matched[0])}

	case model.Priority:
		result.IsSingleResult = true
		result.Results = []trace.SingleResult{buildSingle(choosePriority(table, matched))}

	case model.Any:
		for _, e := range matched[1:] {
			if !sameOutputs(matched[0].outputs, e.outputs) {
				return nil, &HitPolicyError{Decision: dec.Name, Policy: "ANY", Message: "matched rules disagree on outputs"}
			}
		}
		result.IsSingleResult = true
		result.Results = []trace.SingleResult{buildSingle(matched[0])}

	case model.Collect:
		if table.Aggregation == model.AggregationList {
			result.IsSingleResult = false
			for _, e := range matched {
				result.Results = append(result.Results, buildSingle(e))
			}
		} else {
			result.IsSingleResult = true
			result.Results = []trace.SingleResult{aggregate(table, matched, table.Aggregation)}
		}

	case model.RuleOrder:
		result.IsSingleResult = false
		for _, e := range matched {
			result.Results = append(result.Results, buildSingle(e))
		}

	case model.OutputOrder:
		result.IsSingleResult = false
		for _, e := range sortByOutputPriority(table, matched) {
			result.Results = append(result.Results, buildSingle(e))
		}

	default:
		return nil, fmt.Errorf("dmn: decision %q has unknown hit policy %v", dec.Name, table.HitPolicy)
	}
	return result, nil
}

// choosePriority picks the matched rule whose first output column's
// value ranks highest in that column's declared allowed-values list
// (lower index = higher priority), breaking ties by rule order. When the
// output has no allowed-values list to rank against, the first match
// wins (spec §4.8/§9 Open Question, resolved in DESIGN.md).
func choosePriority(table model.DecisionTable, matched []ruleEvaluation) ruleEvaluation {
	if len(table.Outputs) == 0 || len(table.Outputs[0].AllowedValues) == 0 {
		return matched[0]
	}
	rank := priorityRank(table.Outputs[0].AllowedValues)

	best := matched[0]
	bestRank := rank(best)
	for _, e := range matched[1:] {
		if r := rank(e); r < bestRank {
			best, bestRank = e, r
		}
	}
	return best
}

func sortByOutputPriority(table model.DecisionTable, matched []ruleEvaluation) []ruleEvaluation {
	if len(table.Outputs) == 0 || len(table.Outputs[0].AllowedValues) == 0 {
		return matched
	}
	rank := priorityRank(table.Outputs[0].AllowedValues)

	out := append([]ruleEvaluation(nil), matched...)
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func priorityRank(allowedValues []string) func(ruleEvaluation) int {
	return func(e ruleEvaluation) int {
		v := value.ToDisplayString(e.outputs[0])
		for i, av := range allowedValues {
			if av == v {
				return i
			}
		}
		return len(allowedValues)
	}
}

func sameOutputs(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !value.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// aggregate collapses matched rules' per-column outputs into one
// SingleResult using a COLLECT hit policy's aggregation (spec §4.8/§6).
func aggregate(table model.DecisionTable, matched []ruleEvaluation, agg model.Aggregation) trace.SingleResult {
	outs := make([]trace.VariableResult, len(table.Outputs))
	var hits []trace.RuleHit
	for _, e := range matched {
		hits = append(hits, trace.RuleHit{Index: e.rule.Index, Name: e.rule.Name, InputEvaluations: e.inputs})
	}
	for col, out := range table.Outputs {
		vals := make([]value.Value, len(matched))
		for i, e := range matched {
			vals[i] = e.outputs[col]
		}
		outs[col] = trace.VariableResult{Name: out.Name, Value: aggregateValues(agg, vals), Type: out.DeclaredType}
	}
	return trace.SingleResult{Outputs: outs, Hits: hits}
}

func aggregateValues(agg model.Aggregation, vals []value.Value) value.Value {
	switch agg {
	case model.AggregationSum:
		sum := value.NumberFromInt(0)
		for _, v := range vals {
			if n, ok := value.AsNumber(v); ok {
				sum = value.NewNumber(sum.Decimal().Add(n.Decimal()))
			}
		}
		return sum
	case model.AggregationMin:
		return selectExtreme(vals, true)
	case model.AggregationMax:
		return selectExtreme(vals, false)
	case model.AggregationCount:
		return value.NumberFromInt(int64(len(vals)))
	default:
		return value.NewList(vals)
	}
}

func selectExtreme(vals []value.Value, wantMin bool) value.Value {
	if len(vals) == 0 {
		return value.Nil
	}
	best := vals[0]
	for _, v := range vals[1:] {
		c, ok := value.Compare(v, best)
		if !ok {
			continue
		}
		if (wantMin && c < 0) || (!wantMin && c > 0) {
			best = v
		}
	}
	return best
}
