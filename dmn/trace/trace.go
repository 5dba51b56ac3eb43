// Package trace holds the result and snapshot types an
// dmn/orchestrate.Orchestrator produces while walking a decision
// dependency graph (spec §3/§4.8): per-decision results, the rules that
// produced them, and periodic captures of the whole variable store for
// diagnostics.
package trace

import "github.com/dmnrun/feelengine/feel/value"

// VariableResult is one output variable binding within a SingleResult
// (spec §4.8).
type VariableResult struct {
	Name  string
	Value value.Value
	Type  string
}

// RuleHit records which decision-table rule produced a SingleResult and
// the per-column input values it was matched against, for tracing (spec
// §3 "rule/output tracing").
type RuleHit struct {
	Index            int
	Name             string
	InputEvaluations []value.Value
}

// SingleResult is one produced row of a decision's result. An expression
// decision always has exactly one; a decision table has one per matched
// rule the table's hit policy keeps (more than one under COLLECT without
// aggregation, RULE_ORDER, or OUTPUT_ORDER).
type SingleResult struct {
	Outputs []VariableResult
	Hits    []RuleHit
}

// DecisionResult is the typed result of evaluating one decision (spec
// §3/§4.8). HasResult is false when a decision table had no matching
// rule; IsSingleResult is true for an expression decision, or a table
// whose hit policy collapses to one row (UNIQUE/FIRST/PRIORITY/ANY, or
// COLLECT with an aggregation).
type DecisionResult struct {
	DecisionName   string
	DecisionID     string
	HasResult      bool
	IsSingleResult bool
	Results        []SingleResult
}

// First returns the sole result for a single-result decision, or the
// first of several rows otherwise; ok is false when HasResult is false.
func (r DecisionResult) First() (SingleResult, bool) {
	if len(r.Results) == 0 {
		return SingleResult{}, false
	}
	return r.Results[0], true
}

// Snapshot is an immutable capture of the whole variable store taken
// after one decision completes (spec §3). Index 0 is the snapshot taken
// before any decision runs; DecisionName/DecisionID are empty for it.
// DecisionID is carried alongside DecisionName so a snapshot still
// correlates to its decision across a later rename (SPEC_FULL.md §3
// supplemental field).
type Snapshot struct {
	Index        int
	DecisionName string
	DecisionID   string
	Variables    map[string]value.Value
	Result       *DecisionResult
}
