package model

import "strings"

// computeAliases derives the input-name -> alias-names map the
// Definition carries (spec §3): a decision table's input column is
// sometimes written against a bare name that differs from the input
// variable it actually reads, e.g. a column bound to the declared input
// "applicant_age" whose Expression text is literally "Age". Recording
// that relationship lets the runtime's alias propagation
// (dmn/runtime's ExecutionContext.SetInputParameter) keep both names in
// sync when the canonical input parameter is set.
func computeAliases(inputs map[string]*InputVariable, decisions []Decision) map[string][]string {
	aliases := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	add := func(canonical, alias string) {
		if canonical == "" || alias == "" || canonical == alias {
			return
		}
		if _, ok := inputs[canonical]; !ok {
			return
		}
		if seen[canonical] == nil {
			seen[canonical] = make(map[string]bool)
		}
		if seen[canonical][alias] {
			return
		}
		seen[canonical][alias] = true
		aliases[canonical] = append(aliases[canonical], alias)
	}

	for _, dec := range decisions {
		table, ok := dec.Body.(DecisionTable)
		if !ok {
			continue
		}
		for _, in := range table.Inputs {
			if in.Variable == "" || !IsBareName(in.Expression) {
				continue
			}
			exprName := NormalizeName(strings.TrimSpace(in.Expression))
			varName := NormalizeName(in.Variable)
			add(varName, exprName)
		}
	}
	return aliases
}
