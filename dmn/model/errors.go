package model

import (
	"fmt"
	"strings"
)

// CycleError reports a cycle in the decision dependency graph, detected
// while building a Definition (spec §4.8/§9: cycles are rejected when
// the definition is constructed, never discovered mid-evaluation).
type CycleError struct {
	// Cycle holds the decision names forming the cycle, in traversal
	// order, with the first name repeated at the end.
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dmn: decision dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// DanglingReferenceError reports a RequiredInput or RequiredDecision name
// that does not resolve to any declared input variable or decision in
// the definition (spec §4.8/§7).
type DanglingReferenceError struct {
	Decision string
	Kind     string // "input" or "decision"
	Name     string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dmn: decision %q references unknown %s %q", e.Decision, e.Kind, e.Name)
}
