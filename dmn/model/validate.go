package model

// validateGraph checks dangling references and, via DFS colouring over
// the RequiredDecisions edges, cycles in the decision dependency graph
// (spec §9). White/gray/black colouring is the standard recursive
// depth-first cycle check; a gray node re-encountered during its own
// subtree walk closes a cycle.
func (d *Definition) validateGraph() error {
	for i := range d.Decisions {
		dec := &d.Decisions[i]
		for _, in := range dec.RequiredInputs {
			if _, ok := d.inputByName[NormalizeName(in)]; !ok {
				return &DanglingReferenceError{Decision: dec.Name, Kind: "input", Name: in}
			}
		}
		for _, req := range dec.RequiredDecisions {
			if _, ok := d.decisionByName[NormalizeName(req)]; !ok {
				return &DanglingReferenceError{Decision: dec.Name, Kind: "decision", Name: req}
			}
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(d.Decisions))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		key := NormalizeName(name)
		switch color[key] {
		case black:
			return nil
		case gray:
			start := 0
			for i, p := range path {
				if NormalizeName(p) == key {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, path[start:]...), name)
			return &CycleError{Cycle: cycle}
		}
		color[key] = gray
		path = append(path, name)

		dec := d.decisionByName[key]
		for _, req := range dec.RequiredDecisions {
			if err := visit(req); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		color[key] = black
		return nil
	}

	for _, dec := range d.Decisions {
		if err := visit(dec.Name); err != nil {
			return err
		}
	}
	return nil
}
