package model

// Definition is an immutable decision dependency graph (spec §3):
// built once via NewDefinition, then read concurrently by any number of
// dmn/runtime.ExecutionContext evaluations.
type Definition struct {
	ID        string
	Inputs    []InputVariable
	Decisions []Decision

	inputByName    map[string]*InputVariable
	decisionByName map[string]*Decision
	aliases        map[string][]string
}

// NewDefinition builds a Definition from inputs and decisions, validating
// it (dangling references, dependency cycles, spec §9) before deriving
// the alias map. A non-nil error means def is nil: callers never receive
// a partially-valid Definition.
func NewDefinition(id string, inputs []InputVariable, decisions []Decision) (*Definition, error) {
	def := &Definition{
		ID:             id,
		Inputs:         inputs,
		Decisions:      decisions,
		inputByName:    make(map[string]*InputVariable, len(inputs)),
		decisionByName: make(map[string]*Decision, len(decisions)),
	}
	for i := range def.Inputs {
		iv := &def.Inputs[i]
		def.inputByName[NormalizeName(iv.Name)] = iv
	}
	for i := range def.Decisions {
		dec := &def.Decisions[i]
		def.decisionByName[NormalizeName(dec.Name)] = dec
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	def.aliases = computeAliases(def.inputByName, def.Decisions)
	return def, nil
}

// Validate re-runs the dangling-reference and cycle checks NewDefinition
// performs at construction (SPEC_FULL.md §3 supplemental feature): a
// caller assembling a Definition incrementally (an authoring tool) can
// re-check consistency without rebuilding it from scratch.
func (d *Definition) Validate() error {
	return d.validateGraph()
}

// DecisionByName looks up a decision by its declared name, normalised the
// same way RequiredDecisions references are.
func (d *Definition) DecisionByName(name string) (*Decision, bool) {
	dec, ok := d.decisionByName[NormalizeName(name)]
	return dec, ok
}

// InputByName looks up an input variable by its declared name.
func (d *Definition) InputByName(name string) (*InputVariable, bool) {
	iv, ok := d.inputByName[NormalizeName(name)]
	return iv, ok
}

// Aliases returns the input-name -> alias-names map (spec §3).
func (d *Definition) Aliases() map[string][]string {
	return d.aliases
}
