// Package fixture loads dmn/model.Definitions from YAML, the way the
// teacher's config packages load editor state from YAML documents
// (SPEC_FULL.md §1 "Configuration/Testing": test fixtures use
// gopkg.in/yaml.v3 rather than a hand-rolled reader). It is a
// test-support tool, not a DMN-XML deserializer — the real interchange
// format stays out of scope (spec.md §1 Non-goals).
package fixture

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dmnrun/feelengine/dmn/model"
)

type document struct {
	ID        string             `yaml:"id"`
	Inputs    []inputDoc         `yaml:"inputs"`
	Decisions []decisionDoc      `yaml:"decisions"`
}

type inputDoc struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Label            string `yaml:"label"`
	DeclaredType     string `yaml:"type"`
	IsInputParameter *bool  `yaml:"input_parameter"`
}

type decisionDoc struct {
	ID                string          `yaml:"id"`
	Name              string          `yaml:"name"`
	RequiredInputs    []string        `yaml:"requires_inputs"`
	RequiredDecisions []string        `yaml:"requires_decisions"`
	Expression        *expressionDoc  `yaml:"expression"`
	Table             *tableDoc       `yaml:"table"`
}

type expressionDoc struct {
	OutputVariable string `yaml:"output"`
	DeclaredType   string `yaml:"type"`
	Text           string `yaml:"text"`
}

type tableDoc struct {
	HitPolicy   string          `yaml:"hit_policy"`
	Aggregation string          `yaml:"aggregation"`
	Inputs      []tableInputDoc `yaml:"inputs"`
	Outputs     []tableOutputDoc `yaml:"outputs"`
	Rules       []ruleDoc       `yaml:"rules"`
}

type tableInputDoc struct {
	Label         string   `yaml:"label"`
	Expression    string   `yaml:"expression"`
	Variable      string   `yaml:"variable"`
	DeclaredType  string   `yaml:"type"`
	AllowedValues []string `yaml:"allowed_values"`
}

type tableOutputDoc struct {
	Name          string   `yaml:"name"`
	Label         string   `yaml:"label"`
	DeclaredType  string   `yaml:"type"`
	AllowedValues []string `yaml:"allowed_values"`
}

type ruleDoc struct {
	Name    string   `yaml:"name"`
	Inputs  []string `yaml:"inputs"`
	Outputs []string `yaml:"outputs"`
}

// Load parses data as a YAML decision definition and builds a validated
// dmn/model.Definition from it.
func Load(data []byte) (*model.Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "fixture: parsing YAML")
	}

	inputs := make([]model.InputVariable, len(doc.Inputs))
	for i, in := range doc.Inputs {
		isParam := true
		if in.IsInputParameter != nil {
			isParam = *in.IsInputParameter
		}
		inputs[i] = model.InputVariable{
			ID:               in.ID,
			Name:             in.Name,
			Label:            in.Label,
			DeclaredType:     in.DeclaredType,
			IsInputParameter: isParam,
		}
	}

	decisions := make([]model.Decision, len(doc.Decisions))
	for i, dd := range doc.Decisions {
		dec := model.Decision{
			ID:                dd.ID,
			Name:              dd.Name,
			RequiredInputs:    dd.RequiredInputs,
			RequiredDecisions: dd.RequiredDecisions,
		}
		switch {
		case dd.Expression != nil:
			dec.Body = model.ExpressionDecision{
				OutputVariable: dd.Expression.OutputVariable,
				DeclaredType:   dd.Expression.DeclaredType,
				Expression:     dd.Expression.Text,
			}
		case dd.Table != nil:
			table, err := buildTable(dd.Name, dd.Table)
			if err != nil {
				return nil, err
			}
			dec.Body = table
		default:
			return nil, errors.Errorf("fixture: decision %q has neither an expression nor a table", dd.Name)
		}
		decisions[i] = dec
	}

	return model.NewDefinition(doc.ID, inputs, decisions)
}

func buildTable(decisionName string, td *tableDoc) (model.DecisionTable, error) {
	policy, ok := model.ParseHitPolicy(td.HitPolicy)
	if !ok {
		return model.DecisionTable{}, errors.Errorf("fixture: decision %q has unknown hit policy %q", decisionName, td.HitPolicy)
	}
	agg, ok := model.ParseAggregation(td.Aggregation)
	if !ok {
		return model.DecisionTable{}, errors.Errorf("fixture: decision %q has unknown aggregation %q", decisionName, td.Aggregation)
	}

	inputs := make([]model.TableInput, len(td.Inputs))
	for i, in := range td.Inputs {
		inputs[i] = model.TableInput{
			Label:         in.Label,
			Expression:    in.Expression,
			Variable:      in.Variable,
			DeclaredType:  in.DeclaredType,
			AllowedValues: in.AllowedValues,
		}
	}
	outputs := make([]model.TableOutput, len(td.Outputs))
	for i, out := range td.Outputs {
		outputs[i] = model.TableOutput{
			Name:          out.Name,
			Label:         out.Label,
			DeclaredType:  out.DeclaredType,
			AllowedValues: out.AllowedValues,
		}
	}
	rules := make([]model.Rule, len(td.Rules))
	for i, r := range td.Rules {
		if len(r.Inputs) != len(inputs) {
			return model.DecisionTable{}, errors.Errorf("fixture: decision %q rule %d has %d input entries, want %d", decisionName, i, len(r.Inputs), len(inputs))
		}
		if len(r.Outputs) != len(outputs) {
			return model.DecisionTable{}, errors.Errorf("fixture: decision %q rule %d has %d output entries, want %d", decisionName, i, len(r.Outputs), len(outputs))
		}
		rules[i] = model.Rule{
			Index:         i,
			Name:          r.Name,
			InputEntries:  r.Inputs,
			OutputEntries: r.Outputs,
		}
	}

	return model.DecisionTable{
		Inputs:      inputs,
		Outputs:     outputs,
		Rules:       rules,
		HitPolicy:   policy,
		Aggregation: agg,
	}, nil
}

// LoadFile reads path and parses it as a YAML decision definition.
func LoadFile(path string) (*model.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture: reading %s", path)
	}
	return Load(data)
}
