package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"  Applicant Age ", "Applicant_Age"},
		{"Credit-Score", "Credit_Score"},
		{"already_normal", "already_normal"},
		{"Loan#Amount", "LoanAmount"},
		{"Düzey", "Düzey"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeName(c.name), c.name)
	}
}

func TestCanNormalize(t *testing.T) {
	assert.True(t, CanNormalize("Applicant Age"))
	assert.True(t, CanNormalize("_private"))
	assert.False(t, CanNormalize("123abc"))
	assert.False(t, CanNormalize("   "))
}

func TestIsBareName(t *testing.T) {
	assert.True(t, IsBareName("Applicant Age"))
	assert.False(t, IsBareName("Applicant.Age"))
	assert.False(t, IsBareName("age + 1"))
	assert.False(t, IsBareName("true"))
	assert.False(t, IsBareName(""))
}

func newSimpleDefinition(t *testing.T) *Definition {
	t.Helper()
	inputs := []InputVariable{
		{ID: "i1", Name: "Age", DeclaredType: "number", IsInputParameter: true},
	}
	decisions := []Decision{
		{
			ID:             "d1",
			Name:           "Is Adult",
			RequiredInputs: []string{"Age"},
			Body: ExpressionDecision{
				OutputVariable: "is_adult",
				DeclaredType:   "boolean",
				Expression:     "Age >= 18",
			},
		},
	}
	def, err := NewDefinition("def-1", inputs, decisions)
	require.NoError(t, err)
	return def
}

func TestNewDefinitionLooksUpByName(t *testing.T) {
	def := newSimpleDefinition(t)

	dec, ok := def.DecisionByName("Is  Adult")
	require.True(t, ok)
	assert.Equal(t, "Is Adult", dec.Name)

	iv, ok := def.InputByName("Age")
	require.True(t, ok)
	assert.Equal(t, "Age", iv.Name)
}

func TestNewDefinitionRejectsDanglingInput(t *testing.T) {
	_, err := NewDefinition("def-2", nil, []Decision{
		{Name: "D", RequiredInputs: []string{"Missing"}, Body: ExpressionDecision{Expression: "1"}},
	})
	require.Error(t, err)
	var dangling *DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "input", dangling.Kind)
}

func TestNewDefinitionRejectsDanglingDecision(t *testing.T) {
	_, err := NewDefinition("def-3", nil, []Decision{
		{Name: "D", RequiredDecisions: []string{"Ghost"}, Body: ExpressionDecision{Expression: "1"}},
	})
	require.Error(t, err)
	var dangling *DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "decision", dangling.Kind)
}

func TestNewDefinitionRejectsCycle(t *testing.T) {
	_, err := NewDefinition("def-4", nil, []Decision{
		{Name: "A", RequiredDecisions: []string{"B"}, Body: ExpressionDecision{Expression: "1"}},
		{Name: "B", RequiredDecisions: []string{"C"}, Body: ExpressionDecision{Expression: "1"}},
		{Name: "C", RequiredDecisions: []string{"A"}, Body: ExpressionDecision{Expression: "1"}},
	})
	require.Error(t, err)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, cycle.Cycle, "A")
}

func TestDefinitionAliases(t *testing.T) {
	inputs := []InputVariable{
		{Name: "applicant_age", DeclaredType: "number", IsInputParameter: true},
	}
	decisions := []Decision{
		{
			Name:           "Eligibility",
			RequiredInputs: []string{"applicant_age"},
			Body: DecisionTable{
				Inputs: []TableInput{
					{Expression: "Age", Variable: "applicant_age"},
				},
				Outputs: []TableOutput{{Name: "eligible"}},
				Rules: []Rule{
					{InputEntries: []string{">= 18"}, OutputEntries: []string{"true"}},
				},
				HitPolicy: Unique,
			},
		},
	}
	def, err := NewDefinition("def-5", inputs, decisions)
	require.NoError(t, err)

	aliases := def.Aliases()
	require.Contains(t, aliases, "applicant_age")
	assert.Contains(t, aliases["applicant_age"], "Age")
}

func TestHitPolicyParsing(t *testing.T) {
	p, ok := ParseHitPolicy("rule order")
	require.True(t, ok)
	assert.Equal(t, RuleOrder, p)

	_, ok = ParseHitPolicy("bogus")
	assert.False(t, ok)
}

func TestAggregationParsing(t *testing.T) {
	a, ok := ParseAggregation("")
	require.True(t, ok)
	assert.Equal(t, AggregationList, a)

	a, ok = ParseAggregation("Sum")
	require.True(t, ok)
	assert.Equal(t, AggregationSum, a)
}
