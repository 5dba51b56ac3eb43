package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmnrun/feelengine/dmn/model"
	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/value"
)

func testDefinition(t *testing.T) *model.Definition {
	t.Helper()
	def, err := model.NewDefinition("def", []model.InputVariable{
		{Name: "Age", DeclaredType: "number", IsInputParameter: true},
	}, []model.Decision{
		{
			Name:           "Is Adult",
			RequiredInputs: []string{"Age"},
			Body: model.ExpressionDecision{
				OutputVariable: "is_adult",
				Expression:     "Age >= 18",
			},
		},
	})
	require.NoError(t, err)
	return def
}

func TestExecutionContextSetInputParameterProtectsCell(t *testing.T) {
	ec := NewExecutionContext(testDefinition(t))
	require.NoError(t, ec.SetInputParameter("Age", value.NumberFromInt(30)))

	err := ec.Set("Age", value.NumberFromInt(99))
	require.Error(t, err)
	var protectedErr *InputProtectedError
	require.ErrorAs(t, err, &protectedErr)

	assert.Equal(t, value.NumberFromInt(30), ec.Get("Age"))
}

func TestExecutionContextSetInputParameterUnknownName(t *testing.T) {
	ec := NewExecutionContext(testDefinition(t))
	err := ec.SetInputParameter("Nonexistent", value.NumberFromInt(1))
	require.Error(t, err)
	var unknownErr *UnknownInputError
	require.ErrorAs(t, err, &unknownErr)
}

func TestExecutionContextResetClearsOutputsNotInputs(t *testing.T) {
	ec := NewExecutionContext(testDefinition(t))
	require.NoError(t, ec.SetInputParameter("Age", value.NumberFromInt(30)))
	require.NoError(t, ec.Set("is_adult", value.True))

	ec.Reset()

	assert.Equal(t, value.NumberFromInt(30), ec.Get("Age"))
	assert.Equal(t, value.Nil, ec.Get("is_adult"))
}

func TestExecutionContextAliasPropagation(t *testing.T) {
	def, err := model.NewDefinition("def-alias", []model.InputVariable{
		{Name: "applicant_age", IsInputParameter: true},
	}, []model.Decision{
		{
			Name:           "Eligibility",
			RequiredInputs: []string{"applicant_age"},
			Body: model.DecisionTable{
				Inputs:  []model.TableInput{{Expression: "Age", Variable: "applicant_age"}},
				Outputs: []model.TableOutput{{Name: "eligible"}},
				Rules:   []model.Rule{{InputEntries: []string{">= 18"}, OutputEntries: []string{"true"}}},
			},
		},
	})
	require.NoError(t, err)

	ec := NewExecutionContext(def, WithAliasResolution(true))
	require.NoError(t, ec.SetInputParameter("applicant_age", value.NumberFromInt(42)))

	assert.Equal(t, value.NumberFromInt(42), ec.Get("Age"))
}

func TestExecutionContextSnapshots(t *testing.T) {
	def := testDefinition(t)
	ec := NewExecutionContext(def)
	ec.ResetSnapshots()
	require.Len(t, ec.Snapshots(), 1)

	require.NoError(t, ec.Set("is_adult", value.True))
	ec.AppendSnapshot(&def.Decisions[0], nil)

	snaps := ec.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "Is Adult", snaps[1].DecisionName)
}

func TestExecutionContextCachedParseHitsOnSecondCall(t *testing.T) {
	ec := NewExecutionContext(testDefinition(t), WithCacheScope(CacheContext))
	calls := 0
	parseFn := func() (ast.Node, error) {
		calls++
		return nil, nil
	}

	_, err := ec.CachedParse("expr", "Age >= 18", "boolean", parseFn)
	require.NoError(t, err)
	_, err = ec.CachedParse("expr", "Age >= 18", "boolean", parseFn)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestExecutionContextCacheNoneNeverHits(t *testing.T) {
	ec := NewExecutionContext(testDefinition(t), WithCacheScope(CacheNone))
	calls := 0
	parseFn := func() (ast.Node, error) {
		calls++
		return nil, nil
	}

	_, _ = ec.CachedParse("expr", "Age >= 18", "boolean", parseFn)
	_, _ = ec.CachedParse("expr", "Age >= 18", "boolean", parseFn)

	assert.Equal(t, 2, calls)
}

func TestExecutionContextExecutionCachePurgedAfterRun(t *testing.T) {
	ec := NewExecutionContext(testDefinition(t), WithCacheScope(CacheExecution))
	ec.BeginRun("run-1")
	calls := 0
	parseFn := func() (ast.Node, error) {
		calls++
		return nil, nil
	}
	_, _ = ec.CachedParse("expr", "Age >= 18", "boolean", parseFn)
	ec.PurgeExecutionCache("run-1")

	ec.BeginRun("run-2")
	_, _ = ec.CachedParse("expr", "Age >= 18", "boolean", parseFn)

	assert.Equal(t, 2, calls)
}
