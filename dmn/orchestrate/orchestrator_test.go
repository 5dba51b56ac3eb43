package orchestrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmnrun/feelengine/dmn/model"
	"github.com/dmnrun/feelengine/dmn/runtime"
	"github.com/dmnrun/feelengine/feel/value"
)

// classificationTable builds the Location/Sole_Trader/CS_Score UNIQUE
// decision table: {UK,false,35} -> Decline, {UK,true,80} -> Accept,
// {US,false,50} -> Refer.
func classificationTable(t *testing.T) *model.Definition {
	t.Helper()
	def, err := model.NewDefinition("classification", []model.InputVariable{
		{Name: "Location", DeclaredType: "string", IsInputParameter: true},
		{Name: "Sole_Trader", DeclaredType: "boolean", IsInputParameter: true},
		{Name: "CS_Score", DeclaredType: "number", IsInputParameter: true},
	}, []model.Decision{
		{
			Name:           "Classification",
			RequiredInputs: []string{"Location", "Sole_Trader", "CS_Score"},
			Body: model.DecisionTable{
				Inputs: []model.TableInput{
					{Expression: "Location", Variable: "Location"},
					{Expression: "Sole_Trader", Variable: "Sole_Trader"},
					{Expression: "CS_Score", Variable: "CS_Score"},
				},
				Outputs: []model.TableOutput{{Name: "result", DeclaredType: "string"}},
				Rules: []model.Rule{
					{Index: 0, InputEntries: []string{`"UK"`, "false", "<= 40"}, OutputEntries: []string{`"Decline"`}},
					{Index: 1, InputEntries: []string{`"UK"`, "true", "> 40"}, OutputEntries: []string{`"Accept"`}},
					{Index: 2, InputEntries: []string{`"US"`, "false", "[41..79]"}, OutputEntries: []string{`"Refer"`}},
				},
				HitPolicy: model.Unique,
			},
		},
	})
	require.NoError(t, err)
	return def
}

func runClassification(t *testing.T, location string, soleTrader bool, score int64) string {
	t.Helper()
	def := classificationTable(t)
	ec := runtime.NewExecutionContext(def)
	require.NoError(t, ec.SetInputParameter("Location", value.String(location)))
	require.NoError(t, ec.SetInputParameter("Sole_Trader", value.Boolean(soleTrader)))
	require.NoError(t, ec.SetInputParameter("CS_Score", value.NumberFromInt(score)))

	o := New(DefaultOptions())
	result, err := o.ExecuteDecision(context.Background(), ec, "Classification")
	require.NoError(t, err)
	require.True(t, result.HasResult)

	single, ok := result.First()
	require.True(t, ok)
	require.Len(t, single.Outputs, 1)
	s, ok := value.AsString(single.Outputs[0].Value)
	require.True(t, ok)
	return string(s)
}

func TestDecisionTableUniqueHitPolicyScenario(t *testing.T) {
	assert.Equal(t, "Decline", runClassification(t, "UK", false, 35))
	assert.Equal(t, "Accept", runClassification(t, "UK", true, 80))
	assert.Equal(t, "Refer", runClassification(t, "US", false, 50))
}

func TestDecisionTableUniqueHitPolicyViolation(t *testing.T) {
	def, err := model.NewDefinition("conflict", []model.InputVariable{
		{Name: "X", DeclaredType: "number", IsInputParameter: true},
	}, []model.Decision{
		{
			Name:           "D",
			RequiredInputs: []string{"X"},
			Body: model.DecisionTable{
				Inputs:  []model.TableInput{{Expression: "X", Variable: "X"}},
				Outputs: []model.TableOutput{{Name: "y"}},
				Rules: []model.Rule{
					{Index: 0, InputEntries: []string{"> 0"}, OutputEntries: []string{"1"}},
					{Index: 1, InputEntries: []string{"> 5"}, OutputEntries: []string{"2"}},
				},
				HitPolicy: model.Unique,
			},
		},
	})
	require.NoError(t, err)

	ec := runtime.NewExecutionContext(def)
	require.NoError(t, ec.SetInputParameter("X", value.NumberFromInt(10)))

	o := New(DefaultOptions())
	_, err = o.ExecuteDecision(context.Background(), ec, "D")
	require.Error(t, err)
	var hpErr *HitPolicyError
	require.ErrorAs(t, err, &hpErr)
}

// upstreamDependencyDefinition builds a two-decision DRD: Eligible
// depends on the Age input directly, and Approved depends on Eligible's
// output plus the Income input, exercising required-decision resolution
// and the variable store writing an upstream decision's output back for
// a downstream one to read.
func upstreamDependencyDefinition(t *testing.T) *model.Definition {
	t.Helper()
	def, err := model.NewDefinition("drd", []model.InputVariable{
		{Name: "Age", DeclaredType: "number", IsInputParameter: true},
		{Name: "Income", DeclaredType: "number", IsInputParameter: true},
	}, []model.Decision{
		{
			Name:           "Eligible",
			RequiredInputs: []string{"Age"},
			Body: model.ExpressionDecision{
				OutputVariable: "eligible",
				DeclaredType:   "boolean",
				Expression:     "Age >= 18",
			},
		},
		{
			Name:              "Approved",
			RequiredInputs:    []string{"Income"},
			RequiredDecisions: []string{"Eligible"},
			Body: model.ExpressionDecision{
				OutputVariable: "approved",
				DeclaredType:   "boolean",
				Expression:     "eligible and Income > 30000",
			},
		},
	})
	require.NoError(t, err)
	return def
}

func TestExecuteDecisionResolvesRequiredDecisionsDepthFirst(t *testing.T) {
	def := upstreamDependencyDefinition(t)
	ec := runtime.NewExecutionContext(def)
	require.NoError(t, ec.SetInputParameter("Age", value.NumberFromInt(25)))
	require.NoError(t, ec.SetInputParameter("Income", value.NumberFromInt(50000)))

	o := New(DefaultOptions())
	result, err := o.ExecuteDecision(context.Background(), ec, "Approved")
	require.NoError(t, err)

	single, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, value.True, single.Outputs[0].Value)

	assert.Equal(t, value.True, ec.Get("eligible"))

	snaps := ec.Snapshots()
	require.Len(t, snaps, 3) // snapshot 0, Eligible, Approved
	assert.Equal(t, "Eligible", snaps[1].DecisionName)
	assert.Equal(t, "Approved", snaps[2].DecisionName)
}

func TestExecuteDecisionNotFound(t *testing.T) {
	def := upstreamDependencyDefinition(t)
	ec := runtime.NewExecutionContext(def)
	o := New(DefaultOptions())
	_, err := o.ExecuteDecision(context.Background(), ec, "Missing")
	require.Error(t, err)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDecisionTableCollectSumAggregation(t *testing.T) {
	def, err := model.NewDefinition("collect", []model.InputVariable{
		{Name: "X", DeclaredType: "number", IsInputParameter: true},
	}, []model.Decision{
		{
			Name:           "Total",
			RequiredInputs: []string{"X"},
			Body: model.DecisionTable{
				Inputs:  []model.TableInput{{Expression: "X", Variable: "X"}},
				Outputs: []model.TableOutput{{Name: "amount", DeclaredType: "number"}},
				Rules: []model.Rule{
					{Index: 0, InputEntries: []string{"> 0"}, OutputEntries: []string{"10"}},
					{Index: 1, InputEntries: []string{"> 5"}, OutputEntries: []string{"20"}},
				},
				HitPolicy:   model.Collect,
				Aggregation: model.AggregationSum,
			},
		},
	})
	require.NoError(t, err)

	ec := runtime.NewExecutionContext(def)
	require.NoError(t, ec.SetInputParameter("X", value.NumberFromInt(10)))

	o := New(DefaultOptions())
	result, err := o.ExecuteDecision(context.Background(), ec, "Total")
	require.NoError(t, err)

	single, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, value.NumberFromInt(30), single.Outputs[0].Value)
	assert.Equal(t, value.NumberFromInt(30), ec.Get("amount"))
}

func TestDecisionTableParallelEvaluationInvariance(t *testing.T) {
	sequential := New(DefaultOptions())
	parallelOpts := DefaultOptions()
	parallelOpts.EnableRuleParallelism = true
	parallelOpts.EnableOutputParallelism = true
	parallel := New(parallelOpts)

	for _, o := range []*Orchestrator{sequential, parallel} {
		def := classificationTable(t)
		ec := runtime.NewExecutionContext(def)
		require.NoError(t, ec.SetInputParameter("Location", value.String("UK")))
		require.NoError(t, ec.SetInputParameter("Sole_Trader", value.Boolean(true)))
		require.NoError(t, ec.SetInputParameter("CS_Score", value.NumberFromInt(80)))

		result, err := o.ExecuteDecision(context.Background(), ec, "Classification")
		require.NoError(t, err)
		single, ok := result.First()
		require.True(t, ok)
		assert.Equal(t, value.String("Accept"), single.Outputs[0].Value)
	}
}
