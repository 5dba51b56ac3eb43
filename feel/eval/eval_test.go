package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmnrun/feelengine/feel/parser"
	"github.com/dmnrun/feelengine/feel/scope"
	"github.com/dmnrun/feelengine/feel/value"
)

// evalExpr is the shared test helper: parse src against s (so multi-word
// names resolve) and evaluate it with an optional function resolver.
func evalExpr(t *testing.T, src string, s *scope.Scope, resolver FunctionResolver) value.Value {
	t.Helper()
	node, err := parser.ParseExpression(src, s)
	require.NoError(t, err)
	ec := NewContext(s, resolver)
	v, err := New().Eval(context.Background(), node, ec)
	require.NoError(t, err)
	return v
}

func TestEvalArithmeticAndNullPropagation(t *testing.T) {
	s := scope.NewRoot()
	assert.Equal(t, value.NumberFromInt(7), evalExpr(t, "1 + 2 * 3", s, nil))

	s.Set("x", value.Nil)
	assert.Equal(t, value.Nil, evalExpr(t, "x - 1", s, nil))
	assert.Equal(t, value.Nil, evalExpr(t, "1 / 0", s, nil))
}

func TestEvalStringConcatCompatConcession(t *testing.T) {
	s := scope.NewRoot()
	assert.Equal(t, value.String("a5"), evalExpr(t, `"a" + 5`, s, nil))
}

func TestEvalThreeValuedLogic(t *testing.T) {
	s := scope.NewRoot()
	s.Set("x", value.Nil)
	assert.Equal(t, value.False, evalExpr(t, "false and x", s, nil))
	assert.Equal(t, value.True, evalExpr(t, "true or x", s, nil))
	assert.Equal(t, value.Nil, evalExpr(t, "true and x", s, nil))
}

func TestEvalComparisonEquality(t *testing.T) {
	s := scope.NewRoot()
	assert.Equal(t, value.True, evalExpr(t, "null = null", s, nil))
	assert.Equal(t, value.False, evalExpr(t, "null = 1", s, nil))
	assert.Equal(t, value.Nil, evalExpr(t, `1 < "a"`, s, nil))
}

func TestEvalIfThenElse(t *testing.T) {
	s := scope.NewRoot()
	s.Set("age", value.NumberFromInt(25))
	s.Set("income", value.NumberFromInt(50000))
	got := evalExpr(t, `if age >= 18 and income > 30000 then "approved" else "denied"`, s, nil)
	assert.Equal(t, value.String("approved"), got)

	s2 := scope.NewRoot()
	s2.Set("age", value.NumberFromInt(16))
	s2.Set("income", value.NumberFromInt(50000))
	got2 := evalExpr(t, `if age >= 18 and income > 30000 then "approved" else "denied"`, s2, nil)
	assert.Equal(t, value.String("denied"), got2)
}

func TestEvalForCartesianProduct(t *testing.T) {
	s := scope.NewRoot()
	s.Set("a", value.NewList([]value.Value{value.NumberFromInt(1), value.NumberFromInt(2)}))
	s.Set("b", value.NewList([]value.Value{value.NumberFromInt(10), value.NumberFromInt(20)}))
	got := evalExpr(t, "for x in a, y in b return x + y", s, nil)
	list, ok := value.AsList(got)
	require.True(t, ok)
	require.Len(t, list.Items, 4)
	assert.Equal(t, value.NumberFromInt(11), list.Items[0])
	assert.Equal(t, value.NumberFromInt(21), list.Items[1])
	assert.Equal(t, value.NumberFromInt(12), list.Items[2])
	assert.Equal(t, value.NumberFromInt(22), list.Items[3])
}

func TestEvalForNumericRange(t *testing.T) {
	s := scope.NewRoot()
	got := evalExpr(t, "for i in 1..3 return i * i", s, nil)
	list, ok := value.AsList(got)
	require.True(t, ok)
	require.Len(t, list.Items, 3)
	assert.Equal(t, value.NumberFromInt(9), list.Items[2])
}

func TestEvalSomeEverySatisfies(t *testing.T) {
	s := scope.NewRoot()
	s.Set("list", value.NewList([]value.Value{value.NumberFromInt(1), value.NumberFromInt(2), value.NumberFromInt(3)}))
	assert.Equal(t, value.True, evalExpr(t, "some x in list satisfies x > 2", s, nil))
	assert.Equal(t, value.False, evalExpr(t, "every x in list satisfies x > 2", s, nil))
	assert.Equal(t, value.True, evalExpr(t, "every x in list satisfies x > 0", s, nil))
}

func TestEvalFilterBooleanPredicate(t *testing.T) {
	s := scope.NewRoot()
	s.Set("list", value.NewList([]value.Value{value.NumberFromInt(1), value.NumberFromInt(2), value.NumberFromInt(3)}))
	got := evalExpr(t, "list[item > 1]", s, nil)
	list, ok := value.AsList(got)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
}

func TestEvalFilterNumericIndex(t *testing.T) {
	s := scope.NewRoot()
	s.Set("list", value.NewList([]value.Value{value.NumberFromInt(10), value.NumberFromInt(20), value.NumberFromInt(30)}))
	assert.Equal(t, value.NumberFromInt(30), evalExpr(t, "list[-1]", s, nil))
	assert.Equal(t, value.NumberFromInt(10), evalExpr(t, "list[1]", s, nil))
	assert.Equal(t, value.Nil, evalExpr(t, "list[0]", s, nil))
}

func TestEvalPathContextAndProjection(t *testing.T) {
	s := scope.NewRoot()
	person := value.NewContext()
	person.Set("name", value.String("Ann"))
	s.Set("person", person)
	assert.Equal(t, value.String("Ann"), evalExpr(t, "person.name", s, nil))

	people := value.NewList([]value.Value{person})
	s.Set("people", people)
	got := evalExpr(t, "people.name", s, nil)
	list, ok := value.AsList(got)
	require.True(t, ok)
	assert.Equal(t, []value.Value{value.String("Ann")}, list.Items)
}

func TestEvalFunctionDefinitionAndInvocation(t *testing.T) {
	s := scope.NewRoot()
	got := evalExpr(t, "function(a, b) a + b", s, nil)
	fn, ok := value.AsFunction(got)
	require.True(t, ok)
	result, err := New().Call(context.Background(), fn, []value.Value{value.NumberFromInt(3), value.NumberFromInt(4)})
	require.NoError(t, err)
	assert.Equal(t, value.NumberFromInt(7), result)
}

func TestEvalInvocationOfFunctionLiteral(t *testing.T) {
	s := scope.NewRoot()
	assert.Equal(t, value.NumberFromInt(6), evalExpr(t, "(function(a, b) a * b)(2, 3)", s, nil))
}

type mockResolver struct {
	fns map[string]value.Function
}

func (m mockResolver) Resolve(name string) (value.Function, bool) {
	fn, ok := m.fns[name]
	return fn, ok
}

func TestEvalBuiltinResolverFallback(t *testing.T) {
	s := scope.NewRoot()
	resolver := mockResolver{fns: map[string]value.Function{
		"double": value.NewNativeFunction("double", func(args []value.Value) (value.Value, error) {
			n, _ := value.AsNumber(args[0])
			return value.Add(n, n), nil
		}),
	}}
	assert.Equal(t, value.NumberFromInt(10), evalExpr(t, "double(5)", s, resolver))
}

func TestEvalNamedArguments(t *testing.T) {
	s := scope.NewRoot()
	resolver := mockResolver{fns: map[string]value.Function{
		"greet": {
			Name:   "greet",
			Params: []string{"first", "last"},
			Native: func(args []value.Value) (value.Value, error) {
				first, _ := value.AsString(args[0])
				last, _ := value.AsString(args[1])
				return value.String(first + " " + last), nil
			},
		},
	}}
	got := evalExpr(t, `greet(last: "Doe", first: "Jane")`, s, resolver)
	assert.Equal(t, value.String("Jane Doe"), got)
}

func TestEvalRangeAndBetween(t *testing.T) {
	s := scope.NewRoot()
	assert.Equal(t, value.True, evalExpr(t, "5 between 1 and 10", s, nil))
	assert.Equal(t, value.False, evalExpr(t, "15 between 1 and 10", s, nil))
}

func TestEvalInWithRangeAndList(t *testing.T) {
	s := scope.NewRoot()
	assert.Equal(t, value.True, evalExpr(t, "5 in (1..10)", s, nil))
	assert.Equal(t, value.True, evalExpr(t, "2 in (1, 2, 3)", s, nil))
	assert.Equal(t, value.False, evalExpr(t, "4 in (1, 2, 3)", s, nil))
}

func TestEvalInstanceOf(t *testing.T) {
	s := scope.NewRoot()
	assert.Equal(t, value.True, evalExpr(t, "1 instance of number", s, nil))
	assert.Equal(t, value.False, evalExpr(t, `"x" instance of number`, s, nil))
}

func TestMatchUnaryTestsGreaterThan(t *testing.T) {
	s := scope.NewRoot()
	node, err := parser.ParseUnaryTests("> 5", s)
	require.NoError(t, err)
	ec := NewContext(s, nil)
	ev := New()

	matched, err := ev.MatchUnaryTests(context.Background(), node, value.NumberFromInt(10), ec)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = ev.MatchUnaryTests(context.Background(), node, value.NumberFromInt(3), ec)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMatchUnaryTestsCommaList(t *testing.T) {
	s := scope.NewRoot()
	node, err := parser.ParseUnaryTests("1, 2, 3", s)
	require.NoError(t, err)
	ec := NewContext(s, nil)
	ev := New()

	matched, err := ev.MatchUnaryTests(context.Background(), node, value.NumberFromInt(2), ec)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestMatchUnaryTestsNegated(t *testing.T) {
	s := scope.NewRoot()
	node, err := parser.ParseUnaryTests("not(1, 2)", s)
	require.NoError(t, err)
	ec := NewContext(s, nil)
	ev := New()

	matched, err := ev.MatchUnaryTests(context.Background(), node, value.NumberFromInt(3), ec)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = ev.MatchUnaryTests(context.Background(), node, value.NumberFromInt(1), ec)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestMatchUnaryTestsRange(t *testing.T) {
	s := scope.NewRoot()
	node, err := parser.ParseUnaryTests("1..10", s)
	require.NoError(t, err)
	ec := NewContext(s, nil)
	ev := New()

	for _, tc := range []struct {
		input value.Value
		want  bool
	}{
		{value.NumberFromInt(1), true},
		{value.NumberFromInt(10), true},
		{value.NumberFromInt(5), true},
		{value.NumberFromInt(0), false},
		{value.NumberFromInt(11), false},
	} {
		matched, err := ev.MatchUnaryTests(context.Background(), node, tc.input, ec)
		require.NoError(t, err)
		assert.Equal(t, tc.want, matched)
	}
}

func TestEvalCalendarArithmetic(t *testing.T) {
	s := scope.NewRoot()
	d, ok := value.ParseDate("2024-01-15")
	require.True(t, ok)
	s.Set("d", d)
	dur, ok := value.ParseDuration("P1Y")
	require.True(t, ok)
	s.Set("dur", dur)

	got := evalExpr(t, "d + dur", s, nil)
	gotDate, ok := value.AsDate(got)
	require.True(t, ok)
	assert.Equal(t, value.Date{Year: 2025, Month: 1, Day: 15}, gotDate)
}
