package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/scope"
	"github.com/dmnrun/feelengine/feel/value"
)

func TestParseLiterals(t *testing.T) {
	n, err := ParseExpression("42", nil)
	require.NoError(t, err)
	assert.Equal(t, &ast.NumberLiteral{Base: ast.Base{At: 0}, Text: "42"}, n)

	s, err := ParseExpression(`"hi"`, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", s.(*ast.StringLiteral).Text)

	b, err := ParseExpression("true", nil)
	require.NoError(t, err)
	assert.True(t, b.(*ast.BooleanLiteral).Value)

	nul, err := ParseExpression("null", nil)
	require.NoError(t, err)
	assert.IsType(t, &ast.NullLiteral{}, nul)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	n, err := ParseExpression("1 + 2 * 3", nil)
	require.NoError(t, err)
	bin := n.(*ast.BinaryOp)
	assert.Equal(t, "+", bin.Op)
	assert.Equal(t, "1", bin.Left.(*ast.NumberLiteral).Text)
	rhs := bin.Right.(*ast.BinaryOp)
	assert.Equal(t, "*", rhs.Op)
}

func TestParsePowerRightAssociative(t *testing.T) {
	n, err := ParseExpression("2 ** 3 ** 2", nil)
	require.NoError(t, err)
	bin := n.(*ast.BinaryOp)
	assert.Equal(t, "**", bin.Op)
	assert.Equal(t, "2", bin.Left.(*ast.NumberLiteral).Text)
	rhs := bin.Right.(*ast.BinaryOp)
	assert.Equal(t, "**", rhs.Op)
	assert.Equal(t, "3", rhs.Left.(*ast.NumberLiteral).Text)
}

func TestParseUnaryMinus(t *testing.T) {
	n, err := ParseExpression("-x", nil)
	require.NoError(t, err)
	op := n.(*ast.UnaryOp)
	assert.Equal(t, "-", op.Op)
	assert.Equal(t, "x", op.Operand.(*ast.NameRef).Name)
}

func TestParseComparisonOperators(t *testing.T) {
	n, err := ParseExpression("a <= b", nil)
	require.NoError(t, err)
	bin := n.(*ast.BinaryOp)
	assert.Equal(t, "<=", bin.Op)
}

func TestParseBetween(t *testing.T) {
	n, err := ParseExpression("x between 1 and 10", nil)
	require.NoError(t, err)
	b := n.(*ast.BetweenExpr)
	assert.Equal(t, "1", b.Low.(*ast.NumberLiteral).Text)
	assert.Equal(t, "10", b.High.(*ast.NumberLiteral).Text)
}

func TestParseInSingleTest(t *testing.T) {
	n, err := ParseExpression("x in 5", nil)
	require.NoError(t, err)
	in := n.(*ast.InExpr)
	require.Len(t, in.Tests, 1)
}

func TestParseInTestList(t *testing.T) {
	n, err := ParseExpression("x in (1, 2, 3)", nil)
	require.NoError(t, err)
	in := n.(*ast.InExpr)
	require.Len(t, in.Tests, 3)
}

func TestParseIfThenElse(t *testing.T) {
	n, err := ParseExpression("if x then 1 else 2", nil)
	require.NoError(t, err)
	ifx := n.(*ast.IfExpr)
	assert.Equal(t, "1", ifx.Then.(*ast.NumberLiteral).Text)
	assert.Equal(t, "2", ifx.Else.(*ast.NumberLiteral).Text)
}

func TestParseForReturn(t *testing.T) {
	n, err := ParseExpression("for x in list return x", nil)
	require.NoError(t, err)
	f := n.(*ast.ForExpr)
	require.Len(t, f.Bindings, 1)
	assert.Equal(t, "x", f.Bindings[0].Name)
	assert.Equal(t, "x", f.Body.(*ast.NameRef).Name)
}

func TestParseForMultipleBindings(t *testing.T) {
	n, err := ParseExpression("for x in a, y in b return x", nil)
	require.NoError(t, err)
	f := n.(*ast.ForExpr)
	require.Len(t, f.Bindings, 2)
	assert.Equal(t, "y", f.Bindings[1].Name)
}

func TestParseSomeSatisfies(t *testing.T) {
	n, err := ParseExpression("some x in list satisfies x > 5", nil)
	require.NoError(t, err)
	q := n.(*ast.QuantifiedExpr)
	assert.False(t, q.Every)
}

func TestParseEverySatisfies(t *testing.T) {
	n, err := ParseExpression("every x in list satisfies x > 5", nil)
	require.NoError(t, err)
	q := n.(*ast.QuantifiedExpr)
	assert.True(t, q.Every)
}

func TestParseFunctionLiteral(t *testing.T) {
	n, err := ParseExpression("function(a, b) a + b", nil)
	require.NoError(t, err)
	fn := n.(*ast.FunctionDefinition)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.False(t, fn.External)
}

func TestParseListLiteral(t *testing.T) {
	n, err := ParseExpression("[1, 2, 3]", nil)
	require.NoError(t, err)
	l := n.(*ast.ListExpr)
	require.Len(t, l.Elements, 3)
}

func TestParseContextLiteral(t *testing.T) {
	n, err := ParseExpression(`{x: 1, y: "a"}`, nil)
	require.NoError(t, err)
	c := n.(*ast.ContextExpr)
	require.Len(t, c.Entries, 2)
	assert.Equal(t, "x", c.Entries[0].Key)
	assert.Equal(t, "y", c.Entries[1].Key)
}

func TestParseRangeLiteralClosed(t *testing.T) {
	n, err := ParseExpression("[1..10]", nil)
	require.NoError(t, err)
	r := n.(*ast.RangeLiteral)
	assert.False(t, r.LowOpen)
	assert.False(t, r.HighOpen)
}

func TestParseRangeLiteralOpenHigh(t *testing.T) {
	n, err := ParseExpression("[1..10)", nil)
	require.NoError(t, err)
	r := n.(*ast.RangeLiteral)
	assert.False(t, r.LowOpen)
	assert.True(t, r.HighOpen)
}

func TestParseFilterAndIndex(t *testing.T) {
	n, err := ParseExpression("list[1]", nil)
	require.NoError(t, err)
	f := n.(*ast.FilterExpr)
	assert.Equal(t, "list", f.List.(*ast.NameRef).Name)
	assert.Equal(t, "1", f.Predicate.(*ast.NumberLiteral).Text)
}

func TestParsePathAccess(t *testing.T) {
	n, err := ParseExpression("a.b", nil)
	require.NoError(t, err)
	p := n.(*ast.PathExpr)
	assert.Equal(t, "b", p.Key)
	assert.Equal(t, "a", p.Target.(*ast.NameRef).Name)
}

func TestParseFunctionInvocationPositional(t *testing.T) {
	n, err := ParseExpression("sum(1, 2)", nil)
	require.NoError(t, err)
	inv := n.(*ast.FunctionInvocation)
	assert.Equal(t, "sum", inv.Target.(*ast.NameRef).Name)
	require.Len(t, inv.Args, 2)
	assert.Empty(t, inv.Args[0].Name)
}

func TestParseFunctionInvocationNamedArgs(t *testing.T) {
	n, err := ParseExpression(`f(x: 1, y: 2)`, nil)
	require.NoError(t, err)
	inv := n.(*ast.FunctionInvocation)
	require.Len(t, inv.Args, 2)
	assert.Equal(t, "x", inv.Args[0].Name)
	assert.Equal(t, "y", inv.Args[1].Name)
}

func TestParseMultiWordNameWithResolver(t *testing.T) {
	s := scope.NewRoot()
	s.Set("Applicant Age", value.NumberFromInt(30))

	n, err := ParseExpression("Applicant Age > 18", s)
	require.NoError(t, err)
	bin := n.(*ast.BinaryOp)
	assert.Equal(t, "Applicant Age", bin.Left.(*ast.NameRef).Name)
}

func TestParseMultiWordNameFallsBackToOneWordWithoutResolver(t *testing.T) {
	// With no resolver every name is exactly one word, so a second bare
	// word is left as unconsumed trailing input.
	_, err := ParseExpression("Applicant Age", nil)
	assert.Error(t, err)

	n, err := ParseExpression("Applicant", nil)
	require.NoError(t, err)
	assert.Equal(t, "Applicant", n.(*ast.NameRef).Name)
}

func TestParseKeywordedBuiltinDateAndTime(t *testing.T) {
	n, err := ParseExpression(`date and time("2019-01-01T12:00:00")`, nil)
	require.NoError(t, err)
	inv := n.(*ast.FunctionInvocation)
	assert.Equal(t, "date and time", inv.Target.(*ast.NameRef).Name)
}

func TestParseKeywordedBuiltinDayOfWeek(t *testing.T) {
	n, err := ParseExpression(`day of week(x)`, nil)
	require.NoError(t, err)
	inv := n.(*ast.FunctionInvocation)
	assert.Equal(t, "day of week", inv.Target.(*ast.NameRef).Name)
}

func TestParseNotExpression(t *testing.T) {
	n, err := ParseExpression("not(x)", nil)
	require.NoError(t, err)
	op := n.(*ast.UnaryOp)
	assert.Equal(t, "not", op.Op)
}

func TestParseUnaryTestsWildcard(t *testing.T) {
	n, err := ParseUnaryTests("-", nil)
	require.NoError(t, err)
	ut := n.(*ast.UnaryTests)
	require.Len(t, ut.Tests, 1)
	assert.IsType(t, &ast.Wildcard{}, ut.Tests[0])
}

func TestParseUnaryTestsComparisonOperator(t *testing.T) {
	n, err := ParseUnaryTests("< 10", nil)
	require.NoError(t, err)
	ut := n.(*ast.UnaryTests)
	test := ut.Tests[0].(*ast.PositiveUnaryTest)
	assert.Equal(t, "<", test.Op)
	assert.Equal(t, "10", test.Expr.(*ast.NumberLiteral).Text)
}

func TestParseUnaryTestsNegated(t *testing.T) {
	n, err := ParseUnaryTests("not(1, 2)", nil)
	require.NoError(t, err)
	ut := n.(*ast.UnaryTests)
	assert.True(t, ut.Negated)
	require.Len(t, ut.Tests, 2)
}

func TestParseUnaryTestsRange(t *testing.T) {
	n, err := ParseUnaryTests("[1..10]", nil)
	require.NoError(t, err)
	ut := n.(*ast.UnaryTests)
	test := ut.Tests[0].(*ast.PositiveUnaryTest)
	assert.IsType(t, &ast.RangeLiteral{}, test.Expr)
}

func TestParseUnaryTestsBareRange(t *testing.T) {
	n, err := ParseUnaryTests("1..10", nil)
	require.NoError(t, err)
	ut := n.(*ast.UnaryTests)
	test := ut.Tests[0].(*ast.PositiveUnaryTest)
	rng := test.Expr.(*ast.RangeLiteral)
	assert.Equal(t, "1", rng.Low.(*ast.NumberLiteral).Text)
	assert.Equal(t, "10", rng.High.(*ast.NumberLiteral).Text)
}

func TestParseUnaryTestsCommaList(t *testing.T) {
	n, err := ParseUnaryTests("1, 2, 3", nil)
	require.NoError(t, err)
	ut := n.(*ast.UnaryTests)
	require.Len(t, ut.Tests, 3)
}

func TestParseTrailingInputIsError(t *testing.T) {
	_, err := ParseExpression("1 +", nil)
	assert.Error(t, err)

	_, err = ParseExpression("1 2", nil)
	assert.Error(t, err)
}

func TestParseInstanceOf(t *testing.T) {
	n, err := ParseExpression("x instance of number", nil)
	require.NoError(t, err)
	io := n.(*ast.InstanceOfExpr)
	assert.Equal(t, "number", io.TypeName)
}
