package feel

import (
	"context"
	"strings"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/builtins"
	"github.com/dmnrun/feelengine/feel/eval"
	"github.com/dmnrun/feelengine/feel/parser"
	"github.com/dmnrun/feelengine/feel/scope"
	"github.com/dmnrun/feelengine/feel/value"
)

// builtinMultiWordNames seeds a fresh Scope with every multi-word
// built-in name the lexer's name resolver must merge into one NAME token
// (spec §4.2); Warmup registers these against a caller-supplied scope so
// decision models that never declare their own multi-word variables still
// get "string length(...)" etc. recognized.
var builtinMultiWordNames = []string{
	"string length", "upper case", "lower case", "substring before",
	"substring after", "starts with", "ends with", "string join",
	"list contains", "insert before", "distinct values", "index of",
	"list replace", "round up", "round down", "round half up",
	"round half down", "date and time", "years and months duration",
	"day of year", "day of week", "month of year", "week of year",
	"get value", "get entries", "context put", "context merge",
	"met by", "overlaps before", "overlaps after", "started by",
	"finished by",
}

// Engine is the FEEL engine facade (spec §4.7): a parser entry point, a
// tree-walking evaluator, and the built-in function registry, bundled so
// callers (chiefly dmn/orchestrate) get one object to hold onto.
type Engine struct {
	Evaluator *eval.Evaluator
	Builtins  *builtins.Registry
}

// New constructs an Engine with the default recursion-bounded evaluator
// and the full built-in function registry (spec §4.6), wired so that
// "sort"'s optional predicate argument can call back into the evaluator
// (feel/builtins.Caller is satisfied directly by *eval.Evaluator).
func New() *Engine {
	ev := eval.New()
	return &Engine{Evaluator: ev, Builtins: builtins.NewRegistry(ev)}
}

// Warmup pre-registers the built-in multi-word names into s so the name
// resolver recognizes them even before any decision-model variable is
// declared (spec §4.2; supplemental per SPEC_FULL.md §3).
func Warmup(s *scope.Scope) {
	for _, name := range builtinMultiWordNames {
		if _, ok := s.Get(name); !ok {
			s.Set(name, value.Nil)
		}
	}
}

// ParseExpression parses a full FEEL textual expression (spec §4.3/§4.7).
// scope may be nil, in which case every name is treated as a single word.
func (e *Engine) ParseExpression(src string, sc *scope.Scope) (ast.Node, error) {
	return e.parse(src, sc, parser.ParseExpression)
}

// ParseSimpleUnaryTests parses a simple-unary-tests production (spec
// §4.3/§4.7), used for decision-table input cells.
func (e *Engine) ParseSimpleUnaryTests(src string, sc *scope.Scope) (ast.Node, error) {
	return e.parse(src, sc, parser.ParseUnaryTests)
}

func (e *Engine) parse(src string, sc *scope.Scope, fn func(string, parser.NameResolver) (ast.Node, error)) (ast.Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, newArgumentError("expression text must not be empty")
	}
	var resolver parser.NameResolver
	if sc != nil {
		resolver = sc
	}
	node, err := fn(src, resolver)
	if err != nil {
		return nil, newParseError(src, err)
	}
	return node, nil
}

// evalContextFor builds an EvalContext over sc (or a fresh root scope) and
// the Engine's built-in resolver.
func (e *Engine) evalContextFor(sc *scope.Scope) *eval.EvalContext {
	if sc == nil {
		sc = scope.NewRoot()
	}
	return eval.NewContext(sc, e.Builtins)
}

// EvaluateExpression parses and evaluates a full FEEL expression against
// the variable bindings already present in sc (spec §4.7).
func (e *Engine) EvaluateExpression(ctx context.Context, src string, sc *scope.Scope) (value.Value, error) {
	node, err := e.ParseExpression(src, sc)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, node, sc)
}

// EvaluateSimpleUnaryTests parses src as simple-unary-tests and evaluates
// it against input as the implicit value (spec §4.7): the decision-table
// cell evaluation path.
func (e *Engine) EvaluateSimpleUnaryTests(ctx context.Context, src string, input value.Value, sc *scope.Scope) (bool, error) {
	node, err := e.ParseSimpleUnaryTests(src, sc)
	if err != nil {
		return false, err
	}
	ec := e.evalContextFor(sc).WithInput(input)
	matched, err := e.Evaluator.MatchUnaryTests(ctx, node, input, ec)
	if err != nil {
		return false, &EvaluationError{Message: "matching unary tests", cause: err}
	}
	return matched, nil
}

// MatchUnaryTests evaluates an already-parsed simple-unary-tests AST
// against input (spec §4.5/§4.7): the counterpart to Evaluate for
// dmn/orchestrate, which parses a decision-table input cell once through
// its own AST cache and re-matches it against a fresh input value on
// every rule evaluation.
func (e *Engine) MatchUnaryTests(ctx context.Context, node ast.Node, input value.Value, sc *scope.Scope) (bool, error) {
	ec := e.evalContextFor(sc).WithInput(input)
	matched, err := e.Evaluator.MatchUnaryTests(ctx, node, input, ec)
	if err != nil {
		return false, &EvaluationError{Message: "matching unary tests", cause: err}
	}
	return matched, nil
}

// Evaluate evaluates an already-parsed AST against sc (spec §4.7), used
// by dmn/orchestrate after its own AST cache lookup.
func (e *Engine) Evaluate(ctx context.Context, node ast.Node, sc *scope.Scope) (value.Value, error) {
	ec := e.evalContextFor(sc)
	v, err := e.Evaluator.Eval(ctx, node, ec)
	if err != nil {
		return nil, &EvaluationError{Message: "evaluating expression", cause: err}
	}
	return v, nil
}

// EvaluateInScope evaluates an already-parsed AST against an existing
// EvalContext (e.g. one carrying an implicit input value), for callers
// that built their own eval.EvalContext rather than a bare scope.
func (e *Engine) EvaluateInScope(ctx context.Context, node ast.Node, ec *eval.EvalContext) (value.Value, error) {
	v, err := e.Evaluator.Eval(ctx, node, ec)
	if err != nil {
		return nil, &EvaluationError{Message: "evaluating expression", cause: err}
	}
	return v, nil
}
