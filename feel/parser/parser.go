package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/lexer"
)

// NameResolver tells the parser how many contiguous words, starting at
// words[0], form one declared multi-word FEEL name (spec §4.1/§4.2). It
// is satisfied by *feel/scope.Scope; a nil resolver makes every name
// exactly one word.
type NameResolver interface {
	MatchNameLength(words []string) (int, bool)
}

// keywordedBuiltins lists the built-in function names that embed a FEEL
// keyword ("and", "of") and so cannot be recognized by a plain run of
// IDENT tokens (spec §4.6).
var keywordedBuiltins = []string{
	"date and time",
	"years and months duration",
	"day of week",
	"day of year",
	"month of year",
	"week of year",
}

// Parser holds the token stream and parse position for one parse.
type Parser struct {
	toks     []lexer.Token
	pos      int
	resolver NameResolver
}

// ParseExpression parses a full FEEL textual expression (spec §4.3).
func ParseExpression(src string, resolver NameResolver) (ast.Node, error) {
	p, err := newParser(src, resolver)
	if err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.EOF) {
		return nil, p.errorf("unexpected trailing input %q", p.cur().Text)
	}
	return node, nil
}

// ParseUnaryTests parses a simple-unary-tests production (spec §4.3/§4.8):
// a comma-separated list of positive unary tests, optionally wrapped in
// "not(...)".
func ParseUnaryTests(src string, resolver NameResolver) (ast.Node, error) {
	p, err := newParser(src, resolver)
	if err != nil {
		return nil, err
	}
	node, err := p.parseUnaryTestsTop()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.EOF) {
		return nil, p.errorf("unexpected trailing input %q", p.cur().Text)
	}
	return node, nil
}

func newParser(src string, resolver NameResolver) (*Parser, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, errors.Wrap(err, "lexing FEEL source")
	}
	return &Parser{toks: toks, resolver: resolver}, nil
}

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) check(t lexer.Type) bool { return p.cur().Type == t }

func (p *Parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(t lexer.Type) (lexer.Token, error) {
	if !p.check(t) {
		return lexer.Token{}, p.errorf("expected %s but found %q", t, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.cur().StartPos, Message: fmt.Sprintf(format, args...)}
}

// SyntaxError is the error returned by ParseExpression/ParseUnaryTests on a
// grammar failure. Offset is a byte offset into the parsed source; callers
// that need line/column (the feel facade's *ParseError, spec §4.3/§6)
// translate it by scanning the source text for newlines up to Offset.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

func (p *Parser) pos0() ast.Pos { return ast.Pos(p.cur().StartPos) }

// ---- unary tests (top-level grammar) ----

func (p *Parser) parseUnaryTestsTop() (ast.Node, error) {
	start := p.pos0()
	if p.check(lexer.NOT) {
		save := p.pos
		p.advance()
		if p.check(lexer.LPAREN) {
			p.advance()
			tests, err := p.parseUnaryTestList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			return &ast.UnaryTests{Base: ast.Base{At: start}, Negated: true, Tests: tests}, nil
		}
		p.pos = save
	}
	tests, err := p.parseUnaryTestList()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryTests{Base: ast.Base{At: start}, Tests: tests}, nil
}

func (p *Parser) parseUnaryTestList() ([]ast.Node, error) {
	first, err := p.parsePositiveUnaryTest()
	if err != nil {
		return nil, err
	}
	tests := []ast.Node{first}
	for p.check(lexer.COMMA) {
		p.advance()
		next, err := p.parsePositiveUnaryTest()
		if err != nil {
			return nil, err
		}
		tests = append(tests, next)
	}
	return tests, nil
}

func (p *Parser) parsePositiveUnaryTest() (ast.Node, error) {
	start := p.pos0()
	if p.check(lexer.MINUS) && p.peekIsWildcard() {
		p.advance()
		return &ast.Wildcard{Base: ast.Base{At: start}}, nil
	}
	switch p.cur().Type {
	case lexer.LT, lexer.LTE, lexer.GT, lexer.GTE:
		op := p.advance().Text
		expr, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.PositiveUnaryTest{Base: ast.Base{At: start}, Op: op, Expr: expr}, nil
	}
	if rng, ok := p.tryParseBareRange(start); ok {
		return &ast.PositiveUnaryTest{Base: ast.Base{At: start}, Expr: rng}, nil
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	return &ast.PositiveUnaryTest{Base: ast.Base{At: start}, Expr: expr}, nil
}

// tryParseBareRange recognizes the unbracketed "a..b" closed-range form
// permitted only inside a simple-unary-tests cell (spec §4.3).
func (p *Parser) tryParseBareRange(start ast.Pos) (ast.Node, bool) {
	save := p.pos
	low, err := p.parseAdditive()
	if err != nil || !p.check(lexer.DOTDOT) {
		p.pos = save
		return nil, false
	}
	p.advance()
	high, err := p.parseAdditive()
	if err != nil {
		p.pos = save
		return nil, false
	}
	return &ast.RangeLiteral{Base: ast.Base{At: start}, Low: low, High: high}, true
}

// peekIsWildcard reports whether the current "-" token is the bare
// wildcard "-" (followed only by a comma, ")" or end of input) rather
// than a unary-minus number.
func (p *Parser) peekIsWildcard() bool {
	if p.pos+1 >= len(p.toks) {
		return true
	}
	next := p.toks[p.pos+1].Type
	return next == lexer.COMMA || next == lexer.RPAREN || next == lexer.EOF
}

// ---- expression grammar, lowest to highest precedence ----

func (p *Parser) parseExpr() (ast.Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Node, error) {
	start := p.pos0()
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.OR) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Base: ast.Base{At: start}, Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	start := p.pos0()
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.AND) {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Base: ast.Base{At: start}, Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Node, error) {
	start := p.pos0()
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch p.cur().Type {
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE:
		op := p.advance().Text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Base: ast.Base{At: start}, Op: op, Left: left, Right: right}, nil
	case lexer.BETWEEN:
		p.advance()
		low, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.AND); err != nil {
			return nil, err
		}
		high, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BetweenExpr{Base: ast.Base{At: start}, Value: left, Low: low, High: high}, nil
	case lexer.IN:
		p.advance()
		tests, err := p.parseInTestList()
		if err != nil {
			return nil, err
		}
		return &ast.InExpr{Base: ast.Base{At: start}, Value: left, Tests: tests}, nil
	case lexer.INSTANCE:
		p.advance()
		if _, err := p.expect(lexer.OF); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.InstanceOfExpr{Base: ast.Base{At: start}, Value: left, TypeName: name.Text}, nil
	}
	return left, nil
}

func (p *Parser) parseInTestList() ([]ast.Node, error) {
	if p.check(lexer.LPAREN) {
		save := p.pos
		p.advance()
		tests, err := p.parseUnaryTestList()
		if err == nil && p.check(lexer.RPAREN) {
			p.advance()
			return tests, nil
		}
		p.pos = save
	}
	test, err := p.parsePositiveUnaryTest()
	if err != nil {
		return nil, err
	}
	return []ast.Node{test}, nil
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	start := p.pos0()
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		op := p.advance().Text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Base: ast.Base{At: start}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	start := p.pos0()
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.ASTERISK) || p.check(lexer.SLASH) || p.check(lexer.PERCENT) {
		op := p.advance().Text
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Base: ast.Base{At: start}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePow() (ast.Node, error) {
	start := p.pos0()
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.POW) {
		p.advance()
		right, err := p.parsePow() // right-associative
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Base: ast.Base{At: start}, Op: "**", Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	start := p.pos0()
	if p.check(lexer.MINUS) {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{At: start}, Op: "-", Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	start := p.pos0()
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.DOT:
			p.advance()
			key, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			node = &ast.PathExpr{Base: ast.Base{At: start}, Target: node, Key: key.Text}
		case lexer.LBRACKET:
			p.advance()
			pred, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
			node = &ast.FilterExpr{Base: ast.Base{At: start}, List: node, Predicate: pred}
		case lexer.LPAREN:
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			node = &ast.FunctionInvocation{Base: ast.Base{At: start}, Target: node, Args: args}
		default:
			return node, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Argument, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Argument
	for !p.check(lexer.RPAREN) {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseArgument() (ast.Argument, error) {
	if p.check(lexer.IDENT) && p.toks[p.pos+1].Type == lexer.COLON {
		name := p.advance().Text
		p.advance() // ':'
		val, err := p.parseExpr()
		if err != nil {
			return ast.Argument{}, err
		}
		return ast.Argument{Name: name, Value: val}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return ast.Argument{}, err
	}
	return ast.Argument{Value: val}, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	start := p.pos0()
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		return &ast.NumberLiteral{Base: ast.Base{At: start}, Text: tok.Text}, nil
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Base: ast.Base{At: start}, Text: tok.Text}, nil
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Base: ast.Base{At: start}, Value: tok.Type == lexer.TRUE}, nil
	case lexer.NULL:
		p.advance()
		return &ast.NullLiteral{Base: ast.Base{At: start}}, nil
	case lexer.LPAREN:
		if node, ok := p.tryParseRange(lexer.LPAREN); ok {
			return node, nil
		}
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBRACKET:
		if node, ok := p.tryParseRange(lexer.LBRACKET); ok {
			return node, nil
		}
		return p.parseList(start)
	case lexer.LBRACE:
		return p.parseContext(start)
	case lexer.IF:
		return p.parseIf(start)
	case lexer.FOR:
		return p.parseFor(start)
	case lexer.SOME, lexer.EVERY:
		return p.parseQuantified(start)
	case lexer.FUNCTION:
		return p.parseFunctionDef(start)
	case lexer.NOT:
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{At: start}, Op: "not", Operand: operand}, nil
	case lexer.IDENT:
		return p.parseNameOrCall(start)
	}
	return nil, p.errorf("unexpected token %q", tok.Text)
}

func (p *Parser) tryParseRange(open lexer.Type) (ast.Node, bool) {
	start := p.pos
	p.advance()
	low, err := p.parseAdditive()
	if err != nil || !p.check(lexer.DOTDOT) {
		p.pos = start
		return nil, false
	}
	p.advance()
	high, err := p.parseAdditive()
	if err != nil {
		p.pos = start
		return nil, false
	}
	var highOpen bool
	switch p.cur().Type {
	case lexer.RBRACKET:
		highOpen = false
	case lexer.RPAREN:
		highOpen = true
	default:
		p.pos = start
		return nil, false
	}
	p.advance()
	return &ast.RangeLiteral{Base: ast.Base{At: ast.Pos(p.toks[start].StartPos)}, Low: low, High: high, LowOpen: open == lexer.LPAREN, HighOpen: highOpen}, true
}

func (p *Parser) parseList(start ast.Pos) (ast.Node, error) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var elems []ast.Node
	for !p.check(lexer.RBRACKET) {
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListExpr{Base: ast.Base{At: start}, Elements: elems}, nil
}

func (p *Parser) parseContext(start ast.Pos) (ast.Node, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var entries []ast.ContextEntry
	for !p.check(lexer.RBRACE) {
		key, err := p.parseContextKey()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.ContextEntry{Key: key, Value: val})
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ContextExpr{Base: ast.Base{At: start}, Entries: entries}, nil
}

func (p *Parser) parseContextKey() (string, error) {
	if p.check(lexer.STRING) {
		return p.advance().Text, nil
	}
	if !p.check(lexer.IDENT) {
		return "", p.errorf("expected context key but found %q", p.cur().Text)
	}
	var words []string
	for p.check(lexer.IDENT) {
		words = append(words, p.advance().Text)
		if p.check(lexer.COLON) {
			break
		}
	}
	return strings.Join(words, " "), nil
}

func (p *Parser) parseIf(start ast.Pos) (ast.Node, error) {
	p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ELSE); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.IfExpr{Base: ast.Base{At: start}, Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

func (p *Parser) parseBindings() ([]ast.ForIteration, error) {
	var bindings []ast.ForIteration
	for {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.IN); err != nil {
			return nil, err
		}
		in, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		// An unbracketed numeric range "start..end" is an inclusive range.
		if p.check(lexer.DOTDOT) {
			p.advance()
			high, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			in = &ast.RangeLiteral{Base: ast.Base{At: in.Pos()}, Low: in, High: high}
		}
		bindings = append(bindings, ast.ForIteration{Name: name.Text, In: in})
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return bindings, nil
}

func (p *Parser) parseFor(start ast.Pos) (ast.Node, error) {
	p.advance() // for
	bindings, err := p.parseBindings()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RETURN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ForExpr{Base: ast.Base{At: start}, Bindings: bindings, Body: body}, nil
}

func (p *Parser) parseQuantified(start ast.Pos) (ast.Node, error) {
	every := p.cur().Type == lexer.EVERY
	p.advance() // some | every
	bindings, err := p.parseBindings()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SATISFIES); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.QuantifiedExpr{Base: ast.Base{At: start}, Every: every, Bindings: bindings, Cond: cond}, nil
}

func (p *Parser) parseFunctionDef(start ast.Pos) (ast.Node, error) {
	p.advance() // function
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(lexer.RPAREN) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, name.Text)
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if p.check(lexer.EXTERNAL) {
		p.advance()
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDefinition{Base: ast.Base{At: start}, Params: params, Body: body, External: true}, nil
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDefinition{Base: ast.Base{At: start}, Params: params, Body: body}, nil
}

// parseNameOrCall gathers a (possibly multi-word) name via the resolver,
// special-cases the handful of built-in names that embed a keyword, and
// recognizes an immediately following "(" as a function invocation.
func (p *Parser) parseNameOrCall(start ast.Pos) (ast.Node, error) {
	if name, ok := p.tryParseKeywordedBuiltin(); ok {
		return &ast.NameRef{Base: ast.Base{At: start}, Name: name}, nil
	}

	var words []string
	savePositions := []int{p.pos}
	for p.check(lexer.IDENT) {
		words = append(words, p.cur().Text)
		p.advance()
		savePositions = append(savePositions, p.pos)
		if !p.check(lexer.IDENT) {
			break
		}
	}

	n := 1
	if p.resolver != nil {
		if matched, ok := p.resolver.MatchNameLength(words); ok {
			n = matched
		}
	}
	if n > len(words) {
		n = len(words)
	}
	// Rewind to just past the n-th consumed word.
	p.pos = savePositions[n]
	name := strings.Join(words[:n], " ")
	return &ast.NameRef{Base: ast.Base{At: start}, Name: name}, nil
}

// tryParseKeywordedBuiltin attempts to match one of keywordedBuiltins
// starting at the current position, consuming its tokens on success.
func (p *Parser) tryParseKeywordedBuiltin() (string, bool) {
	save := p.pos
	for _, name := range keywordedBuiltins {
		words := strings.Fields(name)
		p.pos = save
		matched := true
		for i, w := range words {
			if i > 0 {
				// a word after the first may be the keyword "and" or "of"
				if w == "and" && p.check(lexer.AND) {
					p.advance()
					continue
				}
				if w == "of" && p.check(lexer.OF) {
					p.advance()
					continue
				}
			}
			if p.check(lexer.IDENT) && p.cur().Text == w {
				p.advance()
				continue
			}
			matched = false
			break
		}
		if matched {
			return name, true
		}
	}
	p.pos = save
	return "", false
}
