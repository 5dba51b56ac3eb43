package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typesOf(tokens []Token) []Type {
	types := make([]Type, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := New("1 + 2 * 3 ** 2 <= 10 and not false").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []Type{
		NUMBER, PLUS, NUMBER, ASTERISK, NUMBER, POW, NUMBER, LTE, NUMBER,
		AND, NOT, FALSE, EOF,
	}, typesOf(toks))
}

func TestTokenizeString(t *testing.T) {
	toks, err := New(`"hello\nworld"`).Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "hello\nworld", toks[0].Text)
}

func TestTokenizeMultiWordName(t *testing.T) {
	toks, err := New("Applicant Age").Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, "Applicant", toks[0].Text)
	assert.Equal(t, IDENT, toks[1].Type)
	assert.Equal(t, "Age", toks[1].Text)
}

func TestTokenizeRangeDots(t *testing.T) {
	toks, err := New("[1..10]").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []Type{LBRACKET, NUMBER, DOTDOT, NUMBER, RBRACKET, EOF}, typesOf(toks))
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := New(`"unterminated`).Tokenize()
	assert.Error(t, err)
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	_, err := New("1 & 2").Tokenize()
	assert.Error(t, err)
}

func TestKeywordLookup(t *testing.T) {
	assert.Equal(t, AND, LookupIdent("and"))
	assert.Equal(t, IDENT, LookupIdent("Applicant"))
	assert.True(t, AND.IsKeyword())
	assert.False(t, PLUS.IsKeyword())
}
