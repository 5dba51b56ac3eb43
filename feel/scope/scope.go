// Package scope resolves FEEL variable names — including multi-word
// names such as "Applicant Age" — against nested evaluation scopes, and
// normalizes declared names per spec §4.1's identifier rules.
package scope

import (
	"strings"
	"unicode"

	"github.com/dmnrun/feelengine/feel/value"
)

// Scope is one FEEL evaluation frame: a set of name bindings plus an
// optional parent for lexical lookup (function bodies, for/some/every
// iteration bindings, context literals).
type Scope struct {
	parent *Scope
	vars   map[string]value.Value
	names  *nameTrie
}

// NewRoot returns an empty top-level scope.
func NewRoot() *Scope {
	return &Scope{vars: make(map[string]value.Value), names: newNameTrie()}
}

// Child returns a new scope nested inside s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: make(map[string]value.Value), names: newNameTrie()}
}

// Set declares or overwrites a binding visible in this scope. name may
// contain embedded spaces ("Applicant Age"); it is normalized and
// registered with the resolver trie so that later lookups over a token
// stream can recognize it as a single multi-word name.
func (s *Scope) Set(name string, v value.Value) {
	norm := Normalize(name)
	s.vars[norm] = v
	s.names.insert(strings.Fields(norm))
}

// Get looks up a normalized (single-string) name, searching outward
// through enclosing scopes.
func (s *Scope) Get(name string) (value.Value, bool) {
	norm := Normalize(name)
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[norm]; ok {
			return v, true
		}
	}
	return nil, false
}

// ResolveWords finds the longest run of words, starting at words[0], that
// forms a declared name in s or an enclosing scope, returning the word
// count consumed and the bound value. Scopes are searched from innermost
// to outermost, and within a scope the longest match wins, matching how a
// nested "Applicant Age" binding shadows an outer one (spec §4.2).
func (s *Scope) ResolveWords(words []string) (value.Value, int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		n, ok := cur.names.longestMatch(words)
		if !ok {
			continue
		}
		name := strings.Join(words[:n], " ")
		if v, ok := cur.vars[name]; ok {
			return v, n, true
		}
	}
	return nil, 0, false
}

// MatchNameLength is ResolveWords without the value lookup, for callers
// (the parser) that only need to know how many tokens a declared name
// spans and have no scope value to return yet.
func (s *Scope) MatchNameLength(words []string) (int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if n, ok := cur.names.longestMatch(words); ok {
			return n, true
		}
	}
	return 0, false
}

// Normalize collapses internal whitespace runs in a FEEL name to single
// spaces and trims leading/trailing space, so "Applicant   Age" and
// "Applicant Age" refer to the same binding (spec §4.1).
func Normalize(name string) string {
	fields := strings.FieldsFunc(name, unicode.IsSpace)
	return strings.Join(fields, " ")
}
