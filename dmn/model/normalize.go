package model

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
)

var (
	wsOrHyphenRun  = regexp.MustCompile(`[\s-]+`)
	forbiddenChars = regexp.MustCompile(`[?#$%&*()]`)
	letterSet      = runes.In(unicode.Letter)
)

// NormalizeName implements the variable-name normalisation spec §6
// requires for binding an input variable, decision, or table column to a
// lookup key: trim, collapse any run of whitespace or "-" to a single
// "_", and drop the characters DMN reserves for its own grammar
// (?#$%&*()). International letters are left untouched.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	collapsed := wsOrHyphenRun.ReplaceAllString(trimmed, "_")
	return forbiddenChars.ReplaceAllString(collapsed, "")
}

// CanNormalize reports whether name, once normalized, starts with a
// Unicode letter or "_" (spec §6) and therefore yields a usable FEEL
// name rather than a string no lexer could ever tokenize as a NAME.
func CanNormalize(name string) bool {
	norm := NormalizeName(name)
	if norm == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(norm)
	return first == '_' || letterSet.Contains(first)
}

// IsBareName reports whether expr, once trimmed, is a plain variable
// reference rather than an operator expression: decision tables commonly
// bind a table-input column directly to the variable it reads (spec
// §4.8 "for trivial bare names, reading the variable directly"), and the
// same shape identifies an alias candidate (see alias.go).
func IsBareName(expr string) bool {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return false
	}
	switch trimmed {
	case "true", "false", "null":
		return false
	}
	return !strings.ContainsAny(trimmed, "()[]{}+-*/<>=!,.:\"@")
}
