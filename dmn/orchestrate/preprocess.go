package orchestrate

import (
	"regexp"
	"strings"
)

// shorthandConstructorCall matches DMN's date/time/duration constructor
// shorthand: a literal argument with no surrounding quotes, e.g.
// date(2024-01-15) rather than date("2024-01-15"). Nested parens in the
// argument are not supported; callers that need them should already be
// writing the quoted form.
var shorthandConstructorCall = regexp.MustCompile(`\b(date and time|date|time|duration)\(([^"()]*)\)`)

// PreprocessExpression rewrites DMN constructor shorthand into ordinary
// FEEL function calls (spec §4.8): date(2024-01-15) becomes
// date("2024-01-15"), and likewise for time, date and time, and
// duration. A string-literal argument, or anything that isn't a bare
// literal constructor argument, is left untouched.
func PreprocessExpression(text string) string {
	return shorthandConstructorCall.ReplaceAllStringFunc(text, func(m string) string {
		sub := shorthandConstructorCall.FindStringSubmatch(m)
		fn, arg := sub[1], strings.TrimSpace(sub[2])
		if !needsQuoting(arg) {
			return m
		}
		return fn + "(\"" + arg + "\")"
	})
}

func needsQuoting(arg string) bool {
	if arg == "" {
		return false
	}
	c := arg[0]
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == 'P':
		return true
	case c == 'T' && len(arg) > 1 && arg[1] >= '0' && arg[1] <= '9':
		return true
	default:
		return false
	}
}
