package builtins

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmnrun/feelengine/feel/value"
)

// registerString installs the 13 string built-ins (spec §4.6). Case
// conversion goes through golang.org/x/text/cases rather than
// strings.ToUpper/ToLower so multi-byte scripts fold the way a real DMN
// engine's locale-aware case functions would, not just ASCII.
func registerString(r *Registry) {
	r.add("substring", []string{"string", "start position", "length"}, biSubstring)
	r.add("string length", []string{"string"}, biStringLength)
	r.add("upper case", []string{"string"}, biUpperCase)
	r.add("lower case", []string{"string"}, biLowerCase)
	r.add("substring before", []string{"string", "match"}, biSubstringBefore)
	r.add("substring after", []string{"string", "match"}, biSubstringAfter)
	r.add("contains", []string{"string", "match"}, biContains)
	r.add("starts with", []string{"string", "match"}, biStartsWith)
	r.add("ends with", []string{"string", "match"}, biEndsWith)
	r.add("matches", []string{"input", "pattern", "flags"}, biMatches)
	r.add("replace", []string{"input", "pattern", "replacement", "flags"}, biReplace)
	r.add("split", []string{"string", "delimiter"}, biSplit)
	r.add("string join", []string{"list", "delimiter"}, biStringJoin)
}

func biSubstring(args []value.Value) (value.Value, error) {
	s, ok := value.AsString(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	startN, ok := value.AsNumber(arg(args, 1))
	if !ok {
		return value.Nil, nil
	}
	runes := []rune(s)
	start := startN.Int()
	var from int
	switch {
	case start > 0:
		from = start - 1
	case start < 0:
		from = len(runes) + start
	default:
		return value.Nil, nil
	}
	if from < 0 || from > len(runes) {
		return value.Nil, nil
	}
	to := len(runes)
	if lenArg := arg(args, 2); !value.IsNull(lenArg) {
		lenN, ok := value.AsNumber(lenArg)
		if !ok {
			return value.Nil, nil
		}
		to = from + lenN.Int()
		if to > len(runes) {
			to = len(runes)
		}
	}
	if to < from {
		return value.Nil, nil
	}
	return value.String(string(runes[from:to])), nil
}

func biStringLength(args []value.Value) (value.Value, error) {
	s, ok := value.AsString(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.NumberFromInt(int64(len([]rune(s)))), nil
}

func biUpperCase(args []value.Value) (value.Value, error) {
	s, ok := value.AsString(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.String(cases.Upper(language.Und).String(s)), nil
}

func biLowerCase(args []value.Value) (value.Value, error) {
	s, ok := value.AsString(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.String(cases.Lower(language.Und).String(s)), nil
}

func biSubstringBefore(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	m, ok2 := value.AsString(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	idx := strings.Index(s, m)
	if idx < 0 {
		return value.String(""), nil
	}
	return value.String(s[:idx]), nil
}

func biSubstringAfter(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	m, ok2 := value.AsString(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	idx := strings.Index(s, m)
	if idx < 0 {
		return value.String(""), nil
	}
	return value.String(s[idx+len(m):]), nil
}

func biContains(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	m, ok2 := value.AsString(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	return value.Boolean(strings.Contains(s, m)), nil
}

func biStartsWith(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	m, ok2 := value.AsString(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	return value.Boolean(strings.HasPrefix(s, m)), nil
}

func biEndsWith(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	m, ok2 := value.AsString(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	return value.Boolean(strings.HasSuffix(s, m)), nil
}

// regexFlagPrefix turns FEEL's "i,m,s" flags string into a Go regexp
// inline-flag group, e.g. "im" -> "(?im)".
func regexFlagPrefix(flags string) string {
	var b strings.Builder
	for _, c := range flags {
		if c == 'i' || c == 'm' || c == 's' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

func biMatches(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	pattern, ok2 := value.AsString(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	flags, _ := value.AsString(arg(args, 2))
	re, err := regexp.Compile(regexFlagPrefix(flags) + pattern)
	if err != nil {
		return value.Nil, nil
	}
	return value.Boolean(re.MatchString(s)), nil
}

func biReplace(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	pattern, ok2 := value.AsString(arg(args, 1))
	repl, ok3 := value.AsString(arg(args, 2))
	if !ok1 || !ok2 || !ok3 {
		return value.Nil, nil
	}
	flags, _ := value.AsString(arg(args, 3))
	re, err := regexp.Compile(regexFlagPrefix(flags) + pattern)
	if err != nil {
		return value.Nil, nil
	}
	// FEEL replacement backreferences are "$1" style, matching Go's.
	return value.String(re.ReplaceAllString(s, repl)), nil
}

func biSplit(args []value.Value) (value.Value, error) {
	s, ok1 := value.AsString(arg(args, 0))
	delim, ok2 := value.AsString(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	re, err := regexp.Compile(delim)
	if err != nil {
		return value.Nil, nil
	}
	parts := re.Split(s, -1)
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.String(p)
	}
	return value.NewList(items), nil
}

func biStringJoin(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	delim, _ := value.AsString(arg(args, 1))
	parts := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		if value.IsNull(item) {
			continue
		}
		s, ok := value.AsString(item)
		if !ok {
			return value.Nil, nil
		}
		parts = append(parts, s)
	}
	return value.String(strings.Join(parts, delim)), nil
}
