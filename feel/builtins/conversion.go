package builtins

import (
	"strings"

	"github.com/dmnrun/feelengine/feel/value"
)

// registerConversion installs the 2 conversion built-ins (spec §4.6).
func registerConversion(r *Registry) {
	r.add("number", []string{"from", "grouping separator", "decimal separator"}, biNumber)
	r.add("string", []string{"from"}, biString)
}

func biNumber(args []value.Value) (value.Value, error) {
	s, ok := value.AsString(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	if groupSep, ok := value.AsString(arg(args, 1)); ok && groupSep != "" {
		s = strings.ReplaceAll(s, groupSep, "")
	}
	if decSep, ok := value.AsString(arg(args, 2)); ok && decSep != "" && decSep != "." {
		s = strings.Replace(s, decSep, ".", 1)
	}
	n, ok := value.NumberFromString(s)
	if !ok {
		return value.Nil, nil
	}
	return n, nil
}

func biString(args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	if value.IsNull(v) {
		return value.Nil, nil
	}
	return value.String(value.ToDisplayString(v)), nil
}
