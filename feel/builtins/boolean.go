package builtins

import "github.com/dmnrun/feelengine/feel/value"

// registerBoolean installs the 2 boolean built-ins (spec §4.6).
func registerBoolean(r *Registry) {
	r.add("not", []string{"negand"}, biNot)
	r.add("is", []string{"value1", "value2"}, biIs)
}

func biNot(args []value.Value) (value.Value, error) {
	return value.Not(arg(args, 0)), nil
}

// biIs implements "is", the unconditional (never-null) identity check
// used to tell two values apart even across incomparable kinds, unlike
// "=" which is false-or-null for incomparable operands.
func biIs(args []value.Value) (value.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	if value.IsNull(a) && value.IsNull(b) {
		return value.True, nil
	}
	if value.IsNull(a) || value.IsNull(b) {
		return value.False, nil
	}
	if a.Kind() != b.Kind() {
		return value.False, nil
	}
	return value.Boolean(value.Equal(a, b)), nil
}
