package runtime

import "fmt"

// InputProtectedError is returned by Set when name is bound to an
// input-parameter cell: only SetInputParameter may mutate those (spec
// §3 "the execution context protects input-parameter cells from
// ordinary variable writes").
type InputProtectedError struct{ Name string }

func (e *InputProtectedError) Error() string {
	return fmt.Sprintf("dmn: %q is an input-parameter variable; use SetInputParameter", e.Name)
}

// UnknownInputError is returned by SetInputParameter for a name absent
// from the definition's declared input variables (spec §4.7/§7
// "Argument error").
type UnknownInputError struct{ Name string }

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("dmn: %q is not a declared input parameter", e.Name)
}
