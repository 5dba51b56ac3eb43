// Package value implements the canonical FEEL value universe: the tagged
// union described in spec §3 (null, number, string, boolean, date, time,
// date-and-time, year-month duration, day-time duration, list, context,
// range, function), three-valued logic, and cross-type comparison.
//
// Every operator in this package is total: it never panics on a type
// mismatch and never returns a Go error. Ill-typed operations return Null
// per the FEEL "ill-typed operation returns null" rule, so callers in
// feel/eval can apply these helpers directly to AST-evaluation results
// without a parallel error-handling path.
//
// Numbers use github.com/shopspring/decimal as the single canonical
// numeric representation, configured for at least 28 significant digits
// of precision (see NumberPrecision), per spec §3/§9.
package value
