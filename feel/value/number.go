package value

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// NumberPrecision is the number of decimal places retained by division,
// which cannot always produce an exact result; sqrt, log, exp and "**"
// go through float64 instead (see Float64). FEEL
// requires at least 28 significant digits (spec §3/§9); 34 matches the
// IEEE 754 decimal128 format the spec offers as an alternative canonical
// representation.
const NumberPrecision = 34

func init() {
	decimal.DivisionPrecision = NumberPrecision
}

// Number is the single canonical FEEL numeric type. All integer and
// floating-point input is coerced to Number on entry (spec §3/§9); there
// is no separate int/float variant in the value union.
type Number struct {
	d decimal.Decimal
}

func (Number) Kind() Kind { return KindNumber }
func (Number) isValue()   {}

// NewNumber wraps a decimal.Decimal as a FEEL Number.
func NewNumber(d decimal.Decimal) Number { return Number{d: d} }

// NumberFromInt coerces a Go int64 into a Number.
func NumberFromInt(i int64) Number { return Number{d: decimal.NewFromInt(i)} }

// NumberFromFloat coerces a Go float64 into a Number.
func NumberFromFloat(f float64) Number { return Number{d: decimal.NewFromFloat(f)} }

// NumberFromString parses a decimal literal (as produced by the lexer)
// into a Number. The second return value is false if s is not a valid
// decimal literal.
func NumberFromString(s string) (Number, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Number{}, false
	}
	return Number{d: d}, true
}

// Decimal exposes the underlying decimal.Decimal for callers (built-ins)
// that need precision/rounding operations not exposed directly here.
func (n Number) Decimal() decimal.Decimal { return n.d }

// Float64 converts the number to a float64, for the handful of built-ins
// (sqrt, log, exp) that the spec explicitly allows to bounce through
// binary floating point.
func (n Number) Float64() float64 {
	f, _ := n.d.Float64()
	return f
}

// Int returns the number truncated to an int, for use as list indices,
// substring positions, and similar integral parameters.
func (n Number) Int() int {
	return int(n.d.IntPart())
}

// String renders the canonical textual form: '.' decimal separator, no
// grouping, trailing zeros trimmed (spec §6).
func (n Number) String() string {
	return n.d.String()
}

// AsNumber returns the Number and true if v is a FEEL number.
func AsNumber(v Value) (Number, bool) {
	n, ok := v.(Number)
	return n, ok
}

// Cmp compares two numbers: -1, 0, or 1.
func (n Number) Cmp(other Number) int {
	return n.d.Cmp(other.d)
}

// IsZero reports whether the number is exactly zero.
func (n Number) IsZero() bool { return n.d.IsZero() }

// Add implements FEEL numeric addition; null propagates (spec §4.5/§8.4).
func Add(a, b Value) Value {
	// Addition is exceptional: null+null -> null, numeric+numeric -> sum,
	// string+string -> concat, and if either side is a string the other
	// side's textual form is concatenated (a documented compatibility
	// concession, see DESIGN.md Open Question decisions).
	if IsNull(a) && IsNull(b) {
		return Nil
	}
	if an, ok := AsNumber(a); ok {
		if bn, ok := AsNumber(b); ok {
			return Number{d: an.d.Add(bn.d)}
		}
	}
	if as, ok := AsString(a); ok {
		if bs, ok := AsString(b); ok {
			return String(as + bs)
		}
	}
	if dur, ok := durationSum(a, b); ok {
		return dur
	}
	if dt, ok := dateTimePlusDuration(a, b); ok {
		return dt
	}
	if as, ok := AsString(a); ok {
		if !IsNull(b) {
			return String(as + ToDisplayString(b))
		}
	}
	if bs, ok := AsString(b); ok {
		if !IsNull(a) {
			return String(ToDisplayString(a) + bs)
		}
	}
	return Nil
}

// Sub implements FEEL numeric/date/duration subtraction; null propagates.
func Sub(a, b Value) Value {
	if IsNull(a) || IsNull(b) {
		return Nil
	}
	if an, ok := AsNumber(a); ok {
		if bn, ok := AsNumber(b); ok {
			return Number{d: an.d.Sub(bn.d)}
		}
	}
	if dt, ok := dateTimeMinusDuration(a, b); ok {
		return dt
	}
	if dur, ok := dateTimeDifference(a, b); ok {
		return dur
	}
	if dur, ok := durationDifference(a, b); ok {
		return dur
	}
	return Nil
}

// Mul implements FEEL multiplication, including duration*number.
func Mul(a, b Value) Value {
	if IsNull(a) || IsNull(b) {
		return Nil
	}
	if an, ok := AsNumber(a); ok {
		if bn, ok := AsNumber(b); ok {
			return Number{d: an.d.Mul(bn.d)}
		}
	}
	if prod, ok := durationTimesNumber(a, b); ok {
		return prod
	}
	if prod, ok := durationTimesNumber(b, a); ok {
		return prod
	}
	return Nil
}

// Div implements FEEL division. Division by zero returns null (spec §4.5).
func Div(a, b Value) Value {
	if IsNull(a) || IsNull(b) {
		return Nil
	}
	if an, ok := AsNumber(a); ok {
		if bn, ok := AsNumber(b); ok {
			if bn.IsZero() {
				return Nil
			}
			return Number{d: an.d.DivRound(bn.d, NumberPrecision)}
		}
	}
	if q, ok := durationDivNumber(a, b); ok {
		return q
	}
	if q, ok := durationDivDuration(a, b); ok {
		return q
	}
	return Nil
}

// Mod implements FEEL modulo. Division by zero returns null.
func Mod(a, b Value) Value {
	if IsNull(a) || IsNull(b) {
		return Nil
	}
	an, ok := AsNumber(a)
	if !ok {
		return Nil
	}
	bn, ok := AsNumber(b)
	if !ok || bn.IsZero() {
		return Nil
	}
	// FEEL modulo: result has the same sign as the divisor.
	r := an.d.Mod(bn.d)
	if !r.IsZero() && r.Sign() != bn.d.Sign() {
		r = r.Add(bn.d)
	}
	return Number{d: r}
}

// Pow implements FEEL exponentiation.
func Pow(a, b Value) Value {
	if IsNull(a) || IsNull(b) {
		return Nil
	}
	an, ok := AsNumber(a)
	if !ok {
		return Nil
	}
	bn, ok := AsNumber(b)
	if !ok {
		return Nil
	}
	f := math.Pow(an.Float64(), bn.Float64())
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Nil
	}
	return NumberFromFloat(f)
}

// Negate implements unary minus on a number or a duration.
func Negate(a Value) Value {
	if an, ok := AsNumber(a); ok {
		return Number{d: an.d.Neg()}
	}
	if ym, ok := a.(YearMonthDuration); ok {
		return YearMonthDuration{Months: -ym.Months}
	}
	if dt, ok := a.(DayTimeDuration); ok {
		return DayTimeDuration{Seconds: -dt.Seconds, Nanos: -dt.Nanos}
	}
	return Nil
}
