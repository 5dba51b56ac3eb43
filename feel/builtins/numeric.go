package builtins

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/dmnrun/feelengine/feel/value"
)

// registerNumeric installs the 14 numeric built-ins (spec §4.6). The
// four rounding modes are built directly on shopspring/decimal's integer
// shift/floor primitives rather than its higher-level rounding helpers,
// so each mode's rule (spec §4.6: up/down/half up/half down) is explicit
// rather than borrowed from a library default that might not match.
func registerNumeric(r *Registry) {
	r.add("decimal", []string{"n", "scale"}, biDecimal)
	r.add("floor", []string{"n", "scale"}, biFloor)
	r.add("ceiling", []string{"n", "scale"}, biCeiling)
	r.add("round up", []string{"n", "scale"}, biRoundUp)
	r.add("round down", []string{"n", "scale"}, biRoundDown)
	r.add("round half up", []string{"n", "scale"}, biRoundHalfUp)
	r.add("round half down", []string{"n", "scale"}, biRoundHalfDown)
	r.add("abs", []string{"n"}, biAbs)
	r.add("modulo", []string{"dividend", "divisor"}, biModulo)
	r.add("sqrt", []string{"number"}, biSqrt)
	r.add("log", []string{"number"}, biLog)
	r.add("exp", []string{"number"}, biExp)
	r.add("odd", []string{"number"}, biOdd)
	r.add("even", []string{"number"}, biEven)
}

func scaleOf(args []value.Value, i int) (int32, bool) {
	scaleArg := arg(args, i)
	if value.IsNull(scaleArg) {
		return 0, true
	}
	n, ok := value.AsNumber(scaleArg)
	if !ok {
		return 0, false
	}
	return int32(n.Int()), true
}

func shiftedParts(d decimal.Decimal, scale int32) (neg bool, shifted decimal.Decimal) {
	return d.IsNegative(), d.Abs().Shift(scale)
}

func roundUp(d decimal.Decimal, scale int32) decimal.Decimal {
	neg, shifted := shiftedParts(d, scale)
	floorVal := shifted.Floor()
	result := floorVal
	if !shifted.Equal(floorVal) {
		result = floorVal.Add(decimal.NewFromInt(1))
	}
	result = result.Shift(-scale)
	if neg {
		result = result.Neg()
	}
	return result
}

func roundDown(d decimal.Decimal, scale int32) decimal.Decimal {
	neg, shifted := shiftedParts(d, scale)
	result := shifted.Floor().Shift(-scale)
	if neg {
		result = result.Neg()
	}
	return result
}

func roundHalfUp(d decimal.Decimal, scale int32) decimal.Decimal {
	neg, shifted := shiftedParts(d, scale)
	floorVal := shifted.Floor()
	frac := shifted.Sub(floorVal)
	result := floorVal
	if frac.GreaterThanOrEqual(decimal.NewFromFloat(0.5)) {
		result = floorVal.Add(decimal.NewFromInt(1))
	}
	result = result.Shift(-scale)
	if neg {
		result = result.Neg()
	}
	return result
}

func roundHalfDown(d decimal.Decimal, scale int32) decimal.Decimal {
	neg, shifted := shiftedParts(d, scale)
	floorVal := shifted.Floor()
	frac := shifted.Sub(floorVal)
	result := floorVal
	if frac.GreaterThan(decimal.NewFromFloat(0.5)) {
		result = floorVal.Add(decimal.NewFromInt(1))
	}
	result = result.Shift(-scale)
	if neg {
		result = result.Neg()
	}
	return result
}

func biDecimal(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	scale, ok := scaleOf(args, 1)
	if !ok {
		return value.Nil, nil
	}
	return value.NewNumber(roundHalfUp(n.Decimal(), scale)), nil
}

func biFloor(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	scale, ok := scaleOf(args, 1)
	if !ok {
		return value.Nil, nil
	}
	return value.NewNumber(n.Decimal().Shift(scale).Floor().Shift(-scale)), nil
}

func biCeiling(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	scale, ok := scaleOf(args, 1)
	if !ok {
		return value.Nil, nil
	}
	return value.NewNumber(n.Decimal().Shift(scale).Ceil().Shift(-scale)), nil
}

func biRoundUp(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	scale, ok := scaleOf(args, 1)
	if !ok {
		return value.Nil, nil
	}
	return value.NewNumber(roundUp(n.Decimal(), scale)), nil
}

func biRoundDown(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	scale, ok := scaleOf(args, 1)
	if !ok {
		return value.Nil, nil
	}
	return value.NewNumber(roundDown(n.Decimal(), scale)), nil
}

func biRoundHalfUp(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	scale, ok := scaleOf(args, 1)
	if !ok {
		return value.Nil, nil
	}
	return value.NewNumber(roundHalfUp(n.Decimal(), scale)), nil
}

func biRoundHalfDown(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	scale, ok := scaleOf(args, 1)
	if !ok {
		return value.Nil, nil
	}
	return value.NewNumber(roundHalfDown(n.Decimal(), scale)), nil
}

func biAbs(args []value.Value) (value.Value, error) {
	v := arg(args, 0)
	if n, ok := value.AsNumber(v); ok {
		return value.NewNumber(n.Decimal().Abs()), nil
	}
	if ym, ok := value.AsYearMonthDuration(v); ok {
		if ym.Months < 0 {
			return value.YearMonthDuration{Months: -ym.Months}, nil
		}
		return ym, nil
	}
	if dt, ok := value.AsDayTimeDuration(v); ok {
		if dt.Seconds < 0 || (dt.Seconds == 0 && dt.Nanos < 0) {
			return value.DayTimeDuration{Seconds: -dt.Seconds, Nanos: -dt.Nanos}, nil
		}
		return dt, nil
	}
	return value.Nil, nil
}

func biModulo(args []value.Value) (value.Value, error) {
	return value.Mod(arg(args, 0), arg(args, 1)), nil
}

func biSqrt(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	f := n.Float64()
	if f < 0 {
		return value.Nil, nil
	}
	return value.NumberFromFloat(math.Sqrt(f)), nil
}

func biLog(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	f := n.Float64()
	if f <= 0 {
		return value.Nil, nil
	}
	return value.NumberFromFloat(math.Log(f)), nil
}

func biExp(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.NumberFromFloat(math.Exp(n.Float64())), nil
}

func biOdd(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	i := n.Int()
	if i < 0 {
		i = -i
	}
	return value.Boolean(i%2 == 1), nil
}

func biEven(args []value.Value) (value.Value, error) {
	n, ok := value.AsNumber(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	i := n.Int()
	if i < 0 {
		i = -i
	}
	return value.Boolean(i%2 == 0), nil
}
