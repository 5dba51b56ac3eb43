package value

import "strings"

// ToDisplayString renders any Value as FEEL would print it, the form used
// by the "string()" built-in and by the compatibility concession that
// lets "+" concatenate a string with a non-string operand (see DESIGN.md).
// It never fails: unrepresentable values (functions) render as a fixed
// placeholder rather than panicking.
func ToDisplayString(v Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case Null:
		return "null"
	case Boolean:
		if t {
			return "true"
		}
		return "false"
	case String:
		return string(t)
	case Number:
		return t.String()
	case Date:
		return t.String()
	case Time:
		return t.String()
	case DateTime:
		return t.String()
	case YearMonthDuration:
		return t.String()
	case DayTimeDuration:
		return t.String()
	case List:
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = ToDisplayString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Context:
		var b strings.Builder
		b.WriteByte('{')
		first := true
		t.Each(func(key string, val Value) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(ToDisplayString(val))
		})
		b.WriteByte('}')
		return b.String()
	case Range:
		var b strings.Builder
		if t.LowOpen {
			b.WriteByte('(')
		} else {
			b.WriteByte('[')
		}
		if t.LowUnbounded {
			b.WriteString("-infinity")
		} else {
			b.WriteString(ToDisplayString(t.Low))
		}
		b.WriteString("..")
		if t.HighUnbounded {
			b.WriteString("infinity")
		} else {
			b.WriteString(ToDisplayString(t.High))
		}
		if t.HighOpen {
			b.WriteByte(')')
		} else {
			b.WriteByte(']')
		}
		return b.String()
	case Function:
		return "function"
	default:
		return "null"
	}
}
