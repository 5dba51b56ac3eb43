package value

// Compare orders two values of a comparable kind (spec §4.5/§8.3): number,
// string, boolean, date, time, date and time, or either duration kind. A
// bare Date compared against a DateTime is promoted to midnight with a
// zero UTC offset before comparing (spec §4.5 cross-type date vs
// date-and-time rule). It returns ok == false for null operands, other
// mismatched kinds, or kinds that have no total order (list, context,
// range, function).
func Compare(a, b Value) (int, bool) {
	if IsNull(a) || IsNull(b) {
		return 0, false
	}
	switch av := a.(type) {
	case Number:
		if bv, ok := b.(Number); ok {
			return av.Cmp(bv), true
		}
	case String:
		if bv, ok := b.(String); ok {
			switch {
			case av < bv:
				return -1, true
			case av > bv:
				return 1, true
			default:
				return 0, true
			}
		}
	case Boolean:
		if bv, ok := b.(Boolean); ok {
			switch {
			case av == bv:
				return 0, true
			case !bool(av) && bool(bv):
				return -1, true
			default:
				return 1, true
			}
		}
	case Date:
		switch bv := b.(type) {
		case Date:
			return av.Compare(bv), true
		case DateTime:
			return compareDateTime(dateToDateTime(av), bv)
		}
	case Time:
		if bv, ok := b.(Time); ok {
			return compareTime(av, bv)
		}
	case DateTime:
		switch bv := b.(type) {
		case DateTime:
			return compareDateTime(av, bv)
		case Date:
			return compareDateTime(av, dateToDateTime(bv))
		}
	case YearMonthDuration:
		return CompareDurations(av, b)
	case DayTimeDuration:
		return CompareDurations(av, b)
	}
	return 0, false
}

// Equal implements FEEL "=" (spec §4.5/§8.2): structural equality for
// lists and contexts, value equality otherwise, and false (never null)
// whenever the operands aren't comparable this way.
func Equal(a, b Value) bool {
	if IsNull(a) && IsNull(b) {
		return true
	}
	if IsNull(a) || IsNull(b) {
		return false
	}
	if al, ok := a.(List); ok {
		bl, ok := b.(List)
		if !ok || len(al.Items) != len(bl.Items) {
			return false
		}
		for i := range al.Items {
			if !Equal(al.Items[i], bl.Items[i]) {
				return false
			}
		}
		return true
	}
	if ac, ok := a.(Context); ok {
		bc, ok := b.(Context)
		if !ok || ac.Len() != bc.Len() {
			return false
		}
		eq := true
		ac.Each(func(k string, v Value) {
			bv, ok := bc.Get(k)
			if !ok || !Equal(v, bv) {
				eq = false
			}
		})
		return eq
	}
	if ar, ok := a.(Range); ok {
		br, ok := b.(Range)
		return ok && ar.LowOpen == br.LowOpen && ar.HighOpen == br.HighOpen &&
			ar.LowUnbounded == br.LowUnbounded && ar.HighUnbounded == br.HighUnbounded &&
			Equal(ar.Low, br.Low) && Equal(ar.High, br.High)
	}
	c, ok := Compare(a, b)
	return ok && c == 0
}

// And implements FEEL three-valued conjunction (spec §4.5/§8.1): false is
// absorbing regardless of the other operand's nullity, otherwise any null
// operand makes the result null.
func And(a, b Value) Value {
	ab, aIsBool := AsBoolean(a)
	bb, bIsBool := AsBoolean(b)
	if aIsBool && !ab {
		return False
	}
	if bIsBool && !bb {
		return False
	}
	if aIsBool && bIsBool {
		return Boolean(ab && bb)
	}
	return Nil
}

// Or implements FEEL three-valued disjunction: true is absorbing.
func Or(a, b Value) Value {
	ab, aIsBool := AsBoolean(a)
	bb, bIsBool := AsBoolean(b)
	if aIsBool && ab {
		return True
	}
	if bIsBool && bb {
		return True
	}
	if aIsBool && bIsBool {
		return Boolean(ab || bb)
	}
	return Nil
}

// Not implements FEEL negation; non-boolean input (including null)
// yields null rather than panicking.
func Not(a Value) Value {
	ab, ok := AsBoolean(a)
	if !ok {
		return Nil
	}
	return Boolean(!ab)
}
