package value

import "strconv"

// Component implements the fixed set of named accessors available on
// date/time and duration values via member access, e.g. "x.year" or
// "d.days" (spec §4.5). It returns (_, false) when key isn't a
// recognised component name for v's kind, which callers treat as "fall
// through to null".
func Component(v Value, key string) (Value, bool) {
	switch t := v.(type) {
	case Date:
		switch key {
		case "year":
			return NumberFromInt(int64(t.Year)), true
		case "month":
			return NumberFromInt(int64(t.Month)), true
		case "day":
			return NumberFromInt(int64(t.Day)), true
		}
	case Time:
		return timeComponent(t, key)
	case DateTime:
		switch key {
		case "year":
			return NumberFromInt(int64(t.Date.Year)), true
		case "month":
			return NumberFromInt(int64(t.Date.Month)), true
		case "day":
			return NumberFromInt(int64(t.Date.Day)), true
		}
		return timeComponent(t.Time, key)
	case YearMonthDuration:
		switch key {
		case "years":
			return NumberFromInt(int64(t.Months / 12)), true
		case "months":
			return NumberFromInt(int64(t.Months % 12)), true
		}
	case DayTimeDuration:
		switch key {
		case "days":
			return NumberFromInt(t.Seconds / 86400), true
		case "hours":
			return NumberFromInt((t.Seconds / 3600) % 24), true
		case "minutes":
			return NumberFromInt((t.Seconds / 60) % 60), true
		case "seconds":
			return NumberFromInt(t.Seconds % 60), true
		}
	}
	return nil, false
}

func timeComponent(t Time, key string) (Value, bool) {
	switch key {
	case "hour":
		return NumberFromInt(int64(t.Hour)), true
	case "minute":
		return NumberFromInt(int64(t.Minute)), true
	case "second":
		return NumberFromInt(int64(t.Second)), true
	case "offset":
		if !t.HasOffset {
			return Nil, true
		}
		return DayTimeDuration{Seconds: int64(t.OffsetSeconds)}, true
	case "timezone":
		if !t.HasOffset {
			return Nil, true
		}
		return String(offsetLabel(t.OffsetSeconds)), true
	}
	return nil, false
}

func offsetLabel(seconds int) string {
	if seconds == 0 {
		return "Z"
	}
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	return sign + pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
