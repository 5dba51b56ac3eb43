package builtins

import (
	"time"

	"github.com/dmnrun/feelengine/feel/value"
)

// registerDateTime installs the 11 date/time built-ins (spec §4.6),
// including the six multi-word names ("date and time", "years and months
// duration", "day of year", "day of week", "month of year", "week of
// year") the parser special-cases as keyworded names.
func registerDateTime(r *Registry) {
	r.add("date", []string{"from"}, biDate)
	r.add("time", []string{"from"}, biTime)
	r.add("date and time", []string{"date", "time"}, biDateAndTime)
	r.add("duration", []string{"from"}, biDuration)
	r.add("years and months duration", []string{"from", "to"}, biYearsMonthsDuration)
	r.add("now", nil, biNow)
	r.add("today", nil, biToday)
	r.add("day of year", []string{"date"}, biDayOfYear)
	r.add("day of week", []string{"date"}, biDayOfWeek)
	r.add("month of year", []string{"date"}, biMonthOfYear)
	r.add("week of year", []string{"date"}, biWeekOfYear)
}

func biDate(args []value.Value) (value.Value, error) {
	switch len(args) {
	case 1:
		v := args[0]
		if s, ok := value.AsString(v); ok {
			if d, ok := value.ParseDate(s); ok {
				return d, nil
			}
			return value.Nil, nil
		}
		if dt, ok := value.AsDateTime(v); ok {
			return dt.Date, nil
		}
		if d, ok := value.AsDate(v); ok {
			return d, nil
		}
		return value.Nil, nil
	case 3:
		y, ok1 := value.AsNumber(args[0])
		m, ok2 := value.AsNumber(args[1])
		d, ok3 := value.AsNumber(args[2])
		if !ok1 || !ok2 || !ok3 {
			return value.Nil, nil
		}
		return value.Date{Year: y.Int(), Month: m.Int(), Day: d.Int()}, nil
	default:
		return value.Nil, nil
	}
}

func asOffsetSeconds(v value.Value) (int, bool) {
	if s, ok := value.AsString(v); ok {
		t, ok := value.ParseTime("00:00:00" + s)
		if !ok {
			return 0, false
		}
		return t.OffsetSeconds, true
	}
	if dt, ok := value.AsDayTimeDuration(v); ok {
		return int(dt.Seconds), true
	}
	return 0, false
}

func biTime(args []value.Value) (value.Value, error) {
	switch len(args) {
	case 1:
		v := args[0]
		if s, ok := value.AsString(v); ok {
			if t, ok := value.ParseTime(s); ok {
				return t, nil
			}
			return value.Nil, nil
		}
		if dt, ok := value.AsDateTime(v); ok {
			return dt.Time, nil
		}
		if t, ok := value.AsTime(v); ok {
			return t, nil
		}
		return value.Nil, nil
	case 3, 4:
		h, ok1 := value.AsNumber(args[0])
		mi, ok2 := value.AsNumber(args[1])
		s, ok3 := value.AsNumber(args[2])
		if !ok1 || !ok2 || !ok3 {
			return value.Nil, nil
		}
		t := value.Time{Hour: h.Int(), Minute: mi.Int(), Second: s.Int()}
		if len(args) == 4 && !value.IsNull(args[3]) {
			off, ok := asOffsetSeconds(args[3])
			if !ok {
				return value.Nil, nil
			}
			t.HasOffset = true
			t.OffsetSeconds = off
		}
		return t, nil
	default:
		return value.Nil, nil
	}
}

func biDateAndTime(args []value.Value) (value.Value, error) {
	switch len(args) {
	case 1:
		s, ok := value.AsString(args[0])
		if !ok {
			if dt, ok := value.AsDateTime(args[0]); ok {
				return dt, nil
			}
			return value.Nil, nil
		}
		if dt, ok := value.ParseDateTime(s); ok {
			return dt, nil
		}
		return value.Nil, nil
	case 2:
		d, ok1 := value.AsDate(args[0])
		t, ok2 := value.AsTime(args[1])
		if !ok1 || !ok2 {
			return value.Nil, nil
		}
		return value.DateTime{Date: d, Time: t}, nil
	default:
		return value.Nil, nil
	}
}

func biDuration(args []value.Value) (value.Value, error) {
	s, ok := value.AsString(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	d, ok := value.ParseDuration(s)
	if !ok {
		return value.Nil, nil
	}
	return d, nil
}

func biYearsMonthsDuration(args []value.Value) (value.Value, error) {
	from, ok1 := dateOf(arg(args, 0))
	to, ok2 := dateOf(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	months := (to.Year-from.Year)*12 + (to.Month - from.Month)
	if to.Day < from.Day {
		months--
	}
	return value.YearMonthDuration{Months: months}, nil
}

func dateOf(v value.Value) (value.Date, bool) {
	if d, ok := value.AsDate(v); ok {
		return d, true
	}
	if dt, ok := value.AsDateTime(v); ok {
		return dt.Date, true
	}
	return value.Date{}, false
}

func biNow(args []value.Value) (value.Value, error) {
	t := time.Now()
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	_, offset := t.Zone()
	return value.DateTime{
		Date: value.Date{Year: y, Month: int(m), Day: d},
		Time: value.Time{Hour: h, Minute: mi, Second: s, Nanos: t.Nanosecond(), HasOffset: true, OffsetSeconds: offset},
	}, nil
}

func biToday(args []value.Value) (value.Value, error) {
	y, m, d := time.Now().Date()
	return value.Date{Year: y, Month: int(m), Day: d}, nil
}

func toGoTimeForCalendar(d value.Date) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func biDayOfYear(args []value.Value) (value.Value, error) {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.NumberFromInt(int64(toGoTimeForCalendar(d).YearDay())), nil
}

func biDayOfWeek(args []value.Value) (value.Value, error) {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	wd := int(toGoTimeForCalendar(d).Weekday())
	if wd == 0 {
		wd = 7
	}
	return value.NumberFromInt(int64(wd)), nil
}

func biMonthOfYear(args []value.Value) (value.Value, error) {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	return value.NumberFromInt(int64(d.Month)), nil
}

func biWeekOfYear(args []value.Value) (value.Value, error) {
	d, ok := dateOf(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	_, week := toGoTimeForCalendar(d).ISOWeek()
	return value.NumberFromInt(int64(week)), nil
}
