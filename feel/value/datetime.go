package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a FEEL date: a plain year/month/day with no time-of-day or
// offset component.
type Date struct {
	Year, Month, Day int
}

func (Date) Kind() Kind { return KindDate }
func (Date) isValue()   {}

// Time is a FEEL time-of-day, with an optional UTC offset. When HasOffset
// is false the time is "local" (floating, no timezone attached).
type Time struct {
	Hour, Minute, Second int
	Nanos                int
	HasOffset            bool
	OffsetSeconds         int // seconds east of UTC
}

func (Time) Kind() Kind { return KindTime }
func (Time) isValue()   {}

// DateTime is a FEEL date-and-time: a Date combined with a Time.
type DateTime struct {
	Date Date
	Time Time
}

func (DateTime) Kind() Kind { return KindDateTime }
func (DateTime) isValue()   {}

// AsDate, AsTime, AsDateTime narrow a Value to its concrete type.
func AsDate(v Value) (Date, bool)         { d, ok := v.(Date); return d, ok }
func AsTime(v Value) (Time, bool)         { t, ok := v.(Time); return t, ok }
func AsDateTime(v Value) (DateTime, bool) { dt, ok := v.(DateTime); return dt, ok }

func toGoTime(d Date, t Time) time.Time {
	loc := time.UTC
	if t.HasOffset {
		loc = time.FixedZone("", t.OffsetSeconds)
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, t.Second, t.Nanos, loc)
}

func dateFromGoTime(gt time.Time) Date {
	y, m, d := gt.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

func timeFromGoTime(gt time.Time, hasOffset bool) Time {
	_, offset := gt.Zone()
	return Time{
		Hour:          gt.Hour(),
		Minute:        gt.Minute(),
		Second:        gt.Second(),
		Nanos:         gt.Nanosecond(),
		HasOffset:     hasOffset,
		OffsetSeconds: offset,
	}
}

// ParseDate parses the canonical "YYYY-MM-DD" textual form (spec §6). It
// returns false, never an error, on malformed input: unrecognised
// date/time literals evaluate to null (spec §4.5).
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%04d-%02d-%02d", &y, &m, &d); err != nil {
		return Date{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return Date{}, false
	}
	return Date{Year: y, Month: m, Day: d}, true
}

// ParseTime parses "HH:MM:SS[.fff][Z|±HH:MM]".
func ParseTime(s string) (Time, bool) {
	s = strings.TrimSpace(s)
	body, offset, hasOffset, ok := splitOffset(s)
	if !ok {
		return Time{}, false
	}
	var h, mi, sec int
	var fracStr string
	parts := strings.SplitN(body, ".", 2)
	if _, err := fmt.Sscanf(parts[0], "%02d:%02d:%02d", &h, &mi, &sec); err != nil {
		return Time{}, false
	}
	if len(parts) == 2 {
		fracStr = parts[1]
	}
	nanos, ok := fracToNanos(fracStr)
	if !ok {
		return Time{}, false
	}
	if h > 23 || mi > 59 || sec > 60 {
		return Time{}, false
	}
	return Time{Hour: h, Minute: mi, Second: sec, Nanos: nanos, HasOffset: hasOffset, OffsetSeconds: offset}, true
}

// ParseDateTime parses "YYYY-MM-DDTHH:MM:SS[.fff]±HH:MM" (Z accepted).
func ParseDateTime(s string) (DateTime, bool) {
	s = strings.TrimSpace(s)
	idx := strings.IndexByte(s, 'T')
	if idx < 0 {
		return DateTime{}, false
	}
	d, ok := ParseDate(s[:idx])
	if !ok {
		return DateTime{}, false
	}
	t, ok := ParseTime(s[idx+1:])
	if !ok {
		return DateTime{}, false
	}
	return DateTime{Date: d, Time: t}, true
}

func splitOffset(s string) (body string, offsetSeconds int, hasOffset bool, ok bool) {
	if strings.HasSuffix(s, "Z") {
		return s[:len(s)-1], 0, true, true
	}
	// Look for a +HH:MM or -HH:MM suffix after the time portion.
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c == '+' || c == '-' {
			var oh, om int
			if _, err := fmt.Sscanf(s[i+1:], "%02d:%02d", &oh, &om); err != nil {
				break
			}
			sec := oh*3600 + om*60
			if c == '-' {
				sec = -sec
			}
			return s[:i], sec, true, true
		}
		// The colon at len(s)-3 may be an offset's own HH:MM separator.
		if c == ':' && i < len(s)-3 {
			break // reached HH:MM:SS without finding a sign; no offset present
		}
	}
	return s, 0, false, true
}

func fracToNanos(frac string) (int, bool) {
	if frac == "" {
		return 0, true
	}
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	for len(frac) < 9 {
		frac += "0"
	}
	frac = frac[:9]
	n, err := strconv.Atoi(frac)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String renders the canonical textual form (spec §6).
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanos != 0 {
		ms := t.Nanos / 1e6
		s += fmt.Sprintf(".%03d", ms)
	}
	if t.HasOffset {
		if t.OffsetSeconds == 0 {
			s += "Z"
		} else {
			sign := "+"
			off := t.OffsetSeconds
			if off < 0 {
				sign = "-"
				off = -off
			}
			s += fmt.Sprintf("%s%02d:%02d", sign, off/3600, (off%3600)/60)
		}
	}
	return s
}

func (dt DateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

// Compare orders two dates: -1, 0, 1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

// compareTime orders two times of day. When exactly one operand carries a
// UTC offset, FEEL compares time-of-day only and ignores the offset (spec
// §4.5 "DateTimeOffset vs time compares time-of-day only"); when both (or
// neither) carry an offset, the comparison is offset-aware.
func compareTime(a, b Time) (int, bool) {
	if a.HasOffset != b.HasOffset {
		return compareTimeOfDay(a, b), true
	}
	ga := toGoTime(Date{1, 1, 1}, a)
	gb := toGoTime(Date{1, 1, 1}, b)
	switch {
	case ga.Before(gb):
		return -1, true
	case ga.After(gb):
		return 1, true
	default:
		return 0, true
	}
}

// compareTimeOfDay orders two times by hour/minute/second/nanosecond alone,
// disregarding any offset either carries.
func compareTimeOfDay(a, b Time) int {
	switch {
	case a.Hour != b.Hour:
		return sign(a.Hour - b.Hour)
	case a.Minute != b.Minute:
		return sign(a.Minute - b.Minute)
	case a.Second != b.Second:
		return sign(a.Second - b.Second)
	default:
		return sign(a.Nanos - b.Nanos)
	}
}

// dateToDateTime promotes a bare Date to a DateTime at midnight with a
// zero UTC offset, for cross-type comparison against a DateTime (spec
// §4.5 "cross-type date vs date-and-time compares by promoting the date
// to midnight with zero offset").
func dateToDateTime(d Date) DateTime {
	return DateTime{Date: d, Time: Time{HasOffset: true, OffsetSeconds: 0}}
}

func compareDateTime(a, b DateTime) (int, bool) {
	if a.Time.HasOffset != b.Time.HasOffset {
		return 0, false
	}
	ga := toGoTime(a.Date, a.Time)
	gb := toGoTime(b.Date, b.Time)
	switch {
	case ga.Before(gb):
		return -1, true
	case ga.After(gb):
		return 1, true
	default:
		return 0, true
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// DatePlusYMDuration adds a year-month duration to a date using true
// calendar arithmetic (spec §4.5/§8.9): 2018-01-23 + P3Y = 2021-01-23,
// never a 365.25-day approximation.
func DatePlusYMDuration(d Date, months int) Date {
	gt := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	gt = gt.AddDate(0, months, 0)
	return dateFromGoTime(gt)
}

func durationSum(a, b Value) (Value, bool) {
	aYM, aIsYM := a.(YearMonthDuration)
	bYM, bIsYM := b.(YearMonthDuration)
	if aIsYM && bIsYM {
		return YearMonthDuration{Months: aYM.Months + bYM.Months}, true
	}
	aDT, aIsDT := a.(DayTimeDuration)
	bDT, bIsDT := b.(DayTimeDuration)
	if aIsDT && bIsDT {
		return addDT(aDT, bDT), true
	}
	return nil, false
}

func addDT(a, b DayTimeDuration) DayTimeDuration {
	sec, nanos := a.Seconds+b.Seconds, a.Nanos+b.Nanos
	return normalizeDT(sec, nanos)
}

func normalizeDT(sec int64, nanos int) DayTimeDuration {
	for nanos >= 1e9 {
		nanos -= 1e9
		sec++
	}
	for nanos <= -1e9 {
		nanos += 1e9
		sec--
	}
	return DayTimeDuration{Seconds: sec, Nanos: nanos}
}

func dateTimePlusDuration(a, b Value) (Value, bool) {
	if d, ok := a.(Date); ok {
		if ym, ok := b.(YearMonthDuration); ok {
			return DatePlusYMDuration(d, ym.Months), true
		}
		if dt, ok := b.(DayTimeDuration); ok {
			gt := toGoTime(d, Time{}).Add(dt.duration())
			return dateFromGoTime(gt), true
		}
	}
	if dt, ok := a.(DateTime); ok {
		if ym, ok := b.(YearMonthDuration); ok {
			return DateTime{Date: DatePlusYMDuration(dt.Date, ym.Months), Time: dt.Time}, true
		}
		if ddt, ok := b.(DayTimeDuration); ok {
			gt := toGoTime(dt.Date, dt.Time).Add(ddt.duration())
			return DateTime{Date: dateFromGoTime(gt), Time: timeFromGoTime(gt, dt.Time.HasOffset)}, true
		}
	}
	if t, ok := a.(Time); ok {
		if ddt, ok := b.(DayTimeDuration); ok {
			gt := toGoTime(Date{1, 1, 1}, t).Add(ddt.duration())
			return timeFromGoTime(gt, t.HasOffset), true
		}
	}
	return nil, false
}

func dateTimeMinusDuration(a, b Value) (Value, bool) {
	neg := Negate(b)
	if IsNull(neg) {
		return nil, false
	}
	switch a.(type) {
	case Date, DateTime, Time:
		return dateTimePlusDuration(a, neg)
	}
	return nil, false
}

// dateTimeDifference computes date-date / date-and-time minus date-and-time
// / time-minus-time as a day-time duration (spec §4.5).
func dateTimeDifference(a, b Value) (Value, bool) {
	if ad, ok := a.(Date); ok {
		if bd, ok := b.(Date); ok {
			ga := toGoTime(ad, Time{})
			gb := toGoTime(bd, Time{})
			return durationFromGoDuration(ga.Sub(gb)), true
		}
	}
	if adt, ok := a.(DateTime); ok {
		if bdt, ok := b.(DateTime); ok {
			ga := toGoTime(adt.Date, adt.Time)
			gb := toGoTime(bdt.Date, bdt.Time)
			return durationFromGoDuration(ga.Sub(gb)), true
		}
	}
	if at, ok := a.(Time); ok {
		if bt, ok := b.(Time); ok {
			ga := toGoTime(Date{1, 1, 1}, at)
			gb := toGoTime(Date{1, 1, 1}, bt)
			return durationFromGoDuration(ga.Sub(gb)), true
		}
	}
	return nil, false
}

func durationDifference(a, b Value) (Value, bool) {
	aYM, aIsYM := a.(YearMonthDuration)
	bYM, bIsYM := b.(YearMonthDuration)
	if aIsYM && bIsYM {
		return YearMonthDuration{Months: aYM.Months - bYM.Months}, true
	}
	aDT, aIsDT := a.(DayTimeDuration)
	bDT, bIsDT := b.(DayTimeDuration)
	if aIsDT && bIsDT {
		return addDT(aDT, DayTimeDuration{Seconds: -bDT.Seconds, Nanos: -bDT.Nanos}), true
	}
	return nil, false
}

func durationFromGoDuration(gd time.Duration) DayTimeDuration {
	sec := int64(gd / time.Second)
	nanos := int(gd % time.Second)
	return DayTimeDuration{Seconds: sec, Nanos: nanos}
}

func durationTimesNumber(a, b Value) (Value, bool) {
	n, ok := AsNumber(b)
	if !ok {
		return nil, false
	}
	if ym, ok := a.(YearMonthDuration); ok {
		return YearMonthDuration{Months: int(float64(ym.Months) * n.Float64())}, true
	}
	if dt, ok := a.(DayTimeDuration); ok {
		total := dt.duration().Seconds() * n.Float64()
		return durationFromGoDuration(time.Duration(total * float64(time.Second))), true
	}
	return nil, false
}

func durationDivNumber(a, b Value) (Value, bool) {
	n, ok := AsNumber(b)
	if !ok || n.IsZero() {
		return nil, false
	}
	if ym, ok := a.(YearMonthDuration); ok {
		return YearMonthDuration{Months: int(float64(ym.Months) / n.Float64())}, true
	}
	if dt, ok := a.(DayTimeDuration); ok {
		total := dt.duration().Seconds() / n.Float64()
		return durationFromGoDuration(time.Duration(total * float64(time.Second))), true
	}
	return nil, false
}

func durationDivDuration(a, b Value) (Value, bool) {
	aYM, aIsYM := a.(YearMonthDuration)
	bYM, bIsYM := b.(YearMonthDuration)
	if aIsYM && bIsYM {
		if bYM.Months == 0 {
			return nil, false
		}
		return NumberFromFloat(float64(aYM.Months) / float64(bYM.Months)), true
	}
	aDT, aIsDT := a.(DayTimeDuration)
	bDT, bIsDT := b.(DayTimeDuration)
	if aIsDT && bIsDT {
		bs := bDT.duration().Seconds()
		if bs == 0 {
			return nil, false
		}
		return NumberFromFloat(aDT.duration().Seconds() / bs), true
	}
	return nil, false
}
