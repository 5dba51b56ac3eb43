package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YearMonthDuration is a FEEL year-month duration: a signed count of
// months (spec §3/§6: "[-]PnYnM").
type YearMonthDuration struct {
	Months int
}

func (YearMonthDuration) Kind() Kind { return KindYearMonthDuration }
func (YearMonthDuration) isValue()   {}

// DayTimeDuration is a FEEL day-time duration: a signed number of
// seconds plus a nanosecond remainder (spec §3/§6: "[-]P[nD]T[nH][nM][nS]").
type DayTimeDuration struct {
	Seconds int64
	Nanos   int
}

func (DayTimeDuration) Kind() Kind { return KindDayTimeDuration }
func (DayTimeDuration) isValue()   {}

func (d DayTimeDuration) duration() time.Duration {
	return time.Duration(d.Seconds)*time.Second + time.Duration(d.Nanos)
}

// AsYearMonthDuration and AsDayTimeDuration narrow a Value to its
// concrete duration type.
func AsYearMonthDuration(v Value) (YearMonthDuration, bool) { d, ok := v.(YearMonthDuration); return d, ok }
func AsDayTimeDuration(v Value) (DayTimeDuration, bool)     { d, ok := v.(DayTimeDuration); return d, ok }

// ParseDuration parses either a year-month or a day-time duration literal
// and returns whichever variant matched. It returns false (never an
// error) for malformed input, consistent with the rest of this package.
func ParseDuration(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return nil, false
	}
	body := s[1:]
	if idx := strings.IndexByte(body, 'T'); idx < 0 {
		// Day-only day-time duration such as "P1D": no time component.
		if days, ok := parseDurationComponent(body, 'D'); ok && strings.HasSuffix(body, "D") {
			d := DayTimeDuration{Seconds: int64(days) * 86400}
			if neg {
				d.Seconds = -d.Seconds
			}
			return d, true
		}
		// Year-month duration: nYnM, no time component.
		months, ok := parseYM(body)
		if !ok {
			return nil, false
		}
		if neg {
			months = -months
		}
		return YearMonthDuration{Months: months}, true
	} else {
		datePart, timePart := body[:idx], body[idx+1:]
		days, ok := parseDurationComponent(datePart, 'D')
		if !ok && datePart != "" {
			return nil, false
		}
		hours, mins, secs, nanos, ok := parseDurationTimeComponents(timePart)
		if !ok {
			return nil, false
		}
		total := days*86400 + hours*3600 + mins*60
		d := DayTimeDuration{Seconds: int64(total) + int64(secs), Nanos: nanos}
		if neg {
			d.Seconds, d.Nanos = -d.Seconds, -d.Nanos
		}
		return d, true
	}
}

// parseDurationComponent extracts the integer preceding the given unit
// letter from s, e.g. parseDurationComponent("3D", 'D') -> (3, true). If
// the unit letter is absent, it returns (0, false) so the caller can
// distinguish "absent" from "zero".
func parseDurationComponent(s string, unit byte) (int, bool) {
	idx := strings.IndexByte(s, unit)
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:idx])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseYM parses the "nYnM" body of a year-month duration (either
// component may be absent, but at least one must be present).
func parseYM(body string) (int, bool) {
	if body == "" {
		return 0, false
	}
	var years, months int
	var hasY, hasM bool
	rest := body
	if idx := strings.IndexByte(rest, 'Y'); idx >= 0 {
		n, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0, false
		}
		years, hasY = n, true
		rest = rest[idx+1:]
	}
	if idx := strings.IndexByte(rest, 'M'); idx >= 0 {
		n, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0, false
		}
		months, hasM = n, true
		rest = rest[idx+1:]
	}
	if rest != "" || (!hasY && !hasM) {
		return 0, false
	}
	return years*12 + months, true
}

func parseDurationTimeComponents(s string) (hours, mins, secs, nanos int, ok bool) {
	rest := s
	if idx := strings.IndexByte(rest, 'H'); idx >= 0 {
		h, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0, 0, 0, 0, false
		}
		hours = h
		rest = rest[idx+1:]
	}
	if idx := strings.IndexByte(rest, 'M'); idx >= 0 {
		m, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0, 0, 0, 0, false
		}
		mins = m
		rest = rest[idx+1:]
	}
	if idx := strings.IndexByte(rest, 'S'); idx >= 0 {
		numStr := rest[:idx]
		parts := strings.SplitN(numStr, ".", 2)
		sInt, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, 0, 0, false
		}
		secs = sInt
		if len(parts) == 2 {
			n, ok2 := fracToNanos(parts[1])
			if !ok2 {
				return 0, 0, 0, 0, false
			}
			nanos = n
		}
		rest = rest[idx+1:]
	}
	if rest != "" {
		return 0, 0, 0, 0, false
	}
	return hours, mins, secs, nanos, true
}

// String renders the canonical serialisation: zero components omitted,
// the all-zero day-time duration serialises as "PT0S" (spec §6).
func (d YearMonthDuration) String() string {
	months := d.Months
	neg := months < 0
	if neg {
		months = -months
	}
	years, rem := months/12, months%12
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if years == 0 && rem == 0 {
		b.WriteString("0M")
		return b.String()
	}
	if years != 0 {
		fmt.Fprintf(&b, "%dY", years)
	}
	if rem != 0 {
		fmt.Fprintf(&b, "%dM", rem)
	}
	return b.String()
}

func (d DayTimeDuration) String() string {
	total := d.Seconds
	nanos := d.Nanos
	neg := total < 0 || (total == 0 && nanos < 0)
	if neg {
		total, nanos = -total, -nanos
	}
	days := total / 86400
	total %= 86400
	hours := total / 3600
	total %= 3600
	mins := total / 60
	secs := total % 60

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if days != 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours == 0 && mins == 0 && secs == 0 && nanos == 0 {
		if days == 0 {
			return "PT0S"
		}
		return b.String()
	}
	b.WriteByte('T')
	if hours != 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if mins != 0 {
		fmt.Fprintf(&b, "%dM", mins)
	}
	if secs != 0 || nanos != 0 || (days == 0 && hours == 0 && mins == 0) {
		if nanos != 0 {
			fmt.Fprintf(&b, "%d.%03dS", secs, nanos/1_000_000)
		} else {
			fmt.Fprintf(&b, "%dS", secs)
		}
	}
	return b.String()
}

// Compare orders two durations of the same kind; returns false if the
// kinds differ (FEEL ordering is undefined across duration kinds).
func CompareDurations(a, b Value) (int, bool) {
	if aYM, ok := a.(YearMonthDuration); ok {
		if bYM, ok := b.(YearMonthDuration); ok {
			return sign(aYM.Months - bYM.Months), true
		}
	}
	if aDT, ok := a.(DayTimeDuration); ok {
		if bDT, ok := b.(DayTimeDuration); ok {
			ad, bd := aDT.duration(), bDT.duration()
			switch {
			case ad < bd:
				return -1, true
			case ad > bd:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}
