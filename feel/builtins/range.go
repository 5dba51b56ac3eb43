package builtins

import "github.com/dmnrun/feelengine/feel/value"

// registerRange installs the 12 Allen-interval-style range built-ins
// (spec §4.6). Each accepts either a point or a range argument; a point
// is treated as a degenerate closed interval [v..v]. before/after/meets/
// met by respect open/closed boundary exclusion; the remaining composite
// relations (overlaps, includes, during, starts/started by, finishes/
// finished by, coincides) are defined directly on endpoint comparison,
// the simplification documented in DESIGN.md's Open Question decisions.
func registerRange(r *Registry) {
	r.add("before", []string{"point1", "point2"}, biBefore)
	r.add("after", []string{"point1", "point2"}, biAfter)
	r.add("meets", []string{"range1", "range2"}, biMeets)
	r.add("met by", []string{"range1", "range2"}, biMetBy)
	r.add("overlaps", []string{"range1", "range2"}, biOverlaps)
	r.add("includes", []string{"range1", "range2"}, biIncludes)
	r.add("during", []string{"range1", "range2"}, biDuring)
	r.add("starts", []string{"range1", "range2"}, biStarts)
	r.add("started by", []string{"range1", "range2"}, biStartedBy)
	r.add("finishes", []string{"range1", "range2"}, biFinishes)
	r.add("finished by", []string{"range1", "range2"}, biFinishedBy)
	r.add("coincides", []string{"range1", "range2"}, biCoincides)
}

type endpoint struct {
	lo, hi         value.Value
	loIncl, hiIncl bool
}

func toEndpoint(v value.Value) (endpoint, bool) {
	if r, ok := value.AsRange(v); ok {
		if r.LowUnbounded || r.HighUnbounded {
			return endpoint{}, false
		}
		return endpoint{lo: r.Low, hi: r.High, loIncl: !r.LowOpen, hiIncl: !r.HighOpen}, true
	}
	if value.IsNull(v) {
		return endpoint{}, false
	}
	return endpoint{lo: v, hi: v, loIncl: true, hiIncl: true}, true
}

func eqV(a, b value.Value) bool {
	c, ok := value.Compare(a, b)
	return ok && c == 0
}

func ltV(a, b value.Value) bool {
	c, ok := value.Compare(a, b)
	return ok && c < 0
}

func leV(a, b value.Value) bool {
	c, ok := value.Compare(a, b)
	return ok && c <= 0
}

func geV(a, b value.Value) bool { return leV(b, a) }

func before(a, b endpoint) bool {
	return ltV(a.hi, b.lo) || (eqV(a.hi, b.lo) && (!a.hiIncl || !b.loIncl))
}

func meets(a, b endpoint) bool {
	return eqV(a.hi, b.lo) && a.hiIncl && b.loIncl
}

// rangeRelation parses both arguments into endpoints and, if either
// fails (an unbounded range or an incomparable/null value), reports that
// to the caller as a null result rather than evaluating rel.
func rangeRelation(args []value.Value, rel func(a, b endpoint) bool) (value.Value, error) {
	a, ok1 := toEndpoint(arg(args, 0))
	b, ok2 := toEndpoint(arg(args, 1))
	if !ok1 || !ok2 {
		return value.Nil, nil
	}
	return value.Boolean(rel(a, b)), nil
}

func biBefore(args []value.Value) (value.Value, error) {
	return rangeRelation(args, before)
}

func biAfter(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return before(b, a) })
}

func biMeets(args []value.Value) (value.Value, error) {
	return rangeRelation(args, meets)
}

func biMetBy(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return meets(b, a) })
}

func biOverlaps(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return !before(a, b) && !before(b, a) })
}

func biIncludes(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return leV(a.lo, b.lo) && geV(a.hi, b.hi) })
}

func biDuring(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return leV(b.lo, a.lo) && geV(b.hi, a.hi) })
}

func biStarts(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return eqV(a.lo, b.lo) && leV(a.hi, b.hi) })
}

func biStartedBy(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return eqV(b.lo, a.lo) && leV(b.hi, a.hi) })
}

func biFinishes(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return eqV(a.hi, b.hi) && geV(a.lo, b.lo) })
}

func biFinishedBy(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return eqV(b.hi, a.hi) && geV(b.lo, a.lo) })
}

func biCoincides(args []value.Value) (value.Value, error) {
	return rangeRelation(args, func(a, b endpoint) bool { return eqV(a.lo, b.lo) && eqV(a.hi, b.hi) })
}
