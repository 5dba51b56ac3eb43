package value

// List is a FEEL list: an ordered, possibly empty sequence of values.
type List struct {
	Items []Value
}

func (List) Kind() Kind { return KindList }
func (List) isValue()   {}

// NewList constructs a List from a slice, taking ownership of it.
func NewList(items []Value) List { return List{Items: items} }

// AsList returns the List and true if v is a FEEL list. A scalar is NOT
// coerced here; callers that need "scalar becomes singleton list"
// semantics (spec §4.5 filter) must do that explicitly with Listify.
func AsList(v Value) (List, bool) {
	l, ok := v.(List)
	return l, ok
}

// Listify returns v as a List, wrapping a non-list, non-null scalar in a
// singleton list. Null becomes the empty List zero value; Listify never
// invents a wrapped Null.
func Listify(v Value) List {
	if l, ok := v.(List); ok {
		return l
	}
	if IsNull(v) {
		return List{}
	}
	return List{Items: []Value{v}}
}

// At returns the 1-based indexed element of the list, following FEEL
// indexing rules (spec §4.5/§8.6): 1..len selects forward, -1 selects the
// last element, 0 and out-of-range return null.
func (l List) At(n int) Value {
	if n == 0 {
		return Nil
	}
	if n < 0 {
		idx := len(l.Items) + n
		if idx < 0 || idx >= len(l.Items) {
			return Nil
		}
		return l.Items[idx]
	}
	if n > len(l.Items) {
		return Nil
	}
	return l.Items[n-1]
}
