package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListAt(t *testing.T) {
	l := NewList([]Value{num("1"), num("2"), num("3")})
	assert.Equal(t, Value(num("1")), l.At(1))
	assert.Equal(t, Value(num("3")), l.At(3))
	assert.Equal(t, Value(num("3")), l.At(-1))
	assert.Equal(t, Nil, l.At(0))
	assert.Equal(t, Nil, l.At(10))
	assert.Equal(t, Nil, l.At(-10))
}

func TestListify(t *testing.T) {
	l := Listify(num("1"))
	assert.Equal(t, 1, len(l.Items))

	already := NewList([]Value{num("1"), num("2")})
	assert.Equal(t, already, Listify(already))
}

func TestContextOrderPreserved(t *testing.T) {
	c := NewContext()
	c.Set("b", num("2"))
	c.Set("a", num("1"))
	c.Set("b", num("20"))
	assert.Equal(t, []string{"b", "a"}, c.Keys())
	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, Value(num("20")), v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, Nil, c.GetOrNull("missing"))
}

func TestContextMerge(t *testing.T) {
	a := NewContext()
	a.Set("x", num("1"))
	a.Set("y", num("2"))
	b := NewContext()
	b.Set("y", num("20"))
	b.Set("z", num("3"))

	merged := a.Merge(b)
	assert.Equal(t, []string{"x", "y", "z"}, merged.Keys())
	v, _ := merged.Get("y")
	assert.Equal(t, Value(num("20")), v)
}

func TestRangeContains(t *testing.T) {
	r := NewClosedRange(num("1"), num("10"))
	assert.True(t, r.Contains(num("1")))
	assert.True(t, r.Contains(num("10")))
	assert.True(t, r.Contains(num("5")))
	assert.False(t, r.Contains(num("11")))
	assert.False(t, r.Contains(Nil))

	open := Range{Low: num("1"), High: num("10"), LowOpen: true, HighOpen: true}
	assert.False(t, open.Contains(num("1")))
	assert.True(t, open.Contains(num("2")))

	lower := NewLowerBound(num("5"), false)
	assert.True(t, lower.Contains(num("5")))
	assert.True(t, lower.Contains(num("1000")))
	assert.False(t, lower.Contains(num("4")))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Nil, Nil))
	assert.False(t, Equal(Nil, num("0")))
	assert.True(t, Equal(num("1.0"), num("1")))
	assert.True(t, Equal(String("a"), String("a")))

	l1 := NewList([]Value{num("1"), num("2")})
	l2 := NewList([]Value{num("1"), num("2")})
	l3 := NewList([]Value{num("1"), num("3")})
	assert.True(t, Equal(l1, l2))
	assert.False(t, Equal(l1, l3))

	c1 := NewContext()
	c1.Set("a", num("1"))
	c2 := NewContext()
	c2.Set("a", num("1"))
	assert.True(t, Equal(c1, c2))
}

func TestThreeValuedLogic(t *testing.T) {
	assert.Equal(t, Value(False), And(False, Nil))
	assert.Equal(t, Nil, And(True, Nil))
	assert.Equal(t, Value(True), Or(True, Nil))
	assert.Equal(t, Nil, Or(False, Nil))
	assert.Equal(t, Nil, Not(Nil))
	assert.Equal(t, Value(False), Not(True))
}

func TestToDisplayString(t *testing.T) {
	assert.Equal(t, "null", ToDisplayString(Nil))
	assert.Equal(t, "true", ToDisplayString(True))
	assert.Equal(t, "1.5", ToDisplayString(num("1.5")))
	l := NewList([]Value{num("1"), String("a")})
	assert.Equal(t, "[1, a]", ToDisplayString(l))
	c := NewContext()
	c.Set("x", num("1"))
	assert.Equal(t, "{x: 1}", ToDisplayString(c))
}

func TestAddStringNumberConcession(t *testing.T) {
	got := Add(String("total: "), num("5"))
	assert.Equal(t, Value(String("total: 5")), got)
}
