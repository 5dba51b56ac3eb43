package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(Nil))
	assert.True(t, IsNull(Null{}))
	assert.True(t, IsNull(nil))
	assert.False(t, IsNull(Boolean(false)))
	assert.False(t, IsNull(NumberFromInt(0)))
}

func TestBoolOrNull(t *testing.T) {
	tr, fa := true, false
	assert.Equal(t, Value(True), BoolOrNull(&tr))
	assert.Equal(t, Value(False), BoolOrNull(&fa))
	assert.Equal(t, Nil, BoolOrNull(nil))
}

func TestKindString(t *testing.T) {
	testCases := []struct {
		kind     Kind
		expected string
	}{
		{KindNull, "null"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindBoolean, "boolean"},
		{KindDate, "date"},
		{KindTime, "time"},
		{KindDateTime, "date and time"},
		{KindYearMonthDuration, "years and months duration"},
		{KindDayTimeDuration, "days and time duration"},
		{KindList, "list"},
		{KindContext, "context"},
		{KindRange, "range"},
		{KindFunction, "function"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.kind.String())
	}
}

func TestAsString(t *testing.T) {
	s, ok := AsString(String("hello"))
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = AsString(NumberFromInt(1))
	assert.False(t, ok)
}
