package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2018-01-23")
	assert.True(t, ok)
	assert.Equal(t, Date{Year: 2018, Month: 1, Day: 23}, d)
	assert.Equal(t, "2018-01-23", d.String())

	_, ok = ParseDate("not-a-date")
	assert.False(t, ok)
}

func TestDatePlusYearMonthDuration(t *testing.T) {
	d, _ := ParseDate("2018-01-23")
	got := DatePlusYMDuration(d, 36)
	assert.Equal(t, "2021-01-23", got.String())
}

func TestParseTimeWithOffset(t *testing.T) {
	tm, ok := ParseTime("11:30:00+01:00")
	assert.True(t, ok)
	assert.Equal(t, 11, tm.Hour)
	assert.True(t, tm.HasOffset)
	assert.Equal(t, 3600, tm.OffsetSeconds)
	assert.Equal(t, "11:30:00+01:00", tm.String())
}

func TestParseDateTime(t *testing.T) {
	dt, ok := ParseDateTime("2018-01-23T11:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, "2018-01-23T11:30:00Z", dt.String())
}

func TestDateCompare(t *testing.T) {
	a, _ := ParseDate("2018-01-23")
	b, _ := ParseDate("2018-01-24")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestDateTimeDifference(t *testing.T) {
	a, _ := ParseDate("2018-01-24")
	b, _ := ParseDate("2018-01-23")
	got := Sub(a, b)
	dur, ok := AsDayTimeDuration(got)
	assert.True(t, ok)
	assert.Equal(t, "P1D", dur.String())
}

func TestCompareTimeOffsetVsLocalIgnoresOffset(t *testing.T) {
	offset, _ := ParseTime("10:30:00+02:00")
	local, _ := ParseTime("10:30:00")
	c, ok := compareTime(offset, local)
	assert.True(t, ok)
	assert.Equal(t, 0, c)

	earlier, _ := ParseTime("09:00:00")
	c, ok = compareTime(offset, earlier)
	assert.True(t, ok)
	assert.Equal(t, 1, c)
}

func TestCompareDatePromotesToDateTime(t *testing.T) {
	d, _ := ParseDate("2018-01-23")
	midnight, _ := ParseDateTime("2018-01-23T00:00:00Z")
	c, ok := Compare(d, midnight)
	assert.True(t, ok)
	assert.Equal(t, 0, c)

	later, _ := ParseDateTime("2018-01-23T00:00:01Z")
	c, ok = Compare(d, later)
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	assert.True(t, Equal(d, midnight))
}
