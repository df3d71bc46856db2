package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateAddDaysAndOrdering(t *testing.T) {
	d := NewDate(2024, time.October, 30)
	next := d.AddDays(3)
	assert.True(t, next.Equal(NewDate(2024, time.November, 2)))
	assert.True(t, d.Before(next))
	assert.True(t, next.After(d))
}

func TestDateDaysUntilAndSince(t *testing.T) {
	a := NewDate(2024, time.October, 1)
	b := NewDate(2024, time.October, 5)
	assert.Equal(t, 4, a.DaysUntil(b))
	assert.Equal(t, 4, b.DaysSince(a))
	assert.Equal(t, -4, b.DaysUntil(a))
}

func TestDateFromTimeTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)
	local := time.Date(2024, time.November, 5, 23, 30, 0, 0, loc)
	d := DateFromTime(local)
	assert.Equal(t, NewDate(2024, time.November, 6), d)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.November, 5)
	data, err := d.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"2024-11-05"`, string(data))

	var got Date
	assert.NoError(t, got.UnmarshalJSON(data))
	assert.True(t, got.Equal(d))
}

func TestMinMaxDate(t *testing.T) {
	a := NewDate(2024, time.October, 1)
	b := NewDate(2024, time.October, 10)
	assert.True(t, MinDate(a, b).Equal(a))
	assert.True(t, MaxDate(a, b).Equal(b))
}

func TestDateIsZero(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.False(t, NewDate(2024, time.January, 1).IsZero())
}
