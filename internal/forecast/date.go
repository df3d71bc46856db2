// Package forecast holds the plain value types shared by the analysis
// pipeline: dates, polls, races, campaigns, feeds, and the per-day output
// record. None of these types carry behavior beyond simple accessors —
// the algorithms that operate on them live in the sibling internal
// packages (numeric, convolve, pollselect, raceagg, chamber, metamargin,
// daily, bayes, driver).
package forecast

import "time"

// Date is a civil year-month-day value, totally ordered, with arithmetic
// in whole days. It is always normalized to UTC midnight.
type Date struct {
	t time.Time
}

// NewDate constructs a Date from a year/month/day triple.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime truncates a time.Time to its civil date in UTC.
func DateFromTime(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether d and o denote the same civil day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// AddDays returns the date n whole days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to o (negative if o
// precedes d).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// DaysSince returns the number of whole days from o to d.
func (d Date) DaysSince(o Date) int {
	return o.DaysUntil(d)
}

// Time returns the UTC midnight time.Time underlying d.
func (d Date) Time() time.Time { return d.t }

// String renders d as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// MarshalJSON renders d as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string into d.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 {
		return &time.ParseError{Layout: "2006-01-02", Value: string(b)}
	}
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	*d = DateFromTime(t)
	return nil
}

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
