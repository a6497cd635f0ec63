package tree

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD date. A trailing time component, as sent
// for tasks with a due time, is ignored.
func ParseDate(s string) (Date, error) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d falls strictly after o.
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the number of days from d to o; negative when o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Clock supplies the current calendar date. It is consulted on every
// evaluation so a session running across midnight sees the new day.
type Clock interface {
	Today() Date
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Today implements Clock.
func (SystemClock) Today() Date {
	return DateOf(time.Now())
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() Date

// Today implements Clock.
func (f ClockFunc) Today() Date {
	return f()
}
