// Package domain holds the pure types of the WordKite progression engine.
// No infrastructure imports — everything here is value semantics.
package domain

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time component. Streak accounting
// compares calendar days in the player's local zone, never elapsed
// wall-clock hours, so a session that crosses midnight still resolves
// to the correct day.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf truncates a time.Time to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the date. Used only for day arithmetic.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date shifted by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// DaysBetween returns the signed number of calendar days from a to b.
// DaysBetween(monday, tuesday) == 1. Negative when b precedes a.
func DaysBetween(a, b Date) int {
	return int(b.Time().Sub(a.Time()) / (24 * time.Hour))
}

// MarshalText encodes the date as "YYYY-MM-DD" (used by encoding/json).
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte(""), nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes "YYYY-MM-DD"; an empty string is the zero date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock supplies the current calendar date. Injectable so tests can
// walk day boundaries without sleeping.
type Clock interface {
	Today() Date
}

// SystemClock reads the calendar date from the wall clock in a fixed
// location (the player's local zone).
type SystemClock struct {
	Location *time.Location
}

// Today returns the current calendar date in the clock's location.
func (c SystemClock) Today() Date {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return DateOf(time.Now().In(loc))
}

// FixedClock always reports the same date. Test helper.
type FixedClock struct {
	Date Date
}

// Today returns the fixed date.
func (c FixedClock) Today() Date { return c.Date }
