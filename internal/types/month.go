// Package types implements special value types for the ledger.
package types

import (
	"fmt"
	"time"
)

// Month is a calendar month in a specific year. There is no day component;
// month arithmetic can never skip or clamp days.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the Month in which t occurs, in t's location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return Month{Year: year, Month: month}
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, err
	}
	return MonthOf(t), nil
}

// Next returns the following calendar month, rolling over December.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Previous returns the preceding calendar month, rolling back over January.
func (m Month) Previous() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Bounds returns the first instant of the month and the first instant of the
// next month in loc. A timestamp t belongs to the month when
// start <= t < end.
func (m Month) Bounds(loc *time.Location) (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// Contains reports whether t falls within the month, evaluated in t's
// location.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}
