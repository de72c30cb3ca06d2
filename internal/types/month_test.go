package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonth_NextPrevious(t *testing.T) {
	tests := []struct {
		name string
		in   Month
		next Month
	}{
		{"mid year", NewMonth(2025, time.March), NewMonth(2025, time.April)},
		{"december rolls into next year", NewMonth(2025, time.December), NewMonth(2026, time.January)},
		{"january rolls back into previous year", NewMonth(2026, time.January), NewMonth(2026, time.February)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.next, tt.in.Next())
			// round-trip law
			assert.Equal(t, tt.in, tt.in.Next().Previous())
			assert.Equal(t, tt.in, tt.in.Previous().Next())
		})
	}
}

func TestMonth_Bounds(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	assert.NoError(t, err)

	start, end := NewMonth(2025, time.February).Bounds(loc)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, loc), end)
}

func TestMonth_Contains(t *testing.T) {
	m := NewMonth(2025, time.September)
	assert.True(t, m.Contains(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, m.Contains(time.Date(2025, time.September, 30, 23, 59, 59, 0, time.Local)))
	assert.False(t, m.Contains(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.Local)))
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-09")
	assert.NoError(t, err)
	assert.Equal(t, NewMonth(2025, time.September), m)
	assert.Equal(t, "2025-09", m.String())

	_, err = ParseMonth("September 2025")
	assert.Error(t, err)
}
