package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalYear(t *testing.T) {
	cases := []struct {
		day        time.Time
		start, end string
	}{
		{time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), "2025-04-06", "2026-04-05"},
		{time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC), "2024-04-06", "2025-04-05"},
		{time.Date(2025, time.April, 6, 0, 0, 0, 0, time.UTC), "2025-04-06", "2026-04-05"},
		{time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), "2025-04-06", "2026-04-05"},
	}
	for _, tc := range cases {
		start, end := FiscalYear(tc.day)
		assert.Equal(t, tc.start, start, tc.day.String())
		assert.Equal(t, tc.end, end, tc.day.String())
	}
}

func TestCalendarQuarter(t *testing.T) {
	start, end := CalendarQuarter(time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-01-01", start)
	assert.Equal(t, "2025-03-31", end)

	start, end = CalendarQuarter(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-10-01", start)
	assert.Equal(t, "2025-12-31", end)
}
