package util

import "time"

// FiscalYear returns the UK financial year containing day, 6 April to 5 April.
// Company accounting periods vary; this is the default report window.
func FiscalYear(day time.Time) (start, end string) {
	y := day.Year()
	if day.Month() < time.April || (day.Month() == time.April && day.Day() < 6) {
		y--
	}
	s := time.Date(y, time.April, 6, 0, 0, 0, 0, time.UTC)
	e := time.Date(y+1, time.April, 5, 0, 0, 0, 0, time.UTC)
	return s.Format(isoDate), e.Format(isoDate)
}

// CalendarQuarter returns the first and last day of the quarter containing day.
func CalendarQuarter(day time.Time) (start, end string) {
	first := time.Month((int(day.Month())-1)/3*3 + 1)
	s := time.Date(day.Year(), first, 1, 0, 0, 0, 0, time.UTC)
	e := s.AddDate(0, 3, -1)
	return s.Format(isoDate), e.Format(isoDate)
}
