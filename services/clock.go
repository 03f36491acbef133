package services

import "time"

// Clock abstracts the current time so date-window rules (future-date check,
// same-day edit window, 30-day rollups) stay testable. Production code uses
// SystemClock; tests pin the day.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DayStart truncates t to local midnight. All activity dates and date
// comparisons go through this so day granularity is consistent everywhere.
func DayStart(t time.Time) time.Time {
	loc := time.Local
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}
