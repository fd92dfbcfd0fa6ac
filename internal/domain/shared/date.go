package shared

import "time"

// DateOf returns midnight UTC of t's calendar day, the form stored in date columns
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
