package domain

import "time"

// DateLayout is the wire and storage format for civil dates.
const DateLayout = "2006-01-02"

// CivilDate drops the time-of-day from t, keeping the calendar date as seen in
// t's own location, and returns it as midnight UTC.
// Two CivilDate values can be compared with Equal/Before/After regardless of
// the zones the original instants were observed in.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
