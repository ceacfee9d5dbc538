// Package stats derives pages-read rollups from reading logs.
// Every function here is pure: callers pass the log entries and the reference
// instant explicitly, so results depend on nothing but the arguments.
package stats

import (
	"time"

	"github.com/pkordes/readinglog/internal/domain"
)

// Window is an inclusive range of civil dates.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the civil date d lies in w.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// Union returns the smallest window covering both w and o.
func (w Window) Union(o Window) Window {
	if o.From.Before(w.From) {
		w.From = o.From
	}
	if o.To.After(w.To) {
		w.To = o.To
	}
	return w
}

// Today is the single-day window holding now's calendar date.
// now should already be in the reference time zone.
func Today(now time.Time) Window {
	d := domain.CivilDate(now)
	return Window{From: d, To: d}
}

// RollingWeek is the seven-day window ending today inclusive.
// It is deliberately not a Monday-to-Sunday calendar week.
func RollingWeek(now time.Time) Window {
	d := domain.CivilDate(now)
	return Window{From: d.AddDate(0, 0, -6), To: d}
}

// Month runs from the first of now's calendar month through today.
func Month(now time.Time) Window {
	d := domain.CivilDate(now)
	return Window{From: time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), To: d}
}

// Year runs from January 1st of now's calendar year through today.
func Year(now time.Time) Window {
	d := domain.CivilDate(now)
	return Window{From: time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), To: d}
}

// ForGoal returns the window a goal of type t is evaluated over.
// Unknown goal types fall back to the single-day window.
func ForGoal(t domain.GoalType, now time.Time) Window {
	switch t {
	case domain.GoalWeekly:
		return RollingWeek(now)
	case domain.GoalMonthly:
		return Month(now)
	case domain.GoalYearly:
		return Year(now)
	default:
		return Today(now)
	}
}

// SumPages adds up PagesRead for every entry dated inside w.
func SumPages(entries []domain.ReadingLog, w Window) int {
	total := 0
	for _, e := range entries {
		if w.Contains(domain.CivilDate(e.Date)) {
			total += e.PagesRead
		}
	}
	return total
}

// Aggregate computes the today/week/month/total rollups in a single pass.
// An empty or nil slice yields all zeros.
func Aggregate(entries []domain.ReadingLog, now time.Time) domain.Stats {
	today, week, month := Today(now), RollingWeek(now), Month(now)

	var s domain.Stats
	for _, e := range entries {
		d := domain.CivilDate(e.Date)
		if today.Contains(d) {
			s.Today += e.PagesRead
		}
		if week.Contains(d) {
			s.Week += e.PagesRead
		}
		if month.Contains(d) {
			s.Month += e.PagesRead
		}
		s.Total += e.PagesRead
	}
	return s
}

// CountCompleted counts books currently completed whose completion date,
// observed in loc, lies inside w.
func CountCompleted(books []domain.Book, w Window, loc *time.Location) int {
	n := 0
	for _, b := range books {
		if b.Status != domain.StatusCompleted || b.CompletedAt == nil {
			continue
		}
		if w.Contains(domain.CivilDate(b.CompletedAt.In(loc))) {
			n++
		}
	}
	return n
}
