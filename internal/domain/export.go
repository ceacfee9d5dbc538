package domain

import "time"

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per reading log, with book fields
// repeated for every log on that book. Books with no logs yield one row with
// zero values for all log fields.
type ExportRow struct {
	// Book fields, repeated for every log on the book.
	BookID      string
	Title       string
	Author      string
	TotalPages  int
	Status      string
	CompletedAt *time.Time

	// Log fields. Zero values when the book has no logs.
	LogDate         string // "2006-01-02" formatted date, empty when no log
	PagesRead       int
	DurationMinutes *int
	LogNotes        string
}
