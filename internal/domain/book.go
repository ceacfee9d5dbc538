// Package domain contains the core data types for the reading log application.
// This package has no dependencies on storage or transport and is imported by
// every other internal package (stats, repo, service, handler).
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// BookStatus is the lifecycle state of a tracked book.
// Any status may move to any other; there is no terminal state.
type BookStatus string

const (
	StatusToRead    BookStatus = "to-read"
	StatusReading   BookStatus = "reading"
	StatusCompleted BookStatus = "completed"
)

// Valid reports whether s is one of the three known statuses.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// MaxCount is the largest count field value the stores accept. It matches the
// range of a Postgres INTEGER column.
const MaxCount = math.MaxInt32

// Book is a tracked book. Reading logs reference it by ID; the book itself
// holds no back-reference to its logs.
type Book struct {
	ID          uuid.UUID
	Title       string
	Author      string
	TotalPages  int
	CurrentPage int    // bookmark, 0..TotalPages; reading logs do not move it
	CoverURL    string // empty when not set; never validated
	Status      BookStatus
	Rating      *int // 1..5, nil when unrated
	Notes       string

	// StartedAt is stamped the first time the book enters StatusReading and is
	// never cleared afterwards.
	StartedAt *time.Time
	// CompletedAt is stamped when the book enters StatusCompleted, kept while it
	// stays completed, and cleared when it leaves that status.
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StampTransition returns the StartedAt and CompletedAt values a book should
// carry after moving from prev to next at instant now.
// Stores apply it inside the same critical section (or statement) as the write
// so the stamps can never disagree with the persisted status.
func StampTransition(prev Book, next BookStatus, now time.Time) (startedAt, completedAt *time.Time) {
	startedAt = prev.StartedAt
	if next == StatusReading && startedAt == nil {
		t := now
		startedAt = &t
	}

	switch {
	case next != StatusCompleted:
		completedAt = nil
	case prev.Status == StatusCompleted && prev.CompletedAt != nil:
		completedAt = prev.CompletedAt
	default:
		t := now
		completedAt = &t
	}
	return startedAt, completedAt
}
