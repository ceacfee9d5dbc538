package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReadingLog is a single reading session logged against one book.
// Entries are immutable once created and are only ever removed as part of
// deleting their book.
type ReadingLog struct {
	ID     uuid.UUID
	BookID uuid.UUID
	// Date is the civil date of the session, stored as midnight UTC.
	// Use CivilDate to build one from a wall-clock instant.
	Date            time.Time
	PagesRead       int
	DurationMinutes *int // nil when not recorded
	Notes           string
	CreatedAt       time.Time
}
