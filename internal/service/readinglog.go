package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/repo"
	"github.com/pkordes/readinglog/internal/stats"
)

// ReadingLogService owns ingestion of reading sessions and the page rollups
// derived from them.
type ReadingLogService struct {
	books    repo.BookRepo
	logs     repo.ReadingLogRepo
	now      Clock
	counters counters
}

// NewReadingLogService constructs a ReadingLogService. The books repo is used
// to verify the referenced book exists before a log is appended.
func NewReadingLogService(books repo.BookRepo, logs repo.ReadingLogRepo, now Clock) *ReadingLogService {
	return &ReadingLogService{books: books, logs: logs, now: orSystem(now), counters: newCounters()}
}

// Append validates and persists one reading session.
// Returns domain.ErrValidation for bad input (including a date after today)
// and domain.ErrNotFound if the book does not exist.
func (s *ReadingLogService) Append(ctx context.Context, entry domain.ReadingLog) (_ domain.ReadingLog, err error) {
	ctx, span := startSpan(ctx, "reading_log.append",
		attribute.String("book.id", entry.BookID.String()),
		attribute.Int("pages_read", entry.PagesRead),
	)
	defer func() { endSpan(span, err) }()

	entry.Notes = strings.TrimSpace(entry.Notes)
	if err := validateLog(entry, s.now()); err != nil {
		return domain.ReadingLog{}, err
	}
	entry.Date = domain.CivilDate(entry.Date)

	if _, err := s.books.GetByID(ctx, entry.BookID); err != nil {
		return domain.ReadingLog{}, fmt.Errorf("service.ReadingLogService.Append: %w", err)
	}
	// The repo re-checks the reference so a concurrent delete cannot leave an orphan.
	result, err := s.logs.Create(ctx, entry)
	if err != nil {
		return domain.ReadingLog{}, fmt.Errorf("service.ReadingLogService.Append: %w", err)
	}
	s.counters.addPages(ctx, result.PagesRead)
	slog.DebugContext(ctx, "reading log appended",
		"log_id", result.ID, "book_id", result.BookID, "pages_read", result.PagesRead)
	return result, nil
}

// ListByBook returns a book's logs ordered by date, then insertion order.
// An unknown book yields an empty slice.
func (s *ReadingLogService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error) {
	logs, err := s.logs.ListByBookID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("service.ReadingLogService.ListByBook: %w", err)
	}
	if logs == nil {
		return []domain.ReadingLog{}, nil
	}
	return logs, nil
}

// ListAll returns every log across all books.
func (s *ReadingLogService) ListAll(ctx context.Context) ([]domain.ReadingLog, error) {
	logs, err := s.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ReadingLogService.ListAll: %w", err)
	}
	if logs == nil {
		return []domain.ReadingLog{}, nil
	}
	return logs, nil
}

// Stats computes the today/week/month/total rollups as of the service clock.
func (s *ReadingLogService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.StatsAt(ctx, s.now())
}

// StatsAt computes the rollups relative to an explicit reference instant.
func (s *ReadingLogService) StatsAt(ctx context.Context, now time.Time) (_ domain.Stats, err error) {
	ctx, span := startSpan(ctx, "reading_log.stats")
	defer func() { endSpan(span, err) }()

	logs, err := s.logs.List(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.ReadingLogService.Stats: %w", err)
	}
	span.SetAttributes(attribute.Int("logs.scanned", len(logs)))
	return stats.Aggregate(logs, now), nil
}

func validateLog(l domain.ReadingLog, now time.Time) error {
	switch {
	case l.BookID == uuid.Nil:
		return domain.NewFieldError("book_id", "book_id is required")
	case l.Date.IsZero():
		return domain.NewFieldError("date", "date is required")
	case domain.CivilDate(l.Date).After(domain.CivilDate(now)):
		return domain.NewFieldError("date", "date must not be in the future")
	case l.PagesRead < 1:
		return domain.NewFieldError("pages_read", "pages_read must be at least 1")
	case l.PagesRead > domain.MaxCount:
		return domain.NewFieldError("pages_read", fmt.Sprintf("pages_read must be at most %d", domain.MaxCount))
	case l.DurationMinutes != nil && *l.DurationMinutes < 1:
		return domain.NewFieldError("duration_minutes", "duration_minutes must be at least 1")
	case l.DurationMinutes != nil && *l.DurationMinutes > domain.MaxCount:
		return domain.NewFieldError("duration_minutes", fmt.Sprintf("duration_minutes must be at most %d", domain.MaxCount))
	}
	return nil
}
