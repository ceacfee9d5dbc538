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
)

// BookService implements the book registry: creation, lookup, full-record
// replacement, and cascading deletion.
type BookService struct {
	books    repo.BookRepo
	now      Clock
	counters counters
}

// NewBookService constructs a BookService backed by the provided BookRepo.
// now stamps status transitions; nil means the system clock in time.Local.
func NewBookService(books repo.BookRepo, now Clock) *BookService {
	return &BookService{books: books, now: orSystem(now), counters: newCounters()}
}

// Create validates and persists a new book. The status is always to-read
// regardless of what the caller sent.
func (s *BookService) Create(ctx context.Context, book domain.Book) (_ domain.Book, err error) {
	ctx, span := startSpan(ctx, "book.create")
	defer func() { endSpan(span, err) }()

	book = normalizeBook(book)
	book.Status = domain.StatusToRead
	book.StartedAt, book.CompletedAt = nil, nil
	if err := validateBook(book); err != nil {
		return domain.Book{}, err
	}

	result, err := s.books.Create(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.BookService.Create: %w", err)
	}
	span.SetAttributes(attribute.String("book.id", result.ID.String()))
	slog.DebugContext(ctx, "book created", "book_id", result.ID)
	return result, nil
}

// GetByID returns a single book by ID.
// Returns domain.ErrNotFound if the book does not exist.
func (s *BookService) GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	result, err := s.books.GetByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.BookService.GetByID: %w", err)
	}
	return result, nil
}

// List returns books in creation order, optionally filtered by status.
// An unrecognised status is a validation error rather than an empty result.
// Always returns a non-nil slice.
func (s *BookService) List(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error) {
	if status != nil && !status.Valid() {
		return nil, domain.NewFieldError("status", fmt.Sprintf("unknown status %q", *status))
	}
	books, err := s.books.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service.BookService.List: %w", err)
	}
	if books == nil {
		return []domain.Book{}, nil
	}
	return books, nil
}

// Update replaces every mutable field of an existing book. Any status may
// move to any other; started_at and completed_at follow the transition.
// Returns domain.ErrNotFound if the book does not exist.
func (s *BookService) Update(ctx context.Context, book domain.Book) (_ domain.Book, err error) {
	ctx, span := startSpan(ctx, "book.update",
		attribute.String("book.id", book.ID.String()),
		attribute.String("book.status", string(book.Status)),
	)
	defer func() { endSpan(span, err) }()

	book = normalizeBook(book)
	if err := validateBook(book); err != nil {
		return domain.Book{}, err
	}
	if !book.Status.Valid() {
		return domain.Book{}, domain.NewFieldError("status", "status must be one of to-read, reading, completed")
	}

	now := s.now()
	result, err := s.books.Update(ctx, book, now)
	if err != nil {
		return domain.Book{}, fmt.Errorf("service.BookService.Update: %w", err)
	}
	// Postgres keeps microseconds, so a fresh stamp may be slightly before now.
	if result.CompletedAt != nil && !result.CompletedAt.Before(now.Truncate(time.Microsecond)) {
		s.counters.addCompleted(ctx)
	}
	slog.DebugContext(ctx, "book updated", "book_id", result.ID, "status", result.Status)
	return result, nil
}

// Delete removes a book together with all of its reading logs.
// Returns domain.ErrNotFound if the book does not exist, in which case no
// logs are touched.
func (s *BookService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "book.delete", attribute.String("book.id", id.String()))
	defer func() { endSpan(span, err) }()

	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BookService.Delete: %w", err)
	}
	slog.DebugContext(ctx, "book deleted", "book_id", id)
	return nil
}

func normalizeBook(b domain.Book) domain.Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.CoverURL = strings.TrimSpace(b.CoverURL)
	return b
}

// validateBook checks the fields shared by create and update.
func validateBook(b domain.Book) error {
	switch {
	case b.Title == "":
		return domain.NewFieldError("title", "title is required")
	case b.Author == "":
		return domain.NewFieldError("author", "author is required")
	case b.TotalPages <= 0:
		return domain.NewFieldError("total_pages", "total_pages must be greater than 0")
	case b.TotalPages > domain.MaxCount:
		return domain.NewFieldError("total_pages", fmt.Sprintf("total_pages must be at most %d", domain.MaxCount))
	case b.CurrentPage < 0 || b.CurrentPage > b.TotalPages:
		return domain.NewFieldError("current_page", "current_page must be between 0 and total_pages")
	case b.Rating != nil && (*b.Rating < 1 || *b.Rating > 5):
		return domain.NewFieldError("rating", "rating must be between 1 and 5")
	}
	return nil
}
