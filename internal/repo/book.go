// Package repo contains all database access logic for the reading log API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/readinglog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so compound writes stay atomic in both cases.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BookRepo defines the persistence operations for Books.
// The service layer depends on this interface, not the concrete implementation,
// which allows the service to be unit-tested with a mock or the in-memory store.
type BookRepo interface {
	// Create inserts a new book and returns the persisted record (with
	// generated id, created_at, and updated_at populated).
	Create(ctx context.Context, book domain.Book) (domain.Book, error)

	// GetByID retrieves a single book by its UUID.
	// Returns domain.ErrNotFound if no book with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error)

	// List returns books in creation order. A nil status returns every book.
	List(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error)

	// Update overwrites the mutable fields of an existing book in one atomic
	// write. StartedAt and CompletedAt are not taken from book; they are
	// derived from the stored row with domain.StampTransition at instant now.
	// Returns domain.ErrNotFound if no book with that ID exists.
	Update(ctx context.Context, book domain.Book, now time.Time) (domain.Book, error)

	// Delete removes a book and every reading log that references it as one
	// atomic unit. Returns domain.ErrNotFound (and changes nothing) if the book
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgBookRepo is the Postgres implementation of BookRepo.
type pgBookRepo struct {
	db db
}

// NewBookRepo constructs a BookRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookRepo(db db) BookRepo {
	return &pgBookRepo{db: db}
}

const bookColumns = `id, title, author, total_pages, current_page, cover_url, status, rating, notes,
		started_at, completed_at, created_at, updated_at`

// Create inserts a new book row and returns the full persisted record.
func (r *pgBookRepo) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	const q = `
		INSERT INTO books (title, author, total_pages, current_page, cover_url, status, rating, notes)
		VALUES (@title, @author, @total_pages, @current_page, @cover_url, @status, @rating, @notes)
		RETURNING ` + bookColumns

	args := pgx.NamedArgs{
		"title":        book.Title,
		"author":       book.Author,
		"total_pages":  book.TotalPages,
		"current_page": book.CurrentPage,
		"cover_url":    book.CoverURL,
		"status":       string(book.Status),
		"rating":       book.Rating, // nil becomes NULL
		"notes":        book.Notes,
	}

	result, err := scanBook(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Book{}, fmt.Errorf("repo.BookRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a book by primary key.
func (r *pgBookRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE id = @id`

	result, err := scanBook(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Book{}, fmt.Errorf("repo.BookRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns books ordered by insertion sequence, optionally filtered by status.
func (r *pgBookRepo) List(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error) {
	q := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE @status::text IS NULL OR status = @status
		ORDER BY seq`

	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"status": filter})
	if err != nil {
		return nil, fmt.Errorf("repo.BookRepo.List: %w", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookRepo.List: scan: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookRepo.List: rows: %w", err)
	}
	return books, nil
}

// Update overwrites the mutable fields of a book and returns the updated record.
// The CASE expressions mirror domain.StampTransition; the right-hand side of an
// UPDATE sees the pre-update row, so the stamps are derived atomically.
func (r *pgBookRepo) Update(ctx context.Context, book domain.Book, now time.Time) (domain.Book, error) {
	const q = `
		UPDATE books
		SET title        = @title,
		    author       = @author,
		    total_pages  = @total_pages,
		    current_page = @current_page,
		    cover_url    = @cover_url,
		    status       = @status,
		    rating       = @rating,
		    notes        = @notes,
		    started_at   = CASE
		                     WHEN @status = 'reading' THEN COALESCE(started_at, @now)
		                     ELSE started_at
		                   END,
		    completed_at = CASE
		                     WHEN @status <> 'completed' THEN NULL
		                     WHEN status = 'completed' AND completed_at IS NOT NULL THEN completed_at
		                     ELSE @now
		                   END,
		    updated_at   = @now
		WHERE id = @id
		RETURNING ` + bookColumns

	args := pgx.NamedArgs{
		"id":           book.ID,
		"title":        book.Title,
		"author":       book.Author,
		"total_pages":  book.TotalPages,
		"current_page": book.CurrentPage,
		"cover_url":    book.CoverURL,
		"status":       string(book.Status),
		"rating":       book.Rating,
		"notes":        book.Notes,
		"now":          now,
	}

	result, err := scanBook(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Book{}, fmt.Errorf("repo.BookRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a book's reading logs and then the book inside one transaction.
// If the book row is missing the transaction is rolled back, so a failed
// delete never removes logs on its own.
func (r *pgBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		args := pgx.NamedArgs{"id": id}
		if _, err := tx.Exec(ctx, `DELETE FROM reading_logs WHERE book_id = @id`, args); err != nil {
			return fmt.Errorf("delete logs: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = @id`, args)
		if err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.BookRepo.Delete: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanBook maps a single database row into a domain.Book.
func scanBook(s scanner) (domain.Book, error) {
	var (
		b           domain.Book
		id          pgtype.UUID
		status      string
		rating      pgtype.Int4
		startedAt   pgtype.Timestamptz
		completedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &b.Title, &b.Author, &b.TotalPages, &b.CurrentPage, &b.CoverURL, &status, &rating, &b.Notes,
		&startedAt, &completedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Book{}, domain.ErrNotFound
		}
		return domain.Book{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.Status = domain.BookStatus(status)
	b.Rating = optionalInt(rating)
	if startedAt.Valid {
		t := startedAt.Time
		b.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return b, nil
}
