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

// pgForeignKeyViolation is the SQLSTATE Postgres raises when a reading log
// references a book id that does not exist.
const pgForeignKeyViolation = "23503"

// ReadingLogRepo defines the persistence operations for ReadingLogs.
// Logs are append-only; they are removed only by BookRepo.Delete.
type ReadingLogRepo interface {
	// Create inserts a new log and returns the persisted record.
	// Returns domain.ErrNotFound if log.BookID does not reference an existing book.
	Create(ctx context.Context, log domain.ReadingLog) (domain.ReadingLog, error)

	// ListByBookID returns all logs for a book ordered by date ascending,
	// ties broken by insertion order. Unknown books yield an empty slice.
	ListByBookID(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error)

	// List returns every log, ordered like ListByBookID.
	List(ctx context.Context) ([]domain.ReadingLog, error)

	// ListBetween returns logs dated within [from, to] inclusive.
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.ReadingLog, error)
}

// pgReadingLogRepo is the Postgres implementation of ReadingLogRepo.
type pgReadingLogRepo struct {
	db db
}

// NewReadingLogRepo constructs a ReadingLogRepo backed by the provided db connection.
func NewReadingLogRepo(db db) ReadingLogRepo {
	return &pgReadingLogRepo{db: db}
}

const logColumns = `id, book_id, log_date, pages_read, duration_minutes, notes, created_at`

// Create inserts a new reading log row. The foreign key on book_id is the
// final guard against orphan logs racing a book delete.
func (r *pgReadingLogRepo) Create(ctx context.Context, log domain.ReadingLog) (domain.ReadingLog, error) {
	const q = `
		INSERT INTO reading_logs (book_id, log_date, pages_read, duration_minutes, notes)
		VALUES (@book_id, @log_date, @pages_read, @duration_minutes, @notes)
		RETURNING ` + logColumns

	args := pgx.NamedArgs{
		"book_id":          log.BookID,
		"log_date":         pgtype.Date{Time: log.Date, Valid: true},
		"pages_read":       log.PagesRead,
		"duration_minutes": log.DurationMinutes,
		"notes":            log.Notes,
	}

	result, err := scanLog(r.db.QueryRow(ctx, q, args))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ReadingLog{}, fmt.Errorf("repo.ReadingLogRepo.Create: book: %w", domain.ErrNotFound)
		}
		return domain.ReadingLog{}, fmt.Errorf("repo.ReadingLogRepo.Create: %w", err)
	}
	return result, nil
}

// ListByBookID returns a book's logs ordered by date, then insertion sequence.
func (r *pgReadingLogRepo) ListByBookID(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error) {
	q := `
		SELECT ` + logColumns + `
		FROM reading_logs
		WHERE book_id = @book_id
		ORDER BY log_date, seq`

	logs, err := r.query(ctx, q, pgx.NamedArgs{"book_id": bookID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReadingLogRepo.ListByBookID: %w", err)
	}
	return logs, nil
}

// List returns every reading log.
func (r *pgReadingLogRepo) List(ctx context.Context) ([]domain.ReadingLog, error) {
	q := `SELECT ` + logColumns + ` FROM reading_logs ORDER BY log_date, seq`

	logs, err := r.query(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.ReadingLogRepo.List: %w", err)
	}
	return logs, nil
}

// ListBetween returns logs whose date falls inside the inclusive range.
func (r *pgReadingLogRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.ReadingLog, error) {
	q := `
		SELECT ` + logColumns + `
		FROM reading_logs
		WHERE log_date BETWEEN @from AND @to
		ORDER BY log_date, seq`

	args := pgx.NamedArgs{
		"from": pgtype.Date{Time: from, Valid: true},
		"to":   pgtype.Date{Time: to, Valid: true},
	}
	logs, err := r.query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ReadingLogRepo.ListBetween: %w", err)
	}
	return logs, nil
}

func (r *pgReadingLogRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.ReadingLog, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []domain.ReadingLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return logs, nil
}

// scanLog maps a single database row into a domain.ReadingLog.
func scanLog(s scanner) (domain.ReadingLog, error) {
	var (
		l        domain.ReadingLog
		id       pgtype.UUID
		bookID   pgtype.UUID
		date     pgtype.Date
		duration pgtype.Int4
	)

	err := s.Scan(&id, &bookID, &date, &l.PagesRead, &duration, &l.Notes, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReadingLog{}, domain.ErrNotFound
		}
		return domain.ReadingLog{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.BookID = uuid.UUID(bookID.Bytes)
	l.Date = domain.CivilDate(date.Time)
	l.DurationMinutes = optionalInt(duration)
	return l, nil
}
