// Package memstore is an in-memory implementation of the repo interfaces.
// It backs the single-user local mode (STORE=memory) and service-level tests.
//
// All three repos share one Store and one RWMutex, so a cascading book delete
// and a concurrent read always see either the whole delete or none of it.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/repo"
)

// Store holds every entity in memory. Create one with New and hand out its
// repos with Books, ReadingLogs, and Goals.
type Store struct {
	mu    sync.RWMutex
	now   func() time.Time
	seq   int64
	books map[uuid.UUID]bookRow
	logs  []logRow
	goals []domain.Goal
}

type bookRow struct {
	seq  int64
	book domain.Book
}

type logRow struct {
	seq int64
	log domain.ReadingLog
}

// New returns an empty Store stamping created_at with the wall clock.
func New() *Store {
	return &Store{
		now:   time.Now,
		books: make(map[uuid.UUID]bookRow),
	}
}

// Books returns the BookRepo view of the store.
func (s *Store) Books() repo.BookRepo { return bookRepo{s} }

// ReadingLogs returns the ReadingLogRepo view of the store.
func (s *Store) ReadingLogs() repo.ReadingLogRepo { return logRepo{s} }

// Goals returns the GoalRepo view of the store.
func (s *Store) Goals() repo.GoalRepo { return goalRepo{s} }

// nextSeq must be called with mu held for writing.
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// ---- books -----------------------------------------------------------------

type bookRepo struct{ s *Store }

func (r bookRepo) Create(_ context.Context, book domain.Book) (domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now().UTC()
	book.ID = uuid.New()
	book.CreatedAt = now
	book.UpdatedAt = now
	r.s.books[book.ID] = bookRow{seq: r.s.nextSeq(), book: cloneBook(book)}
	return cloneBook(book), nil
}

func (r bookRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.books[id]
	if !ok {
		return domain.Book{}, fmt.Errorf("memstore.BookRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneBook(row.book), nil
}

func (r bookRepo) List(_ context.Context, status *domain.BookStatus) ([]domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]bookRow, 0, len(r.s.books))
	for _, row := range r.s.books {
		if status == nil || row.book.Status == *status {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	books := make([]domain.Book, len(rows))
	for i, row := range rows {
		books[i] = cloneBook(row.book)
	}
	return books, nil
}

func (r bookRepo) Update(_ context.Context, book domain.Book, now time.Time) (domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.books[book.ID]
	if !ok {
		return domain.Book{}, fmt.Errorf("memstore.BookRepo.Update: %w", domain.ErrNotFound)
	}

	book.StartedAt, book.CompletedAt = domain.StampTransition(row.book, book.Status, now)
	book.CreatedAt = row.book.CreatedAt
	book.UpdatedAt = now
	row.book = cloneBook(book)
	r.s.books[book.ID] = row
	return cloneBook(book), nil
}

func (r bookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return fmt.Errorf("memstore.BookRepo.Delete: %w", domain.ErrNotFound)
	}

	kept := r.s.logs[:0:0]
	for _, row := range r.s.logs {
		if row.log.BookID != id {
			kept = append(kept, row)
		}
	}
	r.s.logs = kept
	delete(r.s.books, id)
	return nil
}

// ---- reading logs ----------------------------------------------------------

type logRepo struct{ s *Store }

func (r logRepo) Create(_ context.Context, log domain.ReadingLog) (domain.ReadingLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[log.BookID]; !ok {
		return domain.ReadingLog{}, fmt.Errorf("memstore.ReadingLogRepo.Create: book: %w", domain.ErrNotFound)
	}

	log.ID = uuid.New()
	log.Date = domain.CivilDate(log.Date)
	log.CreatedAt = r.s.now().UTC()
	r.s.logs = append(r.s.logs, logRow{seq: r.s.nextSeq(), log: cloneLog(log)})
	return cloneLog(log), nil
}

func (r logRepo) ListByBookID(_ context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error) {
	return r.filter(func(l domain.ReadingLog) bool { return l.BookID == bookID }), nil
}

func (r logRepo) List(_ context.Context) ([]domain.ReadingLog, error) {
	return r.filter(func(domain.ReadingLog) bool { return true }), nil
}

func (r logRepo) ListBetween(_ context.Context, from, to time.Time) ([]domain.ReadingLog, error) {
	from, to = domain.CivilDate(from), domain.CivilDate(to)
	return r.filter(func(l domain.ReadingLog) bool {
		return !l.Date.Before(from) && !l.Date.After(to)
	}), nil
}

// filter returns the matching logs ordered by date, then insertion sequence.
func (r logRepo) filter(keep func(domain.ReadingLog) bool) []domain.ReadingLog {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]logRow, 0, len(r.s.logs))
	for _, row := range r.s.logs {
		if keep(row.log) {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].log.Date.Equal(rows[j].log.Date) {
			return rows[i].log.Date.Before(rows[j].log.Date)
		}
		return rows[i].seq < rows[j].seq
	})

	logs := make([]domain.ReadingLog, len(rows))
	for i, row := range rows {
		logs[i] = cloneLog(row.log)
	}
	return logs
}

// ---- goals -----------------------------------------------------------------

type goalRepo struct{ s *Store }

func (r goalRepo) Create(_ context.Context, goal domain.Goal) (domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	goal.ID = uuid.New()
	goal.CreatedAt = r.s.now().UTC()
	r.s.goals = append(r.s.goals, cloneGoal(goal))
	return cloneGoal(goal), nil
}

func (r goalRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.goals {
		if g.ID == id {
			return cloneGoal(g), nil
		}
	}
	return domain.Goal{}, fmt.Errorf("memstore.GoalRepo.GetByID: %w", domain.ErrNotFound)
}

func (r goalRepo) List(_ context.Context) ([]domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	goals := make([]domain.Goal, len(r.s.goals))
	for i, g := range r.s.goals {
		goals[i] = cloneGoal(g)
	}
	return goals, nil
}

// ---- copies ----------------------------------------------------------------

// Stored values never share pointers with values handed to or from callers.

func cloneBook(b domain.Book) domain.Book {
	b.Rating = clonePtr(b.Rating)
	b.StartedAt = clonePtr(b.StartedAt)
	b.CompletedAt = clonePtr(b.CompletedAt)
	return b
}

func cloneLog(l domain.ReadingLog) domain.ReadingLog {
	l.DurationMinutes = clonePtr(l.DurationMinutes)
	return l
}

func cloneGoal(g domain.Goal) domain.Goal {
	g.TargetPages = clonePtr(g.TargetPages)
	g.TargetBooks = clonePtr(g.TargetBooks)
	return g
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
