package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.

type mockBookRepo struct {
	create  func(ctx context.Context, book domain.Book) (domain.Book, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Book, error)
	list    func(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error)
	update  func(ctx context.Context, book domain.Book, now time.Time) (domain.Book, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBookRepo) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	return m.create(ctx, book)
}
func (m *mockBookRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookRepo) List(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error) {
	return m.list(ctx, status)
}
func (m *mockBookRepo) Update(ctx context.Context, book domain.Book, now time.Time) (domain.Book, error) {
	return m.update(ctx, book, now)
}
func (m *mockBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockLogRepo struct {
	create       func(ctx context.Context, log domain.ReadingLog) (domain.ReadingLog, error)
	listByBookID func(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error)
	list         func(ctx context.Context) ([]domain.ReadingLog, error)
	listBetween  func(ctx context.Context, from, to time.Time) ([]domain.ReadingLog, error)
}

func (m *mockLogRepo) Create(ctx context.Context, log domain.ReadingLog) (domain.ReadingLog, error) {
	return m.create(ctx, log)
}
func (m *mockLogRepo) ListByBookID(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error) {
	return m.listByBookID(ctx, bookID)
}
func (m *mockLogRepo) List(ctx context.Context) ([]domain.ReadingLog, error) {
	return m.list(ctx)
}
func (m *mockLogRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.ReadingLog, error) {
	return m.listBetween(ctx, from, to)
}

type mockGoalRepo struct {
	create  func(ctx context.Context, goal domain.Goal) (domain.Goal, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Goal, error)
	list    func(ctx context.Context) ([]domain.Goal, error)
}

func (m *mockGoalRepo) Create(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	return m.create(ctx, goal)
}
func (m *mockGoalRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Goal, error) {
	return m.getByID(ctx, id)
}
func (m *mockGoalRepo) List(ctx context.Context) ([]domain.Goal, error) {
	return m.list(ctx)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.BookRepo       = (*mockBookRepo)(nil)
	_ repo.ReadingLogRepo = (*mockLogRepo)(nil)
	_ repo.GoalRepo       = (*mockGoalRepo)(nil)
)

// ---- shared helpers --------------------------------------------------------

// fixedNow is mid-afternoon on a Wednesday in the middle of a month.
var fixedNow = time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func daysAgo(n int) time.Time {
	return domain.CivilDate(fixedNow).AddDate(0, 0, -n)
}

func validBook() domain.Book {
	return domain.Book{
		Title:      "The Left Hand of Darkness",
		Author:     "Ursula K. Le Guin",
		TotalPages: 304,
	}
}
