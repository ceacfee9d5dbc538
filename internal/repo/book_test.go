package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/repo"
	"github.com/pkordes/readinglog/testutil"
)

// newTestTx opens a transaction against the test database. The transaction is
// automatically rolled back when the test finishes, giving free per-test
// isolation. Several repos can share it to exercise cross-table behaviour.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test, so no cleanup SQL is needed.
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// bookFixture returns a domain.Book with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func bookFixture() domain.Book {
	rating := 4
	return domain.Book{
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		TotalPages:  304,
		CurrentPage: 57,
		CoverURL:    "https://covers.example.com/lhod.jpg",
		Status:      domain.StatusToRead,
		Rating:      &rating,
		Notes:       "Test notes",
	}
}

func TestBookRepo_Create(t *testing.T) {
	r := repo.NewBookRepo(newTestTx(t))
	ctx := context.Background()

	input := bookFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Title, got.Title)
	assert.Equal(t, input.Author, got.Author)
	assert.Equal(t, input.TotalPages, got.TotalPages)
	assert.Equal(t, 57, got.CurrentPage)
	assert.Equal(t, input.CoverURL, got.CoverURL)
	assert.Equal(t, domain.StatusToRead, got.Status)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
	assert.Nil(t, got.StartedAt)
	assert.Nil(t, got.CompletedAt)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestBookRepo_Create_NilRating(t *testing.T) {
	r := repo.NewBookRepo(newTestTx(t))

	input := bookFixture()
	input.Rating = nil

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.Rating)
}

func TestBookRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewBookRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookRepo_List_InsertionOrderAndFilter(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookRepo(tx)
	ctx := context.Background()

	// Start from an empty table inside this transaction.
	_, err := tx.Exec(ctx, `DELETE FROM reading_logs`)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `DELETE FROM books`)
	require.NoError(t, err)

	var ids []uuid.UUID
	for _, title := range []string{"Zebra", "Apple", "Mango"} {
		b := bookFixture()
		b.Title = title
		created, err := r.Create(ctx, b)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	mid, err := r.GetByID(ctx, ids[1])
	require.NoError(t, err)
	mid.Status = domain.StatusReading
	_, err = r.Update(ctx, mid, time.Now())
	require.NoError(t, err)

	all, err := r.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, b := range all {
		assert.Equal(t, ids[i], b.ID, "position %d", i)
	}

	reading := domain.StatusReading
	filtered, err := r.List(ctx, &reading)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, ids[1], filtered[0].ID)
}

func TestBookRepo_Update_StampsCompletion(t *testing.T) {
	r := repo.NewBookRepo(newTestTx(t))
	ctx := context.Background()
	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(72 * time.Hour)

	created, err := r.Create(ctx, bookFixture())
	require.NoError(t, err)

	created.Status = domain.StatusCompleted
	done, err := r.Update(ctx, created, t1)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(t1))

	done.Notes = "re-shelved"
	again, err := r.Update(ctx, done, t2)
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, again.CompletedAt.Equal(t1), "completion stamp survives unrelated edits")

	again.Status = domain.StatusReading
	back, err := r.Update(ctx, again, t2)
	require.NoError(t, err)
	assert.Nil(t, back.CompletedAt)
	require.NotNil(t, back.StartedAt)
	assert.True(t, back.StartedAt.Equal(t2))
}

func TestBookRepo_Update_CurrentPage(t *testing.T) {
	r := repo.NewBookRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, bookFixture())
	require.NoError(t, err)

	created.CurrentPage = created.TotalPages
	got, err := r.Update(ctx, created, time.Now())

	require.NoError(t, err)
	assert.Equal(t, created.TotalPages, got.CurrentPage)
}

func TestBookRepo_Update_NotFound(t *testing.T) {
	r := repo.NewBookRepo(newTestTx(t))

	ghost := bookFixture()
	ghost.ID = uuid.New()

	_, err := r.Update(context.Background(), ghost, time.Now())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookRepo_Delete_CascadesLogs(t *testing.T) {
	tx := newTestTx(t)
	books := repo.NewBookRepo(tx)
	logs := repo.NewReadingLogRepo(tx)
	ctx := context.Background()

	created, err := books.Create(ctx, bookFixture())
	require.NoError(t, err)
	_, err = logs.Create(ctx, logFixture(created.ID))
	require.NoError(t, err)

	require.NoError(t, books.Delete(ctx, created.ID))

	_, err = books.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "book should be gone after delete")

	remaining, err := logs.ListByBookID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestBookRepo_Delete_NotFound(t *testing.T) {
	r := repo.NewBookRepo(newTestTx(t))

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
