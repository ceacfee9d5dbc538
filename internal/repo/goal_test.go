package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/repo"
)

func TestGoalRepo_CreateAndGet(t *testing.T) {
	r := repo.NewGoalRepo(newTestTx(t))
	ctx := context.Background()
	pages, books := 1000, 3

	created, err := r.Create(ctx, domain.Goal{
		GoalType:    domain.GoalMonthly,
		TargetPages: &pages,
		TargetBooks: &books,
		Notes:       "summer push",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalMonthly, got.GoalType)
	require.NotNil(t, got.TargetPages)
	assert.Equal(t, 1000, *got.TargetPages)
	require.NotNil(t, got.TargetBooks)
	assert.Equal(t, 3, *got.TargetBooks)
}

func TestGoalRepo_Create_NullTarget(t *testing.T) {
	r := repo.NewGoalRepo(newTestTx(t))
	pages := 10

	got, err := r.Create(context.Background(), domain.Goal{GoalType: domain.GoalDaily, TargetPages: &pages})

	require.NoError(t, err)
	assert.Nil(t, got.TargetBooks)
}

func TestGoalRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewGoalRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGoalRepo_List_InsertionOrder(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	_, err := tx.Exec(ctx, `DELETE FROM goals`)
	require.NoError(t, err)
	r := repo.NewGoalRepo(tx)

	pages := 5
	var ids []uuid.UUID
	for _, gt := range []domain.GoalType{domain.GoalYearly, domain.GoalDaily, domain.GoalDaily} {
		g, err := r.Create(ctx, domain.Goal{GoalType: gt, TargetPages: &pages})
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}

	goals, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	for i, g := range goals {
		assert.Equal(t, ids[i], g.ID)
	}
}
