package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/readinglog/internal/domain"
)

// GoalRepo defines the persistence operations for Goals.
// Goals accumulate: there is no update or delete.
type GoalRepo interface {
	// Create inserts a new goal and returns the persisted record.
	Create(ctx context.Context, goal domain.Goal) (domain.Goal, error)

	// GetByID retrieves a single goal.
	// Returns domain.ErrNotFound if no goal with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Goal, error)

	// List returns all goals in creation order.
	List(ctx context.Context) ([]domain.Goal, error)
}

// pgGoalRepo is the Postgres implementation of GoalRepo.
type pgGoalRepo struct {
	db db
}

// NewGoalRepo constructs a GoalRepo backed by the provided db connection.
func NewGoalRepo(db db) GoalRepo {
	return &pgGoalRepo{db: db}
}

const goalColumns = `id, goal_type, target_pages, target_books, notes, created_at`

func (r *pgGoalRepo) Create(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	const q = `
		INSERT INTO goals (goal_type, target_pages, target_books, notes)
		VALUES (@goal_type, @target_pages, @target_books, @notes)
		RETURNING ` + goalColumns

	args := pgx.NamedArgs{
		"goal_type":    string(goal.GoalType),
		"target_pages": goal.TargetPages,
		"target_books": goal.TargetBooks,
		"notes":        goal.Notes,
	}

	result, err := scanGoal(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Goal{}, fmt.Errorf("repo.GoalRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgGoalRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Goal, error) {
	q := `SELECT ` + goalColumns + ` FROM goals WHERE id = @id`

	result, err := scanGoal(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Goal{}, fmt.Errorf("repo.GoalRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgGoalRepo) List(ctx context.Context) ([]domain.Goal, error) {
	q := `SELECT ` + goalColumns + ` FROM goals ORDER BY seq`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.GoalRepo.List: %w", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.GoalRepo.List: scan: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GoalRepo.List: rows: %w", err)
	}
	return goals, nil
}

func scanGoal(s scanner) (domain.Goal, error) {
	var (
		g           domain.Goal
		id          pgtype.UUID
		goalType    string
		targetPages pgtype.Int4
		targetBooks pgtype.Int4
	)

	err := s.Scan(&id, &goalType, &targetPages, &targetBooks, &g.Notes, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Goal{}, domain.ErrNotFound
		}
		return domain.Goal{}, err
	}

	g.ID = uuid.UUID(id.Bytes)
	g.GoalType = domain.GoalType(goalType)
	g.TargetPages = optionalInt(targetPages)
	g.TargetBooks = optionalInt(targetBooks)
	return g, nil
}

// optionalInt converts a nullable int4 column into a *int.
func optionalInt(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}
