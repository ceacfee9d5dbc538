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

// GoalService owns goal definitions and evaluates them against the reading
// logs and completed books.
type GoalService struct {
	goals repo.GoalRepo
	books repo.BookRepo
	logs  repo.ReadingLogRepo
	now   Clock
}

// NewGoalService constructs a GoalService backed by the provided repos.
func NewGoalService(goals repo.GoalRepo, books repo.BookRepo, logs repo.ReadingLogRepo, now Clock) *GoalService {
	return &GoalService{goals: goals, books: books, logs: logs, now: orSystem(now)}
}

// Create validates and persists a new goal.
// At least one target must be set, and target_books is only accepted on
// monthly and yearly goals.
func (s *GoalService) Create(ctx context.Context, goal domain.Goal) (_ domain.Goal, err error) {
	ctx, span := startSpan(ctx, "goal.create", attribute.String("goal.type", string(goal.GoalType)))
	defer func() { endSpan(span, err) }()

	goal.Notes = strings.TrimSpace(goal.Notes)
	if err := validateGoal(goal); err != nil {
		return domain.Goal{}, err
	}
	result, err := s.goals.Create(ctx, goal)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("service.GoalService.Create: %w", err)
	}
	slog.DebugContext(ctx, "goal created", "goal_id", result.ID, "goal_type", result.GoalType)
	return result, nil
}

// GetByID returns a single goal.
// Returns domain.ErrNotFound if the goal does not exist.
func (s *GoalService) GetByID(ctx context.Context, id uuid.UUID) (domain.Goal, error) {
	result, err := s.goals.GetByID(ctx, id)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("service.GoalService.GetByID: %w", err)
	}
	return result, nil
}

// List returns every goal in creation order.
func (s *GoalService) List(ctx context.Context) ([]domain.Goal, error) {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.GoalService.List: %w", err)
	}
	if goals == nil {
		return []domain.Goal{}, nil
	}
	return goals, nil
}

// Evaluate reports progress toward goal over the window its type selects at now.
// Only logs inside the window are loaded.
func (s *GoalService) Evaluate(ctx context.Context, goal domain.Goal, now time.Time) (_ domain.GoalProgress, err error) {
	ctx, span := startSpan(ctx, "goal.evaluate",
		attribute.String("goal.id", goal.ID.String()),
		attribute.String("goal.type", string(goal.GoalType)),
	)
	defer func() { endSpan(span, err) }()

	w := stats.ForGoal(goal.GoalType, now)
	var logs []domain.ReadingLog
	if goal.TargetPages != nil {
		logs, err = s.logs.ListBetween(ctx, w.From, w.To)
		if err != nil {
			return domain.GoalProgress{}, fmt.Errorf("service.GoalService.Evaluate: %w", err)
		}
	}
	var completed []domain.Book
	if goal.TargetBooks != nil {
		completed, err = s.completedBooks(ctx)
		if err != nil {
			return domain.GoalProgress{}, fmt.Errorf("service.GoalService.Evaluate: %w", err)
		}
	}

	p := stats.EvaluateGoal(goal, logs, completed, now)
	span.SetAttributes(attribute.Bool("goal.met", p.Met))
	return p, nil
}

// EvaluateAll evaluates every goal at now. Logs and books are read once and
// shared, so all goals are judged against the same data.
func (s *GoalService) EvaluateAll(ctx context.Context, now time.Time) (_ []domain.GoalProgress, err error) {
	ctx, span := startSpan(ctx, "goal.evaluate_all")
	defer func() { endSpan(span, err) }()

	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.GoalService.EvaluateAll: %w", err)
	}
	out := make([]domain.GoalProgress, 0, len(goals))
	if len(goals) == 0 {
		return out, nil
	}

	// The rolling week reaches into the previous year during early January, so
	// load the union of the windows actually in use.
	w := stats.Today(now)
	for _, g := range goals {
		w = w.Union(stats.ForGoal(g.GoalType, now))
	}
	logs, err := s.logs.ListBetween(ctx, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("service.GoalService.EvaluateAll: %w", err)
	}
	completed, err := s.completedBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.GoalService.EvaluateAll: %w", err)
	}

	for _, g := range goals {
		out = append(out, stats.EvaluateGoal(g, logs, completed, now))
	}
	span.SetAttributes(attribute.Int("goals.evaluated", len(out)))
	return out, nil
}

// Progress looks up a goal and evaluates it at the service clock.
func (s *GoalService) Progress(ctx context.Context, id uuid.UUID) (domain.GoalProgress, error) {
	goal, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.GoalProgress{}, err
	}
	return s.Evaluate(ctx, goal, s.now())
}

// ProgressAll evaluates every goal at the service clock.
func (s *GoalService) ProgressAll(ctx context.Context) ([]domain.GoalProgress, error) {
	return s.EvaluateAll(ctx, s.now())
}

func (s *GoalService) completedBooks(ctx context.Context) ([]domain.Book, error) {
	status := domain.StatusCompleted
	return s.books.List(ctx, &status)
}

func validateGoal(g domain.Goal) error {
	switch {
	case !g.GoalType.Valid():
		return domain.NewFieldError("goal_type", "goal_type must be one of daily, weekly, monthly, yearly")
	case g.TargetPages == nil && g.TargetBooks == nil:
		return domain.NewFieldError("target_pages", "at least one of target_pages and target_books is required")
	case g.TargetPages != nil && *g.TargetPages < 1:
		return domain.NewFieldError("target_pages", "target_pages must be at least 1")
	case g.TargetPages != nil && *g.TargetPages > domain.MaxCount:
		return domain.NewFieldError("target_pages", fmt.Sprintf("target_pages must be at most %d", domain.MaxCount))
	case g.TargetBooks != nil && !g.GoalType.AllowsTargetBooks():
		return domain.NewFieldError("target_books", "target_books is only allowed for monthly and yearly goals")
	case g.TargetBooks != nil && *g.TargetBooks < 1:
		return domain.NewFieldError("target_books", "target_books must be at least 1")
	case g.TargetBooks != nil && *g.TargetBooks > domain.MaxCount:
		return domain.NewFieldError("target_books", fmt.Sprintf("target_books must be at most %d", domain.MaxCount))
	}
	return nil
}
