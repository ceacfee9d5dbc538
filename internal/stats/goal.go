package stats

import (
	"time"

	"github.com/pkordes/readinglog/internal/domain"
)

// EvaluateGoal measures goal against the window its GoalType selects at now.
// logs may contain entries outside the window and books may contain books in
// any status; both are filtered here. Completion dates are read in now's
// location so they line up with the civil-date window.
func EvaluateGoal(goal domain.Goal, logs []domain.ReadingLog, books []domain.Book, now time.Time) domain.GoalProgress {
	w := ForGoal(goal.GoalType, now)
	p := domain.GoalProgress{
		Goal:        goal,
		PeriodStart: w.From,
		PeriodEnd:   w.To,
		Met:         true,
	}

	if goal.TargetPages != nil {
		p.Pages = progress(*goal.TargetPages, SumPages(logs, w))
		p.Met = p.Met && p.Pages.Met
	}
	if goal.TargetBooks != nil && goal.GoalType.AllowsTargetBooks() {
		p.Books = progress(*goal.TargetBooks, CountCompleted(books, w, now.Location()))
		p.Met = p.Met && p.Books.Met
	}
	if p.Pages == nil && p.Books == nil {
		p.Met = false
	}
	return p
}

func progress(target, current int) *domain.TargetProgress {
	return &domain.TargetProgress{Target: target, Current: current, Met: current >= target}
}
