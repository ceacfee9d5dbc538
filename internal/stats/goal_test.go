package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/stats"
)

func intp(v int) *int { return &v }

func TestEvaluateGoal_DailyPages(t *testing.T) {
	goal := domain.Goal{GoalType: domain.GoalDaily, TargetPages: intp(10)}
	logs := []domain.ReadingLog{logOn(0, 6), logOn(0, 5), logOn(1, 50)}

	p := stats.EvaluateGoal(goal, logs, nil, fixedNow)

	require.NotNil(t, p.Pages)
	assert.Equal(t, 11, p.Pages.Current)
	assert.True(t, p.Pages.Met)
	assert.Nil(t, p.Books)
	assert.True(t, p.Met)
	assert.Equal(t, domain.CivilDate(fixedNow), p.PeriodStart)
	assert.Equal(t, domain.CivilDate(fixedNow), p.PeriodEnd)
}

func TestEvaluateGoal_WeeklyNotMet(t *testing.T) {
	goal := domain.Goal{GoalType: domain.GoalWeekly, TargetPages: intp(100)}
	logs := []domain.ReadingLog{logOn(2, 40), logOn(9, 80)}

	p := stats.EvaluateGoal(goal, logs, nil, fixedNow)

	assert.Equal(t, 40, p.Pages.Current)
	assert.False(t, p.Pages.Met)
	assert.False(t, p.Met)
}

func TestEvaluateGoal_MonthlyBooksAndPages(t *testing.T) {
	june := time.Date(2025, 6, 3, 20, 0, 0, 0, time.UTC)
	may := time.Date(2025, 5, 30, 20, 0, 0, 0, time.UTC)
	books := []domain.Book{
		{Status: domain.StatusCompleted, CompletedAt: &june},
		{Status: domain.StatusCompleted, CompletedAt: &may},
	}
	goal := domain.Goal{GoalType: domain.GoalMonthly, TargetPages: intp(10), TargetBooks: intp(2)}

	p := stats.EvaluateGoal(goal, []domain.ReadingLog{logOn(0, 10)}, books, fixedNow)

	assert.True(t, p.Pages.Met)
	require.NotNil(t, p.Books)
	assert.Equal(t, 1, p.Books.Current)
	assert.False(t, p.Books.Met)
	assert.False(t, p.Met, "every set target must be met")
}

func TestEvaluateGoal_YearlyBooksOnly(t *testing.T) {
	jan := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	books := []domain.Book{{Status: domain.StatusCompleted, CompletedAt: &jan}}
	goal := domain.Goal{GoalType: domain.GoalYearly, TargetBooks: intp(1)}

	p := stats.EvaluateGoal(goal, nil, books, fixedNow)

	assert.Nil(t, p.Pages)
	assert.True(t, p.Books.Met)
	assert.True(t, p.Met)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.PeriodStart)
}

func TestEvaluateGoal_PagesProgressMatchesWindowSum(t *testing.T) {
	goalTypes := []domain.GoalType{domain.GoalDaily, domain.GoalWeekly, domain.GoalMonthly, domain.GoalYearly}
	rapid.Check(t, func(t *rapid.T) {
		logs := genLogs(t)
		gt := rapid.SampledFrom(goalTypes).Draw(t, "goalType")
		target := rapid.IntRange(1, 2000).Draw(t, "target")
		goal := domain.Goal{GoalType: gt, TargetPages: &target}

		p := stats.EvaluateGoal(goal, logs, nil, fixedNow)

		want := stats.SumPages(logs, stats.ForGoal(gt, fixedNow))
		if p.Pages.Current != want {
			t.Fatalf("current %d != window sum %d", p.Pages.Current, want)
		}
		if p.Met != (want >= target) {
			t.Fatalf("met=%v but current=%d target=%d", p.Met, want, target)
		}
	})
}
