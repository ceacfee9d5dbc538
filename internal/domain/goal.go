package domain

import (
	"time"

	"github.com/google/uuid"
)

// GoalType selects the recurring period a goal is evaluated over.
type GoalType string

const (
	GoalDaily   GoalType = "daily"
	GoalWeekly  GoalType = "weekly"
	GoalMonthly GoalType = "monthly"
	GoalYearly  GoalType = "yearly"
)

// Valid reports whether t is one of the four known goal types.
func (t GoalType) Valid() bool {
	switch t {
	case GoalDaily, GoalWeekly, GoalMonthly, GoalYearly:
		return true
	}
	return false
}

// AllowsTargetBooks reports whether a books-completed target is meaningful for
// this goal type. Daily and weekly goals only track pages.
func (t GoalType) AllowsTargetBooks() bool {
	return t == GoalMonthly || t == GoalYearly
}

// Goal is a reading target. At least one of TargetPages and TargetBooks is set.
// Goals are never updated or deleted; several goals may share a GoalType.
type Goal struct {
	ID          uuid.UUID
	GoalType    GoalType
	TargetPages *int
	TargetBooks *int
	Notes       string
	CreatedAt   time.Time
}

// TargetProgress is the progress toward one numeric target.
type TargetProgress struct {
	Target  int
	Current int
	Met     bool
}

// GoalProgress is the result of evaluating a goal over its current period.
// Pages or Books is nil when the goal does not set that target.
type GoalProgress struct {
	Goal        Goal
	PeriodStart time.Time // civil date, inclusive
	PeriodEnd   time.Time // civil date, inclusive
	Pages       *TargetProgress
	Books       *TargetProgress
	// Met is true when every target the goal sets is met.
	Met bool
}
