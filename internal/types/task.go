package types

import (
	"github.com/ekalavya-cmd/studbud-backend/internal/dates"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Points is the gamification award for completing a task of this priority.
func (p Priority) Points() int {
	switch p {
	case PriorityHigh:
		return 30
	case PriorityMedium:
		return 20
	default:
		return 10
	}
}

// Task is one tracked study task. IDs are creation-time monotonic tokens,
// assigned by the planner on insert.
type Task struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	DueDate       dates.Day `json:"dueDate"`
	Priority      Priority  `json:"priority"`
	Subject       string    `json:"subject,omitempty"`
	Completed     bool      `json:"completed"`
	CompletedDate dates.Day `json:"completedDate,omitempty"`
	PointsAwarded bool      `json:"pointsAwarded"`
	Hours         float64   `json:"hours"`
}
