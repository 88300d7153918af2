package types

import (
	"github.com/ekalavya-cmd/studbud-backend/internal/dates"
)

// StudyHoursEntry is one day's logged hours. The log holds at most one entry
// per date; an entry is removed when its hours reach zero.
type StudyHoursEntry struct {
	Date  dates.Day `json:"date"`
	Hours float64   `json:"hours"`
}

type StudyStats struct {
	TotalHours       float64           `json:"totalHours"`
	CompletedTasks   int               `json:"completedTasks"`
	Streak           int               `json:"streak"`
	LastActiveDate   dates.Day         `json:"lastActiveDate,omitempty"`
	LastStreakUpdate dates.Day         `json:"lastStreakUpdate,omitempty"`
	StudyHoursLog    []StudyHoursEntry `json:"studyHoursLog"`
}

// HoursOn returns the logged hours for the given day, zero if absent.
func (s *StudyStats) HoursOn(day dates.Day) float64 {
	for _, entry := range s.StudyHoursLog {
		if entry.Date == day {
			return entry.Hours
		}
	}
	return 0
}
