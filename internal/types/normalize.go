package types

import (
	"github.com/ekalavya-cmd/studbud-backend/internal/dates"
)

// Normalization of client-supplied dates into canonical form. Older clients
// and older persisted documents send DD-MM-YYYY; everything downstream
// compares Day values as strings, so mixed forms must be canonicalized at
// the binding boundary. Unparseable values pass through untouched rather
// than being dropped.

func normalizeDay(d dates.Day) dates.Day {
	parsed, err := dates.Parse(string(d))
	if err != nil {
		return d
	}
	return parsed
}

func (t *Task) Normalize() {
	t.DueDate = normalizeDay(t.DueDate)
	t.CompletedDate = normalizeDay(t.CompletedDate)
}

func (s *StudyStats) Normalize() {
	s.LastActiveDate = normalizeDay(s.LastActiveDate)
	s.LastStreakUpdate = normalizeDay(s.LastStreakUpdate)
	for i := range s.StudyHoursLog {
		s.StudyHoursLog[i].Date = normalizeDay(s.StudyHoursLog[i].Date)
	}
}

func NormalizeTasks(tasks []Task) {
	for i := range tasks {
		tasks[i].Normalize()
	}
}
