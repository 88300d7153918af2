// Package planner keeps task completion, logged study hours, streak count,
// and point balance mutually consistent. It is a pure in-memory transform
// over a UserProfile; persistence happens above it.
package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ekalavya-cmd/studbud-backend/internal/dates"
	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUnknownTheme       = errors.New("unknown theme")
	ErrThemeLocked        = errors.New("theme not unlocked")
	ErrThemeUnlocked      = errors.New("theme already unlocked")
	ErrInsufficientPoints = errors.New("not enough points")
)

// Award is one badge grant. Streak Star carries bonus points.
type Award struct {
	Badge       string
	BonusPoints int
}

// Outcome summarizes the observable effects of one mutation.
type Outcome struct {
	PointsDelta int
	Awards      []Award
}

// Planner mutates a single profile. Construct one per request; it holds no
// state beyond the profile it was given.
type Planner struct {
	profile *types.UserProfile
	log     *logger.Logger
	now     func() dates.Day
	nextID  func() int64
}

type Option func(*Planner)

// WithToday overrides the clock, for tests and for replaying saves.
func WithToday(day dates.Day) Option {
	return func(p *Planner) {
		p.now = func() dates.Day { return day }
	}
}

// WithIDSource overrides task id generation.
func WithIDSource(next func() int64) Option {
	return func(p *Planner) { p.nextID = next }
}

func New(profile *types.UserProfile, baseLog *logger.Logger, opts ...Option) *Planner {
	p := &Planner{
		profile: profile,
		log:     baseLog.With("service", "Planner"),
		now:     dates.Today,
		nextID:  func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) Profile() *types.UserProfile { return p.profile }

// AddTask appends a fresh incomplete task. IDs stay strictly monotonic even
// if the id source collides with an existing task.
func (p *Planner) AddTask(title string, due dates.Day, priority types.Priority, subject string, hours float64) (*types.Task, error) {
	if title == "" || due.IsZero() {
		return nil, fmt.Errorf("%w: title and due date required", ErrInvalidInput)
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, priority)
	}
	if math.IsNaN(hours) || hours < 0 {
		return nil, fmt.Errorf("%w: hours must be non-negative", ErrInvalidInput)
	}

	id := p.nextID()
	for _, t := range p.profile.Tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	task := types.Task{
		ID:       id,
		Title:    title,
		DueDate:  due,
		Priority: priority,
		Subject:  subject,
		Hours:    round2(hours),
	}
	p.profile.Tasks = append(p.profile.Tasks, task)
	p.syncDerived()
	return &p.profile.Tasks[len(p.profile.Tasks)-1], nil
}

// DeleteTask removes a task. A completed task first has its point and hour
// effects reversed, symmetric to un-completing it, so nothing is silently
// lost from the accounting.
func (p *Planner) DeleteTask(id int64) (Outcome, error) {
	idx := p.taskIndex(id)
	if idx < 0 {
		return Outcome{}, ErrTaskNotFound
	}
	var out Outcome
	task := p.profile.Tasks[idx]
	if task.Completed {
		if task.Hours > 0 && !task.CompletedDate.IsZero() {
			p.deductHours(task.Hours, task.CompletedDate)
		}
		if task.PointsAwarded {
			p.profile.Points -= task.Priority.Points()
			out.PointsDelta -= task.Priority.Points()
		}
	}
	p.profile.Tasks = append(p.profile.Tasks[:idx], p.profile.Tasks[idx+1:]...)
	p.syncDerived()
	return out, nil
}

// ToggleComplete flips completion and applies the full points/hours/streak/
// badge transition described by the profile's rules.
func (p *Planner) ToggleComplete(id int64) (Outcome, error) {
	idx := p.taskIndex(id)
	if idx < 0 {
		return Outcome{}, ErrTaskNotFound
	}
	var out Outcome
	today := p.now()
	task := &p.profile.Tasks[idx]

	if !task.Completed {
		task.Completed = true
		task.CompletedDate = today
		if !task.PointsAwarded {
			p.profile.Points += task.Priority.Points()
			out.PointsDelta += task.Priority.Points()
			task.PointsAwarded = true
		}
		if task.Hours > 0 {
			p.addHours(task.Hours, today)
			p.UpdateStreak(today)
		}
		out.Awards = p.evaluateBadges()
		for _, a := range out.Awards {
			out.PointsDelta += a.BonusPoints
		}
	} else {
		task.Completed = false
		if task.PointsAwarded {
			p.profile.Points -= task.Priority.Points()
			out.PointsDelta -= task.Priority.Points()
			task.PointsAwarded = false
		}
		if task.Hours > 0 && !task.CompletedDate.IsZero() {
			p.deductHours(task.Hours, task.CompletedDate)
		}
		task.CompletedDate = ""
	}
	p.syncDerived()
	return out, nil
}

// LogStudyHours records positive study time against today and advances the
// streak. Invalid amounts are rejected with no mutation.
func (p *Planner) LogStudyHours(hours float64) (Outcome, error) {
	if math.IsNaN(hours) || hours <= 0 {
		return Outcome{}, fmt.Errorf("%w: hours must be a number greater than 0", ErrInvalidInput)
	}
	today := p.now()
	p.addHours(hours, today)
	p.UpdateStreak(today)

	var out Outcome
	out.Awards = p.evaluateBadges()
	for _, a := range out.Awards {
		out.PointsDelta += a.BonusPoints
	}
	return out, nil
}

// DeductStudyHours removes hours from the entry for the given day, clamped
// at zero. totalHours drops by what the entry actually held, never below
// zero, and the streak is untouched.
func (p *Planner) DeductStudyHours(hours float64, day dates.Day) error {
	if math.IsNaN(hours) || hours <= 0 {
		return fmt.Errorf("%w: hours must be a number greater than 0", ErrInvalidInput)
	}
	p.deductHours(hours, day)
	return nil
}

// UpdateStreak is the canonical dual-check streak algorithm. The second
// check deliberately uses the pre-mutation lastStreakUpdate: activity and
// streak bookkeeping can diverge when the user only views the app, and a
// stale update record must win over a fresh-looking lastActive.
func (p *Planner) UpdateStreak(today dates.Day) {
	stats := &p.profile.StudyStats
	lastActive := stats.LastActiveDate
	lastUpdate := stats.LastStreakUpdate

	if lastActive.IsZero() || lastActive != today {
		if lastActive.IsZero() {
			stats.Streak = 1
			stats.LastStreakUpdate = today
		} else {
			switch diffDays := dates.DaysBetween(lastActive, today); {
			case diffDays == 1:
				stats.Streak++
				stats.LastStreakUpdate = today
			case diffDays > 1:
				stats.Streak = 1
				stats.LastStreakUpdate = today
			}
		}
	}

	if !lastUpdate.IsZero() && lastUpdate != today {
		if dates.DaysBetween(lastUpdate, today) > 1 {
			stats.Streak = 1
			stats.LastStreakUpdate = today
		}
	}

	stats.LastActiveDate = today
}

// Reconcile repairs derived state on load/save without recording activity:
// completedTasks is recomputed and a streak left stale for more than a day
// is zeroed. Viewing the app is not study activity, so this never
// increments the streak or touches lastActiveDate.
func (p *Planner) Reconcile(today dates.Day) {
	stats := &p.profile.StudyStats
	if !stats.LastStreakUpdate.IsZero() && stats.LastStreakUpdate != today {
		if dates.DaysBetween(stats.LastStreakUpdate, today) > 1 {
			stats.Streak = 0
			stats.LastStreakUpdate = today
		}
	}
	p.syncDerived()
}

// RedeemTheme spends points to unlock a catalog theme.
func (p *Planner) RedeemTheme(name string) error {
	if !types.ValidTheme(name) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if p.profile.HasUnlockedTheme(name) {
		return ErrThemeUnlocked
	}
	if p.profile.Points < types.ThemeCost {
		return ErrInsufficientPoints
	}
	p.profile.Points -= types.ThemeCost
	p.profile.UnlockedThemes = append(p.profile.UnlockedThemes, name)
	return nil
}

// SetCurrentTheme switches to an already-unlocked theme.
func (p *Planner) SetCurrentTheme(name string) error {
	if !types.ValidTheme(name) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if !p.profile.HasUnlockedTheme(name) {
		return ErrThemeLocked
	}
	p.profile.CurrentTheme = name
	return nil
}

func (p *Planner) taskIndex(id int64) int {
	for i := range p.profile.Tasks {
		if p.profile.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Planner) addHours(hours float64, day dates.Day) {
	rounded := round2(hours)
	stats := &p.profile.StudyStats
	for i := range stats.StudyHoursLog {
		if stats.StudyHoursLog[i].Date == day {
			stats.StudyHoursLog[i].Hours = round2(stats.StudyHoursLog[i].Hours + rounded)
			stats.TotalHours = round2(stats.TotalHours + rounded)
			return
		}
	}
	stats.StudyHoursLog = append(stats.StudyHoursLog, types.StudyHoursEntry{Date: day, Hours: rounded})
	stats.TotalHours = round2(stats.TotalHours + rounded)
}

func (p *Planner) deductHours(hours float64, day dates.Day) {
	rounded := round2(hours)
	stats := &p.profile.StudyStats
	for i := range stats.StudyHoursLog {
		if stats.StudyHoursLog[i].Date != day {
			continue
		}
		actual := rounded
		if actual > stats.StudyHoursLog[i].Hours {
			actual = stats.StudyHoursLog[i].Hours
		}
		remaining := round2(stats.StudyHoursLog[i].Hours - actual)
		if remaining <= 0 {
			stats.StudyHoursLog = append(stats.StudyHoursLog[:i], stats.StudyHoursLog[i+1:]...)
		} else {
			stats.StudyHoursLog[i].Hours = remaining
		}
		stats.TotalHours = round2(stats.TotalHours - actual)
		if stats.TotalHours < 0 {
			stats.TotalHours = 0
		}
		return
	}
}

func (p *Planner) syncDerived() {
	completed := 0
	for _, t := range p.profile.Tasks {
		if t.Completed {
			completed++
		}
	}
	p.profile.StudyStats.CompletedTasks = completed
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
