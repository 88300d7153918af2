package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekalavya-cmd/studbud-backend/internal/dates"
	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/planner"
	"github.com/ekalavya-cmd/studbud-backend/internal/repos"
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
)

var ErrValidation = errors.New("validation failed")

// ProfileSave is the full-document save payload. Pointer fields distinguish
// "absent" from "empty": a save must carry every section of the document,
// so absent sections are rejected rather than defaulted.
type ProfileSave struct {
	Tasks          *[]types.Task     `json:"tasks"`
	StudyStats     *types.StudyStats `json:"studyStats"`
	Points         *int              `json:"points"`
	Badges         *[]string         `json:"badges"`
	CurrentTheme   *string           `json:"currentTheme"`
	UnlockedThemes *[]string         `json:"unlockedThemes"`
}

// UserDataService owns the load/mutate/persist cycle around the planner.
// Every mutation loads the document, applies one planner transition, and
// writes the whole document back.
type UserDataService interface {
	Get(ctx context.Context, userID string) (*types.UserProfile, error)
	Save(ctx context.Context, userID string, payload ProfileSave) (*types.UserProfile, error)

	AddTask(ctx context.Context, userID, title string, due dates.Day, priority types.Priority, subject string, hours float64) (*types.UserProfile, *types.Task, error)
	DeleteTask(ctx context.Context, userID string, taskID int64) (*types.UserProfile, planner.Outcome, error)
	ToggleTask(ctx context.Context, userID string, taskID int64) (*types.UserProfile, planner.Outcome, error)
	LogStudyHours(ctx context.Context, userID string, hours float64) (*types.UserProfile, planner.Outcome, error)
	DeductStudyHours(ctx context.Context, userID string, hours float64, day dates.Day) (*types.UserProfile, error)
	RedeemTheme(ctx context.Context, userID, theme string) (*types.UserProfile, error)
	SetCurrentTheme(ctx context.Context, userID, theme string) (*types.UserProfile, error)
}

type userDataService struct {
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	today       func() dates.Day
}

func NewUserDataService(log *logger.Logger, profileRepo repos.UserProfileRepo) UserDataService {
	return &userDataService{
		log:         log.With("service", "UserDataService"),
		profileRepo: profileRepo,
		today:       dates.Today,
	}
}

// Get loads (or creates) the profile and reconciles derived state before
// returning it. Reading is not activity, so the streak can only decay here.
func (s *userDataService) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	today := s.today()
	profile, err := s.profileRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	pl := planner.New(profile, s.log, planner.WithToday(today))
	before := profile.StudyStats
	pl.Reconcile(today)
	if before.Streak != profile.StudyStats.Streak || before.CompletedTasks != profile.StudyStats.CompletedTasks {
		if _, err := s.profileRepo.Upsert(ctx, nil, profile); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// Save validates and persists a client-supplied full document. Derived
// fields are reconciled server-side after validation, so a client cannot
// persist an inconsistent completedTasks or a stale streak.
func (s *userDataService) Save(ctx context.Context, userID string, payload ProfileSave) (*types.UserProfile, error) {
	if err := validateSave(payload); err != nil {
		return nil, err
	}
	today := s.today()
	profile, err := s.profileRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	profile.Tasks = *payload.Tasks
	profile.StudyStats = *payload.StudyStats
	types.NormalizeTasks(profile.Tasks)
	profile.StudyStats.Normalize()
	profile.Points = *payload.Points
	profile.Badges = *payload.Badges
	profile.CurrentTheme = *payload.CurrentTheme
	profile.UnlockedThemes = *payload.UnlockedThemes
	if profile.StudyStats.StudyHoursLog == nil {
		profile.StudyStats.StudyHoursLog = []types.StudyHoursEntry{}
	}

	pl := planner.New(profile, s.log, planner.WithToday(today))
	pl.Reconcile(today)
	return s.profileRepo.Upsert(ctx, nil, profile)
}

func validateSave(payload ProfileSave) error {
	switch {
	case payload.Tasks == nil:
		return fmt.Errorf("%w: tasks must be an array", ErrValidation)
	case payload.StudyStats == nil:
		return fmt.Errorf("%w: studyStats must be an object", ErrValidation)
	case payload.Points == nil:
		return fmt.Errorf("%w: points must be a number", ErrValidation)
	case payload.Badges == nil:
		return fmt.Errorf("%w: badges must be an array", ErrValidation)
	case payload.CurrentTheme == nil:
		return fmt.Errorf("%w: currentTheme is required", ErrValidation)
	case !types.ValidTheme(*payload.CurrentTheme):
		return fmt.Errorf("%w: unknown theme %q", ErrValidation, *payload.CurrentTheme)
	case payload.UnlockedThemes == nil:
		return fmt.Errorf("%w: unlockedThemes must be an array", ErrValidation)
	}
	for _, t := range *payload.Tasks {
		if !t.Priority.Valid() {
			return fmt.Errorf("%w: task %d has unknown priority %q", ErrValidation, t.ID, t.Priority)
		}
	}
	for _, theme := range *payload.UnlockedThemes {
		if !types.ValidTheme(theme) {
			return fmt.Errorf("%w: unknown theme %q", ErrValidation, theme)
		}
	}
	if (*payload.StudyStats).TotalHours < 0 {
		return fmt.Errorf("%w: totalHours must not be negative", ErrValidation)
	}
	return nil
}

// mutate is the shared load/plan/persist cycle for the planner routes.
func (s *userDataService) mutate(ctx context.Context, userID string, fn func(pl *planner.Planner) error) (*types.UserProfile, error) {
	today := s.today()
	profile, err := s.profileRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	pl := planner.New(profile, s.log, planner.WithToday(today))
	pl.Reconcile(today)
	if err := fn(pl); err != nil {
		return nil, err
	}
	return s.profileRepo.Upsert(ctx, nil, profile)
}

func (s *userDataService) AddTask(ctx context.Context, userID, title string, due dates.Day, priority types.Priority, subject string, hours float64) (*types.UserProfile, *types.Task, error) {
	var task *types.Task
	profile, err := s.mutate(ctx, userID, func(pl *planner.Planner) error {
		var err error
		task, err = pl.AddTask(title, due, priority, subject, hours)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return profile, task, nil
}

func (s *userDataService) DeleteTask(ctx context.Context, userID string, taskID int64) (*types.UserProfile, planner.Outcome, error) {
	var out planner.Outcome
	profile, err := s.mutate(ctx, userID, func(pl *planner.Planner) error {
		var err error
		out, err = pl.DeleteTask(taskID)
		return err
	})
	return profile, out, err
}

func (s *userDataService) ToggleTask(ctx context.Context, userID string, taskID int64) (*types.UserProfile, planner.Outcome, error) {
	var out planner.Outcome
	profile, err := s.mutate(ctx, userID, func(pl *planner.Planner) error {
		var err error
		out, err = pl.ToggleComplete(taskID)
		return err
	})
	return profile, out, err
}

func (s *userDataService) LogStudyHours(ctx context.Context, userID string, hours float64) (*types.UserProfile, planner.Outcome, error) {
	var out planner.Outcome
	profile, err := s.mutate(ctx, userID, func(pl *planner.Planner) error {
		var err error
		out, err = pl.LogStudyHours(hours)
		return err
	})
	return profile, out, err
}

func (s *userDataService) DeductStudyHours(ctx context.Context, userID string, hours float64, day dates.Day) (*types.UserProfile, error) {
	return s.mutate(ctx, userID, func(pl *planner.Planner) error {
		if day.IsZero() {
			day = s.today()
		}
		return pl.DeductStudyHours(hours, day)
	})
}

func (s *userDataService) RedeemTheme(ctx context.Context, userID, theme string) (*types.UserProfile, error) {
	return s.mutate(ctx, userID, func(pl *planner.Planner) error {
		return pl.RedeemTheme(theme)
	})
}

func (s *userDataService) SetCurrentTheme(ctx context.Context, userID, theme string) (*types.UserProfile, error) {
	return s.mutate(ctx, userID, func(pl *planner.Planner) error {
		return pl.SetCurrentTheme(theme)
	})
}
