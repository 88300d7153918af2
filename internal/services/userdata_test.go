package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ekalavya-cmd/studbud-backend/internal/dates"
	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/planner"
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// fakeProfileRepo keeps profiles in memory and counts writes.
type fakeProfileRepo struct {
	profiles map[string]*types.UserProfile
	upserts  int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*types.UserProfile{}}
}

func clone(p *types.UserProfile) *types.UserProfile {
	record, err := p.ToRecord()
	if err != nil {
		panic(err)
	}
	out, err := record.ToProfile()
	if err != nil {
		panic(err)
	}
	return out
}

func (r *fakeProfileRepo) GetOrCreate(_ context.Context, _ *gorm.DB, userID string) (*types.UserProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return clone(p), nil
	}
	p := types.NewUserProfile(userID)
	r.profiles[userID] = clone(p)
	return p, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, _ *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
	r.upserts++
	r.profiles[profile.UserID] = clone(profile)
	return profile, nil
}

func (r *fakeProfileRepo) UpsertCachedSuggestion(_ context.Context, _ *gorm.DB, userID, cacheKey, text string) error {
	p, ok := r.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CachedSuggestions[cacheKey] = text
	return nil
}

func newTestUserDataService(repo *fakeProfileRepo, today dates.Day) *userDataService {
	svc := NewUserDataService(testLogger(), repo).(*userDataService)
	svc.today = func() dates.Day { return today }
	return svc
}

func TestUserData_GetCreatesDefaults(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserDataService(repo, "2026-08-29")

	profile, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile.UserID != "u1" {
		t.Fatalf("userID = %q", profile.UserID)
	}
	if profile.CurrentTheme != types.DefaultTheme {
		t.Fatalf("currentTheme = %q", profile.CurrentTheme)
	}
	if len(profile.UnlockedThemes) != 1 || profile.UnlockedThemes[0] != types.DefaultTheme {
		t.Fatalf("unlockedThemes = %v", profile.UnlockedThemes)
	}
	if profile.Points != 0 || len(profile.Tasks) != 0 || len(profile.Badges) != 0 {
		t.Fatalf("unexpected defaults: %+v", profile)
	}
}

func TestUserData_GetReconcilesStaleStreak(t *testing.T) {
	repo := newFakeProfileRepo()
	stale := types.NewUserProfile("u1")
	stale.StudyStats.Streak = 8
	stale.StudyStats.LastStreakUpdate = "2026-08-20"
	repo.profiles["u1"] = stale

	svc := newTestUserDataService(repo, "2026-08-29")
	profile, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if profile.StudyStats.Streak != 0 {
		t.Fatalf("streak = %d, want 0", profile.StudyStats.Streak)
	}
	if repo.upserts != 1 {
		t.Fatalf("reconciled profile not persisted, upserts = %d", repo.upserts)
	}
}

func TestUserData_SaveValidation(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserDataService(repo, "2026-08-29")

	tasks := []types.Task{}
	stats := types.StudyStats{StudyHoursLog: []types.StudyHoursEntry{}}
	points := 10
	badges := []string{}
	theme := types.ThemeLight
	unlocked := []string{types.ThemeLight}

	full := func() ProfileSave {
		return ProfileSave{
			Tasks:          &tasks,
			StudyStats:     &stats,
			Points:         &points,
			Badges:         &badges,
			CurrentTheme:   &theme,
			UnlockedThemes: &unlocked,
		}
	}

	if _, err := svc.Save(context.Background(), "u1", full()); err != nil {
		t.Fatalf("valid save rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ProfileSave)
	}{
		{"missing tasks", func(p *ProfileSave) { p.Tasks = nil }},
		{"missing studyStats", func(p *ProfileSave) { p.StudyStats = nil }},
		{"missing points", func(p *ProfileSave) { p.Points = nil }},
		{"missing badges", func(p *ProfileSave) { p.Badges = nil }},
		{"missing currentTheme", func(p *ProfileSave) { p.CurrentTheme = nil }},
		{"missing unlockedThemes", func(p *ProfileSave) { p.UnlockedThemes = nil }},
		{"bogus theme", func(p *ProfileSave) { bad := "Neon"; p.CurrentTheme = &bad }},
		{"bogus unlocked theme", func(p *ProfileSave) { bad := []string{"Neon"}; p.UnlockedThemes = &bad }},
		{"bogus task priority", func(p *ProfileSave) {
			bad := []types.Task{{ID: 1, Title: "x", DueDate: "2026-08-30", Priority: "Urgent"}}
			p.Tasks = &bad
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := full()
			tc.mutate(&payload)
			if _, err := svc.Save(context.Background(), "u1", payload); !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}

// Points can dip below zero when completions are undone after spending on a
// theme, so a document the server itself produced must save back cleanly.
func TestUserData_SaveAcceptsNegativePoints(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserDataService(repo, "2026-08-29")

	tasks := []types.Task{}
	stats := types.StudyStats{StudyHoursLog: []types.StudyHoursEntry{}}
	points := -10
	badges := []string{}
	theme, unlocked := types.ThemeLight, []string{types.ThemeLight}

	profile, err := svc.Save(context.Background(), "u1", ProfileSave{
		Tasks: &tasks, StudyStats: &stats, Points: &points,
		Badges: &badges, CurrentTheme: &theme, UnlockedThemes: &unlocked,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if profile.Points != -10 {
		t.Fatalf("points = %d, want -10", profile.Points)
	}

	stored, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Points != -10 {
		t.Fatalf("persisted points = %d, want -10", stored.Points)
	}
}

func TestUserData_SaveNormalizesLegacyDates(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserDataService(repo, "2026-08-29")

	tasks := []types.Task{{ID: 1, Title: "x", DueDate: "30-08-2026", Priority: types.PriorityLow}}
	stats := types.StudyStats{
		LastActiveDate:   "29-08-2026",
		LastStreakUpdate: "29-08-2026",
		StudyHoursLog:    []types.StudyHoursEntry{{Date: "29-08-2026", Hours: 1}},
	}
	points, badges := 0, []string{}
	theme, unlocked := types.ThemeLight, []string{types.ThemeLight}

	profile, err := svc.Save(context.Background(), "u1", ProfileSave{
		Tasks: &tasks, StudyStats: &stats, Points: &points,
		Badges: &badges, CurrentTheme: &theme, UnlockedThemes: &unlocked,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if profile.Tasks[0].DueDate != "2026-08-30" {
		t.Fatalf("dueDate not canonicalized: %q", profile.Tasks[0].DueDate)
	}
	if profile.StudyStats.StudyHoursLog[0].Date != "2026-08-29" {
		t.Fatalf("log date not canonicalized: %q", profile.StudyStats.StudyHoursLog[0].Date)
	}
}

func TestUserData_ToggleTaskPersists(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserDataService(repo, "2026-08-29")

	_, task, err := svc.AddTask(context.Background(), "u1", "lab report", "2026-08-30", types.PriorityHigh, "", 2)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	_, outcome, err := svc.ToggleTask(context.Background(), "u1", task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if outcome.PointsDelta != 30 {
		t.Fatalf("points delta = %d, want 30", outcome.PointsDelta)
	}

	stored, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Points != 30 || !stored.Tasks[0].Completed {
		t.Fatalf("toggle not persisted: %+v", stored)
	}
	if stored.StudyStats.Streak != 1 {
		t.Fatalf("streak = %d, want 1", stored.StudyStats.Streak)
	}
}

func TestUserData_ThemeFlow(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestUserDataService(repo, "2026-08-29")

	if _, err := svc.RedeemTheme(context.Background(), "u1", types.ThemeDark); !errors.Is(err, planner.ErrInsufficientPoints) {
		t.Fatalf("got %v, want ErrInsufficientPoints", err)
	}

	seeded := types.NewUserProfile("u1")
	seeded.Points = types.ThemeCost
	repo.profiles["u1"] = seeded

	profile, err := svc.RedeemTheme(context.Background(), "u1", types.ThemeDark)
	if err != nil {
		t.Fatalf("RedeemTheme: %v", err)
	}
	if profile.Points != 0 || !profile.HasUnlockedTheme(types.ThemeDark) {
		t.Fatalf("redeem not applied: %+v", profile)
	}

	profile, err = svc.SetCurrentTheme(context.Background(), "u1", types.ThemeDark)
	if err != nil {
		t.Fatalf("SetCurrentTheme: %v", err)
	}
	if profile.CurrentTheme != types.ThemeDark {
		t.Fatalf("currentTheme = %q", profile.CurrentTheme)
	}
}
