package types

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// UserProfile is the full per-user document: tasks, stats, gamification
// state, theming, and the memoized suggestion texts. It round-trips whole
// through the store (no partial-patch semantics).
type UserProfile struct {
	UserID            string            `json:"userId"`
	Tasks             []Task            `json:"tasks"`
	StudyStats        StudyStats        `json:"studyStats"`
	Points            int               `json:"points"`
	Badges            []string          `json:"badges"`
	Themes            []string          `json:"themes"`
	CurrentTheme      string            `json:"currentTheme"`
	UnlockedThemes    []string          `json:"unlockedThemes"`
	CachedSuggestions map[string]string `json:"cachedSuggestions"`
}

// NewUserProfile returns the documented defaults for a first-seen userId.
// The streak dates start unset so the first real activity counts as day one.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Tasks:  []Task{},
		StudyStats: StudyStats{
			StudyHoursLog: []StudyHoursEntry{},
		},
		Points:            0,
		Badges:            []string{},
		Themes:            append([]string{}, ThemeCatalog...),
		CurrentTheme:      DefaultTheme,
		UnlockedThemes:    []string{DefaultTheme},
		CachedSuggestions: map[string]string{},
	}
}

func (p *UserProfile) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b == name {
			return true
		}
	}
	return false
}

func (p *UserProfile) HasUnlockedTheme(name string) bool {
	for _, t := range p.UnlockedThemes {
		if t == name {
			return true
		}
	}
	return false
}

// UserProfileRecord is the persisted row. Document-shaped fields live in
// jsonb columns; the scalar columns exist for ad-hoc querying.
type UserProfileRecord struct {
	UserID            string         `gorm:"primaryKey;column:user_id" json:"user_id"`
	Tasks             datatypes.JSON `gorm:"column:tasks;type:jsonb" json:"tasks"`
	StudyStats        datatypes.JSON `gorm:"column:study_stats;type:jsonb" json:"study_stats"`
	Points            int            `gorm:"column:points;not null;default:0" json:"points"`
	Badges            datatypes.JSON `gorm:"column:badges;type:jsonb" json:"badges"`
	CurrentTheme      string         `gorm:"column:current_theme;not null" json:"current_theme"`
	UnlockedThemes    datatypes.JSON `gorm:"column:unlocked_themes;type:jsonb" json:"unlocked_themes"`
	CachedSuggestions datatypes.JSON `gorm:"column:cached_suggestions;type:jsonb" json:"cached_suggestions"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserProfileRecord) TableName() string { return "user_profile" }

func (p *UserProfile) ToRecord() (*UserProfileRecord, error) {
	tasks, err := json.Marshal(p.Tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	stats, err := json.Marshal(p.StudyStats)
	if err != nil {
		return nil, fmt.Errorf("marshal study stats: %w", err)
	}
	badges, err := json.Marshal(p.Badges)
	if err != nil {
		return nil, fmt.Errorf("marshal badges: %w", err)
	}
	unlocked, err := json.Marshal(p.UnlockedThemes)
	if err != nil {
		return nil, fmt.Errorf("marshal unlocked themes: %w", err)
	}
	cached, err := json.Marshal(p.CachedSuggestions)
	if err != nil {
		return nil, fmt.Errorf("marshal cached suggestions: %w", err)
	}
	return &UserProfileRecord{
		UserID:            p.UserID,
		Tasks:             tasks,
		StudyStats:        stats,
		Points:            p.Points,
		Badges:            badges,
		CurrentTheme:      p.CurrentTheme,
		UnlockedThemes:    unlocked,
		CachedSuggestions: cached,
	}, nil
}

func (r *UserProfileRecord) ToProfile() (*UserProfile, error) {
	p := &UserProfile{
		UserID:            r.UserID,
		Points:            r.Points,
		CurrentTheme:      r.CurrentTheme,
		Themes:            append([]string{}, ThemeCatalog...),
		Tasks:             []Task{},
		Badges:            []string{},
		UnlockedThemes:    []string{DefaultTheme},
		CachedSuggestions: map[string]string{},
	}
	if len(r.Tasks) > 0 {
		if err := json.Unmarshal(r.Tasks, &p.Tasks); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
	}
	if len(r.StudyStats) > 0 {
		if err := json.Unmarshal(r.StudyStats, &p.StudyStats); err != nil {
			return nil, fmt.Errorf("unmarshal study stats: %w", err)
		}
	}
	if len(r.Badges) > 0 {
		if err := json.Unmarshal(r.Badges, &p.Badges); err != nil {
			return nil, fmt.Errorf("unmarshal badges: %w", err)
		}
	}
	if len(r.UnlockedThemes) > 0 {
		if err := json.Unmarshal(r.UnlockedThemes, &p.UnlockedThemes); err != nil {
			return nil, fmt.Errorf("unmarshal unlocked themes: %w", err)
		}
	}
	if len(r.CachedSuggestions) > 0 {
		if err := json.Unmarshal(r.CachedSuggestions, &p.CachedSuggestions); err != nil {
			return nil, fmt.Errorf("unmarshal cached suggestions: %w", err)
		}
	}
	if p.StudyStats.StudyHoursLog == nil {
		p.StudyStats.StudyHoursLog = []StudyHoursEntry{}
	}
	if p.CurrentTheme == "" {
		p.CurrentTheme = DefaultTheme
	}
	return p, nil
}
