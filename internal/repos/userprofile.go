package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
)

// UserProfileRepo is the persistence collaborator for the whole user
// document: get creates defaults on first access, put replaces the document.
type UserProfileRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProfile, error)
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error)
	UpsertCachedSuggestion(ctx context.Context, tx *gorm.DB, userID, cacheKey, text string) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userProfileRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProfile, error) {
	transaction := r.handle(tx)

	var record types.UserProfileRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if err == nil {
		return record.ToProfile()
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile := types.NewUserProfile(userID)
	fresh, convErr := profile.ToRecord()
	if convErr != nil {
		return nil, convErr
	}
	if err := transaction.WithContext(ctx).Create(fresh).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	r.log.Info("Created default profile", "user_id", userID)
	return profile, nil
}

func (r *userProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) (*types.UserProfile, error) {
	transaction := r.handle(tx)

	record, err := profile.ToRecord()
	if err != nil {
		return nil, err
	}
	err = transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"tasks", "study_stats", "points", "badges",
				"current_theme", "unlocked_themes", "cached_suggestions", "updated_at",
			}),
		}).
		Create(record).Error
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

// UpsertCachedSuggestion merges one cache entry into the persisted map
// without clobbering concurrent document fields beyond last-write-wins on
// the map column itself.
func (r *userProfileRepo) UpsertCachedSuggestion(ctx context.Context, tx *gorm.DB, userID, cacheKey, text string) error {
	transaction := r.handle(tx)

	var record types.UserProfileRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		return err
	}

	cached := map[string]string{}
	if len(record.CachedSuggestions) > 0 {
		if err := json.Unmarshal(record.CachedSuggestions, &cached); err != nil {
			return fmt.Errorf("unmarshal cached suggestions: %w", err)
		}
	}
	cached[cacheKey] = text
	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal cached suggestions: %w", err)
	}

	return transaction.WithContext(ctx).
		Model(&types.UserProfileRecord{}).
		Where("user_id = ?", userID).
		Update("cached_suggestions", raw).Error
}
