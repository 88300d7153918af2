package services

import (
	"context"
	"time"

	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/repos"
	"github.com/ekalavya-cmd/studbud-backend/internal/suggest"
)

// Artificial response delays. The client animates a "thinking" state;
// near-instant cache hits made it flicker, so hits and misses are leveled
// to roughly the same latency.
const (
	cacheHitDelay  = 1 * time.Second
	cacheMissDelay = 1200 * time.Millisecond
)

// SuggestionService resolves a request through the cache tiers, falls
// through to the formatter, and writes the result back to both tiers.
type SuggestionService interface {
	Suggest(ctx context.Context, userID string, req suggest.Request) (string, error)
}

type suggestionService struct {
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	formatter   *suggest.Formatter
	cache       *suggest.RedisCache
	sleep       func(ctx context.Context, d time.Duration)
}

type SuggestionOption func(*suggestionService)

// WithSleep replaces the delay function, so tests skip the UX latency.
func WithSleep(sleep func(ctx context.Context, d time.Duration)) SuggestionOption {
	return func(s *suggestionService) { s.sleep = sleep }
}

// NewSuggestionService wires the cache tiers around the formatter. cache
// may be nil when redis is not configured; the persisted map still serves.
func NewSuggestionService(log *logger.Logger, profileRepo repos.UserProfileRepo, formatter *suggest.Formatter, cache *suggest.RedisCache, opts ...SuggestionOption) SuggestionService {
	s := &suggestionService{
		log:         log.With("service", "SuggestionService"),
		profileRepo: profileRepo,
		formatter:   formatter,
		cache:       cache,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *suggestionService) Suggest(ctx context.Context, userID string, req suggest.Request) (string, error) {
	cacheKey := suggest.CacheKey(req.Tasks, req.StudyHabits, req.CustomPrompt)

	if s.cache != nil {
		if text, ok := s.cache.Get(ctx, userID, cacheKey); ok {
			s.log.Debug("Suggestion cache hit", "tier", "redis", "user_id", userID)
			s.sleep(ctx, cacheHitDelay)
			return text, nil
		}
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if text, ok := profile.CachedSuggestions[cacheKey]; ok {
		s.log.Debug("Suggestion cache hit", "tier", "persisted", "user_id", userID)
		if s.cache != nil {
			s.cache.Put(ctx, userID, cacheKey, text)
		}
		s.sleep(ctx, cacheHitDelay)
		return text, nil
	}

	s.sleep(ctx, cacheMissDelay)
	text, mode := s.formatter.Suggest(ctx, req)
	s.log.Info("Generated suggestion", "mode", string(mode), "user_id", userID)

	if s.cache != nil {
		s.cache.Put(ctx, userID, cacheKey, text)
	}
	if err := s.profileRepo.UpsertCachedSuggestion(ctx, nil, userID, cacheKey, text); err != nil {
		// Serving beats caching; the next identical request just regenerates.
		s.log.Warn("Failed to persist cached suggestion", "user_id", userID, "error", err)
	}
	return text, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
