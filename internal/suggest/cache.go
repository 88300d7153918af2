package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
	"github.com/ekalavya-cmd/studbud-backend/internal/utils"
)

// CacheKey canonicalizes the request triple. Field order is fixed by the
// typed struct (and encoding/json sorts any map keys), so semantically
// identical requests always hit the same entry regardless of how the client
// ordered its JSON.
func CacheKey(tasks []types.Task, habits types.StudyStats, customPrompt string) string {
	canonical := struct {
		Tasks        []types.Task     `json:"tasks"`
		StudyHabits  types.StudyStats `json:"studyHabits"`
		CustomPrompt string           `json:"customPrompt,omitempty"`
	}{
		Tasks:        tasks,
		StudyHabits:  habits,
		CustomPrompt: customPrompt,
	}
	raw, err := json.Marshal(canonical)
	if err != nil {
		// Marshal of these plain structs cannot fail in practice; fall back
		// to an uncacheable key rather than propagate.
		return fmt.Sprintf("uncacheable:%d", time.Now().UnixNano())
	}
	return string(raw)
}

// RedisCache is the bounded tier in front of the persisted suggestion map.
// Entries expire by TTL, which is the deliberate eviction bound the
// persisted map lacks.
type RedisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisCache(log *logger.Logger) (*RedisCache, error) {
	serviceLog := log.With("service", "RedisCache")

	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlHours := utils.GetEnvAsInt("SUGGEST_CACHE_TTL_HOURS", 24, log)
	if ttlHours <= 0 {
		ttlHours = 24
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		log: serviceLog,
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, userID, cacheKey string) (string, bool) {
	val, err := c.rdb.Get(ctx, redisKey(userID, cacheKey)).Result()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Redis get failed", "error", err)
		}
		return "", false
	}
	return val, true
}

func (c *RedisCache) Put(ctx context.Context, userID, cacheKey, text string) {
	if err := c.rdb.Set(ctx, redisKey(userID, cacheKey), text, c.ttl).Err(); err != nil {
		c.log.Warn("Redis set failed", "error", err)
	}
}

func (c *RedisCache) Close() error { return c.rdb.Close() }

// redisKey hashes the canonical key; the raw form is unbounded JSON.
func redisKey(userID, cacheKey string) string {
	sum := sha256.Sum256([]byte(cacheKey))
	return "suggestion:" + userID + ":" + hex.EncodeToString(sum[:])
}
