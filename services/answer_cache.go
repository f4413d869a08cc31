package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"room-assistant-platform/internal/logger"
)

const cacheGenerationKey = "answers:generation"

// AnswerCache memoizes answers in Redis. Keys embed a generation counter
// that Invalidate bumps whenever the document set changes, so stale answers
// expire wholesale without scanning keys. Every operation fails open: with
// no Redis, or a broken one, callers just recompute.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnswerCache wraps a Redis client; client may be nil, which disables
// caching.
func NewAnswerCache(client *redis.Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AnswerCache{client: client, ttl: ttl}
}

// Available reports whether caching is active.
func (c *AnswerCache) Available() bool {
	return c.client != nil
}

// Get returns the cached answer for the query in the given language, if any.
func (c *AnswerCache) Get(ctx context.Context, query, language string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	key, err := c.answerKey(ctx, query, language)
	if err != nil {
		return "", false
	}
	answer, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("answer cache read failed", "error", err)
		}
		return "", false
	}
	return answer, true
}

// Put stores an answer for the query in the given language.
func (c *AnswerCache) Put(ctx context.Context, query, language, answer string) {
	if c.client == nil {
		return
	}
	key, err := c.answerKey(ctx, query, language)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, answer, c.ttl).Err(); err != nil {
		logger.Warn("answer cache write failed", "error", err)
	}
}

// Invalidate discards all cached answers by advancing the generation
// counter. Called after uploads and clears.
func (c *AnswerCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, cacheGenerationKey).Err(); err != nil {
		logger.Warn("answer cache invalidation failed", "error", err)
	}
}

func (c *AnswerCache) answerKey(ctx context.Context, query, language string) (string, error) {
	gen, err := c.client.Get(ctx, cacheGenerationKey).Int64()
	if err != nil && err != redis.Nil {
		logger.Warn("answer cache generation read failed", "error", err)
		return "", err
	}
	sum := sha256.Sum256([]byte(language + "\x00" + query))
	return fmt.Sprintf("answers:%d:%s", gen, hex.EncodeToString(sum[:16])), nil
}
