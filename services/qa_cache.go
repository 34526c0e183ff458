package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pdf-rag-platform/internal/logger"
)

// AnswerCache memoizes chat answers in Redis, keyed by the question
// and the scope set it was asked against. Cache failures degrade to a
// miss; answering must never depend on Redis being up.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnswerCache(client *redis.Client, ttl time.Duration) *AnswerCache {
	return &AnswerCache{client: client, ttl: ttl}
}

func answerCacheKey(scopeIDs []string, question string) string {
	scopes := make([]string, len(scopeIDs))
	copy(scopes, scopeIDs)
	sort.Strings(scopes)

	sum := sha256.Sum256([]byte(strings.Join(scopes, ",") + "|" + question))
	return "answer:" + hex.EncodeToString(sum[:])
}

func (c *AnswerCache) Get(ctx context.Context, scopeIDs []string, question string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	answer, err := c.client.Get(ctx, answerCacheKey(scopeIDs, question)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("answer cache read failed", "error", err)
		}
		return "", false
	}
	return answer, true
}

func (c *AnswerCache) Set(ctx context.Context, scopeIDs []string, question, answer string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, answerCacheKey(scopeIDs, question), answer, c.ttl).Err(); err != nil {
		logger.Warn("answer cache write failed", "error", err)
	}
}
