package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultBoardTTL bounds how stale a board view can get if an
	// invalidation is lost.
	DefaultBoardTTL = 5 * time.Minute

	boardKeyPrefix = "board"
)

// BoardCache stores one rendered board view per owner as a JSON blob.
// Key format: "board:{ownerID}"
type BoardCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewBoardCache returns a BoardCache. A non-positive ttl falls back to DefaultBoardTTL.
func NewBoardCache(r *RedisClient, ttl time.Duration) *BoardCache {
	if ttl <= 0 {
		ttl = DefaultBoardTTL
	}
	return &BoardCache{client: r, ttl: ttl}
}

// Get decodes the owner's cached view into dst.
// Returns redis.Nil when nothing is cached.
func (c *BoardCache) Get(ctx context.Context, ownerID uuid.UUID, dst any) error {
	data, err := c.client.Client().Get(ctx, BoardKey(ownerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return redis.Nil
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := sonic.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}

// Set stores view for the owner with the cache TTL.
func (c *BoardCache) Set(ctx context.Context, ownerID uuid.UUID, view any) error {
	data, err := sonic.Marshal(view)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, BoardKey(ownerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the owner's cached view. Missing keys are not an error.
func (c *BoardCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, BoardKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// BoardKey returns the Redis key of an owner's board view.
func BoardKey(ownerID uuid.UUID) string {
	return boardKeyPrefix + ":" + ownerID.String()
}
