package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ikigai:ratelimit:"

// Redis implements a fixed-window limiter shared by every server instance.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedis connects to the Redis server at url (redis://...) and verifies it responds.
func NewRedis(ctx context.Context, url string, limit int, window time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, limit: limit, window: window}, nil
}

// Allow increments the counter for the current window of key.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := time.Now().UnixNano() / int64(r.window)
	k := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, windowStart)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= int64(r.limit), nil
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
