package ratelimit

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

type Limiter interface {
	// Allow counts one hit for key in the current window.
	Allow(ctx context.Context, key string) (bool, error)
}

// Redis is a fixed-window counter: INCR then EXPIRE in one pipeline.
type Redis struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRedis(redisURL string, limit int64, window time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{
		client: redis.NewClient(opt),
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
	}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, r.prefix+key)
	pipe.Expire(ctx, r.prefix+key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= r.limit, nil
}
