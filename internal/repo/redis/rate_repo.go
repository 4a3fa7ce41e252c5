package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateRepo keeps fixed-window counters.
type RateRepo struct {
	client *goredis.Client
}

func NewRateRepo(client *goredis.Client) *RateRepo {
	return &RateRepo{client: client}
}

// Hit bumps the counter behind key and returns the updated count together
// with the window's remaining lifetime. The whole exchange runs as one
// pipelined transaction; the expiry uses NX so only the increment that
// creates the key starts the window and it never slides.
func (r *RateRepo) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, fmt.Errorf("redis client is nil")
	}
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid rate window")
	}

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("bump rate window: %w", err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = 0
	}

	return incr.Val(), remaining, nil
}
