package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/ivankudzin/profilehub/internal/repo/redis"
)

func TestLimiterBlocksOnShortWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client),
		Window{Every: time.Minute, Limit: 100},
		Window{Every: 10 * time.Second, Limit: 2},
	)

	ctx := context.Background()
	userID := int64(42)

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.AllowWrite(ctx, userID)
		if err != nil {
			t.Fatalf("allow write #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowWrite(ctx, userID)
	if err != nil {
		t.Fatalf("allow write #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third write in 10s window")
	}
	if retryAfter <= 0 || retryAfter > 10 {
		t.Fatalf("unexpected retry_after %d for a 10s window", retryAfter)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.AllowWrite(ctx, userID)
	if err != nil {
		t.Fatalf("allow write after 10s window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterBlocksOnLongWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client),
		Window{Every: time.Minute, Limit: 3},
		Window{Every: 10 * time.Second, Limit: 100},
	)

	ctx := context.Background()
	userID := int64(77)

	for i := 0; i < 3; i++ {
		if _, allowed, err := limiter.AllowWrite(ctx, userID); err != nil || !allowed {
			t.Fatalf("allow write #%d: allowed=%v err=%v", i+1, allowed, err)
		}
	}

	retryAfter, allowed, err := limiter.AllowWrite(ctx, userID)
	if err != nil {
		t.Fatalf("allow write #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on fourth write in minute window")
	}
	if retryAfter <= 10 {
		t.Fatalf("expected minute-window retry_after, got %d", retryAfter)
	}
}

func TestLimiterDropsDisabledWindows(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client),
		Window{Every: time.Minute, Limit: 0},
		Window{Every: 0, Limit: 5},
	)
	if len(limiter.windows) != 0 {
		t.Fatalf("expected zeroed windows to be dropped, kept %d", len(limiter.windows))
	}

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		retryAfter, allowed, err := limiter.AllowWrite(ctx, 7)
		if err != nil {
			t.Fatalf("allow write #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("expected disabled limiter to allow, got allowed=%v retry_after=%d", allowed, retryAfter)
		}
	}
}

func TestLimiterSupportsCustomWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), Window{Every: 30 * time.Second, Limit: 1})

	ctx := context.Background()
	if _, allowed, err := limiter.AllowWrite(ctx, 9); err != nil || !allowed {
		t.Fatalf("first write: allowed=%v err=%v", allowed, err)
	}

	retryAfter, allowed, err := limiter.AllowWrite(ctx, 9)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if allowed {
		t.Fatalf("expected block on the custom window")
	}
	if retryAfter <= 0 || retryAfter > 30 {
		t.Fatalf("unexpected retry_after %d for a 30s window", retryAfter)
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
