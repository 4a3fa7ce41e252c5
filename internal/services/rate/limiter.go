package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Window is one fixed-window rule: at most Limit writes per Every.
type Window struct {
	Every time.Duration
	Limit int
}

type CounterStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Limiter throttles mutating requests per caller across any number of
// configured windows. Windows with a zero limit or length are dropped at
// construction, so a fully zeroed config disables limiting.
type Limiter struct {
	store   CounterStore
	windows []Window
}

func NewLimiter(store CounterStore, windows ...Window) *Limiter {
	active := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.Limit > 0 && w.Every > 0 {
			active = append(active, w)
		}
	}

	return &Limiter{store: store, windows: active}
}

// AllowWrite counts one write against every window and reports the longest
// wait when any of them is exhausted. The write is counted even when it is
// rejected, so hammering a closed window does not shorten it.
func (l *Limiter) AllowWrite(ctx context.Context, userID int64) (int64, bool, error) {
	if userID <= 0 {
		return 0, false, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	var retryAfterSec int64
	for _, w := range l.windows {
		count, ttl, err := l.store.Hit(ctx, windowKey(userID, w.Every), w.Every)
		if err != nil {
			return 0, false, err
		}
		if count > int64(w.Limit) {
			if sec := ceilSeconds(ttl); sec > retryAfterSec {
				retryAfterSec = sec
			}
		}
	}

	if retryAfterSec > 0 {
		return retryAfterSec, false, nil
	}

	return 0, true, nil
}

func windowKey(userID int64, every time.Duration) string {
	return "rate:writes:" + strconv.FormatInt(int64(every/time.Second), 10) + "s:" + strconv.FormatInt(userID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
