package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	app_errors "enchanted-day/backend/internal/errors"
)

// userLimiter keeps one token bucket per user.
type userLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	lastGC   time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newUserLimiter allows perMinute requests per user per minute. Buckets unused
// for longer than idle are dropped.
func newUserLimiter(perMinute int, idle time.Duration) *userLimiter {
	return &userLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    max(perMinute, 1),
		idle:     idle,
		limiters: make(map[string]*limiterEntry),
	}
}

func (l *userLimiter) allow(userID string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > l.idle {
		for id, e := range l.limiters {
			if now.Sub(e.lastSeen) > l.idle {
				delete(l.limiters, id)
			}
		}
		l.lastGC = now
	}

	e, ok := l.limiters[userID]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RateLimitMiddleware rejects requests once the authenticated user spends
// their per-minute budget. A non-positive perMinute disables limiting.
func RateLimitMiddleware(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := newUserLimiter(perMinute, 10*time.Minute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := userID(r)
			if err != nil {
				respondWithError(w, err)
				return
			}
			if !limiter.allow(id) {
				w.Header().Set("Retry-After", "60")
				respondWithError(w, fmt.Errorf("%w: user %s", app_errors.ErrRateLimited, id))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
