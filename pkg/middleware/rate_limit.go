package middleware

import (
	"net/http"
	"sync"
	"time"

	"bookable/pkg/logger"
)

// IdentityRateLimiter applies a sliding window per caller identity.
// Anonymous requests fall back to the remote address.
type IdentityRateLimiter struct {
	mu       sync.Mutex
	windows  map[string][]time.Time
	limit    int
	interval time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
}

func NewIdentityRateLimiter(limit int, interval time.Duration, log *logger.Logger) *IdentityRateLimiter {
	rl := &IdentityRateLimiter{
		windows:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *IdentityRateLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.interval)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	window := rl.windows[key]
	kept := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.limit {
		rl.windows[key] = kept
		return false
	}

	rl.windows[key] = append(kept, now)
	return true
}

func (rl *IdentityRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.interval)
			rl.mu.Lock()
			for key, window := range rl.windows {
				if len(window) == 0 || !window[len(window)-1].After(cutoff) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *IdentityRateLimiter) Stop() {
	close(rl.stopCh)
}

func IdentityRateLimit(rl *IdentityRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := IdentityFrom(r.Context())
			if err != nil {
				key = r.RemoteAddr
			}

			if !rl.Allow(key) {
				rl.log.Warn("Rate limit exceeded",
					"request_id", requestIDFrom(r),
					"key", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
