package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a sliding window of attempts per client address.
// Stale addresses are pruned on the fly, every pruneEvery calls.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
	calls    int
}

const pruneEvery = 256

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records an attempt from addr and reports whether it is within the limit.
func (rl *RateLimiter) Allow(addr string) bool {
	_, ok := rl.reserve(addr)
	return ok
}

// reserve is Allow that also returns how long until the oldest attempt leaves the window.
func (rl *RateLimiter) reserve(addr string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.calls++
	if rl.calls%pruneEvery == 0 {
		rl.prune(cutoff)
	}

	recent := slices.DeleteFunc(rl.attempts[addr], func(t time.Time) bool {
		return !t.After(cutoff)
	})
	if len(recent) >= rl.limit {
		rl.attempts[addr] = recent
		if len(recent) == 0 {
			return rl.window, false
		}
		return recent[0].Sub(cutoff), false
	}

	rl.attempts[addr] = append(recent, now)
	return 0, true
}

func (rl *RateLimiter) prune(cutoff time.Time) {
	for addr, times := range rl.attempts {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(rl.attempts, addr)
		}
	}
}

// RateLimitAuth guards the PIN login: 5 attempts per 15 minutes per client.
func RateLimitAuth() func(http.HandlerFunc) http.HandlerFunc {
	return RateLimit(NewRateLimiter(5, 15*time.Minute))
}

// RateLimit answers 429 with Retry-After once a client exceeds limiter.
func RateLimit(limiter *RateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			addr := getClientIP(r)

			wait, ok := limiter.reserve(addr)
			if !ok {
				slog.Warn("rate limit exceeded", "ip", addr, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeJSONError(w, http.StatusTooManyRequests, "too many attempts, try again later")
				return
			}

			next(w, r)
		}
	}
}

// getClientIP prefers proxy headers, then the connection address without its port.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
